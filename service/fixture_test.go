package service

import (
	"testing"
	"time"

	"cvedex/core"
	"cvedex/storage"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// fixedNow is the clock used by every service under test
var fixedNow = time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)

func at(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
	return &t
}

func affects(productID, vendorID, product, vendor string) []core.AffectedProduct {
	return []core.AffectedProduct{{Product: productID, Vendor: vendorID, ProductName: product, VendorName: vendor}}
}

func testDataset() storage.Dataset {
	return storage.Dataset{
		Vulnerabilities: []core.Vulnerability{
			{CVEID: "CVE-2023-1001", Description: "Windows kernel privilege escalation", CVSSScore: core.Float(9.8),
				PublishedDate: at(2023, time.September, 10), AffectedProducts: affects("p1", "v1", "Windows 10", "Microsoft")},
			{CVEID: "CVE-2024-1002", Description: "Office macro execution", CVSSScore: core.Float(7.2),
				PublishedDate: at(2024, time.February, 1), AffectedProducts: affects("p2", "v1", "Office", "Microsoft")},
			{CVEID: "CVE-2021-44228", Description: "Log4Shell JNDI lookup", CVSSScore: core.Float(10),
				PublishedDate: at(2021, time.December, 10), AffectedProducts: affects("p3", "v2", "log4j", "Apache")},
			{CVEID: "CVE-2023-0003", Description: "Unscored advisory", PublishedDate: at(2023, time.March, 5)},
			{CVEID: "CVE-2023-0004", Description: "Medium issue", CVSSScore: core.Float(5.0), PublishedDate: at(2023, time.July, 20)},
			{CVEID: "CVE-2024-0005", Description: "Parser overflow", CVSSScore: core.Float(8.1), PublishedDate: at(2024, time.June, 1)},
		},
		Vendors: []core.Vendor{
			{ID: "v1", Name: "Microsoft", CVECount: 2, ProductCount: 2,
				FirstSeen: at(2023, time.September, 10), LastSeen: at(2024, time.February, 1)},
			{ID: "v2", Name: "Apache", CVECount: 1, ProductCount: 1,
				FirstSeen: at(2021, time.December, 10), LastSeen: at(2021, time.December, 10)},
		},
		Products: []core.Product{
			{ID: "p1", Name: "Windows 10", Vendor: core.VendorRef{ID: "v1"}, VendorName: "Microsoft", CVECount: 1,
				Versions: []core.VersionStatus{{Version: "21H2", Affected: true}, {Version: "22H2"}, {Version: "1809", Affected: true}},
				LastSeen: at(2023, time.September, 10)},
			{ID: "p2", Name: "Office", Vendor: core.VendorRef{ID: "v1"}, VendorName: "Microsoft", CVECount: 1,
				LastSeen: at(2024, time.February, 1)},
			{ID: "p3", Name: "log4j", Vendor: core.VendorRef{ID: "v2"}, VendorName: "Apache", CVECount: 1,
				LastSeen: at(2021, time.December, 10)},
		},
	}
}

func testLogger(t *testing.T) *zap.SugaredLogger {
	return zaptest.NewLogger(t).Sugar()
}

func newTestStore(t *testing.T) storage.Store {
	return storage.NewMemoryStore(testDataset(), testLogger(t))
}
