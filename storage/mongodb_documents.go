package storage

import (
	"time"

	"cvedex/core"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection names
const (
	VulnerabilitiesCollection = "cves"
	VendorsCollection         = "vendors"
	ProductsCollection        = "products"
)

type affectedProductDoc struct {
	Product     primitive.ObjectID   `bson:"product"`
	Vendor      primitive.ObjectID   `bson:"vendor"`
	ProductName string               `bson:"productName"`
	VendorName  string               `bson:"vendorName"`
	Versions    []core.VersionStatus `bson:"versions,omitempty"`
}

type vulnerabilityDoc struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty"`
	CVEID            string               `bson:"cveId"`
	Description      string               `bson:"description"`
	CVSSScore        *float64             `bson:"cvssScore,omitempty"`
	CVSSVector       string               `bson:"cvssVector,omitempty"`
	PublishedDate    *time.Time           `bson:"publishedDate,omitempty"`
	LastModifiedDate *time.Time           `bson:"lastModifiedDate,omitempty"`
	ProblemType      []core.ProblemType   `bson:"problemType,omitempty"`
	AffectedProducts []affectedProductDoc `bson:"affectedProducts,omitempty"`
}

func (d *vulnerabilityDoc) toCore() core.Vulnerability {
	v := core.Vulnerability{
		CVEID:            d.CVEID,
		Description:      d.Description,
		CVSSScore:        d.CVSSScore,
		CVSSVector:       d.CVSSVector,
		PublishedDate:    utcPtr(d.PublishedDate),
		LastModifiedDate: utcPtr(d.LastModifiedDate),
		ProblemType:      d.ProblemType,
	}
	if len(d.AffectedProducts) > 0 {
		v.AffectedProducts = make([]core.AffectedProduct, len(d.AffectedProducts))
		for i, ap := range d.AffectedProducts {
			v.AffectedProducts[i] = core.AffectedProduct{
				Product:     hexOrEmpty(ap.Product),
				Vendor:      hexOrEmpty(ap.Vendor),
				ProductName: ap.ProductName,
				VendorName:  ap.VendorName,
				Versions:    ap.Versions,
			}
		}
	}
	return v
}

type vendorDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	ProductCount int                `bson:"productCount"`
	CVECount     int                `bson:"cveCount"`
	FirstSeen    *time.Time         `bson:"firstSeen,omitempty"`
	LastSeen     *time.Time         `bson:"lastSeen,omitempty"`
}

func (d *vendorDoc) toCore() core.Vendor {
	return core.Vendor{
		ID:           hexOrEmpty(d.ID),
		Name:         d.Name,
		ProductCount: d.ProductCount,
		CVECount:     d.CVECount,
		FirstSeen:    utcPtr(d.FirstSeen),
		LastSeen:     utcPtr(d.LastSeen),
	}
}

type productDoc struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty"`
	Name       string               `bson:"name"`
	Vendor     primitive.ObjectID   `bson:"vendor"`
	VendorName string               `bson:"vendorName"`
	CVECount   int                  `bson:"cveCount"`
	Versions   []core.VersionStatus `bson:"versions,omitempty"`
	FirstSeen  *time.Time           `bson:"firstSeen,omitempty"`
	LastSeen   *time.Time           `bson:"lastSeen,omitempty"`
}

func (d *productDoc) toCore() core.Product {
	return core.Product{
		ID:         hexOrEmpty(d.ID),
		Name:       d.Name,
		Vendor:     core.VendorRef{ID: hexOrEmpty(d.Vendor)},
		VendorName: d.VendorName,
		CVECount:   d.CVECount,
		Versions:   d.Versions,
		FirstSeen:  utcPtr(d.FirstSeen),
		LastSeen:   utcPtr(d.LastSeen),
	}
}

type bucketDoc struct {
	ID struct {
		Year  int `bson:"year"`
		Month int `bson:"month"`
		Day   int `bson:"day"`
		Week  int `bson:"week"`
	} `bson:"_id"`
	Count    int      `bson:"count"`
	AvgScore *float64 `bson:"avgScore"`
}

func hexOrEmpty(id primitive.ObjectID) string {
	if id.IsZero() {
		return ""
	}
	return id.Hex()
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
