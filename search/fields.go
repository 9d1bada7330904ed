package search

import (
	"time"

	"cvedex/core"
)

// Vulnerability fields
const (
	FieldCVEID            = "cveId"
	FieldDescription      = "description"
	FieldCVSSScore        = "cvssScore"
	FieldPublishedDate    = "publishedDate"
	FieldAffectedVendor   = "affectedProducts.vendor"
	FieldAffectedProduct  = "affectedProducts.product"
	FieldAffectedVendorNm = "affectedProducts.vendorName"
	FieldAffectedProdNm   = "affectedProducts.productName"
	FieldCWEID            = "problemType.cweId"
)

// Vendor and product fields
const (
	FieldID         = "_id"
	FieldName       = "name"
	FieldVendorName = "vendorName"
	FieldVendorRef  = "vendor"
	FieldCVECount   = "cveCount"
	FieldProdCount  = "productCount"
	FieldLastSeen   = "lastSeen"
	FieldFirstSeen  = "firstSeen"
)

// Record exposes the values of a field. Fields that traverse a list yield
// one value per element; a condition holds when any value satisfies it.
type Record interface {
	FieldValues(field string) []interface{}
}

type vulnerabilityRecord struct{ v *core.Vulnerability }

// VulnerabilityRecord adapts a vulnerability for predicate evaluation.
func VulnerabilityRecord(v *core.Vulnerability) Record {
	return vulnerabilityRecord{v}
}

func (r vulnerabilityRecord) FieldValues(field string) []interface{} {
	v := r.v
	switch field {
	case FieldCVEID:
		return one(v.CVEID)
	case FieldDescription:
		return one(v.Description)
	case FieldCVSSScore:
		if v.CVSSScore == nil {
			return nil
		}
		return one(*v.CVSSScore)
	case FieldPublishedDate:
		return timeValues(v.PublishedDate)
	case FieldCWEID:
		out := make([]interface{}, 0, len(v.ProblemType))
		for _, p := range v.ProblemType {
			out = append(out, p.CWEID)
		}
		return out
	case FieldAffectedVendor, FieldAffectedProduct, FieldAffectedVendorNm, FieldAffectedProdNm:
		out := make([]interface{}, 0, len(v.AffectedProducts))
		for _, ap := range v.AffectedProducts {
			switch field {
			case FieldAffectedVendor:
				out = append(out, ap.Vendor)
			case FieldAffectedProduct:
				out = append(out, ap.Product)
			case FieldAffectedVendorNm:
				out = append(out, ap.VendorName)
			default:
				out = append(out, ap.ProductName)
			}
		}
		return out
	}
	return nil
}

type vendorRecord struct{ v *core.Vendor }

// VendorRecord adapts a vendor for predicate evaluation.
func VendorRecord(v *core.Vendor) Record {
	return vendorRecord{v}
}

func (r vendorRecord) FieldValues(field string) []interface{} {
	switch field {
	case FieldID:
		return one(r.v.ID)
	case FieldName:
		return one(r.v.Name)
	case FieldCVECount:
		return one(float64(r.v.CVECount))
	case FieldProdCount:
		return one(float64(r.v.ProductCount))
	case FieldFirstSeen:
		return timeValues(r.v.FirstSeen)
	case FieldLastSeen:
		return timeValues(r.v.LastSeen)
	}
	return nil
}

type productRecord struct{ p *core.Product }

// ProductRecord adapts a product for predicate evaluation.
func ProductRecord(p *core.Product) Record {
	return productRecord{p}
}

func (r productRecord) FieldValues(field string) []interface{} {
	switch field {
	case FieldID:
		return one(r.p.ID)
	case FieldName:
		return one(r.p.Name)
	case FieldVendorName:
		return one(r.p.VendorName)
	case FieldVendorRef:
		return one(r.p.Vendor.ID)
	case FieldCVECount:
		return one(float64(r.p.CVECount))
	case FieldFirstSeen:
		return timeValues(r.p.FirstSeen)
	case FieldLastSeen:
		return timeValues(r.p.LastSeen)
	}
	return nil
}

func one(v interface{}) []interface{} {
	return []interface{}{v}
}

func timeValues(t *time.Time) []interface{} {
	if t == nil {
		return nil
	}
	return one(*t)
}
