package core

import "time"

// VersionStatus records whether a single product version is affected.
type VersionStatus struct {
	Version  string `json:"version" bson:"version" yaml:"version" example:"2.14.1"`
	Affected bool   `json:"affected" bson:"affected" yaml:"affected" example:"true"`
}

// ProblemType is a weakness classification attached to a vulnerability.
type ProblemType struct {
	CWEID       string `json:"cweId" bson:"cweId" yaml:"cweId" example:"CWE-502"`
	Description string `json:"description,omitempty" bson:"description,omitempty" yaml:"description,omitempty"`
}

// AffectedProduct links a vulnerability to one product of one vendor. The
// reference ids are authoritative; the names are denormalized caches.
type AffectedProduct struct {
	Product     string          `json:"product" bson:"product" yaml:"product"`
	Vendor      string          `json:"vendor" bson:"vendor" yaml:"vendor"`
	ProductName string          `json:"productName" bson:"productName" yaml:"productName" example:"log4j"`
	VendorName  string          `json:"vendorName" bson:"vendorName" yaml:"vendorName" example:"Apache"`
	Versions    []VersionStatus `json:"versions,omitempty" bson:"versions,omitempty" yaml:"versions,omitempty"`

	// ProductDetail is filled by single-record lookups only.
	ProductDetail *ProductSummary `json:"productDetail,omitempty" bson:"-" yaml:"-"`
}

// ProductSummary is the joined view of a product shown inside a vulnerability.
type ProductSummary struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	VendorName string          `json:"vendorName"`
	Versions   []VersionStatus `json:"versions,omitempty"`
}

// Vulnerability is a single CVE record.
type Vulnerability struct {
	CVEID            string            `json:"cveId" bson:"cveId" yaml:"cveId" example:"CVE-2021-44228"`
	Description      string            `json:"description" bson:"description" yaml:"description"`
	CVSSScore        *float64          `json:"cvssScore" bson:"cvssScore,omitempty" yaml:"cvssScore,omitempty" example:"10"`
	CVSSVector       string            `json:"cvssVector,omitempty" bson:"cvssVector,omitempty" yaml:"cvssVector,omitempty"`
	PublishedDate    *time.Time        `json:"publishedDate" bson:"publishedDate,omitempty" yaml:"publishedDate,omitempty"`
	LastModifiedDate *time.Time        `json:"lastModifiedDate,omitempty" bson:"lastModifiedDate,omitempty" yaml:"lastModifiedDate,omitempty"`
	ProblemType      []ProblemType     `json:"problemType,omitempty" bson:"problemType,omitempty" yaml:"problemType,omitempty"`
	AffectedProducts []AffectedProduct `json:"affectedProducts" bson:"affectedProducts,omitempty" yaml:"affectedProducts,omitempty"`

	// Severity is derived from CVSSScore at read time and never stored.
	Severity Severity `json:"severity" bson:"-" yaml:"-" example:"CRITICAL"`
}

// WithSeverity fills the derived severity label.
func (v *Vulnerability) WithSeverity() *Vulnerability {
	v.Severity = Classify(v.CVSSScore)
	return v
}

// VendorRef is a product's reference to its vendor, with the name resolved
// by lookup join when the product is read.
type VendorRef struct {
	ID   string `json:"id" bson:"id" yaml:"id"`
	Name string `json:"name,omitempty" bson:"-" yaml:"-"`
}

// Vendor is a software vendor with cached counters.
type Vendor struct {
	ID           string     `json:"id" bson:"id" yaml:"id"`
	Name         string     `json:"name" bson:"name" yaml:"name" example:"Microsoft"`
	ProductCount int        `json:"productCount" bson:"productCount" yaml:"productCount"`
	CVECount     int        `json:"cveCount" bson:"cveCount" yaml:"cveCount"`
	FirstSeen    *time.Time `json:"firstSeen,omitempty" bson:"firstSeen,omitempty" yaml:"firstSeen,omitempty"`
	LastSeen     *time.Time `json:"lastSeen,omitempty" bson:"lastSeen,omitempty" yaml:"lastSeen,omitempty"`
}

// Product is a software product of one vendor with a cached counter.
type Product struct {
	ID         string          `json:"id" bson:"id" yaml:"id"`
	Name       string          `json:"name" bson:"name" yaml:"name" example:"Windows 10"`
	Vendor     VendorRef       `json:"vendor" bson:"vendor" yaml:"vendor"`
	VendorName string          `json:"vendorName" bson:"vendorName" yaml:"vendorName" example:"Microsoft"`
	CVECount   int             `json:"cveCount" bson:"cveCount" yaml:"cveCount"`
	Versions   []VersionStatus `json:"versions,omitempty" bson:"versions,omitempty" yaml:"versions,omitempty"`
	FirstSeen  *time.Time      `json:"firstSeen,omitempty" bson:"firstSeen,omitempty" yaml:"firstSeen,omitempty"`
	LastSeen   *time.Time      `json:"lastSeen,omitempty" bson:"lastSeen,omitempty" yaml:"lastSeen,omitempty"`
}
