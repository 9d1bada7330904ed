package storage

import (
	"context"

	"cvedex/core"
	"cvedex/search"
)

// SortField orders results by one field. Records missing the field sort
// before every present value.
type SortField struct {
	Field string
	Desc  bool
}

// FindOptions controls ordering, paging and projection of a Find call.
// Limit <= 0 means no limit. Fields, when set, restricts the returned
// attributes; backends that cannot project return whole records.
type FindOptions struct {
	Sort   []SortField
	Skip   int64
	Limit  int64
	Fields []string
}

// VulnerabilityStore is the read contract over vulnerability records.
type VulnerabilityStore interface {
	CountVulnerabilities(ctx context.Context, filter *search.ASTNode) (int64, error)
	FindVulnerabilities(ctx context.Context, filter *search.ASTNode, opts FindOptions) ([]core.Vulnerability, error)
	GetVulnerability(ctx context.Context, cveID string) (*core.Vulnerability, error)
	// AggregateVulnerabilityBuckets groups records with a published date by
	// the period's calendar key. Order is unspecified.
	AggregateVulnerabilityBuckets(ctx context.Context, filter *search.ASTNode, period search.Period) ([]search.Bucket, error)
}

// VendorStore is the read contract over vendors.
type VendorStore interface {
	CountVendors(ctx context.Context, filter *search.ASTNode) (int64, error)
	FindVendors(ctx context.Context, filter *search.ASTNode, opts FindOptions) ([]core.Vendor, error)
	GetVendor(ctx context.Context, id string) (*core.Vendor, error)
}

// ProductStore is the read contract over products. Returned products carry
// only the vendor reference id; resolving the name is the caller's join.
type ProductStore interface {
	CountProducts(ctx context.Context, filter *search.ASTNode) (int64, error)
	FindProducts(ctx context.Context, filter *search.ASTNode, opts FindOptions) ([]core.Product, error)
	GetProduct(ctx context.Context, id string) (*core.Product, error)
}

// Store is the full storage collaborator.
type Store interface {
	VulnerabilityStore
	VendorStore
	ProductStore
	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}
