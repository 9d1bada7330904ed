package service

import (
	"context"
	"strings"
	"time"

	"cvedex/core"
	"cvedex/search"
	"cvedex/storage"

	"go.uber.org/zap"
)

var productSortable = map[string]bool{
	search.FieldName:       true,
	search.FieldVendorName: true,
	search.FieldCVECount:   true,
	search.FieldFirstSeen:  true,
	search.FieldLastSeen:   true,
}

// ProductService serves read operations over products. Every returned
// product has its vendor reference resolved to the vendor's name.
type ProductService struct {
	store  storage.Store
	vulns  *VulnerabilityService
	logger *zap.SugaredLogger
	now    func() time.Time
}

// NewProductService creates a new ProductService instance.
func NewProductService(store storage.Store, logger *zap.SugaredLogger) *ProductService {
	if store == nil {
		panic("store is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &ProductService{
		store:  store,
		vulns:  NewVulnerabilityService(store, logger),
		logger: logger,
		now:    time.Now,
	}
}

// List returns one page of products, most affected first by default.
func (s *ProductService) List(ctx context.Context, req PageRequest) (*Page[core.Product], error) {
	defer observe("list_products", time.Now())
	req = req.normalize()
	opts, err := req.findOptions(productSortable, search.FieldCVECount)
	if err != nil {
		return nil, err
	}
	return s.page(ctx, nil, opts, req)
}

// Get looks a product up by id
func (s *ProductService) Get(ctx context.Context, id string) (*core.Product, error) {
	defer observe("get_product", time.Now())

	p, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.resolveOne(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetByNameAndVendor returns the first product of vendorID whose name
// contains name, case-insensitively.
func (s *ProductService) GetByNameAndVendor(ctx context.Context, name, vendorID string) (*core.Product, error) {
	defer observe("get_product_by_name", time.Now())

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, core.InvalidArgumentf("product name is required")
	}
	found, err := s.store.FindProducts(ctx, search.And(
		search.Cond(search.FieldName, search.OpContains, name),
		search.Cond(search.FieldVendorRef, search.OpEquals, vendorID),
	), storage.FindOptions{Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, core.NotFoundf("product %q of vendor %s", name, vendorID)
	}
	p := found[0]
	if err := s.resolveOne(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Search pages products whose name or vendor name contains term.
func (s *ProductService) Search(ctx context.Context, term string, page, limit int) (*Page[core.Product], error) {
	defer observe("search_products", time.Now())

	term = strings.TrimSpace(term)
	if term == "" {
		return nil, core.InvalidArgumentf("search term q is required")
	}
	req := PageRequest{Page: page, Limit: limit}.normalize()
	return s.page(ctx, search.Or(
		search.Cond(search.FieldName, search.OpContains, term),
		search.Cond(search.FieldVendorName, search.OpContains, term),
	), storage.FindOptions{
		Sort:  []storage.SortField{{Field: search.FieldCVECount, Desc: true}},
		Skip:  req.offset(),
		Limit: int64(req.Limit),
	}, req)
}

// Vulnerabilities pages the vulnerabilities affecting a product.
func (s *ProductService) Vulnerabilities(ctx context.Context, id string, page, limit int) (*Page[core.Vulnerability], error) {
	return s.vulns.ByProduct(ctx, id, page, limit)
}

// ProductVersions is the version list of one product.
type ProductVersions struct {
	ProductName string               `json:"productName"`
	VendorName  string               `json:"vendorName"`
	Versions    []core.VersionStatus `json:"versions"`
}

// Versions returns the product's own version list.
func (s *ProductService) Versions(ctx context.Context, id string) (*ProductVersions, error) {
	defer observe("product_versions", time.Now())

	p, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ProductVersions{
		ProductName: p.Name,
		VendorName:  p.VendorName,
		Versions:    nonNil(p.Versions),
	}, nil
}

// ProductSummary is the global product overview.
type ProductSummary struct {
	Total            int64          `json:"total"`
	TopByCVE         []core.Product `json:"topByCVE"`
	RecentlyAffected []core.Product `json:"recentlyAffected"`
}

// Summary returns the product count and two top-10 rankings.
func (s *ProductService) Summary(ctx context.Context) (*ProductSummary, error) {
	defer observe("product_summary", time.Now())

	total, err := s.store.CountProducts(ctx, nil)
	if err != nil {
		return nil, err
	}
	out := &ProductSummary{Total: total}

	top := func(field string) ([]core.Product, error) {
		ps, err := s.store.FindProducts(ctx, nil, storage.FindOptions{
			Sort:  []storage.SortField{{Field: field, Desc: true}},
			Limit: summaryTopN,
		})
		if err != nil {
			return nil, err
		}
		if err := resolveVendors(ctx, s.store, ps); err != nil {
			return nil, err
		}
		return nonNil(ps), nil
	}
	if out.TopByCVE, err = top(search.FieldCVECount); err != nil {
		return nil, err
	}
	if out.RecentlyAffected, err = top(search.FieldLastSeen); err != nil {
		return nil, err
	}
	return out, nil
}

// Stats recomputes severity distribution, mean score and a 12-month
// timeline from every vulnerability referencing the product, plus version
// coverage from the product's own version list.
func (s *ProductService) Stats(ctx context.Context, id string) (*EntityStats, error) {
	defer observe("product_stats", time.Now())

	product, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.resolveOne(ctx, product); err != nil {
		return nil, err
	}
	vulns, err := associatedVulnerabilities(ctx, s.store, search.FieldAffectedProduct, product.ID)
	if err != nil {
		return nil, err
	}

	// the joined name wins; the denormalized copy covers a missing vendor
	vendor := product.Vendor.Name
	if vendor == "" {
		vendor = product.VendorName
	}

	stats := &EntityStats{
		Name:         product.Name,
		Vendor:       vendor,
		CachedCount:  product.CVECount,
		FirstSeen:    product.FirstSeen,
		LastSeen:     product.LastSeen,
		VersionStats: versionStats(product.Versions),
	}
	computeEntityStats(stats, vulns, s.now())
	return stats, nil
}

func (s *ProductService) resolveOne(ctx context.Context, p *core.Product) error {
	one := []core.Product{*p}
	if err := resolveVendors(ctx, s.store, one); err != nil {
		return err
	}
	p.Vendor.Name = one[0].Vendor.Name
	return nil
}

func (s *ProductService) page(ctx context.Context, filter *search.ASTNode, opts storage.FindOptions, req PageRequest) (*Page[core.Product], error) {
	total, err := s.store.CountProducts(ctx, filter)
	if err != nil {
		return nil, err
	}
	items, err := s.store.FindProducts(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	if err := resolveVendors(ctx, s.store, items); err != nil {
		return nil, err
	}
	out := newPage(items, total, req)
	return &out, nil
}
