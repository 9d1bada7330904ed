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

// summaryTopN is the length of each ranked list in a summary
const summaryTopN = 10

var vendorSortable = map[string]bool{
	search.FieldName:      true,
	search.FieldCVECount:  true,
	search.FieldProdCount: true,
	search.FieldFirstSeen: true,
	search.FieldLastSeen:  true,
}

// VendorService serves read operations over vendors.
type VendorService struct {
	store  storage.Store
	logger *zap.SugaredLogger
	now    func() time.Time
}

// NewVendorService creates a new VendorService instance.
func NewVendorService(store storage.Store, logger *zap.SugaredLogger) *VendorService {
	if store == nil {
		panic("store is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &VendorService{store: store, logger: logger, now: time.Now}
}

// List returns one page of vendors, most affected first by default.
func (s *VendorService) List(ctx context.Context, req PageRequest) (*Page[core.Vendor], error) {
	defer observe("list_vendors", time.Now())
	req = req.normalize()
	opts, err := req.findOptions(vendorSortable, search.FieldCVECount)
	if err != nil {
		return nil, err
	}
	return s.page(ctx, nil, opts, req)
}

// Get looks a vendor up by id
func (s *VendorService) Get(ctx context.Context, id string) (*core.Vendor, error) {
	defer observe("get_vendor", time.Now())
	return s.store.GetVendor(ctx, id)
}

// GetByName returns the first vendor whose name contains name,
// case-insensitively.
func (s *VendorService) GetByName(ctx context.Context, name string) (*core.Vendor, error) {
	defer observe("get_vendor_by_name", time.Now())

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, core.InvalidArgumentf("vendor name is required")
	}
	found, err := s.store.FindVendors(ctx, search.Cond(search.FieldName, search.OpContains, name), storage.FindOptions{Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, core.NotFoundf("vendor named %q", name)
	}
	return &found[0], nil
}

// Search pages vendors whose name contains term.
func (s *VendorService) Search(ctx context.Context, term string, page, limit int) (*Page[core.Vendor], error) {
	defer observe("search_vendors", time.Now())

	term = strings.TrimSpace(term)
	if term == "" {
		return nil, core.InvalidArgumentf("search term q is required")
	}
	req := PageRequest{Page: page, Limit: limit}.normalize()
	return s.page(ctx, search.Cond(search.FieldName, search.OpContains, term), storage.FindOptions{
		Sort:  []storage.SortField{{Field: search.FieldCVECount, Desc: true}},
		Skip:  req.offset(),
		Limit: int64(req.Limit),
	}, req)
}

// Products pages the products of a vendor. An unknown vendor yields an
// empty page.
func (s *VendorService) Products(ctx context.Context, vendorID string, page, limit int) (*Page[core.Product], error) {
	defer observe("vendor_products", time.Now())

	req := PageRequest{Page: page, Limit: limit}.normalize()
	filter := search.Cond(search.FieldVendorRef, search.OpEquals, vendorID)

	total, err := s.store.CountProducts(ctx, filter)
	if err != nil {
		return nil, err
	}
	items, err := s.store.FindProducts(ctx, filter, storage.FindOptions{
		Sort:  []storage.SortField{{Field: search.FieldCVECount, Desc: true}},
		Skip:  req.offset(),
		Limit: int64(req.Limit),
	})
	if err != nil {
		return nil, err
	}
	out := newPage(items, total, req)
	return &out, nil
}

// VendorSummary is the global vendor overview.
type VendorSummary struct {
	Total            int64         `json:"total"`
	TopByCVE         []core.Vendor `json:"topByCVE"`
	TopByProducts    []core.Vendor `json:"topByProducts"`
	RecentlyAffected []core.Vendor `json:"recentlyAffected"`
}

// Summary returns the vendor count and three top-10 rankings.
func (s *VendorService) Summary(ctx context.Context) (*VendorSummary, error) {
	defer observe("vendor_summary", time.Now())

	total, err := s.store.CountVendors(ctx, nil)
	if err != nil {
		return nil, err
	}
	out := &VendorSummary{Total: total}

	top := func(field string) ([]core.Vendor, error) {
		vs, err := s.store.FindVendors(ctx, nil, storage.FindOptions{
			Sort:  []storage.SortField{{Field: field, Desc: true}},
			Limit: summaryTopN,
		})
		return nonNil(vs), err
	}
	if out.TopByCVE, err = top(search.FieldCVECount); err != nil {
		return nil, err
	}
	if out.TopByProducts, err = top(search.FieldProdCount); err != nil {
		return nil, err
	}
	if out.RecentlyAffected, err = top(search.FieldLastSeen); err != nil {
		return nil, err
	}
	return out, nil
}

// Stats recomputes severity distribution, mean score and a 12-month
// timeline from every vulnerability referencing the vendor.
func (s *VendorService) Stats(ctx context.Context, id string) (*EntityStats, error) {
	defer observe("vendor_stats", time.Now())

	vendor, err := s.store.GetVendor(ctx, id)
	if err != nil {
		return nil, err
	}
	vulns, err := associatedVulnerabilities(ctx, s.store, search.FieldAffectedVendor, vendor.ID)
	if err != nil {
		return nil, err
	}

	productCount := vendor.ProductCount
	stats := &EntityStats{
		Name:         vendor.Name,
		CachedCount:  vendor.CVECount,
		ProductCount: &productCount,
		FirstSeen:    vendor.FirstSeen,
		LastSeen:     vendor.LastSeen,
	}
	computeEntityStats(stats, vulns, s.now())
	return stats, nil
}

func (s *VendorService) page(ctx context.Context, filter *search.ASTNode, opts storage.FindOptions, req PageRequest) (*Page[core.Vendor], error) {
	total, err := s.store.CountVendors(ctx, filter)
	if err != nil {
		return nil, err
	}
	items, err := s.store.FindVendors(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	out := newPage(items, total, req)
	return &out, nil
}
