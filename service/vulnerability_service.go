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

// recentWindow is how far back a vulnerability still counts as recent
const recentWindow = 30 * 24 * time.Hour

var vulnerabilitySortable = map[string]bool{
	search.FieldPublishedDate: true,
	search.FieldCVSSScore:     true,
	search.FieldCVEID:         true,
}

// VulnerabilityService serves read operations over vulnerability records.
type VulnerabilityService struct {
	store  storage.Store
	logger *zap.SugaredLogger
	now    func() time.Time
}

// NewVulnerabilityService creates a new VulnerabilityService instance.
func NewVulnerabilityService(store storage.Store, logger *zap.SugaredLogger) *VulnerabilityService {
	if store == nil {
		panic("store is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &VulnerabilityService{store: store, logger: logger, now: time.Now}
}

// List returns one page of all vulnerabilities, newest first by default.
func (s *VulnerabilityService) List(ctx context.Context, req PageRequest) (*Page[core.Vulnerability], error) {
	defer observe("list_vulnerabilities", time.Now())
	req = req.normalize()
	opts, err := req.findOptions(vulnerabilitySortable, search.FieldPublishedDate)
	if err != nil {
		return nil, err
	}
	return s.page(ctx, nil, opts, req)
}

// Get returns one vulnerability with every affected product joined to its
// product record.
func (s *VulnerabilityService) Get(ctx context.Context, cveID string) (*core.Vulnerability, error) {
	defer observe("get_vulnerability", time.Now())

	cveID = strings.TrimSpace(cveID)
	if cveID == "" {
		return nil, core.InvalidArgumentf("cveId is required")
	}
	v, err := s.store.GetVulnerability(ctx, cveID)
	if err != nil {
		return nil, err
	}
	if err := s.joinProducts(ctx, v); err != nil {
		return nil, err
	}
	return v.WithSeverity(), nil
}

func (s *VulnerabilityService) joinProducts(ctx context.Context, v *core.Vulnerability) error {
	if len(v.AffectedProducts) == 0 {
		return nil
	}
	// The record may be shared with a lookup cache.
	v.AffectedProducts = append([]core.AffectedProduct(nil), v.AffectedProducts...)

	ids := make([]string, 0, len(v.AffectedProducts))
	for _, ap := range v.AffectedProducts {
		if ap.Product != "" {
			ids = append(ids, ap.Product)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	products, err := s.store.FindProducts(ctx, search.Cond(search.FieldID, search.OpIn, ids), storage.FindOptions{
		Fields: []string{search.FieldName, search.FieldVendorName, "versions"},
	})
	if err != nil {
		return err
	}
	byID := make(map[string]*core.ProductSummary, len(products))
	for _, p := range products {
		byID[p.ID] = &core.ProductSummary{ID: p.ID, Name: p.Name, VendorName: p.VendorName, Versions: p.Versions}
	}
	for i := range v.AffectedProducts {
		v.AffectedProducts[i].ProductDetail = byID[v.AffectedProducts[i].Product]
	}
	return nil
}

// BySeverity pages vulnerabilities in a severity band, highest score first.
// A numeric label is a minimum score. An unrecognised label constrains
// nothing.
func (s *VulnerabilityService) BySeverity(ctx context.Context, label string, page, limit int) (*Page[core.Vulnerability], error) {
	defer observe("vulnerabilities_by_severity", time.Now())

	var filter *search.ASTNode
	if r, ok := core.LabelToRange(label); ok {
		filter = search.And(search.ScoreRangeConditions(r)...)
	} else {
		s.logger.Debugw("Unknown severity label, not filtering", "label", label)
	}

	req := PageRequest{Page: page, Limit: limit}.normalize()
	return s.page(ctx, filter, storage.FindOptions{
		Sort: []storage.SortField{
			{Field: search.FieldCVSSScore, Desc: true},
			{Field: search.FieldPublishedDate, Desc: true},
		},
		Skip:  req.offset(),
		Limit: int64(req.Limit),
	}, req)
}

// ByProduct pages the vulnerabilities affecting a product. An unknown
// product yields an empty page.
func (s *VulnerabilityService) ByProduct(ctx context.Context, productID string, page, limit int) (*Page[core.Vulnerability], error) {
	defer observe("vulnerabilities_by_product", time.Now())
	return s.newestFirst(ctx, search.Cond(search.FieldAffectedProduct, search.OpEquals, productID), page, limit)
}

// ByVendor pages the vulnerabilities affecting any product of a vendor. An
// unknown vendor yields an empty page.
func (s *VulnerabilityService) ByVendor(ctx context.Context, vendorID string, page, limit int) (*Page[core.Vulnerability], error) {
	defer observe("vulnerabilities_by_vendor", time.Now())
	return s.newestFirst(ctx, search.Cond(search.FieldAffectedVendor, search.OpEquals, vendorID), page, limit)
}

// Search pages vulnerabilities whose id or description contains term.
func (s *VulnerabilityService) Search(ctx context.Context, term string, page, limit int) (*Page[core.Vulnerability], error) {
	defer observe("search_vulnerabilities", time.Now())

	term = strings.TrimSpace(term)
	if term == "" {
		return nil, core.InvalidArgumentf("search term q is required")
	}
	return s.newestFirst(ctx, search.Or(
		search.Cond(search.FieldDescription, search.OpContains, term),
		search.Cond(search.FieldCVEID, search.OpContains, term),
	), page, limit)
}

// VulnerabilitySummary is the global vulnerability overview.
type VulnerabilitySummary struct {
	Total       int64            `json:"total"`
	BySeverity  map[string]int64 `json:"bySeverity"`
	RecentCount int64            `json:"recentCount"`
}

// Summary counts all records, scored records per band (bands without
// records are omitted) and records published in the last 30 days.
func (s *VulnerabilityService) Summary(ctx context.Context) (*VulnerabilitySummary, error) {
	defer observe("vulnerability_summary", time.Now())

	total, err := s.store.CountVulnerabilities(ctx, nil)
	if err != nil {
		return nil, err
	}

	out := &VulnerabilitySummary{Total: total, BySeverity: map[string]int64{}}
	for _, sev := range core.AllSeverities {
		var filter *search.ASTNode
		if r, ok := core.LabelToRange(sev.String()); ok {
			filter = search.And(search.ScoreRangeConditions(r)...)
		} else {
			filter = search.Cond(search.FieldCVSSScore, search.OpEquals, 0.0)
		}
		n, err := s.store.CountVulnerabilities(ctx, filter)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			out.BySeverity[sev.String()] = n
		}
	}

	since := s.now().UTC().Add(-recentWindow)
	out.RecentCount, err = s.store.CountVulnerabilities(ctx, search.Cond(search.FieldPublishedDate, search.OpGTE, since))
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Timeline returns the limit most recent populated periods, oldest first.
func (s *VulnerabilityService) Timeline(ctx context.Context, period search.Period, limit int) ([]TimelinePoint, error) {
	defer observe("vulnerability_timeline", time.Now())

	if period == "" {
		period = search.PeriodMonth
	}
	if limit > MaxTimelineLimit {
		limit = MaxTimelineLimit
	}
	buckets, err := s.store.AggregateVulnerabilityBuckets(ctx, nil, period)
	if err != nil {
		return nil, err
	}
	return mostRecentBuckets(buckets, period, limit), nil
}

func (s *VulnerabilityService) newestFirst(ctx context.Context, filter *search.ASTNode, page, limit int) (*Page[core.Vulnerability], error) {
	req := PageRequest{Page: page, Limit: limit}.normalize()
	return s.page(ctx, filter, storage.FindOptions{
		Sort:  []storage.SortField{{Field: search.FieldPublishedDate, Desc: true}},
		Skip:  req.offset(),
		Limit: int64(req.Limit),
	}, req)
}

func (s *VulnerabilityService) page(ctx context.Context, filter *search.ASTNode, opts storage.FindOptions, req PageRequest) (*Page[core.Vulnerability], error) {
	total, err := s.store.CountVulnerabilities(ctx, filter)
	if err != nil {
		return nil, err
	}
	items, err := s.store.FindVulnerabilities(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	out := newPage(withSeverity(items), total, req)
	return &out, nil
}

// associatedVulnerabilities fetches score and published date of every
// record referencing an entity through field.
func associatedVulnerabilities(ctx context.Context, store storage.VulnerabilityStore, field, id string) ([]core.Vulnerability, error) {
	return store.FindVulnerabilities(ctx, search.Cond(field, search.OpEquals, id), storage.FindOptions{
		Fields: []string{search.FieldCVSSScore, search.FieldPublishedDate},
	})
}
