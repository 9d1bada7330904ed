package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"cvedex/core"
	"cvedex/search"
	"go.uber.org/zap"
)

// MemoryStore is an in-memory Store over a fixed dataset. Predicates are
// evaluated record by record, which is fine for fixtures and tests but
// not for production volumes.
type MemoryStore struct {
	mu              sync.RWMutex
	vulnerabilities []core.Vulnerability
	vendors         []core.Vendor
	products        []core.Product
	evaluator       *search.Evaluator
	logger          *zap.SugaredLogger
}

// NewMemoryStore creates a store over a copy of the dataset.
func NewMemoryStore(ds Dataset, logger *zap.SugaredLogger) *MemoryStore {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	s := &MemoryStore{
		vulnerabilities: append([]core.Vulnerability(nil), ds.Vulnerabilities...),
		vendors:         append([]core.Vendor(nil), ds.Vendors...),
		products:        append([]core.Product(nil), ds.Products...),
		evaluator:       search.NewEvaluator(),
		logger:          logger,
	}
	logger.Infow("In-memory store loaded",
		"vulnerabilities", len(s.vulnerabilities),
		"vendors", len(s.vendors),
		"products", len(s.products))
	return s
}

// HealthCheck always succeeds
func (s *MemoryStore) HealthCheck(ctx context.Context) error {
	return ctx.Err()
}

// Close is a no-op
func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

// selectRecords filters, sorts and pages n records addressed by index.
func (s *MemoryStore) selectRecords(ctx context.Context, n int, rec func(i int) search.Record, filter *search.ASTNode, opts FindOptions) ([]int, error) {
	if err := filter.Validate(); err != nil {
		return nil, core.InvalidArgumentf("invalid filter: %v", err)
	}

	idx := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if s.evaluator.Matches(filter, rec(i)) {
			idx = append(idx, i)
		}
	}

	if len(opts.Sort) > 0 {
		sort.SliceStable(idx, func(a, b int) bool {
			ra, rb := rec(idx[a]), rec(idx[b])
			for _, f := range opts.Sort {
				c := compareField(ra.FieldValues(f.Field), rb.FieldValues(f.Field))
				if c == 0 {
					continue
				}
				if f.Desc {
					return c > 0
				}
				return c < 0
			}
			return false
		})
	}

	if opts.Skip > 0 {
		if opts.Skip >= int64(len(idx)) {
			return nil, nil
		}
		idx = idx[opts.Skip:]
	}
	if opts.Limit > 0 && opts.Limit < int64(len(idx)) {
		idx = idx[:opts.Limit]
	}
	return idx, nil
}

func (s *MemoryStore) count(ctx context.Context, n int, rec func(i int) search.Record, filter *search.ASTNode) (int64, error) {
	idx, err := s.selectRecords(ctx, n, rec, filter, FindOptions{})
	if err != nil {
		return 0, err
	}
	return int64(len(idx)), nil
}

func (s *MemoryStore) vulnerabilityAt(i int) search.Record {
	return search.VulnerabilityRecord(&s.vulnerabilities[i])
}

func (s *MemoryStore) vendorAt(i int) search.Record {
	return search.VendorRecord(&s.vendors[i])
}

func (s *MemoryStore) productAt(i int) search.Record {
	return search.ProductRecord(&s.products[i])
}

// CountVulnerabilities counts records matching filter
func (s *MemoryStore) CountVulnerabilities(ctx context.Context, filter *search.ASTNode) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.count(ctx, len(s.vulnerabilities), s.vulnerabilityAt, filter)
}

// FindVulnerabilities returns one page of matching records
func (s *MemoryStore) FindVulnerabilities(ctx context.Context, filter *search.ASTNode, opts FindOptions) ([]core.Vulnerability, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, err := s.selectRecords(ctx, len(s.vulnerabilities), s.vulnerabilityAt, filter, opts)
	if err != nil {
		return nil, err
	}
	out := make([]core.Vulnerability, len(idx))
	for i, j := range idx {
		out[i] = s.vulnerabilities[j]
	}
	return out, nil
}

// GetVulnerability looks a record up by CVE id
func (s *MemoryStore) GetVulnerability(ctx context.Context, cveID string) (*core.Vulnerability, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.vulnerabilities {
		if s.vulnerabilities[i].CVEID == cveID {
			v := s.vulnerabilities[i]
			return &v, nil
		}
	}
	return nil, core.NotFoundf("vulnerability %s", cveID)
}

// AggregateVulnerabilityBuckets groups dated records by period
func (s *MemoryStore) AggregateVulnerabilityBuckets(ctx context.Context, filter *search.ASTNode, period search.Period) ([]search.Bucket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, err := s.selectRecords(ctx, len(s.vulnerabilities), s.vulnerabilityAt, filter, FindOptions{})
	if err != nil {
		return nil, err
	}

	type acc struct {
		bucket search.Bucket
		sum    float64
		scored int
	}
	groups := make(map[search.Bucket]*acc)
	var order []search.Bucket
	for _, j := range idx {
		v := &s.vulnerabilities[j]
		if v.PublishedDate == nil {
			continue
		}
		key := search.BucketKey(*v.PublishedDate, period)
		a, ok := groups[key]
		if !ok {
			a = &acc{bucket: key}
			groups[key] = a
			order = append(order, key)
		}
		a.bucket.Count++
		if v.CVSSScore != nil {
			a.sum += *v.CVSSScore
			a.scored++
		}
	}

	out := make([]search.Bucket, 0, len(order))
	for _, key := range order {
		a := groups[key]
		b := a.bucket
		if a.scored > 0 {
			b.AvgScore = core.Float(a.sum / float64(a.scored))
		}
		out = append(out, b)
	}
	return out, nil
}

// CountVendors counts vendors matching filter
func (s *MemoryStore) CountVendors(ctx context.Context, filter *search.ASTNode) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.count(ctx, len(s.vendors), s.vendorAt, filter)
}

// FindVendors returns one page of matching vendors
func (s *MemoryStore) FindVendors(ctx context.Context, filter *search.ASTNode, opts FindOptions) ([]core.Vendor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, err := s.selectRecords(ctx, len(s.vendors), s.vendorAt, filter, opts)
	if err != nil {
		return nil, err
	}
	out := make([]core.Vendor, len(idx))
	for i, j := range idx {
		out[i] = s.vendors[j]
	}
	return out, nil
}

// GetVendor looks a vendor up by id
func (s *MemoryStore) GetVendor(ctx context.Context, id string) (*core.Vendor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.vendors {
		if s.vendors[i].ID == id {
			v := s.vendors[i]
			return &v, nil
		}
	}
	return nil, core.NotFoundf("vendor %s", id)
}

// CountProducts counts products matching filter
func (s *MemoryStore) CountProducts(ctx context.Context, filter *search.ASTNode) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.count(ctx, len(s.products), s.productAt, filter)
}

// FindProducts returns one page of matching products
func (s *MemoryStore) FindProducts(ctx context.Context, filter *search.ASTNode, opts FindOptions) ([]core.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, err := s.selectRecords(ctx, len(s.products), s.productAt, filter, opts)
	if err != nil {
		return nil, err
	}
	out := make([]core.Product, len(idx))
	for i, j := range idx {
		p := s.products[j]
		p.Vendor.Name = ""
		out[i] = p
	}
	return out, nil
}

// GetProduct looks a product up by id
func (s *MemoryStore) GetProduct(ctx context.Context, id string) (*core.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.products {
		if s.products[i].ID == id {
			p := s.products[i]
			p.Vendor.Name = ""
			return &p, nil
		}
	}
	return nil, core.NotFoundf("product %s", id)
}

// compareField orders field values the way MongoDB sorts scalars: a
// missing value is lowest, numbers and times compare naturally and
// strings compare lexically.
func compareField(a, b []interface{}) int {
	switch {
	case len(a) == 0 && len(b) == 0:
		return 0
	case len(a) == 0:
		return -1
	case len(b) == 0:
		return 1
	}

	switch av := a[0].(type) {
	case float64:
		if bv, ok := b[0].(float64); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
	case time.Time:
		if bv, ok := b[0].(time.Time); ok {
			return av.Compare(bv)
		}
	case string:
		if bv, ok := b[0].(string); ok {
			return strings.Compare(av, bv)
		}
	}
	return 0
}
