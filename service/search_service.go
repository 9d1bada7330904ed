package service

import (
	"context"
	"strings"
	"time"

	"cvedex/core"
	"cvedex/metrics"
	"cvedex/search"
	"cvedex/storage"
	"cvedex/util/goroutine"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultSuggestionLimit caps each suggestion kind when no limit is given
const DefaultSuggestionLimit = 10

// SearchService implements global search, advanced search and suggestions.
type SearchService struct {
	store  storage.Store
	logger *zap.SugaredLogger
}

// NewSearchService creates a new SearchService instance.
func NewSearchService(store storage.Store, logger *zap.SugaredLogger) *SearchService {
	if store == nil {
		panic("store is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &SearchService{store: store, logger: logger}
}

// SearchResults holds the per-kind result lists of a global search.
type SearchResults struct {
	Vulnerabilities []core.Vulnerability `json:"vulnerabilities"`
	Vendors         []core.Vendor        `json:"vendors"`
	Products        []core.Product       `json:"products"`
}

// SearchCounts holds the per-kind totals of a global search.
type SearchCounts struct {
	Vulnerabilities int64 `json:"vulnerabilities"`
	Vendors         int64 `json:"vendors"`
	Products        int64 `json:"products"`
	Total           int64 `json:"total"`
}

// SearchPagination is the page descriptor of a global search.
type SearchPagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int64 `json:"totalPages"`
}

// GlobalSearchResult is the merged result of a global search.
type GlobalSearchResult struct {
	Results    SearchResults    `json:"results"`
	Counts     SearchCounts     `json:"counts"`
	Pagination SearchPagination `json:"pagination"`
}

// GlobalSearch matches term against all three entity kinds.
//
// BUSINESS LOGIC:
//  1. Build one substring predicate per kind (vulnerabilities: cveId OR
//     description; vendors: name; products: name OR vendorName)
//  2. Run three counts and three page fetches concurrently, each kind
//     paged independently with the same page and limit
//  3. Join; the first failure cancels the others and fails the call
//  4. Resolve vendor names of the returned products
//
// totalPages is ceil(total/limit) over the grand total even though every
// list is truncated at limit on its own.
//
// ERRORS:
//   - core.ErrInvalidArgument: empty term
//   - core.ErrUpstream: any storage operation failed
func (s *SearchService) GlobalSearch(ctx context.Context, term string, page, limit int) (*GlobalSearchResult, error) {
	defer observe("global_search", time.Now())

	term = strings.TrimSpace(term)
	if term == "" {
		return nil, core.InvalidArgumentf("search term q is required")
	}
	req := PageRequest{Page: page, Limit: limit}.normalize()

	vulnFilter := search.Or(
		search.Cond(search.FieldCVEID, search.OpContains, term),
		search.Cond(search.FieldDescription, search.OpContains, term),
	)
	vendorFilter := search.Cond(search.FieldName, search.OpContains, term)
	productFilter := search.Or(
		search.Cond(search.FieldName, search.OpContains, term),
		search.Cond(search.FieldVendorName, search.OpContains, term),
	)

	var (
		res    GlobalSearchResult
		counts = &res.Counts
		lists  = &res.Results
	)

	g, gctx := errgroup.WithContext(ctx)
	run := func(name string, fn func(ctx context.Context) error) {
		g.Go(func() (err error) {
			defer goroutine.RecoverError(name, s.logger, &err)
			return fn(gctx)
		})
	}

	run("count_vulnerabilities", func(ctx context.Context) (err error) {
		counts.Vulnerabilities, err = s.store.CountVulnerabilities(ctx, vulnFilter)
		return err
	})
	run("find_vulnerabilities", func(ctx context.Context) (err error) {
		lists.Vulnerabilities, err = s.store.FindVulnerabilities(ctx, vulnFilter, storage.FindOptions{
			Sort:  []storage.SortField{{Field: search.FieldPublishedDate, Desc: true}},
			Skip:  req.offset(),
			Limit: int64(req.Limit),
		})
		return err
	})
	run("count_vendors", func(ctx context.Context) (err error) {
		counts.Vendors, err = s.store.CountVendors(ctx, vendorFilter)
		return err
	})
	run("find_vendors", func(ctx context.Context) (err error) {
		lists.Vendors, err = s.store.FindVendors(ctx, vendorFilter, storage.FindOptions{
			Sort:  []storage.SortField{{Field: search.FieldCVECount, Desc: true}},
			Skip:  req.offset(),
			Limit: int64(req.Limit),
		})
		return err
	})
	run("count_products", func(ctx context.Context) (err error) {
		counts.Products, err = s.store.CountProducts(ctx, productFilter)
		return err
	})
	run("find_products", func(ctx context.Context) (err error) {
		lists.Products, err = s.store.FindProducts(ctx, productFilter, storage.FindOptions{
			Sort:  []storage.SortField{{Field: search.FieldCVECount, Desc: true}},
			Skip:  req.offset(),
			Limit: int64(req.Limit),
		})
		return err
	})

	if err := g.Wait(); err != nil {
		metrics.SearchFanoutFailures.Inc()
		s.logger.Warnw("Global search failed", "term", term, "error", err)
		return nil, core.Upstream("global search", err)
	}

	if err := resolveVendors(ctx, s.store, lists.Products); err != nil {
		return nil, core.Upstream("resolve product vendors", err)
	}

	withSeverity(lists.Vulnerabilities)
	lists.Vulnerabilities = nonNil(lists.Vulnerabilities)
	lists.Vendors = nonNil(lists.Vendors)
	lists.Products = nonNil(lists.Products)

	counts.Total = counts.Vulnerabilities + counts.Vendors + counts.Products
	res.Pagination = SearchPagination{
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: TotalPages(counts.Total, req.Limit),
	}
	return &res, nil
}

// AdvancedSearch compiles criteria into one vulnerability predicate and
// returns a page of matches, newest first.
func (s *SearchService) AdvancedSearch(ctx context.Context, criteria search.Criteria, page, limit int) (*Page[core.Vulnerability], error) {
	defer observe("advanced_search", time.Now())

	filter, err := search.Compile(criteria)
	if err != nil {
		return nil, err
	}
	req := PageRequest{Page: page, Limit: limit}.normalize()

	s.logger.Debugw("Advanced search", "filter", filter.String())

	total, err := s.store.CountVulnerabilities(ctx, filter)
	if err != nil {
		return nil, err
	}
	items, err := s.store.FindVulnerabilities(ctx, filter, storage.FindOptions{
		Sort:  []storage.SortField{{Field: search.FieldPublishedDate, Desc: true}},
		Skip:  req.offset(),
		Limit: int64(req.Limit),
	})
	if err != nil {
		return nil, err
	}

	out := newPage(withSeverity(items), total, req)
	return &out, nil
}

// SuggestionKind selects which entity kinds a suggestion lookup covers
type SuggestionKind string

const (
	SuggestAll           SuggestionKind = "all"
	SuggestVulnerability SuggestionKind = "cve"
	SuggestVendor        SuggestionKind = "vendor"
	SuggestProduct       SuggestionKind = "product"
)

// ParseSuggestionKind accepts all, cve, vulnerability, vendor or product.
// Empty input selects all.
func ParseSuggestionKind(s string) (SuggestionKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return SuggestAll, nil
	case "cve", "vulnerability", "vulnerabilities":
		return SuggestVulnerability, nil
	case "vendor", "vendors":
		return SuggestVendor, nil
	case "product", "products":
		return SuggestProduct, nil
	}
	return "", core.InvalidArgumentf("type must be one of all, cve, vendor, product")
}

// VulnerabilitySuggestion projects a vulnerability for autocompletion
type VulnerabilitySuggestion struct {
	CVEID string `json:"cveId"`
}

// VendorSuggestion projects a vendor for autocompletion
type VendorSuggestion struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ProductSuggestion projects a product for autocompletion
type ProductSuggestion struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	VendorName string `json:"vendorName"`
}

// Suggestions carries a key only for each requested kind. A requested
// kind without matches is an empty list, never an absent key.
type Suggestions struct {
	Vulnerabilities *[]VulnerabilitySuggestion `json:"vulnerabilities,omitempty"`
	Vendors         *[]VendorSuggestion        `json:"vendors,omitempty"`
	Products        *[]ProductSuggestion       `json:"products,omitempty"`
}

// Suggestions returns up to limit entities per requested kind whose
// identifying field starts with prefix, case-insensitively.
func (s *SearchService) Suggestions(ctx context.Context, prefix string, kind SuggestionKind, limit int) (*Suggestions, error) {
	defer observe("suggestions", time.Now())

	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil, core.InvalidArgumentf("prefix is required")
	}
	if kind == "" {
		kind = SuggestAll
	}
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}
	opts := func(fields ...string) storage.FindOptions {
		return storage.FindOptions{Limit: int64(limit), Fields: fields}
	}

	out := &Suggestions{}

	if kind == SuggestAll || kind == SuggestVulnerability {
		vs, err := s.store.FindVulnerabilities(ctx,
			search.Cond(search.FieldCVEID, search.OpStartsWith, prefix), opts(search.FieldCVEID))
		if err != nil {
			return nil, err
		}
		list := make([]VulnerabilitySuggestion, len(vs))
		for i, v := range vs {
			list[i] = VulnerabilitySuggestion{CVEID: v.CVEID}
		}
		out.Vulnerabilities = &list
	}

	if kind == SuggestAll || kind == SuggestVendor {
		vs, err := s.store.FindVendors(ctx,
			search.Cond(search.FieldName, search.OpStartsWith, prefix), opts(search.FieldName))
		if err != nil {
			return nil, err
		}
		list := make([]VendorSuggestion, len(vs))
		for i, v := range vs {
			list[i] = VendorSuggestion{ID: v.ID, Name: v.Name}
		}
		out.Vendors = &list
	}

	if kind == SuggestAll || kind == SuggestProduct {
		ps, err := s.store.FindProducts(ctx,
			search.Cond(search.FieldName, search.OpStartsWith, prefix), opts(search.FieldName, search.FieldVendorName))
		if err != nil {
			return nil, err
		}
		list := make([]ProductSuggestion, len(ps))
		for i, p := range ps {
			list[i] = ProductSuggestion{ID: p.ID, Name: p.Name, VendorName: p.VendorName}
		}
		out.Products = &list
	}

	return out, nil
}

func observe(op string, start time.Time) {
	metrics.QueryDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
