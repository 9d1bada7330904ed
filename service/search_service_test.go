package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"cvedex/core"
	"cvedex/search"
	"cvedex/storage"
	"cvedex/util/goroutine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// failingStore fails CountVendors through a mock and blocks FindProducts
// until its context is cancelled.
type failingStore struct {
	storage.Store
	mock.Mock
	cancelled chan struct{}
}

func (s *failingStore) CountVendors(ctx context.Context, filter *search.ASTNode) (int64, error) {
	args := s.Called(filter)
	return args.Get(0).(int64), args.Error(1)
}

func (s *failingStore) FindProducts(ctx context.Context, filter *search.ASTNode, opts storage.FindOptions) ([]core.Product, error) {
	<-ctx.Done()
	close(s.cancelled)
	return nil, ctx.Err()
}

type panickingStore struct {
	storage.Store
}

func (s *panickingStore) FindVendors(ctx context.Context, filter *search.ASTNode, opts storage.FindOptions) ([]core.Vendor, error) {
	var m map[string]int
	m["boom"]++
	return nil, nil
}

func strp(s string) *string { return &s }

func nump(f float64) *search.Number {
	n := search.Number(f)
	return &n
}

func TestGlobalSearch_CountsAcrossKinds(t *testing.T) {
	goroutine.AssertNoLeaks(t)
	svc := NewSearchService(newTestStore(t), testLogger(t))

	res, err := svc.GlobalSearch(context.Background(), "Windows", 1, 20)
	require.NoError(t, err)

	assert.Equal(t, SearchCounts{Vulnerabilities: 1, Vendors: 0, Products: 1, Total: 2}, res.Counts)
	assert.Equal(t, SearchPagination{Page: 1, Limit: 20, TotalPages: 1}, res.Pagination)

	require.Len(t, res.Results.Vulnerabilities, 1)
	assert.Equal(t, "CVE-2023-1001", res.Results.Vulnerabilities[0].CVEID)
	assert.Equal(t, core.SeverityCritical, res.Results.Vulnerabilities[0].Severity)
	assert.Empty(t, res.Results.Vendors)
	assert.NotNil(t, res.Results.Vendors)
	require.Len(t, res.Results.Products, 1)
	assert.Equal(t, "Microsoft", res.Results.Products[0].Vendor.Name)
}

func TestGlobalSearch_TotalPagesUsesGrandTotal(t *testing.T) {
	svc := NewSearchService(newTestStore(t), testLogger(t))

	// "o" hits vulnerabilities, both vendors and every product.
	res, err := svc.GlobalSearch(context.Background(), "o", 1, 2)
	require.NoError(t, err)

	assert.Equal(t, res.Counts.Vulnerabilities+res.Counts.Vendors+res.Counts.Products, res.Counts.Total)
	assert.Equal(t, TotalPages(res.Counts.Total, 2), res.Pagination.TotalPages)
	assert.LessOrEqual(t, len(res.Results.Vulnerabilities), 2)
	assert.LessOrEqual(t, len(res.Results.Products), 2)
}

func TestGlobalSearch_RequiresTerm(t *testing.T) {
	svc := NewSearchService(newTestStore(t), testLogger(t))

	_, err := svc.GlobalSearch(context.Background(), "   ", 1, 20)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}

func TestGlobalSearch_FailsFast(t *testing.T) {
	goroutine.AssertNoLeaks(t)

	sentinel := errors.New("vendors collection unreachable")
	store := &failingStore{Store: newTestStore(t), cancelled: make(chan struct{})}
	store.On("CountVendors", mock.Anything).Return(int64(0), sentinel)

	svc := NewSearchService(store, testLogger(t))
	res, err := svc.GlobalSearch(context.Background(), "Windows", 1, 20)

	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, sentinel)
	assert.ErrorIs(t, err, core.ErrUpstream)

	select {
	case <-store.cancelled:
	default:
		t.Fatal("in-flight fetch was not cancelled")
	}
	store.AssertExpectations(t)
}

func TestGlobalSearch_RecoversPanickingFetch(t *testing.T) {
	svc := NewSearchService(&panickingStore{Store: newTestStore(t)}, testLogger(t))

	res, err := svc.GlobalSearch(context.Background(), "Windows", 1, 20)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Contains(t, err.Error(), "find_vendors")
}

func TestAdvancedSearch(t *testing.T) {
	svc := NewSearchService(newTestStore(t), testLogger(t))
	ctx := context.Background()

	t.Run("empty criteria", func(t *testing.T) {
		_, err := svc.AdvancedSearch(ctx, search.Criteria{}, 1, 20)
		assert.ErrorIs(t, err, core.ErrInvalidArgument)
	})

	t.Run("min score only", func(t *testing.T) {
		page, err := svc.AdvancedSearch(ctx, search.Criteria{MinScore: nump(8)}, 1, 20)
		require.NoError(t, err)
		require.Len(t, page.Items, 3)
		for _, v := range page.Items {
			require.NotNil(t, v.CVSSScore)
			assert.GreaterOrEqual(t, *v.CVSSScore, 8.0)
		}
		assert.Equal(t, int64(3), page.Pagination.Total)
	})

	t.Run("severity band narrowed by min score", func(t *testing.T) {
		page, err := svc.AdvancedSearch(ctx, search.Criteria{Severity: strp("HIGH"), MinScore: nump(8)}, 1, 20)
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "CVE-2024-0005", page.Items[0].CVEID)
		assert.Equal(t, core.SeverityHigh, page.Items[0].Severity)
	})

	t.Run("vendor and date window", func(t *testing.T) {
		page, err := svc.AdvancedSearch(ctx, search.Criteria{
			Vendor:    strp("microsoft"),
			StartDate: strp("2024-01-01"),
		}, 1, 20)
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "CVE-2024-1002", page.Items[0].CVEID)
	})

	t.Run("newest first", func(t *testing.T) {
		page, err := svc.AdvancedSearch(ctx, search.Criteria{Description: strp("")}, 1, 3)
		require.NoError(t, err)
		require.Len(t, page.Items, 3)
		assert.Equal(t, "CVE-2024-0005", page.Items[0].CVEID)
		assert.Equal(t, int64(6), page.Pagination.Total)
		assert.Equal(t, int64(2), page.Pagination.TotalPages)
	})

	t.Run("bad date", func(t *testing.T) {
		_, err := svc.AdvancedSearch(ctx, search.Criteria{EndDate: strp("yesterday")}, 1, 20)
		assert.ErrorIs(t, err, core.ErrInvalidArgument)
	})
}

func TestSuggestions_VendorKindOnly(t *testing.T) {
	svc := NewSearchService(newTestStore(t), testLogger(t))

	got, err := svc.Suggestions(context.Background(), "mic", SuggestVendor, 0)
	require.NoError(t, err)

	raw, err := json.Marshal(got)
	require.NoError(t, err)
	var keys map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &keys))
	assert.Len(t, keys, 1)
	assert.Contains(t, keys, "vendors")

	require.NotNil(t, got.Vendors)
	require.NotEmpty(t, *got.Vendors)
	for _, v := range *got.Vendors {
		assert.True(t, strings.HasPrefix(strings.ToLower(v.Name), "mic"))
	}
}

func TestSuggestions_AllKinds(t *testing.T) {
	svc := NewSearchService(newTestStore(t), testLogger(t))

	got, err := svc.Suggestions(context.Background(), "CVE-2023", SuggestAll, 1)
	require.NoError(t, err)

	require.NotNil(t, got.Vulnerabilities)
	assert.Len(t, *got.Vulnerabilities, 1)
	require.NotNil(t, got.Vendors)
	assert.Empty(t, *got.Vendors)
	require.NotNil(t, got.Products)
	assert.Empty(t, *got.Products)

	raw, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{"vulnerabilities":[{"cveId":"CVE-2023-1001"}],"vendors":[],"products":[]}`, string(raw))
}

func TestSuggestions_RequiresPrefix(t *testing.T) {
	svc := NewSearchService(newTestStore(t), testLogger(t))
	_, err := svc.Suggestions(context.Background(), "", SuggestAll, 10)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}

func TestParseSuggestionKind(t *testing.T) {
	tests := []struct {
		in      string
		want    SuggestionKind
		wantErr bool
	}{
		{"", SuggestAll, false},
		{"ALL", SuggestAll, false},
		{"vulnerability", SuggestVulnerability, false},
		{"cve", SuggestVulnerability, false},
		{"vendor", SuggestVendor, false},
		{"products", SuggestProduct, false},
		{"cwe", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSuggestionKind(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, core.ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
