package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cvedex/config"
	"cvedex/core"
	"cvedex/service"
	"cvedex/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func at(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
	return &t
}

func testDataset() storage.Dataset {
	return storage.Dataset{
		Vulnerabilities: []core.Vulnerability{
			{CVEID: "CVE-2021-44228", Description: "Log4Shell JNDI lookup", CVSSScore: core.Float(10),
				PublishedDate: at(2021, time.December, 10),
				AffectedProducts: []core.AffectedProduct{{Product: "p2", Vendor: "v2", ProductName: "log4j", VendorName: "Apache"}}},
			{CVEID: "CVE-2023-1001", Description: "Windows kernel privilege escalation", CVSSScore: core.Float(7.8),
				PublishedDate: at(2023, time.September, 10),
				AffectedProducts: []core.AffectedProduct{{Product: "p1", Vendor: "v1", ProductName: "Windows 10", VendorName: "Microsoft"}}},
			{CVEID: "CVE-2023-0003", Description: "Unscored advisory", PublishedDate: at(2023, time.March, 5)},
		},
		Vendors: []core.Vendor{
			{ID: "v1", Name: "Microsoft", CVECount: 1, ProductCount: 1, LastSeen: at(2023, time.September, 10)},
			{ID: "v2", Name: "Apache", CVECount: 1, ProductCount: 1, LastSeen: at(2021, time.December, 10)},
		},
		Products: []core.Product{
			{ID: "p1", Name: "Windows 10", Vendor: core.VendorRef{ID: "v1"}, VendorName: "Microsoft", CVECount: 1,
				Versions: []core.VersionStatus{{Version: "21H2", Affected: true}, {Version: "22H2"}}},
			{ID: "p2", Name: "log4j", Vendor: core.VendorRef{ID: "v2"}, VendorName: "Apache", CVECount: 1},
		},
	}
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.API.AllowedOrigins = []string{"http://localhost:3000"}
	cfg.API.RateLimit.RequestsPerSecond = 1000
	cfg.API.RateLimit.Burst = 1000
	cfg.Redis.TTL = time.Minute
	cfg.Search.DefaultLimit = 20
	cfg.Search.MaxLimit = 100
	return cfg
}

func testServices(t *testing.T) Services {
	t.Helper()
	logger := zaptest.NewLogger(t).Sugar()
	store := storage.NewMemoryStore(testDataset(), logger)
	return Services{
		Vulnerabilities: service.NewVulnerabilityService(store, logger),
		Vendors:         service.NewVendorService(store, logger),
		Products:        service.NewProductService(store, logger),
		Search:          service.NewSearchService(store, logger),
		Health:          store,
	}
}

// setupTestAPI builds an API over the in-memory fixture without a response cache
func setupTestAPI(t *testing.T) *API {
	t.Helper()
	return newTestAPI(t, testServices(t), nil, testConfig())
}

func newTestAPI(t *testing.T, services Services, cache *core.RedisCache, cfg *config.Config) *API {
	t.Helper()
	a := NewAPI(services, cache, cfg, zaptest.NewLogger(t).Sugar())
	t.Cleanup(func() { _ = a.Stop(context.Background()) })
	return a
}

func doRequest(t *testing.T, a *API, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	a.Handler().ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

func TestRoutes_StatusCodes(t *testing.T) {
	a := setupTestAPI(t)

	tests := []struct {
		name   string
		target string
		status int
	}{
		{"list cves", "/api/cves", http.StatusOK},
		{"search cves", "/api/cves/search?q=log4", http.StatusOK},
		{"cve summary", "/api/cves/stats/summary", http.StatusOK},
		{"cve timeline", "/api/cves/stats/timeline?period=week", http.StatusOK},
		{"by severity", "/api/cves/severity/critical", http.StatusOK},
		{"by product", "/api/cves/product/p1", http.StatusOK},
		{"by vendor", "/api/cves/vendor/v1", http.StatusOK},
		{"get cve", "/api/cves/CVE-2021-44228", http.StatusOK},
		{"missing cve", "/api/cves/CVE-1999-0001", http.StatusNotFound},
		{"list vendors", "/api/vendors", http.StatusOK},
		{"vendor summary", "/api/vendors/stats/summary", http.StatusOK},
		{"vendor by name", "/api/vendors/name/micro", http.StatusOK},
		{"vendor by unknown name", "/api/vendors/name/oracle", http.StatusNotFound},
		{"get vendor", "/api/vendors/v1", http.StatusOK},
		{"vendor products", "/api/vendors/v1/products", http.StatusOK},
		{"vendor stats", "/api/vendors/v1/stats", http.StatusOK},
		{"missing vendor stats", "/api/vendors/nope/stats", http.StatusNotFound},
		{"list products", "/api/products", http.StatusOK},
		{"product summary", "/api/products/stats/summary", http.StatusOK},
		{"product by vendor and name", "/api/products/vendor/v1/name/Windows%2010", http.StatusOK},
		{"get product", "/api/products/p1", http.StatusOK},
		{"product cves", "/api/products/p1/cves", http.StatusOK},
		{"product versions", "/api/products/p1/versions", http.StatusOK},
		{"product stats", "/api/products/p1/stats", http.StatusOK},
		{"missing product", "/api/products/nope", http.StatusNotFound},
		{"global search", "/api/search?q=apache", http.StatusOK},
		{"suggestions", "/api/search/suggestions?prefix=CVE-2023", http.StatusOK},
		{"health", "/health", http.StatusOK},
		{"unknown route", "/api/nothing/here", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, a, http.MethodGet, tt.target, nil)
			assert.Equal(t, tt.status, rr.Code, rr.Body.String())
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
		})
	}
}

// Fixed paths must not be captured by the {cveId} and {id} routes.
func TestRoutes_FixedPathsBeforeParameters(t *testing.T) {
	a := setupTestAPI(t)

	rr := doRequest(t, a, http.MethodGet, "/api/cves/stats/summary", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	summary := decodeBody[service.VulnerabilitySummary](t, rr)
	assert.Equal(t, int64(3), summary.Total)

	rr = doRequest(t, a, http.MethodGet, "/api/vendors/search?q=apa", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	vendors := decodeBody[service.Page[core.Vendor]](t, rr)
	require.Len(t, vendors.Items, 1)
	assert.Equal(t, "Apache", vendors.Items[0].Name)
}

func TestGetVulnerability_JoinsProducts(t *testing.T) {
	a := setupTestAPI(t)

	rr := doRequest(t, a, http.MethodGet, "/api/cves/CVE-2023-1001", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	v := decodeBody[core.Vulnerability](t, rr)
	assert.Equal(t, core.SeverityHigh, v.Severity)
	require.Len(t, v.AffectedProducts, 1)
	require.NotNil(t, v.AffectedProducts[0].ProductDetail)
	assert.Equal(t, "Windows 10", v.AffectedProducts[0].ProductDetail.Name)
}

func TestNotFound_MessageNamesEntity(t *testing.T) {
	a := setupTestAPI(t)

	rr := doRequest(t, a, http.MethodGet, "/api/vendors/v9", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)

	body := decodeBody[ErrorResponse](t, rr)
	assert.True(t, body.Error)
	assert.Equal(t, "vendor v9 not found", body.Message)
}

func TestGlobalSearch(t *testing.T) {
	a := setupTestAPI(t)

	t.Run("merged counts", func(t *testing.T) {
		rr := doRequest(t, a, http.MethodGet, "/api/search?q=windows&limit=5", nil)
		require.Equal(t, http.StatusOK, rr.Code)

		res := decodeBody[service.GlobalSearchResult](t, rr)
		assert.Equal(t, int64(1), res.Counts.Vulnerabilities)
		assert.Equal(t, int64(0), res.Counts.Vendors)
		assert.Equal(t, int64(1), res.Counts.Products)
		assert.Equal(t, int64(2), res.Counts.Total)
		assert.Equal(t, 5, res.Pagination.Limit)
		require.Len(t, res.Results.Products, 1)
		assert.Equal(t, "Microsoft", res.Results.Products[0].Vendor.Name)
		assert.NotNil(t, res.Results.Vendors)
	})

	t.Run("missing term", func(t *testing.T) {
		rr := doRequest(t, a, http.MethodGet, "/api/search", nil)
		require.Equal(t, http.StatusBadRequest, rr.Code)
		body := decodeBody[ValidationErrorResponse](t, rr)
		assert.Contains(t, body.Errors, "q is required")
	})
}

func TestAdvancedSearch(t *testing.T) {
	a := setupTestAPI(t)

	t.Run("score lower bound", func(t *testing.T) {
		rr := doRequest(t, a, http.MethodPost, "/api/search/advanced", []byte(`{"minScore": 8}`))
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		page := decodeBody[service.Page[core.Vulnerability]](t, rr)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "CVE-2021-44228", page.Items[0].CVEID)
	})

	t.Run("empty criteria", func(t *testing.T) {
		rr := doRequest(t, a, http.MethodPost, "/api/search/advanced", []byte(`{}`))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		body := decodeBody[ErrorResponse](t, rr)
		assert.True(t, body.Error)
	})

	t.Run("unknown field", func(t *testing.T) {
		rr := doRequest(t, a, http.MethodPost, "/api/search/advanced", []byte(`{"score": 8}`))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "unknown field")
	})

	t.Run("malformed json", func(t *testing.T) {
		rr := doRequest(t, a, http.MethodPost, "/api/search/advanced", []byte(`{"vendor":`))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("invalid date", func(t *testing.T) {
		rr := doRequest(t, a, http.MethodPost, "/api/search/advanced", []byte(`{"startDate":"yesterday"}`))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("get is not allowed", func(t *testing.T) {
		rr := doRequest(t, a, http.MethodGet, "/api/search/advanced", nil)
		assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
		body := decodeBody[ErrorResponse](t, rr)
		assert.Equal(t, "Method GET not allowed on /api/search/advanced", body.Message)
	})
}

func TestMethodNotAllowed(t *testing.T) {
	a := setupTestAPI(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/search"},
		{http.MethodDelete, "/api/cves/CVE-2021-44228"},
		{http.MethodPut, "/api/vendors/v1"},
		{http.MethodPost, "/api/products/p1/stats"},
		{http.MethodPost, "/health"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rr := doRequest(t, a, tt.method, tt.path, nil)
			assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
			assert.True(t, decodeBody[ErrorResponse](t, rr).Error)
		})
	}

	rr := doRequest(t, a, http.MethodGet, "/api/nothing-here", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSuggestions_OnlyRequestedKinds(t *testing.T) {
	a := setupTestAPI(t)

	rr := doRequest(t, a, http.MethodGet, "/api/search/suggestions?prefix=apa&type=vendor", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"vendors":[{"id":"v2","name":"Apache"}]}`, rr.Body.String())
}

func TestHealthCheck_Unavailable(t *testing.T) {
	services := testServices(t)
	services.Health = failingHealth{}
	a := newTestAPI(t, services, nil, testConfig())

	rr := doRequest(t, a, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	body := decodeBody[HealthResponse](t, rr)
	assert.Equal(t, "unavailable", body.Status)
}

func newRequest(t *testing.T, method, target string) *http.Request {
	t.Helper()
	return httptest.NewRequest(method, target, nil)
}

func serve(a *API, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	a.Handler().ServeHTTP(rr, req)
	return rr
}
