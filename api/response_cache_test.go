package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"cvedex/core"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newCachedTestAPI(t *testing.T, services Services) (*API, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	cache := core.NewRedisCache(mr.Addr(), "", 0, 5, zaptest.NewLogger(t).Sugar())
	t.Cleanup(func() { _ = cache.Close() })
	return newTestAPI(t, services, cache, testConfig()), mr
}

func TestResponseCache_SummaryHit(t *testing.T) {
	a, mr := newCachedTestAPI(t, testServices(t))

	first := doRequest(t, a, http.MethodGet, "/api/cves/stats/summary", nil)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	assert.True(t, mr.Exists(core.GetStatsCacheKey("cves:summary")))

	second := doRequest(t, a, http.MethodGet, "/api/cves/stats/summary", nil)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
}

func TestResponseCache_ServesWithoutCallingService(t *testing.T) {
	vendors := &mockVendorReader{}
	services := testServices(t)
	services.Vendors = vendors
	a, mr := newCachedTestAPI(t, services)

	require.NoError(t, mr.Set(core.GetStatsCacheKey("vendor:v1"), `{"name":"Microsoft","cachedCount":2}`))

	rr := doRequest(t, a, http.MethodGet, "/api/vendors/v1/stats", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"name":"Microsoft","cachedCount":2}`, rr.Body.String())
	vendors.AssertNotCalled(t, "Stats", mock.Anything, mock.Anything)
}

func TestResponseCache_ErrorsAreNotCached(t *testing.T) {
	a, mr := newCachedTestAPI(t, testServices(t))

	rr := doRequest(t, a, http.MethodGet, "/api/products/missing/stats", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.False(t, mr.Exists(core.GetStatsCacheKey("product:missing")))
}

func TestResponseCache_TimelineKeyedByQuery(t *testing.T) {
	a, mr := newCachedTestAPI(t, testServices(t))

	doRequest(t, a, http.MethodGet, "/api/cves/stats/timeline?period=month&limit=3", nil)
	doRequest(t, a, http.MethodGet, "/api/cves/stats/timeline?limit=3&period=month", nil)
	doRequest(t, a, http.MethodGet, "/api/cves/stats/timeline?period=day", nil)

	assert.Len(t, mr.Keys(), 2)

	ttl := mr.TTL(mr.Keys()[0])
	assert.Equal(t, time.Minute, ttl)
}

func TestResponseCache_RedisDownFallsThrough(t *testing.T) {
	a, mr := newCachedTestAPI(t, testServices(t))
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req := newRequest(t, http.MethodGet, "/api/vendors/stats/summary").WithContext(ctx)
	rr := serve(a, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"total":2`)
}
