// Package api cvedex vulnerability index API
//
//	@title			cvedex API
//	@version		1.0
//	@description	Read-only search and analytics over CVE records, vendors and products
//
// @license.name	MIT
// @license.url	https://opensource.org/licenses/MIT
//
// @host		localhost:5000
// @BasePath	/
package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"cvedex/config"
	"cvedex/core"
	"cvedex/search"
	"cvedex/service"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	_ "cvedex/docs"
)

// rateLimiterEntry holds a rate limiter with last seen time
type rateLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// VulnerabilityReader serves vulnerability reads
type VulnerabilityReader interface {
	List(ctx context.Context, req service.PageRequest) (*service.Page[core.Vulnerability], error)
	Get(ctx context.Context, cveID string) (*core.Vulnerability, error)
	BySeverity(ctx context.Context, label string, page, limit int) (*service.Page[core.Vulnerability], error)
	ByProduct(ctx context.Context, productID string, page, limit int) (*service.Page[core.Vulnerability], error)
	ByVendor(ctx context.Context, vendorID string, page, limit int) (*service.Page[core.Vulnerability], error)
	Search(ctx context.Context, term string, page, limit int) (*service.Page[core.Vulnerability], error)
	Summary(ctx context.Context) (*service.VulnerabilitySummary, error)
	Timeline(ctx context.Context, period search.Period, limit int) ([]service.TimelinePoint, error)
}

// VendorReader serves vendor reads
type VendorReader interface {
	List(ctx context.Context, req service.PageRequest) (*service.Page[core.Vendor], error)
	Get(ctx context.Context, id string) (*core.Vendor, error)
	GetByName(ctx context.Context, name string) (*core.Vendor, error)
	Search(ctx context.Context, term string, page, limit int) (*service.Page[core.Vendor], error)
	Products(ctx context.Context, vendorID string, page, limit int) (*service.Page[core.Product], error)
	Summary(ctx context.Context) (*service.VendorSummary, error)
	Stats(ctx context.Context, id string) (*service.EntityStats, error)
}

// ProductReader serves product reads
type ProductReader interface {
	List(ctx context.Context, req service.PageRequest) (*service.Page[core.Product], error)
	Get(ctx context.Context, id string) (*core.Product, error)
	GetByNameAndVendor(ctx context.Context, name, vendorID string) (*core.Product, error)
	Search(ctx context.Context, term string, page, limit int) (*service.Page[core.Product], error)
	Vulnerabilities(ctx context.Context, id string, page, limit int) (*service.Page[core.Vulnerability], error)
	Versions(ctx context.Context, id string) (*service.ProductVersions, error)
	Summary(ctx context.Context) (*service.ProductSummary, error)
	Stats(ctx context.Context, id string) (*service.EntityStats, error)
}

// Searcher serves cross-entity search
type Searcher interface {
	GlobalSearch(ctx context.Context, term string, page, limit int) (*service.GlobalSearchResult, error)
	AdvancedSearch(ctx context.Context, criteria search.Criteria, page, limit int) (*service.Page[core.Vulnerability], error)
	Suggestions(ctx context.Context, prefix string, kind service.SuggestionKind, limit int) (*service.Suggestions, error)
}

// HealthChecker reports backend reachability
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Services bundles the read services the API exposes
type Services struct {
	Vulnerabilities VulnerabilityReader
	Vendors         VendorReader
	Products        ProductReader
	Search          Searcher
	Health          HealthChecker
}

// API holds the API server
type API struct {
	router         *mux.Router
	server         *http.Server
	serverMu       sync.Mutex
	services       Services
	cache          *core.RedisCache
	config         *config.Config
	logger         *zap.SugaredLogger
	validate       *validator.Validate
	rateLimiters   map[string]*rateLimiterEntry
	rateLimitersMu sync.Mutex
	stopCh         chan struct{}
	stopOnce       sync.Once
}

// NewAPI creates a new API server. cache may be nil, which disables
// response caching.
func NewAPI(services Services, cache *core.RedisCache, cfg *config.Config, logger *zap.SugaredLogger) *API {
	a := &API{
		router:       mux.NewRouter(),
		services:     services,
		cache:        cache,
		config:       cfg,
		logger:       logger,
		validate:     newValidator(),
		rateLimiters: make(map[string]*rateLimiterEntry),
		stopCh:       make(chan struct{}),
	}
	a.setupRoutes()
	go a.cleanupRateLimiters()
	return a
}

// setupRoutes sets up the API routes. Fixed paths are registered before
// the parameterized ones they would otherwise be captured by.
func (a *API) setupRoutes() {
	a.router.Use(a.requestLoggingMiddleware)
	a.router.Use(a.metricsMiddleware)
	a.router.Use(a.corsMiddleware)

	api := a.router.PathPrefix("/api").Subrouter()
	api.Use(a.rateLimitMiddleware)

	cves := api.PathPrefix("/cves").Subrouter()
	cves.HandleFunc("", a.listVulnerabilities).Methods("GET")
	cves.HandleFunc("/search", a.searchVulnerabilities).Methods("GET")
	cves.HandleFunc("/stats/summary", a.vulnerabilitySummary).Methods("GET")
	cves.HandleFunc("/stats/timeline", a.vulnerabilityTimeline).Methods("GET")
	cves.HandleFunc("/severity/{severity}", a.vulnerabilitiesBySeverity).Methods("GET")
	cves.HandleFunc("/product/{productId}", a.vulnerabilitiesByProduct).Methods("GET")
	cves.HandleFunc("/vendor/{vendorId}", a.vulnerabilitiesByVendor).Methods("GET")
	cves.HandleFunc("/{cveId}", a.getVulnerability).Methods("GET")

	vendors := api.PathPrefix("/vendors").Subrouter()
	vendors.HandleFunc("", a.listVendors).Methods("GET")
	vendors.HandleFunc("/search", a.searchVendors).Methods("GET")
	vendors.HandleFunc("/stats/summary", a.vendorSummary).Methods("GET")
	vendors.HandleFunc("/name/{name}", a.getVendorByName).Methods("GET")
	vendors.HandleFunc("/{id}", a.getVendor).Methods("GET")
	vendors.HandleFunc("/{id}/products", a.vendorProducts).Methods("GET")
	vendors.HandleFunc("/{id}/stats", a.vendorStats).Methods("GET")

	products := api.PathPrefix("/products").Subrouter()
	products.HandleFunc("", a.listProducts).Methods("GET")
	products.HandleFunc("/search", a.searchProducts).Methods("GET")
	products.HandleFunc("/stats/summary", a.productSummary).Methods("GET")
	products.HandleFunc("/vendor/{vendorId}/name/{productName}", a.getProductByNameAndVendor).Methods("GET")
	products.HandleFunc("/{id}", a.getProduct).Methods("GET")
	products.HandleFunc("/{id}/cves", a.productVulnerabilities).Methods("GET")
	products.HandleFunc("/{id}/versions", a.productVersions).Methods("GET")
	products.HandleFunc("/{id}/stats", a.productStats).Methods("GET")

	api.HandleFunc("/search", a.globalSearch).Methods("GET")
	api.HandleFunc("/search/advanced", a.advancedSearch).Methods("POST")
	api.HandleFunc("/search/suggestions", a.suggestions).Methods("GET")

	a.router.HandleFunc("/health", a.healthCheck).Methods("GET")
	a.router.Handle("/metrics", promhttp.Handler())

	// Swagger UI
	a.router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	a.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.respondError(w, http.StatusNotFound, "Route not found", nil)
	})

	// Subrouters resolve method mismatches on their own, so each needs the handler
	methodNotAllowed := http.HandlerFunc(a.methodNotAllowed)
	a.router.MethodNotAllowedHandler = methodNotAllowed
	for _, sub := range []*mux.Router{api, cves, vendors, products} {
		sub.MethodNotAllowedHandler = methodNotAllowed
	}
}

func (a *API) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	a.respondError(w, http.StatusMethodNotAllowed, fmt.Sprintf("Method %s not allowed on %s", r.Method, r.URL.Path), nil)
}

// Handler exposes the router, mainly for tests
func (a *API) Handler() http.Handler {
	return a.router
}

// Start starts the API server. It returns http.ErrServerClosed once Stop
// has been called, including when Stop ran first.
func (a *API) Start(port int) error {
	a.serverMu.Lock()
	select {
	case <-a.stopCh:
		a.serverMu.Unlock()
		return http.ErrServerClosed
	default:
	}
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	a.server = server
	a.serverMu.Unlock()

	return server.ListenAndServe()
}

// Stop stops the API server
func (a *API) Stop(ctx context.Context) error {
	a.serverMu.Lock()
	a.stopOnce.Do(func() { close(a.stopCh) })
	server := a.server
	a.serverMu.Unlock()

	if server != nil {
		return server.Shutdown(ctx)
	}
	return nil
}
