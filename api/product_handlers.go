package api

import (
	"net/http"

	"cvedex/core"

	"github.com/gorilla/mux"
)

// listProducts godoc
//
//	@Summary		List products
//	@Description	Returns a page of products with their vendor names, most CVEs first unless sortBy is given
//	@Tags			products
//	@Produce		json
//	@Param			page		query		int		false	"Page number"	default(1)
//	@Param			limit		query		int		false	"Page size"		default(20)
//	@Param			sortBy		query		string	false	"cveCount, name or lastSeen"
//	@Param			sortOrder	query		string	false	"asc or desc"
//	@Success		200			{object}	service.Page[core.Product]
//	@Failure		400			{object}	ValidationErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/api/products [get]
func (a *API) listProducts(w http.ResponseWriter, r *http.Request) {
	q, ok := a.pageParams(w, r)
	if !ok {
		return
	}
	page, err := a.services.Products.List(r.Context(), q.request())
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	a.respondJSON(w, page, http.StatusOK)
}

// searchProducts godoc
//
//	@Summary		Search products
//	@Description	Case-insensitive substring match on product or vendor name
//	@Tags			products
//	@Produce		json
//	@Param			q		query		string	true	"Search term"
//	@Param			page	query		int		false	"Page number"
//	@Param			limit	query		int		false	"Page size"
//	@Success		200		{object}	service.Page[core.Product]
//	@Failure		400		{object}	ValidationErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/products/search [get]
func (a *API) searchProducts(w http.ResponseWriter, r *http.Request) {
	q, ok := a.searchParams(w, r)
	if !ok {
		return
	}
	page, err := a.services.Products.Search(r.Context(), q.Term, q.Page, q.Limit)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	a.respondJSON(w, page, http.StatusOK)
}

// productSummary godoc
//
//	@Summary		Product summary
//	@Tags			products
//	@Produce		json
//	@Success		200	{object}	service.ProductSummary
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/products/stats/summary [get]
func (a *API) productSummary(w http.ResponseWriter, r *http.Request) {
	a.cachedJSON(w, r, core.GetStatsCacheKey("products:summary"), func() (interface{}, error) {
		return a.services.Products.Summary(r.Context())
	})
}

// getProductByNameAndVendor godoc
//
//	@Summary		Find product by vendor and name
//	@Tags			products
//	@Produce		json
//	@Param			vendorId	path		string	true	"Vendor ID"
//	@Param			productName	path		string	true	"Exact product name"
//	@Success		200			{object}	core.Product
//	@Failure		404			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/api/products/vendor/{vendorId}/name/{productName} [get]
func (a *API) getProductByNameAndVendor(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	p, err := a.services.Products.GetByNameAndVendor(r.Context(), vars["productName"], vars["vendorId"])
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	a.respondJSON(w, p, http.StatusOK)
}

// getProduct godoc
//
//	@Summary		Get product
//	@Tags			products
//	@Produce		json
//	@Param			id	path		string	true	"Product ID"
//	@Success		200	{object}	core.Product
//	@Failure		404	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/products/{id} [get]
func (a *API) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := a.services.Products.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	a.respondJSON(w, p, http.StatusOK)
}

// productVulnerabilities godoc
//
//	@Summary		Vulnerabilities of a product
//	@Tags			products
//	@Produce		json
//	@Param			id		path		string	true	"Product ID"
//	@Param			page	query		int		false	"Page number"
//	@Param			limit	query		int		false	"Page size"
//	@Success		200		{object}	service.Page[core.Vulnerability]
//	@Failure		400		{object}	ValidationErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/products/{id}/cves [get]
func (a *API) productVulnerabilities(w http.ResponseWriter, r *http.Request) {
	q, ok := a.pageParams(w, r)
	if !ok {
		return
	}
	page, err := a.services.Products.Vulnerabilities(r.Context(), mux.Vars(r)["id"], q.Page, q.Limit)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	a.respondJSON(w, page, http.StatusOK)
}

// productVersions godoc
//
//	@Summary		Versions of a product
//	@Tags			products
//	@Produce		json
//	@Param			id	path		string	true	"Product ID"
//	@Success		200	{object}	service.ProductVersions
//	@Failure		404	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/products/{id}/versions [get]
func (a *API) productVersions(w http.ResponseWriter, r *http.Request) {
	v, err := a.services.Products.Versions(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	a.respondJSON(w, v, http.StatusOK)
}

// productStats godoc
//
//	@Summary		Product statistics
//	@Description	Severity distribution, average score, version counts and a 12 month timeline
//	@Tags			products
//	@Produce		json
//	@Param			id	path		string	true	"Product ID"
//	@Success		200	{object}	service.EntityStats
//	@Failure		404	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/products/{id}/stats [get]
func (a *API) productStats(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	a.cachedJSON(w, r, core.GetStatsCacheKey("product:"+id), func() (interface{}, error) {
		return a.services.Products.Stats(r.Context(), id)
	})
}
