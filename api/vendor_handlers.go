package api

import (
	"net/http"

	"cvedex/core"

	"github.com/gorilla/mux"
)

// listVendors godoc
//
//	@Summary		List vendors
//	@Description	Returns a page of vendors, most CVEs first unless sortBy is given
//	@Tags			vendors
//	@Produce		json
//	@Param			page		query		int		false	"Page number"	default(1)
//	@Param			limit		query		int		false	"Page size"		default(20)
//	@Param			sortBy		query		string	false	"cveCount, productCount, name or lastSeen"
//	@Param			sortOrder	query		string	false	"asc or desc"
//	@Success		200			{object}	service.Page[core.Vendor]
//	@Failure		400			{object}	ValidationErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/api/vendors [get]
func (a *API) listVendors(w http.ResponseWriter, r *http.Request) {
	q, ok := a.pageParams(w, r)
	if !ok {
		return
	}
	page, err := a.services.Vendors.List(r.Context(), q.request())
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	a.respondJSON(w, page, http.StatusOK)
}

// searchVendors godoc
//
//	@Summary		Search vendors
//	@Tags			vendors
//	@Produce		json
//	@Param			q		query		string	true	"Search term"
//	@Param			page	query		int		false	"Page number"
//	@Param			limit	query		int		false	"Page size"
//	@Success		200		{object}	service.Page[core.Vendor]
//	@Failure		400		{object}	ValidationErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/vendors/search [get]
func (a *API) searchVendors(w http.ResponseWriter, r *http.Request) {
	q, ok := a.searchParams(w, r)
	if !ok {
		return
	}
	page, err := a.services.Vendors.Search(r.Context(), q.Term, q.Page, q.Limit)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	a.respondJSON(w, page, http.StatusOK)
}

// vendorSummary godoc
//
//	@Summary		Vendor summary
//	@Description	Total count with the top vendors by CVEs, by products and by most recent activity
//	@Tags			vendors
//	@Produce		json
//	@Success		200	{object}	service.VendorSummary
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/vendors/stats/summary [get]
func (a *API) vendorSummary(w http.ResponseWriter, r *http.Request) {
	a.cachedJSON(w, r, core.GetStatsCacheKey("vendors:summary"), func() (interface{}, error) {
		return a.services.Vendors.Summary(r.Context())
	})
}

// getVendorByName godoc
//
//	@Summary		Find vendor by name
//	@Description	First vendor whose name contains the given text, case-insensitively
//	@Tags			vendors
//	@Produce		json
//	@Param			name	path		string	true	"Vendor name"
//	@Success		200		{object}	core.Vendor
//	@Failure		404		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/vendors/name/{name} [get]
func (a *API) getVendorByName(w http.ResponseWriter, r *http.Request) {
	v, err := a.services.Vendors.GetByName(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	a.respondJSON(w, v, http.StatusOK)
}

// getVendor godoc
//
//	@Summary		Get vendor
//	@Tags			vendors
//	@Produce		json
//	@Param			id	path		string	true	"Vendor ID"
//	@Success		200	{object}	core.Vendor
//	@Failure		404	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/vendors/{id} [get]
func (a *API) getVendor(w http.ResponseWriter, r *http.Request) {
	v, err := a.services.Vendors.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	a.respondJSON(w, v, http.StatusOK)
}

// vendorProducts godoc
//
//	@Summary		Products of a vendor
//	@Tags			vendors
//	@Produce		json
//	@Param			id		path		string	true	"Vendor ID"
//	@Param			page	query		int		false	"Page number"
//	@Param			limit	query		int		false	"Page size"
//	@Success		200		{object}	service.Page[core.Product]
//	@Failure		400		{object}	ValidationErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/vendors/{id}/products [get]
func (a *API) vendorProducts(w http.ResponseWriter, r *http.Request) {
	q, ok := a.pageParams(w, r)
	if !ok {
		return
	}
	page, err := a.services.Vendors.Products(r.Context(), mux.Vars(r)["id"], q.Page, q.Limit)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	a.respondJSON(w, page, http.StatusOK)
}

// vendorStats godoc
//
//	@Summary		Vendor statistics
//	@Description	Severity distribution, average score and a 12 month timeline of the vendor's vulnerabilities
//	@Tags			vendors
//	@Produce		json
//	@Param			id	path		string	true	"Vendor ID"
//	@Success		200	{object}	service.EntityStats
//	@Failure		404	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/vendors/{id}/stats [get]
func (a *API) vendorStats(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	a.cachedJSON(w, r, core.GetStatsCacheKey("vendor:"+id), func() (interface{}, error) {
		return a.services.Vendors.Stats(r.Context(), id)
	})
}
