package api

import (
	"net/http"
	"strings"

	"cvedex/core"
	"cvedex/search"

	"github.com/gorilla/mux"
)

// listVulnerabilities godoc
//
//	@Summary		List vulnerabilities
//	@Description	Returns a page of vulnerabilities, newest first unless sortBy is given
//	@Tags			cves
//	@Produce		json
//	@Param			page		query		int		false	"Page number"	default(1)
//	@Param			limit		query		int		false	"Page size"		default(20)
//	@Param			sortBy		query		string	false	"publishedDate, cvssScore or cveId"
//	@Param			sortOrder	query		string	false	"asc or desc"
//	@Success		200			{object}	service.Page[core.Vulnerability]
//	@Failure		400			{object}	ValidationErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/api/cves [get]
func (a *API) listVulnerabilities(w http.ResponseWriter, r *http.Request) {
	q, ok := a.pageParams(w, r)
	if !ok {
		return
	}
	page, err := a.services.Vulnerabilities.List(r.Context(), q.request())
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	a.respondJSON(w, page, http.StatusOK)
}

// searchVulnerabilities godoc
//
//	@Summary		Search vulnerabilities
//	@Description	Case-insensitive substring match on CVE id and description
//	@Tags			cves
//	@Produce		json
//	@Param			q		query		string	true	"Search term"
//	@Param			page	query		int		false	"Page number"
//	@Param			limit	query		int		false	"Page size"
//	@Success		200		{object}	service.Page[core.Vulnerability]
//	@Failure		400		{object}	ValidationErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/cves/search [get]
func (a *API) searchVulnerabilities(w http.ResponseWriter, r *http.Request) {
	q, ok := a.searchParams(w, r)
	if !ok {
		return
	}
	page, err := a.services.Vulnerabilities.Search(r.Context(), q.Term, q.Page, q.Limit)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	a.respondJSON(w, page, http.StatusOK)
}

// vulnerabilitySummary godoc
//
//	@Summary		Vulnerability summary
//	@Description	Total count, counts per severity band and the number published in the last 30 days
//	@Tags			cves
//	@Produce		json
//	@Success		200	{object}	service.VulnerabilitySummary
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/cves/stats/summary [get]
func (a *API) vulnerabilitySummary(w http.ResponseWriter, r *http.Request) {
	a.cachedJSON(w, r, core.GetStatsCacheKey("cves:summary"), func() (interface{}, error) {
		return a.services.Vulnerabilities.Summary(r.Context())
	})
}

// vulnerabilityTimeline godoc
//
//	@Summary		Publication timeline
//	@Description	Non-empty buckets of the most recent periods, oldest first
//	@Tags			cves
//	@Produce		json
//	@Param			period	query		string	false	"day, week or month"	default(month)
//	@Param			limit	query		int		false	"Number of buckets"		default(12)
//	@Success		200		{array}		service.TimelinePoint
//	@Failure		400		{object}	ValidationErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/cves/stats/timeline [get]
func (a *API) vulnerabilityTimeline(w http.ResponseWriter, r *http.Request) {
	q, ok := a.timelineParams(w, r)
	if !ok {
		return
	}
	period, err := search.ParsePeriod(q.Period)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	key := core.GetTimelineCacheKey(r.URL.Path, r.URL.Query())
	a.cachedJSON(w, r, key, func() (interface{}, error) {
		return a.services.Vulnerabilities.Timeline(r.Context(), period, q.Limit)
	})
}

// vulnerabilitiesBySeverity godoc
//
//	@Summary		Vulnerabilities by severity
//	@Description	Records whose score falls in the band, highest score first. Unknown labels apply no score constraint.
//	@Tags			cves
//	@Produce		json
//	@Param			severity	path		string	true	"CRITICAL, HIGH, MEDIUM, LOW or NONE"
//	@Param			page		query		int		false	"Page number"
//	@Param			limit		query		int		false	"Page size"
//	@Success		200			{object}	service.Page[core.Vulnerability]
//	@Failure		400			{object}	ValidationErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/api/cves/severity/{severity} [get]
func (a *API) vulnerabilitiesBySeverity(w http.ResponseWriter, r *http.Request) {
	q, ok := a.pageParams(w, r)
	if !ok {
		return
	}
	label := strings.ToUpper(mux.Vars(r)["severity"])
	page, err := a.services.Vulnerabilities.BySeverity(r.Context(), label, q.Page, q.Limit)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	a.respondJSON(w, page, http.StatusOK)
}

// vulnerabilitiesByProduct godoc
//
//	@Summary		Vulnerabilities affecting a product
//	@Tags			cves
//	@Produce		json
//	@Param			productId	path		string	true	"Product ID"
//	@Param			page		query		int		false	"Page number"
//	@Param			limit		query		int		false	"Page size"
//	@Success		200			{object}	service.Page[core.Vulnerability]
//	@Failure		400			{object}	ValidationErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/api/cves/product/{productId} [get]
func (a *API) vulnerabilitiesByProduct(w http.ResponseWriter, r *http.Request) {
	q, ok := a.pageParams(w, r)
	if !ok {
		return
	}
	page, err := a.services.Vulnerabilities.ByProduct(r.Context(), mux.Vars(r)["productId"], q.Page, q.Limit)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	a.respondJSON(w, page, http.StatusOK)
}

// vulnerabilitiesByVendor godoc
//
//	@Summary		Vulnerabilities affecting a vendor
//	@Tags			cves
//	@Produce		json
//	@Param			vendorId	path		string	true	"Vendor ID"
//	@Param			page		query		int		false	"Page number"
//	@Param			limit		query		int		false	"Page size"
//	@Success		200			{object}	service.Page[core.Vulnerability]
//	@Failure		400			{object}	ValidationErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/api/cves/vendor/{vendorId} [get]
func (a *API) vulnerabilitiesByVendor(w http.ResponseWriter, r *http.Request) {
	q, ok := a.pageParams(w, r)
	if !ok {
		return
	}
	page, err := a.services.Vulnerabilities.ByVendor(r.Context(), mux.Vars(r)["vendorId"], q.Page, q.Limit)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	a.respondJSON(w, page, http.StatusOK)
}

// getVulnerability godoc
//
//	@Summary		Get vulnerability
//	@Description	Get a vulnerability by CVE id with its affected products resolved
//	@Tags			cves
//	@Produce		json
//	@Param			cveId	path		string	true	"CVE id"
//	@Success		200		{object}	core.Vulnerability
//	@Failure		404		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/cves/{cveId} [get]
func (a *API) getVulnerability(w http.ResponseWriter, r *http.Request) {
	v, err := a.services.Vulnerabilities.Get(r.Context(), mux.Vars(r)["cveId"])
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	a.respondJSON(w, v, http.StatusOK)
}
