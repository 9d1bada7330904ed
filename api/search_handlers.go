package api

import (
	"net/http"

	"cvedex/search"
	"cvedex/service"
)

// globalSearch godoc
//
//	@Summary		Global search
//	@Description	Matches the term against vulnerabilities, vendors and products. Each kind is paged independently.
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search term"
//	@Param			page	query		int		false	"Page number"	default(1)
//	@Param			limit	query		int		false	"Page size"		default(20)
//	@Success		200		{object}	service.GlobalSearchResult
//	@Failure		400		{object}	ValidationErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/search [get]
func (a *API) globalSearch(w http.ResponseWriter, r *http.Request) {
	q, ok := a.searchParams(w, r)
	if !ok {
		return
	}
	res, err := a.services.Search.GlobalSearch(r.Context(), q.Term, q.Page, q.Limit)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	a.respondJSON(w, res, http.StatusOK)
}

// advancedSearch godoc
//
//	@Summary		Advanced search
//	@Description	All supplied criteria must hold. At least one key is required.
//	@Tags			search
//	@Accept			json
//	@Produce		json
//	@Param			criteria	body		search.Criteria	true	"Search criteria"
//	@Param			page		query		int				false	"Page number"	default(1)
//	@Param			limit		query		int				false	"Page size"		default(20)
//	@Success		200			{object}	service.Page[core.Vulnerability]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/api/search/advanced [post]
func (a *API) advancedSearch(w http.ResponseWriter, r *http.Request) {
	q, ok := a.pageParams(w, r)
	if !ok {
		return
	}
	var criteria search.Criteria
	if err := a.decodeJSONBody(w, r, &criteria); err != nil {
		return
	}
	res, err := a.services.Search.AdvancedSearch(r.Context(), criteria, q.Page, q.Limit)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	a.respondJSON(w, res, http.StatusOK)
}

// suggestions godoc
//
//	@Summary		Autocomplete suggestions
//	@Description	Entities whose identifying field starts with the prefix. Only requested kinds appear in the response.
//	@Tags			search
//	@Produce		json
//	@Param			prefix	query		string	true	"Prefix"
//	@Param			type	query		string	false	"all, cve, vendor or product"	default(all)
//	@Param			limit	query		int		false	"Entries per kind"				default(10)
//	@Success		200		{object}	service.Suggestions
//	@Failure		400		{object}	ValidationErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/search/suggestions [get]
func (a *API) suggestions(w http.ResponseWriter, r *http.Request) {
	q, ok := a.suggestionParams(w, r)
	if !ok {
		return
	}
	kind, err := service.ParseSuggestionKind(q.Type)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	res, err := a.services.Search.Suggestions(r.Context(), q.Prefix, kind, q.Limit)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	a.respondJSON(w, res, http.StatusOK)
}
