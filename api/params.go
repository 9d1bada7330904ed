package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"cvedex/service"

	"github.com/go-playground/validator/v10"
)

// pageQuery is the page/limit/sort part shared by list endpoints
type pageQuery struct {
	Page      int    `query:"page" validate:"min=1"`
	Limit     int    `query:"limit" validate:"min=1"`
	SortBy    string `query:"sortBy" validate:"omitempty,max=64"`
	SortOrder string `query:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

func (q pageQuery) request() service.PageRequest {
	return service.PageRequest{Page: q.Page, Limit: q.Limit, SortBy: q.SortBy, SortOrder: q.SortOrder}
}

type termQuery struct {
	Term string `query:"q" validate:"required,max=200"`
}

type searchQuery struct {
	termQuery
	pageQuery
}

type timelineQuery struct {
	Period string `query:"period" validate:"omitempty,oneof=day week month"`
	Limit  int    `query:"limit" validate:"min=1,max=60"`
}

type suggestionQuery struct {
	Prefix string `query:"prefix" validate:"required,max=100"`
	Type   string `query:"type" validate:"omitempty,suggestion_kind"`
	Limit  int    `query:"limit" validate:"min=1,max=50"`
}

// newValidator reports fields by their query parameter names
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("query"); name != "" {
			return name
		}
		return f.Name
	})
	// accepts exactly what the search service parses, aliases included
	_ = v.RegisterValidation("suggestion_kind", func(fl validator.FieldLevel) bool {
		_, err := service.ParseSuggestionKind(fl.Field().String())
		return err == nil
	})
	return v
}

// queryErrors collects every problem found in a request's query string
type queryErrors []string

func (e *queryErrors) add(format string, args ...interface{}) {
	*e = append(*e, fmt.Sprintf(format, args...))
}

func (e *queryErrors) intParam(values url.Values, name string, def int) int {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		e.add("%s must be an integer", name)
		return def
	}
	return n
}

// collect appends the messages of a validator error
func (e *queryErrors) collect(err error) {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		if err != nil {
			e.add("%v", err)
		}
		return
	}
	for _, fe := range fieldErrors {
		switch fe.Tag() {
		case "required":
			e.add("%s is required", fe.Field())
		case "min":
			e.add("%s must be at least %s", fe.Field(), fe.Param())
		case "max":
			if fe.Kind() == reflect.String {
				e.add("%s must be at most %s characters", fe.Field(), fe.Param())
			} else {
				e.add("%s must be at most %s", fe.Field(), fe.Param())
			}
		case "oneof":
			e.add("%s must be one of [%s]", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
		case "suggestion_kind":
			e.add("%s must be one of [all, cve, vendor, product]", fe.Field())
		default:
			e.add("%s is invalid", fe.Field())
		}
	}
}

// respond writes a 400 listing the problems. It reports whether there
// were any.
func (a *API) respondQueryErrors(w http.ResponseWriter, errs queryErrors) bool {
	if len(errs) == 0 {
		return false
	}
	a.respondJSON(w, ValidationErrorResponse{Errors: errs}, http.StatusBadRequest)
	return true
}

func (a *API) parsePage(values url.Values, errs *queryErrors) pageQuery {
	q := pageQuery{
		Page:      errs.intParam(values, "page", 1),
		Limit:     errs.intParam(values, "limit", a.config.Search.DefaultLimit),
		SortBy:    strings.TrimSpace(values.Get("sortBy")),
		SortOrder: strings.ToLower(strings.TrimSpace(values.Get("sortOrder"))),
	}
	errs.collect(a.validate.Struct(q))
	if q.Limit > a.config.Search.MaxLimit {
		errs.add("limit must be at most %d", a.config.Search.MaxLimit)
	}
	return q
}

// pageParams parses and validates page, limit, sortBy and sortOrder. It
// writes the 400 itself and returns ok=false on invalid input.
func (a *API) pageParams(w http.ResponseWriter, r *http.Request) (pageQuery, bool) {
	var errs queryErrors
	q := a.parsePage(r.URL.Query(), &errs)
	return q, !a.respondQueryErrors(w, errs)
}

func (a *API) searchParams(w http.ResponseWriter, r *http.Request) (searchQuery, bool) {
	var errs queryErrors
	values := r.URL.Query()
	q := searchQuery{
		termQuery: termQuery{Term: strings.TrimSpace(values.Get("q"))},
		pageQuery: a.parsePage(values, &errs),
	}
	errs.collect(a.validate.Struct(q.termQuery))
	return q, !a.respondQueryErrors(w, errs)
}

func (a *API) timelineParams(w http.ResponseWriter, r *http.Request) (timelineQuery, bool) {
	var errs queryErrors
	values := r.URL.Query()
	q := timelineQuery{
		Period: strings.ToLower(strings.TrimSpace(values.Get("period"))),
		Limit:  errs.intParam(values, "limit", service.DefaultTimelineLimit),
	}
	errs.collect(a.validate.Struct(q))
	return q, !a.respondQueryErrors(w, errs)
}

func (a *API) suggestionParams(w http.ResponseWriter, r *http.Request) (suggestionQuery, bool) {
	var errs queryErrors
	values := r.URL.Query()
	q := suggestionQuery{
		Prefix: strings.TrimSpace(values.Get("prefix")),
		Type:   strings.ToLower(strings.TrimSpace(values.Get("type"))),
		Limit:  errs.intParam(values, "limit", service.DefaultSuggestionLimit),
	}
	errs.collect(a.validate.Struct(q))
	return q, !a.respondQueryErrors(w, errs)
}
