package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"cvedex/core"
)

// maxErrorMessageLength caps messages sent to clients
const maxErrorMessageLength = 300

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 64 * 1024

var (
	connStringPattern = regexp.MustCompile(`(?:mongodb(?:\+srv)?|redis)://[^\s"']+`)
	privateIPPattern  = regexp.MustCompile(`\b(?:10|127)(?:\.\d{1,3}){3}(?::\d{1,5})?\b|\b192\.168(?:\.\d{1,3}){2}(?::\d{1,5})?\b|\b172\.(?:1[6-9]|2[0-9]|3[01])(?:\.\d{1,3}){2}(?::\d{1,5})?\b`)
	mongoErrPattern   = regexp.MustCompile(`\((?:ServerSelectionError|MongoError)[^\)]*\)`)
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   bool   `json:"error" example:"true"`
	Message string `json:"message" example:"vendor 64b000000000000000000001 not found"`
}

// ValidationErrorResponse lists every rejected query parameter
type ValidationErrorResponse struct {
	Errors []string `json:"errors" example:"limit must be at most 100"`
}

// sanitizeErrorMessage removes connection strings, private addresses and
// driver detail from messages before they reach clients
func sanitizeErrorMessage(message string) string {
	message = connStringPattern.ReplaceAllString(message, "[DATABASE_CONNECTION]")
	message = privateIPPattern.ReplaceAllString(message, "[PRIVATE_IP]")
	message = mongoErrPattern.ReplaceAllString(message, "[DATABASE_ERROR]")

	if len(message) > maxErrorMessageLength {
		message = message[:maxErrorMessageLength-3] + "..."
	}
	return message
}

// respondJSON writes a JSON response with proper error handling
func (a *API) respondJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		a.logger.Errorw("Failed to encode JSON response",
			"error", err,
			"data_type", fmt.Sprintf("%T", data))
	}
}

// respondError logs the full error and writes a sanitized message
func (a *API) respondError(w http.ResponseWriter, statusCode int, message string, err error) {
	if statusCode >= http.StatusInternalServerError {
		a.logger.Errorw(message, "error", err, "status_code", statusCode)
	} else if err != nil {
		a.logger.Debugw(message, "error", err, "status_code", statusCode)
	}
	a.respondJSON(w, ErrorResponse{Error: true, Message: sanitizeErrorMessage(message)}, statusCode)
}

// writeServiceError maps the error taxonomy onto HTTP status codes.
// Upstream and unclassified errors are reported without their detail.
func (a *API) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrInvalidArgument):
		a.respondError(w, http.StatusBadRequest, describe(err, core.ErrInvalidArgument), err)
	case errors.Is(err, core.ErrNotFound):
		a.respondError(w, http.StatusNotFound, describe(err, core.ErrNotFound)+" not found", err)
	case r.Context().Err() != nil && errors.Is(err, r.Context().Err()):
		a.logger.Debugw("Request cancelled by client", "path", r.URL.Path, "error", err)
	default:
		a.respondError(w, http.StatusInternalServerError, "Internal server error", err)
	}
}

// describe strips the category suffix from a classified error
func describe(err, category error) string {
	return strings.TrimSuffix(err.Error(), ": "+category.Error())
}

// decodeJSONBody decodes a JSON request body, rejecting unknown fields and
// bodies over maxBodyBytes
func (a *API) decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	err := decoder.Decode(dst)
	if err == nil {
		return nil
	}

	var syntaxError *json.SyntaxError
	var unmarshalTypeError *json.UnmarshalTypeError
	var maxBytesError *http.MaxBytesError

	switch {
	case errors.As(err, &syntaxError):
		a.respondError(w, http.StatusBadRequest, fmt.Sprintf("Invalid JSON syntax at byte offset %d", syntaxError.Offset), err)
	case errors.As(err, &unmarshalTypeError):
		a.respondError(w, http.StatusBadRequest, fmt.Sprintf("Invalid type for field '%s'", unmarshalTypeError.Field), err)
	case errors.As(err, &maxBytesError):
		a.respondError(w, http.StatusRequestEntityTooLarge, "Request body too large", err)
	case strings.HasPrefix(err.Error(), "json: unknown field"):
		a.respondError(w, http.StatusBadRequest, "JSON contains "+strings.TrimPrefix(err.Error(), "json: "), err)
	default:
		a.respondError(w, http.StatusBadRequest, "Invalid JSON body", err)
	}
	return err
}
