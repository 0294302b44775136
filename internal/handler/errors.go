package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkordes/gift-catalog/internal/domain"
)

// Error codes returned in the "code" field of an error body.
const (
	codeNotFound         = "not_found"
	codeAlreadyExists    = "already_exists"
	codeConflict         = "conflict"
	codeRequiredField    = "required_field"
	codeInvalidValue     = "invalid_value"
	codeInvalidField     = "invalid_field"
	codeNoFieldsToUpdate = "no_fields_to_update"
	codeBadRequest       = "bad_request"
	codeTooLarge         = "payload_too_large"
	codeInternal         = "internal_error"
)

// ErrorDetail is the body of every non-2xx response:
//
//	{"error":{"code":"not_found","message":"certificate not found"}}
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps ErrorDetail under the "error" key.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// errorMappings lists the domain sentinels in the order they are matched.
var errorMappings = []struct {
	sentinel error
	status   int
	code     string
}{
	{domain.ErrNotFound, http.StatusNotFound, codeNotFound},
	{domain.ErrAlreadyExists, http.StatusConflict, codeAlreadyExists},
	{domain.ErrConflict, http.StatusConflict, codeConflict},
	{domain.ErrRequiredField, http.StatusUnprocessableEntity, codeRequiredField},
	{domain.ErrInvalidValue, http.StatusUnprocessableEntity, codeInvalidValue},
	{domain.ErrInvalidField, http.StatusUnprocessableEntity, codeInvalidField},
	{domain.ErrNoFieldsToUpdate, http.StatusUnprocessableEntity, codeNoFieldsToUpdate},
}

// writeServiceError maps err to a status and error body. resource names what
// was being looked up, e.g. "certificate", for not-found messages.
// Errors matching no domain sentinel are logged and answered with 500.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error, resource string) {
	for _, m := range errorMappings {
		if !errors.Is(err, m.sentinel) {
			continue
		}
		msg := detail(err, m.sentinel)
		if m.sentinel == domain.ErrNotFound {
			msg = resource + " not found"
		}
		writeError(w, m.status, m.code, msg)
		return
	}

	s.logger.ErrorContext(r.Context(), "unhandled error",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	writeError(w, http.StatusInternalServerError, codeInternal, "internal server error")
}

// writeDecodeError answers a body that could not be decoded.
func writeDecodeError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, codeTooLarge,
			fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
		return
	}
	writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
}

// detail extracts the human-readable part that follows the sentinel in a
// wrapped error.
// e.g. "service.CatalogService.Create: invalid value: price must be greater than 0"
// → "price must be greater than 0"
func detail(err, sentinel error) string {
	msg := err.Error()
	marker := sentinel.Error() + ": "
	if i := strings.LastIndex(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return sentinel.Error()
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON decodes exactly one JSON value from the request body into dst.
// Unknown fields are rejected.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return errors.New("body is required")
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("body must contain a single JSON object")
	}
	return nil
}
