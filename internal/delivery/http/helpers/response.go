package helpers

import (
	"encoding/json"
	"errors"
	"net/http"

	"eventhub/internal/domain"
)

// Error codes for API error responses. Use these with WriteJSONError.
const (
	ErrCodeBadRequest      = "bad_request"
	ErrCodeNotFound        = "not_found"
	ErrCodeDuplicateSlug   = "duplicate_slug"
	ErrCodeAlreadyBooked   = "already_booked"
	ErrCodeUnauthorized    = "unauthorized"
	ErrCodeTooManyRequests = "too_many_requests"
	ErrCodeInternalError   = "internal_error"
)

// APIError is the error object in the standardized API response envelope.
// Field names the offending input for validation errors.
// swagger:model APIError
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// APIResponse is the standardized envelope for all API responses.
// On success: Data is set, Error is nil. On error: Data is nil, Error is set.
// swagger:model APIResponse
type APIResponse struct {
	Data  any       `json:"data"`
	Error *APIError `json:"error"`
}

// WriteJSONSuccess sets Content-Type to application/json, writes statusCode, and
// encodes an APIResponse with the given data and error set to nil.
func WriteJSONSuccess(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{Data: data, Error: nil})
}

// WriteJSONError sets Content-Type to application/json, writes statusCode, and
// encodes an APIResponse with data nil and the given error code and message.
func WriteJSONError(w http.ResponseWriter, statusCode int, code, message string) {
	writeAPIError(w, statusCode, &APIError{Code: code, Message: message})
}

func writeAPIError(w http.ResponseWriter, statusCode int, apiErr *APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{Data: nil, Error: apiErr})
}

// ErrorStatus maps a domain error to its HTTP status and API error. ok is false for
// errors with no client-facing meaning, which callers report as 500.
func ErrorStatus(err error) (status int, apiErr *APIError, ok bool) {
	var vErr *domain.ValidationError
	var nfErr *domain.NotFoundError
	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest, &APIError{Code: ErrCodeBadRequest, Message: vErr.Error(), Field: vErr.Field}, true
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest, &APIError{Code: ErrCodeBadRequest, Message: err.Error()}, true
	case errors.Is(err, domain.ErrDuplicateSlug):
		return http.StatusBadRequest, &APIError{Code: ErrCodeDuplicateSlug, Message: domain.ErrDuplicateSlug.Error(), Field: "slug"}, true
	case errors.Is(err, domain.ErrDuplicateBooking):
		return http.StatusBadRequest, &APIError{Code: ErrCodeAlreadyBooked, Message: domain.ErrDuplicateBooking.Error(), Field: "email"}, true
	case errors.As(err, &nfErr):
		return http.StatusNotFound, &APIError{Code: ErrCodeNotFound, Message: nfErr.Error()}, true
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, &APIError{Code: ErrCodeNotFound, Message: "not found"}, true
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, &APIError{Code: ErrCodeUnauthorized, Message: "unauthorized"}, true
	}
	return http.StatusInternalServerError, &APIError{Code: ErrCodeInternalError, Message: "internal server error"}, false
}

// WriteDomainError writes the response for err as mapped by ErrorStatus and reports whether
// err was unexpected (a 500) so the caller can log it.
func WriteDomainError(w http.ResponseWriter, err error) (unexpected bool) {
	status, apiErr, ok := ErrorStatus(err)
	writeAPIError(w, status, apiErr)
	return !ok
}
