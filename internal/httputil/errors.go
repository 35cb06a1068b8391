package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/af-corp/autodaily/internal/types"
)

// StatusFor maps an error kind onto its HTTP status class.
func StatusFor(kind types.ErrorKind) int {
	switch kind {
	case types.KindConfigIncomplete, types.KindModeMissing, types.KindInvalidMode, types.KindInvalidRequest:
		return http.StatusBadRequest
	case types.KindInvalidCredentials, types.KindInvalidServiceKey:
		return http.StatusUnauthorized
	case types.KindAccessDenied:
		return http.StatusForbidden
	case types.KindNotFound, types.KindNoDataFound:
		return http.StatusNotFound
	case types.KindQuotaExceeded, types.KindRateLimited:
		return http.StatusTooManyRequests
	case types.KindUpstreamError, types.KindUnexpectedResponse:
		return http.StatusBadGateway
	case types.KindServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WriteJSON writes v with the given status and request ID header.
func WriteJSON(w http.ResponseWriter, requestID string, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	if requestID != "" {
		w.Header().Set("X-Request-ID", requestID)
	}
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// WriteError writes a failed report envelope. sources may be nil.
func WriteError(w http.ResponseWriter, requestID string, err *types.Error, sources *types.Sources) {
	WriteJSON(w, requestID, StatusFor(err.Kind), types.GenerationResponse{
		Success:   false,
		Error:     err.Message,
		Code:      err.Kind,
		Details:   err.Details,
		Sources:   sources,
		RequestID: requestID,
	})
}

// WriteFetchError writes a failed envelope for the direct source endpoints.
func WriteFetchError(w http.ResponseWriter, requestID string, err *types.Error) {
	WriteJSON(w, requestID, StatusFor(err.Kind), types.FetchResponse{
		Success:   false,
		Error:     err.Message,
		Code:      err.Kind,
		Details:   err.Details,
		RequestID: requestID,
	})
}

func WriteBadRequestError(w http.ResponseWriter, requestID, message string) {
	WriteError(w, requestID, types.NewError(types.KindInvalidRequest, message, ""), nil)
}

func WriteRateLimitError(w http.ResponseWriter, requestID, message string) {
	WriteError(w, requestID, types.NewError(types.KindRateLimited, message, ""), nil)
}

func WriteInternalError(w http.ResponseWriter, requestID, message string) {
	WriteError(w, requestID, types.NewError(types.KindInternalError, message, ""), nil)
}
