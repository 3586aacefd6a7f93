package http

import (
	"encoding/json"
	"net/http"

	"github.com/vantagehq/vantage-auth/internal/auth/service"
	"github.com/vantagehq/vantage-auth/pkg/httpx"
	"github.com/vantagehq/vantage-auth/pkg/slogx"
)

// maxBodyBytes caps request bodies; every payload this service accepts is a
// small JSON document.
const maxBodyBytes = 1 << 20

// decodeJSON reads the request body into dst and writes the 400 itself on
// failure. Returns false when the handler should stop.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		httpx.WriteError(w, http.StatusBadRequest,
			"invalid_request", "request body must be valid JSON")
		return false
	}
	return true
}

// writeServiceError maps a typed service failure onto a status code and the
// standard error body. Anything untyped is a bug and surfaces as a 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	e, ok := service.AsError(err)
	if !ok {
		slogx.FromContext(r.Context()).Error("unhandled service error", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError,
			"server_error", "an unexpected error occurred")
		return
	}

	status := http.StatusInternalServerError
	switch e.Kind {
	case service.KindValidation:
		status = http.StatusBadRequest
	case service.KindUnauthorized:
		status = http.StatusUnauthorized
	case service.KindForbidden:
		status = http.StatusForbidden
	case service.KindNotFound:
		status = http.StatusNotFound
	case service.KindConflict:
		status = http.StatusConflict
	case service.KindPersistence:
		slogx.FromContext(r.Context()).Error("store failure", "err", err)
		status = http.StatusServiceUnavailable
	}

	httpx.WriteJSON(w, status, httpx.ErrorResponse{
		Error:            string(e.Kind),
		ErrorDescription: e.Message,
		Fields:           e.Fields,
	})
}
