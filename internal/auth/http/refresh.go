package http

import (
	"net/http"

	"github.com/vantagehq/vantage-auth/internal/auth/service"
	"github.com/vantagehq/vantage-auth/pkg/httpx"
)

// RefreshHandler serves POST /v1/auth/refresh.
type RefreshHandler struct {
	AuthService *service.AuthService
}

func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req service.RefreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	bundle, err := h.AuthService.Refresh(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, bundle)
}
