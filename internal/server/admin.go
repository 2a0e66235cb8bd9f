package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"warboard/internal/domain"
	"warboard/internal/service"
)

func (h *Handler) adminRoute(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.adminState(w, r)
	case http.MethodPost:
		h.adminAction(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, messageBody{Message: "Method not allowed"})
	}
}

func (h *Handler) adminState(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	state, err := h.admin.State(ctx)
	if err != nil {
		h.requestLogger(r).Error().Err(err).Msg("failed to read admin state")
		writeJSON(w, http.StatusInternalServerError, messageBody{Message: "Internal Server Error"})
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handler) adminAction(w http.ResponseWriter, r *http.Request) {
	var req service.AdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, messageBody{Message: "Invalid request body"})
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	res, err := h.admin.Apply(ctx, req)
	if err != nil {
		h.adminFailed(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) adminFailed(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError

	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, messageBody{Message: verr.Message})
	case errors.Is(err, service.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, messageBody{Message: err.Error()})
	case errors.Is(err, service.ErrAdminNotConfigured):
		writeJSON(w, http.StatusInternalServerError, messageBody{Message: err.Error()})
	case domain.IsTimeout(err):
		h.requestLogger(r).Warn().Err(err).Msg("admin action timed out")
		writeJSON(w, http.StatusGatewayTimeout, messageBody{Message: timeoutMessage})
	default:
		h.requestLogger(r).Error().Err(err).Msg("admin action failed")
		writeJSON(w, http.StatusInternalServerError, messageBody{Message: "Internal Server Error"})
	}
}
