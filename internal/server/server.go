package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"warboard/internal/constants"
	"warboard/internal/domain"
	"warboard/internal/service"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

const (
	cacheControl   = "public, s-maxage=5, stale-while-revalidate=10"
	timeoutMessage = "Request timeout - API took too long to respond"
)

type errorBody struct {
	Error string `json:"error"`
}

type messageBody struct {
	Message string `json:"message"`
}

// Handler serves the dashboard JSON API.
type Handler struct {
	fetcher *service.Fetcher
	listing *service.ListingService
	admin   *service.AdminService
	logger  zerolog.Logger
}

func NewHandler(fetcher *service.Fetcher, listing *service.ListingService, admin *service.AdminService, logger zerolog.Logger) *Handler {
	return &Handler{
		fetcher: fetcher,
		listing: listing,
		admin:   admin,
		logger:  logger,
	}
}

func (h *Handler) Register(r *mux.Router) {
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/healthz", h.health).Methods(http.MethodGet)
	api.HandleFunc("/clans", h.clans).Methods(http.MethodGet)
	api.HandleFunc("/clan", h.clan).Methods(http.MethodGet)
	api.HandleFunc("/player", h.player).Methods(http.MethodGet)
	api.HandleFunc("/war", h.war).Methods(http.MethodGet)
	api.HandleFunc("/cwl", h.cwlGroup).Methods(http.MethodGet)
	api.HandleFunc("/cwl/{warTag}", h.cwlWar).Methods(http.MethodGet)
	api.HandleFunc("/warlog", h.warLog).Methods(http.MethodGet)
	api.HandleFunc("/admin", h.adminRoute)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) clans(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	writeJSON(w, http.StatusOK, h.listing.Overview(ctx))
}

func (h *Handler) clan(w http.ResponseWriter, r *http.Request) {
	tag, ok := requireTag(w, r)
	if !ok {
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()

	clan, err := h.fetcher.FetchClan(ctx, tag)
	if err != nil {
		h.fetchFailed(w, r, err, "Failed to fetch clan data")
		return
	}
	w.Header().Set("Cache-Control", cacheControl)
	writeJSON(w, http.StatusOK, clan)
}

func (h *Handler) player(w http.ResponseWriter, r *http.Request) {
	tag, ok := requireTag(w, r)
	if !ok {
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()

	player, err := h.fetcher.FetchPlayer(ctx, tag)
	if err != nil {
		h.fetchFailed(w, r, err, "Failed to fetch player data")
		return
	}
	w.Header().Set("Cache-Control", cacheControl)
	writeJSON(w, http.StatusOK, player)
}

func (h *Handler) war(w http.ResponseWriter, r *http.Request) {
	tag, ok := requireTag(w, r)
	if !ok {
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()

	res, err := h.fetcher.FetchCurrentWar(ctx, tag)
	if err != nil {
		h.fetchFailed(w, r, err, "Failed to fetch war data")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) cwlGroup(w http.ResponseWriter, r *http.Request) {
	tag, ok := requireTag(w, r)
	if !ok {
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()

	res, err := h.fetcher.FetchCWLGroup(ctx, tag)
	if err != nil {
		h.fetchFailed(w, r, err, "Failed to fetch CWL data")
		return
	}
	w.Header().Set("Cache-Control", cacheControl)
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) cwlWar(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	war, err := h.fetcher.FetchCWLWar(ctx, mux.Vars(r)["warTag"])
	if err != nil {
		h.fetchFailed(w, r, err, "Failed to fetch CWL war data")
		return
	}
	w.Header().Set("Cache-Control", cacheControl)
	writeJSON(w, http.StatusOK, war)
}

func (h *Handler) warLog(w http.ResponseWriter, r *http.Request) {
	tag, ok := requireTag(w, r)
	if !ok {
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()

	res, err := h.fetcher.FetchWarLog(ctx, tag)
	if err != nil {
		h.fetchFailed(w, r, err, "Failed to fetch war log")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// fetchFailed maps a fetch error to a status. Upstream details stay in the
// log.
func (h *Handler) fetchFailed(w http.ResponseWriter, r *http.Request, err error, msg string) {
	logger := h.requestLogger(r)

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "tag is required"})
	case domain.IsTimeout(err):
		logger.Warn().Err(err).Str("path", r.URL.Path).Msg("upstream timed out")
		writeJSON(w, http.StatusGatewayTimeout, errorBody{Error: timeoutMessage})
	default:
		logger.Error().Err(err).Str("path", r.URL.Path).Msg(msg)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: msg})
	}
}

func (h *Handler) requestLogger(r *http.Request) *zerolog.Logger {
	if l := zerolog.Ctx(r.Context()); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &h.logger
}

func requireTag(w http.ResponseWriter, r *http.Request) (string, bool) {
	tag := r.URL.Query().Get("tag")
	if tag == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "tag is required"})
		return "", false
	}
	return tag, true
}

func requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), constants.RequestTimeout)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
