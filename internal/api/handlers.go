package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/notewell/meetscribe/internal/config"
	"github.com/notewell/meetscribe/internal/session"
	"github.com/notewell/meetscribe/internal/version"
	"github.com/notewell/meetscribe/internal/websocket"
	"github.com/notewell/meetscribe/pkg/logger"
)

// maxFragmentBody bounds a single fragment request; recognizer fragments are
// a few sentences at most.
const maxFragmentBody = 1 << 20

// Handler holds the HTTP handlers.
type Handler struct {
	manager   *session.Manager
	wsServer  *websocket.Server
	config    *config.Config
	logger    *logger.Logger
	startedAt time.Time
}

// NewHandler creates the HTTP handlers.
func NewHandler(manager *session.Manager, wsServer *websocket.Server, cfg *config.Config, log *logger.Logger) *Handler {
	return &Handler{
		manager:   manager,
		wsServer:  wsServer,
		config:    cfg,
		logger:    log.Named("api-handler"),
		startedAt: time.Now().UTC(),
	}
}

// StartSession begins a new recording session, abandoning any active one.
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	s := h.manager.Start()
	h.respondJSON(w, http.StatusCreated, s)
}

// GetActiveSession returns the running session, if any.
func (h *Handler) GetActiveSession(w http.ResponseWriter, r *http.Request) {
	s := h.manager.Active()
	if s == nil {
		h.respondError(w, http.StatusNotFound, "no active recording session")
		return
	}
	h.respondJSON(w, http.StatusOK, s)
}

// AppendFragment adds one finalized recognition fragment to a session and
// returns the updated transcript.
func (h *Handler) AppendFragment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxFragmentBody)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	current, err := h.manager.Append(chi.URLParam(r, "id"), req.Text)
	if err != nil {
		h.respondSessionError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": chi.URLParam(r, "id"),
		"transcript": current,
	})
}

// GetTranscript returns the current deduplicated transcript of a session.
func (h *Handler) GetTranscript(w http.ResponseWriter, r *http.Request) {
	text, err := h.manager.Transcript(chi.URLParam(r, "id"))
	if err != nil {
		h.respondSessionError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": chi.URLParam(r, "id"),
		"transcript": text,
	})
}

// StopSession ends a session, runs the analysis pipeline and returns the
// reconciled result. The request context bounds the model call, so clients
// that give up cancel the extraction with them.
func (h *Handler) StopSession(w http.ResponseWriter, r *http.Request) {
	result, err := h.manager.Stop(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondSessionError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, result)
}

// GetLatestAnalysis returns the most recent completed analysis result.
func (h *Handler) GetLatestAnalysis(w http.ResponseWriter, r *http.Request) {
	result := h.manager.Latest()
	if result == nil {
		h.respondError(w, http.StatusNotFound, "no completed analysis yet")
		return
	}
	h.respondJSON(w, http.StatusOK, result)
}

// HandleWebSocket upgrades the connection for live session events.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	h.wsServer.HandleConnection(w, r)
}

// GetHealth reports service liveness.
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "ok",
		"version":        version.Version,
		"uptime_seconds": int(time.Since(h.startedAt).Seconds()),
		"active_session": h.manager.Active() != nil,
	})
}

// GetConfig returns the running configuration with secrets masked.
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.config.Redacted())
}

// respondSessionError maps session errors onto HTTP statuses.
func (h *Handler) respondSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNoActiveSession):
		h.respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, session.ErrSessionMismatch):
		h.respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, session.ErrSuperseded):
		h.respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, session.ErrNoSpeech):
		h.respondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.logger.Error("Unhandled session error", logger.Error(err))
		h.respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("Failed to encode response", logger.Error(err))
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
