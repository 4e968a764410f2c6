package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/notewell/meetscribe/internal/analysis"
	"github.com/notewell/meetscribe/internal/metrics"
	"github.com/notewell/meetscribe/internal/transcript"
	"github.com/notewell/meetscribe/internal/websocket"
	"github.com/notewell/meetscribe/pkg/logger"
)

var (
	// ErrNoActiveSession is returned when an operation needs a running
	// recording session and there is none.
	ErrNoActiveSession = errors.New("no active recording session")

	// ErrSessionMismatch is returned when the caller's session ID is not
	// the active one. Fragments from a superseded session are rejected
	// rather than appended, so a recognizer restart cannot corrupt the
	// transcript of a newer session.
	ErrSessionMismatch = errors.New("session id does not match the active session")

	// ErrNoSpeech is returned by Stop when the session produced an empty
	// transcript. No model call is made in that case.
	ErrNoSpeech = errors.New("no speech detected in session")

	// ErrSuperseded is returned by Stop when a new session started while
	// the model call was in flight. The computed result is discarded.
	ErrSuperseded = errors.New("session superseded by a newer recording")
)

// AIExtractor is the model-backed extraction collaborator. Implementations
// return typed extraction errors (analysis.ModelError and friends) when the
// result is unusable.
type AIExtractor interface {
	Extract(ctx context.Context, text string) (*analysis.Result, error)
}

// Broadcaster pushes live session events to connected clients. It is
// satisfied by *websocket.Server; a nil Broadcaster disables live updates.
type Broadcaster interface {
	Broadcast(msg *websocket.Message)
}

// Session is one recording session from start to stop.
type Session struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"started_at"`
}

// Manager owns the single active recording session, its transcript buffer
// and the most recent analysis result. Starting a new session is always
// allowed and discards whatever came before; everything else is keyed to
// the active session's ID so stale callers fail instead of corrupting state.
type Manager struct {
	mu         sync.Mutex
	active     *Session
	lastID     string
	lastResult *analysis.Result

	agg        *transcript.Aggregator
	cleaner    *transcript.Cleaner
	heuristics *analysis.Extractor
	reconciler *analysis.Reconciler
	ai         AIExtractor
	ws         Broadcaster
	logger     *logger.Logger
}

// NewManager creates a session manager. ws may be nil when live updates are
// not wanted, e.g. offline analysis or tests.
func NewManager(
	cleaner *transcript.Cleaner,
	heuristics *analysis.Extractor,
	reconciler *analysis.Reconciler,
	ai AIExtractor,
	ws Broadcaster,
	log *logger.Logger,
) *Manager {
	return &Manager{
		agg:        transcript.NewAggregator(),
		cleaner:    cleaner,
		heuristics: heuristics,
		reconciler: reconciler,
		ai:         ai,
		ws:         ws,
		logger:     log.Named("session"),
	}
}

// Start begins a new recording session. Any active session is abandoned and
// the transcript buffer is reset; this is the only operation that clears it.
func (m *Manager) Start() *Session {
	s := &Session{ID: uuid.NewString(), StartedAt: time.Now().UTC()}

	m.mu.Lock()
	m.active = s
	m.lastID = s.ID
	m.agg.Reset()
	m.mu.Unlock()

	metrics.SessionsStarted.Inc()
	m.logger.Info("Recording session started", logger.String("session_id", s.ID))
	m.broadcast(&websocket.Message{
		Type: websocket.EventSessionStarted,
		Data: map[string]interface{}{
			"session_id": s.ID,
			"started_at": s.StartedAt,
		},
	})
	return s
}

// Append adds a finalized recognition fragment to the active session and
// returns the current deduplicated transcript. The session ID must match the
// active session: recognizer restarts within a session keep appending under
// the same ID and never reset accumulated history. Fragments that are empty
// after trimming are ignored: nothing is appended, counted or broadcast.
func (m *Manager) Append(sessionID, text string) (string, error) {
	m.mu.Lock()
	if m.active == nil {
		m.mu.Unlock()
		return "", ErrNoActiveSession
	}
	if m.active.ID != sessionID {
		m.mu.Unlock()
		return "", ErrSessionMismatch
	}
	if strings.TrimSpace(text) == "" {
		current := m.agg.Current()
		m.mu.Unlock()
		return current, nil
	}
	m.agg.AppendFinal(text)
	current := m.agg.Current()
	m.mu.Unlock()

	metrics.FragmentsAppended.Inc()
	m.broadcast(&websocket.Message{
		Type: websocket.EventTranscriptUpdate,
		Data: map[string]interface{}{
			"session_id": sessionID,
			"transcript": current,
		},
	})
	return current, nil
}

// Transcript returns the current deduplicated transcript of the active
// session.
func (m *Manager) Transcript(sessionID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		return "", ErrNoActiveSession
	}
	if m.active.ID != sessionID {
		return "", ErrSessionMismatch
	}
	return m.agg.Current(), nil
}

// Active returns the running session, or nil when none is active.
func (m *Manager) Active() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Latest returns the most recent completed analysis result, or nil when no
// session has completed yet. Results live in memory only and do not survive
// a restart.
func (m *Manager) Latest() *analysis.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastResult
}

// Stop ends the active session and runs the analysis pipeline: transcript
// cleanup, model extraction bounded by ctx, heuristic extraction, then
// reconciliation. The reconciled result is stored and returned.
//
// Stop never holds the manager lock across the model call. If a new session
// starts while the call is in flight, the computed result belongs to a dead
// session: it is discarded and ErrSuperseded is returned, so a stale stop
// can never overwrite the newer session's state.
func (m *Manager) Stop(ctx context.Context, sessionID string) (*analysis.Result, error) {
	m.mu.Lock()
	if m.active == nil {
		m.mu.Unlock()
		return nil, ErrNoActiveSession
	}
	if m.active.ID != sessionID {
		m.mu.Unlock()
		return nil, ErrSessionMismatch
	}
	s := m.active
	m.active = nil
	raw := m.agg.Current()
	m.mu.Unlock()

	log := m.logger.WithSession(s.ID)
	started := time.Now()

	if strings.TrimSpace(raw) == "" {
		log.Info("Recording session stopped without speech")
		metrics.SessionsNoSpeech.Inc()
		m.broadcast(&websocket.Message{
			Type: websocket.EventSessionEnded,
			Data: map[string]interface{}{
				"session_id": s.ID,
				"no_speech":  true,
			},
		})
		return nil, ErrNoSpeech
	}

	cleaned := m.cleaner.Clean(raw)
	log.Debug("Transcript cleaned",
		logger.Int("raw_chars", len(raw)),
		logger.Int("cleaned_chars", len(cleaned)))

	m.broadcast(&websocket.Message{
		Type: websocket.EventSessionEnded,
		Data: map[string]interface{}{
			"session_id": s.ID,
			"transcript": cleaned,
		},
	})

	aiResult, err := m.ai.Extract(ctx, cleaned)
	if err != nil {
		// Unusable model output downgrades to the heuristic fallback path
		// inside reconciliation; anything else is unexpected and treated
		// the same way.
		log.Warn("Model extraction unusable, falling back", logger.Error(err))
		metrics.ExtractionOutcomes.WithLabelValues(outcomeLabel(err)).Inc()
		aiResult = nil
	} else {
		metrics.ExtractionOutcomes.WithLabelValues(metrics.OutcomeOK).Inc()
	}

	result := m.reconciler.Reconcile(aiResult, m.heuristics.Extract(cleaned))

	m.mu.Lock()
	if m.lastID != s.ID {
		m.mu.Unlock()
		log.Warn("Discarding analysis result of superseded session")
		metrics.ExtractionOutcomes.WithLabelValues(metrics.OutcomeSuperseded).Inc()
		return nil, ErrSuperseded
	}
	m.lastResult = result
	m.mu.Unlock()

	metrics.SessionsCompleted.Inc()
	metrics.ExtractionDuration.Observe(time.Since(started).Seconds())
	log.Info("Recording session completed",
		logger.Int("action_items", len(result.ActionItems)),
		logger.Int("calendar_events", len(result.CalendarEvents)),
		logger.Duration("elapsed", time.Since(started)))

	m.broadcast(&websocket.Message{
		Type: websocket.EventAnalysisComplete,
		Data: map[string]interface{}{
			"session_id": s.ID,
			"result":     result,
		},
	})
	return result, nil
}

func (m *Manager) broadcast(msg *websocket.Message) {
	if m.ws == nil {
		return
	}
	m.ws.Broadcast(msg)
}

// outcomeLabel maps an extraction error to its metrics label.
func outcomeLabel(err error) string {
	var parseErr *analysis.ParseError
	var schemaErr *analysis.SchemaError
	switch {
	case errors.As(err, &parseErr):
		return metrics.OutcomeParseError
	case errors.As(err, &schemaErr):
		return metrics.OutcomeSchemaError
	default:
		return metrics.OutcomeModelError
	}
}
