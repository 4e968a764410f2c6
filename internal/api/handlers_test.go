package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notewell/meetscribe/internal/analysis"
	"github.com/notewell/meetscribe/internal/config"
	"github.com/notewell/meetscribe/internal/session"
	"github.com/notewell/meetscribe/internal/transcript"
	"github.com/notewell/meetscribe/internal/websocket"
	"github.com/notewell/meetscribe/pkg/logger"
)

type fakeExtractor struct {
	result *analysis.Result
	err    error
}

func (f *fakeExtractor) Extract(ctx context.Context, text string) (*analysis.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	r := *f.result
	return &r, nil
}

func newTestRouter(ai session.AIExtractor) http.Handler {
	log := logger.Nop()
	cfg := config.Default()
	cfg.OpenAI.APIKey = "sk-test-not-real"

	ws := websocket.NewServer(log)
	manager := session.NewManager(
		transcript.NewCleaner(cfg.Transcript.OverlapThreshold),
		analysis.NewExtractor(cfg.Extraction.Stoplist),
		analysis.NewReconciler(),
		ai,
		ws,
		log,
	)
	return NewRouter(manager, ws, cfg, log).Routes()
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func TestSessionLifecycleOverHTTP(t *testing.T) {
	router := newTestRouter(&fakeExtractor{result: &analysis.Result{
		Summary:   "Reviewed the release plan.",
		KeyPoints: []string{"ship on Friday"},
	}})

	rec, created := doJSON(t, router, http.MethodPost, "/api/v1/sessions", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)

	rec, body := doJSON(t, router, http.MethodPost, "/api/v1/sessions/"+id+"/fragments", `{"text": "the release ships on Friday at 3pm"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "the release ships on Friday at 3pm", body["transcript"])

	rec, body = doJSON(t, router, http.MethodGet, "/api/v1/sessions/"+id+"/transcript", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "the release ships on Friday at 3pm", body["transcript"])

	rec, active := doJSON(t, router, http.MethodGet, "/api/v1/sessions/active", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, active["id"])

	rec, result := doJSON(t, router, http.MethodPost, "/api/v1/sessions/"+id+"/stop", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Reviewed the release plan.", result["summary"])
	details, ok := result["meetingDetails"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Friday", details["date"])
	assert.Equal(t, "3pm", details["time"])

	rec, latest := doJSON(t, router, http.MethodGet, "/api/v1/analysis/latest", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Reviewed the release plan.", latest["summary"])

	// Session is gone after stop.
	rec, _ = doJSON(t, router, http.MethodGet, "/api/v1/sessions/active", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStopWithoutSpeechReturns422(t *testing.T) {
	router := newTestRouter(&fakeExtractor{err: &analysis.ModelError{}})

	rec, created := doJSON(t, router, http.MethodPost, "/api/v1/sessions", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	id := created["id"].(string)

	rec, body := doJSON(t, router, http.MethodPost, "/api/v1/sessions/"+id+"/stop", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, body["error"], "no speech")
}

func TestUnusableModelResultStillReturnsDefaultPayload(t *testing.T) {
	router := newTestRouter(&fakeExtractor{err: &analysis.SchemaError{Missing: []string{"summary"}}})

	_, created := doJSON(t, router, http.MethodPost, "/api/v1/sessions", "")
	id := created["id"].(string)

	_, _ = doJSON(t, router, http.MethodPost, "/api/v1/sessions/"+id+"/fragments", `{"text": "a few words were spoken"}`)

	rec, result := doJSON(t, router, http.MethodPost, "/api/v1/sessions/"+id+"/stop", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, analysis.NoSummaryAvailable, result["summary"])
}

func TestSessionErrorStatusCodes(t *testing.T) {
	router := newTestRouter(&fakeExtractor{result: analysis.DefaultResult()})

	// No active session yet.
	rec, _ := doJSON(t, router, http.MethodPost, "/api/v1/sessions/unknown/fragments", `{"text": "x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = doJSON(t, router, http.MethodGet, "/api/v1/analysis/latest", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Active session, wrong ID.
	_, _ = doJSON(t, router, http.MethodPost, "/api/v1/sessions", "")
	rec, _ = doJSON(t, router, http.MethodPost, "/api/v1/sessions/wrong-id/fragments", `{"text": "x"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = doJSON(t, router, http.MethodPost, "/api/v1/sessions/wrong-id/stop", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Malformed body.
	_, created := doJSON(t, router, http.MethodPost, "/api/v1/sessions", "")
	id := created["id"].(string)
	rec, _ = doJSON(t, router, http.MethodPost, "/api/v1/sessions/"+id+"/fragments", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthAndConfigEndpoints(t *testing.T) {
	router := newTestRouter(&fakeExtractor{result: analysis.DefaultResult()})

	rec, health := doJSON(t, router, http.MethodGet, "/api/v1/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, false, health["active_session"])

	rec, _ = doJSON(t, router, http.MethodGet, "/api/v1/config", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "[REDACTED]")
	assert.NotContains(t, rec.Body.String(), "sk-test-not-real")
}

func TestMetricsEndpointExposed(t *testing.T) {
	router := newTestRouter(&fakeExtractor{result: analysis.DefaultResult()})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "meetscribe_session_started_total")
}
