package server

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/codetrain/internal/analyzer"
	"github.com/abhisek/codetrain/internal/mastery"
	"github.com/abhisek/codetrain/internal/report"
	"github.com/abhisek/codetrain/internal/session"
	"github.com/abhisek/codetrain/internal/store"
	"github.com/abhisek/codetrain/internal/taskgen"
)

type stubTasks struct {
	next    int64
	failGen bool
}

func (s *stubTasks) FindTask(context.Context, string, []string, []int64) (*taskgen.Task, error) {
	return nil, nil
}

func (s *stubTasks) GenerateTask(_ context.Context, skill, label string) (*taskgen.Task, error) {
	if s.failGen {
		return nil, errors.New("provider down")
	}
	s.next++
	return &taskgen.Task{
		ID:            s.next,
		Title:         "Unique words",
		Text:          "Return the number of distinct words.",
		Difficulty:    label,
		Topic:         skill,
		IdealSolution: "def f(s): return len(set(s.split()))",
	}, nil
}

type stubAnalyzer struct{}

func (stubAnalyzer) Judge(_ context.Context, code, _ string) (*analyzer.Feedback, error) {
	return &analyzer.Feedback{Correct: strings.Contains(code, "set"), TimeComplexity: "O(n^2)", Style: 0.8}, nil
}

type stubHinter struct{}

func (stubHinter) Hint(context.Context, string, string, ...string) (string, error) {
	return "Think about sets.", nil
}

type env struct {
	srv   *Server
	tasks *stubTasks
	db    *sql.DB
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.Open(filepath.Join(t.TempDir(), "server.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	tasks := &stubTasks{}
	backend := session.NewStoreBackend(st.Mastery(), st.Attempts())
	cfg := session.DefaultConfig()
	cfg.Cycles = 2
	sessions, err := session.NewService(cfg, session.Deps{
		Finder:    tasks,
		Generator: tasks,
		Analyzer:  stubAnalyzer{},
		Hinter:    stubHinter{},
		Mastery:   backend,
		Recorder:  backend,
	})
	require.NoError(t, err)

	srv := New(Config{Mode: gin.TestMode}, Deps{
		Sessions: sessions,
		Mastery:  mastery.NewService(cfg.Params, st.Mastery()),
		Attempts: st.Attempts(),
		Learners: st.Learners(),
		Renderer: report.NewRenderer(nil, report.DefaultRendererConfig()),
	})
	return &env{srv: srv, tasks: tasks, db: st.DB()}
}

func (e *env) endEvents(t *testing.T, sessionID string) int {
	t.Helper()
	var n int
	require.NoError(t, e.db.QueryRow(
		"SELECT COUNT(*) FROM session_events WHERE session_id = ? AND action = 'end'", sessionID,
	).Scan(&n))
	return n
}

func (e *env) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.srv.Handler().ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 && strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

func TestHealthAndMetrics(t *testing.T) {
	e := newEnv(t)

	w, body := e.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])

	w, _ = e.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "codetrain_http_requests_total")
}

func TestSkills(t *testing.T) {
	e := newEnv(t)
	w, body := e.do(t, http.MethodGet, "/api/v1/skills", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := body["skills"].([]any)
	assert.Len(t, list, 8)
	assert.Equal(t, "lists", list[0].(map[string]any)["id"])
}

func TestSessionHappyPath(t *testing.T) {
	e := newEnv(t)

	w, body := e.do(t, http.MethodPost, "/api/v1/learners/ada/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	id := body["session_id"].(string)
	base := "/api/v1/sessions/" + id

	for i := 1; i <= 2; i++ {
		w, body = e.do(t, http.MethodPost, base+"/next", nil)
		require.Equal(t, http.StatusOK, w.Code)
		task := body["task"].(map[string]any)
		taskID := int64(task["id"].(float64))
		assert.NotContains(t, task, "ideal_solution")
		assert.Equal(t, float64(i), body["number"])

		w, body = e.do(t, http.MethodPost, base+"/hints", taskRequest{TaskID: taskID})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Think about sets.", body["hint"])
		assert.Equal(t, float64(1), body["hints_left"])

		w, body = e.do(t, http.MethodPost, base+"/submissions", taskRequest{TaskID: taskID, Code: "len(set(words))"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, true, body["correct"])
		assert.Equal(t, i == 2, body["done"])
	}

	// The finishing submission carries the summary and frees the session.
	progress := body["summary"].(map[string]any)["progress"].(map[string]any)
	assert.Equal(t, float64(2), progress["cycles_completed"])
	assert.Equal(t, 1, e.endEvents(t, id))

	_, body = e.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, float64(0), body["open_sessions"])
	w, _ = e.do(t, http.MethodPost, base+"/next", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = e.do(t, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, body = e.do(t, http.MethodGet, "/api/v1/learners/ada/mastery", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, body["levels"])

	w, body = e.do(t, http.MethodGet, "/api/v1/learners/ada/report", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, report.Fallback, body["human_feedback"])
	summary := body["summary"].(map[string]any)
	assert.Equal(t, float64(2), summary["total_attempts"])
	assert.Equal(t, float64(2), summary["total_hints_used"])
	quality := body["code_quality_metrics"].(map[string]any)
	assert.Equal(t, float64(2), quality["nonoptimal_complexity_count"])
}

func TestSkippedCycleAnswers503(t *testing.T) {
	e := newEnv(t)
	e.tasks.failGen = true

	_, body := e.do(t, http.MethodPost, "/api/v1/learners/ada/sessions", nil)
	id := body["session_id"].(string)

	w, body := e.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/next", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, true, body["skipped"])
	progress := body["progress"].(map[string]any)
	assert.Equal(t, float64(1), progress["cycles_skipped"])
}

func TestSkippedLastCycleClosesSession(t *testing.T) {
	e := newEnv(t)
	e.tasks.failGen = true

	_, body := e.do(t, http.MethodPost, "/api/v1/learners/ada/sessions", nil)
	id := body["session_id"].(string)

	for range 2 {
		w, _ := e.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/next", nil)
		require.Equal(t, http.StatusServiceUnavailable, w.Code)
	}
	assert.Equal(t, 1, e.endEvents(t, id))
	w, _ := e.do(t, http.MethodGet, "/api/v1/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestIdleSessionsAreClosed(t *testing.T) {
	e := newEnv(t)
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	e.srv.now = func() time.Time { return now }
	e.srv.cfg.IdleTimeout = 10 * time.Minute

	_, body := e.do(t, http.MethodPost, "/api/v1/learners/ada/sessions", nil)
	idle := body["session_id"].(string)
	_, body = e.do(t, http.MethodPost, "/api/v1/learners/bob/sessions", nil)
	busy := body["session_id"].(string)

	now = now.Add(8 * time.Minute)
	w, _ := e.do(t, http.MethodGet, "/api/v1/sessions/"+busy, nil)
	require.Equal(t, http.StatusOK, w.Code)

	now = now.Add(5 * time.Minute)
	assert.Equal(t, 1, e.srv.evictIdle(context.Background()))
	assert.Equal(t, 1, e.endEvents(t, idle))

	w, _ = e.do(t, http.MethodGet, "/api/v1/sessions/"+idle, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = e.do(t, http.MethodGet, "/api/v1/sessions/"+busy, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHintLimitAndUnknownTask(t *testing.T) {
	e := newEnv(t)
	_, body := e.do(t, http.MethodPost, "/api/v1/learners/ada/sessions", nil)
	base := "/api/v1/sessions/" + body["session_id"].(string)

	_, body = e.do(t, http.MethodPost, base+"/next", nil)
	taskID := int64(body["task"].(map[string]any)["id"].(float64))

	for range 2 {
		w, _ := e.do(t, http.MethodPost, base+"/hints", taskRequest{TaskID: taskID})
		require.Equal(t, http.StatusOK, w.Code)
	}
	w, _ := e.do(t, http.MethodPost, base+"/hints", taskRequest{TaskID: taskID})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	w, _ = e.do(t, http.MethodPost, base+"/submissions", taskRequest{TaskID: taskID + 100, Code: "x"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = e.do(t, http.MethodPost, base+"/submissions", map[string]any{"code": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnknownSession(t *testing.T) {
	e := newEnv(t)
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/sessions/nope"},
		{http.MethodPost, "/api/v1/sessions/nope/next"},
		{http.MethodPost, "/api/v1/sessions/nope/hints"},
		{http.MethodPost, "/api/v1/sessions/nope/submissions"},
		{http.MethodDelete, "/api/v1/sessions/nope"},
	} {
		w, _ := e.do(t, tc.method, tc.path, taskRequest{TaskID: 1})
		assert.Equal(t, http.StatusNotFound, w.Code, "%s %s", tc.method, tc.path)
	}
}
