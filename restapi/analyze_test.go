package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/SharedCode/guardian"
	"github.com/SharedCode/guardian/cassandra"
	"github.com/SharedCode/guardian/redis"
)

type capturingNotifier struct {
	mux      sync.Mutex
	parentID string
	message  string
	calls    int
}

func (n *capturingNotifier) Notify(ctx context.Context, parentID string, message string) error {
	n.mux.Lock()
	defer n.mux.Unlock()
	n.parentID = parentID
	n.message = message
	n.calls++
	return nil
}

type failingStore struct{}

func (failingStore) Append(ctx context.Context, event *guardian.ModerationEvent) error {
	return guardian.Error{Code: guardian.StorageFailure, Err: fmt.Errorf("cluster down")}
}
func (failingStore) ListByChild(ctx context.Context, childID string, limit int) ([]guardian.ModerationEvent, error) {
	return nil, guardian.Error{Code: guardian.StorageFailure, Err: fmt.Errorf("cluster down")}
}

func newTestRouter(t *testing.T, api *AnalyzeAPI) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("GUARDIAN_ENV", "DEV")
	t.Setenv("GUARDIAN_DEV_UID", "parent-7")
	return NewRouter(api)
}

func postAnalyze(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeAnalyze(t *testing.T, w *httptest.ResponseRecorder) AnalyzeResponse {
	t.Helper()
	var r AnalyzeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &r); err != nil {
		t.Error(err)
		t.FailNow()
	}
	return r
}

func TestAnalyzeAllowLowRisk(t *testing.T) {
	store := cassandra.NewMockEventStore()
	notifier := &capturingNotifier{}
	router := newTestRouter(t, NewAnalyzeAPI(store, notifier))

	w := postAnalyze(router, `{"childId":"child-1","content":"you are stupid"}`)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d, body %s", w.Code, w.Body.String())
		t.FailNow()
	}
	r := decodeAnalyze(t, w)
	if r.Decision != guardian.DecisionAllow || r.Severity != guardian.SeverityLow {
		t.Errorf("expected allow/low, got %+v", r)
		t.FailNow()
	}
	if math.Abs(r.Score-0.3) > 1e-9 {
		t.Errorf("expected score 0.3, got %v", r.Score)
		t.FailNow()
	}

	events, err := store.ListByChild(context.Background(), "child-1", 10)
	if err != nil {
		t.Error(err)
		t.FailNow()
	}
	if len(events) != 1 {
		t.Errorf("expected 1 persisted event, got %d", len(events))
		t.FailNow()
	}
	ev := events[0]
	if ev.ParentID != "parent-7" || ev.URL != "unknown" || ev.Category != guardian.CategoryAbuse {
		t.Errorf("unexpected event %+v", ev)
		t.FailNow()
	}
	if ev.CreatedAt.IsZero() {
		t.Errorf("expected server-assigned timestamp")
		t.FailNow()
	}
	if notifier.calls != 0 {
		t.Errorf("expected no notification for low severity")
		t.FailNow()
	}
}

func TestAnalyzeWarnMediumRisk(t *testing.T) {
	store := cassandra.NewMockEventStore()
	notifier := &capturingNotifier{}
	router := newTestRouter(t, NewAnalyzeAPI(store, notifier))

	w := postAnalyze(router, `{"childId":"teen-1","content":"there was blood and a weapon"}`)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
		t.FailNow()
	}
	r := decodeAnalyze(t, w)
	if r.Decision != guardian.DecisionWarn || r.Severity != guardian.SeverityMedium {
		t.Errorf("expected warn/medium, got %+v", r)
		t.FailNow()
	}
	if math.Abs(r.Score-0.6) > 1e-9 {
		t.Errorf("expected score 0.6, got %v", r.Score)
		t.FailNow()
	}
	if notifier.calls != 0 {
		t.Errorf("expected no notification for medium severity")
		t.FailNow()
	}
}

func TestAnalyzeBlockNotifiesParent(t *testing.T) {
	store := cassandra.NewMockEventStore()
	notifier := &capturingNotifier{}
	router := newTestRouter(t, NewAnalyzeAPI(store, notifier))

	w := postAnalyze(router, `{"childId":"child-2","url":"http://example.com","content":"porn and nude content"}`)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
		t.FailNow()
	}
	r := decodeAnalyze(t, w)
	if r.Decision != guardian.DecisionBlock || r.Severity != guardian.SeverityHigh {
		t.Errorf("expected block/high, got %+v", r)
		t.FailNow()
	}
	if notifier.calls != 1 {
		t.Errorf("expected 1 notification, got %d", notifier.calls)
		t.FailNow()
	}
	if notifier.parentID != "parent-7" {
		t.Errorf("expected alert to caller's own id, got %s", notifier.parentID)
		t.FailNow()
	}
	if notifier.message != "High-risk sexual content blocked for your child" {
		t.Errorf("unexpected message %q", notifier.message)
		t.FailNow()
	}

	events, _ := store.ListByChild(context.Background(), "child-2", 10)
	if len(events) != 1 || events[0].URL != "http://example.com" {
		t.Errorf("unexpected events %+v", events)
		t.FailNow()
	}
}

func TestAnalyzeMissingFields(t *testing.T) {
	store := cassandra.NewMockEventStore()
	notifier := &capturingNotifier{}
	router := newTestRouter(t, NewAnalyzeAPI(store, notifier))

	for _, body := range []string{
		`{"childId":"child-1"}`,
		`{"content":"hello"}`,
		`{}`,
		`not json`,
	} {
		w := postAnalyze(router, body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", body, w.Code)
			t.FailNow()
		}
		var r map[string]string
		json.Unmarshal(w.Body.Bytes(), &r)
		if r["error"] != "Invalid request" {
			t.Errorf("%s: unexpected body %s", body, w.Body.String())
			t.FailNow()
		}
	}

	events, _ := store.ListByChild(context.Background(), "child-1", 10)
	if len(events) != 0 {
		t.Errorf("expected no events persisted for invalid requests")
		t.FailNow()
	}
}

func TestAnalyzeStorageFailure(t *testing.T) {
	notifier := &capturingNotifier{}
	router := newTestRouter(t, NewAnalyzeAPI(failingStore{}, notifier))

	w := postAnalyze(router, `{"childId":"child-2","content":"porn and nude content"}`)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
		t.FailNow()
	}
	var r map[string]string
	json.Unmarshal(w.Body.Bytes(), &r)
	if r["error"] != "Server error" {
		t.Errorf("unexpected body %s", w.Body.String())
		t.FailNow()
	}
	// Persistence failure aborts before notification.
	if notifier.calls != 0 {
		t.Errorf("expected no notification after storage failure")
		t.FailNow()
	}
}

func TestAnalyzeUsesClassificationCache(t *testing.T) {
	store := cassandra.NewMockEventStore()
	notifier := &capturingNotifier{}
	api := NewAnalyzeAPI(store, notifier)
	cache := redis.NewMockClient()
	api.Cache = cache
	router := newTestRouter(t, api)

	w := postAnalyze(router, `{"childId":"child-1","content":"you are stupid"}`)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
		t.FailNow()
	}

	var cached guardian.ClassificationResult
	if err := cache.GetStruct(context.Background(), classificationKey("you are stupid"), &cached); err != nil {
		t.Errorf("expected classification to be cached, got %v", err)
		t.FailNow()
	}
	if cached.Category != guardian.CategoryAbuse {
		t.Errorf("unexpected cached result %+v", cached)
		t.FailNow()
	}

	// Second identical submission reads the cached classification.
	w = postAnalyze(router, `{"childId":"child-1","content":"you are stupid"}`)
	r := decodeAnalyze(t, w)
	if r.Decision != guardian.DecisionAllow || math.Abs(r.Score-0.3) > 1e-9 {
		t.Errorf("unexpected response from cached classification %+v", r)
		t.FailNow()
	}
}

func TestGetEvents(t *testing.T) {
	store := cassandra.NewMockEventStore()
	notifier := &capturingNotifier{}
	router := newTestRouter(t, NewAnalyzeAPI(store, notifier))

	postAnalyze(router, `{"childId":"child-5","content":"you are stupid"}`)
	postAnalyze(router, `{"childId":"child-5","content":"there was blood"}`)

	req := httptest.NewRequest(http.MethodGet, "/events/child-5?limit=10", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
		t.FailNow()
	}
	var events []guardian.ModerationEvent
	if err := json.Unmarshal(w.Body.Bytes(), &events); err != nil {
		t.Error(err)
		t.FailNow()
	}
	if len(events) != 2 {
		t.Errorf("expected 2 events, got %d", len(events))
		t.FailNow()
	}
	if events[0].Category != guardian.CategoryViolence {
		t.Errorf("expected newest event first, got %+v", events[0])
		t.FailNow()
	}
}

func TestPing(t *testing.T) {
	store := cassandra.NewMockEventStore()
	router := newTestRouter(t, NewAnalyzeAPI(store, &capturingNotifier{}))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
		t.FailNow()
	}
}
