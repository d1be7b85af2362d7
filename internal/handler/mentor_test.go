package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Tecnolosic/rompeelciclo/internal/ctxkeys"
	"github.com/Tecnolosic/rompeelciclo/internal/gateway"
	"github.com/Tecnolosic/rompeelciclo/internal/model"
	"github.com/Tecnolosic/rompeelciclo/internal/repository"
	"github.com/Tecnolosic/rompeelciclo/internal/service"
	"github.com/Tecnolosic/rompeelciclo/internal/session"
	"github.com/Tecnolosic/rompeelciclo/internal/state"
)

type noopProfileRepo struct{}

func (noopProfileRepo) ByUserID(string) (*model.Profile, error) {
	return nil, repository.ErrProfileNotFound
}
func (noopProfileRepo) Create(*model.Profile) error { return nil }
func (noopProfileRepo) Upsert(*model.Profile) error { return nil }
func (noopProfileRepo) MarkVerified(string) error   { return nil }

type noopGoalRepo struct{}

func (noopGoalRepo) ByUser(string) ([]model.Goal, error) { return nil, nil }
func (noopGoalRepo) Insert(*model.Goal) error            { return nil }
func (noopGoalRepo) Upsert(*model.Goal) error            { return nil }

type noopConfessionRepo struct{}

func (noopConfessionRepo) ByUser(string) ([]model.Confession, error) { return nil, nil }
func (noopConfessionRepo) Insert(*model.Confession) error            { return nil }

type noopPilarRepo struct{}

func (noopPilarRepo) Definitions() ([]model.PilarDefinition, error) { return nil, nil }

type noopProgressRepo struct{}

func (noopProgressRepo) ByUser(string) ([]model.PilarProgress, error) { return nil, nil }
func (noopProgressRepo) Upsert(*model.PilarProgress) error            { return nil }

type noopSparkRepo struct{}

func (noopSparkRepo) Recent(int) ([]model.DailySpark, error) { return nil, nil }
func (noopSparkRepo) Seed([]model.DailySpark) error          { return nil }

type noopInteractionRepo struct{}

func (noopInteractionRepo) Insert(*model.Interaction) error { return nil }
func (noopInteractionRepo) Since(string, time.Time) ([]model.Interaction, error) {
	return nil, nil
}

func testStore() (*state.Store, *gateway.Queue) {
	gw := gateway.New(
		noopProfileRepo{}, noopGoalRepo{}, noopConfessionRepo{}, noopPilarRepo{},
		noopProgressRepo{}, noopSparkRepo{}, noopInteractionRepo{},
	)
	queue := gateway.NewQueue(noopProfileRepo{}, noopGoalRepo{}, noopConfessionRepo{},
		noopProgressRepo{}, noopInteractionRepo{})
	return state.NewStore(gw, queue), queue
}

func mentorChatRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/app/mentor/chat", strings.NewReader(body))
	sess := &session.Session{UserID: "u1", Email: "u1@example.com", Expiry: time.Now().Add(time.Hour)}
	return req.WithContext(ctxkeys.WithSession(req.Context(), sess))
}

func TestMentorChatMidStreamFailureAppendsFallback(t *testing.T) {
	t.Parallel()

	// One chunk arrives, then the upstream connection dies.
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"Escucha bien.\"}]}}]}\n\n"))
		w.(http.Flusher).Flush()
		panic(http.ErrAbortHandler)
	}))
	defer upstream.Close()

	store, queue := testStore()
	defer queue.Close()
	h := NewMentorHandler(store, service.NewMentorService("test-key", "gemini-test", upstream.URL))

	rec := httptest.NewRecorder()
	h.Chat(rec, mentorChatRequest(`{"messages":[{"role":"user","text":"hola"}]}`))

	got := rec.Body.String()
	if !strings.HasPrefix(got, "Escucha bien.") {
		t.Fatalf("body = %q, want the streamed chunk first", got)
	}
	if !strings.Contains(got, service.MentorFallback) {
		t.Errorf("body = %q, want the in-band fallback after the interruption", got)
	}
}

func TestMentorChatUnconfiguredEmitsFallback(t *testing.T) {
	t.Parallel()

	store, queue := testStore()
	defer queue.Close()
	h := NewMentorHandler(store, service.NewMentorService("", "gemini-test", "http://127.0.0.1:1"))

	rec := httptest.NewRecorder()
	h.Chat(rec, mentorChatRequest(`{"messages":[{"role":"user","text":"hola"}]}`))

	if got := rec.Body.String(); got != service.MentorFallback {
		t.Errorf("body = %q, want only the fallback", got)
	}
}
