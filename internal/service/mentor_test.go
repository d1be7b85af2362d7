package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Tecnolosic/rompeelciclo/internal/model"
)

func TestMentorConfigured(t *testing.T) {
	t.Parallel()

	if NewMentorService("", "gemini-2.0-flash", "http://x").Configured() {
		t.Error("missing api key must report unconfigured")
	}
	if !NewMentorService("key", "gemini-2.0-flash", "http://x").Configured() {
		t.Error("configured service reported unconfigured")
	}
}

func TestMentorStream(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-goog-api-key"); got != "test-key" {
			t.Errorf("api key header = %q", got)
		}
		if !strings.Contains(r.URL.Path, "gemini-2.0-flash") {
			t.Errorf("path = %q, want model in path", r.URL.Path)
		}
		if got := r.URL.Query().Get("alt"); got != "sse" {
			t.Errorf("alt = %q, want sse", got)
		}

		w.Header().Set("Content-Type", "text/event-stream")
		chunks := []string{"Hola, ", "guerrero."}
		for _, c := range chunks {
			fmt.Fprintf(w, "data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":%q}]}}]}\n\n", c)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	t.Cleanup(server.Close)

	svc := NewMentorService("test-key", "gemini-2.0-flash", server.URL)

	var got strings.Builder
	mctx := MentorContext{
		Profile: model.Profile{Name: "Ana", XP: 1200, CurrentStreak: 3},
		Pilares: model.DefaultPilares(),
	}
	history := []MentorMessage{{Role: "user", Text: "No puedo empezar"}}

	err := svc.Stream(context.Background(), mctx, history, func(chunk string) {
		got.WriteString(chunk)
	})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	if got.String() != "Hola, guerrero." {
		t.Errorf("streamed = %q", got.String())
	}
}

func TestMentorStreamUnconfigured(t *testing.T) {
	t.Parallel()

	svc := NewMentorService("", "gemini-2.0-flash", "http://unused")
	err := svc.Stream(context.Background(), MentorContext{}, nil, func(string) {})
	if err == nil {
		t.Fatal("unconfigured mentor must error")
	}
}

func TestMentorStreamServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"quota"}`, http.StatusTooManyRequests)
	}))
	t.Cleanup(server.Close)

	svc := NewMentorService("test-key", "gemini-2.0-flash", server.URL)
	history := []MentorMessage{{Role: "user", Text: "hola"}}
	err := svc.Stream(context.Background(), MentorContext{}, history, func(string) {})
	if err == nil {
		t.Fatal("server error must surface")
	}
}

func TestMentorUserContext(t *testing.T) {
	t.Parallel()

	note := "miedo al fracaso"
	got := userContext(MentorContext{
		Profile: model.Profile{
			Name:          "Ana",
			NorthStar:     "libertad total",
			NewIdentity:   "creadora disciplinada",
			BlockerReason: &note,
			XP:            1200,
			CurrentStreak: 3,
			BestStreak:    9,
		},
		Pilares: []model.Pilar{{ID: 0, Completado: true}, {ID: 1}},
		Goals:   []model.Goal{{GoalTitle: "Lanzar", ProgressPercentage: 50}},
		Confessions: []model.Confession{
			{Type: model.ConfessionTypeText, Date: "2026-03-01", Content: "hoy procrastiné"},
			{Type: model.ConfessionTypeVoice, Date: "2026-02-28"},
		},
	})

	for _, want := range []string{
		"Nombre: Ana",
		"Nivel 2 | Racha: 3 días (mejor: 9)",
		"Pilares completados: 1 de 2",
		"Lanzar (50%)",
		"hoy procrastiné",
		"confesión de voice",
		"miedo al fracaso",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("context missing %q:\n%s", want, got)
		}
	}
}
