package service

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Tecnolosic/rompeelciclo/internal/model"
	"github.com/Tecnolosic/rompeelciclo/internal/progress"
)

var ErrMentorNotConfigured = errors.New("mentor is not configured")

// MentorFallback is sent in-band when the upstream model fails mid-stream,
// so the conversation degrades instead of erroring.
const MentorFallback = "El sistema está recalibrando. Pero no necesitas una IA para saber qué hacer: haz la tarea difícil que estás evitando. Ahora."

const mentorSystemPrompt = `Eres "EL MENTOR" de la app Rompe el Ciclo: un coach brutalmente honesto, directo y sin paciencia para excusas. Hablas en español, en segunda persona, con frases cortas. No consuelas: confrontas con la verdad y cierras siempre con una acción concreta que el usuario puede hacer hoy. Nunca rompas el personaje.`

// MentorMessage is one turn of the chat history.
type MentorMessage struct {
	Role string `json:"role"` // "user" or "model"
	Text string `json:"text"`
}

// MentorService streams coach replies from the Gemini API, grounding each
// reply in the user's current identity and progress.
type MentorService struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
}

func NewMentorService(apiKey, model, endpoint string) *MentorService {
	return &MentorService{
		apiKey:   apiKey,
		model:    model,
		endpoint: strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}
}

func (s *MentorService) Configured() bool {
	return s.apiKey != ""
}

// MentorContext is the state slice the coach grounds its replies in.
type MentorContext struct {
	Profile     model.Profile
	Pilares     []model.Pilar
	Goals       []model.Goal
	Confessions []model.Confession
}

const mentorConfessionLimit = 10

// userContext folds the user's state into a system-side preamble so the
// coach references real progress, not generic advice. Media confessions
// contribute only their type and date, never the payload.
func userContext(mc MentorContext) string {
	profile := mc.Profile
	completed := 0
	for _, p := range mc.Pilares {
		if p.Completado {
			completed++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Contexto del usuario:\n")
	if profile.Name != "" {
		fmt.Fprintf(&b, "- Nombre: %s\n", profile.Name)
	}
	if profile.NorthStar != "" {
		fmt.Fprintf(&b, "- Su norte: %s\n", profile.NorthStar)
	}
	if profile.NewIdentity != "" {
		fmt.Fprintf(&b, "- Identidad que construye: %s\n", profile.NewIdentity)
	}
	if profile.BlockerReason != nil && *profile.BlockerReason != "" {
		fmt.Fprintf(&b, "- Lo que lo frena: %s\n", *profile.BlockerReason)
	}
	fmt.Fprintf(&b, "- Nivel %d | Racha: %d días (mejor: %d)\n", progress.Level(profile.XP), profile.CurrentStreak, profile.BestStreak)
	fmt.Fprintf(&b, "- Pilares completados: %d de %d\n", completed, len(mc.Pilares))

	if len(mc.Goals) > 0 {
		fmt.Fprintf(&b, "Metas:\n")
		for _, g := range mc.Goals {
			fmt.Fprintf(&b, "- %s (%d%%)\n", g.GoalTitle, g.ProgressPercentage)
		}
	}

	if len(mc.Confessions) > 0 {
		fmt.Fprintf(&b, "Confesiones recientes:\n")
		n := len(mc.Confessions)
		if n > mentorConfessionLimit {
			n = mentorConfessionLimit
		}
		for _, c := range mc.Confessions[:n] {
			switch c.Type {
			case model.ConfessionTypeText:
				fmt.Fprintf(&b, "- [%s] %s\n", c.Date, c.Content)
			default:
				fmt.Fprintf(&b, "- [%s] confesión de %s\n", c.Date, c.Type)
			}
		}
	}
	return b.String()
}

type geminiRequest struct {
	SystemInstruction geminiContent   `json:"system_instruction"`
	Contents          []geminiContent `json:"contents"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

// Stream sends the conversation to the model and invokes onChunk for each
// text fragment as it arrives. The caller decides how chunks reach the
// client; a mid-stream upstream failure surfaces as a returned error after
// any chunks already delivered.
func (s *MentorService) Stream(ctx context.Context, mc MentorContext, history []MentorMessage, onChunk func(text string)) error {
	if !s.Configured() {
		return ErrMentorNotConfigured
	}
	if len(history) == 0 {
		return fmt.Errorf("empty chat history")
	}

	contents := make([]geminiContent, 0, len(history))
	for _, m := range history {
		role := m.Role
		if role != "model" {
			role = "user"
		}
		contents = append(contents, geminiContent{
			Role:  role,
			Parts: []geminiPart{{Text: m.Text}},
		})
	}

	body := geminiRequest{
		SystemInstruction: geminiContent{
			Parts: []geminiPart{
				{Text: mentorSystemPrompt},
				{Text: userContext(mc)},
			},
		},
		Contents: contents,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode mentor request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:streamGenerateContent?alt=sse", s.endpoint, s.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build mentor request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("mentor request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("mentor upstream error", "status", resp.StatusCode, "model", s.model)
		return fmt.Errorf("mentor upstream returned %d", resp.StatusCode)
	}

	// The response is server-sent events: "data: {json}" lines separated by
	// blank lines.
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		data, ok := strings.CutPrefix(line, "data: ")
		if !ok {
			continue
		}
		if data == "[DONE]" {
			break
		}

		var chunk struct {
			Candidates []struct {
				Content struct {
					Parts []geminiPart `json:"parts"`
				} `json:"content"`
			} `json:"candidates"`
		}
		err = json.Unmarshal([]byte(data), &chunk)
		if err != nil {
			slog.Warn("mentor chunk parse failed", "error", err)
			continue
		}
		for _, c := range chunk.Candidates {
			for _, part := range c.Content.Parts {
				if part.Text != "" {
					onChunk(part.Text)
				}
			}
		}
	}
	err = scanner.Err()
	if err != nil {
		return fmt.Errorf("mentor stream interrupted: %w", err)
	}
	return nil
}
