package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/abdulachik/giggles/internal/db"
	"github.com/abdulachik/giggles/internal/gemini"
	"github.com/abdulachik/giggles/internal/joke"
	"github.com/abdulachik/giggles/internal/presenter"
	"github.com/abdulachik/giggles/internal/prompt"
	"github.com/abdulachik/giggles/internal/scheduler"
)

// ErrorResponse is the standard error response format
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   message,
		Details: details,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// PromptBuilder renders the generation prompt for a topic.
type PromptBuilder interface {
	Build(topic string, recent []string) string
}

// TopicRotator supplies topics when the client does not ask for one.
type TopicRotator interface {
	Next() string
	Recent() []string
	Record(topic string)
}

// Archive stores served jokes and ratings.
type Archive interface {
	RecordJoke(ctx context.Context, j joke.Joke, source string) (*db.Joke, error)
	RecordRating(ctx context.Context, j joke.Joke, rating int, mood string) (*db.Rating, error)
}

// Options wires the handlers. Generator is nil when no API key is configured;
// Archive and Health are optional.
type Options struct {
	Generator          gemini.Generator
	Prompts            PromptBuilder
	Rotator            TopicRotator
	Archive            Archive
	Health             *scheduler.Health
	Version            string
	RateLimitPerMinute int
}

type Handlers struct {
	generator gemini.Generator
	prompts   PromptBuilder
	rotator   TopicRotator
	archive   Archive
	health    *scheduler.Health
	version   string
}

func NewHandlers(opts Options) *Handlers {
	if opts.Prompts == nil {
		opts.Prompts = prompt.Default()
	}
	return &Handlers{
		generator: opts.Generator,
		prompts:   opts.Prompts,
		rotator:   opts.Rotator,
		archive:   opts.Archive,
		health:    opts.Health,
		version:   opts.Version,
	}
}

// Joke handles /api/joke.
func (h *Handlers) Joke(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
		return
	case http.MethodGet:
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed", "")
		return
	}

	if h.generator == nil {
		slog.Error("joke requested without GEMINI_API_KEY")
		writeError(w, http.StatusInternalServerError, "Server configuration error", "")
		return
	}

	query := r.URL.Query()
	topic := strings.TrimSpace(query.Get("topic"))
	recent := splitCSV(query.Get("recentTopics"))

	drawn := false
	if topic == "" && h.rotator != nil {
		topic = h.rotator.Next()
		drawn = true
		if len(recent) == 0 {
			recent = h.rotator.Recent()
		}
	}

	text, err := h.generator.Generate(r.Context(), h.prompts.Build(topic, recent))
	if err != nil {
		if errors.Is(err, gemini.ErrEmptyGeneration) {
			writeError(w, http.StatusInternalServerError, "No joke generated", "")
			return
		}
		slog.Error("generate joke", "topic", topic, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to generate joke", err.Error())
		return
	}
	if strings.TrimSpace(text) == "" {
		writeError(w, http.StatusInternalServerError, "No joke generated", "")
		return
	}

	j := joke.ParseText(text)
	if j.Topic == "" {
		j.Topic = topic
	}
	if drawn {
		h.rotator.Record(j.Topic)
	}

	if h.archive != nil {
		if _, err := h.archive.RecordJoke(r.Context(), j, "gemini"); err != nil {
			slog.Warn("archive joke failed", "error", err)
		}
	}

	writeJSON(w, http.StatusOK, j)
}

type ratingRequest struct {
	Setup     string `json:"setup"`
	Punchline string `json:"punchline"`
	Rating    *int   `json:"rating"`
}

type ratingResponse struct {
	Mood        presenter.Mood `json:"mood"`
	Fingerprint string         `json:"fingerprint"`
}

// Rating handles /api/rating.
func (h *Handlers) Rating(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
		return
	case http.MethodPost:
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed", "")
		return
	}

	var req ratingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}
	if strings.TrimSpace(req.Setup) == "" {
		writeError(w, http.StatusBadRequest, "setup is required", "")
		return
	}
	if req.Rating == nil || *req.Rating < 0 || *req.Rating > 100 {
		writeError(w, http.StatusBadRequest, "rating must be between 0 and 100", "")
		return
	}

	j := joke.Joke{Setup: req.Setup, Punchline: req.Punchline}
	mood := presenter.MoodFor(*req.Rating)

	if h.archive != nil {
		if _, err := h.archive.RecordRating(r.Context(), j, *req.Rating, string(mood)); err != nil {
			slog.Warn("archive rating failed", "error", err)
		}
	}

	writeJSON(w, http.StatusOK, ratingResponse{Mood: mood, Fingerprint: joke.Fingerprint(j)})
}

type componentHealth struct {
	Healthy   bool      `json:"healthy"`
	Message   string    `json:"message,omitempty"`
	LastCheck time.Time `json:"last_check"`
}

type healthResponse struct {
	Status     string                     `json:"status"`
	Version    string                     `json:"version"`
	Components map[string]componentHealth `json:"components"`
}

// Health handles GET /health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:     "ok",
		Version:    h.version,
		Components: map[string]componentHealth{},
	}

	if h.health != nil {
		for name, s := range h.health.GetAllStatuses() {
			resp.Components[name] = componentHealth{
				Healthy:   s.Healthy,
				Message:   s.Message,
				LastCheck: s.LastCheck,
			}
		}
		if !h.health.IsOverallHealthy() {
			resp.Status = "degraded"
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
