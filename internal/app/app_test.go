package app

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdulachik/giggles/internal/acquire"
	"github.com/abdulachik/giggles/internal/api"
	"github.com/abdulachik/giggles/internal/config"
)

type staticGenerator string

func (g staticGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return string(g), nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		DatabasePath:   filepath.Join(t.TempDir(), "giggles.db"),
		GeminiBackend:  "rest",
		GeminiModel:    "gemini-2.0-flash",
		JokeSource:     "jokeapi",
		RequestTimeout: 5 * time.Second,
	}
}

func TestNewPipeline(t *testing.T) {
	t.Run("wires the embedded catalog", func(t *testing.T) {
		a, err := NewPipeline(testConfig(t))
		require.NoError(t, err)

		assert.Equal(t, "jokeapi", a.Source.Name())
		assert.Len(t, a.Catalog.Pool(), 42)
		assert.Equal(t, a.Catalog.TopicNames(), a.Rotator.Topics())
		assert.Equal(t, acquire.Idle, a.Orchestrator.State())
		assert.Nil(t, a.Store)
	})

	t.Run("unknown source", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.JokeSource = "knock-knock"

		_, err := NewPipeline(cfg)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "knock-knock")
	})

	t.Run("missing catalog file", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.CatalogPath = filepath.Join(t.TempDir(), "missing.yaml")

		_, err := NewPipeline(cfg)
		assert.Error(t, err)
	})
}

func TestNew(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, testConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	require.NotNil(t, a.Store)
	count, err := a.Store.CountJokes(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestApp_Generator(t *testing.T) {
	ctx := context.Background()

	t.Run("nil without api key", func(t *testing.T) {
		a, err := NewPipeline(testConfig(t))
		require.NoError(t, err)

		gen, err := a.Generator(ctx)
		require.NoError(t, err)
		assert.Nil(t, gen)
	})

	t.Run("rest backend with api key", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.GeminiAPIKey = "test-key"
		a, err := NewPipeline(cfg)
		require.NoError(t, err)

		gen, err := a.Generator(ctx)
		require.NoError(t, err)
		assert.NotNil(t, gen)
	})
}

func TestPipeline_GenerativeEndToEnd(t *testing.T) {
	ctx := context.Background()

	joke := `{"setup":"Why did the math book look sad?","punchline":"It had too many problems."}`
	server := httptest.NewServer(api.NewRouter(api.Options{Generator: staticGenerator(joke)}))
	t.Cleanup(server.Close)

	cfg := testConfig(t)
	cfg.JokeSource = "generative"
	cfg.JokeEndpoint = server.URL + "/api/joke"
	a, err := NewPipeline(cfg)
	require.NoError(t, err)

	first, ok := a.Orchestrator.Acquire(ctx)
	require.True(t, ok)
	assert.Equal(t, acquire.OutcomeFresh, first.Outcome)
	assert.Equal(t, "Why did the math book look sad?", first.Joke.Setup)
	assert.Equal(t, "animals", first.Joke.Topic)
	assert.Equal(t, []string{"animals"}, a.Rotator.Recent())

	// The endpoint keeps returning the same joke, so the ledger forces a fallback.
	second, ok := a.Orchestrator.Acquire(ctx)
	require.True(t, ok)
	assert.Equal(t, acquire.OutcomeFallback, second.Outcome)
	assert.Equal(t, acquire.FallbackSource, second.Source)
	assert.Equal(t, 2, a.Ledger.Len())
}
