package mcp_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdulachik/giggles/internal/acquire"
	"github.com/abdulachik/giggles/internal/db"
	"github.com/abdulachik/giggles/internal/joke"
	mcpserver "github.com/abdulachik/giggles/internal/mcp"
)

type mockAcquirer struct {
	result acquire.Result
	busy   bool
}

func (m *mockAcquirer) Acquire(ctx context.Context) (acquire.Result, bool) {
	if m.busy {
		return acquire.Result{}, false
	}
	return m.result, true
}

type fixedCounter int

func (c fixedCounter) Len() int { return int(c) }

type mockRatings struct {
	mu      sync.Mutex
	ratings []int
	err     error
}

func (m *mockRatings) RecordRating(ctx context.Context, j joke.Joke, rating int, mood string) (*db.Rating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ratings = append(m.ratings, rating)
	return &db.Rating{Rating: int64(rating), Mood: mood}, m.err
}

func connectInMemory(t *testing.T, ctx context.Context, srv *mcpserver.Server) *sdkmcp.ClientSession {
	t.Helper()
	t1, t2 := sdkmcp.NewInMemoryTransports()
	serverSession, err := srv.MCPServer.Connect(ctx, t1, nil)
	require.NoError(t, err)
	t.Cleanup(func() { serverSession.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, t2, nil)
	require.NoError(t, err)
	t.Cleanup(func() { session.Close() })
	return session
}

func callTool(t *testing.T, ctx context.Context, session *sdkmcp.ClientSession, name string, args map[string]any) (map[string]any, bool) {
	t.Helper()
	res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	require.NoError(t, err)

	for _, c := range res.Content {
		if tc, ok := c.(*sdkmcp.TextContent); ok {
			if res.IsError {
				return map[string]any{"error": tc.Text}, true
			}
			result := make(map[string]any)
			require.NoError(t, json.Unmarshal([]byte(tc.Text), &result), tc.Text)
			return result, false
		}
	}
	t.Fatalf("no text content in %s result", name)
	return nil, res.IsError
}

func TestServer_ToolDiscovery(t *testing.T) {
	ctx := context.Background()
	srv := mcpserver.NewServer(mcpserver.Config{Acquirer: &mockAcquirer{}})
	session := connectInMemory(t, ctx, srv)

	tools, err := session.ListTools(ctx, nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"tell_joke", "build_prompt", "rate_joke"}, names)
}

func TestServer_TellJoke(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the acquired joke", func(t *testing.T) {
		acq := &mockAcquirer{result: acquire.Result{
			Joke:    joke.Joke{Setup: "Why did the scarecrow win an award?", Punchline: "He was outstanding in his field!", Topic: "work"},
			Outcome: acquire.OutcomeFresh,
			Source:  "jokeapi",
		}}
		srv := mcpserver.NewServer(mcpserver.Config{Acquirer: acq, Counter: fixedCounter(3)})
		session := connectInMemory(t, ctx, srv)

		out, isErr := callTool(t, ctx, session, "tell_joke", map[string]any{})
		require.False(t, isErr)
		assert.Equal(t, "Why did the scarecrow win an award?", out["setup"])
		assert.Equal(t, "He was outstanding in his field!", out["punchline"])
		assert.Equal(t, "work", out["topic"])
		assert.Equal(t, "fresh", out["outcome"])
		assert.Equal(t, "jokeapi", out["source"])
		assert.Equal(t, "Why did the scarecrow win an award?\n\nHe was outstanding in his field!", out["text"])
		assert.Equal(t, float64(3), out["told"])
	})

	t.Run("apology outcome", func(t *testing.T) {
		acq := &mockAcquirer{result: acquire.Result{
			Joke:    joke.Joke{Setup: acquire.StuckSetup},
			Outcome: acquire.OutcomeExhausted,
		}}
		srv := mcpserver.NewServer(mcpserver.Config{Acquirer: acq})
		session := connectInMemory(t, ctx, srv)

		out, isErr := callTool(t, ctx, session, "tell_joke", map[string]any{})
		require.False(t, isErr)
		assert.Equal(t, acquire.StuckSetup, out["setup"])
		assert.Equal(t, "exhausted", out["outcome"])
	})

	t.Run("busy acquisition is a tool error", func(t *testing.T) {
		srv := mcpserver.NewServer(mcpserver.Config{Acquirer: &mockAcquirer{busy: true}})
		session := connectInMemory(t, ctx, srv)

		out, isErr := callTool(t, ctx, session, "tell_joke", map[string]any{})
		require.True(t, isErr)
		assert.Contains(t, out["error"], "still thinking")
	})
}

func TestServer_BuildPrompt(t *testing.T) {
	ctx := context.Background()
	srv := mcpserver.NewServer(mcpserver.Config{Acquirer: &mockAcquirer{}})
	session := connectInMemory(t, ctx, srv)

	out, isErr := callTool(t, ctx, session, "build_prompt", map[string]any{
		"topic":  "space",
		"recent": []string{"food", "music"},
	})
	require.False(t, isErr)

	prompt, _ := out["prompt"].(string)
	assert.Contains(t, prompt, "Topic: space")
	assert.Contains(t, prompt, "Avoid these recently used topics: food, music")
}

func TestServer_RateJoke(t *testing.T) {
	ctx := context.Background()

	t.Run("records rating and reacts", func(t *testing.T) {
		ratings := &mockRatings{}
		srv := mcpserver.NewServer(mcpserver.Config{Acquirer: &mockAcquirer{}, Ratings: ratings})
		session := connectInMemory(t, ctx, srv)

		out, isErr := callTool(t, ctx, session, "rate_joke", map[string]any{
			"setup": "Why?", "punchline": "Because.", "rating": 90,
		})
		require.False(t, isErr)
		assert.Equal(t, "happy", out["mood"])
		assert.Equal(t, "whybecause", out["fingerprint"])
		assert.Equal(t, []int{90}, ratings.ratings)
	})

	t.Run("groan", func(t *testing.T) {
		srv := mcpserver.NewServer(mcpserver.Config{Acquirer: &mockAcquirer{}})
		session := connectInMemory(t, ctx, srv)

		out, isErr := callTool(t, ctx, session, "rate_joke", map[string]any{"setup": "S", "rating": 10})
		require.False(t, isErr)
		assert.Equal(t, "groan", out["mood"])
	})

	t.Run("archive failure still reacts", func(t *testing.T) {
		ratings := &mockRatings{err: errors.New("locked")}
		srv := mcpserver.NewServer(mcpserver.Config{Acquirer: &mockAcquirer{}, Ratings: ratings})
		session := connectInMemory(t, ctx, srv)

		out, isErr := callTool(t, ctx, session, "rate_joke", map[string]any{"setup": "S", "rating": 50})
		require.False(t, isErr)
		assert.Equal(t, "neutral", out["mood"])
	})

	t.Run("out of range", func(t *testing.T) {
		srv := mcpserver.NewServer(mcpserver.Config{Acquirer: &mockAcquirer{}})
		session := connectInMemory(t, ctx, srv)

		out, isErr := callTool(t, ctx, session, "rate_joke", map[string]any{"setup": "S", "rating": 150})
		require.True(t, isErr)
		assert.Contains(t, out["error"], "between 0 and 100")
	})
}
