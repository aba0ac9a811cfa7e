package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidateBody(text string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"role": "model", "parts": []map[string]any{{"text": text}}}},
		},
	}
}

func TestRESTClient_Generate(t *testing.T) {
	t.Run("sends prompt and reads first candidate", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1beta/models/gemini-test:generateContent", r.URL.Path)
			assert.Equal(t, "secret", r.URL.Query().Get("key"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var req generateRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Len(t, req.Contents, 1)
			assert.Equal(t, "tell me a joke", req.Contents[0].Parts[0].Text)

			json.NewEncoder(w).Encode(candidateBody(`{"setup":"S","punchline":"P"}`))
		}))
		defer server.Close()

		c := NewRESTClient(RESTConfig{APIKey: "secret", Model: "gemini-test", BaseURL: server.URL})
		text, err := c.Generate(context.Background(), "tell me a joke")
		require.NoError(t, err)
		assert.Equal(t, `{"setup":"S","punchline":"P"}`, text)
	})

	t.Run("transport errors do not leak the key", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		server.Close()

		c := NewRESTClient(RESTConfig{APIKey: "super-secret", BaseURL: server.URL})
		_, err := c.Generate(context.Background(), "p")
		require.Error(t, err)
		assert.NotContains(t, err.Error(), "super-secret")
	})

	t.Run("empty candidates", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"candidates":[]}`))
		}))
		defer server.Close()

		c := NewRESTClient(RESTConfig{APIKey: "k", BaseURL: server.URL})
		_, err := c.Generate(context.Background(), "p")
		assert.ErrorIs(t, err, ErrEmptyGeneration)
	})

	t.Run("blank text", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(candidateBody("  "))
		}))
		defer server.Close()

		c := NewRESTClient(RESTConfig{APIKey: "k", BaseURL: server.URL})
		_, err := c.Generate(context.Background(), "p")
		assert.ErrorIs(t, err, ErrEmptyGeneration)
	})

	t.Run("client error is not retried", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":{"code":400,"message":"API key not valid"}}`))
		}))
		defer server.Close()

		c := NewRESTClient(RESTConfig{APIKey: "bad", BaseURL: server.URL, Backoff: time.Millisecond})
		_, err := c.Generate(context.Background(), "p")

		var upstream *UpstreamError
		require.True(t, errors.As(err, &upstream))
		assert.Equal(t, http.StatusBadRequest, upstream.StatusCode)
		assert.Contains(t, upstream.Body, "API key not valid")
		assert.EqualValues(t, 1, calls.Load())
	})

	t.Run("server errors are retried", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			json.NewEncoder(w).Encode(candidateBody("third time lucky"))
		}))
		defer server.Close()

		c := NewRESTClient(RESTConfig{APIKey: "k", BaseURL: server.URL, Backoff: time.Millisecond})
		text, err := c.Generate(context.Background(), "p")
		require.NoError(t, err)
		assert.Equal(t, "third time lucky", text)
		assert.EqualValues(t, 3, calls.Load())
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		c := NewRESTClient(RESTConfig{APIKey: "k", BaseURL: server.URL, Backoff: time.Millisecond})
		_, err := c.Generate(context.Background(), "p")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "after 3 attempts")
		assert.EqualValues(t, maxAttempts, calls.Load())
	})

	t.Run("context cancelled during backoff", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		c := NewRESTClient(RESTConfig{APIKey: "k", BaseURL: server.URL, Backoff: time.Hour})
		_, err := c.Generate(ctx, "p")
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestNewRESTClient_Defaults(t *testing.T) {
	c := NewRESTClient(RESTConfig{APIKey: "k", BaseURL: "http://example.com/"})
	assert.Equal(t, DefaultModel, c.model)
	assert.Equal(t, "http://example.com", c.baseURL)
	assert.Equal(t, time.Second, c.backoff)
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		_, err := New(ctx, Config{})
		assert.ErrorIs(t, err, ErrMissingAPIKey)
	})

	t.Run("rest by default", func(t *testing.T) {
		g, err := New(ctx, Config{APIKey: "k"})
		require.NoError(t, err)
		assert.IsType(t, &RESTClient{}, g)
	})

	t.Run("sdk", func(t *testing.T) {
		g, err := New(ctx, Config{APIKey: "k", Backend: BackendSDK})
		require.NoError(t, err)
		assert.IsType(t, &SDKClient{}, g)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := New(ctx, Config{APIKey: "k", Backend: "grpc"})
		assert.Error(t, err)
	})
}

func TestSDKClient_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "models/gemini-test:generateContent"), r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(candidateBody("Q: Why?\nA: Because."))
	}))
	defer server.Close()

	c, err := NewSDKClient(context.Background(), SDKConfig{APIKey: "k", Model: "gemini-test", BaseURL: server.URL})
	require.NoError(t, err)

	text, err := c.Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "Q: Why?\nA: Because.", text)
}
