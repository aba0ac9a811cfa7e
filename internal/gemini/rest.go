package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultTimeout = 30 * time.Second
	maxAttempts    = 3
)

// RESTClient calls the generateContent REST endpoint.
type RESTClient struct {
	apiKey     string
	httpClient *http.Client
	model      string
	baseURL    string
	backoff    time.Duration
}

// RESTConfig holds configuration for the REST client.
type RESTConfig struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration

	// Backoff is the first retry delay, doubled on each attempt.
	Backoff time.Duration
}

// NewRESTClient creates a new REST client.
func NewRESTClient(cfg RESTConfig) *RESTClient {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	backoff := cfg.Backoff
	if backoff <= 0 {
		backoff = time.Second
	}

	return &RESTClient{
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		model:      model,
		baseURL:    baseURL,
		backoff:    backoff,
	}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

// generateRequest is the request body for generateContent.
type generateRequest struct {
	Contents []content `json:"contents"`
}

// generateResponse is the subset of the generateContent response we read.
type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// Generate sends the prompt and returns the first candidate's text. Rate
// limits and server errors are retried with exponential backoff.
func (c *RESTClient) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			backoff := c.backoff << uint(attempt-1)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		text, err := c.doGenerate(ctx, body)
		if err == nil {
			return text, nil
		}
		if !retryable(err) {
			return "", err
		}
		lastErr = err
	}

	return "", fmt.Errorf("after %d attempts: %w", maxAttempts, lastErr)
}

func (c *RESTClient) doGenerate(ctx context.Context, body []byte) (string, error) {
	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		c.baseURL, url.PathEscape(c.model), url.QueryEscape(c.apiKey))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// *url.Error repeats the URL, which carries the key.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &UpstreamError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var genResp generateResponse
	if err := json.Unmarshal(respBody, &genResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if genResp.Error != nil {
		return "", &UpstreamError{StatusCode: genResp.Error.Code, Body: genResp.Error.Message}
	}

	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyGeneration
	}

	text := genResp.Candidates[0].Content.Parts[0].Text
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyGeneration
	}
	return text, nil
}

// retryable reports whether a failed call is worth repeating.
func retryable(err error) bool {
	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		return false
	}
	return upstream.StatusCode == http.StatusTooManyRequests || upstream.StatusCode >= 500
}
