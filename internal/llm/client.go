package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/priyamehta/cddrisk/internal/config"
)

// ErrEmptyResponse indicates the endpoint answered 200 with an empty
// generation, which callers treat as a failed call.
var ErrEmptyResponse = errors.New("empty response from model endpoint")

// UnavailableError wraps a failure to reach the endpoint at all (connection
// refused, DNS, timeout).
type UnavailableError struct {
	Endpoint string
	Err      error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("cannot connect to model endpoint at %s: %v", e.Endpoint, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// HTTPError carries a non-2xx reply.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("model endpoint returned HTTP %d: %s", e.StatusCode, e.Body)
}

// Client issues blocking generation requests against an Ollama-compatible
// endpoint. One attempt per call, no retry; the configured timeouts bound
// each request.
type Client struct {
	baseURL       string
	textModel     string
	visionModel   string
	textTimeout   time.Duration
	visionTimeout time.Duration
	httpClient    *http.Client
}

// New constructs a Client from configuration.
func New(cfg config.LLMConfig) *Client {
	return &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		textModel:     cfg.TextModel,
		visionModel:   cfg.VisionModel,
		textTimeout:   cfg.TextTimeout,
		visionTimeout: cfg.VisionTimeout,
		httpClient:    &http.Client{},
	}
}

type generateRequest struct {
	Model  string   `json:"model"`
	Prompt string   `json:"prompt"`
	Images []string `json:"images,omitempty"`
	Stream bool     `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Generate sends a text prompt to the text model and returns the raw reply.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, generateRequest{
		Model:  c.textModel,
		Prompt: prompt,
	}, c.textTimeout)
}

// GenerateWithImages sends a prompt plus base64-encoded images to the vision
// model and returns the raw reply.
func (c *Client) GenerateWithImages(ctx context.Context, prompt string, images [][]byte) (string, error) {
	encoded := make([]string, 0, len(images))
	for _, img := range images {
		encoded = append(encoded, base64.StdEncoding.EncodeToString(img))
	}
	return c.generate(ctx, generateRequest{
		Model:  c.visionModel,
		Prompt: prompt,
		Images: encoded,
	}, c.visionTimeout)
}

func (c *Client) generate(ctx context.Context, payload generateRequest, timeout time.Duration) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	endpoint := c.baseURL + "/api/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &UnavailableError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read generate response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	var gr generateResponse
	if err := json.Unmarshal(respBody, &gr); err != nil {
		return "", fmt.Errorf("decode generate response: %w", err)
	}

	result := strings.TrimSpace(gr.Response)
	if result == "" {
		return "", ErrEmptyResponse
	}
	return result, nil
}
