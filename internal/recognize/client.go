package recognize

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// Client sends audio clips to an OpenAI-compatible transcription endpoint.
// Any server implementing POST {endpoint}/audio/transcriptions works,
// including local faster-whisper and speaches deployments.
type Client struct {
	endpoint string
	model    string
	apiKey   string
	client   *http.Client
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client (primarily for tests).
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.client = httpClient
		}
	}
}

// New constructs a transcription client. The API key may be empty for
// endpoints that do not authenticate.
func New(endpoint, model, apiKey string, timeout time.Duration, opts ...Option) (*Client, error) {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		return nil, errors.New("recognize: endpoint required")
	}
	model = strings.TrimSpace(model)
	if model == "" {
		return nil, errors.New("recognize: model required")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := &Client{
		endpoint: endpoint,
		model:    model,
		apiKey:   strings.TrimSpace(apiKey),
		client:   &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

// Recognize uploads the clip at clipPath and returns the transcribed text,
// trimmed. An empty transcript is not an error; silence transcribes to "".
func (c *Client) Recognize(ctx context.Context, clipPath string) (string, error) {
	f, err := os.Open(clipPath)
	if err != nil {
		return "", fmt.Errorf("recognize: open clip: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("model", c.model); err != nil {
		return "", fmt.Errorf("recognize: encode request: %w", err)
	}
	fw, err := mw.CreateFormFile("file", filepath.Base(clipPath))
	if err != nil {
		return "", fmt.Errorf("recognize: encode request: %w", err)
	}
	if _, err := io.Copy(fw, f); err != nil {
		return "", fmt.Errorf("recognize: read clip: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("recognize: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/audio/transcriptions", &body)
	if err != nil {
		return "", fmt.Errorf("recognize: build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("User-Agent", "chapterize")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("recognize: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("recognize: transcription endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(excerpt)))
	}

	var out transcriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("recognize: decode response: %w", err)
	}
	return strings.TrimSpace(out.Text), nil
}
