package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"chapterize/internal/config"
)

const userAgent = "chapterize/0.1.0"

// Service defines the push notification surface the pipeline reports through.
type Service interface {
	NotifyRunCompleted(ctx context.Context, book string, chapterCount int, elapsed time.Duration) error
	NotifyRunPartial(ctx context.Context, book string, exported, failed int) error
	NotifyRunFailed(ctx context.Context, book string, runErr error) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyRunCompleted(ctx context.Context, book string, chapterCount int, elapsed time.Duration) error {
	book = strings.TrimSpace(book)
	elapsed = elapsed.Round(time.Second)
	if elapsed < 0 {
		elapsed = 0
	}
	data := payload{
		title:   "Chapterize - Complete",
		message: fmt.Sprintf("✅ %s split into %d chapters in %s", book, chapterCount, elapsed),
		tags:    []string{"chapterize", "split", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyRunPartial(ctx context.Context, book string, exported, failed int) error {
	book = strings.TrimSpace(book)
	data := payload{
		title:    "Chapterize - Partial",
		message:  fmt.Sprintf("⚠️ %s: %d chapters exported, %d failed", book, exported, failed),
		tags:     []string{"chapterize", "split", "partial"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyRunFailed(ctx context.Context, book string, runErr error) error {
	book = strings.TrimSpace(book)
	detail := "unknown"
	if runErr != nil {
		detail = strings.TrimSpace(runErr.Error())
	}
	data := payload{
		title:    "Chapterize - Failed",
		message:  fmt.Sprintf("❌ %s: %s", book, detail),
		tags:     []string{"chapterize", "split", "failed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Chapterize - Test",
		message:  "🧪 Notification system test",
		tags:     []string{"chapterize", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyRunCompleted(context.Context, string, int, time.Duration) error { return nil }
func (noopService) NotifyRunPartial(context.Context, string, int, int) error             { return nil }
func (noopService) NotifyRunFailed(context.Context, string, error) error                 { return nil }
func (noopService) TestNotification(context.Context) error                               { return nil }
