// Package notifier announces challenges over the Telegram Bot API and answers
// chat commands.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"Tradle/internal/metrics"
)

// DefaultBaseURL is the public Bot API endpoint.
const DefaultBaseURL = "https://api.telegram.org"

// TelegramNotifier sends messages via the Telegram Bot API.
type TelegramNotifier struct {
	BotToken string
	ChatID   string
	BaseURL  string
	Client   *http.Client

	backoff time.Duration
	poll    time.Duration
	logger  *zap.Logger
	metrics *metrics.Metrics
}

type Option func(*TelegramNotifier)

// WithBaseURL points the notifier at another Bot API host.
func WithBaseURL(u string) Option {
	return func(t *TelegramNotifier) {
		if u != "" {
			t.BaseURL = u
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(t *TelegramNotifier) { t.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(t *TelegramNotifier) { t.metrics = m }
}

// WithBackoff sets the first retry delay; later retries double it.
func WithBackoff(d time.Duration) Option {
	return func(t *TelegramNotifier) { t.backoff = d }
}

// NewTelegramNotifier creates a notifier with optional proxy support.
func NewTelegramNotifier(botToken, chatID, proxyURL string, opts ...Option) *TelegramNotifier {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	t := &TelegramNotifier{
		BotToken: botToken,
		ChatID:   chatID,
		BaseURL:  DefaultBaseURL,
		Client: &http.Client{
			Timeout:   35 * time.Second,
			Transport: transport,
		},
		backoff: time.Second,
		poll:    30 * time.Second,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *TelegramNotifier) method(name string) string {
	return t.BaseURL + "/bot" + t.BotToken + "/" + name
}

// Send sends an HTML message to the configured chat.
func (t *TelegramNotifier) Send(ctx context.Context, text string) error {
	return t.SendTo(ctx, t.ChatID, text)
}

// SendTo sends an HTML message to chatID.
func (t *TelegramNotifier) SendTo(ctx context.Context, chatID, text string) error {
	payload := map[string]any{
		"chat_id":                  chatID,
		"text":                     text,
		"parse_mode":               "HTML",
		"disable_web_page_preview": true,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "marshal payload")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.method("sendMessage"), bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.Client.Do(req)
	if err != nil {
		return errors.Wrap(err, "send message")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return errors.Errorf("telegram API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// SendWithRetry sends a message with exponential backoff retry.
func (t *TelegramNotifier) SendWithRetry(ctx context.Context, text string, maxRetries int) error {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		err := t.Send(ctx, text)
		if err == nil {
			t.metrics.RecordNotification(nil)
			return nil
		}
		lastErr = err
		if i == maxRetries {
			break
		}
		backoff := t.backoff * time.Duration(1<<uint(i))
		t.logger.Warn("telegram send failed",
			zap.Int("attempt", i+1),
			zap.Int("max_attempts", maxRetries+1),
			zap.Duration("retry_in", backoff),
			zap.Error(err))
		select {
		case <-ctx.Done():
			t.metrics.RecordNotification(ctx.Err())
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	err := errors.Wrapf(lastErr, "all %d attempts failed", maxRetries+1)
	t.metrics.RecordNotification(err)
	return err
}
