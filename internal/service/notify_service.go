package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"umkm-terminal/internal/core/domain"
	"umkm-terminal/internal/core/ports"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// notifyRetryIntervals is the backoff ladder for webhook delivery.
var notifyRetryIntervals = []time.Duration{
	15 * time.Second,
	60 * time.Second,
	2 * time.Minute,
}

// notifyTimeout bounds one background notification, retries included.
const notifyTimeout = 5 * time.Minute

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// MessageSender is the part of *tgbotapi.BotAPI the notifier needs.
type MessageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier posts admin notifications to a Telegram chat.
type TelegramNotifier struct {
	bot    MessageSender
	chatID int64
}

// NewTelegramNotifier creates a notifier that sends to chatID.
func NewTelegramNotifier(bot MessageSender, chatID int64) *TelegramNotifier {
	return &TelegramNotifier{bot: bot, chatID: chatID}
}

func (n *TelegramNotifier) Notify(_ context.Context, text string) error {
	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

// WebhookPayload is the JSON body posted to the admin webhook.
type WebhookPayload struct {
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// WebhookNotifier posts notifications as JSON with retries. When a secret is
// configured the body is signed into the X-Signature header.
type WebhookNotifier struct {
	url        string
	secret     string
	signer     *HMACSignatureService
	httpClient HTTPClient
	intervals  []time.Duration
	log        zerolog.Logger
}

// NewWebhookNotifier creates a webhook notifier. A nil intervals slice uses
// the default retry ladder.
func NewWebhookNotifier(url, secret string, httpClient HTTPClient, intervals []time.Duration, log zerolog.Logger) *WebhookNotifier {
	if intervals == nil {
		intervals = notifyRetryIntervals
	}
	return &WebhookNotifier{
		url:        url,
		secret:     secret,
		signer:     NewHMACSignatureService(),
		httpClient: httpClient,
		intervals:  intervals,
		log:        log,
	}
}

// Notify delivers text, retrying on transport errors and non-2xx responses.
func (n *WebhookNotifier) Notify(ctx context.Context, text string) error {
	body, err := json.Marshal(WebhookPayload{Text: text, Timestamp: time.Now().Unix()})
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= len(n.intervals); attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(n.intervals[attempt-1]):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if n.secret != "" {
			req.Header.Set("X-Signature", n.signer.Sign(n.secret, string(body)))
		}

		resp, err := n.httpClient.Do(req)
		if err != nil {
			lastErr = err
			n.log.Warn().Err(err).Int("attempt", attempt+1).Msg("notify webhook: delivery failed")
			continue
		}
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}

		lastErr = fmt.Errorf("status %d", resp.StatusCode)
		n.log.Warn().Int("attempt", attempt+1).Int("status", resp.StatusCode).Msg("notify webhook: non-2xx response, retrying")
	}

	return fmt.Errorf("notify webhook: all attempts failed: %w", lastErr)
}

// MultiNotifier fans a notification out to every target.
type MultiNotifier []ports.Notifier

func (m MultiNotifier) Notify(ctx context.Context, text string) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, text); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NopNotifier drops every notification.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, string) error { return nil }

// NotifyAsync sends text in the background. Errors are logged and dropped.
func NotifyAsync(n ports.Notifier, text string, log zerolog.Logger) {
	if n == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := n.Notify(ctx, text); err != nil {
			log.Warn().Err(err).Msg("admin notification failed")
		}
	}()
}

// FormatRecoverySummary renders a summary as a plain-text admin message.
func FormatRecoverySummary(title string, s *domain.RecoverySummary) string {
	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")
	fmt.Fprintf(&b, "processed: %d | recovered: %d | skipped: %d | failed: %d\n",
		s.Processed, s.Recovered, s.Skipped, s.Failed)
	fmt.Fprintf(&b, "total recovered: %s ETH\n", domain.FormatEther(s.TotalRecovered))
	if s.Cancelled {
		b.WriteString("run cancelled before all burners were attempted\n")
	}
	for _, e := range s.Entries {
		if e.Outcome != domain.RecoveryOutcomeErrored {
			continue
		}
		fmt.Fprintf(&b, "failed %s: %s\n", e.BurnerAddress, e.Reason)
	}
	if !s.FinishedAt.IsZero() {
		fmt.Fprintf(&b, "took %s", s.FinishedAt.Sub(s.StartedAt).Round(time.Millisecond))
	}
	return strings.TrimRight(b.String(), "\n")
}
