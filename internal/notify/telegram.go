// Package notify delivers formatted replies back to Telegram users.
//
// Delivery is best-effort: a Notifier makes at most one attempt, never
// retries, and never reports failure to its caller. The interaction has
// already been recorded by the time Notify runs, so a lost message is the
// accepted outcome of any delivery problem.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tbourn/claim-gateway/internal/analysis"
)

const (
	// DefaultAPIBase is the public Telegram Bot API host.
	DefaultAPIBase = "https://api.telegram.org"
	// DefaultTimeout bounds one sendMessage call.
	DefaultTimeout = 10 * time.Second
)

// Notifier sends text to a Telegram chat. Implementations must not block
// longer than their own timeout and must not panic on delivery failure.
type Notifier interface {
	Notify(ctx context.Context, chatID int64, text string)
}

// Nop discards every notification. It is used when no bot token is configured.
type Nop struct{}

// Notify does nothing.
func (Nop) Notify(context.Context, int64, string) {}

// TelegramConfig configures a TelegramNotifier.
type TelegramConfig struct {
	Token   string
	APIBase string
	Timeout time.Duration
}

// TelegramNotifier posts to the Bot API sendMessage method.
type TelegramNotifier struct {
	endpoint string
	client   *http.Client
}

// New returns a TelegramNotifier, or Nop when cfg.Token is empty.
func New(cfg TelegramConfig) Notifier {
	if strings.TrimSpace(cfg.Token) == "" {
		return Nop{}
	}
	if cfg.APIBase == "" {
		cfg.APIBase = DefaultAPIBase
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &TelegramNotifier{
		endpoint: strings.TrimRight(cfg.APIBase, "/") + "/bot" + cfg.Token + "/sendMessage",
		client:   &http.Client{Timeout: cfg.Timeout},
	}
}

type sendMessageRequest struct {
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
}

// Notify makes one delivery attempt. Every outcome, including non-2xx
// statuses, is discarded.
func (n *TelegramNotifier) Notify(ctx context.Context, chatID int64, text string) {
	start := time.Now()
	err := n.send(context.WithoutCancel(ctx), chatID, text)
	analysis.Observe("telegram", start, err)
}

func (n *TelegramNotifier) send(ctx context.Context, chatID int64, text string) error {
	body, err := json.Marshal(sendMessageRequest{ChatID: chatID, Text: text})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode/100 != 2 {
		return errStatus(resp.StatusCode)
	}
	return nil
}

type errStatus int

func (e errStatus) Error() string { return "telegram: unexpected status " + http.StatusText(int(e)) }
