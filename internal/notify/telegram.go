package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"newspulse/internal/retry"
)

// Telegram posts cycle summaries to a chat or channel.
type Telegram struct {
	token  string
	chatID string
	client *http.Client
}

func NewTelegram(token, chatID string) *Telegram {
	return &Telegram{
		token:  token,
		chatID: chatID,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (t *Telegram) Notify(ctx context.Context, ev Event) error {
	text := fmt.Sprintf("📰 <b>newspulse</b>: %d new items cached at %s",
		ev.AcceptedCount, ev.CompletedAt.UTC().Format("2006-01-02 15:04 UTC"))

	return retry.WithRetry(ctx, retry.Config{MaxAttempts: 3, Delay: time.Second, Backoff: true}, func() error {
		return t.sendMessage(ctx, text)
	})
}

func (t *Telegram) sendMessage(ctx context.Context, text string) error {
	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", t.token)

	payload := map[string]interface{}{
		"chat_id":                  t.chatID,
		"text":                     text,
		"parse_mode":               "HTML",
		"disable_web_page_preview": true,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API error: status %d", resp.StatusCode)
	}
	return nil
}
