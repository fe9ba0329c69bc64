package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TelegramNotifier delivers reminders through the Telegram bot API. The
// recipient is the chat id stored on the user.
type TelegramNotifier struct {
	botToken string
	client   *http.Client
}

func NewTelegramNotifier(botToken string) *TelegramNotifier {
	return &TelegramNotifier{
		botToken: strings.TrimSpace(botToken),
		client: &http.Client{
			Timeout: 8 * time.Second,
		},
	}
}

func (notifier *TelegramNotifier) Enabled() bool {
	return notifier.botToken != ""
}

func (notifier *TelegramNotifier) Send(ctx context.Context, recipient string, subject string, body string) error {
	if !notifier.Enabled() {
		return fmt.Errorf("telegram notifier disabled")
	}
	if strings.TrimSpace(recipient) == "" {
		return fmt.Errorf("missing recipient chat id")
	}

	values := url.Values{}
	values.Set("chat_id", recipient)
	values.Set("text", subject+"\n"+body)

	endpoint := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", notifier.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(values.Encode()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := notifier.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		responseBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("telegram status %d: %s", resp.StatusCode, string(responseBody))
	}

	return nil
}
