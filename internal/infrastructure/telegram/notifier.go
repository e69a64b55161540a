package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"DataDigest/internal/ports"
)

// Notifier sends run reports to a Telegram chat via bot API.
type Notifier struct {
	botToken string
	chatID   string
	endpoint string
	client   *http.Client

	mu  sync.Mutex
	bot *tgbotapi.BotAPI
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier registers bot token and chat identifier (numeric id or @channel).
func NewNotifier(botToken, chatID string) *Notifier {
	return &Notifier{
		botToken: botToken,
		chatID:   chatID,
		endpoint: tgbotapi.APIEndpoint,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

// WithEndpoint overrides the bot API endpoint format ("<base>/bot%s/%s").
func (n *Notifier) WithEndpoint(endpoint string, client *http.Client) *Notifier {
	n.endpoint = endpoint
	if client != nil {
		n.client = client
	}
	return n
}

// PublishReport posts the report as a plain-text message.
func (n *Notifier) PublishReport(ctx context.Context, report string) error {
	if n.botToken == "" || n.chatID == "" || n.client == nil {
		return fmt.Errorf("telegram notifier misconfigured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	bot, err := n.api()
	if err != nil {
		return err
	}

	var msg tgbotapi.MessageConfig
	if id, err := strconv.ParseInt(n.chatID, 10, 64); err == nil {
		msg = tgbotapi.NewMessage(id, report)
	} else {
		msg = tgbotapi.NewMessageToChannel(n.chatID, report)
	}
	msg.DisableWebPagePreview = true

	if _, err := bot.Send(msg); err != nil {
		return fmt.Errorf("telegram error: %w", err)
	}
	return nil
}

// api connects lazily; the client verifies the token on construction.
func (n *Notifier) api() (*tgbotapi.BotAPI, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.bot != nil {
		return n.bot, nil
	}
	endpoint := n.endpoint
	if !strings.Contains(endpoint, "%s") {
		endpoint = tgbotapi.APIEndpoint
	}
	bot, err := tgbotapi.NewBotAPIWithClient(n.botToken, endpoint, n.client)
	if err != nil {
		return nil, fmt.Errorf("connect telegram bot: %w", err)
	}
	n.bot = bot
	return bot, nil
}
