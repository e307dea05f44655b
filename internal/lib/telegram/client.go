// Package telegram — обёртка над go-telegram/bot для отправки сообщений
// и настройки вебхука.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// ErrNoToken возвращается, если токен бота не задан.
var ErrNoToken = errors.New("telegram bot token is required")

// Client отправляет сообщения через Bot API.
type Client struct {
	api *bot.Bot
}

// Option настраивает бота при создании клиента.
type Option = bot.Option

// WithServerURL направляет запросы на другой адрес Bot API.
func WithServerURL(url string) Option {
	return bot.WithServerURL(url)
}

// New создаёт клиента. Запрос getMe при создании не выполняется,
// поэтому сервис стартует и без доступа к Telegram.
func New(token string, opts ...Option) (*Client, error) {
	const op = "telegram.New"
	if token == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrNoToken)
	}
	opts = append([]bot.Option{bot.WithSkipGetMe()}, opts...)
	api, err := bot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Client{api: api}, nil
}

// SendHTML отправляет текст с HTML-разметкой в чат chatID.
func (c *Client) SendHTML(ctx context.Context, chatID, text string) error {
	const op = "telegram.SendHTML"
	_, err := c.api.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatTarget(chatID),
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Me возвращает имя бота без @.
func (c *Client) Me(ctx context.Context) (string, error) {
	const op = "telegram.Me"
	me, err := c.api.GetMe(ctx)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return me.Username, nil
}

// SetWebhook регистрирует адрес вебхука и секрет, который Telegram
// передаёт в заголовке X-Telegram-Bot-Api-Secret-Token.
func (c *Client) SetWebhook(ctx context.Context, url, secret string) error {
	const op = "telegram.SetWebhook"
	_, err := c.api.SetWebhook(ctx, &bot.SetWebhookParams{
		URL:         url,
		SecretToken: secret,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// chatTarget передаёт числовой идентификатор как int64, а @username как строку.
func chatTarget(chatID string) any {
	if id, err := strconv.ParseInt(chatID, 10, 64); err == nil {
		return id
	}
	return chatID
}

// Disabled заменяет клиента, когда токен бота не задан: любой вызов
// возвращает ErrNoToken.
type Disabled struct{}

func (Disabled) SendHTML(context.Context, string, string) error { return ErrNoToken }

func (Disabled) Me(context.Context) (string, error) { return "", ErrNoToken }
