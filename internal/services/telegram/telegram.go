// Package services обрабатывает команды бота и привязку чата Telegram к пользователю.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	botmodels "github.com/go-telegram/bot/models"

	"github.com/magabrotheeeer/billing-admin/internal/lib/apperr"
	"github.com/magabrotheeeer/billing-admin/internal/lib/sl"
	"github.com/magabrotheeeer/billing-admin/internal/models"
	notification "github.com/magabrotheeeer/billing-admin/internal/services/notification"
)

const (
	helpText = "<b>Available Commands:</b>\n\n" +
		"/start - Start the bot and get connection instructions\n" +
		"/help - Show this help message\n\n" +
		"Once connected, you'll receive notifications for:\n" +
		"⚠️ Overdue payments\n" +
		"📋 Subscription renewals\n" +
		"💳 Expense due dates\n" +
		"📊 Daily summaries (if enabled)"

	unknownCommandText = "Unknown command. Use /help to see available commands."
)

// Bot — операции Bot API, нужные сервису.
type Bot interface {
	SendHTML(ctx context.Context, chatID, text string) error
	Me(ctx context.Context) (string, error)
}

// UserRepository — привязка чата к пользователю.
type UserRepository interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	SetTelegramChatID(ctx context.Context, userID int64, chatID *string) error
}

// BotService отвечает на команды и управляет привязкой чата.
type BotService struct {
	bot   Bot
	users UserRepository
	log   *slog.Logger
}

// NewBotService создает новый экземпляр BotService.
func NewBotService(bot Bot, users UserRepository, log *slog.Logger) *BotService {
	return &BotService{
		bot:   bot,
		users: users,
		log:   log,
	}
}

func startText(username string, chatID int64) string {
	return fmt.Sprintf("✅ <b>Welcome!</b>\n\n"+
		"Hello %s!\n"+
		"To connect this Telegram account to your Subscriptions App, please:\n\n"+
		"1. Login to the web app\n"+
		"2. Go to Settings > Telegram\n"+
		"3. Enter your username: @%s\n\n"+
		"Your chat ID: <code>%d</code>\n\n"+
		"Use /help to see available commands.", username, username, chatID)
}

// command возвращает команду без аргументов и суффикса @bot.
func command(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	cmd, _, _ := strings.Cut(fields[0], "@")
	return cmd
}

// HandleUpdate отвечает на входящее сообщение. Обновления без сообщения игнорируются.
func (s *BotService) HandleUpdate(ctx context.Context, update *botmodels.Update) {
	if update == nil || update.Message == nil {
		return
	}
	msg := update.Message
	chatID := msg.Chat.ID

	var text string
	switch command(msg.Text) {
	case "/start":
		username := ""
		if msg.From != nil {
			username = msg.From.Username
			if username == "" {
				username = msg.From.FirstName
			}
		}
		text = startText(username, chatID)
	case "/help":
		text = helpText
	default:
		text = unknownCommandText
	}

	if err := s.bot.SendHTML(ctx, strconv.FormatInt(chatID, 10), text); err != nil {
		s.log.Error("failed to reply to telegram update", slog.Int64("chat_id", chatID), sl.Err(err))
	}
}

// ConnectInfo возвращает имя бота и инструкцию по привязке.
func (s *BotService) ConnectInfo(ctx context.Context) (*models.TelegramConnectInfo, error) {
	const op = "services.ConnectInfo"
	name, err := s.bot.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &models.TelegramConnectInfo{
		BotUsername:  name,
		Instructions: "Send /start to @" + name + " on Telegram",
	}, nil
}

// Link привязывает чат к пользователю и отправляет подтверждение в чат.
// Ошибка отправки подтверждения не отменяет привязку.
func (s *BotService) Link(ctx context.Context, userID int64, chatID string) (*models.UserView, error) {
	const op = "services.Link"
	chatID = strings.TrimSpace(chatID)
	if chatID == "" {
		return nil, fmt.Errorf("%s: %w", op, apperr.NewValidationError("chatId", "is required"))
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.users.SetTelegramChatID(ctx, userID, &chatID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user.TelegramChatID = &chatID

	if err := s.bot.SendHTML(ctx, chatID, notification.TelegramLinkedMessage(user.Username)); err != nil {
		s.log.Warn("failed to send link confirmation", slog.Int64("user_id", userID), sl.Err(err))
	}
	s.log.Info("telegram chat linked", slog.Int64("user_id", userID))

	view := user.View()
	return &view, nil
}

// Unlink отвязывает чат пользователя.
func (s *BotService) Unlink(ctx context.Context, userID int64) error {
	const op = "services.Unlink"
	if err := s.users.SetTelegramChatID(ctx, userID, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("telegram chat unlinked", slog.Int64("user_id", userID))
	return nil
}
