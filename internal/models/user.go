package models

import "time"

// User - оператор системы. Один пользователь владеет одной строкой настроек уведомлений.
type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	PasswordHash   string    `json:"-"`
	TelegramChatID *string   `json:"telegramChatId"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// UserView - публичное представление пользователя без хэша пароля.
type UserView struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	TelegramChatID *string   `json:"telegramChatId"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// View возвращает публичное представление пользователя.
func (u *User) View() UserView {
	return UserView{
		ID:             u.ID,
		Username:       u.Username,
		TelegramChatID: u.TelegramChatID,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

// LoginRequest - учётные данные для входа.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=255"`
	Password string `json:"password" validate:"required"`
}

// LoginResult - выданный токен и пользователь.
type LoginResult struct {
	AccessToken string   `json:"accessToken"`
	User        UserView `json:"user"`
}

// TelegramLinkRequest привязывает чат Telegram к текущему пользователю.
type TelegramLinkRequest struct {
	ChatID string `json:"chatId" validate:"required,max=255"`
}

// TelegramConnectInfo - данные для привязки чата через бота.
type TelegramConnectInfo struct {
	BotUsername  string `json:"botUsername"`
	Instructions string `json:"instructions"`
}
