// Package services содержит логику аутентификации оператора: вход, проверку JWT
// и создание учётной записи администратора при первом запуске.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/billing-admin/internal/lib/apperr"
	"github.com/magabrotheeeer/billing-admin/internal/lib/jwt"
	"github.com/magabrotheeeer/billing-admin/internal/lib/password"
	"github.com/magabrotheeeer/billing-admin/internal/lib/validate"
	"github.com/magabrotheeeer/billing-admin/internal/models"
)

// errInvalidCredentials одинакова для неизвестного имени и неверного пароля.
var errInvalidCredentials = fmt.Errorf("invalid credentials: %w", apperr.ErrUnauthorized)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет пользователя вместе с настройками уведомлений по умолчанию.
	CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error)
	// GetUserByUsername возвращает пользователя по имени или ErrNotFound.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	// GetUserByID возвращает пользователя по ID или ErrNotFound.
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// AuthService отвечает за вход, валидацию JWT и начальную учётную запись.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
	log      *slog.Logger
	validate *validator.Validate
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
		log:      log,
		validate: validate.New(),
	}
}

// Login проверяет пароль пользователя и выпускает токен доступа.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResult, error) {
	const op = "services.Login"
	if err := validate.Struct(s.validate, req); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.users.GetUserByUsername(ctx, req.Username)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, errInvalidCredentials)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := password.CompareHash(user.PasswordHash, req.Password); err != nil {
		if !errors.Is(err, password.ErrMismatch) {
			s.log.Error("stored password hash is unreadable", slog.Int64("user_id", user.ID))
		}
		return nil, fmt.Errorf("%s: %w", op, errInvalidCredentials)
	}

	token, err := s.jwtMaker.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &models.LoginResult{AccessToken: token, User: user.View()}, nil
}

// ValidateToken проверяет JWT и возвращает ID и имя пользователя.
// Любая ошибка разбора токена сводится к ErrUnauthorized.
func (s *AuthService) ValidateToken(_ context.Context, token string) (int64, string, error) {
	const op = "services.ValidateToken"
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return 0, "", fmt.Errorf("%s: %w: %v", op, apperr.ErrUnauthorized, err)
	}
	userID, err := claims.UserID()
	if err != nil {
		return 0, "", fmt.Errorf("%s: %w: %v", op, apperr.ErrUnauthorized, err)
	}
	return userID, claims.Username, nil
}

// Me возвращает публичное представление пользователя. Удалённый пользователь
// с ещё действующим токеном считается неавторизованным.
func (s *AuthService) Me(ctx context.Context, userID int64) (*models.UserView, error) {
	const op = "services.Me"
	user, err := s.users.GetUserByID(ctx, userID)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, apperr.ErrUnauthorized)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	view := user.View()
	return &view, nil
}

// EnsureAdmin создаёт пользователя username, если его ещё нет.
// Пустой пароль отключает создание.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, rawPassword string) error {
	const op = "services.EnsureAdmin"
	if username == "" || rawPassword == "" {
		s.log.Info("admin bootstrap skipped: credentials are not configured")
		return nil
	}

	_, err := s.users.GetUserByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	user, err := s.users.CreateUser(ctx, username, hashed)
	if errors.Is(err, apperr.ErrConflict) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("created admin user", slog.String("username", user.Username), slog.Int64("id", user.ID))
	return nil
}
