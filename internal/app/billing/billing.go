package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	_ "github.com/magabrotheeeer/billing-admin/docs" // swagger spec
	"github.com/magabrotheeeer/billing-admin/internal/cache"
	"github.com/magabrotheeeer/billing-admin/internal/config"
	healthhandler "github.com/magabrotheeeer/billing-admin/internal/http/handlers/health"
	"github.com/magabrotheeeer/billing-admin/internal/lib/jwt"
	"github.com/magabrotheeeer/billing-admin/internal/lib/sl"
	"github.com/magabrotheeeer/billing-admin/internal/lib/telegram"
	"github.com/magabrotheeeer/billing-admin/internal/migrations"
	authservice "github.com/magabrotheeeer/billing-admin/internal/services/auth"
	clientservice "github.com/magabrotheeeer/billing-admin/internal/services/client"
	exchangerateservice "github.com/magabrotheeeer/billing-admin/internal/services/exchangerate"
	expenseservice "github.com/magabrotheeeer/billing-admin/internal/services/expense"
	metricsservice "github.com/magabrotheeeer/billing-admin/internal/services/metrics"
	paymentservice "github.com/magabrotheeeer/billing-admin/internal/services/payment"
	reportservice "github.com/magabrotheeeer/billing-admin/internal/services/report"
	settingsservice "github.com/magabrotheeeer/billing-admin/internal/services/settings"
	subscriptionservice "github.com/magabrotheeeer/billing-admin/internal/services/subscription"
	telegramservice "github.com/magabrotheeeer/billing-admin/internal/services/telegram"
	"github.com/magabrotheeeer/billing-admin/internal/storage/repository"
)

const shutdownTimeout = 15 * time.Second

// App — HTTP-сервер админки.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

// New подключает хранилище и кэш, накатывает миграции, создаёт администратора
// и регистрирует вебхук бота, если он настроен.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.billing.New"

	db, err := repository.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	authService := authservice.NewAuthService(db, jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL), logger)
	if err := authService.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password); err != nil {
		_ = cacheRedis.Close()
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	bot := newBot(ctx, cfg.Telegram, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg.HTTPServer, cfg.Telegram.WebhookSecret, Services{
		Auth:          authService,
		Clients:       clientservice.NewClientService(db, cacheRedis, logger),
		Subscriptions: subscriptionservice.NewSubscriptionService(db, logger),
		Payments:      paymentservice.New(db, logger),
		Expenses:      expenseservice.NewExpenseService(db, logger),
		ExchangeRates: exchangerateservice.NewExchangeRateService(db, cacheRedis, logger),
		Metrics:       metricsservice.NewMetricsService(db, logger),
		Reports:       reportservice.NewReportService(db, logger),
		Telegram:      telegramservice.NewBotService(bot, db, logger),
		Settings:      settingsservice.NewSettingsService(db, logger),
		Health: map[string]healthhandler.Pinger{
			"storage": db,
			"cache":   cacheRedis,
		},
	})

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

// newBot возвращает клиента Bot API. Без токена бот отключён: API работает,
// а привязка Telegram отвечает ошибкой.
func newBot(ctx context.Context, cfg config.Telegram, logger *slog.Logger) telegramservice.Bot {
	client, err := telegram.New(cfg.BotToken)
	if err != nil {
		logger.Warn("telegram bot disabled", sl.Err(err))
		return telegram.Disabled{}
	}
	if cfg.WebhookURL != "" {
		if err := client.SetWebhook(ctx, cfg.WebhookURL, cfg.WebhookSecret); err != nil {
			logger.Error("failed to register telegram webhook", sl.Err(err))
		} else {
			logger.Info("telegram webhook registered", slog.String("url", cfg.WebhookURL))
		}
	}
	return client
}

// Run запускает сервер и останавливает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if err := a.cache.Close(); err != nil {
		a.logger.Error("failed to close cache", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
}
