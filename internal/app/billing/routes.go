// Package billing собирает HTTP API админки: хранилище, кэш, сервисы,
// маршруты и бота Telegram.
package billing

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/billing-admin/internal/config"
	authhandler "github.com/magabrotheeeer/billing-admin/internal/http/handlers/auth"
	clienthandler "github.com/magabrotheeeer/billing-admin/internal/http/handlers/client"
	dashboardhandler "github.com/magabrotheeeer/billing-admin/internal/http/handlers/dashboard"
	exchangeratehandler "github.com/magabrotheeeer/billing-admin/internal/http/handlers/exchangerate"
	expensehandler "github.com/magabrotheeeer/billing-admin/internal/http/handlers/expense"
	healthhandler "github.com/magabrotheeeer/billing-admin/internal/http/handlers/health"
	paymenthandler "github.com/magabrotheeeer/billing-admin/internal/http/handlers/payment"
	reporthandler "github.com/magabrotheeeer/billing-admin/internal/http/handlers/report"
	settingshandler "github.com/magabrotheeeer/billing-admin/internal/http/handlers/settings"
	subscriptionhandler "github.com/magabrotheeeer/billing-admin/internal/http/handlers/subscription"
	telegramhandler "github.com/magabrotheeeer/billing-admin/internal/http/handlers/telegram"
	"github.com/magabrotheeeer/billing-admin/internal/http/middlewarectx"
)

// AuthService объединяет вход и проверку токена.
type AuthService interface {
	authhandler.Service
	middlewarectx.Service
}

// Services — зависимости маршрутов.
type Services struct {
	Auth          AuthService
	Clients       clienthandler.Service
	Subscriptions subscriptionhandler.Service
	Payments      paymenthandler.Service
	Expenses      expensehandler.Service
	ExchangeRates exchangeratehandler.Service
	Metrics       dashboardhandler.Service
	Reports       reporthandler.Service
	Telegram      telegramhandler.Service
	Settings      settingshandler.Service
	Health        map[string]healthhandler.Pinger
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg config.HTTPServer, webhookSecret string, s Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSAllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
			ExposedHeaders:   []string{"Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           300,
		}),
		middlewarectx.MetricsMiddleware,
	)

	auth := authhandler.New(logger, s.Auth)
	clients := clienthandler.New(logger, s.Clients)
	subscriptions := subscriptionhandler.New(logger, s.Subscriptions)
	payments := paymenthandler.New(logger, s.Payments)
	expenses := expensehandler.New(logger, s.Expenses)
	rates := exchangeratehandler.New(logger, s.ExchangeRates)
	dashboard := dashboardhandler.New(logger, s.Metrics)
	reports := reporthandler.New(logger, s.Reports)
	telegram := telegramhandler.New(logger, s.Telegram, webhookSecret)
	settings := settingshandler.New(logger, s.Settings)

	limit := middlewarectx.RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst, logger)

	r.Route("/api", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/login", auth.Login)
		r.Post("/telegram/webhook", telegram.Webhook)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.Auth, logger))

			r.Get("/auth/me", auth.Me)

			r.Get("/clients", clients.List)
			r.Get("/clients/{id}", clients.Get)
			r.Get("/subscriptions", subscriptions.List)
			r.Get("/subscriptions/{id}", subscriptions.Get)
			r.Get("/payments", payments.List)
			r.Get("/payments/{id}", payments.Get)
			r.Get("/expenses", expenses.List)
			r.Get("/expenses/{id}", expenses.Get)
			r.Get("/exchange-rates", rates.List)
			r.Get("/exchange-rates/latest", rates.Latest)
			r.Get("/exchange-rates/convert", rates.Convert)
			r.Get("/exchange-rates/{id}", rates.Get)

			r.Get("/dashboard/metrics", dashboard.Metrics)

			r.Get("/reports/revenue", reports.Revenue)
			r.Get("/reports/expenses", reports.Expenses)
			r.Get("/reports/cash-flow", reports.CashFlow)
			r.Get("/reports/revenue/export/{format}", reports.ExportRevenue)
			r.Get("/reports/expenses/export/{format}", reports.ExportExpenses)
			r.Get("/reports/cash-flow/export/{format}", reports.ExportCashFlow)

			r.Get("/telegram/connect", telegram.ConnectInfo)
			r.Get("/notifications/settings", settings.Get)

			// Изменяющие запросы дополнительно ограничены по частоте
			r.Group(func(r chi.Router) {
				r.Use(limit)

				r.Post("/clients", clients.Create)
				r.Put("/clients/{id}", clients.Update)
				r.Delete("/clients/{id}", clients.Delete)
				r.Post("/subscriptions", subscriptions.Create)
				r.Put("/subscriptions/{id}", subscriptions.Update)
				r.Delete("/subscriptions/{id}", subscriptions.Delete)
				r.Post("/payments", payments.Create)
				r.Put("/payments/{id}", payments.Update)
				r.Delete("/payments/{id}", payments.Delete)
				r.Post("/expenses", expenses.Create)
				r.Put("/expenses/{id}", expenses.Update)
				r.Delete("/expenses/{id}", expenses.Delete)
				r.Post("/exchange-rates", rates.Create)
				r.Put("/exchange-rates/{id}", rates.Update)
				r.Delete("/exchange-rates/{id}", rates.Delete)

				r.Post("/telegram/connect", telegram.Connect)
				r.Delete("/telegram/disconnect", telegram.Disconnect)
				r.Put("/notifications/settings", settings.Update)
			})
		})
	})

	r.Get("/health", healthhandler.New(logger, s.Health).Health)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
