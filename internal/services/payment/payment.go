// Package services содержит бизнес-логику учёта платежей клиентов.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/billing-admin/internal/lib/validate"
	"github.com/magabrotheeeer/billing-admin/internal/models"
)

// PaymentRepository определяет методы хранилища платежей.
type PaymentRepository interface {
	CreatePayment(ctx context.Context, req models.PaymentRequest, status string) (*models.Payment, error)
	GetPayment(ctx context.Context, id int64) (*models.Payment, error)
	ListPayments(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, error)
	UpdatePayment(ctx context.Context, id int64, req models.PaymentRequest, status string) (*models.Payment, error)
	DeletePayment(ctx context.Context, id int64) error
}

// PaymentService реализует CRUD платежей.
type PaymentService struct {
	repo     PaymentRepository
	log      *slog.Logger
	validate *validator.Validate
	now      func() time.Time
}

// New создает новый экземпляр PaymentService.
func New(repo PaymentRepository, log *slog.Logger) *PaymentService {
	return &PaymentService{
		repo:     repo,
		log:      log,
		validate: validate.New(),
		now:      time.Now,
	}
}

// Create сохраняет платёж: будущая дата даёт pending, прошедшая или текущая — completed.
func (s *PaymentService) Create(ctx context.Context, req models.PaymentRequest) (*models.Payment, error) {
	const op = "services.CreatePayment"
	if err := validate.Struct(s.validate, req); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	payment, err := s.repo.CreatePayment(ctx, req, req.InitialStatus(s.now()))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("created new payment",
		slog.Int64("id", payment.ID),
		slog.Int64("client_id", payment.ClientID),
		slog.String("status", payment.Status),
	)
	return payment, nil
}

// Get возвращает платёж по ID.
func (s *PaymentService) Get(ctx context.Context, id int64) (*models.Payment, error) {
	const op = "services.GetPayment"
	payment, err := s.repo.GetPayment(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return payment, nil
}

// List возвращает платежи по фильтру.
func (s *PaymentService) List(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, error) {
	const op = "services.ListPayments"
	payments, err := s.repo.ListPayments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if payments == nil {
		payments = []models.Payment{}
	}
	return payments, nil
}

// Update накладывает патч на платёж. Статус не пересчитывается по дате.
func (s *PaymentService) Update(ctx context.Context, id int64, patch models.PaymentPatch) (*models.Payment, error) {
	const op = "services.UpdatePayment"
	if err := validate.Struct(s.validate, patch); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	existing, err := s.repo.GetPayment(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	req := models.PaymentRequestFrom(existing)
	patch.Apply(&req)
	if err := validate.Struct(s.validate, req); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	status := existing.Status
	if patch.Status != nil {
		status = *patch.Status
	}

	payment, err := s.repo.UpdatePayment(ctx, id, req, status)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return payment, nil
}

// Delete удаляет платёж.
func (s *PaymentService) Delete(ctx context.Context, id int64) error {
	const op = "services.DeletePayment"
	if err := s.repo.DeletePayment(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("deleted payment", slog.Int64("id", id))
	return nil
}
