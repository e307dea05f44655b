// Package services содержит бизнес-логику учёта расходов компании.
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

// ExpenseRepository определяет методы хранилища расходов.
type ExpenseRepository interface {
	CreateExpense(ctx context.Context, req models.ExpenseRequest, status string) (*models.Expense, error)
	GetExpense(ctx context.Context, id int64) (*models.Expense, error)
	ListExpenses(ctx context.Context, filter models.ExpenseFilter) ([]models.Expense, error)
	UpdateExpense(ctx context.Context, id int64, req models.ExpenseRequest, status string) (*models.Expense, error)
	DeleteExpense(ctx context.Context, id int64) error
}

// ExpenseService реализует CRUD расходов.
type ExpenseService struct {
	repo     ExpenseRepository
	log      *slog.Logger
	validate *validator.Validate
	now      func() time.Time
}

// NewExpenseService создает новый экземпляр ExpenseService.
func NewExpenseService(repo ExpenseRepository, log *slog.Logger) *ExpenseService {
	return &ExpenseService{
		repo:     repo,
		log:      log,
		validate: validate.New(),
		now:      time.Now,
	}
}

// Create сохраняет расход со статусом paid, overdue или pending.
func (s *ExpenseService) Create(ctx context.Context, req models.ExpenseRequest) (*models.Expense, error) {
	const op = "services.CreateExpense"
	if err := validate.Struct(s.validate, req); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	expense, err := s.repo.CreateExpense(ctx, req, req.InitialStatus(s.now()))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("created new expense", slog.Int64("id", expense.ID), slog.String("status", expense.Status))
	return expense, nil
}

// Get возвращает расход по ID.
func (s *ExpenseService) Get(ctx context.Context, id int64) (*models.Expense, error) {
	const op = "services.GetExpense"
	expense, err := s.repo.GetExpense(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return expense, nil
}

// List возвращает расходы по фильтру.
func (s *ExpenseService) List(ctx context.Context, filter models.ExpenseFilter) ([]models.Expense, error) {
	const op = "services.ListExpenses"
	expenses, err := s.repo.ListExpenses(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if expenses == nil {
		expenses = []models.Expense{}
	}
	return expenses, nil
}

// Update накладывает патч на расход. Статус меняется только явным полем status.
func (s *ExpenseService) Update(ctx context.Context, id int64, patch models.ExpensePatch) (*models.Expense, error) {
	const op = "services.UpdateExpense"
	if err := validate.Struct(s.validate, patch); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	existing, err := s.repo.GetExpense(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	req := models.ExpenseRequestFrom(existing)
	patch.Apply(&req)
	if err := validate.Struct(s.validate, req); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	status := existing.Status
	if patch.Status != nil {
		status = *patch.Status
	}

	expense, err := s.repo.UpdateExpense(ctx, id, req, status)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return expense, nil
}

// Delete удаляет расход.
func (s *ExpenseService) Delete(ctx context.Context, id int64) error {
	const op = "services.DeleteExpense"
	if err := s.repo.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("deleted expense", slog.Int64("id", id))
	return nil
}
