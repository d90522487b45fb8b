package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/adpablos/expense-tracker-backend/internal/common"
	"github.com/adpablos/expense-tracker-backend/internal/entity"
	"github.com/adpablos/expense-tracker-backend/internal/repository"
)

// EventPublisher delivers household notification events.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// CategoryFinder is the repository slice draft validation needs.
type CategoryFinder interface {
	FindByName(ctx context.Context, householdID uuid.UUID, name string) (*entity.Category, error)
}

// ExpenseService persists validated drafts and raises domain notifications.
type ExpenseService struct {
	expenses   repository.ExpenseRepository
	categories CategoryFinder
	publisher  EventPublisher
	logger     *slog.Logger
}

func NewExpenseService(expenses repository.ExpenseRepository, categories CategoryFinder, publisher EventPublisher, logger *slog.Logger) *ExpenseService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExpenseService{
		expenses:   expenses,
		categories: categories,
		publisher:  publisher,
		logger:     logger,
	}
}

// ExpenseCreatedEvent is published to the household queue after persistence.
type ExpenseCreatedEvent struct {
	ExpenseID   uuid.UUID `json:"expense_id"`
	HouseholdID uuid.UUID `json:"household_id"`
	CreatedBy   uuid.UUID `json:"created_by"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Date        time.Time `json:"date"`
}

// CreateFromDraft validates an extraction draft against the household's
// actual taxonomy and persists it. Validation failures surface as domain
// errors; they are never swallowed.
func (s *ExpenseService) CreateFromDraft(ctx context.Context, draft *entity.ExtractionDraft, householdID, userID uuid.UUID) (*entity.Expense, error) {
	if draft.Amount <= 0 {
		return nil, common.NewAppError("INVALID_AMOUNT", fmt.Sprintf("amount must be positive, got %v", draft.Amount), common.ErrValidation)
	}
	if draft.Category == "" {
		return nil, common.NewAppError("MISSING_CATEGORY", "draft has no category", common.ErrValidation)
	}
	if _, err := s.categories.FindByName(ctx, householdID, draft.Category); err != nil {
		return nil, common.NewAppError("UNKNOWN_CATEGORY", "category "+draft.Category+" does not exist for household", common.ErrValidation)
	}

	expense := &entity.Expense{
		ID:          uuid.New(),
		HouseholdID: householdID,
		Date:        draft.Date,
		Amount:      draft.Amount,
		Category:    draft.Category,
		Subcategory: draft.Subcategory,
		Description: draft.Notes,
		CreatedBy:   userID,
	}
	return s.create(ctx, expense)
}

// Create persists a caller-supplied expense (the manual CRUD path).
func (s *ExpenseService) Create(ctx context.Context, expense *entity.Expense) (*entity.Expense, error) {
	if expense.Amount <= 0 {
		return nil, common.NewAppError("INVALID_AMOUNT", fmt.Sprintf("amount must be positive, got %v", expense.Amount), common.ErrValidation)
	}
	if expense.Category == "" {
		return nil, common.NewAppError("MISSING_CATEGORY", "expense has no category", common.ErrValidation)
	}
	if expense.ID == uuid.Nil {
		expense.ID = uuid.New()
	}
	if expense.Date.IsZero() {
		expense.Date = time.Now()
	}
	return s.create(ctx, expense)
}

func (s *ExpenseService) create(ctx context.Context, expense *entity.Expense) (*entity.Expense, error) {
	if err := s.expenses.Insert(ctx, expense); err != nil {
		return nil, err
	}

	event := ExpenseCreatedEvent{
		ExpenseID:   expense.ID,
		HouseholdID: expense.HouseholdID,
		CreatedBy:   expense.CreatedBy,
		Amount:      expense.Amount,
		Category:    expense.Category,
		Date:        expense.Date,
	}
	// The expense is already durable; a notification failure is logged, not
	// propagated.
	if err := s.publisher.Publish(ctx, "expense.created", event); err != nil {
		s.logger.Warn("expense.notify_failed", "expense_id", expense.ID, "household_id", expense.HouseholdID, "error", err)
	}

	s.logger.Info("expense.created",
		"expense_id", expense.ID,
		"household_id", expense.HouseholdID,
		"amount", expense.Amount,
		"category", expense.Category,
	)
	return expense, nil
}
