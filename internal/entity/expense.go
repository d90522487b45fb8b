package entity

import (
	"time"

	"github.com/google/uuid"
)

// Expense is a persisted household expense.
type Expense struct {
	ID          uuid.UUID `json:"id"`
	HouseholdID uuid.UUID `json:"household_id"`
	Date        time.Time `json:"expense_datetime"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Subcategory string    `json:"subcategory,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedBy   uuid.UUID `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// ExtractionDraft is the structured output of a successful model call.
// It has not been validated against the household's taxonomy or persisted.
type ExtractionDraft struct {
	Date        time.Time
	Amount      float64
	Category    string
	Subcategory string
	Notes       string
}
