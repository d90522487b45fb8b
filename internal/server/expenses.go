package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/adpablos/expense-tracker-backend/internal/common"
	"github.com/adpablos/expense-tracker-backend/internal/entity"
)

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	householdID, err := parseUUIDParam(r, "household_id")
	if err != nil {
		writeError(w, err)
		return
	}
	from, err := parseDateParam(r, "from")
	if err != nil {
		writeError(w, err)
		return
	}
	to, err := parseDateParam(r, "to")
	if err != nil {
		writeError(w, err)
		return
	}

	expenses, err := s.lister.ListByHousehold(r.Context(), householdID, from, to)
	if err != nil {
		writeError(w, err)
		return
	}
	if expenses == nil {
		expenses = []*entity.Expense{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"expenses": expenses})
}

type createExpenseRequest struct {
	HouseholdID uuid.UUID `json:"household_id"`
	UserID      uuid.UUID `json:"user_id"`
	Date        string    `json:"date"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Subcategory string    `json:"subcategory"`
	Description string    `json:"description"`
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, common.NewAppError("BAD_BODY", "invalid JSON body", common.ErrInvalidInput))
		return
	}
	if req.HouseholdID == uuid.Nil || req.UserID == uuid.Nil {
		writeError(w, common.NewAppError("MISSING_PARAM", "household_id and user_id are required", common.ErrInvalidInput))
		return
	}

	var date time.Time
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			writeError(w, common.NewAppError("BAD_PARAM", "date must be YYYY-MM-DD", common.ErrInvalidInput))
			return
		}
		date = parsed
	}

	expense, err := s.expenses.Create(r.Context(), &entity.Expense{
		HouseholdID: req.HouseholdID,
		Date:        date,
		Amount:      req.Amount,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Description: req.Description,
		CreatedBy:   req.UserID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"expense": expense})
}
