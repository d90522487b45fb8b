package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/adpablos/expense-tracker-backend/internal/common"
	"github.com/adpablos/expense-tracker-backend/internal/entity"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	householdID, err := parseUUIDParam(r, "household_id")
	if err != nil {
		writeError(w, err)
		return
	}

	hierarchy, err := s.categories.ListHierarchy(r.Context(), householdID)
	if err != nil {
		writeError(w, err)
		return
	}
	if hierarchy == nil {
		hierarchy = []entity.CategoryWithSubcategories{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": hierarchy})
}

type createHouseholdRequest struct {
	Name    string    `json:"name"`
	OwnerID uuid.UUID `json:"owner_id"`
}

func (s *Server) handleCreateHousehold(w http.ResponseWriter, r *http.Request) {
	var req createHouseholdRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, common.NewAppError("BAD_BODY", "invalid JSON body", common.ErrInvalidInput))
		return
	}
	if req.Name == "" || req.OwnerID == uuid.Nil {
		writeError(w, common.NewAppError("MISSING_PARAM", "name and owner_id are required", common.ErrInvalidInput))
		return
	}

	household, err := s.households.Create(r.Context(), req.Name, req.OwnerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"household": household})
}
