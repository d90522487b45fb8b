package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/adpablos/expense-tracker-backend/internal/common"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := common.HTTPStatus(err)
	msg := err.Error()
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

func parseUUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := r.FormValue(name)
	if raw == "" {
		return uuid.Nil, common.NewAppError("MISSING_PARAM", name+" is required", common.ErrInvalidInput)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, common.NewAppError("BAD_PARAM", name+" is not a valid UUID", common.ErrInvalidInput)
	}
	return id, nil
}

// parseDateParam reads an optional YYYY-MM-DD query parameter.
func parseDateParam(r *http.Request, name string) (*time.Time, error) {
	raw := r.FormValue(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, common.NewAppError("BAD_PARAM", name+" must be YYYY-MM-DD", common.ErrInvalidInput)
	}
	return &t, nil
}
