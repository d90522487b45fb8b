package server

import (
	"net/http"
	"time"
)

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
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

	data, err := s.exporter.ExportExpensesXLSX(r.Context(), householdID, from, to)
	if err != nil {
		writeError(w, err)
		return
	}

	filename := "expenses-" + time.Now().Format("20060102") + ".xlsx"
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
