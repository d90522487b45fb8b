package server

import (
	"io"
	"net/http"

	"github.com/adpablos/expense-tracker-backend/internal/common"
	"github.com/adpablos/expense-tracker-backend/internal/entity"
)

// handleUpload accepts exactly one file per request and runs it through the
// extraction pipeline. Three outcomes: an expense was logged (201), the file
// was processed but nothing was identifiable (422, not an error), or a
// processing error mapped by class.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)

	householdID, err := parseUUIDParam(r, "household_id")
	if err != nil {
		writeError(w, err)
		return
	}
	userID, err := parseUUIDParam(r, "user_id")
	if err != nil {
		writeError(w, err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, common.NewAppError("NO_FILE", "request contains no file", common.ErrNoFileUploaded))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, common.WrapError(err, "read upload"))
		return
	}

	mediaType := header.Header.Get("Content-Type")
	if mediaType == "" {
		mediaType = http.DetectContentType(content)
	}

	proc, err := s.factory.ForMediaType(mediaType)
	if err != nil {
		s.logger.Warn("upload.unsupported_type", "media_type", mediaType, "household_id", householdID)
		writeError(w, err)
		return
	}

	upload := &entity.UploadedFile{
		MediaType:    mediaType,
		Content:      content,
		OriginalName: header.Filename,
	}

	expense, err := proc.Process(r.Context(), upload, householdID, userID)
	if err != nil {
		s.logger.Error("upload.process_failed", "media_type", mediaType, "household_id", householdID, "error", err)
		writeError(w, err)
		return
	}
	if expense == nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"message": "File processed successfully, but no expense was identified.",
		})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Expense logged successfully.",
		"expense": expense,
	})
}
