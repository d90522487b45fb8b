package processor

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/adpablos/expense-tracker-backend/internal/entity"
)

// ImageProcessor handles receipt photos: encode inline, send to the vision
// model, persist the result. It creates no temp files.
type ImageProcessor struct {
	extractor Extractor
	taxonomy  TaxonomyProvider
	expenses  ExpenseCreator
	logger    *slog.Logger
	now       func() time.Time
}

func NewImageProcessor(extractor Extractor, taxonomy TaxonomyProvider, expenses ExpenseCreator, logger *slog.Logger) *ImageProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImageProcessor{
		extractor: extractor,
		taxonomy:  taxonomy,
		expenses:  expenses,
		logger:    logger,
		now:       time.Now,
	}
}

func (p *ImageProcessor) CanProcess(mediaType string) bool {
	return strings.HasPrefix(mediaType, "image/")
}

func (p *ImageProcessor) Process(ctx context.Context, upload *entity.UploadedFile, householdID, userID uuid.UUID) (*entity.Expense, error) {
	dataURL, err := encodeDataURL(upload)
	if err != nil {
		p.logger.Error("processor.image.encode_failed", "household_id", householdID, "error", err)
		return nil, err
	}

	taxonomyText, err := p.taxonomy.TaxonomyText(ctx, householdID)
	if err != nil {
		p.logger.Error("processor.image.taxonomy_failed", "household_id", householdID, "error", err)
		return nil, err
	}

	draft, err := p.extractor.ExtractFromImage(ctx, dataURL, taxonomyText, p.now())
	if err != nil {
		p.logger.Error("processor.image.extract_failed", "household_id", householdID, "media_type", upload.MediaType, "error", err)
		return nil, err
	}
	if draft == nil {
		p.logger.Info("processor.image.no_expense", "household_id", householdID)
		return nil, nil
	}

	expense, err := p.expenses.CreateFromDraft(ctx, draft, householdID, userID)
	if err != nil {
		p.logger.Error("processor.image.persist_failed", "household_id", householdID, "error", err)
		return nil, err
	}
	p.logger.Info("processor.image.ok", "household_id", householdID, "expense_id", expense.ID)
	return expense, nil
}

// encodeDataURL renders the image bytes for inline transmission to the
// vision model, reading from disk when the upload is disk-backed.
func encodeDataURL(upload *entity.UploadedFile) (string, error) {
	data := upload.Content
	if upload.DiskBacked() {
		b, err := os.ReadFile(upload.Path)
		if err != nil {
			return "", fmt.Errorf("read upload: %w", err)
		}
		data = b
	}
	mt := upload.MediaType
	if mt == "" {
		mt = "application/octet-stream"
	}
	return "data:" + mt + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
