package processor

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/adpablos/expense-tracker-backend/internal/entity"
)

// AudioProcessor handles voice-memo uploads: resolve a concrete path,
// verify, transcode to WAV, transcribe, then extract from the transcript.
type AudioProcessor struct {
	temp      TempFiler
	converter AudioConverter
	extractor Extractor
	taxonomy  TaxonomyProvider
	expenses  ExpenseCreator
	logger    *slog.Logger
	now       func() time.Time
}

func NewAudioProcessor(temp TempFiler, converter AudioConverter, extractor Extractor, taxonomy TaxonomyProvider, expenses ExpenseCreator, logger *slog.Logger) *AudioProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &AudioProcessor{
		temp:      temp,
		converter: converter,
		extractor: extractor,
		taxonomy:  taxonomy,
		expenses:  expenses,
		logger:    logger,
		now:       time.Now,
	}
}

func (p *AudioProcessor) CanProcess(mediaType string) bool {
	return strings.HasPrefix(mediaType, "audio/")
}

// Process runs the audio pipeline. Ownership rule: the materialized original
// (memory-backed uploads only) and the converted WAV are pipeline-owned and
// always deleted; a disk-backed original belongs to the upload layer and is
// left alone.
func (p *AudioProcessor) Process(ctx context.Context, upload *entity.UploadedFile, householdID, userID uuid.UUID) (*entity.Expense, error) {
	var owned []string
	defer func() {
		p.temp.DeleteTempFiles(owned)
	}()

	path := upload.Path
	if !upload.DiskBacked() {
		created, err := p.temp.CreateTempFile(upload.Content, upload.OriginalName)
		if err != nil {
			p.logger.Error("processor.audio.materialize_failed", "household_id", householdID, "error", err)
			return nil, err
		}
		owned = append(owned, created)
		path = created
	}

	if err := p.converter.VerifyAudio(ctx, path); err != nil {
		p.logger.Warn("processor.audio.verify_failed", "household_id", householdID, "media_type", upload.MediaType, "error", err)
		return nil, err
	}

	wavPath, err := p.converter.ConvertToWav(ctx, path)
	if err != nil {
		p.logger.Error("processor.audio.convert_failed", "household_id", householdID, "error", err)
		return nil, err
	}
	owned = append(owned, wavPath)

	transcript, err := p.extractor.Transcribe(ctx, wavPath)
	if err != nil {
		p.logger.Error("processor.audio.transcribe_failed", "household_id", householdID, "error", err)
		return nil, err
	}

	taxonomyText, err := p.taxonomy.TaxonomyText(ctx, householdID)
	if err != nil {
		p.logger.Error("processor.audio.taxonomy_failed", "household_id", householdID, "error", err)
		return nil, err
	}

	draft, err := p.extractor.ExtractFromText(ctx, transcript, taxonomyText, p.now())
	if err != nil {
		p.logger.Error("processor.audio.extract_failed", "household_id", householdID, "error", err)
		return nil, err
	}
	if draft == nil {
		p.logger.Info("processor.audio.no_expense", "household_id", householdID)
		return nil, nil
	}

	expense, err := p.expenses.CreateFromDraft(ctx, draft, householdID, userID)
	if err != nil {
		p.logger.Error("processor.audio.persist_failed", "household_id", householdID, "error", err)
		return nil, err
	}
	p.logger.Info("processor.audio.ok", "household_id", householdID, "expense_id", expense.ID)
	return expense, nil
}
