package processor

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/adpablos/expense-tracker-backend/internal/common"
	"github.com/adpablos/expense-tracker-backend/internal/entity"
)

// FileProcessor turns one uploaded file into a persisted expense, or into
// nothing when no expense is identifiable. Implementations guarantee cleanup
// of every scratch file they create, on every exit path.
type FileProcessor interface {
	CanProcess(mediaType string) bool
	Process(ctx context.Context, upload *entity.UploadedFile, householdID, userID uuid.UUID) (*entity.Expense, error)
}

// Extractor is the AI capability surface the processors depend on.
type Extractor interface {
	ExtractFromImage(ctx context.Context, encodedImage, taxonomyText string, asOfDate time.Time) (*entity.ExtractionDraft, error)
	ExtractFromText(ctx context.Context, text, taxonomyText string, asOfDate time.Time) (*entity.ExtractionDraft, error)
	Transcribe(ctx context.Context, wavPath string) (string, error)
}

// TaxonomyProvider supplies the household's current category listing as a
// prompt fragment, fetched fresh per extraction call.
type TaxonomyProvider interface {
	TaxonomyText(ctx context.Context, householdID uuid.UUID) (string, error)
}

// ExpenseCreator persists a validated draft and raises domain notifications.
type ExpenseCreator interface {
	CreateFromDraft(ctx context.Context, draft *entity.ExtractionDraft, householdID, userID uuid.UUID) (*entity.Expense, error)
}

// TempFiler materializes in-memory uploads and removes pipeline-owned
// scratch files.
type TempFiler interface {
	CreateTempFile(data []byte, originalName string) (string, error)
	DeleteTempFiles(paths []string)
}

// AudioConverter validates and transcodes uploaded audio.
type AudioConverter interface {
	VerifyAudio(ctx context.Context, path string) error
	ConvertToWav(ctx context.Context, sourcePath string) (string, error)
}

// Factory selects the processor variant for a declared media type.
type Factory struct {
	processors []FileProcessor
}

func NewFactory(processors ...FileProcessor) *Factory {
	return &Factory{processors: processors}
}

// ForMediaType returns the first processor claiming the type, or an
// unsupported-file-type error when nothing does. No side effects.
func (f *Factory) ForMediaType(mediaType string) (FileProcessor, error) {
	for _, p := range f.processors {
		if p.CanProcess(mediaType) {
			return p, nil
		}
	}
	return nil, common.NewAppError("UNSUPPORTED_TYPE", "no processor for media type "+mediaType, common.ErrUnsupportedFileType)
}
