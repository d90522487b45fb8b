package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"

	"github.com/adpablos/expense-tracker-backend/internal/common"
	"github.com/adpablos/expense-tracker-backend/internal/entity"
)

// ProviderAPI is the slice of the OpenAI client the extraction pipeline uses.
// *openai.Client satisfies it.
type ProviderAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
	CreateTranscription(ctx context.Context, req openai.AudioRequest) (openai.AudioResponse, error)
}

// Config for the extraction client.
type Config struct {
	Model              string  // e.g. "gpt-4o"
	TranscriptionModel string  // e.g. "whisper-1"
	Temperature        float32 // 0..2
	MaxAttempts        int
	RetryBaseDelay     time.Duration
}

// Client wraps the AI provider's vision/text completion and speech-to-text
// capabilities. All calls funnel through one process-wide FIFO gate, and each
// call carries a bounded linear-backoff retry restricted to transport errors.
type Client struct {
	api    ProviderAPI
	cfg    Config
	gate   *callGate
	policy retryPolicy
	logger *slog.Logger
}

func NewClient(api ProviderAPI, cfg Config, logger *slog.Logger) *Client {
	if cfg.Model == "" {
		cfg.Model = "gpt-4o"
	}
	if cfg.TranscriptionModel == "" {
		cfg.TranscriptionModel = openai.Whisper1
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		api:    api,
		cfg:    cfg,
		gate:   newCallGate(),
		policy: newRetryPolicy(cfg.MaxAttempts, cfg.RetryBaseDelay, isTransportError),
		logger: logger,
	}
}

// ExtractFromImage sends an inline-encoded image to the vision model and
// parses an expense draft out of the response. A nil draft with a nil error
// means the model identified no expense.
func (c *Client) ExtractFromImage(ctx context.Context, encodedImage, taxonomyText string, asOfDate time.Time) (*entity.ExtractionDraft, error) {
	rid := uuid.New().String()
	start := time.Now()
	c.logger.Info("ai.extract_image.start", "req_id", rid, "model", c.cfg.Model, "taxonomy_len", len(taxonomyText))

	req := openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Temperature: c.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: buildSystemPrompt(taxonomyText, asOfDate)},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: buildImageUserPrompt()},
					{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{
						URL:    encodedImage,
						Detail: openai.ImageURLDetailAuto,
					}},
				},
			},
		},
		Tools: expenseTools(),
	}

	resp, err := c.complete(ctx, req)
	if err != nil {
		c.logger.Error("ai.extract_image.failed", "req_id", rid, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, err
	}
	return c.finishExtract(rid, start, resp)
}

// ExtractFromText parses an expense draft out of free text, typically a
// voice-memo transcript.
func (c *Client) ExtractFromText(ctx context.Context, text, taxonomyText string, asOfDate time.Time) (*entity.ExtractionDraft, error) {
	rid := uuid.New().String()
	start := time.Now()
	c.logger.Info("ai.extract_text.start", "req_id", rid, "model", c.cfg.Model, "text_len", len(text))

	req := openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Temperature: c.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: buildSystemPrompt(taxonomyText, asOfDate)},
			{Role: openai.ChatMessageRoleUser, Content: buildTextUserPrompt(text)},
		},
		Tools: expenseTools(),
	}

	resp, err := c.complete(ctx, req)
	if err != nil {
		c.logger.Error("ai.extract_text.failed", "req_id", rid, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, err
	}
	return c.finishExtract(rid, start, resp)
}

// Transcribe runs speech-to-text on a WAV file. A missing or zero-length
// target fails before any provider call, so an unusable input never spends a
// quota unit.
func (c *Client) Transcribe(ctx context.Context, wavPath string) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	st, err := os.Stat(wavPath)
	if err != nil || st.Size() == 0 {
		c.logger.Warn("ai.transcribe.empty_input", "req_id", rid, "path", wavPath)
		return "", common.NewAppError("EMPTY_AUDIO", "transcription target missing or empty: "+wavPath, common.ErrEmptyAudioFile)
	}

	c.logger.Info("ai.transcribe.start", "req_id", rid, "model", c.cfg.TranscriptionModel, "path", wavPath, "bytes", st.Size())

	resp, err := call(ctx, c, func() (openai.AudioResponse, error) {
		return c.api.CreateTranscription(ctx, openai.AudioRequest{
			Model:    c.cfg.TranscriptionModel,
			FilePath: wavPath,
		})
	})
	if err != nil {
		c.logger.Error("ai.transcribe.failed", "req_id", rid, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return "", err
	}

	c.logger.Info("ai.transcribe.ok", "req_id", rid, "text_len", len(resp.Text), "elapsed_ms", time.Since(start).Milliseconds())
	return resp.Text, nil
}

func (c *Client) complete(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return call(ctx, c, func() (openai.ChatCompletionResponse, error) {
		return c.api.CreateChatCompletion(ctx, req)
	})
}

// call applies the retry policy around the serialized gate. The gate is
// released between attempts so a backoff never blocks queued callers.
func call[T any](ctx context.Context, c *Client, fn func() (T, error)) (T, error) {
	v, err := retry(ctx, c.policy, func() (T, error) {
		var out T
		gerr := c.gate.do(ctx, func() error {
			var ferr error
			out, ferr = fn()
			return ferr
		})
		return out, gerr
	})
	if err != nil && isTransportError(err) {
		return v, common.NewAppError("PROVIDER_UNAVAILABLE", "ai provider unreachable after retries", fmt.Errorf("%w: %v", common.ErrProviderUnavailable, err))
	}
	return v, err
}

func (c *Client) finishExtract(rid string, start time.Time, resp openai.ChatCompletionResponse) (*entity.ExtractionDraft, error) {
	draft, err := parseDraft(resp)
	if err != nil {
		c.logger.Error("ai.extract.parse_failed", "req_id", rid, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, err
	}
	if draft == nil {
		c.logger.Info("ai.extract.no_expense", "req_id", rid, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, nil
	}
	c.logger.Info("ai.extract.ok",
		"req_id", rid,
		"date", draft.Date.Format("2006-01-02"),
		"amount", draft.Amount,
		"category", draft.Category,
		"subcategory", draft.Subcategory,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return draft, nil
}

func expenseTools() []openai.Tool {
	return []openai.Tool{{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        logExpenseFunction,
			Description: "Log a household expense extracted from the input.",
			Parameters:  rawSchema(logExpenseParameters),
		},
	}}
}

// isTransportError reports whether the provider was never reached. Errors the
// API answered with (auth, rate limit, malformed request) come back as typed
// provider errors and are never retried.
func isTransportError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	if errors.As(err, &apiErr) || errors.As(err, &reqErr) {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	return true
}
