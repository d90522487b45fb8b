package ai

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/adpablos/expense-tracker-backend/internal/common"
)

type fakeProvider struct {
	mu sync.Mutex

	completions        []openai.ChatCompletionResponse
	completionErrs     []error
	completionCalls    int
	lastCompletionReq  openai.ChatCompletionRequest
	transcriptions     int
	transcriptionText  string
	transcriptionErr   error
	inFlight           int
	overlapped         bool
	completionDuration time.Duration
}

func (f *fakeProvider) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.mu.Lock()
	f.completionCalls++
	call := f.completionCalls
	f.lastCompletionReq = req
	f.inFlight++
	if f.inFlight > 1 {
		f.overlapped = true
	}
	d := f.completionDuration
	f.mu.Unlock()

	if d > 0 {
		time.Sleep(d)
	}

	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()

	if call <= len(f.completionErrs) && f.completionErrs[call-1] != nil {
		return openai.ChatCompletionResponse{}, f.completionErrs[call-1]
	}
	idx := call - 1
	if idx >= len(f.completions) {
		if len(f.completions) == 0 {
			return openai.ChatCompletionResponse{}, nil
		}
		idx = len(f.completions) - 1
	}
	return f.completions[idx], nil
}

func (f *fakeProvider) CreateTranscription(context.Context, openai.AudioRequest) (openai.AudioResponse, error) {
	f.mu.Lock()
	f.transcriptions++
	f.mu.Unlock()
	if f.transcriptionErr != nil {
		return openai.AudioResponse{}, f.transcriptionErr
	}
	return openai.AudioResponse{Text: f.transcriptionText}, nil
}

func newTestClient(api ProviderAPI) *Client {
	return NewClient(api, Config{MaxAttempts: 3, RetryBaseDelay: time.Millisecond}, nil)
}

func TestTranscribeFailsFastOnUnusableInput(t *testing.T) {
	provider := &fakeProvider{transcriptionText: "should never be returned"}
	client := newTestClient(provider)

	empty := filepath.Join(t.TempDir(), "empty.wav")
	if err := os.WriteFile(empty, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"nonexistent file", filepath.Join(t.TempDir(), "missing.wav")},
		{"zero-byte file", empty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Transcribe(context.Background(), tt.path)
			if !errors.Is(err, common.ErrEmptyAudioFile) {
				t.Fatalf("err = %v, want ErrEmptyAudioFile", err)
			}
		})
	}
	if provider.transcriptions != 0 {
		t.Errorf("provider calls = %d, want 0", provider.transcriptions)
	}
}

func TestTranscribeReturnsText(t *testing.T) {
	provider := &fakeProvider{transcriptionText: "gasté veinte euros en taxi"}
	client := newTestClient(provider)

	wav := filepath.Join(t.TempDir(), "memo.wav")
	if err := os.WriteFile(wav, []byte("RIFFdata"), 0o600); err != nil {
		t.Fatal(err)
	}

	text, err := client.Transcribe(context.Background(), wav)
	if err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	if text != "gasté veinte euros en taxi" {
		t.Errorf("text = %q", text)
	}
	if provider.transcriptions != 1 {
		t.Errorf("provider calls = %d, want 1", provider.transcriptions)
	}
}

func TestExtractFromTextNoToolCallYieldsNil(t *testing.T) {
	provider := &fakeProvider{completions: []openai.ChatCompletionResponse{{
		Choices: []openai.ChatCompletionChoice{{
			Message: openai.ChatCompletionMessage{Content: "nothing to log"},
		}},
	}}}
	client := newTestClient(provider)

	draft, err := client.ExtractFromText(context.Background(), "hola", "- Casa", time.Now())
	if err != nil {
		t.Fatalf("err = %v, want nil", err)
	}
	if draft != nil {
		t.Errorf("draft = %+v, want nil", draft)
	}
}

func TestExtractFromTextBuildsRequest(t *testing.T) {
	provider := &fakeProvider{completions: []openai.ChatCompletionResponse{
		responseWithToolCall(logExpenseFunction, `{"date":"2024-07-21","amount":100.00,"category":"Casa"}`),
	}}
	client := newTestClient(provider)

	asOf := time.Date(2024, 7, 21, 12, 0, 0, 0, time.UTC)
	draft, err := client.ExtractFromText(context.Background(), "pagué la comunidad", "- Casa: Mantenimiento", asOf)
	if err != nil {
		t.Fatalf("ExtractFromText returned error: %v", err)
	}
	if draft == nil || draft.Amount != 100.00 {
		t.Fatalf("draft = %+v, want amount 100.00", draft)
	}

	req := provider.lastCompletionReq
	if len(req.Tools) != 1 || req.Tools[0].Function.Name != logExpenseFunction {
		t.Fatalf("tools = %+v, want one %s tool", req.Tools, logExpenseFunction)
	}
	system := req.Messages[0].Content
	if !strings.Contains(system, "- Casa: Mantenimiento") {
		t.Errorf("system prompt missing taxonomy: %q", system)
	}
	if !strings.Contains(system, "2024-07-21") {
		t.Errorf("system prompt missing as-of date: %q", system)
	}
	if !strings.Contains(req.Messages[1].Content, "pagué la comunidad") {
		t.Errorf("user prompt missing input text")
	}
}

func TestExtractFromImageSendsInlineImage(t *testing.T) {
	provider := &fakeProvider{completions: []openai.ChatCompletionResponse{
		responseWithToolCall(logExpenseFunction, `{"date":"2024-07-21","amount":10,"category":"Casa"}`),
	}}
	client := newTestClient(provider)

	dataURL := "data:image/jpeg;base64,Zm9v"
	if _, err := client.ExtractFromImage(context.Background(), dataURL, "- Casa", time.Now()); err != nil {
		t.Fatalf("ExtractFromImage returned error: %v", err)
	}

	parts := provider.lastCompletionReq.Messages[1].MultiContent
	if len(parts) != 2 {
		t.Fatalf("multi content parts = %d, want 2", len(parts))
	}
	if parts[1].Type != openai.ChatMessagePartTypeImageURL || parts[1].ImageURL.URL != dataURL {
		t.Errorf("image part = %+v, want inline data URL", parts[1])
	}
}

func TestTransportErrorsAreRetriedThenSucceed(t *testing.T) {
	transport := errors.New("dial tcp: connection refused")
	provider := &fakeProvider{
		completionErrs: []error{transport, transport, nil},
		completions: []openai.ChatCompletionResponse{
			responseWithToolCall(logExpenseFunction, `{"date":"2024-07-21","amount":5,"category":"Casa"}`),
		},
	}
	client := newTestClient(provider)

	draft, err := client.ExtractFromText(context.Background(), "text", "- Casa", time.Now())
	if err != nil {
		t.Fatalf("err = %v, want success on third attempt", err)
	}
	if draft == nil {
		t.Fatal("draft is nil")
	}
	if provider.completionCalls != 3 {
		t.Errorf("provider calls = %d, want 3", provider.completionCalls)
	}
}

func TestTransportErrorsExhaustedBecomeProviderUnavailable(t *testing.T) {
	transport := errors.New("dial tcp: connection refused")
	provider := &fakeProvider{completionErrs: []error{transport, transport, transport}}
	client := newTestClient(provider)

	_, err := client.ExtractFromText(context.Background(), "text", "- Casa", time.Now())
	if !errors.Is(err, common.ErrProviderUnavailable) {
		t.Fatalf("err = %v, want ErrProviderUnavailable", err)
	}
	if provider.completionCalls != 3 {
		t.Errorf("provider calls = %d, want 3", provider.completionCalls)
	}
}

func TestProviderErrorsAreNotRetried(t *testing.T) {
	apiErr := &openai.APIError{HTTPStatusCode: 401, Message: "invalid api key"}
	provider := &fakeProvider{completionErrs: []error{apiErr}}
	client := newTestClient(provider)

	_, err := client.ExtractFromText(context.Background(), "text", "- Casa", time.Now())
	if err == nil {
		t.Fatal("err = nil, want provider error")
	}
	if errors.Is(err, common.ErrProviderUnavailable) {
		t.Fatalf("err = %v, must not be wrapped as provider unavailable", err)
	}
	if provider.completionCalls != 1 {
		t.Errorf("provider calls = %d, want 1", provider.completionCalls)
	}
}

func TestCallsNeverOverlapInFlight(t *testing.T) {
	provider := &fakeProvider{
		completionDuration: 20 * time.Millisecond,
		completions: []openai.ChatCompletionResponse{
			responseWithToolCall(logExpenseFunction, `{"date":"2024-07-21","amount":5,"category":"Casa"}`),
		},
	}
	client := newTestClient(provider)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = client.ExtractFromText(context.Background(), "text", "- Casa", time.Now())
		}()
	}
	wg.Wait()

	if provider.overlapped {
		t.Error("two provider calls were in flight at the same time")
	}
	if provider.completionCalls != 4 {
		t.Errorf("provider calls = %d, want 4", provider.completionCalls)
	}
}
