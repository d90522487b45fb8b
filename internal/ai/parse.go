package ai

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/adpablos/expense-tracker-backend/internal/common"
	"github.com/adpablos/expense-tracker-backend/internal/entity"
)

type logExpenseArgs struct {
	Date        string          `json:"date"`
	Amount      json.RawMessage `json:"amount"`
	Category    string          `json:"category"`
	Subcategory string          `json:"subcategory"`
	Notes       string          `json:"notes"`
}

// parseDraft locates the first log_expense tool call in the completion and
// decodes it into a draft. A response with no matching call (the model
// declined, or returned empty content) yields a nil draft and a nil error:
// that is the documented "no expense identifiable" outcome, not a failure.
func parseDraft(resp openai.ChatCompletionResponse) (*entity.ExtractionDraft, error) {
	if len(resp.Choices) == 0 {
		return nil, nil
	}
	var call *openai.ToolCall
	for i := range resp.Choices[0].Message.ToolCalls {
		tc := resp.Choices[0].Message.ToolCalls[i]
		if tc.Function.Name == logExpenseFunction {
			call = &tc
			break
		}
	}
	if call == nil {
		return nil, nil
	}

	raw := []byte(call.Function.Arguments)
	if err := validateToolArgs(raw); err != nil {
		return nil, common.NewAppError("PARSE_ERROR", "tool arguments failed schema validation", fmt.Errorf("%w: %v", common.ErrMalformedToolCall, err))
	}

	var args logExpenseArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, common.NewAppError("PARSE_ERROR", "decode tool arguments", fmt.Errorf("%w: %v", common.ErrMalformedToolCall, err))
	}

	date, err := time.Parse("2006-01-02", args.Date)
	if err != nil {
		return nil, common.NewAppError("PARSE_ERROR", "invalid date "+args.Date, fmt.Errorf("%w: %v", common.ErrMalformedToolCall, err))
	}
	amount, err := coerceAmount(args.Amount)
	if err != nil {
		return nil, common.NewAppError("PARSE_ERROR", "invalid amount", fmt.Errorf("%w: %v", common.ErrMalformedToolCall, err))
	}

	return &entity.ExtractionDraft{
		Date:        date,
		Amount:      amount,
		Category:    args.Category,
		Subcategory: args.Subcategory,
		Notes:       args.Notes,
	}, nil
}

// coerceAmount accepts the model's numeric-or-string amount and requires a
// positive value. Anything else is a parsing error, never a silent default.
func coerceAmount(raw json.RawMessage) (float64, error) {
	if len(raw) == 0 {
		return 0, fmt.Errorf("amount missing")
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, fmt.Errorf("amount is neither number nor string: %s", raw)
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("amount %q is not numeric", s)
		}
		n = parsed
	}
	if n <= 0 {
		return 0, fmt.Errorf("amount must be positive, got %v", n)
	}
	return n, nil
}
