package scoring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/priyamehta/cddrisk/internal/llm"
)

// MaxAdjustment caps the loose-parsed LLM adjustment.
const MaxAdjustment = 50

// TextGenerator is the slice of the LLM client the adjuster needs.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

const adjustmentPrompt = `You are a financial risk assessment expert. Given the following customer income comment: %q, evaluate the potential risk to the bank. Consider factors like stability, legitimacy, and clarity of the income source. Provide:
1. A risk adjustment score (0 to 50 points) to add to the base risk score.
2. A brief explanation for your adjustment.
Return your response in this exact format:
Risk Adjustment: [number]
Explanation: [text]`

const (
	adjustmentMarker  = "Risk Adjustment:"
	adjustmentSplit   = "Risk Adjustment: "
	explanationMarker = "Explanation:"
	explanationSplit  = "Explanation: "

	defaultExplanation = "No explanation provided"
)

var firstInteger = regexp.MustCompile(`\d+`)

// Adjuster derives a risk adjustment from free-text income commentary via
// the text-generation endpoint. Failures never propagate: every error path
// collapses to adjustment 0 with a human-readable explanation.
type Adjuster struct {
	gen    TextGenerator
	logger *slog.Logger
}

// NewAdjuster constructs an Adjuster.
func NewAdjuster(gen TextGenerator, logger *slog.Logger) *Adjuster {
	return &Adjuster{gen: gen, logger: logger}
}

// AdjustRisk evaluates the income comments and returns the adjustment in
// [0, 50] plus an explanation.
func (a *Adjuster) AdjustRisk(ctx context.Context, incomeComments string) (int, string) {
	raw, err := a.gen.Generate(ctx, fmt.Sprintf(adjustmentPrompt, incomeComments))
	if err != nil {
		a.logger.Warn("risk adjustment call failed", "error", err)
		return 0, failureExplanation(err)
	}
	return parseAdjustment(raw)
}

func failureExplanation(err error) string {
	var unavailable *llm.UnavailableError
	var httpErr *llm.HTTPError
	switch {
	case errors.Is(err, llm.ErrEmptyResponse):
		return "LLM Error: Empty response from model endpoint"
	case errors.As(err, &unavailable):
		return fmt.Sprintf("LLM Error: Cannot connect to model endpoint at %s. Ensure the model server is running.", unavailable.Endpoint)
	case errors.As(err, &httpErr):
		return fmt.Sprintf("LLM Error: HTTP %d - %s", httpErr.StatusCode, httpErr.Body)
	default:
		return fmt.Sprintf("LLM Error: Unexpected issue - %v", err)
	}
}

// parseAdjustment extracts (adjustment, explanation) from the raw reply with
// a tiered fallback:
//
//  1. strict: both markers present, integer after "Risk Adjustment: " up to
//     end of line. A strict-parsed value is taken as-is, without the
//     MaxAdjustment cap.
//  2. loose: if the adjustment is still 0, the first integer-looking
//     substring anywhere in the reply, capped at MaxAdjustment, with the
//     whole reply as the explanation.
//  3. defaults: 0 and "No explanation provided".
//
// A tier failing to parse never surfaces as an error; it falls through.
func parseAdjustment(raw string) (int, string) {
	adjustment := 0
	explanation := defaultExplanation

	if strings.Contains(raw, adjustmentMarker) && strings.Contains(raw, explanationMarker) {
		if parts := strings.SplitN(raw, adjustmentSplit, 2); len(parts) == 2 {
			line := parts[1]
			if nl := strings.IndexByte(line, '\n'); nl >= 0 {
				line = line[:nl]
			}
			if v, err := strconv.Atoi(strings.TrimSpace(line)); err == nil {
				adjustment = v
				if expParts := strings.SplitN(raw, explanationSplit, 2); len(expParts) == 2 {
					explanation = strings.TrimSpace(expParts[1])
				}
			}
		}
	}

	if adjustment == 0 {
		if match := firstInteger.FindString(raw); match != "" {
			if v, err := strconv.Atoi(match); err == nil {
				if v > MaxAdjustment {
					v = MaxAdjustment
				}
				adjustment = v
				explanation = raw
			}
		}
	}

	return adjustment, explanation
}
