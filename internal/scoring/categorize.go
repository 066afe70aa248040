package scoring

import "github.com/priyamehta/cddrisk/internal/domain"

// Display denominators for the two scoring modes.
const (
	// MaxStructuredScore is the denominator when only the model score is shown.
	MaxStructuredScore = 375.0
	// MaxTotalScore is the denominator when the LLM adjustment is included.
	MaxTotalScore = MaxStructuredScore + float64(MaxAdjustment)
)

// Category boundaries. These are absolute cutoffs, not proportions of the
// display denominator: a score of 120 is Medium whether it is shown out of
// 375 or out of 425.
const (
	mediumThreshold = 100.0
	highThreshold   = 250.0
)

// Color hints attached to each category for the operator UI.
const (
	colorLow    = "#1E8449"
	colorMedium = "#F39C12"
	colorHigh   = "#C0392B"
)

// Categorize buckets a score into a risk category with a display color.
// maxScore is carried for display only and does not shift the boundaries.
func Categorize(score, maxScore float64) (domain.RiskCategory, string) {
	_ = maxScore
	switch {
	case score < mediumThreshold:
		return domain.RiskLow, colorLow
	case score < highThreshold:
		return domain.RiskMedium, colorMedium
	default:
		return domain.RiskHigh, colorHigh
	}
}
