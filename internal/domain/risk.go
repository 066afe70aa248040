package domain

// RiskCategory buckets a numeric risk score.
type RiskCategory string

const (
	RiskLow    RiskCategory = "Low Risk"
	RiskMedium RiskCategory = "Medium Risk"
	RiskHigh   RiskCategory = "High Risk"
)

// RiskScore is the result of a scoring request. Adjustment and Explanation
// are only populated when the unstructured (LLM-adjusted) mode was used.
type RiskScore struct {
	BaseScore   float64
	Adjustment  int
	TotalScore  float64
	MaxScore    float64
	Category    RiskCategory
	ColorHint   string
	Explanation string
	Adjusted    bool
}
