package scoring

import (
	"errors"
	"fmt"
	"sort"

	"github.com/priyamehta/cddrisk/internal/domain"
)

// ErrUnseenCategory indicates an inference-time attribute value that was not
// present in the training data. This is a data-contract violation and is the
// only scoring failure that propagates to the caller.
var ErrUnseenCategory = errors.New("category not seen during training")

// attributeColumns fixes the feature-vector ordering. The encoder set and
// the model both depend on this order staying put.
var attributeColumns = []string{
	"residence_country",
	"customer_type",
	"occupation",
	"time_at_address",
	"income_source",
}

func attributeValue(attrs domain.CustomerAttributes, column string) string {
	switch column {
	case "residence_country":
		return attrs.ResidenceCountry
	case "customer_type":
		return attrs.CustomerType
	case "occupation":
		return attrs.Occupation
	case "time_at_address":
		return attrs.TimeAtAddress
	case "income_source":
		return attrs.IncomeSource
	}
	return ""
}

// LabelEncoder maps category strings to stable ordinal codes. Codes follow
// the lexicographic order of the classes observed at fit time, so the same
// category always yields the same code within a model's lifetime.
type LabelEncoder struct {
	classes []string
	index   map[string]int
}

func fitLabelEncoder(values []string) *LabelEncoder {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	classes := make([]string, 0, len(seen))
	for v := range seen {
		classes = append(classes, v)
	}
	sort.Strings(classes)

	index := make(map[string]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}
	return &LabelEncoder{classes: classes, index: index}
}

// Transform returns the ordinal code for value, or ErrUnseenCategory.
func (e *LabelEncoder) Transform(value string) (int, error) {
	code, ok := e.index[value]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnseenCategory, value)
	}
	return code, nil
}

// Classes returns the fitted classes in code order.
func (e *LabelEncoder) Classes() []string {
	out := make([]string, len(e.classes))
	copy(out, e.classes)
	return out
}

// EncoderSet holds one fitted encoder per attribute column. It is fitted
// once at training time and must be the exact set used at inference; the
// Model owns it for that reason.
type EncoderSet struct {
	byColumn map[string]*LabelEncoder
}

func fitEncoderSet(columns map[string][]string) *EncoderSet {
	set := &EncoderSet{byColumn: make(map[string]*LabelEncoder, len(attributeColumns))}
	for _, col := range attributeColumns {
		set.byColumn[col] = fitLabelEncoder(columns[col])
	}
	return set
}

// Encode maps customer attributes to the ordered numeric feature vector.
func (s *EncoderSet) Encode(attrs domain.CustomerAttributes) ([]float64, error) {
	features := make([]float64, len(attributeColumns))
	for i, col := range attributeColumns {
		code, err := s.byColumn[col].Transform(attributeValue(attrs, col))
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", col, err)
		}
		features[i] = float64(code)
	}
	return features, nil
}
