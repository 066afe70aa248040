package scoring

import (
	"github.com/priyamehta/cddrisk/internal/config"
	"github.com/priyamehta/cddrisk/internal/domain"
)

// Model couples the fitted per-attribute encoders with the boosted-tree
// ensemble. The two are fitted together and must never be used
// independently: an encoder from one training run cannot feed trees from
// another. Construct once at startup and inject wherever scoring happens;
// the value is read-only after Train returns.
type Model struct {
	encoders *EncoderSet
	trees    *boostedTrees
}

// Train generates the synthetic labeled set, fits the encoders on it, and
// fits the regression ensemble on the encoded features. Deterministic for a
// fixed cfg.Seed.
func Train(cfg config.ModelConfig) *Model {
	data := generateTrainingData(cfg.Seed, cfg.SampleCount)
	encoders := fitEncoderSet(data.columns)

	n := len(data.labels)
	features := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, len(attributeColumns))
		for j, col := range attributeColumns {
			// Fitted on the same values it encodes; cannot fail here.
			code, _ := encoders.byColumn[col].Transform(data.columns[col][i])
			row[j] = float64(code)
		}
		features[i] = row
	}

	trees := fitBoostedTrees(features, data.labels, gbtParams{
		rounds:       cfg.Rounds,
		maxDepth:     cfg.MaxDepth,
		learningRate: cfg.LearningRate,
		minLeaf:      1,
	})

	return &Model{encoders: encoders, trees: trees}
}

// Encode maps attributes through the fitted encoders.
func (m *Model) Encode(attrs domain.CustomerAttributes) ([]float64, error) {
	return m.encoders.Encode(attrs)
}

// Predict returns the base risk score for the customer attributes. The only
// error is ErrUnseenCategory for an attribute value absent from training.
func (m *Model) Predict(attrs domain.CustomerAttributes) (float64, error) {
	features, err := m.encoders.Encode(attrs)
	if err != nil {
		return 0, err
	}
	return m.trees.predict(features), nil
}
