package scoring

import (
	"math/rand"

	"github.com/priyamehta/cddrisk/internal/domain"
)

// trainingData is the synthetic labeled set the model is fitted on. The
// labels are deliberately independent of the features; the contract that
// matters is the generation itself: fixed category pools, uniform sampling,
// labels uniform over [0, MaxStructuredScore), deterministic per seed.
type trainingData struct {
	columns map[string][]string
	labels  []float64
}

func attributePool(column string) []string {
	switch column {
	case "residence_country":
		return domain.ResidenceCountries
	case "customer_type":
		return domain.CustomerTypes
	case "occupation":
		return domain.Occupations
	case "time_at_address":
		return domain.TimeAtAddressOptions
	case "income_source":
		return domain.IncomeSources
	}
	return nil
}

// generateTrainingData draws n samples column-wise from a single seeded
// source: n uniform category draws per attribute, then n uniform labels.
func generateTrainingData(seed int64, n int) trainingData {
	rng := rand.New(rand.NewSource(seed))

	columns := make(map[string][]string, len(attributeColumns))
	for _, col := range attributeColumns {
		pool := attributePool(col)
		values := make([]string, n)
		for i := range values {
			values[i] = pool[rng.Intn(len(pool))]
		}
		columns[col] = values
	}

	labels := make([]float64, n)
	for i := range labels {
		labels[i] = rng.Float64() * MaxStructuredScore
	}

	return trainingData{columns: columns, labels: labels}
}
