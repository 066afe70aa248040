package generator

// Config drives the synthetic demo-customer generator.
type Config struct {
	NumCustomers int
	Seed         int64
}

// DefaultConfig returns baseline settings for a usable demo dataset.
func DefaultConfig() Config {
	return Config{
		NumCustomers: 50,
		Seed:         42,
	}
}
