package domain

import "fmt"

// Fixed enumerations for each categorical attribute. The encoder and the
// synthetic training generator both draw from these sets, so they must not
// change between training and inference within a process lifetime.
var (
	ResidenceCountries = []string{
		"Australia (AUS)",
		"United States (USA)",
		"China (CHN)",
		"Russia (RUS)",
		"Offshore Financial Center (OFF)",
	}

	CustomerTypes = []string{
		"Individual",
		"Company",
		"Trust",
		"Partnership",
	}

	Occupations = []string{
		"Engineer/Technical",
		"Retail/Cashier",
		"Government/Political",
		"Self-employed",
		"Finance/Banking",
		"Other/Unknown",
	}

	TimeAtAddressOptions = []string{
		"Less than 1 year",
		"1-3 years",
		"3-5 years",
		"More than 5 years",
	}

	IncomeSources = []string{
		"Employment",
		"Business",
		"Investments",
		"Inheritance/Gift",
		"Retirement/Pension",
		"Other",
	}
)

// Validate reports the first attribute value that falls outside its
// enumeration.
func (a CustomerAttributes) Validate() error {
	checks := []struct {
		field   string
		value   string
		allowed []string
	}{
		{"residence_country", a.ResidenceCountry, ResidenceCountries},
		{"customer_type", a.CustomerType, CustomerTypes},
		{"occupation", a.Occupation, Occupations},
		{"time_at_address", a.TimeAtAddress, TimeAtAddressOptions},
		{"income_source", a.IncomeSource, IncomeSources},
	}
	for _, c := range checks {
		if !contains(c.allowed, c.value) {
			return fmt.Errorf("invalid %s value %q", c.field, c.value)
		}
	}
	return nil
}

func contains(set []string, value string) bool {
	for _, s := range set {
		if s == value {
			return true
		}
	}
	return false
}
