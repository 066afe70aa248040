package domain

import "time"

// Address captures structured address fields.
type Address struct {
	Street     string
	City       string
	State      string
	PostalCode string
}

// CustomerAttributes are the structured categorical inputs to the risk model.
// Each field holds a value from its fixed enumeration; the set is immutable
// once captured for a scoring request.
type CustomerAttributes struct {
	ResidenceCountry string
	CustomerType     string
	Occupation       string
	TimeAtAddress    string
	IncomeSource     string
}

// Customer aggregates the canonical customer record.
type Customer struct {
	ID                        string
	FirstName                 string
	Surname                   string
	Attributes                CustomerAttributes
	Address                   Address
	IncomeComments            string
	ExpectedTransactionVolume string
	FilePaths                 []string
	Descriptions              []string
	CreatedAt                 time.Time
}

// CustomerSummary represents lightweight customer information for list endpoints.
type CustomerSummary struct {
	ID               string
	FirstName        string
	Surname          string
	ResidenceCountry string
	CustomerType     string
	Occupation       string
	CreatedAt        time.Time
}

// CustomerListResult captures paginated customer list results.
type CustomerListResult struct {
	Items []CustomerSummary
	Total int64
}
