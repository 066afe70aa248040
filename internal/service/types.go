package service

import "github.com/priyamehta/cddrisk/internal/domain"

// CustomerInput is the inbound onboarding payload, kept separate from the
// storage model.
type CustomerInput struct {
	FirstName                 string
	Surname                   string
	ResidenceCountry          string
	CustomerType              string
	Occupation                string
	TimeAtAddress             string
	StreetAddress             string
	City                      string
	State                     string
	PostalCode                string
	IncomeSource              string
	IncomeComments            string
	ExpectedTransactionVolume string
}

// Attributes assembles the scoring attribute set from the input.
func (in CustomerInput) Attributes() domain.CustomerAttributes {
	return domain.CustomerAttributes{
		ResidenceCountry: in.ResidenceCountry,
		CustomerType:     in.CustomerType,
		Occupation:       in.Occupation,
		TimeAtAddress:    in.TimeAtAddress,
		IncomeSource:     in.IncomeSource,
	}
}

func (in CustomerInput) address() domain.Address {
	return domain.Address{
		Street:     in.StreetAddress,
		City:       in.City,
		State:      in.State,
		PostalCode: in.PostalCode,
	}
}
