package server

import (
	"time"

	"github.com/priyamehta/cddrisk/internal/domain"
	"github.com/priyamehta/cddrisk/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

type customerRequest struct {
	FirstName                 string `json:"firstName"`
	Surname                   string `json:"surname"`
	ResidenceCountry          string `json:"residenceCountry"`
	CustomerType              string `json:"customerType"`
	Occupation                string `json:"occupation"`
	TimeAtAddress             string `json:"timeAtAddress"`
	StreetAddress             string `json:"streetAddress"`
	City                      string `json:"city"`
	State                     string `json:"state"`
	PostalCode                string `json:"postalCode"`
	IncomeSource              string `json:"incomeSource"`
	IncomeComments            string `json:"incomeComments"`
	ExpectedTransactionVolume string `json:"expectedTransactionVolume"`
}

func (c customerRequest) toServiceInput() service.CustomerInput {
	return service.CustomerInput{
		FirstName:                 c.FirstName,
		Surname:                   c.Surname,
		ResidenceCountry:          c.ResidenceCountry,
		CustomerType:              c.CustomerType,
		Occupation:                c.Occupation,
		TimeAtAddress:             c.TimeAtAddress,
		StreetAddress:             c.StreetAddress,
		City:                      c.City,
		State:                     c.State,
		PostalCode:                c.PostalCode,
		IncomeSource:              c.IncomeSource,
		IncomeComments:            c.IncomeComments,
		ExpectedTransactionVolume: c.ExpectedTransactionVolume,
	}
}

type customerResponse struct {
	CustomerID                string   `json:"customerId"`
	FirstName                 string   `json:"firstName"`
	Surname                   string   `json:"surname"`
	ResidenceCountry          string   `json:"residenceCountry"`
	CustomerType              string   `json:"customerType"`
	Occupation                string   `json:"occupation"`
	TimeAtAddress             string   `json:"timeAtAddress"`
	StreetAddress             string   `json:"streetAddress"`
	City                      string   `json:"city"`
	State                     string   `json:"state"`
	PostalCode                string   `json:"postalCode"`
	IncomeSource              string   `json:"incomeSource"`
	IncomeComments            string   `json:"incomeComments"`
	ExpectedTransactionVolume string   `json:"expectedTransactionVolume"`
	FilePaths                 []string `json:"filePaths"`
	Descriptions              []string `json:"descriptions"`
	CreatedAt                 string   `json:"createdAt"`
}

func customerResponseFrom(c domain.Customer) customerResponse {
	resp := customerResponse{
		CustomerID:                c.ID,
		FirstName:                 c.FirstName,
		Surname:                   c.Surname,
		ResidenceCountry:          c.Attributes.ResidenceCountry,
		CustomerType:              c.Attributes.CustomerType,
		Occupation:                c.Attributes.Occupation,
		TimeAtAddress:             c.Attributes.TimeAtAddress,
		StreetAddress:             c.Address.Street,
		City:                      c.Address.City,
		State:                     c.Address.State,
		PostalCode:                c.Address.PostalCode,
		IncomeSource:              c.Attributes.IncomeSource,
		IncomeComments:            c.IncomeComments,
		ExpectedTransactionVolume: c.ExpectedTransactionVolume,
		FilePaths:                 c.FilePaths,
		Descriptions:              c.Descriptions,
		CreatedAt:                 c.CreatedAt.Format(time.RFC3339),
	}
	if resp.FilePaths == nil {
		resp.FilePaths = []string{}
	}
	if resp.Descriptions == nil {
		resp.Descriptions = []string{}
	}
	return resp
}

type customerSummaryResponse struct {
	CustomerID       string `json:"customerId"`
	FirstName        string `json:"firstName"`
	Surname          string `json:"surname"`
	ResidenceCountry string `json:"residenceCountry"`
	CustomerType     string `json:"customerType"`
	Occupation       string `json:"occupation"`
	CreatedAt        string `json:"createdAt"`
}

type listCustomersResponse struct {
	Items []customerSummaryResponse `json:"items"`
	Total int64                     `json:"total"`
}

type classificationResponse struct {
	DocType     string `json:"docType"`
	Description string `json:"description"`
}

type attachDocumentResponse struct {
	StoredPath      string                   `json:"storedPath"`
	Classifications []classificationResponse `json:"classifications"`
	Warnings        []string                 `json:"warnings"`
}

type documentTextResponse struct {
	Text string `json:"text"`
}

type riskResponse struct {
	BaseScore   float64 `json:"baseScore"`
	Adjustment  *int    `json:"adjustment,omitempty"`
	TotalScore  float64 `json:"totalScore"`
	MaxScore    float64 `json:"maxScore"`
	Category    string  `json:"category"`
	ColorHint   string  `json:"colorHint"`
	Explanation string  `json:"explanation,omitempty"`
}
