package domain

// DocumentType is the canonical classification of an identity or income
// document.
type DocumentType string

const (
	DocPassport       DocumentType = "passport"
	DocNationalID     DocumentType = "national_id"
	DocDriversLicense DocumentType = "drivers_license"
	DocIncome         DocumentType = "income"
	DocUnknown        DocumentType = "unknown"
)

// DocumentClassification pairs a canonical document type with its
// operator-facing description. Created per classified image and consumed
// immediately; it is persisted only as comma-joined strings by the store.
type DocumentClassification struct {
	Type        DocumentType
	Description string
}
