package service

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/priyamehta/cddrisk/internal/docs"
	"github.com/priyamehta/cddrisk/internal/domain"
	"github.com/priyamehta/cddrisk/internal/repository"
)

// CustomerStore is the persistence contract the services depend on.
type CustomerStore interface {
	UpsertCustomer(ctx context.Context, c domain.Customer) error
	GetCustomer(ctx context.Context, id string) (domain.Customer, error)
	ListCustomers(ctx context.Context, opts repository.ListCustomersOptions) (domain.CustomerListResult, error)
	AppendDocuments(ctx context.Context, id string, paths, descriptions []string) error
}

// ImageClassifier classifies a single document image.
type ImageClassifier interface {
	Classify(ctx context.Context, image []byte) domain.DocumentClassification
}

// PDFClassifier classifies a multi-page PDF submission.
type PDFClassifier interface {
	ClassifyPDF(ctx context.Context, pdf []byte) ([]domain.DocumentClassification, []docs.Override, error)
}

// DocumentSaver persists uploaded document bytes, returning the stored path.
type DocumentSaver interface {
	Save(customerID string, docType domain.DocumentType, originalName string, data []byte) (string, error)
}

// CustomerID derives the stable customer identifier from first name and
// surname: first 8 hex characters of the md5 content hash.
func CustomerID(firstName, surname string) string {
	sum := md5.Sum([]byte(firstName + surname))
	return hex.EncodeToString(sum[:])[:8]
}

// DocumentResult reports the outcome of attaching one uploaded file.
type DocumentResult struct {
	Classifications []domain.DocumentClassification
	Overrides       []docs.Override
	StoredPath      string
}

// OnboardingService captures customer records and runs the document
// classification pipeline for uploads.
type OnboardingService struct {
	store  CustomerStore
	images ImageClassifier
	pdfs   PDFClassifier
	files  DocumentSaver
	logger *slog.Logger
	clock  func() time.Time
}

// NewOnboardingService constructs an OnboardingService.
func NewOnboardingService(store CustomerStore, images ImageClassifier, pdfs PDFClassifier, files DocumentSaver, logger *slog.Logger) *OnboardingService {
	return &OnboardingService{
		store:  store,
		images: images,
		pdfs:   pdfs,
		files:  files,
		logger: logger,
		clock:  time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (s *OnboardingService) WithClock(clock func() time.Time) {
	s.clock = clock
}

// RegisterCustomer validates the attribute enumerations, derives the
// customer ID, and persists the record.
func (s *OnboardingService) RegisterCustomer(ctx context.Context, in CustomerInput) (domain.Customer, error) {
	firstName := strings.TrimSpace(in.FirstName)
	surname := strings.TrimSpace(in.Surname)
	if firstName == "" || surname == "" {
		return domain.Customer{}, fmt.Errorf("first name and surname are required")
	}

	attrs := in.Attributes()
	if err := attrs.Validate(); err != nil {
		return domain.Customer{}, err
	}

	customer := domain.Customer{
		ID:                        CustomerID(firstName, surname),
		FirstName:                 firstName,
		Surname:                   surname,
		Attributes:                attrs,
		Address:                   in.address(),
		IncomeComments:            in.IncomeComments,
		ExpectedTransactionVolume: in.ExpectedTransactionVolume,
		CreatedAt:                 s.clock().UTC(),
	}

	if err := s.store.UpsertCustomer(ctx, customer); err != nil {
		return domain.Customer{}, err
	}

	s.logger.Info("customer registered", "customerId", customer.ID)
	return customer, nil
}

// AttachDocument classifies an uploaded file (image or PDF), stores it under
// the detected type, and appends the resulting paths/descriptions to the
// customer record. Classification failure is not an error: the file is still
// stored, tagged unknown.
func (s *OnboardingService) AttachDocument(ctx context.Context, customerID, filename string, data []byte) (DocumentResult, error) {
	if _, err := s.store.GetCustomer(ctx, customerID); err != nil {
		return DocumentResult{}, err
	}

	var result DocumentResult
	if strings.EqualFold(filepath.Ext(filename), ".pdf") {
		classifications, overrides, err := s.pdfs.ClassifyPDF(ctx, data)
		if err != nil {
			return DocumentResult{}, err
		}
		result.Classifications = classifications
		result.Overrides = overrides
	} else {
		classification := s.images.Classify(ctx, data)
		if classification.Type != domain.DocUnknown {
			result.Classifications = []domain.DocumentClassification{classification}
		}
	}

	// The stored filename carries the first resolved type; an entirely
	// unresolved upload is kept under "unknown".
	storedType := domain.DocUnknown
	descriptions := []string{unresolvedDescription}
	if len(result.Classifications) > 0 {
		storedType = result.Classifications[0].Type
		descriptions = descriptions[:0]
		for _, c := range result.Classifications {
			descriptions = append(descriptions, c.Description)
		}
	}

	path, err := s.files.Save(customerID, storedType, filename, data)
	if err != nil {
		return DocumentResult{}, err
	}
	result.StoredPath = path

	if err := s.store.AppendDocuments(ctx, customerID, []string{path}, descriptions); err != nil {
		return DocumentResult{}, err
	}

	s.logger.Info("document attached",
		"customerId", customerID,
		"docType", storedType,
		"classifications", len(result.Classifications),
		"overrides", len(result.Overrides),
	)
	return result, nil
}

const unresolvedDescription = "The document type could not be identified."
