package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/priyamehta/cddrisk/internal/domain"
	"github.com/priyamehta/cddrisk/internal/repository"
	"github.com/priyamehta/cddrisk/internal/scoring"
)

// RiskModel predicts the base score from structured attributes.
type RiskModel interface {
	Predict(attrs domain.CustomerAttributes) (float64, error)
}

// RiskAdjuster derives the 0-50 adjustment from income commentary. It never
// fails; error states come back as explanation text.
type RiskAdjuster interface {
	AdjustRisk(ctx context.Context, incomeComments string) (int, string)
}

// TextExtractor pulls plain text from a stored PDF for operator display.
type TextExtractor interface {
	PlainText(data []byte) (string, error)
}

// ReviewService computes risk scores for captured customers and renders
// their document text.
type ReviewService struct {
	store    CustomerStore
	model    RiskModel
	adjuster RiskAdjuster
	text     TextExtractor
	logger   *slog.Logger
}

// NewReviewService constructs a ReviewService.
func NewReviewService(store CustomerStore, model RiskModel, adjuster RiskAdjuster, text TextExtractor, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		store:    store,
		model:    model,
		adjuster: adjuster,
		text:     text,
		logger:   logger,
	}
}

// StructuredRisk scores the customer from structured attributes alone,
// displayed against the structured denominator.
func (s *ReviewService) StructuredRisk(ctx context.Context, customerID string) (domain.RiskScore, error) {
	customer, err := s.store.GetCustomer(ctx, customerID)
	if err != nil {
		return domain.RiskScore{}, err
	}

	base, err := s.model.Predict(customer.Attributes)
	if err != nil {
		return domain.RiskScore{}, fmt.Errorf("predict base score for %s: %w", customerID, err)
	}

	category, color := scoring.Categorize(base, scoring.MaxStructuredScore)
	return domain.RiskScore{
		BaseScore:  base,
		TotalScore: base,
		MaxScore:   scoring.MaxStructuredScore,
		Category:   category,
		ColorHint:  color,
	}, nil
}

// UnstructuredRisk adds the LLM income-comment adjustment to the base score,
// displayed against the combined denominator. An LLM failure degrades to a
// zero adjustment with the failure message as the explanation.
func (s *ReviewService) UnstructuredRisk(ctx context.Context, customerID string) (domain.RiskScore, error) {
	customer, err := s.store.GetCustomer(ctx, customerID)
	if err != nil {
		return domain.RiskScore{}, err
	}

	base, err := s.model.Predict(customer.Attributes)
	if err != nil {
		return domain.RiskScore{}, fmt.Errorf("predict base score for %s: %w", customerID, err)
	}

	comments := customer.IncomeComments
	if strings.TrimSpace(comments) == "" {
		comments = "No comments provided."
	}
	adjustment, explanation := s.adjuster.AdjustRisk(ctx, comments)

	total := base + float64(adjustment)
	category, color := scoring.Categorize(total, scoring.MaxTotalScore)
	return domain.RiskScore{
		BaseScore:   base,
		Adjustment:  adjustment,
		TotalScore:  total,
		MaxScore:    scoring.MaxTotalScore,
		Category:    category,
		ColorHint:   color,
		Explanation: explanation,
		Adjusted:    true,
	}, nil
}

// GetCustomer fetches a single customer record.
func (s *ReviewService) GetCustomer(ctx context.Context, customerID string) (domain.Customer, error) {
	return s.store.GetCustomer(ctx, customerID)
}

// ListCustomers returns customer summaries for the review grid.
func (s *ReviewService) ListCustomers(ctx context.Context, opts ListCustomersParams) (domain.CustomerListResult, error) {
	return s.store.ListCustomers(ctx, opts.toOptions())
}

const documentTextLimit = 500

// DocumentText renders the stored documents of a customer as display text:
// one block per file with its description and up to 500 characters of
// extracted content. Extraction problems are reported in-band per file.
func (s *ReviewService) DocumentText(ctx context.Context, customerID string) (string, error) {
	customer, err := s.store.GetCustomer(ctx, customerID)
	if err != nil {
		return "", err
	}

	if len(customer.FilePaths) == 0 {
		return "No files uploaded.", nil
	}

	var blocks []string
	for i, path := range customer.FilePaths {
		description := ""
		if i < len(customer.Descriptions) {
			description = customer.Descriptions[i]
		}
		blocks = append(blocks, s.renderFile(path, description))
	}
	return strings.Join(blocks, "\n\n"), nil
}

func (s *ReviewService) renderFile(path, description string) string {
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return fmt.Sprintf("File: %s\nNot found or not a PDF.", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Sprintf("File: %s\nNot found or not a PDF.", path)
	}

	text, err := s.text.PlainText(data)
	if err != nil {
		return fmt.Sprintf("File: %s\nError extracting text: %v", path, err)
	}

	if len(text) > documentTextLimit {
		text = text[:documentTextLimit] + "..."
	}
	return fmt.Sprintf("File: %s\nDescription: %s\n%s", path, description, text)
}

// ListCustomersParams defines filters for the review grid.
type ListCustomersParams struct {
	Page             int
	PageSize         int
	ResidenceCountry string
	CustomerType     string
	Search           string
}

func (p ListCustomersParams) toOptions() repository.ListCustomersOptions {
	page := p.Page
	if page < 1 {
		page = 1
	}
	pageSize := p.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}
	return repository.ListCustomersOptions{
		Offset:           (page - 1) * pageSize,
		Limit:            pageSize,
		ResidenceCountry: p.ResidenceCountry,
		CustomerType:     p.CustomerType,
		Search:           p.Search,
	}
}
