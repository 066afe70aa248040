package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/priyamehta/cddrisk/internal/domain"
	"github.com/priyamehta/cddrisk/internal/repository"
	"github.com/priyamehta/cddrisk/internal/scoring"
	"github.com/priyamehta/cddrisk/internal/service"
)

const maxUploadBytes = 32 << 20

// OnboardingAPI is the onboarding surface the handlers depend on.
type OnboardingAPI interface {
	RegisterCustomer(ctx context.Context, in service.CustomerInput) (domain.Customer, error)
	AttachDocument(ctx context.Context, customerID, filename string, data []byte) (service.DocumentResult, error)
}

// ReviewAPI is the review surface the handlers depend on.
type ReviewAPI interface {
	GetCustomer(ctx context.Context, customerID string) (domain.Customer, error)
	ListCustomers(ctx context.Context, opts service.ListCustomersParams) (domain.CustomerListResult, error)
	StructuredRisk(ctx context.Context, customerID string) (domain.RiskScore, error)
	UnstructuredRisk(ctx context.Context, customerID string) (domain.RiskScore, error)
	DocumentText(ctx context.Context, customerID string) (string, error)
}

// APIHandlers exposes HTTP handlers for the REST API.
type APIHandlers struct {
	logger     *slog.Logger
	onboarding OnboardingAPI
	review     ReviewAPI
}

// NewAPIHandlers constructs an APIHandlers instance.
func NewAPIHandlers(logger *slog.Logger, onboarding OnboardingAPI, review ReviewAPI) *APIHandlers {
	return &APIHandlers{
		logger:     logger,
		onboarding: onboarding,
		review:     review,
	}
}

func (h *APIHandlers) handleCustomers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.registerCustomer(w, r)
	case http.MethodGet:
		h.listCustomers(w, r)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

// handleCustomerSubroutes dispatches /customers/{id}[/...] paths.
func (h *APIHandlers) handleCustomerSubroutes(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/customers/"), "/")
	if rest == "" {
		writeError(w, http.StatusBadRequest, "customer ID is required")
		return
	}

	parts := strings.Split(rest, "/")
	customerID := parts[0]

	switch {
	case len(parts) == 1:
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		h.getCustomer(w, r, customerID)
	case len(parts) == 2 && parts[1] == "documents":
		if r.Method != http.MethodPost {
			methodNotAllowed(w, http.MethodPost)
			return
		}
		h.attachDocument(w, r, customerID)
	case len(parts) == 3 && parts[1] == "documents" && parts[2] == "text":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		h.documentText(w, r, customerID)
	case len(parts) == 3 && parts[1] == "risk":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		h.risk(w, r, customerID, parts[2])
	default:
		writeError(w, http.StatusNotFound, "unknown route")
	}
}

func (h *APIHandlers) registerCustomer(w http.ResponseWriter, r *http.Request) {
	var payload customerRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	customer, err := h.onboarding.RegisterCustomer(r.Context(), payload.toServiceInput())
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to register customer", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to register customer")
		return
	}

	respondJSON(w, http.StatusCreated, customerResponseFrom(customer))
}

func (h *APIHandlers) listCustomers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	params := service.ListCustomersParams{
		Page:             parseInt(query.Get("page"), 1),
		PageSize:         parseInt(query.Get("pageSize"), 50),
		ResidenceCountry: query.Get("country"),
		CustomerType:     query.Get("type"),
		Search:           query.Get("search"),
	}

	result, err := h.review.ListCustomers(r.Context(), params)
	if err != nil {
		h.logger.Error("failed to list customers", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list customers")
		return
	}

	resp := listCustomersResponse{
		Total: result.Total,
		Items: []customerSummaryResponse{},
	}
	for _, item := range result.Items {
		resp.Items = append(resp.Items, customerSummaryResponse{
			CustomerID:       item.ID,
			FirstName:        item.FirstName,
			Surname:          item.Surname,
			ResidenceCountry: item.ResidenceCountry,
			CustomerType:     item.CustomerType,
			Occupation:       item.Occupation,
			CreatedAt:        item.CreatedAt.Format(time.RFC3339),
		})
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *APIHandlers) getCustomer(w http.ResponseWriter, r *http.Request, customerID string) {
	customer, err := h.review.GetCustomer(r.Context(), customerID)
	if err != nil {
		h.writeCustomerError(w, customerID, err, "failed to fetch customer")
		return
	}
	respondJSON(w, http.StatusOK, customerResponseFrom(customer))
}

func (h *APIHandlers) attachDocument(w http.ResponseWriter, r *http.Request, customerID string) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart payload")
		return
	}

	file, header, err := r.FormFile("document")
	if err != nil {
		writeError(w, http.StatusBadRequest, "document file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read document")
		return
	}

	result, err := h.onboarding.AttachDocument(r.Context(), customerID, header.Filename, data)
	if err != nil {
		h.writeCustomerError(w, customerID, err, "failed to attach document")
		return
	}

	resp := attachDocumentResponse{
		StoredPath:      result.StoredPath,
		Classifications: []classificationResponse{},
		Warnings:        []string{},
	}
	for _, c := range result.Classifications {
		resp.Classifications = append(resp.Classifications, classificationResponse{
			DocType:     string(c.Type),
			Description: c.Description,
		})
	}
	for _, o := range result.Overrides {
		resp.Warnings = append(resp.Warnings, fmt.Sprintf(
			"Page %d detected as %s, but assuming %s for consistency in multi-page document.",
			o.Page+1, o.From, o.To,
		))
	}
	respondJSON(w, http.StatusCreated, resp)
}

func (h *APIHandlers) documentText(w http.ResponseWriter, r *http.Request, customerID string) {
	text, err := h.review.DocumentText(r.Context(), customerID)
	if err != nil {
		h.writeCustomerError(w, customerID, err, "failed to extract document text")
		return
	}
	respondJSON(w, http.StatusOK, documentTextResponse{Text: text})
}

func (h *APIHandlers) risk(w http.ResponseWriter, r *http.Request, customerID, mode string) {
	var (
		score domain.RiskScore
		err   error
	)
	switch mode {
	case "structured":
		score, err = h.review.StructuredRisk(r.Context(), customerID)
	case "unstructured":
		score, err = h.review.UnstructuredRisk(r.Context(), customerID)
	default:
		writeError(w, http.StatusNotFound, "unknown risk mode")
		return
	}

	if err != nil {
		if errors.Is(err, scoring.ErrUnseenCategory) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		h.writeCustomerError(w, customerID, err, "failed to score customer")
		return
	}

	resp := riskResponse{
		BaseScore:  score.BaseScore,
		TotalScore: score.TotalScore,
		MaxScore:   score.MaxScore,
		Category:   string(score.Category),
		ColorHint:  score.ColorHint,
	}
	if score.Adjusted {
		resp.Adjustment = &score.Adjustment
		resp.Explanation = score.Explanation
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *APIHandlers) writeCustomerError(w http.ResponseWriter, customerID string, err error, fallback string) {
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, "customer not found")
		return
	}
	h.logger.Error(fallback, "error", err, "customerId", customerID)
	writeError(w, http.StatusInternalServerError, fallback)
}

// isValidationError reports whether the registration failure is caller
// input, not infrastructure.
func isValidationError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "invalid ") || strings.Contains(msg, "required")
}

func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("invalid JSON payload: %w", err)
	}
	return nil
}

func parseInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	v, err := strconv.Atoi(value)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func writeError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}
