package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/priyamehta/cddrisk/internal/docs"
	"github.com/priyamehta/cddrisk/internal/domain"
	"github.com/priyamehta/cddrisk/internal/repository"
	"github.com/priyamehta/cddrisk/internal/service"
)

type stubOnboarding struct {
	customer     domain.Customer
	registerErr  error
	docResult    service.DocumentResult
	docErr       error
	lastFilename string
}

func (s *stubOnboarding) RegisterCustomer(ctx context.Context, in service.CustomerInput) (domain.Customer, error) {
	if s.registerErr != nil {
		return domain.Customer{}, s.registerErr
	}
	return s.customer, nil
}

func (s *stubOnboarding) AttachDocument(ctx context.Context, customerID, filename string, data []byte) (service.DocumentResult, error) {
	s.lastFilename = filename
	if s.docErr != nil {
		return service.DocumentResult{}, s.docErr
	}
	return s.docResult, nil
}

type stubReview struct {
	customer         domain.Customer
	customerErr      error
	list             domain.CustomerListResult
	structured       domain.RiskScore
	unstructured     domain.RiskScore
	riskErr          error
	text             string
	lastListedParams service.ListCustomersParams
}

func (s *stubReview) GetCustomer(ctx context.Context, customerID string) (domain.Customer, error) {
	if s.customerErr != nil {
		return domain.Customer{}, s.customerErr
	}
	return s.customer, nil
}

func (s *stubReview) ListCustomers(ctx context.Context, opts service.ListCustomersParams) (domain.CustomerListResult, error) {
	s.lastListedParams = opts
	return s.list, nil
}

func (s *stubReview) StructuredRisk(ctx context.Context, customerID string) (domain.RiskScore, error) {
	if s.riskErr != nil {
		return domain.RiskScore{}, s.riskErr
	}
	return s.structured, nil
}

func (s *stubReview) UnstructuredRisk(ctx context.Context, customerID string) (domain.RiskScore, error) {
	if s.riskErr != nil {
		return domain.RiskScore{}, s.riskErr
	}
	return s.unstructured, nil
}

func (s *stubReview) DocumentText(ctx context.Context, customerID string) (string, error) {
	if s.customerErr != nil {
		return "", s.customerErr
	}
	return s.text, nil
}

func testHandlers(onboarding *stubOnboarding, review *stubReview) *APIHandlers {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAPIHandlers(logger, onboarding, review)
}

func sampleCustomer() domain.Customer {
	return domain.Customer{
		ID:        "9fd9f63e",
		FirstName: "John",
		Surname:   "Doe",
		Attributes: domain.CustomerAttributes{
			ResidenceCountry: "Australia (AUS)",
			CustomerType:     "Individual",
			Occupation:       "Engineer",
			TimeAtAddress:    "1-3 years",
			IncomeSource:     "Employment",
		},
		CreatedAt: time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func TestHandleRegisterCustomer(t *testing.T) {
	onboarding := &stubOnboarding{customer: sampleCustomer()}
	handlers := testHandlers(onboarding, &stubReview{})

	body := `{"firstName":"John","surname":"Doe","residenceCountry":"Australia (AUS)"}`
	req := httptest.NewRequest(http.MethodPost, "/customers", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handlers.handleCustomers(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var payload customerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.CustomerID != "9fd9f63e" {
		t.Fatalf("unexpected customer id: %s", payload.CustomerID)
	}
}

func TestHandleRegisterCustomerValidationFailure(t *testing.T) {
	onboarding := &stubOnboarding{registerErr: fmt.Errorf("invalid residence country: %q", "Narnia")}
	handlers := testHandlers(onboarding, &stubReview{})

	req := httptest.NewRequest(http.MethodPost, "/customers", strings.NewReader(`{"firstName":"John"}`))
	rec := httptest.NewRecorder()

	handlers.handleCustomers(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestHandleRegisterCustomerRejectsUnknownFields(t *testing.T) {
	handlers := testHandlers(&stubOnboarding{customer: sampleCustomer()}, &stubReview{})

	req := httptest.NewRequest(http.MethodPost, "/customers", strings.NewReader(`{"bogus":true}`))
	rec := httptest.NewRecorder()

	handlers.handleCustomers(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestHandleListCustomersPassesFilters(t *testing.T) {
	review := &stubReview{list: domain.CustomerListResult{
		Items: []domain.CustomerSummary{{ID: "9fd9f63e", FirstName: "John", Surname: "Doe"}},
		Total: 1,
	}}
	handlers := testHandlers(&stubOnboarding{}, review)

	req := httptest.NewRequest(http.MethodGet, "/customers?country=Russia+(RUS)&type=Trust&search=doe&page=2&pageSize=10", nil)
	rec := httptest.NewRecorder()

	handlers.handleCustomers(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if review.lastListedParams.ResidenceCountry != "Russia (RUS)" {
		t.Fatalf("country filter not passed: %+v", review.lastListedParams)
	}
	if review.lastListedParams.Page != 2 || review.lastListedParams.PageSize != 10 {
		t.Fatalf("pagination not passed: %+v", review.lastListedParams)
	}

	var payload listCustomersResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.Total != 1 || len(payload.Items) != 1 {
		t.Fatalf("unexpected list payload: %+v", payload)
	}
}

func TestHandleGetCustomerNotFound(t *testing.T) {
	review := &stubReview{customerErr: repository.ErrNotFound}
	handlers := testHandlers(&stubOnboarding{}, review)

	req := httptest.NewRequest(http.MethodGet, "/customers/missing0", nil)
	rec := httptest.NewRecorder()

	handlers.handleCustomerSubroutes(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestHandleAttachDocument(t *testing.T) {
	onboarding := &stubOnboarding{docResult: service.DocumentResult{
		StoredPath: "documents/9fd9f63e_passport.png",
		Classifications: []domain.DocumentClassification{
			{Type: domain.DocPassport, Description: "A passport."},
		},
		Overrides: []docs.Override{{Page: 1, From: domain.DocNationalID, To: domain.DocPassport}},
	}}
	handlers := testHandlers(onboarding, &stubReview{})

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("document", "scan.png")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write([]byte("img")); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/customers/9fd9f63e/documents", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()

	handlers.handleCustomerSubroutes(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if onboarding.lastFilename != "scan.png" {
		t.Fatalf("filename not forwarded: %s", onboarding.lastFilename)
	}

	var payload attachDocumentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.StoredPath != "documents/9fd9f63e_passport.png" {
		t.Fatalf("unexpected stored path: %s", payload.StoredPath)
	}
	if len(payload.Warnings) != 1 || !strings.Contains(payload.Warnings[0], "Page 2 detected as national_id") {
		t.Fatalf("unexpected warnings: %v", payload.Warnings)
	}
}

func TestHandleAttachDocumentMissingFile(t *testing.T) {
	handlers := testHandlers(&stubOnboarding{}, &stubReview{})

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	_ = writer.WriteField("note", "no file here")
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/customers/9fd9f63e/documents", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()

	handlers.handleCustomerSubroutes(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestHandleStructuredRisk(t *testing.T) {
	review := &stubReview{structured: domain.RiskScore{
		BaseScore:  120,
		TotalScore: 120,
		MaxScore:   375,
		Category:   domain.RiskMedium,
		ColorHint:  "#F39C12",
	}}
	handlers := testHandlers(&stubOnboarding{}, review)

	req := httptest.NewRequest(http.MethodGet, "/customers/9fd9f63e/risk/structured", nil)
	rec := httptest.NewRecorder()

	handlers.handleCustomerSubroutes(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var payload riskResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.Category != "Medium Risk" || payload.MaxScore != 375 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if payload.Adjustment != nil {
		t.Fatal("structured response must omit adjustment")
	}
}

func TestHandleUnstructuredRisk(t *testing.T) {
	review := &stubReview{unstructured: domain.RiskScore{
		BaseScore:   220,
		Adjustment:  40,
		TotalScore:  260,
		MaxScore:    425,
		Category:    domain.RiskHigh,
		ColorHint:   "#C0392B",
		Explanation: "Opaque source.",
		Adjusted:    true,
	}}
	handlers := testHandlers(&stubOnboarding{}, review)

	req := httptest.NewRequest(http.MethodGet, "/customers/9fd9f63e/risk/unstructured", nil)
	rec := httptest.NewRecorder()

	handlers.handleCustomerSubroutes(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var payload riskResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.Adjustment == nil || *payload.Adjustment != 40 {
		t.Fatalf("unexpected adjustment: %+v", payload.Adjustment)
	}
	if payload.TotalScore != 260 || payload.Explanation != "Opaque source." {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestHandleUnknownRiskMode(t *testing.T) {
	handlers := testHandlers(&stubOnboarding{}, &stubReview{})

	req := httptest.NewRequest(http.MethodGet, "/customers/9fd9f63e/risk/psychic", nil)
	rec := httptest.NewRecorder()

	handlers.handleCustomerSubroutes(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestHandleDocumentText(t *testing.T) {
	review := &stubReview{text: "File: documents/x.pdf\nDescription: Payslip.\ncontent"}
	handlers := testHandlers(&stubOnboarding{}, review)

	req := httptest.NewRequest(http.MethodGet, "/customers/9fd9f63e/documents/text", nil)
	rec := httptest.NewRecorder()

	handlers.handleCustomerSubroutes(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var payload documentTextResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !strings.Contains(payload.Text, "Payslip.") {
		t.Fatalf("unexpected text: %q", payload.Text)
	}
}

func TestHandleMethodNotAllowed(t *testing.T) {
	handlers := testHandlers(&stubOnboarding{}, &stubReview{})

	req := httptest.NewRequest(http.MethodDelete, "/customers/9fd9f63e", nil)
	rec := httptest.NewRecorder()

	handlers.handleCustomerSubroutes(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != "GET" {
		t.Fatalf("unexpected Allow header: %q", allow)
	}
}
