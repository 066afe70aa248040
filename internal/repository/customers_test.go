package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/priyamehta/cddrisk/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("failed to ensure schema: %v", err)
	}
	return store
}

func testCustomer(id, firstName, surname string) domain.Customer {
	return domain.Customer{
		ID:        id,
		FirstName: firstName,
		Surname:   surname,
		Attributes: domain.CustomerAttributes{
			ResidenceCountry: "Australia (AUS)",
			CustomerType:     "Individual",
			Occupation:       "Engineer",
			TimeAtAddress:    "1-3 years",
			IncomeSource:     "Employment",
		},
		Address: domain.Address{
			Street:     "12 Collins St",
			City:       "Melbourne",
			State:      "VIC",
			PostalCode: "3000",
		},
		IncomeComments:            "Salaried engineer at a listed company",
		ExpectedTransactionVolume: "< $10,000",
		CreatedAt:                 time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func TestUpsertAndGetCustomer(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	want := testCustomer("ab12cd34", "Jane", "Doe")
	want.FilePaths = []string{"documents/ab12cd34_passport.png"}
	want.Descriptions = []string{"The image appears to show a passport."}

	if err := store.UpsertCustomer(ctx, want); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	got, err := store.GetCustomer(ctx, "ab12cd34")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.FirstName != "Jane" || got.Surname != "Doe" {
		t.Fatalf("unexpected name: %s %s", got.FirstName, got.Surname)
	}
	if got.Attributes != want.Attributes {
		t.Fatalf("attributes mismatch: %+v", got.Attributes)
	}
	if got.Address != want.Address {
		t.Fatalf("address mismatch: %+v", got.Address)
	}
	if len(got.FilePaths) != 1 || got.FilePaths[0] != want.FilePaths[0] {
		t.Fatalf("file paths mismatch: %v", got.FilePaths)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Fatalf("created_at mismatch: %s", got.CreatedAt)
	}
}

func TestUpsertReplacesExistingRecord(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	customer := testCustomer("ab12cd34", "Jane", "Doe")
	if err := store.UpsertCustomer(ctx, customer); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	customer.IncomeComments = "Updated commentary"
	if err := store.UpsertCustomer(ctx, customer); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	got, err := store.GetCustomer(ctx, "ab12cd34")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.IncomeComments != "Updated commentary" {
		t.Fatalf("expected replaced comments, got %q", got.IncomeComments)
	}

	result, err := store.ListCustomers(ctx, ListCustomersOptions{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if result.Total != 1 {
		t.Fatalf("expected 1 customer after replace, got %d", result.Total)
	}
}

func TestUpsertRequiresID(t *testing.T) {
	store := openTestStore(t)

	err := store.UpsertCustomer(context.Background(), domain.Customer{FirstName: "Jane"})
	if err == nil {
		t.Fatal("expected error for missing id")
	}
}

func TestGetCustomerNotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.GetCustomer(context.Background(), "missing0")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListCustomersFilters(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	alice := testCustomer("aaaa1111", "Alice", "Archer")
	bob := testCustomer("bbbb2222", "Bob", "Baker")
	bob.Attributes.ResidenceCountry = "Russia (RUS)"
	bob.Attributes.CustomerType = "Trust"
	for _, c := range []domain.Customer{alice, bob} {
		if err := store.UpsertCustomer(ctx, c); err != nil {
			t.Fatalf("upsert failed: %v", err)
		}
	}

	byCountry, err := store.ListCustomers(ctx, ListCustomersOptions{ResidenceCountry: "Russia (RUS)"})
	if err != nil {
		t.Fatalf("list by country failed: %v", err)
	}
	if byCountry.Total != 1 || byCountry.Items[0].ID != "bbbb2222" {
		t.Fatalf("unexpected country filter result: %+v", byCountry)
	}

	byType, err := store.ListCustomers(ctx, ListCustomersOptions{CustomerType: "Individual"})
	if err != nil {
		t.Fatalf("list by type failed: %v", err)
	}
	if byType.Total != 1 || byType.Items[0].ID != "aaaa1111" {
		t.Fatalf("unexpected type filter result: %+v", byType)
	}

	bySearch, err := store.ListCustomers(ctx, ListCustomersOptions{Search: "arch"})
	if err != nil {
		t.Fatalf("list by search failed: %v", err)
	}
	if bySearch.Total != 1 || bySearch.Items[0].Surname != "Archer" {
		t.Fatalf("unexpected search result: %+v", bySearch)
	}
}

func TestListCustomersPagination(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	surnames := []string{"Adams", "Brown", "Clark"}
	for i, surname := range surnames {
		c := testCustomer(string(rune('a'+i))+"0000000", "Pat", surname)
		if err := store.UpsertCustomer(ctx, c); err != nil {
			t.Fatalf("upsert failed: %v", err)
		}
	}

	page, err := store.ListCustomers(ctx, ListCustomersOptions{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if page.Total != 3 {
		t.Fatalf("expected total 3, got %d", page.Total)
	}
	if len(page.Items) != 1 || page.Items[0].Surname != "Clark" {
		t.Fatalf("unexpected page: %+v", page.Items)
	}
}

func TestAppendDocuments(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	customer := testCustomer("ab12cd34", "Jane", "Doe")
	if err := store.UpsertCustomer(ctx, customer); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	if err := store.AppendDocuments(ctx, "ab12cd34",
		[]string{"documents/ab12cd34_passport.png"},
		[]string{"The image appears to show a passport."}); err != nil {
		t.Fatalf("first append failed: %v", err)
	}
	if err := store.AppendDocuments(ctx, "ab12cd34",
		[]string{"documents/ab12cd34_income.pdf"},
		[]string{"Income verification document."}); err != nil {
		t.Fatalf("second append failed: %v", err)
	}

	got, err := store.GetCustomer(ctx, "ab12cd34")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(got.FilePaths) != 2 || len(got.Descriptions) != 2 {
		t.Fatalf("expected 2 paths and descriptions, got %v / %v", got.FilePaths, got.Descriptions)
	}
	if got.FilePaths[1] != "documents/ab12cd34_income.pdf" {
		t.Fatalf("unexpected second path: %s", got.FilePaths[1])
	}

	if err := store.AppendDocuments(ctx, "missing0", []string{"x"}, []string{"y"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown customer, got %v", err)
	}
}
