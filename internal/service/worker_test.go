package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestSeedCustomersRegistersAll(t *testing.T) {
	store := newStubStore()
	svc := NewOnboardingService(store, nil, nil, nil, testLogger())
	seeder := NewBulkSeeder(svc, 3)

	var inputs []CustomerInput
	for i := 0; i < 10; i++ {
		in := validInput()
		in.FirstName = fmt.Sprintf("Customer%d", i)
		inputs = append(inputs, in)
	}

	if err := seeder.SeedCustomers(context.Background(), inputs); err != nil {
		t.Fatalf("seeding failed: %v", err)
	}
	if len(store.customers) != 10 {
		t.Fatalf("expected 10 customers, got %d", len(store.customers))
	}
}

func TestSeedCustomersAggregatesFailures(t *testing.T) {
	store := newStubStore()
	svc := NewOnboardingService(store, nil, nil, nil, testLogger())
	seeder := NewBulkSeeder(svc, 2)

	good := validInput()
	bad := validInput()
	bad.Surname = ""
	alsoBad := validInput()
	alsoBad.FirstName = "Other"
	alsoBad.ResidenceCountry = "Narnia"

	err := seeder.SeedCustomers(context.Background(), []CustomerInput{good, bad, alsoBad})
	if err == nil {
		t.Fatal("expected aggregated error")
	}

	var taskErr *TaskError
	if !errors.As(err, &taskErr) {
		t.Fatalf("expected TaskError, got %T", err)
	}
	if len(taskErr.Errors) != 2 {
		t.Fatalf("expected 2 item failures, got %d", len(taskErr.Errors))
	}
	if len(store.customers) != 1 {
		t.Fatalf("expected the valid customer persisted, got %d", len(store.customers))
	}
}

func TestSeedCustomersCancelledContext(t *testing.T) {
	store := newStubStore()
	svc := NewOnboardingService(store, nil, nil, nil, testLogger())
	seeder := NewBulkSeeder(svc, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := seeder.SeedCustomers(ctx, []CustomerInput{validInput()})
	if err != nil && !errors.Is(err, context.Canceled) {
		t.Fatalf("expected nil or context.Canceled, got %v", err)
	}
}

func TestSeedCustomersEmptyInput(t *testing.T) {
	seeder := NewBulkSeeder(NewOnboardingService(newStubStore(), nil, nil, nil, testLogger()), 4)

	if err := seeder.SeedCustomers(context.Background(), nil); err != nil {
		t.Fatalf("expected nil for empty input, got %v", err)
	}
}
