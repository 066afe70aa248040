package service

import (
	"context"
	"errors"
	"sync"
)

// TaskError accumulates multiple errors produced during bulk seeding.
type TaskError struct {
	Errors []error
}

func (e *TaskError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := "multiple errors:"
	for _, err := range e.Errors {
		msg += " " + err.Error() + ";"
	}
	return msg
}

func (e *TaskError) append(err error) {
	if err == nil {
		return
	}
	e.Errors = append(e.Errors, err)
}

func (e *TaskError) asError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// BulkSeeder registers large customer datasets using a worker pool. Used by
// the seed command; the interactive flows stay single-request.
type BulkSeeder struct {
	onboarding *OnboardingService
	workers    int
}

// NewBulkSeeder creates a BulkSeeder with the provided concurrency.
func NewBulkSeeder(onboarding *OnboardingService, workers int) *BulkSeeder {
	if workers <= 0 {
		workers = 4
	}
	return &BulkSeeder{
		onboarding: onboarding,
		workers:    workers,
	}
}

// SeedCustomers registers the provided customer inputs concurrently,
// aggregating per-item failures.
func (b *BulkSeeder) SeedCustomers(ctx context.Context, customers []CustomerInput) error {
	return b.run(ctx, len(customers), func(idx int) error {
		_, err := b.onboarding.RegisterCustomer(ctx, customers[idx])
		return err
	})
}

func (b *BulkSeeder) run(ctx context.Context, total int, workerFn func(idx int) error) error {
	if total == 0 {
		return nil
	}
	indexCh := make(chan int)
	errCh := make(chan error, total)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for idx := range indexCh {
			if err := workerFn(idx); err != nil {
				select {
				case errCh <- err:
				case <-ctx.Done():
					return
				}
			}
		}
	}

	for i := 0; i < b.workers; i++ {
		wg.Add(1)
		go worker()
	}

Loop:
	for i := 0; i < total; i++ {
		select {
		case indexCh <- i:
		case <-ctx.Done():
			break Loop
		}
	}
	close(indexCh)
	wg.Wait()
	close(errCh)

	var taskErr TaskError
	for err := range errCh {
		if err == nil {
			continue
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		taskErr.append(err)
	}
	return taskErr.asError()
}
