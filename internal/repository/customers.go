// Package repository persists customer records in SQLite. Document paths
// and descriptions are stored comma-joined, matching the onboarding file
// layout consumed by the review flow.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/priyamehta/cddrisk/internal/domain"
)

// ErrNotFound indicates the requested customer does not exist.
var ErrNotFound = errors.New("customer not found")

// ListCustomersOptions defines filters and pagination for customer listing.
type ListCustomersOptions struct {
	Offset           int
	Limit            int
	ResidenceCountry string
	CustomerType     string
	Search           string
}

// Store encapsulates customer persistence.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %s: %w", path, err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA busy_timeout=5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Ping verifies database connectivity for health probes.
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// EnsureSchema creates the customers table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	const createTable = `
CREATE TABLE IF NOT EXISTS customers (
  cid TEXT PRIMARY KEY,
  first_name TEXT,
  surname TEXT,
  residence_country TEXT,
  customer_type TEXT,
  occupation TEXT,
  time_at_address TEXT,
  street_address TEXT,
  city TEXT,
  state TEXT,
  postal_code TEXT,
  income_source TEXT,
  income_comments TEXT,
  expected_transaction_volume TEXT,
  file_paths TEXT,
  descriptions TEXT,
  created_at TEXT
);
`
	if _, err := s.db.ExecContext(ctx, createTable); err != nil {
		return fmt.Errorf("create customers table: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_customers_country ON customers(residence_country);`); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_customers_type ON customers(customer_type);`); err != nil {
		return err
	}
	return nil
}

const customerColumns = `cid, first_name, surname, residence_country, customer_type,
  occupation, time_at_address, street_address, city, state, postal_code,
  income_source, income_comments, expected_transaction_volume,
  file_paths, descriptions, created_at`

// UpsertCustomer inserts or replaces a customer record.
func (s *Store) UpsertCustomer(ctx context.Context, c domain.Customer) error {
	if c.ID == "" {
		return errors.New("customer id is required")
	}

	_, err := s.db.ExecContext(ctx, `
INSERT OR REPLACE INTO customers (`+customerColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
		c.ID, c.FirstName, c.Surname,
		c.Attributes.ResidenceCountry, c.Attributes.CustomerType, c.Attributes.Occupation,
		c.Attributes.TimeAtAddress,
		c.Address.Street, c.Address.City, c.Address.State, c.Address.PostalCode,
		c.Attributes.IncomeSource, c.IncomeComments, c.ExpectedTransactionVolume,
		joinList(c.FilePaths), joinList(c.Descriptions),
		c.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upsert customer %s: %w", c.ID, err)
	}
	return nil
}

// GetCustomer fetches a customer by ID. Returns ErrNotFound when absent.
func (s *Store) GetCustomer(ctx context.Context, id string) (domain.Customer, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT `+customerColumns+`
FROM customers WHERE cid = ?
`, id)

	customer, err := scanCustomer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Customer{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return domain.Customer{}, fmt.Errorf("get customer %s: %w", id, err)
	}
	return customer, nil
}

// ListCustomers returns paginated customer summaries matching the filters.
func (s *Store) ListCustomers(ctx context.Context, opts ListCustomersOptions) (domain.CustomerListResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	where := make([]string, 0, 3)
	args := make([]any, 0, 5)

	if opts.ResidenceCountry != "" {
		where = append(where, "residence_country = ?")
		args = append(args, opts.ResidenceCountry)
	}
	if opts.CustomerType != "" {
		where = append(where, "customer_type = ?")
		args = append(args, opts.CustomerType)
	}
	if search := strings.TrimSpace(opts.Search); search != "" {
		where = append(where, "(LOWER(first_name) LIKE '%' || LOWER(?) || '%' OR LOWER(surname) LIKE '%' || LOWER(?) || '%' OR cid LIKE '%' || ? || '%')")
		args = append(args, search, search, search)
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = "WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM customers "+whereSQL, args...).Scan(&total); err != nil {
		return domain.CustomerListResult{}, fmt.Errorf("count customers: %w", err)
	}

	query := `
SELECT cid, first_name, surname, residence_country, customer_type, occupation, created_at
FROM customers
` + whereSQL + `
ORDER BY surname, first_name, cid
LIMIT ? OFFSET ?`

	rows, err := s.db.QueryContext(ctx, query, append(append([]any{}, args...), limit, offset)...)
	if err != nil {
		return domain.CustomerListResult{}, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	result := domain.CustomerListResult{Total: total}
	for rows.Next() {
		var item domain.CustomerSummary
		var createdAt string
		if err := rows.Scan(&item.ID, &item.FirstName, &item.Surname,
			&item.ResidenceCountry, &item.CustomerType, &item.Occupation, &createdAt); err != nil {
			return domain.CustomerListResult{}, err
		}
		item.CreatedAt = parseTime(createdAt)
		result.Items = append(result.Items, item)
	}
	return result, rows.Err()
}

// AppendDocuments records newly stored document files and their
// classification descriptions against a customer.
func (s *Store) AppendDocuments(ctx context.Context, id string, paths, descriptions []string) error {
	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return err
	}
	customer.FilePaths = append(customer.FilePaths, paths...)
	customer.Descriptions = append(customer.Descriptions, descriptions...)
	return s.UpsertCustomer(ctx, customer)
}

func scanCustomer(row *sql.Row) (domain.Customer, error) {
	var c domain.Customer
	var filePaths, descriptions, createdAt string
	err := row.Scan(
		&c.ID, &c.FirstName, &c.Surname,
		&c.Attributes.ResidenceCountry, &c.Attributes.CustomerType, &c.Attributes.Occupation,
		&c.Attributes.TimeAtAddress,
		&c.Address.Street, &c.Address.City, &c.Address.State, &c.Address.PostalCode,
		&c.Attributes.IncomeSource, &c.IncomeComments, &c.ExpectedTransactionVolume,
		&filePaths, &descriptions, &createdAt,
	)
	if err != nil {
		return domain.Customer{}, err
	}
	c.FilePaths = splitList(filePaths)
	c.Descriptions = splitList(descriptions)
	c.CreatedAt = parseTime(createdAt)
	return c, nil
}

func joinList(items []string) string {
	return strings.Join(items, ",")
}

func splitList(joined string) []string {
	if joined == "" {
		return nil
	}
	return strings.Split(joined, ",")
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
