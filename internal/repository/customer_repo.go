package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/andy/invoicer/internal/db"
	"github.com/andy/invoicer/internal/domain"
)

const customerColumns = `id, name, address, phone, email, created_at`

// CustomerRepo is a SQLite implementation of CustomerRepository
type CustomerRepo struct {
	db *db.DB
}

// NewCustomerRepo creates a new CustomerRepo
func NewCustomerRepo(database *db.DB) *CustomerRepo {
	return &CustomerRepo{db: database}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row rowScanner) (*domain.Customer, error) {
	customer := &domain.Customer{}
	var address, phone, email sql.NullString
	var createdAt string

	if err := row.Scan(
		&customer.ID,
		&customer.Name,
		&address,
		&phone,
		&email,
		&createdAt,
	); err != nil {
		return nil, err
	}

	customer.Address = address.String
	customer.Phone = phone.String
	customer.Email = email.String

	var err error
	if customer.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return customer, nil
}

// Create inserts a new customer into the database
func (r *CustomerRepo) Create(ctx context.Context, customer *domain.Customer) error {
	if err := customer.Validate(); err != nil {
		return fmt.Errorf("invalid customer: %w", err)
	}

	query := `
		INSERT INTO customers (name, address, phone, email, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		customer.Name,
		customer.Address,
		customer.Phone,
		customer.Email,
		customer.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get customer ID: %w", err)
	}

	customer.ID = id
	return nil
}

// GetByID retrieves a customer by ID
func (r *CustomerRepo) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = ?`

	customer, err := scanCustomer(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("customer %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return customer, nil
}

// GetByName retrieves the oldest customer with exactly this name
func (r *CustomerRepo) GetByName(ctx context.Context, name string) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE name = ? ORDER BY id LIMIT 1`

	customer, err := scanCustomer(r.db.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("customer %q: %w", name, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return customer, nil
}

// Search returns customers whose name, address, phone or email contain term
func (r *CustomerRepo) Search(ctx context.Context, term string) ([]*domain.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE lower(name) LIKE ? ESCAPE '\'
		   OR lower(COALESCE(address, '')) LIKE ? ESCAPE '\'
		   OR lower(COALESCE(phone, '')) LIKE ? ESCAPE '\'
		   OR lower(COALESCE(email, '')) LIKE ? ESCAPE '\'
		ORDER BY name, id
	`

	pattern := likePattern(term)
	rows, err := r.db.QueryContext(ctx, query, pattern, pattern, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search customers: %w", err)
	}
	defer rows.Close()

	customers := make([]*domain.Customer, 0)
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, customer)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customers: %w", err)
	}

	return customers, nil
}

// Update updates an existing customer
func (r *CustomerRepo) Update(ctx context.Context, customer *domain.Customer) error {
	if err := customer.Validate(); err != nil {
		return fmt.Errorf("invalid customer: %w", err)
	}

	query := `
		UPDATE customers
		SET name = ?, address = ?, phone = ?, email = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		customer.Name,
		customer.Address,
		customer.Phone,
		customer.Email,
		customer.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}

	return expectOneRow(result, "customer", customer.ID)
}

// Delete removes a customer. Invoice records keep their dangling customer id.
func (r *CustomerRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	return expectOneRow(result, "customer", id)
}

func expectOneRow(result sql.Result, kind string, id int64) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%s %d: %w", kind, id, domain.ErrNotFound)
	}
	return nil
}
