package service

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/andy/invoicer/internal/domain"
	"github.com/andy/invoicer/internal/repository"
)

// CustomerRegistry is the editable customer list behind the CLI and TUI.
// It remembers the rows of the last search and which one is selected.
type CustomerRegistry struct {
	repo      repository.CustomerRepository
	logger    *log.Logger
	selection domain.Selection[int64]
}

// NewCustomerRegistry creates a registry over repo
func NewCustomerRegistry(repo repository.CustomerRepository, logger *log.Logger) *CustomerRegistry {
	return &CustomerRegistry{repo: repo, logger: logger}
}

// Create validates fields and stores a new customer
func (r *CustomerRegistry) Create(ctx context.Context, fields domain.CustomerFields) (*domain.Customer, error) {
	customer, err := domain.NewCustomer(fields)
	if err != nil {
		return nil, err
	}
	if err := r.repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	r.logger.Info("customer created", "id", customer.ID, "name", customer.Name)
	return customer, nil
}

// Get returns one customer
func (r *CustomerRegistry) Get(ctx context.Context, id int64) (*domain.Customer, error) {
	return r.repo.GetByID(ctx, id)
}

// Update applies fields to an existing customer
func (r *CustomerRegistry) Update(ctx context.Context, id int64, fields domain.CustomerFields) (*domain.Customer, error) {
	customer, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := customer.Apply(fields); err != nil {
		return nil, err
	}
	if err := r.repo.Update(ctx, customer); err != nil {
		return nil, err
	}
	r.logger.Info("customer updated", "id", id)
	return customer, nil
}

// Search lists matching customers and refreshes the row selection
func (r *CustomerRegistry) Search(ctx context.Context, term string) ([]*domain.Customer, error) {
	customers, err := r.repo.Search(ctx, term)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(customers))
	for i, c := range customers {
		ids[i] = c.ID
	}
	r.selection.Reset(ids)
	return customers, nil
}

// Select marks one listed customer as selected
func (r *CustomerRegistry) Select(id int64) error {
	if !r.selection.Select(id) {
		return fmt.Errorf("customer %d is not listed: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Selected returns the selected customer id, if any
func (r *CustomerRegistry) Selected() (int64, bool) {
	return r.selection.Selected()
}

// Rows returns the listed rows with their selection flags
func (r *CustomerRegistry) Rows() []domain.Row[int64] {
	return r.selection.Rows()
}

// Delete removes a customer. Invoice records referencing it are left alone.
func (r *CustomerRegistry) Delete(ctx context.Context, id int64) error {
	if err := r.repo.Delete(ctx, id); err != nil {
		return err
	}
	r.selection.Remove(id)
	r.logger.Info("customer deleted", "id", id)
	return nil
}
