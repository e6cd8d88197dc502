package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/andy/invoicer/internal/domain"
	"github.com/andy/invoicer/internal/repository"
)

// ErrNotConfirmed is returned by DeleteAll without both confirmations
var ErrNotConfirmed = errors.New("delete all products requires two confirmations")

// ImportFailure records one rejected import row. Index is zero-based over
// the data rows, so spreadsheet row = Index + 2.
type ImportFailure struct {
	Index int
	Name  string
	Err   error
}

// ImportResult summarizes a bulk import
type ImportResult struct {
	SuccessCount int
	FailureCount int
	Failures     []ImportFailure
}

// ProductRegistry is the editable product list behind the CLI and TUI
type ProductRegistry struct {
	repo      repository.ProductRepository
	logger    *log.Logger
	selection domain.Selection[int64]
}

// NewProductRegistry creates a registry over repo
func NewProductRegistry(repo repository.ProductRepository, logger *log.Logger) *ProductRegistry {
	return &ProductRegistry{repo: repo, logger: logger}
}

// Create validates fields and stores a new product
func (r *ProductRegistry) Create(ctx context.Context, fields domain.ProductFields) (*domain.Product, error) {
	product, err := domain.NewProduct(fields)
	if err != nil {
		return nil, err
	}
	if err := r.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	r.logger.Info("product created", "id", product.ID, "name", product.Name)
	return product, nil
}

// Get returns one product
func (r *ProductRegistry) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return r.repo.GetByID(ctx, id)
}

// Update applies fields to an existing product
func (r *ProductRegistry) Update(ctx context.Context, id int64, fields domain.ProductFields) (*domain.Product, error) {
	product, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := product.Apply(fields); err != nil {
		return nil, err
	}
	if err := r.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	r.logger.Info("product updated", "id", id)
	return product, nil
}

// Search lists matching products and refreshes the row selection
func (r *ProductRegistry) Search(ctx context.Context, term string) ([]*domain.Product, error) {
	products, err := r.repo.Search(ctx, term)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	r.selection.Reset(ids)
	return products, nil
}

// Select marks one listed product as selected
func (r *ProductRegistry) Select(id int64) error {
	if !r.selection.Select(id) {
		return fmt.Errorf("product %d is not listed: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Selected returns the selected product id, if any
func (r *ProductRegistry) Selected() (int64, bool) {
	return r.selection.Selected()
}

// Rows returns the listed rows with their selection flags
func (r *ProductRegistry) Rows() []domain.Row[int64] {
	return r.selection.Rows()
}

// Delete removes a product
func (r *ProductRegistry) Delete(ctx context.Context, id int64) error {
	if err := r.repo.Delete(ctx, id); err != nil {
		return err
	}
	r.selection.Remove(id)
	r.logger.Info("product deleted", "id", id)
	return nil
}

// Count returns the number of stored products
func (r *ProductRegistry) Count(ctx context.Context) (int64, error) {
	return r.repo.Count(ctx)
}

// DeleteAll removes every product once both confirmations are given
func (r *ProductRegistry) DeleteAll(ctx context.Context, confirm DeleteAllConfirmation) (int64, error) {
	if !confirm.Confirmed || !confirm.ConfirmedTwice {
		return 0, ErrNotConfirmed
	}

	n, err := r.repo.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	r.selection.Reset(nil)
	r.logger.Warn("all products deleted", "count", n)
	return n, nil
}

// Import validates each row on its own and inserts the valid ones. A bad row
// is counted and skipped; rows inserted before it stay committed.
func (r *ProductRegistry) Import(ctx context.Context, rows []domain.ProductFields) ImportResult {
	var result ImportResult

	for i, fields := range rows {
		product, err := domain.NewProduct(fields)
		if err == nil {
			err = r.repo.Create(ctx, product)
		}
		if err != nil {
			result.FailureCount++
			result.Failures = append(result.Failures, ImportFailure{Index: i, Name: fields.Name, Err: err})
			r.logger.Debug("import row skipped", "row", i+2, "name", fields.Name, "err", err)
			continue
		}
		result.SuccessCount++
	}

	r.logger.Info("products imported", "success", result.SuccessCount, "failed", result.FailureCount)
	return result
}
