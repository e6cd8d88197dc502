package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/andy/invoicer/internal/db"
	"github.com/andy/invoicer/internal/domain"
)

const productColumns = `id, name, wholesale_price, retail_price, base_unit, alt_unit, unit_ratio, description, created_at`

// ProductRepo is a SQLite implementation of ProductRepository
type ProductRepo struct {
	db *db.DB
}

// NewProductRepo creates a new ProductRepo
func NewProductRepo(database *db.DB) *ProductRepo {
	return &ProductRepo{db: database}
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{}
	var wholesale, retail, ratio decimal.NullDecimal
	var baseUnit, altUnit, description sql.NullString
	var createdAt string

	if err := row.Scan(
		&product.ID,
		&product.Name,
		&wholesale,
		&retail,
		&baseUnit,
		&altUnit,
		&ratio,
		&description,
		&createdAt,
	); err != nil {
		return nil, err
	}

	product.WholesalePrice = nullDecimal(wholesale)
	product.RetailPrice = nullDecimal(retail)
	product.UnitRatio = nullDecimal(ratio)
	if product.UnitRatio.IsZero() {
		product.UnitRatio = decimal.NewFromInt(1)
	}
	product.BaseUnit = baseUnit.String
	product.AltUnit = altUnit.String
	product.Description = description.String

	var err error
	if product.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return product, nil
}

// Create inserts a new product into the database
func (r *ProductRepo) Create(ctx context.Context, product *domain.Product) error {
	if err := product.Validate(); err != nil {
		return fmt.Errorf("invalid product: %w", err)
	}

	query := `
		INSERT INTO products (name, wholesale_price, retail_price, base_unit, alt_unit, unit_ratio, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		product.Name,
		product.WholesalePrice.InexactFloat64(),
		product.RetailPrice.InexactFloat64(),
		product.BaseUnit,
		product.AltUnit,
		product.UnitRatio.InexactFloat64(),
		product.Description,
		product.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get product ID: %w", err)
	}

	product.ID = id
	return nil
}

// GetByID retrieves a product by ID
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ?`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

// GetByName retrieves the oldest product with exactly this name
func (r *ProductRepo) GetByName(ctx context.Context, name string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE name = ? ORDER BY id LIMIT 1`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product %q: %w", name, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

// Search returns products whose name or description contain term
func (r *ProductRepo) Search(ctx context.Context, term string) ([]*domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE lower(name) LIKE ? ESCAPE '\'
		   OR lower(COALESCE(description, '')) LIKE ? ESCAPE '\'
		ORDER BY name, id
	`

	pattern := likePattern(term)
	rows, err := r.db.QueryContext(ctx, query, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	defer rows.Close()

	products := make([]*domain.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// Update updates an existing product
func (r *ProductRepo) Update(ctx context.Context, product *domain.Product) error {
	if err := product.Validate(); err != nil {
		return fmt.Errorf("invalid product: %w", err)
	}

	query := `
		UPDATE products
		SET name = ?, wholesale_price = ?, retail_price = ?, base_unit = ?,
		    alt_unit = ?, unit_ratio = ?, description = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		product.Name,
		product.WholesalePrice.InexactFloat64(),
		product.RetailPrice.InexactFloat64(),
		product.BaseUnit,
		product.AltUnit,
		product.UnitRatio.InexactFloat64(),
		product.Description,
		product.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	return expectOneRow(result, "product", product.ID)
}

// Delete removes a product. Invoice records keep their dangling product id.
func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	return expectOneRow(result, "product", id)
}

// DeleteAll removes every product and reports how many were deleted
func (r *ProductRepo) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete products: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

// Count returns the number of stored products
func (r *ProductRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return n, nil
}
