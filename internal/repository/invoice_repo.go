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

// InvoiceRepo is a SQLite implementation of InvoiceRepository
type InvoiceRepo struct {
	db *db.DB
}

// NewInvoiceRepo creates a new InvoiceRepo
func NewInvoiceRepo(database *db.DB) *InvoiceRepo {
	return &InvoiceRepo{db: database}
}

// Create inserts the invoice row and all of its items in one transaction
func (r *InvoiceRepo) Create(ctx context.Context, record *domain.InvoiceRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO invoices (customer_id, total_amount, file_name, created_at)
		VALUES (?, ?, ?, ?)
	`,
		nullInt64(record.CustomerID),
		record.TotalAmount.InexactFloat64(),
		record.FileName,
		record.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get invoice ID: %w", err)
	}

	itemQuery := `
		INSERT INTO invoice_items (
			invoice_id, product_id, product_name, quantity, base_unit,
			price_type, unit_price, total_price
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, item := range record.Items {
		res, err := tx.ExecContext(ctx, itemQuery,
			id,
			nullInt64(item.ProductID),
			item.ProductName,
			item.Quantity.InexactFloat64(),
			item.BaseUnit,
			string(item.PriceType),
			item.UnitPrice.InexactFloat64(),
			item.TotalPrice.InexactFloat64(),
		)
		if err != nil {
			return fmt.Errorf("failed to add invoice item: %w", err)
		}
		itemID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get invoice item ID: %w", err)
		}
		item.ID = itemID
		item.InvoiceID = id
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit invoice: %w", err)
	}

	record.ID = id
	return nil
}

func scanInvoice(row rowScanner) (*domain.InvoiceRecord, error) {
	record := &domain.InvoiceRecord{}
	var customerID sql.NullInt64
	var total decimal.NullDecimal
	var fileName sql.NullString
	var createdAt string

	if err := row.Scan(&record.ID, &customerID, &total, &fileName, &createdAt); err != nil {
		return nil, err
	}

	if customerID.Valid {
		id := customerID.Int64
		record.CustomerID = &id
	}
	record.TotalAmount = nullDecimal(total)
	record.FileName = fileName.String

	var err error
	if record.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return record, nil
}

// GetByID retrieves an invoice record together with its items
func (r *InvoiceRepo) GetByID(ctx context.Context, id int64) (*domain.InvoiceRecord, error) {
	query := `
		SELECT id, customer_id, total_amount, file_name, created_at
		FROM invoices
		WHERE id = ?
	`

	record, err := scanInvoice(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("invoice %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	if record.Items, err = r.getItems(ctx, id); err != nil {
		return nil, err
	}
	return record, nil
}

// List returns invoice records newest first, without their items
func (r *InvoiceRepo) List(ctx context.Context) ([]*domain.InvoiceRecord, error) {
	query := `
		SELECT id, customer_id, total_amount, file_name, created_at
		FROM invoices
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	records := make([]*domain.InvoiceRecord, 0)
	for rows.Next() {
		record, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoices: %w", err)
	}

	return records, nil
}

func (r *InvoiceRepo) getItems(ctx context.Context, invoiceID int64) ([]*domain.InvoiceRecordItem, error) {
	query := `
		SELECT id, invoice_id, product_id, product_name, quantity, base_unit,
		       price_type, unit_price, total_price
		FROM invoice_items
		WHERE invoice_id = ?
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice items: %w", err)
	}
	defer rows.Close()

	items := make([]*domain.InvoiceRecordItem, 0)
	for rows.Next() {
		item := &domain.InvoiceRecordItem{}
		var productID sql.NullInt64
		var baseUnit sql.NullString
		var priceType string
		var quantity, unitPrice, totalPrice decimal.NullDecimal

		if err := rows.Scan(
			&item.ID,
			&item.InvoiceID,
			&productID,
			&item.ProductName,
			&quantity,
			&baseUnit,
			&priceType,
			&unitPrice,
			&totalPrice,
		); err != nil {
			return nil, fmt.Errorf("failed to scan invoice item: %w", err)
		}

		if productID.Valid {
			pid := productID.Int64
			item.ProductID = &pid
		}
		item.BaseUnit = baseUnit.String
		item.PriceType = domain.PriceType(priceType)
		item.Quantity = nullDecimal(quantity)
		item.UnitPrice = nullDecimal(unitPrice)
		item.TotalPrice = nullDecimal(totalPrice)

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoice items: %w", err)
	}

	return items, nil
}
