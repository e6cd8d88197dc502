package repository

import (
	"context"

	"github.com/andy/invoicer/internal/domain"
)

// CustomerRepository manages customer persistence
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
	GetByName(ctx context.Context, name string) (*domain.Customer, error)
	// Search matches term case-insensitively against name, address, phone and email.
	// An empty term returns every customer.
	Search(ctx context.Context, term string) ([]*domain.Customer, error)
	Update(ctx context.Context, customer *domain.Customer) error
	Delete(ctx context.Context, id int64) error
}

// ProductRepository manages product persistence
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	GetByName(ctx context.Context, name string) (*domain.Product, error)
	// Search matches term case-insensitively against name and description.
	// An empty term returns every product.
	Search(ctx context.Context, term string) ([]*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int64, error)
}

// InvoiceRepository stores records of rendered invoices
type InvoiceRepository interface {
	// Create writes the invoice and its items in one transaction
	Create(ctx context.Context, record *domain.InvoiceRecord) error
	GetByID(ctx context.Context, id int64) (*domain.InvoiceRecord, error)
	List(ctx context.Context) ([]*domain.InvoiceRecord, error)
}
