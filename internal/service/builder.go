package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andy/invoicer/internal/domain"
	"github.com/andy/invoicer/internal/repository"
)

// EventKind identifies a builder state change
type EventKind int

const (
	EventItemAdded EventKind = iota
	EventLineEdited
	EventLineRemoved
	EventCleared
)

// Event is delivered to builder subscribers after a change is applied
type Event struct {
	Kind   EventKind
	LineID string
}

// InvoiceBuilder accumulates line items for one invoice. It is not safe for
// concurrent use.
type InvoiceBuilder struct {
	products  repository.ProductRepository
	customers repository.CustomerRepository

	customer    *domain.Customer
	lines       []*domain.LineItem
	total       decimal.Decimal
	subscribers []func(Event)
	newID       func() string
}

// NewInvoiceBuilder creates an empty builder
func NewInvoiceBuilder(products repository.ProductRepository, customers repository.CustomerRepository) *InvoiceBuilder {
	return &InvoiceBuilder{
		products:  products,
		customers: customers,
		total:     decimal.Zero,
		newID:     uuid.NewString,
	}
}

// Subscribe registers fn to be called after every applied change
func (b *InvoiceBuilder) Subscribe(fn func(Event)) {
	b.subscribers = append(b.subscribers, fn)
}

func (b *InvoiceBuilder) emit(kind EventKind, lineID string) {
	for _, fn := range b.subscribers {
		fn(Event{Kind: kind, LineID: lineID})
	}
}

// SetCustomer attaches a customer by id, "<id> - <name>" label or exact name
func (b *InvoiceBuilder) SetCustomer(ctx context.Context, ref string) (*domain.Customer, error) {
	if strings.TrimSpace(ref) == "" {
		return nil, domain.NewValidationError("customer", "is required")
	}

	id, name, hasID := domain.ParseRef(ref)
	var customer *domain.Customer
	var err error
	if hasID {
		customer, err = b.customers.GetByID(ctx, id)
	}
	if !hasID || errors.Is(err, domain.ErrNotFound) {
		customer, err = b.customers.GetByName(ctx, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve customer: %w", err)
	}

	b.customer = customer
	return customer, nil
}

// ClearCustomer detaches the customer
func (b *InvoiceBuilder) ClearCustomer() {
	b.customer = nil
}

// Customer returns the attached customer, or nil
func (b *InvoiceBuilder) Customer() *domain.Customer {
	return b.customer
}

// AddItem resolves productRef, prices it for priceType and appends a line.
// Checks run in a fixed order: blank inputs, quantity, price type, product
// lookup, unit price, duplicate.
func (b *InvoiceBuilder) AddItem(ctx context.Context, productRef, quantity string, priceType domain.PriceType) (*domain.LineItem, error) {
	productRef = strings.TrimSpace(productRef)
	quantity = strings.TrimSpace(quantity)

	if productRef == "" || quantity == "" {
		verr := &domain.ValidationError{}
		if productRef == "" {
			verr.Add("product", "is required")
		}
		if quantity == "" {
			verr.Add("quantity", "is required")
		}
		return nil, verr
	}

	qty, err := decimal.NewFromString(quantity)
	if err != nil || !qty.IsPositive() {
		return nil, domain.NewValidationError("quantity", "must be a number greater than 0")
	}

	if !priceType.Valid() {
		return nil, domain.NewValidationError("price_type", "must be wholesale or retail")
	}

	product, err := b.resolveProduct(ctx, productRef)
	if err != nil {
		return nil, err
	}

	if !product.PriceFor(priceType).IsPositive() {
		return nil, domain.NewValidationError("unit_price",
			fmt.Sprintf("%s price of %s must be greater than 0", priceType, product.Name))
	}

	for _, line := range b.lines {
		if line.Matches(product.Name, priceType) {
			return nil, fmt.Errorf("%s (%s): %w", product.Name, priceType, domain.ErrDuplicateItem)
		}
	}

	line := domain.NewLineItem(b.newID(), product, qty, priceType)
	b.lines = append(b.lines, line)
	b.recompute()
	b.emit(EventItemAdded, line.ID)

	copied := *line
	return &copied, nil
}

func (b *InvoiceBuilder) resolveProduct(ctx context.Context, ref string) (*domain.Product, error) {
	id, name, hasID := domain.ParseRef(ref)
	var product *domain.Product
	var err error
	if hasID {
		product, err = b.products.GetByID(ctx, id)
	}
	if !hasID || errors.Is(err, domain.ErrNotFound) {
		product, err = b.products.GetByName(ctx, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve product: %w", err)
	}
	return product, nil
}

// EditLine replaces a line's quantity and unit price. Input that does not
// parse, a non-positive quantity, a negative price or an unknown line id
// leaves the builder untouched and returns false. Non-positive quantities are
// rejected here as well so an edited line keeps the same rule AddItem enforces.
func (b *InvoiceBuilder) EditLine(lineID, quantity, unitPrice string) bool {
	qty, err := decimal.NewFromString(strings.TrimSpace(quantity))
	if err != nil || !qty.IsPositive() {
		return false
	}
	price, err := decimal.NewFromString(strings.TrimSpace(unitPrice))
	if err != nil || price.IsNegative() {
		return false
	}

	line := b.find(lineID)
	if line == nil {
		return false
	}

	line.Quantity = qty
	line.UnitPrice = price
	line.Recalculate()
	b.recompute()
	b.emit(EventLineEdited, lineID)
	return true
}

// RemoveLine deletes a line. Unknown ids are ignored.
func (b *InvoiceBuilder) RemoveLine(lineID string) {
	for i, line := range b.lines {
		if line.ID == lineID {
			b.lines = append(b.lines[:i], b.lines[i+1:]...)
			b.recompute()
			b.emit(EventLineRemoved, lineID)
			return
		}
	}
}

func (b *InvoiceBuilder) find(lineID string) *domain.LineItem {
	for _, line := range b.lines {
		if line.ID == lineID {
			return line
		}
	}
	return nil
}

func (b *InvoiceBuilder) recompute() {
	total := decimal.Zero
	for _, line := range b.lines {
		total = total.Add(line.LineTotal)
	}
	b.total = total
}

// Lines returns copies of the lines in insertion order
func (b *InvoiceBuilder) Lines() []domain.LineItem {
	out := make([]domain.LineItem, len(b.lines))
	for i, line := range b.lines {
		out[i] = *line
	}
	return out
}

// Total is the sum of all line totals
func (b *InvoiceBuilder) Total() decimal.Decimal {
	return b.total
}

// Len returns the number of lines
func (b *InvoiceBuilder) Len() int {
	return len(b.lines)
}

// Finalize returns an immutable snapshot of the invoice
func (b *InvoiceBuilder) Finalize() (*domain.Snapshot, error) {
	if len(b.lines) == 0 {
		return nil, domain.ErrEmptyInvoice
	}

	snap := &domain.Snapshot{
		Items: b.Lines(),
		Total: b.total,
	}
	if b.customer != nil {
		c := *b.customer
		snap.Customer = &c
	}
	return snap, nil
}

// Clear resets the builder to an empty invoice with no customer
func (b *InvoiceBuilder) Clear() {
	b.customer = nil
	b.lines = nil
	b.total = decimal.Zero
	b.emit(EventCleared, "")
}
