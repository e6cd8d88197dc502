package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type PriceType string

const (
	PriceWholesale PriceType = "wholesale"
	PriceRetail    PriceType = "retail"
)

// ParsePriceType accepts "wholesale"/"retail" in any case
func ParsePriceType(s string) (PriceType, error) {
	switch PriceType(strings.ToLower(strings.TrimSpace(s))) {
	case PriceWholesale:
		return PriceWholesale, nil
	case PriceRetail:
		return PriceRetail, nil
	}
	return "", NewValidationError("price_type", "must be wholesale or retail")
}

// Valid reports whether t is a known pricing tier
func (t PriceType) Valid() bool {
	return t == PriceWholesale || t == PriceRetail
}

// Title is the display form used by pickers ("Wholesale", "Retail")
func (t PriceType) Title() string {
	if t == "" {
		return ""
	}
	return strings.ToUpper(string(t[:1])) + string(t[1:])
}

// LineItem is one product entry of an in-progress invoice. ProductName is a
// snapshot, not a live reference.
type LineItem struct {
	ID          string
	ProductID   int64
	ProductName string
	Quantity    decimal.Decimal
	BaseUnit    string
	PriceType   PriceType
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
}

// NewLineItem builds a line with its total already computed
func NewLineItem(id string, p *Product, quantity decimal.Decimal, t PriceType) *LineItem {
	li := &LineItem{
		ID:          id,
		ProductID:   p.ID,
		ProductName: p.Name,
		Quantity:    quantity,
		BaseUnit:    p.BaseUnit,
		PriceType:   t,
		UnitPrice:   p.PriceFor(t),
	}
	li.Recalculate()
	return li
}

// Recalculate restores LineTotal = Quantity x UnitPrice
func (li *LineItem) Recalculate() {
	li.LineTotal = li.Quantity.Mul(li.UnitPrice)
}

// Matches reports whether the line collides with (name, price type). Case-sensitive.
func (li *LineItem) Matches(productName string, t PriceType) bool {
	return li.ProductName == productName && li.PriceType == t
}

// Snapshot is the immutable result of finalizing an invoice
type Snapshot struct {
	Customer *Customer // nil when no customer was attached
	Items    []LineItem
	Total    decimal.Decimal
}

// SumLines returns the aggregate of the line totals
func SumLines(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal)
	}
	return total
}

// InvoiceRecord is the stored trace of a rendered invoice
type InvoiceRecord struct {
	ID          int64
	CustomerID  *int64
	TotalAmount decimal.Decimal
	FileName    string
	CreatedAt   time.Time

	Items []*InvoiceRecordItem
}

type InvoiceRecordItem struct {
	ID          int64
	InvoiceID   int64
	ProductID   *int64
	ProductName string
	Quantity    decimal.Decimal
	BaseUnit    string
	PriceType   PriceType
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
}

// NewInvoiceRecord converts a snapshot into a record for the rendered file
func NewInvoiceRecord(snap *Snapshot, fileName string, createdAt time.Time) *InvoiceRecord {
	rec := &InvoiceRecord{
		TotalAmount: snap.Total,
		FileName:    fileName,
		CreatedAt:   createdAt,
		Items:       make([]*InvoiceRecordItem, 0, len(snap.Items)),
	}
	if snap.Customer != nil {
		id := snap.Customer.ID
		rec.CustomerID = &id
	}
	for _, it := range snap.Items {
		item := &InvoiceRecordItem{
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			BaseUnit:    it.BaseUnit,
			PriceType:   it.PriceType,
			UnitPrice:   it.UnitPrice,
			TotalPrice:  it.LineTotal,
		}
		if it.ProductID > 0 {
			pid := it.ProductID
			item.ProductID = &pid
		}
		rec.Items = append(rec.Items, item)
	}
	return rec
}
