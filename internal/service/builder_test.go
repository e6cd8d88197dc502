package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/andy/invoicer/internal/domain"
)

func newTestBuilder(products ...*domain.Product) *InvoiceBuilder {
	return NewInvoiceBuilder(newMockProductRepo(products...), &mockCustomerRepo{customers: map[int64]*domain.Customer{}})
}

func TestAddItem_ComputesLineAndTotal(t *testing.T) {
	b := newTestBuilder(widget())

	var events []Event
	b.Subscribe(func(e Event) { events = append(events, e) })

	line, err := b.AddItem(context.Background(), "1 - Widget", "3", domain.PriceRetail)
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if !line.UnitPrice.Equal(decimal.NewFromInt(10)) || !line.LineTotal.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("unexpected line: price %s total %s", line.UnitPrice, line.LineTotal)
	}
	if line.BaseUnit != "pcs" || line.ProductName != "Widget" {
		t.Fatalf("unexpected line snapshot: %+v", line)
	}
	if !b.Total().Equal(decimal.NewFromInt(30)) {
		t.Fatalf("expected total 30, got %s", b.Total())
	}
	if len(events) != 1 || events[0].Kind != EventItemAdded || events[0].LineID != line.ID {
		t.Fatalf("expected one ItemAdded event, got %+v", events)
	}
}

func TestAddItem_DuplicateRejected(t *testing.T) {
	ctx := context.Background()
	b := newTestBuilder(widget())

	if _, err := b.AddItem(ctx, "1", "3", domain.PriceRetail); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := b.AddItem(ctx, "Widget", "5", domain.PriceRetail); !errors.Is(err, domain.ErrDuplicateItem) {
		t.Fatalf("expected ErrDuplicateItem, got %v", err)
	}
	if b.Len() != 1 || !b.Total().Equal(decimal.NewFromInt(30)) {
		t.Fatalf("duplicate must leave builder unchanged, total %s", b.Total())
	}

	// Same product under the other tier is a separate line
	if _, err := b.AddItem(ctx, "Widget", "1", domain.PriceWholesale); err != nil {
		t.Fatalf("add wholesale: %v", err)
	}
	if !b.Total().Equal(decimal.NewFromInt(38)) {
		t.Fatalf("expected total 38, got %s", b.Total())
	}
}

func TestAddItem_Validation(t *testing.T) {
	free := widget()
	free.Name = "Sample"
	free.RetailPrice = decimal.Zero

	tests := []struct {
		name      string
		ref       string
		qty       string
		priceType domain.PriceType
		want      error
	}{
		{"blank product", "", "1", domain.PriceRetail, domain.ErrValidation},
		{"blank quantity", "1", " ", domain.PriceRetail, domain.ErrValidation},
		{"non numeric quantity", "1", "abc", domain.PriceRetail, domain.ErrValidation},
		{"zero quantity", "1", "0", domain.PriceRetail, domain.ErrValidation},
		{"negative quantity", "1", "-2", domain.PriceRetail, domain.ErrValidation},
		{"bad price type", "1", "1", domain.PriceType("bulk"), domain.ErrValidation},
		{"unknown product", "99", "1", domain.PriceRetail, domain.ErrNotFound},
		{"unknown name", "Gizmo", "1", domain.PriceRetail, domain.ErrNotFound},
		{"zero price", "Sample", "1", domain.PriceRetail, domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBuilder(widget(), free)
			_, err := b.AddItem(context.Background(), tt.ref, tt.qty, tt.priceType)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if b.Len() != 0 {
				t.Fatalf("rejected item must not be added")
			}
		})
	}
}

func TestEditLine(t *testing.T) {
	b := newTestBuilder(widget())
	line, err := b.AddItem(context.Background(), "1", "3", domain.PriceRetail)
	if err != nil {
		t.Fatalf("add item: %v", err)
	}

	if !b.EditLine(line.ID, "4", "2.5") {
		t.Fatalf("expected edit to apply")
	}
	got := b.Lines()[0]
	if !got.LineTotal.Equal(decimal.NewFromInt(10)) || !b.Total().Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected total 10, got line %s builder %s", got.LineTotal, b.Total())
	}

	for _, tc := range [][3]string{
		{line.ID, "abc", "1"},
		{line.ID, "1", "x"},
		{line.ID, "0", "1"},
		{line.ID, "1", "-1"},
		{"missing", "1", "1"},
	} {
		if b.EditLine(tc[0], tc[1], tc[2]) {
			t.Errorf("edit %v should be ignored", tc)
		}
	}
	if !b.Total().Equal(decimal.NewFromInt(10)) {
		t.Fatalf("ignored edits must not change total, got %s", b.Total())
	}
}

func TestRemoveLineAndClear(t *testing.T) {
	ctx := context.Background()
	gadget := widget()
	gadget.Name = "Gadget"
	b := newTestBuilder(widget(), gadget)

	first, _ := b.AddItem(ctx, "1", "1", domain.PriceRetail)
	if _, err := b.AddItem(ctx, "2", "2", domain.PriceWholesale); err != nil {
		t.Fatalf("add item: %v", err)
	}

	b.RemoveLine("unknown")
	if b.Len() != 2 {
		t.Fatalf("unknown id must be ignored")
	}

	b.RemoveLine(first.ID)
	lines := b.Lines()
	if len(lines) != 1 || lines[0].ProductName != "Gadget" {
		t.Fatalf("unexpected lines after remove: %+v", lines)
	}
	if !b.Total().Equal(decimal.NewFromInt(16)) {
		t.Fatalf("expected total 16, got %s", b.Total())
	}

	cleared := false
	b.Subscribe(func(e Event) { cleared = cleared || e.Kind == EventCleared })
	b.Clear()
	if !cleared || b.Len() != 0 || !b.Total().IsZero() {
		t.Fatalf("expected empty builder after clear")
	}
	if _, err := b.Finalize(); !errors.Is(err, domain.ErrEmptyInvoice) {
		t.Fatalf("expected ErrEmptyInvoice, got %v", err)
	}
}

func TestFinalize_SnapshotIsDetached(t *testing.T) {
	b := newTestBuilder(widget())
	line, _ := b.AddItem(context.Background(), "1", "3", domain.PriceRetail)

	snap, err := b.Finalize()
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if snap.Customer != nil {
		t.Fatalf("expected no customer")
	}

	b.EditLine(line.ID, "1", "1")
	if !snap.Total.Equal(decimal.NewFromInt(30)) || !snap.Items[0].Quantity.Equal(decimal.NewFromInt(3)) {
		t.Fatalf("snapshot changed after edit")
	}
}

func TestSetCustomer(t *testing.T) {
	ctx := context.Background()
	customers := &mockCustomerRepo{customers: map[int64]*domain.Customer{
		3: {ID: 3, Name: "ACME"},
	}}
	b := NewInvoiceBuilder(newMockProductRepo(), customers)

	for _, ref := range []string{"3", "3 - ACME", "ACME"} {
		c, err := b.SetCustomer(ctx, ref)
		if err != nil || c.ID != 3 {
			t.Fatalf("ref %q: expected customer 3, got %v (%v)", ref, c, err)
		}
	}

	if _, err := b.SetCustomer(ctx, "Nobody"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if b.Customer() == nil {
		t.Fatalf("failed lookup must keep the previous customer")
	}

	b.ClearCustomer()
	if b.Customer() != nil {
		t.Fatalf("expected customer to be cleared")
	}
}
