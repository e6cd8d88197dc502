package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewProduct_Valid(t *testing.T) {
	p, err := NewProduct(ProductFields{
		Name:           " Widget ",
		WholesalePrice: "8.50",
		RetailPrice:    "10",
		BaseUnit:       "pcs",
		AltUnit:        "box",
		UnitRatio:      "12",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name != "Widget" {
		t.Fatalf("expected trimmed name, got %q", p.Name)
	}
	if !p.WholesalePrice.Equal(decimal.RequireFromString("8.5")) {
		t.Fatalf("unexpected wholesale price %s", p.WholesalePrice)
	}
	if !p.UnitRatio.Equal(decimal.NewFromInt(12)) {
		t.Fatalf("unexpected unit ratio %s", p.UnitRatio)
	}
}

func TestNewProduct_UnitRatioDefaultsToOne(t *testing.T) {
	p, err := NewProduct(ProductFields{Name: "Bolt", WholesalePrice: "1", RetailPrice: "2", BaseUnit: "pcs"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.UnitRatio.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("expected unit ratio 1, got %s", p.UnitRatio)
	}
}

func TestNewProduct_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		fields ProductFields
		want   []string
	}{
		{
			name:   "everything missing",
			fields: ProductFields{},
			want:   []string{"name", "wholesale_price", "retail_price", "base_unit"},
		},
		{
			name:   "non numeric price",
			fields: ProductFields{Name: "Nut", WholesalePrice: "abc", RetailPrice: "2", BaseUnit: "pcs"},
			want:   []string{"wholesale_price"},
		},
		{
			name:   "negative retail",
			fields: ProductFields{Name: "Nut", WholesalePrice: "1", RetailPrice: "-2", BaseUnit: "pcs"},
			want:   []string{"retail_price"},
		},
		{
			name:   "bad ratio",
			fields: ProductFields{Name: "Nut", WholesalePrice: "1", RetailPrice: "2", BaseUnit: "pcs", UnitRatio: "x"},
			want:   []string{"unit_ratio"},
		},
		{
			name:   "zero ratio",
			fields: ProductFields{Name: "Nut", WholesalePrice: "1", RetailPrice: "2", BaseUnit: "pcs", UnitRatio: "0"},
			want:   []string{"unit_ratio"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProduct(tt.fields)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if len(verr.Fields) != len(tt.want) {
				t.Fatalf("expected %d field errors, got %v", len(tt.want), verr.Fields)
			}
			for _, f := range tt.want {
				if !verr.Has(f) {
					t.Fatalf("expected failure on %s, got %v", f, verr.Fields)
				}
			}
		})
	}
}

func TestNewCustomer_NameRequired(t *testing.T) {
	_, err := NewCustomer(CustomerFields{Name: "   ", Phone: "123"})
	var verr *ValidationError
	if !errors.As(err, &verr) || !verr.Has("name") {
		t.Fatalf("expected name validation error, got %v", err)
	}

	c, err := NewCustomer(CustomerFields{Name: "ACME"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Name != "ACME" {
		t.Fatalf("unexpected name %q", c.Name)
	}
}

func TestParsePriceType(t *testing.T) {
	for in, want := range map[string]PriceType{"Retail": PriceRetail, "wholesale": PriceWholesale, " RETAIL ": PriceRetail} {
		got, err := ParsePriceType(in)
		if err != nil || got != want {
			t.Fatalf("ParsePriceType(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParsePriceType("special"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParseRef(t *testing.T) {
	tests := []struct {
		ref    string
		id     int64
		hasID  bool
		wantNm string
	}{
		{"12", 12, true, "12"},
		{"12 - Widget (W:1.00, R:2.00)", 12, true, "12 - Widget (W:1.00, R:2.00)"},
		{"Widget", 0, false, "Widget"},
		{"  Widget  ", 0, false, "Widget"},
		{"-3", 0, false, "-3"},
	}
	for _, tt := range tests {
		id, name, ok := ParseRef(tt.ref)
		if id != tt.id || ok != tt.hasID || name != tt.wantNm {
			t.Fatalf("ParseRef(%q) = %d, %q, %v", tt.ref, id, name, ok)
		}
	}
}

func TestLineItemRecalculate(t *testing.T) {
	p := &Product{ID: 1, Name: "Widget", RetailPrice: decimal.NewFromInt(10), WholesalePrice: decimal.NewFromInt(7), BaseUnit: "pcs"}
	li := NewLineItem("a", p, decimal.NewFromInt(3), PriceRetail)
	if !li.LineTotal.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("expected 30, got %s", li.LineTotal)
	}

	li.Quantity = decimal.RequireFromString("2.5")
	li.Recalculate()
	if !li.LineTotal.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("expected 25, got %s", li.LineTotal)
	}

	if !li.Matches("Widget", PriceRetail) || li.Matches("widget", PriceRetail) || li.Matches("Widget", PriceWholesale) {
		t.Fatalf("unexpected match semantics")
	}
}

func TestSelection(t *testing.T) {
	var s Selection[int64]
	s.Reset([]int64{1, 2, 3})

	if _, ok := s.Selected(); ok {
		t.Fatalf("expected no selection")
	}
	if s.Select(9) {
		t.Fatalf("selecting an unlisted id should fail")
	}
	if !s.Select(2) {
		t.Fatalf("expected select to succeed")
	}

	selectedCount := 0
	for _, r := range s.Rows() {
		if r.Selected {
			selectedCount++
			if r.ID != 2 {
				t.Fatalf("wrong row selected: %d", r.ID)
			}
		}
	}
	if selectedCount != 1 {
		t.Fatalf("expected exactly one selected row, got %d", selectedCount)
	}

	// selection survives a refresh that still lists it
	s.Reset([]int64{2, 3})
	if id, ok := s.Selected(); !ok || id != 2 {
		t.Fatalf("expected selection to survive, got %d %v", id, ok)
	}

	s.Remove(2)
	if _, ok := s.Selected(); ok {
		t.Fatalf("expected selection cleared after removal")
	}
	if len(s.Rows()) != 1 {
		t.Fatalf("expected 1 row left, got %d", len(s.Rows()))
	}
}
