package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/andy/invoicer/internal/domain"
)

func TestParseItemSpec(t *testing.T) {
	tests := []struct {
		in      string
		want    itemSpec
		wantErr bool
	}{
		{in: "3:2", want: itemSpec{Ref: "3", Quantity: "2", PriceType: domain.PriceRetail}},
		{in: "Widget:5:wholesale", want: itemSpec{Ref: "Widget", Quantity: "5", PriceType: domain.PriceWholesale}},
		{in: "Widget:1.5:Retail", want: itemSpec{Ref: "Widget", Quantity: "1.5", PriceType: domain.PriceRetail}},
		{in: "Cable 2:1 Adapter:4", want: itemSpec{Ref: "Cable 2:1 Adapter", Quantity: "4", PriceType: domain.PriceRetail}},
		{in: "Widget", wantErr: true},
		{in: ":4", wantErr: true},
		{in: "Widget:", wantErr: true},
		{in: "Widget:wholesale", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseItemSpec(tt.in, domain.PriceRetail)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestConfirmPrompt_SharedReader(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("y\nyes\nn\n"))
	var out bytes.Buffer

	if !confirmPrompt(in, &out, "first?") {
		t.Error("expected first answer to confirm")
	}
	if !confirmPrompt(in, &out, "second?") {
		t.Error("expected second answer to confirm")
	}
	if confirmPrompt(in, &out, "third?") {
		t.Error("expected third answer to decline")
	}
	if confirmPrompt(in, &out, "eof?") {
		t.Error("expected EOF to decline")
	}
	if !strings.Contains(out.String(), "first? [y/N]") {
		t.Errorf("prompt not written: %q", out.String())
	}
}

func TestTruncateAndMoney(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate short = %q", got)
	}
	if got := truncate("a very long product name", 10); got != "a very ..." {
		t.Errorf("truncate long = %q", got)
	}
	// no app configured, no symbol
	if got := money(decimal.RequireFromString("12.5")); got != "12.50" {
		t.Errorf("money = %q", got)
	}
}
