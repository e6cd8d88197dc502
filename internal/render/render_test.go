package render

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/andy/invoicer/internal/domain"
)

var fixedTime = time.Date(2024, 3, 1, 9, 30, 5, 0, time.Local)

func sampleSnapshot(customer *domain.Customer) *domain.Snapshot {
	p := &domain.Product{ID: 1, Name: "Widget", RetailPrice: decimal.NewFromInt(10), BaseUnit: "pcs"}
	line := domain.NewLineItem("l1", p, decimal.NewFromInt(3), domain.PriceRetail)
	return &domain.Snapshot{
		Customer: customer,
		Items:    []domain.LineItem{*line},
		Total:    line.LineTotal,
	}
}

func TestFileName(t *testing.T) {
	if got := FileName(fixedTime, "pdf"); got != "invoice_20240301_093005.pdf" {
		t.Fatalf("unexpected file name %q", got)
	}
}

func TestNewLayout(t *testing.T) {
	l := NewLayout(sampleSnapshot(&domain.Customer{Name: "ACME", Phone: "555"}), fixedTime, "", "")

	if l.Title != "INVOICE" || l.Footer != "Thank you for your business!" {
		t.Fatalf("expected default title and footer, got %q / %q", l.Title, l.Footer)
	}
	if l.Date != "Date: 2024-03-01 09:30:05" {
		t.Fatalf("unexpected date line %q", l.Date)
	}
	if l.Customer == nil || l.Customer.Address != "N/A" || l.Customer.Email != "N/A" || l.Customer.Phone != "555" {
		t.Fatalf("unexpected customer block %+v", l.Customer)
	}
	if len(l.Rows) != 1 || l.Rows[0] != [4]string{"Widget", "3", "pcs", "30.00"} {
		t.Fatalf("unexpected rows %v", l.Rows)
	}
	if l.Total != "30.00" {
		t.Fatalf("expected total 30.00, got %q", l.Total)
	}

	text := l.String()
	for _, absent := range []string{"retail", "Retail", "10.00"} {
		if strings.Contains(text, absent) {
			t.Errorf("layout must not print %q", absent)
		}
	}
}

func TestNewLayout_NoCustomer(t *testing.T) {
	l := NewLayout(sampleSnapshot(nil), fixedTime, "FACTURE", "Merci")
	if l.Customer != nil {
		t.Fatalf("expected no customer block")
	}
	if l.Title != "FACTURE" || l.Footer != "Merci" {
		t.Fatalf("expected custom title and footer")
	}
	if strings.Contains(l.String(), "Customer Information:") {
		t.Fatalf("customer heading must be omitted")
	}
}

func TestRender_WritesPDF(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "invoices")
	r := NewRenderer(Options{
		Dir:    dir,
		Now:    func() time.Time { return fixedTime },
		Logger: log.New(io.Discard),
	})

	path, err := r.Render(sampleSnapshot(&domain.Customer{Name: "ACME"}))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if filepath.Base(path) != "invoice_20240301_093005.pdf" {
		t.Fatalf("unexpected path %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output is not a pdf")
	}
}

func TestRender_UnwritableDir(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	r := NewRenderer(Options{Dir: filepath.Join(blocker, "invoices"), Logger: log.New(io.Discard)})
	if _, err := r.Render(sampleSnapshot(nil)); !errors.Is(err, domain.ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
}
