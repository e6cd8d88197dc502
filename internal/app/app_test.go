package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/andy/invoicer/internal/config"
	"github.com/andy/invoicer/internal/domain"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Database.Path = filepath.Join(dir, "invoicer.db")
	cfg.Invoice.ArchiveDir = filepath.Join(dir, "invoices")
	cfg.Log.File = filepath.Join(dir, "invoicer.log")
	cfg.Log.Level = "debug"

	a, err := NewWithConfig(context.Background(), cfg, "test-key")
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestApp_GenerateInvoiceEndToEnd(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)

	customer, err := a.Customers.Create(ctx, domain.CustomerFields{Name: "ACME", Address: "1 Main St"})
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}
	product, err := a.Products.Create(ctx, domain.ProductFields{
		Name: "Widget", WholesalePrice: "8", RetailPrice: "10", BaseUnit: "pcs",
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	b := a.NewBuilder()
	if _, err := b.SetCustomer(ctx, customer.Label()); err != nil {
		t.Fatalf("set customer: %v", err)
	}
	if _, err := b.AddItem(ctx, product.Label(), "3", domain.PriceRetail); err != nil {
		t.Fatalf("add item: %v", err)
	}

	path, err := a.InvoiceService.Generate(ctx, b)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	entries, err := a.Archive.List()
	if err != nil {
		t.Fatalf("list archive: %v", err)
	}
	if len(entries) != 1 || entries[0].FileName != filepath.Base(path) {
		t.Fatalf("expected archive to contain %s, got %+v", filepath.Base(path), entries)
	}

	history, err := a.InvoiceService.History(ctx)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 || history[0].FileName != filepath.Base(path) {
		t.Fatalf("expected one history record, got %+v", history)
	}
	rec, err := a.InvoiceService.GetInvoice(ctx, history[0].ID)
	if err != nil {
		t.Fatalf("get invoice: %v", err)
	}
	if len(rec.Items) != 1 || rec.Items[0].TotalPrice.String() != "30" {
		t.Fatalf("unexpected record items %+v", rec.Items)
	}
}
