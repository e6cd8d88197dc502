package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andy/invoicer/internal/domain"
)

func record(customerID *int64, createdAt time.Time, items ...*domain.InvoiceRecordItem) *domain.InvoiceRecord {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.TotalPrice)
	}
	return &domain.InvoiceRecord{
		CustomerID:  customerID,
		TotalAmount: total,
		FileName:    "invoice_" + createdAt.Format("20060102_150405") + ".pdf",
		CreatedAt:   createdAt,
		Items:       items,
	}
}

func recordItem(name string, qty, price int64, t domain.PriceType) *domain.InvoiceRecordItem {
	q := decimal.NewFromInt(qty)
	p := decimal.NewFromInt(price)
	return &domain.InvoiceRecordItem{
		ProductName: name,
		Quantity:    q,
		BaseUnit:    "pcs",
		PriceType:   t,
		UnitPrice:   p,
		TotalPrice:  q.Mul(p),
	}
}

func TestReportService_GetSalesSummary(t *testing.T) {
	ctx := context.Background()
	acme := int64(7)
	march := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.Local)

	repo := &mockInvoiceRepo{}
	for _, r := range []*domain.InvoiceRecord{
		record(&acme, march, recordItem("Widget", 3, 10, domain.PriceRetail), recordItem("Bolt", 10, 1, domain.PriceWholesale)),
		record(&acme, march.AddDate(0, 0, 1), recordItem("Widget", 2, 8, domain.PriceWholesale)),
		record(nil, march.AddDate(0, 0, 2), recordItem("Bolt", 5, 2, domain.PriceRetail)),
		// outside the window
		record(&acme, march.AddDate(0, 1, 0), recordItem("Widget", 100, 10, domain.PriceRetail)),
	} {
		if err := repo.Create(ctx, r); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	svc := NewReportService(repo)
	start := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.Local)
	summary, err := svc.GetSalesSummary(ctx, start, start.AddDate(0, 1, 0))
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	if summary.InvoiceCount != 3 {
		t.Errorf("expected 3 invoices, got %d", summary.InvoiceCount)
	}
	// 30 + 10 + 16 + 10
	if !summary.TotalRevenue.Equal(decimal.NewFromInt(66)) {
		t.Errorf("expected revenue 66, got %s", summary.TotalRevenue)
	}
	if got := summary.ByCustomer[acme]; !got.Equal(decimal.NewFromInt(56)) {
		t.Errorf("expected 56 for customer, got %s", got)
	}
	if got := summary.ByCustomer[0]; !got.Equal(decimal.NewFromInt(10)) {
		t.Errorf("expected 10 without customer, got %s", got)
	}
	if got := summary.ByPriceType[domain.PriceWholesale]; !got.Equal(decimal.NewFromInt(26)) {
		t.Errorf("expected wholesale 26, got %s", got)
	}

	if len(summary.Products) != 2 {
		t.Fatalf("expected 2 products, got %+v", summary.Products)
	}
	top := summary.Products[0]
	if top.ProductName != "Widget" || !top.Quantity.Equal(decimal.NewFromInt(5)) || !top.Revenue.Equal(decimal.NewFromInt(46)) {
		t.Errorf("unexpected top product %+v", top)
	}
}

func TestReportService_GetRevenueByMonth(t *testing.T) {
	ctx := context.Background()
	repo := &mockInvoiceRepo{}
	jan := time.Date(2024, time.January, 5, 9, 0, 0, 0, time.Local)
	for _, r := range []*domain.InvoiceRecord{
		record(nil, jan, recordItem("Widget", 1, 10, domain.PriceRetail)),
		record(nil, jan.AddDate(0, 0, 3), recordItem("Widget", 2, 10, domain.PriceRetail)),
		record(nil, jan.AddDate(0, 2, 0), recordItem("Widget", 1, 5, domain.PriceRetail)),
		record(nil, jan.AddDate(1, 0, 0), recordItem("Widget", 9, 9, domain.PriceRetail)),
	} {
		repo.Create(ctx, r)
	}

	revenue, err := NewReportService(repo).GetRevenueByMonth(ctx, 2024)
	if err != nil {
		t.Fatalf("revenue: %v", err)
	}
	if len(revenue) != 12 {
		t.Fatalf("expected 12 months, got %d", len(revenue))
	}
	if !revenue[time.January].Equal(decimal.NewFromInt(30)) {
		t.Errorf("january = %s, want 30", revenue[time.January])
	}
	if !revenue[time.March].Equal(decimal.NewFromInt(5)) {
		t.Errorf("march = %s, want 5", revenue[time.March])
	}
	if !revenue[time.December].IsZero() {
		t.Errorf("december = %s, want 0", revenue[time.December])
	}
}
