package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andy/invoicer/internal/domain"
	"github.com/andy/invoicer/internal/repository"
)

// ProductSales aggregates the lines sold for one product name
type ProductSales struct {
	ProductName string
	BaseUnit    string
	Quantity    decimal.Decimal
	Revenue     decimal.Decimal
}

// SalesSummary provides revenue analytics over stored invoice records
type SalesSummary struct {
	Start        time.Time
	End          time.Time
	InvoiceCount int
	TotalRevenue decimal.Decimal
	ByCustomer   map[int64]decimal.Decimal // 0 collects invoices without a customer
	ByPriceType  map[domain.PriceType]decimal.Decimal
	Products     []ProductSales // highest revenue first
}

// ReportService provides aggregations over invoice history
type ReportService interface {
	// GetSalesSummary covers records created in [start, end)
	GetSalesSummary(ctx context.Context, start, end time.Time) (*SalesSummary, error)

	GetRevenueByMonth(ctx context.Context, year int) (map[time.Month]decimal.Decimal, error)
}

type reportService struct {
	invoiceRepo repository.InvoiceRepository
}

// NewReportService creates a new report service
func NewReportService(invoiceRepo repository.InvoiceRepository) ReportService {
	return &reportService{invoiceRepo: invoiceRepo}
}

// recordsBetween returns records in [start, end). List omits items, so each
// match is reloaded afterwards.
func (s *reportService) recordsBetween(ctx context.Context, start, end time.Time, withItems bool) ([]*domain.InvoiceRecord, error) {
	all, err := s.invoiceRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	var records []*domain.InvoiceRecord
	for _, r := range all {
		if r.CreatedAt.Before(start) || !r.CreatedAt.Before(end) {
			continue
		}
		records = append(records, r)
	}
	if !withItems {
		return records, nil
	}

	for i, r := range records {
		full, err := s.invoiceRepo.GetByID(ctx, r.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load invoice %d: %w", r.ID, err)
		}
		records[i] = full
	}
	return records, nil
}

func (s *reportService) GetSalesSummary(ctx context.Context, start, end time.Time) (*SalesSummary, error) {
	records, err := s.recordsBetween(ctx, start, end, true)
	if err != nil {
		return nil, err
	}

	summary := &SalesSummary{
		Start:        start,
		End:          end,
		InvoiceCount: len(records),
		TotalRevenue: decimal.Zero,
		ByCustomer:   make(map[int64]decimal.Decimal),
		ByPriceType:  make(map[domain.PriceType]decimal.Decimal),
	}

	byProduct := make(map[string]*ProductSales)
	for _, r := range records {
		summary.TotalRevenue = summary.TotalRevenue.Add(r.TotalAmount)

		var customerID int64
		if r.CustomerID != nil {
			customerID = *r.CustomerID
		}
		summary.ByCustomer[customerID] = summary.ByCustomer[customerID].Add(r.TotalAmount)

		for _, it := range r.Items {
			summary.ByPriceType[it.PriceType] = summary.ByPriceType[it.PriceType].Add(it.TotalPrice)

			ps, ok := byProduct[it.ProductName]
			if !ok {
				ps = &ProductSales{ProductName: it.ProductName, BaseUnit: it.BaseUnit}
				byProduct[it.ProductName] = ps
			}
			ps.Quantity = ps.Quantity.Add(it.Quantity)
			ps.Revenue = ps.Revenue.Add(it.TotalPrice)
		}
	}

	for _, ps := range byProduct {
		summary.Products = append(summary.Products, *ps)
	}
	sort.Slice(summary.Products, func(i, j int) bool {
		a, b := summary.Products[i], summary.Products[j]
		if !a.Revenue.Equal(b.Revenue) {
			return a.Revenue.GreaterThan(b.Revenue)
		}
		return a.ProductName < b.ProductName
	})

	return summary, nil
}

func (s *reportService) GetRevenueByMonth(ctx context.Context, year int) (map[time.Month]decimal.Decimal, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.Local)
	records, err := s.recordsBetween(ctx, start, start.AddDate(1, 0, 0), false)
	if err != nil {
		return nil, err
	}

	revenue := make(map[time.Month]decimal.Decimal)

	// Initialize all months to 0
	for m := time.January; m <= time.December; m++ {
		revenue[m] = decimal.Zero
	}

	for _, r := range records {
		month := r.CreatedAt.In(time.Local).Month()
		revenue[month] = revenue[month].Add(r.TotalAmount)
	}

	return revenue, nil
}
