package service

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/andy/invoicer/internal/domain"
	"github.com/andy/invoicer/internal/repository"
)

// Renderer writes a finalized invoice to a document and returns its path
type Renderer interface {
	Render(snap *domain.Snapshot) (string, error)
}

// InvoiceService turns a builder into a rendered document plus a stored record
type InvoiceService interface {
	// Generate finalizes b, renders it, records it and clears b.
	// The record write is best effort; the rendered file is the source of truth.
	Generate(ctx context.Context, b *InvoiceBuilder) (string, error)

	// History lists stored invoice records, newest first
	History(ctx context.Context) ([]*domain.InvoiceRecord, error)

	// GetInvoice retrieves one record with its items
	GetInvoice(ctx context.Context, id int64) (*domain.InvoiceRecord, error)
}

type invoiceService struct {
	invoiceRepo repository.InvoiceRepository
	renderer    Renderer
	logger      *log.Logger
	now         func() time.Time
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	renderer Renderer,
	logger *log.Logger,
) InvoiceService {
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		renderer:    renderer,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *invoiceService) Generate(ctx context.Context, b *InvoiceBuilder) (string, error) {
	snap, err := b.Finalize()
	if err != nil {
		return "", err
	}

	path, err := s.renderer.Render(snap)
	if err != nil {
		return "", fmt.Errorf("failed to render invoice: %w", err)
	}
	s.logger.Info("invoice rendered", "path", path, "items", len(snap.Items), "total", snap.Total.StringFixed(2))

	record := domain.NewInvoiceRecord(snap, filepath.Base(path), s.now())
	if err := s.invoiceRepo.Create(ctx, record); err != nil {
		s.logger.Error("failed to record invoice", "path", path, "err", err)
	}

	b.Clear()
	return path, nil
}

func (s *invoiceService) History(ctx context.Context) ([]*domain.InvoiceRecord, error) {
	return s.invoiceRepo.List(ctx)
}

func (s *invoiceService) GetInvoice(ctx context.Context, id int64) (*domain.InvoiceRecord, error) {
	return s.invoiceRepo.GetByID(ctx, id)
}
