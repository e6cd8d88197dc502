package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/andy/invoicer/internal/app"
	"github.com/andy/invoicer/internal/domain"
	"github.com/andy/invoicer/internal/service"
)

type historyViewMode int

const (
	historyViewList   historyViewMode = iota
	historyViewDetail                 // Viewing a single invoice record
)

// HistoryModel lists stored invoice records and their line items
type HistoryModel struct {
	app      *app.App
	mode     historyViewMode
	records  []*domain.InvoiceRecord
	names    map[int64]string // customer id -> name, missing when deleted
	month    *service.SalesSummary
	cursor   int
	selected *domain.InvoiceRecord
	loading  bool
	err      error
}

type historyDataMsg struct {
	records []*domain.InvoiceRecord
	names   map[int64]string
	month   *service.SalesSummary
	err     error
}

type historyDetailMsg struct {
	record *domain.InvoiceRecord
	err    error
}

// NewHistoryModel creates the history screen
func NewHistoryModel(a *app.App) tea.Model {
	return &HistoryModel{app: a, loading: true}
}

func (m *HistoryModel) Init() tea.Cmd {
	return m.loadHistory()
}

func (m *HistoryModel) loadHistory() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		records, err := m.app.InvoiceService.History(ctx)
		if err != nil {
			return historyDataMsg{err: err}
		}

		// Resolve customer names; deleted customers stay unresolved
		names := make(map[int64]string)
		for _, r := range records {
			if r.CustomerID == nil {
				continue
			}
			if _, ok := names[*r.CustomerID]; ok {
				continue
			}
			if c, err := m.app.CustomerRepo.GetByID(ctx, *r.CustomerID); err == nil {
				names[c.ID] = c.Name
			}
		}

		now := time.Now()
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)
		month, err := m.app.ReportService.GetSalesSummary(ctx, start, start.AddDate(0, 1, 0))
		if err != nil {
			return historyDataMsg{err: err}
		}
		return historyDataMsg{records: records, names: names, month: month}
	}
}

func (m *HistoryModel) loadDetail(id int64) tea.Cmd {
	return func() tea.Msg {
		rec, err := m.app.InvoiceService.GetInvoice(context.Background(), id)
		return historyDetailMsg{record: rec, err: err}
	}
}

func (m *HistoryModel) customerName(r *domain.InvoiceRecord) string {
	if r.CustomerID == nil {
		return "-"
	}
	if name, ok := m.names[*r.CustomerID]; ok {
		return name
	}
	return fmt.Sprintf("#%d (deleted)", *r.CustomerID)
}

func (m *HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.loading = true
		m.mode = historyViewList
		return m, m.loadHistory()

	case historyDataMsg:
		m.loading = false
		m.err = msg.err
		m.records = msg.records
		m.names = msg.names
		m.month = msg.month
		if m.cursor >= len(m.records) {
			m.cursor = max(0, len(m.records)-1)
		}
		return m, nil

	case historyDetailMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.selected = msg.record
		m.mode = historyViewDetail
		return m, nil

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}
		if m.mode == historyViewDetail {
			if key.Matches(msg, DefaultKeyMap.Back) {
				m.mode = historyViewList
				m.selected = nil
			}
			return m, nil
		}

		m.err = nil
		switch {
		case key.Matches(msg, DefaultKeyMap.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, DefaultKeyMap.Down):
			if m.cursor < len(m.records)-1 {
				m.cursor++
			}
		case key.Matches(msg, DefaultKeyMap.Select):
			if len(m.records) > 0 {
				m.loading = true
				return m, m.loadDetail(m.records[m.cursor].ID)
			}
		}
	}

	return m, nil
}

func (m *HistoryModel) View() string {
	if m.loading {
		return "Loading..."
	}
	if m.mode == historyViewDetail {
		return m.viewDetail()
	}
	return m.viewList()
}

func (m *HistoryModel) viewList() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("Invoice History") + "\n\n")

	if m.err != nil {
		s.WriteString(renderError(m.err) + "\n\n")
	}

	if len(m.records) == 0 && m.err == nil {
		s.WriteString(subtitleStyle.Render("  No invoices generated yet."))
		return s.String()
	}

	sym := m.app.Config.Invoice.CurrencySymbol
	if m.month != nil {
		s.WriteString(totalStyle.Render(fmt.Sprintf("  %s: %d invoices, %s",
			m.month.Start.Format("January 2006"), m.month.InvoiceCount, formatMoney(m.month.TotalRevenue, sym))) + "\n\n")
	}
	s.WriteString(subtitleStyle.Render(fmt.Sprintf(
		"  %-5s  %-19s  %-24s  %14s  %s",
		"ID", "Created", "Customer", "Total", "File",
	)) + "\n")

	for i, r := range m.records {
		line := fmt.Sprintf("  %-5d  %-19s  %-24s  %14s  %s",
			r.ID,
			r.CreatedAt.Local().Format(time.DateTime),
			truncateStr(m.customerName(r), 24),
			formatMoney(r.TotalAmount, sym),
			r.FileName,
		)
		if i == m.cursor {
			s.WriteString(selectedStyle.Render(line) + "\n")
		} else {
			s.WriteString(line + "\n")
		}
	}

	s.WriteString("\n" + helpStyle.Render("  j/k: navigate  enter: view detail"))
	return s.String()
}

func (m *HistoryModel) viewDetail() string {
	r := m.selected
	if r == nil {
		return "No invoice selected"
	}

	sym := m.app.Config.Invoice.CurrencySymbol
	var s strings.Builder

	s.WriteString(titleStyle.Render(fmt.Sprintf("Invoice #%d", r.ID)) + "\n\n")
	fmt.Fprintf(&s, "  Customer: %s\n", m.customerName(r))
	fmt.Fprintf(&s, "  Created:  %s\n", r.CreatedAt.Local().Format(time.DateTime))
	fmt.Fprintf(&s, "  File:     %s\n\n", r.FileName)

	if len(r.Items) == 0 {
		s.WriteString(subtitleStyle.Render("  No line items") + "\n")
	} else {
		s.WriteString(subtitleStyle.Render(fmt.Sprintf(
			"  %-28s  %8s  %-6s  %-9s  %12s  %12s",
			"Product", "Qty", "Unit", "Type", "Unit Price", "Total",
		)) + "\n")
		for _, it := range r.Items {
			fmt.Fprintf(&s, "  %-28s  %8s  %-6s  %-9s  %12s  %12s\n",
				truncateStr(it.ProductName, 28),
				it.Quantity.String(),
				truncateStr(it.BaseUnit, 6),
				it.PriceType.Title(),
				formatMoney(it.UnitPrice, sym),
				formatMoney(it.TotalPrice, sym),
			)
		}
	}

	s.WriteString("\n" + lipgloss.NewStyle().Bold(true).Render(
		fmt.Sprintf("  Total: %s", formatMoney(r.TotalAmount, sym)),
	) + "\n")

	s.WriteString("\n" + helpStyle.Render("  esc: back to list"))
	return s.String()
}
