package render

import (
	"fmt"
	"time"

	"github.com/andy/invoicer/internal/domain"
)

const (
	DefaultTitle  = "INVOICE"
	DefaultFooter = "Thank you for your business!"

	dateLayout = "2006-01-02 15:04:05"
	fileLayout = "20060102_150405"
)

// ItemHeader is the column order of the items table
var ItemHeader = [4]string{"Product", "Quantity", "Unit", "Total"}

// CustomerBlock is the optional customer section, blanks already replaced by N/A
type CustomerBlock struct {
	Name    string
	Address string
	Phone   string
	Email   string
}

// Lines returns the block as printed, one "Label: value" per line
func (c CustomerBlock) Lines() []string {
	return []string{
		"Name: " + c.Name,
		"Address: " + c.Address,
		"Phone: " + c.Phone,
		"Email: " + c.Email,
	}
}

// Layout is everything printed on an invoice, in top-to-bottom order.
// Price type and unit price are intentionally absent.
type Layout struct {
	Title    string
	Date     string
	Customer *CustomerBlock
	Rows     [][4]string
	Total    string
	Footer   string
}

// FileName is the archive name for a document generated at t
func FileName(t time.Time, ext string) string {
	return "invoice_" + t.Format(fileLayout) + "." + ext
}

// NewLayout computes the printed content of snap
func NewLayout(snap *domain.Snapshot, generatedAt time.Time, title, footer string) Layout {
	if title == "" {
		title = DefaultTitle
	}
	if footer == "" {
		footer = DefaultFooter
	}

	l := Layout{
		Title:  title,
		Date:   "Date: " + generatedAt.Format(dateLayout),
		Rows:   make([][4]string, 0, len(snap.Items)),
		Total:  snap.Total.StringFixed(2),
		Footer: footer,
	}

	if c := snap.Customer; c != nil {
		l.Customer = &CustomerBlock{
			Name:    domain.OrNA(c.Name),
			Address: domain.OrNA(c.Address),
			Phone:   domain.OrNA(c.Phone),
			Email:   domain.OrNA(c.Email),
		}
	}

	for _, it := range snap.Items {
		l.Rows = append(l.Rows, [4]string{
			it.ProductName,
			it.Quantity.String(),
			it.BaseUnit,
			it.LineTotal.StringFixed(2),
		})
	}

	return l
}

// String renders the layout as plain text, used by the CLI preview
func (l Layout) String() string {
	s := l.Title + "\n" + l.Date + "\n"
	if l.Customer != nil {
		s += "\nCustomer Information:\n"
		for _, line := range l.Customer.Lines() {
			s += "  " + line + "\n"
		}
	}
	s += "\nItems:\n"
	s += fmt.Sprintf("  %-30s %10s %-8s %12s\n", ItemHeader[0], ItemHeader[1], ItemHeader[2], ItemHeader[3])
	for _, r := range l.Rows {
		s += fmt.Sprintf("  %-30s %10s %-8s %12s\n", r[0], r[1], r[2], r[3])
	}
	s += fmt.Sprintf("  %-30s %10s %-8s %12s\n", "", "", "Total:", l.Total)
	s += "\n" + l.Footer + "\n"
	return s
}
