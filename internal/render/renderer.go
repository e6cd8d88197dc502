package render

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/andy/invoicer/internal/domain"
)

// Options configures a Renderer
type Options struct {
	Dir    string
	Title  string
	Footer string
	Now    func() time.Time // defaults to time.Now
	Logger *log.Logger
}

// Renderer draws invoices as PDF files into the archive directory
type Renderer struct {
	dir    string
	title  string
	footer string
	now    func() time.Time
	logger *log.Logger
}

// NewRenderer creates a Renderer
func NewRenderer(opts Options) *Renderer {
	r := &Renderer{
		dir:    opts.Dir,
		title:  opts.Title,
		footer: opts.Footer,
		now:    opts.Now,
		logger: opts.Logger,
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.logger == nil {
		r.logger = log.Default()
	}
	return r
}

// Dir is the archive directory documents are written to
func (r *Renderer) Dir() string {
	return r.dir
}

// SetText replaces the title and footer used for documents rendered from now on
func (r *Renderer) SetText(title, footer string) {
	r.title = title
	r.footer = footer
}

// Render writes snap to invoice_<YYYYMMDD>_<HHMMSS>.pdf and returns the path.
// A document generated in the same second replaces the earlier one.
func (r *Renderer) Render(snap *domain.Snapshot) (string, error) {
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w: %w", domain.ErrIO, err)
	}

	generatedAt := r.now()
	path := filepath.Join(r.dir, FileName(generatedAt, "pdf"))
	layout := NewLayout(snap, generatedAt, r.title, r.footer)

	doc, err := build(layout).Generate()
	if err != nil {
		return "", fmt.Errorf("failed to generate pdf: %w: %w", domain.ErrIO, err)
	}
	if err := doc.Save(path); err != nil {
		return "", fmt.Errorf("failed to write %s: %w: %w", path, domain.ErrIO, err)
	}

	r.logger.Debug("pdf written", "path", path, "rows", len(layout.Rows))
	return path, nil
}

var (
	headerBackground = &props.Color{Red: 128, Green: 128, Blue: 128}
	headerText       = &props.Color{Red: 245, Green: 245, Blue: 245}
)

// column widths on maroto's 12-column grid
var itemCols = [4]int{6, 2, 2, 2}

func build(l Layout) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.Letter).
		WithLeftMargin(25).
		WithRightMargin(25).
		WithTopMargin(25).
		Build()

	m := maroto.New(cfg)

	m.AddRows(
		text.NewRow(14, l.Title, props.Text{Size: 24, Style: fontstyle.Bold, Align: align.Center}),
		text.NewRow(10, l.Date, props.Text{Size: 12, Top: 2}),
	)

	if l.Customer != nil {
		m.AddRows(text.NewRow(10, "Customer Information:", props.Text{Size: 14, Style: fontstyle.Bold, Top: 3}))
		for _, s := range l.Customer.Lines() {
			m.AddRows(text.NewRow(6, s, props.Text{Size: 11, Left: 2}))
		}
	}

	m.AddRows(text.NewRow(12, "Items:", props.Text{Size: 14, Style: fontstyle.Bold, Top: 4}))

	header := m.AddRow(10,
		text.NewCol(itemCols[0], ItemHeader[0], headerProps()),
		text.NewCol(itemCols[1], ItemHeader[1], headerProps()),
		text.NewCol(itemCols[2], ItemHeader[2], headerProps()),
		text.NewCol(itemCols[3], ItemHeader[3], headerProps()),
	)
	header.WithStyle(&props.Cell{BackgroundColor: headerBackground, BorderType: border.Full})

	cell := props.Text{Size: 12, Align: align.Center, Top: 2}
	for _, r := range l.Rows {
		m.AddRow(8,
			text.NewCol(itemCols[0], r[0], cell),
			text.NewCol(itemCols[1], r[1], cell),
			text.NewCol(itemCols[2], r[2], cell),
			text.NewCol(itemCols[3], r[3], cell),
		).WithStyle(&props.Cell{BorderType: border.Full})
	}

	total := props.Text{Size: 12, Style: fontstyle.Bold, Align: align.Right, Top: 3}
	m.AddRow(10,
		text.NewCol(itemCols[0]+itemCols[1], ""),
		text.NewCol(itemCols[2], "Total:", total),
		text.NewCol(itemCols[3], l.Total, total),
	)
	m.AddRows(
		line.NewRow(2),
		text.NewRow(16, l.Footer, props.Text{Size: 12, Top: 8}),
	)

	return m
}

func headerProps() props.Text {
	return props.Text{
		Size:  14,
		Style: fontstyle.Bold,
		Align: align.Center,
		Top:   2,
		Color: headerText,
	}
}
