package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/andy/invoicer/internal/app"
	"github.com/andy/invoicer/internal/domain"
	"github.com/andy/invoicer/internal/service"
)

type invoiceMode int

const (
	invoiceModeView invoiceMode = iota
	invoiceModeAdd
	invoiceModeEdit
	invoiceModeCustomer
)

// add form field indices
const (
	addFieldProduct = iota
	addFieldQuantity
	addFieldCount
)

// edit form field indices
const (
	editFieldQuantity = iota
	editFieldPrice
	editFieldCount
)

const maxSuggestions = 5

// InvoiceModel is the invoice builder screen: pick a customer, add lines,
// adjust them and render the result.
type InvoiceModel struct {
	app       *app.App
	builder   *service.InvoiceBuilder
	mode      invoiceMode
	priceType domain.PriceType
	lines     []domain.LineItem
	cursor    int
	err       error
	statusMsg string
	lastPath  string

	// Picker data
	products    []*domain.Product
	customers   []*domain.Customer
	suggestions []string

	// Form state
	fields      []textinput.Model
	fieldFocus  int
	editingLine string
}

type pickerDataMsg struct {
	products  []*domain.Product
	customers []*domain.Customer
	err       error
}

// NewInvoiceModel creates the invoice screen over a shared builder
func NewInvoiceModel(a *app.App, b *service.InvoiceBuilder) tea.Model {
	m := &InvoiceModel{
		app:       a,
		builder:   b,
		priceType: a.Config.PriceType(),
	}
	b.Subscribe(m.onBuilderEvent)
	return m
}

// IsCapturingInput returns true while any form is open
func (m *InvoiceModel) IsCapturingInput() bool {
	return m.mode != invoiceModeView
}

func (m *InvoiceModel) Init() tea.Cmd {
	return m.loadPickers()
}

func (m *InvoiceModel) loadPickers() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		products, err := m.app.ProductRepo.Search(ctx, "")
		if err != nil {
			return pickerDataMsg{err: err}
		}
		customers, err := m.app.CustomerRepo.Search(ctx, "")
		if err != nil {
			return pickerDataMsg{err: err}
		}
		return pickerDataMsg{products: products, customers: customers}
	}
}

// onBuilderEvent keeps the cached lines in step with the builder
func (m *InvoiceModel) onBuilderEvent(e service.Event) {
	m.lines = m.builder.Lines()
	if m.cursor >= len(m.lines) {
		m.cursor = max(0, len(m.lines)-1)
	}
	if e.Kind == service.EventItemAdded && m.mode == invoiceModeAdd {
		m.fields[addFieldProduct].SetValue("")
		m.fields[addFieldQuantity].SetValue("")
		m.suggestions = nil
	}
}

func (m *InvoiceModel) symbol() string {
	return m.app.Config.Invoice.CurrencySymbol
}

func (m *InvoiceModel) openAddForm(productRef string) tea.Cmd {
	m.mode = invoiceModeAdd
	m.err = nil
	m.fields = []textinput.Model{
		newField("Product id or name", 200, 40),
		newField("1", 12, 12),
	}
	m.fields[addFieldProduct].SetValue(productRef)
	m.fieldFocus = addFieldProduct
	if productRef != "" {
		m.fieldFocus = addFieldQuantity
	}
	m.refreshSuggestions()
	return m.fields[m.fieldFocus].Focus()
}

func (m *InvoiceModel) openEditForm() tea.Cmd {
	if len(m.lines) == 0 {
		return nil
	}
	line := m.lines[m.cursor]
	m.mode = invoiceModeEdit
	m.err = nil
	m.editingLine = line.ID
	m.fields = []textinput.Model{
		newField("Quantity", 12, 12),
		newField("Unit price", 16, 16),
	}
	m.fields[editFieldQuantity].SetValue(line.Quantity.String())
	m.fields[editFieldPrice].SetValue(line.UnitPrice.StringFixed(2))
	m.fieldFocus = editFieldQuantity
	return m.fields[m.fieldFocus].Focus()
}

func (m *InvoiceModel) openCustomerForm() tea.Cmd {
	m.mode = invoiceModeCustomer
	m.err = nil
	m.fields = []textinput.Model{newField("Customer id or name", 200, 40)}
	m.fieldFocus = 0
	m.refreshSuggestions()
	return m.fields[0].Focus()
}

// refreshSuggestions filters picker labels by the text in the focused ref field
func (m *InvoiceModel) refreshSuggestions() {
	m.suggestions = nil

	var labels []string
	switch {
	case m.mode == invoiceModeAdd && m.fieldFocus == addFieldProduct:
		for _, p := range m.products {
			labels = append(labels, fmt.Sprintf("%s (W:%s R:%s)", p.Label(), p.WholesalePrice.StringFixed(2), p.RetailPrice.StringFixed(2)))
		}
	case m.mode == invoiceModeCustomer:
		for _, c := range m.customers {
			labels = append(labels, c.Label())
		}
	default:
		return
	}

	term := strings.ToLower(strings.TrimSpace(m.fields[m.fieldFocus].Value()))
	for _, l := range labels {
		if term == "" || strings.Contains(strings.ToLower(l), term) {
			m.suggestions = append(m.suggestions, l)
			if len(m.suggestions) == maxSuggestions {
				return
			}
		}
	}
}

func (m *InvoiceModel) togglePriceType() {
	if m.priceType == domain.PriceWholesale {
		m.priceType = domain.PriceRetail
	} else {
		m.priceType = domain.PriceWholesale
	}
}

func (m *InvoiceModel) addItem() {
	ctx := context.Background()
	line, err := m.builder.AddItem(ctx, m.fields[addFieldProduct].Value(), m.fields[addFieldQuantity].Value(), m.priceType)
	if err != nil {
		m.err = err
		if errors.Is(err, domain.ErrDuplicateItem) {
			m.err = fmt.Errorf("already on the invoice at this price type; edit the existing line instead")
		}
		return
	}
	m.err = nil
	m.statusMsg = fmt.Sprintf("Added %s x %s", line.ProductName, line.Quantity.String())
	m.fieldFocus = addFieldProduct
	m.fields[addFieldQuantity].Blur()
	m.fields[addFieldProduct].Focus()
	m.refreshSuggestions()
}

func (m *InvoiceModel) applyEdit() {
	if m.builder.EditLine(m.editingLine, m.fields[editFieldQuantity].Value(), m.fields[editFieldPrice].Value()) {
		m.statusMsg = "Line updated"
	}
	m.mode = invoiceModeView
}

func (m *InvoiceModel) setCustomer(ref string) {
	c, err := m.builder.SetCustomer(context.Background(), ref)
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.mode = invoiceModeView
	m.statusMsg = fmt.Sprintf("Customer: %s", c.Name)
}

func (m *InvoiceModel) generate() {
	if m.builder.Len() == 0 {
		m.err = fmt.Errorf("add at least one item before generating the invoice")
		return
	}
	path, err := m.app.InvoiceService.Generate(context.Background(), m.builder)
	if err != nil {
		m.err = err
		return
	}
	m.lastPath = path
	m.err = nil
	m.statusMsg = fmt.Sprintf("Invoice saved: %s  (o: open)", filepath.Base(path))
}

func (m *InvoiceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshDataMsg:
		return m, m.loadPickers()

	case pickerDataMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.products = msg.products
		m.customers = msg.customers
		if m.mode != invoiceModeView {
			m.refreshSuggestions()
		}
		return m, nil

	case UseCustomerMsg:
		m.setCustomer(msg.Ref)
		return m, nil

	case UseProductMsg:
		return m, m.openAddForm(msg.Ref)
	}

	if m.mode != invoiceModeView {
		return m.updateForm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	m.statusMsg = ""
	m.err = nil

	switch {
	case key.Matches(keyMsg, DefaultKeyMap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, DefaultKeyMap.Down):
		if m.cursor < len(m.lines)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, DefaultKeyMap.New), key.Matches(keyMsg, DefaultKeyMap.Select):
		return m, m.openAddForm("")
	case key.Matches(keyMsg, DefaultKeyMap.Edit):
		return m, m.openEditForm()
	case key.Matches(keyMsg, DefaultKeyMap.Delete), keyMsg.String() == "x":
		if len(m.lines) > 0 {
			m.builder.RemoveLine(m.lines[m.cursor].ID)
		}
	case keyMsg.String() == "t":
		m.togglePriceType()
	case keyMsg.String() == "s":
		return m, m.openCustomerForm()
	case keyMsg.String() == "S":
		m.builder.ClearCustomer()
	case keyMsg.String() == "g":
		m.generate()
	case key.Matches(keyMsg, DefaultKeyMap.Open):
		if m.lastPath == "" {
			m.err = fmt.Errorf("no invoice generated yet")
		} else if err := m.app.Archive.Open(filepath.Base(m.lastPath)); err != nil {
			m.err = err
		}
	case keyMsg.String() == "N":
		m.builder.Clear()
		m.statusMsg = "Started a new invoice"
	}

	return m, nil
}

func (m *InvoiceModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.mode = invoiceModeView
			m.err = nil
			m.suggestions = nil
			return m, nil

		case "ctrl+t":
			if m.mode == invoiceModeAdd {
				m.togglePriceType()
			}
			return m, nil

		case "tab":
			// Tab on a ref field completes the first suggestion
			if len(m.suggestions) > 0 && m.fields[m.fieldFocus].Value() != m.suggestions[0] &&
				(m.mode == invoiceModeCustomer || (m.mode == invoiceModeAdd && m.fieldFocus == addFieldProduct)) {
				m.fields[m.fieldFocus].SetValue(m.suggestions[0])
				m.fields[m.fieldFocus].CursorEnd()
				m.refreshSuggestions()
				return m, nil
			}
			var cmd tea.Cmd
			m.fieldFocus, cmd = moveFocus(m.fields, m.fieldFocus, 1)
			m.refreshSuggestions()
			return m, cmd

		case "shift+tab", "up", "down":
			delta := 1
			if keyMsg.String() != "down" {
				delta = -1
			}
			var cmd tea.Cmd
			m.fieldFocus, cmd = moveFocus(m.fields, m.fieldFocus, delta)
			m.refreshSuggestions()
			return m, cmd

		case "enter", "ctrl+s":
			if keyMsg.String() == "enter" && m.fieldFocus < len(m.fields)-1 {
				var cmd tea.Cmd
				m.fieldFocus, cmd = moveFocus(m.fields, m.fieldFocus, 1)
				m.refreshSuggestions()
				return m, cmd
			}
			switch m.mode {
			case invoiceModeAdd:
				m.addItem()
			case invoiceModeEdit:
				m.applyEdit()
			case invoiceModeCustomer:
				m.setCustomer(m.fields[0].Value())
			}
			return m, nil
		}
	}

	// Update the focused text input
	var cmd tea.Cmd
	m.fields[m.fieldFocus], cmd = m.fields[m.fieldFocus].Update(msg)
	m.refreshSuggestions()
	return m, cmd
}

func (m *InvoiceModel) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("Invoice") + "\n\n")

	customer := subtitleStyle.Render("none (s: set)")
	if c := m.builder.Customer(); c != nil {
		customer = c.Name
		if c.Phone != "" {
			customer += subtitleStyle.Render("  " + c.Phone)
		}
	}
	fmt.Fprintf(&s, "  Customer:   %s\n", customer)
	fmt.Fprintf(&s, "  Price type: %s\n\n", priceTypeStyle.Render(m.priceType.Title()))

	s.WriteString(m.viewLines())

	if m.statusMsg != "" {
		s.WriteString("\n" + statusStyle.Render("  "+m.statusMsg) + "\n")
	}

	switch m.mode {
	case invoiceModeAdd:
		s.WriteString("\n" + titleStyle.Render("Add Item") + subtitleStyle.Render("  ("+m.priceType.Title()+", ctrl+t to switch)") + "\n\n")
		s.WriteString(renderForm([]string{"Product:", "Quantity:"}, m.fields, m.fieldFocus))
		s.WriteString(m.viewSuggestions())
	case invoiceModeEdit:
		s.WriteString("\n" + titleStyle.Render("Edit Line") + "\n\n")
		s.WriteString(renderForm([]string{"Quantity:", "Unit price:"}, m.fields, m.fieldFocus))
	case invoiceModeCustomer:
		s.WriteString("\n" + titleStyle.Render("Set Customer") + "\n\n")
		s.WriteString(renderForm([]string{"Customer:"}, m.fields, m.fieldFocus))
		s.WriteString(m.viewSuggestions())
	}

	if m.err != nil {
		s.WriteString("\n" + renderError(m.err) + "\n")
	}

	if m.mode == invoiceModeView {
		s.WriteString("\n" + helpStyle.Render("  n: add item  e: edit  d: remove  t: price type  s/S: set/clear customer  g: generate PDF  o: open  N: new invoice"))
	} else {
		s.WriteString("\n" + helpStyle.Render("  tab: complete/next field  enter: next/save  esc: close"))
	}
	return s.String()
}

func (m *InvoiceModel) viewLines() string {
	if len(m.lines) == 0 {
		return subtitleStyle.Render("  No items yet. Press 'n' to add one.") + "\n"
	}

	var s strings.Builder
	s.WriteString(tableHeadStyle.Render(fmt.Sprintf("  %-3s %-28s %8s %-6s %-9s %12s %12s",
		"#", "Product", "Qty", "Unit", "Type", "Unit Price", "Total")) + "\n")

	sym := m.symbol()
	for i, line := range m.lines {
		row := fmt.Sprintf("  %-3d %-28s %8s %-6s %-9s %12s %12s",
			i+1,
			truncateStr(line.ProductName, 28),
			line.Quantity.String(),
			truncateStr(line.BaseUnit, 6),
			line.PriceType.Title(),
			formatMoney(line.UnitPrice, sym),
			formatMoney(line.LineTotal, sym),
		)
		if i == m.cursor {
			s.WriteString(selectedStyle.Render(row) + "\n")
		} else {
			s.WriteString(row + "\n")
		}
	}

	s.WriteString("\n" + totalStyle.Render(fmt.Sprintf("  Total Amount: %s", formatMoney(m.builder.Total(), sym))) + "\n")
	return s.String()
}

func (m *InvoiceModel) viewSuggestions() string {
	if len(m.suggestions) == 0 {
		return ""
	}
	var s strings.Builder
	for i, sug := range m.suggestions {
		if i == 0 {
			s.WriteString(helpStyle.Render("    ⇥ "+sug) + "\n")
			continue
		}
		s.WriteString(subtitleStyle.Render("      "+sug) + "\n")
	}
	return boxStyle.Render(strings.TrimRight(s.String(), "\n")) + "\n"
}
