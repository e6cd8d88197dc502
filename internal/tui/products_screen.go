package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/andy/invoicer/internal/app"
	"github.com/andy/invoicer/internal/domain"
	"github.com/andy/invoicer/internal/importer"
	"github.com/andy/invoicer/internal/service"
)

type productMode int

const (
	productModeList productMode = iota
	productModeNew
	productModeEdit
	productModeSearch
	productModeConfirmDelete
	productModeDeleteAll
	productModeImport
)

// form field indices
const (
	productFieldName = iota
	productFieldWholesale
	productFieldRetail
	productFieldBaseUnit
	productFieldAltUnit
	productFieldRatio
	productFieldDescription
	productFieldCount
)

// how many import failures are listed on screen
const maxImportFailures = 8

// ProductsModel displays a searchable product list with forms, bulk import
// and a two-step delete-all.
type ProductsModel struct {
	app       *app.App
	products  []*domain.Product
	cursor    int
	loading   bool
	err       error
	statusMsg string

	search     textinput.Model
	importPath textinput.Model
	importLog  []string
	deleteAll  service.DeleteAllFlow

	// Form state
	mode       productMode
	fields     []textinput.Model
	fieldFocus int
	editingID  int64 // 0 for new product
	autoNew    bool  // open new product form after data loads
}

type productsDataMsg struct {
	products []*domain.Product
	err      error
}

type productSavedMsg struct {
	name string
	err  error
}

type productDeletedMsg struct {
	name string
	err  error
}

type productsDeletedAllMsg struct {
	count int64
	err   error
}

type productsImportedMsg struct {
	result service.ImportResult
	err    error
}

// NewProductsModel creates a new products screen model
func NewProductsModel(a *app.App) tea.Model {
	return &ProductsModel{
		app:        a,
		search:     newField("Search name or description", 100, 40),
		importPath: newField("/path/to/products.xlsx", 256, 60),
		loading:    true,
	}
}

// IsCapturingInput returns true when a form, the search box or a prompt is active
func (m *ProductsModel) IsCapturingInput() bool {
	return m.mode != productModeList
}

func (m *ProductsModel) Init() tea.Cmd {
	return m.loadProducts()
}

func (m *ProductsModel) loadProducts() tea.Cmd {
	term := m.search.Value()
	return func() tea.Msg {
		products, err := m.app.Products.Search(context.Background(), term)
		return productsDataMsg{products: products, err: err}
	}
}

func (m *ProductsModel) syncSelection() {
	if m.cursor < len(m.products) {
		m.app.Products.Select(m.products[m.cursor].ID)
	}
}

func (m *ProductsModel) current() *domain.Product {
	id, ok := m.app.Products.Selected()
	if !ok {
		return nil
	}
	for _, p := range m.products {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (m *ProductsModel) initForm(editing *domain.Product) {
	m.fields = make([]textinput.Model, productFieldCount)
	m.fields[productFieldName] = newField("Product name", 200, 40)
	m.fields[productFieldWholesale] = newField("0.00", 16, 16)
	m.fields[productFieldRetail] = newField("0.00", 16, 16)
	m.fields[productFieldBaseUnit] = newField("pcs", 50, 16)
	m.fields[productFieldAltUnit] = newField("box (optional)", 50, 16)
	m.fields[productFieldRatio] = newField("1", 16, 16)
	m.fields[productFieldDescription] = newField("Optional description", 1000, 50)

	if editing != nil {
		m.fields[productFieldName].SetValue(editing.Name)
		m.fields[productFieldWholesale].SetValue(editing.WholesalePrice.StringFixed(2))
		m.fields[productFieldRetail].SetValue(editing.RetailPrice.StringFixed(2))
		m.fields[productFieldBaseUnit].SetValue(editing.BaseUnit)
		m.fields[productFieldAltUnit].SetValue(editing.AltUnit)
		m.fields[productFieldRatio].SetValue(editing.UnitRatio.String())
		m.fields[productFieldDescription].SetValue(editing.Description)
		m.editingID = editing.ID
	} else {
		m.editingID = 0
	}

	m.fieldFocus = productFieldName
	m.fields[productFieldName].Focus()
}

func (m *ProductsModel) saveProduct() tea.Cmd {
	fields := domain.ProductFields{
		Name:           m.fields[productFieldName].Value(),
		WholesalePrice: m.fields[productFieldWholesale].Value(),
		RetailPrice:    m.fields[productFieldRetail].Value(),
		BaseUnit:       m.fields[productFieldBaseUnit].Value(),
		AltUnit:        m.fields[productFieldAltUnit].Value(),
		UnitRatio:      m.fields[productFieldRatio].Value(),
		Description:    m.fields[productFieldDescription].Value(),
	}
	editingID := m.editingID
	return func() tea.Msg {
		ctx := context.Background()
		if editingID > 0 {
			p, err := m.app.Products.Update(ctx, editingID, fields)
			if err != nil {
				return productSavedMsg{err: err}
			}
			return productSavedMsg{name: p.Name}
		}
		p, err := m.app.Products.Create(ctx, fields)
		if err != nil {
			return productSavedMsg{err: err}
		}
		return productSavedMsg{name: p.Name}
	}
}

func (m *ProductsModel) deleteProduct(p *domain.Product) tea.Cmd {
	return func() tea.Msg {
		err := m.app.Products.Delete(context.Background(), p.ID)
		return productDeletedMsg{name: p.Name, err: err}
	}
}

func (m *ProductsModel) runDeleteAll(confirm service.DeleteAllConfirmation) tea.Cmd {
	return func() tea.Msg {
		n, err := m.app.Products.DeleteAll(context.Background(), confirm)
		return productsDeletedAllMsg{count: n, err: err}
	}
}

func (m *ProductsModel) runImport(path string) tea.Cmd {
	return func() tea.Msg {
		rows, err := importer.ReadFile(path)
		if err != nil {
			return productsImportedMsg{err: err}
		}
		return productsImportedMsg{result: m.app.Products.Import(context.Background(), rows)}
	}
}

func (m *ProductsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle OpenNewProductFormMsg at the top so it works regardless of mode
	if _, ok := msg.(OpenNewProductFormMsg); ok {
		if m.loading {
			// Data hasn't loaded yet; set flag to auto-open form when it does
			m.autoNew = true
			return m, nil
		}
		m.mode = productModeNew
		m.initForm(nil)
		return m, m.fields[productFieldName].Focus()
	}

	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.loading = true
		return m, m.loadProducts()

	case productsDataMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.products = msg.products
			if m.cursor >= len(m.products) {
				m.cursor = max(0, len(m.products)-1)
			}
			m.syncSelection()
		}
		if m.autoNew {
			m.autoNew = false
			m.mode = productModeNew
			m.initForm(nil)
			return m, m.fields[productFieldName].Focus()
		}
		return m, nil

	case productSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.mode = productModeList
		m.statusMsg = fmt.Sprintf("Saved: %s", msg.name)
		m.loading = true
		return m, m.loadProducts()

	case productDeletedMsg:
		m.mode = productModeList
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.statusMsg = fmt.Sprintf("Deleted: %s", msg.name)
		m.loading = true
		return m, m.loadProducts()

	case productsDeletedAllMsg:
		m.mode = productModeList
		m.deleteAll.Reset()
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.statusMsg = fmt.Sprintf("Successfully deleted %d products.", msg.count)
		m.cursor = 0
		m.loading = true
		return m, m.loadProducts()

	case productsImportedMsg:
		m.mode = productModeList
		m.importLog = nil
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		r := msg.result
		m.statusMsg = fmt.Sprintf("Successfully imported: %d products", r.SuccessCount)
		if r.FailureCount > 0 {
			m.statusMsg += fmt.Sprintf("  Failed to import: %d products", r.FailureCount)
			for i, f := range r.Failures {
				if i == maxImportFailures {
					m.importLog = append(m.importLog, fmt.Sprintf("... and %d more", len(r.Failures)-i))
					break
				}
				m.importLog = append(m.importLog, fmt.Sprintf("row %d (%s): %v", f.Index+2, f.Name, f.Err))
			}
		}
		m.loading = true
		return m, m.loadProducts()
	}

	switch m.mode {
	case productModeNew, productModeEdit:
		return m.updateForm(msg)
	case productModeSearch:
		return m.updateSearch(msg)
	case productModeImport:
		return m.updateImport(msg)
	case productModeConfirmDelete:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			if keyMsg.String() == "y" {
				if p := m.current(); p != nil {
					return m, m.deleteProduct(p)
				}
			}
			m.mode = productModeList
		}
		return m, nil
	case productModeDeleteAll:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			if keyMsg.String() != "y" {
				m.deleteAll.Cancel()
				m.mode = productModeList
				m.statusMsg = "Delete all cancelled"
				return m, nil
			}
			if confirm, done := m.deleteAll.Confirm(); done {
				return m, m.runDeleteAll(confirm)
			}
		}
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.loading {
		return m, nil
	}

	m.statusMsg = ""
	m.err = nil
	m.importLog = nil

	switch {
	case key.Matches(keyMsg, DefaultKeyMap.Up):
		if m.cursor > 0 {
			m.cursor--
			m.syncSelection()
		}
	case key.Matches(keyMsg, DefaultKeyMap.Down):
		if m.cursor < len(m.products)-1 {
			m.cursor++
			m.syncSelection()
		}
	case key.Matches(keyMsg, DefaultKeyMap.New):
		m.mode = productModeNew
		m.initForm(nil)
		return m, m.fields[productFieldName].Focus()
	case key.Matches(keyMsg, DefaultKeyMap.Select), key.Matches(keyMsg, DefaultKeyMap.Edit):
		if p := m.current(); p != nil {
			m.mode = productModeEdit
			m.initForm(p)
			return m, m.fields[productFieldName].Focus()
		}
	case key.Matches(keyMsg, DefaultKeyMap.Delete):
		if m.current() != nil {
			m.mode = productModeConfirmDelete
		}
	case keyMsg.String() == "D":
		n, err := m.app.Products.Count(context.Background())
		if err != nil {
			m.err = err
			return m, nil
		}
		if m.deleteAll.Start(n) {
			m.mode = productModeDeleteAll
		} else {
			m.statusMsg = "No products to delete."
		}
	case keyMsg.String() == "m":
		m.mode = productModeImport
		return m, m.importPath.Focus()
	case key.Matches(keyMsg, DefaultKeyMap.Search):
		m.mode = productModeSearch
		return m, m.search.Focus()
	case key.Matches(keyMsg, DefaultKeyMap.Use):
		if p := m.current(); p != nil {
			label := p.Label()
			return m, func() tea.Msg { return UseProductMsg{Ref: label} }
		}
	}

	return m, nil
}

func (m *ProductsModel) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.search.SetValue("")
			m.search.Blur()
			m.mode = productModeList
			return m, m.loadProducts()
		case "enter":
			m.search.Blur()
			m.mode = productModeList
			return m, nil
		}
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != before {
		m.cursor = 0
		return m, tea.Batch(cmd, m.loadProducts())
	}
	return m, cmd
}

func (m *ProductsModel) updateImport(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.importPath.Blur()
			m.mode = productModeList
			return m, nil
		case "enter":
			path := strings.TrimSpace(m.importPath.Value())
			if path == "" {
				m.err = fmt.Errorf("enter the path of an .xlsx or .csv file")
				return m, nil
			}
			m.importPath.Blur()
			m.statusMsg = "Importing..."
			return m, m.runImport(path)
		}
	}

	var cmd tea.Cmd
	m.importPath, cmd = m.importPath.Update(msg)
	return m, cmd
}

func (m *ProductsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.mode = productModeList
			m.err = nil
			return m, nil

		case "tab", "down":
			var cmd tea.Cmd
			m.fieldFocus, cmd = moveFocus(m.fields, m.fieldFocus, 1)
			return m, cmd

		case "shift+tab", "up":
			var cmd tea.Cmd
			m.fieldFocus, cmd = moveFocus(m.fields, m.fieldFocus, -1)
			return m, cmd

		case "enter":
			if m.fieldFocus == productFieldCount-1 {
				return m, m.saveProduct()
			}
			var cmd tea.Cmd
			m.fieldFocus, cmd = moveFocus(m.fields, m.fieldFocus, 1)
			return m, cmd

		case "ctrl+s":
			return m, m.saveProduct()
		}
	}

	var cmd tea.Cmd
	m.fields[m.fieldFocus], cmd = m.fields[m.fieldFocus].Update(msg)
	return m, cmd
}

func (m *ProductsModel) View() string {
	if m.mode == productModeNew || m.mode == productModeEdit {
		return m.viewForm()
	}
	return m.viewList()
}

func (m *ProductsModel) viewForm() string {
	var s string
	switch {
	case m.mode == productModeEdit:
		s += titleStyle.Render("Edit Product") + "\n\n"
	case len(m.products) == 0:
		s += titleStyle.Render("Welcome to invoicer!") + "\n"
		s += subtitleStyle.Render("  Add your first product, or press esc and 'm' to import a spreadsheet.") + "\n\n"
	default:
		s += titleStyle.Render("New Product") + "\n\n"
	}

	labels := []string{"Name:", "Wholesale price:", "Retail price:", "Base unit:", "Alt unit:", "Unit ratio:", "Description:"}
	s += renderForm(labels, m.fields, m.fieldFocus)

	if m.err != nil {
		s += renderError(m.err) + "\n\n"
	}

	s += helpStyle.Render(formHelp)
	return s
}

func (m *ProductsModel) viewList() string {
	if m.loading && len(m.products) == 0 {
		return "Loading products..."
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render("Products") + "\n\n")

	if m.mode == productModeSearch || m.search.Value() != "" {
		s.WriteString("  Search: " + m.search.View() + "\n\n")
	}
	if m.mode == productModeImport {
		s.WriteString("  Import file: " + m.importPath.View() + "\n")
		s.WriteString(subtitleStyle.Render("  Columns: name, wholesale_price, retail_price, base_unit [, alt_unit, unit_ratio, description]") + "\n\n")
	}

	if m.statusMsg != "" {
		s.WriteString(statusStyle.Render("  "+m.statusMsg) + "\n")
		for _, line := range m.importLog {
			s.WriteString(subtitleStyle.Render("    "+line) + "\n")
		}
		s.WriteString("\n")
	}
	if m.err != nil {
		s.WriteString(renderError(m.err) + "\n\n")
	}

	switch m.mode {
	case productModeConfirmDelete:
		if p := m.current(); p != nil {
			s.WriteString(warningStyle.Render(fmt.Sprintf("  Delete %s? [y/N]", p.Name)) + "\n\n")
		}
	case productModeDeleteAll:
		s.WriteString(warningStyle.Render("  "+m.deleteAll.Prompt()+" [y/N]") + "\n\n")
	}

	if len(m.products) == 0 {
		if m.search.Value() != "" {
			s.WriteString(subtitleStyle.Render("  No products match the search.") + "\n")
		} else {
			s.WriteString(subtitleStyle.Render("  No products yet. Press 'n' to add one or 'm' to import.") + "\n")
		}
		return s.String()
	}

	sym := m.app.Config.Invoice.CurrencySymbol
	s.WriteString(tableHeadStyle.Render(fmt.Sprintf("  %-5s %-28s %12s %12s %-8s %-8s %6s",
		"ID", "Name", "Wholesale", "Retail", "Unit", "Alt", "Ratio")) + "\n")

	selected := make(map[int64]bool)
	for _, row := range m.app.Products.Rows() {
		selected[row.ID] = row.Selected
	}
	for _, p := range m.products {
		row := fmt.Sprintf("  %-5d %-28s %12s %12s %-8s %-8s %6s",
			p.ID,
			truncateStr(p.Name, 28),
			formatMoney(p.WholesalePrice, sym),
			formatMoney(p.RetailPrice, sym),
			truncateStr(p.BaseUnit, 8),
			truncateStr(p.AltUnit, 8),
			p.UnitRatio.String(),
		)
		if selected[p.ID] {
			s.WriteString(selectedStyle.Render(row) + "\n")
		} else {
			s.WriteString(row + "\n")
		}
	}

	if p := m.current(); p != nil && p.Description != "" {
		s.WriteString("\n" + subtitleStyle.Render("  "+truncateStr(p.Description, 100)) + "\n")
	}

	s.WriteString("\n" + helpStyle.Render("  j/k: navigate  /: search  n: new  enter/e: edit  d: delete  D: delete all  m: import  u: add to invoice"))
	return s.String()
}
