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
)

// customerMode represents the current screen mode
type customerMode int

const (
	customerModeList customerMode = iota
	customerModeNew
	customerModeEdit
	customerModeSearch
	customerModeConfirmDelete
)

// form field indices
const (
	customerFieldName = iota
	customerFieldAddress
	customerFieldPhone
	customerFieldEmail
	customerFieldCount
)

// CustomersModel displays a searchable list of customers with create/edit forms
type CustomersModel struct {
	app       *app.App
	customers []*domain.Customer
	cursor    int
	loading   bool
	err       error
	statusMsg string

	search textinput.Model

	// Form state
	mode       customerMode
	fields     []textinput.Model
	fieldFocus int
	editingID  int64 // 0 for new customer
}

type customersDataMsg struct {
	customers []*domain.Customer
	err       error
}

type customerSavedMsg struct {
	name string
	err  error
}

type customerDeletedMsg struct {
	name string
	err  error
}

// NewCustomersModel creates a new customers screen model
func NewCustomersModel(a *app.App) tea.Model {
	return &CustomersModel{
		app:     a,
		search:  newField("Search name, address, phone or email", 100, 40),
		loading: true,
	}
}

// IsCapturingInput returns true when a form, the search box or a prompt is active
func (m *CustomersModel) IsCapturingInput() bool {
	return m.mode != customerModeList
}

func (m *CustomersModel) Init() tea.Cmd {
	return m.loadCustomers()
}

func (m *CustomersModel) loadCustomers() tea.Cmd {
	term := m.search.Value()
	return func() tea.Msg {
		customers, err := m.app.Customers.Search(context.Background(), term)
		return customersDataMsg{customers: customers, err: err}
	}
}

// syncSelection marks the row under the cursor as the registry's selection
func (m *CustomersModel) syncSelection() {
	if m.cursor < len(m.customers) {
		m.app.Customers.Select(m.customers[m.cursor].ID)
	}
}

func (m *CustomersModel) current() *domain.Customer {
	id, ok := m.app.Customers.Selected()
	if !ok {
		return nil
	}
	for _, c := range m.customers {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (m *CustomersModel) initForm(editing *domain.Customer) {
	m.fields = make([]textinput.Model, customerFieldCount)
	m.fields[customerFieldName] = newField("Customer name", 200, 40)
	m.fields[customerFieldAddress] = newField("Street, city", 500, 50)
	m.fields[customerFieldPhone] = newField("Phone number", 50, 20)
	m.fields[customerFieldEmail] = newField("email@example.com", 254, 40)

	// Pre-fill for editing
	if editing != nil {
		m.fields[customerFieldName].SetValue(editing.Name)
		m.fields[customerFieldAddress].SetValue(editing.Address)
		m.fields[customerFieldPhone].SetValue(editing.Phone)
		m.fields[customerFieldEmail].SetValue(editing.Email)
		m.editingID = editing.ID
	} else {
		m.editingID = 0
	}

	m.fieldFocus = customerFieldName
	m.fields[customerFieldName].Focus()
}

func (m *CustomersModel) saveCustomer() tea.Cmd {
	fields := domain.CustomerFields{
		Name:    m.fields[customerFieldName].Value(),
		Address: m.fields[customerFieldAddress].Value(),
		Phone:   m.fields[customerFieldPhone].Value(),
		Email:   m.fields[customerFieldEmail].Value(),
	}
	editingID := m.editingID
	return func() tea.Msg {
		ctx := context.Background()
		if editingID > 0 {
			c, err := m.app.Customers.Update(ctx, editingID, fields)
			if err != nil {
				return customerSavedMsg{err: err}
			}
			return customerSavedMsg{name: c.Name}
		}
		c, err := m.app.Customers.Create(ctx, fields)
		if err != nil {
			return customerSavedMsg{err: err}
		}
		return customerSavedMsg{name: c.Name}
	}
}

func (m *CustomersModel) deleteCustomer(c *domain.Customer) tea.Cmd {
	return func() tea.Msg {
		err := m.app.Customers.Delete(context.Background(), c.ID)
		return customerDeletedMsg{name: c.Name, err: err}
	}
}

func (m *CustomersModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.loading = true
		return m, m.loadCustomers()

	case customersDataMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.customers = msg.customers
			if m.cursor >= len(m.customers) {
				m.cursor = max(0, len(m.customers)-1)
			}
			m.syncSelection()
		}
		return m, nil

	case customerSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.mode = customerModeList
		m.statusMsg = fmt.Sprintf("Saved: %s", msg.name)
		m.loading = true
		return m, m.loadCustomers()

	case customerDeletedMsg:
		m.mode = customerModeList
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.statusMsg = fmt.Sprintf("Deleted: %s", msg.name)
		m.loading = true
		return m, m.loadCustomers()
	}

	switch m.mode {
	case customerModeNew, customerModeEdit:
		return m.updateForm(msg)
	case customerModeSearch:
		return m.updateSearch(msg)
	case customerModeConfirmDelete:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			if keyMsg.String() == "y" {
				if c := m.current(); c != nil {
					return m, m.deleteCustomer(c)
				}
			}
			m.mode = customerModeList
		}
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.loading {
		return m, nil
	}

	m.statusMsg = ""
	m.err = nil

	switch {
	case key.Matches(keyMsg, DefaultKeyMap.Up):
		if m.cursor > 0 {
			m.cursor--
			m.syncSelection()
		}
	case key.Matches(keyMsg, DefaultKeyMap.Down):
		if m.cursor < len(m.customers)-1 {
			m.cursor++
			m.syncSelection()
		}
	case key.Matches(keyMsg, DefaultKeyMap.New):
		m.mode = customerModeNew
		m.initForm(nil)
		return m, m.fields[customerFieldName].Focus()
	case key.Matches(keyMsg, DefaultKeyMap.Select), key.Matches(keyMsg, DefaultKeyMap.Edit):
		if c := m.current(); c != nil {
			m.mode = customerModeEdit
			m.initForm(c)
			return m, m.fields[customerFieldName].Focus()
		}
	case key.Matches(keyMsg, DefaultKeyMap.Delete):
		if m.current() != nil {
			m.mode = customerModeConfirmDelete
		}
	case key.Matches(keyMsg, DefaultKeyMap.Search):
		m.mode = customerModeSearch
		return m, m.search.Focus()
	case key.Matches(keyMsg, DefaultKeyMap.Use):
		if c := m.current(); c != nil {
			label := c.Label()
			return m, func() tea.Msg { return UseCustomerMsg{Ref: label} }
		}
	}

	return m, nil
}

func (m *CustomersModel) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.search.SetValue("")
			m.search.Blur()
			m.mode = customerModeList
			return m, m.loadCustomers()
		case "enter":
			m.search.Blur()
			m.mode = customerModeList
			return m, nil
		}
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != before {
		m.cursor = 0
		return m, tea.Batch(cmd, m.loadCustomers())
	}
	return m, cmd
}

func (m *CustomersModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			// Cancel form
			m.mode = customerModeList
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
			if m.fieldFocus == customerFieldCount-1 {
				return m, m.saveCustomer()
			}
			var cmd tea.Cmd
			m.fieldFocus, cmd = moveFocus(m.fields, m.fieldFocus, 1)
			return m, cmd

		case "ctrl+s":
			return m, m.saveCustomer()
		}
	}

	// Update the focused text input
	var cmd tea.Cmd
	m.fields[m.fieldFocus], cmd = m.fields[m.fieldFocus].Update(msg)
	return m, cmd
}

func (m *CustomersModel) View() string {
	if m.mode == customerModeNew || m.mode == customerModeEdit {
		return m.viewForm()
	}
	return m.viewList()
}

func (m *CustomersModel) viewForm() string {
	var s string
	if m.mode == customerModeNew {
		s += titleStyle.Render("New Customer") + "\n\n"
	} else {
		s += titleStyle.Render("Edit Customer") + "\n\n"
	}

	s += renderForm([]string{"Name:", "Address:", "Phone:", "Email:"}, m.fields, m.fieldFocus)

	if m.err != nil {
		s += renderError(m.err) + "\n\n"
	}

	s += helpStyle.Render(formHelp)
	return s
}

func (m *CustomersModel) viewList() string {
	if m.loading && len(m.customers) == 0 {
		return "Loading customers..."
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render("Customers") + "\n\n")

	if m.mode == customerModeSearch || m.search.Value() != "" {
		s.WriteString("  Search: " + m.search.View() + "\n\n")
	}

	if m.statusMsg != "" {
		s.WriteString(statusStyle.Render("  "+m.statusMsg) + "\n\n")
	}
	if m.err != nil {
		s.WriteString(renderError(m.err) + "\n\n")
	}

	if m.mode == customerModeConfirmDelete {
		if c := m.current(); c != nil {
			s.WriteString(warningStyle.Render(fmt.Sprintf("  Delete %s? Past invoices keep their copy. [y/N]", c.Name)) + "\n\n")
		}
	}

	if len(m.customers) == 0 {
		if m.search.Value() != "" {
			s.WriteString(subtitleStyle.Render("  No customers match the search.") + "\n")
		} else {
			s.WriteString(subtitleStyle.Render("  No customers yet. Press 'n' to add one.") + "\n")
		}
		return s.String()
	}

	s.WriteString(tableHeadStyle.Render(fmt.Sprintf("  %-5s %-24s %-28s %-15s %-24s", "ID", "Name", "Address", "Phone", "Email")) + "\n")

	selected := make(map[int64]bool)
	for _, row := range m.app.Customers.Rows() {
		selected[row.ID] = row.Selected
	}
	for _, c := range m.customers {
		row := fmt.Sprintf("  %-5d %-24s %-28s %-15s %-24s",
			c.ID,
			truncateStr(c.Name, 24),
			truncateStr(domain.OrNA(c.Address), 28),
			truncateStr(domain.OrNA(c.Phone), 15),
			truncateStr(domain.OrNA(c.Email), 24),
		)
		if selected[c.ID] {
			s.WriteString(selectedStyle.Render(row) + "\n")
		} else {
			s.WriteString(row + "\n")
		}
	}

	s.WriteString("\n" + helpStyle.Render("  j/k: navigate  /: search  n: new  enter/e: edit  d: delete  u: use on invoice"))
	return s.String()
}
