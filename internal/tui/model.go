package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/andy/invoicer/internal/app"
	"github.com/andy/invoicer/internal/service"
)

// Screen represents the current active screen
type Screen int

const (
	ScreenInvoice Screen = iota
	ScreenCustomers
	ScreenProducts
	ScreenArchive
	ScreenHistory
	ScreenSettings
)

// String returns the screen name
func (s Screen) String() string {
	switch s {
	case ScreenInvoice:
		return "New Invoice"
	case ScreenCustomers:
		return "Customers"
	case ScreenProducts:
		return "Products"
	case ScreenArchive:
		return "Invoice Archive"
	case ScreenHistory:
		return "History"
	case ScreenSettings:
		return "Settings"
	default:
		return "Unknown"
	}
}

// Model is the root Bubble Tea model
type Model struct {
	app           *app.App
	builder       *service.InvoiceBuilder
	currentScreen Screen
	width         int
	height        int

	// Screen models (lazy initialized)
	invoice   tea.Model
	customers tea.Model
	products  tea.Model
	archive   tea.Model
	history   tea.Model
	settings  tea.Model

	// First-run state
	checkedFirstRun bool

	// Error state
	err         error
	quitMsg     string // shown when quit is blocked
	quitPending bool
}

// New creates a new root model
func New(a *app.App) Model {
	builder := a.NewBuilder()
	return Model{
		app:           a,
		builder:       builder,
		currentScreen: ScreenInvoice,
		invoice:       NewInvoiceModel(a, builder),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.checkFirstRun(),
	}
	if m.invoice != nil {
		cmds = append(cmds, m.invoice.Init())
	}
	return tea.Batch(cmds...)
}

// checkFirstRun checks if any products exist in the database
func (m *Model) checkFirstRun() tea.Cmd {
	return func() tea.Msg {
		n, err := m.app.Products.Count(context.Background())
		if err != nil {
			return firstRunCheckMsg{hasProducts: true} // assume yes on error
		}
		return firstRunCheckMsg{hasProducts: n > 0}
	}
}

// initScreen lazy-initializes a screen on first visit,
// and sends a RefreshDataMsg on subsequent visits so screens reload data.
func (m *Model) initScreen(screen Screen) tea.Cmd {
	refresh := func() tea.Msg { return RefreshDataMsg{} }
	switch screen {
	case ScreenInvoice:
		if m.invoice == nil {
			m.invoice = NewInvoiceModel(m.app, m.builder)
			return m.invoice.Init()
		}
		return refresh
	case ScreenCustomers:
		if m.customers == nil {
			m.customers = NewCustomersModel(m.app)
			return m.customers.Init()
		}
		return refresh
	case ScreenProducts:
		if m.products == nil {
			m.products = NewProductsModel(m.app)
			return m.products.Init()
		}
		return refresh
	case ScreenArchive:
		if m.archive == nil {
			m.archive = NewArchiveModel(m.app)
			return m.archive.Init()
		}
		return refresh
	case ScreenHistory:
		if m.history == nil {
			m.history = NewHistoryModel(m.app)
			return m.history.Init()
		}
		return refresh
	case ScreenSettings:
		if m.settings == nil {
			m.settings = NewSettingsModel(m.app)
			return m.settings.Init()
		}
		return refresh
	}
	return nil
}

// InputCapturer is implemented by screens that capture keyboard input (e.g. text forms).
// When active, global navigation keys (I, C, P, A, H, Q) are suppressed.
type InputCapturer interface {
	IsCapturingInput() bool
}

// screenModel returns the model backing a screen, nil when not yet visited
func (m *Model) screenModel(s Screen) tea.Model {
	switch s {
	case ScreenInvoice:
		return m.invoice
	case ScreenCustomers:
		return m.customers
	case ScreenProducts:
		return m.products
	case ScreenArchive:
		return m.archive
	case ScreenHistory:
		return m.history
	case ScreenSettings:
		return m.settings
	}
	return nil
}

func (m *Model) setScreenModel(s Screen, sm tea.Model) {
	switch s {
	case ScreenInvoice:
		m.invoice = sm
	case ScreenCustomers:
		m.customers = sm
	case ScreenProducts:
		m.products = sm
	case ScreenArchive:
		m.archive = sm
	case ScreenHistory:
		m.history = sm
	case ScreenSettings:
		m.settings = sm
	}
}

// activeScreenCapturingInput returns true if the current screen is capturing text input
func (m *Model) activeScreenCapturingInput() bool {
	if ic, ok := m.screenModel(m.currentScreen).(InputCapturer); ok {
		return ic.IsCapturingInput()
	}
	return false
}

func (m *Model) switchTo(s Screen) tea.Cmd {
	m.currentScreen = s
	return m.initScreen(s)
}

// sendTo delivers msg to a screen that may not be the current one
func (m *Model) sendTo(s Screen, msg tea.Msg) tea.Cmd {
	sm := m.screenModel(s)
	if sm == nil {
		return nil
	}
	sm, cmd := sm.Update(msg)
	m.setScreenModel(s, sm)
	return cmd
}

// Update implements tea.Model - routes keys to screens
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		// Clear quit warning on any keypress
		m.quitMsg = ""

		// Skip global navigation when a screen is capturing text input
		if !m.activeScreenCapturingInput() {
			if !key.Matches(msg, DefaultKeyMap.Quit) {
				m.quitPending = false
			}

			// Global key handlers (screen navigation)
			switch {
			case key.Matches(msg, DefaultKeyMap.Quit):
				if n := m.builder.Len(); n > 0 && !m.quitPending && msg.String() != "ctrl+c" {
					m.quitPending = true
					m.quitMsg = fmt.Sprintf("The current invoice has %d unsaved line(s). Press q again to quit.", n)
					return m, nil
				}
				return m, tea.Quit

			case key.Matches(msg, DefaultKeyMap.Invoice):
				return m, m.switchTo(ScreenInvoice)

			case key.Matches(msg, DefaultKeyMap.Customers):
				return m, m.switchTo(ScreenCustomers)

			case key.Matches(msg, DefaultKeyMap.Products):
				return m, m.switchTo(ScreenProducts)

			case key.Matches(msg, DefaultKeyMap.Archive):
				return m, m.switchTo(ScreenArchive)

			case key.Matches(msg, DefaultKeyMap.History):
				return m, m.switchTo(ScreenHistory)

			case key.Matches(msg, DefaultKeyMap.Settings):
				return m, m.switchTo(ScreenSettings)
			}
		}

	case firstRunCheckMsg:
		if !m.checkedFirstRun && !msg.hasProducts {
			m.checkedFirstRun = true
			initCmd := m.switchTo(ScreenProducts)
			openFormCmd := func() tea.Msg { return OpenNewProductFormMsg{} }
			return m, tea.Batch(initCmd, openFormCmd)
		}
		m.checkedFirstRun = true
		return m, nil

	case SwitchScreenMsg:
		return m, m.switchTo(msg.Screen)

	case UseCustomerMsg, UseProductMsg:
		initCmd := m.switchTo(ScreenInvoice)
		return m, tea.Batch(initCmd, m.sendTo(ScreenInvoice, msg))

	case ErrorMsg:
		m.err = msg.Err
		return m, nil
	}

	// Route message to current screen
	return m, m.sendTo(m.currentScreen, msg)
}

// View implements tea.Model - renders header + current screen + footer
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	// Header
	header := headerStyle.Render(fmt.Sprintf("invoicer - %s", m.currentScreen.String()))

	// Footer with navigation keys
	footer := footerStyle.Render("[I]nvoice  [C]ustomers  [P]roducts  [A]rchive  [H]istory  [,] Settings  [Q]uit")

	// Current screen content
	content := "Loading..."
	if sm := m.screenModel(m.currentScreen); sm != nil {
		content = sm.View()
	}

	// Error/warning display
	errorDisplay := ""
	if m.quitMsg != "" {
		errorDisplay = lipgloss.NewStyle().
			Foreground(warningColor).
			Render(fmt.Sprintf("\n%s", m.quitMsg))
	} else if m.err != nil {
		errorDisplay = lipgloss.NewStyle().
			Foreground(errorColor).
			Render(fmt.Sprintf("\nError: %s", m.err.Error()))
	}

	// Divider line between header and content
	innerWidth := m.width - 6 // account for border (2) + padding (4)
	if innerWidth < 20 {
		innerWidth = 20
	}
	dividerWidth := innerWidth - 12
	if dividerWidth < 10 {
		dividerWidth = 10
	}
	divider := lipgloss.NewStyle().Foreground(borderColor).Render(
		strings.Repeat("─", dividerWidth),
	)

	body := fmt.Sprintf("%s\n%s\n\n%s%s\n\n%s\n%s", header, divider, content, errorDisplay, divider, footer)

	// Wrap in border, sized to terminal
	frame := appBorderStyle.
		Width(innerWidth).
		Height(m.height - 4) // leave room for border top/bottom
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, frame.Render(body))
}

// Run starts the TUI
func Run(a *app.App) error {
	p := tea.NewProgram(New(a), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
