package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/andy/invoicer/internal/app"
	"github.com/andy/invoicer/internal/domain"
)

type settingsMode int

const (
	settingsModeView settingsMode = iota
	settingsModeEdit
)

// settings form field indices
const (
	settingsFieldArchiveDir = iota
	settingsFieldTitle
	settingsFieldFooter
	settingsFieldCurrency
	settingsFieldPriceType
	settingsFieldCount
)

type settingsSavedMsg struct {
	restart bool
	err     error
}

// SettingsModel manages the settings screen
type SettingsModel struct {
	app        *app.App
	mode       settingsMode
	fields     []textinput.Model
	fieldFocus int
	err        error
	statusMsg  string
}

// NewSettingsModel creates a new settings screen
func NewSettingsModel(a *app.App) tea.Model {
	return &SettingsModel{
		app:  a,
		mode: settingsModeView,
	}
}

// IsCapturingInput returns true when the edit form is active
func (m *SettingsModel) IsCapturingInput() bool {
	return m.mode == settingsModeEdit
}

func (m *SettingsModel) Init() tea.Cmd {
	return nil
}

func (m *SettingsModel) initForm() {
	m.fields = make([]textinput.Model, settingsFieldCount)
	cfg := m.app.Config.Invoice

	m.fields[settingsFieldArchiveDir] = newField("/path/to/invoices", 256, 60)
	m.fields[settingsFieldArchiveDir].SetValue(cfg.ArchiveDir)

	m.fields[settingsFieldTitle] = newField("INVOICE", 60, 30)
	m.fields[settingsFieldTitle].SetValue(cfg.Title)

	m.fields[settingsFieldFooter] = newField("Thank you for your business!", 200, 60)
	m.fields[settingsFieldFooter].SetValue(cfg.Footer)

	m.fields[settingsFieldCurrency] = newField("₹", 5, 10)
	m.fields[settingsFieldCurrency].SetValue(cfg.CurrencySymbol)

	m.fields[settingsFieldPriceType] = newField("retail", 10, 12)
	m.fields[settingsFieldPriceType].SetValue(cfg.DefaultPriceType)

	m.fieldFocus = settingsFieldArchiveDir
	m.fields[settingsFieldArchiveDir].Focus()
}

func (m *SettingsModel) saveSettings() tea.Cmd {
	archiveDir := strings.TrimSpace(m.fields[settingsFieldArchiveDir].Value())
	title := strings.TrimSpace(m.fields[settingsFieldTitle].Value())
	footer := strings.TrimSpace(m.fields[settingsFieldFooter].Value())
	currency := strings.TrimSpace(m.fields[settingsFieldCurrency].Value())
	priceType := m.fields[settingsFieldPriceType].Value()

	return func() tea.Msg {
		if archiveDir == "" {
			return settingsSavedMsg{err: fmt.Errorf("archive directory is required")}
		}
		pt, err := domain.ParsePriceType(priceType)
		if err != nil {
			return settingsSavedMsg{err: err}
		}

		cfg := m.app.Config
		restart := archiveDir != cfg.Invoice.ArchiveDir
		cfg.Invoice.ArchiveDir = archiveDir
		cfg.Invoice.Title = title
		cfg.Invoice.Footer = footer
		cfg.Invoice.CurrencySymbol = currency
		cfg.Invoice.DefaultPriceType = string(pt)

		if err := cfg.Validate(); err != nil {
			return settingsSavedMsg{err: err}
		}
		if err := m.app.SaveConfig(); err != nil {
			return settingsSavedMsg{err: fmt.Errorf("failed to save config: %w", err)}
		}
		m.app.Renderer.SetText(title, footer)
		return settingsSavedMsg{restart: restart}
	}
}

func (m *SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.mode == settingsModeEdit {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.err = nil
		if msg.String() == "enter" {
			m.mode = settingsModeEdit
			m.statusMsg = ""
			m.initForm()
			return m, m.fields[m.fieldFocus].Focus()
		}
	}

	return m, nil
}

func (m *SettingsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case settingsSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.mode = settingsModeView
		m.statusMsg = "Settings saved"
		if msg.restart {
			m.statusMsg += " (restart invoicer to use the new archive directory)"
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.mode = settingsModeView
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
			if m.fieldFocus == settingsFieldCount-1 {
				return m, m.saveSettings()
			}
			var cmd tea.Cmd
			m.fieldFocus, cmd = moveFocus(m.fields, m.fieldFocus, 1)
			return m, cmd

		case "ctrl+s":
			return m, m.saveSettings()
		}
	}

	// Update the focused text input
	var cmd tea.Cmd
	m.fields[m.fieldFocus], cmd = m.fields[m.fieldFocus].Update(msg)
	return m, cmd
}

func (m *SettingsModel) View() string {
	if m.mode == settingsModeEdit {
		return m.viewForm()
	}
	return m.viewSettings()
}

func (m *SettingsModel) viewSettings() string {
	var s string
	s += titleStyle.Render("Settings") + "\n\n"

	if m.statusMsg != "" {
		s += statusStyle.Render("  "+m.statusMsg) + "\n\n"
	}

	cfg := m.app.Config

	labelStyle := lipgloss.NewStyle().Bold(true).Width(22)
	valueStyle := lipgloss.NewStyle().Foreground(primaryColor)
	row := func(label, value string) string {
		return fmt.Sprintf("  %s %s\n", labelStyle.Render(label), valueStyle.Render(value))
	}

	s += subtitleStyle.Render("  Invoice Settings") + "\n\n"
	s += row("Archive Directory:", cfg.Invoice.ArchiveDir)
	s += row("Title:", cfg.Invoice.Title)
	s += row("Footer:", cfg.Invoice.Footer)
	s += row("Currency Symbol:", cfg.Invoice.CurrencySymbol)
	s += row("Default Price Type:", domain.PriceType(cfg.Invoice.DefaultPriceType).Title())

	s += "\n" + subtitleStyle.Render("  Storage") + "\n\n"
	s += row("Database:", cfg.Database.Path)
	s += row("Log File:", cfg.Log.File)
	s += row("Log Level:", cfg.Log.Level)

	s += "\n" + helpStyle.Render("  enter: edit settings")

	return s
}

func (m *SettingsModel) viewForm() string {
	var s string
	s += titleStyle.Render("Edit Settings") + "\n\n"

	labels := []string{"Archive Directory:", "Title:", "Footer:", "Currency Symbol:", "Default Price Type (wholesale/retail):"}
	s += renderForm(labels, m.fields, m.fieldFocus)

	if m.err != nil {
		s += renderError(m.err) + "\n\n"
	}

	s += helpStyle.Render(formHelp)

	return s
}
