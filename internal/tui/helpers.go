package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// formatMoney formats an amount as "<symbol>X,XXX.XX" with comma separators
func formatMoney(amount decimal.Decimal, symbol string) string {
	negative := amount.IsNegative()
	s := amount.Abs().StringFixed(2)

	// Split at decimal point
	dotPos := len(s) - 3
	intPart := s[:dotPos]
	decPart := s[dotPos:]

	// Add commas to integer part
	result := make([]byte, 0, len(intPart)+len(intPart)/3)
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, byte(c))
	}

	prefix := symbol
	if negative {
		prefix = "-" + symbol
	}
	return prefix + string(result) + decPart
}

// truncateStr truncates a string to the specified length with ellipsis
func truncateStr(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// newField builds a text input the way every form on every screen does
func newField(placeholder string, limit, width int) textinput.Model {
	f := textinput.New()
	f.Placeholder = placeholder
	f.CharLimit = limit
	f.Width = width
	return f
}

// renderForm draws labelled inputs with the focused one highlighted
func renderForm(labels []string, fields []textinput.Model, focus int) string {
	var b strings.Builder
	for i, label := range labels {
		indicator := "  "
		labelStyle := subtitleStyle
		if i == focus {
			indicator = "> "
			labelStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
		}
		fmt.Fprintf(&b, "%s%s\n  %s\n\n", indicator, labelStyle.Render(label), fields[i].View())
	}
	return b.String()
}

// formHelp is the shared key legend under every form
const formHelp = "  tab/shift+tab: navigate fields  ctrl+s: save  enter: next/save  esc: cancel"

// moveFocus blurs the current field and focuses the one delta steps away
func moveFocus(fields []textinput.Model, focus, delta int) (int, tea.Cmd) {
	fields[focus].Blur()
	focus = (focus + delta + len(fields)) % len(fields)
	return focus, fields[focus].Focus()
}

func renderError(err error) string {
	return errorStyle.Render(fmt.Sprintf("  Error: %v", err))
}
