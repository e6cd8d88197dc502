package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/andy/invoicer/internal/app"
	"github.com/andy/invoicer/internal/archive"
	"github.com/andy/invoicer/internal/domain"
)

// ArchiveModel lists rendered invoice documents newest first
type ArchiveModel struct {
	app       *app.App
	entries   []archive.Entry
	selection domain.Selection[string]
	cursor    int
	loading   bool
	confirm   bool
	err       error
	statusMsg string
}

type archiveDataMsg struct {
	entries []archive.Entry
	err     error
}

// NewArchiveModel creates the archive screen
func NewArchiveModel(a *app.App) tea.Model {
	return &ArchiveModel{app: a, loading: true}
}

// IsCapturingInput returns true while the delete prompt is shown
func (m *ArchiveModel) IsCapturingInput() bool {
	return m.confirm
}

func (m *ArchiveModel) Init() tea.Cmd {
	return m.loadEntries()
}

func (m *ArchiveModel) loadEntries() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.app.Archive.List()
		return archiveDataMsg{entries: entries, err: err}
	}
}

func (m *ArchiveModel) syncSelection() {
	if m.cursor < len(m.entries) {
		m.selection.Select(m.entries[m.cursor].FileName)
	}
}

func (m *ArchiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.loading = true
		return m, m.loadEntries()

	case archiveDataMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.entries = msg.entries
			names := make([]string, len(m.entries))
			for i, e := range m.entries {
				names[i] = e.FileName
			}
			m.selection.Reset(names)
			if m.cursor >= len(m.entries) {
				m.cursor = max(0, len(m.entries)-1)
			}
			m.syncSelection()
		}
		return m, nil

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}

		if m.confirm {
			m.confirm = false
			name, ok := m.selection.Selected()
			if msg.String() != "y" || !ok {
				return m, nil
			}
			if err := m.app.Archive.Delete(name); err != nil {
				m.err = err
				return m, nil
			}
			m.selection.Remove(name)
			m.statusMsg = fmt.Sprintf("Deleted %s", name)
			m.loading = true
			return m, m.loadEntries()
		}

		m.statusMsg = ""
		m.err = nil

		switch {
		case key.Matches(msg, DefaultKeyMap.Up):
			if m.cursor > 0 {
				m.cursor--
				m.syncSelection()
			}
		case key.Matches(msg, DefaultKeyMap.Down):
			if m.cursor < len(m.entries)-1 {
				m.cursor++
				m.syncSelection()
			}
		case key.Matches(msg, DefaultKeyMap.Select), key.Matches(msg, DefaultKeyMap.Open):
			if name, ok := m.selection.Selected(); ok {
				if err := m.app.Archive.Open(name); err != nil {
					m.err = err
				} else {
					m.statusMsg = fmt.Sprintf("Opened %s", name)
				}
			}
		case key.Matches(msg, DefaultKeyMap.Delete):
			if _, ok := m.selection.Selected(); ok {
				m.confirm = true
			}
		case msg.String() == "r":
			m.loading = true
			return m, m.loadEntries()
		}
	}

	return m, nil
}

func (m *ArchiveModel) View() string {
	if m.loading && len(m.entries) == 0 {
		return "Loading archive..."
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render("Invoice Archive") + subtitleStyle.Render("  "+m.app.Archive.Dir()) + "\n\n")

	if m.statusMsg != "" {
		s.WriteString(statusStyle.Render("  "+m.statusMsg) + "\n\n")
	}
	if m.err != nil {
		s.WriteString(renderError(m.err) + "\n\n")
	}
	if m.confirm {
		name, _ := m.selection.Selected()
		s.WriteString(warningStyle.Render(fmt.Sprintf("  Delete %s? [y/N]", name)) + "\n\n")
	}

	if len(m.entries) == 0 {
		s.WriteString(subtitleStyle.Render("  No invoices yet. Generate one from the invoice screen (i).") + "\n")
		return s.String()
	}

	s.WriteString(tableHeadStyle.Render(fmt.Sprintf("  %-12s %-10s %-6s %-32s %10s", "Date", "Time", "Type", "File", "Size")) + "\n")
	for _, row := range m.selection.Rows() {
		e := m.entryByName(row.ID)
		line := fmt.Sprintf("  %-12s %-10s %-6s %-32s %10s",
			e.Date(),
			e.Time(),
			strings.ToUpper(strings.TrimPrefix(extOf(e.FileName), ".")),
			e.FileName,
			formatSize(e.Size),
		)
		if row.Selected {
			s.WriteString(selectedStyle.Render(line) + "\n")
		} else {
			s.WriteString(line + "\n")
		}
	}

	s.WriteString("\n" + helpStyle.Render("  j/k: navigate  enter/o: open  d: delete  r: refresh"))
	return s.String()
}

func (m *ArchiveModel) entryByName(name string) archive.Entry {
	for _, e := range m.entries {
		if e.FileName == name {
			return e
		}
	}
	return archive.Entry{FileName: name}
}

func extOf(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i:]
	}
	return ""
}

// formatSize renders a byte count as B, KB or MB
func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
