// Package configview is the settings dialog for the backend endpoints.
//
// The dialog edits a draft copy of the configuration. Saving emits a
// Submitted message carrying only the changed fields; the dialog itself
// never persists anything.
package configview

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/signgen/internal/config"
	"github.com/abelbrown/signgen/internal/ui/styles"
)

// Submitted is sent when the user saves a changed draft.
type Submitted struct {
	Partial config.Partial
}

type fieldKind int

const (
	fieldText fieldKind = iota
	fieldToggle
)

type field struct {
	key   string // config key accepted by Partial.Set
	label string
	kind  fieldKind
	path  bool // show the resulting endpoint under the field
}

var fields = []field{
	{key: "url", label: "Server URL", kind: fieldText},
	{key: "port", label: "Port", kind: fieldText},
	{key: "createPath", label: "Create path", kind: fieldText, path: true},
	{key: "cganPath", label: "CGAN path", kind: fieldText, path: true},
	{key: "cvaePath", label: "CVAE path", kind: fieldText, path: true},
	{key: "fusedPath", label: "Fused path", kind: fieldText, path: true},
	{key: "performancePath", label: "Performance path", kind: fieldText, path: true},
	{key: "showCgan", label: "Show CGAN video", kind: fieldToggle},
	{key: "showCvae", label: "Show CVAE video", kind: fieldToggle},
	{key: "showFused", label: "Show Fused video", kind: fieldToggle},
	{key: "showPerformance", label: "Show performance metrics", kind: fieldToggle},
}

// Model is the config view
type Model struct {
	original config.Config
	draft    config.Config
	width    int
	height   int
	cursor   int
	editing  bool
	input    textinput.Model
	quitting bool
	saved    bool
	err      error
}

// New creates a config view editing a copy of cfg.
func New(cfg config.Config) Model {
	ti := textinput.New()
	ti.CharLimit = 200
	ti.Width = 60

	return Model{
		original: cfg,
		draft:    cfg,
		input:    ti,
	}
}

// SetSize updates dimensions
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.editing {
		return m.updateEditing(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.err = nil
		switch msg.String() {
		case "q", "esc":
			m.quitting = true
			return m, nil

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.cursor < len(fields)-1 {
				m.cursor++
			}

		case "enter", " ":
			return m.handleSelect()

		case "d":
			// Restore defaults in the draft; still needs a save.
			m.draft = config.Defaults()

		case "u":
			// Undo all unsaved edits
			m.draft = m.original

		case "s", "ctrl+s":
			if !m.Dirty() {
				return m, nil
			}
			if err := config.Validate(m.draft); err != nil {
				m.err = errors.New("not saved: check the url (http://host), port (digits) and paths (no spaces)")
				return m, nil
			}
			p := config.Diff(m.original, m.draft)
			m.original = m.draft
			m.saved = true
			return m, func() tea.Msg { return Submitted{Partial: p} }
		}

	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	}

	return m, nil
}

func (m Model) updateEditing(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.editing = false
			m.input.Reset()
			return m, nil

		case "enter":
			if err := m.set(fields[m.cursor].key, m.input.Value()); err != nil {
				m.err = err
			}
			m.editing = false
			m.input.Reset()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleSelect() (Model, tea.Cmd) {
	f := fields[m.cursor]
	switch f.kind {
	case fieldToggle:
		if err := m.set(f.key, fmt.Sprint(!m.flag(f.key))); err != nil {
			m.err = err
		}
		return m, nil
	default:
		m.editing = true
		m.input.SetValue(m.text(f.key))
		m.input.CursorEnd()
		m.input.Focus()
		m.input.Placeholder = f.label
		return m, textinput.Blink
	}
}

func (m *Model) set(key, value string) error {
	var p config.Partial
	if err := p.Set(key, value); err != nil {
		return err
	}
	m.draft = m.draft.Merge(p)
	m.saved = false
	return nil
}

func (m Model) text(key string) string {
	switch key {
	case "url":
		return m.draft.URL
	case "port":
		return m.draft.Port
	case "createPath":
		return m.draft.CreatePath
	case "cganPath":
		return m.draft.PathFor(config.KindCGAN)
	case "cvaePath":
		return m.draft.PathFor(config.KindCVAE)
	case "fusedPath":
		return m.draft.PathFor(config.KindFused)
	case "performancePath":
		return m.draft.PathFor(config.KindMetrics)
	}
	return ""
}

func (m Model) flag(key string) bool {
	switch key {
	case "showCgan":
		return m.draft.Shows(config.KindCGAN)
	case "showCvae":
		return m.draft.Shows(config.KindCVAE)
	case "showFused":
		return m.draft.Shows(config.KindFused)
	case "showPerformance":
		return m.draft.Shows(config.KindMetrics)
	}
	return false
}

// View renders the config UI
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Backend Settings"))
	b.WriteString("\n")
	b.WriteString(styles.Help.Render("Endpoints are built as url:port/path"))
	b.WriteString("\n\n")

	for i, f := range fields {
		cursor := "  "
		if i == m.cursor {
			cursor = "▶ "
		}

		var line string
		switch f.kind {
		case fieldToggle:
			checkbox := "[ ]"
			checkStyle := styles.Help
			if m.flag(f.key) {
				checkbox = "[✓]"
				checkStyle = lipgloss.NewStyle().Foreground(styles.ColorAccentGreen)
			}
			line = fmt.Sprintf("%s%s %s", cursor, checkStyle.Render(checkbox), f.label)
		default:
			value := m.text(f.key)
			if value == "" {
				value = styles.Help.Render("(not set)")
			}
			line = fmt.Sprintf("%s%-18s %s", cursor, f.label, value)
		}

		if i == m.cursor {
			line = lipgloss.NewStyle().Foreground(styles.ColorTextPrimary).Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")

		if f.path && m.text(f.key) != "" {
			b.WriteString(styles.Help.Render("    " + m.draft.Endpoint(m.text(f.key))))
			b.WriteString("\n")
		}
	}

	if m.editing {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(styles.ColorAccentBlue).Render(fields[m.cursor].label + ":"))
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	status := ""
	switch {
	case m.err != nil:
		status = styles.ErrorText.Render("  " + m.err.Error())
	case m.saved:
		status = styles.SystemMessage.Render("  ✓ Settings saved")
	case m.Dirty():
		status = lipgloss.NewStyle().Foreground(styles.ColorWarning).Render("  unsaved changes")
	}

	save := "[s] save"
	if !m.Dirty() {
		save = "[s] save (no changes)"
	}
	help := styles.Help.Render("  [↑↓] navigate · [enter/space] edit/toggle · " + save + " · [u] undo · [d] defaults · [esc] close")

	inner := lipgloss.JoinVertical(lipgloss.Left,
		b.String(),
		status,
		help,
	)
	return styles.Box(m.width, m.height).Render(inner)
}

// Dirty reports whether the draft differs from the last saved record.
func (m Model) Dirty() bool {
	return config.Fingerprint(m.draft) != config.Fingerprint(m.original)
}

// Draft returns the record being edited (for testing).
func (m Model) Draft() config.Config {
	return m.draft
}

// IsQuitting returns true if user wants to close
func (m Model) IsQuitting() bool {
	return m.quitting
}

// ResetQuitting resets the quitting state
func (m *Model) ResetQuitting() {
	m.quitting = false
	m.saved = false
}
