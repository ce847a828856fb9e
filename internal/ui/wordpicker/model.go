// Package wordpicker is the word selection dialog: a text input with fuzzy
// suggestions from the built-in vocabulary and recently generated words.
package wordpicker

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/abelbrown/signgen/internal/ui/styles"
	"github.com/abelbrown/signgen/internal/word"
)

// maxSuggestions bounds the visible suggestion list.
const maxSuggestions = 10

// Chosen is sent when the user picks a word.
type Chosen struct {
	Word string
}

type option struct {
	word   string
	custom bool // "Use <input>" entry
	recent bool
}

// Model is the word picker.
type Model struct {
	input    textinput.Model
	vocab    []string
	recent   []string
	options  []option
	cursor   int
	width    int
	height   int
	quitting bool
}

// New creates a picker suggesting from vocab.
func New(vocab []string) Model {
	ti := textinput.New()
	ti.Placeholder = "Type a word..."
	ti.CharLimit = 64
	ti.Width = 40
	ti.Focus()

	m := Model{input: ti, vocab: vocab}
	m.refresh()
	return m
}

// SetRecent replaces the recently used words shown first.
func (m *Model) SetRecent(words []string) {
	m.recent = words
	m.refresh()
}

// SetSize updates dimensions
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Init starts the cursor blinking.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc", "ctrl+c":
			m.quitting = true
			return m, nil

		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case "down", "ctrl+n", "tab":
			if m.cursor < len(m.options)-1 {
				m.cursor++
			}
			return m, nil

		case "enter":
			if m.cursor >= len(m.options) {
				return m, nil
			}
			w := m.options[m.cursor].word
			m.quitting = true
			return m, func() tea.Msg { return Chosen{Word: w} }
		}
	}

	prev := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != prev {
		m.refresh()
	}
	return m, cmd
}

// candidates lists recent words first, then the vocabulary, without duplicates.
func (m Model) candidates() ([]string, map[string]bool) {
	seen := make(map[string]bool, len(m.recent)+len(m.vocab))
	recent := make(map[string]bool, len(m.recent))
	out := make([]string, 0, len(m.recent)+len(m.vocab))
	for _, w := range m.recent {
		if !seen[w] {
			seen[w] = true
			recent[w] = true
			out = append(out, w)
		}
	}
	for _, w := range m.vocab {
		if !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}
	return out, recent
}

func (m *Model) refresh() {
	cands, recent := m.candidates()
	query, hasQuery := word.Normalize(m.input.Value())

	var opts []option
	if !hasQuery {
		for _, w := range cands {
			opts = append(opts, option{word: w, recent: recent[w]})
		}
	} else {
		for _, match := range fuzzy.Find(query, cands) {
			opts = append(opts, option{word: match.Str, recent: recent[match.Str]})
		}
	}
	if len(opts) > maxSuggestions {
		opts = opts[:maxSuggestions]
	}

	if hasQuery {
		exact := false
		for _, o := range opts {
			if o.word == query {
				exact = true
				break
			}
		}
		if !exact {
			opts = append(opts, option{word: query, custom: true})
		}
	}

	m.options = opts
	if m.cursor >= len(m.options) {
		m.cursor = max(len(m.options)-1, 0)
	}
}

// View renders the picker
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Select a word"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if len(m.options) == 0 {
		b.WriteString(styles.Help.Render("  No suggestions"))
		b.WriteString("\n")
	}
	for i, o := range m.options {
		cursor := "  "
		if i == m.cursor {
			cursor = "▶ "
		}

		label := o.word
		switch {
		case o.custom:
			label = fmt.Sprintf("+ Use %q", o.word)
		case o.recent:
			label = o.word + styles.Help.Render("  recent")
		}

		line := cursor + label
		if i == m.cursor {
			line = lipgloss.NewStyle().Foreground(styles.ColorAccentBlue).Bold(true).Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.Help.Render("[↑↓] choose · [enter] select · [esc] cancel"))
	return styles.Box(m.width, 0).Render(b.String())
}

// Suggestions returns the words currently offered (for testing).
func (m Model) Suggestions() []string {
	out := make([]string, len(m.options))
	for i, o := range m.options {
		out[i] = o.word
	}
	return out
}

// IsQuitting returns true if the picker should close.
func (m Model) IsQuitting() bool {
	return m.quitting
}
