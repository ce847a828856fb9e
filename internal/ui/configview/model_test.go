package configview

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/signgen/internal/config"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m Model, keys ...string) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		m, cmd = m.Update(key(k))
	}
	return m, cmd
}

// moveTo puts the cursor on the field with the given key.
func moveTo(t *testing.T, m Model, fieldKey string) Model {
	t.Helper()
	for i, f := range fields {
		if f.key == fieldKey {
			for m.cursor < i {
				m, _ = m.Update(key("down"))
			}
			return m
		}
	}
	t.Fatalf("no field %q", fieldKey)
	return m
}

func TestSaveDisabledWithoutChanges(t *testing.T) {
	m := New(config.Defaults())
	if m.Dirty() {
		t.Fatal("fresh view should not be dirty")
	}
	if _, cmd := press(m, "s"); cmd != nil {
		t.Error("save without changes should not submit")
	}
}

func TestToggleAndSubmitDiff(t *testing.T) {
	m := New(config.Defaults())
	m = moveTo(t, m, "showPerformance")
	m, _ = press(m, " ")

	if !m.Draft().ShowPerformance || !m.Dirty() {
		t.Fatalf("toggle did not change draft: %+v", m.Draft())
	}

	m, cmd := press(m, "s")
	if cmd == nil {
		t.Fatal("save should submit")
	}
	sub, ok := cmd().(Submitted)
	if !ok {
		t.Fatalf("expected Submitted, got %T", cmd())
	}
	if sub.Partial.ShowPerformance == nil || !*sub.Partial.ShowPerformance {
		t.Error("partial should carry showPerformance")
	}
	if sub.Partial.URL != nil || sub.Partial.ShowCGAN != nil {
		t.Errorf("partial should carry only changed fields: %+v", sub.Partial)
	}
	if m.Dirty() {
		t.Error("view should be clean after save")
	}
}

func TestEditTextField(t *testing.T) {
	m := New(config.Defaults())
	m = moveTo(t, m, "port")
	m, _ = press(m, "enter")
	if !m.editing {
		t.Fatal("enter on a text field should start editing")
	}
	m.input.SetValue("7000")
	m, _ = press(m, "enter")

	if m.Draft().Port != "7000" || m.editing {
		t.Errorf("edit not applied: port=%q editing=%v", m.Draft().Port, m.editing)
	}
	if !strings.Contains(m.View(), "http://localhost:7000/create-videos") {
		t.Error("view should preview the endpoint with the new port")
	}
}

func TestSaveRefusesInvalidPort(t *testing.T) {
	m := New(config.Defaults())
	m = moveTo(t, m, "port")
	m, _ = press(m, "enter")
	m.input.SetValue("abc")
	m, _ = press(m, "enter")

	m, cmd := press(m, "s")
	if cmd != nil {
		t.Fatal("an invalid draft must not be submitted")
	}
	if m.saved || !m.Dirty() {
		t.Error("draft should stay unsaved")
	}
	if !strings.Contains(m.View(), "not saved") {
		t.Error("view should explain why the save was refused")
	}
}

func TestEscCancelsEdit(t *testing.T) {
	m := New(config.Defaults())
	m, _ = press(m, "enter")
	m.input.SetValue("http://elsewhere")
	m, _ = press(m, "esc")
	if m.Draft().URL != "http://localhost" {
		t.Errorf("cancelled edit leaked into draft: %q", m.Draft().URL)
	}
	if m.IsQuitting() {
		t.Error("esc while editing should not close the view")
	}
}

func TestUndoAndDefaults(t *testing.T) {
	cfg := config.Defaults()
	cfg.Port = "9999"
	m := New(cfg)

	m, _ = press(m, "d")
	if m.Draft() != config.Defaults() || !m.Dirty() {
		t.Error("d should load defaults into the draft")
	}
	m, _ = press(m, "u")
	if m.Draft() != cfg || m.Dirty() {
		t.Error("u should restore the saved record")
	}
}

func TestQuit(t *testing.T) {
	m := New(config.Defaults())
	m, _ = press(m, "q")
	if !m.IsQuitting() {
		t.Fatal("q should quit")
	}
	m.ResetQuitting()
	if m.IsQuitting() {
		t.Error("ResetQuitting should clear the flag")
	}
}
