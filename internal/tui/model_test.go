package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"vecviz/internal/geometry/vector"
	"vecviz/internal/input"
	"vecviz/internal/session"
)

func newModel(t *testing.T) (Model, *session.Session, *time.Time) {
	t.Helper()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	opts := session.DefaultOptions()
	opts.Now = func() time.Time { return now }
	s := session.New(opts)
	return New(s), s, &now
}

func press(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	return press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func enter(t *testing.T, m Model) Model {
	t.Helper()
	return press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
}

func TestNewSeedsFields(t *testing.T) {
	m, _, _ := newModel(t)
	if got := m.inputs[fieldVector].Value(); got != "1,2,1" {
		t.Errorf("vector field = %q", got)
	}
	if got := m.inputs[fieldMatrix].Value(); got != "1,0,0,0,1,0,0,0,1" {
		t.Errorf("matrix field = %q", got)
	}
	if m.Focused() != input.FieldVector || !m.inputs[fieldVector].Focused() {
		t.Error("vector field should start focused")
	}
}

func TestTypingEditsSessionText(t *testing.T) {
	m, s, _ := newModel(t)
	m = typeText(t, m, ",9")
	if s.VectorText() != "1,2,1,9" {
		t.Errorf("session vector text = %q", s.VectorText())
	}
	if s.Vector() != (vector.Vec3{X: 1, Y: 2, Z: 1}) {
		t.Error("typing must not commit the vector")
	}
	_ = m
}

func TestEnterTransforms(t *testing.T) {
	m, s, _ := newModel(t)
	m.inputs[fieldVector].SetValue("3,4,0")
	m.inputs[fieldMatrix].SetValue("2,0,0,0,2,0,0,0,2")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if cmd == nil {
		t.Error("expected a dismissal command")
	}
	if s.Transformed() != (vector.Vec3{X: 6, Y: 8}) {
		t.Errorf("transformed = %v", s.Transformed())
	}
	view := m.View()
	if !strings.Contains(view, session.MsgTransformed) {
		t.Errorf("view missing success notification:\n%s", view)
	}
	if !strings.Contains(view, "(6, 8, 0)") {
		t.Errorf("view missing transformed vector:\n%s", view)
	}
}

func TestRejectionMovesFocus(t *testing.T) {
	m, s, _ := newModel(t)
	m.inputs[fieldMatrix].SetValue("1,0,0,0,1,0,0,0")

	m = enter(t, m)
	if m.Focused() != input.FieldMatrix || !m.inputs[fieldMatrix].Focused() || m.inputs[fieldVector].Focused() {
		t.Errorf("focus = %v after matrix rejection", m.Focused())
	}
	if s.Focus() != input.FieldNone {
		t.Error("focus request not cleared")
	}
	view := m.View()
	if !strings.Contains(view, "Invalid matrix input. Please enter 9 numerical values separated by commas.") {
		t.Errorf("view missing matrix error:\n%s", view)
	}
	if !strings.Contains(view, "found 8 values") {
		t.Errorf("view missing detail:\n%s", view)
	}

	// both invalid: vector wins
	m.inputs[fieldVector].SetValue("a,b")
	m = enter(t, m)
	if m.Focused() != input.FieldVector {
		t.Errorf("focus = %v, want vector", m.Focused())
	}
	if view := m.View(); !strings.Contains(view, "Invalid vector input.") || strings.Contains(view, "Invalid matrix input.") {
		t.Errorf("only the vector error should show:\n%s", view)
	}
}

func TestDismissal(t *testing.T) {
	m, _, now := newModel(t)
	m = enter(t, m)
	seq := m.shown
	if seq == 0 {
		t.Fatal("no notification shown")
	}

	// a stale dismissal from an older notification is ignored
	m = press(t, m, dismissMsg{seq: seq - 1})
	if !strings.Contains(m.View(), session.MsgTransformed) {
		t.Error("stale dismissal hid the notification")
	}

	*now = now.Add(session.DefaultNotifyLifetime)
	m = press(t, m, dismissMsg{seq: seq})
	if strings.Contains(m.View(), session.MsgTransformed) {
		t.Error("notification still visible after dismissal")
	}
}

func TestSettingKeys(t *testing.T) {
	m, s, _ := newModel(t)
	gen := s.Scene().Generation

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlG})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlB})
	st := s.Settings()
	if st.Grid || st.Breakdown || !st.Labels || !st.TransformedGrid {
		t.Errorf("settings = %+v", st)
	}
	if s.Scene().Generation != gen+2 {
		t.Errorf("generation = %d, want %d", s.Scene().Generation, gen+2)
	}
	if !strings.Contains(m.View(), "grid off") {
		t.Errorf("view does not reflect settings:\n%s", m.View())
	}
}

func TestTabSwitchesField(t *testing.T) {
	m, _, _ := newModel(t)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.Focused() != input.FieldMatrix {
		t.Errorf("focus = %v after tab", m.Focused())
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.Focused() != input.FieldVector {
		t.Errorf("focus = %v after shift+tab", m.Focused())
	}
}
