// Package tui is a terminal shell over a session: two text fields for the
// vector and matrix, Enter to transform, a notification line, the math
// readout and a summary of the scene.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"vecviz/internal/input"
	"vecviz/internal/session"
)

const (
	fieldVector = iota
	fieldMatrix
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#aaaaaa"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff00")).Bold(true)
	dangerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff0000")).Bold(true)
	vectorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff"))
	resultStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff0000"))
	hintStyle    = lipgloss.NewStyle().Faint(true)
)

// dismissMsg fires when the notification with seq should disappear.
type dismissMsg struct{ seq uint64 }

// settingKeys maps control keys to the display settings they toggle.
var settingKeys = map[string]string{
	"ctrl+g": "grid",
	"ctrl+t": "transformed_grid",
	"ctrl+l": "labels",
	"ctrl+b": "breakdown",
}

type Model struct {
	sess   *session.Session
	inputs [2]textinput.Model
	focus  int

	// shown is the notification currently displayed; zero when none.
	shown uint64
	width int
}

// New builds the shell. The session must not be shared with other
// goroutines.
func New(sess *session.Session) Model {
	vec := textinput.New()
	vec.Prompt = "v = "
	vec.Placeholder = "x,y,z"
	vec.CharLimit = 256
	vec.SetValue(sess.VectorText())

	mat := textinput.New()
	mat.Prompt = "T = "
	mat.Placeholder = "m11,m12,m13,m21,m22,m23,m31,m32,m33"
	mat.CharLimit = 512
	mat.SetValue(sess.MatrixText())

	m := Model{sess: sess, inputs: [2]textinput.Model{vec, mat}}
	m.inputs[fieldVector].Focus()
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		for i := range m.inputs {
			m.inputs[i].Width = max(10, msg.Width-8)
		}
		return m, nil

	case dismissMsg:
		if msg.seq == m.shown {
			m.shown = 0
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "tab", "shift+tab", "up", "down":
		return m.setFocus(1 - m.focus)

	case "enter":
		return m.transform()
	}

	if name, ok := settingKeys[key]; ok {
		_ = m.sess.ToggleSetting(name)
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	field := input.FieldVector
	if m.focus == fieldMatrix {
		field = input.FieldMatrix
	}
	_ = m.sess.SetText(field, m.inputs[m.focus].Value())
	return m, cmd
}

func (m Model) setFocus(i int) (Model, tea.Cmd) {
	m.focus = i
	m.inputs[1-i].Blur()
	return m, m.inputs[i].Focus()
}

// transform commits both fields. On rejection focus moves to the field
// the session names.
func (m Model) transform() (tea.Model, tea.Cmd) {
	m.sess.SetVectorText(m.inputs[fieldVector].Value())
	m.sess.SetMatrixText(m.inputs[fieldMatrix].Value())
	_ = m.sess.Transform()

	var cmds []tea.Cmd
	switch m.sess.Focus() {
	case input.FieldVector:
		var cmd tea.Cmd
		m, cmd = m.setFocus(fieldVector)
		cmds = append(cmds, cmd)
	case input.FieldMatrix:
		var cmd tea.Cmd
		m, cmd = m.setFocus(fieldMatrix)
		cmds = append(cmds, cmd)
	}
	m.sess.ClearFocus()

	if n, ok := m.sess.Notification(); ok {
		m.shown = n.Seq
		seq := n.Seq
		cmds = append(cmds, tea.Tick(m.sess.NotifyLifetime(), func(time.Time) tea.Msg {
			return dismissMsg{seq: seq}
		}))
	}
	return m, tea.Batch(cmds...)
}

// Focused reports which field holds the cursor.
func (m Model) Focused() input.Field {
	if m.focus == fieldMatrix {
		return input.FieldMatrix
	}
	return input.FieldVector
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("vecviz: u = T · v"))
	b.WriteString("\n\n")
	for i := range m.inputs {
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if n, ok := m.sess.Notification(); ok && n.Seq == m.shown {
		style := successStyle
		if n.Severity == session.SeverityDanger {
			style = dangerStyle
		}
		b.WriteString(style.Render(n.Message))
		if n.Detail != "" {
			b.WriteString(" " + labelStyle.Render("("+n.Detail+")"))
		}
		b.WriteString("\n\n")
	}

	for _, line := range session.MathLines(m.sess.Vector(), m.sess.Matrix(), m.sess.Transformed()) {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(m.summary())
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("enter transform · tab switch field · ^G grid · ^T transformed grid · ^L labels · ^B breakdown · esc quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) summary() string {
	sc := m.sess.Scene()
	st := m.sess.Settings()
	unit, length := m.sess.Scale()

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("v:"), vectorStyle.Render(fmtVec(m.sess.Vector().Components())))
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("u:"), resultStyle.Render(fmtVec(m.sess.Transformed().Components())))
	fmt.Fprintf(&b, "%s ±%g (unit %g, length %g)\n", labelStyle.Render("axes:"), sc.AxisLength, unit, length)
	fmt.Fprintf(&b, "%s grid %s · transformed grid %s · labels %s · breakdown %s\n",
		labelStyle.Render("show:"), onOff(st.Grid), onOff(st.TransformedGrid), onOff(st.Labels), onOff(st.Breakdown))

	stats := sc.Stats()
	fmt.Fprintf(&b, "%s %d lines · %d grids · %d arrows · %d labels (generation %d)\n",
		labelStyle.Render("scene:"), len(sc.Lines), stats["grids"], stats["arrows"], stats["labels"], sc.Generation)
	return b.String()
}

func fmtVec(c [3]float64) string {
	return fmt.Sprintf("(%g, %g, %g)", c[0], c[1], c[2])
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// Run starts the shell on the terminal and blocks until the user quits.
func Run(sess *session.Session, opts ...tea.ProgramOption) error {
	_, err := tea.NewProgram(New(sess), opts...).Run()
	return err
}
