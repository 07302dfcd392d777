// Package viewer holds the interactive shell behind the window viewer:
// the two editable fields, keyboard focus, the orbit camera and the stage
// that turns the session's scene into display lists. It has no windowing
// dependency; package window drives it from an ebiten game loop.
package viewer

import (
	"math"
	"strings"

	"vecviz/internal/input"
	"vecviz/internal/logging"
	"vecviz/internal/render"
	"vecviz/internal/session"
)

const (
	// OrbitSpeed is radians of rotation per pixel dragged.
	OrbitSpeed = 0.01
	// ZoomStep is the zoom factor per wheel notch.
	ZoomStep = 1.1

	cursor = "_"
)

// Shell is not safe for concurrent use; the game loop owns it.
type Shell struct {
	sess  *session.Session
	cam   render.Camera
	stage render.Stage

	texts map[input.Field]string
	focus input.Field

	dragging     bool
	lastX, lastY int
}

func NewShell(sess *session.Session, cam render.Camera) *Shell {
	return &Shell{
		sess: sess,
		cam:  cam,
		texts: map[input.Field]string{
			input.FieldVector: sess.VectorText(),
			input.FieldMatrix: sess.MatrixText(),
		},
		focus: input.FieldVector,
	}
}

func (s *Shell) Session() *session.Session { return s.sess }
func (s *Shell) Camera() render.Camera     { return s.cam }
func (s *Shell) Focus() input.Field        { return s.focus }
func (s *Shell) Text(f input.Field) string { return s.texts[f] }

// SetFocus moves the cursor to f; FieldNone is ignored.
func (s *Shell) SetFocus(f input.Field) {
	if f == input.FieldVector || f == input.FieldMatrix {
		s.focus = f
	}
}

// Tab switches between the two fields.
func (s *Shell) Tab() {
	if s.focus == input.FieldVector {
		s.focus = input.FieldMatrix
	} else {
		s.focus = input.FieldVector
	}
}

// Type appends rs to the focused field.
func (s *Shell) Type(rs []rune) {
	if len(rs) == 0 {
		return
	}
	s.edit(s.texts[s.focus] + string(rs))
}

// Backspace removes the last rune of the focused field.
func (s *Shell) Backspace() {
	rs := []rune(s.texts[s.focus])
	if len(rs) == 0 {
		return
	}
	s.edit(string(rs[:len(rs)-1]))
}

func (s *Shell) edit(t string) {
	s.texts[s.focus] = t
	_ = s.sess.SetText(s.focus, t)
}

// Enter commits both fields. After a rejection the cursor moves to the
// field the session names.
func (s *Shell) Enter() error {
	s.sess.SetVectorText(s.texts[input.FieldVector])
	s.sess.SetMatrixText(s.texts[input.FieldMatrix])
	err := s.sess.Transform()
	if f := s.sess.Focus(); f != input.FieldNone {
		s.focus = f
		s.sess.ClearFocus()
	}
	return err
}

// Toggle flips one display setting by name.
func (s *Shell) Toggle(name string) error {
	return s.sess.ToggleSetting(name)
}

// Drag feeds the pointer position; while pressed, horizontal motion turns
// the camera about +Y and vertical motion tilts it.
func (s *Shell) Drag(x, y int, pressed bool) {
	if !pressed {
		s.dragging = false
		return
	}
	if s.dragging {
		dx, dy := x-s.lastX, y-s.lastY
		if dx != 0 || dy != 0 {
			s.cam.Orbit(-float64(dx)*OrbitSpeed, float64(dy)*OrbitSpeed)
		}
	}
	s.dragging = true
	s.lastX, s.lastY = x, y
}

// Wheel zooms in for positive notches.
func (s *Shell) Wheel(notches float64) {
	if notches == 0 {
		return
	}
	s.cam.ZoomBy(math.Pow(ZoomStep, notches))
}

// Resize follows the window size.
func (s *Shell) Resize(w, h int) {
	if w <= 0 || h <= 0 || (w == s.cam.Width && h == s.cam.Height) {
		return
	}
	s.cam.Resize(w, h)
	logging.Logger().Debug("viewport resized", "width", w, "height", h)
}

// Frame returns the display list for the current scene and camera.
func (s *Shell) Frame() *render.DisplayList {
	return s.stage.Sync(s.sess.Scene(), s.cam)
}

// Released counts display lists dropped after a scene or camera change.
func (s *Shell) Released() uint64 { return s.stage.Released() }

// Notification returns the banner to show, if any.
func (s *Shell) Notification() (session.Notification, bool) {
	return s.sess.Notification()
}

// Fields returns the two input lines with a cursor on the focused one.
func (s *Shell) Fields() []string {
	line := func(prefix string, f input.Field) string {
		t := prefix + s.texts[f]
		if s.focus == f {
			t += cursor
		}
		return t
	}
	return []string{
		line("v = ", input.FieldVector),
		line("T = ", input.FieldMatrix),
	}
}

// Banner is the notification text, message then detail.
func (s *Shell) Banner() string {
	n, ok := s.sess.Notification()
	if !ok {
		return ""
	}
	if n.Detail == "" {
		return n.Message
	}
	return n.Message + " (" + n.Detail + ")"
}

// Math is the u = T · v readout, one line per row.
func (s *Shell) Math() []string {
	return strings.Split(strings.TrimRight(s.sess.MathText(), "\n"), "\n")
}

// Help lists the key bindings.
func (s *Shell) Help() string {
	st := s.sess.Settings()
	return "enter transform · tab field · drag orbit · wheel zoom · " +
		"^G grid " + onOff(st.Grid) + " · ^T transformed " + onOff(st.TransformedGrid) +
		" · ^L labels " + onOff(st.Labels) + " · ^B breakdown " + onOff(st.Breakdown)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
