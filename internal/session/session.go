// Package session owns the state of one visualization: the raw text the
// user is editing, the last committed vector and matrix, their product,
// display settings, the active notification and the current scene.
//
// A Session is not safe for concurrent use. Single-threaded shells (the
// window viewer, the terminal UI) call it directly from their event loop;
// concurrent transports go through an Engine, which owns a Session on one
// goroutine.
package session

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"vecviz/internal/geometry/matrix"
	"vecviz/internal/geometry/vector"
	"vecviz/internal/input"
	"vecviz/internal/logging"
	"vecviz/internal/scene"
)

var (
	ErrUnknownSetting = errors.New("unknown setting")
	ErrInvalidScale   = errors.New("unit and length must be positive and finite")
	ErrUnknownCommand = errors.New("unknown command")
	ErrNotFinite      = errors.New("transformed vector is not finite")
)

const (
	MsgTransformed = "Transformation successful."
	MsgNotFinite   = "Transformation failed. The result is too large to represent."

	// DefaultNotifyLifetime is how long a notification stays visible.
	DefaultNotifyLifetime = 5 * time.Second
)

// Options configure a new Session.
type Options struct {
	Vector   vector.Vec3
	Matrix   matrix.Mat3
	Settings scene.Settings

	Unit   float64
	Length float64
	// AutoScale derives unit and length from the committed vectors,
	// keeping Unit/Length when the vectors give no usable scale.
	AutoScale bool

	TickSpacing   float64
	TickHalfWidth float64

	NotifyLifetime time.Duration
	Now            func() time.Time
}

// DefaultOptions starts from v = (1,2,1), the identity matrix, unit 5 and
// length 100 with every layer shown.
func DefaultOptions() Options {
	return Options{
		Vector:         vector.Vec3{X: 1, Y: 2, Z: 1},
		Matrix:         matrix.Identity(),
		Settings:       scene.DefaultSettings(),
		Unit:           scene.DefaultUnit,
		Length:         scene.DefaultLength,
		TickSpacing:    scene.DefaultTickSpacing,
		TickHalfWidth:  scene.DefaultTickHalfWidth,
		NotifyLifetime: DefaultNotifyLifetime,
	}
}

type Session struct {
	opts Options
	now  func() time.Time

	vectorText string
	matrixText string

	vec         vector.Vec3
	mat         matrix.Mat3
	transformed vector.Vec3

	settings     scene.Settings
	unit, length float64

	note  *Notification
	seq   uint64
	focus input.Field

	sc  *scene.Scene
	gen uint64
}

// New creates a session with its raw text seeded from opts and the
// transformed vector and scene computed.
func New(opts Options) *Session {
	if opts.NotifyLifetime <= 0 {
		opts.NotifyLifetime = DefaultNotifyLifetime
	}
	if !validScale(opts.Unit, opts.Length) {
		opts.Unit, opts.Length = scene.DefaultUnit, scene.DefaultLength
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	s := &Session{
		opts:       opts,
		now:        now,
		vectorText: input.FormatVector(opts.Vector),
		matrixText: input.FormatMatrix(opts.Matrix),
		vec:        opts.Vector,
		mat:        opts.Matrix,
		settings:   opts.Settings,
		unit:       opts.Unit,
		length:     opts.Length,
	}
	s.transformed = matrix.Transform(s.vec, s.mat)
	s.rebuild()
	return s
}

func (s *Session) VectorText() string { return s.vectorText }
func (s *Session) MatrixText() string { return s.matrixText }

// SetVectorText replaces the vector field's raw text. The committed
// vector is untouched until Transform succeeds.
func (s *Session) SetVectorText(t string) { s.vectorText = t }

// SetMatrixText replaces the matrix field's raw text.
func (s *Session) SetMatrixText(t string) { s.matrixText = t }

// SetText edits the named field.
func (s *Session) SetText(f input.Field, t string) error {
	switch f {
	case input.FieldVector:
		s.vectorText = t
	case input.FieldMatrix:
		s.matrixText = t
	default:
		return fmt.Errorf("session: unknown field %q", f)
	}
	return nil
}

func (s *Session) Vector() vector.Vec3      { return s.vec }
func (s *Session) Matrix() matrix.Mat3      { return s.mat }
func (s *Session) Transformed() vector.Vec3 { return s.transformed }

// Transform validates both fields and, when both pass, commits them,
// recomputes the transformed vector and rebuilds the scene.
//
// The vector is checked first. On rejection nothing is committed, a
// notification naming the field is posted, focus moves to that field and
// the *input.Error is returned. Accepted text whose product overflows is
// not committed either; ErrNotFinite is returned.
func (s *Session) Transform() error {
	if err := input.CheckVector(s.vectorText); err != nil {
		return s.reject(err)
	}
	if err := input.CheckMatrix(s.matrixText); err != nil {
		return s.reject(err)
	}

	v := input.ParseVector(s.vectorText)
	m := input.ParseMatrix(s.matrixText)
	u := matrix.Transform(v, m)
	if !u.IsFinite() {
		logging.Logger().Warn("transform overflowed", "vector", v, "transformed", fmt.Sprint(u))
		s.Notify(SeverityDanger, MsgNotFinite, fmt.Sprintf("u = (%g, %g, %g)", u.X, u.Y, u.Z))
		return ErrNotFinite
	}

	s.vec = v
	s.mat = m
	s.transformed = u
	s.focus = input.FieldNone
	s.rebuild()

	logging.Logger().Info("transform committed",
		"vector", s.vec, "transformed", s.transformed, "generation", s.gen)
	s.Notify(SeveritySuccess, MsgTransformed, "")
	return nil
}

func (s *Session) reject(err error) error {
	var ie *input.Error
	if !errors.As(err, &ie) {
		s.Notify(SeverityDanger, err.Error(), "")
		return err
	}
	s.focus = ie.Field
	s.Notify(SeverityDanger, ie.Message(), ie.Detail())
	logging.Logger().Warn("input rejected", "field", ie.Field, "err", err)
	return err
}

// Focus is the field that should hold keyboard focus after the last
// rejected transform, or FieldNone.
func (s *Session) Focus() input.Field { return s.focus }

// ClearFocus marks the focus request as handled.
func (s *Session) ClearFocus() { s.focus = input.FieldNone }

func (s *Session) Settings() scene.Settings { return s.settings }

// SetSettings replaces all display settings and rebuilds the scene.
func (s *Session) SetSettings(st scene.Settings) {
	if st == s.settings {
		return
	}
	s.settings = st
	s.rebuild()
}

// SetSetting sets one display setting. Names match case-insensitively,
// with or without a "show" prefix: grid, transformed_grid, labels,
// breakdown.
func (s *Session) SetSetting(name string, on bool) error {
	st := s.settings
	switch settingKey(name) {
	case "grid":
		st.Grid = on
	case "transformedgrid":
		st.TransformedGrid = on
	case "labels":
		st.Labels = on
	case "breakdown", "vectorbreakdown":
		st.Breakdown = on
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSetting, name)
	}
	s.SetSettings(st)
	return nil
}

// ToggleSetting flips one display setting.
func (s *Session) ToggleSetting(name string) error {
	var cur bool
	switch settingKey(name) {
	case "grid":
		cur = s.settings.Grid
	case "transformedgrid":
		cur = s.settings.TransformedGrid
	case "labels":
		cur = s.settings.Labels
	case "breakdown", "vectorbreakdown":
		cur = s.settings.Breakdown
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSetting, name)
	}
	return s.SetSetting(name, !cur)
}

func settingKey(name string) string {
	k := strings.ToLower(strings.TrimSpace(name))
	k = strings.TrimPrefix(k, "show")
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(k)
}

func validScale(unit, length float64) bool {
	return unit > 0 && length > 0 && !math.IsInf(unit, 0) && !math.IsInf(length, 0)
}

// SetScale changes the unit/length pair and rebuilds the scene.
func (s *Session) SetScale(unit, length float64) error {
	if !validScale(unit, length) {
		return fmt.Errorf("%w: unit=%v length=%v", ErrInvalidScale, unit, length)
	}
	s.unit, s.length = unit, length
	s.rebuild()
	return nil
}

// Scale returns the unit/length pair the current scene was built with.
func (s *Session) Scale() (unit, length float64) {
	if s.opts.AutoScale {
		if u, l := scene.AutoScale(s.vec, s.transformed); validScale(u, l) {
			return u, l
		}
	}
	return s.unit, s.length
}

// Notify posts a notification, replacing any active one.
func (s *Session) Notify(sev Severity, msg, detail string) Notification {
	s.seq++
	now := s.now()
	n := Notification{
		Message:  msg,
		Detail:   detail,
		Severity: sev,
		Seq:      s.seq,
		Posted:   now,
		Expires:  now.Add(s.opts.NotifyLifetime),
	}
	s.note = &n
	return n
}

// Notification returns the active notification, if any.
func (s *Session) Notification() (Notification, bool) {
	if s.note == nil || !s.note.Active(s.now()) {
		return Notification{}, false
	}
	return *s.note, true
}

// NotifyLifetime is how long notifications stay visible.
func (s *Session) NotifyLifetime() time.Duration { return s.opts.NotifyLifetime }

// Scene returns the current scene. The returned value is never modified;
// a rebuild swaps in a new Scene with a higher Generation.
func (s *Session) Scene() *scene.Scene { return s.sc }

func (s *Session) rebuild() {
	unit, length := s.Scale()
	s.gen++
	sc := scene.Build(scene.Input{
		Vector:        s.vec,
		Matrix:        s.mat,
		Transformed:   s.transformed,
		Settings:      s.settings,
		Unit:          unit,
		Length:        length,
		TickSpacing:   s.opts.TickSpacing,
		TickHalfWidth: s.opts.TickHalfWidth,
	})
	sc.Generation = s.gen
	s.sc = sc
	logging.Logger().Debug("scene rebuilt", "generation", s.gen, "axisLength", sc.AxisLength, "stats", sc.Stats())
}

// Apply executes a command against the session.
func (s *Session) Apply(cmd Command) error {
	switch c := cmd.(type) {
	case EditCommand:
		return s.SetText(c.Field, c.Text)
	case TransformCommand:
		if c.Vector != nil {
			s.vectorText = *c.Vector
		}
		if c.Matrix != nil {
			s.matrixText = *c.Matrix
		}
		return s.Transform()
	case SettingCommand:
		return s.SetSetting(c.Name, c.Value)
	case ScaleCommand:
		return s.SetScale(c.Unit, c.Length)
	}
	return fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)
}

// Snapshot captures the session for transports and shells.
func (s *Session) Snapshot() State {
	unit, length := s.Scale()
	st := State{
		VectorText:  s.vectorText,
		MatrixText:  s.matrixText,
		Vector:      s.vec,
		Matrix:      s.mat,
		Transformed: s.transformed,
		Settings:    s.settings,
		Unit:        unit,
		Length:      length,
		AxisLength:  s.sc.AxisLength,
		Focus:       s.focus,
		Generation:  s.gen,
		Math:        s.MathText(),
		TS:          s.now(),
	}
	if n, ok := s.Notification(); ok {
		st.Notification = &n
	}
	return st
}
