package session

import (
	"time"

	"vecviz/internal/geometry/matrix"
	"vecviz/internal/geometry/vector"
	"vecviz/internal/input"
	"vecviz/internal/scene"
)

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityDanger  Severity = "danger"
)

// Notification is a transient banner. Only the newest one is ever shown.
type Notification struct {
	Message  string    `json:"message"`
	Detail   string    `json:"detail,omitempty"`
	Severity Severity  `json:"severity"`
	Seq      uint64    `json:"seq"`
	Posted   time.Time `json:"posted"`
	Expires  time.Time `json:"expires"`
}

// Active reports whether the notification is still visible at now.
func (n Notification) Active(now time.Time) bool { return now.Before(n.Expires) }

// State is a read-only snapshot of a Session.
type State struct {
	VectorText string `json:"vectorText"`
	MatrixText string `json:"matrixText"`

	Vector      vector.Vec3 `json:"vector"`
	Matrix      matrix.Mat3 `json:"matrix"`
	Transformed vector.Vec3 `json:"transformed"`

	Settings   scene.Settings `json:"settings"`
	Unit       float64        `json:"unit"`
	Length     float64        `json:"length"`
	AxisLength float64        `json:"axisLength"`

	Notification *Notification `json:"notification,omitempty"`
	Focus        input.Field   `json:"focus,omitempty"`

	Generation uint64    `json:"generation"`
	Math       string    `json:"math"`
	TS         time.Time `json:"ts"`
}
