package session

import (
	"time"

	"vecviz/internal/input"
)

type CommandType string

const (
	CmdEdit      CommandType = "edit"
	CmdTransform CommandType = "transform"
	CmdSetting   CommandType = "setting"
	CmdScale     CommandType = "scale"
)

type Command interface {
	Type() CommandType
	ReceivedAt() time.Time
}

// EditCommand replaces the raw text of one field without committing it.
type EditCommand struct {
	At    time.Time
	Field input.Field `json:"field"`
	Text  string      `json:"text"`
}

func (c EditCommand) Type() CommandType     { return CmdEdit }
func (c EditCommand) ReceivedAt() time.Time { return c.At }

// TransformCommand validates and commits the raw text. Non-nil texts are
// applied as edits first.
type TransformCommand struct {
	At     time.Time
	Vector *string `json:"vector,omitempty"`
	Matrix *string `json:"matrix,omitempty"`
}

func (c TransformCommand) Type() CommandType     { return CmdTransform }
func (c TransformCommand) ReceivedAt() time.Time { return c.At }

// SettingCommand toggles one display setting by name.
type SettingCommand struct {
	At    time.Time
	Name  string `json:"name"`
	Value bool   `json:"value"`
}

func (c SettingCommand) Type() CommandType     { return CmdSetting }
func (c SettingCommand) ReceivedAt() time.Time { return c.At }

// ScaleCommand sets the unit/length pair the axis extent derives from.
type ScaleCommand struct {
	At     time.Time
	Unit   float64 `json:"unit"`
	Length float64 `json:"length"`
}

func (c ScaleCommand) Type() CommandType     { return CmdScale }
func (c ScaleCommand) ReceivedAt() time.Time { return c.At }
