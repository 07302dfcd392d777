package scene

import (
	"vecviz/internal/geometry/vector"
)

// LabelOffset places axis labels just past the end of each axis.
const LabelOffset = 0.5

// Labels adds axis names and vector names when enabled.
type Labels struct{}

func (Labels) Apply(in Input, sc *Scene) {
	if !in.Settings.Labels {
		return
	}
	d := in.AxisLength() + LabelOffset
	sc.Labels = append(sc.Labels,
		Label{Text: "X", At: vector.UnitX.Mul(d), Color: ColorLabel},
		Label{Text: "Y", At: vector.UnitY.Mul(d), Color: ColorLabel},
		Label{Text: "Z", At: vector.UnitZ.Mul(d), Color: ColorLabel},
		Label{Text: "v", At: in.Vector.Mul(0.5), Color: ColorLabel},
		Label{Text: "u", At: in.Transformed.Mul(0.5), Color: ColorLabel},
	)
}
