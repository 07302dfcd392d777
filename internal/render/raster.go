package render

import (
	"fmt"
	"image"
	"io"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"vecviz/internal/logging"
	"vecviz/internal/scene"
)

const (
	LabelSize   = 16.0
	OverlaySize = 13.0
)

// Raster draws display lists into an image with the gg software renderer.
type Raster struct {
	Background scene.Color

	label   text.Face
	overlay text.Face
}

// NewRaster loads the label font.
func NewRaster() (*Raster, error) {
	src, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("render: load font: %w", err)
	}
	return &Raster{
		label:   src.Face(LabelSize),
		overlay: src.Face(OverlaySize),
	}, nil
}

func setColor(dc *gg.Context, c scene.Color, alpha float64) {
	r, g, b := c.RGB()
	dc.SetRGBA(r, g, b, alpha)
}

// Draw paints d onto a new context sized to d's camera. Overlay lines are
// written top-left in the label color. The caller closes the context.
func (r *Raster) Draw(d *DisplayList, overlay []string) (*gg.Context, error) {
	cam := d.Camera
	if cam.Width <= 0 || cam.Height <= 0 {
		return nil, fmt.Errorf("render: invalid viewport %dx%d", cam.Width, cam.Height)
	}
	dc := gg.NewContext(cam.Width, cam.Height)
	br, bg, bb := r.Background.RGB()
	dc.ClearWithColor(gg.RGB(br, bg, bb))

	for _, s := range d.Segments {
		setColor(dc, s.Color, s.Alpha)
		dc.SetLineWidth(s.Width)
		dc.DrawLine(s.A.X, s.A.Y, s.B.X, s.B.Y)
		if err := dc.Stroke(); err != nil {
			return dc, fmt.Errorf("render: stroke: %w", err)
		}
	}
	for _, t := range d.Triangles {
		setColor(dc, t.Color, t.Alpha)
		dc.MoveTo(t.P[0].X, t.P[0].Y)
		dc.LineTo(t.P[1].X, t.P[1].Y)
		dc.LineTo(t.P[2].X, t.P[2].Y)
		dc.ClosePath()
		if err := dc.Fill(); err != nil {
			return dc, fmt.Errorf("render: fill: %w", err)
		}
	}
	for _, p := range d.Dots {
		setColor(dc, p.Color, p.Alpha)
		dc.DrawCircle(p.At.X, p.At.Y, p.Radius)
		if err := dc.Fill(); err != nil {
			return dc, fmt.Errorf("render: fill: %w", err)
		}
	}

	dc.SetFont(r.label)
	for _, t := range d.Texts {
		setColor(dc, t.Color, 1)
		dc.DrawStringAnchored(t.S, t.At.X, t.At.Y, 0.5, 0.5)
	}

	if len(overlay) > 0 {
		dc.SetFont(r.overlay)
		setColor(dc, scene.ColorLabel, 1)
		for i, line := range overlay {
			dc.DrawString(line, 10, 10+OverlaySize*1.4*float64(i+1))
		}
	}

	logging.Logger().Debug("raster frame drawn",
		"generation", d.Generation, "commands", d.Len(), "size", fmt.Sprintf("%dx%d", cam.Width, cam.Height))
	return dc, nil
}

// Render flattens sc through cam and returns the finished image.
func (r *Raster) Render(sc *scene.Scene, cam Camera, overlay []string) (image.Image, error) {
	dc, err := r.Draw(Flatten(sc, cam), overlay)
	if dc != nil {
		defer dc.Close()
	}
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// WritePNG renders sc and encodes it as PNG to w.
func (r *Raster) WritePNG(w io.Writer, sc *scene.Scene, cam Camera, overlay []string) error {
	dc, err := r.Draw(Flatten(sc, cam), overlay)
	if dc != nil {
		defer dc.Close()
	}
	if err != nil {
		return err
	}
	return dc.EncodePNG(w)
}
