//go:build !tinygo

// Package window opens a desktop window showing a viewer.Shell and forwards
// keyboard, mouse and wheel input to it.
package window

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	ebvector "github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"

	"vecviz/internal/logging"
	"vecviz/internal/render"
	"vecviz/internal/scene"
	"vecviz/internal/session"
	"vecviz/internal/viewer"
)

const (
	labelSize   = 16
	overlaySize = 14
	margin      = 10
)

var (
	successColor = color.NRGBA{0x00, 0xff, 0x00, 0xff}
	dangerColor  = color.NRGBA{0xff, 0x40, 0x40, 0xff}
)

// Run opens the window and blocks until it is closed or Escape is pressed.
func Run(sh *viewer.Shell, title string) error {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return fmt.Errorf("window: load font: %w", err)
	}

	white := ebiten.NewImage(3, 3)
	white.Fill(color.White)

	g := &game{
		sh:      sh,
		label:   &text.GoTextFace{Source: src, Size: labelSize},
		overlay: &text.GoTextFace{Source: src, Size: overlaySize},
		white:   white.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image),
	}

	cam := sh.Camera()
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(cam.Width, cam.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)

	logging.Logger().Info("viewer window opened", "width", cam.Width, "height", cam.Height)
	err = ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

type game struct {
	sh *viewer.Shell

	label, overlay *text.GoTextFace
	white          *ebiten.Image

	chars []rune
}

// settingKeys are toggled with Ctrl held.
var settingKeys = map[ebiten.Key]string{
	ebiten.KeyG: "grid",
	ebiten.KeyT: "transformed_grid",
	ebiten.KeyL: "labels",
	ebiten.KeyB: "breakdown",
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	ctrl := ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight)
	if ctrl {
		for k, name := range settingKeys {
			if inpututil.IsKeyJustPressed(k) {
				_ = g.sh.Toggle(name)
			}
		}
	} else {
		g.chars = ebiten.AppendInputChars(g.chars[:0])
		g.sh.Type(g.chars)
	}

	if repeating(ebiten.KeyBackspace) {
		g.sh.Backspace()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.sh.Tab()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter) {
		if err := g.sh.Enter(); err != nil {
			logging.Logger().Debug("transform rejected", "err", err)
		}
	}

	x, y := ebiten.CursorPosition()
	g.sh.Drag(x, y, ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))
	if _, wy := ebiten.Wheel(); wy != 0 {
		g.sh.Wheel(wy)
	}
	return nil
}

// repeating is true on press and then every few ticks while held.
func repeating(k ebiten.Key) bool {
	d := inpututil.KeyPressDuration(k)
	return d == 1 || (d >= 30 && d%4 == 0)
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	d := g.sh.Frame()

	for _, s := range d.Segments {
		ebvector.StrokeLine(screen, float32(s.A.X), float32(s.A.Y), float32(s.B.X), float32(s.B.Y),
			float32(s.Width), s.Color.NRGBA(s.Alpha), true)
	}
	for _, t := range d.Triangles {
		g.fillTriangle(screen, t)
	}
	for _, p := range d.Dots {
		ebvector.DrawFilledCircle(screen, float32(p.At.X), float32(p.At.Y), float32(p.Radius), p.Color.NRGBA(p.Alpha), true)
	}
	for _, t := range d.Texts {
		g.drawText(screen, t.S, g.label, t.At.X, t.At.Y, t.Color.NRGBA(1), text.AlignCenter)
	}

	g.drawOverlay(screen)
}

func (g *game) fillTriangle(screen *ebiten.Image, t render.Triangle) {
	var path ebvector.Path
	path.MoveTo(float32(t.P[0].X), float32(t.P[0].Y))
	path.LineTo(float32(t.P[1].X), float32(t.P[1].Y))
	path.LineTo(float32(t.P[2].X), float32(t.P[2].Y))
	path.Close()

	vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
	r, gr, b := t.Color.RGB()
	for i := range vs {
		vs[i].SrcX, vs[i].SrcY = 1, 1
		vs[i].ColorR = float32(r)
		vs[i].ColorG = float32(gr)
		vs[i].ColorB = float32(b)
		vs[i].ColorA = float32(t.Alpha)
	}
	op := &ebiten.DrawTrianglesOptions{AntiAlias: true}
	screen.DrawTriangles(vs, is, g.white, op)
}

func (g *game) drawText(screen *ebiten.Image, s string, face *text.GoTextFace, x, y float64, clr color.Color, align text.Align) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	op.PrimaryAlign = align
	if align == text.AlignCenter {
		op.SecondaryAlign = text.AlignCenter
	}
	text.Draw(screen, s, face, op)
}

func (g *game) drawOverlay(screen *ebiten.Image) {
	lh := overlaySize * 1.4
	y := float64(margin)
	line := func(s string, clr color.Color) {
		g.drawText(screen, s, g.overlay, margin, y, clr, text.AlignStart)
		y += lh
	}

	label := scene.ColorLabel.NRGBA(1)
	for _, f := range g.sh.Fields() {
		line(f, color.White)
	}
	if n, ok := g.sh.Notification(); ok {
		clr := successColor
		if n.Severity == session.SeverityDanger {
			clr = dangerColor
		}
		line(g.sh.Banner(), clr)
	}
	y += lh / 2
	for _, m := range g.sh.Math() {
		line(m, label)
	}

	h := screen.Bounds().Dy()
	g.drawText(screen, g.sh.Help(), g.overlay, margin, float64(h)-margin-lh, label, text.AlignStart)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.sh.Resize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}
