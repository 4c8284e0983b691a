package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Checkbox toggles a boolean view option.
type Checkbox struct {
	Label string
	Value bool
	Box   Rect

	pressed bool
}

func NewCheckbox(x, y float64, label string, value bool) *Checkbox {
	return &Checkbox{
		Label: label,
		Value: value,
		Box:   Rect{X: x, Y: y, W: 16, H: 16},
	}
}

func (c *Checkbox) Update() {
	c.handle(cursor())
}

func (c *Checkbox) handle(mx, my float64, pressed bool) {
	if pressed && c.Box.Contains(mx, my) {
		if !c.pressed {
			c.Value = !c.Value
		}
		c.pressed = true
		return
	}
	c.pressed = false
}

func (c *Checkbox) Draw(screen *ebiten.Image) {
	vector.StrokeRect(screen, float32(c.Box.X), float32(c.Box.Y), float32(c.Box.W), float32(c.Box.H), 2, borderColor, true)
	if c.Value {
		vector.FillRect(screen,
			float32(c.Box.X+2), float32(c.Box.Y+2),
			float32(c.Box.W-4), float32(c.Box.H-4),
			color.RGBA{R: 100, G: 200, B: 100, A: 255},
			true)
	}
	ebitenutil.DebugPrintAt(screen, c.Label, int(c.Box.X+c.Box.W+8), int(c.Box.Y))
}

func (c *Checkbox) Height() float64 {
	return c.Box.H + 5
}

func (c *Checkbox) MoveTo(x, y float64) {
	c.Box.X, c.Box.Y = x, y
}
