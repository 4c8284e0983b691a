package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Button is a clickable UI button. Label may be changed between frames.
type Button struct {
	Label   string
	Box     Rect
	OnClick func()

	pressed bool // already fired for the current press
	hover   bool

	BGColor    color.RGBA
	HoverColor color.RGBA
}

func NewButton(x, y, width, height float64, label string, onClick func()) *Button {
	return &Button{
		Label:      label,
		Box:        Rect{X: x, Y: y, W: width, H: height},
		OnClick:    onClick,
		BGColor:    color.RGBA{R: 80, G: 120, B: 180, A: 255},
		HoverColor: color.RGBA{R: 100, G: 150, B: 220, A: 255},
	}
}

func (b *Button) Update() {
	b.handle(cursor())
}

// handle fires OnClick once per press inside the button.
func (b *Button) handle(mx, my float64, pressed bool) {
	b.hover = b.Box.Contains(mx, my)
	if b.hover && pressed {
		if !b.pressed && b.OnClick != nil {
			b.OnClick()
		}
		b.pressed = true
		return
	}
	b.pressed = false
}

func (b *Button) Draw(screen *ebiten.Image) {
	bg := b.BGColor
	if b.hover {
		bg = b.HoverColor
	}
	vector.FillRect(screen, float32(b.Box.X), float32(b.Box.Y), float32(b.Box.W), float32(b.Box.H), bg, true)
	vector.StrokeRect(screen, float32(b.Box.X), float32(b.Box.Y), float32(b.Box.W), float32(b.Box.H), 2, borderColor, true)
	ebitenutil.DebugPrintAt(screen, b.Label, int(b.Box.X+8), int(b.Box.Y+b.Box.H/2-8))
}

func (b *Button) Height() float64 {
	return b.Box.H + 5
}

func (b *Button) MoveTo(x, y float64) {
	b.Box.X, b.Box.Y = x, y
}
