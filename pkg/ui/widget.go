// Package ui holds the few ebiten widgets the viewer's control panel is made of.
package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

var borderColor = color.RGBA{R: 200, G: 200, B: 200, A: 255}

// Widget is anything the Panel can lay out.
type Widget interface {
	Update()
	Draw(screen *ebiten.Image)
	// Height is the vertical space the widget takes, label included.
	Height() float64
	// MoveTo places the widget's top-left corner.
	MoveTo(x, y float64)
}

// Rect is an axis aligned screen rectangle.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether the point lies inside r, edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

// cursor returns the mouse position and left button state.
func cursor() (float64, float64, bool) {
	mx, my := ebiten.CursorPosition()
	return float64(mx), float64(my), ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
}
