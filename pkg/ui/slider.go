package ui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const sliderHeight = 12

// Slider picks a value in [Min, Max] by clicking or dragging on its bar.
// OnChange fires once when the mouse is released after the value moved.
type Slider struct {
	Label    string
	Value    float64
	Min, Max float64
	Bar      Rect
	OnChange func(float64)

	dragging bool
	changed  bool
}

func NewSlider(x, y, width float64, label string, min, max, value float64, onChange func(float64)) *Slider {
	s := &Slider{
		Label:    label,
		Min:      min,
		Max:      max,
		Bar:      Rect{X: x, Y: y + 15, W: width, H: sliderHeight},
		OnChange: onChange,
	}
	s.Value = s.clamp(value)
	return s
}

func (s *Slider) clamp(v float64) float64 {
	if v < s.Min {
		return s.Min
	}
	if v > s.Max {
		return s.Max
	}
	return v
}

// ValueAt maps a cursor x coordinate onto the slider range.
func (s *Slider) ValueAt(x float64) float64 {
	return s.clamp(s.Min + (x-s.Bar.X)/s.Bar.W*(s.Max-s.Min))
}

// Ratio is the filled fraction of the bar.
func (s *Slider) Ratio() float64 {
	if s.Max == s.Min {
		return 0
	}
	return (s.Value - s.Min) / (s.Max - s.Min)
}

func (s *Slider) Update() {
	s.handle(cursor())
}

func (s *Slider) handle(mx, my float64, pressed bool) {
	if pressed && (s.dragging || s.Bar.Contains(mx, my)) {
		s.dragging = true
		if v := s.ValueAt(mx); v != s.Value {
			s.Value = v
			s.changed = true
		}
		return
	}
	if s.dragging && !pressed {
		s.dragging = false
		if s.changed && s.OnChange != nil {
			s.OnChange(s.Value)
		}
		s.changed = false
	}
}

func (s *Slider) Draw(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s: %.2f", s.Label, s.Value), int(s.Bar.X), int(s.Bar.Y-15))
	vector.FillRect(screen, float32(s.Bar.X), float32(s.Bar.Y), float32(s.Bar.W), float32(s.Bar.H), color.RGBA{R: 80, G: 80, B: 80, A: 255}, true)
	vector.FillRect(screen, float32(s.Bar.X), float32(s.Bar.Y), float32(s.Bar.W*s.Ratio()), float32(s.Bar.H), color.RGBA{R: 200, G: 200, B: 200, A: 255}, true)
}

func (s *Slider) Height() float64 {
	return s.Bar.H + 25
}

func (s *Slider) MoveTo(x, y float64) {
	s.Bar.X = x
	s.Bar.Y = y + 15
}
