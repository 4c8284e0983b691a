package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	titleHeight   = 30
	sectionHeight = 25
	margin        = 10
)

// section is a titled group of widgets, Widgets[start:end].
type section struct {
	title      string
	start, end int
}

// Panel stacks widgets vertically under section headers and scrolls with the wheel.
type Panel struct {
	Title        string
	Box          Rect
	Widgets      []Widget
	ScrollOffset float64

	BGColor     color.RGBA
	BorderColor color.RGBA

	sections []section
}

func NewPanel(title string, x, y, width, height float64) *Panel {
	return &Panel{
		Title:       title,
		Box:         Rect{X: x, Y: y, W: width, H: height},
		BGColor:     color.RGBA{R: 40, G: 40, B: 45, A: 230},
		BorderColor: color.RGBA{R: 100, G: 100, B: 110, A: 255},
	}
}

// AddSection starts a new group; widgets added afterwards belong to it.
func (p *Panel) AddSection(title string) {
	p.sections = append(p.sections, section{title: title, start: len(p.Widgets), end: len(p.Widgets)})
}

func (p *Panel) add(w Widget) {
	if len(p.sections) == 0 {
		p.AddSection("")
	}
	p.Widgets = append(p.Widgets, w)
	p.sections[len(p.sections)-1].end = len(p.Widgets)
	p.layout()
}

func (p *Panel) AddSlider(label string, min, max, value float64, onChange func(float64)) *Slider {
	s := NewSlider(0, 0, p.Box.W-2*margin, label, min, max, value, onChange)
	p.add(s)
	return s
}

func (p *Panel) AddCheckbox(label string, value bool) *Checkbox {
	c := NewCheckbox(0, 0, label, value)
	p.add(c)
	return c
}

func (p *Panel) AddButton(label string, onClick func()) *Button {
	b := NewButton(0, 0, p.Box.W-2*margin, 24, label, onClick)
	p.add(b)
	return b
}

// ContentHeight is the height of everything in the panel, unscrolled.
func (p *Panel) ContentHeight() float64 {
	h := float64(titleHeight + len(p.sections)*sectionHeight)
	for _, w := range p.Widgets {
		h += w.Height()
	}
	return h
}

// layout positions every widget from the current scroll offset.
func (p *Panel) layout() {
	y := p.Box.Y + titleHeight - p.ScrollOffset
	for _, s := range p.sections {
		y += sectionHeight
		for _, w := range p.Widgets[s.start:s.end] {
			w.MoveTo(p.Box.X+margin, y)
			y += w.Height()
		}
	}
}

// Scroll moves the content by dy wheel steps, staying within the content.
func (p *Panel) Scroll(dy float64) {
	maxScroll := max(p.ContentHeight()-p.Box.H+40, 0)
	p.ScrollOffset = min(max(p.ScrollOffset-dy*20, 0), maxScroll)
	p.layout()
}

func (p *Panel) Update() {
	if _, dy := ebiten.Wheel(); dy != 0 {
		p.Scroll(dy)
	}
	for _, w := range p.Widgets {
		w.Update()
	}
}

func (p *Panel) Draw(screen *ebiten.Image) {
	vector.FillRect(screen, float32(p.Box.X), float32(p.Box.Y), float32(p.Box.W), float32(p.Box.H), p.BGColor, true)
	vector.StrokeRect(screen, float32(p.Box.X), float32(p.Box.Y), float32(p.Box.W), float32(p.Box.H), 2, p.BorderColor, true)
	ebitenutil.DebugPrintAt(screen, p.Title, int(p.Box.X+margin), int(p.Box.Y+5))

	visible := func(y float64) bool { return y >= p.Box.Y && y <= p.Box.Y+p.Box.H-sectionHeight }
	y := p.Box.Y + titleHeight - p.ScrollOffset
	for _, s := range p.sections {
		if s.title != "" && visible(y) {
			vector.FillRect(screen, float32(p.Box.X+5), float32(y), float32(p.Box.W-10), 20, color.RGBA{R: 60, G: 60, B: 70, A: 255}, true)
			ebitenutil.DebugPrintAt(screen, s.title, int(p.Box.X+margin), int(y+3))
		}
		y += sectionHeight
		for _, w := range p.Widgets[s.start:s.end] {
			if visible(y) {
				w.Draw(screen)
			}
			y += w.Height()
		}
	}
}
