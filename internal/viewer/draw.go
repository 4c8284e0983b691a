package viewer

import (
	"fmt"
	"image/color"
	"math"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/flock"
	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/grid"
	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/qlearning"
)

const (
	cellSize  = 64
	arrowSize = 15
	// arrows are drawn only once a state has learned something
	policyThreshold = 0.1
)

var (
	background    = color.NRGBA{R: 15, G: 23, B: 42, A: 255}
	gridLineColor = color.NRGBA{R: 51, G: 65, B: 85, A: 255}
	goalColor     = color.NRGBA{R: 34, G: 197, B: 94, A: 255}
	obstacleColor = color.NRGBA{R: 239, G: 68, B: 68, A: 255}
	emptyColor    = color.NRGBA{R: 30, G: 41, B: 59, A: 128}
	arrowColor    = color.NRGBA{R: 96, G: 165, B: 250, A: 255}
	agentColor    = color.NRGBA{R: 59, G: 130, B: 246, A: 255}
	outlineColor  = color.NRGBA{R: 30, G: 64, B: 175, A: 255}
)

var (
	whiteOnce  sync.Once
	whiteImage *ebiten.Image
)

// white is the source texture for DrawTriangles.
func white() *ebiten.Image {
	whiteOnce.Do(func() {
		whiteImage = ebiten.NewImage(3, 3)
		whiteImage.Fill(color.White)
	})
	return whiteImage
}

// qTint shades an empty cell by how valuable its best action is.
func qTint(maxQ float64) color.NRGBA {
	intensity := min(255, max(0, maxQ*50))
	return color.NRGBA{R: 59, G: 130, B: 246, A: uint8(math.Round(intensity / 255 * 0.3 * 255))}
}

// policy returns the greedy actions worth drawing for a cell, none for
// goals, obstacles and states that have not learned anything yet.
func policy(cell grid.Cell, values qlearning.ActionValues) []grid.Action {
	if cell != grid.Empty || values.Max() <= policyThreshold {
		return nil
	}
	return values.Best()
}

// arrowLines is the shaft and the two barbs of the arrow for a, as x0,y0,x1,y1.
func arrowLines(a grid.Action, cx, cy float64) [3][4]float64 {
	dx, dy := 0.0, 0.0
	switch a {
	case grid.Up:
		dy = -1
	case grid.Down:
		dy = 1
	case grid.Left:
		dx = -1
	case grid.Right:
		dx = 1
	}
	tipX, tipY := cx+dx*arrowSize, cy+dy*arrowSize
	// barbs go back 5px along the shaft and 5px to either side
	backX, backY := tipX-dx*5, tipY-dy*5
	return [3][4]float64{
		{cx, cy, tipX, tipY},
		{tipX, tipY, backX - dy*5, backY - dx*5},
		{tipX, tipY, backX + dy*5, backY + dx*5},
	}
}

// hexColor parses "#rrggbb".
func hexColor(s string) (color.NRGBA, error) {
	c := color.NRGBA{A: 255}
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return c, fmt.Errorf("color %q: %w", s, err)
	}
	return c, nil
}

func withAlpha(c color.NRGBA, a uint8) color.NRGBA {
	c.A = a
	return c
}

func cellOrigin(ox, oy float64, p grid.Position) (float32, float32) {
	return float32(ox + float64(p.X*cellSize)), float32(oy + float64(p.Y*cellSize))
}

func cellCenter(ox, oy float64, p grid.Position) (float32, float32) {
	x, y := cellOrigin(ox, oy, p)
	return x + cellSize/2, y + cellSize/2
}

// drawCells fills every cell with fill(p) and draws the grid lines.
func drawCells(screen *ebiten.Image, ox, oy float64, fill func(grid.Position) color.Color) {
	for y := 0; y < grid.Size; y++ {
		for x := 0; x < grid.Size; x++ {
			p := grid.Position{X: x, Y: y}
			cx, cy := cellOrigin(ox, oy, p)
			vector.FillRect(screen, cx, cy, cellSize, cellSize, fill(p), false)
			vector.StrokeRect(screen, cx, cy, cellSize, cellSize, 1, gridLineColor, false)
		}
	}
}

func drawArrows(screen *ebiten.Image, ox, oy float64, p grid.Position, actions []grid.Action) {
	cx, cy := cellCenter(ox, oy, p)
	for _, a := range actions {
		for _, l := range arrowLines(a, float64(cx), float64(cy)) {
			vector.StrokeLine(screen, float32(l[0]), float32(l[1]), float32(l[2]), float32(l[3]), 2, arrowColor, true)
		}
	}
}

func drawAgent(screen *ebiten.Image, ox, oy float64, p grid.Position, fill, outline color.Color) {
	cx, cy := cellCenter(ox, oy, p)
	vector.FillCircle(screen, cx, cy, cellSize/3, fill, true)
	vector.StrokeCircle(screen, cx, cy, cellSize/3, 3, outline, true)
}

// drawBoid draws b as a triangle pointing along its velocity.
func drawBoid(screen *ebiten.Image, ox float64, b flock.Boid) {
	angle := b.Velocity.Angle()
	x, y := ox+b.Position.X, b.Position.Y

	tipX, tipY := x+math.Cos(angle)*8, y+math.Sin(angle)*8
	rightX, rightY := x+math.Cos(angle+2.5)*5, y+math.Sin(angle+2.5)*5
	leftX, leftY := x+math.Cos(angle-2.5)*5, y+math.Sin(angle-2.5)*5

	r, g, bl := float32(b.Color.R)/255, float32(b.Color.G)/255, float32(b.Color.B)/255
	vertex := func(x, y float64) ebiten.Vertex {
		return ebiten.Vertex{
			DstX: float32(x), DstY: float32(y),
			SrcX: 1, SrcY: 1,
			ColorR: r, ColorG: g, ColorB: bl, ColorA: 1,
		}
	}
	vertices := []ebiten.Vertex{vertex(tipX, tipY), vertex(rightX, rightY), vertex(leftX, leftY)}
	screen.DrawTriangles(vertices, []uint16{0, 1, 2}, white(), &ebiten.DrawTrianglesOptions{})
}
