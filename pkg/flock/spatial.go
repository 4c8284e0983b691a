package flock

import (
	"math"
	"slices"

	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/geometry"
)

type cellKey struct {
	x, y int
}

// spatialGrid buckets boid indices into square cells at least as wide as the
// largest perception radius, so every neighbour of a boid sits in the 3x3
// block of cells around it.
type spatialGrid struct {
	cellSize float64
	cells    map[cellKey][]int
	scratch  []int
}

func newSpatialGrid(radii ...float64) *spatialGrid {
	size := 10.0
	for _, r := range radii {
		size = math.Max(size, r)
	}
	return &spatialGrid{cellSize: size, cells: make(map[cellKey][]int)}
}

func (g *spatialGrid) key(p geometry.Vector2D) cellKey {
	return cellKey{x: int(math.Floor(p.X / g.cellSize)), y: int(math.Floor(p.Y / g.cellSize))}
}

// rebuild re-buckets boids. Slices keep their capacity between ticks.
func (g *spatialGrid) rebuild(boids []Boid) {
	for k := range g.cells {
		g.cells[k] = g.cells[k][:0]
	}
	for i, b := range boids {
		k := g.key(b.Position)
		g.cells[k] = append(g.cells[k], i)
	}
}

// near returns the indices of the boids around p in ascending order, so
// sums over them add up exactly as a full scan would. The slice is reused
// by the next call.
func (g *spatialGrid) near(p geometry.Vector2D) []int {
	c := g.key(p)
	g.scratch = g.scratch[:0]
	for x := c.x - 1; x <= c.x+1; x++ {
		for y := c.y - 1; y <= c.y+1; y++ {
			g.scratch = append(g.scratch, g.cells[cellKey{x: x, y: y}]...)
		}
	}
	slices.Sort(g.scratch)
	return g.scratch
}
