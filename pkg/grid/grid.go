// Package grid holds the fixed 8x8 world shared by the Q-learning engines:
// cell classes, positions, the four moves and immutable layouts.
package grid

import (
	"errors"
	"fmt"
	"strings"
)

// Size is the side length of every grid. Layouts are square.
const Size = 8

// ErrInvalidLayout is wrapped by every layout construction failure.
var ErrInvalidLayout = errors.New("invalid layout")

// Cell classifies one square of the grid.
type Cell uint8

const (
	Empty Cell = iota
	Goal
	Obstacle
)

// Layout row characters, in the spirit of the racetrack strings ("Woooo+").
const (
	EmptyRune    = '.'
	ObstacleRune = '#'
)

func (c Cell) String() string {
	switch c {
	case Empty:
		return "empty"
	case Goal:
		return "goal"
	case Obstacle:
		return "obstacle"
	default:
		return fmt.Sprintf("cell(%d)", uint8(c))
	}
}

// MarshalText lets snapshots carry readable cell classes over JSON.
func (c Cell) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Position is a cell coordinate. Y grows downward, so row 0 is the top of the canvas.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// In reports whether p lies inside the grid.
func (p Position) In() bool {
	return p.X >= 0 && p.X < Size && p.Y >= 0 && p.Y < Size
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Move applies a to p and clamps the result to the grid edges.
func (p Position) Move(a Action) Position {
	switch a {
	case Up:
		p.Y = max(0, p.Y-1)
	case Down:
		p.Y = min(Size-1, p.Y+1)
	case Left:
		p.X = max(0, p.X-1)
	case Right:
		p.X = min(Size-1, p.X+1)
	}
	return p
}

// Layout is an 8x8 matrix of cells indexed [y][x]. It is a value type:
// copies never alias, which keeps layouts immutable once an engine holds one.
type Layout [Size][Size]Cell

// ParseLayout converts Size rows of '.' and '#' into a layout.
func ParseLayout(rows []string) (Layout, error) {
	var l Layout
	if len(rows) != Size {
		return l, fmt.Errorf("%w: want %d rows, got %d", ErrInvalidLayout, Size, len(rows))
	}
	for y, row := range rows {
		if len(row) != Size {
			return l, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidLayout, y, len(row), Size)
		}
		for x, r := range row {
			switch r {
			case EmptyRune:
				l[y][x] = Empty
			case ObstacleRune:
				l[y][x] = Obstacle
			default:
				return l, fmt.Errorf("%w: unexpected %q at %s", ErrInvalidLayout, r, Position{X: x, Y: y})
			}
		}
	}
	return l, nil
}

// At returns the class of the cell at p. Positions outside the grid read as obstacles.
func (l Layout) At(p Position) Cell {
	if !p.In() {
		return Obstacle
	}
	return l[p.Y][p.X]
}

// WithGoals returns a copy of l with every goal cell marked.
// A goal that is out of bounds or sits on an obstacle is rejected.
func (l Layout) WithGoals(goals ...Position) (Layout, error) {
	for _, g := range goals {
		if !g.In() {
			return l, fmt.Errorf("%w: goal %s out of bounds", ErrInvalidLayout, g)
		}
		if l.At(g) == Obstacle {
			return l, fmt.Errorf("%w: goal %s is an obstacle", ErrInvalidLayout, g)
		}
		l[g.Y][g.X] = Goal
	}
	return l, nil
}

// Reachable reports whether to can be reached from from by clamped moves avoiding obstacles.
func (l Layout) Reachable(from, to Position) bool {
	if l.At(from) == Obstacle || l.At(to) == Obstacle {
		return false
	}
	var seen [Size][Size]bool
	queue := []Position{from}
	seen[from.Y][from.X] = true
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		if p == to {
			return true
		}
		for _, a := range Actions {
			n := p.Move(a)
			if seen[n.Y][n.X] || l.At(n) == Obstacle {
				continue
			}
			seen[n.Y][n.X] = true
			queue = append(queue, n)
		}
	}
	return false
}

// Rows renders l back into row strings; goals print as 'G'.
func (l Layout) Rows() []string {
	rows := make([]string, Size)
	for y := range l {
		var b strings.Builder
		for x := range l[y] {
			switch l[y][x] {
			case Obstacle:
				b.WriteRune(ObstacleRune)
			case Goal:
				b.WriteRune('G')
			default:
				b.WriteRune(EmptyRune)
			}
		}
		rows[y] = b.String()
	}
	return rows
}
