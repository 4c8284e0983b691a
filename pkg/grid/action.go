package grid

import "fmt"

// Action is one of the four moves available to a grid agent.
type Action uint8

const (
	Up Action = iota
	Down
	Left
	Right
)

// NumActions is the size of the fixed action set.
const NumActions = 4

// Actions lists the action set in index order.
var Actions = [NumActions]Action{Up, Down, Left, Right}

func (a Action) String() string {
	switch a {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("action(%d)", uint8(a))
	}
}

// MarshalText encodes the action by name.
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}
