package core

// Action represents a semantic table action, abstracted from physical key presses.
type Action int

const (
	ActionNone    Action = iota
	ActionLeft           // Left, h - move the hand cursor left
	ActionRight          // Right, l - move the hand cursor right
	ActionDiscard        // Enter, Space - discard the tile under the cursor
	ActionHelp           // ? - toggle full help
	ActionQuit           // Q, Ctrl+C - stop the round and exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionDiscard:
		return "Discard"
	case ActionHelp:
		return "Help"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// DiscardRequest is a human discard choice: the tile at Index in Seat's hand.
type DiscardRequest struct {
	Seat  Seat
	Index int
}
