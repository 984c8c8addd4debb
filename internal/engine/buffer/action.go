package buffer

import "fmt"

// Action is an editing operation addressed to one buffer.
// The set of actions is closed; see Apply for their semantics.
type Action interface {
	fmt.Stringer
	bufferAction()
}

// Insert inserts Text at byte offset Index.
type Insert struct {
	Index ByteOffset
	Text  string
}

// Delete removes the bytes in Range.
type Delete struct {
	Range Range
}

// Replace deletes Range and inserts Text at Range.Start.
type Replace struct {
	Range Range
	Text  string
}

// Append inserts Text at the cursor and advances the cursor past it.
type Append struct {
	Text string
}

// Newline appends the buffer's line ending at the cursor.
type Newline struct{}

// Overwrite replaces the grapheme under the cursor with Text and advances.
// At the end of a line it behaves like Append.
type Overwrite struct {
	Text string
}

// DeleteBackward removes the grapheme cluster before the cursor.
type DeleteBackward struct{}

// DeleteForward removes the grapheme cluster after the cursor.
type DeleteForward struct{}

// MoveCursor moves the cursor without changing the text.
type MoveCursor struct {
	Dir Direction
}

// Save writes the buffer to its path.
type Save struct{}

// Direction is a cursor movement.
type Direction uint8

// Cursor directions.
const (
	Left Direction = iota
	Right
	Up
	Down
	LineStart
	LineEnd
)

var directionNames = [...]string{"left", "right", "up", "down", "line-start", "line-end"}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return fmt.Sprintf("direction(%d)", d)
}

// ParseDirection parses a direction name as printed by Direction.String.
func ParseDirection(s string) (Direction, error) {
	for i, name := range directionNames {
		if name == s {
			return Direction(i), nil
		}
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

func (Insert) bufferAction() {}
func (Delete) bufferAction() {}
func (Replace) bufferAction() {}
func (Append) bufferAction() {}
func (Newline) bufferAction() {}
func (Overwrite) bufferAction() {}
func (DeleteBackward) bufferAction() {}
func (DeleteForward) bufferAction() {}
func (MoveCursor) bufferAction() {}
func (Save) bufferAction() {}

func (a Insert) String() string { return fmt.Sprintf("Insert(%d, %q)", a.Index, a.Text) }
func (a Delete) String() string { return fmt.Sprintf("Delete%s", a.Range) }
func (a Replace) String() string { return fmt.Sprintf("Replace%s with %q", a.Range, a.Text) }
func (a Append) String() string { return fmt.Sprintf("Append(%q)", a.Text) }
func (Newline) String() string { return "Newline" }
func (a Overwrite) String() string { return fmt.Sprintf("Overwrite(%q)", a.Text) }
func (DeleteBackward) String() string { return "DeleteBackward" }
func (DeleteForward) String() string { return "DeleteForward" }
func (a MoveCursor) String() string { return fmt.Sprintf("MoveCursor(%s)", a.Dir) }
func (Save) String() string { return "Save" }
