// Package action defines what a resolved key binding asks the editor to do.
//
// An Action is either a core action, which the editor handles itself
// (currently only SetMode), or a Buffer action, which is applied to the
// buffer a view addresses. Actions are small comparable values so they can
// be stored in binding tables and compared in tests.
//
// Every action has a textual form, produced by String and read by Parse,
// that keymap files use:
//
//	mode insert
//	insert 4 "text"
//	delete 0 3
//	replace 0 3 "text"
//	append "text"
//	overwrite "text"
//	move left
//	newline
//	delete-backward
//	delete-forward
//	save
package action

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dshills/evie/internal/engine/buffer"
	"github.com/dshills/evie/internal/input/mode"
)

// ErrUnknownAction is returned by Parse for an unrecognized action name.
var ErrUnknownAction = errors.New("unknown action")

// Action is the closed set of things a binding can resolve to.
type Action interface {
	fmt.Stringer
	isAction()
}

// SetMode switches the editor to Mode.
type SetMode struct {
	Mode mode.Mode
}

// Buffer applies Op to the addressed buffer.
type Buffer struct {
	Op buffer.Action
}

func (SetMode) isAction() {}
func (Buffer) isAction() {}

// IsCore reports whether a is handled by the editor rather than a buffer.
func IsCore(a Action) bool {
	_, ok := a.(SetMode)
	return ok
}

// Switch returns a SetMode action.
func Switch(m mode.Mode) Action {
	return SetMode{Mode: m}
}

// Edit wraps a buffer operation.
func Edit(op buffer.Action) Action {
	return Buffer{Op: op}
}

// Append returns an action appending text at the cursor.
func Append(text string) Action {
	return Buffer{Op: buffer.Append{Text: text}}
}

// Move returns a cursor motion action.
func Move(dir buffer.Direction) Action {
	return Buffer{Op: buffer.MoveCursor{Dir: dir}}
}

func (a SetMode) String() string {
	return "mode " + a.Mode.String()
}

func (a Buffer) String() string {
	switch op := a.Op.(type) {
	case buffer.Insert:
		return fmt.Sprintf("insert %d %q", op.Index, op.Text)
	case buffer.Delete:
		return fmt.Sprintf("delete %d %d", op.Range.Start, op.Range.End)
	case buffer.Replace:
		return fmt.Sprintf("replace %d %d %q", op.Range.Start, op.Range.End, op.Text)
	case buffer.Append:
		return fmt.Sprintf("append %q", op.Text)
	case buffer.Overwrite:
		return fmt.Sprintf("overwrite %q", op.Text)
	case buffer.MoveCursor:
		return "move " + op.Dir.String()
	case buffer.Newline:
		return "newline"
	case buffer.DeleteBackward:
		return "delete-backward"
	case buffer.DeleteForward:
		return "delete-forward"
	case buffer.Save:
		return "save"
	case nil:
		return "<nil>"
	}
	return a.Op.String()
}

// Parse reads the textual form of an action.
func Parse(s string) (Action, error) {
	s = strings.TrimSpace(s)
	name, args, _ := strings.Cut(s, " ")
	args = strings.TrimSpace(args)

	var err error
	switch name {
	case "mode":
		var m mode.Mode
		if m, err = mode.Parse(args); err == nil {
			return SetMode{Mode: m}, nil
		}

	case "insert":
		var op buffer.Insert
		if err = scan(args, "%d %q", &op.Index, &op.Text); err == nil {
			return Buffer{Op: op}, nil
		}

	case "delete":
		var op buffer.Delete
		if err = scan(args, "%d %d", &op.Range.Start, &op.Range.End); err == nil {
			return Buffer{Op: op}, nil
		}

	case "replace":
		var op buffer.Replace
		if err = scan(args, "%d %d %q", &op.Range.Start, &op.Range.End, &op.Text); err == nil {
			return Buffer{Op: op}, nil
		}

	case "append":
		var op buffer.Append
		if err = scan(args, "%q", &op.Text); err == nil {
			return Buffer{Op: op}, nil
		}

	case "overwrite":
		var op buffer.Overwrite
		if err = scan(args, "%q", &op.Text); err == nil {
			return Buffer{Op: op}, nil
		}

	case "move":
		var dir buffer.Direction
		if dir, err = buffer.ParseDirection(args); err == nil {
			return Buffer{Op: buffer.MoveCursor{Dir: dir}}, nil
		}

	case "newline", "delete-backward", "delete-forward", "save":
		if args != "" {
			return nil, fmt.Errorf("action %q takes no arguments", name)
		}
		return Buffer{Op: noArg[name]}, nil

	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownAction, name)
	}

	return nil, fmt.Errorf("parse action %q: %w", s, err)
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Action {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

var noArg = map[string]buffer.Action{
	"newline":         buffer.Newline{},
	"delete-backward": buffer.DeleteBackward{},
	"delete-forward":  buffer.DeleteForward{},
	"save":            buffer.Save{},
}

// scan parses args with format and rejects trailing input.
func scan(args, format string, ptrs ...any) error {
	r := strings.NewReader(args)
	if _, err := fmt.Fscanf(r, format, ptrs...); err != nil {
		return err
	}
	rest, _ := io.ReadAll(r)
	if extra := strings.TrimSpace(string(rest)); extra != "" {
		return fmt.Errorf("unexpected %q", extra)
	}
	return nil
}
