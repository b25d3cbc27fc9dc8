package editor

import (
	"errors"

	"surface-engine/surface"
)

// Command represents an undoable edit
type Command interface {
	Execute() error
	Undo() error
	Description() string
}

// History manages undo/redo stacks
type History struct {
	undoStack []Command
	redoStack []Command
	maxDepth  int
}

// NewHistory creates a new history with the given max undo depth
func NewHistory(maxDepth int) *History {
	return &History{
		undoStack: make([]Command, 0, maxDepth),
		redoStack: make([]Command, 0, maxDepth),
		maxDepth:  maxDepth,
	}
}

// Do executes a command and pushes it to the undo stack. A command that
// fails is not recorded and the redo stack is left alone.
func (h *History) Do(cmd Command) error {
	if err := cmd.Execute(); err != nil {
		return err
	}
	h.undoStack = append(h.undoStack, cmd)
	if len(h.undoStack) > h.maxDepth {
		h.undoStack = h.undoStack[1:]
	}
	h.redoStack = h.redoStack[:0]
	return nil
}

// Undo reverts the last action. It reports false when there was nothing
// to undo. A failed undo keeps the command on the undo stack.
func (h *History) Undo() (bool, error) {
	if len(h.undoStack) == 0 {
		return false, nil
	}
	cmd := h.undoStack[len(h.undoStack)-1]
	if err := cmd.Undo(); err != nil {
		return false, err
	}
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, cmd)
	return true, nil
}

// Redo reapplies the last undone action
func (h *History) Redo() (bool, error) {
	if len(h.redoStack) == 0 {
		return false, nil
	}
	cmd := h.redoStack[len(h.redoStack)-1]
	if err := cmd.Execute(); err != nil {
		return false, err
	}
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, cmd)
	return true, nil
}

// CanUndo returns whether there are actions to undo
func (h *History) CanUndo() bool { return len(h.undoStack) > 0 }

// CanRedo returns whether there are actions to redo
func (h *History) CanRedo() bool { return len(h.redoStack) > 0 }

// Clear wipes all undo/redo history
func (h *History) Clear() {
	h.undoStack = h.undoStack[:0]
	h.redoStack = h.redoStack[:0]
}

// --- Concrete Commands ---

// Editable is the part of surface.Controller a ParamsCommand needs.
type Editable interface {
	Params() surface.Params
	Restore(p surface.Params) error
}

var errNotExecuted = errors.New("editor: command was never executed")

// ParamsCommand records a parameter edit as a before/after snapshot. The
// first Execute runs change; later ones restore the snapshot it produced.
type ParamsCommand struct {
	Target Editable
	Old    surface.Params
	New    surface.Params
	change func() error
	done   bool
	desc   string
}

func NewParamsCommand(target Editable, desc string, change func() error) *ParamsCommand {
	return &ParamsCommand{Target: target, change: change, desc: desc}
}

func (c *ParamsCommand) Execute() error {
	if c.done {
		return c.Target.Restore(c.New)
	}
	old := c.Target.Params()
	if err := c.change(); err != nil {
		return err
	}
	c.Old, c.New, c.done = old, c.Target.Params(), true
	return nil
}

func (c *ParamsCommand) Undo() error {
	if !c.done {
		return errNotExecuted
	}
	return c.Target.Restore(c.Old)
}

func (c *ParamsCommand) Description() string { return c.desc }
