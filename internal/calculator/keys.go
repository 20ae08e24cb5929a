package calculator

import "context"

// Action is something a keyboard shortcut can trigger.
type Action int

const (
	ActionAdd Action = iota
	ActionSubtract
	ActionMultiply
	ActionDivide
	ActionClear
)

func (a Action) String() string {
	if op, ok := a.Operation(); ok {
		return op.String()
	}
	if a == ActionClear {
		return "clear"
	}
	return "unknown"
}

// Operation returns the arithmetic operation behind a, if any.
func (a Action) Operation() (Operation, bool) {
	switch a {
	case ActionAdd:
		return Add, true
	case ActionSubtract:
		return Subtract, true
	case ActionMultiply:
		return Multiply, true
	case ActionDivide:
		return Divide, true
	}
	return 0, false
}

// Shortcut binds a single key to an action.
type Shortcut struct {
	Key    string
	Action Action
}

var shortcuts = []Shortcut{
	{Key: "a", Action: ActionAdd},
	{Key: "s", Action: ActionSubtract},
	{Key: "m", Action: ActionMultiply},
	{Key: "d", Action: ActionDivide},
	{Key: "c", Action: ActionClear},
}

// Shortcuts returns the keyboard shortcuts in display order.
func Shortcuts() []Shortcut {
	out := make([]Shortcut, len(shortcuts))
	copy(out, shortcuts)
	return out
}

// ShortcutFor looks up the action bound to key. Keys are case-sensitive.
func ShortcutFor(key string) (Action, bool) {
	for _, s := range shortcuts {
		if s.Key == key {
			return s.Action, true
		}
	}
	return 0, false
}

// Mount subscribes the view to keyboard shortcuts.
func (v *View) Mount() { v.mounted = true }

// Unmount releases the keyboard subscription. Shortcuts delivered afterwards
// are ignored.
func (v *View) Unmount() { v.mounted = false }

func (v *View) Mounted() bool { return v.mounted }

// HandleKey runs the action bound to key. Shortcuts are global: they fire no
// matter which input has focus. It reports whether the key was handled.
func (v *View) HandleKey(ctx context.Context, key string) bool {
	if !v.mounted {
		return false
	}

	action, ok := ShortcutFor(key)
	if !ok {
		return false
	}

	v.Dispatch(ctx, action)
	return true
}

// Dispatch runs action against the view.
func (v *View) Dispatch(ctx context.Context, action Action) {
	if op, ok := action.Operation(); ok {
		v.Perform(ctx, op)
		return
	}
	if action == ActionClear {
		v.Clear()
	}
}
