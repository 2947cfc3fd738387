package tui

import "srvhelper/internal/action"

// Menu tracks the cursor over the fixed, ordered list of actions. The item
// list never changes after startup; only the cursor moves.
type Menu struct {
	items []action.Action
	index int
}

// NewMenu creates a menu over items, cursor on the first entry.
func NewMenu(items []action.Action) *Menu {
	return &Menu{items: items}
}

// Next moves the cursor down, wrapping past the last item.
func (m *Menu) Next() {
	if len(m.items) == 0 {
		return
	}
	m.index = (m.index + 1) % len(m.items)
}

// Previous moves the cursor up, wrapping to the last item from the top.
func (m *Menu) Previous() {
	if len(m.items) == 0 {
		return
	}
	m.index = (m.index - 1 + len(m.items)) % len(m.items)
}

// Confirm returns the action under the cursor without moving it.
// ok is false for an empty menu.
func (m *Menu) Confirm() (action.Action, bool) {
	if len(m.items) == 0 {
		return action.Action{}, false
	}
	return m.items[m.index], true
}

// Index returns the current cursor position.
func (m *Menu) Index() int {
	return m.index
}

// Items returns the menu entries in display order.
func (m *Menu) Items() []action.Action {
	return m.items
}
