package tui

import (
	"srvhelper/internal/action"
	"srvhelper/pkg/types"
)

// outcomeMsg carries a finished action's result back into the update loop.
type outcomeMsg struct {
	action  action.Action
	outcome types.Outcome
}

// browserRefreshMsg asks the browser to re-list its directory after the
// watcher saw it change on disk.
type browserRefreshMsg struct {
	dir string
}
