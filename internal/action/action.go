// Package action implements the administrative actions behind the main
// menu: package manager and VPN client checks/installs, and export/import
// of the installed server roles & features. Every action shells out to an
// external command and reports a textual Outcome; nothing here touches the
// terminal UI.
package action

import (
	"context"

	"srvhelper/pkg/types"
)

// Action identifiers, in menu display order.
const (
	CheckWinget    = "check-winget"
	InstallWinget  = "install-winget"
	CheckNetBird   = "check-netbird"
	InstallNetBird = "install-netbird"
	BackupRoles    = "backup-roles"
	RestoreRoles   = "restore-roles"
	Quit           = "quit"
)

// Action is one selectable operation in the main menu.
type Action struct {
	ID           string
	Label        string
	RequiresFile bool   // needs a backup file picked in the browser first
	BusyText     string // shown while the action runs
}

// Runner executes one administrative action and returns its outcome.
// The path argument is only meaningful for actions with RequiresFile set.
type Runner interface {
	Run(ctx context.Context, actionID string, path string) types.Outcome
}

// Catalog returns the fixed, ordered list of menu actions.
func Catalog() []Action {
	return []Action{
		{ID: CheckWinget, Label: "Check Winget Status"},
		{ID: InstallWinget, Label: "Install Winget",
			BusyText: "Installing Winget... Please wait.\n\nThis may take a few minutes."},
		{ID: CheckNetBird, Label: "Check NetBird Status"},
		{ID: InstallNetBird, Label: "Install NetBird",
			BusyText: "Installing NetBird... Please wait.\n\nThis may take a few minutes."},
		{ID: BackupRoles, Label: "Backup Server Roles & Features",
			BusyText: "Exporting installed roles and features..."},
		{ID: RestoreRoles, Label: "Restore Server Roles & Features", RequiresFile: true,
			BusyText: "Restoring Server Roles and Features...\n\nThis may take several minutes. Please wait."},
		{ID: Quit, Label: "Exit"},
	}
}

// Lookup returns the catalog entry for an action id.
func Lookup(id string) (Action, bool) {
	for _, a := range Catalog() {
		if a.ID == id {
			return a, true
		}
	}
	return Action{}, false
}
