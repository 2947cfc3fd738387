package tui

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"srvhelper/internal/action"
	"srvhelper/internal/config"
	"srvhelper/internal/errors"
	"srvhelper/pkg/types"
)

// fakeRunner records every invocation and answers with a fixed outcome.
type fakeRunner struct {
	calls   []runnerCall
	outcome types.Outcome
}

type runnerCall struct {
	id   string
	path string
}

func (f *fakeRunner) Run(_ context.Context, actionID, path string) types.Outcome {
	f.calls = append(f.calls, runnerCall{id: actionID, path: path})
	return f.outcome
}

func newTestModel(t *testing.T) (*Model, *fakeRunner, string) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "roles.xml"), []byte("x"), 0o644))

	cfg := config.New()
	cfg.Backups.Directory = dir
	cfg.Browser.AutoRefresh = false

	runner := &fakeRunner{outcome: types.Outcome{Success: true, Message: "ok"}}
	return New(cfg, runner), runner, dir
}

func press(t *testing.T, m *Model, keys ...string) tea.Cmd {
	t.Helper()

	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "backspace":
			msg = tea.KeyMsg{Type: tea.KeyBackspace}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		_, cmd = m.Update(msg)
	}
	return cmd
}

// runCmd executes a command tree and returns the flattened messages,
// unwrapping batches the way the bubbletea runtime would.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, runCmd(c)...)
		}
		return msgs
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// moveTo presses down until the menu cursor sits on the given action.
func moveTo(t *testing.T, m *Model, actionID string) {
	t.Helper()
	for i := 0; i < len(m.menu.Items()); i++ {
		if m.menu.Items()[m.menu.Index()].ID == actionID {
			return
		}
		press(t, m, "j")
	}
	t.Fatalf("action %q not in menu", actionID)
}

func TestModelStartsOnMenu(t *testing.T) {
	m, _, _ := newTestModel(t)
	assert.Equal(t, screenMenu, m.screen)
	assert.Contains(t, m.View(), "Server Helper")
}

func TestMenuKeysMoveCursor(t *testing.T) {
	m, _, _ := newTestModel(t)

	press(t, m, "j")
	assert.Equal(t, 1, m.menu.Index())
	press(t, m, "k")
	assert.Equal(t, 0, m.menu.Index())
	press(t, m, "k")
	assert.Equal(t, len(m.menu.Items())-1, m.menu.Index())
}

func TestUnknownKeysAreIgnored(t *testing.T) {
	m, _, _ := newTestModel(t)

	cmd := press(t, m, "x")
	assert.Nil(t, cmd)
	assert.Equal(t, screenMenu, m.screen)
	assert.Equal(t, 0, m.menu.Index())
}

func TestQuitFromMenu(t *testing.T) {
	m, _, _ := newTestModel(t)

	cmd := press(t, m, "q")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestQuitMenuItem(t *testing.T) {
	m, _, _ := newTestModel(t)

	moveTo(t, m, action.Quit)
	cmd := press(t, m, "enter")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestConfirmRunsActionAndShowsStatus(t *testing.T) {
	m, runner, _ := newTestModel(t)

	cmd := press(t, m, "enter")
	assert.Equal(t, screenBusy, m.screen)

	msgs := runCmd(cmd)
	var done bool
	for _, msg := range msgs {
		if _, ok := msg.(outcomeMsg); ok {
			m.Update(msg)
			done = true
		}
	}
	require.True(t, done, "the action command must produce an outcome")

	require.Len(t, runner.calls, 1)
	assert.Equal(t, action.CheckWinget, runner.calls[0].id)
	assert.Empty(t, runner.calls[0].path)
	assert.Equal(t, screenStatus, m.screen)
	assert.Contains(t, m.View(), "ok")
}

func TestBusyScreenSwallowsInput(t *testing.T) {
	m, _, _ := newTestModel(t)

	press(t, m, "enter")
	require.Equal(t, screenBusy, m.screen)

	cmd := press(t, m, "q", "esc", "enter", "j")
	assert.Nil(t, cmd)
	assert.Equal(t, screenBusy, m.screen)
}

func TestAnyKeyLeavesStatusScreen(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.Update(outcomeMsg{action: action.Catalog()[0], outcome: types.Outcome{Success: true, Message: "ok"}})
	require.Equal(t, screenStatus, m.screen)

	press(t, m, "x")
	assert.Equal(t, screenMenu, m.screen)
}

func TestRestoreOpensBrowser(t *testing.T) {
	m, _, dir := newTestModel(t)

	moveTo(t, m, action.RestoreRoles)
	press(t, m, "enter")

	assert.Equal(t, screenBrowser, m.screen)
	require.NotNil(t, m.browser)
	assert.Equal(t, dir, m.browser.Dir())
}

func TestBrowserCancelDiscardsState(t *testing.T) {
	m, runner, _ := newTestModel(t)

	moveTo(t, m, action.RestoreRoles)
	press(t, m, "enter")
	press(t, m, "j") // move off the starting entry
	press(t, m, "esc")

	assert.Equal(t, screenMenu, m.screen)
	assert.Nil(t, m.browser)
	assert.Empty(t, runner.calls, "cancelling must not run the action")

	// Reopening starts fresh at the configured directory
	press(t, m, "enter")
	assert.Equal(t, screenBrowser, m.screen)
	assert.Equal(t, 0, m.browser.Index())
}

func TestSelectingFileRunsRestore(t *testing.T) {
	m, runner, dir := newTestModel(t)

	moveTo(t, m, action.RestoreRoles)
	press(t, m, "enter")

	// Cursor starts on "..": move down to the file
	press(t, m, "j")
	cmd := press(t, m, "enter")
	assert.Equal(t, screenBusy, m.screen)
	assert.Nil(t, m.browser)

	for _, msg := range runCmd(cmd) {
		if _, ok := msg.(outcomeMsg); ok {
			m.Update(msg)
		}
	}

	require.Len(t, runner.calls, 1)
	assert.Equal(t, action.RestoreRoles, runner.calls[0].id)
	assert.Equal(t, filepath.Join(dir, "roles.xml"), runner.calls[0].path)
	assert.Equal(t, screenStatus, m.screen)

	press(t, m, "x")
	assert.Equal(t, screenMenu, m.screen)
}

func TestFailedDescentStaysInBrowser(t *testing.T) {
	m, _, _ := newTestModel(t)

	lister := stubLister{
		dirs: map[string][]types.Entry{
			"/backups": {entry("/backups", "sub", true)},
		},
		errs: map[string]error{
			"/backups/sub": errors.NewFileError("cannot read directory", "/backups/sub", errors.DirUnreadable, nil),
		},
	}
	m.lister = lister
	m.cfg.Backups.Directory = "/backups"

	moveTo(t, m, action.RestoreRoles)
	press(t, m, "enter")
	require.Equal(t, screenBrowser, m.screen)

	press(t, m, "j") // onto "sub"
	press(t, m, "enter")

	assert.Equal(t, screenBrowser, m.screen)
	assert.Equal(t, "/backups", m.browser.Dir())
	assert.NotEmpty(t, m.browser.Err())
	assert.Contains(t, m.View(), "cannot read directory")
}

func TestBackspaceNavigatesToParent(t *testing.T) {
	m, _, dir := newTestModel(t)

	sub := filepath.Join(dir, "old")
	require.NoError(t, os.Mkdir(sub, 0o755))

	moveTo(t, m, action.RestoreRoles)
	press(t, m, "enter")
	press(t, m, "j") // onto the "old" directory
	press(t, m, "enter")
	require.Equal(t, sub, m.browser.Dir())

	press(t, m, "backspace")
	assert.Equal(t, dir, m.browser.Dir())
}

func TestRefreshMessageReloadsBrowser(t *testing.T) {
	m, _, _ := newTestModel(t)

	lister := stubLister{dirs: map[string][]types.Entry{
		"/backups": {entry("/backups", "a.xml", false)},
	}}
	m.lister = lister
	m.cfg.Backups.Directory = "/backups"

	moveTo(t, m, action.RestoreRoles)
	press(t, m, "enter")
	require.Len(t, m.browser.Entries(), 2) // ".." + a.xml

	lister.dirs["/backups"] = append(lister.dirs["/backups"], entry("/backups", "b.xml", false))
	m.Update(browserRefreshMsg{dir: "/backups"})

	assert.Len(t, m.browser.Entries(), 3)
}

func TestRefreshForOtherDirectoryIsIgnored(t *testing.T) {
	m, _, _ := newTestModel(t)

	lister := stubLister{dirs: map[string][]types.Entry{
		"/backups": {entry("/backups", "a.xml", false)},
	}}
	m.lister = lister
	m.cfg.Backups.Directory = "/backups"

	moveTo(t, m, action.RestoreRoles)
	press(t, m, "enter")
	before := len(m.browser.Entries())

	lister.dirs["/backups"] = append(lister.dirs["/backups"], entry("/backups", "b.xml", false))
	m.Update(browserRefreshMsg{dir: "/elsewhere"})

	assert.Len(t, m.browser.Entries(), before)
}
