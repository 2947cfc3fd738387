// Package tui implements the terminal interface: a main menu of
// administrative actions, a file browser for picking backup files, a busy
// screen while an action runs, and a status screen for its outcome.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"srvhelper/internal/action"
	"srvhelper/internal/config"
	"srvhelper/internal/log"
	"srvhelper/internal/watch"
	"srvhelper/pkg/types"
)

// screen identifies the single active UI mode. Exactly one is active at a
// time; transitions happen only in Update.
type screen int

const (
	screenMenu screen = iota
	screenBrowser
	screenBusy
	screenStatus
)

// Model is the bubbletea model owning all screen state.
type Model struct {
	cfg    *config.Config
	runner action.Runner
	lister Lister

	keys    types.KeyMap
	styles  Styles
	help    help.Model
	spinner spinner.Model

	screen  screen
	menu    *Menu
	browser *Browser       // non-nil only while the browser screen is open
	pending action.Action  // the file-requiring action the browser is picking for
	watcher *watch.Watcher // nil until the browser first opens, or if disabled

	busy    action.Action // action shown on the busy screen
	last    action.Action
	outcome types.Outcome

	width  int
	height int
}

// New builds the model. The runner performs the actual administrative
// work; everything else in here is pure screen state.
func New(cfg *config.Config, runner action.Runner) *Model {
	pattern, err := cfg.FileGlob()
	if err != nil {
		// Validate catches this for loaded configs; fall back to showing
		// every file
		pattern = nil
	}

	styles := NewStyles(cfg)
	sp := spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(styles.Dir),
	)

	return &Model{
		cfg:     cfg,
		runner:  runner,
		lister:  FSLister{Pattern: pattern, ShowHidden: cfg.Browser.ShowHidden},
		keys:    types.DefaultKeyMap(),
		styles:  styles,
		help:    help.New(),
		spinner: sp,
		screen:  screenMenu,
		menu:    NewMenu(action.Catalog()),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if m.screen != screenBusy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case outcomeMsg:
		m.last = msg.action
		m.outcome = msg.outcome
		m.screen = screenStatus
		return m, nil

	case browserRefreshMsg:
		if m.screen == screenBrowser && m.browser != nil && msg.dir == m.browser.Dir() {
			m.browser.Reload()
		}
		// Always re-arm so later browser sessions keep refreshing
		return m, m.waitForRefresh()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// A running action cannot be cancelled; swallow everything
	if m.screen == screenBusy {
		return m, nil
	}

	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	switch m.screen {
	case screenStatus:
		// Any key returns to the menu
		m.screen = screenMenu
		return m, nil
	case screenMenu:
		return m.handleMenuKey(msg)
	case screenBrowser:
		return m.handleBrowserKey(msg)
	}
	return m, nil
}

func (m *Model) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Down):
		m.menu.Next()
	case key.Matches(msg, m.keys.Up):
		m.menu.Previous()
	case key.Matches(msg, m.keys.Confirm):
		a, ok := m.menu.Confirm()
		if !ok {
			return m, nil
		}
		if a.ID == action.Quit {
			return m.quit()
		}
		if a.RequiresFile {
			return m, m.openBrowser(a)
		}
		return m, m.startAction(a, "")
	}
	// Anything else is ignored
	return m, nil
}

func (m *Model) handleBrowserKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Quit):
		m.closeBrowser()
		m.screen = screenMenu
	case key.Matches(msg, m.keys.Down):
		m.browser.Next()
	case key.Matches(msg, m.keys.Up):
		m.browser.Previous()
	case key.Matches(msg, m.keys.Parent):
		m.browser.Parent()
		m.pointWatcher()
	case key.Matches(msg, m.keys.Confirm):
		path, ok := m.browser.Confirm()
		if ok {
			a := m.pending
			m.closeBrowser()
			return m, m.startAction(a, path)
		}
		// Confirm may have entered a directory
		m.pointWatcher()
	}
	return m, nil
}

// openBrowser transitions to the file browser for the given action.
func (m *Model) openBrowser(a action.Action) tea.Cmd {
	m.pending = a
	m.browser = NewBrowser(m.lister, m.cfg.Backups.Directory)
	m.screen = screenBrowser

	if m.cfg.Browser.AutoRefresh && m.watcher == nil {
		w, err := watch.New()
		if err != nil {
			log.Warnf("browser auto-refresh unavailable: %v", err)
		} else {
			m.watcher = w
			m.pointWatcher()
			return m.waitForRefresh()
		}
	}
	m.pointWatcher()
	return nil
}

// closeBrowser discards all browser state.
func (m *Model) closeBrowser() {
	m.browser = nil
	m.pending = action.Action{}
}

// startAction transitions to the busy screen and runs the action in a
// command. The loop stays responsive only to render the spinner; input is
// ignored until the outcome arrives.
func (m *Model) startAction(a action.Action, path string) tea.Cmd {
	m.screen = screenBusy
	m.busy = a
	runner := m.runner
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return outcomeMsg{action: a, outcome: runner.Run(context.Background(), a.ID, path)}
	})
}

func (m *Model) pointWatcher() {
	if m.watcher == nil || m.browser == nil {
		return
	}
	if err := m.watcher.Point(m.browser.Dir()); err != nil {
		log.Debugf("cannot watch %s: %v", m.browser.Dir(), err)
	}
}

// waitForRefresh blocks on the watcher channel and feeds the next change
// back into Update. Re-armed after every delivery.
func (m *Model) waitForRefresh() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	ch := m.watcher.Refresh()
	return func() tea.Msg {
		dir, ok := <-ch
		if !ok {
			return nil
		}
		return browserRefreshMsg{dir: dir}
	}
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	if m.watcher != nil {
		_ = m.watcher.Close()
		m.watcher = nil
	}
	return m, tea.Quit
}
