package tui

import (
	"strings"
)

// View implements tea.Model.
func (m *Model) View() string {
	switch m.screen {
	case screenBrowser:
		return m.browserView()
	case screenBusy:
		return m.busyView()
	case screenStatus:
		return m.statusView()
	default:
		return m.menuView()
	}
}

func (m *Model) menuView() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Server Helper"))
	b.WriteString("\n")

	for i, item := range m.menu.Items() {
		if i == m.menu.Index() {
			b.WriteString(m.styles.SelectedItem.Render("> " + item.Label))
		} else {
			b.WriteString(m.styles.Item.Render(item.Label))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) browserView() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Select a backup file"))
	b.WriteString("\n")
	b.WriteString(m.styles.Subtle.Render(m.browser.Dir()))
	b.WriteString("\n\n")

	entries := m.browser.Entries()
	if len(entries) == 0 {
		b.WriteString(m.styles.Message.Render("No matching files here."))
		b.WriteString("\n")
	}
	for i, e := range entries {
		name := e.DisplayName()
		if e.IsDir || e.Parent {
			name = m.styles.Dir.Render(name)
		}
		if i == m.browser.Index() {
			b.WriteString(m.styles.SelectedItem.Render("> " + name))
		} else {
			b.WriteString(m.styles.Item.Render(name))
		}
		b.WriteString("\n")
	}

	if msg := m.browser.Err(); msg != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render(msg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Subtle.Render("enter: open/select • backspace: parent • esc: back"))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) busyView() string {
	text := m.busy.BusyText
	if text == "" {
		text = m.busy.Label
	}
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Server Helper"))
	b.WriteString("\n")
	b.WriteString(m.styles.Message.Render(m.spinner.View() + " " + text))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) statusView() string {
	header := m.styles.Success.Render("Done")
	if !m.outcome.Success {
		header = m.styles.Error.Render("Failed")
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(m.last.Label))
	b.WriteString("\n")
	b.WriteString(m.styles.Message.Render(header))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Message.Render(m.outcome.Message))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Subtle.Render("Press any key to return to the menu."))
	b.WriteString("\n")
	return b.String()
}
