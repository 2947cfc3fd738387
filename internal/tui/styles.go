package tui

import (
	"github.com/charmbracelet/lipgloss"

	"srvhelper/internal/config"
)

// Styles holds the lipgloss styles for every screen, built once from the
// configured theme.
type Styles struct {
	Title        lipgloss.Style
	Item         lipgloss.Style
	SelectedItem lipgloss.Style
	Dir          lipgloss.Style
	Success      lipgloss.Style
	Error        lipgloss.Style
	Message      lipgloss.Style
	Subtle       lipgloss.Style
}

// NewStyles builds the style set from the theme colors in cfg.
func NewStyles(cfg *config.Config) Styles {
	primary := lipgloss.Color(cfg.Theme.Primary)
	success := lipgloss.Color(cfg.Theme.Success)
	errColor := lipgloss.Color(cfg.Theme.Error)
	subtle := lipgloss.Color(cfg.Theme.Subtle)

	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary).
			MarginBottom(1),
		Item: lipgloss.NewStyle().
			PaddingLeft(4),
		SelectedItem: lipgloss.NewStyle().
			PaddingLeft(2).
			Bold(true).
			Foreground(primary),
		Dir: lipgloss.NewStyle().
			Foreground(primary),
		Success: lipgloss.NewStyle().
			Bold(true).
			Foreground(success),
		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(errColor),
		Message: lipgloss.NewStyle().
			PaddingLeft(2),
		Subtle: lipgloss.NewStyle().
			Foreground(subtle),
	}
}
