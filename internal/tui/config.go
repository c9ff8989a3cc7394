package tui

import (
	"github.com/Veraticus/financas/internal/filter"
	"github.com/Veraticus/financas/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Theme    themes.Theme
	Criteria filter.Criteria
	Width    int
	Height   int
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:    themes.Default,
		Criteria: filter.Default(),
		Width:    100,
		Height:   24,
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithCriteria sets the filters the browser starts with.
func WithCriteria(criteria filter.Criteria) Option {
	return func(c *Config) {
		c.Criteria = criteria
	}
}
