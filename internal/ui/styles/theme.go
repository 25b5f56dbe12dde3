package styles

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette and pre-built styles for the application.
type Theme struct {
	// Brand/accent colors
	Primary   lipgloss.Color // Purple - author names, focused items
	Secondary lipgloss.Color // Gold/orange - gradient end, badges

	// Text hierarchy (most to least prominent)
	FgBase   lipgloss.Color
	FgMuted  lipgloss.Color
	FgSubtle lipgloss.Color

	// Backgrounds
	BgBase   lipgloss.Color // Story canvas
	BgCursor lipgloss.Color // Cursor/selection highlight
	BgCard   lipgloss.Color // Video card and caption box

	// Progress bars
	BarFilled lipgloss.Color
	BarEmpty  lipgloss.Color

	Border lipgloss.Color

	// Status colors
	Success lipgloss.Color
	Error   lipgloss.Color
	Warning lipgloss.Color

	styles *Styles
}

// Styles contains pre-built lipgloss styles for common UI patterns.
type Styles struct {
	Base      lipgloss.Style
	Muted     lipgloss.Style
	Subtle    lipgloss.Style
	Title     lipgloss.Style
	Cursor    lipgloss.Style
	Avatar    lipgloss.Style // Initial badge in the story header
	BarFilled lipgloss.Style
	BarEmpty  lipgloss.Style
	Caption   lipgloss.Style // Box under the story media
	Glyph     lipgloss.Style // Pause glyph overlay
	Success   lipgloss.Style
	Error     lipgloss.Style
	Warning   lipgloss.Style
}

var defaultTheme = Theme{
	Primary:   lipgloss.Color("#a78bfa"),
	Secondary: lipgloss.Color("#f1a208"),

	FgBase:   lipgloss.Color("#e0e0e0"),
	FgMuted:  lipgloss.Color("#9e9e9e"),
	FgSubtle: lipgloss.Color("#585858"),

	BgBase:   lipgloss.Color("#121212"),
	BgCursor: lipgloss.Color("#303030"),
	BgCard:   lipgloss.Color("#263238"),

	BarFilled: lipgloss.Color("#ffffff"),
	BarEmpty:  lipgloss.Color("#4a4a4a"),

	Border: lipgloss.Color("#585858"),

	Success: lipgloss.Color("#42b883"),
	Error:   lipgloss.Color("#ff5555"),
	Warning: lipgloss.Color("#f1a208"),
}

// T returns the default theme.
func T() *Theme {
	return &defaultTheme
}

// S returns the pre-built styles for this theme.
func (t *Theme) S() *Styles {
	if t.styles == nil {
		t.styles = t.buildStyles()
	}
	return t.styles
}

func (t *Theme) buildStyles() *Styles {
	base := lipgloss.NewStyle().Foreground(t.FgBase)

	return &Styles{
		Base:   base,
		Muted:  lipgloss.NewStyle().Foreground(t.FgMuted),
		Subtle: lipgloss.NewStyle().Foreground(t.FgSubtle),
		Title:  base.Bold(true),
		Cursor: lipgloss.NewStyle().
			Background(t.BgCursor).
			Foreground(t.FgBase),
		Avatar: lipgloss.NewStyle().
			Background(t.Primary).
			Foreground(t.BgBase).
			Bold(true).
			Padding(0, 1),
		BarFilled: lipgloss.NewStyle().Foreground(t.BarFilled),
		BarEmpty:  lipgloss.NewStyle().Foreground(t.BarEmpty),
		Caption: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Foreground(t.FgBase).
			Padding(0, 1),
		Glyph: lipgloss.NewStyle().
			Foreground(t.FgBase).
			Bold(true),
		Success: lipgloss.NewStyle().Foreground(t.Success),
		Error:   lipgloss.NewStyle().Foreground(t.Error),
		Warning: lipgloss.NewStyle().Foreground(t.Warning),
	}
}
