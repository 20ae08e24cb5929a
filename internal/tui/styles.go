package tui

import "github.com/charmbracelet/lipgloss"

// Theme is one color scheme.
type Theme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Card       lipgloss.Color
	Border     lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Focus      lipgloss.Color
	IsDark     bool
}

// LightTheme mirrors the light page: white card on white, gray border.
func LightTheme() Theme {
	return Theme{
		Background: lipgloss.Color("#ffffff"),
		Foreground: lipgloss.Color("#111827"),
		Card:       lipgloss.Color("#ffffff"),
		Border:     lipgloss.Color("#d1d5db"),
		Accent:     lipgloss.Color("#4f46e5"),
		Muted:      lipgloss.Color("#6b7280"),
		Focus:      lipgloss.Color("#6366f1"),
	}
}

// DarkTheme mirrors the dark page.
func DarkTheme() Theme {
	return Theme{
		Background: lipgloss.Color("#111827"),
		Foreground: lipgloss.Color("#f3f4f6"),
		Card:       lipgloss.Color("#1f2937"),
		Border:     lipgloss.Color("#374151"),
		Accent:     lipgloss.Color("#6366f1"),
		Muted:      lipgloss.Color("#9ca3af"),
		Focus:      lipgloss.Color("#a5b4fc"),
		IsDark:     true,
	}
}

// Styles holds the rendered pieces of the view.
type Styles struct {
	Theme Theme

	App          lipgloss.Style
	ThemeButton  lipgloss.Style
	Card         lipgloss.Style
	Title        lipgloss.Style
	Label        lipgloss.Style
	Input        lipgloss.Style
	FocusedInput lipgloss.Style
	Button       lipgloss.Style
	Key          lipgloss.Style
	Result       lipgloss.Style
	Heading      lipgloss.Style
	Entry        lipgloss.Style
	Selected     lipgloss.Style
}

// NewStyles builds the styles for the light or dark theme.
func NewStyles(dark bool) Styles {
	t := LightTheme()
	if dark {
		t = DarkTheme()
	}

	return Styles{
		Theme: t,
		App: lipgloss.NewStyle().
			Background(t.Background).
			Foreground(t.Foreground).
			Padding(1, 2),
		ThemeButton: lipgloss.NewStyle().
			Background(t.Accent).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 1).
			MarginBottom(1),
		Card: lipgloss.NewStyle().
			Background(t.Card).
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(1, 2).
			Width(72),
		Title: lipgloss.NewStyle().
			Bold(true).
			MarginBottom(1),
		Label: lipgloss.NewStyle().
			Foreground(t.Muted),
		Input: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(t.Border).
			Width(40),
		FocusedInput: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(t.Focus).
			Width(40),
		Button: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Padding(0, 1),
		Key: lipgloss.NewStyle().
			Foreground(t.Accent).
			Bold(true),
		Result: lipgloss.NewStyle().
			Bold(true).
			MarginTop(1),
		Heading: lipgloss.NewStyle().
			Bold(true).
			MarginTop(1),
		Entry: lipgloss.NewStyle().
			Foreground(t.Foreground),
		Selected: lipgloss.NewStyle().
			Foreground(t.Focus).
			Bold(true),
	}
}
