// Package ui handles terminal UI rendering.
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/henri123lemoine/eatsplit/internal/ledger"
)

// Colors
var (
	ColorPrimary   = lipgloss.Color("4")   // Blue
	ColorSecondary = lipgloss.Color("8")   // Gray
	ColorSuccess   = lipgloss.Color("2")   // Green
	ColorWarning   = lipgloss.Color("3")   // Yellow
	ColorDanger    = lipgloss.Color("1")   // Red
	ColorMuted     = lipgloss.Color("245") // Light gray
	ColorHighlight = lipgloss.Color("6")   // Cyan
	ColorText      = lipgloss.Color("252") // Light text
)

// Styles
var (
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSecondary).
			Padding(1, 2)

	// Form panels get the primary border so they stand out from the list.
	FormBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(1, 2)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorMuted)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight).
			Bold(true)

	NormalStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	NameStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	// Balance styles
	YouOweStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	OwesYouStyle = lipgloss.NewStyle().
			Foreground(ColorDanger)

	EvenStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	PathStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	FocusedLabelStyle = lipgloss.NewStyle().
				Foreground(ColorPrimary).
				Bold(true)

	DisabledStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	StatusStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	DividerStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary)
)

// Symbols
const (
	SymbolCursor   = "›"
	SymbolSelected = "●"
	SymbolDivider  = "─"
)

// BalanceStyle picks the style for a friend's balance line.
func BalanceStyle(s ledger.Status) lipgloss.Style {
	switch s {
	case ledger.StatusYouOwe:
		return YouOweStyle
	case ledger.StatusOwesYou:
		return OwesYouStyle
	default:
		return EvenStyle
	}
}

// ApplyTheme adjusts text colors for the terminal background. "auto" asks
// the terminal; anything unrecognized keeps the dark palette.
func ApplyTheme(theme string) {
	light := theme == "light" || (theme == "auto" && !lipgloss.HasDarkBackground())
	if !light {
		return
	}

	ColorText = lipgloss.Color("235")
	ColorMuted = lipgloss.Color("240")

	NormalStyle = NormalStyle.Foreground(ColorText)
	NameStyle = NameStyle.Foreground(ColorText)
	HeaderStyle = HeaderStyle.Foreground(ColorMuted)
	PathStyle = PathStyle.Foreground(ColorMuted)
	LabelStyle = LabelStyle.Foreground(ColorMuted)
	HelpStyle = HelpStyle.Foreground(ColorMuted)
	EvenStyle = EvenStyle.Foreground(ColorMuted)
}
