package ui

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Theme holds every style the view renders with. Overlay styles the
// loading box, Info the status-line flash.
type Theme struct {
	Header       lipgloss.Style
	Status       lipgloss.Style
	PanelTitle   lipgloss.Style
	PanelBorder  lipgloss.Style
	PanelBody    lipgloss.Style
	Overlay      lipgloss.Style
	OverlayTitle lipgloss.Style
	Accent       lipgloss.Style
	Pass         lipgloss.Style
	Fail         lipgloss.Style
	Pending      lipgloss.Style
	Muted        lipgloss.Style
	Info         lipgloss.Style
	Field        lipgloss.Style
}

// ThemeForVariant falls back to modern_arcade for unknown names.
func ThemeForVariant(variant string) Theme {
	switch variant {
	case "cozy_clean":
		return cozyCleanTheme()
	case "retro_terminal":
		return retroTerminalTheme()
	default:
		return modernArcadeTheme()
	}
}

func overlayStyle(border lipgloss.Border, edge, bg, fg color.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		BorderStyle(border).
		BorderForeground(edge).
		Background(bg).
		Foreground(fg).
		Padding(1, 2)
}

func modernArcadeTheme() Theme {
	amber := lipgloss.Color("#FFC857")
	mint := lipgloss.Color("#67F0A8")
	brick := lipgloss.Color("#FF6F91")
	ink := lipgloss.Color("#0E1420")
	slate := lipgloss.Color("#1B2740")
	powder := lipgloss.Color("#EAF2FF")
	cyan := lipgloss.Color("#5EEBFF")
	steel := lipgloss.Color("#4B5F8A")

	return Theme{
		Header:       lipgloss.NewStyle().Background(ink).Foreground(powder).Padding(0, 1),
		Status:       lipgloss.NewStyle().Background(slate).Foreground(powder).Padding(0, 1),
		PanelTitle:   lipgloss.NewStyle().Foreground(cyan).Bold(true),
		PanelBorder:  lipgloss.NewStyle().Foreground(steel),
		PanelBody:    lipgloss.NewStyle().Foreground(powder),
		Overlay:      overlayStyle(lipgloss.RoundedBorder(), cyan, ink, powder),
		OverlayTitle: lipgloss.NewStyle().Foreground(amber).Bold(true),
		Accent:       lipgloss.NewStyle().Foreground(cyan).Bold(true),
		Pass:         lipgloss.NewStyle().Foreground(mint).Bold(true),
		Fail:         lipgloss.NewStyle().Foreground(brick).Bold(true),
		Pending:      lipgloss.NewStyle().Foreground(amber),
		Muted:        lipgloss.NewStyle().Foreground(lipgloss.Color("#9CAAC6")),
		Info:         lipgloss.NewStyle().Foreground(mint),
		Field:        lipgloss.NewStyle().Foreground(amber).Underline(true),
	}
}

func cozyCleanTheme() Theme {
	honey := lipgloss.Color("#F2B872")
	sage := lipgloss.Color("#80C4A3")
	rose := lipgloss.Color("#D17A86")
	night := lipgloss.Color("#1E2430")
	slate := lipgloss.Color("#30394A")
	paper := lipgloss.Color("#F4F6FA")
	sky := lipgloss.Color("#86B6F6")

	return Theme{
		Header:       lipgloss.NewStyle().Background(night).Foreground(paper).Padding(0, 1),
		Status:       lipgloss.NewStyle().Background(slate).Foreground(paper).Padding(0, 1),
		PanelTitle:   lipgloss.NewStyle().Foreground(honey).Bold(true),
		PanelBorder:  lipgloss.NewStyle().Foreground(slate),
		PanelBody:    lipgloss.NewStyle().Foreground(paper),
		Overlay:      overlayStyle(lipgloss.RoundedBorder(), honey, night, paper),
		OverlayTitle: lipgloss.NewStyle().Foreground(honey).Bold(true),
		Accent:       lipgloss.NewStyle().Foreground(sky).Bold(true),
		Pass:         lipgloss.NewStyle().Foreground(sage).Bold(true),
		Fail:         lipgloss.NewStyle().Foreground(rose).Bold(true),
		Pending:      lipgloss.NewStyle().Foreground(honey),
		Muted:        lipgloss.NewStyle().Foreground(lipgloss.Color("#A3ACC2")),
		Info:         lipgloss.NewStyle().Foreground(sky),
		Field:        lipgloss.NewStyle().Foreground(honey).Underline(true),
	}
}

func retroTerminalTheme() Theme {
	lime := lipgloss.Color("#9CF5A2")
	amber := lipgloss.Color("#E5D47A")
	red := lipgloss.Color("#FF6B6B")
	deep := lipgloss.Color("#07150A")
	forest := lipgloss.Color("#12301A")
	glow := lipgloss.Color("#C5F7C4")

	return Theme{
		Header:       lipgloss.NewStyle().Background(deep).Foreground(glow).Padding(0, 1),
		Status:       lipgloss.NewStyle().Background(forest).Foreground(glow).Padding(0, 1),
		PanelTitle:   lipgloss.NewStyle().Foreground(amber).Bold(true),
		PanelBorder:  lipgloss.NewStyle().Foreground(forest),
		PanelBody:    lipgloss.NewStyle().Foreground(glow),
		Overlay:      overlayStyle(lipgloss.DoubleBorder(), amber, deep, glow),
		OverlayTitle: lipgloss.NewStyle().Foreground(amber).Bold(true),
		Accent:       lipgloss.NewStyle().Foreground(lime).Bold(true),
		Pass:         lipgloss.NewStyle().Foreground(lime).Bold(true),
		Fail:         lipgloss.NewStyle().Foreground(red).Bold(true),
		Pending:      lipgloss.NewStyle().Foreground(amber),
		Muted:        lipgloss.NewStyle().Foreground(lipgloss.Color("#73A17A")),
		Info:         lipgloss.NewStyle().Foreground(lime),
		Field:        lipgloss.NewStyle().Foreground(amber).Underline(true),
	}
}

// ScoreStyle colors a 0..10 score: fail below 4, pending below 7.
func (t Theme) ScoreStyle(score float64) lipgloss.Style {
	switch {
	case score < 4:
		return t.Fail
	case score < 7:
		return t.Pending
	default:
		return t.Pass
	}
}
