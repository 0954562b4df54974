package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha palette — true-color hex values
// https://catppuccin.com/palette

const (
	colorRed      lipgloss.Color = "#f38ba8"
	colorPeach    lipgloss.Color = "#fab387"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorBlue     lipgloss.Color = "#89b4fa"
	colorLavender lipgloss.Color = "#b4befe"
	colorMauve    lipgloss.Color = "#cba6f7"

	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface1 lipgloss.Color = "#45475a"
	colorSurface0 lipgloss.Color = "#313244"
	colorMantle   lipgloss.Color = "#181825"
)

var (
	headerBarStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorMantle).
			Padding(0, 2)

	headerAppStyle = lipgloss.NewStyle().
			Foreground(colorMauve).
			Bold(true)

	cursorRowStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorSurface1).
			Bold(true)

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(colorYellow)

	dirStyle      = lipgloss.NewStyle().Foreground(colorBlue)
	fileStyle     = lipgloss.NewStyle().Foreground(colorText)
	pseudoStyle   = lipgloss.NewStyle().Foreground(colorOverlay1).Italic(true)
	errorRowStyle = lipgloss.NewStyle().Foreground(colorRed)

	percentStyle = lipgloss.NewStyle().Foreground(colorSubtext0)
	sizeStyle    = lipgloss.NewStyle().Foreground(colorTeal)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorSurface0).
			Padding(0, 2)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorPeach).
			Background(colorSurface0).
			Bold(true).
			Padding(0, 2)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorSubtext0).
			Background(colorMantle).
			Padding(0, 2)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorOverlay0).
			Padding(0, 1)

	modalTitleStyle = lipgloss.NewStyle().Foreground(colorMauve).Bold(true)

	treemapBarColors = []lipgloss.Color{
		colorBlue, colorGreen, colorPeach, colorLavender,
		colorTeal, colorYellow, colorRed, colorMauve,
	}
)
