package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/cinelab/cine/internal/config"
)

const AppName = "cine"

// ASCII art logo lines for cine - canonical definition
var LogoLines = []string{
	"  ▄████▄ ▄▄ ▄▄   ▄▄ ▄████▄",
	" ██▀     ██ ███  ██ ██▄▄",
	" ██      ██ ██▀█▄██ ██▀▀",
	" ██▄     ██ ██  ▀██ ██",
	"  ▀████▀ ▀▀ ▀▀   ▀▀ ▀████▀",
}

const CompactLogo = `cine ›`

// Banner gradient colors
var BannerColors = []lipgloss.Color{
	lipgloss.Color("#E3B341"),
	lipgloss.Color("#F0A04B"),
	lipgloss.Color("#95E1D3"),
	lipgloss.Color("#4ECDC4"),
	lipgloss.Color("#E3B341"),
}

// Brand colors: marquee gold against a dark theater palette.
var (
	PrimaryColor   = lipgloss.Color("#E3B341") // Marquee gold
	SecondaryColor = lipgloss.Color("#4ECDC4") // Teal
	AccentColor    = lipgloss.Color("#95E1D3") // Mint

	TextColor  = lipgloss.Color("#EAEAEA") // Soft white
	MutedColor = lipgloss.Color("#94A3B8") // Muted gray-blue

	RatingColor  = lipgloss.Color("#FFE66D") // Bright yellow - vote average
	SavedColor   = lipgloss.Color("#F0A04B") // Amber - watchlist marker
	ErrorColor   = lipgloss.Color("#EF4444") // Red
	SuccessColor = lipgloss.Color("#10B981") // Green
)

// Styled components
var (
	LogoStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	TitleStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Bold(true).
			Padding(0, 2)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Bold(true)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Padding(0, 1)

	RatingStyle = lipgloss.NewStyle().
			Foreground(RatingColor)

	SavedMarkerStyle = lipgloss.NewStyle().
				Foreground(SavedColor).
				Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true)

	GenreStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Faint(true)

	ErrorMessageStyle = lipgloss.NewStyle().
				Foreground(ErrorColor).
				Bold(true)

	SeparatorStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	// Status styles by severity
	StatusInfoStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	StatusSuccessStyle = lipgloss.NewStyle().
				Foreground(SuccessColor)

	StatusWarnStyle = lipgloss.NewStyle().
			Foreground(RatingColor)

	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(ErrorColor).
				Bold(true)

	MovieTitleStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Bold(true)

	// Empty style for resetting
	EmptyStyle = lipgloss.NewStyle()
)

// ApplyTheme overrides the palette with the configured colors and
// rebuilds the styles derived from it. Empty values keep the current
// color, so a partial [ui.colors] section works.
func ApplyTheme(c config.UIColors) {
	apply := func(dst *lipgloss.Color, v string) {
		if v != "" {
			*dst = lipgloss.Color(v)
		}
	}
	apply(&PrimaryColor, c.Primary)
	apply(&SecondaryColor, c.Secondary)
	apply(&AccentColor, c.Accent)
	apply(&TextColor, c.Text)
	apply(&MutedColor, c.Muted)
	apply(&ErrorColor, c.Error)
	apply(&SuccessColor, c.Success)

	LogoStyle = LogoStyle.Foreground(PrimaryColor)
	TitleStyle = TitleStyle.Foreground(TextColor)
	HeaderStyle = HeaderStyle.Foreground(SecondaryColor)
	StatusBarStyle = StatusBarStyle.Foreground(MutedColor)
	HelpStyle = HelpStyle.Foreground(MutedColor)
	GenreStyle = GenreStyle.Foreground(MutedColor)
	ErrorMessageStyle = ErrorMessageStyle.Foreground(ErrorColor)
	SeparatorStyle = SeparatorStyle.Foreground(MutedColor)
	StatusInfoStyle = StatusInfoStyle.Foreground(MutedColor)
	StatusSuccessStyle = StatusSuccessStyle.Foreground(SuccessColor)
	StatusErrorStyle = StatusErrorStyle.Foreground(ErrorColor)
	MovieTitleStyle = MovieTitleStyle.Foreground(SecondaryColor)
}

// ContentWrapper returns a style for wrapping content with width and height constraints
func ContentWrapper(width, height int) lipgloss.Style {
	return EmptyStyle.Width(width).Height(height).MaxHeight(height)
}

func GetWelcomeMessage() string {
	return GetCompactBanner("Press ctrl+s to search for a movie")
}

func GetCompactBanner(message string) string {
	var coloredLines []string
	for _, line := range LogoLines {
		coloredLines = append(coloredLines, LogoStyle.Render(line))
	}

	logo := lipgloss.JoinVertical(lipgloss.Center, coloredLines...)

	return lipgloss.JoinVertical(
		lipgloss.Center,
		logo,
		"",
		HelpStyle.Render(message),
	)
}

func ShowBanner(version string) {
	lines := make([]string, len(LogoLines)+1)
	copy(lines, LogoLines)
	lines[len(LogoLines)] = ""

	versionTag := version
	if versionTag != "" && versionTag != "dev" {
		if versionTag[0] != 'v' && versionTag[0] != 'V' {
			versionTag = "v" + versionTag
		}
		lines = append(lines, fmt.Sprintf("   Movie Discovery %s", versionTag))
	} else {
		lines = append(lines, "   Movie Discovery")
	}

	var coloredLines []string
	for i, line := range lines {
		if line == "" {
			coloredLines = append(coloredLines, line)
			continue
		}

		colorIdx := i % len(BannerColors)
		style := lipgloss.NewStyle().
			Foreground(BannerColors[colorIdx]).
			Bold(i < len(LogoLines))

		coloredLines = append(coloredLines, style.Render(line))
	}

	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(SecondaryColor).
		Padding(1, 3).
		MarginTop(1)

	banner := lipgloss.JoinVertical(lipgloss.Center, coloredLines...)
	output := borderStyle.Render(banner)

	fmt.Println(lipgloss.NewStyle().
		Width(70).
		Align(lipgloss.Center).
		Render(output))
}
