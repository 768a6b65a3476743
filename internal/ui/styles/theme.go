package styles

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme is a named palette. Styles are derived from it by NewStyles.
type Theme struct {
	Name string

	Background    lipgloss.Color
	Foreground    lipgloss.Color
	ForegroundDim lipgloss.Color

	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color

	Success lipgloss.Color
	Error   lipgloss.Color

	Border      lipgloss.Color
	BorderFocus lipgloss.Color
	Selection   lipgloss.Color
}

// TokyoNight is the default palette.
var TokyoNight = Theme{
	Name:          "Tokyo Night",
	Background:    "#1a1b26",
	Foreground:    "#c0caf5",
	ForegroundDim: "#565f89",
	Primary:       "#7aa2f7",
	Secondary:     "#bb9af7",
	Accent:        "#7dcfff",
	Success:       "#9ece6a",
	Error:         "#f7768e",
	Border:        "#3b4261",
	BorderFocus:   "#7aa2f7",
	Selection:     "#33467c",
}

var Gruvbox = Theme{
	Name:          "Gruvbox",
	Background:    "#282828",
	Foreground:    "#ebdbb2",
	ForegroundDim: "#928374",
	Primary:       "#fabd2f",
	Secondary:     "#d3869b",
	Accent:        "#8ec07c",
	Success:       "#b8bb26",
	Error:         "#fb4934",
	Border:        "#504945",
	BorderFocus:   "#fabd2f",
	Selection:     "#3c3836",
}

var themes = map[string]Theme{
	"tokyo-night": TokyoNight,
	"gruvbox":     Gruvbox,
}

// Current is the palette NewStyles reads.
var Current = TokyoNight

// Names lists the registered theme names
func Names() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Use makes the named theme current. Styles built afterwards pick it up.
func Use(name string) error {
	t, ok := themes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return fmt.Errorf("unknown theme %q, choose one of %s", name, strings.Join(Names(), ", "))
	}
	Current = t
	return nil
}

// MaxWidth caps every screen at a classic terminal width.
const MaxWidth = 80

func ContentWidth(terminalWidth int) int {
	return min(terminalWidth, MaxWidth)
}

// CenterView places content in the middle column when the terminal is wider
// than MaxWidth.
func CenterView(content string, terminalWidth, terminalHeight int) string {
	if terminalWidth <= MaxWidth {
		return content
	}
	return lipgloss.Place(terminalWidth, terminalHeight, lipgloss.Center, lipgloss.Top, content)
}

// Styles holds the pre-computed styles shared by the screens.
type Styles struct {
	Title      lipgloss.Style
	TitleMuted lipgloss.Style

	ListItem     lipgloss.Style
	ListSelected lipgloss.Style

	Button        lipgloss.Style
	ButtonFocused lipgloss.Style
	ButtonPrimary lipgloss.Style

	// tag chips and theme rows on the composer
	Chip      lipgloss.Style
	ChipFocus lipgloss.Style
	ThemeOn   lipgloss.Style
	ThemeOff  lipgloss.Style

	Avatar   lipgloss.Style
	Name     lipgloss.Style
	Subtitle lipgloss.Style

	Input        lipgloss.Style
	InputFocused lipgloss.Style
	Label        lipgloss.Style

	Error lipgloss.Style

	Help    lipgloss.Style
	HelpKey lipgloss.Style
	Popup   lipgloss.Style
}

func text(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

func boxed(fg, border lipgloss.Color, padX int) lipgloss.Style {
	return text(fg).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, padX)
}

func pill(fg, bg lipgloss.Color) lipgloss.Style {
	return text(fg).Background(bg).Padding(0, 1).MarginRight(1)
}

// NewStyles builds the styles from Current.
func NewStyles() *Styles {
	t := Current

	return &Styles{
		Title:      text(t.Primary).Bold(true),
		TitleMuted: text(t.ForegroundDim),

		ListItem:     text(t.Foreground).Padding(0, 2),
		ListSelected: text(t.Primary).Background(t.Selection).Padding(0, 2).Bold(true),

		Button:        boxed(t.Foreground, t.Border, 2),
		ButtonFocused: boxed(t.Primary, t.BorderFocus, 2).Bold(true),
		ButtonPrimary: text(t.Background).Background(t.Primary).Padding(0, 2).Bold(true),

		Chip:      pill(t.Background, t.Secondary),
		ChipFocus: pill(t.Background, t.Primary).Bold(true),
		ThemeOn:   text(t.Success).Bold(true),
		ThemeOff:  text(t.Foreground),

		Avatar:   text(t.Background).Background(t.Accent).Padding(1, 3).Bold(true),
		Name:     text(t.Foreground).Bold(true),
		Subtitle: text(t.ForegroundDim).Italic(true),

		Input:        boxed(t.Foreground, t.Border, 1),
		InputFocused: boxed(t.Foreground, t.BorderFocus, 1),
		Label:        text(t.ForegroundDim).Bold(true),

		Error: text(t.Error),

		Help:    text(t.ForegroundDim).Padding(1, 2),
		HelpKey: text(t.Primary).Bold(true),
		Popup:   lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder()).BorderForeground(t.Border),
	}
}
