package viz

import (
	"image/color"

	"github.com/charmbracelet/lipgloss"
)

// Theme is the viewer color scheme.
type Theme struct {
	Name    string
	Body    lipgloss.Color
	Grab    lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Warning lipgloss.Color
	Border  lipgloss.Color
}

var Themes = []Theme{
	{
		Name:    "jelly",
		Body:    lipgloss.Color("#ff5fd7"),
		Grab:    lipgloss.Color("#ffff5f"),
		Accent:  lipgloss.Color("#5fd7ff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#6c6c8a"),
		Warning: lipgloss.Color("#ffaf00"),
		Border:  lipgloss.Color("#444466"),
	},
	{
		Name:    "phosphor",
		Body:    lipgloss.Color("#00ff00"),
		Grab:    lipgloss.Color("#aaffaa"),
		Accent:  lipgloss.Color("#00cc00"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005f00"),
		Warning: lipgloss.Color("#ffff00"),
		Border:  lipgloss.Color("#005f00"),
	},
	{
		Name:    "mono",
		Body:    lipgloss.Color("#ffffff"),
		Grab:    lipgloss.Color("#0087ff"),
		Accent:  lipgloss.Color("#bcbcbc"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#808080"),
		Warning: lipgloss.Color("#ffaf00"),
		Border:  lipgloss.Color("#585858"),
	},
}

// GetTheme returns the named theme, or the first one when unknown.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// RGBA converts a "#rrggbb" theme color for image output. Malformed
// colors become white.
func RGBA(c lipgloss.Color) color.RGBA {
	s := string(c)
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{255, 255, 255, 255}
	}
	var v [3]uint8
	for i := range v {
		hi, ok1 := hexNibble(s[1+2*i])
		lo, ok2 := hexNibble(s[2+2*i])
		if !ok1 || !ok2 {
			return color.RGBA{255, 255, 255, 255}
		}
		v[i] = hi<<4 | lo
	}
	return color.RGBA{v[0], v[1], v[2], 255}
}

func hexNibble(b byte) (uint8, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	}
	return 0, false
}
