package display

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// cssAliases maps CSS names that tcell only knows by their synonym.
var cssAliases = map[string]string{
	"cyan":    "aqua",
	"magenta": "fuchsia",
}

// ParseColor resolves a palette entry: a CSS or X11 color name, or #rrggbb.
func ParseColor(value string) (color.NRGBA, error) {
	name := strings.ToLower(strings.TrimSpace(value))
	if alias, ok := cssAliases[name]; ok {
		name = alias
	}
	c := tcell.GetColor(name)
	if c == tcell.ColorDefault || !c.Valid() {
		return color.NRGBA{}, fmt.Errorf("unknown color %q", value)
	}
	r, g, b := c.RGB()
	if r < 0 {
		return color.NRGBA{}, fmt.Errorf("unknown color %q", value)
	}
	return color.NRGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 0xff}, nil
}

// ParsePalette resolves every entry, skipping the ones that do not parse.
// The returned error lists the skipped entries.
func ParsePalette(values []string) ([]color.NRGBA, error) {
	palette := make([]color.NRGBA, 0, len(values))
	var bad []string
	for _, value := range values {
		c, err := ParseColor(value)
		if err != nil {
			bad = append(bad, value)
			continue
		}
		palette = append(palette, c)
	}
	if len(bad) > 0 {
		return palette, fmt.Errorf("invalid palette entries: %s", strings.Join(bad, ", "))
	}
	return palette, nil
}
