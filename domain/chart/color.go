package chart

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// namedColors holds the palette names accepted in config
var namedColors = map[string]color.RGBA{
	"black":       {0, 0, 0, 255},
	"white":       {255, 255, 255, 255},
	"grey":        {128, 128, 128, 255},
	"gray":        {128, 128, 128, 255},
	"seagreen":    {46, 139, 87, 255},
	"mediumblue":  {0, 0, 205, 255},
	"red":         {255, 0, 0, 255},
	"sandybrown":  {244, 164, 96, 255},
	"blue":        {0, 0, 255, 255},
	"green":       {0, 128, 0, 255},
	"orange":      {255, 165, 0, 255},
	"purple":      {128, 0, 128, 255},
	"brown":       {165, 42, 42, 255},
	"darkred":     {139, 0, 0, 255},
	"teal":        {0, 128, 128, 255},
	"gold":        {255, 215, 0, 255},
	"steelblue":   {70, 130, 180, 255},
	"forestgreen": {34, 139, 34, 255},
}

// Black is used for legend samples and attribution text
var Black = namedColors["black"]

// ParseColor parses a color name or a #rrggbb hex value
func ParseColor(s string) (color.RGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, nil
	}

	if strings.HasPrefix(s, "#") && len(s) == 7 {
		v, err := strconv.ParseUint(s[1:], 16, 32)
		if err == nil {
			return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
		}
	}

	return color.RGBA{}, fmt.Errorf("invalid color %q: expected a color name or #rrggbb", s)
}

// Hex formats a color as #rrggbb
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
