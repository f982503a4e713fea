package primitives

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Color is a 0xRRGGBB color value.
type Color int

// hexColorRe matches the "0x" prefix followed by at least three decimal digits, which is what
// descriptor files use for colors ("0x777777"). Only the prefix has to match.
var hexColorRe = regexp.MustCompile(`^0x\d{3,6}`)

// ParseHexColor converts s to an integer when it looks like a descriptor hex color. The value
// is the leading run of hex digits after "0x", so "0x123abc" is 0x123abc.
func ParseHexColor(s string) (int, bool) {
	if !hexColorRe.MatchString(s) {
		return 0, false
	}
	digits := s[2:]
	end := strings.IndexFunc(digits, func(r rune) bool {
		return !strings.ContainsRune("0123456789abcdefABCDEF", r)
	})
	if end >= 0 {
		digits = digits[:end]
	}
	v, err := strconv.ParseInt(digits, 16, 64)
	if err != nil {
		return 0, false
	}
	return int(v), true
}

// UnmarshalJSON accepts a number, a "0x..." string, a "#rrggbb" string or a named color.
func (c *Color) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*c = Color(int(n))
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("color: expected number or string, got %s", data)
	}
	v, err := ParseColor(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// namedColors is the subset of the CSS color keywords accepted in descriptors.
var namedColors = map[string]Color{
	"black":     0x000000,
	"white":     0xffffff,
	"red":       0xff0000,
	"lime":      0x00ff00,
	"green":     0x008000,
	"blue":      0x0000ff,
	"yellow":    0xffff00,
	"cyan":      0x00ffff,
	"aqua":      0x00ffff,
	"magenta":   0xff00ff,
	"fuchsia":   0xff00ff,
	"silver":    0xc0c0c0,
	"gray":      0x808080,
	"grey":      0x808080,
	"darkgray":  0xa9a9a9,
	"darkgrey":  0xa9a9a9,
	"lightgray": 0xd3d3d3,
	"lightgrey": 0xd3d3d3,
	"maroon":    0x800000,
	"olive":     0x808000,
	"navy":      0x000080,
	"purple":    0x800080,
	"teal":      0x008080,
	"orange":    0xffa500,
	"brown":     0xa52a2a,
	"pink":      0xffc0cb,
	"gold":      0xffd700,
	"skyblue":   0x87ceeb,
	"steelblue": 0x4682b4,
	"tomato":    0xff6347,
	"coral":     0xff7f50,
	"salmon":    0xfa8072,
	"violet":    0xee82ee,
	"indigo":    0x4b0082,
	"tan":       0xd2b48c,
	"beige":     0xf5f5dc,
}

// ParseColor parses a descriptor hex color, a full "0xrrggbb" / "#rrggbb" string or a CSS
// color keyword such as "red".
func ParseColor(s string) (Color, error) {
	if v, ok := ParseHexColor(s); ok {
		return Color(v), nil
	}
	if c, ok := namedColors[strings.ToLower(strings.TrimSpace(s))]; ok {
		return c, nil
	}
	for _, prefix := range []string{"0x", "#"} {
		if rest, ok := strings.CutPrefix(s, prefix); ok && len(rest) > 0 && len(rest) <= 6 {
			if v, err := strconv.ParseInt(rest, 16, 64); err == nil {
				return Color(v), nil
			}
		}
	}
	return 0, fmt.Errorf("color: cannot parse %q", s)
}

// RGBA returns the color with the given opacity (0..1) as a raylib color.
func (c Color) RGBA(opacity float32) rl.Color {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	return rl.GetColor(uint(c)&0xffffff<<8 | uint(opacity*255))
}
