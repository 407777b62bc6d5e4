package canvas

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"

	"github.com/matzehuels/chartoverlay/pkg/errors"
)

// ParseColor parses a CSS colour: "#rgb", "#rrggbb", "#rrggbbaa",
// "rgb(r, g, b)", "rgba(r, g, b, a)", an SVG colour keyword, or
// "none"/"transparent".
func ParseColor(s string) (color.Color, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch {
	case s == "" || s == "none" || s == "transparent":
		return color.Transparent, nil
	case strings.HasPrefix(s, "#"):
		return parseHex(s)
	case strings.HasPrefix(s, "rgb"):
		return parseFunc(s)
	}
	if c, ok := colornames.Map[s]; ok {
		return c, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidColor, "unknown colour %q", s)
}

func parseHex(s string) (color.Color, error) {
	alpha := uint8(0xff)
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidColor, err, "colour %q", s)
		}
		alpha = uint8(a)
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidColor, err, "colour %q", s)
	}
	r, g, b := c.RGB255()
	return nrgba(r, g, b, float64(alpha)/255), nil
}

func parseFunc(s string) (color.Color, error) {
	open, end := strings.IndexByte(s, '('), strings.LastIndexByte(s, ')')
	if open < 0 || end < open {
		return nil, errors.New(errors.ErrCodeInvalidColor, "malformed colour %q", s)
	}
	parts := strings.Split(s[open+1:end], ",")
	if len(parts) != 3 && len(parts) != 4 {
		return nil, errors.New(errors.ErrCodeInvalidColor, "colour %q needs 3 or 4 components", s)
	}

	var rgb [3]uint8
	for i := range rgb {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil || v < 0 || v > 255 {
			return nil, errors.New(errors.ErrCodeInvalidColor, "colour %q: bad component %q", s, parts[i])
		}
		rgb[i] = uint8(v + 0.5)
	}
	alpha := 1.0
	if len(parts) == 4 {
		if _, err := fmt.Sscanf(strings.TrimSpace(parts[3]), "%g", &alpha); err != nil || alpha < 0 || alpha > 1 {
			return nil, errors.New(errors.ErrCodeInvalidColor, "colour %q: bad alpha %q", s, parts[3])
		}
	}
	return nrgba(rgb[0], rgb[1], rgb[2], alpha), nil
}

func nrgba(r, g, b uint8, a float64) color.NRGBA {
	return color.NRGBA{R: r, G: g, B: b, A: uint8(a*255 + 0.5)}
}
