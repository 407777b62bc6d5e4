// Package format renders tooltip numbers from compact display specifiers.
//
// A specifier is "[,][.precision]type" where type is f (fixed), % (percent,
// value multiplied by 100), d (integer, rounded) or s (shortest exact
// representation). A leading comma groups thousands; it has no effect on s.
//
//	format.MustParse(".2f").Format(1234.5)  // "1234.50"
//	format.MustParse(",.2f").Format(1234.5) // "1,234.50"
//	format.MustParse(".1%").Format(0.1234)  // "12.3%"
package format

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/matzehuels/chartoverlay/pkg/errors"
)

// Default is the specifier tooltips use when none is configured.
const Default = ".2f"

var printer = message.NewPrinter(language.English)

// Format is a parsed display specifier.
type Format struct {
	spec      string
	group     bool
	precision int
	kind      byte
}

// Parse parses a display specifier. The empty string yields [Default].
func Parse(spec string) (Format, error) {
	if spec == "" {
		spec = Default
	}
	f := Format{spec: spec, precision: -1}
	s := spec
	if strings.HasPrefix(s, ",") {
		f.group = true
		s = s[1:]
	}
	if s == "" {
		return Format{}, errors.New(errors.ErrCodeInvalidFormat, "format %q has no type", spec)
	}
	f.kind = s[len(s)-1]
	s = s[:len(s)-1]
	switch f.kind {
	case 'f', '%', 'd', 's':
	default:
		return Format{}, errors.New(errors.ErrCodeInvalidFormat, "format %q: unknown type %q", spec, string(f.kind))
	}
	if s != "" {
		if !strings.HasPrefix(s, ".") {
			return Format{}, errors.New(errors.ErrCodeInvalidFormat, "format %q: precision must start with '.'", spec)
		}
		p, err := strconv.Atoi(s[1:])
		if err != nil || p < 0 || p > 20 {
			return Format{}, errors.New(errors.ErrCodeInvalidFormat, "format %q: bad precision", spec)
		}
		f.precision = p
	}
	if f.precision < 0 && (f.kind == 'f' || f.kind == '%') {
		f.precision = 6
	}
	return f, nil
}

// MustParse is [Parse] for specifiers known at compile time.
func MustParse(spec string) Format {
	f, err := Parse(spec)
	if err != nil {
		panic(err)
	}
	return f
}

// String returns the specifier f was parsed from.
func (f Format) String() string { return f.spec }

// Format renders v. NaN and infinities render as "n/a".
func (f Format) Format(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	if f.kind == 0 {
		f = MustParse(Default)
	}
	switch f.kind {
	case '%':
		return f.fixed(v*100, f.precision) + "%"
	case 'd':
		return f.fixed(math.Round(v), 0)
	case 's':
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return f.fixed(v, f.precision)
}

func (f Format) fixed(v float64, prec int) string {
	if f.group {
		return printer.Sprint(number.Decimal(v, number.MinFractionDigits(prec), number.MaxFractionDigits(prec)))
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}
