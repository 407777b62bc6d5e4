// Package layout arranges the labelled values of a multi-item overlay.
//
// [Arrange] turns a list of [Item]s and a [Kind] into per-item offsets and an
// aggregate content extent. The extent feeds the background calculator; the
// offsets are applied by the draw adapter as per-item translations.
//
// Unrecognised kinds degrade to a zero-offset layout so one bad overlay never
// blanks the frame. Callers that want to know about it use [ArrangeMode] with
// [Warn] or [Strict].
package layout

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chartoverlay/pkg/errors"
	"github.com/matzehuels/chartoverlay/pkg/frame"
	"github.com/matzehuels/chartoverlay/pkg/functor"
)

// Kind selects how items are arranged.
type Kind string

const (
	// PairedHorizontal is a single row with each value beside its label.
	PairedHorizontal Kind = "pairedHorizontal"
	// PairedVertical is a single column with each value beside its label.
	PairedVertical Kind = "pairedVertical"
	// StackedRows stacks label-above-value pairs vertically.
	StackedRows Kind = "stackedRows"
	// SideBySideColumns puts each label-above-value pair in a fixed-width column.
	SideBySideColumns Kind = "sideBySideColumns"
	// InlineInText flows every item into one surrounding text run.
	InlineInText Kind = "inlineInText"
)

// Kinds lists every recognised kind.
var Kinds = []Kind{PairedHorizontal, PairedVertical, StackedRows, SideBySideColumns, InlineInText}

// aliases maps the short layout names used in scene files.
var aliases = map[string]Kind{
	"horizontal":       PairedHorizontal,
	"vertical":         PairedVertical,
	"horizontalrows":   SideBySideColumns,
	"verticalrows":     StackedRows,
	"horizontalinline": InlineInText,
}

// ParseKind parses a layout name, accepting both the canonical kind names
// and the short aliases. The empty string yields [PairedHorizontal].
func ParseKind(s string) (Kind, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return PairedHorizontal, nil
	}
	for _, k := range Kinds {
		if strings.ToLower(string(k)) == key {
			return k, nil
		}
	}
	if k, ok := aliases[key]; ok {
		return k, nil
	}
	return Kind(s), errors.New(errors.ErrCodeInvalidLayout, "unknown layout %q", s)
}

// Valid reports whether k is one of [Kinds].
func (k Kind) Valid() bool {
	for _, v := range Kinds {
		if k == v {
			return true
		}
	}
	return false
}

// Horizontal reports whether items advance along the x axis.
func (k Kind) Horizontal() bool {
	return k == PairedHorizontal || k == SideBySideColumns || k == InlineInText
}

// ValueBeneathLabel reports whether each item renders its value on a
// second line under the label.
func (k Kind) ValueBeneathLabel() bool {
	return k == SideBySideColumns || k == StackedRows
}

func (k Kind) String() string { return string(k) }

// Item is one labelled value of a multi-item overlay.
type Item struct {
	Label string
	Value functor.Value[*frame.Frame, string]
	Color string // value fill; empty uses the overlay default
	Shape bool   // draw a colour swatch before the item
}

// Sizing defaults.
const (
	DefaultItemWidth = 60.0
	DefaultRowHeight = 13.0
	DefaultFontSize  = 11.0

	// VerticalWidth is the content width reported for vertical kinds.
	VerticalWidth = 150.0

	margin        = 10.0
	rowMultiplier = 2.3
	lineHeight    = 1.5
)

// Size holds the per-item metrics a layout is computed from.
// Zero fields take the package defaults.
type Size struct {
	ItemWidth float64 // column width for horizontal kinds
	RowHeight float64 // row pitch for vertical kinds
	FontSize  float64
}

// DefaultSize returns the default item metrics.
func DefaultSize() Size {
	return Size{ItemWidth: DefaultItemWidth, RowHeight: DefaultRowHeight, FontSize: DefaultFontSize}
}

// WithDefaults returns s with zero fields replaced by the package defaults.
func (s Size) WithDefaults() Size {
	if s.ItemWidth == 0 {
		s.ItemWidth = DefaultItemWidth
	}
	if s.RowHeight == 0 {
		s.RowHeight = DefaultRowHeight
	}
	if s.FontSize == 0 {
		s.FontSize = DefaultFontSize
	}
	return s
}

// Result is an arranged layout.
type Result struct {
	Offsets []frame.Point
	Extent  frame.Size

	// Inline is set for [InlineInText]: offsets are all zero and Extent is
	// empty; the surrounding text block owns background sizing.
	Inline bool
}

// Arrange computes item offsets and the aggregate extent for n items.
// An unrecognised kind yields a zero offset for every item and an empty extent.
func Arrange(items []Item, kind Kind, size Size) Result {
	return arrange(len(items), kind, size.WithDefaults())
}

func arrange(n int, kind Kind, s Size) Result {
	r := Result{Offsets: make([]frame.Point, n)}
	count := float64(n)

	switch kind {
	case PairedHorizontal, SideBySideColumns:
		for i := range r.Offsets {
			r.Offsets[i] = frame.Point{X: s.ItemWidth * float64(i)}
		}
		r.Extent = frame.Size{Width: s.ItemWidth*count + margin, Height: s.FontSize * lineHeight}
	case PairedVertical:
		for i := range r.Offsets {
			r.Offsets[i] = frame.Point{Y: s.RowHeight * float64(i)}
		}
		r.Extent = frame.Size{Width: VerticalWidth, Height: s.RowHeight*count + margin}
	case StackedRows:
		for i := range r.Offsets {
			r.Offsets[i] = frame.Point{Y: s.RowHeight * rowMultiplier * float64(i)}
		}
		r.Extent = frame.Size{Width: VerticalWidth, Height: s.RowHeight*rowMultiplier*count + margin}
	case InlineInText:
		r.Inline = true
	}
	return r
}

// Mode controls how [ArrangeMode] treats an unrecognised kind.
type Mode int

const (
	// Permissive silently uses the zero-offset layout.
	Permissive Mode = iota
	// Warn logs through the context logger and uses the zero-offset layout.
	Warn
	// Strict returns an INVALID_LAYOUT error.
	Strict
)

func (m Mode) String() string {
	switch m {
	case Warn:
		return "warn"
	case Strict:
		return "strict"
	}
	return "permissive"
}

// ParseMode parses "permissive", "warn" or "strict". Empty means permissive.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "permissive":
		return Permissive, nil
	case "warn":
		return Warn, nil
	case "strict":
		return Strict, nil
	}
	return Permissive, errors.New(errors.ErrCodeInvalidConfig, "invalid layout mode %q (must be permissive, warn or strict)", s)
}

// ArrangeMode is [Arrange] with explicit handling of unrecognised kinds.
// The logger is taken from ctx with log.FromContext.
func ArrangeMode(ctx context.Context, mode Mode, items []Item, kind Kind, size Size) (Result, error) {
	if !kind.Valid() {
		switch mode {
		case Strict:
			return Result{}, errors.New(errors.ErrCodeInvalidLayout, "unknown layout %q", string(kind))
		case Warn:
			log.FromContext(ctx).Warn("unknown layout, items will overlap", "layout", string(kind), "items", len(items))
		}
	}
	return Arrange(items, kind, size), nil
}
