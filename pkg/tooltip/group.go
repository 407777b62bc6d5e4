package tooltip

import (
	"context"

	"github.com/matzehuels/chartoverlay/pkg/frame"
	"github.com/matzehuels/chartoverlay/pkg/functor"
	"github.com/matzehuels/chartoverlay/pkg/overlay"
	"github.com/matzehuels/chartoverlay/pkg/overlay/background"
	"github.com/matzehuels/chartoverlay/pkg/overlay/layout"
	"github.com/matzehuels/chartoverlay/pkg/overlay/position"
	"github.com/matzehuels/chartoverlay/pkg/render/svg"
	"github.com/matzehuels/chartoverlay/pkg/tooltip/format"
)

// GroupOption is one entry of a [Group].
type GroupOption struct {
	Label     string
	Value     Accessor
	LabelFill string
	ValueFill string
	Shape     bool
	// Format overrides the group's display format for this entry.
	Format *format.Format
}

// Group shows several label/value pairs arranged by a layout kind.
type Group struct {
	base
	Common

	Options []GroupOption
	Layout  layout.Kind
	Mode    layout.Mode

	// Position pins the group to a corner, overriding the origin on the
	// axes it sets.
	Position position.Named

	Format format.Format
	Init   string // shown for missing values; default empty
	Values Selector

	// ItemWidth and RowHeight feed the layout; zero uses the layout defaults.
	ItemWidth float64
	RowHeight float64
}

var _ overlay.Renderer = (*Group)(nil)

func (g *Group) size(font svg.Font) layout.Size {
	return layout.Size{ItemWidth: g.ItemWidth, RowHeight: g.RowHeight, FontSize: font.Size}
}

// items binds each option to the displayed datum.
func (g *Group) items(d *frame.Datum) []layout.Item {
	items := make([]layout.Item, len(g.Options))
	for i, o := range g.Options {
		f := g.Format
		if o.Format != nil {
			f = *o.Format
		}
		value := display(o.Value, d, f, g.Init)
		items[i] = layout.Item{
			Label: o.Label,
			Value: functor.Of[*frame.Frame](value),
			Color: or(o.ValueFill, DefaultValueFill),
			Shape: o.Shape,
		}
	}
	return items
}

// Render arranges the options and draws the group background behind them.
func (g *Group) Render(ctx context.Context, f *frame.Frame) (svg.Element, error) {
	font := g.font()
	size := g.size(font)
	d := selectDatum(g.Values, f)
	items := g.items(d)

	arranged, err := layout.ArrangeMode(ctx, g.Mode, items, g.Layout, size)
	if err != nil {
		return nil, err
	}

	at, anchor := position.Place(g.origin(f.Size()), g.Position, f.Size())
	root := &svg.Group{Transform: svg.Translate(at.X, at.Y), Class: g.class(), TextAnchor: anchor}

	if g.Background != nil {
		spec := g.backgroundSpec(arranged, len(items), size)
		if r, ok := backgroundRect(d, font.Size, background.None(), &spec); ok {
			root.Add(r)
		}
	}

	pairs := make([]pair, len(items))
	for i, it := range items {
		pairs[i] = pair{
			label:     it.Label,
			value:     it.Value.Resolve(f),
			labelFill: or(g.Options[i].LabelFill, DefaultLabelFill),
			valueFill: it.Color,
			shape:     it.Shape,
		}
	}

	if arranged.Inline {
		txt := &svg.Text{Font: font}
		for _, p := range pairs {
			txt.Spans = append(txt.Spans, inlineSpan(p, font))
		}
		return root.Add(txt), nil
	}
	for i, p := range pairs {
		root.Add(renderPair(g.Layout, arranged.Offsets[i], p, font, d, nil))
	}
	return root, nil
}

// backgroundSpec fills in the box size the caller left unset from the
// arranged extent. Inline layouts own their sizing: one row of item columns.
// Unrecognised kinds get the stacked-rows box so overlapping items stay
// readable.
func (g *Group) backgroundSpec(r layout.Result, n int, size layout.Size) background.Spec {
	spec := *g.Background
	extent := r.Extent
	switch {
	case r.Inline:
		s := size.WithDefaults()
		extent = frame.Size{Width: s.ItemWidth*float64(n) + 10, Height: s.FontSize * 1.5}
	case !g.Layout.Valid():
		extent = layout.Arrange(make([]layout.Item, n), layout.StackedRows, size).Extent
	}
	if spec.Width == nil {
		spec.Width = background.Float(extent.Width)
	}
	if spec.Height == nil {
		spec.Height = background.Float(extent.Height)
	}
	return spec
}
