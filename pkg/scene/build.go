package scene

import (
	"strconv"
	"strings"

	"github.com/matzehuels/chartoverlay/pkg/annotate"
	"github.com/matzehuels/chartoverlay/pkg/errors"
	"github.com/matzehuels/chartoverlay/pkg/frame"
	"github.com/matzehuels/chartoverlay/pkg/functor"
	"github.com/matzehuels/chartoverlay/pkg/overlay"
	"github.com/matzehuels/chartoverlay/pkg/overlay/background"
	"github.com/matzehuels/chartoverlay/pkg/overlay/layout"
	"github.com/matzehuels/chartoverlay/pkg/overlay/position"
	"github.com/matzehuels/chartoverlay/pkg/render/canvas"
	"github.com/matzehuels/chartoverlay/pkg/tooltip"
	"github.com/matzehuels/chartoverlay/pkg/tooltip/format"
)

// Overlay types accepted in scene files.
const (
	TypeSeries        = "series"
	TypeLabel         = "label"
	TypeSingle        = "single"
	TypeGroup         = "group"
	TypeMovingAverage = "moving_average"
	TypeSingleValue   = "single_value"
	TypeRSI           = "rsi"
	TypeStochastic    = "stochastic"
)

// Build turns a parsed scene file into a scene. Label datums are bound to
// the scene's own plot data, so frames for the scene should come from
// [Config.Frame].
func Build(cfg *Config) (*Scene, error) {
	data, err := cfg.Datums()
	if err != nil {
		return nil, err
	}
	mode, err := layout.ParseMode(cfg.LayoutMode)
	if err != nil {
		return nil, err
	}
	b := &builder{data: data, mode: mode}

	s := New()
	for i, oc := range cfg.Overlays {
		o, err := b.overlay(oc)
		if err != nil {
			code := errors.GetCode(err)
			if code == "" {
				code = errors.ErrCodeInvalidConfig
			}
			return nil, errors.Wrap(code, err, "overlay %d (%s)", i, oc.Type)
		}
		s.Add(o)
	}
	return s, nil
}

// builder carries the scene-wide settings overlays are built with.
type builder struct {
	data []*frame.Datum
	mode layout.Mode
}

func (b *builder) overlay(oc OverlayConfig) (overlay.Overlay, error) {
	if err := checkColors(oc); err != nil {
		return nil, err
	}
	switch oc.Type {
	case TypeSeries:
		return b.series(oc)
	case TypeLabel:
		return b.label(oc)
	case TypeSingle:
		return b.single(oc)
	case TypeGroup:
		return b.group(oc)
	case TypeMovingAverage:
		return b.movingAverage(oc)
	case TypeSingleValue:
		return b.singleValue(oc)
	case TypeRSI:
		return b.rsi(oc)
	case TypeStochastic:
		return b.stochastic(oc)
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown overlay type %q", oc.Type)
}

// checkColors rejects colours neither surface could paint.
func checkColors(oc OverlayConfig) error {
	colors := []string{oc.Fill, oc.LabelFill, oc.ValueFill, oc.Stroke, oc.KStroke, oc.DStroke}
	if oc.Background != nil {
		colors = append(colors, oc.Background.Fill, oc.Background.Stroke)
	}
	for _, it := range oc.Items {
		colors = append(colors, it.LabelFill, it.ValueFill)
	}
	for _, a := range oc.Averages {
		colors = append(colors, a.Stroke)
	}
	for _, c := range colors {
		if c == "" {
			continue
		}
		if _, err := canvas.ParseColor(c); err != nil {
			return err
		}
	}
	return nil
}

func parseLayer(s string) (frame.Layer, error) {
	l, err := frame.ParseLayer(s)
	if err != nil {
		return l, errors.Wrap(errors.ErrCodeInvalidConfig, err, "layer")
	}
	return l, nil
}

func (b *builder) series(oc OverlayConfig) (overlay.Overlay, error) {
	if oc.Key == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "series needs a key")
	}
	l, err := parseLayer(oc.Layer)
	if err != nil {
		return nil, err
	}
	return &Series{Key: oc.Key, Stroke: oc.Stroke, LineWidth: oc.LineWidth, Target: l}, nil
}

func (b *builder) label(oc OverlayConfig) (overlay.Overlay, error) {
	l := &annotate.Label{
		Text:   functor.Of[*frame.Datum](oc.Text),
		Font:   canvas.Font{Family: oc.FontFamily, Size: oc.FontSize, Weight: parseWeight(oc.FontWeight)},
		Rotate: oc.Rotate,
	}
	if oc.Fill != "" {
		l.Fill = functor.Of[*frame.Datum](oc.Fill)
	}

	var err error
	if l.Target, err = parseLayer(oc.Layer); err != nil {
		return nil, err
	}
	if l.Align, err = frame.ParseAlign(oc.Align); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "align")
	}
	if oc.Datum != nil {
		if *oc.Datum < 0 || *oc.Datum >= len(b.data) {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "datum %d out of range (%d rows)", *oc.Datum, len(b.data))
		}
		l.Datum = b.data[*oc.Datum]
	}

	switch {
	case oc.X != nil:
		l.X = position.AtX(*oc.X)
	case l.Datum == nil:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "label needs x or a datum")
	}
	switch {
	case oc.Y != nil:
		l.Y = position.AtY(*oc.Y)
	case oc.YKey != "" && l.Datum != nil:
		l.Y = position.ValueY(oc.YKey)
	case oc.YKey != "":
		return nil, errors.New(errors.ErrCodeInvalidConfig, "label y_key needs a datum")
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "label needs y or y_key")
	}

	if oc.Background != nil {
		l.Background = backgroundSpec(oc.Background)
	}
	return l, nil
}

// parseWeight maps a CSS font weight onto a numeric weight. Zero leaves the
// overlay's default.
func parseWeight(s string) int {
	switch strings.ToLower(s) {
	case "":
		return 0
	case "bold", "bolder":
		return canvas.WeightBold
	case "normal", "lighter":
		return canvas.WeightNormal
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return 0
}

func backgroundSpec(bc *BackgroundConfig) *background.Spec {
	spec := &background.Spec{
		Stroke:  bc.Stroke,
		X:       bc.X,
		Y:       bc.Y,
		Width:   bc.Width,
		Height:  bc.Height,
		Padding: background.Sniff(bc.Padding),
	}
	if bc.Fill != "" {
		spec.Fill = background.FillColor(bc.Fill)
	}
	return spec
}

// common maps the presentation options every tooltip shares.
func common(oc OverlayConfig) tooltip.Common {
	c := tooltip.Common{
		FontFamily: oc.FontFamily,
		FontSize:   oc.FontSize,
		FontWeight: oc.FontWeight,
		Class:      oc.Class,
	}
	if len(oc.Origin) == 2 {
		c.Origin = position.At(oc.Origin[0], oc.Origin[1])
	}
	if oc.Background != nil {
		c.Background = backgroundSpec(oc.Background)
	}
	return c
}

func parseFormat(s string) (format.Format, error) {
	if s == "" {
		return format.Format{}, nil
	}
	return format.Parse(s)
}

func selector(s string) tooltip.Selector {
	switch s {
	case "hovered":
		return tooltip.CurrentOnly
	case "hovered_or_last":
		return tooltip.CurrentOrLast
	}
	return nil
}

func initText(p *string, fallback string) string {
	if p == nil {
		return fallback
	}
	return *p
}

// kind parses a layout name. Unknown names are kept, so the layout mode
// decides at draw time whether they degrade, warn or fail; strict scenes
// reject them up front.
func (b *builder) kind(s string) (layout.Kind, error) {
	k, err := layout.ParseKind(s)
	if err != nil && b.mode == layout.Strict {
		return k, err
	}
	return k, nil
}

func (b *builder) single(oc OverlayConfig) (overlay.Overlay, error) {
	f, err := parseFormat(oc.Format)
	if err != nil {
		return nil, err
	}
	k, err := b.kind(oc.Layout)
	if err != nil {
		return nil, err
	}
	return &tooltip.Single{
		Common:    common(oc),
		Label:     oc.Label,
		Value:     tooltip.ValueOf(tooltip.Key(oc.Key), f, initText(oc.Init, tooltip.DefaultInit)),
		Layout:    k,
		LabelFill: oc.LabelFill,
		ValueFill: oc.ValueFill,
		Shape:     oc.Shape,
	}, nil
}

func (b *builder) group(oc OverlayConfig) (overlay.Overlay, error) {
	f, err := parseFormat(oc.Format)
	if err != nil {
		return nil, err
	}
	k, err := b.kind(oc.Layout)
	if err != nil {
		return nil, err
	}
	pos, err := position.ParseNamed(oc.Position)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPosition, err, "position")
	}
	g := &tooltip.Group{
		Common:    common(oc),
		Layout:    k,
		Mode:      b.mode,
		Position:  pos,
		Format:    f,
		Init:      initText(oc.Init, ""),
		Values:    selector(oc.Values),
		ItemWidth: oc.ItemWidth,
		RowHeight: oc.RowHeight,
	}
	for _, it := range oc.Items {
		opt := tooltip.GroupOption{
			Label:     it.Label,
			Value:     tooltip.Key(it.Key),
			LabelFill: it.LabelFill,
			ValueFill: it.ValueFill,
			Shape:     it.Shape,
		}
		if it.Format != "" {
			itf, err := format.Parse(it.Format)
			if err != nil {
				return nil, err
			}
			opt.Format = &itf
		}
		g.Options = append(g.Options, opt)
	}
	return g, nil
}

func (b *builder) movingAverage(oc OverlayConfig) (overlay.Overlay, error) {
	f, err := parseFormat(oc.Format)
	if err != nil {
		return nil, err
	}
	m := &tooltip.MovingAverage{
		Common:          common(oc),
		Width:           oc.ColumnWidth,
		Format:          f,
		Init:            initText(oc.Init, tooltip.DefaultInit),
		LabelFill:       oc.LabelFill,
		LabelFontWeight: oc.LabelWeight,
		TextFill:        oc.ValueFill,
		Values:          selector(oc.Values),
	}
	for _, a := range oc.Averages {
		m.Options = append(m.Options, tooltip.MAOption{
			Type:       a.Type,
			WindowSize: a.Window,
			Stroke:     a.Stroke,
			Value:      tooltip.Key(a.Key),
		})
	}
	return m, nil
}

func (b *builder) singleValue(oc OverlayConfig) (overlay.Overlay, error) {
	xf, err := parseFormat(oc.XFormat)
	if err != nil {
		return nil, err
	}
	yf, err := parseFormat(oc.YFormat)
	if err != nil {
		return nil, err
	}
	s := &tooltip.SingleValue{
		Common:          common(oc),
		XLabel:          oc.XLabel,
		YLabel:          oc.YLabel,
		XFormat:         xf,
		YFormat:         yf,
		XInit:           initText(oc.Init, tooltip.DefaultInit),
		YInit:           initText(oc.Init, tooltip.DefaultInit),
		LabelFill:       oc.LabelFill,
		LabelFontWeight: oc.LabelWeight,
		ValueFill:       oc.ValueFill,
		Values:          selector(oc.Values),
	}
	switch oc.XKey {
	case "":
	case "index":
		s.XValue = func(d *frame.Datum) (float64, bool) { return float64(d.Index), true }
	default:
		s.XValue = tooltip.Key(oc.XKey)
	}
	if oc.YKey != "" {
		s.YValue = tooltip.Key(oc.YKey)
	}
	return s, nil
}

func (b *builder) rsi(oc OverlayConfig) (overlay.Overlay, error) {
	f, err := parseFormat(oc.Format)
	if err != nil {
		return nil, err
	}
	return &tooltip.RSI{
		Common:          common(oc),
		WindowSize:      oc.Window,
		Value:           tooltip.Key(oc.Key),
		Format:          f,
		Init:            initText(oc.Init, tooltip.DefaultInit),
		LabelFill:       oc.LabelFill,
		LabelFontWeight: oc.LabelWeight,
		TextFill:        oc.ValueFill,
		Values:          selector(oc.Values),
	}, nil
}

func (b *builder) stochastic(oc OverlayConfig) (overlay.Overlay, error) {
	f, err := parseFormat(oc.Format)
	if err != nil {
		return nil, err
	}
	return &tooltip.Stochastic{
		Common:      common(oc),
		Label:       oc.Label,
		WindowSize:  oc.Window,
		KWindowSize: oc.KWindow,
		DWindowSize: oc.DWindow,
		K:           tooltip.Key(oc.KKey),
		D:           tooltip.Key(oc.DKey),
		KStroke:     oc.KStroke,
		DStroke:     oc.DStroke,
		Format:      f,
		Init:        initText(oc.Init, tooltip.DefaultInit),
		LabelFill:   oc.LabelFill,
		Values:      selector(oc.Values),
	}, nil
}
