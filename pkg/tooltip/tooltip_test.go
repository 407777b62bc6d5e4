package tooltip

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/chartoverlay/pkg/errors"
	"github.com/matzehuels/chartoverlay/pkg/frame"
	"github.com/matzehuels/chartoverlay/pkg/functor"
	"github.com/matzehuels/chartoverlay/pkg/overlay/background"
	"github.com/matzehuels/chartoverlay/pkg/overlay/layout"
	"github.com/matzehuels/chartoverlay/pkg/overlay/position"
	"github.com/matzehuels/chartoverlay/pkg/render/svg"
	"github.com/matzehuels/chartoverlay/pkg/tooltip/format"
)

func testFrame() *frame.Frame {
	data := []*frame.Datum{
		{Index: 0, Values: map[string]float64{"open": 10, "close": 11, "ema12": 10.5, "rsi": 48.123}},
		{Index: 1, Values: map[string]float64{"open": 11, "close": 12.5, "ema12": 11.25, "sma20": 11, "k": 80.456, "d": 75}},
	}
	return &frame.Frame{
		XScale:    frame.ScaleFunc(func(v float64) float64 { return v * 10 }),
		XAccessor: frame.IndexAccessor,
		PlotData:  data,
		Width:     800,
		Height:    400,
		Origin:    frame.Point{X: 0, Y: 300},
	}
}

func render(t *testing.T, r interface {
	Render(context.Context, *frame.Frame) (svg.Element, error)
}, f *frame.Frame) string {
	t.Helper()
	el, err := r.Render(context.Background(), f)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return svg.Marshal(el)
}

func assertContains(t *testing.T, out string, wants ...string) {
	t.Helper()
	for _, w := range wants {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q\n%s", w, out)
		}
	}
}

func TestSingleValueNextToLabel(t *testing.T) {
	s := &Single{
		Label:     "O",
		Value:     functor.Of[*frame.Frame]("12.50"),
		Shape:     true,
		ValueFill: "#ff0000",
		Common:    Common{Background: &background.Spec{}},
	}
	out := render(t, s, testFrame())
	assertContains(t, out,
		`<g transform="translate(0, 0)" class="chartoverlay-tooltip">`,
		`<rect x="0" y="-13" width="64" height="16.5" fill="rgba(33, 33, 33, 0.7)" stroke="none"/>`,
		`<rect x="0" y="-6" width="6" height="6" fill="#ff0000"/>`,
		`<text x="8" y="0"`,
		`<tspan fill="#4682B4">O: </tspan><tspan fill="#ff0000">12.50</tspan>`,
	)
	if s.Layer() != frame.LayerForeground || s.Triggers() != frame.TriggerPointerMove {
		t.Errorf("Layer()=%v Triggers()=%v", s.Layer(), s.Triggers())
	}
}

func TestSingleValueBeneathLabel(t *testing.T) {
	s := &Single{
		Label:  "Volume",
		Value:  functor.Func(func(f *frame.Frame) string { return "1,204" }),
		Layout: layout.StackedRows,
		Shape:  true,
		Common: Common{Origin: position.OriginFunc(func(sz frame.Size) frame.Point { return frame.Point{X: sz.Width - 20, Y: 5} }), Background: &background.Spec{}},
	}
	out := render(t, s, testFrame())
	assertContains(t, out,
		`translate(780, 5)`,
		// "Volume" is longer than "1,204": 6*11*0.5+20.
		`width="53"`,
		`<line x1="0" y1="2" x2="0" y2="28" stroke="#000000" stroke-width="4px"/>`,
		`<text x="5" y="11"`,
		`<tspan x="5" dy="15" fill="#000000">1,204</tspan>`,
	)
}

func TestSingleInline(t *testing.T) {
	s := &Single{
		Label:  "H",
		Value:  functor.Of[*frame.Frame]("13"),
		Layout: layout.InlineInText,
		Common: Common{Background: &background.Spec{}},
	}
	out := render(t, s, testFrame())
	if strings.Contains(out, "<rect") {
		t.Error("inline readouts have no background of their own")
	}
	assertContains(t, out, "H:\u00a0</tspan>", "13\u00a0\u00a0</tspan>")
}

func closeOptions() []GroupOption {
	return []GroupOption{
		{Label: "O", Value: Key("open")},
		{Label: "C", Value: Key("close"), ValueFill: "#26a69a", Shape: true},
		{Label: "V", Value: Key("volume")},
	}
}

func TestGroupSideBySideColumns(t *testing.T) {
	g := &Group{
		Options:  closeOptions(),
		Layout:   layout.SideBySideColumns,
		Position: position.TopRight,
		Common:   Common{Background: &background.Spec{Fill: background.FillColor("#fafafa")}},
	}
	out := render(t, g, testFrame())
	assertContains(t, out,
		`<g transform="translate(780, 0)" class="chartoverlay-tooltip" text-anchor="end">`,
		`<rect x="0" y="-13" width="190" height="16.5" fill="#fafafa" stroke="none"/>`,
		`translate(60, 0)`,
		`translate(120, 0)`,
		// Last datum: open 11, close 12.5; volume is missing and shows the empty init.
		`<tspan x="5" dy="15" fill="#000000">11.00</tspan>`,
		`<tspan x="5" dy="15" fill="#26a69a">12.50</tspan>`,
		`<tspan x="5" dy="15" fill="#000000"></tspan>`,
		`stroke="#26a69a" stroke-width="4px"`,
	)
	if n := strings.Count(out, "<rect"); n != 1 {
		t.Errorf("expected only the group background rect, got %d rects", n)
	}
}

func TestGroupVerticalExtents(t *testing.T) {
	tests := []struct {
		kind   layout.Kind
		width  string
		height string
		offset string
	}{
		{layout.PairedVertical, `width="150"`, `height="49"`, `translate(0, 13)`},
		{layout.StackedRows, `width="150"`, `height="99.7"`, `translate(0, 29.9)`},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			g := &Group{Options: closeOptions(), Layout: tt.kind, Common: Common{Background: &background.Spec{}}}
			assertContains(t, render(t, g, testFrame()), tt.width, tt.height, tt.offset)
		})
	}
}

func TestGroupUnknownLayoutKeepsBox(t *testing.T) {
	g := &Group{Options: closeOptions(), Layout: layout.Kind("diagonal"), Common: Common{Background: &background.Spec{}}}
	out := render(t, g, testFrame())
	assertContains(t, out, `width="150"`, `height="99.7"`)
	if strings.Contains(out, `width="0"`) {
		t.Error("unrecognised layouts must not collapse the background")
	}
	// The group itself plus three overlapping items.
	if n := strings.Count(out, `translate(0, 0)`); n != 4 {
		t.Errorf("items should overlap at the origin, got %d zero translates", n)
	}
}

func TestGroupInline(t *testing.T) {
	g := &Group{
		Options:  closeOptions()[:2],
		Layout:   layout.InlineInText,
		Init:     "-",
		Position: position.BottomLeft,
		Common:   Common{Origin: position.At(15, 0), Background: &background.Spec{}},
	}
	out := render(t, g, testFrame())
	assertContains(t, out,
		`translate(15, 360)`,
		`width="130" height="16.5"`,
		"O:\u00a0</tspan>",
		"C:\u00a0</tspan>",
	)
	if strings.Count(out, "<text") != 1 {
		t.Error("inline items must share one text run")
	}
}

func TestGroupHoveredAndFormats(t *testing.T) {
	f := testFrame()
	f.Current = f.PlotData[0]
	pct := format.MustParse(".1%")
	g := &Group{
		Options: []GroupOption{
			{Label: "O", Value: Key("open")},
			{Label: "Chg", Value: func(d *frame.Datum) (float64, bool) { return 0.0437, true }, Format: &pct},
		},
		Format: format.MustParse(".0f"),
	}
	out := render(t, g, f)
	assertContains(t, out, `>10</tspan>`, `>4.4%</tspan>`)
}

func TestGroupLayoutModes(t *testing.T) {
	g := &Group{Options: closeOptions(), Layout: layout.Kind("grid")}
	out := render(t, g, testFrame())
	if strings.Count(out, `translate(0, 0)`) != 4 {
		t.Errorf("unknown layout should overlap every item at the origin\n%s", out)
	}

	g.Mode = layout.Strict
	if _, err := g.Render(context.Background(), testFrame()); !errors.Is(err, errors.ErrCodeInvalidLayout) {
		t.Errorf("strict Render() error = %v", err)
	}
}

func TestMovingAverage(t *testing.T) {
	m := &MovingAverage{
		Options: []MAOption{
			{Type: "EMA", WindowSize: 12, Stroke: "#ff7f0e", Value: Key("ema12")},
			{Type: "SMA", WindowSize: 20, Stroke: "#2ca02c", Value: Key("sma20")},
		},
		Common: Common{Background: &background.Spec{}},
	}
	f := testFrame()
	out := render(t, m, f)
	assertContains(t, out,
		`translate(0, 310)`,
		`width="130" height="16.5"`,
		`translate(65, 0)`,
		`stroke="#ff7f0e"`,
		`>EMA (12)</tspan>`,
		`>11.25</tspan>`,
		`>11.00</tspan>`,
		`<rect x="0" y="0" width="55" height="30" fill="none" stroke="none"/>`,
	)

	f.Current = f.PlotData[0]
	assertContains(t, render(t, m, f), `>10.50</tspan>`, `>n/a</tspan>`)
}

func TestSingleValue(t *testing.T) {
	s := &SingleValue{
		XLabel: "Bar",
		XValue: func(d *frame.Datum) (float64, bool) { return float64(d.Index), true },
		YLabel: "Close",
		YValue: Key("close"),
		Common: Common{Background: &background.Spec{}},
	}
	out := render(t, s, testFrame())
	content := "Bar: 1 Close 12.50"
	assertContains(t, out,
		`<tspan x="0" dy="5" fill="#4682B4">Bar: </tspan>`,
		`<tspan fill="#000000">1 </tspan>`,
		`<tspan fill="#4682B4">Close </tspan>`,
		`<tspan fill="#000000">12.50</tspan>`,
		`width="`+svg.Num(background.EstimateWidth(content, 11))+`"`,
	)

	s.XLabel = ""
	f := testFrame()
	f.PlotData = nil
	out = render(t, s, f)
	if strings.Contains(out, "Bar") {
		t.Error("empty XLabel must hide the x part")
	}
	assertContains(t, out, `>n/a</tspan>`)
}

func TestRSI(t *testing.T) {
	r := &RSI{WindowSize: 14, Value: Key("rsi")}
	f := testFrame()
	assertContains(t, render(t, r, f), `>RSI (14): </tspan>`, `>n/a</tspan>`)

	f.Current = f.PlotData[0]
	assertContains(t, render(t, r, f), `>48.12</tspan>`)

	r.Values = CurrentOrLast
	f.Current = nil
	assertContains(t, render(t, r, f), `>n/a</tspan>`)
}

func TestStochastic(t *testing.T) {
	s := &Stochastic{
		WindowSize: 14, KWindowSize: 3, DWindowSize: 3,
		K: Key("k"), D: Key("d"),
		KStroke: "#ff0000", DStroke: "#0000ff",
		Common: Common{Background: &background.Spec{}},
	}
	out := render(t, s, testFrame())
	content := "STO %K(14, 3): 80.46 %D (3): 75.00"
	assertContains(t, out,
		`>STO %K(</tspan>`,
		`<tspan fill="#ff0000">14, 3</tspan>`,
		`<tspan fill="#ff0000">80.46</tspan>`,
		`<tspan fill="#0000ff">3</tspan>`,
		`<tspan fill="#0000ff">75.00</tspan>`,
		`width="`+svg.Num(background.EstimateWidth(content, 11))+`"`,
	)
}

func TestValueOf(t *testing.T) {
	v := ValueOf(Key("close"), format.MustParse(".1f"), "--")
	f := testFrame()
	if got := v.Resolve(f); got != "12.5" {
		t.Errorf("last datum = %q", got)
	}
	f.Current = f.PlotData[0]
	if got := v.Resolve(f); got != "11.0" {
		t.Errorf("hovered datum = %q", got)
	}
	f.Current, f.PlotData = nil, nil
	if got := v.Resolve(f); got != "--" {
		t.Errorf("no datum = %q", got)
	}
}
