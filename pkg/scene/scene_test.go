package scene

import (
	"bytes"
	"context"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/chartoverlay/pkg/errors"
	"github.com/matzehuels/chartoverlay/pkg/frame"
	"github.com/matzehuels/chartoverlay/pkg/overlay"
	"github.com/matzehuels/chartoverlay/pkg/render/canvas"
	"github.com/matzehuels/chartoverlay/pkg/render/svg"
)

// marker records the order it is drawn in.
type marker struct {
	name     string
	layer    frame.Layer
	triggers frame.Triggers
	log      *[]string
	err      error
}

func (p *marker) Layer() frame.Layer       { return p.layer }
func (p *marker) Triggers() frame.Triggers { return p.triggers }

func (p *marker) Draw(_ context.Context, layers overlay.Layers, _ *frame.Frame) error {
	*p.log = append(*p.log, p.name)
	c := layers.Layer(p.layer)
	canvas.Scope(c, func() { c.FillRect(0, 0, 1, 1) })
	return p.err
}

// inert neither draws nor renders.
type inert struct{}

func (inert) Layer() frame.Layer       { return frame.LayerBackground }
func (inert) Triggers() frame.Triggers { return 0 }

func testFrame() *frame.Frame {
	return &frame.Frame{
		XScale:    IndexScale(3, 100),
		XAccessor: frame.IndexAccessor,
		YScale:    ValueScale(0, 10, 50, 0),
		PlotData: []*frame.Datum{
			{Index: 0, Values: map[string]float64{"v": 1}},
			{Index: 1, Values: map[string]float64{}},
			{Index: 2, Values: map[string]float64{"v": 3}},
		},
		Width:  100,
		Height: 50,
	}
}

func markers(log *[]string) *Scene {
	return New(
		&marker{name: "tip", layer: frame.LayerForeground, triggers: frame.TriggerPointerMove, log: log},
		&marker{name: "label", layer: frame.LayerBackground, triggers: frame.TriggerPan, log: log},
		nil,
		&marker{name: "crosshair", layer: frame.LayerForeground, triggers: frame.TriggerPointerMove | frame.TriggerPan, log: log},
		&marker{name: "watermark", layer: frame.LayerBackground, triggers: frame.TriggerZoom, log: log},
	)
}

func TestPaintOrder(t *testing.T) {
	var log []string
	s := markers(&log)
	if s.Len() != 4 {
		t.Fatalf("nil overlay should be ignored, Len() = %d", s.Len())
	}

	rec := &canvas.Recorder{}
	if err := s.Paint(context.Background(), recording{rec}, testFrame()); err != nil {
		t.Fatalf("Paint() error = %v", err)
	}
	want := []string{"label", "watermark", "tip", "crosshair"}
	if !slices.Equal(log, want) {
		t.Errorf("paint order = %v, want %v", log, want)
	}
	if !rec.Balanced() {
		t.Error("paint left the canvas stack unbalanced")
	}

	// Declaration order is untouched.
	if got := s.Overlays()[0].(*marker).name; got != "tip" {
		t.Errorf("Overlays()[0] = %s", got)
	}
}

func TestInterested(t *testing.T) {
	var log []string
	s := markers(&log)
	names := func(os []overlay.Overlay) []string {
		var out []string
		for _, o := range os {
			out = append(out, o.(*marker).name)
		}
		return out
	}
	tests := []struct {
		trigger frame.Trigger
		want    []string
	}{
		{frame.TriggerPan, []string{"label", "crosshair"}},
		{frame.TriggerPointerMove, []string{"tip", "crosshair"}},
		{frame.TriggerZoom, []string{"watermark"}},
	}
	for _, tt := range tests {
		t.Run(tt.trigger.String(), func(t *testing.T) {
			if got := names(s.Interested(tt.trigger)); !slices.Equal(got, tt.want) {
				t.Errorf("Interested(%v) = %v, want %v", tt.trigger, got, tt.want)
			}
		})
	}
}

func TestPaintErrors(t *testing.T) {
	var log []string
	boom := errors.New(errors.ErrCodeMissingInput, "no datum")
	s := New(
		&marker{name: "a", log: &log},
		&marker{name: "b", log: &log, err: boom},
		&marker{name: "c", log: &log},
	)
	err := s.Paint(context.Background(), recording{&canvas.Recorder{}}, testFrame())
	if !errors.Is(err, errors.ErrCodeMissingInput) {
		t.Errorf("Paint() error = %v", err)
	}
	if !strings.Contains(err.Error(), "overlay 1") {
		t.Errorf("error should name the overlay: %v", err)
	}
	if !slices.Equal(log, []string{"a", "b"}) {
		t.Errorf("painted %v after failure", log)
	}

	if err := New(inert{}).Paint(context.Background(), recording{&canvas.Recorder{}}, testFrame()); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("inert overlay error = %v", err)
	}
	if err := s.Paint(context.Background(), recording{&canvas.Recorder{}}, &frame.Frame{}); !errors.Is(err, errors.ErrCodeInvalidFrame) {
		t.Errorf("invalid frame error = %v", err)
	}
}

func TestSeriesBreaksOnMissingValues(t *testing.T) {
	s := &Series{Key: "v"}
	segs, err := s.segments(testFrame())
	if err != nil {
		t.Fatal(err)
	}
	if len(segs) != 0 {
		t.Errorf("a gap between every point leaves no segment, got %v", segs)
	}

	f := testFrame()
	f.PlotData[1].Values["v"] = 2
	segs, _ = s.segments(f)
	if len(segs) != 2 || segs[0].x2 != 50 || segs[1].x2 != 100 {
		t.Errorf("segments = %v", segs)
	}

	f.YScale = nil
	if _, err := s.segments(f); !errors.Is(err, errors.ErrCodeMissingInput) {
		t.Errorf("missing y scale error = %v", err)
	}
}

func TestSeriesDraw(t *testing.T) {
	f := testFrame()
	f.PlotData[1].Values["v"] = 2
	f.Margin = frame.Margin{Top: 5, Left: 10}
	rec := &canvas.Recorder{}
	s := &Series{Key: "v", Stroke: "#ff0000"}
	if err := s.Draw(context.Background(), recording{rec}, f); err != nil {
		t.Fatal(err)
	}
	if !rec.Balanced() {
		t.Error("unbalanced")
	}
	if tr := rec.Find("translate"); len(tr) != 1 || tr[0].String() != "translate(10, 5)" {
		t.Errorf("translate = %v", tr)
	}
	if lines := rec.Find("line"); len(lines) != 2 {
		t.Errorf("lines = %v", lines)
	}
	if st := rec.Find("strokeStyle"); len(st) != 1 || st[0].Text != "#ff0000" {
		t.Errorf("strokeStyle = %v", st)
	}
}

func builtScene(t *testing.T, item int) (*Scene, *frame.Frame, *Config) {
	t.Helper()
	cfg := loadTestScene(t)
	s, err := Build(cfg)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	f, err := cfg.Frame(item)
	if err != nil {
		t.Fatalf("Frame() error = %v", err)
	}
	return s, f, cfg
}

func TestDocument(t *testing.T) {
	s, f, cfg := builtScene(t, 1)
	doc, err := s.Document(context.Background(), f, cfg.Title, cfg.Backdrop)
	if err != nil {
		t.Fatalf("Document() error = %v", err)
	}
	if doc.Width != 800 || doc.Height != 400 {
		t.Errorf("document = %vx%v", doc.Width, doc.Height)
	}

	var buf bytes.Buffer
	if err := svg.Encode(&buf, doc); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`<g transform="translate(50, 20)" class="chartoverlay-plot">`,
		`>ACME</tspan>`,
		`class="chartoverlay-series"`,
		`<g transform="translate(680, 0)" class="chartoverlay-tooltip" text-anchor="end">`,
		`fill="#FFD700"`,
		`>RSI (14): </tspan>`,
		`>55.10</tspan>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("document missing %q", want)
		}
	}
	// Paint order: the watermark label precedes the series, tooltips come last.
	if strings.Index(out, ">ACME<") > strings.Index(out, "chartoverlay-series") {
		t.Error("background label should precede the series")
	}
	if strings.Index(out, ">high<") < strings.Index(out, "chartoverlay-series") {
		t.Error("foreground label should follow the series")
	}
}

func TestTrace(t *testing.T) {
	s, f, _ := builtScene(t, -1)
	traces, err := s.Trace(context.Background(), f, nil)
	if err != nil {
		t.Fatalf("Trace() error = %v", err)
	}
	if len(traces) != s.Len() {
		t.Fatalf("traces = %d, want %d", len(traces), s.Len())
	}
	for _, tr := range traces {
		if !tr.Balanced {
			t.Errorf("%s left the stack unbalanced", tr.Kind)
		}
		if tr.Err != nil {
			t.Errorf("%s failed: %v", tr.Kind, tr.Err)
		}
	}
	first := traces[0]
	if first.Kind != "annotate.Label" || first.Layer != frame.LayerBackground || first.Triggers != frame.TriggerPan {
		t.Errorf("first trace = %+v", first)
	}
	var text []string
	for _, op := range first.Ops {
		if op.Name == "fillText" {
			text = append(text, op.Text)
		}
	}
	if !slices.Equal(text, []string{"ACME"}) {
		t.Errorf("label text ops = %v", text)
	}

	// RSI shows n/a when nothing is hovered, even though rows exist.
	last := traces[len(traces)-1]
	found := false
	for _, op := range last.Ops {
		if op.Name == "fillText" && op.Text == "n/a" {
			found = true
		}
	}
	if !found {
		t.Errorf("rsi trace = %v", last.Ops)
	}
}

func TestPaintSurface(t *testing.T) {
	s, f, cfg := builtScene(t, 0)
	surface := canvas.NewSurface(cfg.Width, cfg.Height, f.PixelRatio())
	if err := s.Paint(context.Background(), surface, f); err != nil {
		t.Fatalf("Paint() error = %v", err)
	}
	if err := surface.Err(); err != nil {
		t.Errorf("surface error = %v", err)
	}
	if !surface.Balanced() {
		t.Error("surface stack unbalanced")
	}
	if b := surface.Bounds(); b.Dx() != 1600 || b.Dy() != 800 {
		t.Errorf("bounds = %v", b)
	}
	var buf bytes.Buffer
	if err := surface.EncodePNG(&buf); err != nil || buf.Len() == 0 {
		t.Errorf("EncodePNG() = %d bytes, %v", buf.Len(), err)
	}
}

func TestScales(t *testing.T) {
	x := IndexScale(5, 400)
	if got := x.Map(2); got != 200 {
		t.Errorf("IndexScale.Map(2) = %v", got)
	}
	if got := IndexScale(1, 400).Map(0); got != 0 {
		t.Errorf("single point = %v", got)
	}

	lo, hi, ok := Extent(testFrame().PlotData, "v", "missing")
	if !ok || lo != 1 || hi != 3 {
		t.Errorf("Extent() = %v, %v, %v", lo, hi, ok)
	}
	if _, _, ok := Extent(nil, "v"); ok {
		t.Error("empty extent should report !ok")
	}

	y := ValueScale(0, 10, 100, 0.1)
	if got := y.Map(10); math.Abs(got-100.0/12) > 1e-9 {
		t.Errorf("ValueScale.Map(10) = %v", got)
	}
	if y.Map(0) <= y.Map(10) {
		t.Error("value scale must be inverted")
	}
	flat := ValueScale(5, 5, 100, 0)
	if got := flat.Map(5); got != 50 {
		t.Errorf("flat domain = %v", got)
	}
	if got := (LinearScale{Range: [2]float64{0, 10}}).Map(3); got != 5 {
		t.Errorf("degenerate domain = %v", got)
	}
}
