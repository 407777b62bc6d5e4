package frame

import (
	"testing"

	"github.com/matzehuels/chartoverlay/pkg/errors"
)

func TestCurrentItem(t *testing.T) {
	a, b := &Datum{Index: 0}, &Datum{Index: 1}

	tests := []struct {
		name  string
		frame Frame
		want  *Datum
	}{
		{"hovered wins", Frame{Current: a, PlotData: []*Datum{a, b}}, a},
		{"falls back to last", Frame{PlotData: []*Datum{a, b}}, b},
		{"empty", Frame{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.frame.CurrentItem(); got != tt.want {
				t.Errorf("CurrentItem() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDatumGet(t *testing.T) {
	d := &Datum{Values: map[string]float64{"close": 101.5}}
	if v, ok := d.Get("close"); !ok || v != 101.5 {
		t.Errorf("Get(close) = %v, %v", v, ok)
	}
	if _, ok := d.Get("open"); ok {
		t.Error("Get(open) should miss")
	}
	var nilDatum *Datum
	if _, ok := nilDatum.Get("close"); ok {
		t.Error("nil datum should miss")
	}
}

func TestWithDatumCopies(t *testing.T) {
	d := &Datum{Index: 3}
	f := &Frame{Width: 100}
	g := f.WithDatum(d)
	if f.Datum != nil {
		t.Error("WithDatum must not mutate the receiver")
	}
	if g.Datum != d || g.Width != 100 {
		t.Errorf("WithDatum() = %+v", g)
	}
}

func TestValidate(t *testing.T) {
	identity := ScaleFunc(func(v float64) float64 { return v })

	tests := []struct {
		name  string
		frame *Frame
		code  errors.Code
	}{
		{"valid", &Frame{XScale: identity, XAccessor: IndexAccessor, Width: 800, Height: 600, Ratio: 2}, ""},
		{"unset ratio is fine", &Frame{XScale: identity, XAccessor: IndexAccessor, Width: 800, Height: 600}, ""},
		{"nil frame", nil, errors.ErrCodeInvalidFrame},
		{"no scale", &Frame{XAccessor: IndexAccessor, Width: 1, Height: 1}, errors.ErrCodeInvalidFrame},
		{"no accessor", &Frame{XScale: identity, Width: 1, Height: 1}, errors.ErrCodeInvalidFrame},
		{"bad ratio", &Frame{XScale: identity, XAccessor: IndexAccessor, Width: 1, Height: 1, Ratio: -1}, errors.ErrCodeInvalidFrame},
		{"no size", &Frame{XScale: identity, XAccessor: IndexAccessor}, errors.ErrCodeInvalidFrame},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.frame.Validate()
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("Validate() code = %q, want %q (err %v)", got, tt.code, err)
			}
		})
	}
}

func TestAlign(t *testing.T) {
	tests := []struct {
		align  Align
		anchor float64
		svg    string
	}{
		{AlignCenter, 0.5, "middle"},
		{"", 0.5, "middle"},
		{AlignEnd, 1, "end"},
		{AlignRight, 1, "end"},
		{AlignStart, 0, "start"},
		{AlignLeft, 0, "start"},
	}
	for _, tt := range tests {
		t.Run(string(tt.align), func(t *testing.T) {
			if got := tt.align.Anchor(); got != tt.anchor {
				t.Errorf("Anchor() = %v, want %v", got, tt.anchor)
			}
			if got := tt.align.TextAnchor(); got != tt.svg {
				t.Errorf("TextAnchor() = %q, want %q", got, tt.svg)
			}
		})
	}

	if _, err := ParseAlign("justify"); err == nil {
		t.Error("ParseAlign(justify) should fail")
	}
	if a, _ := ParseAlign(" END "); a != AlignEnd {
		t.Errorf("ParseAlign(END) = %q", a)
	}
}

func TestLayerAndTriggers(t *testing.T) {
	for in, want := range map[string]Layer{"": LayerBackground, "bottom": LayerBackground, "top": LayerForeground, "foreground": LayerForeground} {
		got, err := ParseLayer(in)
		if err != nil || got != want {
			t.Errorf("ParseLayer(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseLayer("middle"); err == nil {
		t.Error("ParseLayer(middle) should fail")
	}

	set := TriggerPan | TriggerZoom
	if !set.Has(TriggerPan) || set.Has(TriggerPointerMove) {
		t.Errorf("Has() wrong for %s", set)
	}
	if set.Has(0) {
		t.Error("Has(0) should be false")
	}
	if got := set.String(); got != "pan,zoom" {
		t.Errorf("String() = %q", got)
	}
}
