package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	svgo "github.com/ajstarks/svgo"

	"github.com/matzehuels/chartoverlay/pkg/errors"
)

// Document is a complete SVG image.
type Document struct {
	Width, Height float64
	Title         string
	Background    string // optional full-size backdrop fill
	Elements      []Element
}

// writer records the first write error so encoders can ignore it.
type writer struct {
	w   io.Writer
	err error
}

func (w *writer) Write(p []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	n, err := w.w.Write(p)
	w.err = err
	return n, err
}

func (w *writer) printf(format string, args ...any) {
	fmt.Fprintf(w, format, args...)
}

func (w *writer) attr(name, value string) {
	if value != "" {
		w.printf(` %s="%s"`, name, escape(value))
	}
}

func (w *writer) num(name string, v float64) {
	w.printf(` %s="%s"`, name, Num(v))
}

func escape(s string) string {
	var b bytes.Buffer
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// Encode writes doc as a standalone SVG document.
func Encode(w io.Writer, doc Document) error {
	ew := &writer{w: w}
	s := svgo.New(ew)
	s.Startraw(
		fmt.Sprintf(`viewBox="0 0 %s %s"`, Num(doc.Width), Num(doc.Height)),
		fmt.Sprintf(`width="%s"`, Num(doc.Width)),
		fmt.Sprintf(`height="%s"`, Num(doc.Height)),
	)
	if doc.Title != "" {
		s.Title(doc.Title)
	}
	if doc.Background != "" {
		(&Rect{Width: doc.Width, Height: doc.Height, Fill: doc.Background}).encode(ew)
	}
	for _, e := range doc.Elements {
		if e != nil {
			e.encode(ew)
		}
	}
	s.End()
	if ew.err != nil {
		return errors.Wrap(errors.ErrCodeInternal, ew.err, "write svg")
	}
	return nil
}

// Marshal serialises elements as an SVG fragment.
func Marshal(elems ...Element) string {
	var b bytes.Buffer
	w := &writer{w: &b}
	for _, e := range elems {
		if e != nil {
			e.encode(w)
		}
	}
	return b.String()
}

func (g *Group) encode(w *writer) {
	w.printf("<g")
	w.attr("transform", g.Transform)
	w.attr("class", g.Class)
	w.attr("text-anchor", g.TextAnchor)
	w.printf(">\n")
	for _, c := range g.Children {
		if c != nil {
			c.encode(w)
		}
	}
	w.printf("</g>\n")
}

func (r *Rect) encode(w *writer) {
	w.printf("<rect")
	w.num("x", r.X)
	w.num("y", r.Y)
	w.num("width", r.Width)
	w.num("height", r.Height)
	w.attr("fill", r.Fill)
	w.attr("stroke", r.Stroke)
	if r.StrokeWidth > 0 {
		w.num("stroke-width", r.StrokeWidth)
	}
	w.attr("class", r.Class)
	w.printf("/>\n")
}

func (l *Line) encode(w *writer) {
	w.printf("<line")
	w.num("x1", l.X1)
	w.num("y1", l.Y1)
	w.num("x2", l.X2)
	w.num("y2", l.Y2)
	w.attr("stroke", l.Stroke)
	if l.StrokeWidth > 0 {
		w.printf(` stroke-width="%spx"`, Num(l.StrokeWidth))
	}
	w.printf("/>\n")
}

func (f Font) encode(w *writer) {
	w.attr("font-family", f.Family)
	if f.Size > 0 {
		w.num("font-size", f.Size)
	}
	w.attr("font-weight", f.Weight)
}

func (t *Text) encode(w *writer) {
	w.printf("<text")
	w.num("x", t.X)
	w.num("y", t.Y)
	t.Font.encode(w)
	w.attr("fill", t.Fill)
	w.attr("text-anchor", t.TextAnchor)
	w.printf(">")
	for _, s := range t.Spans {
		s.encode(w)
	}
	w.printf("</text>\n")
}

func (s Span) encode(w *writer) {
	w.printf("<tspan")
	if s.X != nil {
		w.num("x", *s.X)
	}
	if s.DY != 0 {
		w.num("dy", s.DY)
	}
	s.Font.encode(w)
	w.attr("fill", s.Fill)
	w.printf(">%s", escape(s.Text))
	for _, c := range s.Children {
		c.encode(w)
	}
	w.printf("</tspan>")
}
