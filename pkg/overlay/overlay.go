// Package overlay defines the contracts between overlays and the host that
// draws them.
//
// An overlay declares the layer it paints into and the redraw triggers it
// cares about. Canvas-backed overlays implement [Drawer]; declarative
// overlays implement [Renderer]. Some overlays implement both.
//
// Subpackages hold the shared geometry: position resolves anchors,
// background sizes backing boxes and layout arranges multi-item content.
package overlay

import (
	"context"

	"github.com/matzehuels/chartoverlay/pkg/frame"
	"github.com/matzehuels/chartoverlay/pkg/render/canvas"
	"github.com/matzehuels/chartoverlay/pkg/render/svg"
)

// Overlay is the metadata every overlay exposes to its host.
type Overlay interface {
	// Layer is the draw target; background-layer overlays paint first.
	Layer() frame.Layer
	// Triggers are the event categories that should redraw the overlay.
	Triggers() frame.Triggers
}

// Layers gives access to one canvas per draw target.
type Layers interface {
	Layer(l frame.Layer) canvas.Canvas
}

// Drawer paints into a canvas.
type Drawer interface {
	Overlay
	Draw(ctx context.Context, layers Layers, f *frame.Frame) error
}

// Renderer describes itself as SVG elements. Render has no side effects
// beyond logging through the context logger.
type Renderer interface {
	Overlay
	Render(ctx context.Context, f *frame.Frame) (svg.Element, error)
}
