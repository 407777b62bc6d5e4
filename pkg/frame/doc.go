// Package frame defines the per-redraw rendering context consumed by overlays.
//
// A [Frame] is built fresh by the host for every redraw and handed to each
// overlay read-only. It bundles the horizontal and vertical scales, the
// horizontal accessor, the datum an annotation is bound to, the full plot
// data, the container size, the device pixel ratio and the margin insets.
// Overlays never retain a Frame across redraws.
//
// The package also carries the small value types shared by the overlay
// engine: [Point] (anchors and offsets), [Size], [Margin], [Align], the
// draw target [Layer] and the redraw [Trigger] categories.
package frame
