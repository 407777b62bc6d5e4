// Package pkg provides the libraries behind chartoverlay, an engine that
// positions annotations and tooltips over chart frames.
//
// # Overview
//
// A chart host redraws on pan, zoom and pointer movement. On every redraw
// each overlay is handed a [frame.Frame] (scales, accessors, the hovered
// datum, plot size, pixel ratio and margins), resolves its anchor, sizes
// its background box, lays out its items and paints. The packages split
// that work as follows:
//
//  1. [functor] - values that are either literals or functions of a context
//  2. [frame] - the per-redraw rendering context and its small value types
//  3. [overlay/position], [overlay/background], [overlay/layout] - the
//     anchor, background-box and multi-item layout calculators
//  4. [annotate] and [tooltip] - the overlays themselves, drawing onto a
//     [render/canvas] or returning a [render/svg] element tree
//  5. [scene] - a host: TOML scene files, paint ordering, frame documents
//
// # Data Flow
//
//	scene.toml
//	     ↓
//	[scene.Load] → [scene.Build] (overlays in declaration order)
//	     ↓
//	[scene.Config.Frame] (hovered item → frame.Frame)
//	     ↓
//	[scene.Scene.Paint] onto canvas layers, or [scene.Scene.Document] as SVG
//
// # Quick Start
//
//	cfg, err := scene.Load("acme.toml")
//	if err != nil {
//	    return err
//	}
//	sc, err := scene.Build(cfg)
//	if err != nil {
//	    return err
//	}
//	f, err := cfg.Frame(3)
//	if err != nil {
//	    return err
//	}
//	doc, err := sc.Document(ctx, f, cfg.Title, cfg.Backdrop)
//	if err != nil {
//	    return err
//	}
//	return svg.Encode(os.Stdout, doc)
//
// # Infrastructure
//
// [cache] stores rendered frames (file, Redis, null), [observability]
// exposes frame, cache and server hooks, [errors] defines the coded errors
// every package returns, and [buildinfo] carries the linked version.
package pkg
