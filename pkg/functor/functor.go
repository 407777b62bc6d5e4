// Package functor normalizes "value or derivation function" properties.
//
// Nearly every overlay property (position, text, colour, origin) may be given
// either as a constant or as a function of the current frame. [Value] holds
// one of the two and [Value.Resolve] turns it into a concrete result, so the
// rest of the code never branches on which shape the caller supplied:
//
//	fill := functor.Of("#FFD700")
//	text := functor.Func(func(d *frame.Datum) string { return d.Time.Format("Jan 2") })
//
//	fill.Resolve(d) // "#FFD700"
//	text.Resolve(d) // "Mar 4"
//
// Resolution is referentially transparent: a function value is only ever
// called with the supplied context and its result returned unchanged.
package functor

// Value is either a literal T or a function from a context C to T.
// The zero Value is unset and resolves to the zero T.
type Value[C, T any] struct {
	lit T
	fn  func(C) T
	set bool
}

// Of wraps a literal value.
func Of[C, T any](v T) Value[C, T] {
	return Value[C, T]{lit: v, set: true}
}

// Func wraps a derivation function. A nil fn yields an unset Value.
func Func[C, T any](fn func(C) T) Value[C, T] {
	if fn == nil {
		return Value[C, T]{}
	}
	return Value[C, T]{fn: fn, set: true}
}

// Resolve returns the literal, or the result of calling the function with ctx.
func (v Value[C, T]) Resolve(ctx C) T {
	if v.fn != nil {
		return v.fn(ctx)
	}
	return v.lit
}

// IsSet reports whether a literal or function was supplied.
func (v Value[C, T]) IsSet() bool { return v.set }

// IsFunc reports whether the value derives its result from the context.
func (v Value[C, T]) IsFunc() bool { return v.fn != nil }

// Resolve is the free-function form of [Value.Resolve].
func Resolve[C, T any](v Value[C, T], ctx C) T {
	return v.Resolve(ctx)
}

// OrElse returns v when it is set and fallback otherwise.
func OrElse[C, T any](v, fallback Value[C, T]) Value[C, T] {
	if v.set {
		return v
	}
	return fallback
}

// Map derives a new Value by applying fn to the resolved result.
// Literals stay literals so Map never turns a constant into a function.
func Map[C, T, U any](v Value[C, T], fn func(T) U) Value[C, U] {
	if !v.set {
		return Value[C, U]{}
	}
	if v.fn == nil {
		return Of[C](fn(v.lit))
	}
	inner := v.fn
	return Func(func(ctx C) U { return fn(inner(ctx)) })
}
