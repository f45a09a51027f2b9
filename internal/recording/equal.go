package recording

import "slices"

// Equal reports whether two recordings hold the same data field for field.
// Nil and empty slices compare equal.
func (r *Recording) Equal(o *Recording) bool {
	if r == nil || o == nil {
		return r == o
	}
	if r.Name != o.Name || r.FPS != o.FPS {
		return false
	}
	if !slices.Equal(r.ActorIDs, o.ActorIDs) ||
		!slices.Equal(r.ActorNames, o.ActorNames) ||
		!slices.Equal(r.ActorRepresentations, o.ActorRepresentations) ||
		!slices.Equal(r.Events, o.Events) {
		return false
	}
	return slices.EqualFunc(r.Frames, o.Frames, Frame.Equal)
}

// Equal reports whether two frames hold the same samples.
func (f Frame) Equal(o Frame) bool {
	return f.Timestamp == o.Timestamp &&
		slices.Equal(f.ActorIDs, o.ActorIDs) &&
		slices.Equal(f.Positions, o.Positions) &&
		slices.Equal(f.Rotations, o.Rotations)
}
