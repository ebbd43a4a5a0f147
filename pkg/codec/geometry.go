// Package codec implements the decode-side control logic of the
// pipeline: geometry reconciliation, decoder instance lifecycle, and
// bounded packet resubmission.
//
// Most of the involved logic is sizing. Four width/height pairs matter:
// the geometry the decoder instance was created for, the output geometry
// it was created to scale to, the geometry the stream actually carries,
// and the geometry the caller wants right now. Upstream and downstream
// resizes make any of them drift, and a frame or more of pipeline
// latency means a resize shows up in the request before it shows up in
// the stream.
package codec

// Dimensions is a width/height pair in pixels. The zero value means the
// geometry is not yet known.
type Dimensions struct {
	Width  int
	Height int
}

// Known reports whether the dimensions have been observed.
func (d Dimensions) Known() bool { return d.Width != 0 && d.Height != 0 }

// SizeState tracks the geometry pairs a decode call must reconcile. The
// caller's current request is not stored; it is an argument to every
// decode call and is the authority for TargetConfigured.
type SizeState struct {
	// InputConfigured is the source geometry the decoder instance was
	// created with. Set only at (re)creation.
	InputConfigured Dimensions

	// TargetConfigured is the output geometry the decoder instance
	// scales to. Updated only after the RGB buffer matching it exists,
	// so the two are never out of step.
	TargetConfigured Dimensions

	// InputObserved is the geometry of the most recently decoded
	// picture, as reported by the picture-decoded callback. Zero until
	// the engine surfaces a picture for the current packet.
	InputObserved Dimensions
}

// ReconcileOutcome is the result of comparing the geometry pairs after a
// packet submission.
type ReconcileOutcome int

const (
	// ReconcilePending means the engine has not surfaced geometry for
	// the current packet yet.
	ReconcilePending ReconcileOutcome = iota

	// ReconcileResize means at least one geometry pair drifted and the
	// decoder instance must be recreated.
	ReconcileResize

	// ReconcileStable means all pairs agree and the decoded picture can
	// be delivered.
	ReconcileStable
)

// Reconcile compares the observed stream geometry against the configured
// input geometry and the requested output geometry against the
// configured target geometry. Four independent values can drift, but
// they collapse to three outcomes: wait for geometry, recreate the
// decoder, or deliver.
func (s *SizeState) Reconcile(requested Dimensions) ReconcileOutcome {
	if !s.InputObserved.Known() {
		return ReconcilePending
	}
	if s.InputObserved != s.InputConfigured || requested != s.TargetConfigured {
		return ReconcileResize
	}
	return ReconcileStable
}

// ResetObserved marks the stream geometry unknown ahead of the next
// packet submission.
func (s *SizeState) ResetObserved() { s.InputObserved = Dimensions{} }
