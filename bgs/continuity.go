/*
DESCRIPTION
  continuity.go provides ContinuityTracker, which wraps an Engine to keep
  pixels that drift slowly, for example under changing light, classified as
  background. For each pixel it remembers the last mode and sample confirmed
  as background; while that mode is unchanged, a new sample close to the
  remembered sample matches it regardless of the ordinary distance test.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package bgs

import "math"

// ContinuityTracker decorates an Engine with gradual change continuity.
// Pixels are addressed by index; distinct pixels may be updated
// concurrently.
type ContinuityTracker struct {
	eng     *Engine
	cgc     float64
	modes   []Mode
	samples []Sample
}

// NewContinuityTracker returns a tracker for n pixels around eng. A sample
// continues the remembered background when its distance to the remembered
// sample is below cgc standard deviations of the remembered mode.
func NewContinuityTracker(eng *Engine, n int, cgc float64) *ContinuityTracker {
	return &ContinuityTracker{
		eng:     eng,
		cgc:     cgc,
		modes:   make([]Mode, n),
		samples: make([]Sample, n),
	}
}

// Update updates pixel i, whose mixture is px, with sample s.
func (t *ContinuityTracker) Update(i int, px *PixelModel, s *Sample) Result {
	prev := &t.modes[i]
	prevSample := &t.samples[i]

	// A zero remembered mode never equals a live mode, whose variance is at
	// least minVariance, so pixels without history skip the check.
	r := t.eng.update(px, s, func(m *Mode) bool {
		if !m.sameAs(prev) {
			return false
		}
		return math.Sqrt(dist2(s, prevSample)) < t.cgc*math.Sqrt(m.Variance)
	})

	if r.Matched && r.Low {
		t.modes[i] = r.Mode
		t.samples[i] = *s
	}
	return r
}

// Remembered returns the mode and sample remembered for pixel i.
func (t *ContinuityTracker) Remembered(i int) (Mode, Sample) {
	return t.modes[i], t.samples[i]
}
