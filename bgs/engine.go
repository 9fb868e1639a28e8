/*
DESCRIPTION
  engine.go provides Engine, the online match-or-create estimator shared by
  the Gaussian mixture algorithms. Each call updates one pixel's mixture with
  one sample and classifies the sample under the low and high thresholds.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package bgs

import (
	"cmp"
	"slices"
)

// Result is the outcome of one pixel update.
type Result struct {
	Low     bool // Background under the low threshold.
	High    bool // Background under the high threshold.
	Matched bool // An existing mode matched the sample.

	// Mode is the matched mode as it was after its update. It is only
	// meaningful when Matched is true.
	Mode Mode
}

// Engine updates pixel mixtures. An Engine holds only immutable parameters
// and may be shared by goroutines working on different pixels.
type Engine struct {
	alpha   float64
	oneMinA float64
	prior   float64 // Alpha * ComplexityPrior.
	low     float64
	high    float64
	bgProp  float64
	initVar float64
	maxVar  float64
}

// NewEngine returns an Engine using p. p is assumed to be valid.
func NewEngine(p Params) *Engine {
	return &Engine{
		alpha:   p.Alpha,
		oneMinA: 1 - p.Alpha,
		prior:   p.Alpha * p.ComplexityPrior,
		low:     p.LowThreshold,
		high:    p.HighThreshold,
		bgProp:  p.BackgroundProportion,
		initVar: p.InitialVariance,
		maxVar:  maxVarianceFactor * p.InitialVariance,
	}
}

// Update runs one update of px with sample s.
func (e *Engine) Update(px *PixelModel, s *Sample) Result {
	return e.update(px, s, nil)
}

// update runs one update of px with sample s. If pre is not nil it is
// consulted for each mode, before the distance test, while no match has been
// found; a true return matches that mode and makes the sample background
// under both thresholds.
func (e *Engine) update(px *PixelModel, s *Sample, pre func(m *Mode) bool) Result {
	var r Result
	seed := px.Used == 0
	nbg := e.backgroundModes(px)

	live := px.Live()
	vacated := 0
	for i := range live {
		m := &live[i]
		if !r.Matched {
			if pre != nil && pre(m) {
				r.Matched, r.Low, r.High = true, true, true
				e.fit(m, s, dist2(s, &m.Mean))
				r.Mode = *m
				continue
			}

			d := dist2(s, &m.Mean)
			if i < nbg && d < e.high*m.Variance {
				r.High = true
			}
			if d < e.low*m.Variance {
				r.Matched = true
				r.Low = i < nbg
				e.fit(m, s, d)
				r.Mode = *m
				continue
			}
		}
		if e.decay(m) {
			vacated++
		}
	}

	normalize(live)
	sortModes(live)
	px.Used -= vacated

	if !r.Matched {
		// Append while there is room, otherwise replace the weakest mode.
		if px.Used < len(px.Modes) {
			px.Used++
		}
		m := &px.Modes[px.Used-1]
		*m = Mode{Weight: e.alpha, Mean: *s, Variance: e.initVar}
		if px.Used == 1 {
			m.Weight = 1
		}
		live = px.Live()
		normalize(live)
		sortModes(live)
	}

	// A pixel without modes has nothing to contradict its first sample.
	if seed {
		r.Low, r.High = true, true
	}
	return r
}

// backgroundModes returns the number of leading modes of px whose
// cumulative weight first reaches the background proportion.
func (e *Engine) backgroundModes(px *PixelModel) int {
	var (
		n   int
		sum float64
	)
	for ; n < px.Used && sum < e.bgProp; n++ {
		sum += px.Modes[n].Weight
	}
	return n
}

// fit moves m towards sample s, which is at squared distance d from its mean.
func (e *Engine) fit(m *Mode, s *Sample, d float64) {
	k := e.alpha / m.Weight
	m.Weight = e.oneMinA*m.Weight + e.alpha - e.prior
	for c := range m.Mean {
		m.Mean[c] += k * (s[c] - m.Mean[c])
	}
	v := m.Variance + k*(d-m.Variance)
	switch {
	case v < minVariance:
		v = minVariance
	case v > e.maxVar:
		v = e.maxVar
	}
	m.Variance = v
	m.refresh()
}

// decay reduces the weight of an unmatched mode, reporting whether the mode
// has been vacated.
func (e *Engine) decay(m *Mode) bool {
	m.Weight = e.oneMinA*m.Weight - e.prior
	if m.Weight <= 0 {
		m.Weight = 0
		m.refresh()
		return true
	}
	m.refresh()
	return false
}

// normalize scales the weights of modes to sum to one and refreshes their
// significance. Modes with zero weight stay at zero.
func normalize(modes []Mode) {
	var total float64
	for i := range modes {
		total += modes[i].Weight
	}
	if total <= 0 {
		return
	}
	inv := 1 / total
	for i := range modes {
		modes[i].Weight *= inv
		modes[i].refresh()
	}
}

// sortModes orders modes by descending significance. Equal significance
// keeps the prior order, so vacated modes, with zero significance, collect
// at the end.
func sortModes(modes []Mode) {
	slices.SortStableFunc(modes, func(a, b Mode) int {
		return cmp.Compare(b.sig, a.sig)
	})
}
