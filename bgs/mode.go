/*
DESCRIPTION
  mode.go provides Mode, a single Gaussian component of a pixel's mixture.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package bgs

import "math"

// Sample holds one pixel observation. Single channel frames use only the
// first element; the others stay zero, so distances are unaffected.
type Sample [3]float64

// Mode is one Gaussian component of a pixel mixture. The covariance is
// isotropic: a single variance is shared by all channels.
type Mode struct {
	Weight   float64
	Mean     Sample
	Variance float64

	sig float64 // Weight / sqrt(Variance).
}

// Significance returns the mode's weight divided by its standard deviation,
// the key modes are ranked by.
func (m *Mode) Significance() float64 { return m.sig }

// refresh recomputes the significance after a weight or variance change.
func (m *Mode) refresh() {
	if m.Variance <= 0 {
		m.sig = 0
		return
	}
	m.sig = m.Weight / math.Sqrt(m.Variance)
}

// sameAs reports whether m and o have identical means and variances.
func (m *Mode) sameAs(o *Mode) bool {
	return m.Variance == o.Variance && m.Mean == o.Mean
}

// dist2 returns the squared euclidean distance between a and b.
func dist2(a, b *Sample) float64 {
	d0 := a[0] - b[0]
	d1 := a[1] - b[1]
	d2 := a[2] - b[2]
	return d0*d0 + d1*d1 + d2*d2
}
