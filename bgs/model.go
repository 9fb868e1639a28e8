/*
DESCRIPTION
  model.go provides PixelModel, the bounded ordered set of modes of one pixel,
  and Model, the mixture state of a whole frame.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package bgs

import (
	"math"

	"github.com/pkg/errors"
)

// PixelModel is the mixture of one pixel. Modes has a fixed length equal to
// the mode capacity; only Modes[:Used] are live, kept in descending
// significance order after every update.
type PixelModel struct {
	Modes []Mode
	Used  int
}

// Live returns the live modes of p.
func (p *PixelModel) Live() []Mode { return p.Modes[:p.Used] }

// Model is the background model of a frame: one PixelModel per pixel in
// row-major order. The modes of all pixels share one backing array sized at
// construction.
type Model struct {
	Width    int
	Height   int
	Channels int
	MaxModes int
	Pixels   []PixelModel
}

// NewModel returns a model for a w by h frame with the given channel count,
// each pixel having room for maxModes modes and none in use.
func NewModel(w, h, channels, maxModes int) *Model {
	m := &Model{Width: w, Height: h, Channels: channels, MaxModes: maxModes}
	m.alloc()
	return m
}

func (m *Model) alloc() {
	n := m.Width * m.Height
	arena := make([]Mode, n*m.MaxModes)
	m.Pixels = make([]PixelModel, n)
	for i := range m.Pixels {
		m.Pixels[i].Modes = arena[i*m.MaxModes : (i+1)*m.MaxModes : (i+1)*m.MaxModes]
	}
}

// At returns the pixel model at column x, row y.
func (m *Model) At(x, y int) *PixelModel { return &m.Pixels[y*m.Width+x] }

// Clone returns a deep copy of m.
func (m *Model) Clone() *Model {
	c := &Model{Width: m.Width, Height: m.Height, Channels: m.Channels, MaxModes: m.MaxModes}
	c.alloc()
	for i := range m.Pixels {
		copy(c.Pixels[i].Modes, m.Pixels[i].Modes)
		c.Pixels[i].Used = m.Pixels[i].Used
	}
	return c
}

// Check verifies that m is a consistent model with capacity maxModes: its
// dimensions and channel count are usable, every live mode has a positive
// weight and a variance within bounds for initVar, and the live weights of
// each pixel sum to one.
func (m *Model) Check(maxModes int, initVar float64) error {
	const tol = 1e-5
	if m.MaxModes != maxModes {
		return errors.Errorf("model has %d modes per pixel, want %d", m.MaxModes, maxModes)
	}
	if m.Channels != 1 && m.Channels != 3 {
		return errors.Wrapf(ErrUnsupportedFormat, "model has %d channels", m.Channels)
	}
	if m.Width <= 0 || m.Height <= 0 || len(m.Pixels) != m.Width*m.Height {
		return errors.Errorf("model dimensions %dx%d do not match %d pixels", m.Width, m.Height, len(m.Pixels))
	}
	for i := range m.Pixels {
		p := &m.Pixels[i]
		if len(p.Modes) != maxModes || p.Used < 0 || p.Used > maxModes {
			return errors.Errorf("pixel %d has %d of %d modes in use", i, p.Used, len(p.Modes))
		}
		var sum float64
		for j := range p.Live() {
			md := &p.Modes[j]
			if md.Weight <= 0 || md.Variance < minVariance || md.Variance > maxVarianceFactor*initVar {
				return errors.Errorf("pixel %d mode %d out of range: weight %v variance %v", i, j, md.Weight, md.Variance)
			}
			sum += md.Weight
		}
		if p.Used > 0 && math.Abs(sum-1) > tol {
			return errors.Errorf("pixel %d weights sum to %v", i, sum)
		}
	}
	return nil
}

// refresh recomputes the significance of every live mode, for models
// produced outside this package.
func (m *Model) refresh() {
	for i := range m.Pixels {
		live := m.Pixels[i].Live()
		for j := range live {
			live[j].refresh()
		}
	}
}
