/*
DESCRIPTION
  params.go provides the immutable parameter set used to construct the
  background models, the defaults for each algorithm and validation.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package bgs

import (
	"github.com/pkg/errors"
)

// Variance bounds. A mode's variance is kept within
// [minVariance, maxVarianceFactor*InitialVariance].
const (
	minVariance       = 4
	maxVarianceFactor = 5
)

// maxModesLimit is the largest mode capacity a pixel may have.
const maxModesLimit = 255

// Default parameter values.
const (
	defaultAlpha                = 0.001
	defaultMaxModes             = 3
	defaultBackgroundProportion = 0.75
	defaultInitialVariance      = 36
	defaultGrimsonLow           = 9
	defaultPoppeLow             = 65
	defaultZivkovicLow          = 5 * 5
	defaultCGC                  = 1.8
	defaultComplexityPrior      = 0.05
	defaultDifferenceLow        = 3 * 30 * 30
)

// Params holds the parameters of a background model. A Params value is
// copied into the algorithm at construction and never re-read.
type Params struct {
	// Alpha is the learning rate. To average over roughly T frames use 1/T.
	Alpha float64

	// MaxModes is the number of Gaussian modes each pixel may hold.
	MaxModes int

	// LowThreshold and HighThreshold are squared distance factors in units
	// of a mode's variance. A sample matches a mode when its squared distance
	// to the mode's mean is below LowThreshold times the variance. The high
	// threshold gives the more permissive mask.
	LowThreshold  float64
	HighThreshold float64

	// BackgroundProportion is the cumulative weight that the most significant
	// modes must reach to explain the background.
	BackgroundProportion float64

	// InitialVariance is the variance given to newly created modes. It also
	// sets the upper variance bound.
	InitialVariance float64

	// CGC is the consistent gradual change factor used by the continuity
	// tracker, in standard deviations.
	CGC float64

	// ComplexityPrior is subtracted, scaled by Alpha, from every weight on
	// each update so that unsupported modes are discarded.
	ComplexityPrior float64

	// Workers is the number of goroutines sharing the pixel loop. Zero uses
	// one per CPU.
	Workers int
}

// DefaultParams returns the default parameters for algorithm kind k.
func DefaultParams(k Kind) Params {
	p := Params{
		Alpha:                defaultAlpha,
		MaxModes:             defaultMaxModes,
		BackgroundProportion: defaultBackgroundProportion,
		InitialVariance:      defaultInitialVariance,
	}
	switch k {
	case KindPoppe:
		p.LowThreshold = defaultPoppeLow
		p.CGC = defaultCGC
	case KindZivkovic:
		p.LowThreshold = defaultZivkovicLow
		p.ComplexityPrior = defaultComplexityPrior
	case KindDifference:
		p.LowThreshold = defaultDifferenceLow
	default:
		p.LowThreshold = defaultGrimsonLow
	}
	p.HighThreshold = 2 * p.LowThreshold
	return p
}

// Validate returns an error wrapping ErrInvalidParams if any field of p is
// out of range.
func (p Params) Validate() error {
	switch {
	case p.Alpha <= 0 || p.Alpha > 1:
		return errors.Wrapf(ErrInvalidParams, "alpha %v not in (0, 1]", p.Alpha)
	case p.MaxModes < 1 || p.MaxModes > maxModesLimit:
		return errors.Wrapf(ErrInvalidParams, "max modes %d not in [1, %d]", p.MaxModes, maxModesLimit)
	case p.LowThreshold <= 0:
		return errors.Wrapf(ErrInvalidParams, "low threshold %v not positive", p.LowThreshold)
	case p.HighThreshold < p.LowThreshold:
		return errors.Wrapf(ErrInvalidParams, "high threshold %v below low threshold %v", p.HighThreshold, p.LowThreshold)
	case p.BackgroundProportion <= 0 || p.BackgroundProportion > 1:
		return errors.Wrapf(ErrInvalidParams, "background proportion %v not in (0, 1]", p.BackgroundProportion)
	case p.InitialVariance < minVariance:
		return errors.Wrapf(ErrInvalidParams, "initial variance %v below %d", p.InitialVariance, minVariance)
	case p.CGC < 0:
		return errors.Wrapf(ErrInvalidParams, "cgc %v negative", p.CGC)
	case p.ComplexityPrior < 0 || p.ComplexityPrior >= 1:
		return errors.Wrapf(ErrInvalidParams, "complexity prior %v not in [0, 1)", p.ComplexityPrior)
	case p.Workers < 0:
		return errors.Wrapf(ErrInvalidParams, "workers %d negative", p.Workers)
	}
	return nil
}
