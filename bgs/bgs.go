/*
DESCRIPTION
  bgs.go defines the contract shared by every background subtraction
  algorithm in this package, the two mask values and the errors reported
  for input that cannot be modelled.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package bgs provides per-pixel background subtraction for video frames.
//
// The main algorithm family is an online Gaussian mixture: every pixel keeps
// a small, significance-ordered set of Gaussian modes that is updated once
// per frame, and each frame is classified against that mixture under a low
// and a high threshold. Grimson, Poppe (gradual change continuity) and
// Zivkovic (complexity prior) variants share one engine. A simple frame
// differencing algorithm implements the same contract.
package bgs

import (
	"image"
	"strings"

	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"
)

// Mask values. Every pixel of a mask returned by Subtract holds exactly one
// of these.
const (
	Background uint8 = 0
	Foreground uint8 = 255
)

// Errors returned by algorithms. They may be wrapped with context, so check
// them with errors.Is.
var (
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrFrameSize         = errors.New("frame size does not match model")
	ErrInvalidParams     = errors.New("invalid parameters")
)

// Algorithm is the lifecycle shared by all background models.
type Algorithm interface {
	// Initialize sizes the model from the first frame. It is called by
	// Subtract on the first frame if it has not been called already.
	Initialize(img image.Image) error

	// Subtract classifies img against the background model, returning a low
	// and a high threshold mask with the bounds of img. Algorithms that
	// learn online also update their model here.
	Subtract(img image.Image) (low, high *image.Gray, err error)

	// Update folds img into the model at pixels that are Background in mask.
	Update(img image.Image, mask *image.Gray) error

	// Background returns the current background estimate, or nil before the
	// first frame. The returned image is owned by the algorithm.
	Background() image.Image
}

// Kind identifies an algorithm implementation.
type Kind uint8

// Algorithm kinds.
const (
	KindNone Kind = iota
	KindGrimson
	KindPoppe
	KindZivkovic
	KindDifference
)

var kindNames = map[Kind]string{
	KindGrimson:    "grimson",
	KindPoppe:      "poppe",
	KindZivkovic:   "zivkovic",
	KindDifference: "diff",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "none"
}

// ParseKind returns the Kind named by s, ignoring case.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(s)
	for k, n := range kindNames {
		if n == s {
			return k, nil
		}
	}
	return KindNone, errors.Errorf("unknown algorithm %q", s)
}

// New returns a new algorithm of kind k using parameters p.
func New(l logging.Logger, k Kind, p Params) (Algorithm, error) {
	switch k {
	case KindGrimson:
		return NewGrimson(l, p)
	case KindPoppe:
		return NewPoppe(l, p)
	case KindZivkovic:
		return NewZivkovic(l, p)
	case KindDifference:
		return NewFrameDifference(l, p)
	default:
		return nil, errors.Errorf("no algorithm for kind %d", k)
	}
}
