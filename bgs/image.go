/*
DESCRIPTION
  image.go provides the frame format checks and pixel access used by the
  algorithms. Frames must be 8-bit with one (grey) or three (colour)
  channels; alpha is ignored.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package bgs

import (
	"image"
	"image/color"
	"math"

	"github.com/pkg/errors"
)

// Channels returns the number of colour channels of img, or an error
// wrapping ErrUnsupportedFormat if img is not an 8-bit grey or colour image.
func Channels(img image.Image) (int, error) {
	switch img.(type) {
	case *image.Gray:
		return 1, nil
	case *image.RGBA, *image.NRGBA, *image.YCbCr:
		return 3, nil
	case *image.Gray16, *image.RGBA64, *image.NRGBA64:
		return 0, errors.Wrapf(ErrUnsupportedFormat, "%T has 16-bit depth", img)
	case nil:
		return 0, errors.Wrap(ErrUnsupportedFormat, "nil image")
	default:
		return 0, errors.Wrapf(ErrUnsupportedFormat, "%T", img)
	}
}

// sampler reads the pixel at absolute coordinates (x, y) into s.
type sampler func(x, y int, s *Sample)

// newSampler returns a sampler for img, which must have passed Channels.
func newSampler(img image.Image) sampler {
	switch im := img.(type) {
	case *image.Gray:
		return func(x, y int, s *Sample) {
			s[0] = float64(im.Pix[im.PixOffset(x, y)])
		}
	case *image.RGBA:
		return func(x, y int, s *Sample) {
			o := im.PixOffset(x, y)
			s[0], s[1], s[2] = float64(im.Pix[o]), float64(im.Pix[o+1]), float64(im.Pix[o+2])
		}
	case *image.NRGBA:
		return func(x, y int, s *Sample) {
			o := im.PixOffset(x, y)
			s[0], s[1], s[2] = float64(im.Pix[o]), float64(im.Pix[o+1]), float64(im.Pix[o+2])
		}
	case *image.YCbCr:
		return func(x, y int, s *Sample) {
			yy := im.Y[im.YOffset(x, y)]
			co := im.COffset(x, y)
			r, g, b := color.YCbCrToRGB(yy, im.Cb[co], im.Cr[co])
			s[0], s[1], s[2] = float64(r), float64(g), float64(b)
		}
	}
	panic("bgs: sampler for unchecked image type")
}

// canvas is a frame-sized 8-bit image that samples can be written to.
type canvas struct {
	img  image.Image
	gray *image.Gray
	rgba *image.RGBA
}

// newCanvas returns a canvas with bounds r and the given channel count.
func newCanvas(r image.Rectangle, channels int) *canvas {
	if channels == 1 {
		g := image.NewGray(r)
		return &canvas{img: g, gray: g}
	}
	c := image.NewRGBA(r)
	return &canvas{img: c, rgba: c}
}

// set writes s to the pixel at absolute coordinates (x, y).
func (c *canvas) set(x, y int, s *Sample) {
	if c.gray != nil {
		c.gray.Pix[c.gray.PixOffset(x, y)] = clamp8(s[0])
		return
	}
	o := c.rgba.PixOffset(x, y)
	c.rgba.Pix[o] = clamp8(s[0])
	c.rgba.Pix[o+1] = clamp8(s[1])
	c.rgba.Pix[o+2] = clamp8(s[2])
	c.rgba.Pix[o+3] = 0xff
}

func clamp8(v float64) uint8 {
	switch {
	case v <= 0 || math.IsNaN(v):
		return 0
	case v >= 255:
		return 255
	}
	return uint8(math.Round(v))
}

// masks returns a pair of masks with bounds r.
func masks(r image.Rectangle) (low, high *image.Gray) {
	return image.NewGray(r), image.NewGray(r)
}

// label returns the mask value for a background decision.
func label(background bool) uint8 {
	if background {
		return Background
	}
	return Foreground
}
