/*
DESCRIPTION
  difference.go provides FrameDifference, a background model that compares
  each pixel with a reference frame. The reference is the first frame and is
  then refreshed by Update at background pixels only.

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

	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"
)

// FrameDifference is a difference method background model. A pixel is
// foreground when the squared distance between it and the reference frame
// exceeds the threshold; Alpha, modes and variance parameters are unused.
type FrameDifference struct {
	log      logging.Logger
	low      float64
	high     float64
	workers  int
	channels int
	ref      [][]Sample
	bounds   image.Rectangle
	bg       *canvas
}

// NewFrameDifference returns a new FrameDifference using the thresholds
// of p, which are squared distances in intensity units.
func NewFrameDifference(l logging.Logger, p Params) (*FrameDifference, error) {
	if p.LowThreshold <= 0 || p.HighThreshold < p.LowThreshold {
		return nil, errors.Wrapf(ErrInvalidParams, "thresholds %v, %v", p.LowThreshold, p.HighThreshold)
	}
	if p.Workers < 0 {
		return nil, errors.Wrapf(ErrInvalidParams, "workers %d negative", p.Workers)
	}
	return &FrameDifference{
		log:     l,
		low:     p.LowThreshold,
		high:    p.HighThreshold,
		workers: workerCount(p.Workers),
	}, nil
}

// Initialize sets img as the reference frame.
func (fd *FrameDifference) Initialize(img image.Image) error {
	ch, err := Channels(img)
	if err != nil {
		return err
	}
	b := img.Bounds()
	if b.Empty() {
		return errors.Wrap(ErrUnsupportedFormat, "empty image")
	}
	fd.channels = ch
	fd.bounds = b
	fd.bg = newCanvas(b, ch)
	fd.ref = make([][]Sample, b.Dy())
	read := newSampler(img)
	for j := range fd.ref {
		fd.ref[j] = make([]Sample, b.Dx())
		for i := range fd.ref[j] {
			read(b.Min.X+i, b.Min.Y+j, &fd.ref[j][i])
			fd.bg.set(b.Min.X+i, b.Min.Y+j, &fd.ref[j][i])
		}
	}
	fd.log.Info("initialised reference frame", "width", b.Dx(), "height", b.Dy(), "channels", ch)
	return nil
}

// Subtract classifies img against the reference frame.
func (fd *FrameDifference) Subtract(img image.Image) (*image.Gray, *image.Gray, error) {
	if fd.ref == nil {
		if err := fd.Initialize(img); err != nil {
			return nil, nil, err
		}
	}
	if err := fd.check(img); err != nil {
		return nil, nil, err
	}

	b := img.Bounds()
	low, high := masks(b)
	read := newSampler(img)
	rows(b.Dy(), fd.workers, func(y0, y1 int) {
		var s Sample
		for j := y0; j < y1; j++ {
			for i := range fd.ref[j] {
				read(b.Min.X+i, b.Min.Y+j, &s)
				d := dist2(&s, &fd.ref[j][i])
				o := low.PixOffset(b.Min.X+i, b.Min.Y+j)
				low.Pix[o] = label(d <= fd.low)
				high.Pix[o] = label(d <= fd.high)
			}
		}
	})
	return low, high, nil
}

// Update copies img into the reference frame at pixels that are Background
// in mask.
func (fd *FrameDifference) Update(img image.Image, mask *image.Gray) error {
	if fd.ref == nil {
		return errors.New("frame difference not initialised")
	}
	if err := fd.check(img); err != nil {
		return err
	}
	b := img.Bounds()
	if mask == nil || mask.Bounds().Dx() != b.Dx() || mask.Bounds().Dy() != b.Dy() {
		return errors.Wrap(ErrFrameSize, "mask does not match frame")
	}
	mb := mask.Bounds()
	read := newSampler(img)
	for j := range fd.ref {
		for i := range fd.ref[j] {
			if mask.Pix[mask.PixOffset(mb.Min.X+i, mb.Min.Y+j)] != Background {
				continue
			}
			read(b.Min.X+i, b.Min.Y+j, &fd.ref[j][i])
			fd.bg.set(fd.bounds.Min.X+i, fd.bounds.Min.Y+j, &fd.ref[j][i])
		}
	}
	return nil
}

// Background returns the reference frame.
func (fd *FrameDifference) Background() image.Image {
	if fd.bg == nil {
		return nil
	}
	return fd.bg.img
}

func (fd *FrameDifference) check(img image.Image) error {
	ch, err := Channels(img)
	if err != nil {
		return err
	}
	if ch != fd.channels {
		return errors.Wrapf(ErrUnsupportedFormat, "frame has %d channels, reference has %d", ch, fd.channels)
	}
	b := img.Bounds()
	if b.Dx() != len(fd.ref[0]) || b.Dy() != len(fd.ref) {
		return errors.Wrapf(ErrFrameSize, "frame is %dx%d, reference is %dx%d", b.Dx(), b.Dy(), len(fd.ref[0]), len(fd.ref))
	}
	return nil
}
