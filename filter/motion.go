/*
DESCRIPTION
  A filter that detects motion and discards frames without motion. Motion is
  found by a background subtraction algorithm run over sampled frames; a
  frame moves when enough of its pixels are foreground.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package filter

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"

	"golang.org/x/image/draw"
	"gonum.org/v1/gonum/stat"

	"github.com/ausocean/bgs/bgs"
	"github.com/ausocean/bgs/config"
	"github.com/ausocean/utils/logging"
)

const (
	defaultMotionDownscaling = 1
	defaultMotionInterval    = 1
	defaultMotionPixels      = 1000
)

// Motion is a filter that performs motion detection using a supplied
// background subtraction algorithm.
type Motion struct {
	log       logging.Logger
	dst       io.WriteCloser // Destination to which motion containing frames go.
	algorithm bgs.Algorithm  // Algorithm to use for motion detection.
	scale     int            // The factor that frames will be downscaled by for motion detection.
	sample    uint           // Interval that motion detection is performed at.
	padding   uint           // The amount of frames before and after motion that will be kept.
	pix       uint           // Foreground pixels needed for motion.
	debugging debugWindows

	t    uint // Frame counter.
	send uint // Amount of frames to send.

	frames chan []byte // Delays frames so those before motion can be kept.

	fractions []float64 // Foreground fraction of each sampled frame.
	scaled    draw.Image
}

// NewMotion returns a pointer to a new Motion filter struct.
func NewMotion(dst io.WriteCloser, alg bgs.Algorithm, c config.Config) *Motion {
	// Validate parameters.
	if c.MotionDownscaling <= 0 {
		c.LogInvalidField("MotionDownscaling", defaultMotionDownscaling)
		c.MotionDownscaling = defaultMotionDownscaling
	}
	if c.MotionInterval <= 0 {
		c.LogInvalidField("MotionInterval", defaultMotionInterval)
		c.MotionInterval = defaultMotionInterval
	}
	if c.MotionPixels <= 0 {
		c.LogInvalidField("MotionPixels", defaultMotionPixels)
		c.MotionPixels = defaultMotionPixels
	}

	return &Motion{
		log:       c.Logger,
		dst:       dst,
		algorithm: alg,
		scale:     int(c.MotionDownscaling),
		sample:    c.MotionInterval,
		padding:   c.MotionPadding,
		pix:       c.MotionPixels,
		debugging: newWindows("MOTION"),
		frames:    make(chan []byte, c.MotionPadding+1),
	}
}

// Implements io.Closer.
// Close writes out any held frames that follow motion and frees the debug
// windows. The destination is not closed.
func (m *Motion) Close() error {
	for len(m.frames) > 0 && m.send > 0 {
		m.send--
		if _, err := m.dst.Write(<-m.frames); err != nil {
			return err
		}
	}
	return m.debugging.close()
}

// Write applies the motion filter to the video stream. Only frames with motion
// are written to the destination, frames without are discarded.
func (m *Motion) Write(f []byte) (int, error) {
	// Filter on an interval.
	if m.t == 0 {
		moving, err := m.detect(f)
		if err != nil {
			return 0, err
		}
		if moving {
			m.send = max(m.send, m.sample+2*m.padding)
		}
	}
	m.t = (m.t + 1) % m.sample // Increment counter.

	// Send frames.
	m.frames <- bytes.Clone(f) // Put current frame into buffer.
	if uint(len(m.frames)) <= m.padding {
		return len(f), nil
	}
	toSend := <-m.frames // Get oldest frame out of circular buffer.

	if m.send > 0 {
		m.send--
		if _, err := m.dst.Write(toSend); err != nil {
			return 0, err
		}
	}
	return len(f), nil
}

// detect decodes f, applies the algorithm to it and reports whether it
// holds motion.
func (m *Motion) detect(f []byte) (bool, error) {
	img, err := jpeg.Decode(bytes.NewReader(f))
	if err != nil {
		return false, fmt.Errorf("image can't be decoded: %w", err)
	}
	img = m.downscale(img)

	low, _, err := m.algorithm.Subtract(img)
	if err != nil {
		return false, fmt.Errorf("could not subtract background: %w", err)
	}
	err = m.algorithm.Update(img, low)
	if err != nil {
		return false, fmt.Errorf("could not update background: %w", err)
	}

	var motion uint
	for _, p := range low.Pix {
		if p == bgs.Foreground {
			motion++
		}
	}
	m.fractions = append(m.fractions, float64(motion)/float64(len(low.Pix)))

	// Draw debug information.
	m.debugging.show(img, low, m.algorithm.Background(), motion >= m.pix, fmt.Sprintf("Motion: %d", motion), fmt.Sprintf("Pix: %d", m.pix))

	m.log.Debug("sampled frame", "motion", motion, "threshold", m.pix)
	return motion >= m.pix, nil
}

// downscale returns img reduced in each dimension by the scale factor.
func (m *Motion) downscale(img image.Image) image.Image {
	if m.scale <= 1 {
		return img
	}
	b := img.Bounds()
	r := image.Rect(0, 0, max(b.Dx()/m.scale, 1), max(b.Dy()/m.scale, 1))
	_, gray := img.(*image.Gray)
	_, scaledGray := m.scaled.(*image.Gray)
	if m.scaled == nil || m.scaled.Bounds() != r || gray != scaledGray {
		if gray {
			m.scaled = image.NewGray(r)
		} else {
			m.scaled = image.NewRGBA(r)
		}
	}
	draw.NearestNeighbor.Scale(m.scaled, r, img, b, draw.Src, nil)
	return m.scaled
}

// Fractions returns the foreground fraction of each frame sampled so far.
func (m *Motion) Fractions() []float64 { return m.fractions }

// Stats returns the mean and standard deviation of the foreground fraction
// of the frames sampled so far.
func (m *Motion) Stats() (mean, std float64) {
	switch len(m.fractions) {
	case 0:
		return 0, 0
	case 1:
		return m.fractions[0], 0
	}
	return stat.MeanStdDev(m.fractions, nil)
}
