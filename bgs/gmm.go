/*
DESCRIPTION
  gmm.go provides GMM, the frame driver for the Gaussian mixture algorithms.
  The Grimson, Poppe and Zivkovic variants differ only in how the shared
  Engine is configured and decorated.

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

// GMM is an adaptive Gaussian mixture background model. Every call to
// Subtract updates each pixel's mixture once; Update does nothing since
// creating modes is how the mixture absorbs new background.
type GMM struct {
	log     logging.Logger
	kind    Kind
	p       Params
	eng     *Engine
	tracker *ContinuityTracker
	workers int

	model  *Model
	bounds image.Rectangle
	bg     *canvas
	frames uint
}

// NewGrimson returns a mixture model as described by Stauffer and Grimson,
// classifying against the most significant modes.
func NewGrimson(l logging.Logger, p Params) (*GMM, error) {
	p.CGC, p.ComplexityPrior = 0, 0
	return newGMM(l, KindGrimson, p)
}

// NewPoppe returns a mixture model with gradual change continuity: a pixel
// that follows its last confirmed background sample within p.CGC standard
// deviations stays background.
func NewPoppe(l logging.Logger, p Params) (*GMM, error) {
	p.ComplexityPrior = 0
	return newGMM(l, KindPoppe, p)
}

// NewZivkovic returns a mixture model whose modes are discarded when the
// complexity prior p.ComplexityPrior outweighs their support, so pixels use
// only as many modes as their history needs.
func NewZivkovic(l logging.Logger, p Params) (*GMM, error) {
	p.CGC = 0
	return newGMM(l, KindZivkovic, p)
}

func newGMM(l logging.Logger, k Kind, p Params) (*GMM, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &GMM{
		log:     l,
		kind:    k,
		p:       p,
		eng:     NewEngine(p),
		workers: workerCount(p.Workers),
	}, nil
}

// Kind returns the variant of g.
func (g *GMM) Kind() Kind { return g.kind }

// Params returns the parameters g was constructed with.
func (g *GMM) Params() Params { return g.p }

// Frames returns the number of frames subtracted since initialisation.
func (g *GMM) Frames() uint { return g.frames }

// Initialize sizes a new, empty model from img.
func (g *GMM) Initialize(img image.Image) error {
	ch, err := Channels(img)
	if err != nil {
		return err
	}
	b := img.Bounds()
	if b.Empty() {
		return errors.Wrap(ErrUnsupportedFormat, "empty image")
	}
	g.setModel(NewModel(b.Dx(), b.Dy(), ch, g.p.MaxModes), b)
	g.log.Info("initialised mixture model", "algorithm", g.kind.String(), "width", b.Dx(), "height", b.Dy(), "channels", ch, "modes", g.p.MaxModes)
	return nil
}

func (g *GMM) setModel(m *Model, b image.Rectangle) {
	g.model = m
	g.bounds = b
	g.bg = newCanvas(b, m.Channels)
	g.frames = 0
	g.tracker = nil
	if g.kind == KindPoppe {
		g.tracker = NewContinuityTracker(g.eng, len(m.Pixels), g.p.CGC)
	}
}

// Subtract updates the model with img and returns the low and high
// threshold masks.
func (g *GMM) Subtract(img image.Image) (*image.Gray, *image.Gray, error) {
	if g.model == nil {
		if err := g.Initialize(img); err != nil {
			return nil, nil, err
		}
	}
	if err := g.check(img); err != nil {
		return nil, nil, err
	}

	b := img.Bounds()
	low, high := masks(b)
	read := newSampler(img)
	w := g.model.Width

	rows(b.Dy(), g.workers, func(y0, y1 int) {
		var s Sample
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				i := y*w + x
				px := &g.model.Pixels[i]
				read(b.Min.X+x, b.Min.Y+y, &s)

				var r Result
				if g.tracker != nil {
					r = g.tracker.Update(i, px, &s)
				} else {
					r = g.eng.Update(px, &s)
				}

				o := low.PixOffset(b.Min.X+x, b.Min.Y+y)
				low.Pix[o] = label(r.Low)
				high.Pix[o] = label(r.High)
				g.bg.set(g.bounds.Min.X+x, g.bounds.Min.Y+y, &px.Modes[0].Mean)
			}
		}
	})

	g.frames++
	return low, high, nil
}

// check returns an error if img cannot be applied to the current model.
func (g *GMM) check(img image.Image) error {
	ch, err := Channels(img)
	if err != nil {
		return err
	}
	if ch != g.model.Channels {
		return errors.Wrapf(ErrUnsupportedFormat, "frame has %d channels, model has %d", ch, g.model.Channels)
	}
	b := img.Bounds()
	if b.Dx() != g.model.Width || b.Dy() != g.model.Height {
		return errors.Wrapf(ErrFrameSize, "frame is %dx%d, model is %dx%d", b.Dx(), b.Dy(), g.model.Width, g.model.Height)
	}
	return nil
}

// Update does nothing; the mixture updates itself in Subtract.
func (g *GMM) Update(img image.Image, mask *image.Gray) error { return nil }

// Background returns the mean of the most significant mode of every pixel,
// as of the last call to Subtract.
func (g *GMM) Background() image.Image {
	if g.bg == nil {
		return nil
	}
	return g.bg.img
}

// Model returns a copy of the current model, or nil before initialisation.
func (g *GMM) Model() *Model {
	if g.model == nil {
		return nil
	}
	return g.model.Clone()
}

// Restore replaces the current model with a copy of m, as if m had been
// learnt from previous frames. Continuity history is not part of a model
// and starts empty.
func (g *GMM) Restore(m *Model) error {
	if m == nil {
		return errors.New("nil model")
	}
	if err := m.Check(g.p.MaxModes, g.p.InitialVariance); err != nil {
		return errors.Wrap(err, "cannot restore model")
	}
	c := m.Clone()
	c.refresh()
	g.setModel(c, image.Rect(0, 0, c.Width, c.Height))
	for i := range c.Pixels {
		if c.Pixels[i].Used > 0 {
			g.bg.set(i%c.Width, i/c.Width, &c.Pixels[i].Modes[0].Mean)
		}
	}
	g.log.Info("restored mixture model", "algorithm", g.kind.String(), "width", c.Width, "height", c.Height, "channels", c.Channels)
	return nil
}
