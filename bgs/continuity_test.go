/*
DESCRIPTION
  continuity_test.go provides testing for gradual change continuity.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package bgs

import (
	"testing"
)

// drift returns the value of a pixel that holds at 100 for 50 frames and
// then brightens by 3 every frame.
func drift(f int) uint8 {
	if f < 50 {
		return 100
	}
	return uint8(100 + 3*(f-49))
}

func TestContinuityDrift(t *testing.T) {
	p := testParams()
	p.CGC = 1.8

	grimson, err := NewGrimson(quietLogger(), p)
	if err != nil {
		t.Fatalf("could not create grimson model: %v", err)
	}
	poppe, err := NewPoppe(quietLogger(), p)
	if err != nil {
		t.Fatalf("could not create poppe model: %v", err)
	}

	var grimsonFG bool
	for f := 0; f < 100; f++ {
		img := uniformGray(1, 1, drift(f))

		low, _, err := grimson.Subtract(img)
		if err != nil {
			t.Fatalf("could not subtract: %v", err)
		}
		if low.Pix[0] == Foreground {
			grimsonFG = true
		}

		low, high, err := poppe.Subtract(img)
		if err != nil {
			t.Fatalf("could not subtract: %v", err)
		}
		if low.Pix[0] != Background || high.Pix[0] != Background {
			t.Errorf("frame %d: expected drifting pixel to stay background, got low %d high %d", f, low.Pix[0], high.Pix[0])
		}
	}

	if !grimsonFG {
		t.Error("expected drifting pixel to become foreground without continuity")
	}

	_, s := poppe.tracker.Remembered(0)
	if s[0] != float64(drift(99)) {
		t.Errorf("expected remembered sample %d, got %v", drift(99), s[0])
	}
}

func TestContinuityStep(t *testing.T) {
	p := DefaultParams(KindPoppe)
	p.Alpha = 0.01
	p.Workers = 1
	g, err := NewPoppe(quietLogger(), p)
	if err != nil {
		t.Fatalf("could not create model: %v", err)
	}

	for f := 0; f < 30; f++ {
		if _, _, err := g.Subtract(uniformGray(1, 1, 60)); err != nil {
			t.Fatalf("could not subtract: %v", err)
		}
	}

	// A jump far beyond the remembered sample is not continuous.
	low, _, err := g.Subtract(uniformGray(1, 1, 220))
	if err != nil {
		t.Fatalf("could not subtract: %v", err)
	}
	if low.Pix[0] != Foreground {
		t.Errorf("expected step change to be foreground, got %d", low.Pix[0])
	}

	m, s := g.tracker.Remembered(0)
	if s[0] != 60 || m.Mean[0] != 60 {
		t.Errorf("expected remembered background to be unchanged, got mode mean %v sample %v", m.Mean[0], s[0])
	}
}

func TestContinuityForgetsReplacedMode(t *testing.T) {
	p := testParams()
	p.CGC = 1.8
	e := NewEngine(p)
	ct := NewContinuityTracker(e, 1, p.CGC)
	px := pixel(p.MaxModes)

	s := grey(100)
	ct.Update(0, px, &s)
	s = grey(100)
	r := ct.Update(0, px, &s)
	if !r.Matched || !r.Low {
		t.Fatalf("expected background match, got %+v", r)
	}

	// Once the remembered mode has changed the sample is judged by the
	// distance test alone, even though it continues the remembered sample.
	px.Modes[0].Mean[0] = 0
	s = grey(101)
	r = ct.Update(0, px, &s)
	if r.Low {
		t.Errorf("expected no continuity with a changed mode, got %+v", r)
	}
}
