/*
DESCRIPTION
  engine_test.go provides testing for the mixture estimator in engine.go.

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
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

const tol = 1e-9

func testParams() Params {
	return Params{
		Alpha:                0.01,
		MaxModes:             3,
		LowThreshold:         9,
		HighThreshold:        18,
		BackgroundProportion: 0.9,
		InitialVariance:      36,
		Workers:              1,
	}
}

// pixel returns a pixel with capacity n holding modes in the given order.
func pixel(n int, modes ...Mode) *PixelModel {
	px := &PixelModel{Modes: make([]Mode, n), Used: len(modes)}
	copy(px.Modes, modes)
	for i := range px.Live() {
		px.Modes[i].refresh()
	}
	return px
}

func grey(v float64) Sample { return Sample{v} }

// checkPixel fails t if px breaks any of the mixture invariants.
func checkPixel(t *testing.T, px *PixelModel, initVar float64) {
	t.Helper()
	if px.Used < 1 || px.Used > len(px.Modes) {
		t.Fatalf("used modes %d out of range [1, %d]", px.Used, len(px.Modes))
	}
	var sum float64
	live := px.Live()
	for i := range live {
		m := &live[i]
		if m.Weight <= 0 {
			t.Errorf("mode %d has non-positive weight %v", i, m.Weight)
		}
		if m.Variance < minVariance || m.Variance > maxVarianceFactor*initVar {
			t.Errorf("mode %d variance %v out of bounds", i, m.Variance)
		}
		if i > 0 && live[i-1].Significance() < m.Significance() {
			t.Errorf("mode %d more significant than mode %d", i, i-1)
		}
		sum += m.Weight
	}
	if math.Abs(sum-1) > 1e-6 {
		t.Errorf("weights sum to %v", sum)
	}
}

func TestEngineSeed(t *testing.T) {
	p := testParams()
	e := NewEngine(p)
	px := pixel(p.MaxModes)

	s := grey(100)
	got := e.Update(px, &s)
	want := Result{Low: true, High: true}
	if !cmp.Equal(got, want, cmpopts.IgnoreUnexported(Mode{})) {
		t.Errorf("did not get expected result.\nGot: %+v\nWant: %+v", got, want)
	}
	if px.Used != 1 {
		t.Fatalf("expected 1 mode, got %d", px.Used)
	}
	wantMode := Mode{Weight: 1, Mean: s, Variance: p.InitialVariance}
	if !cmp.Equal(px.Modes[0], wantMode, cmpopts.IgnoreUnexported(Mode{})) {
		t.Errorf("did not get expected mode.\nGot: %+v\nWant: %+v", px.Modes[0], wantMode)
	}
}

func TestEngineMatch(t *testing.T) {
	p := testParams()
	e := NewEngine(p)
	px := pixel(p.MaxModes, Mode{Weight: 1, Mean: grey(100), Variance: 36})

	s := grey(103)
	r := e.Update(px, &s)
	if !r.Matched || !r.Low || !r.High {
		t.Fatalf("expected background match, got %+v", r)
	}
	m := px.Modes[0]
	if math.Abs(m.Weight-1) > tol {
		t.Errorf("expected weight 1, got %v", m.Weight)
	}
	// k = alpha / weight = 0.01.
	if want := 100 + 0.01*3; math.Abs(m.Mean[0]-want) > tol {
		t.Errorf("expected mean %v, got %v", want, m.Mean[0])
	}
	if want := 36 + 0.01*(9-36); math.Abs(m.Variance-want) > tol {
		t.Errorf("expected variance %v, got %v", want, m.Variance)
	}
	if !cmp.Equal(r.Mode, m, cmpopts.IgnoreUnexported(Mode{}), cmpopts.IgnoreFields(Mode{}, "Weight")) {
		t.Errorf("result mode does not match updated mode.\nGot: %+v\nWant: %+v", r.Mode, m)
	}
}

func TestEngineVarianceFloor(t *testing.T) {
	p := testParams()
	p.Alpha = 0.5
	e := NewEngine(p)
	px := pixel(p.MaxModes, Mode{Weight: 1, Mean: grey(50), Variance: 5})

	s := grey(50)
	for i := 0; i < 10; i++ {
		e.Update(px, &s)
	}
	if px.Modes[0].Variance != minVariance {
		t.Errorf("expected variance clamped to %d, got %v", minVariance, px.Modes[0].Variance)
	}
}

func TestEngineVarianceCeiling(t *testing.T) {
	p := testParams()
	p.Alpha = 0.5
	p.LowThreshold, p.HighThreshold = 100, 100
	e := NewEngine(p)
	px := pixel(p.MaxModes, Mode{Weight: 1, Mean: grey(100), Variance: 170})

	s := grey(200)
	e.Update(px, &s)
	if want := maxVarianceFactor * p.InitialVariance; px.Modes[0].Variance != want {
		t.Errorf("expected variance clamped to %v, got %v", want, px.Modes[0].Variance)
	}
}

func TestEngineCreate(t *testing.T) {
	p := testParams()
	e := NewEngine(p)
	px := pixel(p.MaxModes, Mode{Weight: 1, Mean: grey(100), Variance: 36})

	s := grey(200)
	r := e.Update(px, &s)
	if r.Matched || r.Low || r.High {
		t.Fatalf("expected unmatched foreground, got %+v", r)
	}
	if px.Used != 2 {
		t.Fatalf("expected 2 modes, got %d", px.Used)
	}
	checkPixel(t, px, p.InitialVariance)

	// The old mode decays and is renormalised to 1 before the new one enters
	// at alpha.
	total := 1 + p.Alpha
	want := []Mode{
		{Weight: 1 / total, Mean: grey(100), Variance: 36},
		{Weight: p.Alpha / total, Mean: grey(200), Variance: 36},
	}
	if !cmp.Equal(px.Live(), want, cmpopts.IgnoreUnexported(Mode{}), cmpopts.EquateApprox(0, tol)) {
		t.Errorf("did not get expected modes.\nGot: %+v\nWant: %+v", px.Live(), want)
	}
}

func TestEngineHighOnly(t *testing.T) {
	p := testParams()
	e := NewEngine(p)
	px := pixel(p.MaxModes, Mode{Weight: 1, Mean: grey(0), Variance: 36})

	// 400 lies between 9*36 and 18*36.
	s := grey(20)
	r := e.Update(px, &s)
	want := Result{High: true}
	if !cmp.Equal(r, want, cmpopts.IgnoreUnexported(Mode{})) {
		t.Errorf("did not get expected result.\nGot: %+v\nWant: %+v", r, want)
	}
}

func TestEngineReplaceWeakest(t *testing.T) {
	p := testParams()
	e := NewEngine(p)
	px := pixel(p.MaxModes,
		Mode{Weight: 0.7, Mean: grey(0), Variance: 36},
		Mode{Weight: 0.2, Mean: grey(80), Variance: 36},
		Mode{Weight: 0.1, Mean: grey(160), Variance: 36},
	)

	s := grey(240)
	r := e.Update(px, &s)
	if r.Matched {
		t.Fatalf("expected no match, got %+v", r)
	}
	if px.Used != p.MaxModes {
		t.Fatalf("expected %d modes, got %d", p.MaxModes, px.Used)
	}
	checkPixel(t, px, p.InitialVariance)

	var means []float64
	for _, m := range px.Live() {
		means = append(means, m.Mean[0])
	}
	want := []float64{0, 80, 240}
	if !cmp.Equal(means, want) {
		t.Errorf("did not get expected means.\nGot: %v\nWant: %v", means, want)
	}
}

func TestEngineBackgroundModes(t *testing.T) {
	modes := []Mode{
		{Weight: 0.6, Mean: grey(0), Variance: 36},
		{Weight: 0.3, Mean: grey(50), Variance: 36},
		{Weight: 0.1, Mean: grey(100), Variance: 36},
	}

	tests := []struct {
		prop    float64
		sample  float64
		wantBG  int
		wantLow bool
	}{
		{prop: 1.0, sample: 100, wantBG: 3, wantLow: true},
		{prop: 0.6, sample: 0, wantBG: 1, wantLow: true},
		{prop: 0.6, sample: 50, wantBG: 1, wantLow: false},
		{prop: 0.5, sample: 100, wantBG: 1, wantLow: false},
		{prop: 0.75, sample: 50, wantBG: 2, wantLow: true},
		{prop: 0.75, sample: 100, wantBG: 2, wantLow: false},
	}

	for i, test := range tests {
		p := testParams()
		p.BackgroundProportion = test.prop
		e := NewEngine(p)

		px := pixel(p.MaxModes, modes...)
		if n := e.backgroundModes(px); n != test.wantBG {
			t.Errorf("did not get expected background modes for test %d.\nGot: %d\nWant: %d", i, n, test.wantBG)
		}

		s := grey(test.sample)
		r := e.Update(px, &s)
		if !r.Matched {
			t.Errorf("expected match for test %d", i)
		}
		if r.Low != test.wantLow {
			t.Errorf("did not get expected low result for test %d.\nGot: %v\nWant: %v", i, r.Low, test.wantLow)
		}
	}
}

func TestEngineComplexityPrior(t *testing.T) {
	p := testParams()
	p.Alpha = 0.1
	p.ComplexityPrior = 0.05
	e := NewEngine(p)
	px := pixel(p.MaxModes,
		Mode{Weight: 0.996, Mean: grey(0), Variance: 36},
		Mode{Weight: 0.004, Mean: grey(200), Variance: 36},
	)

	s := grey(0)
	r := e.Update(px, &s)
	if !r.Matched || !r.Low {
		t.Fatalf("expected background match, got %+v", r)
	}
	if px.Used != 1 {
		t.Fatalf("expected weak mode to be discarded, %d modes remain", px.Used)
	}
	checkPixel(t, px, p.InitialVariance)
}

func TestEngineInvariants(t *testing.T) {
	for _, k := range []Kind{KindGrimson, KindZivkovic} {
		p := DefaultParams(k)
		p.Alpha = 0.05
		e := NewEngine(p)
		rng := rand.New(rand.NewSource(1))
		px := pixel(p.MaxModes)

		for i := 0; i < 2000; i++ {
			var s Sample
			switch rng.Intn(4) {
			case 0:
				s = Sample{float64(rng.Intn(256)), float64(rng.Intn(256)), float64(rng.Intn(256))}
			default:
				s = Sample{120 + rng.NormFloat64()*3, 60 + rng.NormFloat64()*3, 30 + rng.NormFloat64()*3}
			}
			e.Update(px, &s)
			checkPixel(t, px, p.InitialVariance)
			if t.Failed() {
				t.Fatalf("%s: invariant broken after %d samples", k, i+1)
			}
		}
	}
}

func TestEngineConvergence(t *testing.T) {
	p := testParams()
	p.Alpha = 0.05
	e := NewEngine(p)
	px := pixel(p.MaxModes)

	s := grey(100)
	e.Update(px, &s)
	for i := 0; i < 500; i++ {
		s = grey(float64(170 + i%2))
		e.Update(px, &s)
	}
	top := px.Modes[0]
	if math.Abs(top.Mean[0]-170.5) > 1 {
		t.Errorf("expected dominant mode near 170.5, got %v", top.Mean[0])
	}
	if top.Weight < 0.9 {
		t.Errorf("expected dominant mode weight above 0.9, got %v", top.Weight)
	}
}
