/*
DESCRIPTION
  difference_test.go provides testing for FrameDifference.

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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

func TestFrameDifference(t *testing.T) {
	fd, err := NewFrameDifference(quietLogger(), DefaultParams(KindDifference))
	if err != nil {
		t.Fatalf("could not create frame difference: %v", err)
	}

	first := uniformGray(3, 1, 100)
	low, high, err := fd.Subtract(first)
	if err != nil {
		t.Fatalf("could not subtract first frame: %v", err)
	}
	if !allOf(low, Background) || !allOf(high, Background) {
		t.Errorf("expected first frame to be background, got %v and %v", low.Pix, high.Pix)
	}

	// Squared distances 100, 3600 and 6400 against thresholds 2700 and 5400.
	next := image.NewGray(image.Rect(0, 0, 3, 1))
	next.Pix = []uint8{110, 160, 180}
	low, high, err = fd.Subtract(next)
	if err != nil {
		t.Fatalf("could not subtract: %v", err)
	}
	wantLow := []uint8{Background, Foreground, Foreground}
	wantHigh := []uint8{Background, Background, Foreground}
	if !cmp.Equal(low.Pix, wantLow) {
		t.Errorf("did not get expected low mask.\nGot: %v\nWant: %v", low.Pix, wantLow)
	}
	if !cmp.Equal(high.Pix, wantHigh) {
		t.Errorf("did not get expected high mask.\nGot: %v\nWant: %v", high.Pix, wantHigh)
	}

	if err := fd.Update(next, low); err != nil {
		t.Fatalf("could not update: %v", err)
	}
	bg := fd.Background().(*image.Gray)
	wantBG := []uint8{110, 100, 100}
	if !cmp.Equal(bg.Pix, wantBG) {
		t.Errorf("did not get expected reference.\nGot: %v\nWant: %v", bg.Pix, wantBG)
	}
}

func TestFrameDifferenceColour(t *testing.T) {
	fd, err := NewFrameDifference(quietLogger(), DefaultParams(KindDifference))
	if err != nil {
		t.Fatalf("could not create frame difference: %v", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 10, G: 20, B: 30, A: 0xff})
	img.SetRGBA(1, 0, color.RGBA{R: 10, G: 20, B: 30, A: 0xff})
	if err := fd.Initialize(img); err != nil {
		t.Fatalf("could not initialise: %v", err)
	}

	// 3 * 30^2 equals the low threshold and 3 * 31^2 exceeds it.
	img.SetRGBA(0, 0, color.RGBA{R: 40, G: 50, B: 60, A: 0xff})
	img.SetRGBA(1, 0, color.RGBA{R: 41, G: 51, B: 61, A: 0xff})
	low, _, err := fd.Subtract(img)
	if err != nil {
		t.Fatalf("could not subtract: %v", err)
	}
	want := []uint8{Background, Foreground}
	if !cmp.Equal(low.Pix, want) {
		t.Errorf("did not get expected mask.\nGot: %v\nWant: %v", low.Pix, want)
	}
}

func TestFrameDifferenceErrors(t *testing.T) {
	p := DefaultParams(KindDifference)
	p.HighThreshold = p.LowThreshold / 2
	if _, err := NewFrameDifference(quietLogger(), p); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("expected invalid parameters, got %v", err)
	}

	fd, err := NewFrameDifference(quietLogger(), DefaultParams(KindDifference))
	if err != nil {
		t.Fatalf("could not create frame difference: %v", err)
	}
	if fd.Background() != nil {
		t.Error("expected no background before initialisation")
	}
	if err := fd.Update(uniformGray(2, 2, 0), uniformGray(2, 2, 0)); err == nil {
		t.Error("expected error updating before initialisation")
	}
	if _, _, err := fd.Subtract(image.NewGray16(image.Rect(0, 0, 2, 2))); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected unsupported format, got %v", err)
	}
	if _, _, err := fd.Subtract(uniformGray(2, 2, 0)); err != nil {
		t.Fatalf("could not subtract: %v", err)
	}
	if _, _, err := fd.Subtract(uniformGray(2, 3, 0)); !errors.Is(err, ErrFrameSize) {
		t.Errorf("expected frame size error, got %v", err)
	}
	if err := fd.Update(uniformGray(2, 2, 0), uniformGray(1, 2, 0)); !errors.Is(err, ErrFrameSize) {
		t.Errorf("expected frame size error for mask, got %v", err)
	}
}
