/*
DESCRIPTION
  image_test.go provides testing for the frame format handling in image.go.

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
	"testing"

	"github.com/pkg/errors"
)

func TestChannels(t *testing.T) {
	r := image.Rect(0, 0, 2, 2)
	tests := []struct {
		img  image.Image
		want int
		err  error
	}{
		{img: image.NewGray(r), want: 1},
		{img: image.NewRGBA(r), want: 3},
		{img: image.NewNRGBA(r), want: 3},
		{img: image.NewYCbCr(r, image.YCbCrSubsampleRatio420), want: 3},
		{img: image.NewGray16(r), err: ErrUnsupportedFormat},
		{img: image.NewNRGBA64(r), err: ErrUnsupportedFormat},
		{img: image.NewCMYK(r), err: ErrUnsupportedFormat},
		{img: nil, err: ErrUnsupportedFormat},
	}

	for i, test := range tests {
		got, err := Channels(test.img)
		if !errors.Is(err, test.err) {
			t.Errorf("did not get expected error for test %d.\nGot: %v\nWant: %v", i, err, test.err)
		}
		if got != test.want {
			t.Errorf("did not get expected channels for test %d.\nGot: %d\nWant: %d", i, got, test.want)
		}
	}
}

func TestSampler(t *testing.T) {
	r := image.Rect(0, 0, 2, 2)
	c := color.RGBA{R: 200, G: 100, B: 50, A: 0xff}

	rgba := image.NewRGBA(r)
	rgba.SetRGBA(1, 1, c)
	nrgba := image.NewNRGBA(r)
	nrgba.SetNRGBA(1, 1, color.NRGBA{R: 200, G: 100, B: 50, A: 0x80})

	yy, cb, cr := color.RGBToYCbCr(c.R, c.G, c.B)
	ycbcr := image.NewYCbCr(r, image.YCbCrSubsampleRatio444)
	ycbcr.Y[ycbcr.YOffset(1, 1)] = yy
	ycbcr.Cb[ycbcr.COffset(1, 1)] = cb
	ycbcr.Cr[ycbcr.COffset(1, 1)] = cr

	for _, img := range []image.Image{rgba, nrgba, ycbcr} {
		var s Sample
		newSampler(img)(1, 1, &s)
		for i, want := range []uint8{c.R, c.G, c.B} {
			// YCbCr round trips within a couple of levels.
			if math.Abs(s[i]-float64(want)) > 2 {
				t.Errorf("%T channel %d: got %v, want %d", img, i, s[i], want)
			}
		}
	}

	gray := image.NewGray(r)
	gray.SetGray(0, 1, color.Gray{Y: 77})
	var s Sample
	newSampler(gray)(0, 1, &s)
	if s != (Sample{77}) {
		t.Errorf("did not get expected grey sample, got %v", s)
	}
}

func TestCanvas(t *testing.T) {
	c := newCanvas(image.Rect(1, 1, 3, 3), 3)
	c.set(2, 2, &Sample{-5, 127.6, 300})
	got := c.rgba.RGBAAt(2, 2)
	want := color.RGBA{R: 0, G: 128, B: 255, A: 0xff}
	if got != want {
		t.Errorf("did not get expected pixel.\nGot: %v\nWant: %v", got, want)
	}
}
