//go:build debug && withcv
// +build debug,withcv

/*
DESCRIPTION
  Displays debug information for the motion filter.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package filter

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// debugWindows is used for displaying debug information for the motion filter.
type debugWindows struct {
	windows []*gocv.Window
}

// close frees resources used by gocv.
func (d *debugWindows) close() error {
	for _, window := range d.windows {
		err := window.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// newWindows creates debugging windows for the motion filter.
func newWindows(name string) debugWindows {
	return debugWindows{
		windows: []*gocv.Window{
			gocv.NewWindow(name + ": Video"),
			gocv.NewWindow(name + ": Foreground"),
			gocv.NewWindow(name + ": Background"),
		},
	}
}

// show displays a frame annotated with text, its foreground mask and the
// current background.
func (d *debugWindows) show(img image.Image, mask *image.Gray, bg image.Image, motion bool, text ...string) {
	var drkRed = color.RGBA{191, 0, 0, 0}

	im, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return
	}
	defer im.Close()
	fg, err := gocv.ImageGrayToMatGray(mask)
	if err != nil {
		return
	}
	defer fg.Close()

	// Draw debugging text.
	if motion {
		text = append(text, "Motion Detected")
	}
	for i, str := range text {
		gocv.PutText(&im, str, image.Pt(32, 32*(i+1)), gocv.FontHersheyPlain, 2.0, drkRed, 2)
	}

	// Display windows.
	d.windows[0].IMShow(im)
	d.windows[1].IMShow(fg)
	if bg != nil {
		b, err := gocv.ImageToMatRGB(bg)
		if err == nil {
			d.windows[2].IMShow(b)
			b.Close()
		}
	}
	d.windows[0].WaitKey(1)
}
