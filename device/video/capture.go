//go:build withcv
// +build withcv

/*
DESCRIPTION
  capture.go reads video frames with gocv.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package video

import (
	"fmt"
	"image"
	"io"

	"gocv.io/x/gocv"

	"github.com/ausocean/bgs/device"
	"github.com/ausocean/utils/logging"
)

// capture holds an open video file and the mat frames are read into.
type capture struct {
	vc  *gocv.VideoCapture
	mat gocv.Mat
}

func openCapture(path string) (*capture, error) {
	vc, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not open video file: %w", err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("could not open video file %s", path)
	}
	return &capture{vc: vc, mat: gocv.NewMat()}, nil
}

// read returns the next frame, rewinding once at the end if loop is set.
func (c *capture) read(l logging.Logger, loop bool) (image.Image, error) {
	ok := c.vc.Read(&c.mat)
	if (!ok || c.mat.Empty()) && loop {
		l.Info("looping video file")
		c.vc.Set(gocv.VideoCapturePosFrames, 0)
		ok = c.vc.Read(&c.mat)
	}
	if !ok || c.mat.Empty() {
		return nil, io.EOF
	}
	img, err := c.mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("%w: could not convert: %w", device.ErrBadFrame, err)
	}
	return img, nil
}

func (c *capture) close() error {
	err := c.mat.Close()
	if err != nil {
		return fmt.Errorf("could not close mat: %w", err)
	}
	err = c.vc.Close()
	if err != nil {
		return fmt.Errorf("could not close video file: %w", err)
	}
	return nil
}
