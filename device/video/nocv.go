//go:build !withcv
// +build !withcv

/*
DESCRIPTION
  nocv.go replaces the gocv capture when building without OpenCV.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package video

import (
	"image"

	"github.com/ausocean/utils/logging"
)

type capture struct{}

func openCapture(path string) (*capture, error) { return nil, ErrUnavailable }

func (c *capture) read(l logging.Logger, loop bool) (image.Image, error) { return nil, ErrUnavailable }

func (c *capture) close() error { return nil }
