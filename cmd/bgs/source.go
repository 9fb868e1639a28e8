/*
DESCRIPTION
  source.go selects the frame source for an input path.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/ausocean/bgs/config"
	"github.com/ausocean/bgs/device"
	"github.com/ausocean/bgs/device/file"
	"github.com/ausocean/bgs/device/imgdir"
	"github.com/ausocean/bgs/device/video"
	"github.com/ausocean/bgs/device/webcam"
)

// newSource returns an unconfigured source for the input path of c: a
// webcam for /dev/video devices, an image directory for directories, an
// MJPEG file for .mjpeg and .mjpg files, and a video file otherwise.
func newSource(c config.Config) device.Source {
	switch {
	case webcam.IsWebcam(c.InputPath):
		return webcam.New(c.Logger)
	case isDir(c.InputPath):
		return imgdir.New(c.Logger)
	}
	switch strings.ToLower(filepath.Ext(c.InputPath)) {
	case ".mjpeg", ".mjpg":
		return file.New(c.Logger)
	default:
		return video.New(c.Logger)
	}
}

// openSource returns the configured source for the input path of c.
// Fields a source defaults are logged rather than returned.
func openSource(c config.Config) (device.Source, error) {
	src := newSource(c)
	err := src.Set(c)
	var me device.MultiError
	if errors.As(err, &me) && src.Name() == "Webcam" {
		c.Logger.Warning(pkg+"webcam config defaulted", "errors", me.Error())
		err = nil
	}
	if err != nil {
		return nil, err
	}
	c.Logger.Info(pkg+"opened input", "device", src.Name(), "path", c.InputPath)
	return src, nil
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
