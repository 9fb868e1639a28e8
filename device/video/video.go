/*
DESCRIPTION
  video.go provides an implementation of the Source interface for video
  files of any format OpenCV can read.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package video provides an implementation of device.Source for video files
// read through gocv. Without the withcv build tag Start always fails with
// ErrUnavailable.
package video

import (
	"context"
	"errors"
	"image"
	"sync"

	"github.com/ausocean/bgs/config"
	"github.com/ausocean/bgs/device"
	"github.com/ausocean/utils/logging"
)

// ErrUnavailable is returned by Start in builds without OpenCV.
var ErrUnavailable = errors.New("video files need a build with the withcv tag")

// Video is an implementation of the device.Source interface for a video file.
type Video struct {
	log       logging.Logger
	path      string
	loop      bool
	set       bool
	isRunning bool
	mu        sync.Mutex
	vc        *capture
}

// New returns a new Video.
func New(l logging.Logger) *Video { return &Video{log: l} }

// NewWith returns a new Video with required params provided i.e. the Set
// method does not need to be called.
func NewWith(l logging.Logger, path string, loop bool) *Video {
	return &Video{log: l, path: path, loop: loop, set: true}
}

// Name returns the name of the device.
func (v *Video) Name() string { return "Video" }

// Set configures the source from the InputPath and Loop fields of c.
func (v *Video) Set(c config.Config) error {
	if c.InputPath == "" {
		return errors.New("no input path for video file")
	}
	v.path = c.InputPath
	v.loop = c.Loop
	v.set = true
	return nil
}

// Start opens the video file.
func (v *Video) Start() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.set {
		return errors.New("video has not been set with config")
	}
	if v.isRunning {
		return nil
	}
	c, err := openCapture(v.path)
	if err != nil {
		return err
	}
	v.log.Info("opened video file", "path", v.path)
	v.vc = c
	v.isRunning = true
	return nil
}

// Stop closes the video file.
func (v *Video) Stop() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.isRunning {
		return nil
	}
	v.isRunning = false
	err := v.vc.close()
	v.vc = nil
	return err
}

// IsRunning is used to determine if the source is running.
func (v *Video) IsRunning() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.isRunning
}

// Next returns the next frame of the video, or io.EOF at its end if the
// source does not loop.
func (v *Video) Next(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.isRunning {
		return nil, device.ErrNotRunning
	}
	return v.vc.read(v.log, v.loop)
}
