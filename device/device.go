/*
DESCRIPTION
  device.go provides Source, an interface that describes a configurable
  source of video frames that can be started and stopped.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package device provides an interface and implementations for frame sources
// that can be started and stopped and from which decoded frames are obtained.
package device

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/ausocean/bgs/config"
)

var (
	// ErrNotRunning is returned by Next when the source has not been started,
	// or has been stopped.
	ErrNotRunning = errors.New("device is not running")

	// ErrBadFrame is returned by Next for a frame that cannot be decoded.
	// Later frames may still be read.
	ErrBadFrame = errors.New("bad frame")
)

// Source describes a configurable source of video frames.
type Source interface {
	// Name returns the name of the Source.
	Name() string

	// Set allows for configuration of the Source using a Config struct. All,
	// some or none of the fields of the Config struct may be used for
	// configuration by an implementation. An implementation should specify
	// what fields are considered.
	Set(c config.Config) error

	// Start will start the Source; after which Next may be called to obtain
	// frames.
	Start() error

	// Stop will stop the Source. From this point calls to Next fail with
	// ErrNotRunning.
	Stop() error

	// IsRunning is used to determine if the source is running.
	IsRunning() bool

	// Next blocks until the next frame is available and returns it. io.EOF
	// is returned once the source is exhausted. The returned image remains
	// valid after later calls.
	Next(ctx context.Context) (image.Image, error)
}

// MultiError implements the built in error interface. MultiError is used here
// to collect multiple errors during validation of configuration parameters
// for Sources.
type MultiError []error

func (me MultiError) Error() string {
	if len(me) == 0 {
		panic("device: invalid use of MultiError")
	}
	return fmt.Sprintf("%v", []error(me))
}
