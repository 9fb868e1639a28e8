/*
DESCRIPTION
  file.go provides an implementation of the Source interface for a file of
  concatenated JPEG frames (MJPEG).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package file provides an implementation of device.Source for MJPEG files.
package file

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"sync"
	"time"

	"github.com/ausocean/bgs/codec/jpeg"
	"github.com/ausocean/bgs/config"
	"github.com/ausocean/bgs/device"
	"github.com/ausocean/utils/logging"
)

// MJPEG is an implementation of the device.Source interface for a file
// containing MJPEG video.
type MJPEG struct {
	f         *os.File
	stream    *device.JPEGStream
	path      string
	loop      bool
	fps       uint
	isRunning bool
	log       logging.Logger
	set       bool
	mu        sync.Mutex
}

// New returns a new MJPEG source.
func New(l logging.Logger) *MJPEG { return &MJPEG{log: l} }

// NewWith returns a new MJPEG source with required params provided i.e. the
// Set method does not need to be called. A zero fps reads frames as fast as
// they are asked for.
func NewWith(l logging.Logger, path string, loop bool, fps uint) *MJPEG {
	return &MJPEG{log: l, path: path, loop: loop, fps: fps, set: true}
}

// Name returns the name of the device.
func (m *MJPEG) Name() string {
	return "File"
}

// Set configures the source from the InputPath, Loop and FileFPS fields of c.
func (m *MJPEG) Set(c config.Config) error {
	if c.InputPath == "" {
		return errors.New("no input path for MJPEG file")
	}
	m.path = c.InputPath
	m.loop = c.Loop
	m.fps = c.FileFPS
	m.set = true
	return nil
}

// Start will open the file and begin lexing frames from it.
func (m *MJPEG) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.set {
		return errors.New("MJPEG file has not been set with config")
	}
	if m.isRunning {
		return nil
	}
	var err error
	m.f, err = os.Open(m.path)
	if err != nil {
		return fmt.Errorf("could not open media file: %w", err)
	}

	var delay time.Duration
	if m.fps != 0 {
		delay = time.Second / time.Duration(m.fps)
	}
	m.stream = device.NewJPEGStream(jpeg.NewLexer(m.log, delay), &looper{log: m.log, f: m.f, loop: m.loop})
	m.isRunning = true
	return nil
}

// Stop will close the file such that any further calls to Next will fail.
func (m *MJPEG) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.isRunning {
		return nil
	}
	m.isRunning = false
	m.stream.Close()
	err := m.f.Close()
	if err != nil {
		return fmt.Errorf("could not close media file: %w", err)
	}
	return nil
}

// IsRunning is used to determine if the MJPEG device is running.
func (m *MJPEG) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.f != nil && m.isRunning
}

// Next returns the next decoded frame of the file. io.EOF is returned at the
// end of the file if the source does not loop.
func (m *MJPEG) Next(ctx context.Context) (image.Image, error) {
	m.mu.Lock()
	running, stream := m.isRunning, m.stream
	m.mu.Unlock()
	if !running {
		return nil, device.ErrNotRunning
	}
	return stream.Next(ctx)
}

// looper reads from a file, seeking back to the start at the end of the
// file if loop is set.
type looper struct {
	log  logging.Logger
	f    *os.File
	loop bool
}

func (l *looper) Read(p []byte) (int, error) {
	n, err := l.f.Read(p)
	if err != io.EOF || !l.loop {
		return n, err
	}
	if n > 0 {
		return n, nil
	}

	l.log.Info("looping input file")
	_, err = l.f.Seek(0, io.SeekStart)
	if err != nil {
		return 0, fmt.Errorf("could not seek to start of file for input loop: %w", err)
	}
	n, err = l.f.Read(p)
	if err != nil {
		return n, fmt.Errorf("could not read after start seek: %w", err)
	}
	return n, nil
}
