/*
DESCRIPTION
  webcam.go provides an implementation of the Source interface for webcams.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package webcam provides an implementation of device.Source for webcams,
// captured as MJPEG by ffmpeg.
package webcam

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/ausocean/bgs/codec/jpeg"
	"github.com/ausocean/bgs/config"
	"github.com/ausocean/bgs/device"
	"github.com/ausocean/utils/logging"
)

// Used to indicate package in logging.
const pkg = "webcam: "

// Configuration field defaults.
const (
	defaultInputPath = "/dev/video0"
	defaultFrameRate = 25
	defaultWidth     = 1280
	defaultHeight    = 720
)

// Configuration field errors.
var (
	errBadFrameRate = errors.New("frame rate bad or unset, defaulting")
	errBadWidth     = errors.New("width bad or unset, defaulting")
	errBadHeight    = errors.New("height bad or unset, defaulting")
	errBadInputPath = errors.New("input path bad or unset, defaulting")
)

// IsWebcam reports whether path names a video capture device.
func IsWebcam(path string) bool { return strings.HasPrefix(path, "/dev/video") }

// Webcam is an implementation of the device.Source interface for a webcam.
type Webcam struct {
	out       io.ReadCloser
	stream    *device.JPEGStream
	log       logging.Logger
	cfg       config.Config
	cmd       *exec.Cmd
	isRunning bool
	mu        sync.Mutex
}

// New returns a new Webcam.
func New(l logging.Logger) *Webcam {
	return &Webcam{log: l}
}

// Name returns the name of the device.
func (w *Webcam) Name() string {
	return "Webcam"
}

// Set will validate the relevant fields of the given Config struct and
// assign the struct to the Webcam's Config. If fields are not valid, an
// error is added to the returned MultiError and a default value is used.
func (w *Webcam) Set(c config.Config) error {
	var errs device.MultiError
	if c.InputPath == "" {
		errs = append(errs, errBadInputPath)
		c.InputPath = defaultInputPath
	}

	if c.Width == 0 {
		errs = append(errs, errBadWidth)
		c.Width = defaultWidth
	}

	if c.Height == 0 {
		errs = append(errs, errBadHeight)
		c.Height = defaultHeight
	}

	if c.FrameRate == 0 {
		errs = append(errs, errBadFrameRate)
		c.FrameRate = defaultFrameRate
	}

	w.cfg = c
	if len(errs) != 0 {
		return errs
	}
	return nil
}

// args returns the ffmpeg arguments capturing the configured device as
// MJPEG on standard output.
func (w *Webcam) args() []string {
	return []string{
		"-i", w.cfg.InputPath,
		"-r", fmt.Sprint(w.cfg.FrameRate),
		"-s", fmt.Sprintf("%dx%d", w.cfg.Width, w.cfg.Height),
		"-f", "mjpeg",
		"-",
	}
}

// Start will build the required arguments for ffmpeg and then execute the
// command, piping video output to the lexer of the returned frames.
func (w *Webcam) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.isRunning {
		return nil
	}

	args := w.args()
	w.log.Info(pkg+"ffmpeg args", "args", strings.Join(args, " "))
	w.cmd = exec.Command("ffmpeg", args...)

	var err error
	w.out, err = w.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to create pipe: %w", err)
	}

	stderr, err := w.cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("could not pipe command error: %w", err)
	}

	w.log.Info(pkg + "starting webcam")
	err = w.cmd.Start()
	if err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}
	w.log.Info(pkg + "webcam started")

	go func() {
		s := bufio.NewScanner(stderr)
		for s.Scan() {
			w.log.Debug(pkg+"ffmpeg", "stderr", s.Text())
		}
	}()

	w.stream = device.NewJPEGStream(jpeg.NewLexer(w.log, 0), w.out)
	w.isRunning = true
	return nil
}

// Stop will kill the ffmpeg process and close the output pipe.
func (w *Webcam) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.isRunning {
		return nil
	}
	w.isRunning = false
	w.stream.Close()
	if w.cmd == nil || w.cmd.Process == nil {
		return errors.New("ffmpeg process was never started")
	}
	err := w.cmd.Process.Kill()
	if err != nil {
		return fmt.Errorf("could not kill ffmpeg process: %w", err)
	}
	w.cmd.Wait()
	return nil
}

// Next returns the next frame captured by the webcam.
func (w *Webcam) Next(ctx context.Context) (image.Image, error) {
	w.mu.Lock()
	running, stream := w.isRunning, w.stream
	w.mu.Unlock()
	if !running {
		return nil, device.ErrNotRunning
	}
	return stream.Next(ctx)
}

// IsRunning is used to determine if the webcam is running.
func (w *Webcam) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.isRunning
}
