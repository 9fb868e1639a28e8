/*
DESCRIPTION
  webcam_test.go tests the webcam source.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package webcam

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/ausocean/bgs/config"
	"github.com/ausocean/bgs/device"
	"github.com/ausocean/utils/logging"
	"github.com/google/go-cmp/cmp"
)

func TestSet(t *testing.T) {
	l := logging.New(logging.Debug, &bytes.Buffer{}, true) // Discard logs.
	d := New(l)

	err := d.Set(config.Config{Logger: l})
	var me device.MultiError
	if !errors.As(err, &me) || len(me) != 4 {
		t.Errorf("expected four defaulted fields, got %v", err)
	}

	want := []string{"-i", "/dev/video0", "-r", "25", "-s", "1280x720", "-f", "mjpeg", "-"}
	if got := d.args(); !cmp.Equal(got, want) {
		t.Errorf("unexpected ffmpeg args.\nGot: %v\nWant: %v", got, want)
	}

	err = d.Set(config.Config{Logger: l, InputPath: "/dev/video2", Width: 640, Height: 480, FrameRate: 10})
	if err != nil {
		t.Errorf("unexpected error for valid config: %v", err)
	}
	want = []string{"-i", "/dev/video2", "-r", "10", "-s", "640x480", "-f", "mjpeg", "-"}
	if got := d.args(); !cmp.Equal(got, want) {
		t.Errorf("unexpected ffmpeg args.\nGot: %v\nWant: %v", got, want)
	}
}

func TestIsWebcam(t *testing.T) {
	for path, want := range map[string]bool{
		"/dev/video0":    true,
		"/dev/video12":   true,
		"/dev/null":      false,
		"video.mjpeg":    false,
		"/tmp/dev/video": false,
	} {
		if got := IsWebcam(path); got != want {
			t.Errorf("IsWebcam(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestIsRunning(t *testing.T) {
	const dur = 250 * time.Millisecond

	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not available")
	}
	if _, err := os.Stat(defaultInputPath); err != nil {
		t.Skip("no webcam available")
	}

	l := logging.New(logging.Debug, &bytes.Buffer{}, true) // Discard logs.
	d := New(l)

	err := d.Set(config.Config{Logger: l})
	if err != nil {
		t.Logf("device set with defaults: %v", err)
	}

	err = d.Start()
	if err != nil {
		t.Fatalf("could not start device %v", err)
	}

	time.Sleep(dur)

	if !d.IsRunning() {
		t.Error("device isn't running, when it should be")
	}

	err = d.Stop()
	if err != nil {
		t.Error(err.Error())
	}

	if d.IsRunning() {
		t.Error("device is running, when it should not be")
	}
}
