/*
DESCRIPTION
  file_test.go tests the MJPEG file source.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package file

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/jpeg"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ausocean/bgs/config"
	"github.com/ausocean/bgs/device"
	"github.com/ausocean/utils/logging"
)

// writeMJPEG writes n grey 8x8 frames of increasing brightness to a file and
// returns its path.
func writeMJPEG(t *testing.T, n int) string {
	var buf bytes.Buffer
	for i := 0; i < n; i++ {
		img := image.NewGray(image.Rect(0, 0, 8, 8))
		for j := range img.Pix {
			img.Pix[j] = uint8(40 * (i + 1))
		}
		if err := jpeg.Encode(&buf, img, nil); err != nil {
			t.Fatalf("could not encode frame: %v", err)
		}
	}
	path := filepath.Join(t.TempDir(), "video.mjpeg")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("could not write file: %v", err)
	}
	return path
}

func TestNext(t *testing.T) {
	d := New((*logging.TestLogger)(t))
	if err := d.Set(config.Config{InputPath: writeMJPEG(t, 3)}); err != nil {
		t.Fatalf("could not set device: %v", err)
	}
	if err := d.Start(); err != nil {
		t.Fatalf("could not start device: %v", err)
	}
	defer d.Stop()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		img, err := d.Next(ctx)
		if err != nil {
			t.Fatalf("could not get frame %d: %v", i, err)
		}
		if got := img.Bounds(); got != image.Rect(0, 0, 8, 8) {
			t.Errorf("unexpected bounds for frame %d: %v", i, got)
		}
		r, _, _, _ := img.At(4, 4).RGBA()
		if want := uint32(40 * (i + 1)); r>>8 < want-2 || r>>8 > want+2 {
			t.Errorf("unexpected value for frame %d: got %d, want %d", i, r>>8, want)
		}
	}
	for i := 0; i < 2; i++ {
		if _, err := d.Next(ctx); err != io.EOF {
			t.Errorf("expected io.EOF at end of file, got %v", err)
		}
	}
}

func TestLoop(t *testing.T) {
	d := NewWith((*logging.TestLogger)(t), writeMJPEG(t, 2), true, 0)
	if err := d.Start(); err != nil {
		t.Fatalf("could not start device: %v", err)
	}
	defer d.Stop()

	for i := 0; i < 7; i++ {
		if _, err := d.Next(context.Background()); err != nil {
			t.Fatalf("could not get frame %d: %v", i, err)
		}
	}
}

func TestIsRunning(t *testing.T) {
	d := NewWith((*logging.TestLogger)(t), writeMJPEG(t, 1), false, 0)
	if _, err := d.Next(context.Background()); !errors.Is(err, device.ErrNotRunning) {
		t.Errorf("expected ErrNotRunning before start, got %v", err)
	}

	if err := d.Start(); err != nil {
		t.Fatalf("could not start device %v", err)
	}
	if !d.IsRunning() {
		t.Error("device isn't running, when it should be")
	}

	if err := d.Stop(); err != nil {
		t.Error(err.Error())
	}
	if d.IsRunning() {
		t.Error("device is running, when it should not be")
	}
	if _, err := d.Next(context.Background()); !errors.Is(err, device.ErrNotRunning) {
		t.Errorf("expected ErrNotRunning after stop, got %v", err)
	}
}

func TestNextCancel(t *testing.T) {
	// A slow rate holds the lexer so that only the context can end Next.
	d := NewWith((*logging.TestLogger)(t), writeMJPEG(t, 2), false, 1)
	if err := d.Start(); err != nil {
		t.Fatalf("could not start device: %v", err)
	}
	defer d.Stop()

	if _, err := d.Next(context.Background()); err != nil {
		t.Fatalf("could not get first frame: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := d.Next(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestSet(t *testing.T) {
	d := New((*logging.TestLogger)(t))
	if err := d.Set(config.Config{}); err == nil {
		t.Error("expected error for empty input path")
	}
	if err := d.Start(); err == nil {
		t.Error("expected error starting unset device")
	}
}
