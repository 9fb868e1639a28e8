/*
DESCRIPTION
  run.go provides the frame loop of bgs.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/ausocean/bgs/bgs"
	"github.com/ausocean/bgs/config"
	"github.com/ausocean/bgs/device"
	"github.com/ausocean/bgs/filter"
	"github.com/ausocean/utils/logging"
)

// runner applies an algorithm to the frames of a source.
type runner struct {
	log logging.Logger
	alg bgs.Algorithm
	src device.Source
	out string // Directory for masks and backgrounds, none if empty.
	cfg config.Config

	frames    int
	fractions []float64 // Foreground fraction of the low mask of each frame.
}

// run subtracts every frame of the source until it is exhausted or ctx is
// done, writing masks and backgrounds to the output directory.
func (r *runner) run(ctx context.Context) error {
	if r.out != "" {
		err := os.MkdirAll(r.out, 0o755)
		if err != nil {
			return fmt.Errorf("could not create output directory: %w", err)
		}
	}

	name := r.cfg.Algorithm.String()
	for {
		img, err := r.next(ctx)
		if err != nil {
			return err
		}
		if img == nil {
			return nil
		}

		start := time.Now()
		low, high, err := r.alg.Subtract(img)
		if err != nil {
			return fmt.Errorf("could not subtract frame %d: %w", r.frames, err)
		}
		err = r.alg.Update(img, low)
		if err != nil {
			return fmt.Errorf("could not update with frame %d: %w", r.frames, err)
		}
		subtractDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())

		f := fraction(low)
		r.fractions = append(r.fractions, f)
		framesProcessed.WithLabelValues(name).Inc()
		foregroundFraction.WithLabelValues(name).Set(f)
		r.log.Debug(pkg+"subtracted frame", "frame", r.frames, "foreground", f)

		if r.out != "" {
			err = r.write(low, high, r.alg.Background())
			if err != nil {
				return err
			}
		}
		r.frames++
	}
}

// runMotion writes the frames of the source holding motion to the MJPEG
// file at path.
func (r *runner) runMotion(ctx context.Context, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create motion file: %w", err)
	}
	defer f.Close()

	dst := &counter{w: f}
	m := filter.NewMotion(dst, r.alg, r.cfg)
	var buf bytes.Buffer
	for {
		img, err := r.next(ctx)
		if err != nil {
			m.Close()
			return err
		}
		if img == nil {
			break
		}

		buf.Reset()
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
		if err != nil {
			m.Close()
			return fmt.Errorf("could not encode frame %d: %w", r.frames, err)
		}
		_, err = m.Write(buf.Bytes())
		if err != nil {
			m.Close()
			return fmt.Errorf("could not filter frame %d: %w", r.frames, err)
		}
		r.frames++
	}
	err = m.Close()
	if err != nil {
		return fmt.Errorf("could not close motion filter: %w", err)
	}

	r.fractions = m.Fractions()
	mean, std := m.Stats()
	r.log.Info(pkg+"motion filtered", "frames", r.frames, "kept", dst.n, "mean", mean, "std", std)
	return nil
}

// next returns the next frame, or nil when the source is exhausted or ctx is
// done. Frames that cannot be decoded are skipped.
func (r *runner) next(ctx context.Context) (image.Image, error) {
	for {
		img, err := r.src.Next(ctx)
		switch {
		case err == nil:
			return img, nil
		case errors.Is(err, io.EOF), ctx.Err() != nil:
			return nil, nil
		case errors.Is(err, device.ErrBadFrame):
			r.log.Warning(pkg+"skipping frame", "error", err.Error())
		default:
			return nil, err
		}
	}
}

// write writes the masks and background of the current frame as PNG files.
func (r *runner) write(low, high *image.Gray, bg image.Image) error {
	imgs := []struct {
		name string
		img  image.Image
	}{
		{"low", low},
		{"high", high},
		{"bg", bg},
	}
	for _, i := range imgs {
		if i.img == nil {
			continue
		}
		err := writePNG(filepath.Join(r.out, fmt.Sprintf("%06d_%s.png", r.frames, i.name)), i.img)
		if err != nil {
			return err
		}
	}
	return nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", path, err)
	}
	err = png.Encode(f, img)
	if err != nil {
		f.Close()
		return fmt.Errorf("could not encode %s: %w", path, err)
	}
	return f.Close()
}

// summarise logs statistics of the foreground fraction over all frames.
func (r *runner) summarise() {
	switch len(r.fractions) {
	case 0:
		r.log.Info(pkg+"finished", "frames", r.frames)
	case 1:
		r.log.Info(pkg+"finished", "frames", r.frames, "foreground", r.fractions[0])
	default:
		mean, std := stat.MeanStdDev(r.fractions, nil)
		r.log.Info(pkg+"finished", "frames", r.frames, "mean foreground", mean, "std foreground", std)
	}
}

// fraction returns the fraction of foreground pixels in mask.
func fraction(mask *image.Gray) float64 {
	if len(mask.Pix) == 0 {
		return 0
	}
	var n int
	for _, p := range mask.Pix {
		if p == bgs.Foreground {
			n++
		}
	}
	return float64(n) / float64(len(mask.Pix))
}

// counter is an io.WriteCloser counting the writes, frames, it passes on.
type counter struct {
	w io.Writer
	n int
}

func (c *counter) Write(p []byte) (int, error) {
	c.n++
	return c.w.Write(p)
}

func (c *counter) Close() error { return nil }
