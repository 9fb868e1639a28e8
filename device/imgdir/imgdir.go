/*
DESCRIPTION
  imgdir.go provides an implementation of the Source interface for a
  directory of still images, optionally watched for new images.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package imgdir provides an implementation of device.Source that reads the
// PNG, JPEG and BMP images of a directory in lexical order of file name.
//
// When watching, images added to the directory after the existing ones are
// read are returned in order of arrival. Images should be moved into the
// directory whole, as an image is read as soon as its file is created.
package imgdir

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	_ "golang.org/x/image/bmp"

	"github.com/ausocean/bgs/config"
	"github.com/ausocean/bgs/device"
	"github.com/ausocean/utils/logging"
)

// Extensions of files treated as images.
var extensions = []string{".bmp", ".jpeg", ".jpg", ".png"}

// IsImage reports whether path names a file the source reads.
func IsImage(path string) bool {
	return slices.Contains(extensions, strings.ToLower(filepath.Ext(path)))
}

// Dir is an implementation of the device.Source interface for a directory
// of images.
type Dir struct {
	log       logging.Logger
	path      string
	watch     bool
	set       bool
	isRunning bool
	mu        sync.Mutex

	queue   []string          // Images not yet read, in reading order.
	seen    map[string]bool   // Images queued since Start.
	watcher *fsnotify.Watcher // Nil unless watching.
}

// New returns a new Dir.
func New(l logging.Logger) *Dir { return &Dir{log: l} }

// NewWith returns a new Dir with required params provided i.e. the Set
// method does not need to be called.
func NewWith(l logging.Logger, path string, watch bool) *Dir {
	return &Dir{log: l, path: path, watch: watch, set: true}
}

// Name returns the name of the device.
func (d *Dir) Name() string { return "ImageDir" }

// Set configures the source from the InputPath and Watch fields of c.
func (d *Dir) Set(c config.Config) error {
	var errs device.MultiError
	if c.InputPath == "" {
		errs = append(errs, errors.New("no input path for image directory"))
	} else if fi, err := os.Stat(c.InputPath); err != nil {
		errs = append(errs, fmt.Errorf("could not stat image directory: %w", err))
	} else if !fi.IsDir() {
		errs = append(errs, fmt.Errorf("%s is not a directory", c.InputPath))
	}
	if errs != nil {
		return errs
	}
	d.path = c.InputPath
	d.watch = c.Watch
	d.set = true
	return nil
}

// Start lists the images of the directory and, if watching, begins watching
// it for new images.
func (d *Dir) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.set {
		return errors.New("image directory has not been set with config")
	}
	if d.isRunning {
		return nil
	}

	// Watch before listing so that no image falls between the two.
	if d.watch {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("could not create watcher: %w", err)
		}
		err = w.Add(d.path)
		if err != nil {
			w.Close()
			return fmt.Errorf("could not watch %s: %w", d.path, err)
		}
		d.watcher = w
	}

	entries, err := os.ReadDir(d.path)
	if err != nil {
		if d.watcher != nil {
			d.watcher.Close()
			d.watcher = nil
		}
		return fmt.Errorf("could not read image directory: %w", err)
	}
	d.queue = d.queue[:0]
	d.seen = make(map[string]bool)
	for _, e := range entries {
		if e.IsDir() || !IsImage(e.Name()) {
			continue
		}
		p := filepath.Join(d.path, e.Name())
		d.queue = append(d.queue, p)
		d.seen[p] = true
	}
	d.log.Info("listed image directory", "path", d.path, "images", len(d.queue), "watch", d.watch)

	d.isRunning = true
	return nil
}

// Stop stops the source and any watching.
func (d *Dir) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.isRunning {
		return nil
	}
	d.isRunning = false
	if d.watcher == nil {
		return nil
	}
	err := d.watcher.Close()
	d.watcher = nil
	if err != nil {
		return fmt.Errorf("could not close watcher: %w", err)
	}
	return nil
}

// IsRunning is used to determine if the source is running.
func (d *Dir) IsRunning() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.isRunning
}

// Next returns the next image of the directory. Without watching, io.EOF is
// returned once every image has been read; with watching, Next waits for a
// new image until ctx is done.
func (d *Dir) Next(ctx context.Context) (image.Image, error) {
	for {
		d.mu.Lock()
		if !d.isRunning {
			d.mu.Unlock()
			return nil, device.ErrNotRunning
		}
		if len(d.queue) > 0 {
			p := d.queue[0]
			d.queue = d.queue[1:]
			d.mu.Unlock()
			return decode(p)
		}
		w := d.watcher
		d.mu.Unlock()

		if w == nil {
			return nil, io.EOF
		}
		err := d.wait(ctx, w)
		if err != nil {
			return nil, err
		}
	}
}

// wait blocks until the watcher reports at least one new image, which is
// queued.
func (d *Dir) wait(ctx context.Context, w *fsnotify.Watcher) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.Events:
			if !ok {
				return device.ErrNotRunning
			}
			if !event.Has(fsnotify.Create) || !IsImage(event.Name) {
				continue
			}
			d.mu.Lock()
			if d.seen[event.Name] {
				d.mu.Unlock()
				continue
			}
			d.seen[event.Name] = true
			d.queue = append(d.queue, event.Name)
			d.mu.Unlock()
			d.log.Debug("new image", "path", event.Name)
			return nil
		case err, ok := <-w.Errors:
			if !ok {
				return device.ErrNotRunning
			}
			d.log.Warning("watcher error", "error", err)
		}
	}
}

// decode reads the image at path.
func decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: could not open image: %w", device.ErrBadFrame, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: could not decode %s: %w", device.ErrBadFrame, path, err)
	}
	return img, nil
}
