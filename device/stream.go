/*
DESCRIPTION
  stream.go provides JPEGStream, which lexes an MJPEG byte stream into
  frames that are decoded on request.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package device

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"io"

	lex "github.com/ausocean/bgs/codec/jpeg"
)

// JPEGStream lexes JPEG frames from a reader on its own goroutine. Frames
// are handed over one at a time so that the lexer reads no further ahead of
// the consumer than a single frame.
type JPEGStream struct {
	frames chan []byte
	errc   chan error
	done   chan struct{}
}

// NewJPEGStream starts lexing src with lx.
func NewJPEGStream(lx *lex.Lexer, src io.Reader) *JPEGStream {
	s := &JPEGStream{
		frames: make(chan []byte),
		errc:   make(chan error, 1),
		done:   make(chan struct{}),
	}
	go s.lex(lx, src)
	return s
}

func (s *JPEGStream) lex(lx *lex.Lexer, src io.Reader) {
	err := lx.Lex(s, src)
	if err == nil {
		err = io.EOF
	}
	s.errc <- err
	close(s.frames)
}

// Write implements io.Writer for the lexer; each write is one frame.
func (s *JPEGStream) Write(p []byte) (int, error) {
	select {
	case s.frames <- p:
		return len(p), nil
	case <-s.done:
		return 0, ErrNotRunning
	}
}

// Next returns the next decoded frame. Once the stream has ended, the error
// that ended it is returned, io.EOF if src ended cleanly.
func (s *JPEGStream) Next(ctx context.Context) (image.Image, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case f, ok := <-s.frames:
		if !ok {
			err := <-s.errc
			s.errc <- err
			return nil, err
		}
		img, err := jpeg.Decode(bytes.NewReader(f))
		if err != nil {
			return nil, fmt.Errorf("%w: could not decode: %w", ErrBadFrame, err)
		}
		return img, nil
	}
}

// Close releases the lexer goroutine. The reader should be closed too, as
// the lexer may be blocked reading it.
func (s *JPEGStream) Close() {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
}
