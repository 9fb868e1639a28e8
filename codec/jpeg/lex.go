/*
NAME
  lex.go

DESCRIPTION
  lex.go provides a lexer to extract separate JPEG images from a JPEG stream.
  This could either be a series of discrete JPEG images, or an MJPEG stream.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package jpeg provides lexing of MJPEG streams into JPEG frames.
package jpeg

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/ausocean/utils/logging"
)

// MaxFrameSize is the largest JPEG frame the lexer will buffer.
const MaxFrameSize = 16 << 20

var (
	soi = []byte{0xff, 0xd8}

	noDelay = make(chan time.Time)
)

func init() {
	close(noDelay)
}

// Lexer splits a stream of concatenated JPEG images into single images.
type Lexer struct {
	log    logging.Logger
	delay  time.Duration
	frames int
}

// NewLexer returns a Lexer that performs successive writes not earlier than
// delay apart. A zero delay writes frames as soon as they are complete.
func NewLexer(l logging.Logger, delay time.Duration) *Lexer {
	return &Lexer{log: l, delay: delay}
}

// Frames returns the number of frames written by the lexer.
func (lx *Lexer) Frames() int { return lx.frames }

// Lex parses JPEG frames read from src into separate writes to dst. It
// returns nil when src ends on a frame boundary and io.ErrUnexpectedEOF when
// it ends within a frame.
func (lx *Lexer) Lex(dst io.Writer, src io.Reader) error {
	var tick <-chan time.Time
	if lx.delay == 0 {
		tick = noDelay
	} else {
		ticker := time.NewTicker(lx.delay)
		defer ticker.Stop()
		tick = ticker.C
	}

	r := bufio.NewReader(src)
	for {
		buf := make([]byte, 2, 4<<10)
		_, err := io.ReadFull(r, buf)
		switch err {
		case nil:
		case io.EOF:
			return nil
		default:
			return err
		}

		if !bytes.Equal(buf, soi) {
			return fmt.Errorf("lexer: not JPEG frame start: %#v", buf)
		}

		nImg := 1

		var last byte
		for {
			b, err := r.ReadByte()
			if err != nil {
				if err == io.EOF {
					return io.ErrUnexpectedEOF
				}
				return err
			}

			buf = append(buf, b)
			if len(buf) > MaxFrameSize {
				return fmt.Errorf("lexer: frame exceeds %d bytes", MaxFrameSize)
			}

			switch {
			case last == 0xff && b == 0xd8:
				nImg++
			case last == 0xff && b == 0xd9:
				nImg--
			}

			if nImg == 0 {
				<-tick
				lx.log.Debug("writing buf", "len(buf)", len(buf))
				_, err = dst.Write(buf)
				if err != nil {
					return err
				}
				lx.frames++
				break
			}

			last = b
		}
	}
}

// Lex parses JPEG frames read from src into separate writes to dst with
// successive writes being performed not earlier than the specified delay.
func Lex(l logging.Logger, dst io.Writer, src io.Reader, delay time.Duration) error {
	return NewLexer(l, delay).Lex(dst, src)
}
