/*
NAME
  filter.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package filter provides filters for lexed JPEG frame streams that pass on
// only the frames in which a background model finds motion.
package filter

import (
	"io"
)

// Interface for all filters.
type Filter interface {
	io.WriteCloser
}

// The NoOp filter will perform no operation on the data that is being received,
// it will pass it on to the destination with no changes.
type NoOp struct {
	dst io.Writer
}

func NewNoOp(dst io.Writer) *NoOp { return &NoOp{dst: dst} }

func (n *NoOp) Write(p []byte) (int, error) { return n.dst.Write(p) }

func (n *NoOp) Close() error { return nil }
