/*
DESCRIPTION
  rows.go provides the banded row loop used to spread per-pixel work over
  goroutines within one frame.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package bgs

import (
	"runtime"
	"sync"
)

// workerCount resolves a Workers parameter.
func workerCount(n int) int {
	if n <= 0 {
		return runtime.NumCPU()
	}
	return n
}

// rows calls fn over [0, h) split into at most n contiguous bands, each in
// its own goroutine, and returns once all bands are done.
func rows(h, n int, fn func(y0, y1 int)) {
	if n > h {
		n = h
	}
	if n <= 1 {
		fn(0, h)
		return
	}
	step := (h + n - 1) / n
	var wg sync.WaitGroup
	for y := 0; y < h; y += step {
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			fn(y0, y1)
		}(y, min(y+step, h))
	}
	wg.Wait()
}
