/*
DESCRIPTION
  plot.go plots the foreground fraction of each frame.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package main

import (
	"errors"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// plotFractions saves a line plot of the foreground fraction against frame
// number to path, in the format given by its extension.
func plotFractions(fractions []float64, name, path string) error {
	if len(fractions) == 0 {
		return errors.New("no frames to plot")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Foreground fraction (%s)", name)
	p.X.Label.Text = "Frame"
	p.Y.Label.Text = "Fraction"
	p.Y.Min = 0
	p.Y.Max = 1

	pts := make(plotter.XYs, len(fractions))
	for i, f := range fractions {
		pts[i] = plotter.XY{X: float64(i), Y: f}
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("could not create line: %w", err)
	}
	line.Width = vg.Points(1)
	p.Add(line)
	p.Add(plotter.NewGrid())

	err = p.Save(10*vg.Inch, 4*vg.Inch, path)
	if err != nil {
		return fmt.Errorf("could not save plot: %w", err)
	}
	return nil
}
