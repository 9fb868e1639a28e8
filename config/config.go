/*
NAME
  config.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package config contains the configuration settings for a background
// subtraction stream.
package config

import (
	"github.com/ausocean/bgs/bgs"
	"github.com/ausocean/utils/logging"
)

// Config provides parameters relevant to a background subtraction stream.
// Unset or invalid fields are given defaults by Validate, some of which
// depend on the chosen Algorithm.
type Config struct {
	// Logger holds an implementation of the Logger interface.
	// This must be set for the config to be updated or validated.
	Logger logging.Logger

	// LogLevel is the logging verbosity level.
	// Valid values are defined by enums from the logger package: logging.Debug,
	// logging.Info, logging.Warning logging.Error, logging.Fatal.
	LogLevel int8

	Suppress bool // Holds logger suppression state.

	// Algorithm is the background model used: bgs.KindGrimson,
	// bgs.KindPoppe, bgs.KindZivkovic or bgs.KindDifference.
	Algorithm bgs.Kind

	Alpha    float64 // Learning rate of the mixture models, in (0, 1].
	MaxModes uint    // Mode capacity of each pixel.

	// LowThreshold and HighThreshold are the squared distance thresholds, in
	// units of mode variance for the mixture models and intensity units for
	// frame differencing. HighThreshold is never below LowThreshold.
	LowThreshold  float64
	HighThreshold float64

	BackgroundProportion float64 // Cumulative weight of the modes treated as background.
	InitialVariance      float64 // Variance given to new modes.
	CGC                  float64 // Gradual change continuity factor (poppe only).
	ComplexityPrior      float64 // Weight penalty that discards unsupported modes (zivkovic only).

	// Workers is the number of goroutines a frame is split over. Zero uses
	// one per CPU.
	Workers uint

	MotionDownscaling uint // Downscaling factor of frames used for motion detection.
	MotionInterval    uint // Sets the number of frames that are held before the filter is used (on the nth frame).
	MotionPadding     uint // Number of frames to keep before and after motion detected.
	MotionPixels      uint // Number of foreground pixels needed for a whole frame to be considered as moving.

	// InputPath is the frame source: an MJPEG file, a directory of images or
	// a video file.
	InputPath string

	Loop  bool // If true, an MJPEG file source restarts at the end of the file.
	Watch bool // If true, an image directory source waits for new images.

	// OutputPath is the directory masks and backgrounds are written to.
	OutputPath string

	FileFPS uint // Defines the rate at which frames from a file source are processed.

	// Capture settings of a webcam source.
	Width     uint // Width of frames in pixels.
	Height    uint // Height of frames in pixels.
	FrameRate uint // Frame rate in frames per second.
}

// Validate checks for any errors in the config fields and defaults settings
// if particular parameters have not been defined.
func (c *Config) Validate() error {
	for _, v := range Variables {
		if v.Validate != nil {
			v.Validate(c)
		}
	}
	return nil
}

// Update takes a map of configuration variable names and their corresponding
// values, parses the string values and converting into correct type, and then
// sets the config struct fields as appropriate.
func (c *Config) Update(vars map[string]string) {
	for _, value := range Variables {
		if v, ok := vars[value.Name]; ok && value.Update != nil {
			value.Update(c, v)
		}
	}
}

func (c *Config) LogInvalidField(name string, def interface{}) {
	c.Logger.Info(name+" bad or unset, defaulting", name, def)
}

// Params returns the algorithm parameters held by c.
func (c *Config) Params() bgs.Params {
	return bgs.Params{
		Alpha:                c.Alpha,
		MaxModes:             int(c.MaxModes),
		LowThreshold:         c.LowThreshold,
		HighThreshold:        c.HighThreshold,
		BackgroundProportion: c.BackgroundProportion,
		InitialVariance:      c.InitialVariance,
		CGC:                  c.CGC,
		ComplexityPrior:      c.ComplexityPrior,
		Workers:              int(c.Workers),
	}
}
