/*
DESCRIPTION
  variables.go contains a list of structs that provide a variable Name, type in
  a string format, a function for updating the variable in the Config struct
  from a string, and finally, a validation function to check the validity of the
  corresponding field value in the Config.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ausocean/bgs/bgs"
	"github.com/ausocean/utils/logging"
)

// Config map Keys.
const (
	KeyAlgorithm            = "Algorithm"
	KeyAlpha                = "Alpha"
	KeyBackgroundProportion = "BackgroundProportion"
	KeyCGC                  = "CGC"
	KeyComplexityPrior      = "ComplexityPrior"
	KeyFileFPS              = "FileFPS"
	KeyFrameRate            = "FrameRate"
	KeyHeight               = "Height"
	KeyHighThreshold        = "HighThreshold"
	KeyInitialVariance      = "InitialVariance"
	KeyInputPath            = "InputPath"
	KeyLogging              = "logging"
	KeyLoop                 = "Loop"
	KeyLowThreshold         = "LowThreshold"
	KeyMaxModes             = "MaxModes"
	KeyMotionDownscaling    = "MotionDownscaling"
	KeyMotionInterval       = "MotionInterval"
	KeyMotionPadding        = "MotionPadding"
	KeyMotionPixels         = "MotionPixels"
	KeyOutputPath           = "OutputPath"
	KeySuppress             = "Suppress"
	KeyWatch                = "Watch"
	KeyWidth                = "Width"
	KeyWorkers              = "Workers"
)

// Config map parameter types.
const (
	typeString = "string"
	typeUint   = "uint"
	typeBool   = "bool"
	typeFloat  = "float"
)

// Default variable values.
const (
	defaultAlgorithm  = bgs.KindGrimson
	defaultVerbosity  = logging.Error
	defaultOutputPath = "out"

	// Motion filter parameter defaults.
	defaultMotionDownscaling = 1
	defaultMotionInterval    = 1
	defaultMotionPixels      = 1000

	// Largest number of modes a pixel may be given.
	maxModes = 255
)

// Variables describes the variables that can be used for stream control.
// These structs provide the name and type of variable, a function for updating
// this variable in a Config, and a function for validating the value of the variable.
//
// Algorithm is first so that the defaults of the variables after it follow
// the chosen algorithm.
var Variables = []struct {
	Name     string
	Type     string
	Update   func(*Config, string)
	Validate func(*Config)
}{
	{
		Name: KeyAlgorithm,
		Type: "enum:grimson,poppe,zivkovic,diff",
		Update: func(c *Config, v string) {
			k, err := bgs.ParseKind(v)
			if err != nil {
				c.Logger.Warning("invalid Algorithm param", "value", v)
				return
			}
			c.Algorithm = k
		},
		Validate: func(c *Config) {
			switch c.Algorithm {
			case bgs.KindGrimson, bgs.KindPoppe, bgs.KindZivkovic, bgs.KindDifference:
			default:
				c.LogInvalidField(KeyAlgorithm, defaultAlgorithm.String())
				c.Algorithm = defaultAlgorithm
			}
		},
	},
	{
		Name:   KeyAlpha,
		Type:   typeFloat,
		Update: func(c *Config, v string) { parseFloat(KeyAlpha, v, &c.Alpha, c) },
		Validate: func(c *Config) {
			if c.Alpha <= 0 || c.Alpha > 1 {
				c.Alpha = defaults(c).Alpha
				c.LogInvalidField(KeyAlpha, c.Alpha)
			}
		},
	},
	{
		Name:   KeyBackgroundProportion,
		Type:   typeFloat,
		Update: func(c *Config, v string) { parseFloat(KeyBackgroundProportion, v, &c.BackgroundProportion, c) },
		Validate: func(c *Config) {
			if c.BackgroundProportion <= 0 || c.BackgroundProportion > 1 {
				c.BackgroundProportion = defaults(c).BackgroundProportion
				c.LogInvalidField(KeyBackgroundProportion, c.BackgroundProportion)
			}
		},
	},
	{
		Name:   KeyCGC,
		Type:   typeFloat,
		Update: func(c *Config, v string) { parseFloat(KeyCGC, v, &c.CGC, c) },
		Validate: func(c *Config) {
			if c.CGC < 0 || (c.CGC == 0 && c.Algorithm == bgs.KindPoppe) {
				c.CGC = defaults(c).CGC
				c.LogInvalidField(KeyCGC, c.CGC)
			}
		},
	},
	{
		Name:   KeyComplexityPrior,
		Type:   typeFloat,
		Update: func(c *Config, v string) { parseFloat(KeyComplexityPrior, v, &c.ComplexityPrior, c) },
		Validate: func(c *Config) {
			if c.ComplexityPrior < 0 || c.ComplexityPrior >= 1 || (c.ComplexityPrior == 0 && c.Algorithm == bgs.KindZivkovic) {
				c.ComplexityPrior = defaults(c).ComplexityPrior
				c.LogInvalidField(KeyComplexityPrior, c.ComplexityPrior)
			}
		},
	},
	{
		Name:   KeyFileFPS,
		Type:   typeUint,
		Update: func(c *Config, v string) { parseUint(KeyFileFPS, v, &c.FileFPS, c) },
	},
	{
		Name:   KeyFrameRate,
		Type:   typeUint,
		Update: func(c *Config, v string) { parseUint(KeyFrameRate, v, &c.FrameRate, c) },
	},
	{
		Name:   KeyHeight,
		Type:   typeUint,
		Update: func(c *Config, v string) { parseUint(KeyHeight, v, &c.Height, c) },
	},
	{
		Name:   KeyInitialVariance,
		Type:   typeFloat,
		Update: func(c *Config, v string) { parseFloat(KeyInitialVariance, v, &c.InitialVariance, c) },
		Validate: func(c *Config) {
			const minVariance = 4
			if c.InitialVariance < minVariance {
				c.InitialVariance = defaults(c).InitialVariance
				c.LogInvalidField(KeyInitialVariance, c.InitialVariance)
			}
		},
	},
	{
		Name:   KeyInputPath,
		Type:   typeString,
		Update: func(c *Config, v string) { c.InputPath = v },
	},
	{
		Name: KeyLogging,
		Type: "enum:Debug,Info,Warning,Error,Fatal",
		Update: func(c *Config, v string) {
			switch v {
			case "Debug":
				c.LogLevel = logging.Debug
			case "Info":
				c.LogLevel = logging.Info
			case "Warning":
				c.LogLevel = logging.Warning
			case "Error":
				c.LogLevel = logging.Error
			case "Fatal":
				c.LogLevel = logging.Fatal
			default:
				c.Logger.Warning("invalid Logging param", "value", v)
			}
		},
		Validate: func(c *Config) {
			switch c.LogLevel {
			case logging.Debug, logging.Info, logging.Warning, logging.Error, logging.Fatal:
			default:
				c.LogInvalidField("LogLevel", defaultVerbosity)
				c.LogLevel = defaultVerbosity
			}
		},
	},
	{
		Name: KeyLoop,
		Type: typeBool,
		Update: func(c *Config, v string) {
			if b, ok := parseBool(KeyLoop, v, c); ok {
				c.Loop = b
			}
		},
	},
	{
		Name:   KeyLowThreshold,
		Type:   typeFloat,
		Update: func(c *Config, v string) { parseFloat(KeyLowThreshold, v, &c.LowThreshold, c) },
		Validate: func(c *Config) {
			if c.LowThreshold <= 0 {
				c.LowThreshold = defaults(c).LowThreshold
				c.LogInvalidField(KeyLowThreshold, c.LowThreshold)
			}
		},
	},
	{
		// Validated after LowThreshold, which it must not be below.
		Name:   KeyHighThreshold,
		Type:   typeFloat,
		Update: func(c *Config, v string) { parseFloat(KeyHighThreshold, v, &c.HighThreshold, c) },
		Validate: func(c *Config) {
			if c.HighThreshold < c.LowThreshold {
				c.HighThreshold = 2 * c.LowThreshold
				c.LogInvalidField(KeyHighThreshold, c.HighThreshold)
			}
		},
	},
	{
		Name:   KeyMaxModes,
		Type:   typeUint,
		Update: func(c *Config, v string) { parseUint(KeyMaxModes, v, &c.MaxModes, c) },
		Validate: func(c *Config) {
			if c.MaxModes == 0 || c.MaxModes > maxModes {
				c.MaxModes = uint(defaults(c).MaxModes)
				c.LogInvalidField(KeyMaxModes, c.MaxModes)
			}
		},
	},
	{
		Name:     KeyMotionDownscaling,
		Type:     typeUint,
		Update:   func(c *Config, v string) { parseUint(KeyMotionDownscaling, v, &c.MotionDownscaling, c) },
		Validate: func(c *Config) { c.MotionDownscaling = lessThanOrEqual(KeyMotionDownscaling, c.MotionDownscaling, 0, c, defaultMotionDownscaling) },
	},
	{
		Name:     KeyMotionInterval,
		Type:     typeUint,
		Update:   func(c *Config, v string) { parseUint(KeyMotionInterval, v, &c.MotionInterval, c) },
		Validate: func(c *Config) { c.MotionInterval = lessThanOrEqual(KeyMotionInterval, c.MotionInterval, 0, c, defaultMotionInterval) },
	},
	{
		Name:   KeyMotionPadding,
		Type:   typeUint,
		Update: func(c *Config, v string) { parseUint(KeyMotionPadding, v, &c.MotionPadding, c) },
	},
	{
		Name:     KeyMotionPixels,
		Type:     typeUint,
		Update:   func(c *Config, v string) { parseUint(KeyMotionPixels, v, &c.MotionPixels, c) },
		Validate: func(c *Config) { c.MotionPixels = lessThanOrEqual(KeyMotionPixels, c.MotionPixels, 0, c, defaultMotionPixels) },
	},
	{
		Name:   KeyOutputPath,
		Type:   typeString,
		Update: func(c *Config, v string) { c.OutputPath = v },
		Validate: func(c *Config) {
			if c.OutputPath == "" {
				c.LogInvalidField(KeyOutputPath, defaultOutputPath)
				c.OutputPath = defaultOutputPath
			}
		},
	},
	{
		Name: KeySuppress,
		Type: typeBool,
		Update: func(c *Config, v string) {
			if b, ok := parseBool(KeySuppress, v, c); ok {
				c.Suppress = b
			}
		},
	},
	{
		Name: KeyWatch,
		Type: typeBool,
		Update: func(c *Config, v string) {
			if b, ok := parseBool(KeyWatch, v, c); ok {
				c.Watch = b
			}
		},
	},
	{
		Name:   KeyWidth,
		Type:   typeUint,
		Update: func(c *Config, v string) { parseUint(KeyWidth, v, &c.Width, c) },
	},
	{
		Name:   KeyWorkers,
		Type:   typeUint,
		Update: func(c *Config, v string) { parseUint(KeyWorkers, v, &c.Workers, c) },
	},
}

// defaults returns the algorithm parameter defaults for the algorithm of c.
func defaults(c *Config) bgs.Params { return bgs.DefaultParams(c.Algorithm) }

// parseUint sets *dst to v if v is an unsigned integer, otherwise it logs a
// warning and leaves *dst unchanged. The same holds for parseFloat.
func parseUint(n, v string, dst *uint, c *Config) {
	_v, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
	if err != nil {
		c.Logger.Warning(fmt.Sprintf("expected unsigned int for param %s", n), "value", v)
		return
	}
	*dst = uint(_v)
}

func parseFloat(n, v string, dst *float64, c *Config) {
	_v, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		c.Logger.Warning(fmt.Sprintf("expected float for param %s", n), "value", v)
		return
	}
	*dst = _v
}

func parseBool(n, v string, c *Config) (b, ok bool) {
	switch strings.ToLower(v) {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		c.Logger.Warning(fmt.Sprintf("expect bool for param %s", n), "value", v)
	}
	return false, false
}

func lessThanOrEqual(n string, v, cmp uint, c *Config, def uint) uint {
	if v <= cmp {
		c.LogInvalidField(n, def)
		return def
	}
	return v
}
