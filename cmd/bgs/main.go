/*
DESCRIPTION
  bgs reads video frames from a file, image directory or webcam, separates
  each frame into background and foreground with a background subtraction
  algorithm and writes the masks, the learnt background, statistics and
  optionally the model itself.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package bgs is a command line driver for background subtraction.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"runtime/pprof"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/bgs/bgs"
	"github.com/ausocean/bgs/config"
	"github.com/ausocean/bgs/snapshot"
	"github.com/ausocean/utils/logging"
)

// Current software version.
const version = "v0.1.0"

// Logging configuration.
const (
	logMaxSize   = 500 // MB
	logMaxBackup = 10
	logMaxAge    = 28 // days
	logSuppress  = true
)

// Misc constants.
const (
	profilePath = "bgs.prof"
	pkg         = "bgs: "
)

// This is set to true if the 'profile' build tag is provided on build.
var canProfile = false

func main() {
	var (
		showVersion = flag.Bool("version", false, "show version")
		inputPtr    = flag.String("input", "", "MJPEG file, image directory, video file or /dev/videoN webcam")
		configPtr   = flag.String("config", "", "variable file, YAML or key=value lines")
		algPtr      = flag.String("algorithm", "", "algorithm: grimson, poppe, zivkovic or diff")
		outPtr      = flag.String("out", "", "directory for mask and background images")
		plotPtr     = flag.String("plot", "", "PNG file for a plot of the foreground fraction per frame")
		savePtr     = flag.String("save", "", "file the model is saved to on exit")
		loadPtr     = flag.String("load", "", "file a model is loaded from before the first frame")
		dbPtr       = flag.String("db", "", "SQLite database models are loaded from and saved to")
		watchPtr    = flag.Bool("watch", false, "wait for new images in an image directory")
		loopPtr     = flag.Bool("loop", false, "loop an MJPEG or video file")
		fpsPtr      = flag.Uint("fps", 0, "rate frames are read from an MJPEG file, 0 for unpaced")
		motionPtr   = flag.String("motion", "", "write only frames with motion to this MJPEG file instead of masks")
		metricsPtr  = flag.String("metrics", "", "listen address for a Prometheus /metrics endpoint")
		logPtr      = flag.String("log", "bgs.log", "log file")
		verbosePtr  = flag.String("v", "", "log level: Debug, Info, Warning, Error or Fatal")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	// Create lumberjack logger to handle logging to file.
	fileLog := &lumberjack.Logger{
		Filename:   *logPtr,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	defer fileLog.Close()

	// Create logger that we call methods on to log, which in turn writes to
	// stderr and the lumberjack logger.
	log := logging.New(logging.Info, io.MultiWriter(os.Stderr, fileLog), logSuppress)
	log.Info("starting bgs", "version", version)

	// If bgs has been built with the profile tag, then we'll start a CPU profile.
	if canProfile {
		profile(log)
		defer pprof.StopCPUProfile()
		log.Info("profiling started")
	}

	vars := map[string]string{}
	if *configPtr != "" {
		var err error
		vars, err = config.ReadFile(*configPtr)
		if err != nil {
			log.Fatal(pkg+"could not read config file", "error", err.Error())
		}
	}

	// Flags given on the command line override the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			vars[config.KeyInputPath] = *inputPtr
		case "algorithm":
			vars[config.KeyAlgorithm] = *algPtr
		case "out":
			vars[config.KeyOutputPath] = *outPtr
		case "watch":
			vars[config.KeyWatch] = strconv.FormatBool(*watchPtr)
		case "loop":
			vars[config.KeyLoop] = strconv.FormatBool(*loopPtr)
		case "fps":
			vars[config.KeyFileFPS] = strconv.FormatUint(uint64(*fpsPtr), 10)
		case "v":
			vars[config.KeyLogging] = *verbosePtr
		}
	})

	cfg := config.Config{Logger: log}
	cfg.Update(vars)
	err := cfg.Validate()
	if err != nil {
		log.Fatal(pkg+"invalid config", "error", err.Error())
	}
	log.SetLevel(cfg.LogLevel)
	if cfg.InputPath == "" {
		log.Fatal(pkg + "no input, use -input or InputPath")
	}

	alg, err := bgs.New(log, cfg.Algorithm, cfg.Params())
	if err != nil {
		log.Fatal(pkg+"could not create algorithm", "error", err.Error())
	}

	st, err := openStores(log, *loadPtr, *savePtr, *dbPtr)
	if err != nil {
		log.Fatal(pkg+"could not open snapshot store", "error", err.Error())
	}
	defer st.close()
	err = st.restore(alg)
	if err != nil {
		log.Fatal(pkg+"could not restore model", "error", err.Error())
	}

	src, err := openSource(cfg)
	if err != nil {
		log.Fatal(pkg+"could not open input", "error", err.Error())
	}
	err = src.Start()
	if err != nil {
		log.Fatal(pkg+"could not start input", "error", err.Error())
	}
	defer src.Stop()

	if *metricsPtr != "" {
		go serveMetrics(log, *metricsPtr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	r := &runner{log: log, alg: alg, src: src, out: cfg.OutputPath, cfg: cfg}
	if *motionPtr != "" {
		err = r.runMotion(ctx, *motionPtr)
	} else {
		err = r.run(ctx)
	}
	if err != nil {
		log.Error(pkg+"stopped on error", "error", err.Error())
	}
	r.summarise()

	if *plotPtr != "" {
		err = plotFractions(r.fractions, cfg.Algorithm.String(), *plotPtr)
		if err != nil {
			log.Error(pkg+"could not plot foreground fraction", "error", err.Error())
		}
	}

	err = st.save(alg, "exit")
	if err != nil {
		log.Error(pkg+"could not save model", "error", err.Error())
	}
}

// serveMetrics serves the Prometheus registry at /metrics on addr.
func serveMetrics(l logging.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	l.Info(pkg+"serving metrics", "addr", addr)
	err := http.ListenAndServe(addr, mux)
	if err != nil {
		l.Error(pkg+"metrics server stopped", "error", err.Error())
	}
}

// profile starts a CPU profile written to profilePath.
func profile(l logging.Logger) {
	f, err := os.Create(profilePath)
	if err != nil {
		l.Fatal(pkg+"could not create CPU profile", "error", err.Error())
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		l.Fatal(pkg+"could not start CPU profile", "error", err.Error())
	}
}

// stores holds the snapshot stores given on the command line.
type stores struct {
	log    logging.Logger
	from   snapshot.Store // Restored from before the first frame, may be nil.
	to     []snapshot.Store
	sqlite *snapshot.SQLiteStore
}

// openStores opens the stores named by the -load, -save and -db flags. A
// database is both loaded from and saved to; a -load file takes precedence
// over it for loading.
func openStores(l logging.Logger, load, save, db string) (*stores, error) {
	s := &stores{log: l}
	if db != "" {
		st, err := snapshot.OpenSQLite(l, db)
		if err != nil {
			return nil, err
		}
		s.sqlite = st
		s.from = st
		s.to = append(s.to, st)
	}
	if load != "" {
		s.from = snapshot.FileStore{Path: load}
	}
	if save != "" {
		s.to = append(s.to, snapshot.FileStore{Path: save})
	}
	return s, nil
}

// restore restores alg from the load store, if there is one and it holds a
// snapshot. Only mixture models are persisted.
func (s *stores) restore(alg bgs.Algorithm) error {
	g, ok := alg.(*bgs.GMM)
	if s.from == nil || !ok {
		return nil
	}
	snap, err := s.from.Load()
	if errors.Is(err, snapshot.ErrNotFound) {
		s.log.Info(pkg + "no snapshot to restore")
		return nil
	}
	if err != nil {
		return err
	}
	err = snap.Restore(g)
	if err != nil {
		return err
	}
	s.log.Info(pkg+"restored snapshot", "taken", snap.Taken(), "reason", snap.Reason)
	return nil
}

// save saves the model of alg to every save store.
func (s *stores) save(alg bgs.Algorithm, reason string) error {
	g, ok := alg.(*bgs.GMM)
	if len(s.to) == 0 || !ok {
		return nil
	}
	snap, err := snapshot.Take(g, reason)
	if err != nil {
		return err
	}
	for _, st := range s.to {
		err = st.Save(snap)
		if err != nil {
			return err
		}
	}
	s.log.Info(pkg+"saved snapshot", "stores", len(s.to), "reason", reason)
	return nil
}

func (s *stores) close() {
	if s.sqlite != nil {
		s.sqlite.Close()
	}
}
