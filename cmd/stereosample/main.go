package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"stereo-sample/internal/config"
	"stereo-sample/internal/display"
	"stereo-sample/internal/preview"
	"stereo-sample/internal/session"
	"stereo-sample/internal/snapshot"
	"stereo-sample/internal/swapchain"
	"stereo-sample/internal/tga"
	"stereo-sample/internal/window"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to a .json, .toml or .yaml config file")
	mode := flag.String("mode", "", "Content to show: cube or image (default: cube, or image when -image is set)")
	imagePath := flag.String("image", "", "Side-by-side stereo TGA to show in image mode")
	logLevel := flag.String("log-level", "", "debug, info, warn or error (default: info)")
	outputDir := flag.String("output", "", "Directory for WebP snapshots and manifest.json")
	streamAddr := flag.String("stream", "", "Serve an MJPEG preview on this address, e.g. 127.0.0.1:8023")
	headless := flag.Bool("headless", false, "Render without a window")
	windowed := flag.Bool("windowed", false, "Start in a window instead of fullscreen")
	frames := flag.Uint64("frames", 0, "Stop after N frames (headless; 0 = until interrupted)")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	if err := cfg.Resolve(config.Flags{
		Mode:       *mode,
		ImagePath:  *imagePath,
		LogLevel:   *logLevel,
		OutputDir:  *outputDir,
		StreamAddr: *streamAddr,
		Headless:   *headless,
		Windowed:   *windowed,
		Frames:     *frames,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	level, _ := cfg.Level()
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", category(err), err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) (err error) {
	disp, err := display.NewSimulated(display.SimulatedOptions{
		ViewWidth:   cfg.ViewWidth,
		ViewHeight:  cfg.ViewHeight,
		Views:       2,
		Convergence: cfg.Convergence,
		Baseline:    cfg.Baseline,
		Logger:      log,
	})
	if err != nil {
		return err
	}

	var sinks []swapchain.Sink
	if cfg.SnapshotEvery > 0 {
		snaps, serr := snapshot.New(snapshot.Options{Dir: cfg.OutputDir, Every: cfg.SnapshotEvery, Logger: log})
		if serr != nil {
			return serr
		}
		// Closed after the session so every queued frame is written.
		defer func() { err = errors.Join(err, snaps.Close()) }()
		sinks = append(sinks, snaps)
	}
	if cfg.StreamAddr != "" {
		stream := preview.NewStream(preview.Options{Addr: cfg.StreamAddr, MaxWidth: cfg.StreamMaxWidth, Logger: log})
		if err := stream.Start(); err != nil {
			return err
		}
		defer func() { err = errors.Join(err, stream.Close()) }()
		sinks = append(sinks, stream)
	}

	m, err := session.NewMode(cfg.Mode, cfg.ImagePath)
	if err != nil {
		return err
	}
	s, err := session.New(session.Options{
		Mode:         m,
		WindowWidth:  cfg.WindowWidth,
		WindowHeight: cfg.WindowHeight,
		Sinks:        sinks,
		Logger:       log,
	}, disp)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, s.Close()) }()

	if cfg.Headless {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		log.Info("running headless", "hz", cfg.Hz, "frames", cfg.Frames)
		return session.RunHeadless(ctx, s, session.HeadlessConfig{Hz: cfg.Hz, Frames: cfg.Frames})
	}

	return window.Run(s, window.Options{
		Title:      "Stereo Sample",
		Width:      cfg.WindowWidth,
		Height:     cfg.WindowHeight,
		Fullscreen: cfg.IsFullscreen(),
		Logger:     log,
	})
}

// category names the failure class for the operator.
func category(err error) string {
	var (
		de *tga.DecodeError
		ce *display.CollaboratorError
		ve *swapchain.DeviceError
	)
	switch {
	case errors.As(err, &de):
		return "Image decode error"
	case errors.As(err, &ce):
		return "Display error"
	case errors.As(err, &ve):
		return "Device error"
	}
	return "Error"
}
