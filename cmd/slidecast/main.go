package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/ivlev/slidecast/internal/config"
	"github.com/ivlev/slidecast/internal/engine"
	"github.com/ivlev/slidecast/internal/probe"
)

func main() {
	configPtr := flag.String("config", "", "Path to a YAML config file (flags override it)")
	audioPtr := flag.String("audio", "", "Path to the audio track (default: latest file in input/audio/)")
	photosPtr := flag.String("photos", "", "Path to the photos folder, or a PDF slide deck")
	outputPtr := flag.String("output", "", "Path to the rendered video")
	projectPtr := flag.String("project", "", "Write an editable project file instead of rendering")
	dumpPtr := flag.String("dump-schedule", "", "Also write the computed schedule as YAML")

	photoDurPtr := flag.Float64("photo-duration", 0, "Seconds per photo (default: 120)")
	fadePtr := flag.Float64("fade", -1, "Crossfade duration in seconds (default: 2)")
	transitionPtr := flag.String("transition", "", "xfade transition: fade, dissolve, wipeleft, none (default: fade)")
	introPtr := flag.Float64("intro", -1, "Intro screen duration in seconds (default: 180)")
	outroPtr := flag.Float64("outro", -1, "Outro screen duration in seconds (default: 60)")
	autoShrinkPtr := flag.Bool("auto-shrink", false, "Rescale intro/outro when they crowd out the slideshow")

	bgPtr := flag.String("bg-color", "", "Background color hex triplet (default: #000000)")
	titlePtr := flag.String("title", "", "Title text for the intro screen")
	copyrightPtr := flag.String("copyright", "", "Copyright text for the screens")
	qrPtr := flag.String("qr-link", "", "URL rendered as a QR code on the outro screen")

	envPtr := flag.Bool("env", false, "Print an environment report and exit")
	verbosePtr := flag.Bool("verbose", false, "Debug logging")

	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *envPtr {
		printEnvironment(ctx)
		return
	}

	cfg := config.Default()
	if *configPtr != "" {
		loaded, err := config.LoadFile(*configPtr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "[-] Config error: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	applyFlags(&cfg, *audioPtr, *photosPtr, *outputPtr, *projectPtr, *dumpPtr,
		*photoDurPtr, *fadePtr, *transitionPtr, *introPtr, *outroPtr, *autoShrinkPtr,
		*bgPtr, *titlePtr, *copyrightPtr, *qrPtr, *verbosePtr)

	if cfg.AudioPath == "" {
		latest, err := probe.FindLatestAudio("input/audio")
		if err != nil {
			fmt.Fprintf(os.Stderr, "[-] Error: %v. Pass -audio or put a file in input/audio/\n", err)
			os.Exit(1)
		}
		cfg.AudioPath = latest
		fmt.Printf("[*] Using audio: %s\n", cfg.AudioPath)
	}
	if cfg.PhotosPath == "" {
		fmt.Fprintln(os.Stderr, "[-] Error: -photos is required")
		os.Exit(1)
	}
	if cfg.OutputVideo == "" && cfg.OutputProject == "" {
		fmt.Fprintln(os.Stderr, "[-] Error: pass -output for a video or -project for a project file")
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "[-] Config error: %v\n", err)
		os.Exit(1)
	}

	level := zerolog.InfoLevel
	if cfg.Verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		Level(level).With().Timestamp().Logger()

	pipeline := engine.New(cfg, logger)
	if err := pipeline.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "[-] Error: %v\n", err)
		os.Exit(1)
	}

	if cfg.OutputProject != "" {
		fmt.Printf("[+++] Done! Project: %s\n", cfg.OutputProject)
	} else {
		fmt.Printf("[+++] Done! Video: %s\n", cfg.OutputVideo)
	}
}

func applyFlags(cfg *config.Config, audio, photos, output, proj, dump string,
	photoDur, fade float64, transition string, intro, outro float64, autoShrink bool,
	bg, title, copyright, qr string, verbose bool) {

	if audio != "" {
		cfg.AudioPath = audio
	}
	if photos != "" {
		cfg.PhotosPath = photos
	}
	if output != "" {
		cfg.OutputVideo = output
	}
	if proj != "" {
		cfg.OutputProject = proj
	}
	if dump != "" {
		cfg.DumpSchedule = dump
	}
	if photoDur > 0 {
		cfg.PhotoDuration = photoDur
	}
	if fade >= 0 {
		cfg.FadeDuration = fade
	}
	if transition != "" {
		cfg.TransitionType = transition
	}
	if intro >= 0 {
		cfg.IntroDuration = intro
	}
	if outro >= 0 {
		cfg.OutroDuration = outro
	}
	if autoShrink {
		cfg.AutoShrink = true
	}
	if bg != "" {
		cfg.BGColor = bg
	}
	if title != "" {
		cfg.Title = title
	}
	if copyright != "" {
		cfg.Copyright = copyright
	}
	if qr != "" {
		cfg.QRLink = qr
	}
	if verbose {
		cfg.Verbose = true
	}
}

func printEnvironment(ctx context.Context) {
	report := probe.EnvironmentReport(ctx)

	keys := make([]string, 0, len(report))
	for k := range report {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		fmt.Printf("%-18s %s\n", k, report[k])
	}
}
