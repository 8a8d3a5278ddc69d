// ABOUTME: Entry point for the Sendspin MIDI synthesizer
// ABOUTME: Parses CLI flags, sets up the shared synthesis context and runs a mode
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Sendspin/sendspin-midi/internal/live"
	"github.com/Sendspin/sendspin-midi/internal/sequencer"
	"github.com/Sendspin/sendspin-midi/internal/version"
	"github.com/Sendspin/sendspin-midi/pkg/midisynth"
	"github.com/Sendspin/sendspin-midi/pkg/synth/melty"
	"github.com/Sendspin/sendspin-midi/pkg/vio"
)

var (
	soundfont    = flag.String("soundfont", midisynth.DefaultSoundfontName, "Soundfont file, or resource name with -soundfont-url")
	soundfontURL = flag.String("soundfont-url", "", "Base URL to download the soundfont from")
	sampleRate   = flag.Int("rate", midisynth.DefaultSampleRate, "Output sample rate in Hz")
	gain         = flag.Float64("gain", 0.6, "Synth master gain (must be > 0)")
	polyphony    = flag.Int("polyphony", 256, "Maximum simultaneous voices per synth (must be > 0)")
	outFile      = flag.String("out", "", "Render a single MIDI file to this WAV path")
	outDir       = flag.String("out-dir", "", "Render every MIDI file into this directory as WAV")
	play         = flag.Bool("play", false, "Play MIDI files through the audio device")
	listen       = flag.Bool("listen", false, "Play messages from a MIDI input port")
	port         = flag.Int("port", 0, "MIDI input port index for -listen")
	listPorts    = flag.Bool("ports", false, "List MIDI input ports and exit")
	loop         = flag.Bool("loop", false, "Loop playback")
	tail         = flag.Duration("tail", 2*time.Second, "Audio rendered after the last event")
	logFile      = flag.String("log-file", "sendspin-midi.log", "Log file path")
	noTUI        = flag.Bool("no-tui", false, "Disable TUI, use streaming logs instead")
	showVersion  = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [file.mid ...]\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	if *listPorts {
		ports, err := live.Ports()
		if err != nil {
			log.Fatalf("Failed to list MIDI ports: %v", err)
		}
		for i, name := range ports {
			fmt.Printf("%d: %s\n", i, name)
		}
		return
	}

	files := flag.Args()
	rendering := *outFile != "" || *outDir != ""
	playing := *play || *listen

	switch {
	case rendering && playing:
		log.Fatalf("-out/-out-dir cannot be combined with -play/-listen")
	case rendering && len(files) == 0:
		log.Fatalf("No MIDI files to render")
	case *play && !*listen && len(files) == 0:
		log.Fatalf("No MIDI files to play")
	case !rendering && !playing:
		flag.Usage()
		os.Exit(2)
	}

	if err := validateSynthFlags(*sampleRate, *gain, *polyphony); err != nil {
		log.Fatalf("%v", err)
	}

	useTUI := playing && !*noTUI

	// Set up logging
	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		// TUI mode: log only to file
		log.SetOutput(f)
	} else {
		multiWriter := io.MultiWriter(os.Stdout, f)
		log.SetOutput(multiWriter)
	}

	log.Printf("Starting %s %s", version.Product, version.Version)

	provider, name, cleanup, err := buildProvider(*soundfont, *soundfontURL)
	if err != nil {
		log.Fatalf("Failed to set up soundfont provider: %v", err)
	}
	defer cleanup()

	synthCtx := midisynth.NewContext(midisynth.Config{
		Engine:        melty.New(),
		Provider:      provider,
		SoundfontName: name,
		SampleRate:    *sampleRate,
		Gain:          float32(*gain),
		Polyphony:     *polyphony,
		OnError: func(err error) {
			log.Printf("Decoder error: %v", err)
		},
	})

	if err := synthCtx.Initialize(); err != nil {
		log.Fatalf("Failed to initialize synthesizer: %v", err)
	}
	defer func() {
		if err := synthCtx.Close(); err != nil {
			log.Printf("Error closing synthesis context: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := sequencer.Options{
		SampleRate: *sampleRate,
		Loop:       *loop,
		Tail:       *tail,
	}

	if rendering {
		jobs, err := renderJobs(files, *outFile, *outDir)
		if err != nil {
			log.Fatalf("%v", err)
		}
		if err := renderAll(ctx, synthCtx, jobs, opts); err != nil {
			log.Fatalf("Render failed: %v", err)
		}
		return
	}

	err = runPlayback(ctx, synthCtx, playbackConfig{
		Files:     files,
		Options:   opts,
		Listen:    *listen,
		Port:      *port,
		UseTUI:    useTUI,
		Soundfont: name,
	})
	if err != nil {
		log.Printf("Playback failed: %v", err)
	}

	log.Printf("Stopped")
}

// validateSynthFlags rejects values the synthesis context would replace
// with its defaults
func validateSynthFlags(rate int, gain float64, polyphony int) error {
	if rate <= 0 {
		return fmt.Errorf("-rate must be positive, got %d", rate)
	}
	if gain <= 0 {
		return fmt.Errorf("-gain must be positive, got %g", gain)
	}
	if polyphony <= 0 {
		return fmt.Errorf("-polyphony must be positive, got %d", polyphony)
	}
	return nil
}

// buildProvider resolves the soundfont flags into a provider and the
// resource name the synthesis context should request
func buildProvider(soundfont, baseURL string) (vio.Provider, string, func(), error) {
	if baseURL != "" {
		p, err := vio.NewHTTPProvider(baseURL, "")
		if err != nil {
			return nil, "", nil, err
		}
		cleanup := func() {
			if err := p.Cleanup(); err != nil {
				log.Printf("Failed to remove soundfont cache: %v", err)
			}
		}
		return p, soundfont, cleanup, nil
	}

	dir, base := filepath.Split(soundfont)
	if dir == "" {
		dir = "."
	}
	p := vio.Rename(vio.FS(os.DirFS(dir)), midisynth.DefaultSoundfontName, base)
	return p, midisynth.DefaultSoundfontName, func() {}, nil
}
