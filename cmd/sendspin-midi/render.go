// ABOUTME: Offline rendering of MIDI files to WAV
// ABOUTME: Renders files concurrently, one decoder per file
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/Sendspin/sendspin-midi/internal/sequencer"
	"github.com/Sendspin/sendspin-midi/pkg/audio"
	"github.com/Sendspin/sendspin-midi/pkg/audio/encode"
	"github.com/Sendspin/sendspin-midi/pkg/midisynth"
	"golang.org/x/sync/errgroup"
)

// renderChunkFrames is the number of frames pulled per read
const renderChunkFrames = 4096

type renderJob struct {
	In  string
	Out string
}

// renderJobs maps input files to WAV outputs
func renderJobs(files []string, out, outDir string) ([]renderJob, error) {
	if out != "" {
		if len(files) != 1 {
			return nil, fmt.Errorf("-out takes exactly one MIDI file, got %d (use -out-dir)", len(files))
		}
		return []renderJob{{In: files[0], Out: out}}, nil
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	jobs := make([]renderJob, 0, len(files))
	seen := make(map[string]string)
	for _, in := range files {
		base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
		out := filepath.Join(outDir, base+".wav")
		if prev, ok := seen[out]; ok {
			return nil, fmt.Errorf("%s and %s both render to %s", prev, in, out)
		}
		seen[out] = in
		jobs = append(jobs, renderJob{In: in, Out: out})
	}
	return jobs, nil
}

// renderAll renders every job concurrently. Each job holds its own decoder,
// so the first runs on the primary synth and the rest get private ones.
func renderAll(ctx context.Context, sc *midisynth.Context, jobs []renderJob, opts sequencer.Options) error {
	opts.Loop = false
	opts.Hold = false

	g, gctx := errgroup.WithContext(ctx)
	for _, job := range jobs {
		job := job
		g.Go(func() error {
			return renderFile(gctx, sc, job, opts)
		})
	}
	return g.Wait()
}

func renderFile(ctx context.Context, sc *midisynth.Context, job renderJob, opts sequencer.Options) (err error) {
	rate := sc.Settings().SampleRate
	opts.SampleRate = rate

	song, err := sequencer.LoadFile(job.In, rate)
	if err != nil {
		return err
	}

	dec := sc.NewDecoder()
	defer dec.Close()
	if dec.Inert() {
		return fmt.Errorf("no synth available for %s", job.In)
	}

	f, err := os.Create(job.Out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", job.Out, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	var enc encode.Encoder
	enc, err = encode.NewWAV(f, audio.StereoInt16(rate))
	if err != nil {
		return err
	}

	player := sequencer.NewPlayer(song, dec, opts)
	buf := make([]byte, renderChunkFrames*audio.FrameBytes)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, rerr := player.Read(buf)
		if n > 0 {
			if _, err := enc.Write(buf[:n]); err != nil {
				return fmt.Errorf("failed to write %s: %w", job.Out, err)
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return fmt.Errorf("failed to render %s: %w", job.In, rerr)
		}
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finish %s: %w", job.Out, err)
	}

	log.Printf("Rendered %s -> %s (%s, %s synth)", job.In, job.Out, player.Duration(), dec.Binding())
	return nil
}
