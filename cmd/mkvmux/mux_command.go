package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/greendrake/mkvmux/config"
	"github.com/greendrake/mkvmux/frame"
	"github.com/greendrake/mkvmux/input"
	"github.com/greendrake/mkvmux/logging"
	"github.com/greendrake/mkvmux/muxer/ebml/matroska"
	"github.com/greendrake/mkvmux/muxer/ebml/mkvcore"
	"github.com/greendrake/mkvmux/muxer/ebml/webm"
	"github.com/greendrake/mkvmux/recorder"
)

func newMuxCommand(ctx *commandContext) *cobra.Command {
	var (
		output string
		live   bool
		title  string
	)

	cmd := &cobra.Command{
		Use:   "mux",
		Short: "Mux the configured inputs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("output") {
				cfg.Output = output
			}
			if cmd.Flags().Changed("live") {
				cfg.Live = live
			}
			if cmd.Flags().Changed("title") {
				cfg.Title = title
			}

			log := logging.New(logging.Options{
				Level:  cfg.Log.Level,
				Format: cfg.Log.Format,
				Output: cmd.ErrOrStderr(),
			})

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runMux(runCtx, cfg, log, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file, or - for a live stream on stdout")
	cmd.Flags().BoolVar(&live, "live", false, "Write a live stream that is never seeked back into")
	cmd.Flags().StringVar(&title, "title", "", "Segment title")

	return cmd
}

type frameWriter interface {
	WriteFrame(f *frame.Frame) error
	Close() error
}

// segmentWriter writes frames of all sources into one Matroska segment.
type segmentWriter struct {
	mkv    *matroska.Matroska
	tracks []matroska.Track
	log    *slog.Logger
}

func (w *segmentWriter) WriteFrame(f *frame.Frame) error {
	_, err := w.mkv.WriteTrack(w.tracks[f.Source], f.Timestamp, f.Data, f.IsVideoKeyFrame)
	if errors.Is(err, matroska.ErrTrackNotReady) || errors.Is(err, mkvcore.ErrIgnoreOldFrame) {
		w.log.Warn("frame skipped", "frame", f.String(), "error", err)
		return nil
	}
	return err
}

func (w *segmentWriter) Close() error {
	err := w.mkv.Close()
	w.log.Info("segment closed", "duration", w.mkv.Duration(), "size", w.mkv.FileSize())
	return err
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func muxerOptions(cfg *config.Config, log *slog.Logger) matroska.Options {
	opts := matroska.Options{
		Live:               cfg.Live || cfg.IsStdout(),
		DocType:            cfg.DocType,
		Title:              cfg.Title,
		MaxClusterDuration: cfg.MaxClusterDuration,
		MaxClusterSize:     cfg.MaxClusterSize,
		AccurateDuration:   cfg.AccurateDuration,
		Logger:             log,
	}
	if len(cfg.Tags) > 0 {
		names := make([]string, 0, len(cfg.Tags))
		for name := range cfg.Tags {
			names = append(names, name)
		}
		sort.Strings(names)

		tags := &webm.Tags{}
		tag := tags.AddTag()
		for _, name := range names {
			tag.AddSimpleTag(name, cfg.Tags[name])
		}
		opts.Tags = tags
	}
	return opts
}

func openOutput(cfg *config.Config, stdout io.Writer) (io.WriteCloser, error) {
	if cfg.IsStdout() {
		return nopWriteCloser{stdout}, nil
	}
	f, err := os.Create(cfg.Output)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}
	return f, nil
}

func runMux(ctx context.Context, cfg *config.Config, log *slog.Logger, stdout io.Writer) (err error) {
	sources := make([]input.Source, 0, len(cfg.Inputs))
	defer func() {
		err = errors.Join(err, input.CloseAll(sources))
	}()
	for _, in := range cfg.Inputs {
		src, err := input.Open(in)
		if err != nil {
			return err
		}
		sources = append(sources, src)
		log.Info("input opened", "path", in.Path, "format", in.Format)
	}

	newTracks := func() []matroska.Track {
		tracks := make([]matroska.Track, len(sources))
		for i, src := range sources {
			tracks[i] = src.Track()
		}
		return tracks
	}

	var writers []frameWriter
	defer func() {
		for _, w := range writers {
			err = errors.Join(err, w.Close())
		}
	}()

	if cfg.Output != "" {
		out, err := openOutput(cfg, stdout)
		if err != nil {
			return err
		}
		tracks := newTracks()
		mkv, err := matroska.OpenWithOptions(out, muxerOptions(cfg, log), tracks...)
		if err != nil {
			out.Close()
			return err
		}
		writers = append(writers, &segmentWriter{mkv: mkv, tracks: tracks, log: log})
	}
	if cfg.Recorder.Dir != "" {
		opts := muxerOptions(cfg, log)
		writers = append(writers, recorder.New(cfg.Recorder.Dir, newTracks, recorder.Options{
			Suffix:        cfg.Recorder.Suffix,
			ChunkDuration: cfg.Recorder.ChunkDuration,
			Muxer:         opts,
			Logger:        log,
		}))
	}

	err = input.Interleave(ctx, sources, func(f *frame.Frame) error {
		for _, w := range writers {
			if err := w.WriteFrame(f); err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, context.Canceled) {
		log.Info("interrupted, finalizing output")
		return nil
	}
	return err
}
