// Package input reads encoded elementary streams from files and turns them
// into timestamped frames for the muxer.
package input

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/greendrake/mkvmux/config"
	"github.com/greendrake/mkvmux/frame"
	"github.com/greendrake/mkvmux/muxer/ebml/matroska"
)

var (
	ErrUnsupportedFourCC = errors.New("unsupported IVF codec")
	ErrInvalidFPS        = errors.New("frame rate must be positive")
)

// Source yields the frames of one track in decode order.
type Source interface {
	// Track returns a new muxer track for the frames. Each output file
	// needs its own.
	Track() matroska.Track
	// Next returns io.EOF after the last frame.
	Next() (*frame.Frame, error)
	Close() error
}

// Open opens the file of in as a Source.
func Open(in *config.Input) (Source, error) {
	f, err := os.Open(in.Path)
	if err != nil {
		return nil, err
	}

	var src Source
	switch in.Format {
	case config.FormatIVF:
		src, err = NewIVF(f)
	case config.FormatH264:
		src, err = NewH264(f, in.FPS)
	case config.FormatH265:
		src, err = NewH265(f, in.FPS)
	default:
		err = fmt.Errorf("%w %q", config.ErrInputFormat, in.Format)
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", in.Path, err)
	}
	return src, nil
}

// Interleave pulls frames from all sources and hands them to fn in
// timestamp order. Equal timestamps go to the lower source index first.
// Frame.Source is set to the index of the source.
func Interleave(ctx context.Context, sources []Source, fn func(f *frame.Frame) error) error {
	pending := make([]*frame.Frame, len(sources))
	pull := func(i int) error {
		f, err := sources[i].Next()
		if errors.Is(err, io.EOF) {
			pending[i] = nil
			return nil
		}
		if err != nil {
			return fmt.Errorf("source %d: %w", i, err)
		}
		f.Source = i
		pending[i] = f
		return nil
	}

	for i := range sources {
		if err := pull(i); err != nil {
			return err
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		next := -1
		for i, f := range pending {
			if f == nil {
				continue
			}
			if next < 0 || f.Timestamp < pending[next].Timestamp {
				next = i
			}
		}
		if next < 0 {
			return nil
		}
		if err := fn(pending[next]); err != nil {
			return err
		}
		if err := pull(next); err != nil {
			return err
		}
	}
}

// CloseAll closes every source and joins the errors.
func CloseAll(sources []Source) error {
	var errs []error
	for _, s := range sources {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}
