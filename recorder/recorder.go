// Package recorder writes a frame stream into a series of Matroska files,
// starting a new file on the first video key frame after each chunk.
package recorder

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/greendrake/mkvmux/frame"
	"github.com/greendrake/mkvmux/logging"
	"github.com/greendrake/mkvmux/muxer/ebml/matroska"
	"github.com/greendrake/mkvmux/muxer/ebml/mkvcore"
)

const DefaultChunkDuration time.Duration = 10 * time.Minute

var ErrClosed = errors.New("recorder closed")

// TrackFactory returns fresh tracks for a new file, indexed by Frame.Source.
type TrackFactory func() []matroska.Track

type Options struct {
	Suffix        string
	ChunkDuration time.Duration
	// Muxer is the template for every file. SegmentUID, PrevUID and Date
	// are set per file.
	Muxer  matroska.Options
	Logger *slog.Logger
	Now    func() time.Time
}

type Recorder struct {
	dir       string
	opts      Options
	newTracks TrackFactory
	log       *slog.Logger

	mu      sync.Mutex
	mkv     *matroska.Matroska
	tracks  []matroska.Track
	path    string
	start   time.Duration
	prevUID []byte
	files   []string
	closed  bool
}

func New(dir string, newTracks TrackFactory, opts Options) *Recorder {
	if opts.ChunkDuration <= 0 {
		opts.ChunkDuration = DefaultChunkDuration
	}
	if opts.Suffix == "" {
		opts.Suffix = "rec"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &Recorder{
		dir:       dir,
		opts:      opts,
		newTracks: newTracks,
		log:       opts.Logger.With("component", "recorder"),
	}
}

// WriteFrame stores f in the current file. Frames the muxer cannot take
// yet are logged and skipped.
func (r *Recorder) WriteFrame(f *frame.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}

	rotate := r.mkv == nil ||
		(f.IsVideo && f.IsVideoKeyFrame && f.Timestamp-r.start >= r.opts.ChunkDuration)
	if rotate {
		if err := r.closeFile(); err != nil {
			return err
		}
		if err := r.createFile(f.Timestamp); err != nil {
			return err
		}
	}

	ts := f.Timestamp - r.start
	if ts < 0 {
		r.log.Debug("frame before file start dropped", "frame", f.String(), "path", r.path)
		return nil
	}
	if f.Source < 0 || f.Source >= len(r.tracks) {
		return fmt.Errorf("%w: source %d", matroska.ErrNotFoundTrack, f.Source)
	}

	_, err := r.mkv.WriteTrack(r.tracks[f.Source], ts, f.Data, f.IsVideoKeyFrame)
	switch {
	case errors.Is(err, matroska.ErrTrackNotReady), errors.Is(err, mkvcore.ErrIgnoreOldFrame):
		r.log.Warn("frame skipped", "frame", f.String(), "path", r.path, "error", err)
		return nil
	case err != nil:
		return fmt.Errorf("write %s at position %s: %w", f, ts, err)
	}
	return nil
}

func (r *Recorder) createFile(start time.Duration) error {
	t := r.opts.Now()
	base := filepath.Join(r.dir, t.Format("2006/01/02/15-04-05"))
	if err := os.MkdirAll(filepath.Dir(base), os.ModePerm); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	file, path, err := createUnique(base, "."+r.opts.Suffix+".mkv")
	if err != nil {
		return err
	}

	opts := r.opts.Muxer
	opts.Live = false
	opts.SegmentUID = nil
	opts.PrevUID = r.prevUID
	opts.Date = t
	if opts.Logger == nil {
		opts.Logger = r.opts.Logger
	}

	tracks := r.newTracks()
	mkv, err := matroska.OpenWithOptions(file, opts, tracks...)
	if err != nil {
		file.Close()
		os.Remove(path)
		return fmt.Errorf("open %s: %w", path, err)
	}

	r.mkv, r.tracks, r.path, r.start = mkv, tracks, path, start
	r.prevUID = mkv.SegmentUID()
	r.files = append(r.files, path)
	r.log.Info("recording file opened", "path", path, "start", start)
	return nil
}

// createUnique creates base+ext, or base-N+ext with the lowest free N when
// the name is taken. Existing files are never truncated.
func createUnique(base, ext string) (*os.File, string, error) {
	for i := 0; ; i++ {
		path := base + ext
		if i > 0 {
			path = fmt.Sprintf("%s-%d%s", base, i, ext)
		}
		file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o666)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return nil, "", fmt.Errorf("create file %s: %w", path, err)
		}
		return file, path, nil
	}
}

func (r *Recorder) closeFile() error {
	if r.mkv == nil {
		return nil
	}
	mkv, path := r.mkv, r.path
	r.mkv, r.tracks = nil, nil

	err := mkv.Close()
	if mkv.FileSize() == 0 {
		// nothing was muxed
		r.files = r.files[:len(r.files)-1]
		return errors.Join(err, os.Remove(path))
	}
	r.log.Info("recording file closed", "path", path, "duration", mkv.Duration(), "size", mkv.FileSize())
	if err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// Files returns the paths of the files written so far.
func (r *Recorder) Files() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.files...)
}

func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	return r.closeFile()
}
