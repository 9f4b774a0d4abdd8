// Package matroska muxes encoded audio and video packets into Matroska and
// WebM files or live streams.
package matroska

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/greendrake/mkvmux/muxer/ebml"
	"github.com/greendrake/mkvmux/muxer/ebml/core"
	"github.com/greendrake/mkvmux/muxer/ebml/mkvcore"
	"github.com/greendrake/mkvmux/muxer/ebml/webm"
)

// https://www.matroska.org/technical/elements.html
// https://www.webmproject.org/docs/container/

type WriteSeekCloser interface {
	io.Writer
	io.Seeker
	io.Closer
}

type Matroska struct {
	mu sync.Mutex

	w       *writerFileSize
	sink    ebml.Writer
	segment *mkvcore.Segment
	info    *webm.SegmentInfo
	tracks  []Track
	log     *slog.Logger

	// video tracks that already stored a key frame
	started map[uint64]bool
	closed  bool
}

// Open starts a seekable Matroska file on w.
func Open(w WriteSeekCloser, tracks ...Track) (*Matroska, error) {
	return OpenWithOptions(w, Options{}, tracks...)
}

// OpenStream starts a live stream on w. Nothing is ever rewritten.
func OpenStream(w io.WriteCloser, tracks ...Track) (*Matroska, error) {
	return OpenWithOptions(w, Options{Live: true}, tracks...)
}

// OpenWithOptions starts a file or stream on w. The segment header is
// written as soon as every track knows its codec parameters.
func OpenWithOptions(w io.WriteCloser, opts Options, tracks ...Track) (*Matroska, error) {
	if len(tracks) == 0 {
		return nil, ErrNoTracks
	}

	fs, err := newWriterFileSize(w, !opts.Live)
	if err != nil {
		return nil, err
	}

	var sink ebml.Writer
	if opts.Live {
		sink = ebml.NewStreamWriter(fs)
	} else {
		if _, ok := w.(io.Seeker); !ok {
			return nil, ErrNotSeekable
		}
		if sink, err = ebml.NewWriter(fs); err != nil {
			return nil, err
		}
	}

	m := &Matroska{
		w:       fs,
		sink:    sink,
		tracks:  tracks,
		log:     opts.Logger,
		started: make(map[uint64]bool),
	}
	if m.log == nil {
		m.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	m.modifyTrackNumber()

	if err := m.open(opts); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Matroska) open(opts Options) error {
	info := webm.NewSegmentInfo()
	info.Title = opts.Title
	if len(opts.SegmentUID) > 0 {
		info.SegmentUID = opts.SegmentUID
	}
	info.PrevUID = opts.PrevUID
	if !opts.Date.IsZero() {
		info.SetDateUTC(opts.Date)
	}
	m.info = info

	tracks := webm.NewTracks(opts.UIDGenerator)
	for _, track := range m.tracks {
		t := track.GetTrackEntry()
		if typ, ok := core.CodecTrackType(t.CodecID); !ok || typ != t.TrackType {
			return fmt.Errorf("%w: %s", ErrCodecTrackType, t.CodecID)
		}
		if err := tracks.AddTrack(t, t.TrackNumber); err != nil {
			return err
		}
	}

	docType := opts.DocType
	if docType == "" {
		docType = m.docType()
	}

	segOpts := []mkvcore.SegmentOption{
		mkvcore.WithLogger(m.log),
		mkvcore.WithAccurateClusterDuration(opts.AccurateDuration),
	}
	if opts.Live {
		segOpts = append(segOpts, mkvcore.WithMode(mkvcore.ModeLive))
	}
	if opts.MaxClusterDuration > 0 {
		segOpts = append(segOpts, mkvcore.WithMaxClusterDuration(opts.MaxClusterDuration))
	}
	if opts.MaxClusterSize > 0 {
		segOpts = append(segOpts, mkvcore.WithMaxClusterSize(opts.MaxClusterSize))
	}

	segment, err := webm.NewSegment(webm.NewEBMLHeader(docType), info, tracks, opts.Tags, opts.Chapters, segOpts...)
	if err != nil {
		return err
	}
	m.segment = segment

	if m.tracksReady() {
		return m.segment.WriteHeader(m.sink)
	}
	return nil
}

// docType is webm when every codec may be stored in WebM.
func (m *Matroska) docType() string {
	for _, t := range m.tracks {
		switch t.GetTrackEntry().CodecID {
		case core.VideoCodecVP8, core.VideoCodecVP9, core.VideoCodecAV1,
			core.AudioCodecOPUS, core.AudioCodecVORBIS:
		default:
			return webm.DocTypeMatroska
		}
	}
	return webm.DocTypeWebM
}

func (m *Matroska) tracksReady() bool {
	for _, t := range m.tracks {
		if !t.ready() {
			return false
		}
	}
	return true
}

// Close finalizes the segment and closes the underlying writer. A segment
// that never got its header, because a track never learnt its codec
// parameters, leaves the output empty.
func (m *Matroska) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true

	var errs []error
	if m.segment.HeaderWritten() || m.tracksReady() {
		if err := m.segment.Finalize(m.sink); err != nil {
			errs = append(errs, fmt.Errorf("finalize: %w", err))
		}
	} else {
		m.log.Warn("closing segment without header", "tracks", len(m.tracks))
	}
	if err := m.w.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// FileSize returns the number of bytes written so far.
func (m *Matroska) FileSize() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.w.FileSize()
}

// Duration returns the time covered by the frames written so far.
func (m *Matroska) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return time.Duration(m.segment.Duration() * float64(m.info.TimecodeScale))
}

func (m *Matroska) SegmentUID() []byte {
	return m.info.SegmentUID
}

func (m *Matroska) GetTracks() []Track {
	return m.tracks
}

// WriteTrack stores packet b of t at timestamp. keyframe is only consulted
// by codecs whose packets do not tell. It returns the number of payload
// bytes stored.
func (m *Matroska) WriteTrack(t Track, timestamp time.Duration, b []byte, keyframe ...bool) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, ErrClosed
	}
	if !m.hasTrack(t) {
		return 0, ErrNotFoundTrack
	}
	if timestamp < 0 {
		return 0, fmt.Errorf("%w: %s", ErrNegativeTimestamp, timestamp)
	}

	frames, err := t.frames(timestamp, b, len(keyframe) > 0 && keyframe[0])
	if err != nil {
		return 0, err
	}
	if !m.segment.HeaderWritten() && !m.tracksReady() {
		return 0, ErrTrackNotReady
	}

	var n int
	for _, f := range frames {
		number := f.TrackNumber()
		if t.IsVideo() && !m.started[number] {
			if !f.IsKey() {
				m.log.Debug("frame before first key frame dropped", "track", number, "timestamp", timestamp)
				continue
			}
			m.started[number] = true
		}
		if err := m.segment.AddFrame(m.sink, f); err != nil {
			return n, err
		}
		n += len(f.Data())
	}
	return n, nil
}

func (m *Matroska) WriteVideo(timestamp time.Duration, b []byte, keyframe ...bool) (int, error) {
	for _, track := range m.tracks {
		if track.IsVideo() {
			return m.WriteTrack(track, timestamp, b, keyframe...)
		}
	}
	return -1, ErrNotFoundTrack
}

func (m *Matroska) WriteAudio(timestamp time.Duration, b []byte) (int, error) {
	for _, track := range m.tracks {
		if track.IsAudio() {
			return m.WriteTrack(track, timestamp, b)
		}
	}
	return -1, ErrNotFoundTrack
}

func (m *Matroska) hasTrack(t Track) bool {
	for _, track := range m.tracks {
		if track == t {
			return true
		}
	}
	return false
}

// modifyTrackNumber numbers video tracks first, in the order given.
func (m *Matroska) modifyTrackNumber() {
	var (
		videoTracks []Track
		otherTracks []Track
	)

	for _, t := range m.tracks {
		if t.IsVideo() {
			videoTracks = append(videoTracks, t)
		} else {
			otherTracks = append(otherTracks, t)
		}
	}

	var trackNumber uint64 = 1
	for _, track := range append(videoTracks, otherTracks...) {
		track.setTrackNumber(trackNumber)
		trackNumber++
	}
}
