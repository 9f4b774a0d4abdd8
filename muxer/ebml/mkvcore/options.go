// Copyright 2019 The ebml-go authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package mkvcore

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/greendrake/mkvmux/muxer/ebml"
)

// Mode selects how the segment is laid out.
type Mode int

const (
	// ModeLive writes a stream that is never revisited: no SeekHead, no Cues
	// and unknown segment and cluster sizes.
	ModeLive Mode = 1
	// ModeFile writes a seekable file with SeekHead, Cues and patched sizes.
	ModeFile Mode = 2
)

func (m Mode) String() string {
	switch m {
	case ModeLive:
		return "live"
	case ModeFile:
		return "file"
	}
	return "unknown"
}

// DefaultMaxClusterDuration is the cluster length used when none is configured.
const DefaultMaxClusterDuration = 30 * time.Second

// SegmentInfo is the Info element of a segment. The segment sets the
// duration before finalizing it.
type SegmentInfo interface {
	ebml.Element
	GetTimecodeScale() uint64
	Duration() float64
	SetDuration(duration float64)
	// Finalize rewrites the duration in place when the writer can seek.
	Finalize(w ebml.Writer) error
}

// TrackList is the Tracks element of a segment.
type TrackList interface {
	ebml.Element
	TrackNumbers() []uint64
	IsVideo(trackNumber uint64) bool
}

// SegmentOptions stores options for Segment.
type SegmentOptions struct {
	mode                     Mode
	maxClusterDuration       time.Duration
	maxClusterSize           uint64
	outputCues               bool
	cuesTrack                uint64
	outputCueBlockNumber     bool
	accurateClusterDuration  bool
	fixedSizeClusterTimecode bool

	ebmlHeader ebml.Element
	info       SegmentInfo
	tracks     TrackList
	tags       ebml.Element
	chapters   ebml.Element

	logger *slog.Logger
}

// SegmentOption configures a Segment.
type SegmentOption func(*SegmentOptions) error

func defaultSegmentOptions() SegmentOptions {
	return SegmentOptions{
		mode:                 ModeFile,
		maxClusterDuration:   DefaultMaxClusterDuration,
		outputCues:           true,
		outputCueBlockNumber: true,
		logger:               slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithMode sets the segment layout.
func WithMode(m Mode) SegmentOption {
	return func(o *SegmentOptions) error {
		if m != ModeLive && m != ModeFile {
			return errors.New("unknown segment mode")
		}
		o.mode = m
		return nil
	}
}

// WithMaxClusterDuration starts a new cluster once a cluster spans d.
// Zero disables the limit.
func WithMaxClusterDuration(d time.Duration) SegmentOption {
	return func(o *SegmentOptions) error {
		if d < 0 {
			return errors.New("negative cluster duration")
		}
		o.maxClusterDuration = d
		return nil
	}
}

// WithMaxClusterSize starts a new cluster once a cluster reaches size bytes.
// Zero disables the limit.
func WithMaxClusterSize(size uint64) SegmentOption {
	return func(o *SegmentOptions) error {
		o.maxClusterSize = size
		return nil
	}
}

// WithCues enables writing Cues in file mode.
func WithCues(enabled bool) SegmentOption {
	return func(o *SegmentOptions) error {
		o.outputCues = enabled
		return nil
	}
}

// WithCuesTrack selects the track whose key frames get cue points.
// By default the first video track is used, or the first track.
func WithCuesTrack(trackNumber uint64) SegmentOption {
	return func(o *SegmentOptions) error {
		if trackNumber < 1 || trackNumber > MaxTrackNumber {
			return ErrInvalidTrackNumber
		}
		o.cuesTrack = trackNumber
		return nil
	}
}

// WithCueBlockNumber controls whether cue points carry CueBlockNumber.
func WithCueBlockNumber(enabled bool) SegmentOption {
	return func(o *SegmentOptions) error {
		o.outputCueBlockNumber = enabled
		return nil
	}
}

// WithAccurateClusterDuration holds frames back so the last frame of each
// track in a cluster is written with a duration.
func WithAccurateClusterDuration(enabled bool) SegmentOption {
	return func(o *SegmentOptions) error {
		o.accurateClusterDuration = enabled
		return nil
	}
}

// WithFixedSizeClusterTimecode writes cluster Timecode elements with 8 bytes.
func WithFixedSizeClusterTimecode(enabled bool) SegmentOption {
	return func(o *SegmentOptions) error {
		o.fixedSizeClusterTimecode = enabled
		return nil
	}
}

// WithEBMLHeader sets the EBML header element.
func WithEBMLHeader(h ebml.Element) SegmentOption {
	return func(o *SegmentOptions) error {
		o.ebmlHeader = h
		return nil
	}
}

// WithSegmentInfo sets the Info element.
func WithSegmentInfo(info SegmentInfo) SegmentOption {
	return func(o *SegmentOptions) error {
		o.info = info
		return nil
	}
}

// WithTracks sets the Tracks element.
func WithTracks(tracks TrackList) SegmentOption {
	return func(o *SegmentOptions) error {
		o.tracks = tracks
		return nil
	}
}

// WithTags sets the Tags element.
func WithTags(tags ebml.Element) SegmentOption {
	return func(o *SegmentOptions) error {
		o.tags = tags
		return nil
	}
}

// WithChapters sets the Chapters element.
func WithChapters(chapters ebml.Element) SegmentOption {
	return func(o *SegmentOptions) error {
		o.chapters = chapters
		return nil
	}
}

// WithLogger sets the logger used for cluster and cue events.
func WithLogger(l *slog.Logger) SegmentOption {
	return func(o *SegmentOptions) error {
		if l != nil {
			o.logger = l
		}
		return nil
	}
}
