package matroska

import (
	"log/slog"
	"time"

	"github.com/greendrake/mkvmux/muxer/ebml/webm"
)

type Option[T any] interface {
	Apply(T)
}

type funcOption[T any] struct {
	f func(T)
}

func (o *funcOption[T]) Apply(t T) {
	o.f(t)
}

func NewFuncOption[T any](f func(T)) Option[T] {
	return &funcOption[T]{f: f}
}

// Options configures a Matroska muxer. The zero value writes a seekable
// file with default cluster limits.
type Options struct {
	// Live writes a stream that is never seeked back into.
	Live bool
	// DocType is webm or matroska. Empty picks webm when every codec is
	// allowed in WebM.
	DocType string

	Title      string
	SegmentUID []byte
	PrevUID    []byte
	Date       time.Time

	MaxClusterDuration time.Duration
	MaxClusterSize     uint64
	// AccurateDuration holds back each frame until the next one of its
	// track is known and writes exact block durations.
	AccurateDuration bool

	UIDGenerator webm.UIDGenerator
	Tags         *webm.Tags
	Chapters     *webm.Chapters
	Logger       *slog.Logger
}
