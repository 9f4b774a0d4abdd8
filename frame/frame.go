// Package frame carries encoded packets between inputs and muxers.
package frame

import (
	"fmt"
	"time"
)

type Frame struct {
	// Source is the index of the input that produced the frame.
	Source          int
	IsVideo         bool
	IsHEVC          bool
	IsVideoKeyFrame bool
	IsAudio         bool
	Timestamp       time.Duration
	Duration        time.Duration
	Data            []byte
}

// End returns the timestamp right after the frame.
func (f *Frame) End() time.Duration {
	return f.Timestamp + f.Duration
}

func (f *Frame) String() string {
	kind := "data"
	switch {
	case f.IsVideo && f.IsVideoKeyFrame:
		kind = "video key"
	case f.IsVideo:
		kind = "video"
	case f.IsAudio:
		kind = "audio"
	}
	return fmt.Sprintf("%s frame #%d %s+%s (%d bytes)", kind, f.Source, f.Timestamp, f.Duration, len(f.Data))
}
