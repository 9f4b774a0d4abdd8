package matroska

import (
	"time"

	"github.com/greendrake/mkvmux/muxer/ebml/core"
	"github.com/greendrake/mkvmux/muxer/ebml/mkvcore"
	"github.com/greendrake/mkvmux/muxer/ebml/webm"
)

type Track interface {
	IsVideo() bool
	IsAudio() bool
	GetTrackEntry() *webm.TrackEntry

	// ready reports whether the track entry is complete enough to be written.
	ready() bool
	// frames turns one input packet into the frames to store.
	frames(timestamp time.Duration, b []byte, keyframe bool) ([]*mkvcore.Frame, error)
	setTrackNumber(trackNumber uint64)

	mustEmbedUnimplemented()
}

type UnimplementedTrack struct {
	track webm.TrackEntry
}

func (c *UnimplementedTrack) GetTrackEntry() *webm.TrackEntry {
	return &c.track
}

func (c *UnimplementedTrack) IsVideo() bool {
	return c.track.TrackType == core.TrackTypeVideo
}

func (c *UnimplementedTrack) IsAudio() bool {
	return c.track.TrackType == core.TrackTypeAudio
}

func (c *UnimplementedTrack) setTrackNumber(trackNumber uint64) {
	c.track.TrackNumber = trackNumber
}

func (c *UnimplementedTrack) ready() bool {
	return true
}

func (c *UnimplementedTrack) newFrame(timestamp time.Duration, b []byte, keyframe bool) *mkvcore.Frame {
	return mkvcore.NewFrame(b, c.track.TrackNumber, uint64(timestamp), keyframe)
}

func (c *UnimplementedTrack) frames(timestamp time.Duration, b []byte, keyframe bool) ([]*mkvcore.Frame, error) {
	return []*mkvcore.Frame{c.newFrame(timestamp, b, keyframe)}, nil
}

func (c *UnimplementedTrack) mustEmbedUnimplemented() {}

// audioTrack stores every packet as a key frame.
type audioTrack struct {
	UnimplementedTrack
}

func (c *audioTrack) frames(timestamp time.Duration, b []byte, _ bool) ([]*mkvcore.Frame, error) {
	return c.UnimplementedTrack.frames(timestamp, b, true)
}
