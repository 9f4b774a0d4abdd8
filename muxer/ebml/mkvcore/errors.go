package mkvcore

import "errors"

// ErrIgnoreOldFrame means that a frame has too old timestamp and ignored.
var ErrIgnoreOldFrame = errors.New("too old frame")

var (
	ErrInvalidFrame         = errors.New("invalid frame")
	ErrTimecodeOutOfRange   = errors.New("block timecode out of cluster range")
	ErrInvalidTimecodeScale = errors.New("timecode scale must not be zero")
	ErrClusterFinalized     = errors.New("cluster already finalized")
	ErrHeaderNotWritten     = errors.New("cluster header not written")
	ErrHoldBackActive       = errors.New("cluster holds back frames; finalize with a duration")
	ErrMissingReference     = errors.New("no earlier block to reference")
	ErrDurationBeforeFrame  = errors.New("duration ends before frame timestamp")
	ErrInvalidTrackNumber   = errors.New("invalid track number")
	ErrSeekHeadFull         = errors.New("seek head has no free entry")
	ErrSegmentFinalized     = errors.New("segment already finalized")
	ErrSegmentHeaderWritten = errors.New("segment header already written")
	ErrSegmentHeaderMissing = errors.New("segment header not written")
	ErrNoTracks             = errors.New("segment has no tracks")
	ErrCuePointIncomplete   = errors.New("cue point needs track and cluster position")
	ErrNoSegmentInfo        = errors.New("segment has no info")
	ErrNoEBMLHeader         = errors.New("segment has no EBML header")
)
