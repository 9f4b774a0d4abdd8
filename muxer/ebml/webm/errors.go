package webm

import "errors"

var (
	ErrMissingApp         = errors.New("muxing and writing app must be set")
	ErrDurationNotWritten = errors.New("duration was not written")
	ErrTrackIncomplete    = errors.New("track needs a type and a codec id")
	ErrTracksWritten      = errors.New("tracks already written")
	ErrTrackNumber        = errors.New("track number out of range")
	ErrDuplicateTrack     = errors.New("track number already used")
	ErrNoFreeTrackNumber  = errors.New("no free track number")
	ErrInvalidStereoMode  = errors.New("invalid stereo mode")
	ErrInvalidAlphaMode   = errors.New("invalid alpha mode")
	ErrInvalidColour      = errors.New("invalid colour")
	ErrInvalidProjection  = errors.New("invalid projection type")
	ErrInvalidSegmentUID  = errors.New("segment uid must be 16 bytes")
	ErrInvalidChapterTime = errors.New("chapter must not end before it starts")
)
