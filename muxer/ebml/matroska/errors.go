package matroska

import "errors"

var (
	ErrNotFoundTrack     = errors.New("no found track")
	ErrNoTracks          = errors.New("no tracks")
	ErrH264PacketSize    = errors.New("packet size error")
	ErrTrackNotReady     = errors.New("track codec parameters not known yet")
	ErrNotSeekable       = errors.New("file output must be seekable")
	ErrClosed            = errors.New("matroska closed")
	ErrNegativeTimestamp = errors.New("negative timestamp")
	ErrCodecTrackType    = errors.New("codec id does not match track type")
	ErrInvalidPacket     = errors.New("invalid packet")
)
