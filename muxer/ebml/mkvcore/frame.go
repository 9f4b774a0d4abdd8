package mkvcore

// MaxTrackNumber is the largest track number a block can carry with a one byte track field.
const MaxTrackNumber = 126

// Frame is one encoded access unit of a track. Timestamps and durations are
// in nanoseconds.
type Frame struct {
	trackNumber uint64
	timestamp   uint64
	data        []byte
	isKey       bool

	duration    uint64
	durationSet bool

	additional []byte
	addID      uint64

	discardPadding int64

	referenceBlockTimestamp    int64
	referenceBlockTimestampSet bool
}

// NewFrame returns a frame holding a copy of data.
func NewFrame(data []byte, trackNumber, timestamp uint64, isKey bool) *Frame {
	f := &Frame{}
	f.Init(data)
	f.trackNumber = trackNumber
	f.timestamp = timestamp
	f.isKey = isKey
	return f
}

// Init stores a copy of data as the frame payload.
func (f *Frame) Init(data []byte) {
	f.data = append([]byte(nil), data...)
}

// AddAdditionalData attaches BlockAdditional content with the given BlockAddID.
func (f *Frame) AddAdditionalData(additional []byte, addID uint64) {
	f.additional = append([]byte(nil), additional...)
	f.addID = addID
}

// IsValid reports whether the frame can be written as a block.
func (f *Frame) IsValid() bool {
	if len(f.data) == 0 {
		return false
	}
	if f.trackNumber == 0 || f.trackNumber > MaxTrackNumber {
		return false
	}
	if !f.CanBeSimpleBlock() && !f.isKey && !f.referenceBlockTimestampSet {
		return false
	}
	return true
}

// CanBeSimpleBlock reports whether the frame carries nothing a SimpleBlock cannot express.
func (f *Frame) CanBeSimpleBlock() bool {
	return len(f.additional) == 0 && f.discardPadding == 0 && !f.durationSet
}

func (f *Frame) clone() *Frame {
	c := *f
	c.data = append([]byte(nil), f.data...)
	if f.additional != nil {
		c.additional = append([]byte(nil), f.additional...)
	}
	return &c
}

func (f *Frame) Data() []byte       { return f.data }
func (f *Frame) Additional() []byte { return f.additional }
func (f *Frame) AddID() uint64      { return f.addID }

func (f *Frame) TrackNumber() uint64       { return f.trackNumber }
func (f *Frame) SetTrackNumber(n uint64)   { f.trackNumber = n }
func (f *Frame) Timestamp() uint64         { return f.timestamp }
func (f *Frame) SetTimestamp(ts uint64)    { f.timestamp = ts }
func (f *Frame) IsKey() bool               { return f.isKey }
func (f *Frame) SetIsKey(key bool)         { f.isKey = key }
func (f *Frame) DiscardPadding() int64     { return f.discardPadding }
func (f *Frame) SetDiscardPadding(p int64) { f.discardPadding = p }
func (f *Frame) Duration() uint64          { return f.duration }
func (f *Frame) DurationSet() bool         { return f.durationSet }
func (f *Frame) ReferenceBlockTimestamp() int64 {
	return f.referenceBlockTimestamp
}
func (f *Frame) ReferenceBlockTimestampSet() bool {
	return f.referenceBlockTimestampSet
}

func (f *Frame) SetDuration(d uint64) {
	f.duration = d
	f.durationSet = true
}

// SetReferenceBlockTimestamp sets the absolute timestamp, in nanoseconds, of
// the block this frame references.
func (f *Frame) SetReferenceBlockTimestamp(ts int64) {
	f.referenceBlockTimestamp = ts
	f.referenceBlockTimestampSet = true
}
