package mkvcore

import (
	"container/heap"
	"fmt"

	"github.com/greendrake/mkvmux/muxer/ebml"
)

// MaxBlockTimecode is the largest block timecode relative to its cluster.
const MaxBlockTimecode = 0x7FFF

// Cluster writes blocks under one Cluster element.
//
// The header is written with an unknown size on the first block and the
// size is patched in by Finalize when the writer can seek.
//
// With writeLastFrameWithDuration set, frames are held back per track so that
// the last frame of every track can be given a duration at finalize time.
// A held back frame is written as soon as no other track has an older frame
// waiting.
type Cluster struct {
	timecode        uint64
	timecodeScale   uint64
	payloadSize     uint64
	blocksAdded     int
	headerWritten   bool
	finalized       bool
	sizePosition    int64
	positionForCues int64

	fixedSizeTimecode          bool
	writeLastFrameWithDuration bool

	storedFrames       map[uint64][]queuedFrame
	lastBlockTimestamp map[uint64]uint64
	seq                uint64
}

// NewCluster returns a cluster starting at timecode, in timecodeScale units.
// cuesPos is the position of the cluster reported to cue points.
func NewCluster(timecode uint64, cuesPos int64, timecodeScale uint64, writeLastFrameWithDuration, fixedSizeTimecode bool) *Cluster {
	return &Cluster{
		timecode:                   timecode,
		timecodeScale:              timecodeScale,
		sizePosition:               -1,
		positionForCues:            cuesPos,
		fixedSizeTimecode:          fixedSizeTimecode,
		writeLastFrameWithDuration: writeLastFrameWithDuration,
		storedFrames:               make(map[uint64][]queuedFrame),
		lastBlockTimestamp:         make(map[uint64]uint64),
	}
}

func (c *Cluster) Timecode() uint64       { return c.timecode }
func (c *Cluster) TimecodeScale() uint64  { return c.timecodeScale }
func (c *Cluster) PayloadSize() uint64    { return c.payloadSize }
func (c *Cluster) BlocksAdded() int       { return c.blocksAdded }
func (c *Cluster) SizePosition() int64    { return c.sizePosition }
func (c *Cluster) PositionForCues() int64 { return c.positionForCues }
func (c *Cluster) HeaderWritten() bool    { return c.headerWritten }
func (c *Cluster) Finalized() bool        { return c.finalized }

func (c *Cluster) WriteLastFrameWithDuration() bool {
	return c.writeLastFrameWithDuration
}

func (c *Cluster) SetWriteLastFrameWithDuration(v bool) {
	c.writeLastFrameWithDuration = v
}

// SetLastBlockTimestamp records ts as the last block written for the track.
// Held back delta frames without a reference point at it.
func (c *Cluster) SetLastBlockTimestamp(trackNumber, ts uint64) {
	c.lastBlockTimestamp[trackNumber] = ts
}

// QueuedFrames returns the number of frames held back for the track.
func (c *Cluster) QueuedFrames(trackNumber uint64) int {
	return len(c.storedFrames[trackNumber])
}

// Size returns the size of the cluster written so far, including its header.
func (c *Cluster) Size() uint64 {
	return uint64(ebml.UIntSize(ebml.IDCluster)) + 8 + c.payloadSize
}

// AddFrame writes or queues a copy of f.
func (c *Cluster) AddFrame(w ebml.Writer, f *Frame) error {
	return c.queueOrWriteFrame(w, f)
}

func (c *Cluster) AddNewFrame(w ebml.Writer, data []byte, trackNumber, timestamp uint64, isKey bool) error {
	return c.queueOrWriteFrame(w, NewFrame(data, trackNumber, timestamp, isKey))
}

func (c *Cluster) AddFrameWithAdditional(w ebml.Writer, data, additional []byte, addID, trackNumber, timestamp uint64, isKey bool) error {
	if len(additional) == 0 {
		return fmt.Errorf("%w: empty additional data", ErrInvalidFrame)
	}
	f := NewFrame(data, trackNumber, timestamp, isKey)
	f.AddAdditionalData(additional, addID)
	return c.queueOrWriteFrame(w, f)
}

func (c *Cluster) AddFrameWithDiscardPadding(w ebml.Writer, data []byte, discardPadding int64, trackNumber, timestamp uint64, isKey bool) error {
	f := NewFrame(data, trackNumber, timestamp, isKey)
	f.SetDiscardPadding(discardPadding)
	return c.queueOrWriteFrame(w, f)
}

// AddMetadata writes a metadata block. Metadata blocks are key frames with a duration.
func (c *Cluster) AddMetadata(w ebml.Writer, data []byte, trackNumber, timestamp, duration uint64) error {
	f := NewFrame(data, trackNumber, timestamp, true)
	f.SetDuration(duration)
	return c.queueOrWriteFrame(w, f)
}

// WriteFrame encodes f at its cluster relative timecode and returns the
// number of bytes written. It neither writes the cluster header nor accounts
// the block in the payload size.
func (c *Cluster) WriteFrame(w ebml.Writer, f *Frame) (uint64, error) {
	if !f.IsValid() {
		return 0, ErrInvalidFrame
	}
	rel, err := c.relativeTimecode(f.timestamp)
	if err != nil {
		return 0, err
	}
	if f.CanBeSimpleBlock() {
		return f.writeSimpleBlock(w, rel)
	}
	return f.writeBlock(w, rel, c.timecodeScale)
}

func (c *Cluster) relativeTimecode(timestamp uint64) (int64, error) {
	if c.timecodeScale == 0 {
		return 0, ErrInvalidTimecodeScale
	}
	rel := int64(timestamp/c.timecodeScale) - int64(c.timecode)
	if rel < 0 || rel > MaxBlockTimecode {
		return 0, fmt.Errorf("%w: %d", ErrTimecodeOutOfRange, rel)
	}
	return rel, nil
}

func (c *Cluster) queueOrWriteFrame(w ebml.Writer, f *Frame) error {
	if !f.IsValid() {
		return ErrInvalidFrame
	}
	if c.finalized {
		return ErrClusterFinalized
	}
	if !c.writeLastFrameWithDuration {
		return c.doWriteFrame(w, f)
	}
	if _, err := c.relativeTimecode(f.timestamp); err != nil {
		return err
	}

	track := f.trackNumber
	queue := c.storedFrames[track]
	flushed := 0
	for _, q := range queue {
		if !c.okayToWrite(track, q.frame.timestamp) {
			break
		}
		if err := c.doWriteFrame(w, q.frame); err != nil {
			c.storedFrames[track] = queue[flushed:]
			return err
		}
		flushed++
	}
	c.storedFrames[track] = append(queue[flushed:], queuedFrame{frame: f.clone(), seq: c.seq})
	c.seq++
	return nil
}

// okayToWrite reports whether no other track holds back a frame older than timestamp.
func (c *Cluster) okayToWrite(track, timestamp uint64) bool {
	for other, queue := range c.storedFrames {
		if other == track || len(queue) == 0 {
			continue
		}
		if queue[0].frame.timestamp < timestamp {
			return false
		}
	}
	return true
}

func (c *Cluster) doWriteFrame(w ebml.Writer, f *Frame) error {
	if !f.IsValid() {
		return ErrInvalidFrame
	}
	if c.finalized {
		return ErrClusterFinalized
	}
	// Reject before the header goes out so a bad frame leaves the cluster untouched.
	if _, err := c.relativeTimecode(f.timestamp); err != nil {
		return err
	}
	if !c.headerWritten {
		if err := c.writeHeader(w); err != nil {
			return err
		}
	}
	n, err := c.WriteFrame(w, f)
	if err != nil {
		return err
	}
	c.payloadSize += n
	c.blocksAdded++
	c.lastBlockTimestamp[f.trackNumber] = f.timestamp
	return nil
}

func (c *Cluster) writeHeader(w ebml.Writer) error {
	if err := ebml.WriteID(w, ebml.IDCluster); err != nil {
		return err
	}
	c.sizePosition = int64(w.Position())
	if err := ebml.WriteUnknownSize(w); err != nil {
		return err
	}
	fixed := 0
	if c.fixedSizeTimecode {
		fixed = 8
	}
	if err := ebml.WriteElementUintFixed(w, ebml.IDTimecode, c.timecode, fixed); err != nil {
		return err
	}
	c.payloadSize += ebml.ElementSizeUintFixed(ebml.IDTimecode, c.timecode, fixed)
	c.headerWritten = true
	return nil
}

// Finalize closes a cluster that does not hold back frames.
func (c *Cluster) Finalize(w ebml.Writer) error {
	if c.writeLastFrameWithDuration {
		return ErrHoldBackActive
	}
	return c.FinalizeWithDuration(w, false, 0)
}

// FinalizeWithDuration writes every held back frame in timestamp order and
// patches the cluster size. With setLastFrameDuration, the last frame of each
// track gets a duration reaching up to duration, an absolute timestamp in
// nanoseconds.
func (c *Cluster) FinalizeWithDuration(w ebml.Writer, setLastFrameDuration bool, duration uint64) error {
	if c.finalized {
		return ErrClusterFinalized
	}

	if c.writeLastFrameWithDuration {
		if err := c.drain(w, setLastFrameDuration, duration); err != nil {
			return err
		}
	}

	if c.sizePosition == -1 {
		return ErrHeaderNotWritten
	}

	if w.Seekable() {
		pos := w.Position()
		if err := w.SetPosition(uint64(c.sizePosition)); err != nil {
			return err
		}
		if err := ebml.WriteUIntSize(w, c.payloadSize, 8); err != nil {
			return err
		}
		if err := w.SetPosition(pos); err != nil {
			return err
		}
	}

	c.finalized = true
	return nil
}

// drain merges the held back frames of all tracks by timestamp.
func (c *Cluster) drain(w ebml.Writer, setLastFrameDuration bool, duration uint64) error {
	h := &frameHeap{}
	for track, queue := range c.storedFrames {
		if len(queue) > 0 {
			heap.Push(h, queue[0])
			c.storedFrames[track] = queue[1:]
		}
	}

	for h.Len() > 0 {
		q := heap.Pop(h).(queuedFrame)
		f := q.frame
		track := f.trackNumber

		if setLastFrameDuration && len(c.storedFrames[track]) == 0 && !f.durationSet {
			if duration < f.timestamp {
				return fmt.Errorf("%w: track %d frame at %d, duration %d", ErrDurationBeforeFrame, track, f.timestamp, duration)
			}
			f.SetDuration(duration - f.timestamp)
			if !f.isKey && !f.referenceBlockTimestampSet {
				last, ok := c.lastBlockTimestamp[track]
				if !ok {
					return fmt.Errorf("%w: track %d", ErrMissingReference, track)
				}
				f.SetReferenceBlockTimestamp(int64(last))
			}
		}

		err := c.doWriteFrame(w, f)
		if rest := c.storedFrames[track]; len(rest) > 0 {
			heap.Push(h, rest[0])
			c.storedFrames[track] = rest[1:]
		}
		if err != nil {
			return err
		}
	}
	return nil
}
