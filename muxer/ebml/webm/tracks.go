package webm

import (
	"fmt"

	"github.com/greendrake/mkvmux/muxer/ebml"
	"github.com/greendrake/mkvmux/muxer/ebml/mkvcore"
)

// Tracks represents Tracks element struct.
type Tracks struct {
	entries []*TrackEntry
	uid     UIDGenerator
	written bool
}

// NewTracks returns an empty track list drawing track UIDs from uid.
// A nil uid uses RandomUID.
func NewTracks(uid UIDGenerator) *Tracks {
	if uid == nil {
		uid = RandomUID
	}
	return &Tracks{uid: uid}
}

// AddTrack adds t with the given track number. Number 0 picks the lowest
// free number. A zero TrackUID is filled in from the UID generator.
func (c *Tracks) AddTrack(t *TrackEntry, number uint64) error {
	if c.written {
		return ErrTracksWritten
	}
	if number > mkvcore.MaxTrackNumber {
		return fmt.Errorf("%w: %d", ErrTrackNumber, number)
	}
	if number == 0 {
		for n := uint64(1); n <= mkvcore.MaxTrackNumber; n++ {
			if c.GetTrackByNumber(n) == nil {
				number = n
				break
			}
		}
		if number == 0 {
			return ErrNoFreeTrackNumber
		}
	} else if c.GetTrackByNumber(number) != nil {
		return fmt.Errorf("%w: %d", ErrDuplicateTrack, number)
	}

	t.TrackNumber = number
	if t.TrackUID == 0 {
		t.TrackUID = c.uid.UID()
	}
	c.entries = append(c.entries, t)
	return nil
}

func (c *Tracks) Len() int { return len(c.entries) }

func (c *Tracks) GetTrackByIndex(index int) *TrackEntry {
	if index < 0 || index >= len(c.entries) {
		return nil
	}
	return c.entries[index]
}

func (c *Tracks) GetTrackByNumber(number uint64) *TrackEntry {
	for _, t := range c.entries {
		if t.TrackNumber == number {
			return t
		}
	}
	return nil
}

func (c *Tracks) TrackIsAudio(number uint64) bool {
	t := c.GetTrackByNumber(number)
	return t != nil && t.IsAudio()
}

func (c *Tracks) TrackIsVideo(number uint64) bool {
	t := c.GetTrackByNumber(number)
	return t != nil && t.IsVideo()
}

func (c *Tracks) IsVideo(number uint64) bool {
	return c.TrackIsVideo(number)
}

func (c *Tracks) TrackNumbers() []uint64 {
	numbers := make([]uint64, 0, len(c.entries))
	for _, t := range c.entries {
		numbers = append(numbers, t.TrackNumber)
	}
	return numbers
}

func (c *Tracks) PayloadSize() uint64 {
	var size uint64
	for _, t := range c.entries {
		size += t.Size()
	}
	return size
}

func (c *Tracks) Size() uint64 {
	payload := c.PayloadSize()
	return ebml.MasterElementSize(ebml.IDTracks, payload) + payload
}

func (c *Tracks) Write(w ebml.Writer) error {
	if err := ebml.WriteMaster(w, ebml.IDTracks, c.PayloadSize(), func() error {
		for _, t := range c.entries {
			if err := t.Write(w); err != nil {
				return fmt.Errorf("track %d: %w", t.TrackNumber, err)
			}
		}
		return nil
	}); err != nil {
		return err
	}
	c.written = true
	return nil
}
