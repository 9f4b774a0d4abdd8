package mkvcore

import (
	"fmt"

	ebmlgo "github.com/at-wat/ebml-go"

	"github.com/greendrake/mkvmux/muxer/ebml"
)

// blockPayloadSize is the size of a SimpleBlock or Block body:
// track number, 2 byte timecode, flags and data.
func (f *Frame) blockPayloadSize() uint64 {
	return uint64(ebml.CodedUIntSize(f.trackNumber)+3) + uint64(len(f.data))
}

func (f *Frame) writeBlockBody(w ebml.Writer, relTimecode int64, keyframe bool) error {
	return ebmlgo.MarshalBlock(&ebmlgo.Block{
		TrackNumber: f.trackNumber,
		Timecode:    int16(relTimecode),
		Keyframe:    keyframe,
		Data:        [][]byte{f.data},
	}, w)
}

func (f *Frame) simpleBlockSize() uint64 {
	payload := f.blockPayloadSize()
	return ebml.MasterElementSize(ebml.IDSimpleBlock, payload) + payload
}

// writeSimpleBlock writes the frame as a SimpleBlock and returns the number of bytes written.
func (f *Frame) writeSimpleBlock(w ebml.Writer, relTimecode int64) (uint64, error) {
	size := f.simpleBlockSize()
	start := w.Position()

	if err := ebml.WriteID(w, ebml.IDSimpleBlock); err != nil {
		return 0, err
	}
	if err := ebml.WriteUInt(w, f.blockPayloadSize()); err != nil {
		return 0, err
	}
	if err := f.writeBlockBody(w, relTimecode, f.isKey); err != nil {
		return 0, err
	}
	if written := w.Position() - start; written != size {
		return 0, fmt.Errorf("%w: SimpleBlock wrote %d bytes, expected %d", ebml.ErrSizeMismatch, written, size)
	}
	return size, nil
}

// referenceBlock returns the ReferenceBlock value relative to the frame, in timecode units.
func (f *Frame) referenceBlock(timecodeScale uint64) int64 {
	return f.referenceBlockTimestamp/int64(timecodeScale) - int64(f.timestamp/timecodeScale)
}

type blockGroupSizes struct {
	block          uint64
	morePayload    uint64
	additions      uint64
	additionsTotal uint64
	blockDuration  uint64
	payload        uint64
}

func (f *Frame) blockGroupSizes(timecodeScale uint64) blockGroupSizes {
	var s blockGroupSizes
	s.block = f.blockPayloadSize()
	s.payload = ebml.MasterElementSize(ebml.IDBlock, s.block) + s.block

	if len(f.additional) > 0 {
		s.morePayload = ebml.ElementSizeUint(ebml.IDBlockAddID, f.addID) +
			ebml.ElementSizeBytes(ebml.IDBlockAdditional, f.additional)
		s.additions = ebml.MasterElementSize(ebml.IDBlockMore, s.morePayload) + s.morePayload
		s.additionsTotal = ebml.MasterElementSize(ebml.IDBlockAdditions, s.additions) + s.additions
		s.payload += s.additionsTotal
	}
	if f.discardPadding != 0 {
		s.payload += ebml.ElementSizeInt(ebml.IDDiscardPadding, f.discardPadding)
	}
	if !f.isKey {
		s.payload += ebml.ElementSizeInt(ebml.IDReferenceBlock, f.referenceBlock(timecodeScale))
	}
	if f.durationSet {
		s.blockDuration = f.duration / timecodeScale
		if s.blockDuration > 0 {
			s.payload += ebml.ElementSizeUint(ebml.IDBlockDuration, s.blockDuration)
		}
	}
	return s
}

// writeBlock writes the frame as a BlockGroup and returns the number of bytes written.
func (f *Frame) writeBlock(w ebml.Writer, relTimecode int64, timecodeScale uint64) (uint64, error) {
	s := f.blockGroupSizes(timecodeScale)
	size := ebml.MasterElementSize(ebml.IDBlockGroup, s.payload) + s.payload
	start := w.Position()

	err := ebml.WriteMaster(w, ebml.IDBlockGroup, s.payload, func() error {
		if err := ebml.WriteMaster(w, ebml.IDBlock, s.block, func() error {
			return f.writeBlockBody(w, relTimecode, false)
		}); err != nil {
			return err
		}
		if len(f.additional) > 0 {
			if err := ebml.WriteMaster(w, ebml.IDBlockAdditions, s.additions, func() error {
				return ebml.WriteMaster(w, ebml.IDBlockMore, s.morePayload, func() error {
					if err := ebml.WriteElementUint(w, ebml.IDBlockAddID, f.addID); err != nil {
						return err
					}
					return ebml.WriteElementBytes(w, ebml.IDBlockAdditional, f.additional)
				})
			}); err != nil {
				return err
			}
		}
		if f.discardPadding != 0 {
			if err := ebml.WriteElementInt(w, ebml.IDDiscardPadding, f.discardPadding); err != nil {
				return err
			}
		}
		if !f.isKey {
			if err := ebml.WriteElementInt(w, ebml.IDReferenceBlock, f.referenceBlock(timecodeScale)); err != nil {
				return err
			}
		}
		if s.blockDuration > 0 {
			return ebml.WriteElementUint(w, ebml.IDBlockDuration, s.blockDuration)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if written := w.Position() - start; written != size {
		return 0, fmt.Errorf("%w: BlockGroup wrote %d bytes, expected %d", ebml.ErrSizeMismatch, written, size)
	}
	return size, nil
}
