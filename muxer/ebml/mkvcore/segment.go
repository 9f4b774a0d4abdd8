package mkvcore

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/greendrake/mkvmux/muxer/ebml"
)

// Segment lays out a Segment element: the header elements, the clusters and,
// in file mode, the Cues and SeekHead.
//
// The writer is passed to every call. In live mode it is wrapped so that
// nothing ever seeks back.
type Segment struct {
	opts SegmentOptions
	log  *slog.Logger

	seekHead *SeekHead
	cues     *Cues
	cluster  *Cluster

	trackNumbers map[uint64]bool
	hasVideo     bool
	cuesTrack    uint64

	headerWritten bool
	finalized     bool
	sizePosition  uint64
	payloadPos    uint64

	clusterCount    int
	forceNewCluster bool
	newCuePoint     bool

	lastTimestamp      uint64
	lastBlockDuration  uint64
	maxTimestamp       uint64
	lastTrackTimestamp map[uint64]uint64
}

// NewSegment returns a segment configured by opts. An EBML header, a segment
// info and a track list are required.
func NewSegment(opts ...SegmentOption) (*Segment, error) {
	options := defaultSegmentOptions()
	for _, o := range opts {
		if err := o(&options); err != nil {
			return nil, err
		}
	}
	if options.ebmlHeader == nil {
		return nil, ErrNoEBMLHeader
	}
	if options.info == nil {
		return nil, ErrNoSegmentInfo
	}
	if options.tracks == nil {
		return nil, ErrNoTracks
	}
	if options.info.GetTimecodeScale() == 0 {
		return nil, ErrInvalidTimecodeScale
	}

	cues := NewCues()
	cues.SetOutputBlockNumber(options.outputCueBlockNumber)

	return &Segment{
		opts:               options,
		log:                options.logger,
		seekHead:           NewSeekHead(),
		cues:               cues,
		lastTrackTimestamp: make(map[uint64]uint64),
	}, nil
}

func (s *Segment) Mode() Mode          { return s.opts.mode }
func (s *Segment) Info() SegmentInfo   { return s.opts.info }
func (s *Segment) Tracks() TrackList   { return s.opts.tracks }
func (s *Segment) Cues() *Cues         { return s.cues }
func (s *Segment) SeekHead() *SeekHead { return s.seekHead }
func (s *Segment) ClusterCount() int   { return s.clusterCount }
func (s *Segment) CuesTrack() uint64   { return s.cuesTrack }
func (s *Segment) HeaderWritten() bool { return s.headerWritten }
func (s *Segment) Finalized() bool     { return s.finalized }

// PayloadPosition returns the absolute offset of the segment payload.
// Cue and seek positions are relative to it.
func (s *Segment) PayloadPosition() uint64 { return s.payloadPos }

// ForceNewClusterOnNextFrame closes the current cluster on the next frame.
func (s *Segment) ForceNewClusterOnNextFrame() {
	s.forceNewCluster = true
}

func (s *Segment) sink(w ebml.Writer) ebml.Writer {
	if s.opts.mode == ModeLive && w.Seekable() {
		return ebml.NonSeekable(w)
	}
	return w
}

func (s *Segment) fileMode(w ebml.Writer) bool {
	return s.opts.mode == ModeFile && w.Seekable()
}

// WriteHeader writes the EBML header, the segment header and the Info,
// Tracks, Chapters and Tags elements.
func (s *Segment) WriteHeader(w ebml.Writer) error {
	if s.headerWritten {
		return ErrSegmentHeaderWritten
	}
	if s.finalized {
		return ErrSegmentFinalized
	}
	w = s.sink(w)

	numbers := s.opts.tracks.TrackNumbers()
	if len(numbers) == 0 {
		return ErrNoTracks
	}
	s.trackNumbers = make(map[uint64]bool, len(numbers))
	for _, n := range numbers {
		s.trackNumbers[n] = true
		if s.opts.tracks.IsVideo(n) {
			if !s.hasVideo && s.opts.cuesTrack == 0 {
				s.cuesTrack = n
			}
			s.hasVideo = true
		}
	}
	if s.opts.cuesTrack != 0 {
		if !s.trackNumbers[s.opts.cuesTrack] {
			return fmt.Errorf("%w: cues track %d", ErrInvalidTrackNumber, s.opts.cuesTrack)
		}
		s.cuesTrack = s.opts.cuesTrack
	}
	if s.cuesTrack == 0 {
		s.cuesTrack = numbers[0]
	}

	if err := s.opts.ebmlHeader.Write(w); err != nil {
		return fmt.Errorf("ebml header: %w", err)
	}

	if err := ebml.WriteID(w, ebml.IDSegment); err != nil {
		return err
	}
	s.sizePosition = w.Position()
	if err := ebml.WriteUnknownSize(w); err != nil {
		return err
	}
	s.payloadPos = w.Position()

	if s.fileMode(w) {
		if err := s.seekHead.Write(w); err != nil {
			return fmt.Errorf("seek head: %w", err)
		}
		// reserve room for the duration patched in by Finalize
		if s.opts.info.Duration() <= 0 {
			s.opts.info.SetDuration(1)
		}
	}

	elements := []struct {
		id uint64
		e  ebml.Element
	}{
		{ebml.IDInfo, s.opts.info},
		{ebml.IDTracks, s.opts.tracks},
		{ebml.IDChapters, s.opts.chapters},
		{ebml.IDTags, s.opts.tags},
	}
	for _, el := range elements {
		if el.e == nil {
			continue
		}
		if l, ok := el.e.(interface{ Len() int }); ok && l.Len() == 0 {
			continue
		}
		if err := s.seekHead.AddSeekEntry(el.id, w.Position()-s.payloadPos); err != nil {
			return err
		}
		if err := el.e.Write(w); err != nil {
			return fmt.Errorf("element 0x%X: %w", el.id, err)
		}
	}

	s.headerWritten = true
	s.log.Debug("segment header written",
		"mode", s.opts.mode.String(),
		"tracks", len(numbers),
		"cues_track", s.cuesTrack,
		"payload_pos", s.payloadPos)
	return nil
}

// AddNewFrame adds a frame built from its parts.
func (s *Segment) AddNewFrame(w ebml.Writer, data []byte, trackNumber, timestamp uint64, isKey bool) error {
	return s.AddFrame(w, NewFrame(data, trackNumber, timestamp, isKey))
}

// AddMetadata adds a key frame with a duration, as used by metadata tracks.
func (s *Segment) AddMetadata(w ebml.Writer, data []byte, trackNumber, timestamp, duration uint64) error {
	f := NewFrame(data, trackNumber, timestamp, true)
	f.SetDuration(duration)
	return s.AddFrame(w, f)
}

// AddFrameWithAdditional adds a frame carrying BlockAdditional data.
func (s *Segment) AddFrameWithAdditional(w ebml.Writer, data, additional []byte, addID, trackNumber, timestamp uint64, isKey bool) error {
	if len(additional) == 0 {
		return fmt.Errorf("%w: empty additional data", ErrInvalidFrame)
	}
	f := NewFrame(data, trackNumber, timestamp, isKey)
	f.AddAdditionalData(additional, addID)
	return s.AddFrame(w, f)
}

// AddFrameWithDiscardPadding adds a frame with a DiscardPadding in nanoseconds.
func (s *Segment) AddFrameWithDiscardPadding(w ebml.Writer, data []byte, discardPadding int64, trackNumber, timestamp uint64, isKey bool) error {
	f := NewFrame(data, trackNumber, timestamp, isKey)
	f.SetDiscardPadding(discardPadding)
	return s.AddFrame(w, f)
}

// AddFrame writes f into the current cluster, opening a new one first when
// needed. The header is written on the first frame if it was not yet.
func (s *Segment) AddFrame(w ebml.Writer, f *Frame) error {
	if s.finalized {
		return ErrSegmentFinalized
	}
	w = s.sink(w)
	if !s.headerWritten {
		if err := s.WriteHeader(w); err != nil {
			return err
		}
	}
	track := f.trackNumber
	if !f.isKey && !f.referenceBlockTimestampSet && !f.CanBeSimpleBlock() {
		if last, ok := s.lastTrackTimestamp[track]; ok {
			f = f.clone()
			f.SetReferenceBlockTimestamp(int64(last))
		}
	}
	if !f.IsValid() {
		return ErrInvalidFrame
	}
	if !s.trackNumbers[track] {
		return fmt.Errorf("%w: %d", ErrInvalidTrackNumber, track)
	}

	scale := s.opts.info.GetTimecodeScale()
	if s.cluster != nil && f.timestamp < s.cluster.Timecode()*scale {
		s.log.Warn("frame older than cluster dropped",
			"track", track,
			"timestamp", f.timestamp,
			"cluster_timecode", s.cluster.Timecode())
		return ErrIgnoreOldFrame
	}

	if s.needNewCluster(f) {
		if err := s.newCluster(w, f.timestamp); err != nil {
			return err
		}
	}

	if err := s.cluster.AddFrame(w, f); err != nil {
		return err
	}

	if s.newCuePoint && track == s.cuesTrack && f.isKey {
		if err := s.addCuePoint(f.timestamp); err != nil {
			return err
		}
	}

	s.lastTimestamp = f.timestamp
	s.lastTrackTimestamp[track] = f.timestamp
	s.lastBlockDuration = f.duration
	if end := f.timestamp + f.duration; end > s.maxTimestamp {
		s.maxTimestamp = end
	}
	return nil
}

func (s *Segment) needNewCluster(f *Frame) bool {
	if s.cluster == nil || s.forceNewCluster {
		return true
	}
	scale := s.opts.info.GetTimecodeScale()
	rel := f.timestamp/scale - s.cluster.Timecode()
	if rel > MaxBlockTimecode {
		return true
	}
	if s.hasVideo && !(f.isKey && s.opts.tracks.IsVideo(f.trackNumber)) {
		return false
	}
	if d := s.opts.maxClusterDuration; d > 0 && f.timestamp-s.cluster.Timecode()*scale >= uint64(d) {
		return true
	}
	if s.opts.maxClusterSize > 0 && s.cluster.Size() >= s.opts.maxClusterSize {
		return true
	}
	return false
}

func (s *Segment) newCluster(w ebml.Writer, timestamp uint64) error {
	if s.cluster != nil {
		// frames of the old cluster last until the new one starts
		if err := s.closeCluster(w, max(timestamp, s.maxTimestamp)); err != nil {
			return err
		}
	}

	scale := s.opts.info.GetTimecodeScale()
	pos := w.Position() - s.payloadPos
	s.cluster = NewCluster(timestamp/scale, int64(pos), scale,
		s.opts.accurateClusterDuration, s.opts.fixedSizeClusterTimecode)
	// delta frames at the head of the cluster reference blocks of the previous one
	for track, ts := range s.lastTrackTimestamp {
		s.cluster.SetLastBlockTimestamp(track, ts)
	}
	s.clusterCount++
	s.forceNewCluster = false
	s.newCuePoint = true

	s.log.Debug("cluster opened",
		"index", s.clusterCount,
		"timecode", s.cluster.Timecode(),
		"position", pos)
	return nil
}

func (s *Segment) closeCluster(w ebml.Writer, end uint64) error {
	c := s.cluster
	var err error
	if c.WriteLastFrameWithDuration() {
		err = c.FinalizeWithDuration(w, true, end)
	} else {
		err = c.Finalize(w)
	}
	if errors.Is(err, ErrHeaderNotWritten) {
		// nothing was ever written to it
		return nil
	}
	if err != nil {
		return fmt.Errorf("cluster %d: %w", s.clusterCount, err)
	}
	s.log.Debug("cluster closed",
		"index", s.clusterCount,
		"blocks", c.BlocksAdded(),
		"size", c.Size())
	return nil
}

func (s *Segment) addCuePoint(timestamp uint64) error {
	if !s.opts.outputCues || s.opts.mode == ModeLive {
		s.newCuePoint = false
		return nil
	}
	// a held back frame has no block number yet
	var block uint64
	if !s.cluster.WriteLastFrameWithDuration() {
		block = uint64(s.cluster.BlocksAdded())
	}
	s.cues.AddCue(CuePoint{
		Time:        timestamp / s.opts.info.GetTimecodeScale(),
		Track:       s.cuesTrack,
		ClusterPos:  uint64(s.cluster.PositionForCues()),
		BlockNumber: block,
	})
	s.newCuePoint = false
	return nil
}

// Duration returns the segment duration so far in timecode units.
func (s *Segment) Duration() float64 {
	end := max(s.lastTimestamp+s.lastBlockDuration, s.maxTimestamp)
	return float64(end) / float64(s.opts.info.GetTimecodeScale())
}

// Finalize closes the last cluster and, in file mode, writes the Cues and
// patches the Info duration, the SeekHead and the segment size.
func (s *Segment) Finalize(w ebml.Writer) error {
	if s.finalized {
		return ErrSegmentFinalized
	}
	w = s.sink(w)
	if !s.headerWritten {
		if err := s.WriteHeader(w); err != nil {
			return err
		}
	}

	if s.cluster != nil {
		if err := s.closeCluster(w, max(s.lastTimestamp+s.lastBlockDuration, s.maxTimestamp)); err != nil {
			return err
		}
	}
	s.finalized = true

	if s.opts.mode != ModeFile {
		s.log.Debug("segment finalized", "mode", s.opts.mode.String(), "clusters", s.clusterCount)
		return nil
	}

	if s.opts.outputCues && s.cues.Len() > 0 {
		if err := s.seekHead.AddSeekEntry(ebml.IDCues, w.Position()-s.payloadPos); err != nil {
			return err
		}
		if err := s.cues.Write(w); err != nil {
			return fmt.Errorf("cues: %w", err)
		}
	}

	if !w.Seekable() {
		return nil
	}

	s.opts.info.SetDuration(s.Duration())
	if err := s.opts.info.Finalize(w); err != nil {
		return fmt.Errorf("segment info: %w", err)
	}
	if err := s.seekHead.Finalize(w); err != nil {
		return err
	}

	end := w.Position()
	if err := w.SetPosition(s.sizePosition); err != nil {
		return err
	}
	if err := ebml.WriteUIntSize(w, end-s.payloadPos, 8); err != nil {
		return err
	}
	if err := w.SetPosition(end); err != nil {
		return err
	}

	s.log.Debug("segment finalized",
		"mode", s.opts.mode.String(),
		"clusters", s.clusterCount,
		"cues", s.cues.Len(),
		"size", end-s.payloadPos)
	return nil
}
