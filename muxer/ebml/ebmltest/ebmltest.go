// Package ebmltest decodes EBML streams into element trees so tests can
// inspect what the muxer wrote.
package ebmltest

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	ebmlgo "github.com/at-wat/ebml-go"

	"github.com/greendrake/mkvmux/muxer/ebml"
)

var (
	ErrParse         = errors.New("ebmltest: parse error")
	ErrUnexpectedEOF = errors.New("ebmltest: unexpected EOF")
)

// Element is a decoded element. Data is nil for master elements.
type Element struct {
	ID         uint64
	Offset     uint64
	DataOffset uint64
	Size       uint64
	SizeLen    int
	Unknown    bool
	Data       []byte
	Children   []*Element
}

var masters = map[uint64]bool{
	ebml.IDEBML:                  true,
	ebml.IDSegment:               true,
	ebml.IDSeekHead:              true,
	ebml.IDSeek:                  true,
	ebml.IDInfo:                  true,
	ebml.IDCluster:               true,
	ebml.IDBlockGroup:            true,
	ebml.IDBlockAdditions:        true,
	ebml.IDBlockMore:             true,
	ebml.IDTracks:                true,
	ebml.IDTrackEntry:            true,
	ebml.IDVideo:                 true,
	ebml.IDColour:                true,
	ebml.IDMasteringMetadata:     true,
	ebml.IDProjection:            true,
	ebml.IDAudio:                 true,
	ebml.IDContentEncodings:      true,
	ebml.IDContentEncoding:       true,
	ebml.IDContentEncryption:     true,
	ebml.IDContentEncAESSettings: true,
	ebml.IDCues:                  true,
	ebml.IDCuePoint:              true,
	ebml.IDCueTrackPositions:     true,
	ebml.IDChapters:              true,
	ebml.IDEditionEntry:          true,
	ebml.IDChapterAtom:           true,
	ebml.IDChapterDisplay:        true,
	ebml.IDTags:                  true,
	ebml.IDTag:                   true,
	ebml.IDTargets:               true,
	ebml.IDSimpleTag:             true,
}

var topLevel = map[uint64]bool{
	ebml.IDSeekHead: true,
	ebml.IDInfo:     true,
	ebml.IDTracks:   true,
	ebml.IDCluster:  true,
	ebml.IDCues:     true,
	ebml.IDChapters: true,
	ebml.IDTags:     true,
}

// Parse decodes every element in b.
func Parse(b []byte) ([]*Element, error) {
	p := &parser{b: b}
	return p.parseUntil(uint64(len(b)), 0)
}

type parser struct {
	b   []byte
	pos uint64
}

func (p *parser) parseUntil(end uint64, parent uint64) ([]*Element, error) {
	var out []*Element
	for p.pos < end {
		if parent == ebml.IDCluster && end == uint64(len(p.b)) {
			// unknown sized cluster ends at the next top level element
			if id, _, err := p.peekID(); err == nil && topLevel[id] {
				break
			}
		}
		el, err := p.parseElement()
		if err != nil {
			return out, err
		}
		out = append(out, el)
	}
	return out, nil
}

func (p *parser) peekID() (uint64, int, error) {
	if p.pos >= uint64(len(p.b)) {
		return 0, 0, ErrUnexpectedEOF
	}
	first := p.b[p.pos]
	n := 0
	switch {
	case first&0x80 != 0:
		n = 1
	case first&0x40 != 0:
		n = 2
	case first&0x20 != 0:
		n = 3
	case first&0x10 != 0:
		n = 4
	default:
		return 0, 0, fmt.Errorf("%w: bad id byte 0x%02X at %d", ErrParse, first, p.pos)
	}
	if p.pos+uint64(n) > uint64(len(p.b)) {
		return 0, 0, ErrUnexpectedEOF
	}
	return pack(p.b[p.pos : p.pos+uint64(n)]), n, nil
}

func (p *parser) parseElement() (*Element, error) {
	el := &Element{Offset: p.pos}
	id, n, err := p.peekID()
	if err != nil {
		return nil, err
	}
	el.ID = id
	p.pos += uint64(n)

	size, sizeLen, unknown, err := ReadVarUint(p.b[p.pos:])
	if err != nil {
		return nil, err
	}
	p.pos += uint64(sizeLen)
	el.Size, el.SizeLen, el.Unknown = size, sizeLen, unknown
	el.DataOffset = p.pos

	end := uint64(len(p.b))
	if !unknown {
		end = p.pos + size
		if end > uint64(len(p.b)) {
			return nil, fmt.Errorf("%w: element 0x%X at %d overruns input", ErrUnexpectedEOF, id, el.Offset)
		}
	}

	if masters[id] {
		children, err := p.parseUntil(end, id)
		if err != nil {
			return nil, err
		}
		el.Children = children
		if unknown {
			el.Size = p.pos - el.DataOffset
		}
		return el, nil
	}
	if unknown {
		return nil, fmt.Errorf("%w: unknown size on 0x%X", ErrParse, id)
	}
	el.Data = p.b[p.pos:end]
	p.pos = end
	return el, nil
}

// ReadVarUint decodes a size field, reporting its width and whether it holds
// the unknown size marker.
func ReadVarUint(b []byte) (value uint64, n int, unknown bool, err error) {
	if len(b) == 0 {
		return 0, 0, false, ErrUnexpectedEOF
	}
	for n = 1; n <= 8; n++ {
		if b[0]&(0x80>>uint(n-1)) != 0 {
			break
		}
	}
	if n > 8 {
		return 0, 0, false, fmt.Errorf("%w: bad size byte 0x%02X", ErrParse, b[0])
	}
	if len(b) < n {
		return 0, 0, false, ErrUnexpectedEOF
	}
	raw := pack(b[:n])
	value = raw &^ (uint64(1) << (7 * uint(n)))
	unknown = value == (uint64(1)<<(7*uint(n)))-1
	return value, n, unknown, nil
}

func pack(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v
}

// Child returns the first direct child with the given ID.
func (e *Element) Child(id uint64) *Element {
	for _, c := range e.Children {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// All returns every direct child with the given ID.
func (e *Element) All(id uint64) []*Element {
	var out []*Element
	for _, c := range e.Children {
		if c.ID == id {
			out = append(out, c)
		}
	}
	return out
}

func (e *Element) Uint() uint64 {
	return pack(e.Data)
}

func (e *Element) Int() int64 {
	if len(e.Data) == 0 {
		return 0
	}
	v := int64(pack(e.Data))
	shift := uint(64 - 8*len(e.Data))
	return v << shift >> shift
}

func (e *Element) Float() float64 {
	switch len(e.Data) {
	case 4:
		return float64(math.Float32frombits(binary.BigEndian.Uint32(e.Data)))
	case 8:
		return math.Float64frombits(binary.BigEndian.Uint64(e.Data))
	}
	return 0
}

func (e *Element) String() string {
	return string(e.Data)
}

// Find walks the trees depth first and returns every element with the given ID.
func Find(elems []*Element, id uint64) []*Element {
	var out []*Element
	for _, e := range elems {
		if e.ID == id {
			out = append(out, e)
		}
		out = append(out, Find(e.Children, id)...)
	}
	return out
}

// ParseBlock decodes the payload of a SimpleBlock or Block element.
func ParseBlock(b []byte) (*ebmlgo.Block, error) {
	return ebmlgo.UnmarshalBlock(bytes.NewReader(b), int64(len(b)))
}
