// Copyright 2019 The ebml-go authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package webm

import (
	"math"

	"github.com/greendrake/mkvmux/muxer/ebml"
)

const (
	StereoModeMono                   = 0
	StereoModeSideBySideLeftIsFirst  = 1
	StereoModeTopBottomRightIsFirst  = 2
	StereoModeTopBottomLeftIsFirst   = 3
	StereoModeSideBySideRightIsFirst = 11

	AlphaModeNone  = 0
	AlphaModeAlpha = 1
)

// Video represents Video element struct.
type Video struct {
	PixelWidth      uint64
	PixelHeight     uint64
	DisplayWidth    uint64
	DisplayHeight   uint64
	PixelCropLeft   uint64
	PixelCropRight  uint64
	PixelCropTop    uint64
	PixelCropBottom uint64
	StereoMode      uint64
	AlphaMode       uint64
	FrameRate       float64
	ColourSpace     string
	Colour          *Colour
	Projection      *Projection
}

// Set updates the pixel dimensions.
func (v *Video) Set(w uint64, h uint64) {
	v.PixelWidth = w
	v.PixelHeight = h
}

func (v *Video) SetStereoMode(mode uint64) error {
	switch mode {
	case StereoModeMono, StereoModeSideBySideLeftIsFirst, StereoModeTopBottomRightIsFirst,
		StereoModeTopBottomLeftIsFirst, StereoModeSideBySideRightIsFirst:
		v.StereoMode = mode
		return nil
	}
	return ErrInvalidStereoMode
}

func (v *Video) SetAlphaMode(mode uint64) error {
	if mode != AlphaModeNone && mode != AlphaModeAlpha {
		return ErrInvalidAlphaMode
	}
	v.AlphaMode = mode
	return nil
}

func (v *Video) validate() error {
	if v.Colour != nil && !v.Colour.Valid() {
		return ErrInvalidColour
	}
	if v.Projection != nil && v.Projection.Type > ProjectionMesh {
		return ErrInvalidProjection
	}
	return nil
}

type uintField struct {
	id    uint64
	value uint64
}

func (v *Video) optionalUints() []uintField {
	return []uintField{
		{ebml.IDDisplayWidth, v.DisplayWidth},
		{ebml.IDDisplayHeight, v.DisplayHeight},
		{ebml.IDPixelCropLeft, v.PixelCropLeft},
		{ebml.IDPixelCropRight, v.PixelCropRight},
		{ebml.IDPixelCropTop, v.PixelCropTop},
		{ebml.IDPixelCropBottom, v.PixelCropBottom},
		{ebml.IDStereoMode, v.StereoMode},
		{ebml.IDAlphaMode, v.AlphaMode},
	}
}

func (v *Video) PayloadSize() uint64 {
	size := ebml.ElementSizeUint(ebml.IDPixelWidth, v.PixelWidth) +
		ebml.ElementSizeUint(ebml.IDPixelHeight, v.PixelHeight)
	for _, f := range v.optionalUints() {
		if f.value > 0 {
			size += ebml.ElementSizeUint(f.id, f.value)
		}
	}
	if v.ColourSpace != "" {
		size += ebml.ElementSizeString(ebml.IDColourSpace, v.ColourSpace)
	}
	if v.FrameRate > 0 {
		size += ebml.ElementSizeFloat(ebml.IDFrameRate)
	}
	if v.Colour != nil {
		size += v.Colour.Size()
	}
	if v.Projection != nil {
		size += v.Projection.Size()
	}
	return size
}

func (v *Video) Size() uint64 {
	payload := v.PayloadSize()
	return ebml.MasterElementSize(ebml.IDVideo, payload) + payload
}

func (v *Video) Write(w ebml.Writer) error {
	return ebml.WriteMaster(w, ebml.IDVideo, v.PayloadSize(), func() error {
		if err := ebml.WriteElementUint(w, ebml.IDPixelWidth, v.PixelWidth); err != nil {
			return err
		}
		if err := ebml.WriteElementUint(w, ebml.IDPixelHeight, v.PixelHeight); err != nil {
			return err
		}
		for _, f := range v.optionalUints() {
			if f.value == 0 {
				continue
			}
			if err := ebml.WriteElementUint(w, f.id, f.value); err != nil {
				return err
			}
		}
		if v.ColourSpace != "" {
			if err := ebml.WriteElementString(w, ebml.IDColourSpace, v.ColourSpace); err != nil {
				return err
			}
		}
		if v.FrameRate > 0 {
			if err := ebml.WriteElementFloat(w, ebml.IDFrameRate, float32(v.FrameRate)); err != nil {
				return err
			}
		}
		if v.Colour != nil {
			if err := v.Colour.Write(w); err != nil {
				return err
			}
		}
		if v.Projection != nil {
			return v.Projection.Write(w)
		}
		return nil
	})
}

// ValueNotPresent marks an unset Colour field.
const ValueNotPresent = math.MaxUint64

// FloatNotPresent marks an unset MasteringMetadata field.
const FloatNotPresent = math.MaxFloat32

// Colour represents Colour element struct. Fields holding ValueNotPresent
// are not written.
type Colour struct {
	MatrixCoefficients      uint64
	BitsPerChannel          uint64
	ChromaSubsamplingHorz   uint64
	ChromaSubsamplingVert   uint64
	CbSubsamplingHorz       uint64
	CbSubsamplingVert       uint64
	ChromaSitingHorz        uint64
	ChromaSitingVert        uint64
	Range                   uint64
	TransferCharacteristics uint64
	Primaries               uint64
	MaxCLL                  uint64
	MaxFALL                 uint64
	MasteringMetadata       *MasteringMetadata
}

// NewColour returns a Colour with every field unset.
func NewColour() *Colour {
	return &Colour{
		MatrixCoefficients:      ValueNotPresent,
		BitsPerChannel:          ValueNotPresent,
		ChromaSubsamplingHorz:   ValueNotPresent,
		ChromaSubsamplingVert:   ValueNotPresent,
		CbSubsamplingHorz:       ValueNotPresent,
		CbSubsamplingVert:       ValueNotPresent,
		ChromaSitingHorz:        ValueNotPresent,
		ChromaSitingVert:        ValueNotPresent,
		Range:                   ValueNotPresent,
		TransferCharacteristics: ValueNotPresent,
		Primaries:               ValueNotPresent,
		MaxCLL:                  ValueNotPresent,
		MaxFALL:                 ValueNotPresent,
	}
}

func (c *Colour) fields() []uintField {
	return []uintField{
		{ebml.IDMatrixCoefficients, c.MatrixCoefficients},
		{ebml.IDBitsPerChannel, c.BitsPerChannel},
		{ebml.IDChromaSubsamplingHorz, c.ChromaSubsamplingHorz},
		{ebml.IDChromaSubsamplingVert, c.ChromaSubsamplingVert},
		{ebml.IDCbSubsamplingHorz, c.CbSubsamplingHorz},
		{ebml.IDCbSubsamplingVert, c.CbSubsamplingVert},
		{ebml.IDChromaSitingHorz, c.ChromaSitingHorz},
		{ebml.IDChromaSitingVert, c.ChromaSitingVert},
		{ebml.IDRange, c.Range},
		{ebml.IDTransferCharacteristics, c.TransferCharacteristics},
		{ebml.IDPrimaries, c.Primaries},
		{ebml.IDMaxCLL, c.MaxCLL},
		{ebml.IDMaxFALL, c.MaxFALL},
	}
}

func present(v uint64) bool { return v != ValueNotPresent }

// Valid reports whether every set field holds a defined value.
func (c *Colour) Valid() bool {
	if present(c.MatrixCoefficients) && (c.MatrixCoefficients == 3 || c.MatrixCoefficients > 14) {
		return false
	}
	if present(c.ChromaSitingHorz) && c.ChromaSitingHorz > 2 {
		return false
	}
	if present(c.ChromaSitingVert) && c.ChromaSitingVert > 2 {
		return false
	}
	if present(c.Range) && c.Range > 3 {
		return false
	}
	if present(c.TransferCharacteristics) && (c.TransferCharacteristics == 0 || c.TransferCharacteristics > 18) {
		return false
	}
	if present(c.Primaries) {
		switch p := c.Primaries; {
		case p == 0 || p == 3:
			return false
		case p > 10 && p != 22:
			return false
		}
	}
	if c.MasteringMetadata != nil && !c.MasteringMetadata.Valid() {
		return false
	}
	return true
}

func (c *Colour) PayloadSize() uint64 {
	var size uint64
	for _, f := range c.fields() {
		if present(f.value) {
			size += ebml.ElementSizeUint(f.id, f.value)
		}
	}
	if c.MasteringMetadata != nil {
		size += c.MasteringMetadata.Size()
	}
	return size
}

func (c *Colour) Size() uint64 {
	payload := c.PayloadSize()
	return ebml.MasterElementSize(ebml.IDColour, payload) + payload
}

func (c *Colour) Write(w ebml.Writer) error {
	return ebml.WriteMaster(w, ebml.IDColour, c.PayloadSize(), func() error {
		for _, f := range c.fields() {
			if !present(f.value) {
				continue
			}
			if err := ebml.WriteElementUint(w, f.id, f.value); err != nil {
				return err
			}
		}
		if c.MasteringMetadata != nil {
			return c.MasteringMetadata.Write(w)
		}
		return nil
	})
}

// Chromaticity is a CIE 1931 xy coordinate.
type Chromaticity struct {
	X float32
	Y float32
}

func (p Chromaticity) valid() bool {
	return p.X >= 0 && p.X <= 1 && p.Y >= 0 && p.Y <= 1
}

// MasteringMetadata represents MasteringMetadata element struct.
// Luminances holding FloatNotPresent and nil chromaticities are not written.
type MasteringMetadata struct {
	LuminanceMax float32
	LuminanceMin float32
	PrimaryR     *Chromaticity
	PrimaryG     *Chromaticity
	PrimaryB     *Chromaticity
	WhitePoint   *Chromaticity
}

func NewMasteringMetadata() *MasteringMetadata {
	return &MasteringMetadata{
		LuminanceMax: FloatNotPresent,
		LuminanceMin: FloatNotPresent,
	}
}

const (
	maxLuminanceMax = 9999.99
	maxLuminanceMin = 999.9999
)

func (m *MasteringMetadata) Valid() bool {
	if m.LuminanceMin != FloatNotPresent && (m.LuminanceMin < 0 || m.LuminanceMin > maxLuminanceMin) {
		return false
	}
	if m.LuminanceMax != FloatNotPresent {
		if m.LuminanceMax < 0 || m.LuminanceMax > maxLuminanceMax {
			return false
		}
		if m.LuminanceMin != FloatNotPresent && m.LuminanceMax < m.LuminanceMin {
			return false
		}
	}
	for _, p := range m.points() {
		if p.c != nil && !p.c.valid() {
			return false
		}
	}
	return true
}

type chromaticityField struct {
	x, y uint64
	c    *Chromaticity
}

func (m *MasteringMetadata) points() []chromaticityField {
	return []chromaticityField{
		{ebml.IDPrimaryRChromaticityX, ebml.IDPrimaryRChromaticityY, m.PrimaryR},
		{ebml.IDPrimaryGChromaticityX, ebml.IDPrimaryGChromaticityY, m.PrimaryG},
		{ebml.IDPrimaryBChromaticityX, ebml.IDPrimaryBChromaticityY, m.PrimaryB},
		{ebml.IDWhitePointChromaticityX, ebml.IDWhitePointChromaticityY, m.WhitePoint},
	}
}

func (m *MasteringMetadata) PayloadSize() uint64 {
	var size uint64
	if m.LuminanceMax != FloatNotPresent {
		size += ebml.ElementSizeFloat(ebml.IDLuminanceMax)
	}
	if m.LuminanceMin != FloatNotPresent {
		size += ebml.ElementSizeFloat(ebml.IDLuminanceMin)
	}
	for _, p := range m.points() {
		if p.c != nil {
			size += ebml.ElementSizeFloat(p.x) + ebml.ElementSizeFloat(p.y)
		}
	}
	return size
}

func (m *MasteringMetadata) Size() uint64 {
	payload := m.PayloadSize()
	return ebml.MasterElementSize(ebml.IDMasteringMetadata, payload) + payload
}

func (m *MasteringMetadata) Write(w ebml.Writer) error {
	return ebml.WriteMaster(w, ebml.IDMasteringMetadata, m.PayloadSize(), func() error {
		if m.LuminanceMax != FloatNotPresent {
			if err := ebml.WriteElementFloat(w, ebml.IDLuminanceMax, m.LuminanceMax); err != nil {
				return err
			}
		}
		if m.LuminanceMin != FloatNotPresent {
			if err := ebml.WriteElementFloat(w, ebml.IDLuminanceMin, m.LuminanceMin); err != nil {
				return err
			}
		}
		for _, p := range m.points() {
			if p.c == nil {
				continue
			}
			if err := ebml.WriteElementFloat(w, p.x, p.c.X); err != nil {
				return err
			}
			if err := ebml.WriteElementFloat(w, p.y, p.c.Y); err != nil {
				return err
			}
		}
		return nil
	})
}

type ProjectionType = uint64

const (
	ProjectionRectangular     ProjectionType = 0
	ProjectionEquirectangular ProjectionType = 1
	ProjectionCubeMap         ProjectionType = 2
	ProjectionMesh            ProjectionType = 3
)

// Projection represents Projection element struct.
type Projection struct {
	Type      ProjectionType
	Private   []byte
	PoseYaw   float32
	PosePitch float32
	PoseRoll  float32
}

func (p *Projection) PayloadSize() uint64 {
	size := ebml.ElementSizeUint(ebml.IDProjectionType, p.Type)
	if len(p.Private) > 0 {
		size += ebml.ElementSizeBytes(ebml.IDProjectionPrivate, p.Private)
	}
	return size + 3*ebml.ElementSizeFloat(ebml.IDProjectionPoseYaw)
}

func (p *Projection) Size() uint64 {
	payload := p.PayloadSize()
	return ebml.MasterElementSize(ebml.IDProjection, payload) + payload
}

func (p *Projection) Write(w ebml.Writer) error {
	return ebml.WriteMaster(w, ebml.IDProjection, p.PayloadSize(), func() error {
		if err := ebml.WriteElementUint(w, ebml.IDProjectionType, p.Type); err != nil {
			return err
		}
		if len(p.Private) > 0 {
			if err := ebml.WriteElementBytes(w, ebml.IDProjectionPrivate, p.Private); err != nil {
				return err
			}
		}
		if err := ebml.WriteElementFloat(w, ebml.IDProjectionPoseYaw, p.PoseYaw); err != nil {
			return err
		}
		if err := ebml.WriteElementFloat(w, ebml.IDProjectionPosePitch, p.PosePitch); err != nil {
			return err
		}
		return ebml.WriteElementFloat(w, ebml.IDProjectionPoseRoll, p.PoseRoll)
	})
}
