package ebml

// Element IDs as they appear on the wire, length marker bits included.
// https://www.matroska.org/technical/elements.html
const (
	IDEBML               uint64 = 0x1A45DFA3
	IDEBMLVersion        uint64 = 0x4286
	IDEBMLReadVersion    uint64 = 0x42F7
	IDEBMLMaxIDLength    uint64 = 0x42F2
	IDEBMLMaxSizeLength  uint64 = 0x42F3
	IDDocType            uint64 = 0x4282
	IDDocTypeVersion     uint64 = 0x4287
	IDDocTypeReadVersion uint64 = 0x4285
	IDVoid               uint64 = 0xEC

	IDSegment uint64 = 0x18538067

	IDSeekHead     uint64 = 0x114D9B74
	IDSeek         uint64 = 0x4DBB
	IDSeekID       uint64 = 0x53AB
	IDSeekPosition uint64 = 0x53AC

	IDInfo          uint64 = 0x1549A966
	IDSegmentUID    uint64 = 0x73A4
	IDPrevUID       uint64 = 0x3CB923
	IDTimecodeScale uint64 = 0x2AD7B1
	IDDuration      uint64 = 0x4489
	IDDateUTC       uint64 = 0x4461
	IDTitle         uint64 = 0x7BA9
	IDMuxingApp     uint64 = 0x4D80
	IDWritingApp    uint64 = 0x5741

	IDCluster         uint64 = 0x1F43B675
	IDTimecode        uint64 = 0xE7
	IDPrevSize        uint64 = 0xAB
	IDSimpleBlock     uint64 = 0xA3
	IDBlockGroup      uint64 = 0xA0
	IDBlock           uint64 = 0xA1
	IDBlockAdditions  uint64 = 0x75A1
	IDBlockMore       uint64 = 0xA6
	IDBlockAddID      uint64 = 0xEE
	IDBlockAdditional uint64 = 0xA5
	IDBlockDuration   uint64 = 0x9B
	IDReferenceBlock  uint64 = 0xFB
	IDDiscardPadding  uint64 = 0x75A2

	IDTracks             uint64 = 0x1654AE6B
	IDTrackEntry         uint64 = 0xAE
	IDTrackNumber        uint64 = 0xD7
	IDTrackUID           uint64 = 0x73C5
	IDTrackType          uint64 = 0x83
	IDFlagEnabled        uint64 = 0xB9
	IDFlagDefault        uint64 = 0x88
	IDFlagForced         uint64 = 0x55AA
	IDFlagLacing         uint64 = 0x9C
	IDDefaultDuration    uint64 = 0x23E383
	IDMaxBlockAdditionID uint64 = 0x55EE
	IDName               uint64 = 0x536E
	IDLanguage           uint64 = 0x22B59C
	IDCodecID            uint64 = 0x86
	IDCodecPrivate       uint64 = 0x63A2
	IDCodecName          uint64 = 0x258688
	IDCodecDelay         uint64 = 0x56AA
	IDSeekPreRoll        uint64 = 0x56BB

	IDVideo           uint64 = 0xE0
	IDFlagInterlaced  uint64 = 0x9A
	IDStereoMode      uint64 = 0x53B8
	IDAlphaMode       uint64 = 0x53C0
	IDPixelWidth      uint64 = 0xB0
	IDPixelHeight     uint64 = 0xBA
	IDPixelCropBottom uint64 = 0x54AA
	IDPixelCropTop    uint64 = 0x54BB
	IDPixelCropLeft   uint64 = 0x54CC
	IDPixelCropRight  uint64 = 0x54DD
	IDDisplayWidth    uint64 = 0x54B0
	IDDisplayHeight   uint64 = 0x54BA
	IDDisplayUnit     uint64 = 0x54B2
	IDAspectRatioType uint64 = 0x54B3
	IDColourSpace     uint64 = 0x2EB524
	IDFrameRate       uint64 = 0x2383E3

	IDColour                  uint64 = 0x55B0
	IDMatrixCoefficients      uint64 = 0x55B1
	IDBitsPerChannel          uint64 = 0x55B2
	IDChromaSubsamplingHorz   uint64 = 0x55B3
	IDChromaSubsamplingVert   uint64 = 0x55B4
	IDCbSubsamplingHorz       uint64 = 0x55B5
	IDCbSubsamplingVert       uint64 = 0x55B6
	IDChromaSitingHorz        uint64 = 0x55B7
	IDChromaSitingVert        uint64 = 0x55B8
	IDRange                   uint64 = 0x55B9
	IDTransferCharacteristics uint64 = 0x55BA
	IDPrimaries               uint64 = 0x55BB
	IDMaxCLL                  uint64 = 0x55BC
	IDMaxFALL                 uint64 = 0x55BD

	IDMasteringMetadata       uint64 = 0x55D0
	IDPrimaryRChromaticityX   uint64 = 0x55D1
	IDPrimaryRChromaticityY   uint64 = 0x55D2
	IDPrimaryGChromaticityX   uint64 = 0x55D3
	IDPrimaryGChromaticityY   uint64 = 0x55D4
	IDPrimaryBChromaticityX   uint64 = 0x55D5
	IDPrimaryBChromaticityY   uint64 = 0x55D6
	IDWhitePointChromaticityX uint64 = 0x55D7
	IDWhitePointChromaticityY uint64 = 0x55D8
	IDLuminanceMax            uint64 = 0x55D9
	IDLuminanceMin            uint64 = 0x55DA

	IDProjection          uint64 = 0x7670
	IDProjectionType      uint64 = 0x7671
	IDProjectionPrivate   uint64 = 0x7672
	IDProjectionPoseYaw   uint64 = 0x7673
	IDProjectionPosePitch uint64 = 0x7674
	IDProjectionPoseRoll  uint64 = 0x7675

	IDAudio                   uint64 = 0xE1
	IDSamplingFrequency       uint64 = 0xB5
	IDOutputSamplingFrequency uint64 = 0x78B5
	IDChannels                uint64 = 0x9F
	IDBitDepth                uint64 = 0x6264

	IDContentEncodings      uint64 = 0x6D80
	IDContentEncoding       uint64 = 0x6240
	IDContentEncodingOrder  uint64 = 0x5031
	IDContentEncodingScope  uint64 = 0x5032
	IDContentEncodingType   uint64 = 0x5033
	IDContentEncryption     uint64 = 0x5035
	IDContentEncAlgo        uint64 = 0x47E1
	IDContentEncKeyID       uint64 = 0x47E2
	IDContentEncAESSettings uint64 = 0x47E7
	IDAESSettingsCipherMode uint64 = 0x47E8

	IDCues               uint64 = 0x1C53BB6B
	IDCuePoint           uint64 = 0xBB
	IDCueTime            uint64 = 0xB3
	IDCueTrackPositions  uint64 = 0xB7
	IDCueTrack           uint64 = 0xF7
	IDCueClusterPosition uint64 = 0xF1
	IDCueBlockNumber     uint64 = 0x5378

	IDChapters         uint64 = 0x1043A770
	IDEditionEntry     uint64 = 0x45B9
	IDChapterAtom      uint64 = 0xB6
	IDChapterUID       uint64 = 0x73C4
	IDChapterStringUID uint64 = 0x5654
	IDChapterTimeStart uint64 = 0x91
	IDChapterTimeEnd   uint64 = 0x92
	IDChapterDisplay   uint64 = 0x80
	IDChapString       uint64 = 0x85
	IDChapLanguage     uint64 = 0x437C
	IDChapCountry      uint64 = 0x437E

	IDTags            uint64 = 0x1254C367
	IDTag             uint64 = 0x7373
	IDTargets         uint64 = 0x63C0
	IDTargetTypeValue uint64 = 0x68CA
	IDTargetType      uint64 = 0x63CA
	IDTagTrackUID     uint64 = 0x63C5
	IDSimpleTag       uint64 = 0x67C8
	IDTagName         uint64 = 0x45A3
	IDTagLanguage     uint64 = 0x447A
	IDTagDefault      uint64 = 0x4484
	IDTagString       uint64 = 0x4487
)
