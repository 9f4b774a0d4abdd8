package webm

import (
	"github.com/greendrake/mkvmux/muxer/ebml"
)

const (
	// ContentEncAlgoAES is the only encryption algorithm WebM allows.
	ContentEncAlgoAES = 5
	// AESCipherModeCTR is the only AES cipher mode WebM allows.
	AESCipherModeCTR = 1
)

// ContentEncoding represents an encryption ContentEncoding element.
type ContentEncoding struct {
	Order      uint64
	Scope      uint64
	Type       uint64
	EncAlgo    uint64
	EncKeyID   []byte
	CipherMode uint64
}

// NewContentEncoding returns an AES-CTR encryption of every frame.
func NewContentEncoding() *ContentEncoding {
	return &ContentEncoding{
		Scope:      1,
		Type:       1,
		EncAlgo:    ContentEncAlgoAES,
		CipherMode: AESCipherModeCTR,
	}
}

func (e *ContentEncoding) aesPayloadSize() uint64 {
	return ebml.ElementSizeUint(ebml.IDAESSettingsCipherMode, e.CipherMode)
}

func (e *ContentEncoding) encryptionPayloadSize() uint64 {
	aes := e.aesPayloadSize()
	return ebml.ElementSizeUint(ebml.IDContentEncAlgo, e.EncAlgo) +
		ebml.ElementSizeBytes(ebml.IDContentEncKeyID, e.EncKeyID) +
		ebml.MasterElementSize(ebml.IDContentEncAESSettings, aes) + aes
}

func (e *ContentEncoding) PayloadSize() uint64 {
	enc := e.encryptionPayloadSize()
	return ebml.ElementSizeUint(ebml.IDContentEncodingOrder, e.Order) +
		ebml.ElementSizeUint(ebml.IDContentEncodingScope, e.Scope) +
		ebml.ElementSizeUint(ebml.IDContentEncodingType, e.Type) +
		ebml.MasterElementSize(ebml.IDContentEncryption, enc) + enc
}

func (e *ContentEncoding) Size() uint64 {
	payload := e.PayloadSize()
	return ebml.MasterElementSize(ebml.IDContentEncoding, payload) + payload
}

func (e *ContentEncoding) Write(w ebml.Writer) error {
	return ebml.WriteMaster(w, ebml.IDContentEncoding, e.PayloadSize(), func() error {
		if err := ebml.WriteElementUint(w, ebml.IDContentEncodingOrder, e.Order); err != nil {
			return err
		}
		if err := ebml.WriteElementUint(w, ebml.IDContentEncodingScope, e.Scope); err != nil {
			return err
		}
		if err := ebml.WriteElementUint(w, ebml.IDContentEncodingType, e.Type); err != nil {
			return err
		}
		return ebml.WriteMaster(w, ebml.IDContentEncryption, e.encryptionPayloadSize(), func() error {
			if err := ebml.WriteElementUint(w, ebml.IDContentEncAlgo, e.EncAlgo); err != nil {
				return err
			}
			if err := ebml.WriteElementBytes(w, ebml.IDContentEncKeyID, e.EncKeyID); err != nil {
				return err
			}
			return ebml.WriteMaster(w, ebml.IDContentEncAESSettings, e.aesPayloadSize(), func() error {
				return ebml.WriteElementUint(w, ebml.IDAESSettingsCipherMode, e.CipherMode)
			})
		})
	})
}
