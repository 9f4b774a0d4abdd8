package codecs

import "errors"

var (
	ErrUnknownNALUFormat    = errors.New("unknown NALU format")
	ErrMissingParameterSets = errors.New("missing parameter sets")
)
