package nahan

import (
	"github.com/nahan-app/nahan/nahan/crypto"
	"github.com/nahan-app/nahan/nahan/packet"
	"github.com/nahan-app/nahan/nahan/stego/erasure"
	"github.com/nahan-app/nahan/nahan/stego/pixel"
	"github.com/nahan-app/nahan/nahan/stego/tag"
	"github.com/nahan-app/nahan/nahan/textcodec"
	"github.com/nahan-app/nahan/nahan/wire"
)

// Errors returned by the layers below, re-exported for callers that only
// import this package. Test with errors.Is.
var (
	ErrMalformedEnvelope     = wire.ErrMalformedEnvelope
	ErrUnsupportedVersion    = wire.ErrUnsupportedVersion
	ErrDecryptionFailed      = crypto.ErrDecryptionFailed
	ErrSignatureInvalid      = crypto.ErrSignatureInvalid
	ErrNotATagMessage        = tag.ErrNotATagMessage
	ErrCorruptedTransmission = tag.ErrCorruptedTransmission
	ErrCapacityExceeded      = pixel.ErrCapacityExceeded
	ErrInvalidPayloadLength  = pixel.ErrInvalidPayloadLength
	ErrIncompletePayload     = pixel.ErrIncompletePayload
	ErrNoMagicHeader         = textcodec.ErrNoMagicHeader
	ErrUnknownPacketType     = packet.ErrUnknownPacketType
	ErrTooManyLost           = erasure.ErrTooManyLost
	ErrInvalidCarrierSet     = erasure.ErrInvalidConfig
)
