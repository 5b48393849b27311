package wire

// Version is the leading byte of every serialized envelope.
type Version uint8

const (
	VersionEncrypted Version = 1
	VersionSigned    Version = 2
)

func (v Version) String() string {
	switch v {
	case VersionEncrypted:
		return "ENCRYPTED"
	case VersionSigned:
		return "SIGNED"
	default:
		return "UNKNOWN"
	}
}

const (
	NonceSize           = 24
	PublicKeySize       = 32
	SignatureSize       = 64
	EncryptedHeaderSize = 1 + NonceSize + PublicKeySize     // 57
	SignedHeaderSize    = 1 + PublicKeySize + SignatureSize // 97
	MaxEnvelopeSize     = 16 << 20
)

// Envelope is either *Encrypted or *Signed. The set is closed; callers
// switch on the concrete type.
type Envelope interface {
	Version() Version
	Marshal() []byte
	envelope()
}

// Encrypted is a box-sealed direct message.
type Encrypted struct {
	Nonce           [NonceSize]byte
	SenderPublicKey [PublicKeySize]byte // X25519
	Ciphertext      []byte
}

func (*Encrypted) Version() Version { return VersionEncrypted }
func (*Encrypted) envelope()        {}

// Signed is a broadcast message carrying only an origin proof.
type Signed struct {
	SenderPublicKey [PublicKeySize]byte // derived Ed25519 key
	Signature       [SignatureSize]byte
	Message         []byte
}

func (*Signed) Version() Version { return VersionSigned }
func (*Signed) envelope()        {}
