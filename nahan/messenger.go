package nahan

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/nahan-app/nahan/nahan/compress"
	"github.com/nahan-app/nahan/nahan/crypto"
	"github.com/nahan-app/nahan/nahan/identity"
	"github.com/nahan-app/nahan/nahan/packet"
	"github.com/nahan-app/nahan/nahan/stego/cover"
	"github.com/nahan-app/nahan/nahan/stego/tag"
	"github.com/nahan-app/nahan/nahan/wire"
)

// Kind tells what a revealed packet carried.
type Kind int

const (
	KindDirect Kind = iota + 1
	KindBroadcast
	KindIdentity
)

func (k Kind) String() string {
	switch k {
	case KindDirect:
		return "direct"
	case KindBroadcast:
		return "broadcast"
	case KindIdentity:
		return "identity"
	default:
		return "unknown"
	}
}

// Message is a revealed and opened packet.
type Message struct {
	Kind      Kind
	Plaintext []byte
	// Verified is true when the sender (or the shared identity) is one of
	// the trusted keys.
	Verified        bool
	Fingerprint     identity.Fingerprint
	SenderPublicKey [identity.KeySize]byte
	// IntegrityOK is false only for lenient text decodes whose checksum
	// failed. Such messages must be treated as untrusted.
	IntegrityOK bool
	Identity    *identity.Card
}

// Messenger composes the envelope, packet and camouflage layers for one
// local identity.
type Messenger struct {
	Keys    identity.KeyPair
	Trusted [][identity.KeySize]byte
	// Corpus feeds HideTextAuto. Nil means the built-in corpus.
	Corpus *cover.Corpus
	Logger *slog.Logger
	// Mode governs tag checksum failures in Reveal.
	Mode tag.Mode
	// Workers bounds carrier-set parallelism; zero means GOMAXPROCS.
	Workers int
	// CompressImages LZ4-compresses image payloads when it helps.
	CompressImages bool
}

func NewMessenger(kp identity.KeyPair, trusted [][identity.KeySize]byte) *Messenger {
	return &Messenger{Keys: kp, Trusted: slices.Clone(trusted)}
}

func (m *Messenger) logger() *slog.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return slog.Default()
}

func (m *Messenger) tagCodec() tag.Codec { return tag.Codec{Logger: m.logger()} }

// Seal encrypts plaintext for recipient and returns the serialized envelope.
func (m *Messenger) Seal(plaintext []byte, recipient [identity.KeySize]byte) ([]byte, error) {
	env, err := crypto.Encrypt(plaintext, recipient, m.Keys.PrivateKey)
	if err != nil {
		return nil, err
	}
	return env.Marshal(), nil
}

// Broadcast deflates message and signs it. Anyone can read the result;
// holders of our public key can verify its origin.
func (m *Messenger) Broadcast(message []byte) ([]byte, error) {
	body, err := compress.Deflate(message)
	if err != nil {
		return nil, err
	}
	env, err := crypto.Sign(body, m.Keys.PrivateKey)
	if err != nil {
		return nil, err
	}
	return env.Marshal(), nil
}

// Open decrypts or verifies a serialized envelope. Pass crypto.WithPeerKey
// to re-read a copy we sent ourselves.
func (m *Messenger) Open(envelope []byte, opts ...crypto.DecryptOption) (*Message, error) {
	res, err := crypto.Open(envelope, m.Keys.PrivateKey, m.Trusted, opts...)
	if err != nil {
		return nil, err
	}
	msg := &Message{
		Kind:            KindDirect,
		Plaintext:       res.Payload,
		Verified:        res.Verified,
		Fingerprint:     res.Fingerprint,
		SenderPublicKey: res.SenderPublicKey,
		IntegrityOK:     true,
	}
	if res.Version == wire.VersionSigned {
		msg.Kind = KindBroadcast
		if msg.Plaintext, err = compress.Inflate(res.Payload); err != nil {
			return nil, fmt.Errorf("nahan: broadcast body: %w", err)
		}
	}
	m.logger().Debug("envelope opened",
		slog.String("kind", msg.Kind.String()),
		slog.Bool("verified", msg.Verified),
		slog.String("fingerprint", msg.Fingerprint.String()))
	return msg, nil
}

// VerifyBroadcast checks a signed envelope against trusted. It needs no
// private key, so a contact list alone is enough to verify broadcasts.
// Encrypted envelopes are rejected with ErrUnsupportedVersion.
func VerifyBroadcast(envelope []byte, trusted [][identity.KeySize]byte) (*Message, error) {
	if len(envelope) > 0 && wire.Version(envelope[0]) == wire.VersionEncrypted {
		return nil, fmt.Errorf("%w: encrypted envelopes cannot be verified", wire.ErrUnsupportedVersion)
	}
	env, err := wire.DeserializeSigned(envelope)
	if err != nil {
		return nil, err
	}
	v, err := crypto.Verify(env, trusted)
	if err != nil {
		return nil, err
	}
	plaintext, err := compress.Inflate(v.Message)
	if err != nil {
		return nil, fmt.Errorf("nahan: broadcast body: %w", err)
	}
	return &Message{
		Kind:            KindBroadcast,
		Plaintext:       plaintext,
		Verified:        v.Verified,
		Fingerprint:     v.MatchedFingerprint,
		SenderPublicKey: v.MatchedPublicKey,
		IntegrityOK:     true,
	}, nil
}

// HideText wraps envelope in a message packet and hides it in coverText.
func (m *Messenger) HideText(envelope []byte, coverText string) (string, error) {
	return m.tagCodec().Encode(packet.NewMessage(envelope), coverText)
}

// StreamTags is the exact number of tags HideText emits for envelope.
func (m *Messenger) StreamTags(envelope []byte) (int, error) {
	return tag.StreamLength(packet.NewMessage(envelope))
}

// HideTextAuto picks a cover poem in lang that fits the envelope and hides it
// there. It also returns the stealth ratio of the chosen cover.
func (m *Messenger) HideTextAuto(envelope []byte, lang string) (string, int, error) {
	tags, err := m.StreamTags(envelope)
	if err != nil {
		return "", 0, err
	}
	text, err := cover.Selector{Corpus: m.Corpus}.RecommendTags(tags, lang)
	if err != nil {
		return "", 0, err
	}
	ratio := cover.Ratio(text, max(len(envelope)+1-cover.ProtocolOverhead, 0))
	m.logger().Debug("cover selected",
		slog.String("lang", lang),
		slog.Int("visible", cover.VisibleLength(text)),
		slog.Int("tags", tags),
		slog.Int("ratio", ratio))
	out, err := m.HideText(envelope, text)
	if err != nil {
		return "", 0, err
	}
	return out, ratio, nil
}

// ShareIdentity hides a Stealth-ID card for our public key in coverText.
func (m *Messenger) ShareIdentity(name, coverText string) (string, error) {
	p, err := packet.NewIdentity(identity.NewCard(name, m.Keys))
	if err != nil {
		return "", err
	}
	return m.tagCodec().Encode(p, coverText)
}

// Reveal extracts and opens whatever packet text carries.
func (m *Messenger) Reveal(text string) (*Message, error) {
	d, err := m.tagCodec().Decode(text, m.Mode)
	if err != nil {
		return nil, err
	}
	msg, err := m.openPacket(d.Payload)
	if err != nil {
		return nil, err
	}
	msg.IntegrityOK = d.IntegrityOK
	return msg, nil
}

func (m *Messenger) openPacket(b []byte) (*Message, error) {
	t, body, err := packet.Parse(b)
	if err != nil {
		return nil, err
	}
	if t == packet.TypeMessage {
		return m.Open(body)
	}

	card, err := packet.ParseIdentity(body)
	if err != nil {
		return nil, err
	}
	return &Message{
		Kind:            KindIdentity,
		Verified:        slices.Contains(m.Trusted, card.PublicKey),
		Fingerprint:     card.Fingerprint(),
		SenderPublicKey: card.PublicKey,
		IntegrityOK:     true,
		Identity:        &card,
	}, nil
}
