package keystore

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

var (
	ErrWrongPassphrase  = errors.New("keystore: wrong passphrase or corrupted key file")
	ErrMalformedKeyFile = errors.New("keystore: malformed key file")
	ErrEmptyPassphrase  = errors.New("keystore: empty passphrase")
)

const (
	formatVersion = 0x01
	paramsSize    = 4 + 4 + 1
	saltSize      = 16
	keySize       = 32
	saltOffset    = 1 + paramsSize
	nonceOffset   = saltOffset + saltSize
	headerSize    = nonceOffset + chacha20poly1305.NonceSizeX

	// Bounds on parameters read from a key file.
	maxTime   = 64
	maxMemory = 4 << 20 // KiB
)

// Params are the Argon2id cost parameters.
type Params struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
}

// DefaultParams: t=2, m=64 MiB, p=4.
var DefaultParams = Params{Time: 2, Memory: 64 * 1024, Threads: 4}

func (p Params) valid() bool {
	return p.Time >= 1 && p.Time <= maxTime &&
		p.Threads >= 1 &&
		p.Memory >= 8*uint32(p.Threads) && p.Memory <= maxMemory
}

// Store seals private keys under a passphrase. The zero value uses
// DefaultParams and crypto/rand. Params only affect Seal: the cost
// parameters are recorded in the key file and Open reads them from there.
type Store struct {
	Params Params
	Rand   io.Reader
}

var defaultStore Store

// Seal encrypts a 32-byte private key:
//
//	[0x01][time:4 BE][memory KiB:4 BE][threads:1][salt:16][nonce:24][ciphertext]
func Seal(priv [32]byte, passphrase []byte) ([]byte, error) {
	return defaultStore.Seal(priv, passphrase)
}

// Open decrypts a key produced by Seal.
func Open(data, passphrase []byte) ([32]byte, error) {
	return defaultStore.Open(data, passphrase)
}

func (s Store) params() Params {
	if s.Params == (Params{}) {
		return DefaultParams
	}
	return s.Params
}

func (s Store) rand() io.Reader {
	if s.Rand != nil {
		return s.Rand
	}
	return rand.Reader
}

func (s Store) Seal(priv [32]byte, passphrase []byte) ([]byte, error) {
	if len(passphrase) == 0 {
		return nil, ErrEmptyPassphrase
	}
	p := s.params()
	if !p.valid() {
		return nil, fmt.Errorf("keystore: invalid argon2 parameters %+v", p)
	}
	out := make([]byte, headerSize, headerSize+len(priv)+chacha20poly1305.Overhead)
	out[0] = formatVersion
	binary.BigEndian.PutUint32(out[1:5], p.Time)
	binary.BigEndian.PutUint32(out[5:9], p.Memory)
	out[9] = p.Threads
	salt := out[saltOffset:nonceOffset]
	nonce := out[nonceOffset:headerSize]
	if _, err := io.ReadFull(s.rand(), out[saltOffset:headerSize]); err != nil {
		return nil, fmt.Errorf("keystore: read random: %w", err)
	}

	aead, err := chacha20poly1305.NewX(deriveKey(passphrase, salt, p))
	if err != nil {
		return nil, err
	}
	// The header is authenticated so salt, parameters and version cannot be swapped.
	return aead.Seal(out, nonce, priv[:], out[:headerSize]), nil
}

func (s Store) Open(data, passphrase []byte) ([32]byte, error) {
	var priv [32]byte
	if len(data) != headerSize+len(priv)+chacha20poly1305.Overhead || data[0] != formatVersion {
		return priv, ErrMalformedKeyFile
	}
	p := Params{
		Time:    binary.BigEndian.Uint32(data[1:5]),
		Memory:  binary.BigEndian.Uint32(data[5:9]),
		Threads: data[9],
	}
	if !p.valid() {
		return priv, fmt.Errorf("%w: argon2 parameters %+v", ErrMalformedKeyFile, p)
	}
	salt := data[saltOffset:nonceOffset]
	nonce := data[nonceOffset:headerSize]

	aead, err := chacha20poly1305.NewX(deriveKey(passphrase, salt, p))
	if err != nil {
		return priv, err
	}
	plain, err := aead.Open(nil, nonce, data[headerSize:], data[:headerSize])
	if err != nil {
		return priv, ErrWrongPassphrase
	}
	copy(priv[:], plain)
	return priv, nil
}

func deriveKey(passphrase, salt []byte, p Params) []byte {
	return argon2.IDKey(passphrase, salt, p.Time, p.Memory, p.Threads, keySize)
}

// SaveFile seals priv and writes it with owner-only permissions.
func (s Store) SaveFile(path string, priv [32]byte, passphrase []byte) error {
	sealed, err := s.Seal(priv, passphrase)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("keystore: create key directory: %w", err)
	}
	if err := os.WriteFile(path, sealed, 0o600); err != nil {
		return fmt.Errorf("keystore: write key file: %w", err)
	}
	return nil
}

func (s Store) LoadFile(path string, passphrase []byte) ([32]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return [32]byte{}, fmt.Errorf("keystore: read key file: %w", err)
	}
	return s.Open(data, passphrase)
}
