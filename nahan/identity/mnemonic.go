package identity

import (
	"errors"
	"strings"

	"github.com/tyler-smith/go-bip39"
)

var ErrInvalidMnemonic = errors.New("identity: invalid mnemonic")

// Mnemonic encodes the private key as a 24-word BIP-39 phrase for paper backup.
func (kp KeyPair) Mnemonic() (string, error) {
	return bip39.NewMnemonic(kp.PrivateKey[:])
}

// FromMnemonic restores a key pair from a phrase produced by Mnemonic.
func FromMnemonic(mnemonic string) (KeyPair, error) {
	mnemonic = strings.Join(strings.Fields(mnemonic), " ")
	if !bip39.IsMnemonicValid(mnemonic) {
		return KeyPair{}, ErrInvalidMnemonic
	}
	entropy, err := bip39.EntropyFromMnemonic(mnemonic)
	if err != nil {
		return KeyPair{}, ErrInvalidMnemonic
	}
	if len(entropy) != KeySize {
		return KeyPair{}, ErrInvalidMnemonic
	}
	var priv [KeySize]byte
	copy(priv[:], entropy)
	return FromPrivateKey(priv)
}
