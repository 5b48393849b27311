// Package crypto implements the two envelope operations of Nahan.
//
//   - Encrypt/Decrypt: DEFLATE, then NaCl box (X25519 ECDH + XSalsa20-Poly1305)
//     with a random 24-byte nonce. The box tag authenticates the sender key.
//   - Sign/Verify: Ed25519 over the raw message, with the signing key derived
//     from the sender's X25519 public key (identity.DeriveSigningKeyPair).
//
// Trust is decided by the caller: both operations take a list of known
// X25519 public keys and report whether the sender is one of them.
package crypto
