// Package identity holds the X25519 key material of a Nahan user.
//
// Only the X25519 pair is ever stored. The Ed25519 pair used for broadcast
// signatures is recomputed from the X25519 public key on demand
// (DeriveSigningKeyPair), so a sender and a verifier agree on the signing
// identity without exchanging a second key.
package identity
