// Package keystore keeps the long-term X25519 private key on disk, encrypted
// under a passphrase with Argon2id and XChaCha20-Poly1305.
package keystore
