// Package wire serializes the two envelope kinds of the Nahan protocol.
//
//	encrypted: [0x01][nonce:24][senderPubKey:32][ciphertext:N]
//	signed:    [0x02][ed25519PubKey:32][signature:64][message:N]
//
// Layouts are fixed; the variable part always runs to the end of the buffer.
package wire
