// Package nahan hides authenticated messages in ordinary looking text and
// images.
//
// A message is sealed into a versioned binary envelope (NaCl box for direct
// messages, a derived Ed25519 signature for broadcasts), wrapped in a typed
// packet, and then camouflaged either as invisible Unicode tag characters
// interleaved with a cover poem or as the low bits of an image. The
// subpackages hold each layer; Messenger composes them.
package nahan
