// Package textcodec turns arbitrary bytes into printable text so binary
// envelopes can travel through text-only carriers such as image payloads.
//
// Each character carries seven bits. The few 7-bit values that break markup
// or terminals are escaped with U+00FE and shifted into Latin-1. Wrap adds a
// short magic header that records whether the body was LZ4-compressed.
package textcodec
