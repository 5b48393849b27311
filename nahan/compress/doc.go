// Package compress provides pooled DEFLATE and LZ4 codecs.
//
// DEFLATE (raw, RFC 1951) is the wire compression of the protocol: envelope
// plaintexts, tag-cipher streams and identity packets are all deflated.
// LZ4 is only used for image payloads behind the text codec's magic header.
package compress
