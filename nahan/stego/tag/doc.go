// Package tag implements Nahan-Tag, a text steganography scheme built on the
// invisible Unicode Tags block.
//
// A payload is deflated, suffixed with its big-endian CRC32, and packed five
// bits at a time into 32 codepoints (U+E0021..U+E0040). A fixed three-tag
// prefix marks the start of the stream. Encode interleaves the tags into a
// cover text, two after every visible character; Decode scans any text for
// palette codepoints and ignores everything else.
package tag
