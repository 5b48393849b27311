package cover

import (
	"math"

	"github.com/nahan-app/nahan/nahan/stego/tag"
	"github.com/nahan-app/nahan/nahan/wire"
)

const (
	// ProtocolOverhead is the fixed encrypted-envelope header size.
	ProtocolOverhead = wire.EncryptedHeaderSize
	// tagsPerByte approximates 8/5 tags per byte of stream data.
	tagsPerByte = 1.6
	prefixTags  = 3
)

// EstimatedTagCount estimates the tag stream length for a payload of size bytes.
func EstimatedTagCount(size int) int {
	overhead := float64(ProtocolOverhead)
	return int(math.Ceil(float64(size)*tagsPerByte+overhead*tagsPerByte)) + prefixTags
}

// RequiredVisibleChars is the cover length needed to hold every tag inline.
func RequiredVisibleChars(size int) int {
	return tag.CharsFor(EstimatedTagCount(size))
}

// StealthRatio scores how well a cover of coverLen visible characters hides a
// payload of size bytes, from 0 to 100. It is a UX hint, not a guarantee.
func StealthRatio(coverLen, size int) int {
	required := RequiredVisibleChars(size)
	score := math.Round(float64(coverLen) / float64(required) * 200)
	if score > 100 {
		return 100
	}
	return int(score)
}

// VisibleLength counts grapheme clusters, ignoring tag codepoints.
func VisibleLength(s string) int {
	return graphemeCount(tag.Strip(s))
}
