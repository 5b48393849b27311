// Package erasure spreads one payload across several carriers with
// Reed-Solomon coding, so a message survives the loss of up to the parity
// count of its carriers.
//
// Each shard starts with a seven byte header (index, total, data count and the
// original payload size) so a set can be rebuilt from whatever carriers
// arrive, in any order.
//
// This implementation uses the klauspost/reedsolomon library.
package erasure
