// Package workpool runs independent codec jobs, such as embedding the shards
// of a carrier set, on a bounded number of goroutines.
package workpool
