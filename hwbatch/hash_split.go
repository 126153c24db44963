package hwbatch

import (
	"encoding/binary"
	"math"
)

// A Hasher is a SampleList with the added capability to
// produce a hash for a given sample.
type Hasher interface {
	SampleList
	Hash(i int) []byte
}

// HashSplit partitions a Hasher by sample contents.
//
// A sample's partition depends only on its hash, so it is
// the same regardless of list order or of which other
// samples are present.
// This makes it useful for holding out data across runs
// on a growing dataset.
//
// The Hasher h will be re-ordered so that left samples
// come first.
//
// The leftRatio argument specifies the expected fraction
// of samples that should end up on the left partition.
func HashSplit(h Hasher, leftRatio float64) (left, right SampleList) {
	if leftRatio <= 0 {
		return h.Slice(0, 0), h
	} else if leftRatio >= 1 {
		return h, h.Slice(0, 0)
	}
	cutoff := hashCutoff(leftRatio)
	var numLeft int
	for i := 0; i < h.Len(); i++ {
		if hashPrefix(h.Hash(i)) < cutoff {
			h.Swap(numLeft, i)
			numLeft++
		}
	}
	return h.Slice(0, numLeft), h.Slice(numLeft, h.Len())
}

// hashCutoff maps a ratio in (0, 1) to the uint64 below
// which that fraction of uniform hashes fall.
func hashCutoff(ratio float64) uint64 {
	scaled := ratio * math.Exp2(64)
	if scaled >= math.Exp2(64) {
		return math.MaxUint64
	}
	return uint64(scaled)
}

// hashPrefix reads the first 8 bytes of a hash as a
// big-endian integer, zero-padding short hashes.
func hashPrefix(hash []byte) uint64 {
	var buf [8]byte
	copy(buf[:], hash)
	return binary.BigEndian.Uint64(buf[:])
}
