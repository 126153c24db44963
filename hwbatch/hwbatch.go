// Package hwbatch provides sample lists, shuffling,
// splitting and batching for sequence datasets.
//
// It is the loader side of the handwriting package: a
// handwriting.Dataset is a SeqSampleList, so it can be
// shuffled, partitioned and packed into masked anyseq
// batches here.
package hwbatch

import "math/rand"

// A SampleList represents a list of training samples.
type SampleList interface {
	// Len returns the number of samples.
	Len() int

	// Swap swaps two samples.
	Swap(i, j int)

	// Slice generates a shallow copy of a subset of the
	// list.
	Slice(i, j int) SampleList
}

// PostShuffler is used to notify a SampleList that it has
// been shuffled, allowing it to perform any sample
// re-ordering it likes.
//
// For example, you might use a PostShuffler to make sure
// that samples of similar length are close to each other
// so they end up in the same mini-batch.
type PostShuffler interface {
	PostShuffle()
}

// Shuffle shuffles a list of samples.
// If the list implements PostShuffler, then PostShuffle
// is called after the shuffle completes.
//
// If gen is nil, the global source from math/rand is
// used.
func Shuffle(s SampleList, gen *rand.Rand) {
	intn := rand.Intn
	if gen != nil {
		intn = gen.Intn
	}
	for i := 0; i < s.Len(); i++ {
		j := i + intn(s.Len()-i)
		s.Swap(i, j)
	}
	if p, ok := s.(PostShuffler); ok {
		p.PostShuffle()
	}
}

// Batches splits a list into consecutive slices of at
// most batchSize samples.
// A non-positive batchSize yields the whole list as one
// batch.
func Batches(s SampleList, batchSize int) []SampleList {
	if batchSize <= 0 {
		batchSize = s.Len()
	}
	var res []SampleList
	for i := 0; i < s.Len(); i += batchSize {
		end := i + batchSize
		if end > s.Len() {
			end = s.Len()
		}
		res = append(res, s.Slice(i, end))
	}
	return res
}
