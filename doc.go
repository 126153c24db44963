// Package handwriting prepares handwriting stroke data
// for sequence model training.
//
// A dataset is a list of Samples, each pairing a
// sequence of pen offsets (dx, dy, pen) with its
// transcription.
// A Corpus pads every sample to a common length, builds
// validity masks and a character Vocab, and carves out
// training and validation Datasets according to a Split:
//
//	samples, err := hwio.LoadDir("data/")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	corpus, err := handwriting.NewCorpus(samples, handwriting.WithText(true))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	train, valid, err := corpus.Pair(corpus.NewSplit(1337))
//
// The training Dataset normalizes stroke offsets with
// statistics computed over its own valid timesteps; the
// validation Dataset reuses those statistics.
//
// Each Example holds the normalized target sequence, the
// input sequence (the target shifted right by one step),
// the stroke mask and, optionally, the encoded
// transcription with its mask.
package handwriting
