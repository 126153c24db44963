package hwbatch

import (
	"errors"

	"github.com/unixpickle/anydiff/anyseq"
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/essentials"
)

// A Batch stores an input and output batch in a packed
// format.
//
// Each anyseq.Batch records which sequences are present
// at its timestep, which plays the role of a mask.
type Batch struct {
	Inputs  anyseq.Seq
	Outputs anyseq.Seq

	// Labels holds each sample's Label, in order.
	Labels [][]int
}

// Fetch produces a *Batch for the subset of samples.
// The s argument must implement SeqSampleList.
// The batch may not be empty.
func Fetch(s SampleList) (*Batch, error) {
	if s.Len() == 0 {
		return nil, errors.New("fetch batch: empty sample list")
	}
	l, ok := s.(SeqSampleList)
	if !ok {
		return nil, errors.New("fetch batch: not a SeqSampleList")
	}
	ins := make([][]anyvec.Vector, l.Len())
	outs := make([][]anyvec.Vector, l.Len())
	labels := make([][]int, l.Len())
	for i := 0; i < l.Len(); i++ {
		sample, err := l.GetSample(i)
		if err != nil {
			return nil, essentials.AddCtx("fetch batch", err)
		}
		ins[i] = sample.Input
		outs[i] = sample.Output
		labels[i] = sample.Label
	}
	return &Batch{
		Inputs:  anyseq.ConstSeqList(l.Creator(), ins),
		Outputs: anyseq.ConstSeqList(l.Creator(), outs),
		Labels:  labels,
	}, nil
}
