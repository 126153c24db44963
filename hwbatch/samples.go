package hwbatch

import (
	"sort"

	"github.com/unixpickle/anyvec"
)

// A Sample is a training sequence with a corresponding
// desired output sequence and an optional label.
//
// Input and Output contain one vector per real timestep;
// padding is not included.
type Sample struct {
	Input  []anyvec.Vector
	Output []anyvec.Vector
	Label  []int
}

// A SeqSampleList is a SampleList that produces
// sequence-to-sequence samples.
type SeqSampleList interface {
	SampleList

	GetSample(idx int) (*Sample, error)
	Creator() anyvec.Creator
}

// A SortableSampleList is a SeqSampleList with an extra
// LenAt method for efficiently getting the length of an
// input sequence.
type SortableSampleList interface {
	SeqSampleList

	LenAt(idx int) int
}

// A SortSampleList wraps a SortableSampleList and ensures
// that samples will be sorted within reasonably small
// chunks.
// Stroke sequences vary a lot in length, so this keeps
// the number of padded timesteps per batch down.
type SortSampleList struct {
	SortableSampleList

	// BatchSize is the size of the chunks that should be
	// sorted.
	BatchSize int
}

// Slice produces a subset of the SortSampleList.
func (s *SortSampleList) Slice(i, j int) SampleList {
	sliced := s.SortableSampleList.Slice(i, j)
	return &SortSampleList{
		SortableSampleList: sliced.(SortableSampleList),
		BatchSize:          s.BatchSize,
	}
}

// PostShuffle sorts each chunk of BatchSize samples by
// sequence length.
// Equal-length samples keep their shuffled order.
func (s *SortSampleList) PostShuffle() {
	if s.BatchSize <= 0 {
		return
	}
	for start := 0; start < s.Len(); start += s.BatchSize {
		end := start + s.BatchSize
		if end > s.Len() {
			end = s.Len()
		}
		sort.Stable(&lengthChunk{list: s.SortableSampleList, start: start, end: end})
	}
}

// lengthChunk orders samples [start, end) of a list by
// LenAt.
type lengthChunk struct {
	list       SortableSampleList
	start, end int
}

func (l *lengthChunk) Len() int {
	return l.end - l.start
}

func (l *lengthChunk) Swap(i, j int) {
	l.list.Swap(l.start+i, l.start+j)
}

func (l *lengthChunk) Less(i, j int) bool {
	return l.list.LenAt(l.start+i) < l.list.LenAt(l.start+j)
}
