package handwriting

import (
	"crypto/md5"
	"encoding/binary"

	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/handwriting/hwbatch"
)

// An Example is the training tuple for one sample.
type Example struct {
	// Target is the normalized stroke sequence, padded to
	// the corpus's maximum length.
	Target []Stroke

	// Input is Target shifted right by one timestep, with
	// a zero stroke at the start.
	Input []Stroke

	// Mask marks the real timesteps of Target.
	Mask []float32

	// TextIDs and CharMask are only set for datasets built
	// WithText(true).
	TextIDs  []int
	CharMask []float32
}

// A Dataset is one partition (training or validation) of
// a Corpus, with normalized strokes.
//
// A Dataset is a hwbatch.SeqSampleList, so it can be
// shuffled, sorted and batched by package hwbatch.
// Example and GetSample may be called concurrently, but
// not concurrently with Swap.
type Dataset struct {
	indices []int
	order   []int
	strokes *StrokeTensor
	text    *TextMatrix
	vocab   *Vocab
	stats   *Stats

	withText bool
	creator  anyvec.Creator
}

// Len returns the number of samples.
func (d *Dataset) Len() int {
	return len(d.order)
}

// Swap swaps two samples.
func (d *Dataset) Swap(i, j int) {
	d.order[i], d.order[j] = d.order[j], d.order[i]
}

// Slice generates a shallow copy of a subset of the
// dataset.
// The copy shares tensors with d, but has its own order.
func (d *Dataset) Slice(i, j int) hwbatch.SampleList {
	res := *d
	res.order = append([]int{}, d.order[i:j]...)
	return &res
}

// Vocab returns the vocabulary shared by every partition
// of the corpus.
func (d *Dataset) Vocab() *Vocab {
	return d.vocab
}

// Stats returns the statistics the strokes were
// normalized with.
func (d *Dataset) Stats() *Stats {
	return d.stats
}

// MaxLen returns the padded stroke sequence length.
func (d *Dataset) MaxLen() int {
	return d.strokes.MaxLen
}

// MaxTextLen returns the padded transcription length.
func (d *Dataset) MaxTextLen() int {
	return d.text.MaxLen
}

// Indices returns the corpus index of every sample, in
// the dataset's current order.
func (d *Dataset) Indices() []int {
	res := make([]int, len(d.order))
	for i, row := range d.order {
		res[i] = d.indices[row]
	}
	return res
}

// Text returns the transcription of a sample.
func (d *Dataset) Text(idx int) (string, error) {
	row, err := d.row(idx)
	if err != nil {
		return "", err
	}
	return d.text.Text(row), nil
}

// Encode maps a transcription to vocabulary ids.
func (d *Dataset) Encode(s string) ([]int, error) {
	return d.vocab.EncodeString(s)
}

// Decode maps vocabulary ids to a string.
func (d *Dataset) Decode(ids []int) (string, error) {
	return d.vocab.DecodeString(ids)
}

// Example returns the training tuple for a sample.
func (d *Dataset) Example(idx int) (*Example, error) {
	row, err := d.row(idx)
	if err != nil {
		return nil, err
	}

	maxLen := d.strokes.MaxLen
	res := &Example{
		Target: make([]Stroke, maxLen),
		Input:  make([]Stroke, maxLen),
		Mask:   d.strokes.MaskRow(row),
	}
	for t := 0; t < maxLen; t++ {
		res.Target[t] = d.strokes.At(row, t)
		if t > 0 {
			res.Input[t] = res.Target[t-1]
		}
	}

	if d.withText {
		ids, err := d.vocab.Encode(d.text.Row(row))
		if err != nil {
			return nil, err
		}
		res.TextIDs = ids
		res.CharMask = d.text.MaskRow(row)
	}

	return res, nil
}

// GetSample returns the sample as per-timestep vectors,
// covering only the real timesteps.
// The Label holds the encoded transcription when the
// dataset was built WithText(true).
func (d *Dataset) GetSample(idx int) (*hwbatch.Sample, error) {
	row, err := d.row(idx)
	if err != nil {
		return nil, err
	}

	c := d.creator
	n := d.strokes.Len(row)
	res := &hwbatch.Sample{
		Input:  make([]anyvec.Vector, n),
		Output: make([]anyvec.Vector, n),
	}
	var prev Stroke
	for t := 0; t < n; t++ {
		cur := d.strokes.At(row, t)
		res.Input[t] = c.MakeVectorData(c.MakeNumericList(strokeFloats(prev)))
		res.Output[t] = c.MakeVectorData(c.MakeNumericList(strokeFloats(cur)))
		prev = cur
	}

	if d.withText {
		chars := d.text.Row(row)[:d.text.Len(row)]
		res.Label, err = d.vocab.Encode(chars)
		if err != nil {
			return nil, err
		}
	}

	return res, nil
}

// Creator returns the anyvec.Creator used by GetSample.
func (d *Dataset) Creator() anyvec.Creator {
	return d.creator
}

// LenAt returns the number of real timesteps in a sample.
func (d *Dataset) LenAt(idx int) int {
	return d.strokes.Len(d.order[idx])
}

// Hash hashes a sample's corpus index and transcription.
// It does not depend on normalization statistics or on
// the dataset's order, making it suitable for
// hwbatch.HashSplit.
func (d *Dataset) Hash(idx int) []byte {
	row := d.order[idx]
	h := md5.New()
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(d.indices[row]))
	h.Write(buf[:])
	h.Write([]byte(d.text.Text(row)))
	return h.Sum(nil)
}

func (d *Dataset) row(idx int) (int, error) {
	if idx < 0 || idx >= len(d.order) {
		return 0, &IndexError{Index: idx, Len: len(d.order)}
	}
	return d.order[idx], nil
}

func strokeFloats(s Stroke) []float64 {
	res := make([]float64, StrokeDim)
	for i, x := range s {
		res[i] = float64(x)
	}
	return res
}
