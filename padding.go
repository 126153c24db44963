package handwriting

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// PadChar fills unused cells of a TextMatrix.
//
// Transcriptions may contain the same character, so a
// cell is only considered padding if its mask entry is 0.
const PadChar = ' '

// A StrokeTensor is a zero-padded (N, MaxLen, 3) tensor
// of strokes with an (N, MaxLen) validity mask.
type StrokeTensor struct {
	N      int
	MaxLen int

	// Data has one row per timestep: row i*MaxLen+t holds
	// timestep t of sample i.
	Data *mat.Dense

	// Mask.AtVec(i*MaxLen+t) is 1 iff timestep t of sample
	// i is real data.
	Mask *mat.VecDense
}

// NewStrokeTensor allocates an all-zero tensor.
func NewStrokeTensor(n, maxLen int) *StrokeTensor {
	res := &StrokeTensor{
		N:      n,
		MaxLen: maxLen,
		Data:   &mat.Dense{},
		Mask:   &mat.VecDense{},
	}
	if steps := n * maxLen; steps > 0 {
		res.Data = mat.NewDense(steps, StrokeDim, nil)
		res.Mask = mat.NewVecDense(steps, nil)
	}
	return res
}

// Steps returns N*MaxLen, the number of rows in Data.
func (s *StrokeTensor) Steps() int {
	return s.N * s.MaxLen
}

// At returns timestep t of sample i.
func (s *StrokeTensor) At(i, t int) Stroke {
	var res Stroke
	for j, x := range s.Data.RawRowView(i*s.MaxLen + t) {
		res[j] = float32(x)
	}
	return res
}

// SetStroke stores a real timestep, marking it in the
// mask.
func (s *StrokeTensor) SetStroke(i, t int, stroke Stroke) {
	step := i*s.MaxLen + t
	for j, x := range stroke {
		s.Data.Set(step, j, float64(x))
	}
	s.Mask.SetVec(step, 1)
}

// Row returns the (MaxLen, 3) strokes of sample i.
// The matrix aliases the tensor.
func (s *StrokeTensor) Row(i int) *mat.Dense {
	if s.MaxLen == 0 {
		return &mat.Dense{}
	}
	return s.Data.Slice(i*s.MaxLen, (i+1)*s.MaxLen, 0, StrokeDim).(*mat.Dense)
}

// MaskRow returns a copy of the mask for sample i.
func (s *StrokeTensor) MaskRow(i int) []float32 {
	return maskRow(s.Mask, i, s.MaxLen)
}

// Len returns the number of real timesteps in sample i.
func (s *StrokeTensor) Len(i int) int {
	return maskLen(s.Mask, i, s.MaxLen)
}

// Subset copies the samples at the given indices into a
// new tensor, in order.
func (s *StrokeTensor) Subset(indices []int) *StrokeTensor {
	res := NewStrokeTensor(len(indices), s.MaxLen)
	if res.Steps() == 0 {
		return res
	}
	for i, idx := range indices {
		res.Row(i).Copy(s.Row(idx))
		maskView(res.Mask, i, s.MaxLen).CopyVec(maskView(s.Mask, idx, s.MaxLen))
	}
	return res
}

// A TextMatrix is an (N, MaxLen) matrix of characters,
// filled with PadChar, with a validity mask.
type TextMatrix struct {
	N      int
	MaxLen int
	Cells  []rune
	Mask   *mat.VecDense
}

// NewTextMatrix allocates a matrix filled with PadChar.
func NewTextMatrix(n, maxLen int) *TextMatrix {
	res := &TextMatrix{
		N:      n,
		MaxLen: maxLen,
		Cells:  make([]rune, n*maxLen),
		Mask:   &mat.VecDense{},
	}
	if len(res.Cells) > 0 {
		res.Mask = mat.NewVecDense(len(res.Cells), nil)
	}
	for i := range res.Cells {
		res.Cells[i] = PadChar
	}
	return res
}

// Row returns the cells of row i, padding included.
// The slice aliases the matrix.
func (t *TextMatrix) Row(i int) []rune {
	return t.Cells[i*t.MaxLen : (i+1)*t.MaxLen]
}

// MaskRow returns a copy of the mask of row i.
func (t *TextMatrix) MaskRow(i int) []float32 {
	return maskRow(t.Mask, i, t.MaxLen)
}

// Len returns the number of real characters in row i.
func (t *TextMatrix) Len(i int) int {
	return maskLen(t.Mask, i, t.MaxLen)
}

// Text returns the unpadded transcription of row i.
func (t *TextMatrix) Text(i int) string {
	return string(t.Row(i)[:t.Len(i)])
}

// Subset copies the rows at the given indices into a new
// matrix, in order.
func (t *TextMatrix) Subset(indices []int) *TextMatrix {
	res := NewTextMatrix(len(indices), t.MaxLen)
	if len(res.Cells) == 0 {
		return res
	}
	for i, idx := range indices {
		copy(res.Row(i), t.Row(idx))
		maskView(res.Mask, i, t.MaxLen).CopyVec(maskView(t.Mask, idx, t.MaxLen))
	}
	return res
}

func maskView(mask *mat.VecDense, i, maxLen int) *mat.VecDense {
	return mask.SliceVec(i*maxLen, (i+1)*maxLen).(*mat.VecDense)
}

func maskRow(mask *mat.VecDense, i, maxLen int) []float32 {
	res := make([]float32, maxLen)
	for t := range res {
		res[t] = float32(mask.AtVec(i*maxLen + t))
	}
	return res
}

func maskLen(mask *mat.VecDense, i, maxLen int) int {
	if maxLen == 0 {
		return 0
	}
	return int(floats.Sum(maskView(mask, i, maxLen).RawVector().Data))
}

// Padded holds the padded strokes and transcriptions of a
// collection of samples.
type Padded struct {
	Strokes *StrokeTensor
	Text    *TextMatrix
}

// Pad converts variable-length samples into fixed-shape
// tensors and masks.
// The shapes come from the longest stroke sequence and
// the longest transcription, so nothing is truncated.
func Pad(samples []*Sample) (*Padded, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("pad: %w", ErrEmptyDataset)
	}

	var maxLen, maxText int
	texts := make([][]rune, len(samples))
	for i, s := range samples {
		if s == nil {
			return nil, fmt.Errorf("pad: sample %d: %w", i, ErrNilSample)
		}
		texts[i] = []rune(s.Text)
		if len(s.Strokes) > maxLen {
			maxLen = len(s.Strokes)
		}
		if len(texts[i]) > maxText {
			maxText = len(texts[i])
		}
	}

	strokes := NewStrokeTensor(len(samples), maxLen)
	text := NewTextMatrix(len(samples), maxText)
	for i, s := range samples {
		for t, stroke := range s.Strokes {
			strokes.SetStroke(i, t, stroke)
		}
		copy(text.Row(i), texts[i])
		for t := range texts[i] {
			text.Mask.SetVec(i*maxText+t, 1)
		}
	}

	return &Padded{Strokes: strokes, Text: text}, nil
}
