package handwriting

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/unixpickle/essentials"
	"github.com/unixpickle/serializer"
)

func init() {
	var s Split
	serializer.RegisterTypedDeserializer(s.SerializerType(), DeserializeSplit)
}

// TrainNumerator and TrainDenominator define the fraction
// of samples assigned to the training partition.
const (
	TrainNumerator   = 9
	TrainDenominator = 10
)

// A Split partitions sample indices into a training set
// and a validation set.
//
// The first NumTrain entries of Perm are training
// indices, and the rest are validation indices.
type Split struct {
	Perm     []int
	NumTrain int
}

// NewSplit draws a permutation of [0, n) from a source
// seeded with seed, assigning floor(0.9*n) indices to the
// training set.
//
// The same (n, seed) always yields the same Split, so a
// training run and a later validation run agree on which
// samples belong where.
func NewSplit(n int, seed int64) *Split {
	gen := rand.New(rand.NewSource(seed))
	return &Split{
		Perm:     gen.Perm(n),
		NumTrain: n * TrainNumerator / TrainDenominator,
	}
}

// DeserializeSplit deserializes a Split.
func DeserializeSplit(d []byte) (*Split, error) {
	slice, err := serializer.DeserializeSlice(d)
	if err != nil {
		return nil, essentials.AddCtx("deserialize Split", err)
	}
	if len(slice) == 0 {
		return nil, errors.New("deserialize Split: missing train count")
	}
	ints := make([]int, len(slice))
	for i, x := range slice {
		switch x := x.(type) {
		case serializer.Int:
			ints[i] = int(x)
		case *serializer.Int:
			ints[i] = int(*x)
		default:
			return nil, fmt.Errorf("deserialize Split: not an Int: %T", x)
		}
	}
	res := &Split{NumTrain: ints[0], Perm: ints[1:]}
	if err := res.Validate(); err != nil {
		return nil, essentials.AddCtx("deserialize Split", err)
	}
	return res, nil
}

// Len returns the total number of samples.
func (s *Split) Len() int {
	return len(s.Perm)
}

// Train returns the training indices.
func (s *Split) Train() []int {
	return append([]int{}, s.Perm[:s.NumTrain]...)
}

// Valid returns the validation indices.
func (s *Split) Valid() []int {
	return append([]int{}, s.Perm[s.NumTrain:]...)
}

// Validate checks that Perm is a permutation and that
// NumTrain is within bounds.
func (s *Split) Validate() error {
	if s.NumTrain < 0 || s.NumTrain > len(s.Perm) {
		return fmt.Errorf("train count %d out of range for %d samples",
			s.NumTrain, len(s.Perm))
	}
	seen := make([]bool, len(s.Perm))
	for _, idx := range s.Perm {
		if idx < 0 || idx >= len(s.Perm) || seen[idx] {
			return errors.New("indices do not form a permutation")
		}
		seen[idx] = true
	}
	return nil
}

// SerializerType returns the unique ID used to serialize
// a Split with the serializer package.
func (s *Split) SerializerType() string {
	return "github.com/unixpickle/handwriting.Split"
}

// Serialize serializes the Split.
func (s *Split) Serialize() ([]byte, error) {
	slice := make([]serializer.Serializer, 0, len(s.Perm)+1)
	slice = append(slice, serializer.Int(s.NumTrain))
	for _, idx := range s.Perm {
		slice = append(slice, serializer.Int(idx))
	}
	return serializer.SerializeSlice(slice)
}
