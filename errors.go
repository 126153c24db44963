package handwriting

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions callers may need to
// handle differently.
var (
	// ErrEmptyDataset indicates that there were no samples
	// (or no valid timesteps) to derive shapes or
	// statistics from.
	ErrEmptyDataset = errors.New("handwriting: empty dataset")

	// ErrMisalignedInput indicates that the number of
	// stroke sequences differs from the number of
	// transcriptions.
	ErrMisalignedInput = errors.New("handwriting: misaligned input")

	// ErrUnknownCharacter indicates an encode or decode
	// miss against a Vocab.
	ErrUnknownCharacter = errors.New("handwriting: unknown character")

	// ErrStatsNotInitialized indicates that a validation
	// split was requested before any training statistics
	// were produced.
	ErrStatsNotInitialized = errors.New("handwriting: normalization statistics not initialized")

	// ErrStatsAlreadySet indicates a second write to a
	// StatsSlot.
	ErrStatsAlreadySet = errors.New("handwriting: normalization statistics already set")

	// ErrIndexOutOfRange indicates an out-of-range sample
	// index.
	ErrIndexOutOfRange = errors.New("handwriting: index out of range")

	// ErrNilSample indicates a nil *Sample in the input.
	ErrNilSample = errors.New("handwriting: nil sample")

	// ErrBadPenColumn indicates a pen column outside the
	// stroke layout.
	ErrBadPenColumn = errors.New("handwriting: pen column out of range")
)

// MisalignedError is returned when stroke and text counts
// disagree.
type MisalignedError struct {
	NumStrokes int
	NumTexts   int
}

func (m *MisalignedError) Error() string {
	return fmt.Sprintf("%v: %d stroke sequences but %d transcriptions",
		ErrMisalignedInput, m.NumStrokes, m.NumTexts)
}

func (m *MisalignedError) Unwrap() error {
	return ErrMisalignedInput
}

// UnknownCharError is returned when encoding a character
// that was not present when the Vocab was built.
type UnknownCharError struct {
	Char rune
}

func (u *UnknownCharError) Error() string {
	return fmt.Sprintf("%v: %q", ErrUnknownCharacter, u.Char)
}

func (u *UnknownCharError) Unwrap() error {
	return ErrUnknownCharacter
}

// UnknownIDError is returned when decoding an id outside
// of a Vocab.
type UnknownIDError struct {
	ID   int
	Size int
}

func (u *UnknownIDError) Error() string {
	return fmt.Sprintf("%v: id %d (vocab size %d)", ErrUnknownCharacter, u.ID, u.Size)
}

func (u *UnknownIDError) Unwrap() error {
	return ErrUnknownCharacter
}

// IndexError is returned for out-of-range sample access.
type IndexError struct {
	Index int
	Len   int
}

func (i *IndexError) Error() string {
	return fmt.Sprintf("%v: %d (length %d)", ErrIndexOutOfRange, i.Index, i.Len)
}

func (i *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}
