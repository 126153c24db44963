package hwio

import (
	"fmt"
	"os"

	"github.com/unixpickle/anyvec/anyvec32"
	"github.com/unixpickle/anyvec/anyvecsave"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/handwriting"
	"github.com/unixpickle/serializer"
)

// SaveStrokes writes stroke sequences to a file which can
// be read back with ReadStrokes.
//
// Each sequence is stored as one flattened float32
// vector.
func SaveStrokes(path string, strokes [][]handwriting.Stroke) error {
	data, err := EncodeStrokes(strokes)
	if err != nil {
		return essentials.AddCtx("save strokes", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return essentials.AddCtx("save strokes", err)
	}
	return nil
}

// ReadStrokes reads a file written by SaveStrokes.
func ReadStrokes(path string) ([][]handwriting.Stroke, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, essentials.AddCtx("read strokes", err)
	}
	res, err := DecodeStrokes(data)
	if err != nil {
		return nil, essentials.AddCtx("read strokes", err)
	}
	return res, nil
}

// EncodeStrokes serializes stroke sequences.
func EncodeStrokes(strokes [][]handwriting.Stroke) ([]byte, error) {
	slice := make([]serializer.Serializer, len(strokes))
	for i, seq := range strokes {
		flat := make([]float32, 0, len(seq)*handwriting.StrokeDim)
		for _, s := range seq {
			flat = append(flat, s[:]...)
		}
		slice[i] = &anyvecsave.S{Vector: anyvec32.MakeVectorData(flat)}
	}
	return serializer.SerializeSlice(slice)
}

// DecodeStrokes deserializes the output of
// EncodeStrokes.
func DecodeStrokes(data []byte) ([][]handwriting.Stroke, error) {
	slice, err := serializer.DeserializeSlice(data)
	if err != nil {
		return nil, err
	}
	res := make([][]handwriting.Stroke, len(slice))
	for i, x := range slice {
		saved, ok := x.(*anyvecsave.S)
		if !ok {
			return nil, fmt.Errorf("sequence %d: not a vector: %T", i, x)
		}
		var flat []float64
		switch data := saved.Vector.Data().(type) {
		case []float32:
			for _, v := range data {
				flat = append(flat, float64(v))
			}
		case []float64:
			flat = data
		default:
			return nil, fmt.Errorf("sequence %d: unsupported numeric type %T", i, data)
		}
		if len(flat)%handwriting.StrokeDim != 0 {
			return nil, fmt.Errorf("sequence %d: length %d not divisible by %d",
				i, len(flat), handwriting.StrokeDim)
		}
		res[i] = toStrokes(flat)
	}
	return res, nil
}
