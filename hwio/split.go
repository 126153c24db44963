package hwio

import (
	"os"

	"github.com/unixpickle/essentials"
	"github.com/unixpickle/handwriting"
	"github.com/unixpickle/serializer"
)

// SaveSplit writes a Split to a file, so that a later run
// can build partitions from the same permutation.
func SaveSplit(path string, split *handwriting.Split) error {
	data, err := serializer.SerializeAny(split)
	if err != nil {
		return essentials.AddCtx("save split", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return essentials.AddCtx("save split", err)
	}
	return nil
}

// LoadSplit reads a file written by SaveSplit.
func LoadSplit(path string) (*handwriting.Split, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, essentials.AddCtx("load split", err)
	}
	var split *handwriting.Split
	if err := serializer.DeserializeAny(data, &split); err != nil {
		return nil, essentials.AddCtx("load split", err)
	}
	return split, nil
}
