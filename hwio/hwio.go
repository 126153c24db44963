// Package hwio loads handwriting stroke data and
// transcriptions from disk.
package hwio

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/unixpickle/essentials"
	"github.com/unixpickle/handwriting"
)

// File names looked up by LoadDir.
const (
	StrokesNPY    = "strokes.npy"
	StrokesNPZ    = "strokes.npz"
	StrokesFile   = "strokes.strk"
	SentencesFile = "sentences.txt"
)

// LoadDir loads the samples stored in a data directory.
//
// The directory must contain SentencesFile and one of
// StrokesNPY, StrokesNPZ, or StrokesFile (checked in that
// order).
func LoadDir(dir string) ([]*handwriting.Sample, error) {
	strokes, err := loadDirStrokes(dir)
	if err != nil {
		return nil, essentials.AddCtx("load dir", err)
	}

	texts, err := LoadTexts(filepath.Join(dir, SentencesFile))
	if err != nil {
		return nil, essentials.AddCtx("load dir", err)
	}

	return handwriting.NewSamples(strokes, texts)
}

// LoadStrokes loads stroke sequences from a file,
// choosing the format by extension: ".npy" for
// LoadObjectNPY, ".npz" for LoadNPZ, anything else for
// ReadStrokes.
func LoadStrokes(path string) ([][]handwriting.Stroke, error) {
	switch filepath.Ext(path) {
	case ".npy":
		return LoadObjectNPY(path)
	case ".npz":
		return LoadNPZ(path)
	}
	return ReadStrokes(path)
}

func loadDirStrokes(dir string) ([][]handwriting.Stroke, error) {
	for _, name := range []string{StrokesNPY, StrokesNPZ} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadStrokes(path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	return ReadStrokes(filepath.Join(dir, StrokesFile))
}
