package hwio

import (
	"bufio"
	"io"
	"os"

	"github.com/unixpickle/essentials"
)

const maxLineSize = 1 << 20

// ReadTexts reads one transcription per line.
//
// Both "\n" and "\r\n" line endings are accepted, and a
// final newline does not produce an extra empty line.
func ReadTexts(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)
	var res []string
	for scanner.Scan() {
		res = append(res, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, essentials.AddCtx("read texts", err)
	}
	return res, nil
}

// LoadTexts reads transcriptions from a file.
func LoadTexts(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, essentials.AddCtx("load texts", err)
	}
	defer f.Close()
	return ReadTexts(f)
}
