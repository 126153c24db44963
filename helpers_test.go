package handwriting

import (
	"math"
	"testing"
)

// exampleSamples returns three samples with stroke
// lengths [5, 3, 7] and texts ["hi", "a", "cat"].
func exampleSamples() []*Sample {
	lengths := []int{5, 3, 7}
	texts := []string{"hi", "a", "cat"}
	var res []*Sample
	for i, l := range lengths {
		s := &Sample{Text: texts[i]}
		for t := 0; t < l; t++ {
			s.Strokes = append(s.Strokes, Stroke{
				float32(i*10 + t + 1),
				float32(-(i*10 + t + 1)) / 2,
				float32(t % 2),
			})
		}
		res = append(res, s)
	}
	return res
}

// rangeSamples returns n samples with varying lengths and
// texts drawn from a small alphabet.
func rangeSamples(n int) []*Sample {
	words := []string{"the", "quick", "brown fox", "jumps", "over", "a lazy dog"}
	var res []*Sample
	for i := 0; i < n; i++ {
		s := &Sample{Text: words[i%len(words)]}
		for t := 0; t < 2+i%5; t++ {
			s.Strokes = append(s.Strokes, Stroke{
				float32(math.Sin(float64(i + t))),
				float32(i-t) * 0.25,
				float32((i + t) % 2),
			})
		}
		res = append(res, s)
	}
	return res
}

func mustCorpus(t *testing.T, samples []*Sample, opts ...Option) *Corpus {
	t.Helper()
	c, err := NewCorpus(samples, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-5
}
