package handwriting

// StrokeDim is the number of components in a Stroke.
const StrokeDim = 3

// A Stroke is one timestep of pen movement.
// In the default layout it is (dx, dy, pen).
type Stroke [StrokeDim]float32

// A Sample is a stroke sequence paired with its
// transcription.
type Sample struct {
	Strokes []Stroke
	Text    string
}

// NewSamples pairs up stroke sequences and transcriptions
// by index.
func NewSamples(strokes [][]Stroke, texts []string) ([]*Sample, error) {
	if len(strokes) != len(texts) {
		return nil, &MisalignedError{NumStrokes: len(strokes), NumTexts: len(texts)}
	}
	res := make([]*Sample, len(strokes))
	for i, s := range strokes {
		res[i] = &Sample{Strokes: s, Text: texts[i]}
	}
	return res, nil
}
