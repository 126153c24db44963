package handwriting

import (
	"bytes"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/unixpickle/anyvec/anyvec64"
	"github.com/unixpickle/handwriting/hwbatch"
)

func TestDatasetShift(t *testing.T) {
	corpus := mustCorpus(t, rangeSamples(30))
	train, valid, err := corpus.Pair(corpus.NewSplit(1))
	if err != nil {
		t.Fatal(err)
	}
	for _, d := range []*Dataset{train, valid} {
		for i := 0; i < d.Len(); i++ {
			ex, err := d.Example(i)
			if err != nil {
				t.Fatal(err)
			}
			if len(ex.Input) != d.MaxLen() || len(ex.Target) != d.MaxLen() ||
				len(ex.Mask) != d.MaxLen() {
				t.Fatalf("bad example shapes for %d", i)
			}
			if ex.Input[0] != (Stroke{}) {
				t.Errorf("sample %d: first input should be zero but got %v", i, ex.Input[0])
			}
			for step := 1; step < len(ex.Input); step++ {
				if ex.Input[step] != ex.Target[step-1] {
					t.Errorf("sample %d step %d: input %v != previous target %v", i, step,
						ex.Input[step], ex.Target[step-1])
				}
			}
			for step, m := range ex.Mask {
				if m == 0 && ex.Target[step] != (Stroke{}) {
					t.Errorf("sample %d step %d: padding is %v", i, step, ex.Target[step])
				}
			}
		}
	}
}

func TestDatasetSizes(t *testing.T) {
	corpus := mustCorpus(t, rangeSamples(25))
	train, valid, err := corpus.Pair(corpus.NewSplit(3))
	if err != nil {
		t.Fatal(err)
	}
	if train.Len() != 22 || valid.Len() != 3 {
		t.Errorf("expected 22/3 samples but got %d/%d", train.Len(), valid.Len())
	}
	if train.MaxLen() != valid.MaxLen() || train.MaxTextLen() != valid.MaxTextLen() {
		t.Error("partitions should share padded shapes")
	}
	if train.Vocab() != valid.Vocab() || train.Vocab() != corpus.Vocab {
		t.Error("partitions should share one vocabulary")
	}

	seen := map[int]bool{}
	for _, idx := range append(train.Indices(), valid.Indices()...) {
		if seen[idx] {
			t.Fatalf("index %d appears twice", idx)
		}
		seen[idx] = true
	}
	if len(seen) != 25 {
		t.Errorf("expected 25 distinct indices but got %d", len(seen))
	}
}

func TestDatasetValidUsesTrainStats(t *testing.T) {
	corpus := mustCorpus(t, rangeSamples(40))
	train, valid, err := corpus.Pair(corpus.NewSplit(9))
	if err != nil {
		t.Fatal(err)
	}
	stats := train.Stats()
	if valid.Stats() != stats {
		t.Fatal("validation should be normalized with training statistics")
	}
	for i, idx := range valid.Indices() {
		ex, err := valid.Example(i)
		if err != nil {
			t.Fatal(err)
		}
		for step := 0; step < corpus.Padded.Strokes.Len(idx); step++ {
			raw := corpus.Padded.Strokes.At(idx, step)
			for col := 0; col < 2; col++ {
				expected := (float64(raw[col]) - stats.Mean[col]) / stats.Std[col]
				if !approxEqual(expected, float64(ex.Target[step][col])) {
					t.Errorf("sample %d step %d col %d: expected %v but got %v",
						idx, step, col, expected, ex.Target[step][col])
				}
			}
			if ex.Target[step][2] != raw[2] {
				t.Errorf("pen state changed from %v to %v", raw[2], ex.Target[step][2])
			}
		}
	}
}

func TestDatasetSingleSample(t *testing.T) {
	corpus := mustCorpus(t, exampleSamples()[:1])
	split := corpus.NewSplit(0)
	if _, err := corpus.Train(split); !errors.Is(err, ErrEmptyDataset) {
		t.Errorf("expected ErrEmptyDataset but got %v", err)
	}
	if _, err := corpus.Valid(split, nil); !errors.Is(err, ErrStatsNotInitialized) {
		t.Errorf("expected ErrStatsNotInitialized but got %v", err)
	}
	if _, _, err := corpus.Pair(split); !errors.Is(err, ErrEmptyDataset) {
		t.Errorf("expected ErrEmptyDataset but got %v", err)
	}
}

func TestDatasetStatsSlot(t *testing.T) {
	var slot StatsSlot
	samples := rangeSamples(20)

	validCorpus := mustCorpus(t, samples, WithStatsSlot(&slot))
	split := validCorpus.NewSplit(5)
	if _, err := validCorpus.Valid(split, nil); !errors.Is(err, ErrStatsNotInitialized) {
		t.Fatalf("expected ErrStatsNotInitialized but got %v", err)
	}

	trainCorpus := mustCorpus(t, samples, WithStatsSlot(&slot))
	train, err := trainCorpus.Train(split)
	if err != nil {
		t.Fatal(err)
	}
	valid, err := validCorpus.Valid(split, nil)
	if err != nil {
		t.Fatal(err)
	}
	if valid.Stats() != train.Stats() {
		t.Error("validation did not pick up the published statistics")
	}

	if _, err := trainCorpus.Train(split); !errors.Is(err, ErrStatsAlreadySet) {
		t.Errorf("expected ErrStatsAlreadySet but got %v", err)
	}
}

func TestDatasetDegenerateColumnLog(t *testing.T) {
	samples := rangeSamples(12)
	for _, s := range samples {
		for i := range s.Strokes {
			s.Strokes[i][0] = 7
		}
	}
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	corpus := mustCorpus(t, samples, WithLogger(logger))
	train, err := corpus.Train(corpus.NewSplit(3))
	if err != nil {
		t.Fatal(err)
	}
	if !train.Stats().Substituted[0] || train.Stats().Substituted[1] {
		t.Errorf("unexpected substitutions %v", train.Stats().Substituted)
	}
	logged := buf.String()
	if !strings.Contains(logged, "degenerate stroke column") {
		t.Errorf("missing warning in log: %q", logged)
	}
	if !strings.Contains(logged, "level=WARN") || !strings.Contains(logged, "column=0") {
		t.Errorf("unexpected warning format: %q", logged)
	}
	if strings.Contains(logged, "column=1") {
		t.Errorf("varying column was reported: %q", logged)
	}
}

func TestCorpusBadPenColumn(t *testing.T) {
	for _, col := range []int{StrokeDim, StrokeDim + 4} {
		_, err := NewCorpus(exampleSamples(), WithPenColumn(col))
		if !errors.Is(err, ErrBadPenColumn) {
			t.Errorf("column %d: expected ErrBadPenColumn but got %v", col, err)
		}
	}
	corpus, err := NewCorpus(exampleSamples(), WithPenColumn(-1))
	if err != nil {
		t.Fatal(err)
	}
	if corpus.Len() != 3 {
		t.Errorf("unexpected length %d", corpus.Len())
	}
}

func TestDatasetBadSplit(t *testing.T) {
	corpus := mustCorpus(t, exampleSamples())
	if _, err := corpus.Train(NewSplit(4, 0)); !errors.Is(err, ErrMisalignedInput) {
		t.Errorf("expected ErrMisalignedInput but got %v", err)
	}
	if _, err := corpus.Train(nil); err == nil {
		t.Error("expected error for nil split")
	}
	bad := &Split{Perm: []int{0, 0, 1}, NumTrain: 2}
	if _, err := corpus.Train(bad); err == nil {
		t.Error("expected error for invalid permutation")
	}
}

func TestDatasetIndexError(t *testing.T) {
	corpus := mustCorpus(t, rangeSamples(10))
	train, err := corpus.Train(corpus.NewSplit(0))
	if err != nil {
		t.Fatal(err)
	}
	for _, idx := range []int{-1, train.Len()} {
		_, err := train.Example(idx)
		if !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("index %d: expected ErrIndexOutOfRange but got %v", idx, err)
		}
		var indexErr *IndexError
		if !errors.As(err, &indexErr) || indexErr.Index != idx || indexErr.Len != train.Len() {
			t.Errorf("index %d: unexpected error %#v", idx, err)
		}
		if _, err := train.GetSample(idx); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("index %d: expected ErrIndexOutOfRange but got %v", idx, err)
		}
	}
}

func TestDatasetText(t *testing.T) {
	corpus := mustCorpus(t, exampleSamples(), WithText(true))
	split := &Split{Perm: []int{2, 0, 1}, NumTrain: 2}
	train, err := corpus.Train(split)
	if err != nil {
		t.Fatal(err)
	}

	ex, err := train.Example(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(ex.TextIDs) != train.MaxTextLen() || len(ex.CharMask) != train.MaxTextLen() {
		t.Fatalf("bad text shapes %d, %d", len(ex.TextIDs), len(ex.CharMask))
	}
	text, err := train.Decode(ex.TextIDs)
	if err != nil {
		t.Fatal(err)
	}
	if text != "cat" {
		t.Errorf("expected \"cat\" but got %q", text)
	}
	if !reflect.DeepEqual(ex.CharMask, []float32{1, 1, 1}) {
		t.Errorf("unexpected char mask %v", ex.CharMask)
	}

	ex, err = train.Example(1)
	if err != nil {
		t.Fatal(err)
	}
	expectedIDs, err := train.Encode("hi ")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(ex.TextIDs, expectedIDs) {
		t.Errorf("expected ids %v but got %v", expectedIDs, ex.TextIDs)
	}
	if !reflect.DeepEqual(ex.CharMask, []float32{1, 1, 0}) {
		t.Errorf("unexpected char mask %v", ex.CharMask)
	}

	if s, err := train.Text(1); err != nil || s != "hi" {
		t.Errorf("expected \"hi\" but got %q (%v)", s, err)
	}

	plain := mustCorpus(t, exampleSamples())
	plainTrain, err := plain.Train(split)
	if err != nil {
		t.Fatal(err)
	}
	ex, err = plainTrain.Example(0)
	if err != nil {
		t.Fatal(err)
	}
	if ex.TextIDs != nil || ex.CharMask != nil {
		t.Error("text should be omitted by default")
	}
}

func TestDatasetGetSample(t *testing.T) {
	corpus := mustCorpus(t, exampleSamples(), WithText(true))
	train, err := corpus.Train(&Split{Perm: []int{1, 2, 0}, NumTrain: 2})
	if err != nil {
		t.Fatal(err)
	}
	ex, err := train.Example(0)
	if err != nil {
		t.Fatal(err)
	}
	sample, err := train.GetSample(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(sample.Input) != 3 || len(sample.Output) != 3 {
		t.Fatalf("expected 3 timesteps but got %d, %d", len(sample.Input), len(sample.Output))
	}
	for step := range sample.Input {
		in := sample.Input[step].Data().([]float32)
		out := sample.Output[step].Data().([]float32)
		for col := 0; col < StrokeDim; col++ {
			if in[col] != ex.Input[step][col] || out[col] != ex.Target[step][col] {
				t.Errorf("step %d: got (%v, %v) but expected (%v, %v)", step, in, out,
					ex.Input[step], ex.Target[step])
				break
			}
		}
	}
	label, err := train.Decode(sample.Label)
	if err != nil {
		t.Fatal(err)
	}
	if label != "a" {
		t.Errorf("expected label \"a\" but got %q", label)
	}
	if train.LenAt(0) != 3 || train.LenAt(1) != 7 {
		t.Errorf("unexpected lengths %d, %d", train.LenAt(0), train.LenAt(1))
	}
}

func TestDatasetCreator(t *testing.T) {
	corpus := mustCorpus(t, exampleSamples(), WithCreator(anyvec64.CurrentCreator()))
	train, err := corpus.Train(corpus.NewSplit(0))
	if err != nil {
		t.Fatal(err)
	}
	sample, err := train.GetSample(0)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := sample.Output[0].Data().([]float64); !ok {
		t.Errorf("unexpected data type %T", sample.Output[0].Data())
	}
}

func TestDatasetSampleList(t *testing.T) {
	corpus := mustCorpus(t, rangeSamples(20))
	train, err := corpus.Train(corpus.NewSplit(2))
	if err != nil {
		t.Fatal(err)
	}

	indices := train.Indices()
	texts := make([]string, train.Len())
	hashes := make([][]byte, train.Len())
	for i := range texts {
		texts[i], _ = train.Text(i)
		hashes[i] = train.Hash(i)
	}

	train.Swap(0, 3)
	newIndices := train.Indices()
	if newIndices[0] != indices[3] || newIndices[3] != indices[0] {
		t.Errorf("swap did not reorder indices")
	}
	if s, _ := train.Text(0); s != texts[3] {
		t.Errorf("expected %q but got %q", texts[3], s)
	}
	if !bytes.Equal(train.Hash(0), hashes[3]) {
		t.Error("hash should follow the sample")
	}

	sliced := train.Slice(2, 6).(*Dataset)
	if sliced.Len() != 4 {
		t.Fatalf("expected 4 samples but got %d", sliced.Len())
	}
	if !reflect.DeepEqual(sliced.Indices(), newIndices[2:6]) {
		t.Errorf("expected %v but got %v", newIndices[2:6], sliced.Indices())
	}
	sliced.Swap(0, 1)
	if !reflect.DeepEqual(train.Indices(), newIndices) {
		t.Error("swapping a slice changed the original")
	}
}

func TestDatasetBatches(t *testing.T) {
	corpus := mustCorpus(t, rangeSamples(30))
	train, err := corpus.Train(corpus.NewSplit(4))
	if err != nil {
		t.Fatal(err)
	}
	sorted := &hwbatch.SortSampleList{SortableSampleList: train, BatchSize: 8}
	hwbatch.Shuffle(sorted, nil)

	for _, b := range hwbatch.Batches(sorted, 8) {
		lengths := make([]int, b.Len())
		maxLen := 0
		for i := range lengths {
			lengths[i] = b.(*hwbatch.SortSampleList).LenAt(i)
			if lengths[i] > maxLen {
				maxLen = lengths[i]
			}
			if i > 0 && lengths[i] < lengths[i-1] {
				t.Errorf("batch not sorted: %v", lengths)
			}
		}
		batch, err := hwbatch.Fetch(b)
		if err != nil {
			t.Fatal(err)
		}
		steps := batch.Inputs.Output()
		if len(steps) != maxLen {
			t.Fatalf("expected %d timesteps but got %d", maxLen, len(steps))
		}
		for step, s := range steps {
			var present int
			for i, p := range s.Present {
				if p != (step < lengths[i]) {
					t.Errorf("step %d sample %d: unexpected presence %v", step, i, p)
				}
				if p {
					present++
				}
			}
			if s.Packed.Len() != present*StrokeDim {
				t.Errorf("step %d: packed length %d for %d samples", step, s.Packed.Len(),
					present)
			}
		}
	}
}
