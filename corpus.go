package handwriting

import (
	"errors"
	"fmt"
)

// A Corpus holds the padded samples and the vocabulary of
// a whole dataset.
//
// Both partitions of a Split are carved out of the same
// Corpus, so they share a single Vocab.
type Corpus struct {
	Padded *Padded
	Vocab  *Vocab

	cfg config
}

// NewCorpus pads the samples and builds the vocabulary.
func NewCorpus(samples []*Sample, opts ...Option) (*Corpus, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.penColumn >= StrokeDim {
		return nil, fmt.Errorf("new corpus: column %d: %w", cfg.penColumn, ErrBadPenColumn)
	}

	padded, err := Pad(samples)
	if err != nil {
		return nil, err
	}
	vocab := BuildVocab(padded.Text)

	cfg.logger.Debug("built corpus",
		"samples", padded.Strokes.N,
		"max_strokes", padded.Strokes.MaxLen,
		"max_chars", padded.Text.MaxLen,
		"vocab", vocab.Len())

	return &Corpus{Padded: padded, Vocab: vocab, cfg: cfg}, nil
}

// Len returns the number of samples.
func (c *Corpus) Len() int {
	return c.Padded.Strokes.N
}

// NewSplit draws a seeded Split for the corpus.
func (c *Corpus) NewSplit(seed int64) *Split {
	return NewSplit(c.Len(), seed)
}

// Train builds the training partition of a split.
//
// It computes normalization statistics over the training
// partition only.
// If the Corpus was configured WithStatsSlot, the
// statistics are published to the slot.
func (c *Corpus) Train(split *Split) (*Dataset, error) {
	if err := c.checkSplit(split); err != nil {
		return nil, err
	}
	indices := split.Train()
	strokes := c.Padded.Strokes.Subset(indices)
	stats, normalized, err := TrainOffsetNormalization(strokes, c.cfg.penColumn)
	if err != nil {
		return nil, fmt.Errorf("train split: %w", err)
	}
	for col, sub := range stats.Substituted {
		if sub {
			c.cfg.logger.Warn("degenerate stroke column; using unit std",
				"column", col, "mean", stats.Mean[col])
		}
	}
	if c.cfg.slot != nil {
		if err := c.cfg.slot.Set(stats); err != nil {
			return nil, fmt.Errorf("train split: %w", err)
		}
	}
	c.cfg.logger.Debug("built train split", "samples", len(indices),
		"mean", stats.Mean, "std", stats.Std)
	return c.newDataset(indices, normalized, stats), nil
}

// Valid builds the validation partition of a split.
//
// The stroke offsets are normalized with stats, which
// should come from the training partition of the same
// split.
// If stats is nil, the Corpus's StatsSlot is consulted.
// Without either, ErrStatsNotInitialized is returned.
func (c *Corpus) Valid(split *Split, stats *Stats) (*Dataset, error) {
	if err := c.checkSplit(split); err != nil {
		return nil, err
	}
	if stats == nil && c.cfg.slot != nil {
		var err error
		stats, err = c.cfg.slot.Get()
		if err != nil {
			return nil, fmt.Errorf("valid split: %w", err)
		}
	}
	indices := split.Valid()
	normalized, err := ValidOffsetNormalization(stats, c.Padded.Strokes.Subset(indices),
		c.cfg.penColumn)
	if err != nil {
		return nil, fmt.Errorf("valid split: %w", err)
	}
	c.cfg.logger.Debug("built valid split", "samples", len(indices))
	return c.newDataset(indices, normalized, stats), nil
}

// Pair builds the training partition and then the
// validation partition, normalizing the latter with the
// training statistics.
func (c *Corpus) Pair(split *Split) (train, valid *Dataset, err error) {
	train, err = c.Train(split)
	if err != nil {
		return nil, nil, err
	}
	valid, err = c.Valid(split, train.Stats())
	if err != nil {
		return nil, nil, err
	}
	return train, valid, nil
}

func (c *Corpus) checkSplit(split *Split) error {
	if split == nil {
		return errors.New("nil split")
	}
	if split.Len() != c.Len() {
		return fmt.Errorf("split covers %d samples but corpus has %d: %w",
			split.Len(), c.Len(), ErrMisalignedInput)
	}
	return split.Validate()
}

func (c *Corpus) newDataset(indices []int, strokes *StrokeTensor, stats *Stats) *Dataset {
	order := make([]int, len(indices))
	for i := range order {
		order[i] = i
	}
	return &Dataset{
		indices:  indices,
		order:    order,
		strokes:  strokes,
		text:     c.Padded.Text.Subset(indices),
		vocab:    c.Vocab,
		stats:    stats,
		withText: c.cfg.text,
		creator:  c.cfg.creator,
	}
}
