package handwriting

import (
	"log/slog"

	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/anyvec/anyvec32"
)

// DefaultPenColumn is the stroke column holding the pen
// state in (dx, dy, pen) layout.
const DefaultPenColumn = 2

// Option configures a Corpus.
type Option func(*config)

type config struct {
	penColumn int
	text      bool
	creator   anyvec.Creator
	slot      *StatsSlot
	logger    *slog.Logger
}

func defaultConfig() config {
	return config{
		penColumn: DefaultPenColumn,
		creator:   anyvec32.CurrentCreator(),
		logger:    slog.Default(),
	}
}

// WithPenColumn sets which stroke column holds the pen
// state (default: 2).
// The pen column is never normalized.
// A negative column means that every column is treated
// as an offset.
// A column of StrokeDim or more makes NewCorpus fail with
// ErrBadPenColumn.
func WithPenColumn(col int) Option {
	return func(c *config) {
		c.penColumn = col
	}
}

// WithText makes examples include encoded transcriptions
// and character masks (default: false).
func WithText(enabled bool) Option {
	return func(c *config) {
		c.text = enabled
	}
}

// WithCreator sets the anyvec.Creator used for samples
// handed to hwbatch (default: anyvec32.CurrentCreator()).
func WithCreator(cr anyvec.Creator) Option {
	return func(c *config) {
		if cr != nil {
			c.creator = cr
		}
	}
}

// WithStatsSlot makes the training split publish its
// statistics to s, and lets the validation split read
// them from s when no explicit statistics are given.
func WithStatsSlot(s *StatsSlot) Option {
	return func(c *config) {
		c.slot = s
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
