package handwriting

import (
	"fmt"
	"math"
	"sync"

	"github.com/unixpickle/essentials"
	"github.com/unixpickle/serializer"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

func init() {
	var s Stats
	serializer.RegisterTypedDeserializer(s.SerializerType(), DeserializeStats)
}

// Stats stores per-column offset normalization
// statistics.
//
// The pen column (if any) always has mean 0 and standard
// deviation 1, making normalization the identity there.
type Stats struct {
	Mean [StrokeDim]float64
	Std  [StrokeDim]float64

	// Count is the number of valid timesteps the
	// statistics were computed over.
	Count int

	// Substituted marks columns whose standard deviation
	// was zero or undefined and was replaced by 1.
	Substituted [StrokeDim]bool
}

// DeserializeStats deserializes a Stats.
func DeserializeStats(d []byte) (*Stats, error) {
	var count serializer.Int
	var fields [StrokeDim * 2]serializer.Float64
	dests := []interface{}{&count}
	for i := range fields {
		dests = append(dests, &fields[i])
	}
	if err := serializer.DeserializeAny(d, dests...); err != nil {
		return nil, essentials.AddCtx("deserialize Stats", err)
	}
	res := &Stats{Count: int(count)}
	for i := 0; i < StrokeDim; i++ {
		res.Mean[i] = float64(fields[i])
		res.Std[i] = float64(fields[StrokeDim+i])
		if std := res.Std[i]; !(std > 0) || math.IsInf(std, 1) {
			return nil, fmt.Errorf("deserialize Stats: invalid std %v in column %d", std, i)
		}
	}
	return res, nil
}

// SerializerType returns the unique ID used to serialize
// Stats with the serializer package.
func (s *Stats) SerializerType() string {
	return "github.com/unixpickle/handwriting.Stats"
}

// Serialize serializes the Stats.
// The Substituted flags are not saved.
func (s *Stats) Serialize() ([]byte, error) {
	objs := []interface{}{serializer.Int(s.Count)}
	for _, m := range s.Mean {
		objs = append(objs, serializer.Float64(m))
	}
	for _, std := range s.Std {
		objs = append(objs, serializer.Float64(std))
	}
	return serializer.SerializeAny(objs...)
}

// TrainOffsetNormalization computes statistics over the
// valid (masked) timesteps of t and returns them along
// with a normalized copy of t.
//
// Every column except penCol is normalized as
// (x - mean) / std.
// Padding stays zero in the result.
//
// A column with zero or undefined standard deviation is
// divided by 1 instead, and is marked in Substituted.
func TrainOffsetNormalization(t *StrokeTensor, penCol int) (*Stats, *StrokeTensor, error) {
	var weights []float64
	if t.Steps() > 0 {
		weights = t.Mask.RawVector().Data
	}
	count := int(floats.Sum(weights))
	if count == 0 {
		return nil, nil, fmt.Errorf("offset normalization: %w", ErrEmptyDataset)
	}

	stats := &Stats{Count: count}
	column := make([]float64, t.Steps())
	for col := 0; col < StrokeDim; col++ {
		if col == penCol {
			stats.Std[col] = 1
			continue
		}
		mat.Col(column, col, t.Data)
		mean, std := stat.MeanStdDev(column, weights)
		stats.Mean[col] = mean
		if std == 0 || math.IsNaN(std) || math.IsInf(std, 0) {
			std = 1
			stats.Substituted[col] = true
		}
		stats.Std[col] = std
	}

	return stats, applyStats(stats, t, penCol), nil
}

// ValidOffsetNormalization normalizes t with statistics
// from a training set.
func ValidOffsetNormalization(stats *Stats, t *StrokeTensor, penCol int) (*StrokeTensor, error) {
	if stats == nil {
		return nil, ErrStatsNotInitialized
	}
	return applyStats(stats, t, penCol), nil
}

func applyStats(stats *Stats, t *StrokeTensor, penCol int) *StrokeTensor {
	res := NewStrokeTensor(t.N, t.MaxLen)
	if res.Steps() == 0 {
		return res
	}
	res.Mask.CopyVec(t.Mask)
	res.Data.Apply(func(step, col int, x float64) float64 {
		if t.Mask.AtVec(step) == 0 {
			return 0
		}
		if col == penCol {
			return x
		}
		return (x - stats.Mean[col]) / stats.Std[col]
	}, t.Data)
	return res
}

// A StatsSlot holds training statistics so that an
// independently constructed validation split can find
// them.
//
// It may be written once.
// It is safe to use from multiple Goroutines.
type StatsSlot struct {
	lock  sync.Mutex
	stats *Stats
}

// Set stores the statistics.
// It fails if the slot was already set.
func (s *StatsSlot) Set(stats *Stats) error {
	if stats == nil {
		return ErrStatsNotInitialized
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.stats != nil {
		return ErrStatsAlreadySet
	}
	s.stats = stats
	return nil
}

// Get returns the stored statistics, or
// ErrStatsNotInitialized if Set has not been called.
func (s *StatsSlot) Get() (*Stats, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.stats == nil {
		return nil, ErrStatsNotInitialized
	}
	return s.stats, nil
}
