package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/unixpickle/essentials"
	"github.com/unixpickle/handwriting"
	"github.com/unixpickle/handwriting/hwbatch"
	"github.com/unixpickle/handwriting/hwio"
)

func main() {
	var dataDir string
	var splitPath string
	var seed int64
	var penCol int
	var batchSize int
	var withText bool
	var verbose bool
	flag.StringVar(&dataDir, "data", "data", "directory with strokes and sentences")
	flag.StringVar(&splitPath, "split", "", "file to load the split from (saved if missing)")
	flag.Int64Var(&seed, "seed", 0, "seed for new splits")
	flag.IntVar(&penCol, "pen", handwriting.DefaultPenColumn, "pen state column (-1 for none)")
	flag.IntVar(&batchSize, "batch", 32, "mini-batch size")
	flag.BoolVar(&withText, "text", false, "encode transcriptions")
	flag.BoolVar(&verbose, "verbose", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	log.Println("Loading samples...")
	samples, err := hwio.LoadDir(dataDir)
	if err != nil {
		essentials.Die(err)
	}
	corpus, err := handwriting.NewCorpus(samples,
		handwriting.WithLogger(logger),
		handwriting.WithPenColumn(penCol),
		handwriting.WithText(withText))
	if err != nil {
		essentials.Die(err)
	}

	split := loadOrCreateSplit(corpus, splitPath, seed)
	train, valid, err := corpus.Pair(split)
	if err != nil {
		essentials.Die(err)
	}

	log.Printf("samples: %d (train=%d valid=%d)", corpus.Len(), train.Len(), valid.Len())
	log.Printf("max strokes: %d, max chars: %d, vocab: %d", train.MaxLen(),
		train.MaxTextLen(), train.Vocab().Len())
	log.Printf("vocab: %q", string(train.Vocab().Chars()))
	stats := train.Stats()
	log.Printf("offset mean: %v, std: %v", stats.Mean, stats.Std)

	sorted := &hwbatch.SortSampleList{SortableSampleList: train, BatchSize: batchSize}
	hwbatch.Shuffle(sorted, nil)
	var numBatches, steps int
	for _, b := range hwbatch.Batches(sorted, batchSize) {
		batch, err := hwbatch.Fetch(b)
		if err != nil {
			essentials.Die(err)
		}
		numBatches++
		steps += len(batch.Inputs.Output())
	}
	if numBatches > 0 {
		log.Printf("batches: %d, mean timesteps per batch: %.1f", numBatches,
			float64(steps)/float64(numBatches))
	}
}

func loadOrCreateSplit(c *handwriting.Corpus, path string, seed int64) *handwriting.Split {
	if path == "" {
		return c.NewSplit(seed)
	}
	if _, err := os.Stat(path); err == nil {
		log.Println("Loading split from", path)
		split, err := hwio.LoadSplit(path)
		if err != nil {
			essentials.Die(err)
		}
		return split
	}
	split := c.NewSplit(seed)
	if err := hwio.SaveSplit(path, split); err != nil {
		essentials.Die(err)
	}
	log.Println("Saved split to", path)
	return split
}
