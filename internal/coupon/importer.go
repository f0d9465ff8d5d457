package coupon

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Importer loads coupon files concurrently and upserts the merged
// definitions into a Store.
type Importer struct {
	loader Loader
	store  Store
	logger zerolog.Logger
}

// NewImporter creates a new coupon importer.
func NewImporter(loader Loader, store Store, logger zerolog.Logger) *Importer {
	return &Importer{
		loader: loader,
		store:  store,
		logger: logger.With().Str("component", "coupon-importer").Logger(),
	}
}

// Import loads every file, merges them in the given order so that later
// files override earlier ones per code, and stores the result. Any file
// failing to load aborts the import before anything is written.
func (i *Importer) Import(ctx context.Context, files []string) (int, error) {
	i.logger.Info().Int("file_count", len(files)).Msg("importing coupon files")

	type loadResult struct {
		index int
		set   Set
		err   error
	}

	resultChan := make(chan loadResult, len(files))
	var wg sync.WaitGroup

	for idx, file := range files {
		wg.Add(1)
		go func(index int, path string) {
			defer wg.Done()

			set, err := i.loader.Load(ctx, path)
			resultChan <- loadResult{index: index, set: set, err: err}
		}(idx, file)
	}

	wg.Wait()
	close(resultChan)

	results := make([]loadResult, len(files))
	for result := range resultChan {
		results[result.index] = result
	}

	merged := NewMapSet(1024)
	for idx, result := range results {
		if result.err != nil {
			i.logger.Error().Err(result.err).Str("file", files[idx]).Msg("failed to load coupon file")
			return 0, fmt.Errorf("failed to load coupon file %s: %w", files[idx], result.err)
		}
		merged.Merge(result.set)
	}

	if err := i.store.Upsert(ctx, merged.Coupons()); err != nil {
		i.logger.Error().Err(err).Msg("failed to store imported coupons")
		return 0, fmt.Errorf("failed to store imported coupons: %w", err)
	}

	i.logger.Info().Int("coupons_imported", merged.Size()).Msg("coupon import complete")
	return merged.Size(), nil
}
