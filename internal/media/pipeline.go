package media

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ferdian3456/brewlog/internal/constant"
	"github.com/ferdian3456/brewlog/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultWorkers = 4
	DefaultTimeout = 15 * time.Second
)

type IngestResult struct {
	Saved   []SavedAsset
	Skipped []model.SkippedImage
}

// Pipeline runs gate, processor and store for one upload batch.
type Pipeline struct {
	Processor Processor
	Store     Store
	Log       *zap.Logger
	Metrics   *Metrics
	Workers   int
	Timeout   time.Duration
}

func NewPipeline(processor Processor, store Store, zap *zap.Logger, metrics *Metrics, workers int, timeout time.Duration) *Pipeline {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Pipeline{
		Processor: processor,
		Store:     store,
		Log:       zap,
		Metrics:   metrics,
		Workers:   workers,
		Timeout:   timeout,
	}
}

// Ingest validates the batch against the category policy, then processes and
// stores the accepted files in parallel. A file that fails to decode is
// skipped; a storage failure aborts the batch and removes everything it wrote.
// Saved keeps the order of the accepted uploads.
func (pipeline *Pipeline) Ingest(ctx context.Context, category Category, entityID uuid.UUID, existing int, uploads []Upload) (IngestResult, error) {
	policy, ok := PolicyFor(category)
	if !ok {
		return IngestResult{}, errors.New("unknown image category: " + string(category))
	}

	gate, err := Gate(policy, existing, uploads)
	if err != nil {
		return IngestResult{Skipped: gate.Skipped}, err
	}

	ctx, cancel := context.WithTimeout(ctx, pipeline.Timeout)
	defer cancel()

	err = pipeline.Store.EnsureDir(ctx, category, entityID)
	if err != nil {
		return IngestResult{}, err
	}

	saved := make([]*SavedAsset, len(gate.Accepted))
	processingErrs := make([]*model.ProcessingError, len(gate.Accepted))

	var mu sync.Mutex
	var written []SavedAsset

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(pipeline.Workers)

	for i, upload := range gate.Accepted {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			start := time.Now()
			processed, err := pipeline.Processor.Process(upload.Data, upload.OriginalName)
			if err != nil {
				var processingErr *model.ProcessingError
				if errors.As(err, &processingErr) {
					processingErrs[i] = processingErr
					pipeline.Metrics.observe(category, resultSkipped, 0)
					return nil
				}
				pipeline.Metrics.observe(category, resultFailed, 0)
				return err
			}

			asset, err := pipeline.Store.Save(gctx, category, entityID, processed, upload.OriginalName)
			if err != nil {
				pipeline.Metrics.observe(category, resultFailed, 0)
				return err
			}

			mu.Lock()
			written = append(written, asset)
			mu.Unlock()

			saved[i] = &asset
			pipeline.Metrics.observe(category, resultSaved, time.Since(start).Seconds())
			return nil
		})
	}

	err = g.Wait()
	if err != nil {
		pipeline.Discard(context.WithoutCancel(ctx), category, entityID, written)
		return IngestResult{}, err
	}

	result := IngestResult{Skipped: gate.Skipped}
	var firstProcessingErr *model.ProcessingError
	for i := range gate.Accepted {
		if saved[i] != nil {
			result.Saved = append(result.Saved, *saved[i])
			continue
		}
		if processingErrs[i] != nil {
			if firstProcessingErr == nil {
				firstProcessingErr = processingErrs[i]
			}
			result.Skipped = append(result.Skipped, model.SkippedImage{
				OriginalName: processingErrs[i].OriginalName,
				Code:         constant.ERR_PROCESSING_ERROR,
				Message:      processingErrs[i].Error(),
			})
		}
	}

	if len(result.Saved) == 0 && firstProcessingErr != nil {
		return result, firstProcessingErr
	}

	return result, nil
}

// Discard removes assets written by a batch whose ledger write did not land.
// Failures are logged and leave orphans for RemoveAll to collect.
func (pipeline *Pipeline) Discard(ctx context.Context, category Category, entityID uuid.UUID, assets []SavedAsset) {
	for _, asset := range assets {
		err := pipeline.Remove(ctx, category, entityID, asset.Filename)
		if err != nil {
			pipeline.Log.Warn("failed to discard image",
				zap.String("category", string(category)),
				zap.String("entityId", entityID.String()),
				zap.String("filename", asset.Filename),
				zap.Error(err),
			)
		}
	}
}

func (pipeline *Pipeline) Remove(ctx context.Context, category Category, entityID uuid.UUID, filename string) error {
	ctx, cancel := context.WithTimeout(ctx, pipeline.Timeout)
	defer cancel()

	return pipeline.Store.Remove(ctx, category, entityID, filename)
}

func (pipeline *Pipeline) RemoveAll(ctx context.Context, category Category, entityID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, pipeline.Timeout)
	defer cancel()

	return pipeline.Store.RemoveAll(ctx, category, entityID)
}
