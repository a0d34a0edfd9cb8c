package media

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ferdian3456/brewlog/internal/constant"
	"github.com/ferdian3456/brewlog/internal/model"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubProcessor struct {
	fail map[string]error
}

func (processor stubProcessor) Process(data []byte, originalName string) (Processed, error) {
	if err, ok := processor.fail[originalName]; ok {
		return Processed{}, err
	}
	return processedFixture(originalName + ".jpg"), nil
}

type recordingStore struct {
	mu       sync.Mutex
	saved    []string
	removed  []string
	failSave map[string]bool
}

func (store *recordingStore) EnsureDir(ctx context.Context, category Category, entityID uuid.UUID) error {
	return nil
}

func (store *recordingStore) Save(ctx context.Context, category Category, entityID uuid.UUID, processed Processed, originalName string) (SavedAsset, error) {
	if store.failSave[originalName] {
		return SavedAsset{}, &model.StorageError{Op: "write", Key: processed.Filename, Err: errors.New("disk full")}
	}
	store.mu.Lock()
	store.saved = append(store.saved, processed.Filename)
	store.mu.Unlock()
	return SavedAsset{Filename: processed.Filename, OriginalName: originalName}, nil
}

func (store *recordingStore) Remove(ctx context.Context, category Category, entityID uuid.UUID, filename string) error {
	store.mu.Lock()
	store.removed = append(store.removed, filename)
	store.mu.Unlock()
	return nil
}

func (store *recordingStore) RemoveAll(ctx context.Context, category Category, entityID uuid.UUID) error {
	return nil
}

func uploads(names ...string) []Upload {
	result := make([]Upload, 0, len(names))
	for _, name := range names {
		result = append(result, jpegUpload(name, 1024))
	}
	return result
}

func TestPipelineIngestKeepsUploadOrder(t *testing.T) {
	store := &recordingStore{}
	pipeline := NewPipeline(stubProcessor{}, store, zap.NewNop(), nil, 2, time.Second)

	result, err := pipeline.Ingest(context.Background(), CategoryCoffees, uuid.New(), 0, uploads("a.jpg", "b.jpg", "c.jpg", "d.jpg"))

	require.NoError(t, err)
	require.Len(t, result.Saved, 4)
	for i, name := range []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg"} {
		assert.Equal(t, name, result.Saved[i].OriginalName)
	}
	assert.Empty(t, result.Skipped)
}

func TestPipelineIngestSkipsUndecodableFile(t *testing.T) {
	store := &recordingStore{}
	processor := stubProcessor{fail: map[string]error{
		"broken.jpg": &model.ProcessingError{OriginalName: "broken.jpg", Err: errors.New("bad magic")},
	}}
	pipeline := NewPipeline(processor, store, zap.NewNop(), nil, 4, time.Second)

	result, err := pipeline.Ingest(context.Background(), CategoryBrews, uuid.New(), 0, uploads("good.jpg", "broken.jpg"))

	require.NoError(t, err)
	require.Len(t, result.Saved, 1)
	assert.Equal(t, "good.jpg", result.Saved[0].OriginalName)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, constant.ERR_PROCESSING_ERROR, result.Skipped[0].Code)
	assert.Equal(t, "broken.jpg", result.Skipped[0].OriginalName)
}

func TestPipelineIngestAllUndecodable(t *testing.T) {
	processor := stubProcessor{fail: map[string]error{
		"broken.jpg": &model.ProcessingError{OriginalName: "broken.jpg", Err: errors.New("bad magic")},
	}}
	pipeline := NewPipeline(processor, &recordingStore{}, zap.NewNop(), nil, 4, time.Second)

	_, err := pipeline.Ingest(context.Background(), CategoryBrews, uuid.New(), 0, uploads("broken.jpg"))

	var processingErr *model.ProcessingError
	require.ErrorAs(t, err, &processingErr)
}

func TestPipelineIngestStorageFailureCleansUp(t *testing.T) {
	store := &recordingStore{failSave: map[string]bool{"c.jpg": true}}
	pipeline := NewPipeline(stubProcessor{}, store, zap.NewNop(), nil, 1, time.Second)

	_, err := pipeline.Ingest(context.Background(), CategoryCoffees, uuid.New(), 0, uploads("a.jpg", "b.jpg", "c.jpg"))

	var storageErr *model.StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.ElementsMatch(t, store.saved, store.removed)
	assert.NotEmpty(t, store.removed)
}

func TestPipelineIngestCapacityWritesNothing(t *testing.T) {
	store := &recordingStore{}
	pipeline := NewPipeline(stubProcessor{}, store, zap.NewNop(), nil, 4, time.Second)

	_, err := pipeline.Ingest(context.Background(), CategoryBrews, uuid.New(), 4, uploads("a.jpg", "b.jpg"))

	var capacityErr *model.CapacityExceededError
	require.ErrorAs(t, err, &capacityErr)
	assert.Empty(t, store.saved)
}

func TestPipelineIngestWithImagingAndLocalStore(t *testing.T) {
	root := t.TempDir()
	store := NewLocalStore(root, "/uploads")
	pipeline := NewPipeline(NewImagingProcessor(), store, zap.NewNop(), nil, 4, 5*time.Second)

	batch := []Upload{
		{OriginalName: "bag.png", ContentType: "image/png", Size: 1024, Data: pngBytes(t, 1600, 900)},
		{OriginalName: "fake.jpg", ContentType: "image/jpeg", Size: 12, Data: []byte("not an image")},
	}

	result, err := pipeline.Ingest(context.Background(), CategoryCoffees, uuid.New(), 0, batch)

	require.NoError(t, err)
	require.Len(t, result.Saved, 1)
	assert.Contains(t, result.Saved[0].URL, "/uploads/coffees/")
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "fake.jpg", result.Skipped[0].OriginalName)
}

func TestPipelineMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := NewMetrics(reg)
	require.NoError(t, err)

	processor := stubProcessor{fail: map[string]error{
		"broken.jpg": &model.ProcessingError{OriginalName: "broken.jpg", Err: errors.New("bad magic")},
	}}
	pipeline := NewPipeline(processor, &recordingStore{}, zap.NewNop(), metrics, 4, time.Second)

	_, err = pipeline.Ingest(context.Background(), CategoryCoffees, uuid.New(), 0, uploads("a.jpg", "b.jpg", "broken.jpg"))
	require.NoError(t, err)

	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.processed.WithLabelValues("coffees", "saved")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.processed.WithLabelValues("coffees", "skipped")))

	_, err = NewMetrics(reg)
	assert.Error(t, err)
}
