package mocks

import (
	"context"

	"github.com/ferdian3456/brewlog/internal/media"
	"github.com/google/uuid"

	"github.com/stretchr/testify/mock"
)

type MockMediaPipeline struct {
	mock.Mock
}

func (m *MockMediaPipeline) Ingest(ctx context.Context, category media.Category, entityID uuid.UUID, existing int, uploads []media.Upload) (media.IngestResult, error) {
	args := m.Called(ctx, category, entityID, existing, uploads)
	return args.Get(0).(media.IngestResult), args.Error(1)
}

func (m *MockMediaPipeline) Discard(ctx context.Context, category media.Category, entityID uuid.UUID, assets []media.SavedAsset) {
	m.Called(ctx, category, entityID, assets)
}

func (m *MockMediaPipeline) Remove(ctx context.Context, category media.Category, entityID uuid.UUID, filename string) error {
	args := m.Called(ctx, category, entityID, filename)
	return args.Error(0)
}

func (m *MockMediaPipeline) RemoveAll(ctx context.Context, category media.Category, entityID uuid.UUID) error {
	args := m.Called(ctx, category, entityID)
	return args.Error(0)
}
