package mocks

import (
	"context"

	"github.com/ferdian3456/brewlog/internal/media"
	"github.com/ferdian3456/brewlog/internal/model"
	"github.com/google/uuid"

	"github.com/stretchr/testify/mock"
)

type MockImageLedgerRepository struct {
	mock.Mock
}

func (m *MockImageLedgerRepository) CountImages(ctx context.Context, category media.Category, entityId uuid.UUID, ownerId uuid.UUID) (int, error) {
	args := m.Called(ctx, category, entityId, ownerId)
	return args.Int(0), args.Error(1)
}

// MutateImages runs fn against the list given as the first return value,
// mimicking the locked read-modify-write of the real repository.
func (m *MockImageLedgerRepository) MutateImages(ctx context.Context, category media.Category, entityId uuid.UUID, ownerId uuid.UUID, fn func([]model.ImageAsset) ([]model.ImageAsset, error)) ([]model.ImageAsset, error) {
	args := m.Called(ctx, category, entityId, ownerId)
	if err := args.Error(1); err != nil {
		return nil, err
	}

	var current []model.ImageAsset
	if images, ok := args.Get(0).([]model.ImageAsset); ok {
		current = append(current, images...)
	}

	return fn(current)
}
