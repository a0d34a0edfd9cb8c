package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/ferdian3456/brewlog/internal/media"
	"github.com/ferdian3456/brewlog/internal/model"
	"github.com/google/uuid"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type imageTable struct {
	table     string
	owner     string
	column    string
	resource  string
	singleton bool
}

var imageTables = map[media.Category]imageTable{
	media.CategoryCoffees: {table: "coffees", owner: "added_by", column: "images", resource: "Coffee"},
	media.CategoryBrews:   {table: "brews", owner: "user_id", column: "images", resource: "Brew"},
	media.CategoryAvatars: {table: "users", owner: "id", column: "avatar", resource: "User", singleton: true},
}

// ImageRepository persists the image list of coffees, brews and the avatar
// slot of users. Every mutation is a read-modify-write under a row lock, so
// concurrent requests against the same entity are applied one at a time.
type ImageRepository struct {
	Log *zap.Logger
	DB  *pgxpool.Pool
}

func NewImageRepository(zap *zap.Logger, db *pgxpool.Pool) *ImageRepository {
	return &ImageRepository{
		Log: zap,
		DB:  db,
	}
}

func lookupImageTable(category media.Category) (imageTable, error) {
	table, ok := imageTables[category]
	if !ok {
		return table, fmt.Errorf("unknown image category %q", category)
	}
	return table, nil
}

// CountImages returns how many images the entity holds. The entity must
// belong to ownerId.
func (repository *ImageRepository) CountImages(ctx context.Context, category media.Category, entityId uuid.UUID, ownerId uuid.UUID) (int, error) {
	table, err := lookupImageTable(category)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE id=$1 AND %s=$2", table.column, table.table, table.owner)

	var raw []byte
	err = repository.DB.QueryRow(ctx, query, entityId, ownerId).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, &model.NotFoundError{Resource: table.resource, Param: "id"}
		}
		return 0, err
	}

	images, err := decodeImageColumn(raw, table.singleton)
	if err != nil {
		return 0, err
	}

	return len(images), nil
}

// MutateImages locks the entity row, hands its current list to fn and stores
// what fn returns. Nothing is written when fn fails.
func (repository *ImageRepository) MutateImages(ctx context.Context, category media.Category, entityId uuid.UUID, ownerId uuid.UUID, fn func([]model.ImageAsset) ([]model.ImageAsset, error)) ([]model.ImageAsset, error) {
	table, err := lookupImageTable(category)
	if err != nil {
		return nil, err
	}

	tx, err := repository.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	selectQuery := fmt.Sprintf("SELECT %s FROM %s WHERE id=$1 AND %s=$2 FOR UPDATE", table.column, table.table, table.owner)

	var raw []byte
	err = tx.QueryRow(ctx, selectQuery, entityId, ownerId).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &model.NotFoundError{Resource: table.resource, Param: "id"}
		}
		return nil, err
	}

	current, err := decodeImageColumn(raw, table.singleton)
	if err != nil {
		return nil, err
	}

	updated, err := fn(current)
	if err != nil {
		return nil, err
	}

	encoded, err := encodeImageColumn(updated, table.singleton)
	if err != nil {
		return nil, err
	}

	updateQuery := fmt.Sprintf("UPDATE %s SET %s=$1, update_datetime=$2 WHERE id=$3", table.table, table.column)
	_, err = tx.Exec(ctx, updateQuery, encoded, time.Now().UTC(), entityId)
	if err != nil {
		return nil, err
	}

	err = tx.Commit(ctx)
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func decodeImageColumn(raw []byte, singleton bool) ([]model.ImageAsset, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return []model.ImageAsset{}, nil
	}

	if singleton {
		var image model.ImageAsset
		err := sonic.Unmarshal(raw, &image)
		if err != nil {
			return nil, err
		}
		return []model.ImageAsset{image}, nil
	}

	return decodeImages(raw)
}

// encodeImageColumn returns nil for an empty singleton so the column goes back to NULL.
func encodeImageColumn(images []model.ImageAsset, singleton bool) ([]byte, error) {
	if singleton {
		if len(images) == 0 {
			return nil, nil
		}
		return sonic.Marshal(images[0])
	}

	if images == nil {
		images = []model.ImageAsset{}
	}
	return sonic.Marshal(images)
}

func decodeImages(raw []byte) ([]model.ImageAsset, error) {
	images := []model.ImageAsset{}
	if len(raw) == 0 {
		return images, nil
	}

	err := sonic.Unmarshal(raw, &images)
	if err != nil {
		return nil, err
	}

	return images, nil
}

func decodeAvatar(raw []byte) (*model.ImageAsset, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var avatar model.ImageAsset
	err := sonic.Unmarshal(raw, &avatar)
	if err != nil {
		return nil, err
	}

	return &avatar, nil
}
