package media

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

const thumbnailDir = "thumbnails"

type SavedAsset struct {
	URL          string
	ThumbnailURL string
	Filename     string
	OriginalName string
}

// Store persists renditions under {category}/{entityId}/ with thumbnails in a
// thumbnails/ subdirectory. Save writes both renditions or neither.
type Store interface {
	EnsureDir(ctx context.Context, category Category, entityID uuid.UUID) error
	Save(ctx context.Context, category Category, entityID uuid.UUID, processed Processed, originalName string) (SavedAsset, error)
	Remove(ctx context.Context, category Category, entityID uuid.UUID, filename string) error
	RemoveAll(ctx context.Context, category Category, entityID uuid.UUID) error
}

type StorageConfig struct {
	Driver    string
	LocalDir  string
	PublicURL string
	Bucket    string
	Timeout   time.Duration
	Workers   int
	Engine    string
}

func EntityKey(category Category, entityID uuid.UUID) string {
	return path.Join(string(category), entityID.String())
}

func FullKey(category Category, entityID uuid.UUID, filename string) string {
	return path.Join(string(category), entityID.String(), filename)
}

func ThumbnailKey(category Category, entityID uuid.UUID, filename string) string {
	return path.Join(string(category), entityID.String(), thumbnailDir, filename)
}

func PublicURL(base string, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}

func savedAsset(publicURL string, category Category, entityID uuid.UUID, processed Processed, originalName string) SavedAsset {
	return SavedAsset{
		URL:          PublicURL(publicURL, FullKey(category, entityID, processed.Filename)),
		ThumbnailURL: PublicURL(publicURL, ThumbnailKey(category, entityID, processed.Filename)),
		Filename:     processed.Filename,
		OriginalName: originalName,
	}
}
