package media

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ferdian3456/brewlog/internal/model"
	"github.com/google/uuid"
)

// LocalStore keeps assets on the filesystem under Root, which is served
// statically at PublicURL.
type LocalStore struct {
	Root      string
	PublicURL string
}

func NewLocalStore(root string, publicURL string) *LocalStore {
	return &LocalStore{
		Root:      root,
		PublicURL: publicURL,
	}
}

func (store *LocalStore) EnsureDir(ctx context.Context, category Category, entityID uuid.UUID) error {
	dir := filepath.Join(store.Root, filepath.FromSlash(EntityKey(category, entityID)), thumbnailDir)
	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return &model.StorageError{Op: "mkdir", Key: dir, Err: err}
	}
	return nil
}

func (store *LocalStore) Save(ctx context.Context, category Category, entityID uuid.UUID, processed Processed, originalName string) (SavedAsset, error) {
	fullPath := store.path(FullKey(category, entityID, processed.Filename))
	thumbPath := store.path(ThumbnailKey(category, entityID, processed.Filename))

	err := writeFileAtomic(ctx, fullPath, processed.Full.Data)
	if err != nil {
		return SavedAsset{}, &model.StorageError{Op: "write", Key: fullPath, Err: err}
	}

	err = writeFileAtomic(ctx, thumbPath, processed.Thumbnail.Data)
	if err != nil {
		_ = os.Remove(fullPath)
		return SavedAsset{}, &model.StorageError{Op: "write", Key: thumbPath, Err: err}
	}

	return savedAsset(store.PublicURL, category, entityID, processed, originalName), nil
}

func (store *LocalStore) Remove(ctx context.Context, category Category, entityID uuid.UUID, filename string) error {
	for _, key := range []string{FullKey(category, entityID, filename), ThumbnailKey(category, entityID, filename)} {
		err := os.Remove(store.path(key))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return &model.StorageError{Op: "remove", Key: key, Err: err}
		}
	}
	return nil
}

func (store *LocalStore) RemoveAll(ctx context.Context, category Category, entityID uuid.UUID) error {
	key := EntityKey(category, entityID)
	err := os.RemoveAll(store.path(key))
	if err != nil {
		return &model.StorageError{Op: "remove_all", Key: key, Err: err}
	}
	return nil
}

func (store *LocalStore) path(key string) string {
	return filepath.Join(store.Root, filepath.FromSlash(key))
}

func writeFileAtomic(ctx context.Context, target string, data []byte) error {
	err := ctx.Err()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	_, err = tmp.Write(data)
	if err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}

	err = tmp.Close()
	if err != nil {
		os.Remove(tmpName)
		return err
	}

	err = os.Chmod(tmpName, 0o644)
	if err != nil {
		os.Remove(tmpName)
		return err
	}

	err = os.Rename(tmpName, target)
	if err != nil {
		os.Remove(tmpName)
		return err
	}

	return nil
}
