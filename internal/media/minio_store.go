package media

import (
	"bytes"
	"context"

	"github.com/ferdian3456/brewlog/internal/model"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

const immutableCacheControl = "public, max-age=31536000, immutable"

// MinIOStore keeps assets as objects in a single bucket. Object keys use the
// same layout as LocalStore, so URLs stay the same whichever driver is used.
type MinIOStore struct {
	Client    *minio.Client
	Bucket    string
	PublicURL string
}

func NewMinIOStore(client *minio.Client, bucket string, publicURL string) *MinIOStore {
	return &MinIOStore{
		Client:    client,
		Bucket:    bucket,
		PublicURL: publicURL,
	}
}

// EnsureDir is a no-op: object storage has no directories.
func (store *MinIOStore) EnsureDir(ctx context.Context, category Category, entityID uuid.UUID) error {
	return nil
}

func (store *MinIOStore) Save(ctx context.Context, category Category, entityID uuid.UUID, processed Processed, originalName string) (SavedAsset, error) {
	fullKey := FullKey(category, entityID, processed.Filename)
	thumbKey := ThumbnailKey(category, entityID, processed.Filename)

	err := store.put(ctx, fullKey, processed.Full.Data, processed.ContentType)
	if err != nil {
		return SavedAsset{}, &model.StorageError{Op: "put", Key: fullKey, Err: err}
	}

	err = store.put(ctx, thumbKey, processed.Thumbnail.Data, processed.ContentType)
	if err != nil {
		_ = store.Client.RemoveObject(context.WithoutCancel(ctx), store.Bucket, fullKey, minio.RemoveObjectOptions{})
		return SavedAsset{}, &model.StorageError{Op: "put", Key: thumbKey, Err: err}
	}

	return savedAsset(store.PublicURL, category, entityID, processed, originalName), nil
}

func (store *MinIOStore) Remove(ctx context.Context, category Category, entityID uuid.UUID, filename string) error {
	for _, key := range []string{FullKey(category, entityID, filename), ThumbnailKey(category, entityID, filename)} {
		err := store.Client.RemoveObject(ctx, store.Bucket, key, minio.RemoveObjectOptions{})
		if err != nil && minio.ToErrorResponse(err).Code != "NoSuchKey" {
			return &model.StorageError{Op: "remove", Key: key, Err: err}
		}
	}
	return nil
}

func (store *MinIOStore) RemoveAll(ctx context.Context, category Category, entityID uuid.UUID) error {
	prefix := EntityKey(category, entityID) + "/"

	var objects []minio.ObjectInfo
	for object := range store.Client.ListObjects(ctx, store.Bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if object.Err != nil {
			return &model.StorageError{Op: "list", Key: prefix, Err: object.Err}
		}
		objects = append(objects, object)
	}

	if len(objects) == 0 {
		return nil
	}

	objectsCh := make(chan minio.ObjectInfo, len(objects))
	for _, object := range objects {
		objectsCh <- object
	}
	close(objectsCh)

	var firstErr error
	for removeErr := range store.Client.RemoveObjects(ctx, store.Bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		if firstErr == nil {
			firstErr = &model.StorageError{Op: "remove_all", Key: removeErr.ObjectName, Err: removeErr.Err}
		}
	}

	return firstErr
}

func (store *MinIOStore) put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := store.Client.PutObject(ctx, store.Bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: immutableCacheControl,
	})
	return err
}
