package storage

import (
	"context"
	"errors"

	"github.com/postmedialabs/postmedia-service/internal/types"
)

// ErrNotFound is returned by point reads and point deletes when no record
// matches both the id and the owning user. Handlers branch on it explicitly
// instead of inspecting driver errors.
var ErrNotFound = errors.New("record not found")

type MediaStore interface {
	Upsert(ctx context.Context, item types.MediaItem) error
	Get(ctx context.Context, userID, mediaID string) (types.MediaItem, error)
	ListByUser(ctx context.Context, userID string) ([]types.MediaItem, error)
	Delete(ctx context.Context, userID, mediaID string) error
}

type PostStore interface {
	Create(ctx context.Context, post types.Post) error
	ListByUser(ctx context.Context, userID string) ([]types.Post, error)
	ListAll(ctx context.Context) ([]types.Post, error)
	Delete(ctx context.Context, userID, postID string) error
}

// BlobStore holds the binary payloads referenced by media records.
type BlobStore interface {
	Put(ctx context.Context, objectName, contentType string, data []byte) error
	Get(ctx context.Context, objectName string) ([]byte, error)
	Delete(ctx context.Context, objectName string) error
}
