package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/postmedialabs/postmedia-service/internal/config"
	"github.com/postmedialabs/postmedia-service/internal/storage"
	"github.com/postmedialabs/postmedia-service/internal/types"
)

// Client wraps a MongoDB connection and exposes the two document
// collections the service uses. Both collections are partitioned by the
// userId field: point reads and deletes always filter on id and userId
// together, so a record is only reachable through its owner.
type Client struct {
	mc    *mongo.Client
	Media *MediaStore
	Posts *PostStore
}

func Connect(ctx context.Context, cfg *config.Config) (*Client, error) {
	mc, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := mc.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	db := mc.Database(cfg.Mongo.Database)

	return &Client{
		mc:    mc,
		Media: &MediaStore{col: db.Collection(cfg.Mongo.MediaCollection)},
		Posts: &PostStore{col: db.Collection(cfg.Mongo.PostCollection)},
	}, nil
}

func (c *Client) Close(ctx context.Context) error {
	return c.mc.Disconnect(ctx)
}

type MediaStore struct {
	col *mongo.Collection
}

func (s *MediaStore) Upsert(ctx context.Context, item types.MediaItem) error {
	filter := bson.M{"_id": item.ID, "userId": item.UserID}

	_, err := s.col.ReplaceOne(ctx, filter, item, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert media record: %w", err)
	}

	return nil
}

func (s *MediaStore) Get(ctx context.Context, userID, mediaID string) (types.MediaItem, error) {
	var item types.MediaItem

	err := s.col.FindOne(ctx, bson.M{"_id": mediaID, "userId": userID}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return types.MediaItem{}, storage.ErrNotFound
	}
	if err != nil {
		return types.MediaItem{}, fmt.Errorf("failed to read media record: %w", err)
	}

	return item, nil
}

func (s *MediaStore) ListByUser(ctx context.Context, userID string) ([]types.MediaItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "uploadedAt", Value: -1}})

	cursor, err := s.col.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query media records: %w", err)
	}

	items := []types.MediaItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode media records: %w", err)
	}

	return items, nil
}

func (s *MediaStore) Delete(ctx context.Context, userID, mediaID string) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": mediaID, "userId": userID})
	if err != nil {
		return fmt.Errorf("failed to delete media record: %w", err)
	}

	if res.DeletedCount == 0 {
		return storage.ErrNotFound
	}

	return nil
}

type PostStore struct {
	col *mongo.Collection
}

func (s *PostStore) Create(ctx context.Context, post types.Post) error {
	_, err := s.col.InsertOne(ctx, post)
	if err != nil {
		return fmt.Errorf("failed to create post record: %w", err)
	}

	return nil
}

func (s *PostStore) ListByUser(ctx context.Context, userID string) ([]types.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := s.col.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query post records: %w", err)
	}

	posts := []types.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("failed to decode post records: %w", err)
	}

	return posts, nil
}

// ListAll queries across every user partition.
func (s *PostStore) ListAll(ctx context.Context) ([]types.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query post records: %w", err)
	}

	posts := []types.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("failed to decode post records: %w", err)
	}

	return posts, nil
}

func (s *PostStore) Delete(ctx context.Context, userID, postID string) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": postID, "userId": userID})
	if err != nil {
		return fmt.Errorf("failed to delete post record: %w", err)
	}

	if res.DeletedCount == 0 {
		return storage.ErrNotFound
	}

	return nil
}
