package types

import "time"

// MediaItem is the metadata record for an uploaded media file. The binary
// payload lives in the blob store under BlobName; the record itself lives in
// the media collection, partitioned by UserID.
type MediaItem struct {
	ID          string    `json:"id" bson:"_id"`
	UserID      string    `json:"userId" bson:"userId"`
	FileName    string    `json:"fileName" bson:"fileName"`
	ContentType string    `json:"contentType" bson:"contentType"`
	SizeBytes   int64     `json:"sizeBytes" bson:"sizeBytes"`
	BlobName    string    `json:"blobName" bson:"blobName"`
	UploadedAt  time.Time `json:"uploadedAt" bson:"uploadedAt"`
}

// MediaRef is a snapshot of a MediaItem's identifying fields, copied into a
// post at creation time. Deleting the underlying media later does not touch
// refs already embedded in posts.
type MediaRef struct {
	MediaID     string `json:"mediaId" bson:"mediaId"`
	BlobName    string `json:"blobName" bson:"blobName"`
	ContentType string `json:"contentType" bson:"contentType"`
}

type Post struct {
	ID        string     `json:"id" bson:"_id"`
	UserID    string     `json:"userId" bson:"userId"`
	Title     string     `json:"title" bson:"title"`
	Caption   string     `json:"caption" bson:"caption"`
	Media     []MediaRef `json:"media" bson:"media"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"`
}
