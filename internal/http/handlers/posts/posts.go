package posts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/postmedialabs/postmedia-service/internal/storage"
	"github.com/postmedialabs/postmedia-service/internal/types"
	"github.com/postmedialabs/postmedia-service/internal/utils/response"
)

// CreateRequest carries a new post. UserID and Title are deliberately not
// validated here; absent fields pass through and are stored as empty strings.
type CreateRequest struct {
	UserID  string   `json:"userId"`
	Title   string   `json:"title"`
	Caption string   `json:"caption"`
	Media   []string `json:"media"`
}

type ListParams struct {
	UserID string `validate:"required"`
}

type DeleteParams struct {
	UserID string `validate:"required"`
	PostID string `validate:"required"`
}

// Create handles creating a new post
// @Summary Create a new post
// @Description Create a post, snapshotting each referenced media record
// @Tags posts
// @Accept json
// @Produce json
// @Param post body CreateRequest true "Post content"
// @Success 201 {object} types.Post "Post created successfully"
// @Failure 400 {object} response.Response "Invalid JSON body"
// @Failure 404 {object} response.Response "Referenced media missing or not owned"
// @Failure 500 {object} response.Response "Storage failure"
// @Router /createPost [post]
func Create(posts storage.PostStore, media storage.MediaStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateRequest

		err := json.NewDecoder(r.Body).Decode(&req)
		if errors.Is(err, io.EOF) {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(errors.New("request body cannot be empty")))
			return
		} else if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(errors.New("invalid JSON body")))
			return
		}

		// Ownership check: every referenced media record must exist under
		// this user's partition. One miss fails the whole request and no
		// post is written.
		refs := make([]types.MediaRef, 0, len(req.Media))
		for _, mediaID := range req.Media {
			item, err := media.Get(r.Context(), req.UserID, mediaID)
			if errors.Is(err, storage.ErrNotFound) {
				response.WriteJSON(w, http.StatusNotFound, response.GeneralError(
					fmt.Errorf("media not found or not owned by user: %s", mediaID)))
				return
			} else if err != nil {
				slog.Error("Failed to read media record", slog.String("media_id", mediaID), slog.String("error", err.Error()))
				response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errors.New("failed to read media record")))
				return
			}

			refs = append(refs, types.MediaRef{
				MediaID:     item.ID,
				BlobName:    item.BlobName,
				ContentType: item.ContentType,
			})
		}

		post := types.Post{
			ID:        uuid.New().String(),
			UserID:    req.UserID,
			Title:     req.Title,
			Caption:   req.Caption,
			Media:     refs,
			CreatedAt: time.Now().UTC(),
		}

		if err := posts.Create(r.Context(), post); err != nil {
			slog.Error("Failed to create post", slog.String("post_id", post.ID), slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errors.New("failed to create post")))
			return
		}

		slog.Info("Post created", slog.String("post_id", post.ID), slog.String("user_id", post.UserID))

		response.WriteJSON(w, http.StatusCreated, post)
	}
}

// ListByUser lists a user's posts
// @Summary List a user's posts
// @Description List all posts for a user, newest first
// @Tags posts
// @Produce json
// @Param userId query string true "Owner user ID"
// @Success 200 {array} types.Post "Posts"
// @Failure 400 {object} response.Response "Missing userId"
// @Failure 500 {object} response.Response "Storage failure"
// @Router /getPosts [get]
func ListByUser(store storage.PostStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := ListParams{UserID: r.URL.Query().Get("userId")}

		validate := validator.New()
		if err := validate.Struct(params); err != nil {
			if ve, ok := err.(validator.ValidationErrors); ok {
				response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(ve))
				return
			}
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		posts, err := store.ListByUser(r.Context(), params.UserID)
		if err != nil {
			slog.Error("Failed to list posts", slog.String("user_id", params.UserID), slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errors.New("failed to list posts")))
			return
		}

		if posts == nil {
			posts = []types.Post{}
		}

		response.WriteJSON(w, http.StatusOK, posts)
	}
}

// ListAll lists posts across all users
// @Summary List all posts
// @Description List every post across all users, newest first
// @Tags posts
// @Produce json
// @Success 200 {array} types.Post "Posts"
// @Failure 500 {object} response.Response "Storage failure"
// @Router /getAllPosts [get]
func ListAll(store storage.PostStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := store.ListAll(r.Context())
		if err != nil {
			slog.Error("Failed to list all posts", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errors.New("failed to list posts")))
			return
		}

		if posts == nil {
			posts = []types.Post{}
		}

		response.WriteJSON(w, http.StatusOK, posts)
	}
}

// Delete deletes a post
// @Summary Delete a post
// @Tags posts
// @Param userId query string true "Owner user ID"
// @Param postId query string true "Post ID"
// @Success 204 "Post deleted"
// @Failure 400 {object} response.Response "Missing userId or postId"
// @Failure 404 {object} response.Response "Post not found"
// @Failure 500 {object} response.Response "Storage failure"
// @Router /deletePost [delete]
func Delete(store storage.PostStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := DeleteParams{
			UserID: r.URL.Query().Get("userId"),
			PostID: r.URL.Query().Get("postId"),
		}

		validate := validator.New()
		if err := validate.Struct(params); err != nil {
			if ve, ok := err.(validator.ValidationErrors); ok {
				response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(ve))
				return
			}
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		err := store.Delete(r.Context(), params.UserID, params.PostID)
		if errors.Is(err, storage.ErrNotFound) {
			response.WriteJSON(w, http.StatusNotFound, response.GeneralError(errors.New("post not found")))
			return
		} else if err != nil {
			slog.Error("Failed to delete post", slog.String("post_id", params.PostID), slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errors.New("failed to delete post")))
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
