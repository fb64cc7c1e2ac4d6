package media

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/postmedialabs/postmedia-service/internal/services/blob"
	"github.com/postmedialabs/postmedia-service/internal/storage"
	"github.com/postmedialabs/postmedia-service/internal/types"
	"github.com/postmedialabs/postmedia-service/internal/utils/response"
)

// maxUploadMemory bounds how much of a multipart body is buffered in memory;
// larger files spill to temp files.
const maxUploadMemory = 32 << 20

type ListParams struct {
	UserID string `validate:"required"`
}

type DeleteParams struct {
	UserID  string `validate:"required"`
	MediaID string `validate:"required"`
}

// Upload handles media file uploads
// @Summary Upload a media file
// @Description Store a media file and create its metadata record
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Param userId formData string true "Owner user ID"
// @Param file formData file true "Media file"
// @Success 201 {object} types.MediaItem "Media uploaded successfully"
// @Failure 400 {object} response.Response "Missing userId or file"
// @Failure 500 {object} response.Response "Storage failure"
// @Router /uploadMedia [post]
func Upload(store storage.MediaStore, blobs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(errors.New("invalid multipart form")))
			return
		}

		userID := r.FormValue("userId")
		file, header, err := r.FormFile("file")
		if err == nil {
			defer file.Close()
		}
		if userID == "" || err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(errors.New("missing userId or file")))
			return
		}

		data, err := io.ReadAll(file)
		if err != nil {
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errors.New("failed to read file")))
			return
		}

		mediaID := uuid.New().String()
		blobName := blob.ObjectName(userID, mediaID, header.Filename)
		contentType := header.Header.Get("Content-Type")

		// Blob first, then the metadata record. A failed record write leaves
		// the blob behind; nothing cleans it up.
		if err := blobs.Put(r.Context(), blobName, contentType, data); err != nil {
			slog.Error("Failed to store blob", slog.String("blob_name", blobName), slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errors.New("failed to store media")))
			return
		}

		item := types.MediaItem{
			ID:          mediaID,
			UserID:      userID,
			FileName:    header.Filename,
			ContentType: contentType,
			SizeBytes:   int64(len(data)),
			BlobName:    blobName,
			UploadedAt:  time.Now().UTC(),
		}

		if err := store.Upsert(r.Context(), item); err != nil {
			slog.Error("Failed to store media record", slog.String("media_id", mediaID), slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errors.New("failed to store media record")))
			return
		}

		slog.Info("Media uploaded", slog.String("media_id", mediaID), slog.String("user_id", userID))

		response.WriteJSON(w, http.StatusCreated, item)
	}
}

// ListUserMedia lists a user's media records
// @Summary List user media
// @Description List all media records for a user, newest first
// @Tags media
// @Produce json
// @Param userId query string true "Owner user ID"
// @Success 200 {array} types.MediaItem "Media records"
// @Failure 400 {object} response.Response "Missing userId"
// @Failure 500 {object} response.Response "Storage failure"
// @Router /getUserMedia [get]
func ListUserMedia(store storage.MediaStore) http.HandlerFunc {
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

		items, err := store.ListByUser(r.Context(), params.UserID)
		if err != nil {
			slog.Error("Failed to list media", slog.String("user_id", params.UserID), slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errors.New("failed to list media")))
			return
		}

		if items == nil {
			items = []types.MediaItem{}
		}

		response.WriteJSON(w, http.StatusOK, items)
	}
}

// Delete deletes a media record and its blob
// @Summary Delete a media file
// @Description Delete the blob first, then the metadata record
// @Tags media
// @Param userId query string true "Owner user ID"
// @Param mediaId query string true "Media ID"
// @Success 204 "Media deleted"
// @Failure 400 {object} response.Response "Missing userId or mediaId"
// @Failure 404 {object} response.Response "Media not found"
// @Failure 500 {object} response.Response "Blob or record delete failure"
// @Router /deleteMedia [delete]
func Delete(store storage.MediaStore, blobs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := DeleteParams{
			UserID:  r.URL.Query().Get("userId"),
			MediaID: r.URL.Query().Get("mediaId"),
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

		item, err := store.Get(r.Context(), params.UserID, params.MediaID)
		if errors.Is(err, storage.ErrNotFound) {
			response.WriteJSON(w, http.StatusNotFound, response.GeneralError(errors.New("media not found")))
			return
		} else if err != nil {
			slog.Error("Failed to read media record", slog.String("media_id", params.MediaID), slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errors.New("failed to read media record")))
			return
		}

		if item.BlobName == "" {
			slog.Error("Media record missing blob name", slog.String("media_id", params.MediaID))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errors.New("media record missing blob name")))
			return
		}

		// Blob delete, then record delete. If the blob delete fails the
		// record is kept so the delete can be retried; if the record delete
		// fails the record is left dangling. Neither case is reconciled.
		if err := blobs.Delete(r.Context(), item.BlobName); err != nil {
			slog.Error("Failed to delete blob", slog.String("blob_name", item.BlobName), slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errors.New("failed to delete media blob")))
			return
		}

		if err := store.Delete(r.Context(), params.UserID, params.MediaID); err != nil {
			slog.Error("Failed to delete media record", slog.String("media_id", params.MediaID), slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errors.New("failed to delete media record")))
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
