package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/postmedialabs/postmedia-service/internal/config"
	"github.com/postmedialabs/postmedia-service/internal/http/handlers/media"
	"github.com/postmedialabs/postmedia-service/internal/http/handlers/posts"
	"github.com/postmedialabs/postmedia-service/internal/http/middleware"
	"github.com/postmedialabs/postmedia-service/internal/services/blob"
	"github.com/postmedialabs/postmedia-service/internal/storage/mongodb"
	"github.com/postmedialabs/postmedia-service/internal/utils/response"
)

func main() {
	// load config
	cfg := config.MustLoad()

	if cfg.Env == "production" {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})))
	}

	// document store setup
	store, err := mongodb.Connect(context.Background(), cfg)
	if err != nil {
		log.Fatal("Failed to initialize document store:", err)
	}
	slog.Info("Connected to MongoDB")

	// blob store setup
	blobs, err := blob.NewService(cfg)
	if err != nil {
		log.Fatal("Failed to initialize blob storage:", err)
	}
	slog.Info("Connected to blob storage")

	// setup server
	router := http.NewServeMux()

	router.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.HandleFunc("POST /uploadMedia", media.Upload(store.Media, blobs))
	router.HandleFunc("GET /getUserMedia", media.ListUserMedia(store.Media))
	router.HandleFunc("DELETE /deleteMedia", media.Delete(store.Media, blobs))
	router.HandleFunc("POST /createPost", posts.Create(store.Posts, store.Media))
	router.HandleFunc("GET /getPosts", posts.ListByUser(store.Posts))
	router.HandleFunc("GET /getAllPosts", posts.ListAll(store.Posts))
	router.HandleFunc("DELETE /deletePost", posts.Delete(store.Posts))

	server := http.Server{
		Addr:    cfg.HTTPServer.Address,
		Handler: middleware.Logging(router),
	}

	log.Println("server started on", cfg.HTTPServer.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %s", err)
		}
	}()

	<-done

	slog.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
	}

	if err := store.Close(ctx); err != nil {
		slog.Error("failed to close document store", slog.String("error", err.Error()))
	}

	slog.Info("Server stopped")
}
