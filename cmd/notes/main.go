package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/mdfaizanahmed786/mongo-backend/internal/config"
	"github.com/mdfaizanahmed786/mongo-backend/internal/handlers/note/delete"
	"github.com/mdfaizanahmed786/mongo-backend/internal/handlers/note/getall"
	noteSave "github.com/mdfaizanahmed786/mongo-backend/internal/handlers/note/save"
	"github.com/mdfaizanahmed786/mongo-backend/internal/handlers/note/update"
	"github.com/mdfaizanahmed786/mongo-backend/internal/handlers/user/login"
	"github.com/mdfaizanahmed786/mongo-backend/internal/handlers/user/profile"
	"github.com/mdfaizanahmed786/mongo-backend/internal/handlers/user/register"
	"github.com/mdfaizanahmed786/mongo-backend/internal/storage/mongodb"
	"github.com/mdfaizanahmed786/mongo-backend/pkg/auth"
	"github.com/mdfaizanahmed786/mongo-backend/pkg/logger/handlers/slogpretty"
	"github.com/mdfaizanahmed786/mongo-backend/pkg/logger/sl"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	JWTMiddleware "github.com/mdfaizanahmed786/mongo-backend/internal/middleware"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	cfg := config.MustLoad()
	log := setupLogger(cfg.Env)

	log.Info("starting notes service", slog.String("env", cfg.Env))
	log.Debug("debug log enabled")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	storage, err := mongodb.New(ctx, cfg.StoragePath)
	if err != nil {
		log.Error("failed to init storage", sl.Err(err))
		os.Exit(1)
	}
	tokens := auth.NewTokenManager(cfg.JWTSecret)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"success": "success"})
	})

	router.Route("/api/auth", func(r chi.Router) {
		r.Post("/createUser", register.New(log, storage, tokens))
		r.Post("/login", login.New(log, storage, tokens))
		r.With(JWTMiddleware.Auth(tokens)).Post("/getUser", profile.New(log, storage))
	})

	router.Route("/api/notes", func(r chi.Router) {
		r.Use(JWTMiddleware.Auth(tokens))
		r.Post("/createNotes", noteSave.New(log, storage))
		r.Get("/getNotes", getall.New(log, storage))
		r.Put("/updateNotes/{id}", update.New(log, storage))
		r.Delete("/deleteNotes/{id}", delete.New(log, storage))
	})

	log.Info("starting server", slog.String("address", cfg.Address))
	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}
	if err := srv.ListenAndServe(); err != nil {
		log.Error("failed to start server", sl.Err(err))
	}
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger
	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}
	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}
	handler := opts.NewPrettyHandler(os.Stdout)
	return slog.New(handler)
}
