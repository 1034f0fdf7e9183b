package save

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/mdfaizanahmed786/mongo-backend/internal/models"
	"github.com/mdfaizanahmed786/mongo-backend/pkg/api/response"
	"github.com/mdfaizanahmed786/mongo-backend/pkg/logger/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	JWTMiddleware "github.com/mdfaizanahmed786/mongo-backend/internal/middleware"
)

type Request struct {
	Title       string `json:"title" validate:"required,min=3"`
	Description string `json:"description" validate:"required,min=4"`
}

type NoteSaver interface {
	SaveNote(ctx context.Context, note models.Note) (*models.Note, error)
}

func New(log *slog.Logger, noteSaver NoteSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.note.save.New"
		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		uid, ok := JWTMiddleware.UserID(r.Context())
		if !ok {
			log.Error("unauthorized: no user id in context")
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("Authorization error"))
			return
		}
		userID, err := primitive.ObjectIDFromHex(uid)
		if err != nil {
			log.Error("invalid user id in token", sl.Err(err))
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("Authorization error"))
			return
		}

		var req Request
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}
		if err := validator.New().Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)
			log.Error("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		note, err := noteSaver.SaveNote(r.Context(), models.Note{
			User:        userID,
			Title:       req.Title,
			Description: req.Description,
			CreatedAt:   time.Now().UTC(),
		})
		if err != nil {
			log.Error("failed to create note", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Internal Server Error"))
			return
		}

		log.Info("note successfully created", slog.String("title", req.Title))
		render.JSON(w, r, note)
	}
}
