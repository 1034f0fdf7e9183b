package delete

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mdfaizanahmed786/mongo-backend/internal/models"
	"github.com/mdfaizanahmed786/mongo-backend/internal/storage"
	"github.com/mdfaizanahmed786/mongo-backend/pkg/api/response"
	"github.com/mdfaizanahmed786/mongo-backend/pkg/logger/sl"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"go.mongodb.org/mongo-driver/bson/primitive"

	JWTMiddleware "github.com/mdfaizanahmed786/mongo-backend/internal/middleware"
)

type Response struct {
	Success string `json:"Success"`
}

type NoteDeleter interface {
	GetNote(ctx context.Context, id primitive.ObjectID) (*models.Note, error)
	DeleteNote(ctx context.Context, id primitive.ObjectID) error
}

func New(log *slog.Logger, noteDeleter NoteDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.note.delete.New"
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

		noteID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
		if err != nil {
			log.Info("invalid note id", sl.Err(err))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("Not found"))
			return
		}

		note, err := noteDeleter.GetNote(r.Context(), noteID)
		if errors.Is(err, storage.ErrNoteNotFound) {
			log.Info("note not found", slog.String("note_id", noteID.Hex()))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("Not found"))
			return
		}
		if err != nil {
			log.Error("failed to get note", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Internal Server Error"))
			return
		}
		if note.User.Hex() != uid {
			log.Warn("forbidden delete attempt",
				slog.String("note_id", noteID.Hex()),
				slog.String("user_id", uid),
			)
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("Not Allowed"))
			return
		}

		if err := noteDeleter.DeleteNote(r.Context(), noteID); err != nil {
			if errors.Is(err, storage.ErrNoteNotFound) {
				log.Info("note not found", slog.String("note_id", noteID.Hex()))
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("Not found"))
				return
			}
			log.Error("failed to delete note", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Internal Server Error"))
			return
		}

		log.Info("note successfully deleted", slog.String("note_id", noteID.Hex()))
		render.JSON(w, r, Response{Success: "Notes have been deleted"})
	}
}
