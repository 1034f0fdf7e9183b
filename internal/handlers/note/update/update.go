package update

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

// Request fields are pointers: only the fields present in the body are
// applied, absent fields stay unchanged.
type Request struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type NoteUpdater interface {
	GetNote(ctx context.Context, id primitive.ObjectID) (*models.Note, error)
	UpdateNote(ctx context.Context, id primitive.ObjectID, title, description *string) (*models.Note, error)
}

func New(log *slog.Logger, noteUpdater NoteUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.note.update.New"
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

		var req Request
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}

		// Ownership is checked before any field is touched.
		note, err := noteUpdater.GetNote(r.Context(), noteID)
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
			log.Warn("forbidden update attempt",
				slog.String("note_id", noteID.Hex()),
				slog.String("user_id", uid),
			)
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("Not Allowed"))
			return
		}

		updated, err := noteUpdater.UpdateNote(r.Context(), noteID, req.Title, req.Description)
		if errors.Is(err, storage.ErrNoteNotFound) {
			log.Info("note not found", slog.String("note_id", noteID.Hex()))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("Not found"))
			return
		}
		if err != nil {
			log.Error("failed to update note", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Internal Server Error"))
			return
		}

		log.Info("note successfully updated", slog.String("note_id", noteID.Hex()))
		render.JSON(w, r, updated)
	}
}
