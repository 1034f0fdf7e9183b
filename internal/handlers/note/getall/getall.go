package getall

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/mdfaizanahmed786/mongo-backend/internal/models"
	"github.com/mdfaizanahmed786/mongo-backend/pkg/api/response"
	"github.com/mdfaizanahmed786/mongo-backend/pkg/logger/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"go.mongodb.org/mongo-driver/bson/primitive"

	JWTMiddleware "github.com/mdfaizanahmed786/mongo-backend/internal/middleware"
)

type AllNotesGetter interface {
	GetAllNotes(ctx context.Context, userID primitive.ObjectID) ([]models.Note, error)
}

// New lists the authenticated user's notes. No notes is a successful empty
// array, not an error.
func New(log *slog.Logger, allNotesGetter AllNotesGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.note.getall.New"
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

		notes, err := allNotesGetter.GetAllNotes(r.Context(), userID)
		if err != nil {
			log.Error("failed to get notes", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Internal Server Error"))
			return
		}
		if notes == nil {
			notes = []models.Note{}
		}

		log.Info("notes delivered", slog.Int("count", len(notes)))
		render.JSON(w, r, notes)
	}
}
