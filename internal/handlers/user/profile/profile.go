package profile

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

type Response struct {
	Success bool         `json:"success"`
	User    *models.User `json:"user"`
}

type UserGetter interface {
	GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// New returns the authenticated user's record. The password hash is
// projected out by the store and hidden from JSON either way.
func New(log *slog.Logger, userGetter UserGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.user.profile.New"
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

		user, err := userGetter.GetUser(r.Context(), userID)
		if err != nil {
			log.Error("failed to get user", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Internal Server Error"))
			return
		}

		log.Info("user profile delivered", slog.String("user_id", uid))
		render.JSON(w, r, Response{Success: true, User: user})
	}
}
