package login

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mdfaizanahmed786/mongo-backend/internal/models"
	"github.com/mdfaizanahmed786/mongo-backend/internal/storage"
	"github.com/mdfaizanahmed786/mongo-backend/pkg/api/response"
	"github.com/mdfaizanahmed786/mongo-backend/pkg/auth"
	"github.com/mdfaizanahmed786/mongo-backend/pkg/logger/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type Response struct {
	Success   bool   `json:"success"`
	AuthToken string `json:"authToken"`
}

type UserProvider interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

func New(log *slog.Logger, userProvider UserProvider, tokens *auth.TokenManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.user.login.New"
		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

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

		// Unknown email and wrong password produce the same reply so the
		// endpoint cannot be used to probe which emails are registered.
		user, err := userProvider.GetUserByEmail(r.Context(), req.Email)
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Warn("user not found", slog.String("email", req.Email))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Please enter valid credentials"))
			return
		}
		if err != nil {
			log.Error("failed to get user", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Internal Server Error"))
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			log.Warn("invalid password", slog.String("email", req.Email))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Please enter valid credentials"))
			return
		}

		token, err := tokens.Issue(user.ID.Hex())
		if err != nil {
			log.Error("failed to generate token", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Internal Server Error"))
			return
		}

		log.Info("user successfully logged in", slog.String("email", req.Email))
		render.JSON(w, r, Response{Success: true, AuthToken: token})
	}
}
