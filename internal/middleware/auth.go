package middleware

import (
	"context"
	"net/http"

	"github.com/mdfaizanahmed786/mongo-backend/pkg/api/response"
	"github.com/mdfaizanahmed786/mongo-backend/pkg/auth"

	"github.com/go-chi/render"
)

type key string

const userKey key = "user"

// TokenHeader carries the signed token on every protected request.
const TokenHeader = "auth-token"

// Auth verifies the token header and injects the user id into the request
// context. Missing and invalid tokens are rejected alike.
func Auth(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(TokenHeader)
			if token == "" {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("Authorization error"))
				return
			}
			userID, err := tokens.Verify(token)
			if err != nil {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("Authorization error"))
				return
			}

			ctx := context.WithValue(r.Context(), userKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func UserID(ctx context.Context) (string, bool) {
	uid, ok := ctx.Value(userKey).(string)
	if !ok || uid == "" {
		return "", false
	}
	return uid, true
}
