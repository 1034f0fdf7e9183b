package profile

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mdfaizanahmed786/mongo-backend/internal/models"
	"github.com/mdfaizanahmed786/mongo-backend/internal/storage"
	"github.com/mdfaizanahmed786/mongo-backend/pkg/auth"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	JWTMiddleware "github.com/mdfaizanahmed786/mongo-backend/internal/middleware"
)

type fakeUsers struct {
	byID   map[primitive.ObjectID]models.User
	getErr error
}

var _ UserGetter = (*fakeUsers)(nil)

func (f *fakeUsers) GetUser(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	u.Password = "" // the store projects the hash out
	return &u, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func doGetUser(t *testing.T, users *fakeUsers, tokens *auth.TokenManager, token string) *httptest.ResponseRecorder {
	t.Helper()
	gated := JWTMiddleware.Auth(tokens)(New(discardLogger(), users))
	req := httptest.NewRequest(http.MethodPost, "/api/auth/getUser", nil)
	if token != "" {
		req.Header.Set(JWTMiddleware.TokenHeader, token)
	}
	rr := httptest.NewRecorder()
	gated.ServeHTTP(rr, req)
	return rr
}

func TestProfile_Success(t *testing.T) {
	user := models.User{
		ID:       primitive.NewObjectID(),
		Name:     "A",
		Age:      30,
		Email:    "a@x.com",
		Password: "hashed",
	}
	users := &fakeUsers{byID: map[primitive.ObjectID]models.User{user.ID: user}}
	tokens := auth.NewTokenManager("test-secret")

	token, err := tokens.Issue(user.ID.Hex())
	require.NoError(t, err)

	rr := doGetUser(t, users, tokens, token)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.NotNil(t, resp.User)
	require.Equal(t, "a@x.com", resp.User.Email)
	require.Equal(t, user.ID, resp.User.ID)

	require.NotContains(t, rr.Body.String(), "password")
	require.NotContains(t, rr.Body.String(), "hashed")
}

func TestProfile_NoToken(t *testing.T) {
	users := &fakeUsers{}
	tokens := auth.NewTokenManager("test-secret")

	rr := doGetUser(t, users, tokens, "")
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestProfile_StoreFailure(t *testing.T) {
	users := &fakeUsers{getErr: errors.New("connection reset")}
	tokens := auth.NewTokenManager("test-secret")

	token, err := tokens.Issue(primitive.NewObjectID().Hex())
	require.NoError(t, err)

	rr := doGetUser(t, users, tokens, token)
	require.Equal(t, http.StatusInternalServerError, rr.Code)
}
