package login

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mdfaizanahmed786/mongo-backend/internal/models"
	"github.com/mdfaizanahmed786/mongo-backend/internal/storage"
	"github.com/mdfaizanahmed786/mongo-backend/pkg/api/response"
	"github.com/mdfaizanahmed786/mongo-backend/pkg/auth"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type fakeUsers struct {
	byEmail map[string]models.User
	getErr  error
}

var _ UserProvider = (*fakeUsers)(nil)

func (f *fakeUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	cpy := u
	return &cpy, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func userWithPassword(t *testing.T, email, password string) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return models.User{
		ID:       primitive.NewObjectID(),
		Name:     "A",
		Age:      30,
		Email:    email,
		Password: string(hash),
	}
}

func doLogin(t *testing.T, users *fakeUsers, tokens *auth.TokenManager, body string) *httptest.ResponseRecorder {
	t.Helper()
	handler := New(discardLogger(), users, tokens)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func TestLogin_Success(t *testing.T) {
	user := userWithPassword(t, "a@x.com", "secret")
	users := &fakeUsers{byEmail: map[string]models.User{user.Email: user}}
	tokens := auth.NewTokenManager("test-secret")

	rr := doLogin(t, users, tokens, `{"email":"a@x.com","password":"secret"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.True(t, resp.Success)

	uid, err := tokens.Verify(resp.AuthToken)
	require.NoError(t, err)
	require.Equal(t, user.ID.Hex(), uid)
}

func TestLogin_UnknownEmailAndWrongPasswordLookAlike(t *testing.T) {
	user := userWithPassword(t, "a@x.com", "secret")
	users := &fakeUsers{byEmail: map[string]models.User{user.Email: user}}
	tokens := auth.NewTokenManager("test-secret")

	unknown := doLogin(t, users, tokens, `{"email":"b@x.com","password":"secret"}`)
	wrongPass := doLogin(t, users, tokens, `{"email":"a@x.com","password":"nope1"}`)

	require.Equal(t, http.StatusBadRequest, unknown.Code)
	require.Equal(t, http.StatusBadRequest, wrongPass.Code)

	var a, b response.Response
	require.NoError(t, json.Unmarshal(unknown.Body.Bytes(), &a))
	require.NoError(t, json.Unmarshal(wrongPass.Body.Bytes(), &b))
	require.Equal(t, "Please enter valid credentials", a.Error)
	require.Equal(t, a.Error, b.Error, "replies must not reveal which emails are registered")
}

func TestLogin_InvalidEmailShape(t *testing.T) {
	users := &fakeUsers{}
	tokens := auth.NewTokenManager("test-secret")

	rr := doLogin(t, users, tokens, `{"email":"not-an-email","password":"secret"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var resp response.Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Errors)
	require.Equal(t, "email", resp.Errors[0].Param)
}

func TestLogin_StoreFailure(t *testing.T) {
	users := &fakeUsers{getErr: errors.New("connection reset")}
	tokens := auth.NewTokenManager("test-secret")

	rr := doLogin(t, users, tokens, `{"email":"a@x.com","password":"secret"}`)
	require.Equal(t, http.StatusInternalServerError, rr.Code)
}
