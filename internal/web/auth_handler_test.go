package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/fjod/evermarket/internal/auth"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memUserRepo struct {
	users map[string]*auth.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*auth.User{}}
}

func (r *memUserRepo) CreateUser(_ context.Context, user *auth.User) error {
	for _, existing := range r.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return auth.ErrUserExists
		}
	}
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) GetUserByID(_ context.Context, id string) (*auth.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	return u, nil
}

func (r *memUserRepo) GetUserByUsername(_ context.Context, username string) (*auth.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, auth.ErrUserNotFound
}

func (r *memUserRepo) GetUserByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, auth.ErrUserNotFound
}

func (r *memUserRepo) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	u, ok := r.users[userID]
	if !ok {
		return auth.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

type memTokenRepo struct {
	tokens []*auth.ResetToken
	nextID int64
}

func (r *memTokenRepo) CreateResetToken(_ context.Context, token *auth.ResetToken) error {
	r.nextID++
	token.ID = r.nextID
	r.tokens = append(r.tokens, token)
	return nil
}

func (r *memTokenRepo) GetActiveResetToken(_ context.Context, tokenHash string) (*auth.ResetToken, error) {
	for _, t := range r.tokens {
		if t.TokenHash == tokenHash && !t.Used {
			return t, nil
		}
	}
	return nil, auth.ErrTokenNotFound
}

func (r *memTokenRepo) MarkResetTokenUsed(_ context.Context, id int64) error {
	for _, t := range r.tokens {
		if t.ID == id {
			t.Used = true
			return nil
		}
	}
	return auth.ErrTokenNotFound
}

type captureNotifier struct {
	username, email, resetURL string
	calls                     int
}

func (n *captureNotifier) SendPasswordReset(_ context.Context, username, email, resetURL string) error {
	n.calls++
	n.username, n.email, n.resetURL = username, email, resetURL
	return nil
}

type authFixture struct {
	handler  *AuthHandler
	users    *memUserRepo
	notifier *captureNotifier
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	users := newMemUserRepo()
	notifier := &captureNotifier{}
	handler := NewAuthHandler(
		users,
		auth.NewSessionManager(client),
		auth.NewResetService(users, &memTokenRepo{}),
		notifier,
		"http://localhost:8080",
	)
	return &authFixture{handler: handler, users: users, notifier: notifier}
}

func jsonRequest(method, target, body string) *http.Request {
	return httptest.NewRequest(method, target, strings.NewReader(body))
}

func TestRegister(t *testing.T) {
	f := newAuthFixture(t)

	w := httptest.NewRecorder()
	f.handler.Register(w, jsonRequest(http.MethodPost, "/api/v1/auth/register",
		`{"username": "alice", "email": "alice@example.com", "password": "s3cret", "role": "buyer"}`))

	require.Equal(t, http.StatusCreated, w.Code)

	var resp UserResponseDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "alice", resp.Username)
	assert.Equal(t, "buyer", resp.Role)
	assert.NotEmpty(t, resp.ID)

	// Registration starts a session.
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)

	// The stored password is hashed.
	user, err := f.users.GetUserByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", user.PasswordHash)
}

func TestRegister_InvalidRole(t *testing.T) {
	f := newAuthFixture(t)

	w := httptest.NewRecorder()
	f.handler.Register(w, jsonRequest(http.MethodPost, "/api/v1/auth/register",
		`{"username": "alice", "email": "a@x.com", "password": "pw", "role": "admin"}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	f := newAuthFixture(t)

	body := `{"username": "alice", "email": "alice@example.com", "password": "pw", "role": "buyer"}`
	w := httptest.NewRecorder()
	f.handler.Register(w, jsonRequest(http.MethodPost, "/api/v1/auth/register", body))
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	f.handler.Register(w, jsonRequest(http.MethodPost, "/api/v1/auth/register", body))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLogin(t *testing.T) {
	f := newAuthFixture(t)

	w := httptest.NewRecorder()
	f.handler.Register(w, jsonRequest(http.MethodPost, "/api/v1/auth/register",
		`{"username": "alice", "email": "alice@example.com", "password": "s3cret", "role": "buyer"}`))
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	f.handler.Login(w, jsonRequest(http.MethodPost, "/api/v1/auth/login",
		`{"username": "alice", "password": "s3cret"}`))
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, w.Result().Cookies(), 1)
}

func TestLogin_BadCredentials(t *testing.T) {
	f := newAuthFixture(t)

	w := httptest.NewRecorder()
	f.handler.Register(w, jsonRequest(http.MethodPost, "/api/v1/auth/register",
		`{"username": "alice", "email": "alice@example.com", "password": "s3cret", "role": "buyer"}`))
	require.Equal(t, http.StatusCreated, w.Code)

	// Wrong password and unknown user look identical.
	w = httptest.NewRecorder()
	f.handler.Login(w, jsonRequest(http.MethodPost, "/api/v1/auth/login",
		`{"username": "alice", "password": "wrong"}`))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	f.handler.Login(w, jsonRequest(http.MethodPost, "/api/v1/auth/login",
		`{"username": "nobody", "password": "s3cret"}`))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestForgotPassword_KnownEmail(t *testing.T) {
	f := newAuthFixture(t)

	w := httptest.NewRecorder()
	f.handler.Register(w, jsonRequest(http.MethodPost, "/api/v1/auth/register",
		`{"username": "alice", "email": "alice@example.com", "password": "pw", "role": "buyer"}`))
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	f.handler.ForgotPassword(w, jsonRequest(http.MethodPost, "/api/v1/auth/forgot_password",
		`{"email": "alice@example.com"}`))

	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, 1, f.notifier.calls)
	assert.Equal(t, "alice", f.notifier.username)
	assert.True(t, strings.HasPrefix(f.notifier.resetURL, "http://localhost:8080/reset_password/"))
}

func TestForgotPassword_UnknownEmailIndistinguishable(t *testing.T) {
	f := newAuthFixture(t)

	w := httptest.NewRecorder()
	f.handler.ForgotPassword(w, jsonRequest(http.MethodPost, "/api/v1/auth/forgot_password",
		`{"email": "ghost@example.com"}`))

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Zero(t, f.notifier.calls)
}

func TestResetPassword_FullFlow(t *testing.T) {
	f := newAuthFixture(t)

	w := httptest.NewRecorder()
	f.handler.Register(w, jsonRequest(http.MethodPost, "/api/v1/auth/register",
		`{"username": "alice", "email": "alice@example.com", "password": "old-pw", "role": "buyer"}`))
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	f.handler.ForgotPassword(w, jsonRequest(http.MethodPost, "/api/v1/auth/forgot_password",
		`{"email": "alice@example.com"}`))
	require.Equal(t, http.StatusAccepted, w.Code)

	token := f.notifier.resetURL[strings.LastIndex(f.notifier.resetURL, "/")+1:]
	require.NotEmpty(t, token)

	r := jsonRequest(http.MethodPost, "/api/v1/auth/reset_password/"+token,
		`{"password": "new-pw", "confirm_password": "new-pw"}`)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("token", token)
	r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))

	w = httptest.NewRecorder()
	f.handler.ResetPassword(w, r)
	require.Equal(t, http.StatusOK, w.Code)

	// The old password no longer works, the new one does.
	w = httptest.NewRecorder()
	f.handler.Login(w, jsonRequest(http.MethodPost, "/api/v1/auth/login",
		`{"username": "alice", "password": "old-pw"}`))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	f.handler.Login(w, jsonRequest(http.MethodPost, "/api/v1/auth/login",
		`{"username": "alice", "password": "new-pw"}`))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestResetPassword_Mismatch(t *testing.T) {
	f := newAuthFixture(t)

	r := jsonRequest(http.MethodPost, "/api/v1/auth/reset_password/tok",
		`{"password": "a", "confirm_password": "b"}`)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("token", "tok")
	r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))

	w := httptest.NewRecorder()
	f.handler.ResetPassword(w, r)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResetPassword_BadToken(t *testing.T) {
	f := newAuthFixture(t)

	r := jsonRequest(http.MethodPost, "/api/v1/auth/reset_password/bogus",
		`{"password": "pw", "confirm_password": "pw"}`)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("token", "bogus")
	r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))

	w := httptest.NewRecorder()
	f.handler.ResetPassword(w, r)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
