package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	backend "chat-backend/internal/api"
	"chat-backend/internal/auth"
	"chat-backend/internal/database"
	"chat-backend/internal/inference"
	"chat-backend/internal/messaging"
	"chat-backend/internal/realtime"
	"chat-backend/internal/storage"
	"chat-backend/pkg/api"
)

func createDB(t *testing.T, create ...any) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, database.GetMigrator(db).Migrate())

	for _, c := range create {
		require.NoError(t, db.Create(c).Error)
	}

	return db
}

type testEnv struct {
	db     *gorm.DB
	tokens *auth.TokenService
	queue  *messaging.InMemoryQueue
	hub    *realtime.Hub
	router chi.Router
}

func setupEnv(t *testing.T, gateway inference.Backend) *testEnv {
	t.Helper()

	db := createDB(t)
	tokens := auth.NewTokenService("test-secret", time.Hour)
	revoker := auth.NewMemoryRevoker()
	queue := messaging.NewInMemoryQueue()
	t.Cleanup(queue.Close)

	objects, err := storage.NewLocalObjectStore(t.TempDir())
	require.NoError(t, err)

	hub := realtime.NewHub()
	go hub.Run()
	t.Cleanup(hub.Shutdown)

	authHandler := backend.NewAuthService(db, tokens, revoker)
	chatHandler := backend.NewChatService(db, queue, objects)
	attachmentHandler := backend.NewAttachmentService(chatHandler, objects)
	feedHandler := backend.NewFeedService(chatHandler, hub)
	analysisHandler := backend.NewAnalysisService()

	router := chi.NewRouter()
	authHandler.AddPublicRoutes(router)
	router.Group(func(r chi.Router) {
		r.Use(auth.Middleware(tokens, revoker))
		authHandler.AddRoutes(r)
		chatHandler.AddRoutes(r)
		attachmentHandler.AddRoutes(r)
		feedHandler.AddRoutes(r)
		analysisHandler.AddRoutes(r)
		if gateway != nil {
			backend.NewGatewayService(gateway).AddRoutes(r)
		}
	})

	return &testEnv{db: db, tokens: tokens, queue: queue, hub: hub, router: router}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var value T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &value))
	return value
}

func (e *testEnv) signup(t *testing.T, email string) api.SigninResponse {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/auth/signup", "", api.SignupRequest{Email: email, Password: "secret1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[api.SigninResponse](t, rec)
}

func TestSignupAndSignin(t *testing.T) {
	env := setupEnv(t, nil)

	created := env.signup(t, "user@example.com")
	assert.NotEmpty(t, created.Token)
	assert.Equal(t, "user@example.com", created.User.Email)

	rec := env.do(t, http.MethodPost, "/auth/signin", "", api.SigninRequest{Email: "user@example.com", Password: "secret1"})
	require.Equal(t, http.StatusOK, rec.Code)
	signedIn := decode[api.SigninResponse](t, rec)
	assert.Equal(t, created.User.ID, signedIn.User.ID)

	rec = env.do(t, http.MethodGet, "/auth/me", signedIn.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[api.User](t, rec)
	assert.Equal(t, created.User.ID, me.ID)
}

func TestSignupValidation(t *testing.T) {
	env := setupEnv(t, nil)

	rec := env.do(t, http.MethodPost, "/auth/signup", "", api.SignupRequest{Email: "not-an-email", Password: "secret1"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// Whitespace does not count toward the password minimum.
	rec = env.do(t, http.MethodPost, "/auth/signup", "", api.SignupRequest{Email: "a@example.com", Password: "a b c  "})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = env.do(t, http.MethodPost, "/auth/signup", "", api.SignupRequest{Email: "a@example.com", Password: "abc 123"})
	assert.Equal(t, http.StatusOK, rec.Code)

	// Duplicate email.
	rec = env.do(t, http.MethodPost, "/auth/signup", "", api.SignupRequest{Email: "a@example.com", Password: "abc 123"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSigninRejectsBadCredentials(t *testing.T) {
	env := setupEnv(t, nil)
	env.signup(t, "user@example.com")

	rec := env.do(t, http.MethodPost, "/auth/signin", "", api.SigninRequest{Email: "user@example.com", Password: "wrong-one"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPost, "/auth/signin", "", api.SigninRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSignoutRevokesToken(t *testing.T) {
	env := setupEnv(t, nil)
	session := env.signup(t, "user@example.com")

	rec := env.do(t, http.MethodGet, "/chats", session.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/auth/signout", session.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/chats", session.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequestsWithoutTokenAreRejected(t *testing.T) {
	env := setupEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/chats", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodGet, "/chats", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

type cannedBackend struct {
	response inference.Response
}

func (b *cannedBackend) Reply(ctx context.Context, req inference.Request) (inference.Response, error) {
	return b.response, nil
}

func TestGatewayFunctionSoftFailure(t *testing.T) {
	env := setupEnv(t, &cannedBackend{response: inference.Response{
		Text: "I apologize, but I'm receiving too many requests right now. Please wait a moment and try again.",
		Err:  "Rate limit exceeded. Please try again in a moment.",
	}})
	session := env.signup(t, "user@example.com")

	rec := env.do(t, http.MethodPost, "/functions/aanum", session.Token, api.InvokeGatewayRequest{
		Message: "hello",
		ChatID:  uuid.New(),
	})

	// Exhaustion still answers 200 with a conversational reply.
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[api.InvokeGatewayResponse](t, rec)
	assert.Contains(t, resp.Response, "too many requests")
	assert.Equal(t, "Rate limit exceeded. Please try again in a moment.", resp.Error)
}

func TestGatewayFunctionRejectsEmptyMessage(t *testing.T) {
	env := setupEnv(t, &cannedBackend{response: inference.Response{Text: "ok"}})
	session := env.signup(t, "user@example.com")

	rec := env.do(t, http.MethodPost, "/functions/aanum", session.Token, api.InvokeGatewayRequest{ChatID: uuid.New()})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAnalysisRenderEndpoint(t *testing.T) {
	env := setupEnv(t, nil)
	session := env.signup(t, "user@example.com")

	payload := map[string]any{
		"type": "categorical_analysis",
		"analysis": map[string]any{
			"value_counts": map[string]any{
				"city_counts": map[string]any{"Lahore": 2},
			},
		},
	}
	rec := env.do(t, http.MethodPost, "/analysis/render", session.Token, payload)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[backend.RenderResponse](t, rec)
	assert.Equal(t, "categorical_analysis", resp.Type)
	require.Len(t, resp.Sections, 1)
	assert.Equal(t, "city", resp.Sections[0].Title)

	rec = env.do(t, http.MethodPost, "/analysis/render", session.Token, map[string]any{"type": "bogus"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
