package api

import (
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"chat-backend/internal/auth"
	"chat-backend/internal/database"
	"chat-backend/pkg/api"
)

type AuthService struct {
	db      *gorm.DB
	tokens  *auth.TokenService
	revoker auth.Revoker
}

func NewAuthService(db *gorm.DB, tokens *auth.TokenService, revoker auth.Revoker) *AuthService {
	return &AuthService{db: db, tokens: tokens, revoker: revoker}
}

// AddPublicRoutes mounts the endpoints reachable without a token.
func (s *AuthService) AddPublicRoutes(r chi.Router) {
	r.Post("/auth/signup", RestHandler(s.Signup))
	r.Post("/auth/signin", RestHandler(s.Signin))
}

// AddRoutes mounts the endpoints that require an authenticated request.
func (s *AuthService) AddRoutes(r chi.Router) {
	r.Post("/auth/signout", RestHandler(s.Signout))
	r.Get("/auth/me", RestHandler(s.Me))
}

func (s *AuthService) Signup(r *http.Request) (any, error) {
	req, err := ParseRequest[api.SignupRequest](r)
	if err != nil {
		return nil, err
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, CodedErrorf(http.StatusUnprocessableEntity, "invalid email address")
	}

	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, CodedError(http.StatusUnprocessableEntity, err)
	}

	// The original password string is hashed, whitespace included; stripping
	// only applies to the length check.
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, CodedError(http.StatusInternalServerError, err)
	}

	user := database.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
	}

	if err := s.db.WithContext(r.Context()).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, CodedErrorf(http.StatusConflict, "an account with this email already exists")
		}
		slog.Error("error creating user", "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error creating account")
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, CodedError(http.StatusInternalServerError, err)
	}

	slog.Info("user signed up", "user_id", user.ID)

	return api.SigninResponse{Token: token, User: convertUser(user)}, nil
}

func (s *AuthService) Signin(r *http.Request) (any, error) {
	req, err := ParseRequest[api.SigninRequest](r)
	if err != nil {
		return nil, err
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))

	var user database.User
	if err := s.db.WithContext(r.Context()).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, CodedErrorf(http.StatusUnauthorized, "invalid email or password")
		}
		slog.Error("error looking up user", "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error signing in")
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, CodedErrorf(http.StatusUnauthorized, "invalid email or password")
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, CodedError(http.StatusInternalServerError, err)
	}

	slog.Info("user signed in", "user_id", user.ID)

	return api.SigninResponse{Token: token, User: convertUser(user)}, nil
}

// Signout revokes the presented token. The token stays on the denylist until
// it would have expired anyway.
func (s *AuthService) Signout(r *http.Request) (any, error) {
	claims, err := s.tokens.Verify(auth.BearerToken(r))
	if err != nil {
		return nil, CodedErrorf(http.StatusUnauthorized, "invalid authorization token")
	}

	if err := s.revoker.Revoke(r.Context(), claims.ID, claims.RevocationTTL()); err != nil {
		slog.Error("error revoking token", "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error signing out")
	}

	return nil, nil
}

func (s *AuthService) Me(r *http.Request) (any, error) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		return nil, CodedErrorf(http.StatusUnauthorized, "missing authenticated user")
	}

	var user database.User
	if err := s.db.WithContext(r.Context()).Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, CodedErrorf(http.StatusNotFound, "user not found")
	}

	return convertUser(user), nil
}
