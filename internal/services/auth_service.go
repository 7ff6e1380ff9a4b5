// Package services – AuthService
//
// This file implements AuthService: account registration, password login and
// resolution of a bearer header to a stored user. Every resolution failure
// is an unauthorized-kind error carrying one of four fixed messages, so the
// HTTP layer never has to inspect token internals.
package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"gorm.io/gorm"

	"github.com/tbourn/go-imagegen-backend/internal/auth"
	"github.com/tbourn/go-imagegen-backend/internal/domain"
	"github.com/tbourn/go-imagegen-backend/internal/repo"
)

const minPasswordLen = 8

// verifyPassword is swapped in tests.
var verifyPassword = auth.VerifyPassword

// AuthService implements the account use-cases.
type AuthService struct {
	DB     *gorm.DB
	Tokens *auth.TokenIssuer
}

// Session is a user with a freshly issued token.
type Session struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// ResolveUser maps an Authorization header value to its user.
func (s *AuthService) ResolveUser(ctx context.Context, header string) (*domain.User, error) {
	ctx, span := otel.Tracer("services/AuthService").Start(ctx, "ResolveUser")
	defer span.End()

	tok, err := auth.BearerToken(header)
	switch {
	case errors.Is(err, auth.ErrMissingHeader):
		return nil, Unauthorized(MsgTokenMissing, err)
	case err != nil:
		return nil, Unauthorized(MsgTokenFormat, err)
	}

	claims, err := s.Tokens.Parse(tok)
	if err != nil {
		return nil, Unauthorized(MsgTokenInvalid, err)
	}

	u, err := repo.GetUser(ctx, s.DB, claims.UserID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, Unauthorized(MsgUserNotFound, err)
	}
	if err != nil {
		return nil, Internal(err)
	}
	return u, nil
}

// Register creates an account and signs the user in.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*Session, error) {
	ctx, span := otel.Tracer("services/AuthService").Start(ctx, "Register")
	defer span.End()

	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || email == "" || password == "" {
		return nil, ErrCredentials
	}
	if n := utf8.RuneCountInString(username); n < 3 || n > 80 {
		return nil, ErrInvalidUsername
	}
	if a, err := mail.ParseAddress(email); err != nil || a.Address != email || len(email) > 120 {
		return nil, ErrInvalidEmail
	}
	if len(password) < minPasswordLen {
		return nil, ErrWeakPassword
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, Internal(err)
	}
	u := &domain.User{Username: username, Email: email, PasswordHash: hash}
	if err := repo.CreateUser(ctx, s.DB, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, Internal(err)
	}
	return s.session(u)
}

// Login checks credentials; ident may be a username or an email.
func (s *AuthService) Login(ctx context.Context, ident, password string) (*Session, error) {
	ctx, span := otel.Tracer("services/AuthService").Start(ctx, "Login")
	defer span.End()

	ident = strings.TrimSpace(ident)
	if ident == "" || password == "" {
		return nil, ErrLoginFields
	}
	u, err := repo.FindUserByLogin(ctx, s.DB, ident)
	if errors.Is(err, repo.ErrNotFound) {
		// Same bcrypt work as a wrong password, so timing does not tell
		// unknown accounts apart.
		verifyPassword(auth.DummyHash(), password)
		return nil, Unauthorized(MsgBadCredentials, nil)
	}
	if err != nil {
		return nil, Internal(err)
	}
	if !verifyPassword(u.PasswordHash, password) {
		return nil, Unauthorized(MsgBadCredentials, nil)
	}
	return s.session(u)
}

func (s *AuthService) session(u *domain.User) (*Session, error) {
	tok, exp, err := s.Tokens.Issue(u.ID, u.IsAdmin)
	if err != nil {
		return nil, Internal(err)
	}
	return &Session{User: u, Token: tok, ExpiresAt: exp}, nil
}
