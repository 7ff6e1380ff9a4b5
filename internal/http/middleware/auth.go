// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements bearer authentication. Authenticate resolves the
// Authorization header to a stored user and stores it in the Gin context
// under "user" (and its id, as a string, under "userID" for the logger and
// the rate limiter).
package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-imagegen-backend/internal/domain"
	"github.com/tbourn/go-imagegen-backend/internal/services"
)

const (
	userKey   = "user"
	userIDKey = "userID"
)

// UserResolver maps an Authorization header value to a user.
// services.AuthService satisfies it.
type UserResolver interface {
	ResolveUser(ctx context.Context, header string) (*domain.User, error)
}

// Authenticate returns a middleware resolving the bearer token.
//
// With required set, a request without a usable token is rejected with 401.
// Otherwise an absent header lets the request through anonymously, but a
// header that is present and invalid is still rejected: a client that sent
// credentials should learn they are wrong.
func Authenticate(res UserResolver, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" && !required {
			c.Next()
			return
		}

		u, err := res.ResolveUser(c.Request.Context(), header)
		if err != nil {
			if services.KindOf(err) == services.KindUnauthorized {
				abortJSON(c, http.StatusUnauthorized, "unauthorized", services.MessageOf(err))
				return
			}
			LoggerFrom(c).Error().Err(err).Msg("resolve user")
			abortJSON(c, http.StatusInternalServerError, "internal_error", services.MsgInternal)
			return
		}

		c.Set(userKey, u)
		c.Set(userIDKey, strconv.FormatUint(uint64(u.ID), 10))
		c.Next()
	}
}

// UserFrom returns the authenticated user, or nil for anonymous requests.
func UserFrom(c *gin.Context) *domain.User {
	if v, ok := c.Get(userKey); ok {
		if u, ok := v.(*domain.User); ok {
			return u
		}
	}
	return nil
}

// OwnerID returns a pointer to the authenticated user's id, or nil.
func OwnerID(c *gin.Context) *uint {
	if u := UserFrom(c); u != nil {
		id := u.ID
		return &id
	}
	return nil
}
