// Account HTTP handlers.
//
//   - POST /auth/register
//   - POST /auth/login
//   - GET  /auth/me
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-imagegen-backend/internal/domain"
	"github.com/tbourn/go-imagegen-backend/internal/http/middleware"
	"github.com/tbourn/go-imagegen-backend/internal/services"
)

// RegisterRequest is the payload of /auth/register.
type RegisterRequest struct {
	Username string `json:"username" example:"alice"`
	Email    string `json:"email" example:"alice@example.com"`
	Password string `json:"password" example:"correct horse battery"`
}

// LoginRequest is the payload of /auth/login. Username may also hold an email.
type LoginRequest struct {
	Username string `json:"username" example:"alice"`
	Email    string `json:"email" example:"alice@example.com"`
	Password string `json:"password" example:"correct horse battery"`
}

// SessionResponse carries a freshly issued bearer token.
type SessionResponse struct {
	Success   bool         `json:"success" example:"true"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *domain.User `json:"user"`
}

// MeResponse describes the authenticated user.
type MeResponse struct {
	Success bool         `json:"success" example:"true"`
	User    *domain.User `json:"user"`
}

func sessionResponse(s *services.Session) SessionResponse {
	return SessionResponse{Success: true, Token: s.Token, ExpiresAt: s.ExpiresAt.UTC(), User: s.User}
}

// Register godoc
// @ID          register
// @Summary     Create an account
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.RegisterRequest  true  "Account details"
// @Success     201   {object}  handlers.SessionResponse
// @Failure     400   {object}  handlers.ErrorResponse  "Validation error"
// @Failure     409   {object}  handlers.ErrorResponse  "Username or email already registered"
// @Failure     500   {object}  handlers.ErrorResponse  "Internal error"
// @Router      /auth/register [post]
func (h *Handlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBind(c, err, msgInvalidJSON)
		return
	}
	s, err := h.auth.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusCreated, sessionResponse(s))
}

// Login godoc
// @ID          login
// @Summary     Sign in with username (or email) and password
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.LoginRequest  true  "Credentials"
// @Success     200   {object}  handlers.SessionResponse
// @Failure     400   {object}  handlers.ErrorResponse  "Validation error"
// @Failure     401   {object}  handlers.ErrorResponse  "Invalid username or password"
// @Failure     500   {object}  handlers.ErrorResponse  "Internal error"
// @Router      /auth/login [post]
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBind(c, err, msgInvalidJSON)
		return
	}
	ident := req.Username
	if ident == "" {
		ident = req.Email
	}
	s, err := h.auth.Login(c.Request.Context(), ident, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, sessionResponse(s))
}

// Me godoc
// @ID          me
// @Summary     Describe the authenticated user
// @Tags        Auth
// @Produce     json
// @Security    BearerAuth
// @Success     200  {object}  handlers.MeResponse
// @Failure     401  {object}  handlers.ErrorResponse  "Token missing or invalid"
// @Router      /auth/me [get]
func (h *Handlers) Me(c *gin.Context) {
	u := middleware.UserFrom(c)
	if u == nil {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, services.MsgTokenMissing, nil)
		return
	}
	ok(c, http.StatusOK, MeResponse{Success: true, User: u})
}
