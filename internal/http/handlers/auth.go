package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/TC28082003/datanaver/internal/config"
	"github.com/TC28082003/datanaver/internal/domain/user"
	"github.com/TC28082003/datanaver/internal/http/middlewares"
	"github.com/TC28082003/datanaver/internal/repo/postgres"
	"github.com/TC28082003/datanaver/internal/security"
	"github.com/gin-gonic/gin"
)

// Minimum accepted password length at registration.
const minPasswordLen = 6

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByID(ctx context.Context, id int64) (user.User, error)
	CreateWithProfile(ctx context.Context, email, passwordHash string) (user.User, error)
}

type TokenIssuer interface {
	Issue(userID int64, email string) (string, error)
}

type AuthHandler struct {
	users UserStore
	jwt   TokenIssuer
}

func NewAuthHandler(users UserStore, jwt TokenIssuer) *AuthHandler {
	return &AuthHandler{
		users: users,
		jwt:   jwt,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type publicUser struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req credentialsRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(ctx, "Email and password are required.")
		return
	}

	// Validation happens before any store access.
	if req.Email == "" || req.Password == "" {
		RespondBadRequest(ctx, "Email and password are required.")
		return
	}

	if len(req.Password) < minPasswordLen {
		RespondBadRequest(ctx, "Password must be at least 6 characters long.")
		return
	}

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		RespondInternal(ctx, "An internal server error occurred during registration.")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	_, err = h.users.CreateWithProfile(cctx, req.Email, hash)

	if err != nil {
		if errors.Is(err, postgres.ErrEmailTaken) {
			RespondConflict(ctx, "Email address is already registered.")
			return
		}

		RespondInternal(ctx, "An internal server error occurred during registration.")
		return
	}

	RespondMessage(ctx, http.StatusCreated, "User registered successfully. You can now log in.")
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req credentialsRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(ctx, "Email and password are required.")
		return
	}

	if req.Email == "" || req.Password == "" {
		RespondBadRequest(ctx, "Email and password are required.")
		return
	}

	// short timeout for DB lookup
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	foundUser, err := h.users.GetByEmail(cctx, req.Email)
	if err != nil {
		if errors.Is(err, postgres.ErrUserNotFound) {
			// Same body as a wrong password so callers cannot probe which
			// emails are registered.
			RespondUnauthorized(ctx, "Invalid email or password.")
			return
		}

		RespondInternal(ctx, "An internal server error occurred during login.")
		return
	}

	err = security.CheckPassword(foundUser.PasswordHash, req.Password)

	if err != nil {
		RespondUnauthorized(ctx, "Invalid email or password.")
		return
	}

	token, err := h.jwt.Issue(foundUser.ID, foundUser.Email)

	if err != nil {
		RespondInternal(ctx, "An internal server error occurred during login.")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Login successful!",
		"token":   token,
		"user": publicUser{
			ID:    foundUser.ID,
			Email: foundUser.Email,
		},
	})
}

// Status re-fetches the user behind a verified token. A token can outlive
// its user, so a vanished row is a 404, not a valid login.
func (h *AuthHandler) Status(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Authentication token required.")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	foundUser, err := h.users.GetByID(cctx, userID)

	if err != nil {
		if errors.Is(err, postgres.ErrUserNotFound) {
			RespondNotFound(ctx, "User associated with token not found.")
			return
		}

		RespondInternal(ctx, "Internal server error checking authentication status.")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"isLoggedIn": true,
		"user": publicUser{
			ID:    foundUser.ID,
			Email: foundUser.Email,
		},
	})
}
