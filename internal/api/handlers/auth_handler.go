package handlers

import (
	"errors"
	"net/http"

	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/api/dto"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/api/middleware"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/domain/user"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/pkg/security/auth"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles login and registration
type AuthHandler struct {
	users user.Service
	jwt   *auth.JWTService
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(users user.Service, jwt *auth.JWTService) *AuthHandler {
	return &AuthHandler{users: users, jwt: jwt}
}

// Login authenticates a user and issues a token
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		case errors.Is(err, user.ErrAccountDeactivated):
			c.JSON(http.StatusForbidden, gin.H{"error": "account is deactivated"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to authenticate"})
		}
		return
	}

	token, err := h.jwt.GenerateToken(u.ID, u.Email, string(u.Role), u.Department)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{Token: token, User: toUserResponse(u)})
}

// Register creates a new user account
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := user.Role(req.Role)
	if req.Role != "" && !role.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role value"})
		return
	}

	u, err := h.users.CreateUser(c.Request.Context(), user.CreateUserInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Role:       role,
		Department: req.Department,
		Position:   req.Position,
	})
	if err != nil {
		switch {
		case errors.Is(err, user.ErrEmailExists):
			c.JSON(http.StatusConflict, gin.H{"error": "email is already registered"})
		case errors.Is(err, user.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid registration data"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		}
		return
	}

	c.JSON(http.StatusCreated, toUserResponse(u))
}

// Me returns the authenticated user's profile
func (h *AuthHandler) Me(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	u, err := h.users.GetUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
		return
	}

	c.JSON(http.StatusOK, toUserResponse(u))
}
