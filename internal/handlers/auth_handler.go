package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"workflow-board-api/internal/apperr"
	"workflow-board-api/internal/auth"
	"workflow-board-api/internal/models"
)

// SignupRequest represents the signup request payload
type SignupRequest struct {
	Name     string          `json:"name" binding:"required"`
	Email    string          `json:"email" binding:"required,email"`
	Password string          `json:"password" binding:"required,min=8"`
	Role     models.UserRole `json:"role"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents the signup/login response
type AuthResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Signup handles POST /api/auth/signup
func (a *API) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.respondError(c, apperr.InvalidArgument("%s", err.Error()))
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleMember
	}
	if role != models.RoleOwner && role != models.RoleMember {
		a.respondError(c, apperr.InvalidArgument("unknown role %q", role))
		return
	}

	if _, err := a.store.GetUserByEmail(req.Email); err == nil {
		a.respondError(c, apperr.InvalidArgument("email already registered"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		a.respondError(c, apperr.Unavailable(err, "failed to hash password"))
		return
	}

	user := models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Role:     role,
	}
	if err := a.store.CreateUser(&user); err != nil {
		a.respondError(c, err)
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		a.respondError(c, apperr.Unavailable(err, "failed to generate token"))
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{Token: token, User: user})
}

// Login handles POST /api/auth/login
func (a *API) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.respondError(c, apperr.InvalidArgument("%s", err.Error()))
		return
	}

	user, err := a.store.GetUserByEmail(req.Email)
	if err != nil {
		// Do not reveal whether the email exists
		c.JSON(http.StatusUnauthorized, gin.H{"error": errorBody{Code: "UNAUTHORIZED", Message: "invalid credentials"}})
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errorBody{Code: "UNAUTHORIZED", Message: "invalid credentials"}})
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		a.respondError(c, apperr.Unavailable(err, "failed to generate token"))
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Token: token, User: *user})
}

// ListUsers handles GET /api/users (protected); used by assignee pickers.
func (a *API) ListUsers(c *gin.Context) {
	users, err := a.store.ListUsers()
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "count": len(users)})
}
