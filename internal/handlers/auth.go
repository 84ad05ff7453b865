package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/ludicboard/ludicboard-api/internal/constants"
	"github.com/ludicboard/ludicboard-api/internal/dto"
	apierrors "github.com/ludicboard/ludicboard-api/internal/errors"
	"github.com/ludicboard/ludicboard-api/internal/middleware"
	"github.com/ludicboard/ludicboard-api/internal/models"
	"github.com/ludicboard/ludicboard-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register creates an account and returns it with a token.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, token, err := h.authService.Register(c.Request.Context(), services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, authResponse(user, token))
}

// Login authenticates a user and stores the token in the session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	if !saveSessionToken(c, token) {
		return
	}
	c.JSON(http.StatusOK, authResponse(user, token))
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		apierrors.Respond(c, apierrors.Internal(err))
		return
	}

	c.JSON(http.StatusOK, message("Logged out successfully"))
}

// Me returns the user loaded by RequireAuth.
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		apierrors.Respond(c, apierrors.Unauthorized(""))
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, token, err := h.authService.UpdateProfile(c.Request.Context(), userID, services.UpdateProfileInput{
		Username:          req.Username,
		ProfilePictureURL: req.ProfilePictureURL,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	if !saveSessionToken(c, token) {
		return
	}
	c.JSON(http.StatusOK, authResponse(user, token))
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	token, err := h.authService.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	if !saveSessionToken(c, token) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated", "token": token})
}

func saveSessionToken(c *gin.Context, token string) bool {
	session := sessions.Default(c)
	session.Set(constants.SessionKeyToken, token)
	if err := session.Save(); err != nil {
		apierrors.Respond(c, apierrors.Internal(err))
		return false
	}
	return true
}

func authResponse(user *models.User, token string) dto.AuthResponse {
	return dto.AuthResponse{UserDTO: dto.ToUserDTO(*user), Token: token}
}
