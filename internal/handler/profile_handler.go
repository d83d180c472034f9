package handler

import (
	"errors"

	"github.com/budget-buddy/api/internal/middleware"
	"github.com/budget-buddy/api/internal/repository"
	"github.com/budget-buddy/api/internal/service"
	"github.com/budget-buddy/api/pkg/response"
	"github.com/gin-gonic/gin"
)

// ProfileHandler handles profile API requests
type ProfileHandler struct {
	profileService *service.ProfileService
	authService    *service.AuthService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profileService *service.ProfileService, authService *service.AuthService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		authService:    authService,
	}
}

// GetInfo returns the authenticated user's profile
// GET /api/v1/profile/info
func (h *ProfileHandler) GetInfo(c *gin.Context) {
	user, err := h.profileService.GetProfile(middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		response.InternalError(c, "failed to load profile")
		return
	}

	response.Success(c, gin.H{
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"username":   user.Username,
		"email":      user.Email,
		"phone":      user.Phone,
	})
}

// UpdateProfile updates name, email and phone
// PUT /api/v1/profile/update
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req service.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.profileService.UpdateProfile(middleware.GetUserID(c), &req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			response.BadRequest(c, "email already in use")
			return
		}
		if errors.Is(err, repository.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		response.InternalError(c, "failed to update profile")
		return
	}

	response.Success(c, gin.H{
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"username":   user.Username,
		"email":      user.Email,
		"phone":      user.Phone,
	})
}

// ChangePassword replaces the password after verifying the current one
// POST /api/v1/profile/change-password
func (h *ProfileHandler) ChangePassword(c *gin.Context) {
	var req service.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.profileService.ChangePassword(middleware.GetUserID(c), &req); err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.BadRequest(c, "current password is incorrect")
			return
		}
		response.InternalError(c, "failed to change password")
		return
	}

	response.Success(c, gin.H{"message": "password updated successfully"})
}

// DeleteAccount removes the user with their budget and expenses, then
// revokes the presented token.
// DELETE /api/v1/profile/account
func (h *ProfileHandler) DeleteAccount(c *gin.Context) {
	var req struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.profileService.DeleteAccount(middleware.GetUserID(c), req.Password); err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, "incorrect password")
			return
		}
		if errors.Is(err, repository.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		response.InternalError(c, "failed to delete account")
		return
	}

	// The user row is gone; the token must stop working immediately
	// rather than at its natural expiry.
	_ = h.authService.Logout(c.Request.Context(), middleware.GetToken(c))

	response.Success(c, gin.H{"message": "account deleted successfully"})
}

// RegisterRoutes registers profile routes
func (h *ProfileHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	profile := rg.Group("/profile", authMiddleware)
	{
		profile.GET("/info", h.GetInfo)
		profile.PUT("/update", h.UpdateProfile)
		profile.POST("/change-password", h.ChangePassword)
		profile.DELETE("/account", h.DeleteAccount)
	}
}
