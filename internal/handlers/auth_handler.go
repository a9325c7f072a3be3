package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/orange-studies/portal-service/internal/models"
	"github.com/orange-studies/portal-service/internal/services"
	"github.com/orange-studies/portal-service/internal/utils"
)

type AuthHandler struct {
	BaseHandler
	service services.AuthService
}

func NewAuthHandler(service services.AuthService, logger utils.Logger) *AuthHandler {
	return &AuthHandler{BaseHandler: NewBaseHandler(logger), service: service}
}

// Register creates a student account.
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	resp, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if resp.RequiresVerification {
		h.RespondWithSuccess(c, http.StatusCreated, "verification code sent", gin.H{
			"requiresVerification": true,
			"email":                resp.User.Email,
		})
		return
	}
	h.RespondWithSuccess(c, http.StatusCreated, "account created", resp)
}

// Login exchanges credentials for an access token.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "logged in", resp)
}

// VerifyEmail consumes a VERIFY code and activates the account.
// POST /api/v1/auth/verify-email
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
		Code  string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "email and code are required", err)
		return
	}

	resp, err := h.service.VerifyEmail(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "email verified", resp)
}

// ResendOtp reissues a code for an unverified account.
// POST /api/v1/auth/resend-otp
func (h *AuthHandler) ResendOtp(c *gin.Context) {
	var req struct {
		Email   string `json:"email" binding:"required"`
		Purpose string `json:"purpose"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "email is required", err)
		return
	}

	purpose := models.OtpPurpose(req.Purpose)
	if purpose == "" {
		purpose = models.OtpVerify
	}
	if err := h.service.ResendOtp(c.Request.Context(), req.Email, purpose); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "verification code sent", nil)
}

// ForgotPassword always reports success regardless of account existence.
// POST /api/v1/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "email is required", err)
		return
	}

	if err := h.service.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "if the account exists, a reset code has been sent", nil)
}

// ResetPassword consumes a RESET code and stores a new password.
// POST /api/v1/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req services.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "password reset", nil)
}

// GetProfile returns the authenticated user.
// GET /api/v1/me
func (h *AuthHandler) GetProfile(c *gin.Context) {
	user := CurrentUser(c)
	h.RespondWithSuccess(c, http.StatusOK, "", user)
}

// UpdateProfile patches the authenticated user's profile fields.
// PUT /api/v1/me
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	user := CurrentUser(c)

	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	updated, err := h.service.UpdateProfile(c.Request.Context(), user.ID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "profile updated", updated)
}

// ChangePassword rotates the authenticated user's password.
// PUT /api/v1/me/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	user := CurrentUser(c)

	var req struct {
		OldPassword string `json:"oldPassword" binding:"required"`
		NewPassword string `json:"newPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "old and new password are required", err)
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), user.ID, req.OldPassword, req.NewPassword); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "password changed", nil)
}
