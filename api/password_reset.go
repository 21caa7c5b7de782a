package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"saldoplus/config"
	"saldoplus/database"
	"saldoplus/models"
	"saldoplus/service"
)

// PasswordResetHandler handles the token-based password reset flow
type PasswordResetHandler struct {
	cfg          *config.Config
	emailService *service.EmailService
}

// NewPasswordResetHandler creates a password reset handler
func NewPasswordResetHandler(cfg *config.Config) *PasswordResetHandler {
	return &PasswordResetHandler{
		cfg:          cfg,
		emailService: service.NewEmailService(&cfg.Email),
	}
}

const resetTokenTTL = 30 * time.Minute

// RequestResetRequest reset request payload
type RequestResetRequest struct {
	Email string `json:"email" binding:"required,email" example:"maria@example.com"`
}

// ResetPasswordRequest token redemption payload
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=50"`
}

// RequestReset mails a reset link
// @Summary Request password reset
// @Description Mails a single-use reset link. Replies with success whether or not the address is registered, so the endpoint cannot be used to probe accounts.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RequestResetRequest true "account email"
// @Success 200 {object} Response "request accepted"
// @Failure 400 {object} Response "invalid email"
// @Failure 500 {object} Response "mail delivery failed"
// @Router /api/v1/auth/password/request-reset [post]
func (h *PasswordResetHandler) RequestReset(c *gin.Context) {
	var req RequestResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "a valid email address is required")
		return
	}

	// never reveal whether the address exists
	neutralReply := "if this email is registered, a reset link is on its way"

	var user models.User
	if err := database.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		SuccessWithMessage(c, neutralReply, nil)
		return
	}

	var existing models.PasswordReset
	if err := database.DB.
		Where("user_id = ? AND used = ? AND expires_at > ?", user.ID, false, time.Now()).
		First(&existing).Error; err == nil {
		SuccessWithMessage(c, "a reset link was already sent, check your inbox and spam folder", nil)
		return
	}

	token, err := models.GenerateResetToken()
	if err != nil {
		InternalError(c, "failed to generate reset token")
		return
	}

	passwordReset := models.PasswordReset{
		UserID:    user.ID,
		Token:     token,
		Email:     req.Email,
		ExpiresAt: time.Now().Add(resetTokenTTL),
	}
	if err := database.DB.Create(&passwordReset).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to store reset token"))
		return
	}

	resetLink := h.cfg.Server.BaseURL + "/#/reset-password?token=" + token
	if err := h.emailService.SendPasswordResetEmail(req.Email, user.Username, resetLink); err != nil {
		database.DB.Delete(&passwordReset)
		InternalError(c, SafeErrorMessage(err, "failed to send reset email"))
		return
	}

	SuccessWithMessage(c, neutralReply, nil)
}

// VerifyToken checks a reset token
// @Summary Verify reset token
// @Tags auth
// @Produce json
// @Param token query string true "reset token"
// @Success 200 {object} Response "token valid"
// @Failure 400 {object} Response "token invalid, used or expired"
// @Router /api/v1/auth/password/verify-token [get]
func (h *PasswordResetHandler) VerifyToken(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		BadRequest(c, "token is required")
		return
	}

	var passwordReset models.PasswordReset
	if err := database.DB.Where("token = ?", token).First(&passwordReset).Error; err != nil {
		BadRequest(c, "invalid token")
		return
	}

	if !passwordReset.IsValid() {
		message := "token no longer valid"
		if passwordReset.Used {
			message = "token already used"
		} else if passwordReset.IsExpired() {
			message = "token expired, request a new one"
		}
		BadRequest(c, message)
		return
	}

	var user models.User
	database.DB.First(&user, passwordReset.UserID)

	Success(c, gin.H{
		"email":    passwordReset.Email,
		"username": user.Username,
	})
}

// Reset redeems a token and sets a new password
// @Summary Reset password
// @Description Sets a new password using a valid reset token. All outstanding tokens of the account are invalidated afterwards.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ResetPasswordRequest true "token and new password"
// @Success 200 {object} Response "password updated"
// @Failure 400 {object} Response "invalid payload or token"
// @Router /api/v1/auth/password/reset [post]
func (h *PasswordResetHandler) Reset(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	var passwordReset models.PasswordReset
	if err := database.DB.Where("token = ?", req.Token).First(&passwordReset).Error; err != nil {
		BadRequest(c, "invalid token")
		return
	}

	if !passwordReset.IsValid() {
		BadRequest(c, "token expired or already used")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		InternalError(c, "failed to hash password")
		return
	}

	if err := database.DB.Model(&models.User{}).
		Where("id = ?", passwordReset.UserID).
		Update("password", string(hashedPassword)).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to update password"))
		return
	}

	// burn this token and any other outstanding one for the account
	database.DB.Model(&models.PasswordReset{}).
		Where("user_id = ? AND used = ?", passwordReset.UserID, false).
		Update("used", true)

	SuccessWithMessage(c, "password updated, sign in with the new password", nil)
}
