package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"saldoplus/config"
	"saldoplus/database"
	"saldoplus/middleware"
	"saldoplus/models"
	"saldoplus/service"
)

// AuthHandler handles registration, login and account settings
type AuthHandler struct {
	cfg *config.Config
}

// NewAuthHandler creates an auth handler
func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

// RegisterRequest registration payload
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50" example:"maria"`
	Password string `json:"password" binding:"required,min=6,max=50" example:"password123"`
	Email    string `json:"email" binding:"omitempty,email" example:"maria@example.com"`
	Name     string `json:"name" binding:"omitempty,max=100" example:"Maria Silva"`
}

// LoginRequest login payload (username or email)
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"maria"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// LoginResponse login reply
type LoginResponse struct {
	Token    string      `json:"token"`
	UserInfo models.User `json:"user_info"`
}

// Register creates a new account
// @Summary Register
// @Description Creates a new user account and seeds its default category set.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "registration payload"
// @Success 200 {object} Response{data=models.User} "created"
// @Failure 400 {object} Response "invalid payload"
// @Failure 500 {object} Response "server error"
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	var existingUser models.User
	if err := database.DB.Where("username = ?", req.Username).First(&existingUser).Error; err == nil {
		BadRequest(c, "username already taken")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		InternalError(c, "failed to hash password")
		return
	}

	user := models.User{
		Username: req.Username,
		Password: string(hashedPassword),
		Email:    req.Email,
		Name:     strings.TrimSpace(req.Name),
		Status:   models.UserStatusActive,
	}

	if err := database.DB.Create(&user).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to create user"))
		return
	}

	// every new account starts with the default category set
	defaults := models.DefaultCategories()
	for i := range defaults {
		defaults[i].ID = uuid.NewString()
		defaults[i].UserID = user.ID
	}
	if err := database.DB.Create(&defaults).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to seed categories"))
		return
	}

	SuccessWithMessage(c, "account created", user)
}

// Login authenticates and issues a JWT
// @Summary Login
// @Description Authenticates by username or email and returns a JWT token.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "credentials"
// @Success 200 {object} Response{data=LoginResponse} "authenticated"
// @Failure 401 {object} Response "bad credentials"
// @Failure 403 {object} Response "account locked"
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	var user models.User
	if err := database.DB.Where("username = ? OR email = ?", req.Username, req.Username).First(&user).Error; err != nil {
		service.RecordAudit(nil, models.LogCategoryAuth, service.ActionLoginFailed,
			map[string]any{"username": req.Username}, models.LogLevelWarn)
		Unauthorized(c, "invalid username or password")
		return
	}

	if user.Status != models.UserStatusActive {
		Error(c, http.StatusForbidden, "account locked, contact the administrator")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		service.RecordAudit(nil, models.LogCategoryAuth, service.ActionLoginFailed,
			map[string]any{"username": req.Username}, models.LogLevelWarn)
		Unauthorized(c, "invalid username or password")
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Username, h.cfg.JWT.ExpireTime)
	if err != nil {
		InternalError(c, "failed to generate token")
		return
	}

	service.RecordAudit(&user, models.LogCategoryAuth, service.ActionLogin, nil, models.LogLevelInfo)

	Success(c, LoginResponse{
		Token:    token,
		UserInfo: user,
	})
}

// GetProfile returns the authenticated user
// @Summary Current user profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=models.User} "profile"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/auth/profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		NotFound(c, "user not found")
		return
	}

	Success(c, user)
}

// ChangePasswordRequest password change payload
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required" example:"oldpassword123"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=50" example:"newpassword123"`
}

// ChangePassword updates the authenticated user's password
// @Summary Change password
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChangePasswordRequest true "password payload"
// @Success 200 {object} Response "updated"
// @Failure 400 {object} Response "invalid payload"
// @Failure 401 {object} Response "wrong current password"
// @Router /api/v1/auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		NotFound(c, "user not found")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		Unauthorized(c, "current password is incorrect")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		InternalError(c, "failed to hash password")
		return
	}

	if err := database.DB.Model(&user).Update("password", string(hashedPassword)).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to update password"))
		return
	}

	SuccessWithMessage(c, "password updated", nil)
}
