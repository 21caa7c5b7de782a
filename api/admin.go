package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"saldoplus/database"
	"saldoplus/middleware"
	"saldoplus/models"
	"saldoplus/service"
)

// AdminHandler handles the administration surface
type AdminHandler struct{}

// NewAdminHandler creates an admin handler
func NewAdminHandler() *AdminHandler {
	return &AdminHandler{}
}

// UpdateUserStatusRequest lock/unlock payload
type UpdateUserStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active locked" example:"locked"`
}

// SystemStatistics aggregate platform counters
type SystemStatistics struct {
	Users        int64 `json:"users"`
	ActiveUsers  int64 `json:"active_users"`
	Transactions int64 `json:"transactions"`
	Categories   int64 `json:"categories"`
	AuditLogs    int64 `json:"audit_logs"`
}

// ListUsers returns the user accounts
// @Summary List users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "page number" default(1)
// @Param page_size query int false "page size" default(20)
// @Success 200 {object} Response{data=PageResponse} "users"
// @Failure 401 {object} Response "unauthorized"
// @Failure 403 {object} Response "not an administrator"
// @Router /api/v1/admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, pageSize := pagination(c)

	var total int64
	if err := database.DB.Model(&models.User{}).Count(&total).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to count users"))
		return
	}

	var users []models.User
	if err := database.DB.
		Order("id").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&users).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to load users"))
		return
	}

	Success(c, PageResponse{
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		List:     users,
	})
}

// UpdateUserStatus locks or unlocks an account
// @Summary Lock or unlock user
// @Description Sets an account's status. Administrators cannot lock their own account.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "user ID"
// @Param request body UpdateUserStatusRequest true "new status (active or locked)"
// @Success 200 {object} Response{data=models.User} "updated"
// @Failure 400 {object} Response "invalid payload or self-lock"
// @Failure 401 {object} Response "unauthorized"
// @Failure 403 {object} Response "not an administrator"
// @Failure 404 {object} Response "user not found"
// @Router /api/v1/admin/users/{id}/status [put]
func (h *AdminHandler) UpdateUserStatus(c *gin.Context) {
	adminID := middleware.GetCurrentUserID(c)

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid user ID")
		return
	}

	var req UpdateUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	if uint(targetID) == adminID && req.Status == models.UserStatusLocked {
		BadRequest(c, "you cannot lock your own account")
		return
	}

	var user models.User
	if err := database.DB.First(&user, uint(targetID)).Error; err != nil {
		NotFound(c, "user not found")
		return
	}

	if err := database.DB.Model(&user).Update("status", req.Status).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to update user"))
		return
	}
	user.Status = req.Status

	if req.Status == models.UserStatusLocked {
		var admin models.User
		if err := database.DB.First(&admin, adminID).Error; err == nil {
			service.RecordAudit(&admin, models.LogCategoryAdmin, service.ActionBlockUser,
				map[string]any{"target_username": user.Username, "action": "bloquear"}, models.LogLevelWarn)
		}
	}

	SuccessWithMessage(c, "user status updated", user)
}

// ListLogs returns the audit trail
// @Summary List audit logs
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param category query string false "filter by category (AUTH, DATA, SYSTEM, ADMIN, FINANCE)"
// @Param level query string false "filter by level (INFO, WARN, ERROR, CRITICAL)"
// @Param page query int false "page number" default(1)
// @Param page_size query int false "page size" default(20)
// @Success 200 {object} Response{data=PageResponse} "logs"
// @Failure 401 {object} Response "unauthorized"
// @Failure 403 {object} Response "not an administrator"
// @Router /api/v1/admin/logs [get]
func (h *AdminHandler) ListLogs(c *gin.Context) {
	page, pageSize := pagination(c)

	query := database.DB.Model(&models.AuditLog{})
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if level := c.Query("level"); level != "" {
		query = query.Where("level = ?", level)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to count logs"))
		return
	}

	var logs []models.AuditLog
	if err := query.
		Order("id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&logs).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to load logs"))
		return
	}

	Success(c, PageResponse{
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		List:     logs,
	})
}

// Statistics returns platform-wide counters
// @Summary System statistics
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=SystemStatistics} "counters"
// @Failure 401 {object} Response "unauthorized"
// @Failure 403 {object} Response "not an administrator"
// @Router /api/v1/admin/statistics [get]
func (h *AdminHandler) Statistics(c *gin.Context) {
	var stats SystemStatistics
	database.DB.Model(&models.User{}).Count(&stats.Users)
	database.DB.Model(&models.User{}).Where("status = ?", models.UserStatusActive).Count(&stats.ActiveUsers)
	database.DB.Model(&models.Transaction{}).Count(&stats.Transactions)
	database.DB.Model(&models.Category{}).Count(&stats.Categories)
	database.DB.Model(&models.AuditLog{}).Count(&stats.AuditLogs)

	Success(c, stats)
}

func pagination(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
