package api

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"saldoplus/database"
	"saldoplus/middleware"
	"saldoplus/models"
	"saldoplus/service"
)

// CategoryHandler handles the per-user category catalog
type CategoryHandler struct{}

// NewCategoryHandler creates a category handler
func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

// CreateCategoryRequest creation payload
type CreateCategoryRequest struct {
	Name  string `json:"name" binding:"required,max=50" example:"Assinaturas"`
	Icon  string `json:"icon" binding:"omitempty,max=10" example:"📺"`
	Color string `json:"color" binding:"omitempty,max=20" example:"#8b5cf6"`
	Type  string `json:"type" binding:"required,oneof=income expense" example:"expense"`
}

// UpdateCategoryRequest edit payload
type UpdateCategoryRequest struct {
	Name     string `json:"name" binding:"omitempty,max=50"`
	Icon     string `json:"icon" binding:"omitempty,max=10"`
	Color    string `json:"color" binding:"omitempty,max=20"`
	IsActive *bool  `json:"isActive"`
}

// CategoryUsage reports how many transactions reference a category
type CategoryUsage struct {
	CategoryID string `json:"categoryId"`
	Count      int64  `json:"count"`
}

// List returns the user's categories
// @Summary List categories
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param type query string false "filter by type (income or expense)"
// @Success 200 {object} Response{data=[]models.Category} "categories"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	query := database.DB.Where("user_id = ?", userID)
	if t := c.Query("type"); t != "" {
		query = query.Where("type = ?", t)
	}

	var categories []models.Category
	if err := query.Order("name").Find(&categories).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to load categories"))
		return
	}

	Success(c, categories)
}

// Create adds a category
// @Summary Create category
// @Description Adds a category. Names are unique per type within the account, compared case-insensitively.
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCategoryRequest true "category payload"
// @Success 200 {object} Response{data=models.Category} "created"
// @Failure 400 {object} Response "invalid payload or duplicate name"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		BadRequest(c, "name must not be empty")
		return
	}

	var count int64
	database.DB.Model(&models.Category{}).
		Where("user_id = ? AND type = ? AND LOWER(name) = ?", userID, req.Type, strings.ToLower(name)).
		Count(&count)
	if count > 0 {
		BadRequest(c, "a category with this name already exists")
		return
	}

	category := models.Category{
		ID:       uuid.NewString(),
		UserID:   userID,
		Name:     name,
		Icon:     req.Icon,
		Color:    req.Color,
		Type:     req.Type,
		IsActive: true,
	}

	if err := database.DB.Create(&category).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to create category"))
		return
	}

	h.audit(userID, service.ActionCategoryCreate, map[string]any{"name": category.Name})
	SuccessWithMessage(c, "category created", category)
}

// Update edits a category
// @Summary Update category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "category ID"
// @Param request body UpdateCategoryRequest true "fields to update"
// @Success 200 {object} Response{data=models.Category} "updated"
// @Failure 400 {object} Response "invalid payload or duplicate name"
// @Failure 401 {object} Response "unauthorized"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var category models.Category
	if err := database.DB.Where("id = ? AND user_id = ?", c.Param("id"), userID).First(&category).Error; err != nil {
		NotFound(c, "category not found")
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		name := strings.TrimSpace(req.Name)
		if name == "" {
			BadRequest(c, "name must not be empty")
			return
		}
		var count int64
		database.DB.Model(&models.Category{}).
			Where("user_id = ? AND type = ? AND LOWER(name) = ? AND id <> ?",
				userID, category.Type, strings.ToLower(name), category.ID).
			Count(&count)
		if count > 0 {
			BadRequest(c, "a category with this name already exists")
			return
		}
		updates["name"] = name
	}
	if req.Icon != "" {
		updates["icon"] = req.Icon
	}
	if req.Color != "" {
		updates["color"] = req.Color
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&category).Updates(updates).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "failed to update category"))
			return
		}
	}

	database.DB.First(&category, "id = ?", category.ID)
	SuccessWithMessage(c, "category updated", category)
}

// Delete removes a category
// @Summary Delete category
// @Description Removes a category. Transactions referencing it keep the dangling ID; clients render those as uncategorized.
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param id path string true "category ID"
// @Success 200 {object} Response "deleted"
// @Failure 401 {object} Response "unauthorized"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var category models.Category
	if err := database.DB.Where("id = ? AND user_id = ?", c.Param("id"), userID).First(&category).Error; err != nil {
		NotFound(c, "category not found")
		return
	}

	if err := database.DB.Delete(&category).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to delete category"))
		return
	}

	h.audit(userID, service.ActionCategoryDelete, map[string]any{"name": category.Name})
	SuccessWithMessage(c, "category deleted", nil)
}

// Usage reports how many transactions use a category
// @Summary Category usage count
// @Description Advisory count of transactions referencing the category, shown before a deletion.
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param id path string true "category ID"
// @Success 200 {object} Response{data=CategoryUsage} "usage"
// @Failure 401 {object} Response "unauthorized"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/categories/{id}/usage [get]
func (h *CategoryHandler) Usage(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	categoryID := c.Param("id")

	var category models.Category
	if err := database.DB.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		NotFound(c, "category not found")
		return
	}

	var count int64
	if err := database.DB.Model(&models.Transaction{}).
		Where("user_id = ? AND category_id = ?", userID, categoryID).
		Count(&count).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to count transactions"))
		return
	}

	Success(c, CategoryUsage{CategoryID: categoryID, Count: count})
}

// loadUserCategories loads the full category list of one user.
func loadUserCategories(userID uint) ([]models.Category, error) {
	var categories []models.Category
	err := database.DB.Where("user_id = ?", userID).Find(&categories).Error
	return categories, err
}

func (h *CategoryHandler) audit(userID uint, action string, details map[string]any) {
	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		service.RecordAudit(nil, models.LogCategoryData, action, details, models.LogLevelInfo)
		return
	}
	service.RecordAudit(&user, models.LogCategoryData, action, details, models.LogLevelInfo)
}
