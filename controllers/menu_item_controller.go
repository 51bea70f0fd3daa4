package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/taskman-app/taskman-api/middleware"
	"github.com/taskman-app/taskman-api/models"
	"github.com/taskman-app/taskman-api/services"
)

// MenuItemController manages the menu: items, images, comments and ratings.
type MenuItemController struct {
	db     *gorm.DB
	images services.ImageService
}

// NewMenuItemController creates a menu item controller.
func NewMenuItemController(db *gorm.DB, images services.ImageService) *MenuItemController {
	return &MenuItemController{db: db, images: images}
}

// CreateMenuItemRequest represents the request body for creating a menu item
type CreateMenuItemRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price" binding:"gte=0"`
	Type        string   `json:"type" binding:"required,oneof=food drink"`
	Categories  []string `json:"categories"`
}

// UpdateMenuItemRequest represents the request body for patching a menu item
type UpdateMenuItemRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Price       *float64  `json:"price" binding:"omitempty,gte=0"`
	Type        *string   `json:"type" binding:"omitempty,oneof=food drink"`
	Categories  *[]string `json:"categories"`
}

// CommentRequest represents the request body for commenting on a menu item
type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// RatingRequest represents the request body for rating a menu item
type RatingRequest struct {
	Value int `json:"value" binding:"required,gte=1,lte=5"`
}

// ListMenuItems handles GET /api/v1/menu-items - lists the menu, optionally
// filtered by type
func (mc *MenuItemController) ListMenuItems(c *gin.Context) {
	query := mc.db.Model(&models.MenuItem{})
	if itemType := c.Query("type"); itemType != "" {
		query = query.Where("type = ?", itemType)
	}

	items := []models.MenuItem{}
	if err := query.Order("name ASC").Find(&items).Error; err != nil {
		respondError(c, &services.StoreError{Op: "list menu items", Err: err})
		return
	}

	for i := range items {
		mc.resolveImageURL(&items[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"results": items},
	})
}

// GetMenuItem handles GET /api/v1/menu-items/:id
func (mc *MenuItemController) GetMenuItem(c *gin.Context) {
	item, ok := mc.findMenuItem(c)
	if !ok {
		return
	}

	mc.resolveImageURL(item)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    item,
	})
}

// CreateMenuItem handles POST /api/v1/menu-items - adds a menu item (admin)
func (mc *MenuItemController) CreateMenuItem(c *gin.Context) {
	var req CreateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	item := models.MenuItem{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Type:        req.Type,
		Categories:  req.Categories,
		Comments:    []models.MenuItemComment{},
		Ratings:     []models.MenuItemRating{},
	}
	if item.Categories == nil {
		item.Categories = []string{}
	}

	if err := mc.db.Create(&item).Error; err != nil {
		respondError(c, &services.StoreError{Op: "create menu item", Err: err})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    item,
	})
}

// UpdateMenuItem handles PATCH /api/v1/menu-items/:id - patches item
// attributes (admin)
func (mc *MenuItemController) UpdateMenuItem(c *gin.Context) {
	var req UpdateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Price != nil {
		fields["price"] = *req.Price
	}
	if req.Type != nil {
		fields["type"] = *req.Type
	}
	if req.Categories != nil {
		fields["categories"] = *req.Categories
	}

	if len(fields) > 0 {
		result := mc.db.Model(&models.MenuItem{}).Where("id = ?", c.Param("id")).Updates(fields)
		if result.Error != nil {
			respondError(c, &services.StoreError{Op: "update menu item", Err: result.Error})
			return
		}
		if result.RowsAffected == 0 {
			respondError(c, &services.NotFoundError{Resource: "Menu item"})
			return
		}
	}

	item, ok := mc.findMenuItem(c)
	if !ok {
		return
	}
	mc.resolveImageURL(item)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    item,
	})
}

// UploadMenuItemImage handles POST /api/v1/menu-items/:id/image (admin)
func (mc *MenuItemController) UploadMenuItemImage(c *gin.Context) {
	if mc.images == nil {
		respondErrorEnvelope(c, http.StatusServiceUnavailable, "UPLOADS_DISABLED", "Image uploads are not configured")
		return
	}

	item, ok := mc.findMenuItem(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		respondErrorEnvelope(c, http.StatusBadRequest, "INVALID_REQUEST", "An image file is required")
		return
	}

	key, err := mc.images.UploadImage(fileHeader, services.MenuItemImagePrefix)
	if err != nil {
		respondError(c, err)
		return
	}

	oldKey := item.ImageS3Key
	if err := mc.db.Model(item).Update("image_s3_key", key).Error; err != nil {
		respondError(c, &services.StoreError{Op: "update menu item", Err: err})
		return
	}
	if oldKey != nil {
		// Old image is replaced; deletion failure only leaks a file.
		if err := mc.images.DeleteImage(*oldKey); err != nil {
			respondError(c, err)
			return
		}
	}

	item.ImageS3Key = &key
	mc.resolveImageURL(item)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    item,
	})
}

// DeleteMenuItem handles DELETE /api/v1/menu-items/:id (admin)
func (mc *MenuItemController) DeleteMenuItem(c *gin.Context) {
	item, ok := mc.findMenuItem(c)
	if !ok {
		return
	}

	if err := mc.db.Delete(item).Error; err != nil {
		respondError(c, &services.StoreError{Op: "delete menu item", Err: err})
		return
	}
	if mc.images != nil && item.ImageS3Key != nil {
		if err := mc.images.DeleteImage(*item.ImageS3Key); err != nil {
			respondError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Menu item deleted.",
	})
}

// AddComment handles POST /api/v1/menu-items/:id/comments
func (mc *MenuItemController) AddComment(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	item, ok := mc.findMenuItem(c)
	if !ok {
		return
	}

	comment := models.MenuItemComment{
		ID:         uuid.NewString(),
		MenuItemID: item.ID,
		Content:    req.Content,
		CreatorID:  userID,
		CreatedAt:  time.Now(),
	}
	item.Comments = append(item.Comments, comment)

	if err := mc.db.Model(item).Update("comments", item.Comments).Error; err != nil {
		respondError(c, &services.StoreError{Op: "update menu item", Err: err})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    comment,
	})
}

// RateMenuItem handles POST /api/v1/menu-items/:id/ratings. A creator's
// second rating replaces their first instead of appending.
func (mc *MenuItemController) RateMenuItem(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	var req RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	item, ok := mc.findMenuItem(c)
	if !ok {
		return
	}

	var rating *models.MenuItemRating
	for i := range item.Ratings {
		if item.Ratings[i].CreatorID == userID {
			item.Ratings[i].Value = req.Value
			rating = &item.Ratings[i]
			break
		}
	}
	if rating == nil {
		item.Ratings = append(item.Ratings, models.MenuItemRating{
			ID:         uuid.NewString(),
			MenuItemID: item.ID,
			Value:      req.Value,
			CreatorID:  userID,
			CreatedAt:  time.Now(),
		})
		rating = &item.Ratings[len(item.Ratings)-1]
	}

	if err := mc.db.Model(item).Update("ratings", item.Ratings).Error; err != nil {
		respondError(c, &services.StoreError{Op: "update menu item", Err: err})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    rating,
	})
}

func (mc *MenuItemController) findMenuItem(c *gin.Context) (*models.MenuItem, bool) {
	var item models.MenuItem
	if err := mc.db.Where("id = ?", c.Param("id")).First(&item).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, &services.NotFoundError{Resource: "Menu item"})
		} else {
			respondError(c, &services.StoreError{Op: "find menu item", Err: err})
		}
		return nil, false
	}
	return &item, true
}

func (mc *MenuItemController) resolveImageURL(item *models.MenuItem) {
	if mc.images == nil || item.ImageS3Key == nil {
		return
	}
	if url, err := mc.images.GetImageURL(*item.ImageS3Key); err == nil && url != "" {
		item.ImageURL = &url
	}
}
