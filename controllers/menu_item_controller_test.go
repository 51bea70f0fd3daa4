package controllers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/taskman-app/taskman-api/middleware"
	"github.com/taskman-app/taskman-api/models"
	"github.com/taskman-app/taskman-api/services"
)

func setupMenuItemRouter(db *gorm.DB, userID, role string, images services.ImageService) *gin.Engine {
	menuItemController := NewMenuItemController(db, images)

	router := newTestRouter()
	group := router.Group("/api/v1/menu-items")
	group.Use(testAuth(userID, role))
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	group.GET("", menuItemController.ListMenuItems)
	group.GET("/:id", menuItemController.GetMenuItem)
	group.POST("", adminOnly, menuItemController.CreateMenuItem)
	group.PATCH("/:id", adminOnly, menuItemController.UpdateMenuItem)
	group.POST("/:id/image", adminOnly, menuItemController.UploadMenuItemImage)
	group.DELETE("/:id", adminOnly, menuItemController.DeleteMenuItem)
	group.POST("/:id/comments", menuItemController.AddComment)
	group.POST("/:id/ratings", menuItemController.RateMenuItem)
	return router
}

func createTestMenuItem(t *testing.T, db *gorm.DB, name, itemType string, price float64) *models.MenuItem {
	t.Helper()
	item := models.MenuItem{
		Name:       name,
		Type:       itemType,
		Price:      price,
		Categories: []string{},
		Comments:   []models.MenuItemComment{},
		Ratings:    []models.MenuItemRating{},
	}
	require.NoError(t, db.Create(&item).Error)
	return &item
}

// performMultipart uploads a single in-memory file under the "image" field.
func performMultipart(t *testing.T, router *gin.Engine, path, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestListMenuItemsEndpoint(t *testing.T) {
	db := setupControllerTestDB(t)
	router := setupMenuItemRouter(db, "guest-1", models.RoleGuest, nil)

	createTestMenuItem(t, db, "Margherita", models.MenuItemTypeFood, 11.50)
	createTestMenuItem(t, db, "Cola", models.MenuItemTypeDrink, 3.50)

	w := performJSON(t, router, http.MethodGet, "/api/v1/menu-items", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	results := parseResponse(t, w)["data"].(map[string]interface{})["results"].([]interface{})
	require.Len(t, results, 2)
	// Sorted by name.
	assert.Equal(t, "Cola", results[0].(map[string]interface{})["name"])

	w = performJSON(t, router, http.MethodGet, "/api/v1/menu-items?type=drink", nil)
	results = parseResponse(t, w)["data"].(map[string]interface{})["results"].([]interface{})
	require.Len(t, results, 1)
	assert.Equal(t, "Cola", results[0].(map[string]interface{})["name"])
}

func TestGetMenuItemEndpoint(t *testing.T) {
	db := setupControllerTestDB(t)
	router := setupMenuItemRouter(db, "guest-1", models.RoleGuest, nil)

	item := createTestMenuItem(t, db, "Margherita", models.MenuItemTypeFood, 11.50)

	w := performJSON(t, router, http.MethodGet, "/api/v1/menu-items/"+item.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := parseResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "Margherita", data["name"])

	w = performJSON(t, router, http.MethodGet, "/api/v1/menu-items/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(parseResponse(t, w)))
}

func TestCreateMenuItemEndpoint(t *testing.T) {
	db := setupControllerTestDB(t)
	router := setupMenuItemRouter(db, "admin-1", models.RoleAdmin, nil)

	w := performJSON(t, router, http.MethodPost, "/api/v1/menu-items", map[string]interface{}{
		"name":       "Tiramisu",
		"price":      6.50,
		"type":       "food",
		"categories": []string{models.CategoryDessert},
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	data := parseResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "Tiramisu", data["name"])
	assert.NotEmpty(t, data["id"])

	w = performJSON(t, router, http.MethodPost, "/api/v1/menu-items", map[string]interface{}{
		"name": "Mystery", "price": 1.00, "type": "snack",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(parseResponse(t, w)))
}

func TestCreateMenuItemRequiresAdmin(t *testing.T) {
	db := setupControllerTestDB(t)
	router := setupMenuItemRouter(db, "guest-1", models.RoleGuest, nil)

	w := performJSON(t, router, http.MethodPost, "/api/v1/menu-items", map[string]interface{}{
		"name": "Tiramisu", "price": 6.50, "type": "food",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", errorCode(parseResponse(t, w)))
}

func TestUpdateMenuItemEndpoint(t *testing.T) {
	db := setupControllerTestDB(t)
	router := setupMenuItemRouter(db, "admin-1", models.RoleAdmin, nil)

	item := createTestMenuItem(t, db, "Margherita", models.MenuItemTypeFood, 11.50)

	w := performJSON(t, router, http.MethodPatch, "/api/v1/menu-items/"+item.ID, map[string]interface{}{
		"price": 12.00,
	})
	assert.Equal(t, http.StatusOK, w.Code)
	data := parseResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, 12.00, data["price"])
	assert.Equal(t, "Margherita", data["name"])

	w = performJSON(t, router, http.MethodPatch, "/api/v1/menu-items/does-not-exist", map[string]interface{}{
		"price": 12.00,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(parseResponse(t, w)))
}

func TestDeleteMenuItemEndpoint(t *testing.T) {
	db := setupControllerTestDB(t)
	images := services.NewMockImageService()
	router := setupMenuItemRouter(db, "admin-1", models.RoleAdmin, images)

	item := createTestMenuItem(t, db, "Margherita", models.MenuItemTypeFood, 11.50)
	key := "menu-items/old.png"
	require.NoError(t, db.Model(item).Update("image_s3_key", key).Error)

	w := performJSON(t, router, http.MethodDelete, "/api/v1/menu-items/"+item.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.MenuItem{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Contains(t, images.DeletedKeys(), key)
}

func TestUploadMenuItemImage(t *testing.T) {
	db := setupControllerTestDB(t)
	images := services.NewMockImageService()
	router := setupMenuItemRouter(db, "admin-1", models.RoleAdmin, images)

	item := createTestMenuItem(t, db, "Margherita", models.MenuItemTypeFood, 11.50)

	w := performMultipart(t, router, "/api/v1/menu-items/"+item.ID+"/image", "pizza.png", []byte("fake png bytes"))
	assert.Equal(t, http.StatusOK, w.Code)
	data := parseResponse(t, w)["data"].(map[string]interface{})
	assert.NotEmpty(t, data["imageUrl"])
	require.Len(t, images.UploadedKeys(), 1)

	var stored models.MenuItem
	require.NoError(t, db.Where("id = ?", item.ID).First(&stored).Error)
	require.NotNil(t, stored.ImageS3Key)
	assert.Equal(t, images.UploadedKeys()[0], *stored.ImageS3Key)
}

func TestUploadMenuItemImageRejectsBadFormat(t *testing.T) {
	db := setupControllerTestDB(t)
	images := services.NewMockImageService()
	router := setupMenuItemRouter(db, "admin-1", models.RoleAdmin, images)

	item := createTestMenuItem(t, db, "Margherita", models.MenuItemTypeFood, 11.50)

	w := performMultipart(t, router, "/api/v1/menu-items/"+item.ID+"/image", "pizza.gif", []byte("gif!"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, images.UploadedKeys())
}

func TestUploadMenuItemImageWithoutStorage(t *testing.T) {
	db := setupControllerTestDB(t)
	router := setupMenuItemRouter(db, "admin-1", models.RoleAdmin, nil)

	item := createTestMenuItem(t, db, "Margherita", models.MenuItemTypeFood, 11.50)

	w := performMultipart(t, router, "/api/v1/menu-items/"+item.ID+"/image", "pizza.png", []byte("fake"))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "UPLOADS_DISABLED", errorCode(parseResponse(t, w)))
}

func TestAddCommentEndpoint(t *testing.T) {
	db := setupControllerTestDB(t)
	router := setupMenuItemRouter(db, "guest-1", models.RoleGuest, nil)

	item := createTestMenuItem(t, db, "Margherita", models.MenuItemTypeFood, 11.50)

	w := performJSON(t, router, http.MethodPost, "/api/v1/menu-items/"+item.ID+"/comments", map[string]interface{}{
		"content": "Delicious!",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	data := parseResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "Delicious!", data["content"])
	assert.Equal(t, "guest-1", data["creatorId"])

	var stored models.MenuItem
	require.NoError(t, db.Where("id = ?", item.ID).First(&stored).Error)
	require.Len(t, stored.Comments, 1)
	assert.Equal(t, "Delicious!", stored.Comments[0].Content)
}

func TestRateMenuItemReplacesOwnRating(t *testing.T) {
	db := setupControllerTestDB(t)
	router := setupMenuItemRouter(db, "guest-1", models.RoleGuest, nil)

	item := createTestMenuItem(t, db, "Margherita", models.MenuItemTypeFood, 11.50)

	w := performJSON(t, router, http.MethodPost, "/api/v1/menu-items/"+item.ID+"/ratings", map[string]interface{}{"value": 4})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = performJSON(t, router, http.MethodPost, "/api/v1/menu-items/"+item.ID+"/ratings", map[string]interface{}{"value": 5})
	assert.Equal(t, http.StatusCreated, w.Code)

	var stored models.MenuItem
	require.NoError(t, db.Where("id = ?", item.ID).First(&stored).Error)
	require.Len(t, stored.Ratings, 1)
	assert.Equal(t, 5, stored.Ratings[0].Value)

	// A second guest appends a separate rating.
	other := setupMenuItemRouter(db, "guest-2", models.RoleGuest, nil)
	w = performJSON(t, other, http.MethodPost, "/api/v1/menu-items/"+item.ID+"/ratings", map[string]interface{}{"value": 3})
	assert.Equal(t, http.StatusCreated, w.Code)

	require.NoError(t, db.Where("id = ?", item.ID).First(&stored).Error)
	assert.Len(t, stored.Ratings, 2)
}

func TestRateMenuItemValidation(t *testing.T) {
	db := setupControllerTestDB(t)
	router := setupMenuItemRouter(db, "guest-1", models.RoleGuest, nil)

	item := createTestMenuItem(t, db, "Margherita", models.MenuItemTypeFood, 11.50)

	w := performJSON(t, router, http.MethodPost, "/api/v1/menu-items/"+item.ID+"/ratings", map[string]interface{}{"value": 6})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(parseResponse(t, w)))
}
