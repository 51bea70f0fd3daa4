package controllers

import (
	"math/rand"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/taskman-app/taskman-api/middleware"
	"github.com/taskman-app/taskman-api/models"
	"github.com/taskman-app/taskman-api/services"
)

// tableCount is the number of tables guests can be seated at.
const tableCount = 30

// UserController handles sign-up, sign-in and profile management.
type UserController struct {
	db     *gorm.DB
	tokens *middleware.TokenService
	images services.ImageService
}

// NewUserController creates a user controller.
func NewUserController(db *gorm.DB, tokens *middleware.TokenService, images services.ImageService) *UserController {
	return &UserController{db: db, tokens: tokens, images: images}
}

// SignUpRequest represents the request body for guest sign-up
type SignUpRequest struct {
	Email         string      `json:"email" binding:"required,email"`
	Password      string      `json:"password" binding:"required,min=8"`
	PasswordCheck string      `json:"passwordCheck" binding:"required"`
	Name          models.Name `json:"name" binding:"required"`
}

// SignInRequest represents the request body for sign-in
type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateUserRequest represents the request body for updating a user profile
type UpdateUserRequest struct {
	Name  *models.Name `json:"name"`
	Email *string      `json:"email" binding:"omitempty,email"`
}

// SignUp handles POST /api/v1/users/sign-up - registers a guest and seats
// them at a random table
func (uc *UserController) SignUp(c *gin.Context) {
	var req SignUpRequest
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

	if req.Password != req.PasswordCheck {
		respondErrorEnvelope(c, http.StatusBadRequest, "VALIDATION_ERROR", "Passwords do not match.")
		return
	}

	var count int64
	if err := uc.db.Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		respondError(c, &services.StoreError{Op: "find user", Err: err})
		return
	}
	if count > 0 {
		respondErrorEnvelope(c, http.StatusConflict, "CONFLICT", "A user with this email address already exists.")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondErrorEnvelope(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process credentials")
		return
	}

	table := rand.Intn(tableCount) + 1
	user := models.User{
		Email:    req.Email,
		Password: string(hash),
		Name:     req.Name,
		Role:     models.RoleGuest,
		Table:    &table,
	}
	if err := uc.db.Create(&user).Error; err != nil {
		respondError(c, &services.StoreError{Op: "create user", Err: err})
		return
	}

	uc.respondWithToken(c, http.StatusCreated, &user)
}

// SignIn handles POST /api/v1/users/sign-in
func (uc *UserController) SignIn(c *gin.Context) {
	var req SignInRequest
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

	var user models.User
	if err := uc.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			uc.respondInvalidCredentials(c)
			return
		}
		respondError(c, &services.StoreError{Op: "find user", Err: err})
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		uc.respondInvalidCredentials(c)
		return
	}

	uc.respondWithToken(c, http.StatusOK, &user)
}

// GetUser handles GET /api/v1/users/:id
func (uc *UserController) GetUser(c *gin.Context) {
	var user models.User
	if err := uc.db.Where("id = ?", c.Param("id")).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, &services.NotFoundError{Resource: "User"})
		} else {
			respondError(c, &services.StoreError{Op: "find user", Err: err})
		}
		return
	}

	uc.resolveAvatarURL(&user)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}

// UpdateProfile handles PATCH /api/v1/users - updates the caller's name or
// email
func (uc *UserController) UpdateProfile(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	var req UpdateUserRequest
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
		fields["name_first"] = req.Name.First
		fields["name_last"] = req.Name.Last
	}
	if req.Email != nil {
		fields["email"] = *req.Email
	}

	if len(fields) > 0 {
		result := uc.db.Model(&models.User{}).Where("id = ?", userID).Updates(fields)
		if result.Error != nil {
			respondError(c, &services.StoreError{Op: "update user", Err: result.Error})
			return
		}
		if result.RowsAffected == 0 {
			respondError(c, &services.NotFoundError{Resource: "User"})
			return
		}
	}

	var user models.User
	if err := uc.db.Where("id = ?", userID).First(&user).Error; err != nil {
		respondError(c, &services.StoreError{Op: "find user", Err: err})
		return
	}
	uc.resolveAvatarURL(&user)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}

// UploadAvatar handles POST /api/v1/users/avatar - replaces the caller's
// profile image
func (uc *UserController) UploadAvatar(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}
	if uc.images == nil {
		respondErrorEnvelope(c, http.StatusServiceUnavailable, "UPLOADS_DISABLED", "Image uploads are not configured")
		return
	}

	var user models.User
	if err := uc.db.Where("id = ?", userID).First(&user).Error; err != nil {
		respondError(c, &services.NotFoundError{Resource: "User"})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		respondErrorEnvelope(c, http.StatusBadRequest, "INVALID_REQUEST", "An image file is required")
		return
	}

	key, err := uc.images.UploadImage(fileHeader, services.AvatarImagePrefix)
	if err != nil {
		respondError(c, err)
		return
	}

	oldKey := user.AvatarS3Key
	if err := uc.db.Model(&user).Update("avatar_s3_key", key).Error; err != nil {
		respondError(c, &services.StoreError{Op: "update user", Err: err})
		return
	}
	if oldKey != nil {
		if err := uc.images.DeleteImage(*oldKey); err != nil {
			respondError(c, err)
			return
		}
	}

	user.AvatarS3Key = &key
	uc.resolveAvatarURL(&user)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}

// SignOut handles DELETE /api/v1/users/sign-out. Tokens are stateless; the
// client discards its copy.
func (uc *UserController) SignOut(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Signed out.",
	})
}

func (uc *UserController) respondWithToken(c *gin.Context, status int, user *models.User) {
	token, err := uc.tokens.Issue(user)
	if err != nil {
		respondErrorEnvelope(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to issue token")
		return
	}

	uc.resolveAvatarURL(user)
	c.JSON(status, gin.H{
		"success": true,
		"data": gin.H{
			"user":  user,
			"token": token,
		},
	})
}

func (uc *UserController) respondInvalidCredentials(c *gin.Context) {
	respondErrorEnvelope(c, http.StatusUnauthorized, "UNAUTHORIZED", "You have entered an invalid username or password.")
}

func (uc *UserController) resolveAvatarURL(user *models.User) {
	if uc.images == nil || user.AvatarS3Key == nil {
		return
	}
	if url, err := uc.images.GetImageURL(*user.AvatarS3Key); err == nil && url != "" {
		user.AvatarURL = &url
	}
}
