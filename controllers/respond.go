package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskman-app/taskman-api/services"
	"github.com/taskman-app/taskman-api/utils"
)

// respondError maps a service error onto the API error envelope.
func respondError(c *gin.Context, err error) {
	var (
		conflictErr   *services.ConflictError
		notFoundErr   *services.NotFoundError
		authzErr      *services.AuthorizationError
		validationErr *services.ValidationError
		uploadErr     *utils.FileUploadError
	)

	switch {
	case errors.As(err, &conflictErr):
		respondErrorEnvelope(c, http.StatusConflict, "CONFLICT", conflictErr.Message)
	case errors.As(err, &notFoundErr):
		respondErrorEnvelope(c, http.StatusNotFound, "NOT_FOUND", notFoundErr.Error())
	case errors.As(err, &authzErr):
		respondErrorEnvelope(c, http.StatusForbidden, "FORBIDDEN", authzErr.Message)
	case errors.As(err, &validationErr):
		respondErrorEnvelope(c, http.StatusBadRequest, "VALIDATION_ERROR", validationErr.Message)
	case errors.As(err, &uploadErr):
		respondErrorEnvelope(c, http.StatusBadRequest, uploadErr.Code, uploadErr.Message)
	default:
		respondErrorEnvelope(c, http.StatusInternalServerError, "DATABASE_ERROR", "An internal error occurred")
	}
}

func respondErrorEnvelope(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func respondUnauthorized(c *gin.Context) {
	respondErrorEnvelope(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
}
