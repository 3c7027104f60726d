package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/voice-local/api-go/repository"
)

// ValidationController answers availability checks for the sign-up form.
type ValidationController struct {
	Users repository.UserRepository
}

func NewValidationController(users repository.UserRepository) *ValidationController {
	return &ValidationController{Users: users}
}

func (vc *ValidationController) ValidateUsername(c *gin.Context) {
	_, err := vc.Users.GetByUsername(c.Request.Context(), c.Param("username"))
	vc.respondExists(c, err)
}

func (vc *ValidationController) ValidateEmail(c *gin.Context) {
	_, err := vc.Users.GetByEmail(c.Request.Context(), c.Param("email"))
	vc.respondExists(c, err)
}

func (vc *ValidationController) respondExists(c *gin.Context, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"exists": true})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusOK, gin.H{"exists": false})
	default:
		respondStoreError(c, err)
	}
}
