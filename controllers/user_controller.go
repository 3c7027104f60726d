package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/voice-local/api-go/repository"
	"github.com/voice-local/api-go/types"
	"github.com/voice-local/api-go/utils"
)

type UserController struct {
	Users repository.UserRepository
}

func NewUserController(users repository.UserRepository) *UserController {
	return &UserController{Users: users}
}

// Me returns the profile of the authenticated caller.
func (uc *UserController) Me(c *gin.Context) {
	claims := utils.GetUser(c)

	user, err := uc.Users.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewProfileResponse(user))
}
