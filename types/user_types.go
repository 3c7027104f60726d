package types

import (
	"github.com/voice-local/api-go/models"
)

// UserBrief is the author object nested in issues and comments.
type UserBrief struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func NewUserBrief(u models.User) UserBrief {
	return UserBrief{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

type ProfileResponse struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	IsActive  bool   `json:"isActive"`
	IsStaff   bool   `json:"isStaff"`
}

func NewProfileResponse(u *models.User) ProfileResponse {
	return ProfileResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.EmailValue(),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsActive:  u.IsActive,
		IsStaff:   u.IsStaff,
	}
}

type RegisterRequest struct {
	Username  string `json:"username" binding:"required,min=3,max=150,username"`
	Email     string `json:"email" binding:"omitempty,email,max=254"`
	Password  string `json:"password" binding:"required,min=8,max=128"`
	FirstName string `json:"firstName" binding:"max=150"`
	LastName  string `json:"lastName" binding:"max=150"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

type GoogleLoginRequest struct {
	Code string `json:"code" binding:"required"`
}

type AccessTokenResponse struct {
	Access string `json:"access"`
}
