package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/voice-local/api-go/config"
	"github.com/voice-local/api-go/models"
	"github.com/voice-local/api-go/repository"
	"github.com/voice-local/api-go/types"
	"github.com/voice-local/api-go/utils"
)

const (
	detailBadCredentials = "No active account found with the given credentials"
	detailBadToken       = "Token is invalid or expired"
)

// GoogleAuthenticator resolves an OAuth authorization code to a Google profile.
type GoogleAuthenticator interface {
	Authenticate(ctx context.Context, code string) (*config.GoogleUserInfo, error)
}

type AuthController struct {
	Users  repository.UserRepository
	Tokens *utils.TokenService
	Google GoogleAuthenticator
}

func NewAuthController(users repository.UserRepository, tokens *utils.TokenService, google GoogleAuthenticator) *AuthController {
	return &AuthController{
		Users:  users,
		Tokens: tokens,
		Google: google,
	}
}

func (ac *AuthController) Register(c *gin.Context) {
	var input types.RegisterRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	ctx := c.Request.Context()
	errs, err := ac.duplicateFields(ctx, input)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	if len(errs) > 0 {
		respondValidation(c, errs)
		return
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		respondStoreError(c, fmt.Errorf("hash password: %w", err))
		return
	}

	user := models.User{
		Username:  input.Username,
		Password:  &hashedPassword,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		IsActive:  true,
	}
	if input.Email != "" {
		email := strings.ToLower(input.Email)
		user.Email = &email
	}

	if err := ac.Users.Create(ctx, &user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Lost a race with a concurrent sign-up; look again for the taken field.
			taken, lookupErr := ac.duplicateFields(ctx, input)
			if lookupErr != nil {
				respondStoreError(c, lookupErr)
				return
			}
			if len(taken) == 0 {
				taken.Add("non_field_errors", "A user with these details already exists.")
			}
			respondValidation(c, taken)
			return
		}
		respondStoreError(c, err)
		return
	}

	utils.GetLogger(c).WithField("user_id", user.ID).Info("user registered")
	c.JSON(http.StatusCreated, types.NewProfileResponse(&user))
}

// duplicateFields reports which unique account fields of input are already taken.
func (ac *AuthController) duplicateFields(ctx context.Context, input types.RegisterRequest) (utils.FieldErrors, error) {
	errs := utils.FieldErrors{}
	if _, err := ac.Users.GetByUsername(ctx, input.Username); err == nil {
		errs.Add("username", "A user with that username already exists.")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if input.Email != "" {
		if _, err := ac.Users.GetByEmail(ctx, input.Email); err == nil {
			errs.Add("email", "A user with that email already exists.")
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}
	return errs, nil
}

// Login exchanges username and password for an access/refresh pair.
func (ac *AuthController) Login(c *gin.Context) {
	var input types.LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := ac.Users.GetByUsername(c.Request.Context(), input.Username)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		respondStoreError(c, err)
		return
	}
	if user == nil || !user.IsActive || !utils.CheckPassword(user.Password, input.Password) {
		respondUnauthorized(c, detailBadCredentials)
		return
	}

	ac.respondTokenPair(c, user)
}

func (ac *AuthController) RefreshToken(c *gin.Context) {
	var input types.RefreshRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	claims, err := ac.Tokens.Parse(input.Refresh, utils.TokenTypeRefresh)
	if err != nil {
		respondUnauthorized(c, detailBadToken)
		return
	}

	user, err := ac.Users.GetByID(c.Request.Context(), claims.UserID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && !user.IsActive) {
		respondUnauthorized(c, detailBadToken)
		return
	}
	if err != nil {
		respondStoreError(c, err)
		return
	}

	access, err := ac.Tokens.IssueAccess(user.ID)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.AccessTokenResponse{Access: access})
}

// GoogleLogin signs in with a Google authorization code, linking the Google
// account to an existing user by email or creating a new one.
func (ac *AuthController) GoogleLogin(c *gin.Context) {
	if ac.Google == nil {
		respondError(c, http.StatusServiceUnavailable, "Google sign-in is not configured.")
		return
	}

	var input types.GoogleLoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	ctx := c.Request.Context()
	info, err := ac.Google.Authenticate(ctx, input.Code)
	if err != nil {
		utils.GetLogger(c).WithError(err).Warn("google sign-in failed")
		respondUnauthorized(c, "Google authentication failed.")
		return
	}

	user, err := ac.findOrCreateGoogleUser(ctx, info)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	if !user.IsActive {
		respondUnauthorized(c, detailBadCredentials)
		return
	}

	ac.respondTokenPair(c, user)
}

func (ac *AuthController) findOrCreateGoogleUser(ctx context.Context, info *config.GoogleUserInfo) (*models.User, error) {
	user, err := ac.Users.GetByGoogleID(ctx, info.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if info.Email != "" && info.VerifiedEmail {
		user, err = ac.Users.GetByEmail(ctx, info.Email)
		if err == nil {
			user.GoogleID = &info.ID
			if err := ac.Users.Update(ctx, user); err != nil {
				return nil, err
			}
			return user, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	username, err := ac.availableUsername(ctx, usernameBase(info))
	if err != nil {
		return nil, err
	}

	user = &models.User{
		Username:  username,
		GoogleID:  &info.ID,
		FirstName: info.GivenName,
		LastName:  info.FamilyName,
		IsActive:  true,
	}
	if info.Email != "" && info.VerifiedEmail {
		email := strings.ToLower(info.Email)
		user.Email = &email
	}
	if err := ac.Users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (ac *AuthController) availableUsername(ctx context.Context, base string) (string, error) {
	candidate := base
	for i := 1; i <= 100; i++ {
		_, err := ac.Users.GetByUsername(ctx, candidate)
		if errors.Is(err, repository.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
		candidate = fmt.Sprintf("%s%d", base, i)
	}
	return "", fmt.Errorf("no free username for %q", base)
}

func usernameBase(info *config.GoogleUserInfo) string {
	base := info.Email
	if at := strings.Index(base, "@"); at > 0 {
		base = base[:at]
	}
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', strings.ContainsRune("@.+-_", r):
			return r
		}
		return -1
	}, base)
	if len(base) < 3 {
		base = "user" + base
	}
	if len(base) > 140 {
		base = base[:140]
	}
	return base
}

func (ac *AuthController) respondTokenPair(c *gin.Context, user *models.User) {
	pair, err := ac.Tokens.IssuePair(user.ID)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	utils.GetLogger(c).WithField("user_id", user.ID).Info("tokens issued")
	c.JSON(http.StatusOK, pair)
}

func respondUnauthorized(c *gin.Context, detail string) {
	c.Header("WWW-Authenticate", `Bearer realm="api"`)
	respondError(c, http.StatusUnauthorized, detail)
}
