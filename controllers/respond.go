package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/voice-local/api-go/repository"
	"github.com/voice-local/api-go/utils"
)

const (
	detailNotFound     = "Not found."
	detailInvalidPage  = "Invalid page."
	detailForbidden    = "You do not have permission to perform this action."
	detailInvalidInput = "Invalid input."
	detailServerError  = "A server error occurred."
)

func respondError(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}

func respondValidation(c *gin.Context, errs utils.FieldErrors) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"detail": detailInvalidInput,
		"errors": errs,
	})
}

// respondBindError reports a ShouldBindJSON failure as a 400.
func respondBindError(c *gin.Context, err error) {
	fields, detail := utils.BindingErrors(err)
	if len(fields) > 0 {
		respondValidation(c, fields)
		return
	}
	respondError(c, http.StatusBadRequest, detail)
}

// respondStoreError maps repository errors onto HTTP responses. Anything
// unexpected is logged and reported as a generic 500.
func respondStoreError(c *gin.Context, err error) {
	var filterErr *repository.FilterError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		respondError(c, http.StatusNotFound, detailNotFound)
	case errors.Is(err, repository.ErrInvalidPage):
		respondError(c, http.StatusNotFound, detailInvalidPage)
	case errors.As(err, &filterErr):
		respondValidation(c, filterErr.Fields)
	default:
		utils.GetLogger(c).WithError(err).Error("request failed")
		respondError(c, http.StatusInternalServerError, detailServerError)
	}
}

// pathID parses a numeric path parameter. Anything else cannot name a row,
// so the caller answers 404.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondError(c, http.StatusNotFound, detailNotFound)
		return 0, false
	}
	return uint(id), true
}

// bindBody binds the JSON body and runs the request's own checks.
func bindBody(c *gin.Context, req interface{ Validate(bool) utils.FieldErrors }, partial bool) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondBindError(c, err)
		return false
	}
	if errs := req.Validate(partial); len(errs) > 0 {
		respondValidation(c, errs)
		return false
	}
	return true
}
