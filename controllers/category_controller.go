package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/voice-local/api-go/repository"
	"github.com/voice-local/api-go/types"
	"github.com/voice-local/api-go/utils"
)

type CategoryController struct {
	Categories repository.CategoryRepository
}

func NewCategoryController(categories repository.CategoryRepository) *CategoryController {
	return &CategoryController{Categories: categories}
}

func (cc *CategoryController) List(c *gin.Context) {
	q, err := repository.ParseListQuery(repository.CategoryListSpec, c.Request.URL.Query())
	if err != nil {
		respondStoreError(c, err)
		return
	}

	page, err := cc.Categories.List(c.Request.Context(), q)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	results := make([]types.CategoryResponse, 0, len(page.Items))
	for _, category := range page.Items {
		results = append(results, types.NewCategoryResponse(category))
	}
	c.JSON(http.StatusOK, newPageResponse(c, q, page.Count, results))
}

func (cc *CategoryController) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	category, err := cc.Categories.Get(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewCategoryResponse(*category))
}

func (cc *CategoryController) Create(c *gin.Context) {
	var req types.CategoryRequest
	if !bindBody(c, &req, false) {
		return
	}

	category := req.Model()
	if err := cc.Categories.Create(c.Request.Context(), &category); err != nil {
		cc.respondWriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, types.NewCategoryResponse(category))
}

// Update serves both PUT and PATCH; PATCH skips the required field checks.
func (cc *CategoryController) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if _, err := cc.Categories.Get(ctx, id); err != nil {
		respondStoreError(c, err)
		return
	}

	var req types.CategoryRequest
	if !bindBody(c, &req, c.Request.Method == http.MethodPatch) {
		return
	}

	if err := cc.Categories.Update(ctx, id, req.Fields()); err != nil {
		cc.respondWriteError(c, err)
		return
	}

	category, err := cc.Categories.Get(ctx, id)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewCategoryResponse(*category))
}

func (cc *CategoryController) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := cc.Categories.Delete(c.Request.Context(), id); err != nil {
		respondStoreError(c, err)
		return
	}

	utils.GetLogger(c).WithField("category_id", id).Info("category deleted")
	c.Status(http.StatusNoContent)
}

func (cc *CategoryController) respondWriteError(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrDuplicate) {
		respondValidation(c, utils.FieldErrors{"name": {"category with this name already exists."}})
		return
	}
	respondStoreError(c, err)
}
