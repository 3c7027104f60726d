package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/voice-local/api-go/models"
	"github.com/voice-local/api-go/policy"
	"github.com/voice-local/api-go/repository"
	"github.com/voice-local/api-go/types"
	"github.com/voice-local/api-go/utils"
)

// CommentController serves comments nested under /issues/:id/comments/.
type CommentController struct {
	Comments repository.CommentRepository
}

func NewCommentController(comments repository.CommentRepository) *CommentController {
	return &CommentController{Comments: comments}
}

func (cc *CommentController) ListComments(c *gin.Context) {
	issueID, ok := pathID(c, "id")
	if !ok {
		return
	}

	q, err := repository.ParseListQuery(repository.CommentListSpec, c.Request.URL.Query())
	if err != nil {
		respondStoreError(c, err)
		return
	}

	page, err := cc.Comments.List(c.Request.Context(), issueID, q)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	results := make([]types.CommentResponse, 0, len(page.Items))
	for _, comment := range page.Items {
		results = append(results, types.NewCommentResponse(comment))
	}
	c.JSON(http.StatusOK, newPageResponse(c, q, page.Count, results))
}

func (cc *CommentController) GetComment(c *gin.Context) {
	issueID, ok := pathID(c, "id")
	if !ok {
		return
	}
	id, ok := pathID(c, "commentId")
	if !ok {
		return
	}

	comment, err := cc.Comments.Get(c.Request.Context(), issueID, id)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewCommentResponse(*comment))
}

func (cc *CommentController) CreateComment(c *gin.Context) {
	user := utils.GetUser(c)
	issueID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.CommentRequest
	if !bindBody(c, &req, false) {
		return
	}

	ctx := c.Request.Context()
	comment := models.Comment{
		IssueID:  issueID,
		AuthorID: user.UserID,
		Content:  *req.Content,
	}
	if err := cc.Comments.Create(ctx, &comment); err != nil {
		respondStoreError(c, err)
		return
	}

	created, err := cc.Comments.Get(ctx, issueID, comment.ID)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, types.NewCommentResponse(*created))
}

func (cc *CommentController) UpdateComment(c *gin.Context) {
	issueID, id, ok := cc.authorize(c)
	if !ok {
		return
	}

	var req types.CommentRequest
	if !bindBody(c, &req, c.Request.Method == http.MethodPatch) {
		return
	}

	ctx := c.Request.Context()
	if err := cc.Comments.Update(ctx, issueID, id, req.Fields()); err != nil {
		respondStoreError(c, err)
		return
	}

	updated, err := cc.Comments.Get(ctx, issueID, id)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewCommentResponse(*updated))
}

func (cc *CommentController) DeleteComment(c *gin.Context) {
	issueID, id, ok := cc.authorize(c)
	if !ok {
		return
	}

	if err := cc.Comments.SoftDelete(c.Request.Context(), issueID, id); err != nil {
		respondStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (cc *CommentController) authorize(c *gin.Context) (uint, uint, bool) {
	issueID, ok := pathID(c, "id")
	if !ok {
		return 0, 0, false
	}
	id, ok := pathID(c, "commentId")
	if !ok {
		return 0, 0, false
	}

	comment, err := cc.Comments.Get(c.Request.Context(), issueID, id)
	if err != nil {
		respondStoreError(c, err)
		return 0, 0, false
	}

	user := utils.GetUser(c)
	if !policy.Allow(c.Request.Method, user.UserID, comment.AuthorID, user.IsStaff) {
		respondError(c, http.StatusForbidden, detailForbidden)
		return 0, 0, false
	}
	return issueID, id, true
}
