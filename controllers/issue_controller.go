package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/voice-local/api-go/metrics"
	"github.com/voice-local/api-go/models"
	"github.com/voice-local/api-go/policy"
	"github.com/voice-local/api-go/repository"
	"github.com/voice-local/api-go/types"
	"github.com/voice-local/api-go/utils"
)

type IssueController struct {
	Issues     repository.IssueRepository
	Categories repository.CategoryRepository
	Votes      repository.VoteRepository
}

func NewIssueController(issues repository.IssueRepository, categories repository.CategoryRepository, votes repository.VoteRepository) *IssueController {
	return &IssueController{
		Issues:     issues,
		Categories: categories,
		Votes:      votes,
	}
}

// ListIssues godoc
// @Summary List issues
// @Description Paginated issues with vote counts, filterable by status, priority, category and author
// @Tags issues
// @Produce json
// @Success 200 {object} PageResponse
// @Router /issues/ [get]
func (ic *IssueController) ListIssues(c *gin.Context) {
	q, err := repository.ParseListQuery(repository.IssueListSpec, c.Request.URL.Query())
	if err != nil {
		respondStoreError(c, err)
		return
	}

	page, err := ic.Issues.List(c.Request.Context(), q)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	results := make([]types.IssueResponse, 0, len(page.Items))
	for _, issue := range page.Items {
		results = append(results, types.NewIssueResponse(issue))
	}
	c.JSON(http.StatusOK, newPageResponse(c, q, page.Count, results))
}

func (ic *IssueController) GetIssue(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	issue, err := ic.Issues.Get(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewIssueResponse(*issue))
}

// CreateIssue godoc
// @Summary Report a new issue
// @Description The author is always the authenticated caller
// @Tags issues
// @Accept json
// @Produce json
// @Param issue body types.IssueRequest true "Issue"
// @Success 201 {object} types.IssueResponse
// @Router /issues/ [post]
func (ic *IssueController) CreateIssue(c *gin.Context) {
	user := utils.GetUser(c)

	var req types.IssueRequest
	if !bindBody(c, &req, false) {
		return
	}
	if !ic.checkCategory(c, req.Category) {
		return
	}

	ctx := c.Request.Context()
	issue := req.Model(user.UserID)
	if err := ic.Issues.Create(ctx, &issue); err != nil {
		respondStoreError(c, err)
		return
	}

	utils.GetLogger(c).WithField("issue_id", issue.ID).Info("issue created")

	created, err := ic.Issues.Get(ctx, issue.ID)
	if errors.Is(err, repository.ErrNotFound) {
		// Created already soft-deleted, nothing to read back.
		c.JSON(http.StatusCreated, types.NewIssueResponse(issue))
		return
	}
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, types.NewIssueResponse(*created))
}

// UpdateIssue serves PUT and PATCH. Only the author or staff may write.
func (ic *IssueController) UpdateIssue(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	issue, ok := ic.authorize(c, id)
	if !ok {
		return
	}

	var req types.IssueRequest
	if !bindBody(c, &req, c.Request.Method == http.MethodPatch) {
		return
	}
	if !ic.checkCategory(c, req.Category) {
		return
	}

	ctx := c.Request.Context()
	if err := ic.Issues.Update(ctx, id, req.Fields()); err != nil {
		respondStoreError(c, err)
		return
	}

	updated, err := ic.Issues.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) && req.IsDeleted != nil && *req.IsDeleted {
		// The update itself hid the issue; answer with what was written.
		issue.IsDeleted = true
		c.JSON(http.StatusOK, types.NewIssueResponse(*issue))
		return
	}
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewIssueResponse(*updated))
}

func (ic *IssueController) DeleteIssue(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if _, ok := ic.authorize(c, id); !ok {
		return
	}

	if err := ic.Issues.SoftDelete(c.Request.Context(), id); err != nil {
		respondStoreError(c, err)
		return
	}

	utils.GetLogger(c).WithField("issue_id", id).Info("issue deleted")
	c.Status(http.StatusNoContent)
}

// Vote godoc
// @Summary Toggle the caller's vote on an issue
// @Description Same type again retracts the vote, the other type switches it
// @Tags issues
// @Accept json
// @Produce json
// @Param vote body types.VoteRequest true "Vote"
// @Success 200 {object} types.VoteResponse
// @Router /issues/{id}/vote/ [post]
func (ic *IssueController) Vote(c *gin.Context) {
	user := utils.GetUser(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if _, err := ic.Issues.Get(ctx, id); err != nil {
		respondStoreError(c, err)
		return
	}

	var req types.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	voteType := models.VoteType(req.Type)
	if !voteType.Valid() {
		respondError(c, http.StatusBadRequest, "Invalid vote type")
		return
	}

	result, err := ic.Votes.Toggle(ctx, id, user.UserID, voteType)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	metrics.VoteCounter.WithLabelValues(string(result.Outcome)).Inc()
	utils.GetLogger(c).WithFields(logrus.Fields{
		"issue_id": id,
		"outcome":  result.Outcome,
	}).Debug("vote toggled")

	resp := types.VoteResponse{
		Upvotes:   result.Upvotes,
		Downvotes: result.Downvotes,
	}
	if result.UserVote != nil {
		v := string(*result.UserVote)
		resp.UserVote = &v
	}
	c.JSON(http.StatusOK, resp)
}

// authorize loads the issue and applies the author-or-staff write rule.
func (ic *IssueController) authorize(c *gin.Context, id uint) (*models.Issue, bool) {
	issue, err := ic.Issues.Get(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err)
		return nil, false
	}

	user := utils.GetUser(c)
	if !policy.Allow(c.Request.Method, user.UserID, issue.AuthorID, user.IsStaff) {
		respondError(c, http.StatusForbidden, detailForbidden)
		return nil, false
	}
	return issue, true
}

func (ic *IssueController) checkCategory(c *gin.Context, category types.NullableID) bool {
	if !category.Set || !category.Valid {
		return true
	}
	_, err := ic.Categories.Get(c.Request.Context(), category.Value)
	if errors.Is(err, repository.ErrNotFound) {
		respondValidation(c, utils.FieldErrors{
			"category": {fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", category.Value)},
		})
		return false
	}
	if err != nil {
		respondStoreError(c, err)
		return false
	}
	return true
}
