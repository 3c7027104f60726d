package types

import (
	"strings"
	"time"

	"github.com/voice-local/api-go/models"
	"github.com/voice-local/api-go/utils"
)

type IssueResponse struct {
	ID          uint              `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Location    string            `json:"location"`
	ImageURL    string            `json:"imageUrl"`
	Status      string            `json:"status"`
	Priority    string            `json:"priority"`
	Category    *uint             `json:"category"`
	Author      UserBrief         `json:"author"`
	IsDeleted   bool              `json:"isDeleted"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
	Upvotes     int64             `json:"upvotes"`
	Downvotes   int64             `json:"downvotes"`
	Comments    []CommentResponse `json:"comments"`
}

func NewIssueResponse(i models.Issue) IssueResponse {
	comments := make([]CommentResponse, 0, len(i.Comments))
	for _, c := range i.Comments {
		comments = append(comments, NewCommentResponse(c))
	}

	return IssueResponse{
		ID:          i.ID,
		Title:       i.Title,
		Description: i.Description,
		Location:    i.Location,
		ImageURL:    i.ImageURL,
		Status:      string(i.Status),
		Priority:    string(i.Priority),
		Category:    i.CategoryID,
		Author:      NewUserBrief(i.Author),
		IsDeleted:   i.IsDeleted,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
		Upvotes:     i.Upvotes,
		Downvotes:   i.Downvotes,
		Comments:    comments,
	}
}

// IssueRequest is the body of create, full update and partial update.
// AuthorID is accepted for compatibility and ignored.
type IssueRequest struct {
	Title       *string    `json:"title" binding:"omitempty,max=200"`
	Description *string    `json:"description"`
	Location    *string    `json:"location" binding:"omitempty,max=200"`
	ImageURL    *string    `json:"imageUrl" binding:"omitempty,url,max=500"`
	Status      *string    `json:"status" binding:"omitempty,oneof=open in-progress resolved rejected"`
	Priority    *string    `json:"priority" binding:"omitempty,oneof=low medium high"`
	Category    NullableID `json:"category"`
	IsDeleted   *bool      `json:"isDeleted"`
	AuthorID    *uint      `json:"authorId"`
}

func (r *IssueRequest) Validate(partial bool) utils.FieldErrors {
	errs := utils.FieldErrors{}
	requireText(errs, "title", r.Title, partial)
	requireText(errs, "description", r.Description, partial)
	return errs
}

// Model builds a new issue from a validated create request.
func (r *IssueRequest) Model(authorID uint) models.Issue {
	issue := models.Issue{
		Status:   models.StatusOpen,
		AuthorID: authorID,
	}
	if r.Title != nil {
		issue.Title = strings.TrimSpace(*r.Title)
	}
	if r.Description != nil {
		issue.Description = *r.Description
	}
	if r.Location != nil {
		issue.Location = *r.Location
	}
	if r.ImageURL != nil {
		issue.ImageURL = *r.ImageURL
	}
	if r.Status != nil {
		issue.Status = models.IssueStatus(*r.Status)
	}
	if r.Priority != nil {
		issue.Priority = models.IssuePriority(*r.Priority)
	}
	if r.Category.Set {
		issue.CategoryID = r.Category.Ptr()
	}
	if r.IsDeleted != nil {
		issue.IsDeleted = *r.IsDeleted
	}
	return issue
}

// Fields returns the column updates carried by the request.
func (r *IssueRequest) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if r.Title != nil {
		fields["title"] = strings.TrimSpace(*r.Title)
	}
	if r.Description != nil {
		fields["description"] = *r.Description
	}
	if r.Location != nil {
		fields["location"] = *r.Location
	}
	if r.ImageURL != nil {
		fields["image_url"] = *r.ImageURL
	}
	if r.Status != nil {
		fields["status"] = *r.Status
	}
	if r.Priority != nil {
		fields["priority"] = *r.Priority
	}
	if r.Category.Set {
		fields["category_id"] = r.Category.Ptr()
	}
	if r.IsDeleted != nil {
		fields["is_deleted"] = *r.IsDeleted
	}
	return fields
}

type VoteRequest struct {
	Type string `json:"type"`
}

type VoteResponse struct {
	Upvotes   int64   `json:"upvotes"`
	Downvotes int64   `json:"downvotes"`
	UserVote  *string `json:"userVote"`
}
