package types

import (
	"time"

	"github.com/voice-local/api-go/models"
	"github.com/voice-local/api-go/utils"
)

type CommentResponse struct {
	ID        uint      `json:"id"`
	Author    UserBrief `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewCommentResponse(c models.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		Author:    NewUserBrief(c.Author),
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

type CommentRequest struct {
	Content  *string `json:"content"`
	AuthorID *uint   `json:"authorId"`
}

func (r *CommentRequest) Validate(partial bool) utils.FieldErrors {
	errs := utils.FieldErrors{}
	requireText(errs, "content", r.Content, partial)
	return errs
}

func (r *CommentRequest) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if r.Content != nil {
		fields["content"] = *r.Content
	}
	return fields
}
