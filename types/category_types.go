package types

import (
	"strings"
	"time"

	"github.com/voice-local/api-go/models"
	"github.com/voice-local/api-go/utils"
)

type CategoryResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Color       string    `json:"color"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func NewCategoryResponse(c models.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Color:       c.Color,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// CategoryRequest is the body of create, full update and partial update.
type CategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=64"`
	Color       *string `json:"color" binding:"omitempty,rgbhex"`
	Description *string `json:"description"`
}

// Validate checks what binding tags cannot: required and non-blank fields.
func (r *CategoryRequest) Validate(partial bool) utils.FieldErrors {
	errs := utils.FieldErrors{}
	requireText(errs, "name", r.Name, partial)
	return errs
}

// Fields returns the column updates carried by the request.
func (r *CategoryRequest) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if r.Name != nil {
		fields["name"] = strings.TrimSpace(*r.Name)
	}
	if r.Color != nil {
		fields["color"] = *r.Color
	}
	if r.Description != nil {
		fields["description"] = *r.Description
	}
	return fields
}

func (r *CategoryRequest) Model() models.Category {
	var c models.Category
	if r.Name != nil {
		c.Name = strings.TrimSpace(*r.Name)
	}
	if r.Color != nil {
		c.Color = *r.Color
	}
	if r.Description != nil {
		c.Description = *r.Description
	}
	return c
}

func requireText(errs utils.FieldErrors, field string, value *string, partial bool) {
	if value == nil {
		if !partial {
			errs.Add(field, "This field is required.")
		}
		return
	}
	if strings.TrimSpace(*value) == "" {
		errs.Add(field, "This field may not be blank.")
	}
}
