package comment

import (
	"errors"
	"time"

	"github.com/inkverse/core/internal/models"
)

var (
	errBlogNotFound          = errors.New("blog not found")
	errCommentNotFound       = errors.New("comment not found")
	errCommentParentNotFound = errors.New("parent comment not found")
	errTextRequired          = errors.New("comment text is required")
	errNotCommentAuthor      = errors.New("not the comment author")
)

type CreateCommentDTO struct {
	Text string `json:"text"`
}

type EditCommentDTO struct {
	Text string `json:"text"`
}

type commentAuthor struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Username   string `json:"username"`
	ProfilePic string `json:"profilePic"`
}

type commentResponse struct {
	ID          string            `json:"id"`
	BlogID      string            `json:"blogId"`
	ParentID    *string           `json:"parentId"`
	Text        string            `json:"text"`
	Likes       []string          `json:"likes"`
	CommentedBy commentAuthor     `json:"commentedBy"`
	Replies     []commentResponse `json:"replies"`
	Created     time.Time         `json:"created"`
	Modified    time.Time         `json:"modified"`
}

func toResponse(c *models.CommentModel) commentResponse {
	replies := make([]commentResponse, len(c.Children))
	for i := range c.Children {
		replies[i] = toResponse(&c.Children[i])
	}
	r := commentResponse{
		ID:       c.ID,
		BlogID:   c.BlogID,
		ParentID: c.ParentID,
		Text:     c.Text,
		Likes:    c.Likes,
		Replies:  replies,
		Created:  c.CreatedAt,
		Modified: c.UpdatedAt,
	}
	if r.Likes == nil {
		r.Likes = []string{}
	}
	if c.User != nil {
		r.CommentedBy = commentAuthor{
			ID:         c.User.ID,
			Name:       c.User.Name,
			Username:   c.User.Username,
			ProfilePic: c.User.ProfilePic,
		}
	}
	return r
}

// ToForestResponse shapes a materialized forest for API output.
func ToForestResponse(forest []models.CommentModel) []commentResponse {
	out := make([]commentResponse, len(forest))
	for i := range forest {
		out[i] = toResponse(&forest[i])
	}
	return out
}
