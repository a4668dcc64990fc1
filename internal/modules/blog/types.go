package blog

import (
	"errors"
	"time"

	"github.com/inkverse/core/internal/models"
)

var (
	errBlogNotFound       = errors.New("blog not found")
	errNotBlogCreator     = errors.New("not the blog creator")
	errTitleRequired      = errors.New("please enter the title")
	errDescriptionMissing = errors.New("please enter the description")
	errContentMissing     = errors.New("please add some content")
)

// Upload is one image binary received with a multipart request.
type Upload struct {
	Data        []byte
	ContentType string
	Filename    string
}

// CreateBlogInput carries the parsed multipart payload for blog creation.
// Images are applied in order to image blocks that have no hosted file yet.
type CreateBlogInput struct {
	Title       string
	Description string
	Content     []models.Block
	Tags        []string
	Draft       bool
	Cover       *Upload
	Images      []Upload
}

// UpdateBlogInput carries the parsed multipart payload for blog updates.
// ExistingImages lists the hosted image ids the client saw before editing;
// ids no longer referenced after the update are orphaned and deleted.
type UpdateBlogInput struct {
	Title          string
	Description    string
	Content        []models.Block
	Tags           []string
	Draft          bool
	Cover          *Upload
	Images         []Upload
	ExistingImages []string
}

type creatorResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Username   string `json:"username"`
	ProfilePic string `json:"profilePic"`
}

type blogResponse struct {
	ID          string         `json:"id"`
	BlogID      string         `json:"blogId"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Content     []models.Block `json:"content"`
	Tags        []string       `json:"tags"`
	Draft       bool           `json:"draft"`
	CoverImage  string         `json:"image"`
	Creator     *creatorResponse `json:"creator,omitempty"`
	Likes       []string       `json:"likes"`
	Saves       []string       `json:"saves"`
	Comments    interface{}    `json:"comments,omitempty"`
	Created     time.Time      `json:"created"`
	Modified    time.Time      `json:"modified"`
}

func toResponse(b *models.BlogModel, likes, saves []string) blogResponse {
	if likes == nil {
		likes = []string{}
	}
	if saves == nil {
		saves = []string{}
	}
	r := blogResponse{
		ID:          b.ID,
		BlogID:      b.Slug,
		Title:       b.Title,
		Description: b.Description,
		Content:     b.Content,
		Tags:        b.Tags,
		Draft:       b.Draft,
		CoverImage:  b.CoverImage,
		Likes:       likes,
		Saves:       saves,
		Created:     b.CreatedAt,
		Modified:    b.UpdatedAt,
	}
	if r.Content == nil {
		r.Content = []models.Block{}
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}
	if b.Creator != nil {
		r.Creator = &creatorResponse{
			ID:         b.Creator.ID,
			Name:       b.Creator.Name,
			Username:   b.Creator.Username,
			ProfilePic: b.Creator.ProfilePic,
		}
	}
	return r
}
