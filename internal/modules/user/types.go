package user

import (
	"errors"
	"time"

	"github.com/inkverse/core/internal/models"
)

var (
	errUserNotFound     = errors.New("user not found")
	errUsernameTaken    = errors.New("Username already taken")
	errNotSelf          = errors.New("cannot act on another user's account")
	errCannotFollowSelf = errors.New("cannot follow yourself")
)

// Avatar is a profile picture binary received with a multipart update.
type Avatar struct {
	Data        []byte
	ContentType string
	Filename    string
}

// UpdateUserInput carries the profile fields to change; nil means keep.
type UpdateUserInput struct {
	Name     *string
	Username *string
	Bio      *string
	Avatar   *Avatar
}

// VisibilityDTO flips which of the user's blog lists are public.
type VisibilityDTO struct {
	ShowLikedBlogs *bool `json:"showLikedBlogs"`
	ShowSavedBlogs *bool `json:"showSavedBlogs"`
}

// Profile is a user's populated public view.
type Profile struct {
	User      models.UserModel
	Blogs     []models.BlogModel
	LikeBlogs []models.BlogModel
	SaveBlogs []models.BlogModel
	Followers []string
	Following []string
}

type blogSummary struct {
	ID          string    `json:"id"`
	BlogID      string    `json:"blogId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CoverImage  string    `json:"image"`
	Created     time.Time `json:"created"`
}

type userListItem struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Username   string `json:"username"`
	Bio        string `json:"bio"`
	ProfilePic string `json:"profilePic"`
}

type profileResponse struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Username       string        `json:"username"`
	Bio            string        `json:"bio"`
	ProfilePic     string        `json:"profilePic"`
	ShowLikedBlogs bool          `json:"showLikedBlogs"`
	ShowSavedBlogs bool          `json:"showSavedBlogs"`
	Followers      []string      `json:"followers"`
	Following      []string      `json:"following"`
	Blogs          []blogSummary `json:"blogs"`
	LikeBlogs      []blogSummary `json:"likeBlogs,omitempty"`
	SaveBlogs      []blogSummary `json:"saveBlogs,omitempty"`
	Created        time.Time     `json:"created"`
}

func toBlogSummaries(blogs []models.BlogModel) []blogSummary {
	out := make([]blogSummary, len(blogs))
	for i, b := range blogs {
		out[i] = blogSummary{
			ID:          b.ID,
			BlogID:      b.Slug,
			Title:       b.Title,
			Description: b.Description,
			CoverImage:  b.CoverImage,
			Created:     b.CreatedAt,
		}
	}
	return out
}

func toProfileResponse(p *Profile) profileResponse {
	r := profileResponse{
		ID:             p.User.ID,
		Name:           p.User.Name,
		Username:       p.User.Username,
		Bio:            p.User.Bio,
		ProfilePic:     p.User.ProfilePic,
		ShowLikedBlogs: p.User.ShowLikedBlogs,
		ShowSavedBlogs: p.User.ShowSavedBlogs,
		Followers:      p.Followers,
		Following:      p.Following,
		Blogs:          toBlogSummaries(p.Blogs),
		Created:        p.User.CreatedAt,
	}
	if r.Followers == nil {
		r.Followers = []string{}
	}
	if r.Following == nil {
		r.Following = []string{}
	}
	if p.LikeBlogs != nil {
		r.LikeBlogs = toBlogSummaries(p.LikeBlogs)
	}
	if p.SaveBlogs != nil {
		r.SaveBlogs = toBlogSummaries(p.SaveBlogs)
	}
	return r
}
