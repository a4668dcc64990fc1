package user

import (
	"errors"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/inkverse/core/internal/middleware"
	"github.com/inkverse/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW, optionalMW gin.HandlerFunc) {
	rg.GET("/users", h.list)
	rg.GET("/users/:username", optionalMW, h.profile)
	rg.PATCH("/users/:id", authMW, h.update)
	rg.DELETE("/users/:id", authMW, h.delete)
	rg.PATCH("/follow/:id", authMW, h.toggleFollow)
	rg.PATCH("/change-saved-liked-blog-visibility", authMW, h.setVisibility)
}

func (h *Handler) list(c *gin.Context) {
	users, err := h.svc.List()
	if err != nil {
		h.fail(c, err)
		return
	}
	items := make([]userListItem, len(users))
	for i, u := range users {
		items[i] = userListItem{
			ID:         u.ID,
			Name:       u.Name,
			Username:   u.Username,
			Bio:        u.Bio,
			ProfilePic: u.ProfilePic,
		}
	}
	response.OK(c, items)
}

func (h *Handler) profile(c *gin.Context) {
	p, err := h.svc.GetProfile(c.Param("username"), middleware.CurrentUserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, toProfileResponse(p))
}

func (h *Handler) update(c *gin.Context) {
	in, err := h.bindUpdate(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	u, err := h.svc.Update(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Profile updated", "user": u})
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Account deleted"})
}

func (h *Handler) toggleFollow(c *gin.Context) {
	following, err := h.svc.ToggleFollow(middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, gin.H{"following": following})
}

func (h *Handler) setVisibility(c *gin.Context) {
	var dto VisibilityDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	u, err := h.svc.SetVisibility(middleware.CurrentUserID(c), dto)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, gin.H{
		"showLikedBlogs": u.ShowLikedBlogs,
		"showSavedBlogs": u.ShowSavedBlogs,
	})
}

// bindUpdate accepts either a multipart form (with an optional profilePic
// file) or a plain JSON body.
func (h *Handler) bindUpdate(c *gin.Context) (UpdateUserInput, error) {
	var in UpdateUserInput

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		form, err := c.MultipartForm()
		if err != nil {
			return in, err
		}
		if vals := form.Value["name"]; len(vals) > 0 {
			in.Name = &vals[0]
		}
		if vals := form.Value["username"]; len(vals) > 0 {
			in.Username = &vals[0]
		}
		if vals := form.Value["bio"]; len(vals) > 0 {
			in.Bio = &vals[0]
		}
		if files := form.File["profilePic"]; len(files) > 0 {
			fh := files[0]
			f, err := fh.Open()
			if err != nil {
				return in, err
			}
			defer f.Close()
			data, err := io.ReadAll(f)
			if err != nil {
				return in, err
			}
			in.Avatar = &Avatar{
				Data:        data,
				ContentType: fh.Header.Get("Content-Type"),
				Filename:    fh.Filename,
			}
		}
		return in, nil
	}

	var body struct {
		Name     *string `json:"name"`
		Username *string `json:"username"`
		Bio      *string `json:"bio"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		return in, err
	}
	in.Name = body.Name
	in.Username = body.Username
	in.Bio = body.Bio
	return in, nil
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errUserNotFound):
		response.NotFoundMsg(c, "User not found")
	case errors.Is(err, errUsernameTaken):
		response.Conflict(c, "Username already taken")
	case errors.Is(err, errNotSelf):
		response.ForbiddenMsg(c, "You are not authorized for this action")
	case errors.Is(err, errCannotFollowSelf):
		response.BadRequest(c, "You cannot follow yourself")
	default:
		response.InternalError(c, err)
	}
}
