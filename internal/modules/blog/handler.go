package blog

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/inkverse/core/internal/middleware"
	"github.com/inkverse/core/internal/models"
	"github.com/inkverse/core/internal/modules/comment"
	"github.com/inkverse/core/internal/pkg/pagination"
	"github.com/inkverse/core/internal/pkg/response"
)

// Handler exposes blog routes. The comment service is injected to attach
// the comment forest on blog detail reads.
type Handler struct {
	svc      *Service
	comments *comment.Service
}

func NewHandler(svc *Service, comments *comment.Service) *Handler {
	return &Handler{svc: svc, comments: comments}
}

// RegisterRoutes mounts blog endpoints on the blogs route group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.GET("", h.list)
	rg.GET("/drafts", authMW, h.drafts)
	rg.GET("/liked", authMW, h.liked)
	rg.GET("/saved", authMW, h.saved)
	rg.GET("/:blogId", h.get)
	rg.POST("", authMW, h.create)
	rg.PATCH("/:id", authMW, h.update)
	rg.DELETE("/:id", authMW, h.delete)
	rg.PATCH("/like/:id", authMW, h.toggleLike)
	rg.PATCH("/save/:id", authMW, h.toggleSave)
}

func (h *Handler) create(c *gin.Context) {
	in, ok := h.bindCreate(c)
	if !ok {
		return
	}

	b, err := h.svc.Create(c.Request.Context(), middleware.CurrentUserID(c), *in)
	if err != nil {
		h.fail(c, err)
		return
	}

	message := "Blog published successfully"
	if b.Draft {
		message = "Blog Saved as Draft. You can publish it from your profile."
	}
	response.Created(c, gin.H{"message": message, "blog": toResponse(b, nil, nil)})
}

func (h *Handler) list(c *gin.Context) {
	blogs, p, err := h.svc.List(pagination.FromContext(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Paged(c, h.toResponses(blogs), p)
}

func (h *Handler) get(c *gin.Context) {
	b, err := h.svc.GetBySlug(c.Request.Context(), c.Param("blogId"))
	if err != nil {
		h.fail(c, err)
		return
	}

	forest, err := h.comments.ForestForBlog(b.ID)
	if err != nil {
		h.fail(c, err)
		return
	}

	likes, err := h.svc.LikeUserIDs(b.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	saves, err := h.svc.SaveUserIDs(b.ID)
	if err != nil {
		h.fail(c, err)
		return
	}

	r := toResponse(b, likes, saves)
	r.Comments = comment.ToForestResponse(forest)
	response.OK(c, r)
}

func (h *Handler) update(c *gin.Context) {
	form, err := parseBlogForm(c)
	if err != nil {
		response.BadRequest(c, "invalid multipart form")
		return
	}

	in := UpdateBlogInput{
		Title:       form.Title,
		Description: form.Description,
		Draft:       form.Draft,
		Cover:       form.Cover,
		Images:      form.Images,
	}
	if err := decodeJSONField(form.ContentRaw, &in.Content); err != nil {
		response.BadRequest(c, "invalid content blocks")
		return
	}
	if err := decodeJSONField(form.TagsRaw, &in.Tags); err != nil {
		response.BadRequest(c, "invalid tags")
		return
	}
	if err := decodeJSONField(form.ExistingRaw, &in.ExistingImages); err != nil {
		response.BadRequest(c, "invalid existingImages")
		return
	}

	b, err := h.svc.Update(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, toResponse(b, nil, nil))
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) toggleLike(c *gin.Context) {
	liked, err := h.svc.ToggleLike(middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, gin.H{"liked": liked})
}

func (h *Handler) toggleSave(c *gin.Context) {
	saved, err := h.svc.ToggleSave(middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, gin.H{"saved": saved})
}

func (h *Handler) drafts(c *gin.Context) {
	blogs, p, err := h.svc.Drafts(middleware.CurrentUserID(c), pagination.FromContext(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Paged(c, h.toResponses(blogs), p)
}

func (h *Handler) liked(c *gin.Context) {
	blogs, p, err := h.svc.Liked(middleware.CurrentUserID(c), pagination.FromContext(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Paged(c, h.toResponses(blogs), p)
}

func (h *Handler) saved(c *gin.Context) {
	blogs, p, err := h.svc.Saved(middleware.CurrentUserID(c), pagination.FromContext(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Paged(c, h.toResponses(blogs), p)
}

func (h *Handler) bindCreate(c *gin.Context) (*CreateBlogInput, bool) {
	form, err := parseBlogForm(c)
	if err != nil {
		response.BadRequest(c, "invalid multipart form")
		return nil, false
	}

	in := CreateBlogInput{
		Title:       form.Title,
		Description: form.Description,
		Draft:       form.Draft,
		Cover:       form.Cover,
		Images:      form.Images,
	}
	if err := decodeJSONField(form.ContentRaw, &in.Content); err != nil {
		response.BadRequest(c, "invalid content blocks")
		return nil, false
	}
	if err := decodeJSONField(form.TagsRaw, &in.Tags); err != nil {
		response.BadRequest(c, "invalid tags")
		return nil, false
	}
	return &in, true
}

func (h *Handler) toResponses(blogs []models.BlogModel) []blogResponse {
	out := make([]blogResponse, len(blogs))
	for i := range blogs {
		out[i] = toResponse(&blogs[i], nil, nil)
	}
	return out
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errTitleRequired),
		errors.Is(err, errDescriptionMissing),
		errors.Is(err, errContentMissing):
		response.BadRequest(c, err.Error())
	case errors.Is(err, errBlogNotFound):
		response.NotFoundMsg(c, err.Error())
	case errors.Is(err, errNotBlogCreator):
		response.Forbidden(c)
	default:
		response.InternalError(c, err)
	}
}
