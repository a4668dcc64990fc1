package comment

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/inkverse/core/internal/middleware"
	"github.com/inkverse/core/internal/pkg/response"
)

// Handler exposes comment routes under the /blogs prefix.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts comment endpoints on the blogs route group.
// Both creation routes share the first wildcard segment: for a top-level
// comment :id is the blog id, for a reply :id is the parent comment id.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.POST("/comment/:id", authMW, h.create)
	rg.POST("/comment/:id/:blogId", authMW, h.reply)
	rg.PATCH("/like-comment/:id", authMW, h.toggleLike)
	rg.PATCH("/edit-comment/:id", authMW, h.edit)
	rg.DELETE("/comment/:id", authMW, h.delete)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateCommentDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	node, err := h.svc.Create(c.Param("id"), middleware.CurrentUserID(c), dto.Text)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Created(c, toResponse(node))
}

func (h *Handler) reply(c *gin.Context) {
	var dto CreateCommentDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	root, err := h.svc.Reply(c.Param("id"), c.Param("blogId"), middleware.CurrentUserID(c), dto.Text)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Created(c, toResponse(root))
}

func (h *Handler) toggleLike(c *gin.Context) {
	node, err := h.svc.ToggleLike(c.Param("id"), middleware.CurrentUserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, toResponse(node))
}

func (h *Handler) edit(c *gin.Context) {
	var dto EditCommentDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	node, err := h.svc.Edit(c.Param("id"), middleware.CurrentUserID(c), dto.Text)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, toResponse(node))
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id"), middleware.CurrentUserID(c)); err != nil {
		h.fail(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errTextRequired):
		response.BadRequest(c, err.Error())
	case errors.Is(err, errBlogNotFound),
		errors.Is(err, errCommentNotFound),
		errors.Is(err, errCommentParentNotFound):
		response.NotFoundMsg(c, err.Error())
	case errors.Is(err, errNotCommentAuthor):
		response.Forbidden(c)
	default:
		response.InternalError(c, err)
	}
}
