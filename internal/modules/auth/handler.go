package auth

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/inkverse/core/internal/models"
	"github.com/inkverse/core/internal/pkg/idp"
	"github.com/inkverse/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the authentication endpoints.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/signup", h.signup)
	rg.POST("/signin", h.signin)
	rg.GET("/verify-email/:token", h.verifyEmail)
	rg.POST("/google-auth", h.googleAuth)
}

func (h *Handler) signup(c *gin.Context) {
	var dto SignupDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if strings.TrimSpace(dto.Name) == "" {
		response.BadRequest(c, "Please enter the name")
		return
	}
	if strings.TrimSpace(dto.Email) == "" {
		response.BadRequest(c, "Please enter the email")
		return
	}
	if dto.Password == "" {
		response.BadRequest(c, "Please enter the password")
		return
	}
	if len(dto.Password) < 6 {
		response.BadRequest(c, "Password should be at least 6 characters long")
		return
	}

	if _, err := h.svc.Signup(dto); err != nil {
		h.fail(c, err)
		return
	}
	response.Created(c, gin.H{
		"message": "Verification email sent. Please verify your account to sign in.",
	})
}

func (h *Handler) signin(c *gin.Context) {
	var dto SigninDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if strings.TrimSpace(dto.Email) == "" {
		response.BadRequest(c, "Please enter the email")
		return
	}
	if dto.Password == "" {
		response.BadRequest(c, "Please enter the password")
		return
	}

	token, u, err := h.svc.Login(dto)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.session(c, token, u)
}

func (h *Handler) verifyEmail(c *gin.Context) {
	if err := h.svc.VerifyEmail(c.Param("token")); err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Email verified. You can sign in now."})
}

func (h *Handler) googleAuth(c *gin.Context) {
	var dto GoogleAuthDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	token, u, err := h.svc.GoogleAuth(c.Request.Context(), dto.credential())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.session(c, token, u)
}

func (h *Handler) session(c *gin.Context, token string, u *models.UserModel) {
	followers, err := h.svc.FollowerIDs(u.ID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	following, err := h.svc.FollowingIDs(u.ID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if followers == nil {
		followers = []string{}
	}
	if following == nil {
		following = []string{}
	}

	response.OK(c, loginResponse{
		Token: token,
		User: sessionUser{
			ID:             u.ID,
			Name:           u.Name,
			Email:          u.Email,
			Username:       u.Username,
			Bio:            u.Bio,
			ProfilePic:     u.ProfilePic,
			ShowLikedBlogs: u.ShowLikedBlogs,
			ShowSavedBlogs: u.ShowSavedBlogs,
			Followers:      followers,
			Following:      following,
		},
	})
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errEmailTaken):
		response.Conflict(c, "User already exists with this email")
	case errors.Is(err, errGoogleAccount),
		errors.Is(err, errPasswordAccount):
		response.BadRequest(c, err.Error())
	case errors.Is(err, errUserNotFound):
		response.NotFoundMsg(c, "User not found")
	case errors.Is(err, errWrongPassword):
		response.UnauthorizedMsg(c, "Incorrect password")
	case errors.Is(err, errNotVerified):
		response.ForbiddenMsg(c, "Please verify your email to sign in. A new verification link has been sent.")
	case errors.Is(err, errInvalidToken):
		response.BadRequest(c, err.Error())
	case errors.Is(err, idp.ErrInvalidToken):
		response.UnauthorizedMsg(c, "Google sign-in failed")
	default:
		response.InternalError(c, err)
	}
}
