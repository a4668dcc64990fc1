package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkverse/core/internal/middleware"
	"github.com/inkverse/core/internal/modules/auth"
	"github.com/inkverse/core/internal/modules/blog"
	"github.com/inkverse/core/internal/modules/comment"
	"github.com/inkverse/core/internal/modules/user"
	"github.com/inkverse/core/internal/pkg/idp"
	"github.com/inkverse/core/internal/pkg/imagestore"
	"github.com/inkverse/core/internal/pkg/mail"
)

// registerRoutes builds services, handlers, and the route tree.
func (a *App) registerRoutes() {
	store := imagestore.New(a.cfg.S3)
	mailer := mail.New(a.cfg.Mail)
	verifier := idp.NewGoogle(a.cfg.GoogleClientID)

	authSvc := auth.NewService(a.db, mailer, verifier, a.cfg.SiteName, a.cfg.VerifyEmailURL)
	userSvc := user.NewService(a.db, store)
	commentSvc := comment.NewService(a.db)
	blogSvc := blog.NewService(a.db, store, a.rc)

	authMW := middleware.Auth()
	optionalMW := middleware.OptionalAuth()

	a.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	root := a.router.Group("")
	auth.NewHandler(authSvc).RegisterRoutes(root)
	user.NewHandler(userSvc).RegisterRoutes(root, authMW, optionalMW)

	blogs := a.router.Group("/blogs")
	blog.NewHandler(blogSvc, commentSvc).RegisterRoutes(blogs, authMW)
	comment.NewHandler(commentSvc).RegisterRoutes(blogs, authMW)
}
