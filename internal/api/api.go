package api

import (
	authHandler "baysawaar-server/internal/auth/handler"
	"baysawaar-server/internal/captcha"
	contactHandler "baysawaar-server/internal/contact/handler"
	enrollmentHandler "baysawaar-server/internal/enrollment/handler"
	"baysawaar-server/internal/observability"
	"baysawaar-server/internal/ratelimit"
	"baysawaar-server/internal/store"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type API struct {
	router            *gin.RouterGroup
	authHandler       authHandler.Handler
	enrollmentHandler enrollmentHandler.Handler
	contactHandler    contactHandler.Handler
	rateLimiter       *ratelimit.Service
	captcha           captcha.Verifier
	submitLimit       int
	uploadsDir        string
	logger            *observability.Logger
}

type Options struct {
	// SubmitLimit is the number of public submissions allowed per client per minute.
	SubmitLimit int
	// UploadsDir, when set, is served under /uploads.
	UploadsDir string
	// Captcha, when enabled, must pass before public submissions are read.
	Captcha captcha.Verifier
}

func New(
	router *gin.RouterGroup,
	authHandler authHandler.Handler,
	enrollmentHandler enrollmentHandler.Handler,
	contactHandler contactHandler.Handler,
	rateLimiter *ratelimit.Service,
	logger *observability.Logger,
	opts Options,
) API {
	return API{
		router:            router,
		authHandler:       authHandler,
		enrollmentHandler: enrollmentHandler,
		contactHandler:    contactHandler,
		rateLimiter:       rateLimiter,
		captcha:           opts.Captcha,
		submitLimit:       opts.SubmitLimit,
		uploadsDir:        opts.UploadsDir,
		logger:            logger,
	}
}

func (a *API) RegisterRoutes() {
	a.Health()
	a.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if a.uploadsDir != "" {
		a.router.Static("/uploads", a.uploadsDir)
	}

	reviewers := authHandler.RequireRole(store.UserRoleReviewer, store.UserRoleAdmin)
	admins := authHandler.RequireRole(store.UserRoleAdmin)
	human := captcha.Middleware(a.captcha, a.logger)

	apiGroup := a.router.Group("/api")
	{
		authGroup := apiGroup.Group("/auth")
		authGroup.POST("/signup", a.authHandler.HandleSignup)
		authGroup.POST("/login", a.authHandler.HandleLogin)
		authGroup.GET("/me", a.authHandler.RequireAuth, a.authHandler.HandleGetCurrentUser)
	}
	enrollmentGroup := apiGroup.Group("/enrollments")
	{
		enrollmentGroup.POST("/submit",
			a.rateLimiter.Middleware("enrollment_submit", a.submitLimit),
			human,
			a.authHandler.OptionalAuth,
			a.enrollmentHandler.HandleSubmitEnrollment,
		)
		enrollmentGroup.GET("/my-status", a.authHandler.RequireAuth, a.enrollmentHandler.HandleGetMyEnrollments)
		enrollmentGroup.GET("/:id", a.authHandler.RequireAuth, a.enrollmentHandler.HandleGetEnrollment)
	}
	apiGroup.POST("/contacts/submit",
		a.rateLimiter.Middleware("contact_submit", a.submitLimit),
		human,
		a.contactHandler.HandleSubmitContact,
	)

	adminGroup := apiGroup.Group("/admin", a.authHandler.RequireAuth, reviewers)
	{
		adminGroup.GET("/enrollments", a.enrollmentHandler.HandleListEnrollments)
		adminGroup.GET("/enrollments/:id", a.enrollmentHandler.HandleGetEnrollment)
		adminGroup.PUT("/enrollments/:id", a.enrollmentHandler.HandleUpdateEnrollment)
		adminGroup.DELETE("/enrollments/:id", admins, a.enrollmentHandler.HandleDeleteEnrollment)

		adminGroup.GET("/contacts", a.contactHandler.HandleListContacts)
		adminGroup.PATCH("/contacts/:id", a.contactHandler.HandleUpdateContact)
	}
}

func (a *API) Health() {
	a.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
}
