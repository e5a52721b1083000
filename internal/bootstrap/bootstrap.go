package bootstrap

import (
	"baysawaar-server/internal/attachments"
	"baysawaar-server/internal/config"
	"baysawaar-server/internal/locks"
	"baysawaar-server/internal/observability"
	"baysawaar-server/internal/ratelimit"
	"baysawaar-server/internal/storage"
	"baysawaar-server/internal/store"
	"context"
	"fmt"
	"io"

	authHandler "baysawaar-server/internal/auth/handler"
	authProcessor "baysawaar-server/internal/auth/processor"
	"baysawaar-server/internal/clients/mail"
	redisClient "baysawaar-server/internal/clients/redis"
	"baysawaar-server/internal/clients/turnstile"
	contactHandler "baysawaar-server/internal/contact/handler"
	contactProcessor "baysawaar-server/internal/contact/processor"
	"baysawaar-server/internal/email"
	enrollmentHandler "baysawaar-server/internal/enrollment/handler"
	enrollmentProcessor "baysawaar-server/internal/enrollment/processor"
)

// Dependencies holds all initialized application dependencies
type Dependencies struct {
	// Core
	Store   store.Storer
	Storage storage.Provider
	Redis   *redisClient.Client
	Logger  *observability.Logger

	// Services
	EmailService *email.EmailService
	RateLimiter  *ratelimit.Service
	Captcha      *turnstile.Client

	// Handlers
	AuthHandler       authHandler.Handler
	EnrollmentHandler enrollmentHandler.Handler
	ContactHandler    contactHandler.Handler

	// LocalUploadsDir is set when attachments are kept on local disk and
	// must be served by the API itself.
	LocalUploadsDir string
}

// Initialize sets up all application dependencies
func Initialize(ctx context.Context, cfg *config.Config, logger *observability.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Logger: logger,
	}

	// Initialize the store
	switch cfg.Database.Driver {
	case config.DatabaseDriverMemory:
		logger.Warn(ctx, "using in-memory store, data is lost on restart")
		deps.Store = store.NewMemoryStore()
	default:
		pgStore, err := store.New(cfg.Database.ConnectionString(), logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		deps.Store = pgStore
	}

	// Initialize the object store for attachments
	provider, err := storage.New(ctx, cfg.Storage, logger)
	if err != nil {
		deps.Cleanup()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	deps.Storage = provider
	if local, ok := provider.(*storage.LocalProvider); ok {
		deps.LocalUploadsDir = local.BasePath()
	}

	// Initialize Redis, shared by the rate limiter and the submission lock
	deps.Redis, err = redisClient.NewClient(cfg.Redis, logger)
	if err != nil {
		deps.Cleanup()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	// A submission holds its lock through the attachment upload, so the
	// lock must outlive the slowest upload the server allows.
	lockTTL := max(cfg.Uploads.UploadTimeout, cfg.Server.MultipartTimeout) + locks.DefaultTTL
	var locker enrollmentProcessor.SubmissionLocker
	if deps.Redis.IsEnabled() {
		locker = locks.NewRedisLocker(deps.Redis.GetClient(), locks.WithTTL(lockTTL))
	} else {
		locker = locks.NewLocalLocker()
	}
	deps.RateLimiter = ratelimit.NewService(deps.Redis, logger)

	deps.Captcha = turnstile.NewClient(cfg.Captcha.TurnstileSecretKey, logger)
	if !deps.Captcha.IsEnabled() {
		logger.Info(ctx, "turnstile secret not set, public submissions are not challenged")
	}

	// Initialize email service; without an API key notifications are skipped
	var sender email.Sender
	if cfg.Email.Enabled {
		mailClient, err := mail.NewResendClient(cfg.Email.ResendAPIKey, logger)
		if err != nil {
			deps.Cleanup()
			return nil, fmt.Errorf("failed to create resend client: %w", err)
		}
		sender = mailClient
	} else {
		logger.Info(ctx, "email is disabled, notifications will be skipped")
	}
	deps.EmailService = email.New(sender, cfg.Email, cfg.Services.WebAppURI, logger)

	// Initialize auth processor and handler
	authProc := authProcessor.New(deps.Store, cfg.Auth, logger)
	if cfg.Auth.AdminEmail != "" {
		if _, err := authProc.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
			deps.Cleanup()
			return nil, fmt.Errorf("failed to provision admin account: %w", err)
		}
	}
	deps.AuthHandler = authHandler.New(&authProc, logger)

	// Initialize enrollment processor and handler
	attachmentHandler := attachments.New(deps.Storage, attachments.Config{
		MaxFileSize:   cfg.Uploads.MaxFileSize,
		MaxDocuments:  cfg.Uploads.MaxDocuments,
		UploadTimeout: cfg.Uploads.UploadTimeout,
	}, logger)
	enrollmentProc := enrollmentProcessor.New(deps.Store, attachmentHandler, locker, deps.EmailService, logger)
	deps.EnrollmentHandler = enrollmentHandler.New(enrollmentProc, cfg.Uploads, logger)

	// Initialize contact processor and handler
	contactProc := contactProcessor.New(deps.Store, deps.EmailService, logger)
	deps.ContactHandler = contactHandler.New(contactProc, logger)

	return deps, nil
}

// Cleanup closes all resources that need cleanup
func (d *Dependencies) Cleanup() {
	ctx := context.Background()
	if d.EmailService != nil {
		d.EmailService.Wait()
	}
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.Error(ctx, "failed to close redis client", err)
		}
	}
	if closer, ok := d.Storage.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			d.Logger.Error(ctx, "failed to close storage client", err)
		}
	}
	if d.Store != nil {
		if err := d.Store.Close(); err != nil {
			d.Logger.Error(ctx, "failed to close store", err)
		}
	}
}
