package handler

//go:generate go run go.uber.org/mock/mockgen@latest -source=auth.go -destination=mocks_test.go -package=handler

import (
	"baysawaar-server/internal/apierrors"
	"baysawaar-server/internal/auth/processor"
	"baysawaar-server/internal/observability"
	"baysawaar-server/internal/store"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuthProcessor defines the account operations required by Handler
type AuthProcessor interface {
	Signup(ctx context.Context, params processor.SignupParams) (store.User, error)
	Login(ctx context.Context, email string, password string) (processor.LoginResult, error)
	GetUser(ctx context.Context, userID uuid.UUID) (store.User, error)
	ValidateJWTToken(ctx context.Context, token string) (processor.BaseClaims, error)
}

type Handler struct {
	authProcessor AuthProcessor
	logger        *observability.Logger
}

type SignupRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	Phone     string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func New(authProcessor AuthProcessor, logger *observability.Logger) Handler {
	return Handler{authProcessor: authProcessor, logger: logger}
}

func (h *Handler) HandleSignup(c *gin.Context) {
	ctx := c.Request.Context()

	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondWithValidationError(c, err)
		return
	}

	user, err := h.authProcessor.Signup(ctx, processor.SignupParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Phone:     req.Phone,
	})
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Account created", "user": user})
}

func (h *Handler) HandleLogin(c *gin.Context) {
	ctx := c.Request.Context()

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondWithValidationError(c, err)
		return
	}

	result, err := h.authProcessor.Login(ctx, req.Email, req.Password)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) HandleGetCurrentUser(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := uuid.Parse(c.GetString(ContextUserID))
	if err != nil {
		h.logger.Error(ctx, "failed to parse user id from context", err)
		apierrors.RespondWithError(c, apierrors.Unauthorized("Authentication required"))
		return
	}

	user, err := h.authProcessor.GetUser(ctx, userID)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
