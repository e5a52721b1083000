package handler

import (
	"baysawaar-server/internal/apierrors"
	"baysawaar-server/internal/attachments"
	authHandler "baysawaar-server/internal/auth/handler"
	"baysawaar-server/internal/config"
	"baysawaar-server/internal/enrollment/processor"
	"baysawaar-server/internal/observability"
	"baysawaar-server/internal/validation"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const multipartMemory = 8 << 20

type Handler struct {
	processor    processor.EnrollmentProcessor
	maxBodyBytes int64
	logger       *observability.Logger
}

// New creates an enrollment handler. Request bodies are capped to what the
// upload limits allow plus room for the text fields.
func New(processor processor.EnrollmentProcessor, uploads config.UploadConfig, logger *observability.Logger) Handler {
	maxBody := uploads.MaxFileSize*int64(uploads.MaxDocuments+1) + 1<<20
	return Handler{processor: processor, maxBodyBytes: maxBody, logger: logger}
}

type UpdateEnrollmentRequest struct {
	Status             string     `json:"status" binding:"required"`
	Notes              string     `json:"notes"`
	ReviewNotes        *string    `json:"reviewNotes"`
	RejectionReason    *string    `json:"rejectionReason"`
	ApprovalConditions []string   `json:"approvalConditions"`
	Priority           *string    `json:"priority"`
	Tags               []string   `json:"tags"`
	FollowUpDate       *time.Time `json:"followUpDate"`
}

// HandleSubmitEnrollment handles POST /api/enrollments/submit
func (h *Handler) HandleSubmitEnrollment(c *gin.Context) {
	ctx := c.Request.Context()

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes)
	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			apierrors.RespondWithError(c, &apierrors.APIError{
				StatusCode: http.StatusRequestEntityTooLarge,
				Code:       apierrors.CodeInvalidInput,
				Message:    "The request is larger than the allowed upload size",
			})
			return
		}
		h.logger.Warn(ctx, "failed to parse enrollment form", observability.Field{Key: "error", Value: err.Error()})
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeInvalidInput, "Invalid form data"))
		return
	}

	payload := validation.Payload{}
	for key, values := range c.Request.PostForm {
		if len(values) > 0 {
			payload[key] = values[0]
		}
	}

	params := processor.SubmitParams{Payload: payload}
	if form := c.Request.MultipartForm; form != nil {
		params.Logo = toFiles(form.File[attachments.FieldName(attachments.RoleLogo)])
		params.BusinessDocuments = toFiles(form.File[attachments.FieldName(attachments.RoleBusinessDocument)])
	}

	enrollment, err := h.processor.Submit(ctx, actorFromContext(c), params)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Your application has been submitted. We will review it and get back to you.",
		"enrollment": enrollment,
	})
}

func toFiles(headers []*multipart.FileHeader) []attachments.File {
	files := make([]attachments.File, 0, len(headers))
	for _, fh := range headers {
		files = append(files, attachments.File{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		})
	}
	return files
}

// HandleGetMyEnrollments handles GET /api/enrollments/my-status
func (h *Handler) HandleGetMyEnrollments(c *gin.Context) {
	ctx := c.Request.Context()

	enrollments, err := h.processor.MyStatus(ctx, actorFromContext(c))
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"enrollments": enrollments})
}

// HandleGetEnrollment handles GET /api/enrollments/:id and GET /api/admin/enrollments/:id
func (h *Handler) HandleGetEnrollment(c *gin.Context) {
	enrollmentID, ok := h.getEnrollmentID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	enrollment, err := h.processor.Get(ctx, actorFromContext(c), enrollmentID)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"enrollment": enrollment})
}

// HandleListEnrollments handles GET /api/admin/enrollments
func (h *Handler) HandleListEnrollments(c *gin.Context) {
	ctx := c.Request.Context()

	params := processor.ListParams{
		Status:   c.Query("status"),
		Type:     c.Query("type"),
		Priority: c.Query("priority"),
	}
	if !apierrors.BindQueryInt(c, "page", &params.Page) || !apierrors.BindQueryInt(c, "limit", &params.Limit) {
		return
	}

	result, err := h.processor.List(ctx, actorFromContext(c), params)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandleUpdateEnrollment handles PUT /api/admin/enrollments/:id
func (h *Handler) HandleUpdateEnrollment(c *gin.Context) {
	enrollmentID, ok := h.getEnrollmentID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var req UpdateEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondWithValidationError(c, err)
		return
	}

	enrollment, err := h.processor.Transition(ctx, actorFromContext(c), enrollmentID, processor.TransitionParams{
		Status:             req.Status,
		Notes:              req.Notes,
		ReviewNotes:        req.ReviewNotes,
		RejectionReason:    req.RejectionReason,
		ApprovalConditions: req.ApprovalConditions,
		Priority:           req.Priority,
		Tags:               req.Tags,
		FollowUpDate:       req.FollowUpDate,
	})
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Enrollment updated", "enrollment": enrollment})
}

// HandleDeleteEnrollment handles DELETE /api/admin/enrollments/:id
func (h *Handler) HandleDeleteEnrollment(c *gin.Context) {
	enrollmentID, ok := h.getEnrollmentID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if err := h.processor.Delete(ctx, actorFromContext(c), enrollmentID); err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) getEnrollmentID(c *gin.Context) (uuid.UUID, bool) {
	enrollmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeInvalidInput, "Invalid enrollment ID format"))
		return uuid.Nil, false
	}
	c.Request = c.Request.WithContext(observability.WithFields(c.Request.Context(),
		observability.Field{Key: "enrollment_id", Value: enrollmentID.String()},
	))
	return enrollmentID, true
}

// actorFromContext reads the identity set by the auth middlewares. Requests
// without one are anonymous.
func actorFromContext(c *gin.Context) processor.Actor {
	userID, err := uuid.Parse(c.GetString(authHandler.ContextUserID))
	if err != nil {
		return processor.Actor{}
	}
	return processor.Actor{
		UserID: userID,
		Email:  c.GetString(authHandler.ContextUserEmail),
		Role:   c.GetString(authHandler.ContextUserRole),
	}
}
