package handler

import (
	"baysawaar-server/internal/apierrors"
	authHandler "baysawaar-server/internal/auth/handler"
	"baysawaar-server/internal/contact/processor"
	"baysawaar-server/internal/observability"
	"baysawaar-server/internal/validation"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	processor processor.ContactProcessor
	logger    *observability.Logger
}

func New(processor processor.ContactProcessor, logger *observability.Logger) Handler {
	return Handler{processor: processor, logger: logger}
}

type SubmitContactRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Company  string `json:"company"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
	Category string `json:"category"`
}

// UpdateContactRequest is a partial update. Omitted fields are unchanged,
// an empty assignedTo unassigns and a note is appended.
type UpdateContactRequest struct {
	Status     *string `json:"status"`
	Priority   *string `json:"priority"`
	AssignedTo *string `json:"assignedTo"`
	Response   *string `json:"response"`
	Note       string  `json:"note"`
}

// HandleSubmitContact handles POST /api/contacts/submit
func (h *Handler) HandleSubmitContact(c *gin.Context) {
	ctx := c.Request.Context()

	var req SubmitContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondWithValidationError(c, err)
		return
	}

	contact, err := h.processor.Submit(ctx, processor.SubmitParams{
		Payload: validation.Payload{
			"name":     req.Name,
			"email":    req.Email,
			"phone":    req.Phone,
			"company":  req.Company,
			"subject":  req.Subject,
			"message":  req.Message,
			"category": req.Category,
		},
		IPAddress: observability.GetRealClientIP(c),
		UserAgent: observability.GetRealUserAgent(c),
	})
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Your message has been received. We will get back to you shortly.",
		"contact": gin.H{"id": contact.ID, "status": contact.Status},
	})
}

// HandleListContacts handles GET /api/admin/contacts
func (h *Handler) HandleListContacts(c *gin.Context) {
	ctx := c.Request.Context()

	params := processor.ListParams{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Priority: c.Query("priority"),
	}
	if raw := c.Query("assignedTo"); raw != "" {
		assignee, err := uuid.Parse(raw)
		if err != nil {
			apierrors.RespondWithError(c, apierrors.Validation([]validation.FieldError{{
				Field:   "assignedTo",
				Message: "assignedTo must be a valid user id",
			}}))
			return
		}
		params.AssignedTo = &assignee
	}
	if !apierrors.BindQueryInt(c, "page", &params.Page) || !apierrors.BindQueryInt(c, "limit", &params.Limit) {
		return
	}

	result, err := h.processor.List(ctx, params)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandleUpdateContact handles PATCH /api/admin/contacts/:id
func (h *Handler) HandleUpdateContact(c *gin.Context) {
	ctx := c.Request.Context()

	contactID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeInvalidInput, "Invalid contact ID format"))
		return
	}
	ctx = observability.WithFields(ctx, observability.Field{Key: "contact_id", Value: contactID.String()})

	var req UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondWithValidationError(c, err)
		return
	}

	reviewerID, _ := uuid.Parse(c.GetString(authHandler.ContextUserID))
	contact, err := h.processor.Update(ctx, contactID, processor.UpdateParams{
		ReviewerID: reviewerID,
		Status:     req.Status,
		Priority:   req.Priority,
		AssignedTo: req.AssignedTo,
		Response:   req.Response,
		Note:       req.Note,
	})
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"contact": contact})
}
