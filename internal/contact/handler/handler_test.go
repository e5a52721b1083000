package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	authHandler "baysawaar-server/internal/auth/handler"
	"baysawaar-server/internal/contact/processor"
	"baysawaar-server/internal/observability"
	"baysawaar-server/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type recordingNotifier struct {
	received []store.Contact
}

func (n *recordingNotifier) ContactReceived(_ context.Context, contact store.Contact) {
	n.received = append(n.received, contact)
}

func setupRouter(t *testing.T) (*gin.Engine, *store.MemoryStore, *recordingNotifier) {
	t.Helper()
	logger := observability.NewLogger()
	memStore := store.NewMemoryStore()
	notifier := &recordingNotifier{}
	h := New(processor.New(memStore, notifier, logger), logger)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if id := c.GetHeader("X-Test-User"); id != "" {
			c.Set(authHandler.ContextUserID, id)
		}
		c.Next()
	})
	r.POST("/api/contacts/submit", h.HandleSubmitContact)
	r.GET("/api/admin/contacts", h.HandleListContacts)
	r.PATCH("/api/admin/contacts/:id", h.HandleUpdateContact)
	return r, memStore, notifier
}

func do(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return doAs(t, r, uuid.Nil, method, path, body)
}

func doAs(t *testing.T, r http.Handler, reviewer uuid.UUID, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "handler-test")
	if reviewer != uuid.Nil {
		req.Header.Set("X-Test-User", reviewer.String())
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandleSubmitContact(t *testing.T) {
	r, memStore, notifier := setupRouter(t)

	w := do(t, r, http.MethodPost, "/api/contacts/submit", SubmitContactRequest{
		Name:     "Moussa Diop",
		Email:    "moussa@example.com",
		Subject:  "Question",
		Message:  "Do you ship to Kaolack?",
		Category: "information",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	contacts, err := memStore.ListContacts(context.Background(), store.ListContactsParams{})
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, store.ContactStatusNew, contacts[0].Status)
	assert.Equal(t, "handler-test", contacts[0].UserAgent)
	assert.Len(t, notifier.received, 1)
}

func TestHandleSubmitContact_FieldErrors(t *testing.T) {
	r, _, notifier := setupRouter(t)

	w := do(t, r, http.MethodPost, "/api/contacts/submit", SubmitContactRequest{Name: "Moussa", Email: "not-an-email"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Code   string `json:"code"`
		Errors []struct {
			Field string `json:"field"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "VALIDATION_FAILED", body.Code)
	var fields []string
	for _, e := range body.Errors {
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{"email", "subject", "message", "category"}, fields)
	assert.Empty(t, notifier.received)
}

func TestHandleUpdateContact(t *testing.T) {
	r, memStore, _ := setupRouter(t)

	contact, err := memStore.CreateContact(context.Background(), store.CreateContactParams{
		Name: "Moussa", Email: "moussa@example.com", Subject: "Hi", Message: "Hello", Category: "support",
	})
	require.NoError(t, err)
	path := "/api/admin/contacts/" + contact.ID.String()

	tests := []struct {
		name           string
		path           string
		body           any
		expectedStatus int
	}{
		{"resolved", path, map[string]string{"status": "resolved"}, http.StatusOK},
		{"priority", path, map[string]string{"priority": "high"}, http.StatusOK},
		{"invalid id", "/api/admin/contacts/abc", map[string]string{"status": "resolved"}, http.StatusBadRequest},
		{"empty body", path, map[string]string{}, http.StatusBadRequest},
		{"unknown status", path, map[string]string{"status": "archived"}, http.StatusBadRequest},
		{"unknown priority", path, map[string]string{"priority": "critical"}, http.StatusBadRequest},
		{"unknown contact", "/api/admin/contacts/" + uuid.NewString(), map[string]string{"status": "closed"}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, r, http.MethodPatch, tt.path, tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
		})
	}
}

func TestHandleUpdateContact_ReviewFlow(t *testing.T) {
	r, memStore, _ := setupRouter(t)
	ctx := context.Background()

	reviewer, err := memStore.CreateUser(ctx, store.CreateUserParams{Email: "reviewer@baysawaar.sn", Role: store.UserRoleReviewer})
	require.NoError(t, err)
	applicant, err := memStore.CreateUser(ctx, store.CreateUserParams{Email: "awa@example.com", Role: store.UserRoleUser})
	require.NoError(t, err)
	contact, err := memStore.CreateContact(ctx, store.CreateContactParams{
		Name: "Moussa", Email: "moussa@example.com", Subject: "Late delivery", Message: "Still waiting", Category: "complaint",
	})
	require.NoError(t, err)
	path := "/api/admin/contacts/" + contact.ID.String()

	w := doAs(t, r, reviewer.ID, http.MethodPatch, path, map[string]string{"assignedTo": applicant.ID.String()})
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "assignedTo")

	w = doAs(t, r, reviewer.ID, http.MethodPatch, path, map[string]string{
		"status":     "in-progress",
		"priority":   "urgent",
		"assignedTo": reviewer.ID.String(),
		"response":   "We have escalated your complaint.",
		"note":       "Called the customer",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Contact store.Contact `json:"contact"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, store.ContactStatusInProgress, resp.Contact.Status)
	assert.Equal(t, store.ContactPriorityUrgent, resp.Contact.Priority)
	require.NotNil(t, resp.Contact.AssignedTo)
	assert.Equal(t, reviewer.ID, *resp.Contact.AssignedTo)
	require.NotNil(t, resp.Contact.Response)
	assert.Equal(t, reviewer.ID, *resp.Contact.Response.RespondedBy)
	require.Len(t, resp.Contact.Notes, 1)
	assert.Equal(t, reviewer.ID, *resp.Contact.Notes[0].AddedBy)

	w = doAs(t, r, reviewer.ID, http.MethodPatch, path, map[string]string{"note": "Refund approved"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Contact.Notes, 2)
	assert.Equal(t, "Called the customer", resp.Contact.Notes[0].Content)

	w = do(t, r, http.MethodGet, "/api/admin/contacts?assignedTo="+reviewer.ID.String()+"&priority=urgent", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list processor.ListResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.TotalCount)

	w = doAs(t, r, reviewer.ID, http.MethodPatch, path, map[string]string{"assignedTo": ""})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp.Contact = store.Contact{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Nil(t, resp.Contact.AssignedTo)
	assert.Len(t, resp.Contact.Notes, 2)
}

func TestHandleListContacts(t *testing.T) {
	r, memStore, _ := setupRouter(t)

	for i := 0; i < 3; i++ {
		_, err := memStore.CreateContact(context.Background(), store.CreateContactParams{
			Name: "Moussa", Email: "moussa@example.com", Subject: "Hi", Message: "Hello", Category: "support",
		})
		require.NoError(t, err)
	}

	w := do(t, r, http.MethodGet, "/api/admin/contacts?page=2&limit=2&category=support", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var result processor.ListResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 3, result.TotalCount)
	assert.Equal(t, 2, result.TotalPages)
	assert.Len(t, result.Contacts, 1)
}

func TestHandleListContacts_MalformedQuery(t *testing.T) {
	r, _, _ := setupRouter(t)

	for _, query := range []string{"page=abc", "limit=ten", "assignedTo=someone"} {
		t.Run(query, func(t *testing.T) {
			w := do(t, r, http.MethodGet, "/api/admin/contacts?"+query, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}
