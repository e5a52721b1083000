package turnstile

import (
	"baysawaar-server/internal/observability"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func siteverify(t *testing.T) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "secret", r.PostForm.Get("secret"))

		resp := siteverifyResponse{Hostname: "baysawaar.com"}
		switch r.PostForm.Get("response") {
		case "valid":
			resp.Success = true
		case "elsewhere":
			resp.Success = true
			resp.Hostname = "attacker.example"
		default:
			resp.ErrorCodes = []string{"invalid-input-response"}
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestClient_Verify(t *testing.T) {
	ts := siteverify(t)
	defer ts.Close()

	client := NewClient("secret", observability.NewLogger(), WithVerifyURL(ts.URL), WithHostname("baysawaar.com"))
	require.True(t, client.IsEnabled())

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "valid token", token: "valid"},
		{name: "rejected token", token: "forged", wantErr: ErrVerificationFail},
		{name: "token from another host", token: "elsewhere", wantErr: ErrVerificationFail},
		{name: "empty token", token: "", wantErr: ErrInvalidToken},
		{name: "oversized token", token: strings.Repeat("x", maxTokenLength+1), wantErr: ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := client.Verify(context.Background(), tt.token, "203.0.113.7")
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClient_UpstreamFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	err := NewClient("secret", observability.NewLogger(), WithVerifyURL(ts.URL)).Verify(context.Background(), "valid", "")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrVerificationFail)
}

func TestClient_Disabled(t *testing.T) {
	assert.False(t, NewClient("", observability.NewLogger()).IsEnabled())

	var nilClient *Client
	assert.False(t, nilClient.IsEnabled())
}
