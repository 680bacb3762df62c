package email

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	appcma "github.com/closeline/backend/internal/application/cma"
	"github.com/closeline/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(config.EmailConfig{
		APIKey:      "re_test_key",
		APIBaseURL:  server.URL,
		FromAddress: "reports@lakeside-realty.com",
		FromName:    "Lakeside Realty",
	}, zap.NewNop())
	require.NoError(t, err)

	return client
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(config.EmailConfig{FromAddress: "a@b.com"}, zap.NewNop())
	assert.Error(t, err)

	_, err = NewClient(config.EmailConfig{APIKey: "re_test"}, zap.NewNop())
	assert.Error(t, err)
}

func TestClient_Send(t *testing.T) {
	var got map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_test_key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]any{"id": "msg_123"})
	})

	err := client.Send(context.Background(), appcma.EmailMessage{
		To:      []string{"client@example.com"},
		Subject: "Comparative Market Analysis: 412 Maple Ave",
		HTML:    "<p>Please find the report attached.</p>",
		Attachment: &appcma.EmailAttachment{
			Filename:    "cma-412-maple-ave-analysis.pdf",
			ContentType: "application/pdf",
			Content:     []byte("%PDF-1.7"),
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "Lakeside Realty <reports@lakeside-realty.com>", got["from"])
	assert.Equal(t, "Comparative Market Analysis: 412 Maple Ave", got["subject"])

	attachments := got["attachments"].([]any)
	require.Len(t, attachments, 1)
	attachment := attachments[0].(map[string]any)
	assert.Equal(t, "cma-412-maple-ave-analysis.pdf", attachment["filename"])

	decoded, err := base64.StdEncoding.DecodeString(attachment["content"].(string))
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.7"), decoded)
}

func TestClient_Send_NoRecipients(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request should not be sent")
	})

	err := client.Send(context.Background(), appcma.EmailMessage{Subject: "empty"})
	assert.Error(t, err)
}

func TestClient_Send_APIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]any{
			"name":    "validation_error",
			"message": "Invalid `to` address",
		})
	})

	err := client.SendReminderEmail(context.Background(), "not-an-address", "Closing reminder", "<p>hi</p>")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid `to` address")
}

func TestClient_SendReminderEmail(t *testing.T) {
	var got map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]any{"id": "msg_456"})
	})

	err := client.SendReminderEmail(context.Background(),
		"pat@lakeside.com", "Closing reminder: 412 Maple Ave", "<p>closes in 7 days</p>")

	require.NoError(t, err)
	to := got["to"].([]any)
	require.Len(t, to, 1)
	assert.Equal(t, "pat@lakeside.com", to[0])
	assert.Nil(t, got["attachments"])
}
