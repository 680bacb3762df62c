package email

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	appcma "github.com/closeline/backend/internal/application/cma"
	"github.com/closeline/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Client sends transactional email through the Resend HTTP API. It
// backs both report shares and closing-reminder email delivery.
type Client struct {
	baseURL     string
	apiKey      string
	fromAddress string
	fromName    string
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewClient creates an email client from configuration
func NewClient(cfg config.EmailConfig, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("email: API key is required")
	}
	if cfg.FromAddress == "" {
		return nil, fmt.Errorf("email: from address is required")
	}

	baseURL := strings.TrimRight(cfg.APIBaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.resend.com"
	}

	return &Client{
		baseURL:     baseURL,
		apiKey:      cfg.APIKey,
		fromAddress: cfg.FromAddress,
		fromName:    cfg.FromName,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}, nil
}

type attachmentPayload struct {
	Filename string `json:"filename"`
	Content  string `json:"content"` // base64
}

type sendRequest struct {
	From        string              `json:"from"`
	To          []string            `json:"to"`
	Subject     string              `json:"subject"`
	HTML        string              `json:"html"`
	Attachments []attachmentPayload `json:"attachments,omitempty"`
}

type sendResponse struct {
	ID string `json:"id"`
}

type errorResponse struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Send delivers a message with an optional PDF attachment
func (c *Client) Send(ctx context.Context, msg appcma.EmailMessage) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("email: at least one recipient is required")
	}

	req := sendRequest{
		From:    c.from(),
		To:      msg.To,
		Subject: msg.Subject,
		HTML:    msg.HTML,
	}
	if msg.Attachment != nil {
		req.Attachments = []attachmentPayload{{
			Filename: msg.Attachment.Filename,
			Content:  base64.StdEncoding.EncodeToString(msg.Attachment.Content),
		}}
	}

	return c.post(ctx, req)
}

// SendReminderEmail delivers a closing reminder to a single recipient
func (c *Client) SendReminderEmail(ctx context.Context, to, subject, html string) error {
	return c.post(ctx, sendRequest{
		From:    c.from(),
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	})
}

func (c *Client) from() string {
	if c.fromName == "" {
		return c.fromAddress
	}
	return fmt.Sprintf("%s <%s>", c.fromName, c.fromAddress)
}

func (c *Client) post(ctx context.Context, payload sendRequest) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("email: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("email: build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("email: send request: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("email: read response: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		var apiErr errorResponse
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Message != "" {
			return fmt.Errorf("email: send failed (%d): %s", httpResp.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("email: send failed with status %d", httpResp.StatusCode)
	}

	var resp sendResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return fmt.Errorf("email: decode response: %w", err)
	}

	c.logger.Info("Email sent",
		zap.String("message_id", resp.ID),
		zap.Int("recipients", len(payload.To)),
		zap.Bool("has_attachment", len(payload.Attachments) > 0))

	return nil
}
