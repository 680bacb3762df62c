package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/closeline/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

const (
	methodConversationsCreate  = "conversations.create"
	methodConversationsInvite  = "conversations.invite"
	methodConversationsArchive = "conversations.archive"
	methodChatPostMessage      = "chat.postMessage"
	methodUsersLookupByEmail   = "users.lookupByEmail"
)

// Client is a minimal Slack Web API client covering the calls the
// transaction workspace needs: channel provisioning, invites, messages,
// and archiving.
type Client struct {
	baseURL    string
	botToken   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a Slack client from configuration
func NewClient(cfg config.SlackConfig, logger *zap.Logger) (*Client, error) {
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("slack: bot token is required")
	}

	baseURL := strings.TrimRight(cfg.APIBaseURL, "/")
	if baseURL == "" {
		baseURL = "https://slack.com/api"
	}

	return &Client{
		baseURL:  baseURL,
		botToken: cfg.BotToken,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
	}, nil
}

// CreateChannel creates a public channel and returns its ID.
// Returns ErrChannelNameTaken when the name is already in use.
func (c *Client) CreateChannel(ctx context.Context, name string) (string, error) {
	var resp createConversationResponse
	err := c.post(ctx, methodConversationsCreate, createConversationRequest{Name: name}, &resp)
	if err != nil {
		return "", err
	}

	c.logger.Info("Slack channel created",
		zap.String("channel_id", resp.Channel.ID),
		zap.String("name", resp.Channel.Name))

	return resp.Channel.ID, nil
}

// InviteUsers invites the given Slack user IDs into the channel.
// Users already in the channel are tolerated.
func (c *Client) InviteUsers(ctx context.Context, channelID string, userIDs []string) error {
	if len(userIDs) == 0 {
		return nil
	}

	var resp apiResponse
	err := c.post(ctx, methodConversationsInvite, inviteConversationRequest{
		Channel: channelID,
		Users:   strings.Join(userIDs, ","),
	}, &resp)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Code == "already_in_channel" {
			return nil
		}
		return err
	}

	return nil
}

// PostMessage posts a message to the channel
func (c *Client) PostMessage(ctx context.Context, channelID, text string) error {
	var resp postMessageResponse
	return c.post(ctx, methodChatPostMessage, postMessageRequest{
		Channel: channelID,
		Text:    text,
	}, &resp)
}

// ArchiveChannel archives the channel. Archiving an already archived
// channel is not an error.
func (c *Client) ArchiveChannel(ctx context.Context, channelID string) error {
	var resp apiResponse
	err := c.post(ctx, methodConversationsArchive, archiveConversationRequest{Channel: channelID}, &resp)
	if err != nil {
		if errors.Is(err, ErrAlreadyArchived) {
			return nil
		}
		return err
	}

	return nil
}

// LookupUserByEmail resolves a Slack user ID from an email address.
// Returns ErrUsersNotFound when no workspace member has this email.
func (c *Client) LookupUserByEmail(ctx context.Context, email string) (string, error) {
	endpoint := c.baseURL + "/" + methodUsersLookupByEmail + "?email=" + url.QueryEscape(email)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("slack: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.botToken)

	var resp lookupByEmailResponse
	if err := c.do(req, methodUsersLookupByEmail, &resp); err != nil {
		return "", err
	}
	if resp.User.Deleted {
		return "", fmt.Errorf("%w (%s)", ErrUsersNotFound, methodUsersLookupByEmail)
	}

	return resp.User.ID, nil
}

// post sends a JSON POST to a Slack Web API method and decodes the
// envelope, mapping ok=false responses to typed errors.
func (c *Client) post(ctx context.Context, method string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("slack: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+method, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("slack: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+c.botToken)

	return c.do(req, method, out)
}

func (c *Client) do(req *http.Request, method string, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w (%s)", ErrRateLimited, method)
	}
	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: HTTP %d (%s)", ErrUnavailable, resp.StatusCode, method)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("slack: failed to read response: %w", err)
	}

	// Decode the envelope first to surface ok=false before the payload
	var envelope apiResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return fmt.Errorf("slack: failed to parse response: %w", err)
	}
	if !envelope.OK {
		return mapAPIError(method, envelope.Error)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("slack: failed to parse response: %w", err)
		}
	}

	return nil
}
