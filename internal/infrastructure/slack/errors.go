package slack

import (
	"errors"
	"fmt"
)

// Sentinel errors mapped from Slack API error codes
var (
	ErrChannelNameTaken = errors.New("slack: channel name already taken")
	ErrChannelNotFound  = errors.New("slack: channel not found")
	ErrAlreadyArchived  = errors.New("slack: channel is already archived")
	ErrUsersNotFound    = errors.New("slack: users not found")
	ErrNotAuthed        = errors.New("slack: invalid or missing bot token")
	ErrRateLimited      = errors.New("slack: rate limited")
	ErrUnavailable      = errors.New("slack: service unavailable")
)

// APIError carries the raw Slack error code for codes without a sentinel
type APIError struct {
	Method string
	Code   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("slack: %s failed: %s", e.Method, e.Code)
}

// mapAPIError maps a Slack error code to a sentinel error where one
// exists, otherwise returns an APIError with the raw code.
func mapAPIError(method, code string) error {
	switch code {
	case "name_taken":
		return fmt.Errorf("%w (%s)", ErrChannelNameTaken, method)
	case "channel_not_found", "is_archived":
		return fmt.Errorf("%w (%s)", ErrChannelNotFound, method)
	case "already_archived":
		return fmt.Errorf("%w (%s)", ErrAlreadyArchived, method)
	case "users_not_found", "user_not_found":
		return fmt.Errorf("%w (%s)", ErrUsersNotFound, method)
	case "not_authed", "invalid_auth", "token_revoked", "account_inactive":
		return fmt.Errorf("%w (%s)", ErrNotAuthed, method)
	case "ratelimited", "rate_limited":
		return fmt.Errorf("%w (%s)", ErrRateLimited, method)
	default:
		return &APIError{Method: method, Code: code}
	}
}
