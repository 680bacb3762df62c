package slack

// apiResponse is the envelope every Slack Web API call returns
type apiResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type channelObject struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	IsArchived bool   `json:"is_archived"`
}

type userObject struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	RealName string `json:"real_name,omitempty"`
	Deleted  bool   `json:"deleted"`
}

type createConversationRequest struct {
	Name      string `json:"name"`
	IsPrivate bool   `json:"is_private"`
}

type createConversationResponse struct {
	apiResponse
	Channel channelObject `json:"channel"`
}

type inviteConversationRequest struct {
	Channel string `json:"channel"`
	Users   string `json:"users"` // comma separated user IDs
}

type archiveConversationRequest struct {
	Channel string `json:"channel"`
}

type postMessageRequest struct {
	Channel string `json:"channel"`
	Text    string `json:"text"`
	// mrkdwn is on by default; links are posted without unfurling
	UnfurlLinks bool `json:"unfurl_links"`
}

type postMessageResponse struct {
	apiResponse
	Channel string `json:"channel"`
	TS      string `json:"ts"`
}

type lookupByEmailResponse struct {
	apiResponse
	User userObject `json:"user"`
}
