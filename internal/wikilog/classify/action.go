package classify

// Top-level action types. The first path segment of a request selects one of them.
const (
	ActionDisplay  = "display"
	ActionDownload = "download"
	ActionLabels   = "labels"
	ActionSpaces   = "spaces"
	ActionPages    = "pages"
	ActionUnknown  = "unknown"
)

// homepageAction is the landing page Confluence redirects to the configured home space.
const homepageAction = "homepage.action"

// Action is a user action / sub-action pair, e.g. create / blogpost.
type Action struct {
	UserAction    string `json:"user_action"`
	UserSubAction string `json:"user_sub_action"`
}

// ClassifiedAction is the interpretation of one request URL. It is built once
// by Classify and not modified afterwards.
type ClassifiedAction struct {
	ActionType    string `json:"action_type"`
	UserAction    string `json:"user_action,omitempty"`
	UserSubAction string `json:"user_sub_action,omitempty"`
	// ActionName is the raw second path segment for labels, spaces and pages
	// URLs, and "homepage.action" for the home page redirect.
	ActionName string `json:"action_name,omitempty"`
	PageID     string `json:"page_id,omitempty"`
	SpaceKey   string `json:"space_key,omitempty"`
	Title      string `json:"title,omitempty"`

	QueryString     string   `json:"query_string,omitempty"`
	QueryProperties []string `json:"query_properties"`

	// UnknownActionURL is set only when ActionType is ActionUnknown.
	UnknownActionURL string `json:"unknown_action_url,omitempty"`

	UserID        string `json:"user_id"`
	IPAddress     string `json:"ip_address"`
	DateTimestamp string `json:"datetime"`
}

// Known reports whether the URL mapped onto a recognised action type.
func (a ClassifiedAction) Known() bool {
	return a.ActionType != ActionUnknown
}

// Action returns the user action / sub-action pair.
func (a ClassifiedAction) Action() Action {
	return Action{UserAction: a.UserAction, UserSubAction: a.UserSubAction}
}
