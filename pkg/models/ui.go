package models

// UIConfig is the adaptive UI configuration handed to clients.
type UIConfig struct {
	UserID           string          `json:"user_id"`
	Layout           string          `json:"layout"`
	Density          string          `json:"density"`
	Theme            string          `json:"theme"`
	FilterVisibility map[string]bool `json:"filter_visibility"`
	MaxResults       int             `json:"max_results"`
	ShowComparison   bool            `json:"show_comparison"`
	QuickReplies     []Affordance    `json:"quick_replies"`
}
