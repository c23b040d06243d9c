package services

import (
	"github.com/temcen/laptop-advisor/pkg/models"
)

// UIConfigService hands out the client layout defaults.
type UIConfigService struct {
	maxResults int
}

func NewUIConfigService(maxResults int) *UIConfigService {
	if maxResults <= 0 {
		maxResults = 5
	}
	return &UIConfigService{maxResults: maxResults}
}

// GetAdaptiveUIConfig returns static defaults. The "device" and "theme"
// context keys select between the fixed variants.
func (s *UIConfigService) GetAdaptiveUIConfig(userID string, context map[string]string) models.UIConfig {
	cfg := models.UIConfig{
		UserID:  userID,
		Layout:  "grid",
		Density: "comfortable",
		Theme:   "light",
		FilterVisibility: map[string]bool{
			"price":    true,
			"brand":    true,
			"purpose":  true,
			"ram":      true,
			"storage":  false,
			"graphics": false,
		},
		MaxResults:     s.maxResults,
		ShowComparison: true,
		QuickReplies:   append([]models.Affordance(nil), purposeAffordances...),
	}

	if context["device"] == "mobile" {
		cfg.Layout = "list"
		cfg.Density = "compact"
		cfg.ShowComparison = false
		cfg.FilterVisibility["ram"] = false
	}
	if theme := context["theme"]; theme == "dark" || theme == "light" {
		cfg.Theme = theme
	}
	return cfg
}
