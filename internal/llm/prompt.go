package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/temcen/laptop-advisor/pkg/models"
)

// PromptContext is the conversation state embedded in the system prompt.
type PromptContext struct {
	Phase       models.Phase
	Preferences models.Preferences
	TurnCount   int
	Sample      []models.CandidateProduct
}

const responseContract = `Reply with a single JSON object and nothing else:
{
  "response": "<what you say to the user>",
  "phase": "initial|discovery|filtering|recommendation|refinement",
  "ui_elements": [{"type": "button|chip|slider", "label": "...", "value": "..."}],
  "collected_data": {"budget": {"min": 0, "max": 0}, "purposes": [], "brands": [], "specs": {}, "priorities": []},
  "database_filter": {"price_min": 0, "price_max": 0, "brands": []}
}
Omit collected_data and database_filter when you learned nothing new.`

// BuildSystemPrompt renders the advisor instructions for one turn.
func BuildSystemPrompt(pc PromptContext) string {
	var b strings.Builder
	b.WriteString("You are a laptop shopping advisor. Ask at most one short question per turn and move the user toward concrete recommendations quickly.\n\n")

	fmt.Fprintf(&b, "Current phase: %s\n", pc.Phase)
	fmt.Fprintf(&b, "Turn: %d\n", pc.TurnCount)

	prefs, err := json.Marshal(pc.Preferences)
	if err != nil {
		prefs = []byte("{}")
	}
	fmt.Fprintf(&b, "Collected preferences: %s\n", prefs)

	if len(pc.Sample) > 0 {
		b.WriteString("\nSome laptops currently in the catalog:\n")
		for _, p := range pc.Sample {
			fmt.Fprintf(&b, "- %s (%s, $%.0f): %s\n", p.Name, p.Brand, p.Price, p.Specs.Text())
		}
	}

	b.WriteString("\n")
	b.WriteString(responseContract)
	return b.String()
}
