package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedValidator_LoadsSchemas(t *testing.T) {
	sv, err := NewEmbeddedValidator()
	require.NoError(t, err)
	assert.True(t, sv.SchemaExists(SchemaModelTurn))
	assert.True(t, sv.SchemaExists(SchemaFeedbackEvent))
	assert.False(t, sv.SchemaExists("missing"))
}

func TestValidateModelTurn(t *testing.T) {
	sv := MustEmbeddedValidator()

	tests := []struct {
		name  string
		doc   string
		valid bool
	}{
		{
			name:  "minimal",
			doc:   `{"response": "What will you use it for?", "phase": "discovery"}`,
			valid: true,
		},
		{
			name: "full",
			doc: `{"response": "Here you go", "phase": "recommendation",
				"ui_elements": [{"type": "button", "label": "Gaming", "value": "gaming"}],
				"collected_data": {"budget": {"min": 800, "max": 1500}, "brands": ["Dell"]},
				"database_filter": {"price_min": 800, "price_max": 1500}}`,
			valid: true,
		},
		{
			name:  "null patches",
			doc:   `{"response": "ok", "phase": "discovery", "collected_data": null, "database_filter": null}`,
			valid: true,
		},
		{
			name:  "unknown phase",
			doc:   `{"response": "hi", "phase": "checkout"}`,
			valid: false,
		},
		{
			name:  "missing response",
			doc:   `{"phase": "discovery"}`,
			valid: false,
		},
		{
			name:  "budget without max",
			doc:   `{"response": "hi", "phase": "discovery", "collected_data": {"budget": {"min": 100}}}`,
			valid: false,
		},
		{
			name:  "not json",
			doc:   `Sure! Here are some laptops`,
			valid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := sv.ValidateModelTurn(tt.doc)
			assert.Equal(t, tt.valid, result.Valid, "errors: %v", result.Errors)
			if tt.valid {
				assert.NoError(t, result.Err())
			} else {
				assert.Error(t, result.Err())
			}
		})
	}
}

func TestValidateFeedbackEvent(t *testing.T) {
	sv := MustEmbeddedValidator()

	valid := sv.ValidateFeedbackEvent([]byte(`{"user_id": "u1", "action": "clicked", "candidate": {"id": "xps"}}`))
	assert.True(t, valid.Valid)
	assert.Nil(t, valid.ToAPIError())

	invalid := sv.ValidateFeedbackEvent([]byte(`{"user_id": "u1", "action": "liked", "candidate": {"id": "xps"}}`))
	require.False(t, invalid.Valid)
	body := invalid.ToAPIError()
	require.NotNil(t, body)
	errBody := body["error"].(map[string]interface{})
	assert.Equal(t, "VALIDATION_ERROR", errBody["code"])
}
