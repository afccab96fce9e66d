package optional

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

type patchBody struct {
	Name        Field[string] `json:"name"`
	EffectiveTo Field[string] `json:"effective_to"`
}

func TestField_UnmarshalPresence(t *testing.T) {
	t.Run("absent", func(t *testing.T) {
		var body patchBody
		assert.NoError(t, json.Unmarshal([]byte(`{}`), &body))

		assert.False(t, body.Name.Set)
		assert.False(t, body.EffectiveTo.Set)
		assert.False(t, body.Name.HasValue())
	})

	t.Run("explicit null", func(t *testing.T) {
		var body patchBody
		assert.NoError(t, json.Unmarshal([]byte(`{"effective_to":null}`), &body))

		assert.True(t, body.EffectiveTo.Set)
		assert.True(t, body.EffectiveTo.Null)
		assert.False(t, body.EffectiveTo.HasValue())
	})

	t.Run("value", func(t *testing.T) {
		var body patchBody
		assert.NoError(t, json.Unmarshal([]byte(`{"name":"Ca sáng","effective_to":"2026-12-31"}`), &body))

		assert.True(t, body.Name.HasValue())
		assert.Equal(t, "Ca sáng", body.Name.Value)
		assert.Equal(t, "2026-12-31", body.EffectiveTo.Value)
	})

	t.Run("wrong type", func(t *testing.T) {
		var body patchBody
		assert.Error(t, json.Unmarshal([]byte(`{"name":42}`), &body))
	})
}
