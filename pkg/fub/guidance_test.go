package fub_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/realworks-io/fub-client/pkg/fub"
)

func TestEnhanceErrorMessage(t *testing.T) {
	t.Parallel()

	t.Run("commission field guidance on deals", func(t *testing.T) {
		t.Parallel()

		body := map[string]interface{}{
			"customFields": map[string]interface{}{"commissionValue": 5000},
		}

		enhanced := fub.EnhanceErrorMessage("Invalid field commissionValue", "deals", body)
		assert.Contains(t, enhanced, "DEAL COMMISSION GUIDANCE")
		assert.Contains(t, enhanced, "top-level parameters")
	})

	t.Run("stage guidance on deal creation", func(t *testing.T) {
		t.Parallel()

		body := map[string]interface{}{"name": "New Deal"}

		enhanced := fub.EnhanceErrorMessage("stageId is required", "deals", body)
		assert.Contains(t, enhanced, "DEAL CREATION GUIDANCE")
		assert.Contains(t, enhanced, "stageId")
	})

	t.Run("field name guidance", func(t *testing.T) {
		t.Parallel()

		enhanced := fub.EnhanceErrorMessage("Unknown field close_date", "deals", nil)
		assert.Contains(t, enhanced, "FIELD NAME GUIDANCE")
		assert.Contains(t, enhanced, "projectedCloseDate")
	})

	t.Run("no guidance for unrelated errors", func(t *testing.T) {
		t.Parallel()

		enhanced := fub.EnhanceErrorMessage("Person not found", "people/42", nil)
		assert.Equal(t, "Person not found", enhanced)
	})
}
