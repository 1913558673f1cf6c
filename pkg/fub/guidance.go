package fub

import (
	"fmt"
	"sort"
	"strings"
)

// fieldNameMappings maps the snake_case parameter names callers habitually
// send to the camelCase names the API expects.
var fieldNameMappings = map[string]string{
	"close_date":  "projectedCloseDate",
	"user_id":     "userId",
	"person_id":   "personId",
	"stage_id":    "stageId",
	"pipeline_id": "pipelineId",
}

// commissionFields must be top-level deal parameters, not custom fields.
var commissionFields = []string{"commissionValue", "agentCommission", "teamCommission"}

// EnhanceErrorMessage appends context-specific guidance to an API error
// message. The suffix is advisory only and never changes the error's
// classification.
func EnhanceErrorMessage(message, endpoint string, body map[string]interface{}) string {
	enhanced := message
	lower := strings.ToLower(message)

	if strings.Contains(endpoint, "deals") && body != nil {
		if containsCommissionField(body) && (strings.Contains(lower, "invalid") || strings.Contains(lower, "field")) {
			enhanced += "\n\nDEAL COMMISSION GUIDANCE:\n" +
				"Commission fields (commissionValue, agentCommission, teamCommission) must be passed as " +
				"top-level parameters when creating/updating deals, not in custom fields."
		}

		if strings.Contains(lower, "required") && strings.Contains(lower, "stage") {
			enhanced += "\n\nDEAL CREATION GUIDANCE:\n" +
				"The stageId parameter is required for all deal creation. " +
				"Get valid stage IDs from the stages endpoint."
		}
	}

	if strings.Contains(lower, "invalid field") || strings.Contains(lower, "unknown field") {
		enhanced += "\n\nFIELD NAME GUIDANCE:\n" +
			"The API expects camelCase field names. Common mappings:\n" +
			fieldMappingLines()
	}

	return enhanced
}

func containsCommissionField(body map[string]interface{}) bool {
	rendered := fmt.Sprintf("%v", body)
	for _, field := range commissionFields {
		if strings.Contains(rendered, field) {
			return true
		}
	}

	return false
}

func fieldMappingLines() string {
	keys := make([]string, 0, len(fieldNameMappings))
	for key := range fieldNameMappings {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		lines = append(lines, fmt.Sprintf("- %s → %s", key, fieldNameMappings[key]))
	}

	return strings.Join(lines, "\n")
}
