package inference

import "strings"

// classificationSchema is the JSON schema the collaborator must conform to.
var classificationSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"classification": map[string]any{
			"type": "string",
			"enum": []string{
				"melanoma", "nevus", "benign_keratosis", "basal_cell_carcinoma",
				"actinic_keratosis", "dermatofibroma", "vascular_lesion",
				"squamous_cell_carcinoma", "unknown",
			},
		},
		"confidence_score": map[string]any{"type": "number"},
		"risk_level": map[string]any{
			"type": "string",
			"enum": []string{"low", "moderate", "high", "critical"},
		},
		"analysis_details": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"asymmetry": map[string]any{"type": "string"},
				"border":    map[string]any{"type": "string"},
				"color":     map[string]any{"type": "string"},
				"diameter":  map[string]any{"type": "string"},
				"evolution": map[string]any{"type": "string"},
			},
		},
		"recommendations": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
	},
}

// BuildPrompt assembles the analysis prompt, appending the optional body
// location and patient notes when present.
func BuildPrompt(bodyLocation, notes string) string {
	var sb strings.Builder
	sb.WriteString(`You are an expert dermatologist AI assistant. Analyze this skin lesion image for potential skin cancer detection.

Perform a thorough analysis and provide:
1. Classification: Identify the most likely type (melanoma, nevus, benign_keratosis, basal_cell_carcinoma, actinic_keratosis, dermatofibroma, vascular_lesion, squamous_cell_carcinoma, or unknown)
2. Confidence Score: Your confidence percentage (0-100)
3. Risk Level: Assess as low, moderate, high, or critical
4. ABCDE Analysis:
   - Asymmetry: Is the lesion asymmetrical?
   - Border: Are the borders irregular, ragged, or blurred?
   - Color: Is the color uneven or varied?
   - Diameter: Estimated size assessment
   - Evolution: Any concerning features suggesting changes
5. Recommendations: Provide actionable medical recommendations
`)

	if bodyLocation != "" {
		sb.WriteString("\nBody Location: " + bodyLocation)
	}
	if notes != "" {
		sb.WriteString("\nAdditional Notes from patient: " + notes)
	}

	sb.WriteString("\n\nBe thorough but remember this is for educational purposes. Always recommend professional consultation for concerning findings.")
	return sb.String()
}
