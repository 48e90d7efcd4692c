// Package vision holds the adapters for the external image-analysis
// backends. Every adapter speaks the same JSON contract so the orchestrator
// can swap between them freely.
package vision

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/coderabbit-demo/ai-fitness-coach-sub001/internal/domain"
)

// nutritionPrompt is the shared instruction set. Both backends are asked for
// the exact same strict-JSON shape so parsing stays provider-agnostic.
const nutritionPrompt = `You are a nutrition expert analyzing a photo of food.
Identify every food item visible, estimate its quantity, and estimate its
nutritional content. Be realistic with portion sizes.
Return STRICT JSON with exactly these fields and nothing else:
{
  "food_items": [
    {"name": string, "quantity": string, "calories": number,
     "protein_g": number, "carbs_g": number, "fat_g": number, "fiber_g": number}
  ],
  "total_calories": number,
  "total_protein": number,
  "total_carbs": number,
  "total_fat": number,
  "total_fiber": number,
  "confidence_score": number,  // 0.0-1.0, how reliable this estimate is
  "analysis_notes": string     // short caveats, may be empty
}
Totals must be the sums of the per-item fields. Output ONLY the JSON object.`

// parseAnalysis decodes a model reply into a NutritionAnalysis. Models
// occasionally wrap the JSON in markdown fences despite the instructions, so
// those are stripped first.
func parseAnalysis(text string) (*domain.NutritionAnalysis, error) {
	text = stripCodeFences(strings.TrimSpace(text))
	if text == "" {
		return nil, fmt.Errorf("empty model response")
	}

	var analysis domain.NutritionAnalysis
	if err := json.Unmarshal([]byte(text), &analysis); err != nil {
		return nil, fmt.Errorf("malformed analysis JSON: %w", err)
	}

	if analysis.ConfidenceScore < 0 {
		analysis.ConfidenceScore = 0
	}
	if analysis.ConfidenceScore > 1 {
		analysis.ConfidenceScore = 1
	}
	return &analysis, nil
}

// stripCodeFences removes a surrounding ```json ... ``` block if present
func stripCodeFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// sniffMIME detects the image content type from the first decoded bytes.
// Falls back to JPEG when the payload cannot be decoded; the backend will
// reject garbage on its own.
func sniffMIME(imageData string) string {
	prefix := imageData
	if len(prefix) > 512 {
		prefix = prefix[:512]
	}
	// Trim to a multiple of 4 so a truncated prefix still decodes
	prefix = prefix[:len(prefix)-len(prefix)%4]
	decoded, err := base64.StdEncoding.DecodeString(prefix)
	if err != nil || len(decoded) == 0 {
		return "image/jpeg"
	}
	mime := http.DetectContentType(decoded)
	if !strings.HasPrefix(mime, "image/") {
		return "image/jpeg"
	}
	return mime
}
