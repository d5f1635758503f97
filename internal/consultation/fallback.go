package consultation

import "github.com/UMDhodi/Obsidian/internal/domain"

var fallbacks = map[domain.SkinProfile]domain.ConsultationResponse{
	domain.SkinOily: {
		Routine:             []string{"Cleanse with Face Wash", "Serum to T-zone", "Light Layer Obsidian Cream"},
		Advice:              "Control the grease.",
		RecommendedProducts: []string{"Obsidian Face Wash", "Obsidian Skin Serum"},
	},
	domain.SkinDry: {
		Routine:             []string{"Double dose Hydra-Core", "Heavy application Obsidian Cream", "Solar Guard mandatory"},
		Advice:              "Hydration is fuel.",
		RecommendedProducts: []string{"Obsidian Skin Cream", "Obsidian Skin Serum", "Obsidian Face Wash"},
	},
}

// defaultFallback serves profiles without an authored response
const defaultFallback = domain.SkinOily

// Fallback returns the built-in response for profile
func Fallback(profile domain.SkinProfile) domain.ConsultationResponse {
	if r, ok := fallbacks[profile]; ok {
		return r.Clone()
	}
	return fallbacks[defaultFallback].Clone()
}
