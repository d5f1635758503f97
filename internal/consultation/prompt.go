package consultation

import (
	"fmt"
	"strings"

	"github.com/UMDhodi/Obsidian/internal/domain"
)

const noConcerns = "none reported"

// BuildPrompt renders the request as the instruction sent to the provider
func BuildPrompt(req domain.ConsultationRequest) string {
	concerns := strings.TrimSpace(req.Concerns)
	if concerns == "" {
		concerns = noConcerns
	}
	return fmt.Sprintf(
		"You are the Obsidian Men's Care skin strategist. Build a premium, confident skincare routine "+
			"for a customer with %s skin. Concerns: %s. "+
			"Answer with JSON only, using the keys routine (array of short step titles), "+
			"advice (one short motivational line) and recommendedProducts (array of Obsidian product names).",
		req.SkinProfile, concerns)
}
