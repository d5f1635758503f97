package consultation

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/UMDhodi/Obsidian/internal/domain"
)

// wire mirrors the JSON object requested from the provider. Pointers tell a missing key from an empty one.
type wire struct {
	Routine             *[]string `json:"routine"`
	Advice              *string   `json:"advice"`
	RecommendedProducts *[]string `json:"recommendedProducts"`
}

// ParseResponse decodes the provider reply. Any missing or empty field is a schema mismatch.
func ParseResponse(text string) (domain.ConsultationResponse, error) {
	text = stripCodeFence(strings.TrimSpace(text))
	if text == "" {
		return domain.ConsultationResponse{}, fmt.Errorf("%w: empty reply", ErrMalformedResponse)
	}

	var w wire
	if err := json.Unmarshal([]byte(text), &w); err != nil {
		return domain.ConsultationResponse{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if w.Routine == nil || w.Advice == nil || w.RecommendedProducts == nil {
		return domain.ConsultationResponse{}, fmt.Errorf("%w: missing field", ErrMalformedResponse)
	}

	resp := domain.ConsultationResponse{
		Routine:             nonBlank(*w.Routine),
		Advice:              strings.TrimSpace(*w.Advice),
		RecommendedProducts: nonBlank(*w.RecommendedProducts),
	}
	if !resp.Complete() {
		return domain.ConsultationResponse{}, fmt.Errorf("%w: empty field", ErrMalformedResponse)
	}
	return resp, nil
}

// stripCodeFence removes a markdown ```json fence some models wrap around JSON output
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// language tag, with or without a newline after it
	s = strings.TrimLeftFunc(s, unicode.IsLetter)
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func nonBlank(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
