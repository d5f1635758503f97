package domain

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidSkinProfile = errors.New("invalid skin profile")

// SkinProfile is the skin type selected on the consultation form
type SkinProfile string

const (
	SkinOily        SkinProfile = "Oily"
	SkinDry         SkinProfile = "Dry"
	SkinCombination SkinProfile = "Combination"
	SkinSensitive   SkinProfile = "Sensitive"
	SkinNormal      SkinProfile = "Normal"
)

var SkinProfiles = []SkinProfile{SkinOily, SkinDry, SkinCombination, SkinSensitive, SkinNormal}

// ParseSkinProfile matches case-insensitively against the known profiles
func ParseSkinProfile(s string) (SkinProfile, error) {
	s = strings.TrimSpace(s)
	for _, p := range SkinProfiles {
		if strings.EqualFold(string(p), s) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSkinProfile, s)
}

type ConsultationRequest struct {
	SkinProfile SkinProfile `json:"skinProfile"`
	Concerns    string      `json:"concerns"`
}

type ConsultationResponse struct {
	Routine             []string `json:"routine"`
	Advice              string   `json:"advice"`
	RecommendedProducts []string `json:"recommendedProducts"`
}

// Complete reports whether every field carries content
func (r ConsultationResponse) Complete() bool {
	return len(r.Routine) > 0 && strings.TrimSpace(r.Advice) != "" && len(r.RecommendedProducts) > 0
}

// Clone returns a copy that shares no slices with r
func (r ConsultationResponse) Clone() ConsultationResponse {
	return ConsultationResponse{
		Routine:             append([]string(nil), r.Routine...),
		Advice:              r.Advice,
		RecommendedProducts: append([]string(nil), r.RecommendedProducts...),
	}
}
