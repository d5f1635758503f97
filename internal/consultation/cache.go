package consultation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/UMDhodi/Obsidian/internal/domain"
)

var ErrCacheMiss = errors.New("cache miss")

// Cache stores provider answers that parsed successfully. Fallbacks are never stored.
type Cache interface {
	Get(ctx context.Context, key string) (*domain.ConsultationResponse, error)
	Set(ctx context.Context, key string, resp *domain.ConsultationResponse) error
}

// NopCache disables caching
type NopCache struct{}

func (NopCache) Get(context.Context, string) (*domain.ConsultationResponse, error) {
	return nil, ErrCacheMiss
}

func (NopCache) Set(context.Context, string, *domain.ConsultationResponse) error {
	return nil
}

// CacheKey identifies a request by profile and whitespace/case-normalized concerns
func CacheKey(req domain.ConsultationRequest) string {
	concerns := strings.ToLower(strings.Join(strings.Fields(req.Concerns), " "))
	sum := sha256.Sum256([]byte(concerns))
	return strings.ToLower(string(req.SkinProfile)) + ":" + hex.EncodeToString(sum[:8])
}
