package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/UMDhodi/Obsidian/internal/consultation"
	"google.golang.org/genai"
)

const DefaultModel = "gemini-3-flash-preview"

var ErrEmptyReply = errors.New("gemini returned no text")

type Config struct {
	APIKey  string
	Model   string
	BaseURL string // overrides the public endpoint, used by tests and proxies
	// HTTPClient is optional; the SDK default is used when nil
	HTTPClient *http.Client
}

// Provider asks Gemini for a JSON object shaped like a consultation response
type Provider struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
}

var _ consultation.Provider = (*Provider)(nil)

func New(ctx context.Context, cfg Config) (*Provider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, consultation.ErrProviderUnavailable
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	clientCfg := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Provider{
		client: client,
		model:  model,
		config: &genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   responseSchema(),
		},
	}, nil
}

func (p *Provider) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), p.config)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}

func responseSchema() *genai.Schema {
	stringList := func(description string) *genai.Schema {
		return &genai.Schema{
			Type:        genai.TypeArray,
			Items:       &genai.Schema{Type: genai.TypeString},
			Description: description,
		}
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"routine": stringList("Step-by-step skincare routine steps with short punchy titles."),
			"advice": {
				Type:        genai.TypeString,
				Description: "A bold, short motivational line.",
			},
			"recommendedProducts": stringList("Recommended product names from the Obsidian line."),
		},
		Required: []string{"routine", "advice", "recommendedProducts"},
	}
}
