// Package assist holds the AI text-generation capability shared by the
// chat assistant, the config tooltips and the portfolio classifier.
package assist

import (
	"context"
	"fmt"
	"sync"

	"github.com/jupymate/jupymate_navigator/config"
	"github.com/jupymate/jupymate_navigator/utils/logger"
	"github.com/sirupsen/logrus"
	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

// Message is one prior conversation turn.
type Message struct {
	Role string `json:"role"` // "user" or "model"
	Text string `json:"text"`
}

// Generator produces a completion from a system context and a sequence
// of turns ending with the user query.
type Generator interface {
	Generate(ctx context.Context, system string, turns []Message) (string, error)
}

// GenAIGenerator implements Generator with the Google GenAI API.
type GenAIGenerator struct {
	client *genai.Client
	model  string
}

func NewGenAIGenerator(ctx context.Context, apiKey, model string) (*GenAIGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAIGenerator{client: client, model: model}, nil
}

func (g *GenAIGenerator) Generate(ctx context.Context, system string, turns []Message) (string, error) {
	if len(turns) == 0 {
		return "", fmt.Errorf("at least one turn is required")
	}

	contents := make([]*genai.Content, 0, len(turns))
	for _, turn := range turns {
		role := genai.Role(genai.RoleUser)
		if turn.Role == "model" {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Text, role))
	}

	var cfg *genai.GenerateContentConfig
	if system != "" {
		cfg = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		}
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("generate content failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("model returned empty response")
	}
	return text, nil
}

var defaultGenerator Generator
var genOnce sync.Once

// GetGenerator builds the process-wide generator from config. Nil when
// no API key is configured; callers must treat that as "AI disabled".
func GetGenerator() Generator {
	genOnce.Do(func() {
		cfg := config.GetGenAIConfig()
		if cfg.APIKey == "" {
			logger.Logrus.Warn("no GenAI api key configured, AI features disabled")
			return
		}

		gen, err := NewGenAIGenerator(context.Background(), cfg.APIKey, cfg.Model)
		if err != nil {
			logger.Logrus.WithFields(logrus.Fields{"ErrMsg": err}).Error("create GenAI generator failed")
			return
		}
		defaultGenerator = gen
	})
	return defaultGenerator
}
