// Package portfolio classifies a user's token holdings with an AI
// vibe check cross-checked against the aggregator trust lists.
package portfolio

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jupymate/jupymate_navigator/core/assist"
	"github.com/jupymate/jupymate_navigator/core/token"
	"github.com/jupymate/jupymate_navigator/core/trust"
)

const (
	LabelDegen    = "Degen"
	LabelNormie   = "Normie"
	LabelInvestor = "Investor"
)

const classifierSystemContext = `You are a witty, slightly sarcastic Solana ecosystem expert. Your job is to analyze a user's token portfolio and classify them as a 'Degen', 'Normie', or 'Investor' based on the token types they hold.

Here are the classification rules:
- Investor: Portfolio is heavily weighted towards 'blue-chip' (like SOL) and 'stablecoin' (like USDC) tokens. They are playing the long game.
- Degen: Portfolio is heavily weighted towards 'meme' tokens (like BONK, WIF). They are here for a good time, not a long time. High risk, high reward.
- Normie: A balanced mix of 'blue-chip', 'stablecoin', 'ecosystem' (like JUP), and maybe a small amount of 'meme' tokens. They are diversified but still have a little fun.

Analyze the portfolio based on the composition and types of tokens, not just the raw balance. Respond with JSON only, in the form {"classification": "<Degen|Normie|Investor>", "reasoning": "<one witty sentence>"}.`

// Holding is one (symbol, balance, type) tuple from the user's wallet.
type Holding struct {
	Symbol    string          `json:"symbol"`
	Balance   float64         `json:"balance"`
	RiskClass token.RiskClass `json:"risk_class"`
	Mint      string          `json:"mint"`
}

// Classification is the per-request analysis result. Ephemeral.
type Classification struct {
	Label          string               `json:"label"`
	Rationale      string               `json:"rationale"`
	PerTokenSafety []trust.SafetyRecord `json:"per_token_safety"`
}

// ClassificationFormatError means the model's output did not match the
// label contract. The label is never guessed on malformed output.
type ClassificationFormatError struct {
	Output string
}

func (e *ClassificationFormatError) Error() string {
	return fmt.Sprintf("classification output did not match expected format: %q", e.Output)
}

// TierResolver is the slice of the trust service the classifier needs.
type TierResolver interface {
	ResolveTiers(ctx context.Context, mints []string) []trust.SafetyRecord
}

type Classifier struct {
	gen   assist.Generator
	tiers TierResolver
}

func NewClassifier(gen assist.Generator, tiers TierResolver) *Classifier {
	return &Classifier{gen: gen, tiers: tiers}
}

type modelOutput struct {
	Classification string `json:"classification"`
	Reasoning      string `json:"reasoning"`
}

// Classify resolves safety tiers for every holding, then delegates
// label and rationale to the text-generation capability. PerTokenSafety
// has exactly one record per input holding, in input order.
func (c *Classifier) Classify(ctx context.Context, holdings []Holding) (*Classification, error) {
	if c.gen == nil {
		return nil, fmt.Errorf("AI generation is not configured")
	}
	if len(holdings) == 0 {
		return nil, fmt.Errorf("at least one holding is required")
	}
	for _, h := range holdings {
		if h.Balance < 0 {
			return nil, fmt.Errorf("holding %s has negative balance", h.Symbol)
		}
	}

	mints := make([]string, 0, len(holdings))
	for _, h := range holdings {
		mints = append(mints, h.Mint)
	}
	safety := c.tiers.ResolveTiers(ctx, mints)

	var b strings.Builder
	b.WriteString("Portfolio:\n")
	for i, h := range holdings {
		fmt.Fprintf(&b, "- %s: %v (Type: %s, Trust: %s)\n", h.Symbol, h.Balance, h.RiskClass, safety[i].Tier)
	}

	out, err := c.gen.Generate(ctx, classifierSystemContext, []assist.Message{{Role: "user", Text: b.String()}})
	if err != nil {
		return nil, err
	}

	parsed, err := parseModelOutput(out)
	if err != nil {
		return nil, err
	}

	return &Classification{
		Label:          parsed.Classification,
		Rationale:      parsed.Reasoning,
		PerTokenSafety: safety,
	}, nil
}

// parseModelOutput decodes the model JSON (tolerating markdown fences)
// and validates the label against the fixed enum.
func parseModelOutput(out string) (*modelOutput, error) {
	cleaned := strings.TrimSpace(out)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var parsed modelOutput
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, &ClassificationFormatError{Output: out}
	}

	switch parsed.Classification {
	case LabelDegen, LabelNormie, LabelInvestor:
	default:
		return nil, &ClassificationFormatError{Output: parsed.Classification}
	}

	if strings.TrimSpace(parsed.Reasoning) == "" {
		return nil, &ClassificationFormatError{Output: out}
	}

	return &parsed, nil
}
