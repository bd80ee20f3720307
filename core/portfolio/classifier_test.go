package portfolio

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jupymate/jupymate_navigator/core/assist"
	"github.com/jupymate/jupymate_navigator/core/token"
	"github.com/jupymate/jupymate_navigator/core/trust"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	out       string
	err       error
	gotSystem string
	gotTurns  []assist.Message
}

func (s *stubGenerator) Generate(ctx context.Context, system string, turns []assist.Message) (string, error) {
	s.gotSystem = system
	s.gotTurns = turns
	if s.err != nil {
		return "", s.err
	}
	return s.out, nil
}

type stubTiers struct {
	tiers map[string]trust.Tier
}

func (s *stubTiers) ResolveTiers(ctx context.Context, mints []string) []trust.SafetyRecord {
	records := make([]trust.SafetyRecord, 0, len(mints))
	for _, m := range mints {
		tier, ok := s.tiers[m]
		if !ok {
			tier = trust.TierUnknown
		}
		records = append(records, trust.SafetyRecord{Mint: m, Tier: tier})
	}
	return records
}

func testHoldings() []Holding {
	return []Holding{
		{Symbol: "SOL", Balance: 10, RiskClass: token.RiskBlueChip, Mint: "mintSOL"},
		{Symbol: "BONK", Balance: 1000000, RiskClass: token.RiskMeme, Mint: "mintBONK"},
		{Symbol: "USDC", Balance: 500, RiskClass: token.RiskStablecoin, Mint: "mintUSDC"},
	}
}

func TestClassify(t *testing.T) {
	gen := &stubGenerator{out: `{"classification": "Normie", "reasoning": "A little of everything, a lot of nothing."}`}
	tiers := &stubTiers{tiers: map[string]trust.Tier{
		"mintSOL":  trust.TierVerified,
		"mintUSDC": trust.TierVerified,
	}}
	c := NewClassifier(gen, tiers)

	got, err := c.Classify(context.Background(), testHoldings())
	require.NoError(t, err)

	assert.Equal(t, LabelNormie, got.Label)
	assert.Equal(t, "A little of everything, a lot of nothing.", got.Rationale)

	// one safety record per holding, input order preserved
	require.Len(t, got.PerTokenSafety, 3)
	assert.Equal(t, "mintSOL", got.PerTokenSafety[0].Mint)
	assert.Equal(t, trust.TierVerified, got.PerTokenSafety[0].Tier)
	assert.Equal(t, "mintBONK", got.PerTokenSafety[1].Mint)
	assert.Equal(t, trust.TierUnknown, got.PerTokenSafety[1].Tier)
	assert.Equal(t, "mintUSDC", got.PerTokenSafety[2].Mint)

	// the prompt carries symbol, balance, risk class and trust tier
	require.Len(t, gen.gotTurns, 1)
	assert.Contains(t, gen.gotTurns[0].Text, "SOL: 10 (Type: blue-chip, Trust: Verified)")
	assert.Contains(t, gen.gotTurns[0].Text, "BONK: 1e+06 (Type: meme, Trust: Unknown)")
	assert.Contains(t, gen.gotSystem, "Degen")
}

func TestClassifyToleratesMarkdownFences(t *testing.T) {
	gen := &stubGenerator{out: "```json\n{\"classification\": \"Degen\", \"reasoning\": \"Sir, this is a casino.\"}\n```"}
	c := NewClassifier(gen, &stubTiers{})

	got, err := c.Classify(context.Background(), testHoldings())
	require.NoError(t, err)
	assert.Equal(t, LabelDegen, got.Label)
}

func TestClassifyRejectsUnknownLabel(t *testing.T) {
	gen := &stubGenerator{out: `{"classification": "Whale", "reasoning": "big"}`}
	c := NewClassifier(gen, &stubTiers{})

	_, err := c.Classify(context.Background(), testHoldings())

	var formatErr *ClassificationFormatError
	require.ErrorAs(t, err, &formatErr)
}

func TestClassifyRejectsMalformedOutput(t *testing.T) {
	for _, out := range []string{
		"not json at all",
		`{"classification": "Degen"}`,
		`{"reasoning": "no label"}`,
		"",
	} {
		gen := &stubGenerator{out: out}
		c := NewClassifier(gen, &stubTiers{})

		_, err := c.Classify(context.Background(), testHoldings())

		var formatErr *ClassificationFormatError
		require.ErrorAs(t, err, &formatErr, "output=%q", out)
	}
}

func TestClassifyGeneratorFailure(t *testing.T) {
	gen := &stubGenerator{err: fmt.Errorf("model unavailable")}
	c := NewClassifier(gen, &stubTiers{})

	_, err := c.Classify(context.Background(), testHoldings())
	require.Error(t, err)

	var formatErr *ClassificationFormatError
	assert.False(t, errors.As(err, &formatErr))
}

func TestClassifyInputValidation(t *testing.T) {
	gen := &stubGenerator{out: `{"classification": "Investor", "reasoning": "ok"}`}
	c := NewClassifier(gen, &stubTiers{})

	_, err := c.Classify(context.Background(), nil)
	require.Error(t, err)

	_, err = c.Classify(context.Background(), []Holding{{Symbol: "SOL", Balance: -1, Mint: "mintSOL"}})
	require.Error(t, err)
}

func TestClassifyWithoutGenerator(t *testing.T) {
	c := NewClassifier(nil, &stubTiers{})
	_, err := c.Classify(context.Background(), testHoldings())
	require.Error(t, err)
}
