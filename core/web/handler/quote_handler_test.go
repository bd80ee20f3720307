package handler

import (
	"testing"

	"github.com/jupymate/jupymate_navigator/core/jupiter"
	"github.com/jupymate/jupymate_navigator/core/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresentQuote(t *testing.T) {
	registry := token.GetRegistry()

	sol, ok := registry.BySymbol("SOL")
	require.True(t, ok)
	usdc, ok := registry.BySymbol("USDC")
	require.True(t, ok)
	jup, ok := registry.BySymbol("JUP")
	require.True(t, ok)

	quote := &jupiter.QuoteResult{
		InputMint:   sol.Mint,
		OutputMint:  usdc.Mint,
		InAmount:    1000000000,
		OutAmount:   150000000,
		PriceImpact: 0.015,
		RouteHops: []jupiter.RouteHop{
			{MarketLabel: "Orca", InputMint: sol.Mint, OutputMint: jup.Mint},
			{MarketLabel: "Raydium", InputMint: jup.Mint, OutputMint: usdc.Mint},
		},
	}

	p := presentQuote(quote, registry, usdc)

	assert.Equal(t, 150.0, p.OutAmountHuman)
	assert.Equal(t, "150 USDC", p.OutAmountText)
	assert.Equal(t, "1.5000%", p.PriceImpactPct)
	assert.Equal(t, "medium", p.PriceImpactBand)
	assert.Equal(t, []string{"SOL", "JUP", "USDC"}, p.RouteSymbols)
	assert.Equal(t, "No Fee", p.PlatformFeeText)
}

func TestPresentQuoteUnknownHopAndFee(t *testing.T) {
	registry := token.GetRegistry()

	sol, _ := registry.BySymbol("SOL")
	usdc, _ := registry.BySymbol("USDC")
	strangeMint := "StrangeMint11111111111111111111111111111111"

	quote := &jupiter.QuoteResult{
		InputMint:   sol.Mint,
		OutputMint:  usdc.Mint,
		OutAmount:   1500000,
		PriceImpact: 0.0001,
		RouteHops: []jupiter.RouteHop{
			{MarketLabel: "Mystery", InputMint: sol.Mint, OutputMint: strangeMint},
			{MarketLabel: "Orca", InputMint: strangeMint, OutputMint: usdc.Mint},
		},
		PlatformFee: &jupiter.PlatformFee{Mint: usdc.Mint, Amount: 2500},
	}

	p := presentQuote(quote, registry, usdc)

	assert.Equal(t, []string{"SOL", "UNK", "USDC"}, p.RouteSymbols)
	assert.Equal(t, "low", p.PriceImpactBand)
	assert.Equal(t, "0.0025 USDC", p.PlatformFeeText)
}
