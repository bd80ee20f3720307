package token

import (
	"fmt"
	"sync"

	"github.com/jupymate/jupymate_navigator/config"
	"github.com/jupymate/jupymate_navigator/utils/logger"
	"github.com/sirupsen/logrus"
)

type RiskClass string

const (
	RiskBlueChip   RiskClass = "blue-chip"
	RiskStablecoin RiskClass = "stablecoin"
	RiskMeme       RiskClass = "meme"
	RiskEcosystem  RiskClass = "ecosystem"
)

// StableSymbol is the USD-pegged reference token. Prices are quoted
// against it and it is always worth 1.0 by definition.
const StableSymbol = "USDC"

type Descriptor struct {
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name"`
	Mint      string    `json:"mint"`
	Decimals  int       `json:"decimals"`
	RiskClass RiskClass `json:"risk_class"`
}

// Registry maps symbol and mint to token descriptors. Built once at
// startup, read-only afterwards.
type Registry struct {
	ordered  []Descriptor
	bySymbol map[string]Descriptor
	byMint   map[string]Descriptor
}

func builtinTokens() []Descriptor {
	return []Descriptor{
		{Symbol: "SOL", Name: "Solana", Mint: "So11111111111111111111111111111111111111112", Decimals: 9, RiskClass: RiskBlueChip},
		{Symbol: "USDC", Name: "USD Coin", Mint: "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", Decimals: 6, RiskClass: RiskStablecoin},
		{Symbol: "JUP", Name: "Jupiter", Mint: "JUPyiwrYJFskUPiHa7hkeR8VUtAeFoSYbKedZNsDvCN", Decimals: 6, RiskClass: RiskEcosystem},
		{Symbol: "BONK", Name: "Bonk", Mint: "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263", Decimals: 5, RiskClass: RiskMeme},
		{Symbol: "WIF", Name: "dogwifhat", Mint: "EKpQGSJtjMFqKZ9KQanSqYXRcF8fBopzL7gmAJsCn7V", Decimals: 6, RiskClass: RiskMeme},
	}
}

func NewRegistry(entries []Descriptor) (*Registry, error) {
	r := &Registry{
		bySymbol: make(map[string]Descriptor, len(entries)),
		byMint:   make(map[string]Descriptor, len(entries)),
	}

	for _, e := range entries {
		if e.Symbol == "" || e.Mint == "" {
			return nil, fmt.Errorf("token entry missing symbol or mint: %+v", e)
		}
		if e.Decimals < 0 {
			return nil, fmt.Errorf("token %s has negative decimals", e.Symbol)
		}
		if _, ok := r.bySymbol[e.Symbol]; ok {
			return nil, fmt.Errorf("duplicate token symbol %s", e.Symbol)
		}
		if _, ok := r.byMint[e.Mint]; ok {
			return nil, fmt.Errorf("duplicate token mint %s", e.Mint)
		}

		r.ordered = append(r.ordered, e)
		r.bySymbol[e.Symbol] = e
		r.byMint[e.Mint] = e
	}

	return r, nil
}

func (r *Registry) BySymbol(symbol string) (Descriptor, bool) {
	d, ok := r.bySymbol[symbol]
	return d, ok
}

func (r *Registry) ByMint(mint string) (Descriptor, bool) {
	d, ok := r.byMint[mint]
	return d, ok
}

// SymbolForMint resolves a mint to its symbol, "UNK" when the mint is
// not registered. Used when projecting route hops for display.
func (r *Registry) SymbolForMint(mint string) string {
	if d, ok := r.byMint[mint]; ok {
		return d.Symbol
	}
	return "UNK"
}

func (r *Registry) List() []Descriptor {
	out := make([]Descriptor, len(r.ordered))
	copy(out, r.ordered)
	return out
}

var defaultRegistry *Registry
var once sync.Once

// GetRegistry builds the process-wide registry from the built-in table
// plus any extra entries in the config file. Config entries with a
// symbol or mint already present are skipped.
func GetRegistry() *Registry {
	once.Do(func() {
		entries := builtinTokens()

		seenSymbol := make(map[string]struct{}, len(entries))
		seenMint := make(map[string]struct{}, len(entries))
		for _, e := range entries {
			seenSymbol[e.Symbol] = struct{}{}
			seenMint[e.Mint] = struct{}{}
		}

		for _, c := range config.GetTokenConfig() {
			if _, ok := seenSymbol[c.Symbol]; ok {
				continue
			}
			if _, ok := seenMint[c.Mint]; ok {
				continue
			}
			entries = append(entries, Descriptor{
				Symbol:    c.Symbol,
				Name:      c.Name,
				Mint:      c.Mint,
				Decimals:  int(c.Decimals),
				RiskClass: RiskClass(c.RiskClass),
			})
			seenSymbol[c.Symbol] = struct{}{}
			seenMint[c.Mint] = struct{}{}
		}

		reg, err := NewRegistry(entries)
		if err != nil {
			logger.Logrus.WithFields(logrus.Fields{"ErrMsg": err}).Error("build token registry failed, using builtin table")
			reg, _ = NewRegistry(builtinTokens())
		}
		defaultRegistry = reg
	})
	return defaultRegistry
}
