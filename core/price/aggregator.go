// Package price resolves USD prices for registered tokens, preferring
// the dedicated price endpoint and deriving from a 1-unit quote against
// the stablecoin reference when the endpoint comes up short.
package price

import (
	"context"
	"sync"

	"github.com/jupymate/jupymate_navigator/core/jupiter"
	"github.com/jupymate/jupymate_navigator/core/token"
	"github.com/jupymate/jupymate_navigator/utils/logger"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Quoter is the slice of the aggregator client the fallback path needs.
type Quoter interface {
	GetQuote(ctx context.Context, inputMint, outputMint string, amountBaseUnits uint64, userPublicKey string) (*jupiter.QuoteResult, error)
	GetPriceMap(ctx context.Context, symbols []string) (map[string]float64, error)
}

type Aggregator struct {
	client   Quoter
	registry *token.Registry
}

func NewAggregator(client Quoter, registry *token.Registry) *Aggregator {
	return &Aggregator{client: client, registry: registry}
}

var defaultAggregator *Aggregator
var once sync.Once

func GetAggregator() *Aggregator {
	once.Do(func() {
		defaultAggregator = NewAggregator(jupiter.NewClientFromConf(), token.GetRegistry())
	})
	return defaultAggregator
}

// GetPrices returns a USD price for every requested symbol. The
// stablecoin reference is 1.0 by definition and costs no network call.
// A symbol that is unregistered, missed by the price endpoint and
// failed by the quote fallback yields 0; the batch itself never fails.
func (a *Aggregator) GetPrices(ctx context.Context, symbols []string) map[string]float64 {
	prices := make(map[string]float64, len(symbols))

	var remote []string
	seen := make(map[string]struct{}, len(symbols))
	for _, symbol := range symbols {
		if _, ok := seen[symbol]; ok {
			continue
		}
		seen[symbol] = struct{}{}

		if symbol == token.StableSymbol {
			prices[symbol] = 1.0
			continue
		}
		prices[symbol] = 0
		remote = append(remote, symbol)
	}

	if len(remote) == 0 {
		return prices
	}

	fromEndpoint, err := a.client.GetPriceMap(ctx, remote)
	if err != nil {
		logger.Logrus.WithFields(logrus.Fields{"ErrMsg": err, "Symbols": remote}).Warn("price endpoint failed, falling back to quotes")
		fromEndpoint = map[string]float64{}
	}

	var missing []string
	for _, symbol := range remote {
		if p, ok := fromEndpoint[symbol]; ok && p > 0 {
			prices[symbol] = p
		} else {
			missing = append(missing, symbol)
		}
	}

	if len(missing) == 0 {
		return prices
	}

	derived := a.derivePrices(ctx, missing)
	for symbol, p := range derived {
		prices[symbol] = p
	}

	return prices
}

// derivePrices quotes 1 whole unit of each token against the stablecoin
// reference, concurrently. Per-symbol failures degrade to 0.
func (a *Aggregator) derivePrices(ctx context.Context, symbols []string) map[string]float64 {
	stable, ok := a.registry.BySymbol(token.StableSymbol)
	if !ok {
		return map[string]float64{}
	}

	results := make([]float64, len(symbols))

	g, gctx := errgroup.WithContext(ctx)
	for i, symbol := range symbols {
		i, symbol := i, symbol
		g.Go(func() error {
			desc, ok := a.registry.BySymbol(symbol)
			if !ok {
				return nil
			}

			oneUnit := token.ToBaseUnits(1, desc.Decimals)
			quote, err := a.client.GetQuote(gctx, desc.Mint, stable.Mint, oneUnit, "")
			if err != nil {
				logger.Logrus.WithFields(logrus.Fields{"Symbol": symbol, "ErrMsg": err}).Warn("derive price from quote failed")
				return nil
			}

			results[i] = token.FromBaseUnits(quote.OutAmount, stable.Decimals)
			return nil
		})
	}
	g.Wait()

	out := make(map[string]float64, len(symbols))
	for i, symbol := range symbols {
		out[symbol] = results[i]
	}
	return out
}
