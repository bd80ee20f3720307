package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jupymate/jupymate_navigator/core/price"
	"github.com/jupymate/jupymate_navigator/core/redis"
	"github.com/jupymate/jupymate_navigator/core/token"
)

// PriceHandler returns USD prices for the requested symbols, all
// registered tokens when ids is absent. Cached in redis for a short
// TTL; failures degrade per symbol to 0, never failing the batch.
func PriceHandler(c *gin.Context) {
	var symbols []string
	if ids := c.Query("ids"); ids != "" {
		for _, s := range strings.Split(ids, ",") {
			s = strings.TrimSpace(s)
			if s != "" {
				symbols = append(symbols, s)
			}
		}
	} else {
		for _, d := range token.GetRegistry().List() {
			symbols = append(symbols, d.Symbol)
		}
	}

	if len(symbols) == 0 {
		respondBadRequest(c, "no symbols requested")
		return
	}

	ctx := c.Request.Context()
	prices := make(map[string]float64, len(symbols))

	var missing []string
	for _, symbol := range symbols {
		if p, ok := redis.GetPriceCache(ctx, symbol); ok {
			prices[symbol] = p
		} else {
			missing = append(missing, symbol)
		}
	}

	if len(missing) > 0 {
		fetched := price.GetAggregator().GetPrices(ctx, missing)
		for symbol, p := range fetched {
			prices[symbol] = p
			if p > 0 {
				redis.SetPriceCache(ctx, symbol, p)
			}
		}
	}

	respondOK(c, prices)
}
