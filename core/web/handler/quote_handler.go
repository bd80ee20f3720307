package handler

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/jupymate/jupymate_navigator/config"
	"github.com/jupymate/jupymate_navigator/core/jupiter"
	"github.com/jupymate/jupymate_navigator/core/token"
	"github.com/jupymate/jupymate_navigator/utils/logger"
	"github.com/sirupsen/logrus"
)

var jupiterClient *jupiter.Client
var onceJupiter sync.Once

func getJupiterClient() *jupiter.Client {
	onceJupiter.Do(func() {
		jupiterClient = jupiter.NewClientFromConf()
	})
	return jupiterClient
}

type QuoteRequest struct {
	FromSymbol    string `json:"from_symbol" binding:"required"`
	ToSymbol      string `json:"to_symbol" binding:"required"`
	Amount        string `json:"amount" binding:"required"`
	UserPublicKey string `json:"user_public_key"`
}

// QuotePresentation carries the display fields the dashboard renders
// next to the raw quote.
type QuotePresentation struct {
	OutAmountHuman  float64  `json:"out_amount_human"`
	OutAmountText   string   `json:"out_amount_text"`
	PriceImpactPct  string   `json:"price_impact_pct"`
	PriceImpactBand string   `json:"price_impact_band"`
	RouteSymbols    []string `json:"route_symbols"`
	PlatformFeeText string   `json:"platform_fee_text"`
}

type QuoteReply struct {
	Quote        *jupiter.QuoteResult `json:"quote"`
	Presentation QuotePresentation    `json:"presentation"`
}

// QuoteHandler turns a (from, to, amount) selection into a normalized
// route and cost breakdown.
func QuoteHandler(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	registry := token.GetRegistry()

	from, ok := registry.BySymbol(req.FromSymbol)
	if !ok {
		respondBadRequest(c, fmt.Sprintf("unknown token %s", req.FromSymbol))
		return
	}
	to, ok := registry.BySymbol(req.ToSymbol)
	if !ok {
		respondBadRequest(c, fmt.Sprintf("unknown token %s", req.ToSymbol))
		return
	}
	if from.Symbol == to.Symbol {
		respondBadRequest(c, "from and to tokens must differ")
		return
	}

	amount, err := strconv.ParseFloat(req.Amount, 64)
	if err != nil || !token.ValidAmount(amount) {
		respondBadRequest(c, "amount must be a positive number")
		return
	}

	baseUnits := token.ToBaseUnits(amount, from.Decimals)
	if baseUnits < 1 {
		respondBadRequest(c, "amount is below one base unit")
		return
	}

	quote, err := getJupiterClient().GetQuote(c.Request.Context(), from.Mint, to.Mint, baseUnits, req.UserPublicKey)
	if err != nil {
		logger.Logrus.WithFields(logrus.Fields{"From": from.Symbol, "To": to.Symbol, "ErrMsg": err}).Error("get quote failed")
		respondError(c, err)
		return
	}

	respondOK(c, QuoteReply{
		Quote:        quote,
		Presentation: presentQuote(quote, registry, to),
	})
}

func presentQuote(quote *jupiter.QuoteResult, registry *token.Registry, to token.Descriptor) QuotePresentation {
	outHuman := token.FromBaseUnits(quote.OutAmount, to.Decimals)

	// route projection: input mint, then each hop's output mint
	symbols := []string{registry.SymbolForMint(quote.InputMint)}
	for _, hop := range quote.RouteHops {
		symbols = append(symbols, registry.SymbolForMint(hop.OutputMint))
	}

	feeText := "No Fee"
	if quote.PlatformFee != nil && quote.PlatformFee.Amount > 0 {
		feeDecimals := 6
		feeSymbol := "UNK"
		if feeToken, ok := registry.ByMint(quote.PlatformFee.Mint); ok {
			feeDecimals = feeToken.Decimals
			feeSymbol = feeToken.Symbol
		}
		feeText = fmt.Sprintf("%v %s", token.FromBaseUnits(quote.PlatformFee.Amount, feeDecimals), feeSymbol)
	}

	bands := token.DefaultImpactBands()
	jcfg := config.GetJupiterConfig()
	if jcfg.ImpactMedium > 0 && jcfg.ImpactHigh > 0 {
		bands = token.ImpactBands{Medium: jcfg.ImpactMedium, High: jcfg.ImpactHigh}
	}

	return QuotePresentation{
		OutAmountHuman:  outHuman,
		OutAmountText:   fmt.Sprintf("%v %s", outHuman, to.Symbol),
		PriceImpactPct:  token.FormatPriceImpact(quote.PriceImpact),
		PriceImpactBand: token.ImpactBand(quote.PriceImpact, bands),
		RouteSymbols:    symbols,
		PlatformFeeText: feeText,
	}
}
