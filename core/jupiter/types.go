package jupiter

import "encoding/json"

// Raw wire mirrors of the aggregator responses. Two quote schemas are in
// the wild: the current one carries routePlan[].swapInfo, the legacy one
// marketInfos[]. Both are decoded here and normalized in client.go;
// neither shape leaks out of this package.

type rawQuoteResponse struct {
	InputMint      string          `json:"inputMint"`
	InAmount       string          `json:"inAmount"`
	OutputMint     string          `json:"outputMint"`
	OutAmount      string          `json:"outAmount"`
	PriceImpactPct json.Number     `json:"priceImpactPct"`
	RoutePlan      []rawRoutePlan  `json:"routePlan"`
	MarketInfos    []rawMarketInfo `json:"marketInfos"`
	PlatformFee    *rawPlatformFee `json:"platformFee"`
}

type rawRoutePlan struct {
	SwapInfo rawSwapInfo `json:"swapInfo"`
	Percent  int         `json:"percent"`
}

type rawSwapInfo struct {
	AmmKey     string `json:"ammKey"`
	Label      string `json:"label"`
	InputMint  string `json:"inputMint"`
	OutputMint string `json:"outputMint"`
	InAmount   string `json:"inAmount"`
	OutAmount  string `json:"outAmount"`
	FeeAmount  string `json:"feeAmount"`
	FeeMint    string `json:"feeMint"`
}

type rawMarketInfo struct {
	ID         string  `json:"id"`
	Label      string  `json:"label"`
	InputMint  string  `json:"inputMint"`
	OutputMint string  `json:"outputMint"`
	InAmount   string  `json:"inAmount"`
	OutAmount  string  `json:"outAmount"`
	LpFee      *rawFee `json:"lpFee"`
	Platform   *rawFee `json:"platformFee"`
}

type rawFee struct {
	Amount string      `json:"amount"`
	Mint   string      `json:"mint"`
	Pct    json.Number `json:"pct"`
}

type rawPlatformFee struct {
	Amount string `json:"amount"`
	FeeBps int    `json:"feeBps"`
	Mint   string `json:"mint"`
}

type errorBody struct {
	Error string `json:"error"`
}

// swapRequest is the POST body for the swap-transaction endpoint. The
// quote is replayed verbatim, which is why QuoteResult keeps its raw
// JSON around.
type swapRequest struct {
	QuoteResponse    json.RawMessage `json:"quoteResponse"`
	UserPublicKey    string          `json:"userPublicKey"`
	WrapAndUnwrapSol bool            `json:"wrapAndUnwrapSol"`
}

type swapResponse struct {
	SwapTransaction      string `json:"swapTransaction"`
	LastValidBlockHeight int64  `json:"lastValidBlockHeight"`
}

type priceResponse struct {
	Data map[string]priceEntry `json:"data"`
}

type priceEntry struct {
	Price float64 `json:"price"`
}

// RouteHop is one market traversed while converting input to output.
type RouteHop struct {
	MarketLabel string  `json:"market_label"`
	InputMint   string  `json:"input_mint"`
	OutputMint  string  `json:"output_mint"`
	FeeFraction float64 `json:"fee_fraction"`
}

// PlatformFee is the aggregator platform fee attached to a quote.
type PlatformFee struct {
	Mint   string `json:"mint"`
	Amount uint64 `json:"amount"`
}

// QuoteResult is the canonical quote shape the rest of the service
// consumes. Immutable once returned; lives for one visualize/execute
// interaction.
type QuoteResult struct {
	InputMint   string       `json:"input_mint"`
	OutputMint  string       `json:"output_mint"`
	InAmount    uint64       `json:"in_amount"`
	OutAmount   uint64       `json:"out_amount"`
	PriceImpact float64      `json:"price_impact"`
	RouteHops   []RouteHop   `json:"route_hops"`
	PlatformFee *PlatformFee `json:"platform_fee,omitempty"`

	// Raw is the untouched upstream response, replayed to the swap
	// endpoint when the quote is executed.
	Raw json.RawMessage `json:"raw"`
}
