// Package jupiter wraps the Jupiter aggregator HTTP API and normalizes
// its version-dependent response shapes into one canonical form.
package jupiter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jupymate/jupymate_navigator/config"
)

const (
	DefaultQuoteURL = "https://quote-api.jup.ag/v6/quote"
	DefaultSwapURL  = "https://quote-api.jup.ag/v6/swap"
	DefaultPriceURL = "https://price.jup.ag/v6/price"

	// DefaultSlippageBps is the fixed slippage tolerance, 50 basis points.
	DefaultSlippageBps = 50

	DefaultTimeout = 30 * time.Second
)

type Client struct {
	httpClient  *http.Client
	quoteURL    string
	swapURL     string
	priceURL    string
	slippageBps int
}

type ClientConfig struct {
	QuoteURL    string
	SwapURL     string
	PriceURL    string
	SlippageBps int
	Timeout     time.Duration
	HTTPClient  *http.Client
}

func NewClient(cfg *ClientConfig) *Client {
	if cfg == nil {
		cfg = &ClientConfig{}
	}

	quoteURL := cfg.QuoteURL
	if quoteURL == "" {
		quoteURL = DefaultQuoteURL
	}
	swapURL := cfg.SwapURL
	if swapURL == "" {
		swapURL = DefaultSwapURL
	}
	priceURL := cfg.PriceURL
	if priceURL == "" {
		priceURL = DefaultPriceURL
	}
	slippage := cfg.SlippageBps
	if slippage <= 0 {
		slippage = DefaultSlippageBps
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		httpClient:  httpClient,
		quoteURL:    quoteURL,
		swapURL:     swapURL,
		priceURL:    priceURL,
		slippageBps: slippage,
	}
}

// NewClientFromConf builds a client from the loaded config file.
func NewClientFromConf() *Client {
	cfg := config.GetJupiterConfig()
	return NewClient(&ClientConfig{
		QuoteURL:    cfg.QuoteURL,
		SwapURL:     cfg.SwapURL,
		PriceURL:    cfg.PriceURL,
		SlippageBps: int(cfg.SlippageBps),
	})
}

// GetQuote fetches a swap quote between two mints for an integer base
// unit amount. No retry; the caller decides whether to re-issue.
func (c *Client) GetQuote(ctx context.Context, inputMint, outputMint string, amountBaseUnits uint64, userPublicKey string) (*QuoteResult, error) {
	if inputMint == "" || outputMint == "" {
		return nil, fmt.Errorf("inputMint and outputMint are required")
	}
	if amountBaseUnits < 1 {
		return nil, fmt.Errorf("amount must be at least 1 base unit")
	}

	query := url.Values{}
	query.Set("inputMint", inputMint)
	query.Set("outputMint", outputMint)
	query.Set("amount", strconv.FormatUint(amountBaseUnits, 10))
	query.Set("slippageBps", strconv.Itoa(c.slippageBps))
	if userPublicKey != "" {
		query.Set("userPublicKey", userPublicKey)
	}

	requestURL := fmt.Sprintf("%s?%s", c.quoteURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("quote request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamHTTPError{Status: resp.StatusCode, Message: upstreamMessage(body, resp.Status)}
	}

	var raw rawQuoteResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse quote response: %w", err)
	}

	return normalizeQuote(&raw, body, inputMint, outputMint)
}

// BuildSwapTransaction asks the aggregator for an unsigned transaction
// executing a previously fetched quote. Returns the base64 envelope.
func (c *Client) BuildSwapTransaction(ctx context.Context, quote *QuoteResult, userPublicKey string) (string, error) {
	if quote == nil || len(quote.Raw) == 0 {
		return "", fmt.Errorf("quote is required")
	}
	if userPublicKey == "" {
		return "", fmt.Errorf("userPublicKey is required")
	}

	jsonBody, err := json.Marshal(swapRequest{
		QuoteResponse:    quote.Raw,
		UserPublicKey:    userPublicKey,
		WrapAndUnwrapSol: true,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal swap request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.swapURL, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("swap request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &SwapBuildError{Status: resp.StatusCode, Message: upstreamMessage(body, resp.Status)}
	}

	var swapResp swapResponse
	if err := json.Unmarshal(body, &swapResp); err != nil {
		return "", fmt.Errorf("failed to parse swap response: %w", err)
	}
	if swapResp.SwapTransaction == "" {
		return "", fmt.Errorf("swap response missing transaction")
	}

	return swapResp.SwapTransaction, nil
}

// GetPriceMap fetches USD prices for the given symbols from the price
// endpoint in one call. Symbols the endpoint does not know are simply
// absent from the result.
func (c *Client) GetPriceMap(ctx context.Context, symbols []string) (map[string]float64, error) {
	if len(symbols) == 0 {
		return map[string]float64{}, nil
	}

	query := url.Values{}
	ids := symbols[0]
	for _, s := range symbols[1:] {
		ids += "," + s
	}
	query.Set("ids", ids)

	requestURL := fmt.Sprintf("%s?%s", c.priceURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("price request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamHTTPError{Status: resp.StatusCode, Message: upstreamMessage(body, resp.Status)}
	}

	var priceResp priceResponse
	if err := json.Unmarshal(body, &priceResp); err != nil {
		return nil, fmt.Errorf("failed to parse price response: %w", err)
	}

	out := make(map[string]float64, len(priceResp.Data))
	for symbol, entry := range priceResp.Data {
		out[symbol] = entry.Price
	}
	return out, nil
}

// upstreamMessage prefers the body "error" field, falling back to the
// HTTP status line.
func upstreamMessage(body []byte, status string) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Error != "" {
		return eb.Error
	}
	return status
}

// normalizeQuote reduces both known response schemas to QuoteResult and
// checks the hop chain actually connects inputMint to outputMint.
func normalizeQuote(raw *rawQuoteResponse, body []byte, inputMint, outputMint string) (*QuoteResult, error) {
	var hops []RouteHop

	switch {
	case len(raw.RoutePlan) > 0:
		for _, rp := range raw.RoutePlan {
			hops = append(hops, RouteHop{
				MarketLabel: rp.SwapInfo.Label,
				InputMint:   rp.SwapInfo.InputMint,
				OutputMint:  rp.SwapInfo.OutputMint,
				FeeFraction: feeFractionFromAmounts(rp.SwapInfo.FeeAmount, rp.SwapInfo.InAmount),
			})
		}
	case len(raw.MarketInfos) > 0:
		for _, mi := range raw.MarketInfos {
			var fee float64
			if mi.LpFee != nil {
				fee, _ = mi.LpFee.Pct.Float64()
			}
			hops = append(hops, RouteHop{
				MarketLabel: mi.Label,
				InputMint:   mi.InputMint,
				OutputMint:  mi.OutputMint,
				FeeFraction: fee,
			})
		}
	default:
		return nil, &NoRouteError{InputMint: inputMint, OutputMint: outputMint}
	}

	if hops[0].InputMint != inputMint || hops[len(hops)-1].OutputMint != outputMint {
		return nil, fmt.Errorf("route does not connect %s to %s", inputMint, outputMint)
	}

	inAmount, err := strconv.ParseUint(raw.InAmount, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse inAmount %q: %w", raw.InAmount, err)
	}
	outAmount, err := strconv.ParseUint(raw.OutAmount, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse outAmount %q: %w", raw.OutAmount, err)
	}

	impact, _ := raw.PriceImpactPct.Float64()

	result := &QuoteResult{
		InputMint:   raw.InputMint,
		OutputMint:  raw.OutputMint,
		InAmount:    inAmount,
		OutAmount:   outAmount,
		PriceImpact: impact,
		RouteHops:   hops,
		Raw:         json.RawMessage(body),
	}

	if raw.PlatformFee != nil && raw.PlatformFee.Amount != "" {
		amount, err := strconv.ParseUint(raw.PlatformFee.Amount, 10, 64)
		if err == nil && amount > 0 {
			result.PlatformFee = &PlatformFee{Mint: raw.PlatformFee.Mint, Amount: amount}
		}
	}

	return result, nil
}

func feeFractionFromAmounts(feeAmount, inAmount string) float64 {
	fee, err := strconv.ParseFloat(feeAmount, 64)
	if err != nil || fee <= 0 {
		return 0
	}
	in, err := strconv.ParseFloat(inAmount, 64)
	if err != nil || in <= 0 {
		return 0
	}
	return fee / in
}
