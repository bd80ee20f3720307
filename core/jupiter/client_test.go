package jupiter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	mintSOL  = "So11111111111111111111111111111111111111112"
	mintUSDC = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	mintJUP  = "JUPyiwrYJFskUPiHa7hkeR8VUtAeFoSYbKedZNsDvCN"
)

func newTestClient(quoteURL, swapURL, priceURL string) *Client {
	return NewClient(&ClientConfig{
		QuoteURL: quoteURL,
		SwapURL:  swapURL,
		PriceURL: priceURL,
	})
}

func TestGetQuoteRoutePlanShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, mintSOL, r.URL.Query().Get("inputMint"))
		assert.Equal(t, mintUSDC, r.URL.Query().Get("outputMint"))
		assert.Equal(t, "1000000000", r.URL.Query().Get("amount"))
		assert.Equal(t, "50", r.URL.Query().Get("slippageBps"))

		_, _ = w.Write([]byte(`{
			"inputMint": "` + mintSOL + `",
			"inAmount": "1000000000",
			"outputMint": "` + mintUSDC + `",
			"outAmount": "150000000",
			"priceImpactPct": "0.0012",
			"routePlan": [
				{"swapInfo": {"label": "Orca", "inputMint": "` + mintSOL + `", "outputMint": "` + mintJUP + `", "inAmount": "1000000000", "outAmount": "200000000", "feeAmount": "2500000", "feeMint": "` + mintSOL + `"}, "percent": 100},
				{"swapInfo": {"label": "Raydium", "inputMint": "` + mintJUP + `", "outputMint": "` + mintUSDC + `", "inAmount": "200000000", "outAmount": "150000000", "feeAmount": "0", "feeMint": "` + mintJUP + `"}, "percent": 100}
			]
		}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, "", "")
	got, err := c.GetQuote(context.Background(), mintSOL, mintUSDC, 1000000000, "")
	require.NoError(t, err)

	assert.Equal(t, uint64(1000000000), got.InAmount)
	assert.Equal(t, uint64(150000000), got.OutAmount)
	assert.Equal(t, 0.0012, got.PriceImpact)

	require.Len(t, got.RouteHops, 2)
	assert.Equal(t, "Orca", got.RouteHops[0].MarketLabel)
	assert.Equal(t, mintSOL, got.RouteHops[0].InputMint)
	assert.Equal(t, mintJUP, got.RouteHops[0].OutputMint)
	assert.InDelta(t, 0.0025, got.RouteHops[0].FeeFraction, 1e-9)
	assert.Equal(t, "Raydium", got.RouteHops[1].MarketLabel)
	assert.Equal(t, 0.0, got.RouteHops[1].FeeFraction)

	assert.NotEmpty(t, got.Raw)
}

func TestGetQuoteMarketInfosShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"inputMint": "` + mintSOL + `",
			"inAmount": "1000000000",
			"outputMint": "` + mintUSDC + `",
			"outAmount": "149000000",
			"priceImpactPct": "0.034",
			"marketInfos": [
				{"id": "abc", "label": "Meteora", "inputMint": "` + mintSOL + `", "outputMint": "` + mintUSDC + `", "inAmount": "1000000000", "outAmount": "149000000", "lpFee": {"amount": "3000", "mint": "` + mintSOL + `", "pct": "0.003"}}
			]
		}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, "", "")
	got, err := c.GetQuote(context.Background(), mintSOL, mintUSDC, 1000000000, "")
	require.NoError(t, err)

	require.Len(t, got.RouteHops, 1)
	assert.Equal(t, "Meteora", got.RouteHops[0].MarketLabel)
	assert.InDelta(t, 0.003, got.RouteHops[0].FeeFraction, 1e-9)
	assert.Equal(t, 0.034, got.PriceImpact)
}

func TestGetQuoteDisconnectedRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"inputMint": "` + mintSOL + `",
			"inAmount": "1000000000",
			"outputMint": "` + mintUSDC + `",
			"outAmount": "149000000",
			"priceImpactPct": "0.001",
			"routePlan": [
				{"swapInfo": {"label": "Orca", "inputMint": "` + mintJUP + `", "outputMint": "` + mintUSDC + `", "inAmount": "1", "outAmount": "1", "feeAmount": "0"}}
			]
		}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, "", "")
	_, err := c.GetQuote(context.Background(), mintSOL, mintUSDC, 1000000000, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not connect")
}

func TestGetQuoteEmptyRouteIsNoRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"inputMint": "` + mintSOL + `", "inAmount": "10", "outputMint": "` + mintUSDC + `", "outAmount": "0", "priceImpactPct": "0"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, "", "")
	_, err := c.GetQuote(context.Background(), mintSOL, mintUSDC, 10, "")

	var noRoute *NoRouteError
	require.ErrorAs(t, err, &noRoute)
	assert.Equal(t, mintSOL, noRoute.InputMint)
	assert.Equal(t, mintUSDC, noRoute.OutputMint)
}

func TestGetQuoteUpstreamErrorNoRetry(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": "aggregator melted"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, "", "")
	_, err := c.GetQuote(context.Background(), mintSOL, mintUSDC, 10, "")

	var upstream *UpstreamHTTPError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusInternalServerError, upstream.Status)
	assert.Equal(t, "aggregator melted", upstream.Message)

	// single attempt, no retry
	assert.Equal(t, 1, calls)
}

func TestGetQuoteUpstreamErrorNonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>nope</html>"))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, "", "")
	_, err := c.GetQuote(context.Background(), mintSOL, mintUSDC, 10, "")

	var upstream *UpstreamHTTPError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusBadGateway, upstream.Status)
	assert.Contains(t, upstream.Message, "502")
}

func TestGetQuoteValidatesInput(t *testing.T) {
	c := newTestClient("http://localhost:1", "", "")

	_, err := c.GetQuote(context.Background(), "", mintUSDC, 10, "")
	require.Error(t, err)

	_, err = c.GetQuote(context.Background(), mintSOL, mintUSDC, 0, "")
	require.Error(t, err)
}

func TestBuildSwapTransactionReplaysRawQuote(t *testing.T) {
	quoteBody := `{"inputMint":"` + mintSOL + `","outAmount":"1"}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			QuoteResponse    map[string]interface{} `json:"quoteResponse"`
			UserPublicKey    string                 `json:"userPublicKey"`
			WrapAndUnwrapSol bool                   `json:"wrapAndUnwrapSol"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		assert.Equal(t, mintSOL, req.QuoteResponse["inputMint"])
		assert.Equal(t, "wallet111", req.UserPublicKey)
		assert.True(t, req.WrapAndUnwrapSol)

		_, _ = w.Write([]byte(`{"swapTransaction": "dGVzdA==", "lastValidBlockHeight": 100}`))
	}))
	defer srv.Close()

	c := newTestClient("", srv.URL, "")
	quote := &QuoteResult{Raw: []byte(quoteBody)}

	tx, err := c.BuildSwapTransaction(context.Background(), quote, "wallet111")
	require.NoError(t, err)
	assert.Equal(t, "dGVzdA==", tx)
}

func TestBuildSwapTransactionUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error": "quote expired"}`))
	}))
	defer srv.Close()

	c := newTestClient("", srv.URL, "")
	quote := &QuoteResult{Raw: []byte(`{}`)}

	_, err := c.BuildSwapTransaction(context.Background(), quote, "wallet111")

	var buildErr *SwapBuildError
	require.ErrorAs(t, err, &buildErr)
	assert.Equal(t, "quote expired", buildErr.Message)
}

func TestBuildSwapTransactionRequiresQuoteAndKey(t *testing.T) {
	c := newTestClient("", "http://localhost:1", "")

	_, err := c.BuildSwapTransaction(context.Background(), nil, "wallet111")
	require.Error(t, err)

	_, err = c.BuildSwapTransaction(context.Background(), &QuoteResult{Raw: []byte(`{}`)}, "")
	require.Error(t, err)
}

func TestGetPriceMap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "SOL,BONK", r.URL.Query().Get("ids"))
		_, _ = w.Write([]byte(`{"data": {"SOL": {"price": 150.25}, "BONK": {"price": 0.000021}}}`))
	}))
	defer srv.Close()

	c := newTestClient("", "", srv.URL)
	got, err := c.GetPriceMap(context.Background(), []string{"SOL", "BONK"})
	require.NoError(t, err)

	assert.Equal(t, 150.25, got["SOL"])
	assert.Equal(t, 0.000021, got["BONK"])
}

func TestGetPriceMapEmptyInput(t *testing.T) {
	c := newTestClient("", "", "http://localhost:1")
	got, err := c.GetPriceMap(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestErrorTypesAreDistinct(t *testing.T) {
	var err error = &UpstreamHTTPError{Status: 500}

	var noRoute *NoRouteError
	assert.False(t, errors.As(err, &noRoute))

	var upstream *UpstreamHTTPError
	assert.True(t, errors.As(err, &upstream))
}
