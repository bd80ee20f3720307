package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jupymate/jupymate_navigator/core/events"
	"github.com/jupymate/jupymate_navigator/core/jupiter"
	"github.com/jupymate/jupymate_navigator/core/model"
	"github.com/jupymate/jupymate_navigator/core/store"
	"github.com/jupymate/jupymate_navigator/core/swap"
	"github.com/jupymate/jupymate_navigator/utils/logger"
	"github.com/sirupsen/logrus"
)

type SwapRequest struct {
	Quote *jupiter.QuoteResult `json:"quote" binding:"required"`

	// base58 secret key for the raw-key flow; held only for the
	// duration of the request, never logged or persisted
	PrivateKey string `json:"private_key" binding:"required"`
}

type SwapTransactionRequest struct {
	Quote         *jupiter.QuoteResult `json:"quote" binding:"required"`
	UserPublicKey string               `json:"user_public_key" binding:"required"`
}

type SwapSubmitRequest struct {
	SignedTransaction string               `json:"signed_transaction" binding:"required"`
	Quote             *jupiter.QuoteResult `json:"quote"`
	Wallet            string               `json:"wallet"`
}

// SwapHandler executes a previously fetched quote with a raw private
// key supplied by the user.
func SwapHandler(c *gin.Context) {
	var req SwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if len(req.Quote.Raw) == 0 {
		respondBadRequest(c, "quote is missing its raw payload, fetch a fresh quote")
		return
	}

	signer, err := swap.NewRawKeySigner(req.PrivateKey)
	if err != nil {
		respondBadRequest(c, "invalid private key")
		return
	}

	receipt, err := swap.GetExecutor().PrepareAndSubmit(c.Request.Context(), req.Quote, signer)
	if err != nil {
		logger.Logrus.WithFields(logrus.Fields{"InputMint": req.Quote.InputMint, "OutputMint": req.Quote.OutputMint, "ErrMsg": err}).Error("raw key swap failed")
		respondError(c, err)
		return
	}

	recordSwap(receipt, req.Quote, signer.PublicKey().String())
	respondOK(c, receipt)
}

// SwapTransactionHandler returns the unsigned transaction envelope for
// a connected wallet to sign in the browser.
func SwapTransactionHandler(c *gin.Context) {
	var req SwapTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if len(req.Quote.Raw) == 0 {
		respondBadRequest(c, "quote is missing its raw payload, fetch a fresh quote")
		return
	}

	txBase64, err := swap.GetExecutor().BuildUnsigned(c.Request.Context(), req.Quote, req.UserPublicKey)
	if err != nil {
		logger.Logrus.WithFields(logrus.Fields{"UserPublicKey": req.UserPublicKey, "ErrMsg": err}).Error("build swap transaction failed")
		respondError(c, err)
		return
	}

	respondOK(c, gin.H{"swap_transaction": txBase64})
}

// SwapSubmitHandler broadcasts a wallet-signed transaction and waits
// for confirmation.
func SwapSubmitHandler(c *gin.Context) {
	var req SwapSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	receipt, err := swap.GetExecutor().SubmitSigned(c.Request.Context(), req.SignedTransaction)
	if err != nil {
		logger.Logrus.WithFields(logrus.Fields{"Wallet": req.Wallet, "ErrMsg": err}).Error("submit signed swap failed")
		respondError(c, err)
		return
	}

	recordSwap(receipt, req.Quote, req.Wallet)
	respondOK(c, receipt)
}

// recordSwap persists the receipt and publishes the swap event, both
// best effort after the on-chain success.
func recordSwap(receipt *swap.Receipt, quote *jupiter.QuoteResult, wallet string) {
	record := &model.SwapReceiptRecord{
		Signature:   receipt.Signature,
		Wallet:      wallet,
		Status:      model.SwapStatusConfirmed,
		Slot:        int64(receipt.Slot),
		ConfirmedAt: receipt.ConfirmedAt,
		CreateAt:    time.Now(),
	}

	event := &events.SwapEvent{
		Signature:   receipt.Signature,
		Wallet:      wallet,
		ConfirmedAt: receipt.ConfirmedAt,
	}

	if quote != nil {
		record.InputMint = quote.InputMint
		record.OutputMint = quote.OutputMint
		record.InAmount = int64(quote.InAmount)
		record.OutAmount = int64(quote.OutAmount)

		event.InputMint = quote.InputMint
		event.OutputMint = quote.OutputMint
		event.InAmount = quote.InAmount
		event.OutAmount = quote.OutAmount
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store.InsertSwapReceipt(ctx, record)
	events.PublishSwapEvent(event)
}

// SwapHistoryHandler lists recent confirmed swaps.
func SwapHistoryHandler(c *gin.Context) {
	records, err := store.QueryRecentSwaps(c.Request.Context(), 50)
	if err != nil {
		logger.Logrus.WithFields(logrus.Fields{"ErrMsg": err}).Error("query swap history failed")
		respondError(c, err)
		return
	}
	respondOK(c, records)
}
