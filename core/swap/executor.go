// Package swap builds, signs, submits and confirms swap transactions.
package swap

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/jupymate/jupymate_navigator/config"
	"github.com/jupymate/jupymate_navigator/core/jupiter"
	"github.com/jupymate/jupymate_navigator/utils/logger"
	"github.com/sirupsen/logrus"
)

const (
	// transport-layer broadcast retries; the executor itself never retries
	broadcastMaxRetries = 2

	defaultConfirmInterval = 2 * time.Second
	defaultConfirmTimeout  = 60 * time.Second
)

// Broadcaster is the slice of the Solana RPC client the executor uses.
// *rpc.Client satisfies it.
type Broadcaster interface {
	SendTransactionWithOpts(ctx context.Context, tx *solana.Transaction, opts rpc.TransactionOpts) (solana.Signature, error)
	GetSignatureStatuses(ctx context.Context, searchTransactionHistory bool, sigs ...solana.Signature) (*rpc.GetSignatureStatusesResult, error)
}

// TxBuilder is the slice of the aggregator client the executor uses.
type TxBuilder interface {
	BuildSwapTransaction(ctx context.Context, quote *jupiter.QuoteResult, userPublicKey string) (string, error)
}

// Receipt is produced only after on-chain confirmation. Terminal and
// immutable.
type Receipt struct {
	Signature   string    `json:"signature"`
	Slot        uint64    `json:"slot"`
	ConfirmedAt time.Time `json:"confirmed_at"`
}

type Executor struct {
	builder         TxBuilder
	broadcaster     Broadcaster
	confirmInterval time.Duration
	confirmTimeout  time.Duration
}

type ExecutorConfig struct {
	Builder         TxBuilder
	Broadcaster     Broadcaster
	ConfirmInterval time.Duration
	ConfirmTimeout  time.Duration
}

func NewExecutor(cfg *ExecutorConfig) *Executor {
	interval := cfg.ConfirmInterval
	if interval == 0 {
		interval = defaultConfirmInterval
	}
	timeout := cfg.ConfirmTimeout
	if timeout == 0 {
		timeout = defaultConfirmTimeout
	}

	return &Executor{
		builder:         cfg.Builder,
		broadcaster:     cfg.Broadcaster,
		confirmInterval: interval,
		confirmTimeout:  timeout,
	}
}

var defaultExecutor *Executor
var once sync.Once

func GetExecutor() *Executor {
	once.Do(func() {
		rpcURL := config.GetSolanaConfig().RPCURL
		if rpcURL == "" {
			rpcURL = rpc.MainNetBeta_RPC
		}

		defaultExecutor = NewExecutor(&ExecutorConfig{
			Builder:     jupiter.NewClientFromConf(),
			Broadcaster: rpc.New(rpcURL),
		})
	})
	return defaultExecutor
}

// BuildUnsigned fetches the unsigned transaction envelope for a quote.
// First leg of the wallet flow: the envelope goes back to the browser
// for the wallet adapter to sign.
func (e *Executor) BuildUnsigned(ctx context.Context, quote *jupiter.QuoteResult, userPublicKey string) (string, error) {
	return e.builder.BuildSwapTransaction(ctx, quote, userPublicKey)
}

// PrepareAndSubmit executes a previously fetched quote with the given
// signer. Moves funds irreversibly on success; failure states are
// distinct so the caller can tell "never submitted" from "submitted but
// unconfirmed" (see ConfirmationPendingError).
func (e *Executor) PrepareAndSubmit(ctx context.Context, quote *jupiter.QuoteResult, signer Signer) (*Receipt, error) {
	txBase64, err := e.builder.BuildSwapTransaction(ctx, quote, signer.PublicKey().String())
	if err != nil {
		return nil, err
	}

	tx, err := decodeTransaction(txBase64)
	if err != nil {
		return nil, err
	}

	if err := signer.Sign(ctx, tx); err != nil {
		return nil, err
	}

	return e.submitAndConfirm(ctx, tx)
}

// SubmitSigned broadcasts a transaction already signed by an external
// wallet. Second leg of the wallet flow.
func (e *Executor) SubmitSigned(ctx context.Context, signedTxBase64 string) (*Receipt, error) {
	tx, err := decodeTransaction(signedTxBase64)
	if err != nil {
		return nil, err
	}
	return e.submitAndConfirm(ctx, tx)
}

func (e *Executor) submitAndConfirm(ctx context.Context, tx *solana.Transaction) (*Receipt, error) {
	maxRetries := uint(broadcastMaxRetries)
	sig, err := e.broadcaster.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight: true,
		MaxRetries:    &maxRetries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}

	logger.Logrus.WithFields(logrus.Fields{"Signature": sig.String()}).Info("swap transaction submitted")

	return e.awaitConfirmation(ctx, sig)
}

func (e *Executor) awaitConfirmation(ctx context.Context, sig solana.Signature) (*Receipt, error) {
	deadline := time.Now().Add(e.confirmTimeout)
	ticker := time.NewTicker(e.confirmInterval)
	defer ticker.Stop()

	for {
		statuses, err := e.broadcaster.GetSignatureStatuses(ctx, false, sig)
		if err == nil && statuses != nil && len(statuses.Value) > 0 && statuses.Value[0] != nil {
			status := statuses.Value[0]

			if status.Err != nil {
				return nil, &TransactionFailedError{Signature: sig.String(), Err: status.Err}
			}

			if status.ConfirmationStatus == rpc.ConfirmationStatusConfirmed ||
				status.ConfirmationStatus == rpc.ConfirmationStatusFinalized {
				return &Receipt{
					Signature:   sig.String(),
					Slot:        status.Slot,
					ConfirmedAt: time.Now(),
				}, nil
			}
		}

		if time.Now().After(deadline) {
			return nil, &ConfirmationPendingError{Signature: sig.String()}
		}

		select {
		case <-ctx.Done():
			return nil, &ConfirmationPendingError{Signature: sig.String()}
		case <-ticker.C:
		}
	}
}

func decodeTransaction(txBase64 string) (*solana.Transaction, error) {
	txBytes, err := base64.StdEncoding.DecodeString(txBase64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode transaction: %w", err)
	}

	tx, err := solana.TransactionFromBytes(txBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse transaction: %w", err)
	}
	return tx, nil
}
