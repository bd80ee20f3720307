package swap

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Signer is the single capability both credential variants expose:
// produce signatures on a deserialized transaction.
type Signer interface {
	PublicKey() solana.PublicKey
	Sign(ctx context.Context, tx *solana.Transaction) error
}

// RawKeySigner holds a secret key materialized from user-supplied input.
// The key lives in memory only as long as the signer does; it is never
// logged, persisted, or sent anywhere.
type RawKeySigner struct {
	key solana.PrivateKey
}

func NewRawKeySigner(privateKeyBase58 string) (*RawKeySigner, error) {
	key, err := solana.PrivateKeyFromBase58(privateKeyBase58)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	return &RawKeySigner{key: key}, nil
}

func (s *RawKeySigner) PublicKey() solana.PublicKey {
	return s.key.PublicKey()
}

func (s *RawKeySigner) Sign(_ context.Context, tx *solana.Transaction) error {
	_, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if s.key.PublicKey().Equals(key) {
			return &s.key
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to sign transaction: %w", err)
	}
	return nil
}

// SignFunc asks an external wallet to apply its signature to the
// transaction.
type SignFunc func(ctx context.Context, tx *solana.Transaction) error

// WalletSigner delegates signing to a connected external wallet. The
// secret key never touches this process.
type WalletSigner struct {
	pubKey solana.PublicKey
	signFn SignFunc
}

func NewWalletSigner(pubKey solana.PublicKey, signFn SignFunc) *WalletSigner {
	return &WalletSigner{pubKey: pubKey, signFn: signFn}
}

func (s *WalletSigner) PublicKey() solana.PublicKey {
	return s.pubKey
}

func (s *WalletSigner) Sign(ctx context.Context, tx *solana.Transaction) error {
	if s.signFn == nil {
		return fmt.Errorf("wallet signer has no signing callback")
	}
	return s.signFn(ctx, tx)
}
