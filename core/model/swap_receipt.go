package model

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	SwapStatusConfirmed = "confirmed"
	SwapStatusFailed    = "failed"
	SwapStatusPending   = "pending"
)

type SwapReceiptRecord struct {
	bun.BaseModel `bun:"table:jn_swap_receipt,alias:sr"`

	Signature  string `bun:"signature,pk,notnull"`
	InputMint  string `bun:"input_mint,notnull"`
	OutputMint string `bun:"output_mint,notnull"`
	InAmount   int64  `bun:"in_amount"`
	OutAmount  int64  `bun:"out_amount"`
	Wallet     string `bun:"wallet"`
	Status     string `bun:"status,notnull"`
	Slot       int64  `bun:"slot"`

	ConfirmedAt time.Time `bun:"confirmed_at,nullzero"`
	CreateAt    time.Time `bun:"create_at,nullzero"`
}
