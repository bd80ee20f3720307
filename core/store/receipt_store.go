// Package store persists swap receipts for the dashboard history view.
package store

import (
	"context"

	"github.com/jupymate/jupymate_navigator/core/db"
	"github.com/jupymate/jupymate_navigator/core/model"
	"github.com/jupymate/jupymate_navigator/utils/logger"
	"github.com/sirupsen/logrus"
)

// InsertSwapReceipt writes one confirmed swap. No-op when persistence
// is disabled; insert failures are logged, never surfaced to the user
// whose swap already succeeded on chain.
func InsertSwapReceipt(ctx context.Context, record *model.SwapReceiptRecord) {
	bundb := db.GetDB()
	if bundb == nil {
		return
	}

	_, err := bundb.NewInsert().
		Model(record).
		On("CONFLICT (signature) DO NOTHING").
		Exec(ctx)
	if err != nil {
		logger.Logrus.WithFields(logrus.Fields{"Signature": record.Signature, "ErrMsg": err}).Error("insert swap receipt failed")
	}
}

// QueryRecentSwaps lists the most recent receipts, newest first.
func QueryRecentSwaps(ctx context.Context, limit int) ([]model.SwapReceiptRecord, error) {
	bundb := db.GetDB()
	if bundb == nil {
		return []model.SwapReceiptRecord{}, nil
	}

	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var records []model.SwapReceiptRecord
	err := bundb.NewSelect().
		Model(&records).
		Order("confirmed_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return records, nil
}
