package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/linkmint/linkmint/internal/apierror"
	"github.com/linkmint/linkmint/model"
)

// InsertCommissionEntry appends a ledger entry for an attributed order.
// The ON CONFLICT clause on order_id makes attribution idempotent under
// at-least-once event delivery: a replayed order settles to the same
// single entry. The boolean reports whether this call created the row.
func (d Datasource) InsertCommissionEntry(ctx context.Context, entry *model.CommissionEntry) (bool, error) {
	metaDataJSON, err := json.Marshal(entry.MetaData)
	if err != nil {
		return false, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to marshal metadata", err)
	}

	if entry.EntryID == "" {
		entry.EntryID = model.GenerateUUIDWithSuffix("cme")
	}
	entry.CreatedAt = time.Now()
	entry.StatusAt = entry.CreatedAt
	entry.PayoutStatus = model.PayoutPending

	result, err := d.Conn.ExecContext(ctx,
		`INSERT INTO commission_entries (entry_id, affiliate_id, store_id, order_id, order_value, commission_bps, commission_amount, tracking_code, payout_status, converted_at, status_at, created_at, meta_data)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 ON CONFLICT (order_id) DO NOTHING`,
		entry.EntryID, entry.AffiliateID, entry.StoreID, entry.OrderID, entry.OrderValue, entry.CommissionBps, entry.CommissionCent, entry.TrackingCode, entry.PayoutStatus, entry.ConvertedAt, entry.StatusAt, entry.CreatedAt, metaDataJSON,
	)
	if err != nil {
		return false, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to insert commission entry", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to read insert result", err)
	}
	return rows == 1, nil
}

func (d Datasource) GetCommissionByOrderID(ctx context.Context, orderID string) (*model.CommissionEntry, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT entry_id, affiliate_id, store_id, order_id, order_value, commission_bps, commission_amount, tracking_code, payout_status, converted_at, status_at, created_at, meta_data
		FROM commission_entries
		WHERE order_id = $1
	`, orderID)

	entry := &model.CommissionEntry{}
	var metaDataJSON []byte
	err := row.Scan(&entry.EntryID, &entry.AffiliateID, &entry.StoreID, &entry.OrderID, &entry.OrderValue, &entry.CommissionBps, &entry.CommissionCent, &entry.TrackingCode, &entry.PayoutStatus, &entry.ConvertedAt, &entry.StatusAt, &entry.CreatedAt, &metaDataJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Commission entry for order '%s' not found", orderID), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve commission entry", err)
	}

	if metaDataJSON != nil {
		if err := json.Unmarshal(metaDataJSON, &entry.MetaData); err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to unmarshal metadata", err)
		}
	}

	return entry, nil
}

func (d Datasource) GetCommissionsByAffiliate(ctx context.Context, affiliateID string, limit, offset int) ([]model.CommissionEntry, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT entry_id, affiliate_id, store_id, order_id, order_value, commission_bps, commission_amount, tracking_code, payout_status, converted_at, status_at, created_at
		FROM commission_entries
		WHERE affiliate_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, affiliateID, limit, offset)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve commission entries", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	entries := []model.CommissionEntry{}
	for rows.Next() {
		var e model.CommissionEntry
		err := rows.Scan(&e.EntryID, &e.AffiliateID, &e.StoreID, &e.OrderID, &e.OrderValue, &e.CommissionBps, &e.CommissionCent, &e.TrackingCode, &e.PayoutStatus, &e.ConvertedAt, &e.StatusAt, &e.CreatedAt)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan commission entry", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error iterating commission entries", err)
	}

	return entries, nil
}

func (d Datasource) GetPendingCommissions(ctx context.Context, affiliateID string) ([]*model.CommissionEntry, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT entry_id, affiliate_id, store_id, order_id, order_value, commission_bps, commission_amount, tracking_code, payout_status, converted_at, status_at, created_at
		FROM commission_entries
		WHERE affiliate_id = $1 AND payout_status = $2
		ORDER BY created_at ASC
	`, affiliateID, model.PayoutPending)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve pending commissions", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	entries := []*model.CommissionEntry{}
	for rows.Next() {
		e := &model.CommissionEntry{}
		err := rows.Scan(&e.EntryID, &e.AffiliateID, &e.StoreID, &e.OrderID, &e.OrderValue, &e.CommissionBps, &e.CommissionCent, &e.TrackingCode, &e.PayoutStatus, &e.ConvertedAt, &e.StatusAt, &e.CreatedAt)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan pending commission", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error iterating pending commissions", err)
	}

	return entries, nil
}

// MarkCommissionsProcessing is the payout lease. It only moves entries
// that are still pending and returns the IDs it actually moved, so the
// caller knows exactly which entries it owns; a racing batch claiming
// the same entries sees an empty set.
func (d Datasource) MarkCommissionsProcessing(ctx context.Context, entryIDs []string) ([]string, error) {
	if len(entryIDs) == 0 {
		return nil, nil
	}
	rows, err := d.Conn.QueryContext(ctx, `
		UPDATE commission_entries
		SET payout_status = $2, status_at = NOW()
		WHERE entry_id = ANY($1) AND payout_status = $3
		RETURNING entry_id
	`, pq.Array(entryIDs), model.PayoutProcessing, model.PayoutPending)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to lease commissions for processing", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	claimed := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan leased entry", err)
		}
		claimed = append(claimed, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error iterating leased entries", err)
	}
	return claimed, nil
}

// MarkCommissionsPaid finalizes entries the caller holds in processing.
func (d Datasource) MarkCommissionsPaid(ctx context.Context, entryIDs []string) (int64, error) {
	return d.transitionCommissions(ctx, entryIDs, model.PayoutProcessing, model.PayoutPaid)
}

// RevertCommissionsToPending releases entries after a failed or timed
// out disbursement so a later batch can retry them.
func (d Datasource) RevertCommissionsToPending(ctx context.Context, entryIDs []string) (int64, error) {
	return d.transitionCommissions(ctx, entryIDs, model.PayoutProcessing, model.PayoutPending)
}

func (d Datasource) transitionCommissions(ctx context.Context, entryIDs []string, from, to string) (int64, error) {
	if len(entryIDs) == 0 {
		return 0, nil
	}
	result, err := d.Conn.ExecContext(ctx, `
		UPDATE commission_entries
		SET payout_status = $3, status_at = NOW()
		WHERE entry_id = ANY($1) AND payout_status = $2
	`, pq.Array(entryIDs), from, to)
	if err != nil {
		return 0, apierror.NewAPIError(apierror.ErrInternalServer, fmt.Sprintf("Failed to move commissions from %s to %s", from, to), err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to read transition result", err)
	}
	return rows, nil
}

// ReclaimStaleProcessing returns entries stranded in processing by a
// crashed batch to pending. Only entries whose last status change is
// older than the cutoff are touched.
func (d Datasource) ReclaimStaleProcessing(ctx context.Context, olderThan time.Time) (int64, error) {
	result, err := d.Conn.ExecContext(ctx, `
		UPDATE commission_entries
		SET payout_status = $1, status_at = NOW()
		WHERE payout_status = $2 AND status_at < $3
	`, model.PayoutPending, model.PayoutProcessing, olderThan)
	if err != nil {
		return 0, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to reclaim stale processing entries", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to read reclaim result", err)
	}
	return rows, nil
}
