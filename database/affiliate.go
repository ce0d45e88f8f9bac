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

func (d Datasource) CreateAffiliate(ctx context.Context, affiliate model.Affiliate) (model.Affiliate, error) {
	metaDataJSON, err := json.Marshal(affiliate.MetaData)
	if err != nil {
		return model.Affiliate{}, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to marshal metadata", err)
	}

	affiliate.AffiliateID = model.GenerateUUIDWithSuffix("aff")
	affiliate.CreatedAt = time.Now()
	if affiliate.Status == "" {
		affiliate.Status = model.StatusPending
	}

	_, err = d.Conn.ExecContext(ctx,
		`INSERT INTO affiliates (affiliate_id, store_id, email, name, website, commission_bps, status, created_at, meta_data)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		affiliate.AffiliateID, affiliate.StoreID, affiliate.Email, affiliate.Name, affiliate.Website, affiliate.CommissionBps, affiliate.Status, affiliate.CreatedAt, metaDataJSON,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return model.Affiliate{}, apierror.NewAPIError(apierror.ErrConflict, fmt.Sprintf("Affiliate with email '%s' already exists for this store", affiliate.Email), err)
		}
		return model.Affiliate{}, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create affiliate", err)
	}

	return affiliate, nil
}

func (d Datasource) GetAffiliateByID(ctx context.Context, id string) (*model.Affiliate, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT affiliate_id, store_id, email, name, website, commission_bps, status, total_earnings, total_sales, click_count, conversion_rate, created_at, meta_data
		FROM affiliates
		WHERE affiliate_id = $1
	`, id)

	affiliate := &model.Affiliate{}
	var metaDataJSON []byte
	err := row.Scan(&affiliate.AffiliateID, &affiliate.StoreID, &affiliate.Email, &affiliate.Name, &affiliate.Website, &affiliate.CommissionBps, &affiliate.Status, &affiliate.TotalEarnings, &affiliate.TotalSales, &affiliate.ClickCount, &affiliate.ConversionRate, &affiliate.CreatedAt, &metaDataJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Affiliate with ID '%s' not found", id), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve affiliate", err)
	}

	if metaDataJSON != nil {
		if err := json.Unmarshal(metaDataJSON, &affiliate.MetaData); err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to unmarshal metadata", err)
		}
	}

	return affiliate, nil
}

func (d Datasource) GetAffiliatesByStore(ctx context.Context, storeID string, limit, offset int) ([]model.Affiliate, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT affiliate_id, store_id, email, name, website, commission_bps, status, total_earnings, total_sales, click_count, conversion_rate, created_at
		FROM affiliates
		WHERE store_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, storeID, limit, offset)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve affiliates", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	affiliates := []model.Affiliate{}
	for rows.Next() {
		var a model.Affiliate
		err := rows.Scan(&a.AffiliateID, &a.StoreID, &a.Email, &a.Name, &a.Website, &a.CommissionBps, &a.Status, &a.TotalEarnings, &a.TotalSales, &a.ClickCount, &a.ConversionRate, &a.CreatedAt)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan affiliate", err)
		}
		affiliates = append(affiliates, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error iterating affiliates", err)
	}

	return affiliates, nil
}

func (d Datasource) UpdateAffiliateStatus(ctx context.Context, id string, status string) error {
	result, err := d.Conn.ExecContext(ctx, `
		UPDATE affiliates SET status = $2 WHERE affiliate_id = $1
	`, id, status)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update affiliate status", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Affiliate with ID '%s' not found", id), nil)
	}
	return nil
}

func (d Datasource) UpdateAffiliateCommissionRate(ctx context.Context, id string, commissionBps int64) error {
	result, err := d.Conn.ExecContext(ctx, `
		UPDATE affiliates SET commission_bps = $2 WHERE affiliate_id = $1
	`, id, commissionBps)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update commission rate", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Affiliate with ID '%s' not found", id), nil)
	}
	return nil
}

// IncrementAffiliateClicks bumps the affiliate click counter inside the
// database so concurrent clicks never lose updates.
func (d Datasource) IncrementAffiliateClicks(ctx context.Context, id string) error {
	_, err := d.Conn.ExecContext(ctx, `
		UPDATE affiliates
		SET click_count = click_count + 1,
		    conversion_rate = CASE WHEN click_count + 1 > 0 THEN total_sales::float / (click_count + 1) ELSE 0 END
		WHERE affiliate_id = $1
	`, id)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to increment affiliate clicks", err)
	}
	return nil
}

// ApplyConversionToAffiliate credits a settled conversion to the
// affiliate's cumulative totals in one atomic statement.
func (d Datasource) ApplyConversionToAffiliate(ctx context.Context, id string, commissionCents int64) error {
	_, err := d.Conn.ExecContext(ctx, `
		UPDATE affiliates
		SET total_sales = total_sales + 1,
		    total_earnings = total_earnings + $2,
		    conversion_rate = CASE WHEN click_count > 0 THEN (total_sales + 1)::float / click_count ELSE 0 END
		WHERE affiliate_id = $1
	`, id, commissionCents)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to apply conversion to affiliate", err)
	}
	return nil
}
