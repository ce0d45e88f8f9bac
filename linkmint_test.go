/*
Copyright 2024 Linkmint Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package linkmint

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/linkmint/linkmint/config"
	"github.com/linkmint/linkmint/database"
	"github.com/linkmint/linkmint/model"
)

// newTestLinkmint builds an engine over sqlmock with redis pointed at a
// miniredis instance, so locks and queues have somewhere real to talk to.
func newTestLinkmint(t *testing.T, cnf *config.Configuration) (*Linkmint, sqlmock.Sqlmock, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	if cnf == nil {
		cnf = &config.Configuration{}
	}
	cnf.Redis = config.RedisConfig{Dns: mr.Addr()}
	config.MockConfig(cnf)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	lm, err := NewLinkmint(&database.Datasource{Conn: db})
	require.NoError(t, err)
	return lm, mock, mr
}

var affiliateColumns = []string{
	"affiliate_id", "store_id", "email", "name", "website", "commission_bps", "status",
	"total_earnings", "total_sales", "click_count", "conversion_rate", "created_at", "meta_data",
}

func affiliateRow(a model.Affiliate) *sqlmock.Rows {
	return sqlmock.NewRows(affiliateColumns).
		AddRow(a.AffiliateID, a.StoreID, a.Email, a.Name, a.Website, a.CommissionBps, a.Status,
			a.TotalEarnings, a.TotalSales, a.ClickCount, a.ConversionRate, time.Now(), nil)
}

var linkColumns = []string{
	"link_id", "affiliate_id", "store_id", "tracking_code", "original_url",
	"utm_source", "utm_medium", "utm_campaign", "clicks", "conversions", "revenue", "created_at", "meta_data",
}

func linkRow(l model.TrackingLink) *sqlmock.Rows {
	return sqlmock.NewRows(linkColumns).
		AddRow(l.LinkID, l.AffiliateID, l.StoreID, l.TrackingCode, l.OriginalURL,
			l.UTMSource, l.UTMMedium, l.UTMCampaign, l.Clicks, l.Conversions, l.Revenue, time.Now(), nil)
}

var commissionColumns = []string{
	"entry_id", "affiliate_id", "store_id", "order_id", "order_value", "commission_bps",
	"commission_amount", "tracking_code", "payout_status", "converted_at", "status_at", "created_at",
}

func expectAffiliateLookup(mock sqlmock.Sqlmock, a model.Affiliate) {
	mock.ExpectQuery("SELECT .* FROM affiliates").WillReturnRows(affiliateRow(a))
}

func expectLinkLookup(mock sqlmock.Sqlmock, l model.TrackingLink) {
	mock.ExpectQuery("SELECT .* FROM tracking_links").WillReturnRows(linkRow(l))
}

func assertExpectationsMet(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}
