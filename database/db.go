package database

import (
	"database/sql"
	"sync"

	"github.com/pkg/errors"

	"github.com/linkmint/linkmint/config"
	"github.com/linkmint/linkmint/internal/cache"
)

// Declare a package-level variable to hold the singleton instance.
// Ensure the instance is not accessible outside the package.
var instance *Datasource
var once sync.Once

type Datasource struct {
	Conn  *sql.DB
	Cache cache.Cache
}

func NewDataSource(configuration *config.Configuration) (IDataSource, error) {
	con, err := GetDBConnection(configuration)
	if err != nil {
		return nil, err
	}
	return con, nil
}

// GetDBConnection provides a global access point to the instance and initializes it if it's not already.
func GetDBConnection(configuration *config.Configuration) (*Datasource, error) {
	var err error
	once.Do(func() {
		con, errConn := ConnectDB(configuration.DataSource.Dns)
		if errConn != nil {
			err = errConn
			return
		}
		instance = &Datasource{Conn: con, Cache: nil}
	})
	if err != nil {
		return nil, err
	}
	return instance, nil
}

func ConnectDB(dns string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dns)
	if err != nil {
		return nil, errors.Wrap(err, "opening database connection")
	}
	err = db.Ping()
	if err != nil {
		return nil, errors.Wrap(err, "pinging database")
	}
	err = createAffiliateTable(db)
	if err != nil {
		return nil, err
	}
	err = createTrackingLinkTable(db)
	if err != nil {
		return nil, err
	}
	err = createCommissionEntryTable(db)
	if err != nil {
		return nil, err
	}
	err = createClickEventTable(db)
	if err != nil {
		return nil, err
	}
	return db, nil
}

// createAffiliateTable creates a PostgreSQL table for the Affiliate struct.
// Cumulative counters live here and are only ever moved by atomic
// increments; email is unique per store.
func createAffiliateTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS affiliates (
			id SERIAL PRIMARY KEY,
			affiliate_id TEXT NOT NULL UNIQUE,
			store_id TEXT NOT NULL,
			email TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			website TEXT NOT NULL DEFAULT '',
			commission_bps BIGINT NOT NULL DEFAULT 0,
			status TEXT NOT NULL CHECK (status IN ('pending', 'active', 'suspended', 'banned')),
			total_earnings BIGINT NOT NULL DEFAULT 0,
			total_sales BIGINT NOT NULL DEFAULT 0,
			click_count BIGINT NOT NULL DEFAULT 0,
			conversion_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			meta_data JSONB,
			CONSTRAINT uq_affiliates_store_email UNIQUE (store_id, email)
		)
	`)
	return errors.Wrap(err, "creating affiliates table")
}

// createTrackingLinkTable creates a PostgreSQL table for the TrackingLink
// struct. The unique constraint on tracking_code is what turns truncated
// digest collisions into retryable errors at issuance.
func createTrackingLinkTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS tracking_links (
			id SERIAL PRIMARY KEY,
			link_id TEXT NOT NULL UNIQUE,
			affiliate_id TEXT NOT NULL REFERENCES affiliates(affiliate_id),
			store_id TEXT NOT NULL,
			tracking_code TEXT NOT NULL,
			original_url TEXT NOT NULL,
			utm_source TEXT NOT NULL DEFAULT '',
			utm_medium TEXT NOT NULL DEFAULT '',
			utm_campaign TEXT NOT NULL DEFAULT '',
			clicks BIGINT NOT NULL DEFAULT 0,
			conversions BIGINT NOT NULL DEFAULT 0,
			revenue BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			meta_data JSONB,
			CONSTRAINT uq_tracking_links_code UNIQUE (tracking_code)
		)
	`)
	return errors.Wrap(err, "creating tracking_links table")
}

// createCommissionEntryTable creates a PostgreSQL table for the
// CommissionEntry struct. The unique constraint on order_id is the
// idempotency guard for at-least-once order event delivery.
func createCommissionEntryTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS commission_entries (
			id SERIAL PRIMARY KEY,
			entry_id TEXT NOT NULL UNIQUE,
			affiliate_id TEXT NOT NULL REFERENCES affiliates(affiliate_id),
			store_id TEXT NOT NULL,
			order_id TEXT NOT NULL,
			order_value BIGINT NOT NULL,
			commission_bps BIGINT NOT NULL,
			commission_amount BIGINT NOT NULL,
			tracking_code TEXT NOT NULL,
			payout_status TEXT NOT NULL CHECK (payout_status IN ('pending', 'processing', 'paid')),
			converted_at TIMESTAMP NOT NULL,
			status_at TIMESTAMP NOT NULL DEFAULT NOW(),
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			meta_data JSONB,
			CONSTRAINT uq_commission_entries_order UNIQUE (order_id)
		)
	`)
	return errors.Wrap(err, "creating commission_entries table")
}

// createClickEventTable creates a PostgreSQL table for click analytics
// records. Append-only, written off the request path by the workers.
func createClickEventTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS click_events (
			id SERIAL PRIMARY KEY,
			click_id TEXT NOT NULL UNIQUE,
			tracking_code TEXT NOT NULL,
			affiliate_id TEXT NOT NULL,
			ip_address TEXT NOT NULL DEFAULT '',
			user_agent TEXT NOT NULL DEFAULT '',
			referrer TEXT NOT NULL DEFAULT '',
			clicked_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	return errors.Wrap(err, "creating click_events table")
}
