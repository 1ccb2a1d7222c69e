// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/commissions/internal/models"
	"github.com/mmynk/commissions/internal/money"
	"github.com/mmynk/commissions/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Pragmas go in the DSN so every pooled connection gets them
	dsn := dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// UpsertServiceRule creates or replaces a service's commission rule.
func (s *SQLiteStore) UpsertServiceRule(ctx context.Context, rule *models.ServiceRule) error {
	if rule.UpdatedAt == 0 {
		rule.UpdatedAt = s.now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO service_rules (service_id, vendor_id, vendor_referral_bp, platform_fee_bp, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(service_id) DO UPDATE SET
		     vendor_id = excluded.vendor_id,
		     vendor_referral_bp = excluded.vendor_referral_bp,
		     platform_fee_bp = excluded.platform_fee_bp,
		     updated_at = excluded.updated_at`,
		rule.ServiceID, rule.VendorID, rule.VendorReferralRate.BasisPoints(),
		nullableRate(rule.PlatformFeeRate), rule.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert service rule: %w", err)
	}
	return nil
}

// GetServiceRule retrieves a service's commission rule.
func (s *SQLiteStore) GetServiceRule(ctx context.Context, serviceID string) (*models.ServiceRule, error) {
	rule := &models.ServiceRule{}
	var vendorBP int64
	var platformBP sql.NullInt64

	err := s.db.QueryRowContext(ctx,
		`SELECT service_id, vendor_id, vendor_referral_bp, platform_fee_bp, updated_at
		 FROM service_rules WHERE service_id = ?`,
		serviceID,
	).Scan(&rule.ServiceID, &rule.VendorID, &vendorBP, &platformBP, &rule.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("service rule %s: %w", serviceID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get service rule: %w", err)
	}

	rule.VendorReferralRate = money.Rate(vendorBP)
	rule.PlatformFeeRate = rateFromNull(platformBP)
	return rule, nil
}

// UpsertClientRule creates or replaces a client's overrides.
func (s *SQLiteStore) UpsertClientRule(ctx context.Context, rule *models.ClientRule) error {
	if rule.UpdatedAt == 0 {
		rule.UpdatedAt = s.now().Unix()
	}

	var policy interface{} = nil
	if rule.MissingReferrerPolicy != "" {
		policy = string(rule.MissingReferrerPolicy)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO client_rules (client_id, platform_fee_bp, client_share_bp, missing_referrer_policy, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(client_id) DO UPDATE SET
		     platform_fee_bp = excluded.platform_fee_bp,
		     client_share_bp = excluded.client_share_bp,
		     missing_referrer_policy = excluded.missing_referrer_policy,
		     updated_at = excluded.updated_at`,
		rule.ClientID, nullableRate(rule.PlatformFeeRate), nullableRate(rule.ClientShareRate),
		policy, rule.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert client rule: %w", err)
	}
	return nil
}

// GetClientRule retrieves a client's overrides.
func (s *SQLiteStore) GetClientRule(ctx context.Context, clientID string) (*models.ClientRule, error) {
	rule := &models.ClientRule{}
	var platformBP, shareBP sql.NullInt64
	var policy sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT client_id, platform_fee_bp, client_share_bp, missing_referrer_policy, updated_at
		 FROM client_rules WHERE client_id = ?`,
		clientID,
	).Scan(&rule.ClientID, &platformBP, &shareBP, &policy, &rule.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("client rule %s: %w", clientID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client rule: %w", err)
	}

	rule.PlatformFeeRate = rateFromNull(platformBP)
	rule.ClientShareRate = rateFromNull(shareBP)
	if policy.Valid {
		rule.MissingReferrerPolicy = models.MissingReferrerPolicy(policy.String)
	}
	return rule, nil
}

func nullableRate(r *money.Rate) interface{} {
	if r == nil {
		return nil
	}
	return r.BasisPoints()
}

func rateFromNull(n sql.NullInt64) *money.Rate {
	if !n.Valid {
		return nil
	}
	r := money.Rate(n.Int64)
	return &r
}
