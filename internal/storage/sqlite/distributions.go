package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mmynk/commissions/internal/calculator"
	"github.com/mmynk/commissions/internal/ledger"
	"github.com/mmynk/commissions/internal/money"
	"github.com/mmynk/commissions/internal/storage"
	"github.com/mmynk/commissions/internal/wallet"
)

const distributionColumns = `id, order_id, service_id, vendor_id, client_id, referrer_id, currency,
	gross, vendor_referral_fee, net_to_service_owner, platform_fee, remainder, client_share,
	referrer_share, rounding_adjustment, rerouted_referrer_share, referrer_to_platform,
	vendor_referral_bp, platform_fee_bp, client_share_bp,
	vendor_referral_residue, platform_fee_residue, client_share_residue, created_at`

// RecordDistribution persists a ledger entry and its wallet credits in one
// transaction. The UNIQUE constraint on order_id makes retries harmless.
func (s *SQLiteStore) RecordDistribution(ctx context.Context, entry ledger.Entry, credits []wallet.Credit) error {
	ref := entry.OrderRef()
	b := entry.Breakdown()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO distributions (`+distributionColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(order_id) DO NOTHING`,
		entry.ID(), ref.OrderID, ref.ServiceID, ref.VendorID, ref.ClientID, ref.ReferrerID,
		b.Gross.Currency(),
		b.Gross.Minor(), b.VendorReferralFee.Minor(), b.NetToServiceOwner.Minor(),
		b.PlatformFee.Minor(), b.Remainder.Minor(), b.ClientShare.Minor(),
		b.ReferrerShare.Minor(), b.RoundingAdjustment.Minor(),
		b.ReroutedReferrerShare.Minor(), b.Rules.ReferrerShareToPlatform,
		b.Rules.VendorReferralRate.BasisPoints(), b.Rules.PlatformFeeRate.BasisPoints(),
		b.Rules.ClientShareRate.BasisPoints(),
		int64(b.Residues.VendorReferralFee), int64(b.Residues.PlatformFee), int64(b.Residues.ClientShare),
		entry.CreatedAt().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert distribution: %w", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check inserted distribution: %w", err)
	}
	if inserted == 0 {
		return fmt.Errorf("order %s: %w", ref.OrderID, storage.ErrDuplicateOrder)
	}

	for _, c := range credits {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO wallet_credits (entry_id, order_id, party_id, role, currency, amount)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			c.EntryID, c.OrderID, c.PartyID, string(c.Role), c.Amount.Currency(), c.Amount.Minor(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert wallet credit: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetDistribution retrieves the entry recorded for an order.
func (s *SQLiteStore) GetDistribution(ctx context.Context, orderID string) (ledger.Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+distributionColumns+` FROM distributions WHERE order_id = ?`,
		orderID,
	)
	entry, err := scanDistribution(row)
	if err == sql.ErrNoRows {
		return ledger.Entry{}, fmt.Errorf("distribution for order %s: %w", orderID, storage.ErrNotFound)
	}
	if err != nil {
		return ledger.Entry{}, fmt.Errorf("failed to get distribution: %w", err)
	}
	return entry, nil
}

// ListDistributions retrieves entries matching filter, newest first.
func (s *SQLiteStore) ListDistributions(ctx context.Context, filter storage.DistributionFilter) ([]ledger.Entry, error) {
	var conditions []string
	var args []interface{}
	if filter.ClientID != "" {
		conditions = append(conditions, "client_id = ?")
		args = append(args, filter.ClientID)
	}
	if filter.ReferrerID != "" {
		conditions = append(conditions, "referrer_id = ?")
		args = append(args, filter.ReferrerID)
	}
	if filter.VendorID != "" {
		conditions = append(conditions, "vendor_id = ?")
		args = append(args, filter.VendorID)
	}

	query := `SELECT ` + distributionColumns + ` FROM distributions`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, id"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list distributions: %w", err)
	}
	defer rows.Close()

	var entries []ledger.Entry
	for rows.Next() {
		entry, err := scanDistribution(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan distribution: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate distributions: %w", err)
	}
	return entries, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanDistribution reads one distributions row and rebuilds the ledger entry,
// re-verifying that the stored amounts still balance.
func scanDistribution(row rowScanner) (ledger.Entry, error) {
	var (
		id, currency                                  string
		ref                                           ledger.OrderRef
		gross, fee, net, platform, remainder          int64
		client, referrer, adjustment, rerouted        int64
		toPlatform                                    bool
		vendorBP, platformBP, clientBP                int64
		vendorResidue, platformResidue, clientResidue int64
		createdAt                                     int64
	)
	err := row.Scan(&id, &ref.OrderID, &ref.ServiceID, &ref.VendorID, &ref.ClientID, &ref.ReferrerID,
		&currency, &gross, &fee, &net, &platform, &remainder, &client, &referrer, &adjustment,
		&rerouted, &toPlatform, &vendorBP, &platformBP, &clientBP, &vendorResidue, &platformResidue, &clientResidue, &createdAt)
	if err != nil {
		return ledger.Entry{}, err
	}

	amounts := make([]money.Money, 9)
	for i, minor := range []int64{gross, fee, net, platform, remainder, client, referrer, adjustment, rerouted} {
		amounts[i], err = money.NewSigned(minor, currency)
		if err != nil {
			return ledger.Entry{}, err
		}
	}

	b := calculator.Breakdown{
		Gross:                 amounts[0],
		VendorReferralFee:     amounts[1],
		NetToServiceOwner:     amounts[2],
		PlatformFee:           amounts[3],
		Remainder:             amounts[4],
		ClientShare:           amounts[5],
		ReferrerShare:         amounts[6],
		RoundingAdjustment:    amounts[7],
		ReroutedReferrerShare: amounts[8],
		Rules: calculator.RuleSet{
			VendorReferralRate:      money.Rate(vendorBP),
			PlatformFeeRate:         money.Rate(platformBP),
			ClientShareRate:         money.Rate(clientBP),
			ReferrerShareToPlatform: toPlatform,
		},
		Residues: calculator.Residues{
			VendorReferralFee: money.Residue(vendorResidue),
			PlatformFee:       money.Residue(platformResidue),
			ClientShare:       money.Residue(clientResidue),
		},
	}
	return ledger.Restore(id, ref, b, time.Unix(0, createdAt))
}
