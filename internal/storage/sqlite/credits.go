package sqlite

import (
	"context"
	"fmt"

	"github.com/mmynk/commissions/internal/money"
	"github.com/mmynk/commissions/internal/wallet"
)

// ListCredits retrieves all wallet credits issued to a party.
func (s *SQLiteStore) ListCredits(ctx context.Context, partyID string) ([]wallet.Credit, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.entry_id, c.order_id, c.party_id, c.role, c.currency, c.amount
		 FROM wallet_credits c JOIN distributions d ON d.id = c.entry_id
		 WHERE c.party_id = ? ORDER BY d.created_at, c.entry_id, c.role`,
		partyID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list credits: %w", err)
	}
	defer rows.Close()

	var credits []wallet.Credit
	for rows.Next() {
		var c wallet.Credit
		var role, currency string
		var amount int64

		if err := rows.Scan(&c.EntryID, &c.OrderID, &c.PartyID, &role, &currency, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan credit: %w", err)
		}

		c.Role = wallet.Role(role)
		c.Amount, err = money.New(amount, currency)
		if err != nil {
			return nil, fmt.Errorf("stored credit for entry %s is invalid: %w", c.EntryID, err)
		}
		credits = append(credits, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate credits: %w", err)
	}

	return credits, nil
}
