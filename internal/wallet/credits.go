// Package wallet turns ledger entries into wallet credit instructions and
// aggregates them into per-party earnings.
package wallet

import (
	"sort"

	"github.com/mmynk/commissions/internal/ledger"
	"github.com/mmynk/commissions/internal/money"
)

// Role is the capacity in which a party is credited.
type Role string

const (
	RolePlatform Role = "platform"
	RoleClient   Role = "client"
	RoleReferrer Role = "referrer"
	RoleVendor   Role = "vendor"

	// RoleUnassignedReferrer holds a referrer share for an order that named
	// no referrer, so it stays visible instead of being dropped.
	RoleUnassignedReferrer Role = "unassigned_referrer"
)

// PlatformPartyID is the party ID platform revenue is credited to.
const PlatformPartyID = "platform"

// Credit instructs the wallet collaborator to credit one party for one order.
type Credit struct {
	EntryID string
	OrderID string
	PartyID string
	Role    Role
	Amount  money.Money
}

// CreditsFor returns the credits owed for e, one per non-zero amount, in a
// fixed order: platform, client, referrer, vendor.
func CreditsFor(e ledger.Entry) []Credit {
	b := e.Breakdown()
	ref := e.OrderRef()

	referrerRole, referrerID := RoleReferrer, ref.ReferrerID
	if referrerID == "" {
		referrerRole = RoleUnassignedReferrer
	}

	candidates := []struct {
		partyID string
		role    Role
		amount  money.Money
	}{
		{PlatformPartyID, RolePlatform, b.PlatformFee},
		{ref.ClientID, RoleClient, b.ClientShare},
		{referrerID, referrerRole, b.ReferrerShare},
		{ref.VendorID, RoleVendor, b.NetToServiceOwner},
	}

	var credits []Credit
	for _, c := range candidates {
		if c.amount.IsZero() {
			continue
		}
		credits = append(credits, Credit{
			EntryID: e.ID(),
			OrderID: ref.OrderID,
			PartyID: c.partyID,
			Role:    c.role,
			Amount:  c.amount,
		})
	}
	return credits
}

// Earnings is the total credited to one party in one role and currency.
type Earnings struct {
	PartyID string
	Role    Role
	Total   money.Money
	Orders  int
}

type earningsKey struct {
	partyID  string
	role     Role
	currency string
}

// Summarize aggregates credits per party, role and currency. The result is
// sorted by party, role, then currency.
func Summarize(credits []Credit) ([]Earnings, error) {
	totals := make(map[earningsKey]*Earnings)
	orders := make(map[earningsKey]map[string]bool)

	for _, c := range credits {
		key := earningsKey{partyID: c.PartyID, role: c.Role, currency: c.Amount.Currency()}
		e, exists := totals[key]
		if !exists {
			e = &Earnings{PartyID: c.PartyID, Role: c.Role, Total: c.Amount}
			totals[key] = e
			orders[key] = map[string]bool{}
		} else {
			sum, err := e.Total.Add(c.Amount)
			if err != nil {
				return nil, err
			}
			e.Total = sum
		}
		orders[key][c.OrderID] = true
	}

	result := make([]Earnings, 0, len(totals))
	for key, e := range totals {
		e.Orders = len(orders[key])
		result = append(result, *e)
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if a.PartyID != b.PartyID {
			return a.PartyID < b.PartyID
		}
		if a.Role != b.Role {
			return a.Role < b.Role
		}
		return a.Total.Currency() < b.Total.Currency()
	})
	return result, nil
}
