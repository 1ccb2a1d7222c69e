package wallet

import (
	"testing"
	"time"

	"github.com/mmynk/commissions/internal/calculator"
	"github.com/mmynk/commissions/internal/ledger"
	"github.com/mmynk/commissions/internal/money"
)

func entry(t *testing.T, ref ledger.OrderRef, gross, currency string, vendor, platform, client float64) ledger.Entry {
	t.Helper()
	g, err := money.FromDecimal(gross, currency)
	if err != nil {
		t.Fatalf("FromDecimal failed: %v", err)
	}
	rs, err := calculator.NewRuleSet(money.MustPercent(vendor), money.MustPercent(platform), money.MustPercent(client))
	if err != nil {
		t.Fatalf("NewRuleSet failed: %v", err)
	}
	b, err := calculator.CalculateDistribution(g, rs)
	if err != nil {
		t.Fatalf("CalculateDistribution failed: %v", err)
	}
	e, err := ledger.Create(ref, b, rs, time.Now())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return e
}

func TestCreditsFor(t *testing.T) {
	ref := ledger.OrderRef{OrderID: "o1", VendorID: "v1", ClientID: "c1", ReferrerID: "r1"}
	e := entry(t, ref, "1000.00", "USD", 20, 10, 50)

	credits := CreditsFor(e)
	want := []struct {
		party  string
		role   Role
		amount string
	}{
		{PlatformPartyID, RolePlatform, "20.00"},
		{"c1", RoleClient, "90.00"},
		{"r1", RoleReferrer, "90.00"},
		{"v1", RoleVendor, "800.00"},
	}
	if len(credits) != len(want) {
		t.Fatalf("got %d credits, want %d: %+v", len(credits), len(want), credits)
	}
	for i, w := range want {
		c := credits[i]
		if c.PartyID != w.party || c.Role != w.role || c.Amount.Amount() != w.amount {
			t.Errorf("credit %d = %s/%s/%s, want %s/%s/%s",
				i, c.PartyID, c.Role, c.Amount.Amount(), w.party, w.role, w.amount)
		}
		if c.EntryID != e.ID() || c.OrderID != "o1" {
			t.Errorf("credit %d not linked to entry: %+v", i, c)
		}
	}
}

func TestCreditsFor_SkipsZeroAmounts(t *testing.T) {
	ref := ledger.OrderRef{OrderID: "o2", VendorID: "v1", ClientID: "c1"}
	e := entry(t, ref, "50.00", "USD", 0, 10, 50)

	credits := CreditsFor(e)
	if len(credits) != 1 {
		t.Fatalf("got %d credits, want only the vendor: %+v", len(credits), credits)
	}
	if credits[0].Role != RoleVendor || credits[0].Amount.Amount() != "50.00" {
		t.Errorf("unexpected credit %+v", credits[0])
	}
}

func TestCreditsFor_UnassignedReferrer(t *testing.T) {
	ref := ledger.OrderRef{OrderID: "o3", VendorID: "v1", ClientID: "c1"}
	e := entry(t, ref, "100.00", "USD", 10, 10, 50)

	var found bool
	for _, c := range CreditsFor(e) {
		if c.Role == RoleReferrer {
			t.Errorf("referrer credit issued without a referrer: %+v", c)
		}
		if c.Role == RoleUnassignedReferrer {
			found = true
			if c.PartyID != "" || c.Amount.Amount() != "4.50" {
				t.Errorf("unexpected unassigned credit %+v", c)
			}
		}
	}
	if !found {
		t.Error("expected an unassigned referrer credit")
	}
}

func TestSummarize(t *testing.T) {
	e1 := entry(t, ledger.OrderRef{OrderID: "o1", VendorID: "v1", ClientID: "c1", ReferrerID: "r1"}, "1000.00", "USD", 20, 10, 50)
	e2 := entry(t, ledger.OrderRef{OrderID: "o2", VendorID: "v2", ClientID: "c1", ReferrerID: "r1"}, "100.00", "USD", 10, 10, 50)
	e3 := entry(t, ledger.OrderRef{OrderID: "o3", VendorID: "v2", ClientID: "c1", ReferrerID: "r1"}, "100.00", "EUR", 10, 10, 50)

	var credits []Credit
	for _, e := range []ledger.Entry{e1, e2, e3} {
		credits = append(credits, CreditsFor(e)...)
	}

	earnings, err := Summarize(credits)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	got := make(map[string]Earnings)
	for _, e := range earnings {
		got[e.PartyID+"/"+string(e.Role)+"/"+e.Total.Currency()] = e
	}

	// c1: 90.00 + 4.50 USD over two orders, 4.50 EUR over one
	if e := got["c1/client/USD"]; e.Total.Amount() != "94.50" || e.Orders != 2 {
		t.Errorf("c1 USD = %s over %d orders, want 94.50 over 2", e.Total.Amount(), e.Orders)
	}
	if e := got["c1/client/EUR"]; e.Total.Amount() != "4.50" || e.Orders != 1 {
		t.Errorf("c1 EUR = %s over %d orders, want 4.50 over 1", e.Total.Amount(), e.Orders)
	}
	if e := got["platform/platform/USD"]; e.Total.Amount() != "21.00" {
		t.Errorf("platform USD = %s, want 21.00", e.Total.Amount())
	}
	if e := got["v2/vendor/USD"]; e.Total.Amount() != "90.00" {
		t.Errorf("v2 USD = %s, want 90.00", e.Total.Amount())
	}

	for i := 1; i < len(earnings); i++ {
		a, b := earnings[i-1], earnings[i]
		if a.PartyID > b.PartyID {
			t.Fatalf("earnings not sorted by party: %s before %s", a.PartyID, b.PartyID)
		}
	}
}
