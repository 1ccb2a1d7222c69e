// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/commissions/internal/ledger"
	"github.com/mmynk/commissions/internal/models"
	"github.com/mmynk/commissions/internal/wallet"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateOrder = errors.New("distribution already recorded for order")
)

// DistributionFilter narrows ListDistributions. Empty fields match anything.
type DistributionFilter struct {
	ClientID   string
	ReferrerID string
	VendorID   string

	// Limit caps the number of entries returned; zero means no limit.
	Limit int
}

// Store defines the persistence operations of the commission service.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// UpsertServiceRule creates or replaces the rule of rule.ServiceID.
	UpsertServiceRule(ctx context.Context, rule *models.ServiceRule) error

	// GetServiceRule returns ErrNotFound if the service has no rule.
	GetServiceRule(ctx context.Context, serviceID string) (*models.ServiceRule, error)

	// UpsertClientRule creates or replaces the overrides of rule.ClientID.
	UpsertClientRule(ctx context.Context, rule *models.ClientRule) error

	// GetClientRule returns ErrNotFound if the client has no overrides.
	GetClientRule(ctx context.Context, clientID string) (*models.ClientRule, error)

	// RecordDistribution stores entry and its wallet credits atomically.
	// At most one entry is stored per order ID: a second call for the same
	// order writes nothing and returns ErrDuplicateOrder.
	RecordDistribution(ctx context.Context, entry ledger.Entry, credits []wallet.Credit) error

	// GetDistribution returns the entry recorded for orderID, or ErrNotFound.
	GetDistribution(ctx context.Context, orderID string) (ledger.Entry, error)

	// ListDistributions returns entries newest first.
	ListDistributions(ctx context.Context, filter DistributionFilter) ([]ledger.Entry, error)

	// ListCredits returns all credits issued to partyID.
	ListCredits(ctx context.Context, partyID string) ([]wallet.Credit, error)

	// Close releases any resources held by the store.
	Close() error
}
