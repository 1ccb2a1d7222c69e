package service

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/commissions/internal/calculator"
	"github.com/mmynk/commissions/internal/ledger"
	"github.com/mmynk/commissions/internal/money"
	"github.com/mmynk/commissions/internal/rules"
	"github.com/mmynk/commissions/internal/storage"
)

// toConnectError maps domain errors onto Connect codes.
func toConnectError(err error) *connect.Error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}

	switch {
	case errors.Is(err, ledger.ErrInvalidEntry):
		// Only reachable when a computed or stored breakdown fails its own checks
		return connect.NewError(connect.CodeInternal, err)
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, rules.ErrServiceRuleNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrDuplicateOrder):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, rules.ErrInvalidPolicy),
		errors.Is(err, money.ErrCurrencyMismatch),
		calculator.Classify(err) != calculator.KindUnknown:
		return connect.NewError(connect.CodeInvalidArgument, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
