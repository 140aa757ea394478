package inventory

import (
	"context"
	"errors"
)

// ErrUnavailable indicates the backing store could not be reached or read.
// Callers must not confuse it with an empty result set.
var ErrUnavailable = errors.New("inventory store unavailable")

// Store defines the tabular backend the bot reads and appends to.
// Row order is store-defined and must be preserved by implementations.
type Store interface {
	// FetchAll returns every record in store order.
	FetchAll(ctx context.Context) ([]Record, error)

	// Append adds one record at the end.
	Append(ctx context.Context, rec Record) error
}
