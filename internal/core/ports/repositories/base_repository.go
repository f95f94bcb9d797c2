package repositories

import (
	"context"
)

// TransactionManager runs fn inside one store transaction.
// The transaction commits if fn returns nil and rolls back otherwise; fn's error is returned unchanged.
// Store failures are reported wrapping apperrors.ErrConcurrency or apperrors.ErrPersistence.
type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx LedgerTx) error) error
}
