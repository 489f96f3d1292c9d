// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g. postgres) and contain no business logic.
package repository

import "context"

// Transactor runs a function inside a single storage transaction.
// Repository calls made with the context passed to fn join that transaction;
// the transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
