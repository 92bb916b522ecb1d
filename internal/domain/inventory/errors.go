// internal/domain/inventory/errors.go
package inventory

import "errors"

// Error kinds surfaced by the ledger engine. Handlers map these to
// HTTP statuses; services wrap them with context via %w.
var (
	// ErrInsufficientStock is returned when a removal, transfer or
	// negative adjustment would drive an item's quantity below zero.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidTransaction is returned for a malformed type/quantity
	// combination, such as a non-positive addition magnitude.
	ErrInvalidTransaction = errors.New("invalid transaction")

	// ErrConcurrentModification is returned after a serialization or
	// deadlock conflict on the item row survives the bounded retries.
	ErrConcurrentModification = errors.New("concurrent modification")

	// ErrItemNotFound is returned when the referenced item does not exist.
	ErrItemNotFound = errors.New("item not found")

	// ErrReferentialIntegrity is returned when a referenced ministry
	// area or user does not exist.
	ErrReferentialIntegrity = errors.New("referenced record not found")

	// ErrItemCheckedOut is returned when an item cannot be deleted
	// because units are still out on loan.
	ErrItemCheckedOut = errors.New("item has active checkouts")
)
