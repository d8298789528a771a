// Package kernel provides the shared value objects of the marketplace domain.
//
// The package includes:
//   - UUID: identifier of orders and other aggregates
//   - Money: a non-negative decimal amount used for prices and totals
//   - Address: a complete postal delivery address
//
// Value objects are immutable. Every constructor validates its input, and the
// zero value of each type fails Validate so that half-initialised values are
// caught before they are persisted.
package kernel
