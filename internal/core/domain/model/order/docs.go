// Package order provides the Order aggregate of the marketplace together with
// its lifecycle rules and the error taxonomy of the order core.
//
// The package includes:
//   - Order: the aggregate root holding header data and immutable line items
//   - Status: the fulfillment state machine
//   - PaymentMethod, PaymentStatus: payment descriptors
//   - Request: the transient order request a buyer submits
//   - UpdateType, Modification: post-creation changes and their audit trail
//   - Domain errors carrying the codes reported to callers
//
// Key business rules:
//   - Every line item has quantity > 0 and unit price > 0
//   - Status moves forward one step at a time: pending -> confirmed -> preparing
//     -> ready_for_pickup -> out_for_delivery -> delivered
//   - cancelled is reachable from any state before delivered, and only through
//     an explicit update
//   - A delivered order accepts nothing but a cancellation; a cancelled order
//     accepts nothing at all
//   - The total amount is fixed at creation and never recomputed
package order
