// Package services provides the domain services of the order core: request
// validation, inventory arbitration, pricing and supplier resolution. They
// hold no state of their own and never touch the store directly.
//
// The package includes:
//   - OrderRequestValidator: collects every structural problem of a request
//   - InventoryArbiter: checks a batch of line items with one catalog lookup
//   - PricingEngine: totals, shipping and buyer discounts
//   - SupplierResolver: makes the single-supplier rule of an order explicit
package services
