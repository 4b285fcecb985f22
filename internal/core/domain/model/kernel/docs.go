// Package kernel provides the value objects shared by every aggregate of the
// campaign service.
//
// The package includes:
//   - UUID: identifier of campaigns, batches, print orders, log entries and parties
//   - PostalCode: a validated five digit French postal code
//
// Both are immutable; their zero values fail Validate.
package kernel
