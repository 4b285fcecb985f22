// Package services provides the domain services of the campaign core, the logic
// that does not belong to a single aggregate.
//
// The package includes:
//   - IdentifierGenerator: order numbers, batch numbers, print order numbers and secure tokens
//   - CampaignValidator: normalization and validation of campaign submissions, pricing
//   - RateLimiter: per-client fixed-window creation throttle over ports.RateCounter
//   - PostalCodeAggregator: read-only planner of batch suggestions by postal code
//   - ContactLink: the WhatsApp or mailto payload encoded in a card's QR code
package services
