// Package campaign models a client's bulk print-and-distribution order.
//
// The package includes:
//   - Campaign: the aggregate root (identity, distribution area, lifecycle, active batch)
//   - Status and PrintingStatus: the two lifecycle enums of a campaign
//   - CardSource: the closed union of TemplateCard(Design) and CustomAssetCard
//   - Design: the normalized template payload, including the QR contact link
package campaign
