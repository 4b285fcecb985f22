// Package batch models physical production lots and their print shop orders.
//
// A Batch groups campaigns sharing a postal code and always prints Quantity cards.
// Its status only moves forward; every transition that does not apply to the
// current status fails with errs.ConflictError. A PrintOrder is created lazily,
// once per batch, when the batch is sent to print.
package batch
