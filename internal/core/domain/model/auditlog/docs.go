// Package auditlog models the append-only trail written alongside every mutation.
// Entries have no mutators; the only way to change history is to append to it.
package auditlog
