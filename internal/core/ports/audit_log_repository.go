package ports

import (
	"context"

	"bagpub/internal/core/domain/model/auditlog"
)

// AuditLogRepository is append-only. Reads go through the log queries.
type AuditLogRepository interface {
	Append(ctx context.Context, entries ...*auditlog.Entry) error
}
