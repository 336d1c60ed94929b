package ports

import (
	"context"

	"loadflow/internal/core/domain/model/audit"
)

// AuditRepository appends transition audit records. The log is append-only:
// there is deliberately no update or delete on this contract.
type AuditRepository interface {
	Append(ctx context.Context, record *audit.TransitionRecord) error
}
