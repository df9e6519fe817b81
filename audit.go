package authGate

import (
	"context"
	"time"

	"github.com/wheelmarket/authGate/internal/audit"
)

const (
	auditEventRejected           = "auth.rejected"
	auditEventRotated            = "auth.rotated"
	auditEventRotationFailed     = "auth.rotation_failed"
	auditEventLogout             = "auth.logout"
	auditEventTokenRevoked       = "auth.token_revoked"
	auditEventRevocationDegraded = "auth.revocation_degraded"
)

// emitAudit fills in the envelope fields and forwards the event without
// blocking the request path.
func (g *Gate) emitAudit(ctx context.Context, event audit.Event) {
	if g == nil || g.audit == nil {
		return
	}

	event.Timestamp = time.Now().UTC()
	if event.IP == "" {
		event.IP = clientIPFromContext(ctx)
	}
	if event.UserAgent == "" {
		event.UserAgent = userAgentFromContext(ctx)
	}

	g.audit.Emit(ctx, event)
}
