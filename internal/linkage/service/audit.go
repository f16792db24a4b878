package service

import (
	"context"

	"orglink/internal/platform/middleware"
	"orglink/pkg/platform/audit"
)

// emit publishes best-effort: failures are logged and never fail the
// operation that produced the event.
func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditPublisher == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	if event.RequestID == "" {
		event.RequestID = middleware.GetRequestID(ctx)
	}
	if err := s.auditPublisher.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"action", event.Action,
			"subject", event.Subject,
			"error", err,
		)
	}
}

func (s *Service) emitUnmatched(ctx context.Context, subject, rawName string) {
	s.emit(ctx, audit.Event{
		Category: audit.CategoryDataQuality,
		Action:   string(audit.EventUnmatchedReference),
		Subject:  subject,
		Reason:   "no matching organization",
		Details:  map[string]string{"raw_name": rawName},
	})
}
