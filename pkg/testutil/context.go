package testutil

import (
	"context"
	"net/http"

	"orglink/internal/platform/middleware"
)

// WithRequestID sets the request ID the way the RequestID middleware would,
// for handlers exercised without the full router.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.ContextKeyRequestID, requestID)
	return req.WithContext(ctx)
}
