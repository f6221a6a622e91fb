package testutil

import (
	"net/http"

	id "vaxtrack/pkg/domain"
	"vaxtrack/pkg/requestcontext"
)

// WithSession puts an authenticated session on the request context, the way
// the auth middleware does after validating a token.
func WithSession(req *http.Request, userID id.UserID, facility id.FacilityCode, role string) *http.Request {
	ctx := requestcontext.WithSession(req.Context(), userID, facility, role)
	return req.WithContext(ctx)
}
