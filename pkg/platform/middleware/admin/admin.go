// Package admin guards operator routes such as roster repair.
package admin

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	dErrors "accountdesk/pkg/domain-errors"
	"accountdesk/pkg/platform/httputil"
	"accountdesk/pkg/requestcontext"
)

// HeaderAdminToken carries the operator token for admin routes.
const HeaderAdminToken = "X-Admin-Token"

var (
	errAdminDisabled = dErrors.New(dErrors.CodeUnauthorized, "admin routes are disabled")
	errTokenRequired = dErrors.New(dErrors.CodeUnauthorized, "admin token required")
)

// RequireAdminToken lets a request through only when its X-Admin-Token equals
// expectedToken. With no expected token configured every request is refused.
func RequireAdminToken(expectedToken string, logger *slog.Logger) func(http.Handler) http.Handler {
	want := []byte(expectedToken)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			err := check(want, r.Header.Get(HeaderAdminToken))
			if err == nil {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()
			logger.WarnContext(ctx, "admin request rejected",
				"path", r.URL.Path,
				"reason", err.Error(),
				"request_id", requestcontext.RequestID(ctx),
			)
			httputil.WriteError(w, err)
		})
	}
}

func check(want []byte, got string) error {
	if len(want) == 0 {
		return errAdminDisabled
	}
	if subtle.ConstantTimeCompare([]byte(got), want) != 1 {
		return errTokenRequired
	}
	return nil
}
