package router

import (
	"net/http"
	"strings"

	"github.com/glossworks/detailing-ai-platform/internal/tenancy"
)

const businessHeader = "X-Business-Id"

// requireBusinessID middleware enforces multi-tenancy headers for API requests.
func requireBusinessID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		businessID := strings.TrimSpace(r.Header.Get(businessHeader))
		if businessID == "" {
			http.Error(w, "missing X-Business-Id", http.StatusBadRequest)
			return
		}
		ctx := tenancy.WithBusinessID(r.Context(), businessID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
