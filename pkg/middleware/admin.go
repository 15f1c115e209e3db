package middleware

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// RequireAdmin guards a single route rather than the whole chain, since
// admin endpoints sit interleaved with user endpoints on the same router.
func RequireAdmin(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if !IsAdmin(r.Context()) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":"Admin access required"}`))
			return
		}
		next(w, r, ps)
	}
}
