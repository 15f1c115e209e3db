package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// deadlineWriter serializes the race between the handler goroutine and
// the timeout branch: whichever side claims the response first wins,
// and the loser's writes are dropped.
type deadlineWriter struct {
	http.ResponseWriter

	mu       sync.Mutex
	timedOut bool
	claimed  bool
}

func (dw *deadlineWriter) WriteHeader(code int) {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	if dw.timedOut || dw.claimed {
		return
	}
	dw.claimed = true
	dw.ResponseWriter.WriteHeader(code)
}

func (dw *deadlineWriter) Write(b []byte) (int, error) {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	if dw.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	dw.claimed = true
	return dw.ResponseWriter.Write(b)
}

// claimTimeout marks the writer timed out and reports whether the
// timeout response may still be written.
func (dw *deadlineWriter) claimTimeout() bool {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	dw.timedOut = true
	if dw.claimed {
		return false
	}
	dw.claimed = true
	return true
}

// RequestTimeout runs the handler with a per-request deadline. The
// request context is cancelled at the deadline so downstream calls can
// bail out, and a 503 is sent if the handler has not responded yet.
func RequestTimeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			dw := &deadlineWriter{ResponseWriter: w}

			done := make(chan struct{})
			go func() {
				defer close(done)
				next.ServeHTTP(dw, r.WithContext(ctx))
			}()

			select {
			case <-done:
			case <-ctx.Done():
				if dw.claimTimeout() {
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusServiceUnavailable)
					_, _ = w.Write([]byte(`{"error":"Request timeout"}`))
				}
			}
		})
	}
}
