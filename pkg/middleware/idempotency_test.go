package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func idempotentRequest(userID, key string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", nil)
	req.Header.Set("Idempotency-Key", key)
	if userID != "" {
		req = req.WithContext(context.WithValue(req.Context(), UserIDKey, userID))
	}
	return req
}

func TestIdempotency(t *testing.T) {
	newHandler := func(store IdempotencyStore) (http.Handler, *int) {
		calls := 0
		h := Idempotency(store, "Idempotency-Key")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusCreated)
			fmt.Fprintf(w, `{"call":%d,"user":%q}`, calls, UserIDFromContext(r.Context()))
		}))
		return h, &calls
	}

	t.Run("repeated key replays the cached response", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore(time.Minute)
		defer store.Stop()
		handler, calls := newHandler(store)

		first := httptest.NewRecorder()
		handler.ServeHTTP(first, idempotentRequest("user-1", "abc"))
		second := httptest.NewRecorder()
		handler.ServeHTTP(second, idempotentRequest("user-1", "abc"))

		if *calls != 1 {
			t.Errorf("handler ran %d times, want 1", *calls)
		}
		if second.Code != http.StatusCreated || second.Body.String() != first.Body.String() {
			t.Errorf("replay mismatch: %d %q vs %q", second.Code, second.Body.String(), first.Body.String())
		}
	})

	t.Run("same key from different users never crosses over", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore(time.Minute)
		defer store.Stop()
		handler, calls := newHandler(store)

		first := httptest.NewRecorder()
		handler.ServeHTTP(first, idempotentRequest("user-1", "shared"))
		second := httptest.NewRecorder()
		handler.ServeHTTP(second, idempotentRequest("user-2", "shared"))

		if *calls != 2 {
			t.Errorf("handler ran %d times, want 2", *calls)
		}
		if first.Body.String() == second.Body.String() {
			t.Errorf("second user received the first user's response: %q", second.Body.String())
		}
	})

	t.Run("same key on a different route runs the handler again", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore(time.Minute)
		defer store.Stop()
		handler, calls := newHandler(store)

		handler.ServeHTTP(httptest.NewRecorder(), idempotentRequest("user-1", "abc"))

		other := idempotentRequest("user-1", "abc")
		other.URL.Path = "/api/v1/rooms"
		handler.ServeHTTP(httptest.NewRecorder(), other)

		if *calls != 2 {
			t.Errorf("handler ran %d times, want 2", *calls)
		}
	})

	t.Run("non-2xx responses are not cached", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore(time.Minute)
		defer store.Stop()

		calls := 0
		handler := Idempotency(store, "Idempotency-Key")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusConflict)
		}))

		handler.ServeHTTP(httptest.NewRecorder(), idempotentRequest("user-1", "abc"))
		handler.ServeHTTP(httptest.NewRecorder(), idempotentRequest("user-1", "abc"))

		if calls != 2 {
			t.Errorf("failed attempt must be retryable, handler ran %d times", calls)
		}
	})

	t.Run("missing key bypasses the cache", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore(time.Minute)
		defer store.Stop()
		handler, calls := newHandler(store)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", nil)
		handler.ServeHTTP(httptest.NewRecorder(), req)
		handler.ServeHTTP(httptest.NewRecorder(), req)

		if *calls != 2 {
			t.Errorf("handler ran %d times, want 2", *calls)
		}
	})
}
