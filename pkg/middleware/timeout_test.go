package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestRequestTimeout(t *testing.T) {
	t.Run("fast handler responds normally", func(t *testing.T) {
		handler := RequestTimeout(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"ok":true}`))
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

		if rec.Code != http.StatusCreated {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusCreated)
		}
		if !strings.Contains(rec.Body.String(), `"ok":true`) {
			t.Errorf("body = %q", rec.Body.String())
		}
	})

	t.Run("slow handler gets 503 and its late write is dropped", func(t *testing.T) {
		release := make(chan struct{})
		wrote := make(chan error, 1)
		handler := RequestTimeout(10 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-release
			_, err := w.Write([]byte("too late"))
			wrote <- err
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
		}
		if !strings.Contains(rec.Body.String(), "Request timeout") {
			t.Errorf("body = %q", rec.Body.String())
		}

		close(release)
		if err := <-wrote; err != http.ErrHandlerTimeout {
			t.Errorf("late write error = %v, want ErrHandlerTimeout", err)
		}
		if strings.Contains(rec.Body.String(), "too late") {
			t.Error("late handler output leaked into the response")
		}
	})

	t.Run("cancels the request context at the deadline", func(t *testing.T) {
		cancelled := make(chan struct{})
		handler := RequestTimeout(10 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
			close(cancelled)
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

		select {
		case <-cancelled:
		case <-time.After(time.Second):
			t.Fatal("handler context was never cancelled")
		}
	})
}
