package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"
)

const (
	KB = 1024
	MB = 1024 * KB

	// DefaultMaxBodySize fits any cart, product or user document.
	DefaultMaxBodySize = 1 * MB

	DefaultTimeout = 30 * time.Second
)

// MaxBodySize rejects declared bodies over limit with 413 and caps the
// reader for chunked bodies, which then fail to decode with
// *http.MaxBytesError. A non-positive limit uses DefaultMaxBodySize.
func MaxBodySize(limit int64) func(http.Handler) http.Handler {
	if limit <= 0 {
		limit = DefaultMaxBodySize
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				respondTooLarge(w, r)
				return
			}
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Timeout cancels the request context after d and answers 503 if the handler
// has not written anything yet. A handler that already started writing is
// cut off and the client sees a truncated body. A non-positive d uses
// DefaultTimeout.
//
// The handler runs on its own goroutine, so panic recovery must be placed
// inside Timeout.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	if d <= 0 {
		d = DefaultTimeout
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			tw := &timeoutWriter{ResponseWriter: w, h: w.Header().Clone()}
			done := make(chan struct{})
			panicked := make(chan any, 1)

			go func() {
				defer func() {
					if p := recover(); p != nil {
						panicked <- p
						return
					}
					close(done)
				}()
				next.ServeHTTP(tw, r.WithContext(ctx))
			}()

			select {
			case <-done:
			case p := <-panicked:
				panic(p)
			case <-ctx.Done():
				tw.mu.Lock()
				defer tw.mu.Unlock()
				tw.timedOut = true
				if !tw.wroteHeader {
					respondTimeout(w, r)
				}
			}
		})
	}
}

// timeoutWriter drops writes once the deadline has answered the request.
// The handler edits its own header map, which is copied to the real writer
// only when the response starts, so a late handler never touches the map
// respondTimeout writes to.
type timeoutWriter struct {
	http.ResponseWriter
	h           http.Header
	mu          sync.Mutex
	wroteHeader bool
	timedOut    bool
}

func (tw *timeoutWriter) Header() http.Header { return tw.h }

func (tw *timeoutWriter) WriteHeader(code int) {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.wroteHeader || tw.timedOut {
		return
	}
	tw.writeHeaderLocked(code)
}

func (tw *timeoutWriter) Write(b []byte) (int, error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.timedOut {
		return 0, context.DeadlineExceeded
	}
	if !tw.wroteHeader {
		tw.writeHeaderLocked(http.StatusOK)
	}
	return tw.ResponseWriter.Write(b)
}

func (tw *timeoutWriter) writeHeaderLocked(code int) {
	dst := tw.ResponseWriter.Header()
	for k := range dst {
		if _, ok := tw.h[k]; !ok {
			delete(dst, k)
		}
	}
	for k, vv := range tw.h {
		dst[k] = vv
	}
	tw.wroteHeader = true
	tw.ResponseWriter.WriteHeader(code)
}
