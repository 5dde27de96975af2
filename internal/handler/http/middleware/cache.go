package middleware

import (
	"bytes"
	"net/http"

	"github.com/gestio-app/gestio-backend-go/internal/pkg/cache"
)

type recordingWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (w *recordingWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *recordingWriter) Write(p []byte) (int, error) {
	w.buf.Write(p)
	return w.ResponseWriter.Write(p)
}

// CacheResponse serves GET responses from the process-local cache, keyed
// per caller so one account can never see another's payload. Only 200
// responses are stored.
func CacheResponse(store *cache.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			key := cache.Key(r.URL.Path, r.URL.RawQuery, AccountID(r))
			if body, ok := store.Get(key); ok {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("X-Cache", "HIT")
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write(body)
				return
			}

			rec := &recordingWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			if rec.status == http.StatusOK {
				store.Set(key, rec.buf.Bytes())
			}
		})
	}
}
