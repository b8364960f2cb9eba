package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger(t *testing.T) {
	tests := []struct {
		name      string
		requestID string
		status    int
		wantLevel string
	}{
		{name: "ok keeps client id", requestID: "abc-123", status: http.StatusOK, wantLevel: "INFO"},
		{name: "client error", status: http.StatusForbidden, wantLevel: "WARN"},
		{name: "server error", status: http.StatusInternalServerError, wantLevel: "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

			var seenID string
			h := Logger(log, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seenID = r.Header.Get(RequestIDHeader)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("body"))
			}))

			req := httptest.NewRequest(http.MethodPost, "/action", nil)
			if tt.requestID != "" {
				req.Header.Set(RequestIDHeader, tt.requestID)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.NotEmpty(t, seenID)
			assert.Equal(t, seenID, w.Header().Get(RequestIDHeader))
			if tt.requestID != "" {
				assert.Equal(t, tt.requestID, seenID)
			}

			out := buf.String()
			assert.Contains(t, out, "level="+tt.wantLevel)
			assert.Contains(t, out, "path=/action")
			assert.Contains(t, out, "bytes=4")
			assert.Contains(t, out, "request_id="+seenID)
		})
	}
}
