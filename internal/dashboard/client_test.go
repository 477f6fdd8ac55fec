package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/newthinker/fearwatch/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_FetchSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/quotes", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(testPayload(35.5))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/api/quotes", nil, 5*time.Second)
	p, err := c.Fetch(context.Background())

	require.NoError(t, err)
	require.NotNil(t, p.VIX)
	assert.Equal(t, 35.5, *p.VIX.CurrentPrice)
	assert.True(t, p.Signal.IsBuySignal)
	assert.Equal(t, "2024-03-01T15:04:05.000Z", p.Timestamp)
}

func TestClient_FetchErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantErr  *core.Error
		contains string
	}{
		{
			name:     "gateway error body",
			status:   http.StatusNotFound,
			body:     `{"error":"Symbol not found","details":"^VIX"}`,
			wantErr:  core.ErrGatewayStatus,
			contains: "Symbol not found (HTTP 404)",
		},
		{
			name:     "non-json error page",
			status:   http.StatusBadGateway,
			body:     "<html>Bad Gateway</html>",
			wantErr:  core.ErrResponseParse,
			contains: "HTTP 502",
		},
		{
			name:     "malformed success body",
			status:   http.StatusOK,
			body:     "{not json",
			wantErr:  core.ErrResponseParse,
			contains: "{not json",
		},
		{
			name:     "empty success body",
			status:   http.StatusOK,
			body:     "",
			wantErr:  core.ErrResponseParse,
			contains: "<empty>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, nil, time.Second).Fetch(context.Background())

			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

type failingHTTP struct{ err error }

func (f failingHTTP) Do(*http.Request) (*http.Response, error) { return nil, f.err }

func TestClient_FetchUnreachable(t *testing.T) {
	c := NewClient("http://127.0.0.1:1/api/quotes", failingHTTP{err: errors.New("connection refused")}, time.Second)

	_, err := c.Fetch(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrGatewayUnreachable))
	assert.Equal(t, "gateway unreachable: connection refused", ErrorMessage(err))
}

func TestClient_FetchHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewClient(srv.URL, nil, 5*time.Second).Fetch(ctx)

	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrGatewayUnreachable))
}

var _ Fetcher = (*Client)(nil)
