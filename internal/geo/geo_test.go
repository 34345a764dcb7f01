package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newClient(t *testing.T, handler http.HandlerFunc, timeout time.Duration) (*IPAPIClient, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return NewIPAPIClient(srv.URL+"/json/", timeout, zap.NewNop().Sugar()), &hits
}

func TestLookup_Success(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/json/8.8.8.8", r.URL.Path)
		w.Write([]byte(`{"status":"success","country":"United States","city":"Mountain View","lat":37.4,"lon":-122.1}`))
	}, time.Second)

	loc, ok := c.Lookup(context.Background(), "8.8.8.8")

	assert.True(t, ok)
	assert.Equal(t, "United States", loc.Country)
	assert.Equal(t, "Mountain View", loc.City)
	assert.InDelta(t, 37.4, loc.Latitude, 0.001)
}

func TestLookup_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"status fail", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":"fail","message":"reserved range"}`))
		}},
		{"非 200", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}},
		{"格式错误", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>oops`))
		}},
		{"缺少国家", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":"success"}`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newClient(t, tt.handler, time.Second)
			_, ok := c.Lookup(context.Background(), "8.8.8.8")
			assert.False(t, ok)
		})
	}
}

func TestLookup_Timeout(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}, 50*time.Millisecond)

	start := time.Now()
	_, ok := c.Lookup(context.Background(), "8.8.8.8")

	assert.False(t, ok)
	assert.Less(t, time.Since(start), time.Second, "查询必须受超时限制")
}

func TestLookup_SkipsNonRoutable(t *testing.T) {
	c, hits := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","country":"X"}`))
	}, time.Second)

	for _, ip := range []string{"unknown", "", "127.0.0.1", "10.1.2.3", "192.168.0.1", "::1", "0.0.0.0"} {
		_, ok := c.Lookup(context.Background(), ip)
		assert.False(t, ok, ip)
	}
	assert.Zero(t, hits.Load())
}

func TestNop(t *testing.T) {
	_, ok := Nop{}.Lookup(context.Background(), "8.8.8.8")
	assert.False(t, ok)
}
