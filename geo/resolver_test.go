package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.9:51234"
	assert.Equal(t, "203.0.113.9", ClientIP(req))

	req.Header.Set("X-Forwarded-For", "198.51.100.7, 10.0.0.1")
	assert.Equal(t, "198.51.100.7", ClientIP(req))
}

func TestClientIPUnbracketsIPv6(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "[::1]:51234"
	assert.Equal(t, "::1", ClientIP(req))

	// Without a port the address passes through untouched
	req.RemoteAddr = "2001:db8::7"
	assert.Equal(t, "2001:db8::7", ClientIP(req))
}

func TestResolveSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/198.51.100.7/json/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"country_name":"Canada","region":"Ontario","city":"Toronto","latitude":43.65,"longitude":-79.38}`))
	}))
	defer srv.Close()

	resolver := NewHTTPResolverWithBase(srv.URL)
	identity, err := resolver.Resolve(context.Background(), "198.51.100.7")
	require.NoError(t, err)
	require.NotNil(t, identity)

	assert.Equal(t, "198.51.100.7", identity.IP)
	assert.Equal(t, "Canada", identity.Geo.Country)
	assert.Equal(t, "Toronto", identity.Geo.City)
	assert.InDelta(t, 43.65, identity.Geo.Latitude, 0.001)
}

func TestResolveLocalAddressShortCircuits(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	resolver := NewHTTPResolverWithBase(srv.URL)
	for _, ip := range []string{"127.0.0.1", "::1", "unknown", ""} {
		identity, err := resolver.Resolve(context.Background(), ip)
		require.NoError(t, err)
		assert.Equal(t, "Unknown", identity.Geo.Country)
	}
	assert.False(t, called)
}

func TestResolveDegradesOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	resolver := NewHTTPResolverWithBase(srv.URL)
	identity, err := resolver.Resolve(context.Background(), "198.51.100.7")
	require.NoError(t, err)
	require.NotNil(t, identity)

	// IP survives, geo degrades to Unknown
	assert.Equal(t, "198.51.100.7", identity.IP)
	assert.Equal(t, "Unknown", identity.Geo.Country)
	assert.Zero(t, identity.Geo.Latitude)
}

func TestResolveDegradesWhenUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // resolver now points at a dead server

	resolver := NewHTTPResolverWithBase(srv.URL)
	identity, err := resolver.Resolve(context.Background(), "198.51.100.7")
	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.Equal(t, "Unknown", identity.Geo.Country)
}
