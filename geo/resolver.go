// Package geo resolves caller identity: client IP extraction plus
// IP geolocation through an external JSON endpoint.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"

	"github.com/mwdirectory/mwtrack-go/config"
	"github.com/mwdirectory/mwtrack-go/models"
)

// Resolver resolves an IP address to a full identity. Implementations must
// not return a hard error for lookup misses; they degrade to Unknown geo.
type Resolver interface {
	Resolve(ctx context.Context, ip string) (*models.Identity, error)
}

// ClientIP extracts the caller IP: first token of X-Forwarded-For when
// present, otherwise the direct remote address with its port stripped.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host := r.RemoteAddr
	// Unbrackets IPv6 addresses; a bare address without a port stays as-is
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	if host == "" {
		return "unknown"
	}
	return host
}

// HTTPResolver resolves geolocation from an ipapi-style endpoint
// ({base}/{ip}/json/).
type HTTPResolver struct {
	baseURL string
	client  *http.Client
}

// NewHTTPResolver creates a resolver against the configured geo endpoint.
func NewHTTPResolver() *HTTPResolver {
	return &HTTPResolver{
		baseURL: config.GeoAPIBaseURL,
		client:  &http.Client{Timeout: config.GeoRequestTimeout},
	}
}

// NewHTTPResolverWithBase creates a resolver against a specific base URL.
func NewHTTPResolverWithBase(baseURL string) *HTTPResolver {
	return &HTTPResolver{
		baseURL: baseURL,
		client:  &http.Client{Timeout: config.GeoRequestTimeout},
	}
}

type geoResponse struct {
	CountryName string  `json:"country_name"`
	Region      string  `json:"region"`
	City        string  `json:"city"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// Resolve returns the identity for an IP. Local and unknown addresses
// short-circuit to Unknown geo without a network call. A failed or
// non-200 lookup also degrades to Unknown geo rather than failing the
// session.
func (r *HTTPResolver) Resolve(ctx context.Context, ip string) (*models.Identity, error) {
	identity := &models.Identity{IP: ip, Geo: models.UnknownGeo()}

	if ip == "" || ip == "unknown" || ip == "127.0.0.1" || ip == "::1" {
		return identity, nil
	}

	url := fmt.Sprintf("%s/%s/json/", strings.TrimRight(r.baseURL, "/"), ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return identity, fmt.Errorf("failed to build geo request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		log.Printf("WARNING: Geolocation lookup failed for %s: %v", ip, err)
		return identity, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("WARNING: Geolocation lookup for %s returned status %d", ip, resp.StatusCode)
		return identity, nil
	}

	var geo geoResponse
	if err := json.NewDecoder(resp.Body).Decode(&geo); err != nil {
		log.Printf("WARNING: Failed to decode geolocation response for %s: %v", ip, err)
		return identity, nil
	}

	if geo.CountryName != "" {
		identity.Geo.Country = geo.CountryName
	}
	if geo.Region != "" {
		identity.Geo.Region = geo.Region
	}
	if geo.City != "" {
		identity.Geo.City = geo.City
	}
	identity.Geo.Latitude = geo.Latitude
	identity.Geo.Longitude = geo.Longitude

	return identity, nil
}
