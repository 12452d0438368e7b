package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetDeviceInfo(t *testing.T) {
	tests := []struct {
		name      string
		userAgent string
		want      string
	}{
		{"iphone is mobile", "Mozilla/5.0 (iPhone; CPU iPhone OS 16_0 like Mac OS X)", "mobile"},
		{"android phone is mobile", "Mozilla/5.0 (Linux; Android 13; Pixel 7) Mobile", "mobile"},
		{"plain tablet token", "Mozilla/5.0 (Tablet; rv:109.0)", "tablet"},
		{"ipad is tablet", "Mozilla/5.0 (iPad; CPU OS 16_0 like Mac OS X)", "tablet"},
		{"desktop fallback", "Mozilla/5.0 (Windows NT 10.0; Win64; x64)", "desktop"},
		{"empty is desktop", "", "desktop"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetDeviceInfo(tt.userAgent))
		})
	}
}

func TestGetBrowserInfo(t *testing.T) {
	tests := []struct {
		name      string
		userAgent string
		want      string
	}{
		// Chrome UAs also carry a Safari token; Chrome is checked first
		{"chrome with safari token", "Mozilla/5.0 AppleWebKit/537.36 Chrome/120.0 Safari/537.36", "Chrome"},
		{"safari only", "Mozilla/5.0 AppleWebKit/605.1.15 Version/17.0 Safari/605.1.15", "Safari"},
		{"firefox", "Mozilla/5.0 (X11; Linux x86_64; rv:120.0) Gecko/20100101 Firefox/120.0", "Firefox"},
		{"legacy ie", "Mozilla/5.0 (Windows NT 10.0; Trident/7.0; rv:11.0) like Gecko", "Internet Explorer"},
		{"old ie", "Mozilla/4.0 (compatible; MSIE 8.0; Windows NT 6.1)", "Internet Explorer"},
		{"edge without chrome token", "Mozilla/5.0 (Windows NT 10.0) Edge/18.18363", "Edge"},
		{"unknown", "curl/8.4.0", "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetBrowserInfo(tt.userAgent))
		})
	}
}
