package util

import (
	"strings"
	"testing"

	"github.com/ariebrainware/coffee-brokerage/audit"
	"github.com/stretchr/testify/assert"
)

func TestParseClient(t *testing.T) {
	tests := []struct {
		name          string
		userAgent     string
		browserPrefix string
		deviceSuffix  string
	}{
		{
			name:          "desktop chrome",
			userAgent:     "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			browserPrefix: "Chrome",
			deviceSuffix:  "(desktop)",
		},
		{
			name:          "iphone safari",
			userAgent:     "Mozilla/5.0 (iPhone; CPU iPhone OS 17_1 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Mobile/15E148 Safari/604.1",
			browserPrefix: "Safari",
			deviceSuffix:  "(mobile)",
		},
		{
			name:          "googlebot",
			userAgent:     "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)",
			browserPrefix: "Googlebot",
			deviceSuffix:  "(bot)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ParseClient(tt.userAgent)
			assert.True(t, strings.HasPrefix(c.Browser, tt.browserPrefix), c.Browser)
			assert.True(t, strings.HasSuffix(c.Device, tt.deviceSuffix), c.Device)
		})
	}
}

func TestParseClient_Empty(t *testing.T) {
	c := ParseClient("  ")
	assert.Equal(t, audit.NotAvailable, c.Device)
	assert.Equal(t, audit.NotAvailable, c.Browser)
}

func TestJoinNonEmpty(t *testing.T) {
	assert.Equal(t, "Firefox 121.0", joinNonEmpty("Firefox", "121.0", "x"))
	assert.Equal(t, "Firefox", joinNonEmpty("Firefox", "", "x"))
	assert.Equal(t, "x", joinNonEmpty(" ", "1.0", "x"))
}
