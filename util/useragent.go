package util

import (
	"strings"

	"github.com/ariebrainware/coffee-brokerage/audit"
	ua "github.com/mileusna/useragent"
)

// ParseClient derives the device and browser labels of a log origin from a
// User-Agent header. Unknown parts fall back to audit.NotAvailable.
func ParseClient(userAgent string) audit.Client {
	if strings.TrimSpace(userAgent) == "" {
		return audit.Client{Device: audit.NotAvailable, Browser: audit.NotAvailable}
	}

	parsed := ua.Parse(userAgent)
	return audit.Client{
		Device:  deviceLabel(parsed),
		Browser: joinNonEmpty(parsed.Name, parsed.Version, audit.NotAvailable),
	}
}

func deviceLabel(parsed ua.UserAgent) string {
	kind := "desktop"
	switch {
	case parsed.Bot:
		kind = "bot"
	case parsed.Tablet:
		kind = "tablet"
	case parsed.Mobile:
		kind = "mobile"
	}
	return joinNonEmpty(parsed.OS, parsed.OSVersion, "Unknown OS") + " (" + kind + ")"
}

func joinNonEmpty(name, version, fallback string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	if version = strings.TrimSpace(version); version != "" {
		return name + " " + version
	}
	return name
}
