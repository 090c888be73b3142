package util

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/ariebrainware/coffee-brokerage/audit"
	"go.uber.org/zap"
)

// IPUpdater receives the resolved public address of the client.
type IPUpdater interface {
	UpdateIPAddress(ip string)
}

// IPResolver looks up the public IP address once at startup.
type IPResolver struct {
	URL    string
	Client *http.Client
	// Timeout bounds the lookup when positive. Zero waits as long as ctx
	// allows; until then the session keeps no address.
	Timeout time.Duration
}

// NewIPResolver returns a resolver for url without a deadline.
func NewIPResolver(url string) *IPResolver {
	return &IPResolver{
		URL:    url,
		Client: &http.Client{},
	}
}

// Resolve fetches the address and calls u.UpdateIPAddress exactly once, with
// the fetched address or audit.NotAvailable on any failure.
func (r *IPResolver) Resolve(ctx context.Context, u IPUpdater) {
	ip, err := r.fetch(ctx)
	if err != nil {
		Logger().Warn("public ip lookup failed", zap.String("url", r.URL), zap.Error(err))
		u.UpdateIPAddress(audit.NotAvailable)
		return
	}
	u.UpdateIPAddress(ip)
}

func (r *IPResolver) fetch(ctx context.Context) (string, error) {
	if r.URL == "" {
		return "", fmt.Errorf("no lookup url configured")
	}
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.URL, nil)
	if err != nil {
		return "", err
	}
	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("lookup returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64))
	if err != nil {
		return "", err
	}
	ip := strings.TrimSpace(string(body))
	if net.ParseIP(ip) == nil {
		return "", fmt.Errorf("lookup returned invalid address %q", ip)
	}
	return ip, nil
}
