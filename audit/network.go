package audit

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// NetworkProbe reports the client connection quality at the moment of the
// call. Implementations never fail; missing data is reported as NotAvailable.
type NetworkProbe interface {
	Network(ctx context.Context) NetworkInfo
}

// StaticProbe always reports the same value.
type StaticProbe NetworkInfo

func (p StaticProbe) Network(context.Context) NetworkInfo { return NetworkInfo(p) }

// ClientHintHeaders are the request headers ClientHintsProbe reads. Servers
// advertise them with an Accept-CH response header.
var ClientHintHeaders = []string{"ECT", "Downlink", "RTT"}

// ClientHintsProbe reads the network client hints of the request whose
// headers were attached with ContextWithHeaders.
type ClientHintsProbe struct{}

func (ClientHintsProbe) Network(ctx context.Context) NetworkInfo {
	h := headersFromContext(ctx)
	if h == nil {
		return UnavailableNetwork
	}
	ect := strings.TrimSpace(h.Get("ECT"))
	downlink := strings.TrimSpace(h.Get("Downlink"))
	rtt := strings.TrimSpace(h.Get("RTT"))
	if ect == "" && downlink == "" && rtt == "" {
		return UnavailableNetwork
	}

	info := NetworkInfo{Type: NotAvailable, Speed: NotAvailable}
	if ect != "" {
		info.Type = ect
	}
	if v, err := strconv.ParseFloat(downlink, 64); err == nil && v > 0 {
		info.Speed = fmt.Sprintf("%s Mbps", strconv.FormatFloat(v, 'f', -1, 64))
	}
	if v, err := strconv.Atoi(rtt); err == nil && v > 0 {
		info.Latency = v
	}
	return info
}

type ctxKey int

const (
	headersKey ctxKey = iota
	clientKey
)

// ContextWithHeaders attaches request headers for ClientHintsProbe.
func ContextWithHeaders(ctx context.Context, h http.Header) context.Context {
	return context.WithValue(ctx, headersKey, h)
}

func headersFromContext(ctx context.Context) http.Header {
	if ctx == nil {
		return nil
	}
	h, _ := ctx.Value(headersKey).(http.Header)
	return h
}

// Client describes the device and browser of the caller.
type Client struct {
	Device  string
	Browser string
}

// ContextWithClient attaches the caller's device and browser.
func ContextWithClient(ctx context.Context, c Client) context.Context {
	return context.WithValue(ctx, clientKey, c)
}

// ClientFromContext returns the attached client, or NotAvailable values.
func ClientFromContext(ctx context.Context) Client {
	if ctx != nil {
		if c, ok := ctx.Value(clientKey).(Client); ok {
			return c
		}
	}
	return Client{Device: NotAvailable, Browser: NotAvailable}
}
