package discovery

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// Gateway represents a ZeroClaw assistant gateway found on the network
type Gateway struct {
	// Instance is the advertised service instance name (e.g., "zeroclaw-kitchen")
	Instance string

	// Hostname is the mDNS hostname (e.g., "pi4.local.")
	Hostname string

	// IP is the preferred address, IPv4 when available
	IP string

	// Port is the HTTP port the webhook listens on
	Port int

	// Metadata contains the TXT records, e.g. "path=/api", "version=1"
	Metadata map[string]string

	// DiscoveredAt is when the gateway answered
	DiscoveredAt time.Time
}

// String returns a human-readable description of the gateway
func (g *Gateway) String() string {
	return fmt.Sprintf("ZeroClaw gateway %q (%s) at %s", g.Instance, strings.TrimSuffix(g.Hostname, "."), g.BaseURL())
}

// BaseURL returns the URL the chat client should use. A "path" TXT record
// is appended so gateways behind a reverse proxy prefix work.
func (g *Gateway) BaseURL() string {
	base := "http://" + net.JoinHostPort(g.IP, strconv.Itoa(g.Port))
	path := strings.TrimRight(g.GetMetadata("path"), "/")
	if path == "" {
		return base
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

// RequiresKey reports whether the gateway advertised that it wants an API key.
func (g *Gateway) RequiresKey() bool {
	v := g.GetMetadata("auth")
	return v == "bearer" || v == "required"
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (g *Gateway) GetMetadata(key string) string {
	if g.Metadata == nil {
		return ""
	}
	return g.Metadata[key]
}

// ParseTXT splits "key=value" TXT records into a map. Keys without a value
// map to "".
func ParseTXT(records []string) map[string]string {
	metadata := make(map[string]string, len(records))
	for _, txt := range records {
		key, value, _ := strings.Cut(txt, "=")
		if key == "" {
			continue
		}
		metadata[key] = value
	}
	return metadata
}
