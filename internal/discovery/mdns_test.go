package discovery

import (
	"net"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"
)

func TestParseServiceEntry(t *testing.T) {
	tests := []struct {
		name         string
		entry        *zeroconf.ServiceEntry
		wantNil      bool
		wantInstance string
		wantIP       string
		wantPort     int
	}{
		{
			name: "gateway with IPv4",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "kitchen"},
				HostName:      "pi4.local.",
				Port:          8080,
				AddrIPv4:      []net.IP{net.ParseIP("192.168.1.20")},
				Text:          []string{"version=1"},
			},
			wantInstance: "kitchen",
			wantIP:       "192.168.1.20",
			wantPort:     8080,
		},
		{
			name: "no port specified",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "office"},
				HostName:      "nuc.local.",
				AddrIPv4:      []net.IP{net.ParseIP("10.0.0.9")},
			},
			wantInstance: "office",
			wantIP:       "10.0.0.9",
			wantPort:     DefaultPort,
		},
		{
			name: "instance falls back to hostname",
			entry: &zeroconf.ServiceEntry{
				HostName: "nuc.local.",
				Port:     9000,
				AddrIPv4: []net.IP{net.ParseIP("10.0.0.9")},
			},
			wantInstance: "nuc.local.",
			wantIP:       "10.0.0.9",
			wantPort:     9000,
		},
		{
			name: "IPv6 only",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "v6"},
				HostName:      "v6.local.",
				Port:          8080,
				AddrIPv6:      []net.IP{net.ParseIP("fe80::1")},
			},
			wantInstance: "v6",
			wantIP:       "fe80::1",
			wantPort:     8080,
		},
		{
			name: "prefers IPv4",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "dual"},
				Port:          8080,
				AddrIPv4:      []net.IP{net.ParseIP("192.168.1.50")},
				AddrIPv6:      []net.IP{net.ParseIP("fe80::2")},
			},
			wantInstance: "dual",
			wantIP:       "192.168.1.50",
			wantPort:     8080,
		},
		{
			name: "no address",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "ghost"},
				Port:          8080,
			},
			wantNil: true,
		},
		{
			name:    "nil entry",
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := parseServiceEntry(tt.entry)

			if tt.wantNil {
				if gw != nil {
					t.Errorf("parseServiceEntry() = %v, want nil", gw)
				}
				return
			}
			if gw == nil {
				t.Fatal("parseServiceEntry() = nil, want gateway")
			}
			if gw.Instance != tt.wantInstance {
				t.Errorf("Instance = %q, want %q", gw.Instance, tt.wantInstance)
			}
			if gw.IP != tt.wantIP {
				t.Errorf("IP = %q, want %q", gw.IP, tt.wantIP)
			}
			if gw.Port != tt.wantPort {
				t.Errorf("Port = %d, want %d", gw.Port, tt.wantPort)
			}
			if time.Since(gw.DiscoveredAt) > time.Second {
				t.Errorf("DiscoveredAt is not recent: %v", gw.DiscoveredAt)
			}
		})
	}
}

func TestNewScanner(t *testing.T) {
	scanner := NewScanner()
	if scanner.Timeout != DefaultScanTimeout {
		t.Errorf("Timeout = %v, want %v", scanner.Timeout, DefaultScanTimeout)
	}

	scanner.Timeout = 0
	if scanner.timeout() != DefaultScanTimeout {
		t.Errorf("timeout() with zero Timeout = %v", scanner.timeout())
	}
}

// Live mDNS browsing needs multicast and is exercised through
// `zeroclaw-ui scan` against `zeroclaw-sim serve --advertise`.
