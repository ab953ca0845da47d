package discovery

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"github.com/zeroclaw/zeroclaw-ui/internal/logging"
	"go.uber.org/zap"
)

const (
	// ServiceType is the mDNS service type gateways advertise
	ServiceType = "_zeroclaw._tcp"

	// ServiceDomain is the mDNS domain
	ServiceDomain = "local."

	// DefaultScanTimeout is how long Scan listens for answers
	DefaultScanTimeout = 5 * time.Second

	// DefaultPort is assumed when an entry advertises port 0
	DefaultPort = 8080
)

// ErrNotFound is returned by FindFirst when no gateway answered in time.
var ErrNotFound = errors.New("no ZeroClaw gateway found")

// Scanner browses the local network for gateways
type Scanner struct {
	// Timeout is the maximum time to listen for answers
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// browse streams parsed gateways to found until ctx ends.
func (s *Scanner) browse(ctx context.Context, found func(*Gateway) bool) error {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for entry := range entries {
			gw := parseServiceEntry(entry)
			if gw == nil {
				continue
			}
			logging.Debug("Gateway answered",
				zap.String("instance", gw.Instance),
				zap.String("url", gw.BaseURL()),
			)
			if !found(gw) {
				cancel()
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()
	// zeroconf closes entries once the browse context ends.
	select {
	case <-done:
	case <-time.After(time.Second):
	}
	return nil
}

// Scan lists every gateway that answers within Timeout, sorted by instance
// name. Duplicate answers for the same instance are merged.
func (s *Scanner) Scan(ctx context.Context) ([]*Gateway, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	var mu sync.Mutex
	seen := make(map[string]*Gateway)
	err := s.browse(ctx, func(gw *Gateway) bool {
		mu.Lock()
		defer mu.Unlock()
		seen[gw.Instance] = gw
		return true
	})
	if err != nil {
		return nil, err
	}

	mu.Lock()
	defer mu.Unlock()
	gateways := make([]*Gateway, 0, len(seen))
	for _, gw := range seen {
		gateways = append(gateways, gw)
	}
	sort.Slice(gateways, func(i, j int) bool { return gateways[i].Instance < gateways[j].Instance })

	logging.Info("mDNS scan complete", zap.Int("gateways", len(gateways)))
	return gateways, nil
}

// FindFirst returns the first gateway to answer within Timeout.
func (s *Scanner) FindFirst(ctx context.Context) (*Gateway, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	result := make(chan *Gateway, 1)
	err := s.browse(ctx, func(gw *Gateway) bool {
		select {
		case result <- gw:
		default:
		}
		return false
	})
	if err != nil {
		return nil, err
	}

	select {
	case gw := <-result:
		return gw, nil
	default:
		return nil, fmt.Errorf("%w within %v", ErrNotFound, s.timeout())
	}
}

func (s *Scanner) timeout() time.Duration {
	if s.Timeout <= 0 {
		return DefaultScanTimeout
	}
	return s.Timeout
}

// parseServiceEntry converts a zeroconf service entry to a Gateway.
// Returns nil when the entry carries no usable address.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Gateway {
	if entry == nil {
		return nil
	}

	// Prefer IPv4
	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	} else if len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	instance := entry.Instance
	if instance == "" {
		instance = entry.HostName
	}

	return &Gateway{
		Instance:     instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Metadata:     ParseTXT(entry.Text),
		DiscoveredAt: time.Now(),
	}
}
