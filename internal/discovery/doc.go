// Package discovery finds ZeroClaw gateways on the local network with mDNS.
//
// Gateways advertise the "_zeroclaw._tcp" service. Optional TXT records:
//   - path: URL prefix in front of /webhook and /health (e.g. "path=/zeroclaw")
//   - auth: "bearer" when the gateway requires an API key
//   - version: wire protocol version
//
// # Usage Example
//
//	scanner := discovery.NewScanner()
//	gw, err := scanner.FindFirst(ctx)
//	if err != nil {
//	    return err
//	}
//	c, err := client.New(gw.BaseURL())
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Gateways must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
