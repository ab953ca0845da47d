package wifi

// AccessPoint is one scan result.
type AccessPoint struct {
	SSID    string
	RSSI    int8
	Channel uint8
	Secured bool
}

// Radio is the WiFi driver the manager sequences through
// start, scan, configure and connect.
type Radio interface {
	Start() error
	Scan() ([]AccessPoint, error)
	Configure(ssid, password string) error
	Connect() error
	IsConnected() bool
}

// SignalReporter is implemented by radios that can report link RSSI in dBm.
type SignalReporter interface {
	RSSI() (int8, bool)
}

// Disconnector is implemented by radios that can drop an association.
type Disconnector interface {
	Disconnect() error
}

// SignalPercent maps RSSI in dBm onto 0-100.
// -100 dBm or weaker is 0, -50 dBm or stronger is 100.
func SignalPercent(rssi int8) uint8 {
	switch {
	case rssi <= -100:
		return 0
	case rssi >= -50:
		return 100
	default:
		return uint8(2 * (int(rssi) + 100))
	}
}

// findNetwork returns the strongest scan entry for ssid.
func findNetwork(aps []AccessPoint, ssid string) (AccessPoint, bool) {
	var best AccessPoint
	found := false
	for _, ap := range aps {
		if ap.SSID != ssid {
			continue
		}
		if !found || ap.RSSI > best.RSSI {
			best = ap
			found = true
		}
	}
	return best, found
}
