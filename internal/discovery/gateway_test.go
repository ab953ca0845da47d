package discovery

import "testing"

func TestGatewayBaseURL(t *testing.T) {
	tests := []struct {
		name string
		gw   Gateway
		want string
	}{
		{name: "plain", gw: Gateway{IP: "192.168.1.20", Port: 8080}, want: "http://192.168.1.20:8080"},
		{name: "ipv6", gw: Gateway{IP: "fe80::1", Port: 80}, want: "http://[fe80::1]:80"},
		{name: "path record", gw: Gateway{IP: "10.0.0.9", Port: 80, Metadata: map[string]string{"path": "/zeroclaw/"}}, want: "http://10.0.0.9:80/zeroclaw"},
		{name: "path without slash", gw: Gateway{IP: "10.0.0.9", Port: 80, Metadata: map[string]string{"path": "api"}}, want: "http://10.0.0.9:80/api"},
		{name: "root path", gw: Gateway{IP: "10.0.0.9", Port: 80, Metadata: map[string]string{"path": "/"}}, want: "http://10.0.0.9:80"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.gw.BaseURL(); got != tt.want {
				t.Errorf("BaseURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseTXT(t *testing.T) {
	got := ParseTXT([]string{"path=/", "auth=bearer", "flag", "kv=a=b", "=orphan"})

	want := map[string]string{
		"path": "/",
		"auth": "bearer",
		"flag": "",
		"kv":   "a=b",
	}
	if len(got) != len(want) {
		t.Errorf("ParseTXT() has %d entries, want %d: %v", len(got), len(want), got)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("ParseTXT()[%q] = %q, want %q", k, got[k], v)
		}
	}
}

func TestGatewayRequiresKey(t *testing.T) {
	gw := &Gateway{Metadata: ParseTXT([]string{"auth=bearer"})}
	if !gw.RequiresKey() {
		t.Error("RequiresKey() = false for auth=bearer")
	}
	if (&Gateway{}).RequiresKey() {
		t.Error("RequiresKey() = true without metadata")
	}
	if (&Gateway{}).GetMetadata("x") != "" {
		t.Error("GetMetadata on nil map should be empty")
	}
}
