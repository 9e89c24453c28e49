package security

import (
	"testing"
	"time"
)

func TestSSRFGuard_ValidateURL_AllowsPublicURLs(t *testing.T) {
	g := NewSSRFGuard()

	tests := []string{
		"https://academia.example.com",
		"https://academia.example.com/logo.png",
		"http://example.org",
		"https://93.184.216.34/",
	}

	for _, rawURL := range tests {
		t.Run(rawURL, func(t *testing.T) {
			if err := g.ValidateURL(rawURL); err != nil {
				t.Errorf("ValidateURL(%q) = %v, want nil", rawURL, err)
			}
		})
	}
}

func TestSSRFGuard_ValidateURL_RejectsDangerousURLs(t *testing.T) {
	g := NewSSRFGuard()

	tests := []struct {
		name   string
		rawURL string
	}{
		{"empty", ""},
		{"file scheme", "file:///etc/passwd"},
		{"ftp scheme", "ftp://example.com"},
		{"javascript scheme", "javascript:alert(1)"},
		{"localhost", "http://localhost/admin"},
		{"loopback IP", "http://127.0.0.1:8001/"},
		{"private 10.x", "http://10.0.0.5/"},
		{"private 172.16.x", "http://172.16.1.1/"},
		{"private 192.168.x", "http://192.168.1.1/"},
		{"metadata IP", "http://169.254.169.254/latest/meta-data/"},
		{"current network", "http://0.0.0.0/"},
		{"IPv6 loopback", "http://[::1]/"},
		{"missing host", "https:///path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := g.ValidateURL(tt.rawURL); err == nil {
				t.Errorf("ValidateURL(%q) = nil, want error", tt.rawURL)
			}
		})
	}
}

func TestSSRFGuard_NewSafeClient_ReturnsConfiguredClient(t *testing.T) {
	g := NewSSRFGuard()

	client := g.NewSafeClient(5*time.Second, 2<<20)
	if client == nil {
		t.Fatal("expected non-nil client")
	}
	if client.Timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", client.Timeout)
	}
}
