package session

import (
	"errors"
	"testing"
)

func TestDeriveDeviceIDRoundTrip(t *testing.T) {
	tests := []struct {
		host string
		port int
	}{
		{"10.0.0.5", 80},
		{"192.168.1.64", 8000},
		{"cam.example.com", 443},
		{"nvr.internal.lan", 65535},
	}
	for _, tt := range tests {
		id := DeriveDeviceID(tt.host, tt.port)
		host, port, err := ParseDeviceID(id)
		if err != nil {
			t.Errorf("ParseDeviceID(%q): %v", id, err)
			continue
		}
		if host != tt.host || port != tt.port {
			t.Errorf("round trip %q -> (%q,%d), want (%q,%d)", id, host, port, tt.host, tt.port)
		}
	}
}

func TestDeriveDeviceIDIsDeterministic(t *testing.T) {
	if DeriveDeviceID("10.0.0.5", 80) != DeriveDeviceID("10.0.0.5", 80) {
		t.Fatal("same input produced different ids")
	}
	if DeriveDeviceID("10.0.0.5", 80) != "10.0.0.5_80" {
		t.Fatalf("id = %q, want 10.0.0.5_80", DeriveDeviceID("10.0.0.5", 80))
	}
}

func TestParseDeviceIDRejectsMalformed(t *testing.T) {
	for _, id := range []string{"", "justhost", "_80", "host_", "host_notaport"} {
		if _, _, err := ParseDeviceID(id); !errors.Is(err, ErrInvalidDeviceID) {
			t.Errorf("ParseDeviceID(%q) error = %v, want ErrInvalidDeviceID", id, err)
		}
	}
}

func TestParseDeviceIDUnderscoreHostEdgeCase(t *testing.T) {
	// Hosts containing the separator split at the last underscore; this is
	// the documented non-round-tripping edge.
	host, port, err := ParseDeviceID("my_host_80")
	if err != nil {
		t.Fatalf("ParseDeviceID: %v", err)
	}
	if host != "my_host" || port != 80 {
		t.Fatalf("got (%q,%d), want (my_host,80)", host, port)
	}
}

func TestNormalizePort(t *testing.T) {
	tests := []struct {
		name     string
		port     int
		protocol string
		want     int
		wantErr  bool
	}{
		{"in range unchanged", 8000, ProtocolHTTP, 8000, false},
		{"lower bound", 1, ProtocolHTTP, 1, false},
		{"upper bound", 65535, ProtocolHTTP, 65535, false},
		{"http default", 0, ProtocolHTTP, 80, false},
		{"https default", 0, ProtocolHTTPS, 443, false},
		{"negative never clamped", -1, ProtocolHTTP, 0, true},
		{"too large never clamped", 65536, ProtocolHTTP, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePort(tt.port, tt.protocol)
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("error = %v, want ErrValidation", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizePort: %v", err)
			}
			if got != tt.want {
				t.Fatalf("port = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestValidateHost(t *testing.T) {
	valid := []string{"10.0.0.5", "192.168.1.64", "cam.example.com", "a.b"}
	for _, h := range valid {
		if err := ValidateHost(h); err != nil {
			t.Errorf("ValidateHost(%q) = %v, want nil", h, err)
		}
	}
	invalid := []string{"", "localhost", "not a host"}
	for _, h := range invalid {
		if err := ValidateHost(h); !errors.Is(err, ErrValidation) {
			t.Errorf("ValidateHost(%q) = %v, want ErrValidation", h, err)
		}
	}
}
