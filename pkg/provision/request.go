package provision

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Field limits of the firmware's NVS configuration record.
const (
	MaxWiFiSSIDLen       = 32
	MaxWiFiPassphraseLen = 64
	MaxDeviceIDLen       = 32

	// The firmware stores tenant, building and room in 16-byte buffers
	// including the terminator.
	FirmwareLocationIDLen = 16
)

var (
	ErrSSIDTooLong       = fmt.Errorf("WiFi SSID must be ≤%d characters", MaxWiFiSSIDLen)
	ErrPassphraseTooLong = fmt.Errorf("WiFi password must be ≤%d characters", MaxWiFiPassphraseLen)
	ErrDeviceIDTooLong   = fmt.Errorf("device ID must be ≤%d characters", MaxDeviceIDLen)
	ErrNoPort            = errors.New("serial port is required")
)

// Request is everything needed for one provisioning run.
type Request struct {
	Port           string
	WiFiSSID       string
	WiFiPassphrase string
	DeviceID       string
	TenantID       string
	BuildingID     string
	RoomID         string
}

// Validate checks the length limits. It never touches the port.
func (r Request) Validate() error {
	var err error
	switch {
	case utf8.RuneCountInString(r.WiFiSSID) > MaxWiFiSSIDLen:
		err = ErrSSIDTooLong
	case utf8.RuneCountInString(r.WiFiPassphrase) > MaxWiFiPassphraseLen:
		err = ErrPassphraseTooLong
	case utf8.RuneCountInString(r.DeviceID) > MaxDeviceIDLen:
		err = ErrDeviceIDTooLong
	case r.Port == "":
		err = ErrNoPort
	default:
		return nil
	}
	return &Error{Kind: KindValidation, Err: err}
}

// Warnings lists values the firmware is likely to reject or misparse even
// though they pass Validate.
func (r Request) Warnings() []string {
	var out []string
	fields := []struct {
		name, value string
	}{
		{"wifi-ssid", r.WiFiSSID},
		{"wifi-pass", r.WiFiPassphrase},
		{"device-id", r.DeviceID},
		{"tenant", r.TenantID},
		{"building", r.BuildingID},
		{"room", r.RoomID},
	}
	for _, f := range fields {
		if strings.ContainsFunc(f.value, isSpace) {
			out = append(out, fmt.Sprintf("--%s contains whitespace and will be split into several arguments by the device", f.name))
		}
	}
	for _, f := range fields[3:] {
		if len(f.value) >= FirmwareLocationIDLen {
			out = append(out, fmt.Sprintf("--%s is %d bytes, the device only stores up to %d", f.name, len(f.value), FirmwareLocationIDLen-1))
		}
	}
	return out
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}
