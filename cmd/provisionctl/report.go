package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/seagrayinc/safesignal-provision/pkg/provision"
)

var rule = strings.Repeat("=", 60)

func printBanner(w io.Writer, req provision.Request) {
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "SafeSignal ESP32 Device Provisioning")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Port: %s\n", req.Port)
	fmt.Fprintf(w, "WiFi SSID: %s\n", req.WiFiSSID)
	fmt.Fprintf(w, "Device ID: %s\n", req.DeviceID)
	fmt.Fprintf(w, "Tenant: %s\n", req.TenantID)
	fmt.Fprintf(w, "Building: %s\n", req.BuildingID)
	fmt.Fprintf(w, "Room: %s\n", req.RoomID)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
}

func printSuccess(w io.Writer, port string) {
	fmt.Fprintln(w, "\n"+rule)
	fmt.Fprintln(w, "✓ Provisioning complete!")
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "\nNext steps:")
	fmt.Fprintln(w, "  1. Reboot the device (press EN/RST)")
	fmt.Fprintln(w, "  2. Device will connect to WiFi and MQTT")
	fmt.Fprintf(w, "  3. Check the result: provisionctl status --port %s\n", port)
	fmt.Fprintln(w)
}

// report prints err for the operator. The wording depends only on the
// error kind; the exit status is always 1.
func (a *app) report(err error) {
	w := a.stdout
	a.logger.Debug().Err(err).Str("kind", provision.KindOf(err).String()).Msg("run failed")

	var pe *provision.Error
	if !errors.As(err, &pe) {
		if provision.KindOf(err) == provision.KindCancelled {
			fmt.Fprintln(w, "\n\n✗ Provisioning cancelled by user")
			return
		}
		// Flag and argument errors from cobra.
		fmt.Fprintf(w, "✗ Error: %v\n", err)
		fmt.Fprintln(w, "Run 'provisionctl --help' for usage.")
		return
	}

	switch pe.Kind {
	case provision.KindValidation:
		fmt.Fprintf(w, "✗ Error: %v\n", pe.Err)
	case provision.KindPort:
		if pe.Op == "open" {
			fmt.Fprintf(w, "\n✗ Error: Could not open serial port %s\n", pe.Port)
			fmt.Fprintf(w, "  %v\n", pe.Err)
			fmt.Fprintln(w, "\nTroubleshooting:")
			fmt.Fprintln(w, "  - Check device is connected")
			fmt.Fprintln(w, "  - Verify port name (provisionctl ports)")
			fmt.Fprintln(w, "  - Check permissions (add your user to the dialout group)")
			return
		}
		fmt.Fprintf(w, "\n✗ Error: Serial I/O failed on port %s\n", pe.Port)
		fmt.Fprintf(w, "  %s: %v\n", pe.Op, pe.Err)
	case provision.KindCancelled:
		fmt.Fprintln(w, "\n\n✗ Provisioning cancelled by user")
	default:
		fmt.Fprintf(w, "\n✗ Error during provisioning: %v\n", err)
	}
}
