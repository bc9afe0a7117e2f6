// Command provisionctl provisions SafeSignal ESP32 panic buttons over their
// serial console.
//
// The device must run firmware with the provisioning console commands
// (provision_set_wifi, provision_set_device, provision_complete, ...).
// Values are written to the device's NVS and take effect after a reboot.
//
// Usage:
//
//	provisionctl --port <dev> --wifi-ssid <ssid> --wifi-pass <pass> \
//	    --device-id <id> --tenant <tenant> --building <building> --room <room>
//	provisionctl ports
//	provisionctl status --port <dev>
//	provisionctl get --port <dev> <key>
//	provisionctl cert-status --port <dev>
//	provisionctl reset --port <dev>
//	provisionctl console --port <dev>
//
// Exit status is 0 on success and 1 for any failure, including invalid
// input, serial errors and interruption.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM, syscall.SIGINT,
	)

	code := run(ctx, os.Args[1:], newApp(os.Stdout, os.Stderr))
	stop()
	os.Exit(code)
}
