package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/seagrayinc/safesignal-provision/cmd/provisionctl/interactive"
	"github.com/seagrayinc/safesignal-provision/pkg/provision"
)

const rootExample = `  # Basic provisioning
  provisionctl --port /dev/ttyUSB0 \
      --wifi-ssid "SafeSignal-Edge" \
      --wifi-pass "password123" \
      --device-id "esp32-prod-001" \
      --tenant "tenant-a" \
      --building "building-a" \
      --room "room-1"

  # macOS, passphrase typed at a hidden prompt
  provisionctl --port /dev/cu.usbserial-0001 \
      --wifi-ssid "MyNetwork" --wifi-pass - \
      --device-id "esp32-office-001" --tenant "acme" \
      --building "hq" --room "lobby"`

func newRootCmd(a *app) *cobra.Command {
	var req provision.Request

	cmd := &cobra.Command{
		Use:   "provisionctl",
		Short: "Provision SafeSignal ESP32 devices with credentials",
		Long: `Provision SafeSignal ESP32 devices with WiFi credentials and
tenant/building/room metadata over the serial console.

This tool requires firmware with the provisioning console commands.
Arguments are sent unquoted, so values must not contain whitespace.`,
		Example:       rootExample,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runProvision(cmd, req)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "YAML settings file (timings, log level)")
	pf.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error (default warn)")

	f := cmd.Flags()
	f.StringVar(&req.Port, "port", "", "Serial port (e.g., /dev/ttyUSB0, COM3)")
	f.StringVar(&req.WiFiSSID, "wifi-ssid", "", "WiFi SSID")
	f.StringVar(&req.WiFiPassphrase, "wifi-pass", "", `WiFi password ("-" to prompt)`)
	f.StringVar(&req.DeviceID, "device-id", "", "Unique device ID (e.g., esp32-prod-001)")
	f.StringVar(&req.TenantID, "tenant", "", "Tenant ID (e.g., tenant-a)")
	f.StringVar(&req.BuildingID, "building", "", "Building ID (e.g., building-a)")
	f.StringVar(&req.RoomID, "room", "", "Room ID (e.g., room-1)")
	for _, name := range []string{"port", "wifi-ssid", "wifi-pass", "device-id", "tenant", "building", "room"} {
		_ = cmd.MarkFlagRequired(name)
	}

	cmd.AddCommand(
		newPortsCmd(a),
		newExchangeCmd(a, "status", "Show the device's provisioning status", provision.Status()),
		newExchangeCmd(a, "cert-status", "Show the device's certificate status", provision.CertStatus()),
		newExchangeCmd(a, "reset", "Factory reset: erase all provisioning data on the device", provision.Reset()),
		newGetCmd(a),
		newConsoleCmd(a),
	)
	return cmd
}

func (a *app) runProvision(cmd *cobra.Command, req provision.Request) error {
	if req.WiFiPassphrase == "-" {
		pass, err := a.readPassword("WiFi password: ")
		if err != nil {
			return &provision.Error{Kind: provision.KindValidation, Err: err}
		}
		req.WiFiPassphrase = pass
	}
	if err := req.Validate(); err != nil {
		return err
	}
	for _, w := range req.Warnings() {
		a.logger.Warn().Msg(w)
	}

	printBanner(a.stdout, req)
	if err := provision.Provision(cmd.Context(), req, a.options()); err != nil {
		return err
	}
	printSuccess(a.stdout, req.Port)
	return nil
}

func addPortFlag(cmd *cobra.Command, port *string) {
	cmd.Flags().StringVar(port, "port", "", "Serial port (e.g., /dev/ttyUSB0, COM3)")
	_ = cmd.MarkFlagRequired("port")
}

func newExchangeCmd(a *app, use, short string, c provision.Command) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long:  fmt.Sprintf("%s.\n\nSends %q and prints the device's response.", short, c.String()),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return provision.Exchange(cmd.Context(), port, c, a.options())
		},
	}
	addPortFlag(cmd, &port)
	return cmd
}

func newGetCmd(a *app) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Read one provisioning value from the device",
		Long: "Read one provisioning value from the device.\n\nKnown keys: " +
			strings.Join(provision.Keys, ", ") + ". Secrets are shown as [HIDDEN].",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return provision.Exchange(cmd.Context(), port, provision.Get(args[0]), a.options())
		},
	}
	addPortFlag(cmd, &port)
	return cmd
}

func newPortsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ports",
		Short: "List serial ports and known ESP32 USB-serial bridges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			infos, err := a.manager.List()
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				fmt.Fprintln(a.stdout, "No serial ports found")
				return nil
			}

			w := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PORT\tUSB ID\tBRIDGE\tSERIAL\tPRODUCT")
			for _, info := range infos {
				usbID, bridge := "-", "-"
				if info.IsUSB {
					usbID = fmt.Sprintf("%04X:%04X", info.VendorID, info.ProductID)
				}
				if info.Bridge != "" {
					bridge = info.Bridge
				}
				product := strings.TrimSpace(info.Manufacturer + " " + info.Product)
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", info.Name, usbID, bridge, dash(info.SerialNumber), dash(product))
			}
			return w.Flush()
		},
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func newConsoleCmd(a *app) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "console",
		Short: "Interactive session with the device console",
		Long: `Open the device console and forward every typed line as a command.

Each line gets the same response handling as provisioning commands.
Type "exit" or press Ctrl-D to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			rl, err := interactive.NewReadline()
			if err != nil {
				return err
			}

			opts := a.options()
			opts.Out = rl.Stdout()
			s, err := provision.Open(cmd.Context(), port, opts)
			if err != nil {
				_ = rl.Close()
				return err
			}
			defer func() {
				if cerr := s.Close(); cerr != nil && err == nil {
					err = cerr
				}
			}()

			return interactive.New(s, rl, rl.Stdout()).Run(cmd.Context())
		},
	}
	addPortFlag(cmd, &port)
	return cmd
}
