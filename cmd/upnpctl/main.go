// Upnpctl is a command-line UPnP control point.
//
// It discovers UPnP devices on the local network, prints their device
// and service trees, invokes SOAP actions, and subscribes to GENA
// events, all from the shell. It communicates with devices over SSDP,
// HTTP, and GENA and does not require any device-side changes.
//
// Usage:
//
//	upnpctl [command] [flags]
//
// Running without arguments runs a discovery scan.
// See 'upnpctl --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nyxio/upnpcp/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var (
	ifaceName    string
	searchTarget string
	timeoutSecs  int
	logLevel     string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "upnpctl",
	Short: "UPnP Control Point Utility",
	Long: `A standalone UPnP control point for the local network.

Discovers UPnP devices over SSDP, fetches their descriptions, invokes
SOAP actions on their services, and subscribes to GENA events.

If no command is specified, runs a discovery scan.`,
	Version: version.Version,
	RunE:    runDiscover,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&ifaceName, "iface", "", "network interface to use (default: config default_interface, else all usable interfaces)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (default: silent)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "", "output format: text or json (default: from config, else text)")

	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(invokeCmd)
	rootCmd.AddCommand(subscribeCmd)
	rootCmd.AddCommand(nicknameCmd)
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("upnpctl %s\n", version.Full())
	},
}
