package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nyxio/upnpcp/pkg/upnp"
)

var (
	invokeArgs      []string
	subscribeSecs   int
	discoverVerbose bool
)

func init() {
	discoverCmd.Flags().StringVar(&searchTarget, "target", upnp.DefaultSearchTarget, "SSDP search target")
	discoverCmd.Flags().IntVar(&timeoutSecs, "timeout", 0, "discovery window in seconds (default: from config, else 5)")
	discoverCmd.Flags().BoolVar(&discoverVerbose, "verbose", false, "print each device as it is discovered")

	describeCmd.Flags().IntVar(&timeoutSecs, "timeout", 0, "discovery window in seconds (default: from config, else 5)")

	invokeCmd.Flags().StringArrayVar(&invokeArgs, "arg", nil, "in argument as name=value, may be repeated")
	invokeCmd.Flags().IntVar(&timeoutSecs, "timeout", 0, "discovery window in seconds (default: from config, else 5)")

	subscribeCmd.Flags().IntVar(&subscribeSecs, "seconds", 30, "how long to listen for events before unsubscribing")
	subscribeCmd.Flags().IntVar(&timeoutSecs, "timeout", 0, "discovery window in seconds (default: from config, else 5)")
}

var discoverCmd = &cobra.Command{
	Use:     "discover",
	Aliases: []string{"search", "scan"},
	Short:   "Discover UPnP devices on the network",
	Long: `Send an SSDP M-SEARCH and print every device that responds or is
already known from a prior NOTIFY, along with its service and action
tree.`,
	RunE: runDiscover,
}

func runDiscover(cmd *cobra.Command, args []string) error {
	reg := loadRegistry()
	defer saveRegistry()

	cp, err := newControlPoint()
	if err != nil {
		return err
	}
	defer stopControlPoint(cp)

	target := searchTarget
	if target == "" {
		target = upnp.DefaultSearchTarget
	}
	devices, err := scanDevices(cp, target, searchTimeout(reg), reg, discoverVerbose)
	if err != nil {
		return err
	}

	if len(devices) == 0 {
		fmt.Println("No devices found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Ensure devices are powered on and reachable on this network")
		fmt.Println("  - Try --iface to select a specific interface")
		fmt.Println("  - Try a longer --timeout for slower networks")
		return nil
	}

	fmt.Printf("Found %d device(s):\n\n", len(devices))
	return printDevices(devices, resolveFormat(reg))
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List previously seen devices from the local cache",
	Long: `Print every device this control point has ever discovered,
from the local nickname/last-seen cache, without touching the network.`,
	RunE: runDevices,
}

func runDevices(cmd *cobra.Command, args []string) error {
	reg := loadRegistry()
	if len(reg.Devices) == 0 {
		fmt.Println("No cached devices. Run 'upnpctl discover' first.")
		return nil
	}
	for udn, meta := range reg.Devices {
		name := meta.Nickname
		if name == "" {
			name = "(no nickname)"
		}
		fmt.Printf("%s  %s  last seen %s\n", udn, name, meta.LastSeen.Format(time.RFC3339))
	}
	return nil
}

var describeCmd = &cobra.Command{
	Use:   "describe <udn-or-nickname>",
	Short: "Discover and print one device's full service and action tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runDescribe,
}

func runDescribe(cmd *cobra.Command, args []string) error {
	reg := loadRegistry()
	defer saveRegistry()

	cp, err := newControlPoint()
	if err != nil {
		return err
	}
	defer stopControlPoint(cp)

	devices, err := scanDevices(cp, upnp.DefaultSearchTarget, searchTimeout(reg), reg, false)
	if err != nil {
		return err
	}
	device, err := resolveDevice(devices, args[0], reg)
	if err != nil {
		return err
	}
	return printDevices([]*upnp.Device{device}, resolveFormat(reg))
}

var invokeCmd = &cobra.Command{
	Use:   "invoke <udn-or-nickname> <serviceId> <action>",
	Short: "Invoke a SOAP action on a service",
	Long: `Discover the target device, look up the named service and
action, invoke it with the given --arg name=value pairs, and print the
out arguments.`,
	Example: `  upnpctl invoke uuid:1234 urn:upnp-org:serviceId:AVTransport Stop
  upnpctl invoke "Living Room" urn:upnp-org:serviceId:AVTransport SetAVTransportURI \
    --arg InstanceID=0 --arg CurrentURI=http://example.com/track.mp3`,
	Args: cobra.ExactArgs(3),
	RunE: runInvoke,
}

func runInvoke(cmd *cobra.Command, args []string) error {
	reg := loadRegistry()
	defer saveRegistry()

	cp, err := newControlPoint()
	if err != nil {
		return err
	}
	defer stopControlPoint(cp)

	devices, err := scanDevices(cp, upnp.DefaultSearchTarget, searchTimeout(reg), reg, false)
	if err != nil {
		return err
	}
	device, err := resolveDevice(devices, args[0], reg)
	if err != nil {
		return err
	}
	service, ok := device.FindService(args[1])
	if !ok {
		return fmt.Errorf("device %s has no service %q", device.UDN(), args[1])
	}
	action, ok := service.FindAction(args[2])
	if !ok {
		return fmt.Errorf("service %s has no action %q", args[1], args[2])
	}

	inArgs, err := parseArgFlags(invokeArgs)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	out, err := action.Invoke(ctx, inArgs)
	if err != nil {
		return fmt.Errorf("invoke: %w", err)
	}

	if len(out) == 0 {
		fmt.Println("OK (no output arguments)")
		return nil
	}
	for name, value := range out {
		fmt.Printf("%s = %s\n", name, value)
	}
	return nil
}

func parseArgFlags(flags []string) (map[string]string, error) {
	out := make(map[string]string, len(flags))
	for _, f := range flags {
		name, value, ok := strings.Cut(f, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --arg %q, expected name=value", f)
		}
		out[name] = value
	}
	return out, nil
}

var subscribeCmd = &cobra.Command{
	Use:   "subscribe <udn-or-nickname> <serviceId>",
	Short: "Subscribe to a service's GENA events and print them",
	Long: `Discover the target device, subscribe to the named service's
eventing, print every property change for --seconds, then unsubscribe.`,
	Args: cobra.ExactArgs(2),
	RunE: runSubscribe,
}

type printingNotifyListener struct{}

func (printingNotifyListener) OnNotifyEvent(service *upnp.Service, seq int, name, value string) {
	fmt.Printf("event #%d  %s = %s\n", seq, name, value)
}

func runSubscribe(cmd *cobra.Command, args []string) error {
	reg := loadRegistry()
	defer saveRegistry()

	cp, err := newControlPoint()
	if err != nil {
		return err
	}
	defer stopControlPoint(cp)

	devices, err := scanDevices(cp, upnp.DefaultSearchTarget, searchTimeout(reg), reg, false)
	if err != nil {
		return err
	}
	device, err := resolveDevice(devices, args[0], reg)
	if err != nil {
		return err
	}
	service, ok := device.FindService(args[1])
	if !ok {
		return fmt.Errorf("device %s has no service %q", device.UDN(), args[1])
	}

	cp.AddNotifyEventListener(printingNotifyListener{})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := service.Subscribe(ctx, true); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	fmt.Printf("subscribed to %s, listening for %ds\n", args[1], subscribeSecs)

	time.Sleep(time.Duration(subscribeSecs) * time.Second)

	unsubCtx, unsubCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer unsubCancel()
	if err := service.Unsubscribe(unsubCtx); err != nil {
		fmt.Printf("warning: unsubscribe: %v\n", err)
	}
	return nil
}

var nicknameCmd = &cobra.Command{
	Use:   "nickname <udn> <name>",
	Short: "Assign a friendly nickname to a device's UDN",
	Long: `Store a nickname for a UDN in the local config so other
commands can refer to the device by name instead of its full UDN.`,
	Args: cobra.ExactArgs(2),
	RunE: runNickname,
}

func runNickname(cmd *cobra.Command, args []string) error {
	reg := loadRegistry()
	reg.SetDeviceNickname(args[0], args[1])
	if err := reg.Save(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	fmt.Printf("%s is now known as %q\n", args[0], args[1])
	return nil
}
