package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nyxio/upnpcp/internal/config"
	"github.com/nyxio/upnpcp/internal/logging"
	"github.com/nyxio/upnpcp/pkg/upnp"
)

// newControlPoint builds, initializes, and starts a ControlPoint using
// the persistent --iface/--log-level flags, falling back to the
// registry's default_interface when --iface is not given. The caller
// must Stop and Terminate it when done.
func newControlPoint() (*upnp.ControlPoint, error) {
	logger, err := logging.New(logLevel)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	opts := []upnp.Option{upnp.WithLogger(logger)}
	name := ifaceName
	if name == "" {
		if reg, err := config.GetGlobalRegistry(); err == nil && reg.Preferences != nil {
			name = reg.Preferences.DefaultInterface
		}
	}
	if name != "" {
		opts = append(opts, upnp.WithInterfaceName(name))
	}

	cp, err := upnp.NewControlPoint(opts...)
	if err != nil {
		return nil, err
	}
	if err := cp.Initialize(context.Background()); err != nil {
		return nil, fmt.Errorf("initialize: %w", err)
	}
	if err := cp.Start(context.Background()); err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	return cp, nil
}

// stopControlPoint stops and terminates cp, logging but not failing on
// error since it only runs during shutdown.
func stopControlPoint(cp *upnp.ControlPoint) {
	if err := cp.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: stop: %v\n", err)
	}
	if err := cp.Terminate(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: terminate: %v\n", err)
	}
}

// withInterrupt returns a context cancelled on SIGINT/SIGTERM, and a
// cancel func the caller must always call.
func withInterrupt() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// searchTimeout resolves the discovery window: --timeout flag if set,
// else the registry's configured default, else 5s.
func searchTimeout(reg *config.Registry) time.Duration {
	if timeoutSecs > 0 {
		return time.Duration(timeoutSecs) * time.Second
	}
	if reg != nil && reg.Preferences != nil && reg.Preferences.SearchTimeoutSeconds > 0 {
		return time.Duration(reg.Preferences.SearchTimeoutSeconds) * time.Second
	}
	return 5 * time.Second
}

// resolveFormat resolves the output format: --format flag if set, else
// the registry's configured default, else "text".
func resolveFormat(reg *config.Registry) string {
	if outputFormat != "" {
		return outputFormat
	}
	if reg != nil && reg.Preferences != nil && reg.Preferences.OutputFormat != "" {
		return reg.Preferences.OutputFormat
	}
	return "text"
}

// loadRegistry loads the CLI's config registry, falling back to an
// empty in-memory one if it cannot be read or written — the CLI's
// nickname cache is a convenience, not a requirement for discovery or
// invocation to work.
func loadRegistry() *config.Registry {
	reg, err := config.GetGlobalRegistry()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not load config: %v\n", err)
		return config.NewRegistry()
	}
	return reg
}

func saveRegistry() {
	if err := config.SaveGlobal(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not save config: %v\n", err)
	}
}
