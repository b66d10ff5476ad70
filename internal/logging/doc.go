// Package logging provides the structured-logging capability used by every
// component of the control point.
//
// Every component that logs takes a Logger at construction time instead of
// reaching for a package-level singleton. Callers who don't pass one get
// Nop(), which discards everything at zero cost — passive paths (discovery,
// eventing) stay silent by default, matching the control point's error
// handling design: transport failures on background paths are logged and
// swallowed, while user-initiated operations surface errors to the caller
// regardless of what the Logger does with them.
//
// # Levels
//
//	logger.Debug("ssdp datagram received", zap.String("peer", peer.String()))
//	logger.Info("device discovered", zap.String("udn", udn))
//	logger.Warn("subscription renewal failed", zap.Error(err))
//	logger.Error("description fetch failed", zap.String("location", loc), zap.Error(err))
package logging
