// Package gena implements the GENA event subscription protocol: the
// SUBSCRIBE/RENEW/UNSUBSCRIBE client, the local HTTP server that
// receives NOTIFY event deliveries, and the keep-alive scheduler that
// renews subscriptions before they expire.
package gena
