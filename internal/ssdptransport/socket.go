package ssdptransport

import (
	"sync"

	"github.com/google/uuid"

	"github.com/nyxio/upnpcp/internal/logging"
)

// maxDatagramSize bounds the receive buffer for SSDP UDP reads. SSDP
// messages are small HTTP-style text and fit well within a single
// Ethernet frame; 1500 matches the standard Ethernet MTU rather than
// the 65535 theoretical max for a UDP datagram.
const maxDatagramSize = 1500

// base holds the state machine and identity shared by SearchSocket and
// NotifySocket. Each socket gets its own correlation ID so log lines from
// concurrently open sockets (one search transport per outstanding Search
// call, one long-lived notify transport) can be told apart.
type base struct {
	id     uuid.UUID
	logger logging.Logger

	mu    sync.Mutex
	state State

	stopCh chan struct{}
	wg     sync.WaitGroup
}

func newBase(logger logging.Logger) base {
	if logger == nil {
		logger = logging.Nop()
	}
	id := uuid.New()
	return base{
		id:     id,
		logger: logger.With(zapSocketID(id)),
		state:  StateClosed,
	}
}

func (b *base) transition(op string, from, to State) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state != from {
		return &StateError{Op: op, State: b.state}
	}
	b.state = to
	return nil
}

func (b *base) setState(s State) {
	b.mu.Lock()
	b.state = s
	b.mu.Unlock()
}

func (b *base) currentState() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}
