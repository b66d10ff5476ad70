package httpclient

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"github.com/nyxio/upnpcp/internal/httpmsg"
	"github.com/nyxio/upnpcp/internal/logging"
)

const (
	// DefaultConnectTimeout bounds how long dialing a device may take.
	DefaultConnectTimeout = 30 * time.Second

	// DefaultReadTimeout bounds how long a single response may take to
	// arrive once the request has been written.
	DefaultReadTimeout = 30 * time.Second
)

// Option configures a Client.
type Option func(*Client)

// WithConnectTimeout overrides DefaultConnectTimeout.
func WithConnectTimeout(d time.Duration) Option {
	return func(c *Client) { c.connectTimeout = d }
}

// WithReadTimeout overrides DefaultReadTimeout.
func WithReadTimeout(d time.Duration) Option {
	return func(c *Client) { c.readTimeout = d }
}

// WithOneShot disables connection reuse: every Do dials fresh and closes
// the connection before returning, regardless of what the response's
// Connection header says. SOAP calls to devices with flaky keep-alive
// support use this.
func WithOneShot(oneShot bool) Option {
	return func(c *Client) { c.oneShot = oneShot }
}

// WithLogger attaches a Logger; the zero value is logging.Nop().
func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// Client sends httpmsg requests to devices addressed by host:port,
// reusing a single idle keep-alive connection per address when the peer
// allows it. It never follows redirects — UPnP control messages are
// always single-hop.
type Client struct {
	connectTimeout time.Duration
	readTimeout    time.Duration
	oneShot        bool
	logger         logging.Logger

	mu   sync.Mutex
	idle map[string]net.Conn
}

// New builds a Client with DefaultConnectTimeout/DefaultReadTimeout unless
// overridden.
func New(opts ...Option) *Client {
	c := &Client{
		connectTimeout: DefaultConnectTimeout,
		readTimeout:    DefaultReadTimeout,
		logger:         logging.Nop(),
		idle:           make(map[string]net.Conn),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do sends req to addr (host:port) and returns the parsed response. The
// connection is reused across calls to the same addr when both this
// client and the peer's last response allow keep-alive; otherwise it is
// dialed fresh and closed after the exchange.
func (c *Client) Do(ctx context.Context, addr string, req *httpmsg.Message) (*httpmsg.Message, error) {
	req.Header.Set("Host", addr)

	conn, reused, err := c.acquire(ctx, addr)
	if err != nil {
		return nil, err
	}

	resp, err := c.exchange(conn, req)
	if err != nil {
		conn.Close()
		if reused {
			// A pooled connection may have been closed by the peer between
			// calls; retry once against a fresh connection before giving up.
			return c.doFresh(ctx, addr, req)
		}
		return nil, err
	}

	if !c.oneShot && resp.KeepAlive() {
		c.release(addr, conn)
	} else {
		conn.Close()
	}
	return resp, nil
}

func (c *Client) doFresh(ctx context.Context, addr string, req *httpmsg.Message) (*httpmsg.Message, error) {
	conn, err := c.dial(ctx, addr)
	if err != nil {
		return nil, err
	}
	resp, err := c.exchange(conn, req)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if !c.oneShot && resp.KeepAlive() {
		c.release(addr, conn)
	} else {
		conn.Close()
	}
	return resp, nil
}

func (c *Client) exchange(conn net.Conn, req *httpmsg.Message) (*httpmsg.Message, error) {
	deadline := time.Now().Add(c.readTimeout)
	conn.SetDeadline(deadline)

	if _, err := conn.Write(req.Bytes()); err != nil {
		return nil, &ConnectError{Addr: conn.RemoteAddr().String(), Err: err}
	}

	br := bufio.NewReader(conn)
	resp, err := httpmsg.ReadMessage(br)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return nil, &TimeoutError{Addr: conn.RemoteAddr().String(), Phase: "read"}
		}
		if errors.Is(err, io.EOF) {
			// Peer closed without answering at all, distinct from a
			// malformed but present response.
			return nil, &ConnectError{Addr: conn.RemoteAddr().String(), Err: err}
		}
		return nil, &MalformedResponse{Addr: conn.RemoteAddr().String(), Err: err}
	}
	return resp, nil
}

func (c *Client) acquire(ctx context.Context, addr string) (net.Conn, bool, error) {
	c.mu.Lock()
	conn, ok := c.idle[addr]
	if ok {
		delete(c.idle, addr)
	}
	c.mu.Unlock()

	if ok {
		return conn, true, nil
	}

	conn, err := c.dial(ctx, addr)
	return conn, false, err
}

func (c *Client) dial(ctx context.Context, addr string) (net.Conn, error) {
	dialer := net.Dialer{Timeout: c.connectTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &TimeoutError{Addr: addr, Phase: "connect"}
		}
		return nil, &ConnectError{Addr: addr, Err: err}
	}
	return conn, nil
}

func (c *Client) release(addr string, conn net.Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if old, ok := c.idle[addr]; ok {
		old.Close()
	}
	c.idle[addr] = conn
}

// Close closes every pooled idle connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for addr, conn := range c.idle {
		conn.Close()
		delete(c.idle, addr)
	}
	return nil
}
