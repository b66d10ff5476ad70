package ssdptransport

import (
	"context"
	"net"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/net/ipv4"

	"github.com/nyxio/upnpcp/internal/httpmsg"
	"github.com/nyxio/upnpcp/internal/logging"
	"github.com/nyxio/upnpcp/internal/ssdpmsg"
)

// NotifySocket is the long-lived multicast listener bound to 1900 that
// receives devices' unsolicited NOTIFY announcements. Unlike SearchSocket
// it is opened once and run for the lifetime of the control point.
type NotifySocket struct {
	base

	iface    *net.Interface
	ifaceNet *net.IPNet
	conn     *net.UDPConn
	pconn    *ipv4.PacketConn
}

// NewNotifySocket binds to 0.0.0.0:1900 with SO_REUSEADDR (so multiple
// UPnP-aware processes on the same host can each keep their own socket
// open, matching what every SSDP implementation on a shared machine
// expects) and joins the SSDP multicast group on iface.
func NewNotifySocket(iface *net.Interface, ifaceNet *net.IPNet, logger logging.Logger) (*NotifySocket, error) {
	n := &NotifySocket{base: newBase(logger), iface: iface, ifaceNet: ifaceNet}

	lc := net.ListenConfig{
		Control: func(_, _ string, c syscall.RawConn) error {
			var sockErr error
			err := c.Control(func(fd uintptr) {
				sockErr = syscall.SetsockoptInt(int(fd), syscall.SOL_SOCKET, syscall.SO_REUSEADDR, 1)
			})
			if err != nil {
				return err
			}
			return sockErr
		},
	}

	pc, err := lc.ListenPacket(context.Background(), "udp4", ":1900")
	if err != nil {
		return nil, err
	}
	conn := pc.(*net.UDPConn)
	n.conn = conn
	n.pconn = ipv4.NewPacketConn(conn)

	group, err := net.ResolveUDPAddr("udp4", ssdpmsg.MulticastAddr)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := n.pconn.JoinGroup(iface, group); err != nil {
		conn.Close()
		return nil, err
	}

	n.setState(StateOpen)
	return n, nil
}

// Run reads NOTIFY datagrams until ctx is cancelled or Close is called,
// invoking handler for each message that passes the notify-socket
// validity filters. Dropped datagrams are logged at debug level and
// otherwise swallowed — a single malformed or spoofed announcement must
// never interrupt the receive loop.
func (n *NotifySocket) Run(ctx context.Context, handler Handler) error {
	if err := n.transition("run", StateOpen, StateRunning); err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		n.Close()
	}()

	buf := make([]byte, maxDatagramSize)
	for {
		nread, peer, err := n.conn.ReadFromUDP(buf)
		if err != nil {
			if n.currentState() == StateClosed {
				return nil
			}
			return err
		}

		raw, err := httpmsg.ParseDatagram(buf[:nread])
		if err != nil {
			n.logger.Debug("malformed notify datagram", zap.Error(err))
			continue
		}
		msg, err := ssdpmsg.Parse(raw, n.localAddr(), peer)
		if err != nil {
			n.logger.Debug("invalid notify datagram", zap.Error(err))
			continue
		}
		if err := validateNotify(msg, n.ifaceNet); err != nil {
			n.logger.Debug("dropped notify datagram", zap.Error(err))
			continue
		}
		handler(msg)
	}
}

func (n *NotifySocket) localAddr() net.Addr {
	if n.conn == nil {
		return nil
	}
	return n.conn.LocalAddr()
}

// Close leaves the multicast group and closes the socket. Safe to call
// more than once.
func (n *NotifySocket) Close() error {
	if n.currentState() == StateClosed {
		return nil
	}
	n.setState(StateClosed)
	if n.pconn != nil {
		group, _ := net.ResolveUDPAddr("udp4", ssdpmsg.MulticastAddr)
		n.pconn.LeaveGroup(n.iface, group)
	}
	if n.conn != nil {
		return n.conn.Close()
	}
	return nil
}
