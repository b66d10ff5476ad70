package ssdptransport

import (
	"context"
	"net"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/ipv4"

	"github.com/nyxio/upnpcp/internal/httpmsg"
	"github.com/nyxio/upnpcp/internal/logging"
	"github.com/nyxio/upnpcp/internal/ssdpmsg"
)

// searchTTL is the multicast TTL UPnP mandates for M-SEARCH datagrams.
const searchTTL = 4

// SearchSocket sends one M-SEARCH and collects the unicast responses that
// arrive on its own ephemeral port over the following MX seconds. A new
// SearchSocket is opened per Search call; it is not reused across calls.
type SearchSocket struct {
	base

	iface *net.Interface
	conn  *net.UDPConn
	pconn *ipv4.PacketConn
}

// NewSearchSocket opens an ephemeral unicast UDP4 socket bound through
// iface (nil selects the system default interface) with the multicast
// TTL UPnP requires for M-SEARCH.
func NewSearchSocket(iface *net.Interface, logger logging.Logger) (*SearchSocket, error) {
	s := &SearchSocket{base: newBase(logger), iface: iface}

	conn, err := net.ListenUDP("udp4", &net.UDPAddr{Port: 0})
	if err != nil {
		return nil, err
	}
	s.conn = conn
	s.pconn = ipv4.NewPacketConn(conn)

	if err := s.pconn.SetMulticastTTL(searchTTL); err != nil {
		conn.Close()
		return nil, err
	}
	if iface != nil {
		if err := s.pconn.SetMulticastInterface(iface); err != nil {
			conn.Close()
			return nil, err
		}
	}

	s.setState(StateOpen)
	return s, nil
}

// Handler is called once per validated SSDP message a socket receives.
type Handler func(*ssdpmsg.Message)

// Search sends an M-SEARCH for target with the given MX, then reads
// responses for mx seconds (plus a small grace period), invoking handler
// for each one that decodes and validates. Search blocks until ctx is
// done or the collection window elapses, then closes the socket — a
// SearchSocket is single-use.
func (s *SearchSocket) Search(ctx context.Context, target string, mx int, handler Handler) error {
	if err := s.transition("search", StateOpen, StateRunning); err != nil {
		return err
	}
	defer s.Close()

	group, err := net.ResolveUDPAddr("udp4", ssdpmsg.MulticastAddr)
	if err != nil {
		return err
	}

	req := ssdpmsg.BuildSearch(target, mx)
	if _, err := s.conn.WriteToUDP(req.Bytes(), group); err != nil {
		return err
	}
	s.logger.Debug("sent M-SEARCH", zap.String("target", target), zap.Int("mx", mx))

	deadline := time.Now().Add(time.Duration(mx)*time.Second + 500*time.Millisecond)
	s.conn.SetReadDeadline(deadline)

	buf := make([]byte, maxDatagramSize)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		n, peer, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				return nil
			}
			return err
		}

		raw, err := httpmsg.ParseDatagram(buf[:n])
		if err != nil {
			s.logger.Warn("malformed search response", zap.Error(err))
			continue
		}
		msg, err := ssdpmsg.Parse(raw, s.localAddr(), peer)
		if err != nil {
			s.logger.Warn("invalid search response", zap.Error(err))
			continue
		}
		handler(msg)
	}
}

func (s *SearchSocket) localAddr() net.Addr {
	if s.conn == nil {
		return nil
	}
	return s.conn.LocalAddr()
}

// Close releases the socket. Safe to call more than once.
func (s *SearchSocket) Close() error {
	if s.currentState() == StateClosed {
		return nil
	}
	s.setState(StateClosed)
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
