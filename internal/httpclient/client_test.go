package httpclient

import (
	"bufio"
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyxio/upnpcp/internal/httpmsg"
)

// serveOnce accepts a single connection and writes resp for every request
// read from it, closing after conn if keepOpen is false.
func serveOnce(t *testing.T, resp []byte, keepOpen bool) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		br := bufio.NewReader(conn)
		for {
			if _, err := httpmsg.ReadMessage(br); err != nil {
				return
			}
			if _, err := conn.Write(resp); err != nil {
				return
			}
			if !keepOpen {
				return
			}
		}
	}()

	return ln.Addr().String()
}

func TestDoSimpleRequestResponse(t *testing.T) {
	resp := []byte("HTTP/1.1 200 OK\r\nContent-Length: 2\r\nConnection: close\r\n\r\nok")
	addr := serveOnce(t, resp, false)

	c := New(WithConnectTimeout(2 * time.Second))
	req := httpmsg.NewRequest("GET", "/desc.xml", "1.1", nil)

	got, err := c.Do(context.Background(), addr, req)
	require.NoError(t, err)
	assert.Equal(t, 200, got.Status.Code)
	assert.Equal(t, "ok", string(got.Body))
}

func TestDoReusesKeepAliveConnection(t *testing.T) {
	resp := []byte("HTTP/1.1 200 OK\r\nContent-Length: 2\r\n\r\nok")
	addr := serveOnce(t, resp, true)

	c := New(WithConnectTimeout(2 * time.Second))

	for i := 0; i < 2; i++ {
		req := httpmsg.NewRequest("GET", "/desc.xml", "1.1", nil)
		got, err := c.Do(context.Background(), addr, req)
		require.NoError(t, err)
		assert.Equal(t, 200, got.Status.Code)
	}
}

func TestDoConnectErrorForClosedPort(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close() // nothing listening now

	c := New(WithConnectTimeout(2 * time.Second))
	req := httpmsg.NewRequest("GET", "/", "1.1", nil)

	_, err = c.Do(context.Background(), addr, req)
	require.Error(t, err)
	var connErr *ConnectError
	assert.ErrorAs(t, err, &connErr)
}

func TestFetchDescriptionSucceedsAfterTransientFailures(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	attempts := 0
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			attempts++
			if attempts < 2 {
				conn.Close() // simulate device not ready yet
				continue
			}
			br := bufio.NewReader(conn)
			httpmsg.ReadMessage(br)
			conn.Write([]byte("HTTP/1.1 200 OK\r\nContent-Length: 4\r\nConnection: close\r\n\r\ndesc"))
			conn.Close()
			return
		}
	}()

	c := New(WithConnectTimeout(2 * time.Second))
	body, err := c.FetchDescription(context.Background(), "http://"+ln.Addr().String()+"/desc.xml")
	require.NoError(t, err)
	assert.Equal(t, "desc", string(body))
}
