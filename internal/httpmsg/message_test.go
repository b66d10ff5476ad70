package httpmsg

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDatagramNotify(t *testing.T) {
	raw := "NOTIFY * HTTP/1.1\r\n" +
		"HOST: 239.255.255.250:1900\r\n" +
		"CACHE-CONTROL: max-age=1800\r\n" +
		"LOCATION: http://192.168.1.10:8080/desc.xml\r\n" +
		"NT: upnp:rootdevice\r\n" +
		"NTS: ssdp:alive\r\n" +
		"USN: uuid:abc123::upnp:rootdevice\r\n\r\n"

	msg, err := ParseDatagram([]byte(raw))
	require.NoError(t, err)
	require.True(t, msg.IsRequest())
	assert.Equal(t, "NOTIFY", msg.Request.Method)
	assert.Equal(t, "ssdp:alive", msg.Header.Get("NTS"))
	assert.Empty(t, msg.Body)
}

func TestParseDatagramResponse(t *testing.T) {
	raw := "HTTP/1.1 200 OK\r\n" +
		"CACHE-CONTROL: max-age=1800\r\n" +
		"LOCATION: http://192.168.1.10:8080/desc.xml\r\n" +
		"ST: upnp:rootdevice\r\n" +
		"USN: uuid:abc123::upnp:rootdevice\r\n\r\n"

	msg, err := ParseDatagram([]byte(raw))
	require.NoError(t, err)
	require.False(t, msg.IsRequest())
	assert.Equal(t, 200, msg.Status.Code)
	assert.Equal(t, "OK", msg.Status.Reason)
}

func TestParseDatagramMissingStartLine(t *testing.T) {
	_, err := ParseDatagram([]byte("\r\n"))
	require.Error(t, err)
	var malformedErr *MalformedMessageError
	assert.ErrorAs(t, err, &malformedErr)
}

func TestParseDatagramShortRequestLine(t *testing.T) {
	_, err := ParseDatagram([]byte("NOTIFY *\r\n\r\n"))
	require.Error(t, err)
}

func TestReadMessageContentLength(t *testing.T) {
	raw := "POST /event/upnp-abc HTTP/1.1\r\n" +
		"Content-Type: text/xml\r\n" +
		"Content-Length: 5\r\n\r\n" +
		"hello" + "trailing garbage that must not be read"

	br := bufio.NewReader(strings.NewReader(raw))
	msg, err := ReadMessage(br)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(msg.Body))
}

func TestReadMessageChunked(t *testing.T) {
	raw := "HTTP/1.1 200 OK\r\n" +
		"Transfer-Encoding: chunked\r\n\r\n" +
		"5\r\nhello\r\n" +
		"6\r\n world\r\n" +
		"0\r\n\r\n"

	br := bufio.NewReader(strings.NewReader(raw))
	msg, err := ReadMessage(br)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(msg.Body))
}

func TestReadMessageUnexpectedEOFMidBody(t *testing.T) {
	raw := "POST / HTTP/1.1\r\nContent-Length: 100\r\n\r\nshort"

	br := bufio.NewReader(strings.NewReader(raw))
	_, err := ReadMessage(br)
	require.Error(t, err)
}

func TestReadMessageUnparsableChunkSize(t *testing.T) {
	raw := "HTTP/1.1 200 OK\r\nTransfer-Encoding: chunked\r\n\r\nZZZ\r\nhello\r\n"

	br := bufio.NewReader(strings.NewReader(raw))
	_, err := ReadMessage(br)
	require.Error(t, err)
}

func TestKeepAliveHTTP10RequiresExplicitHeader(t *testing.T) {
	msg := NewRequest("GET", "/", "1.0", nil)
	assert.False(t, msg.KeepAlive())

	msg.Header.Set("Connection", "keep-alive")
	assert.True(t, msg.KeepAlive())
}

func TestKeepAliveHTTP11DefaultsOn(t *testing.T) {
	msg := NewRequest("GET", "/", "1.1", nil)
	assert.True(t, msg.KeepAlive())

	msg.Header.Set("Connection", "close")
	assert.False(t, msg.KeepAlive())
}

func TestBytesRoundTrip(t *testing.T) {
	msg := NewRequest("SUBSCRIBE", "/event/upnp-abc", "1.1", nil)
	msg.Header.Set("NT", "upnp:event")
	msg.Header.Set("Callback", "<http://192.168.1.5:8058/event/upnp-abc>")

	parsed, err := ParseDatagram(msg.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "SUBSCRIBE", parsed.Request.Method)
	assert.Equal(t, "upnp:event", parsed.Header.Get("NT"))
}
