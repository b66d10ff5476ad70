package gena

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReceiverSetsReadTimeouts(t *testing.T) {
	r := NewReceiver(func(NotifyEvent) error { return nil }, nil)

	assert.Equal(t, 30*time.Second, r.ReadTimeout)
	assert.Equal(t, 30*time.Second, r.ReadHeaderTimeout)
}

func TestReceiverAcceptsValidNotify(t *testing.T) {
	var got NotifyEvent
	r := NewReceiver(func(e NotifyEvent) error {
		got = e
		return nil
	}, nil)

	body := `<e:propertyset xmlns:e="urn:schemas-upnp-org:event-1-0"><e:property><Variable>42</Variable></e:property></e:propertyset>`
	req := httptest.NewRequest("NOTIFY", "/uuid:dev1/urn:upnp-org:serviceId:Foo", strings.NewReader(body))
	req.Header.Set("NT", "upnp:event")
	req.Header.Set("NTS", "upnp:propchange")
	req.Header.Set("SID", "uuid:s1")
	req.Header.Set("SEQ", "7")

	rec := httptest.NewRecorder()
	r.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "uuid:dev1", got.UDN)
	assert.Equal(t, "urn:upnp-org:serviceId:Foo", got.ServiceID)
	assert.Equal(t, "uuid:s1", got.SID)
	assert.Equal(t, 7, got.Seq)
	require.Len(t, got.Properties, 1)
	assert.Equal(t, "Variable", got.Properties[0].Name)
	assert.Equal(t, "42", got.Properties[0].Value)
}

func TestReceiverRejectsMissingHeaders(t *testing.T) {
	r := NewReceiver(func(NotifyEvent) error { return nil }, nil)

	req := httptest.NewRequest("NOTIFY", "/uuid:dev1/urn:upnp-org:serviceId:Foo", strings.NewReader(""))
	req.Header.Set("NT", "upnp:event")
	// NTS deliberately omitted.
	req.Header.Set("SID", "uuid:s1")
	req.Header.Set("SEQ", "1")

	rec := httptest.NewRecorder()
	r.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReceiverReturnsPreconditionFailedForMissingSID(t *testing.T) {
	r := NewReceiver(func(NotifyEvent) error { return nil }, nil)

	req := httptest.NewRequest("NOTIFY", "/uuid:dev1/urn:upnp-org:serviceId:Foo", strings.NewReader(""))
	req.Header.Set("NT", "upnp:event")
	req.Header.Set("NTS", "upnp:propchange")
	// SID deliberately omitted.
	req.Header.Set("SEQ", "1")

	rec := httptest.NewRecorder()
	r.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)
}

func TestReceiverReturnsPreconditionFailedForMismatchedNT(t *testing.T) {
	r := NewReceiver(func(NotifyEvent) error { return nil }, nil)

	req := httptest.NewRequest("NOTIFY", "/uuid:dev1/urn:upnp-org:serviceId:Foo", strings.NewReader(""))
	req.Header.Set("NT", "upnp:something-else")
	req.Header.Set("NTS", "upnp:propchange")
	req.Header.Set("SID", "uuid:s1")
	req.Header.Set("SEQ", "1")

	rec := httptest.NewRecorder()
	r.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)
}

func TestReceiverReturnsPreconditionFailedForMismatchedNTS(t *testing.T) {
	r := NewReceiver(func(NotifyEvent) error { return nil }, nil)

	req := httptest.NewRequest("NOTIFY", "/uuid:dev1/urn:upnp-org:serviceId:Foo", strings.NewReader(""))
	req.Header.Set("NT", "upnp:event")
	req.Header.Set("NTS", "upnp:something-else")
	req.Header.Set("SID", "uuid:s1")
	req.Header.Set("SEQ", "1")

	rec := httptest.NewRecorder()
	r.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)
}

func TestReceiverReturnsPreconditionFailedForUnknownSubscription(t *testing.T) {
	r := NewReceiver(func(NotifyEvent) error {
		return &UnknownSubscriptionError{SID: "uuid:s1"}
	}, nil)

	body := `<e:propertyset xmlns:e="urn:schemas-upnp-org:event-1-0"></e:propertyset>`
	req := httptest.NewRequest("NOTIFY", "/uuid:dev1/urn:upnp-org:serviceId:Foo", strings.NewReader(body))
	req.Header.Set("NT", "upnp:event")
	req.Header.Set("NTS", "upnp:propchange")
	req.Header.Set("SID", "uuid:s1")
	req.Header.Set("SEQ", "1")

	rec := httptest.NewRecorder()
	r.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)
}

func TestCallbackURLJoinsPath(t *testing.T) {
	got := CallbackURL("http://192.168.1.5:8058/", "uuid:dev1", "urn:upnp-org:serviceId:Foo")
	assert.Equal(t, "http://192.168.1.5:8058/uuid:dev1/urn:upnp-org:serviceId:Foo", got)
}
