package model

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyxio/upnpcp/internal/ssdpmsg"
)

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestArgumentBuildResolvesStateVariable(t *testing.T) {
	svs := map[string]*StateVariable{
		"A_ARG_TYPE_Foo": {name: "A_ARG_TYPE_Foo", dataType: "string"},
	}
	ab := &ArgumentBuilder{Name: "Foo", Direction: DirectionIn, RelatedStateVariableName: "A_ARG_TYPE_Foo"}

	arg, err := ab.build(svs)
	require.NoError(t, err)
	assert.Equal(t, "Foo", arg.Name())
	assert.Same(t, svs["A_ARG_TYPE_Foo"], arg.RelatedStateVariable())
}

func TestArgumentBuildFailsOnUnknownStateVariable(t *testing.T) {
	ab := &ArgumentBuilder{Name: "Foo", RelatedStateVariableName: "Missing"}
	_, err := ab.build(map[string]*StateVariable{})
	require.Error(t, err)
	var buildErr *BuildError
	assert.ErrorAs(t, err, &buildErr)
}

func TestServiceBuildRequiresAllURLs(t *testing.T) {
	sb := &ServiceBuilder{ServiceType: "urn:x", ServiceID: "id1"}
	_, err := sb.build(nil)
	require.Error(t, err)
}

func TestServiceBuildSucceeds(t *testing.T) {
	sb := &ServiceBuilder{
		ServiceType: "urn:schemas-upnp-org:service:ContentDirectory:1",
		ServiceID:   "urn:upnp-org:serviceId:ContentDirectory",
		SCPDURL:     mustURL(t, "http://192.168.1.10:8080/cd.xml"),
		ControlURL:  mustURL(t, "http://192.168.1.10:8080/cd/control"),
		EventSubURL: mustURL(t, "http://192.168.1.10:8080/cd/event"),
		StateVariables: []*StateVariableBuilder{
			{Name: "A_ARG_TYPE_ObjectID", DataType: "string"},
		},
		Actions: []*ActionBuilder{
			{
				Name: "Browse",
				Arguments: []*ArgumentBuilder{
					{Name: "ObjectID", Direction: DirectionIn, RelatedStateVariableName: "A_ARG_TYPE_ObjectID"},
				},
			},
		},
	}

	s, err := sb.build(nil)
	require.NoError(t, err)
	action, ok := s.FindAction("Browse")
	require.True(t, ok)
	assert.Len(t, action.InArguments(), 1)
}

func TestDeviceBuildFailsWithoutUDN(t *testing.T) {
	db := &DeviceBuilder{}
	_, err := db.Build(nil, time.Now())
	require.Error(t, err)
}

func TestDeviceRefreshIsMonotonicallyNonDecreasing(t *testing.T) {
	db := &DeviceBuilder{UDN: "uuid:abc"}
	d, err := db.Build(nil, time.Now())
	require.NoError(t, err)

	now := time.Now()
	d.Refresh(&ssdpmsg.Message{MaxAge: 1800}, now)
	first := d.ExpiresAt()

	// A refresh with a shorter max-age arriving later must not move
	// ExpiresAt backward.
	d.Refresh(&ssdpmsg.Message{MaxAge: 60}, now.Add(time.Second))
	assert.Equal(t, first, d.ExpiresAt())
}

func TestDeviceBuildRecursesIntoEmbeddedDevices(t *testing.T) {
	db := &DeviceBuilder{
		UDN: "uuid:root",
		Children: []*DeviceBuilder{
			{UDN: "uuid:child"},
		},
	}
	d, err := db.Build(&ssdpmsg.Message{MaxAge: 100}, time.Now())
	require.NoError(t, err)
	require.Len(t, d.Children(), 1)
	assert.Equal(t, "uuid:child", d.Children()[0].UDN())
	assert.Same(t, d, d.Children()[0].Parent())
	assert.False(t, d.Children()[0].ExpiresAt().IsZero())
}

func TestSubscriptionRenewalTime(t *testing.T) {
	start := time.Now()
	sub := &Subscription{SID: "uuid:s1", SubscriptionStart: start, TimeoutMs: 300000}
	// max(300000-10000, 300000*0.9) = max(290000, 270000) = 290000ms
	assert.Equal(t, start.Add(290*time.Second), sub.RenewalTime())
}

func TestSubscriptionRenewalTimeInfiniteNeverRenews(t *testing.T) {
	sub := &Subscription{SID: "uuid:s1", SubscriptionStart: time.Now(), TimeoutMs: -1}
	assert.True(t, sub.RenewalTime().IsZero())
}
