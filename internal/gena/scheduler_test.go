package gena

import (
	"context"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyxio/upnpcp/internal/model"
)

type fakeRenewer struct {
	mu       sync.Mutex
	renewed  []*model.Service
	attempts int
	failFor  *model.Service
	nextTime time.Time
}

func (f *fakeRenewer) Renew(ctx context.Context, service *model.Service) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts++
	if service == f.failFor {
		return &SubscribeError{Op: "renew", Reason: "simulated failure"}
	}
	f.renewed = append(f.renewed, service)
	service.SetSubscription(&model.Subscription{
		SID:               service.Subscription().SID,
		SubscriptionStart: f.nextTime,
		TimeoutMs:         service.Subscription().TimeoutMs,
	})
	return nil
}

func (f *fakeRenewer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.renewed)
}

func (f *fakeRenewer) attemptCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempts
}

func buildSchedulableService(t *testing.T, udn string) *model.Service {
	t.Helper()
	scpd, _ := url.Parse("http://device.example/scpd.xml")
	control, _ := url.Parse("http://device.example/control")
	evt, _ := url.Parse("http://device.example/event")
	db := &model.DeviceBuilder{
		UDN: udn,
		Services: []*model.ServiceBuilder{
			{
				ServiceType: "urn:x",
				ServiceID:   "id",
				SCPDURL:     scpd,
				ControlURL:  control,
				EventSubURL: evt,
			},
		},
	}
	device, err := db.Build(nil, time.Time{})
	require.NoError(t, err)
	service, ok := device.FindServiceByType("urn:x")
	require.True(t, ok)
	return service
}

func TestSchedulerRenewsDueService(t *testing.T) {
	service := buildSchedulableService(t, "uuid:a")
	service.SetSubscription(&model.Subscription{SID: "uuid:sub", SubscriptionStart: time.Now(), TimeoutMs: 20000})

	fr := &fakeRenewer{nextTime: time.Now()}
	sched := NewScheduler(fr, nil)

	sched.Add(service, time.Now().Add(10*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	go sched.Run(ctx)
	defer cancel()

	require.Eventually(t, func() bool { return fr.count() >= 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestSchedulerDropsServiceAfterRenewalFailure(t *testing.T) {
	service := buildSchedulableService(t, "uuid:b")
	service.SetSubscription(&model.Subscription{SID: "uuid:sub", SubscriptionStart: time.Now(), TimeoutMs: 20000})

	fr := &fakeRenewer{failFor: service}
	sched := NewScheduler(fr, nil)
	sched.Add(service, time.Now().Add(10*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sched.Run(ctx)

	require.Eventually(t, func() bool { return fr.attemptCount() >= 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, fr.count())

	sched.mu.Lock()
	_, scheduled := sched.items[service]
	sched.mu.Unlock()
	assert.False(t, scheduled)
}

func TestSchedulerAddOfZeroTimeIsNotScheduled(t *testing.T) {
	service := buildSchedulableService(t, "uuid:c")
	sched := NewScheduler(&fakeRenewer{}, nil)

	sched.Add(service, time.Time{})

	sched.mu.Lock()
	_, scheduled := sched.items[service]
	sched.mu.Unlock()
	assert.False(t, scheduled)
}

func TestSchedulerRemoveDropsPendingItem(t *testing.T) {
	service := buildSchedulableService(t, "uuid:d")
	sched := NewScheduler(&fakeRenewer{}, nil)

	sched.Add(service, time.Now().Add(time.Hour))
	sched.Remove(service)

	sched.mu.Lock()
	_, scheduled := sched.items[service]
	sched.mu.Unlock()
	assert.False(t, scheduled)
}
