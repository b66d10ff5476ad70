package gena

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nyxio/upnpcp/internal/httpclient"
	"github.com/nyxio/upnpcp/internal/httpmsg"
	"github.com/nyxio/upnpcp/internal/logging"
	"github.com/nyxio/upnpcp/internal/model"
)

// DefaultTimeout is the TIMEOUT this manager requests on SUBSCRIBE and
// RENEW when the caller does not specify one.
const DefaultTimeout = 300 * time.Second

// timeoutSentinelInfinite is the model.Subscription.TimeoutMs value for
// a device that answered TIMEOUT: infinite.
const timeoutSentinelInfinite = -1

// Manager sends SUBSCRIBE/RENEW/UNSUBSCRIBE requests over a shared
// httpclient.Client and, when asked to keep a subscription alive, hands
// it to an attached Scheduler.
type Manager struct {
	client      *httpclient.Client
	logger      logging.Logger
	callbackURL func(service *model.Service) string
	scheduler   *Scheduler
}

// NewManager builds a Manager. callbackURL renders the CALLBACK header
// value advertised for a given Service, normally built with
// gena.CallbackURL against the Receiver's own base URL.
func NewManager(client *httpclient.Client, logger logging.Logger, callbackURL func(*model.Service) string) *Manager {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Manager{client: client, logger: logger, callbackURL: callbackURL}
}

// AttachScheduler wires a keep-alive Scheduler; Subscribe hands a
// Service to it when keep is true.
func (m *Manager) AttachScheduler(s *Scheduler) { m.scheduler = s }

// Subscribe sends SUBSCRIBE with a fresh CALLBACK/NT, persists the
// resulting subscription on service, and, if keep is true, hands
// service to the attached Scheduler.
func (m *Manager) Subscribe(ctx context.Context, service *model.Service, keep bool) error {
	req := httpmsg.NewRequest("SUBSCRIBE", service.EventSubURL().RequestURI(), "1.1", nil)
	req.Header.Set("NT", "upnp:event")
	req.Header.Set("CALLBACK", "<"+m.callbackURL(service)+">")
	req.Header.Set("TIMEOUT", formatTimeoutHeader(DefaultTimeout))
	req.Header.Set("Content-Length", "0")

	sid, timeoutMs, err := m.exchange(ctx, service, req)
	if err != nil {
		return err
	}

	now := time.Now()
	service.SetSubscription(&model.Subscription{
		SID:               sid,
		SubscriptionStart: now,
		TimeoutMs:         timeoutMs,
	})

	m.logger.Debug("subscribed",
		zap.String("serviceId", service.ServiceID()), zap.String("sid", sid), zap.Int("timeoutMs", timeoutMs))

	if keep && m.scheduler != nil {
		m.scheduler.Add(service, service.Subscription().RenewalTime())
	}
	return nil
}

// Renew sends RENEW (SUBSCRIBE with SID/TIMEOUT only) for service's
// current subscription. The response SID must match the stored SID.
func (m *Manager) Renew(ctx context.Context, service *model.Service) error {
	sub := service.Subscription()
	if sub == nil {
		return &SubscribeError{Op: "renew", Reason: "service has no active subscription"}
	}

	req := httpmsg.NewRequest("SUBSCRIBE", service.EventSubURL().RequestURI(), "1.1", nil)
	req.Header.Set("SID", sub.SID)
	req.Header.Set("TIMEOUT", formatTimeoutHeader(DefaultTimeout))
	req.Header.Set("Content-Length", "0")

	sid, timeoutMs, err := m.exchange(ctx, service, req)
	if err != nil {
		return err
	}
	if sid != sub.SID {
		return &MismatchedSIDError{Want: sub.SID, Got: sid}
	}

	service.SetSubscription(&model.Subscription{
		SID:               sid,
		SubscriptionStart: time.Now(),
		TimeoutMs:         timeoutMs,
	})
	return nil
}

// Unsubscribe sends UNSUBSCRIBE for service's current subscription and
// clears local state unconditionally on a 200 response.
func (m *Manager) Unsubscribe(ctx context.Context, service *model.Service) error {
	sub := service.Subscription()
	if sub == nil {
		return nil
	}

	req := httpmsg.NewRequest("UNSUBSCRIBE", service.EventSubURL().RequestURI(), "1.1", nil)
	req.Header.Set("SID", sub.SID)
	req.Header.Set("Content-Length", "0")

	resp, err := m.client.Do(ctx, hostPort(service.EventSubURL()), req)
	if err != nil {
		return err
	}
	if resp.Status.Code != 200 {
		return &SubscribeError{Op: "unsubscribe", Reason: fmt.Sprintf("status %d", resp.Status.Code)}
	}

	service.SetSubscription(nil)
	if m.scheduler != nil {
		m.scheduler.Remove(service)
	}
	return nil
}

// exchange sends req to service's eventSubURL and extracts SID/TIMEOUT
// from a 200 response.
func (m *Manager) exchange(ctx context.Context, service *model.Service, req *httpmsg.Message) (sid string, timeoutMs int, err error) {
	resp, err := m.client.Do(ctx, hostPort(service.EventSubURL()), req)
	if err != nil {
		return "", 0, err
	}
	if resp.Status.Code != 200 {
		return "", 0, &SubscribeError{Op: req.Request.Method, Reason: fmt.Sprintf("status %d", resp.Status.Code)}
	}

	sid = resp.Header.Get("SID")
	if sid == "" {
		return "", 0, &SubscribeError{Op: req.Request.Method, Reason: "response missing SID"}
	}

	timeoutMs, err = parseTimeoutHeader(resp.Header.Get("TIMEOUT"))
	if err != nil {
		return "", 0, &SubscribeError{Op: req.Request.Method, Reason: err.Error()}
	}
	return sid, timeoutMs, nil
}

// parseTimeoutHeader parses a GENA TIMEOUT header value ("Second-N" or
// "infinite", case-insensitive) into milliseconds, or
// timeoutSentinelInfinite.
func parseTimeoutHeader(v string) (int, error) {
	if strings.EqualFold(v, "infinite") {
		return timeoutSentinelInfinite, nil
	}
	const prefix = "second-"
	if len(v) <= len(prefix) || !strings.EqualFold(v[:len(prefix)], prefix) {
		return 0, fmt.Errorf("unparsable TIMEOUT header %q", v)
	}
	seconds, err := strconv.Atoi(v[len(prefix):])
	if err != nil {
		return 0, fmt.Errorf("unparsable TIMEOUT header %q: %w", v, err)
	}
	return seconds * 1000, nil
}

func formatTimeoutHeader(d time.Duration) string {
	return fmt.Sprintf("Second-%d", int(d.Seconds()))
}

func hostPort(u *url.URL) string {
	if u.Port() != "" {
		return u.Host
	}
	port := "80"
	if u.Scheme == "https" {
		port = "443"
	}
	return u.Hostname() + ":" + port
}
