package model

import (
	"net/url"
	"sync"
	"time"
)

// Subscription is a Service's current GENA subscription state. A nil
// *Subscription (as returned by Service.Subscription) means unsubscribed.
type Subscription struct {
	SID              string
	SubscriptionStart time.Time
	TimeoutMs        int // -1 means "infinite"
}

// RenewalTime is subscriptionStart + max(timeoutMs-10s, timeoutMs*0.9),
// the point the keep-alive scheduler renews at, per spec.md §4.7. It
// returns the zero Time for an infinite-timeout subscription, since
// there is no interval to renew on.
func (s *Subscription) RenewalTime() time.Time {
	if s == nil || s.TimeoutMs < 0 {
		return time.Time{}
	}
	margin := s.TimeoutMs - 10000
	ninety := s.TimeoutMs * 9 / 10
	if ninety > margin {
		margin = ninety
	}
	if margin < 0 {
		margin = 0
	}
	return s.SubscriptionStart.Add(time.Duration(margin) * time.Millisecond)
}

// Service is owned by a Device and immutable once built, except for its
// subscription state, which the Subscribe manager mutates under mu as
// SUBSCRIBE/RENEW/UNSUBSCRIBE calls complete.
type Service struct {
	device *Device

	serviceType  string
	serviceID    string
	scpdURL      *url.URL
	controlURL   *url.URL
	eventSubURL  *url.URL

	actions        map[string]*Action
	stateVariables map[string]*StateVariable

	mu           sync.Mutex
	subscription *Subscription
}

func (s *Service) Device() *Device            { return s.device }
func (s *Service) ServiceType() string        { return s.serviceType }
func (s *Service) ServiceID() string          { return s.serviceID }
func (s *Service) SCPDURL() *url.URL          { return s.scpdURL }
func (s *Service) ControlURL() *url.URL       { return s.controlURL }
func (s *Service) EventSubURL() *url.URL      { return s.eventSubURL }

// FindAction looks up an Action by name.
func (s *Service) FindAction(name string) (*Action, bool) {
	a, ok := s.actions[name]
	return a, ok
}

// Actions returns every declared Action, unordered.
func (s *Service) Actions() map[string]*Action { return s.actions }

// FindStateVariable looks up a StateVariable by name.
func (s *Service) FindStateVariable(name string) (*StateVariable, bool) {
	v, ok := s.stateVariables[name]
	return v, ok
}

// Subscription returns the current subscription state, or nil if
// unsubscribed.
func (s *Service) Subscription() *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subscription
}

// SetSubscription replaces the subscription state; called by the
// Subscribe manager after a successful SUBSCRIBE/RENEW, and with nil
// after UNSUBSCRIBE or when a subscription is invalidated by device
// expiry.
func (s *Service) SetSubscription(sub *Subscription) {
	s.mu.Lock()
	s.subscription = sub
	s.mu.Unlock()
}

// ServiceBuilder is the construction-time config for a Service. URLs are
// expected already resolved against URLBase/LOCATION by the description
// parser.
type ServiceBuilder struct {
	ServiceType string
	ServiceID   string
	SCPDURL     *url.URL
	ControlURL  *url.URL
	EventSubURL *url.URL

	StateVariables []*StateVariableBuilder
	Actions        []*ActionBuilder
}

func (b *ServiceBuilder) build(device *Device) (*Service, error) {
	switch {
	case b.ServiceType == "":
		return nil, &BuildError{Entity: "Service", Reason: "missing serviceType"}
	case b.ServiceID == "":
		return nil, &BuildError{Entity: "Service", Reason: "missing serviceId"}
	case b.SCPDURL == nil:
		return nil, &BuildError{Entity: "Service", Reason: "missing SCPDURL"}
	case b.ControlURL == nil:
		return nil, &BuildError{Entity: "Service", Reason: "missing controlURL"}
	case b.EventSubURL == nil:
		return nil, &BuildError{Entity: "Service", Reason: "missing eventSubURL"}
	}

	stateVariables := make(map[string]*StateVariable, len(b.StateVariables))
	for _, svb := range b.StateVariables {
		sv, err := svb.Build()
		if err != nil {
			return nil, err
		}
		stateVariables[sv.Name()] = sv
	}

	actions := make(map[string]*Action, len(b.Actions))
	for _, ab := range b.Actions {
		a, err := ab.build(stateVariables)
		if err != nil {
			return nil, err
		}
		actions[a.Name()] = a
	}

	return &Service{
		device:         device,
		serviceType:    b.ServiceType,
		serviceID:      b.ServiceID,
		scpdURL:        b.SCPDURL,
		controlURL:     b.ControlURL,
		eventSubURL:    b.EventSubURL,
		actions:        actions,
		stateVariables: stateVariables,
	}, nil
}
