package upnp

import (
	"context"

	"github.com/nyxio/upnpcp/internal/model"
)

// Service is an owned Service of a discovered Device. FindAction returns
// upnp.Action wrappers that can invoke; Subscribe/Unsubscribe drive the
// owning ControlPoint's GENA subscribe manager.
type Service struct {
	*model.Service
	cp *ControlPoint
}

func wrapService(cp *ControlPoint, s *model.Service) *Service {
	if s == nil {
		return nil
	}
	return &Service{Service: s, cp: cp}
}

// FindAction looks up an Action by name.
func (s *Service) FindAction(name string) (*Action, bool) {
	a, ok := s.Service.FindAction(name)
	if !ok {
		return nil, false
	}
	return &Action{Action: a, service: s}, true
}

// Subscribe sends a GENA SUBSCRIBE for this Service. When keep is true,
// the ControlPoint's keep-alive scheduler renews it automatically until
// Unsubscribe is called or the ControlPoint stops.
func (s *Service) Subscribe(ctx context.Context, keep bool) error {
	if err := s.cp.checkStarted("subscribe"); err != nil {
		return err
	}
	if err := s.cp.subscribeMgr.Subscribe(ctx, s.Service, keep); err != nil {
		return wrapSubscribeError("subscribe", err)
	}
	return nil
}

// Unsubscribe sends a GENA UNSUBSCRIBE and drops this Service from the
// keep-alive schedule, if it was there.
func (s *Service) Unsubscribe(ctx context.Context) error {
	if err := s.cp.checkStarted("unsubscribe"); err != nil {
		return err
	}
	if err := s.cp.subscribeMgr.Unsubscribe(ctx, s.Service); err != nil {
		return wrapSubscribeError("unsubscribe", err)
	}
	return nil
}
