package upnp

import (
	"context"

	"github.com/nyxio/upnpcp/internal/model"
)

// Action is an owned Action of a Service. Invoke sends the SOAP request
// and returns the out arguments by name.
type Action struct {
	*model.Action
	service *Service
}

// Invoke sends the action over SOAP with the given in arguments (by
// name) and returns the out arguments (by name). If the ControlPoint was
// built with WithReturnFaultAsResult(true), a well-formed SOAP Fault is
// returned as a normal result map instead of a *SoapFaultError.
func (a *Action) Invoke(ctx context.Context, args map[string]string) (map[string]string, error) {
	cp := a.service.cp
	if err := cp.checkStarted("invoke"); err != nil {
		return nil, err
	}
	out, err := cp.invoker.Invoke(ctx, a.service.Service, a.Action, args, cp.returnFaultAsResult)
	if err != nil {
		return nil, wrapInvokeError(err)
	}
	return out, nil
}
