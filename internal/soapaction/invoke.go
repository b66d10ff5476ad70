package soapaction

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/nyxio/upnpcp/internal/httpclient"
	"github.com/nyxio/upnpcp/internal/httpmsg"
	"github.com/nyxio/upnpcp/internal/logging"
	"github.com/nyxio/upnpcp/internal/model"
	"github.com/nyxio/upnpcp/internal/version"
)

// Invoker sends SOAP action requests over a shared httpclient.Client.
// Devices are inconsistent about honoring keep-alive on the control
// path, so it always requests Connection: close per spec.md §4.6 step 3.
type Invoker struct {
	client    *httpclient.Client
	logger    logging.Logger
	userAgent string
}

func New(client *httpclient.Client, logger logging.Logger) *Invoker {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Invoker{
		client:    client,
		logger:    logger,
		userAgent: fmt.Sprintf("upnpcp/%s UPnP/1.0", version.Version),
	}
}

// Invoke builds the SOAP envelope for action against service, POSTs it to
// the Service's controlURL, and returns the parsed result map. When
// returnErrorResponse is true, a well-formed Fault is returned as the
// result map instead of failing the call, per spec.md §4.6 step 5.
func (inv *Invoker) Invoke(ctx context.Context, service *model.Service, action *model.Action, args map[string]string, returnErrorResponse bool) (map[string]string, error) {
	values := resolveArgs(action, args)
	envelope := buildEnvelope(service.ServiceType(), action.Name(), values)

	controlURL := service.ControlURL()
	req := httpmsg.NewRequest("POST", requestTarget(controlURL), "1.1", envelope)
	req.Header.Set("SOAPACTION", fmt.Sprintf("%q", service.ServiceType()+"#"+action.Name()))
	req.Header.Set("User-Agent", inv.userAgent)
	req.Header.Set("Connection", "close")
	req.Header.Set("Content-Type", `text/xml; charset="utf-8"`)

	inv.logger.Debug("invoking action",
		zap.String("serviceType", service.ServiceType()),
		zap.String("action", action.Name()),
		zap.String("controlURL", controlURL.String()),
	)

	resp, err := inv.client.Do(ctx, hostPort(controlURL), req)
	if err != nil {
		return nil, err
	}

	switch resp.Status.Code {
	case 200:
		return parseSuccess(resp.Body, action.Name())
	case 500:
		if len(resp.Body) == 0 {
			return nil, &ResponseError{Reason: "fault status with empty body"}
		}
		fields, err := parseFault(resp.Body)
		if err != nil {
			return nil, err
		}
		if returnErrorResponse {
			return fields, nil
		}
		return nil, &FaultError{Fields: fields}
	default:
		return nil, &ResponseError{Reason: fmt.Sprintf("unexpected status %d", resp.Status.Code)}
	}
}

func requestTarget(u *url.URL) string {
	target := u.Path
	if target == "" {
		target = "/"
	}
	if u.RawQuery != "" {
		target += "?" + u.RawQuery
	}
	return target
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
