package description

import (
	"context"
	"net/url"

	"go.uber.org/zap"

	"github.com/nyxio/upnpcp/internal/httpclient"
	"github.com/nyxio/upnpcp/internal/logging"
	"github.com/nyxio/upnpcp/internal/model"
)

// Fetcher retrieves and parses a Device's full description, including
// every owned Service's SCPD, over a shared httpclient.Client.
type Fetcher struct {
	client *httpclient.Client
	logger logging.Logger
}

func New(client *httpclient.Client, logger logging.Logger) *Fetcher {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Fetcher{client: client, logger: logger}
}

// Fetch GETs location, parses the device description, then GETs and
// parses every declared Service's SCPD, returning a DeviceBuilder ready
// for Build. A failure fetching or parsing any one Service's SCPD fails
// the whole fetch, since spec.md §4.5 requires SCPDURL et al. to be
// present and buildable for a Device to exist at all.
func (f *Fetcher) Fetch(ctx context.Context, location string) (*model.DeviceBuilder, error) {
	locURL, err := url.Parse(location)
	if err != nil {
		return nil, &ParseError{Reason: "invalid LOCATION: " + err.Error()}
	}

	body, err := f.client.FetchDescription(ctx, location)
	if err != nil {
		return nil, err
	}

	deviceBuilder, err := ParseDevice(body, locURL, f.logger)
	if err != nil {
		return nil, err
	}

	for _, sb := range collectServices(deviceBuilder) {
		scpdBody, err := f.client.FetchDescription(ctx, sb.SCPDURL.String())
		if err != nil {
			return nil, err
		}
		if err := ParseSCPD(sb, scpdBody); err != nil {
			return nil, err
		}
		f.logger.Debug("parsed SCPD",
			zap.String("serviceType", sb.ServiceType),
			zap.Int("actions", len(sb.Actions)),
			zap.Int("stateVariables", len(sb.StateVariables)),
		)
	}

	return deviceBuilder, nil
}

func collectServices(db *model.DeviceBuilder) []*model.ServiceBuilder {
	var out []*model.ServiceBuilder
	out = append(out, db.Services...)
	for _, child := range db.Children {
		out = append(out, collectServices(child)...)
	}
	return out
}
