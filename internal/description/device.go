package description

import (
	"encoding/xml"
	"net/url"

	"go.uber.org/zap"

	"github.com/nyxio/upnpcp/internal/logging"
	"github.com/nyxio/upnpcp/internal/model"
)

// ParseDevice decodes a device description document and builds the
// (still SCPD-incomplete) DeviceBuilder tree: every declared Service
// carries resolved URLs but no Actions/StateVariables yet, since those
// come from a separate SCPD fetch per Service. location is the URL the
// document was fetched from, used as the base for relative URLs when
// the document has no <URLBase>. logger may be nil.
func ParseDevice(body []byte, location *url.URL, logger logging.Logger) (*model.DeviceBuilder, error) {
	if logger == nil {
		logger = logging.Nop()
	}

	var root xmlRoot
	if err := xml.Unmarshal(body, &root); err != nil {
		return nil, &ParseError{Reason: "device description: " + err.Error()}
	}

	base := location
	if root.URLBase != "" {
		resolved, err := resolveURL(location, root.URLBase)
		if err != nil {
			return nil, &ParseError{Reason: "device description: invalid URLBase: " + err.Error()}
		}
		base = resolved
	}

	return buildDeviceTree(root.Device, base, logger)
}

func buildDeviceTree(xd xmlDevice, base *url.URL, logger logging.Logger) (*model.DeviceBuilder, error) {
	db := &model.DeviceBuilder{
		UDN:          xd.UDN,
		URLBase:      base,
		FriendlyName: xd.FriendlyName,
		Manufacturer: xd.Manufacturer,
		ModelName:    xd.ModelName,
		DeviceType:   xd.DeviceType,
	}

	for _, xi := range xd.Icons {
		iconURL, err := resolveURL(base, xi.URL)
		if err != nil {
			logger.Warn("skipping icon with unresolvable url",
				zap.String("udn", xd.UDN),
				zap.String("url", xi.URL),
				zap.Error(err),
			)
			continue
		}
		db.Icons = append(db.Icons, model.Icon{
			Mimetype: xi.Mimetype,
			Width:    xi.Width,
			Height:   xi.Height,
			Depth:    xi.Depth,
			URL:      iconURL,
		})
	}

	for _, xs := range xd.Services {
		sb, err := buildServiceStub(xs, base)
		if err != nil {
			return nil, err
		}
		db.Services = append(db.Services, sb)
	}

	for _, xc := range xd.Devices {
		child, err := buildDeviceTree(xc, base, logger)
		if err != nil {
			return nil, err
		}
		db.Children = append(db.Children, child)
	}

	return db, nil
}

func buildServiceStub(xs xmlService, base *url.URL) (*model.ServiceBuilder, error) {
	if xs.ServiceType == "" || xs.ServiceID == "" || xs.SCPDURL == "" || xs.ControlURL == "" || xs.EventSubURL == "" {
		return nil, &ParseError{Reason: "service missing a required field (serviceType/serviceId/SCPDURL/controlURL/eventSubURL)"}
	}

	scpdURL, err := resolveURL(base, xs.SCPDURL)
	if err != nil {
		return nil, &ParseError{Reason: "invalid SCPDURL: " + err.Error()}
	}
	controlURL, err := resolveURL(base, xs.ControlURL)
	if err != nil {
		return nil, &ParseError{Reason: "invalid controlURL: " + err.Error()}
	}
	eventSubURL, err := resolveURL(base, xs.EventSubURL)
	if err != nil {
		return nil, &ParseError{Reason: "invalid eventSubURL: " + err.Error()}
	}

	return &model.ServiceBuilder{
		ServiceType: xs.ServiceType,
		ServiceID:   xs.ServiceID,
		SCPDURL:     scpdURL,
		ControlURL:  controlURL,
		EventSubURL: eventSubURL,
	}, nil
}

// resolveURL resolves raw against base per RFC 3986 (standard library
// url.ResolveReference already implements this).
func resolveURL(base *url.URL, raw string) (*url.URL, error) {
	ref, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if base == nil {
		return ref, nil
	}
	return base.ResolveReference(ref), nil
}
