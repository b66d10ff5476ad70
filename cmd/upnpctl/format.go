package main

import (
	"encoding/json"
	"fmt"

	"github.com/nyxio/upnpcp/pkg/upnp"
)

// deviceSummary is the JSON-friendly shape printed by --format json.
type deviceSummary struct {
	UDN          string           `json:"udn"`
	FriendlyName string           `json:"friendlyName"`
	DeviceType   string           `json:"deviceType"`
	Manufacturer string           `json:"manufacturer,omitempty"`
	ModelName    string           `json:"modelName,omitempty"`
	Services     []serviceSummary `json:"services,omitempty"`
	Children     []deviceSummary  `json:"children,omitempty"`
}

type serviceSummary struct {
	ServiceID   string   `json:"serviceId"`
	ServiceType string   `json:"serviceType"`
	Actions     []string `json:"actions,omitempty"`
	Subscribed  bool     `json:"subscribed"`
}

func summarize(d *upnp.Device) deviceSummary {
	s := deviceSummary{
		UDN:          d.UDN(),
		FriendlyName: d.FriendlyName(),
		DeviceType:   d.DeviceType(),
		Manufacturer: d.Manufacturer(),
		ModelName:    d.ModelName(),
	}
	for _, svc := range d.Services() {
		var actions []string
		for name := range svc.Actions() {
			actions = append(actions, name)
		}
		s.Services = append(s.Services, serviceSummary{
			ServiceID:   svc.ServiceID(),
			ServiceType: svc.ServiceType(),
			Actions:     actions,
			Subscribed:  svc.Subscription() != nil,
		})
	}
	for _, child := range d.Children() {
		s.Children = append(s.Children, summarize(child))
	}
	return s
}

func printDevices(devices []*upnp.Device, format string) error {
	if format == "json" {
		summaries := make([]deviceSummary, 0, len(devices))
		for _, d := range devices {
			summaries = append(summaries, summarize(d))
		}
		data, err := json.MarshalIndent(summaries, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}
	for _, d := range devices {
		printDeviceTree(d, 0)
	}
	return nil
}

func printDeviceTree(d *upnp.Device, depth int) {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	name := d.FriendlyName()
	if name == "" {
		name = d.UDN()
	}
	fmt.Printf("%s%s\n", indent, name)
	fmt.Printf("%s  UDN:  %s\n", indent, d.UDN())
	fmt.Printf("%s  Type: %s\n", indent, d.DeviceType())
	if d.Manufacturer() != "" || d.ModelName() != "" {
		fmt.Printf("%s  Model: %s %s\n", indent, d.Manufacturer(), d.ModelName())
	}
	for _, svc := range d.Services() {
		printServiceSummary(svc, depth+1)
	}
	for _, child := range d.Children() {
		printDeviceTree(child, depth+1)
	}
}

func printServiceSummary(svc *upnp.Service, depth int) {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	status := ""
	if svc.Subscription() != nil {
		status = " [subscribed]"
	}
	fmt.Printf("%s- %s (%s)%s\n", indent, svc.ServiceID(), svc.ServiceType(), status)
	for name := range svc.Actions() {
		fmt.Printf("%s    %s()\n", indent, name)
	}
}
