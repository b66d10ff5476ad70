package description

import "encoding/xml"

type xmlRoot struct {
	XMLName xml.Name  `xml:"root"`
	URLBase string    `xml:"URLBase"`
	Device  xmlDevice `xml:"device"`
}

type xmlDevice struct {
	DeviceType   string       `xml:"deviceType"`
	FriendlyName string       `xml:"friendlyName"`
	Manufacturer string       `xml:"manufacturer"`
	ModelName    string       `xml:"modelName"`
	UDN          string       `xml:"UDN"`
	Icons        []xmlIcon    `xml:"iconList>icon"`
	Services     []xmlService `xml:"serviceList>service"`
	Devices      []xmlDevice  `xml:"deviceList>device"`
}

type xmlIcon struct {
	Mimetype string `xml:"mimetype"`
	Width    int    `xml:"width"`
	Height   int    `xml:"height"`
	Depth    int    `xml:"depth"`
	URL      string `xml:"url"`
}

type xmlService struct {
	ServiceType string `xml:"serviceType"`
	ServiceID   string `xml:"serviceId"`
	SCPDURL     string `xml:"SCPDURL"`
	ControlURL  string `xml:"controlURL"`
	EventSubURL string `xml:"eventSubURL"`
}

type xmlSCPD struct {
	XMLName        xml.Name           `xml:"scpd"`
	Actions        []xmlAction        `xml:"actionList>action"`
	StateVariables []xmlStateVariable `xml:"serviceStateTable>stateVariable"`
}

type xmlAction struct {
	Name      string        `xml:"name"`
	Arguments []xmlArgument `xml:"argumentList>argument"`
}

type xmlArgument struct {
	Name                 string `xml:"name"`
	Direction            string `xml:"direction"`
	RelatedStateVariable string `xml:"relatedStateVariable"`
}

type xmlStateVariable struct {
	SendEvents        string   `xml:"sendEvents,attr"`
	Name              string   `xml:"name"`
	DataType          string   `xml:"dataType"`
	DefaultValue      *string  `xml:"defaultValue"`
	AllowedValueList  []string `xml:"allowedValueList>allowedValue"`
	AllowedValueRange *struct {
		Minimum string `xml:"minimum"`
		Maximum string `xml:"maximum"`
		Step    string `xml:"step"`
	} `xml:"allowedValueRange"`
}
