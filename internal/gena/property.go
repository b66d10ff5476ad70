package gena

import "encoding/xml"

// Property is one (name, value) pair from a propertyset body, in
// document order.
type Property struct {
	Name  string
	Value string
}

type propertySetXML struct {
	XMLName    xml.Name      `xml:"propertyset"`
	Properties []propertyXML `xml:"property"`
}

type propertyXML struct {
	Value []struct {
		XMLName xml.Name
		Content string `xml:",chardata"`
	} `xml:",any"`
}

// parsePropertySet decodes a GENA event body into its ordered Property
// list per spec.md §4.4: each <e:property> wraps exactly one element
// whose local name is the property name and text is its value. Element
// and attribute namespaces are ignored beyond local-name matching,
// matching Go's default unprefixed xml tag behavior.
func parsePropertySet(body []byte) ([]Property, error) {
	var set propertySetXML
	if err := xml.Unmarshal(body, &set); err != nil {
		return nil, &MalformedNotifyError{Reason: "propertyset: " + err.Error()}
	}

	props := make([]Property, 0, len(set.Properties))
	for _, p := range set.Properties {
		if len(p.Value) == 0 {
			continue
		}
		props = append(props, Property{Name: p.Value[0].XMLName.Local, Value: p.Value[0].Content})
	}
	return props, nil
}
