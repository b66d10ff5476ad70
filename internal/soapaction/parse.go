package soapaction

import "encoding/xml"

// xmlNode is a namespace-tolerant generic XML tree: it matches elements
// by local name regardless of prefix or namespace URI, which UPnP
// devices are inconsistent about (the `u:` binding on the action
// response element in particular).
type xmlNode struct {
	XMLName  xml.Name
	Content  string    `xml:",chardata"`
	Children []xmlNode `xml:",any"`
}

func (n *xmlNode) child(local string) *xmlNode {
	for i := range n.Children {
		if n.Children[i].XMLName.Local == local {
			return &n.Children[i]
		}
	}
	return nil
}

// parseSuccess reads a 200 response body per spec.md §4.6 step 4: every
// child of <ActionNameResponse> becomes a result entry keyed by its
// local name, values not declared by the action's OUT arguments included
// as-is.
func parseSuccess(body []byte, actionName string) (map[string]string, error) {
	var envelope xmlNode
	if err := xml.Unmarshal(body, &envelope); err != nil {
		return nil, &ResponseError{Reason: "response: " + err.Error()}
	}
	respBody := envelope.child("Body")
	if respBody == nil {
		return nil, &ResponseError{Reason: "response missing Body"}
	}
	action := respBody.child(actionName + "Response")
	if action == nil {
		return nil, &ResponseError{Reason: "response missing " + actionName + "Response"}
	}
	result := make(map[string]string, len(action.Children))
	for _, c := range action.Children {
		result[c.XMLName.Local] = c.Content
	}
	return result, nil
}

// parseFault reads a 500 Fault body per spec.md §4.6 step 5, collecting
// faultcode, faultstring, and every detail/UPnPError child as
// "UPnPError/<childLocalName>". A Fault with no UPnPError/errorCode is
// malformed.
func parseFault(body []byte) (map[string]string, error) {
	var envelope xmlNode
	if err := xml.Unmarshal(body, &envelope); err != nil {
		return nil, &ResponseError{Reason: "fault: " + err.Error()}
	}
	faultBody := envelope.child("Body")
	if faultBody == nil {
		return nil, &ResponseError{Reason: "fault missing Body"}
	}
	fault := faultBody.child("Fault")
	if fault == nil {
		return nil, &ResponseError{Reason: "fault missing Fault"}
	}

	fields := make(map[string]string)
	if fc := fault.child("faultcode"); fc != nil {
		fields["faultcode"] = fc.Content
	}
	if fs := fault.child("faultstring"); fs != nil {
		fields["faultstring"] = fs.Content
	}
	if detail := fault.child("detail"); detail != nil {
		if upnpErr := detail.child("UPnPError"); upnpErr != nil {
			for _, c := range upnpErr.Children {
				fields["UPnPError/"+c.XMLName.Local] = c.Content
			}
		}
	}

	if _, ok := fields["UPnPError/errorCode"]; !ok {
		return nil, &ResponseError{Reason: "fault missing UPnPError/errorCode"}
	}
	return fields, nil
}
