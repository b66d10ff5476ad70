package soapaction

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/nyxio/upnpcp/internal/model"
)

// resolveArgs builds the ordered IN-argument value list per spec.md
// §4.6 step 1: caller-supplied value, else the related StateVariable's
// defaultValue, else empty string.
func resolveArgs(action *model.Action, args map[string]string) []struct{ Name, Value string } {
	in := action.InArguments()
	out := make([]struct{ Name, Value string }, 0, len(in))
	for _, arg := range in {
		value, ok := args[arg.Name()]
		if !ok {
			if def, hasDefault := arg.RelatedStateVariable().DefaultValue(); hasDefault {
				value = def
			}
		}
		out = append(out, struct{ Name, Value string }{Name: arg.Name(), Value: value})
	}
	return out
}

// buildEnvelope renders the SOAP request envelope described in spec.md
// §4.6: UTF-8, no XML declaration, argument values XML-escaped.
func buildEnvelope(serviceType, actionName string, values []struct{ Name, Value string }) []byte {
	var body bytes.Buffer
	fmt.Fprintf(&body, `<u:%s xmlns:u="%s">`, actionName, serviceType)
	for _, v := range values {
		body.WriteByte('<')
		body.WriteString(v.Name)
		body.WriteByte('>')
		xml.EscapeText(&body, []byte(v.Value))
		body.WriteString("</")
		body.WriteString(v.Name)
		body.WriteByte('>')
	}
	fmt.Fprintf(&body, `</u:%s>`, actionName)

	var envelope bytes.Buffer
	envelope.WriteString(`<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/" s:encodingStyle="http://schemas.xmlsoap.org/soap/encoding/">`)
	envelope.WriteString("<s:Body>")
	envelope.Write(body.Bytes())
	envelope.WriteString("</s:Body></s:Envelope>")
	return envelope.Bytes()
}
