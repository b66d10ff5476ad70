package description

import (
	"encoding/xml"
	"strings"

	"github.com/nyxio/upnpcp/internal/model"
)

// ParseSCPD decodes an SCPD document into the Actions/StateVariables a
// ServiceBuilder needs, and fills sb in place.
func ParseSCPD(sb *model.ServiceBuilder, body []byte) error {
	var scpd xmlSCPD
	if err := xml.Unmarshal(body, &scpd); err != nil {
		return &ParseError{Reason: "SCPD: " + err.Error()}
	}

	for _, xv := range scpd.StateVariables {
		if xv.Name == "" {
			return &ParseError{Reason: "SCPD: stateVariable missing name"}
		}
		svb := &model.StateVariableBuilder{
			Name:          xv.Name,
			DataType:      xv.DataType,
			SendEvents:    !strings.EqualFold(xv.SendEvents, "no"),
			DefaultValue:  xv.DefaultValue,
			AllowedValues: xv.AllowedValueList,
		}
		if xv.AllowedValueRange != nil {
			svb.AllowedRange = &model.AllowedRange{
				Minimum: xv.AllowedValueRange.Minimum,
				Maximum: xv.AllowedValueRange.Maximum,
				Step:    xv.AllowedValueRange.Step,
			}
		}
		sb.StateVariables = append(sb.StateVariables, svb)
	}

	for _, xa := range scpd.Actions {
		if xa.Name == "" {
			return &ParseError{Reason: "SCPD: action missing name"}
		}
		ab := &model.ActionBuilder{Name: xa.Name}
		for _, xarg := range xa.Arguments {
			dir := model.DirectionIn
			if strings.EqualFold(xarg.Direction, "out") {
				dir = model.DirectionOut
			}
			ab.Arguments = append(ab.Arguments, &model.ArgumentBuilder{
				Name:                     xarg.Name,
				Direction:                dir,
				RelatedStateVariableName: xarg.RelatedStateVariable,
			})
		}
		sb.Actions = append(sb.Actions, ab)
	}

	return nil
}
