package model

// AllowedRange is a StateVariable's optional {minimum, maximum, step}
// constraint, carried as declared (string-typed, per spec — the core
// never validates values against it).
type AllowedRange struct {
	Minimum string
	Maximum string
	Step    string
}

// StateVariable is owned by a Service and immutable once built.
type StateVariable struct {
	name          string
	dataType      string
	sendEvents    bool
	defaultValue  *string
	allowedValues []string
	allowedRange  *AllowedRange
}

func (v *StateVariable) Name() string             { return v.name }
func (v *StateVariable) DataType() string          { return v.dataType }
func (v *StateVariable) SendEvents() bool          { return v.sendEvents }
func (v *StateVariable) DefaultValue() (string, bool) {
	if v.defaultValue == nil {
		return "", false
	}
	return *v.defaultValue, true
}
func (v *StateVariable) AllowedValues() []string   { return v.allowedValues }
func (v *StateVariable) AllowedRange() *AllowedRange { return v.allowedRange }

// StateVariableBuilder is the construction-time config for a
// StateVariable; Build validates that Name is set.
type StateVariableBuilder struct {
	Name          string
	DataType      string
	SendEvents    bool
	DefaultValue  *string
	AllowedValues []string
	AllowedRange  *AllowedRange
}

func (b *StateVariableBuilder) Build() (*StateVariable, error) {
	if b.Name == "" {
		return nil, &BuildError{Entity: "StateVariable", Reason: "missing name"}
	}
	return &StateVariable{
		name:          b.Name,
		dataType:      b.DataType,
		sendEvents:    b.SendEvents,
		defaultValue:  b.DefaultValue,
		allowedValues: b.AllowedValues,
		allowedRange:  b.AllowedRange,
	}, nil
}
