package model

// Action is owned by a Service and immutable once built.
type Action struct {
	name      string
	arguments []*Argument
}

func (a *Action) Name() string          { return a.name }
func (a *Action) Arguments() []*Argument { return a.arguments }

// InArguments returns the Action's arguments with Direction in, in
// declared order — the order the Action invoker fills from the caller's
// argument map.
func (a *Action) InArguments() []*Argument {
	var out []*Argument
	for _, arg := range a.arguments {
		if arg.direction == DirectionIn {
			out = append(out, arg)
		}
	}
	return out
}

// ActionBuilder is the construction-time config for an Action.
type ActionBuilder struct {
	Name      string
	Arguments []*ArgumentBuilder
}

func (b *ActionBuilder) build(stateVariables map[string]*StateVariable) (*Action, error) {
	if b.Name == "" {
		return nil, &BuildError{Entity: "Action", Reason: "missing name"}
	}
	args := make([]*Argument, 0, len(b.Arguments))
	for _, ab := range b.Arguments {
		arg, err := ab.build(stateVariables)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return &Action{name: b.Name, arguments: args}, nil
}
