package dao

// Parameter represents a List criterion; Value is a string, a []string of
// alternatives or a bool flag
type Parameter struct {
	Name  string
	Value interface{}
}

// NewParameter creates a criterion matching any of the values
func NewParameter(name string, values ...string) *Parameter {
	ret := &Parameter{Name: name}
	switch len(values) {
	case 1:
		ret.Value = values[0]
	default:
		ret.Value = values
	}
	return ret
}

// NewFlag creates a boolean criterion
func NewFlag(name string, value bool) *Parameter {
	return &Parameter{Name: name, Value: value}
}
