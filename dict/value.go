package dict

// Value is either a string or a nested *Dict. The zero Value is the
// empty string.
type Value struct {
	str    string
	nested *Dict
	isDict bool
}

// String wraps a plain string value.
func String(s string) Value {
	return Value{str: s}
}

// Nested wraps a nested dictionary value.
func Nested(d *Dict) Value {
	return Value{nested: d, isDict: true}
}

// IsDict reports whether the value holds a nested dictionary.
func (v Value) IsDict() bool {
	return v.isDict
}

// AsString returns the string form of the value. Nested dictionaries
// return "" — use AsDict to access them.
func (v Value) AsString() string {
	if v.isDict {
		return ""
	}
	return v.str
}

// AsDict returns the nested dictionary, or nil if the value is a
// plain string.
func (v Value) AsDict() *Dict {
	if !v.isDict {
		return nil
	}
	return v.nested
}
