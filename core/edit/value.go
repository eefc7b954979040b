package edit

import (
	"reflect"
	"time"

	"map-editor/core/utils"
)

// DifferentValues is displayed for batch fields whose values differ.
const DifferentValues = "(Different values)"

// Yes and No render boolean attribute values.
const (
	Yes = "Yes"
	No  = "No"
)

// FormatValue renders an attribute value for display.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case bool:
		if x {
			return Yes
		}
		return No
	case time.Time:
		return x.Format(utils.TimestampLayout)
	case *time.Time:
		if x == nil {
			return ""
		}
		return x.Format(utils.TimestampLayout)
	default:
		return utils.ToString(v)
	}
}

// ValuesEqual compares attribute values. Numbers compare numerically so that
// an int written by a form equals the float64 decoded from JSON.
func ValuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if utils.IsNumber(a) && utils.IsNumber(b) {
		return utils.ToFloat(a) == utils.ToFloat(b)
	}
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Equal(tb)
		}
	}
	return reflect.DeepEqual(a, b)
}

// values is a map that remembers insertion order.
type values struct {
	order []string
	m     map[string]any
}

func newValues() *values {
	return &values{m: make(map[string]any)}
}

func (v *values) set(name string, val any) {
	if _, ok := v.m[name]; !ok {
		v.order = append(v.order, name)
	}
	v.m[name] = val
}

func (v *values) get(name string) (any, bool) {
	val, ok := v.m[name]
	return val, ok
}

func (v *values) remove(name string) {
	if _, ok := v.m[name]; !ok {
		return
	}
	delete(v.m, name)
	for i, n := range v.order {
		if n == name {
			v.order = append(v.order[:i], v.order[i+1:]...)
			break
		}
	}
}

func (v *values) len() int {
	return len(v.order)
}

func (v *values) keys() []string {
	return append([]string(nil), v.order...)
}

func (v *values) toMap() map[string]any {
	out := make(map[string]any, len(v.m))
	for k, val := range v.m {
		out[k] = val
	}
	return out
}

// fieldErrors is the externally populated validation message map.
type fieldErrors map[string]string

func (e fieldErrors) copy() map[string]string {
	out := make(map[string]string, len(e))
	for k, msg := range e {
		out[k] = msg
	}
	return out
}
