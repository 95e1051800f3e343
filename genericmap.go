package carpet

import (
	"fmt"
	"reflect"
	"strings"
)

// RecordMap is the bag-flavor generic view of a group (spec §4.4.7): an
// ordered, immutable name→value view used whenever a target has no concrete
// Go struct to build into — notably, descriptors built through Builder have
// no GoType, so reading them always produces a RecordMap instead of a
// reflect-constructed struct.
type RecordMap struct {
	names  []string
	values []any
}

func newRecordMap(descriptor *RecordDescriptor, slots []any) *RecordMap {
	names := make([]string, len(descriptor.Fields))
	values := make([]any, len(slots))
	for i, fd := range descriptor.Fields {
		names[i] = fd.Name
	}
	copy(values, slots)
	return &RecordMap{names: names, values: values}
}

// Get returns the value stored under name and whether that column exists at
// all (a present-but-null column returns ok=true, value=nil).
func (m *RecordMap) Get(name string) (any, bool) {
	for i, n := range m.names {
		if n == name {
			return m.values[i], true
		}
	}
	return nil, false
}

// Keys returns the column names in schema-declared order (spec §8.3 S8).
func (m *RecordMap) Keys() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Len returns the number of columns.
func (m *RecordMap) Len() int { return len(m.names) }

// Entries returns the ordered name/value pairs.
func (m *RecordMap) Entries() []genericMapEntry {
	out := make([]genericMapEntry, len(m.names))
	for i := range m.names {
		out[i] = genericMapEntry{Key: m.names[i], Value: m.values[i]}
	}
	return out
}

// Equal reports whether m and other carry the same names and values in the
// same order.
func (m *RecordMap) Equal(other *RecordMap) bool {
	if other == nil || len(m.names) != len(other.names) {
		return false
	}
	for i := range m.names {
		if m.names[i] != other.names[i] || !reflect.DeepEqual(m.values[i], other.values[i]) {
			return false
		}
	}
	return true
}

func (m *RecordMap) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, n := range m.names {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%v", n, m.values[i])
	}
	b.WriteByte('}')
	return b.String()
}

// IntoMap is the chosen-container flavor (spec §4.4.7): it populates a
// caller-supplied concrete Go map type (e.g. map[string]int32) by column
// name, converting each stored value to the map's declared element type.
func (m *RecordMap) IntoMap(mapType reflect.Type) (reflect.Value, error) {
	if mapType.Kind() != reflect.Map || mapType.Key().Kind() != reflect.String {
		return reflect.Value{}, newConversionError("IntoMap requires a map[string]T type")
	}
	out := reflect.MakeMapWithSize(mapType, len(m.names))
	for i, name := range m.names {
		key := reflect.ValueOf(name)
		if m.values[i] == nil {
			out.SetMapIndex(key, reflect.Zero(mapType.Elem()))
			continue
		}
		val := reflect.ValueOf(m.values[i])
		if !val.Type().AssignableTo(mapType.Elem()) {
			if !val.Type().ConvertibleTo(mapType.Elem()) {
				return reflect.Value{}, errNotCompatible(name, val.Type().String(), mapType.Elem().String())
			}
			val = val.Convert(mapType.Elem())
		}
		out.SetMapIndex(key, val)
	}
	return out, nil
}
