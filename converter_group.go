package carpet

import "reflect"

// groupConverter is the per-row argument-vector accumulator (spec §4.4.1,
// §4.4.2): Start() clears the slots, child converters call set(i, v) as
// values arrive, End() constructs the target record and reports it upward.
type groupConverter struct {
	descriptor *RecordDescriptor
	children   []Converter
	slots      []any
	assignSelf func(any)
}

func (*groupConverter) isConverter() {}

func (g *groupConverter) GetConverter(i int) Converter { return g.children[i] }

func (g *groupConverter) Start() {
	for i := range g.slots {
		g.slots[i] = nil
	}
}

func (g *groupConverter) End() {
	record := buildRecord(g.descriptor, g.slots)
	g.assignSelf(record)
}

func (g *groupConverter) set(i int, v any) { g.slots[i] = v }

// buildRecord constructs the Go value for descriptor out of slots, indexed
// the same way descriptor.Fields is. When descriptor.GoType is nil (a
// programmatic, builder-only descriptor has no Go struct to target) the
// result is a RecordMap instead (see genericmap.go).
func buildRecord(descriptor *RecordDescriptor, slots []any) any {
	if descriptor.GoType == nil {
		return newRecordMap(descriptor, slots)
	}

	out := reflect.New(descriptor.GoType).Elem()
	for i, fd := range descriptor.Fields {
		if fd.GoIndex == nil || slots[i] == nil {
			continue
		}
		assignField(out.FieldByIndex(fd.GoIndex), fd.Type, slots[i])
	}
	return out.Interface()
}

// assignField stores decoded value v (already in its natural Go carrier
// type, e.g. int32, string, Decimal, a []T slice, a map, or a nested struct
// value) into target, wrapping in a pointer first when target's static type
// is a pointer (spec §4.1.1 nullable-by-pointer convention).
func assignField(target reflect.Value, ft FieldType, v any) {
	switch payload := v.(type) {
	case *genericList:
		assignList(target, *ft.Element, payload)
		return
	case *genericMapEntries:
		assignMap(target, *ft.MapKey, *ft.MapValue, payload)
		return
	}

	rv := reflect.ValueOf(v)
	if target.Kind() == reflect.Pointer {
		if !rv.Type().AssignableTo(target.Type().Elem()) {
			rv = rv.Convert(target.Type().Elem())
		}
		ptr := reflect.New(target.Type().Elem())
		ptr.Elem().Set(rv)
		target.Set(ptr)
		return
	}
	if !rv.Type().AssignableTo(target.Type()) {
		rv = rv.Convert(target.Type())
	}
	target.Set(rv)
}

// assignList materializes a decoded genericList into target's concrete Go
// slice type (a plain []T for List, or a Set[T] for Set — both have
// reflect.Kind Slice, so the same construction serves either container
// flavor chosen by the record's own declared field type).
func assignList(target reflect.Value, elementType FieldType, payload *genericList) {
	out := reflect.MakeSlice(target.Type(), len(payload.elements), len(payload.elements))
	for i, e := range payload.elements {
		if e == nil {
			continue // null element (THREE-level only): leave the zero value
		}
		assignField(out.Index(i), elementType, e)
	}
	target.Set(out)
}

// assignMap materializes a decoded genericMapEntries into target's concrete
// Go map type.
func assignMap(target reflect.Value, keyType, valueType FieldType, payload *genericMapEntries) {
	out := reflect.MakeMapWithSize(target.Type(), len(payload.entries))
	for _, entry := range payload.entries {
		if entry.Key == nil {
			continue
		}
		keySlot := reflect.New(target.Type().Key()).Elem()
		assignField(keySlot, keyType, entry.Key)

		valueSlot := reflect.New(target.Type().Elem()).Elem()
		if entry.Value != nil {
			assignField(valueSlot, valueType, entry.Value)
		}
		out.SetMapIndex(keySlot, valueSlot)
	}
	target.Set(out)
}

// BuildGroupConverter builds the converter tree rooted at schema, targeting
// descriptor, reporting the finished record to assignSelf on End() (spec
// §4.4.1). schema's children are matched against descriptor.Fields by name;
// a schema field absent from the descriptor fails with "no matching
// component" (§7).
func BuildGroupConverter(schema *Node, descriptor *RecordDescriptor, cfg *Config, assignSelf func(any)) (GroupConverter, error) {
	g := &groupConverter{descriptor: descriptor, slots: make([]any, len(descriptor.Fields))}
	g.children = make([]Converter, len(schema.Children))

	for i, child := range schema.Children {
		idx := descriptor.FieldIndex(child.Name)
		if idx < 0 {
			return nil, errNoMatchingComponent(child.Name)
		}
		fd := descriptor.Fields[idx]
		slot := idx

		conv, err := buildChildConverter(child, fd.Type, cfg, func(v any) { g.set(slot, v) })
		if err != nil {
			return nil, err
		}
		g.children[i] = conv
	}
	return g, nil
}

func buildChildConverter(node *Node, ft FieldType, cfg *Config, assign func(any)) (Converter, error) {
	switch {
	case node.Repetition == Repeated && ft.isCollection() && (node.Logical == nil || node.Logical.Kind != LogicalList):
		return buildRepeatedConverter(node, *ft.Element, cfg, assign)

	case ft.Kind == KindList || ft.Kind == KindSet:
		return buildListConverter(node, *ft.Element, ft.Kind == KindSet, cfg, assign)

	case ft.Kind == KindMap:
		return buildMapConverter(node, *ft.MapKey, *ft.MapValue, cfg, assign)

	case ft.Kind == KindRecordRef:
		return BuildGroupConverter(node, ft.Record, cfg, assign)

	case node.IsLeaf():
		return compileLeafConverter(node.Name, node, ft, cfg, assign)

	default:
		return nil, errUnsupportedType(node.Name, ft.Kind.String())
	}
}
