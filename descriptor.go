package carpet

import "reflect"

// Accessor reads a single field's value out of a record instance. The
// argument is always a reflect.Value of the record's static Go type (or, for
// the generic-map write path, a reflect.Value holding a map); the result is
// the field's value, possibly the zero Value to signal "absent".
//
// Accessor is intentionally the most general shape (spec §4.1.2 calls these
// "opaque callables"); the reflective front-end in reflectdescriptor.go
// builds Accessors that read a named struct field without per-call
// reflection overhead beyond what reflect.Value.FieldByIndex costs.
type Accessor func(record reflect.Value) reflect.Value

// FieldDescriptor is one entry of a RecordDescriptor: a Parquet column name,
// its FieldType, and the accessor that reads it off a record instance.
type FieldDescriptor struct {
	Name     string
	Type     FieldType
	Accessor Accessor

	// GoIndex is the struct-field index path used to assign a decoded value
	// back onto a freshly constructed Go value on the read path (mirrors the
	// index path cachedFieldAccessor uses to read it). Set only by the
	// reflective front-end; nil for descriptors built through Builder, whose
	// read path falls back to a RecordMap (see genericmap.go).
	GoIndex []int
}

// RecordDescriptor is an ordered sequence of named, typed fields with
// accessors (spec §3). It is the common currency produced by both front-ends
// in §4.1 and consumed by schema derivation (§4.2) and the writer compiler
// (§4.3).
type RecordDescriptor struct {
	// Name is the short type name used as the root MessageType name.
	Name   string
	Fields []FieldDescriptor

	// GoType is set by the reflective front-end; it is nil for descriptors
	// built purely through the programmatic builder. The read path uses it
	// to construct the target struct (buildRecord); when it is nil, reads
	// produce a RecordMap instead. Schema derivation and the writer never
	// use it.
	GoType reflect.Type
}

// FieldIndex returns the position of name in Fields, or -1.
func (d *RecordDescriptor) FieldIndex(name string) int {
	for i := range d.Fields {
		if d.Fields[i].Name == name {
			return i
		}
	}
	return -1
}

// Builder is the programmatic front-end (spec §4.1.2): it constructs a
// RecordDescriptor without any reflection on the target record type,
// suitable for zero-reflection deployments (spec §9, design note on
// reflection for accessors).
type Builder struct {
	name     string
	fields   []FieldDescriptor
	names    map[string]bool
	fieldIDs map[int]bool
}

// NewBuilder starts a programmatic descriptor for a record named name (used
// as the root MessageType name).
func NewBuilder(name string) *Builder {
	return &Builder{
		name:     name,
		names:    make(map[string]bool),
		fieldIDs: make(map[int]bool),
	}
}

// WithField appends a field. It panics if name or an explicit FieldID
// collides with a field already added — duplicate names/ids are a build-time
// programmer error (spec §3 invariants, §8.1 property 7), not a deferred one.
func (b *Builder) WithField(name string, typ FieldType, accessor Accessor) *Builder {
	if b.names[name] {
		panic(errDuplicateFieldName(name))
	}
	if typ.FieldID != nil {
		if b.fieldIDs[*typ.FieldID] {
			panic(errDuplicateFieldID(*typ.FieldID))
		}
		b.fieldIDs[*typ.FieldID] = true
	}
	b.names[name] = true
	b.fields = append(b.fields, FieldDescriptor{Name: name, Type: typ, Accessor: accessor})
	return b
}

// Primitive-specialized overloads: they let callers hand in a closure with
// a concrete signature (value plus a present flag) instead of one returning
// reflect.Value. wrapPrimitiveAccessor adapts each such closure into a plain
// Accessor, so the writer compiler sees it like any other Accessor: every
// value still passes through reflect.ValueOf on the write path, and these
// overloads do not avoid that boxing.

type Int32Accessor func(record reflect.Value) (int32, bool)
type Int64Accessor func(record reflect.Value) (int64, bool)
type Float64Accessor func(record reflect.Value) (float64, bool)
type BoolAccessor func(record reflect.Value) (bool, bool)

func (b *Builder) WithInt32Field(name string, nullable bool, fn Int32Accessor) *Builder {
	typ := Int32Type()
	typ.Nullable = nullable
	return b.WithField(name, typ, wrapPrimitiveAccessor(func(r reflect.Value) (any, bool) { return fn(r) }))
}

func (b *Builder) WithInt64Field(name string, nullable bool, fn Int64Accessor) *Builder {
	typ := Int64Type()
	typ.Nullable = nullable
	return b.WithField(name, typ, wrapPrimitiveAccessor(func(r reflect.Value) (any, bool) { return fn(r) }))
}

func (b *Builder) WithFloat64Field(name string, nullable bool, fn Float64Accessor) *Builder {
	typ := Float64Type()
	typ.Nullable = nullable
	return b.WithField(name, typ, wrapPrimitiveAccessor(func(r reflect.Value) (any, bool) { return fn(r) }))
}

func (b *Builder) WithBoolField(name string, nullable bool, fn BoolAccessor) *Builder {
	typ := BoolType()
	typ.Nullable = nullable
	return b.WithField(name, typ, wrapPrimitiveAccessor(func(r reflect.Value) (any, bool) { return fn(r) }))
}

func wrapPrimitiveAccessor(fn func(reflect.Value) (any, bool)) Accessor {
	return func(record reflect.Value) reflect.Value {
		v, ok := fn(record)
		if !ok {
			return reflect.Value{}
		}
		return reflect.ValueOf(v)
	}
}

// Build finalizes the descriptor.
func (b *Builder) Build() *RecordDescriptor {
	fields := make([]FieldDescriptor, len(b.fields))
	copy(fields, b.fields)
	return &RecordDescriptor{Name: b.name, Fields: fields}
}
