package carpet

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

var (
	decimalType       = reflect.TypeOf(Decimal{})
	dateOnlyType      = reflect.TypeOf(DateOnly(0))
	timeOfDayType     = reflect.TypeOf(TimeOfDay(0))
	localDateTimeType = reflect.TypeOf(LocalDateTime{})
	timeTimeType      = reflect.TypeOf(time.Time{})
	uuidType          = reflect.TypeOf(uuid.UUID{})
	byteSliceType     = reflect.TypeOf([]byte(nil))

	// Well-known protobuf message types (github.com/jerolba/carpet-go/carpetproto
	// targets protoc-gen-go structs through this same reflective front-end,
	// the way the teacher's schema_protobuf.go sits beside schema.go). Carpet
	// writes these the way column_buffer_proto.go's writeProtoTimestamp/
	// writeProtoDuration/writeProtoStruct do. Support is write-only: the read
	// path does not convert column values back into these three types.
	protoTimestampType = reflect.TypeOf(timestamppb.Timestamp{})
	protoDurationType  = reflect.TypeOf(durationpb.Duration{})
	protoStructType    = reflect.TypeOf(structpb.Struct{})
)

// DescriptorOf builds a RecordDescriptor from a Go struct type via
// reflection (spec §4.1.1). typ may be a struct type or a pointer to one.
func DescriptorOf(typ reflect.Type, cfg *Config) (*RecordDescriptor, error) {
	return descriptorOf(typ, cfg, map[reflect.Type]bool{})
}

func descriptorOf(typ reflect.Type, cfg *Config, visiting map[reflect.Type]bool) (*RecordDescriptor, error) {
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil, errUnsupportedType("", shortTypeName(typ))
	}

	// Structural recursion detection (spec §3 invariant, §4.2.2): entering
	// a type already on the current path fails. The Open Question in
	// spec §9 ("removes the visited marker on unwind... permits diamond
	// reuse") is resolved in DESIGN.md: we remove the marker on the way
	// back up (defer delete below), so the same struct type may appear in
	// two sibling branches, only not on the same root-to-leaf path.
	if visiting[typ] {
		return nil, errRecursiveRecord(typ.String())
	}
	visiting[typ] = true
	defer delete(visiting, typ)

	descriptor := &RecordDescriptor{Name: typ.Name(), GoType: typ}

	names := make(map[string]bool)
	fieldIDs := make(map[int]bool)

	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		if !sf.IsExported() {
			continue
		}

		tag := cfg.TagSource.Tags(sf)

		fieldType, err := fieldTypeOf(sf.Type, cfg, tag, visiting)
		if err != nil {
			return nil, err
		}

		name := sf.Name
		if tag.Alias != "" {
			name = tag.Alias
		} else {
			name = applyColumnNaming(cfg.ColumnNamingStrategy, name)
		}
		if names[name] {
			return nil, errDuplicateFieldName(name)
		}
		names[name] = true

		if tag.FieldID != nil {
			if fieldIDs[*tag.FieldID] {
				return nil, errDuplicateFieldID(*tag.FieldID)
			}
			fieldIDs[*tag.FieldID] = true
			fieldType = fieldType.WithFieldID(*tag.FieldID)
		}

		index := append([]int(nil), sf.Index...)
		accessor := wrapWellKnownProtoAccessor(sf.Type, cachedFieldAccessor(typ, sf.Name, index))

		descriptor.Fields = append(descriptor.Fields, FieldDescriptor{
			Name: name, Type: fieldType, Accessor: accessor, GoIndex: index,
		})
	}

	return descriptor, nil
}

// fieldTypeOf dispatches a Go static type to a FieldType (spec §4.1.4's
// "fixed table"), determining nullability per spec §4.1.1: false for
// primitive-valued (non-pointer scalar) components, else false iff the
// struct tag marks it not-null, else true.
func fieldTypeOf(t reflect.Type, cfg *Config, tag StructTag, visiting map[reflect.Type]bool) (FieldType, error) {
	nullable := false
	elemT := t
	if elemT.Kind() == reflect.Pointer {
		nullable = true
		elemT = elemT.Elem()
	}

	ft, err := dispatchFieldType(elemT, cfg, tag, visiting)
	if err != nil {
		return FieldType{}, err
	}

	switch elemT.Kind() {
	case reflect.Slice, reflect.Map, reflect.Struct, reflect.Interface:
		if elemT != decimalType && elemT != dateOnlyType && elemT != timeOfDayType &&
			elemT != localDateTimeType && elemT != timeTimeType && elemT != uuidType && elemT != byteSliceType &&
			elemT != protoTimestampType && elemT != protoDurationType && elemT != protoStructType {
			nullable = true
		}
	}

	if tag.NotNull {
		nullable = false
	}
	ft.Nullable = nullable
	return ft, nil
}

func dispatchFieldType(t reflect.Type, cfg *Config, tag StructTag, visiting map[reflect.Type]bool) (FieldType, error) {
	switch t {
	case decimalType:
		precision, scale := 0, 0
		if tag.HasDecimal {
			precision, scale = tag.Precision, tag.Scale
		} else if cfg.Decimal != nil {
			precision, scale = cfg.Decimal.Precision, cfg.Decimal.Scale
		} else {
			return FieldType{}, newConversionError("decimal field requires a DecimalConfig or a decimal=<p>:<s> tag")
		}
		ft := DecimalType(precision, scale)
		if tag.HasRounding {
			ft = ft.WithRounding(tag.Rounding)
		} else if cfg.Decimal != nil {
			ft = ft.WithRounding(cfg.Decimal.Rounding)
		}
		return ft, nil
	case dateOnlyType:
		return DateOnlyType(), nil
	case timeOfDayType:
		return applyTimeUnitTag(TimeOfDayType(), tag, cfg), nil
	case localDateTimeType:
		return applyTimeUnitTag(LocalTimestampType(), tag, cfg), nil
	case timeTimeType:
		return applyTimeUnitTag(InstantTimestampType(), tag, cfg), nil
	case uuidType:
		return UUIDType(), nil
	case byteSliceType:
		return binaryFieldType(tag), nil
	case protoTimestampType:
		return applyTimeUnitTag(InstantTimestampType(), tag, cfg), nil
	case protoDurationType:
		// protobuf has no native duration-of-time logical type; Carpet stores
		// it as plain nanoseconds, mirroring time.Duration's own unit.
		return Int64Type(), nil
	case protoStructType:
		// google.protobuf.Struct is arbitrary JSON; Carpet renders it through
		// protojson the way column_buffer_proto.go's writeProtoStruct does
		// and stores it as a JSON-annotated binary string leaf.
		return FieldType{Kind: KindBinaryString, Alias: AliasJSON}, nil
	}

	switch t.Kind() {
	case reflect.Int32:
		return Int32Type(), nil
	case reflect.Int64, reflect.Int:
		return Int64Type(), nil
	case reflect.Int16:
		return Int16Type(), nil
	case reflect.Int8:
		return Int8Type(), nil
	case reflect.Uint32, reflect.Uint:
		return Int32Type(), nil
	case reflect.Uint64:
		return Int64Type(), nil
	case reflect.Uint16:
		return Int16Type(), nil
	case reflect.Uint8:
		return Int8Type(), nil
	case reflect.Float32:
		return Float32Type(), nil
	case reflect.Float64:
		return Float64Type(), nil
	case reflect.Bool:
		return BoolType(), nil

	case reflect.String:
		if t.Name() != "string" {
			// Named string type: treated as enum-like unless the tag
			// overrides it back to plain string (spec §3: EnumLike /
			// asString()).
			if tag.Flavor == "string" {
				return StringType(), nil
			}
			return enumFieldType(t), nil
		}
		return stringFieldType(tag), nil

	case reflect.Slice:
		elem, err := fieldTypeOf(t.Elem(), cfg, StructTag{}, visiting)
		if err != nil {
			return FieldType{}, err
		}
		if strings.HasPrefix(t.Name(), "Set[") {
			return SetType(elem), nil
		}
		return ListType(elem), nil

	case reflect.Map:
		keyT := t.Key()
		if keyT.Kind() == reflect.Slice || keyT.Kind() == reflect.Map {
			return FieldType{}, errNonScalarMapKey(shortTypeName(keyT))
		}
		keyType, err := fieldTypeOf(keyT, cfg, StructTag{NotNull: true}, visiting)
		if err != nil {
			return FieldType{}, err
		}
		valueType, err := fieldTypeOf(t.Elem(), cfg, StructTag{}, visiting)
		if err != nil {
			return FieldType{}, err
		}
		return MapType(keyType, valueType), nil

	case reflect.Struct:
		nested, err := descriptorOf(t, cfg, visiting)
		if err != nil {
			return FieldType{}, err
		}
		return RecordRefType(nested), nil

	case reflect.Pointer:
		// Pointer-to-pointer and similar are not part of the fixed
		// dispatch table.
		return FieldType{}, errUnsupportedType("", shortTypeName(t))

	case reflect.Interface:
		return FieldType{}, errTypeVariable(shortTypeName(t))

	default:
		return FieldType{}, errUnsupportedType("", shortTypeName(t))
	}
}

// wrapWellKnownProtoAccessor intercepts the three protobuf well-known
// message types dispatchFieldType special-cased above and converts their
// raw struct value into the plain Go carrier the writer compiler expects
// (time.Time, int64 nanoseconds, JSON string) before it ever reaches
// writer.go. Every other field type passes through unchanged.
func wrapWellKnownProtoAccessor(sfType reflect.Type, accessor Accessor) Accessor {
	elemT := sfType
	for elemT.Kind() == reflect.Pointer {
		elemT = elemT.Elem()
	}
	switch elemT {
	case protoTimestampType:
		return func(record reflect.Value) reflect.Value {
			v := accessor(record)
			ts := asProtoTimestamp(v)
			if ts == nil {
				return reflect.Value{}
			}
			return reflect.ValueOf(ts.AsTime())
		}
	case protoDurationType:
		return func(record reflect.Value) reflect.Value {
			v := accessor(record)
			d := asProtoDuration(v)
			if d == nil {
				return reflect.Value{}
			}
			return reflect.ValueOf(int64(d.AsDuration()))
		}
	case protoStructType:
		return func(record reflect.Value) reflect.Value {
			v := accessor(record)
			s := asProtoStruct(v)
			if s == nil {
				return reflect.Value{}
			}
			b, err := protojson.Marshal(s)
			if err != nil {
				panic(newConversionError("protobuf Struct JSON marshal failed").withErr(err))
			}
			return reflect.ValueOf(string(b))
		}
	default:
		return accessor
	}
}

func asProtoTimestamp(v reflect.Value) *timestamppb.Timestamp {
	if !v.IsValid() {
		return nil
	}
	switch x := v.Interface().(type) {
	case *timestamppb.Timestamp:
		return x
	case timestamppb.Timestamp:
		return &x
	default:
		return nil
	}
}

func asProtoDuration(v reflect.Value) *durationpb.Duration {
	if !v.IsValid() {
		return nil
	}
	switch x := v.Interface().(type) {
	case *durationpb.Duration:
		return x
	case durationpb.Duration:
		return &x
	default:
		return nil
	}
}

func asProtoStruct(v reflect.Value) *structpb.Struct {
	if !v.IsValid() {
		return nil
	}
	switch x := v.Interface().(type) {
	case *structpb.Struct:
		return x
	case structpb.Struct:
		return &x
	default:
		return nil
	}
}

func applyTimeUnitTag(ft FieldType, tag StructTag, cfg *Config) FieldType {
	if tag.HasTimeUnit {
		return ft.WithTimeUnit(tag.TimeUnit)
	}
	return ft
}

func stringFieldType(tag StructTag) FieldType {
	switch tag.Flavor {
	case "enum":
		return FieldType{Kind: KindBinaryString, Alias: AliasEnum}
	case "json":
		return FieldType{Kind: KindBinaryString, Alias: AliasJSON}
	default:
		return StringType()
	}
}

func binaryFieldType(tag StructTag) FieldType {
	switch tag.Flavor {
	case "string":
		return BinaryType(AliasString, GeoParams{})
	case "enum":
		return BinaryType(AliasEnum, GeoParams{})
	case "json":
		return BinaryType(AliasJSON, GeoParams{})
	case "bson":
		return BinaryType(AliasBSON, GeoParams{})
	case "geometry":
		return BinaryType(AliasGeometry, GeoParams{CRS: tag.GeoCRS})
	case "geography":
		return BinaryType(AliasGeography, GeoParams{CRS: tag.GeoCRS, EdgeAlgoritm: tag.GeoAlgorithm})
	default:
		return OpaqueBinaryType()
	}
}

func enumFieldType(t reflect.Type) FieldType {
	var alphabet []string
	if enumerable, ok := reflect.New(t).Interface().(interface{ EnumValues() []string }); ok {
		alphabet = enumerable.EnumValues()
	}
	return EnumType(alphabet)
}

// shortTypeName is used where a human-readable type name is needed for
// diagnostics beyond reflect.Type.String().
func shortTypeName(t reflect.Type) string {
	return fmt.Sprintf("%s.%s", t.PkgPath(), t.Name())
}
