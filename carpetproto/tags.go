// Package carpetproto lets Carpet derive a RecordDescriptor from a
// protoc-gen-go generated message struct instead of a plain "carpet"-tagged
// one, the way the teacher keeps schema_protobuf.go beside schema.go in the
// same package rather than as a separate front-end. Carpet's own reflective
// walk (carpet.DescriptorOf) already does all the structural work; this
// package only supplies the TagSource that reads column names and per-field
// hints out of the generated struct's own "protobuf" tag.
package carpetproto

import (
	"reflect"
	"strings"

	carpet "github.com/jerolba/carpet-go"
)

// FieldOptions lets a Resolve callback attach Carpet-specific annotations to
// a single protobuf message field that the struct's own "protobuf" tag has
// no room for, mirroring the teacher's TagOptions/WithEnum/WithDecimal/
// WithCompression helpers in schema_protobuf.go.
type FieldOptions struct {
	// Flavor retargets a string/bytes leaf, same vocabulary as the
	// "carpet" struct tag: "string"|"enum"|"json"|"bson"|"geometry"|"geography".
	Flavor string
	// NotNull forces a field non-nullable despite being a pointer or a
	// protobuf oneof/optional wrapper.
	NotNull bool
	// TimeUnit overrides the default time resolution for a Time/Timestamp field.
	TimeUnit    carpet.TimeUnit
	HasTimeUnit bool
	Decimal     *DecimalOptions
}

// DecimalOptions supplies the precision/scale a protobuf DECIMAL-like field
// needs; protobuf itself has no decimal wire type, so this can only ever
// come from a Resolve callback, never from the struct tag.
type DecimalOptions struct {
	Precision, Scale int
	Rounding         carpet.RoundingMode
	HasRounding      bool
}

// TagSource implements carpet.TagSource over protoc-gen-go structs. Column
// names come from the field's own "protobuf" struct tag (its name=...
// component) rather than a separate "carpet" tag. Resolve, when set, is
// consulted for every field so a caller can graft Parquet-only semantics
// (enum alphabets, decimal precision, JSON/BSON framing) onto a plain
// protobuf field the way ProtobufTagProvider.Resolve does in the teacher.
type TagSource struct {
	Resolve func(f reflect.StructField) FieldOptions
}

func (s TagSource) Tags(f reflect.StructField) carpet.StructTag {
	var tag carpet.StructTag
	if name := protobufFieldName(f); name != "" {
		tag.Alias = name
	}
	if s.Resolve == nil {
		return tag
	}

	opts := s.Resolve(f)
	if opts.Flavor != "" {
		tag.Flavor = opts.Flavor
	}
	if opts.NotNull {
		tag.NotNull = true
	}
	if opts.HasTimeUnit {
		tag.TimeUnit, tag.HasTimeUnit = opts.TimeUnit, true
	}
	if opts.Decimal != nil {
		tag.HasDecimal = true
		tag.Precision, tag.Scale = opts.Decimal.Precision, opts.Decimal.Scale
		if opts.Decimal.HasRounding {
			tag.Rounding, tag.HasRounding = opts.Decimal.Rounding, true
		}
	}
	return tag
}

// protobufFieldName extracts the name=... component of a generated struct's
// `protobuf:"..."` tag, the same piece schema_protobuf.go's
// ProtobufTagProvider.Tags pulls out before building its own StructTag.
func protobufFieldName(f reflect.StructField) string {
	raw := f.Tag.Get("protobuf")
	if raw == "" {
		return ""
	}
	for _, part := range strings.Split(raw, ",") {
		if name, ok := strings.CutPrefix(part, "name="); ok {
			return name
		}
	}
	return ""
}
