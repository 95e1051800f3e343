package carpet

import (
	"reflect"
	"strconv"
	"strings"
)

// StructTag carries the parsed contents of the "carpet" struct tag, modeled
// on the teacher's schema.StructTag (schema/schema.go). Only the field's own
// "carpet" tag is read; the key and value of a map field take no tag
// options of their own.
type StructTag struct {
	Alias        string
	NotNull      bool
	FieldID      *int
	Flavor       string // "string"|"enum"|"json"|"bson"|"geometry"|"geography"
	GeoCRS       string
	GeoAlgorithm string
	Precision    int
	Scale        int
	HasDecimal   bool
	Rounding     RoundingMode
	HasRounding  bool
	TimeUnit     TimeUnit
	HasTimeUnit  bool
}

// TagSource supplies per-field tag metadata to the reflective front-end,
// mirroring the teacher's TagSource interface (schema/schema.go), which
// lets callers swap in e.g. a protobuf-derived tag source
// (schema_protobuf.go's ProtobufTagProvider) without touching the core
// reflective walk.
type TagSource interface {
	Tags(f reflect.StructField) StructTag
}

type defaultTagSource struct{}

// Tags parses the "carpet" struct tag. Grammar: a comma-separated list of
// options; the first, bare option (no "=") is the column-name alias. Known
// options: notnull|nonnull, id=<int>, string|enum|json|bson,
// geometry=<crs>, geography=<crs>:<algo>, decimal=<precision>:<scale>,
// rounding=<mode>, unit=millis|micros|nanos.
func (defaultTagSource) Tags(f reflect.StructField) StructTag {
	raw := f.Tag.Get("carpet")
	var tag StructTag
	if raw == "" {
		return tag
	}
	parts := strings.Split(raw, ",")
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if i == 0 && !strings.Contains(part, "=") {
			tag.Alias = part
			continue
		}
		key, value, _ := strings.Cut(part, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		switch key {
		case "notnull", "nonnull":
			tag.NotNull = true
		case "id":
			if n, err := strconv.Atoi(value); err == nil {
				tag.FieldID = &n
			}
		case "string", "enum", "json", "bson":
			tag.Flavor = key
		case "geometry":
			tag.Flavor = "geometry"
			tag.GeoCRS = value
		case "geography":
			tag.Flavor = "geography"
			crs, algo, _ := strings.Cut(value, ":")
			tag.GeoCRS = crs
			tag.GeoAlgorithm = algo
		case "decimal":
			p, s, ok := strings.Cut(value, ":")
			if ok {
				precision, errP := strconv.Atoi(p)
				scale, errS := strconv.Atoi(s)
				if errP == nil && errS == nil {
					tag.Precision, tag.Scale, tag.HasDecimal = precision, scale, true
				}
			}
		case "rounding":
			if mode, ok := parseRoundingMode(value); ok {
				tag.Rounding, tag.HasRounding = mode, true
			}
		case "unit":
			if unit, ok := parseTimeUnit(value); ok {
				tag.TimeUnit, tag.HasTimeUnit = unit, true
			}
		}
	}
	return tag
}

func parseRoundingMode(s string) (RoundingMode, bool) {
	switch strings.ToLower(s) {
	case "halfup":
		return RoundHalfUp, true
	case "halfeven":
		return RoundHalfEven, true
	case "down":
		return RoundDown, true
	case "up":
		return RoundUp, true
	case "floor":
		return RoundFloor, true
	case "ceiling":
		return RoundCeiling, true
	case "unnecessary":
		return RoundUnnecessary, true
	default:
		return 0, false
	}
}

func parseTimeUnit(s string) (TimeUnit, bool) {
	switch strings.ToLower(s) {
	case "millis":
		return Millis, true
	case "micros":
		return Micros, true
	case "nanos":
		return Nanos, true
	default:
		return 0, false
	}
}

// isNullabilityMarkerName reports whether name (a type's simple name,
// already lowercased by the caller) denotes carpet's nullability markers
// (spec §4.1.1: "a nullability marker whose simple name, lowercased, equals
// nonnull or notnull").
func isNullabilityMarkerName(lowerName string) bool {
	return lowerName == "nonnull" || lowerName == "notnull"
}
