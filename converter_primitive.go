package carpet

import (
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/jerolba/carpet-go/compresscodec"
)

// compileLeafConverter builds the PrimitiveConverter for one schema leaf,
// given the descriptor's target FieldType for that column. assign stores the
// decoded, correctly-typed Go value into the owning group's slot (spec
// §4.4.2: "set(i, v) stores").
func compileLeafConverter(fieldName string, node *Node, ft FieldType, cfg *Config, assign func(any)) (PrimitiveConverter, error) {
	if node.Logical != nil && node.Logical.Kind != LogicalNone {
		return compileLogicalConverter(fieldName, node, ft, cfg, assign)
	}
	return compileWideningConverter(fieldName, *node.Physical, ft, cfg, assign)
}

// decodeBinary reverses encodeBinary (writer.go): it decompresses through
// codec when set, and is the identity transform otherwise.
func decodeBinary(codec compresscodec.Codec, field string, b []byte) []byte {
	if codec == nil {
		return b
	}
	out, err := codec.Decode(nil, b)
	if err != nil {
		panic(errBinaryDecode(field, err))
	}
	return out
}

// compileWideningConverter implements the table in spec §4.4.6. Int32/Int64
// physical sources go through castIntConverter (cast or widen to an integer
// or float target); Float/Double/Boolean physicals have no widening of their
// own and must match their target exactly. A raw, unannotated BYTE_ARRAY
// column (no logical type) widens to KindOpaqueBinary, matching the
// schema-derivation side's "unannotated binary" mapping.
func compileWideningConverter(fieldName string, physical PhysicalType, ft FieldType, cfg *Config, assign func(any)) (PrimitiveConverter, error) {
	base := unsupportedConverter{field: fieldName}

	if (physical == PhysicalByteArray || physical == PhysicalFixedLenByteArray) && ft.Kind == KindOpaqueBinary {
		codec := cfg.BinaryCodec
		return &binaryConverter{unsupportedConverter: base, assign: func(b []byte) {
			assign(append([]byte(nil), decodeBinary(codec, fieldName, b)...))
		}}, nil
	}

	if physical == PhysicalFloat || physical == PhysicalDouble {
		switch ft.Kind {
		case KindFloat32:
			if physical != PhysicalFloat {
				return nil, errNotCompatible(fieldName, physical.String(), "Float32")
			}
			return &floatConverter{unsupportedConverter: base, assign: func(v float64) { assign(float32(v)) }}, nil
		case KindFloat64:
			if physical != PhysicalDouble {
				return nil, errNotCompatible(fieldName, physical.String(), "Float64")
			}
			return &floatConverter{unsupportedConverter: base, physical: physical, assign: func(v float64) { assign(v) }}, nil
		default:
			return nil, errNotCompatible(fieldName, physical.String(), ft.Kind.String())
		}
	}

	if physical == PhysicalBoolean {
		if ft.Kind != KindBool {
			return nil, errNotCompatible(fieldName, physical.String(), ft.Kind.String())
		}
		return &boolConverter{unsupportedConverter: base, assign: assign}, nil
	}

	switch ft.Kind {
	case KindInt8:
		return &castIntConverter{unsupportedConverter: base, physical: physical, assign: func(v int64) { assign(int8(v)) }}, nil
	case KindInt16:
		return &castIntConverter{unsupportedConverter: base, physical: physical, assign: func(v int64) { assign(int16(v)) }}, nil
	case KindInt32:
		return &castIntConverter{unsupportedConverter: base, physical: physical, assign: func(v int64) { assign(int32(v)) }}, nil
	case KindInt64:
		if physical != PhysicalInt32 && physical != PhysicalInt64 {
			return nil, errNotCompatible(fieldName, physical.String(), "Int64")
		}
		return &castIntConverter{unsupportedConverter: base, physical: physical, assign: func(v int64) { assign(v) }}, nil
	case KindFloat32:
		return &castIntConverter{unsupportedConverter: base, physical: physical, assign: func(v int64) { assign(float32(v)) }}, nil
	case KindFloat64:
		return &castIntConverter{unsupportedConverter: base, physical: physical, assign: func(v int64) { assign(float64(v)) }}, nil
	default:
		return nil, errNotCompatible(fieldName, physical.String(), ft.Kind.String())
	}
}

// floatConverter accepts a Float/Double physical leaf directly, with no
// integer intermediate (the widening table in spec §4.4.6 only widens
// Int32/Int64 sources; Float/Double sources only ever match their own
// target width).
type floatConverter struct {
	unsupportedConverter
	physical PhysicalType
	assign   func(float64)
}

func (c *floatConverter) AddFloat(v float32) {
	if c.physical == PhysicalDouble {
		c.unsupportedConverter.AddFloat(v)
		return
	}
	c.assign(float64(v))
}

func (c *floatConverter) AddDouble(v float64) {
	if c.physical != PhysicalDouble {
		c.unsupportedConverter.AddDouble(v)
		return
	}
	c.assign(v)
}

// castIntConverter accepts whichever of AddInteger/AddLong/AddFloat/AddDouble
// matches its declared physical type and routes through assign as int64; it
// also directly overrides AddFloat/AddDouble for FLOAT/DOUBLE physicals
// widening to a Float target.
type castIntConverter struct {
	unsupportedConverter
	physical PhysicalType
	assign   func(int64)
}

func (c *castIntConverter) AddInteger(v int32) {
	if c.physical != PhysicalInt32 {
		c.unsupportedConverter.AddInteger(v)
		return
	}
	c.assign(int64(v))
}

func (c *castIntConverter) AddLong(v int64) {
	if c.physical != PhysicalInt64 {
		c.unsupportedConverter.AddLong(v)
		return
	}
	c.assign(v)
}

func (c *castIntConverter) AddFloat(v float32) {
	if c.physical != PhysicalFloat {
		c.unsupportedConverter.AddFloat(v)
		return
	}
	c.assign(int64(v))
}

func (c *castIntConverter) AddDouble(v float64) {
	if c.physical != PhysicalDouble {
		c.unsupportedConverter.AddDouble(v)
		return
	}
	c.assign(int64(v))
}

type boolConverter struct {
	unsupportedConverter
	assign func(any)
}

func (c *boolConverter) AddBoolean(v bool) { c.assign(v) }

// compileLogicalConverter handles every annotated leaf: STRING/ENUM/JSON/
// BSON, UUID, DECIMAL, DATE, TIME, TIMESTAMP, INTEGER (spec §4.4.6 step 1).
func compileLogicalConverter(fieldName string, node *Node, ft FieldType, cfg *Config, assign func(any)) (PrimitiveConverter, error) {
	base := unsupportedConverter{field: fieldName}
	logical := node.Logical

	switch logical.Kind {
	case LogicalString, LogicalEnum, LogicalJSON, LogicalBSON, LogicalGeometry, LogicalGeography:
		codec := cfg.BinaryCodec
		if ft.Kind == KindOpaqueBinary {
			return &binaryConverter{unsupportedConverter: base, assign: func(b []byte) {
				assign(append([]byte(nil), decodeBinary(codec, fieldName, b)...))
			}}, nil
		}
		return &binaryConverter{unsupportedConverter: base, assign: func(b []byte) {
			assign(string(decodeBinary(codec, fieldName, b)))
		}}, nil

	case LogicalUUID:
		return &binaryConverter{unsupportedConverter: base, assign: func(b []byte) {
			u, err := uuid.FromBytes(b)
			if err == nil {
				assign(u)
			}
		}}, nil

	case LogicalDecimal:
		return compileDecimalConverter(fieldName, node, ft, assign), nil

	case LogicalDate:
		return &castIntConverter{unsupportedConverter: base, physical: PhysicalInt32, assign: func(v int64) { assign(DateOnly(v)) }}, nil

	case LogicalTime:
		unit := logical.Unit
		if logical.BitWidth == 0 && node.Physical != nil && *node.Physical == PhysicalInt32 {
			return &castIntConverter{unsupportedConverter: base, physical: PhysicalInt32, assign: func(v int64) {
				assign(TimeOfDay(v * int64(time.Millisecond)))
			}}, nil
		}
		return &castIntConverter{unsupportedConverter: base, physical: PhysicalInt64, assign: func(v int64) {
			assign(TimeOfDay(scaleToNanos(v, unit)))
		}}, nil

	case LogicalTimestamp:
		unit := logical.Unit
		if ft.Kind == KindInstantTimestamp {
			return &castIntConverter{unsupportedConverter: base, physical: PhysicalInt64, assign: func(v int64) {
				assign(timeFromUnit(v, unit))
			}}, nil
		}
		return &castIntConverter{unsupportedConverter: base, physical: PhysicalInt64, assign: func(v int64) {
			assign(localDateTimeFromTime(timeFromUnit(v, unit)))
		}}, nil

	case LogicalInteger:
		physical := PhysicalInt32
		if node.Physical != nil {
			physical = *node.Physical
		}
		switch logical.BitWidth {
		case 8:
			return &castIntConverter{unsupportedConverter: base, physical: physical, assign: func(v int64) { assign(int8(v)) }}, nil
		default:
			return &castIntConverter{unsupportedConverter: base, physical: physical, assign: func(v int64) { assign(int16(v)) }}, nil
		}

	default:
		return nil, errUnsupportedType(fieldName, logical.Kind.String())
	}
}

type binaryConverter struct {
	unsupportedConverter
	assign func([]byte)
}

func (c *binaryConverter) AddBinary(v []byte) { c.assign(v) }

func scaleToNanos(v int64, unit TimeUnit) int64 {
	switch unit {
	case Millis:
		return v * int64(time.Millisecond)
	case Micros:
		return v * int64(time.Microsecond)
	default:
		return v
	}
}

func timeFromUnit(v int64, unit TimeUnit) time.Time {
	switch unit {
	case Millis:
		return time.UnixMilli(v).UTC()
	case Micros:
		return time.UnixMicro(v).UTC()
	default:
		return time.Unix(0, v).UTC()
	}
}

func compileDecimalConverter(fieldName string, node *Node, ft FieldType, assign func(any)) PrimitiveConverter {
	base := unsupportedConverter{field: fieldName}
	sourceScale := node.Logical.Scale
	build := func(unscaled *big.Int) {
		d := NewDecimal(unscaled, sourceScale)
		if sourceScale != ft.Scale {
			rescaled, err := d.rescale(ft.Scale, ft.Rounding)
			if err == nil {
				d = rescaled
			}
		}
		assign(d)
	}

	switch *node.Physical {
	case PhysicalInt32:
		return &castIntConverter{unsupportedConverter: base, physical: PhysicalInt32, assign: func(v int64) {
			build(big.NewInt(v))
		}}
	case PhysicalInt64:
		return &castIntConverter{unsupportedConverter: base, physical: PhysicalInt64, assign: func(v int64) {
			build(big.NewInt(v))
		}}
	default:
		return &binaryConverter{unsupportedConverter: base, assign: func(b []byte) {
			build(decimalFromTwosComplement(b))
		}}
	}
}

func decimalFromTwosComplement(b []byte) *big.Int {
	v := new(big.Int).SetBytes(b)
	if len(b) > 0 && b[0]&0x80 != 0 {
		v.Sub(v, new(big.Int).Lsh(big.NewInt(1), uint(len(b)*8)))
	}
	return v
}
