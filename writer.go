package carpet

import (
	"fmt"
	"math/big"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/jerolba/carpet-go/compresscodec"
)

// writeFunc writes a single non-null occurrence of a value already read off
// a record (spec §4.3.1/§4.3.2). Decimal rescale (spec §4.3.5) and
// BinaryCodec encoding are the write-time operations that can fail, hence
// the error return.
type writeFunc func(v reflect.Value, consumer RecordConsumer) error

// compiledField pairs a FieldDescriptor with its compiled write closure and
// handles the optional/nullable wrapper uniformly (spec §4.3.2).
type compiledField struct {
	name     string
	index    int
	nullable bool
	write    writeFunc
}

// Writer drives a single Go record type T through its RecordDescriptor onto
// a RecordConsumer (spec §4.3). Build once per descriptor with NewWriter and
// reuse it across every record of the run.
type Writer[T any] struct {
	fields []recordWriterField
}

// NewWriter compiles descriptor into a reusable Writer (spec §4.3.6: every
// field is checked against its physical/logical target at compile time, not
// per write).
func NewWriter[T any](descriptor *RecordDescriptor, cfg *Config) (*Writer[T], error) {
	fields, err := compileRecordWriter(descriptor, cfg)
	if err != nil {
		return nil, err
	}
	return &Writer[T]{fields: fields}, nil
}

// Write emits one record's fields into consumer.
func (w *Writer[T]) Write(record T, consumer RecordConsumer) error {
	rv := reflect.ValueOf(record)
	return writeRecordFields(w.fields, rv, consumer)
}

// recordWriterField additionally carries the Accessor so nested groups and
// the top-level Writer can read each field's value off a reflect.Value
// record before writing it.
type recordWriterField struct {
	compiledField
	accessor Accessor
}

func compileRecordWriter(descriptor *RecordDescriptor, cfg *Config) ([]recordWriterField, error) {
	out := make([]recordWriterField, len(descriptor.Fields))
	for i, fd := range descriptor.Fields {
		write, err := compileValueWriter(fd.Type, cfg)
		if err != nil {
			return nil, err
		}
		out[i] = recordWriterField{
			compiledField: compiledField{name: fd.Name, index: i, nullable: fd.Type.Nullable, write: write},
			accessor:      fd.Accessor,
		}
	}
	return out, nil
}

func writeRecordFields(fields []recordWriterField, record reflect.Value, consumer RecordConsumer) error {
	for _, f := range fields {
		consumer.StartField(f.name, f.index)
		v := f.accessor(record)
		present, unwrapped := unwrapOptional(v, f.nullable)
		if present {
			if err := f.write(unwrapped, consumer); err != nil {
				return err
			}
		}
		consumer.EndField(f.name, f.index)
	}
	return nil
}

// unwrapOptional resolves pointer/nil-slice/nil-map absence. A non-nullable
// field is always "present" even if its accessor returned an invalid Value
// (defensive; shouldn't occur for a correctly compiled descriptor).
func unwrapOptional(v reflect.Value, nullable bool) (present bool, unwrapped reflect.Value) {
	if !v.IsValid() {
		return !nullable, v
	}
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return false, reflect.Value{}
		}
		v = v.Elem()
	}
	if nullable && (v.Kind() == reflect.Slice || v.Kind() == reflect.Map) && v.IsNil() {
		return false, reflect.Value{}
	}
	return true, v
}

// compileValueWriter returns the writeFunc for a single FieldType, recursing
// into nested records/lists/maps as needed (spec §4.3.1-§4.3.4).
func compileValueWriter(ft FieldType, cfg *Config) (writeFunc, error) {
	switch ft.Kind {
	case KindInt32:
		return func(v reflect.Value, c RecordConsumer) error { c.AddInteger(int32(intOf(v))); return nil }, nil
	case KindInt64:
		return func(v reflect.Value, c RecordConsumer) error { c.AddLong(intOf(v)); return nil }, nil
	case KindInt16, KindInt8:
		return func(v reflect.Value, c RecordConsumer) error { c.AddInteger(int32(intOf(v))); return nil }, nil
	case KindFloat32:
		return func(v reflect.Value, c RecordConsumer) error { c.AddFloat(float32(v.Float())); return nil }, nil
	case KindFloat64:
		return func(v reflect.Value, c RecordConsumer) error { c.AddDouble(v.Float()); return nil }, nil
	case KindBool:
		return func(v reflect.Value, c RecordConsumer) error { c.AddBoolean(v.Bool()); return nil }, nil

	case KindBinaryString, KindEnumLike:
		codec := cfg.BinaryCodec
		return func(v reflect.Value, c RecordConsumer) error {
			b, err := encodeBinary(codec, []byte(v.String()))
			if err != nil {
				return err
			}
			c.AddBinary(b)
			return nil
		}, nil

	case KindOpaqueBinary:
		codec := cfg.BinaryCodec
		return func(v reflect.Value, c RecordConsumer) error {
			b, err := encodeBinary(codec, v.Bytes())
			if err != nil {
				return err
			}
			c.AddBinary(b)
			return nil
		}, nil

	case KindUUID:
		return func(v reflect.Value, c RecordConsumer) error {
			u := v.Interface().(uuid.UUID)
			c.AddBinary(u[:])
			return nil
		}, nil

	case KindDecimal:
		return compileDecimalWriter(ft), nil

	case KindDateOnly:
		return func(v reflect.Value, c RecordConsumer) error { c.AddInteger(int32(v.Int())); return nil }, nil

	case KindTimeOfDay:
		unit := ft.effectiveTimeUnit(cfg)
		return func(v reflect.Value, c RecordConsumer) error {
			nanos := v.Int()
			writeTimeUnit(c, nanos, unit)
			return nil
		}, nil

	case KindLocalTimestamp:
		unit := ft.effectiveTimeUnit(cfg)
		return func(v reflect.Value, c RecordConsumer) error {
			t := v.Interface().(LocalDateTime).AsTime()
			c.AddLong(epochAt(t, unit))
			return nil
		}, nil

	case KindInstantTimestamp:
		unit := ft.effectiveTimeUnit(cfg)
		return func(v reflect.Value, c RecordConsumer) error {
			t := v.Interface().(time.Time)
			c.AddLong(epochAt(t, unit))
			return nil
		}, nil

	case KindList, KindSet:
		return compileListWriter(*ft.Element, cfg)

	case KindMap:
		return compileMapWriter(*ft.MapKey, *ft.MapValue, cfg)

	case KindRecordRef:
		nested, err := compileRecordWriter(ft.Record, cfg)
		if err != nil {
			return nil, err
		}
		return func(v reflect.Value, c RecordConsumer) error {
			c.StartGroup()
			if err := writeRecordFields(nested, v, c); err != nil {
				return err
			}
			c.EndGroup()
			return nil
		}, nil

	default:
		return nil, errUnsupportedType("", ft.Kind.String())
	}
}

// encodeBinary compresses b through codec when set, matching the identity
// transform otherwise so the round-trip invariant (spec §8.1) holds whether
// or not a BinaryCodec is configured.
func encodeBinary(codec compresscodec.Codec, b []byte) ([]byte, error) {
	if codec == nil {
		return b, nil
	}
	return codec.Encode(nil, b)
}

// intOf extracts a signed 64-bit value from either a signed or unsigned
// reflect.Value, matching the widened-unsigned mapping chosen in
// reflectdescriptor.go's dispatchFieldType.
func intOf(v reflect.Value) int64 {
	switch v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(v.Uint())
	default:
		return v.Int()
	}
}

func writeTimeUnit(c RecordConsumer, nanos int64, unit TimeUnit) {
	switch unit {
	case Millis:
		c.AddInteger(int32(nanos / int64(time.Millisecond)))
	case Micros:
		c.AddLong(nanos / int64(time.Microsecond))
	default:
		c.AddLong(nanos)
	}
}

func epochAt(t time.Time, unit TimeUnit) int64 {
	switch unit {
	case Millis:
		return t.UnixMilli()
	case Micros:
		return t.UnixMicro()
	default:
		return t.UnixNano()
	}
}

func compileDecimalWriter(ft FieldType) writeFunc {
	targetScale := ft.Scale
	mode := ft.Rounding
	physical, _ := decimalPhysical(ft.Precision)
	return func(v reflect.Value, c RecordConsumer) error {
		d := v.Interface().(Decimal)
		rescaled, err := d.rescale(targetScale, mode)
		if err != nil {
			return errDecimalRescale("", d.Scale(), err)
		}
		if rescaled.Precision() > ft.Precision {
			return errDecimalRescale("", d.Scale(), fmt.Errorf("precision %d exceeds target precision %d", rescaled.Precision(), ft.Precision))
		}
		switch physical {
		case PhysicalInt32:
			c.AddInteger(int32(rescaled.unscaled.Int64()))
		case PhysicalInt64:
			c.AddLong(rescaled.unscaled.Int64())
		default:
			c.AddBinary(decimalBytes(rescaled.unscaled))
		}
		return nil
	}
}

// decimalBytes renders v as a minimal big-endian two's-complement byte
// string, the standard wire form for a DECIMAL backed by (FIXED_LEN_)BYTE_ARRAY.
func decimalBytes(v *big.Int) []byte {
	if v.Sign() >= 0 {
		b := v.Bytes()
		if len(b) == 0 {
			return []byte{0}
		}
		if b[0]&0x80 != 0 {
			b = append([]byte{0}, b...)
		}
		return b
	}
	byteLen := v.BitLen()/8 + 1
	twosComplement := new(big.Int).Add(v, new(big.Int).Lsh(big.NewInt(1), uint(byteLen*8)))
	b := twosComplement.Bytes()
	for len(b) < byteLen {
		b = append([]byte{0}, b...)
	}
	return b
}
