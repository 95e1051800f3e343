package carpet

import "github.com/jerolba/carpet-go/compresscodec"

// AnnotatedLevel selects which of the three Parquet-standard list encodings
// the schema derivation and writer compiler use (spec §4.2.3/§4.3.3).
type AnnotatedLevel int

const (
	// OneLevel emits a bare repeated field with no list-group framing.
	OneLevel AnnotatedLevel = iota
	// TwoLevel emits a list-annotated group with a single repeated,
	// non-nullable "element" child.
	TwoLevel
	// ThreeLevel emits a list-annotated group with an intermediate "list"
	// group wrapping an "element" child that is optional when the element
	// type is nullable and required otherwise. This is the
	// Parquet-recommended form and Carpet's default.
	ThreeLevel
)

func (l AnnotatedLevel) String() string {
	switch l {
	case OneLevel:
		return "ONE"
	case TwoLevel:
		return "TWO"
	case ThreeLevel:
		return "THREE"
	default:
		return "UNKNOWN"
	}
}

// TimeUnit selects the resolution used to encode TimeOfDay/LocalTimestamp/
// InstantTimestamp columns (spec §4.2.1).
type TimeUnit int

const (
	Millis TimeUnit = iota
	Micros
	Nanos
)

func (u TimeUnit) String() string {
	switch u {
	case Millis:
		return "MILLIS"
	case Micros:
		return "MICROS"
	case Nanos:
		return "NANOS"
	default:
		return "UNKNOWN"
	}
}

// ColumnNamingStrategy controls how Go field names become Parquet column
// names in the reflective front-end (spec §4.1.1/§4.1.3).
type ColumnNamingStrategy int

const (
	// FieldName keeps the Go field name unchanged.
	FieldName ColumnNamingStrategy = iota
	// SnakeCase applies camelCaseToSnakeCase to the Go field name.
	SnakeCase
)

// RoundingMode mirrors the handful of rounding policies BigDecimal-style
// rescaling needs (spec §4.3.5); it is a narrow analogue of java.math.RoundingMode.
type RoundingMode int

const (
	// RoundUnnecessary requires rescale to be exact; an inexact rescale is
	// a ConversionError.
	RoundUnnecessary RoundingMode = iota
	RoundHalfUp
	RoundHalfEven
	RoundDown
	RoundUp
	RoundFloor
	RoundCeiling
)

// DecimalConfig supplies precision and scale for every Decimal field that
// has no decimal=<p>:<s> tag of its own (spec §6.4); a Decimal field with
// neither fails descriptor building.
type DecimalConfig struct {
	Precision int
	Scale     int
	// Rounding is applied when a runtime decimal's scale does not match
	// Scale. The zero value, RoundUnnecessary, rejects any inexact rescale.
	Rounding RoundingMode
}

// Config bundles the schema-derivation and writer-compiler configuration
// enumerated in spec §6.4. Construct with DefaultConfig and layer Options on
// top, following the functional-options pattern of the teacher's
// schema.Options/schema.Option (schema/schema.go).
type Config struct {
	AnnotatedLevel       AnnotatedLevel
	DefaultTimeUnit      TimeUnit
	ColumnNamingStrategy ColumnNamingStrategy
	Decimal              *DecimalConfig
	TagSource            TagSource

	// BinaryCodec, when set, compresses every BinaryString/OpaqueBinary/
	// EnumLike leaf's bytes on write and decompresses them on read (see
	// DESIGN.md's compresscodec section). Nil (the default) writes/reads
	// the bytes uncompressed.
	BinaryCodec compresscodec.Codec
}

// Option mutates a Config under construction.
type Option func(*Config)

// DefaultConfig returns the Config Carpet uses when no options are given:
// THREE-level lists, millisecond time unit, Go field names kept as-is, and
// the struct-tag TagSource.
func DefaultConfig() *Config {
	return &Config{
		AnnotatedLevel:       ThreeLevel,
		DefaultTimeUnit:      Millis,
		ColumnNamingStrategy: FieldName,
		TagSource:            defaultTagSource{},
	}
}

// Apply layers opts onto c in order and returns c.
func (c *Config) Apply(opts ...Option) *Config {
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func WithAnnotatedLevel(level AnnotatedLevel) Option {
	return func(c *Config) { c.AnnotatedLevel = level }
}

func WithDefaultTimeUnit(unit TimeUnit) Option {
	return func(c *Config) { c.DefaultTimeUnit = unit }
}

func WithColumnNamingStrategy(strategy ColumnNamingStrategy) Option {
	return func(c *Config) { c.ColumnNamingStrategy = strategy }
}

func WithDecimalConfig(precision, scale int, rounding RoundingMode) Option {
	return func(c *Config) {
		c.Decimal = &DecimalConfig{Precision: precision, Scale: scale, Rounding: rounding}
	}
}

func WithTagSource(source TagSource) Option {
	return func(c *Config) { c.TagSource = source }
}

// WithBinaryCodec installs a compression codec for every binary-carrying
// leaf (BinaryString/OpaqueBinary/EnumLike).
func WithBinaryCodec(codec compresscodec.Codec) Option {
	return func(c *Config) { c.BinaryCodec = codec }
}

// NewConfig builds a Config from DefaultConfig with opts applied, mirroring
// schema.DefaultOptions().Apply(opts...) in the teacher.
func NewConfig(opts ...Option) *Config {
	return DefaultConfig().Apply(opts...)
}
