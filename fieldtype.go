package carpet

// Kind enumerates the closed set of FieldType variants from spec §3.
type Kind int

const (
	KindInt32 Kind = iota
	KindInt64
	KindInt16
	KindInt8
	KindFloat32
	KindFloat64
	KindBool
	KindBinaryString
	KindOpaqueBinary
	KindEnumLike
	KindUUID
	KindDecimal
	KindDateOnly
	KindTimeOfDay
	KindLocalTimestamp
	KindInstantTimestamp
	KindList
	KindSet
	KindMap
	KindRecordRef
)

func (k Kind) String() string {
	switch k {
	case KindInt32:
		return "Int32"
	case KindInt64:
		return "Int64"
	case KindInt16:
		return "Int16"
	case KindInt8:
		return "Int8"
	case KindFloat32:
		return "Float32"
	case KindFloat64:
		return "Float64"
	case KindBool:
		return "Bool"
	case KindBinaryString:
		return "BinaryString"
	case KindOpaqueBinary:
		return "OpaqueBinary"
	case KindEnumLike:
		return "EnumLike"
	case KindUUID:
		return "Uuid"
	case KindDecimal:
		return "Decimal"
	case KindDateOnly:
		return "DateOnly"
	case KindTimeOfDay:
		return "TimeOfDay"
	case KindLocalTimestamp:
		return "LocalTimestamp"
	case KindInstantTimestamp:
		return "InstantTimestamp"
	case KindList:
		return "List"
	case KindSet:
		return "Set"
	case KindMap:
		return "Map"
	case KindRecordRef:
		return "RecordRef"
	default:
		return "Unknown"
	}
}

// BinaryAlias retargets the logical annotation of a BinaryString or
// OpaqueBinary field (spec §3, §4.1.4).
type BinaryAlias int

const (
	// AliasNone marks an OpaqueBinary field with no logical annotation at
	// all (raw bytes). It is never valid on BinaryString, whose default is
	// AliasString.
	AliasNone BinaryAlias = iota
	AliasString
	AliasEnum
	AliasJSON
	AliasBSON
	AliasGeometry
	AliasGeography
)

// GeoParams carries the extra parameters of the Geometry/Geography aliases.
type GeoParams struct {
	CRS          string
	EdgeAlgoritm string // only meaningful for AliasGeography
}

// FieldType is the tagged union described in spec §3. Exactly one of the
// variant-specific fields is meaningful, selected by Kind; this mirrors the
// "tagged union instead of class hierarchy" design note in spec §9 (dynamic
// dispatch on FieldType).
type FieldType struct {
	Kind     Kind
	Nullable bool
	FieldID  *int

	// BinaryString / OpaqueBinary / EnumLike
	Alias     BinaryAlias
	Geo       GeoParams
	EnumAlpha []string // optional enum alphabet, EnumLike only

	// Decimal
	Precision int
	Scale     int
	Rounding  RoundingMode
	hasRound  bool

	// TimeOfDay / LocalTimestamp / InstantTimestamp
	TimeUnit    TimeUnit
	hasTimeUnit bool

	// List / Set
	Element *FieldType

	// Map
	MapKey   *FieldType
	MapValue *FieldType

	// RecordRef
	Record *RecordDescriptor
}

func (t FieldType) String() string { return t.Kind.String() }

func (t FieldType) isCollection() bool { return t.Kind == KindList || t.Kind == KindSet }

func (t FieldType) isListOrMap() bool { return t.isCollection() || t.Kind == KindMap }

// effectiveTimeUnit returns the field's own TimeUnit override, or falls back
// to cfg.DefaultTimeUnit (spec §4.2.1).
func (t FieldType) effectiveTimeUnit(cfg *Config) TimeUnit {
	if t.hasTimeUnit {
		return t.TimeUnit
	}
	return cfg.DefaultTimeUnit
}

// Constructors for the primitive variants. Each returns a required
// (non-nullable) FieldType by default; call .AsNullable() to flip it.

func Int32Type() FieldType   { return FieldType{Kind: KindInt32} }
func Int64Type() FieldType   { return FieldType{Kind: KindInt64} }
func Int16Type() FieldType   { return FieldType{Kind: KindInt16} }
func Int8Type() FieldType    { return FieldType{Kind: KindInt8} }
func Float32Type() FieldType { return FieldType{Kind: KindFloat32} }
func Float64Type() FieldType { return FieldType{Kind: KindFloat64} }
func BoolType() FieldType    { return FieldType{Kind: KindBool} }

func StringType() FieldType { return FieldType{Kind: KindBinaryString, Alias: AliasString} }

func BinaryType(alias BinaryAlias, geo GeoParams) FieldType {
	return FieldType{Kind: KindOpaqueBinary, Alias: alias, Geo: geo}
}

// OpaqueBinaryType constructs a raw-bytes OpaqueBinary field with no
// logical annotation.
func OpaqueBinaryType() FieldType { return FieldType{Kind: KindOpaqueBinary, Alias: AliasNone} }

func EnumType(alphabet []string) FieldType {
	return FieldType{Kind: KindEnumLike, Alias: AliasEnum, EnumAlpha: alphabet}
}

func UUIDType() FieldType { return FieldType{Kind: KindUUID} }

func DecimalType(precision, scale int) FieldType {
	return FieldType{Kind: KindDecimal, Precision: precision, Scale: scale}
}

func (t FieldType) WithRounding(mode RoundingMode) FieldType {
	t.Rounding = mode
	t.hasRound = true
	return t
}

func DateOnlyType() FieldType { return FieldType{Kind: KindDateOnly} }

func TimeOfDayType() FieldType { return FieldType{Kind: KindTimeOfDay} }

func LocalTimestampType() FieldType { return FieldType{Kind: KindLocalTimestamp} }

func InstantTimestampType() FieldType { return FieldType{Kind: KindInstantTimestamp} }

func (t FieldType) WithTimeUnit(unit TimeUnit) FieldType {
	t.TimeUnit = unit
	t.hasTimeUnit = true
	return t
}

func ListType(element FieldType) FieldType {
	e := element
	return FieldType{Kind: KindList, Element: &e}
}

func SetType(element FieldType) FieldType {
	e := element
	return FieldType{Kind: KindSet, Element: &e}
}

func MapType(key, value FieldType) FieldType {
	k, v := key, value
	return FieldType{Kind: KindMap, MapKey: &k, MapValue: &v}
}

func RecordRefType(descriptor *RecordDescriptor) FieldType {
	return FieldType{Kind: KindRecordRef, Record: descriptor}
}

// AsNullable returns a copy of t with Nullable set to true.
func (t FieldType) AsNullable() FieldType {
	t.Nullable = true
	return t
}

// AsRequired returns a copy of t with Nullable set to false.
func (t FieldType) AsRequired() FieldType {
	t.Nullable = false
	return t
}

// WithFieldID returns a copy of t carrying an explicit Parquet field id.
func (t FieldType) WithFieldID(id int) FieldType {
	t.FieldID = &id
	return t
}

// AsString retargets a BinaryString/OpaqueBinary/EnumLike field to the
// plain STRING logical annotation (spec §3: EnumLike.asString()).
func (t FieldType) AsString() FieldType {
	t.Alias = AliasString
	return t
}
