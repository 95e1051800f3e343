package carpet

// PhysicalType is the Parquet physical (on-disk) type of a leaf column.
type PhysicalType int

const (
	PhysicalBoolean PhysicalType = iota
	PhysicalInt32
	PhysicalInt64
	PhysicalFloat
	PhysicalDouble
	PhysicalByteArray
	PhysicalFixedLenByteArray
)

func (p PhysicalType) String() string {
	switch p {
	case PhysicalBoolean:
		return "BOOLEAN"
	case PhysicalInt32:
		return "INT32"
	case PhysicalInt64:
		return "INT64"
	case PhysicalFloat:
		return "FLOAT"
	case PhysicalDouble:
		return "DOUBLE"
	case PhysicalByteArray:
		return "BYTE_ARRAY"
	case PhysicalFixedLenByteArray:
		return "FIXED_LEN_BYTE_ARRAY"
	default:
		return "UNKNOWN"
	}
}

// LogicalKind enumerates the logical-type annotations Carpet emits (spec
// §6.1): bit-compatible with the Parquet LogicalType union.
type LogicalKind int

const (
	LogicalNone LogicalKind = iota
	LogicalString
	LogicalEnum
	LogicalJSON
	LogicalBSON
	LogicalGeometry
	LogicalGeography
	LogicalUUID
	LogicalDecimal
	LogicalDate
	LogicalTime
	LogicalTimestamp
	LogicalInteger
	LogicalList
	LogicalMap
)

func (k LogicalKind) String() string {
	switch k {
	case LogicalString:
		return "STRING"
	case LogicalEnum:
		return "ENUM"
	case LogicalJSON:
		return "JSON"
	case LogicalBSON:
		return "BSON"
	case LogicalGeometry:
		return "GEOMETRY"
	case LogicalGeography:
		return "GEOGRAPHY"
	case LogicalUUID:
		return "UUID"
	case LogicalDecimal:
		return "DECIMAL"
	case LogicalDate:
		return "DATE"
	case LogicalTime:
		return "TIME"
	case LogicalTimestamp:
		return "TIMESTAMP"
	case LogicalInteger:
		return "INTEGER"
	case LogicalList:
		return "LIST"
	case LogicalMap:
		return "MAP"
	default:
		return "NONE"
	}
}

// LogicalType carries the annotation-specific parameters (spec §3/§6.1).
type LogicalType struct {
	Kind LogicalKind

	// GEOMETRY/GEOGRAPHY
	CRS          string
	EdgeAlgoritm string

	// DECIMAL
	Precision int
	Scale     int

	// TIME/TIMESTAMP
	IsAdjustedToUTC bool
	Unit            TimeUnit

	// INTEGER
	BitWidth int
	IsSigned bool
}

func aliasToLogicalKind(alias BinaryAlias) LogicalKind {
	switch alias {
	case AliasString:
		return LogicalString
	case AliasEnum:
		return LogicalEnum
	case AliasJSON:
		return LogicalJSON
	case AliasBSON:
		return LogicalBSON
	case AliasGeometry:
		return LogicalGeometry
	case AliasGeography:
		return LogicalGeography
	default:
		return LogicalNone
	}
}
