package carpet

// Repetition is Parquet's required/optional/repeated marker (spec
// glossary: "Repetition").
type Repetition int

const (
	Required Repetition = iota
	Optional
	Repeated
)

func (r Repetition) String() string {
	switch r {
	case Required:
		return "required"
	case Optional:
		return "optional"
	case Repeated:
		return "repeated"
	default:
		return "unknown"
	}
}

// Node is a single vertex of the derived Parquet schema tree: either a
// group (Children != nil, Physical unset) or a leaf (Physical set,
// Children == nil). A single struct models both MessageType/GroupType/
// PrimitiveType, matching the "tagged union instead of class hierarchy"
// design note (spec §9) used for FieldType.
type Node struct {
	Name       string
	Repetition Repetition
	FieldID    *int

	// Leaf-only.
	Physical    *PhysicalType
	Length      int // meaningful only for PhysicalFixedLenByteArray
	Logical     *LogicalType

	// Group-only. A non-nil Logical on a group means LIST or MAP framing.
	Children []*Node
}

func (n *Node) IsLeaf() bool { return n.Physical != nil }

// MessageType is the root of a derived schema: a required group node named
// after the RecordDescriptor.
type MessageType = Node

// DeriveSchema turns descriptor into a MessageType per spec §4.2, using cfg
// for annotatedLevels/defaultTimeUnit/decimalConfig/columnNamingStrategy
// (columnNamingStrategy only matters to the reflective front-end; by the
// time a RecordDescriptor exists its column names are already fixed).
func DeriveSchema(descriptor *RecordDescriptor, cfg *Config) (*MessageType, error) {
	root := &Node{Name: descriptor.Name, Repetition: Required}
	visiting := map[*RecordDescriptor]bool{descriptor: true}
	defer delete(visiting, descriptor)

	for _, field := range descriptor.Fields {
		child, err := nodeFor(field.Name, field.Type, cfg, visiting)
		if err != nil {
			return nil, err
		}
		child.FieldID = field.Type.FieldID
		root.Children = append(root.Children, child)
	}
	return root, nil
}

func nodeFor(name string, ft FieldType, cfg *Config, visiting map[*RecordDescriptor]bool) (*Node, error) {
	repetition := Required
	if ft.Nullable {
		repetition = Optional
	}

	switch ft.Kind {
	case KindInt32:
		return leaf(name, repetition, PhysicalInt32, nil), nil
	case KindInt64:
		return leaf(name, repetition, PhysicalInt64, nil), nil
	case KindInt16:
		return leaf(name, repetition, PhysicalInt32, &LogicalType{Kind: LogicalInteger, BitWidth: 16, IsSigned: true}), nil
	case KindInt8:
		return leaf(name, repetition, PhysicalInt32, &LogicalType{Kind: LogicalInteger, BitWidth: 8, IsSigned: true}), nil
	case KindFloat32:
		return leaf(name, repetition, PhysicalFloat, nil), nil
	case KindFloat64:
		return leaf(name, repetition, PhysicalDouble, nil), nil
	case KindBool:
		return leaf(name, repetition, PhysicalBoolean, nil), nil

	case KindBinaryString:
		return leaf(name, repetition, PhysicalByteArray, &LogicalType{Kind: aliasToLogicalKind(ft.Alias)}), nil

	case KindOpaqueBinary:
		var lt *LogicalType
		if ft.Alias != AliasNone {
			lt = &LogicalType{Kind: aliasToLogicalKind(ft.Alias), CRS: ft.Geo.CRS, EdgeAlgoritm: ft.Geo.EdgeAlgoritm}
		}
		return leaf(name, repetition, PhysicalByteArray, lt), nil

	case KindEnumLike:
		return leaf(name, repetition, PhysicalByteArray, &LogicalType{Kind: aliasToLogicalKind(ft.Alias)}), nil

	case KindUUID:
		n := leaf(name, repetition, PhysicalFixedLenByteArray, &LogicalType{Kind: LogicalUUID})
		n.Length = 16
		return n, nil

	case KindDecimal:
		physical, length := decimalPhysical(ft.Precision)
		n := leaf(name, repetition, physical, &LogicalType{Kind: LogicalDecimal, Precision: ft.Precision, Scale: ft.Scale})
		n.Length = length
		return n, nil

	case KindDateOnly:
		return leaf(name, repetition, PhysicalInt32, &LogicalType{Kind: LogicalDate}), nil

	case KindTimeOfDay:
		unit := ft.effectiveTimeUnit(cfg)
		physical := PhysicalInt64
		if unit == Millis {
			physical = PhysicalInt32
		}
		return leaf(name, repetition, physical, &LogicalType{Kind: LogicalTime, Unit: unit}), nil

	case KindLocalTimestamp:
		unit := ft.effectiveTimeUnit(cfg)
		return leaf(name, repetition, PhysicalInt64, &LogicalType{Kind: LogicalTimestamp, Unit: unit, IsAdjustedToUTC: false}), nil

	case KindInstantTimestamp:
		unit := ft.effectiveTimeUnit(cfg)
		return leaf(name, repetition, PhysicalInt64, &LogicalType{Kind: LogicalTimestamp, Unit: unit, IsAdjustedToUTC: true}), nil

	case KindList, KindSet:
		return listNode(name, repetition, *ft.Element, cfg, visiting)

	case KindMap:
		return mapNode(name, repetition, *ft.MapKey, *ft.MapValue, cfg, visiting)

	case KindRecordRef:
		return recordNode(name, repetition, ft.Record, cfg, visiting)

	default:
		return nil, errUnsupportedType(name, ft.Kind.String())
	}
}

func leaf(name string, repetition Repetition, physical PhysicalType, logical *LogicalType) *Node {
	p := physical
	return &Node{Name: name, Repetition: repetition, Physical: &p, Logical: logical}
}

func decimalPhysical(precision int) (PhysicalType, int) {
	switch {
	case precision <= 9:
		return PhysicalInt32, 0
	case precision <= 18:
		return PhysicalInt64, 0
	default:
		// Variable-length bytes (spec §3); length 0 signals BYTE_ARRAY
		// rather than a FIXED_LEN_BYTE_ARRAY.
		return PhysicalByteArray, 0
	}
}

func recordNode(name string, repetition Repetition, record *RecordDescriptor, cfg *Config, visiting map[*RecordDescriptor]bool) (*Node, error) {
	if visiting[record] {
		return nil, errRecursiveRecord(record.Name)
	}
	visiting[record] = true
	defer delete(visiting, record)

	group := &Node{Name: name, Repetition: repetition}
	for _, field := range record.Fields {
		child, err := nodeFor(field.Name, field.Type, cfg, visiting)
		if err != nil {
			return nil, err
		}
		child.FieldID = field.Type.FieldID
		group.Children = append(group.Children, child)
	}
	return group, nil
}

func listNode(name string, repetition Repetition, element FieldType, cfg *Config, visiting map[*RecordDescriptor]bool) (*Node, error) {
	switch cfg.AnnotatedLevel {
	case OneLevel:
		if element.isCollection() {
			return nil, errNestedListOneLevel(name)
		}
		elemNode, err := nodeFor(name, element.AsRequired(), cfg, visiting)
		if err != nil {
			return nil, err
		}
		elemNode.Repetition = Repeated
		return elemNode, nil

	case TwoLevel:
		elemNode, err := nodeFor("element", element.AsRequired(), cfg, visiting)
		if err != nil {
			return nil, err
		}
		elemNode.Repetition = Repeated
		return &Node{
			Name: name, Repetition: repetition,
			Logical:  &LogicalType{Kind: LogicalList},
			Children: []*Node{elemNode},
		}, nil

	default: // ThreeLevel
		elemNode, err := nodeFor("element", element, cfg, visiting)
		if err != nil {
			return nil, err
		}
		listGroup := &Node{Name: "list", Repetition: Repeated, Children: []*Node{elemNode}}
		return &Node{
			Name: name, Repetition: repetition,
			Logical:  &LogicalType{Kind: LogicalList},
			Children: []*Node{listGroup},
		}, nil
	}
}

func mapNode(name string, repetition Repetition, key, value FieldType, cfg *Config, visiting map[*RecordDescriptor]bool) (*Node, error) {
	if key.isListOrMap() {
		return nil, errNonScalarMapKey(name)
	}
	keyNode, err := nodeFor("key", key.AsRequired(), cfg, visiting)
	if err != nil {
		return nil, err
	}
	keyNode.Repetition = Required
	valueNode, err := nodeFor("value", value, cfg, visiting)
	if err != nil {
		return nil, err
	}
	keyValue := &Node{Name: "key_value", Repetition: Repeated, Children: []*Node{keyNode, valueNode}}
	return &Node{
		Name: name, Repetition: repetition,
		Logical:  &LogicalType{Kind: LogicalMap},
		Children: []*Node{keyValue},
	}, nil
}
