package carpet

// driveGroup replays one group occurrence's fields into conv following
// node's child order, mirroring how an external Parquet reader would call
// getConverter(i)/start()/end() (spec §4.4.1).
func driveGroup(conv GroupConverter, node *Node, record *memRecord) {
	conv.Start()
	for i, child := range node.Children {
		f, ok := record.byName[child.Name]
		if !ok || len(f.occurrences) == 0 {
			continue // optional field absent, or a null element never recorded
		}
		driveField(conv.GetConverter(i), child, f)
	}
	conv.End()
}

// driveField drives every occurrence of one schema field. A Repeated node
// (whether a bare repeated leaf/group, or the inner repeated child of a
// list/map annotation) is driven once per occurrence and then flushed if its
// converter owns its own accumulation (spec §4.4.5); any other repetition
// (required/optional) is driven exactly once.
func driveField(conv Converter, node *Node, f *memField) {
	if node.Repetition == Repeated {
		for _, occ := range f.occurrences {
			driveOccurrence(conv, node, occ)
		}
		if fl, ok := conv.(flushable); ok {
			fl.flush()
		}
		return
	}
	driveOccurrence(conv, node, f.occurrences[0])
}

func driveOccurrence(conv Converter, node *Node, occ *memCell) {
	if node.IsLeaf() {
		driveScalar(conv.(PrimitiveConverter), occ.scalar)
		return
	}
	driveGroup(conv.(GroupConverter), node, occ.group)
}

func driveScalar(conv PrimitiveConverter, scalar any) {
	switch v := scalar.(type) {
	case int32:
		conv.AddInteger(v)
	case int64:
		conv.AddLong(v)
	case float32:
		conv.AddFloat(v)
	case float64:
		conv.AddDouble(v)
	case bool:
		conv.AddBoolean(v)
	case []byte:
		conv.AddBinary(v)
	}
}

// ReadRow drives one in-memory row through a freshly built converter tree
// for descriptor/schema, returning the reconstructed record (a Go value of
// descriptor.GoType's type, or a *RecordMap when descriptor has no GoType).
func ReadRow(schema *MessageType, descriptor *RecordDescriptor, cfg *Config, row *memRecord) (any, error) {
	var result any
	conv, err := BuildGroupConverter(schema, descriptor, cfg, func(v any) { result = v })
	if err != nil {
		return nil, err
	}
	driveGroup(conv, schema, row)
	return result, nil
}
