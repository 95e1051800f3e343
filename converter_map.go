package carpet

// genericMapEntry is one decoded key/value pair; Value may be nil (an
// optional map value that was absent), Key is never nil for a well-formed
// file (null keys are dropped per spec §4.3.4/§4.4.4, mirrored here too).
type genericMapEntry struct {
	Key   any
	Value any
}

// genericMapEntries is the slot payload for a Map field: an ordered
// sequence of key/value pairs (spec §8.3 S8: "iterates entries in
// schema-declared field order").
type genericMapEntries struct {
	entries []genericMapEntry
}

// mapConverter is the GroupConverter for the map-annotated group: its single
// child is the repeated "key_value" group (spec §4.4.4).
type mapConverter struct {
	entries []genericMapEntry
	kv      Converter
	assign  func(any)
}

func (*mapConverter) isConverter() {}

func (m *mapConverter) GetConverter(int) Converter { return m.kv }

func (m *mapConverter) Start() { m.entries = m.entries[:0] }

func (m *mapConverter) End() {
	out := make([]genericMapEntry, len(m.entries))
	copy(out, m.entries)
	m.assign(&genericMapEntries{entries: out})
}

// keyValueConverter is the per-repetition "key_value" group: Start() clears
// the pending key/value slots, End() appends the completed pair (if the key
// was set) to the owning mapConverter.
type keyValueConverter struct {
	key, value Converter
	keySlot    any
	valueSlot  any
	owner      *mapConverter
}

func (*keyValueConverter) isConverter() {}

func (kv *keyValueConverter) GetConverter(i int) Converter {
	if i == 0 {
		return kv.key
	}
	return kv.value
}

func (kv *keyValueConverter) Start() {
	kv.keySlot = nil
	kv.valueSlot = nil
}

func (kv *keyValueConverter) End() {
	if kv.keySlot == nil {
		return // null key: drop the entry (spec §4.3.4/§4.4.4)
	}
	kv.owner.entries = append(kv.owner.entries, genericMapEntry{Key: kv.keySlot, Value: kv.valueSlot})
}

func buildMapConverter(node *Node, keyType, valueType FieldType, cfg *Config, assign func(any)) (Converter, error) {
	keyValueNode := node.Children[0] // "key_value"
	mc := &mapConverter{assign: assign}
	kv := &keyValueConverter{owner: mc}

	keyConv, err := buildChildConverter(keyValueNode.Children[0], keyType, cfg, func(v any) { kv.keySlot = v })
	if err != nil {
		return nil, err
	}
	valueConv, err := buildChildConverter(keyValueNode.Children[1], valueType, cfg, func(v any) { kv.valueSlot = v })
	if err != nil {
		return nil, err
	}
	kv.key, kv.value = keyConv, valueConv
	mc.kv = kv
	return mc, nil
}
