package carpet

// flushable is implemented by converters attached directly to a bare
// repeated field (ONE-level lists, spec §4.4.5): unlike every other group/
// list/map converter, a bare repeated field has no enclosing group of its
// own, so nothing naturally calls End() once per row. The in-memory reader
// driver (memsource.go) calls flush() itself right after it has driven every
// repetition of that field for the row.
type flushable interface {
	flush()
}

// repeatedPrimitiveList handles a bare repeated field whose element is a
// primitive leaf: the driver calls AddInteger/AddLong/... once per
// repetition, which is forwarded straight to inner.
type repeatedPrimitiveList struct {
	unsupportedConverter
	inner    PrimitiveConverter
	elements []any
	assign   func(any)
}

func (c *repeatedPrimitiveList) append(v any) { c.elements = append(c.elements, v) }

func (c *repeatedPrimitiveList) AddInteger(v int32) { c.inner.AddInteger(v) }
func (c *repeatedPrimitiveList) AddLong(v int64)    { c.inner.AddLong(v) }
func (c *repeatedPrimitiveList) AddFloat(v float32) { c.inner.AddFloat(v) }
func (c *repeatedPrimitiveList) AddDouble(v float64) { c.inner.AddDouble(v) }
func (c *repeatedPrimitiveList) AddBoolean(v bool)  { c.inner.AddBoolean(v) }
func (c *repeatedPrimitiveList) AddBinary(v []byte) { c.inner.AddBinary(v) }

func (c *repeatedPrimitiveList) flush() {
	c.assign(newGenericList(c.elements))
	c.elements = c.elements[:0]
}

// repeatedGroupList handles a bare repeated field whose element is a group
// (a nested record, or a nested list/map, per spec §4.2.3 "nested maps are
// allowed as a repeated map-typed field" in ONE-level mode): the driver
// calls Start()/...children.../End() once per repetition.
type repeatedGroupList struct {
	inner    GroupConverter
	elements []any
	assign   func(any)
}

func (*repeatedGroupList) isConverter() {}

func (c *repeatedGroupList) GetConverter(i int) Converter { return c.inner.GetConverter(i) }
func (c *repeatedGroupList) Start()                       { c.inner.Start() }
func (c *repeatedGroupList) End()                         { c.inner.End() }

func (c *repeatedGroupList) append(v any) { c.elements = append(c.elements, v) }

func (c *repeatedGroupList) flush() {
	c.assign(newGenericList(c.elements))
	c.elements = c.elements[:0]
}

func buildRepeatedConverter(node *Node, elementType FieldType, cfg *Config, assign func(any)) (Converter, error) {
	if node.IsLeaf() {
		rl := &repeatedPrimitiveList{assign: assign}
		inner, err := buildChildConverter(node, elementType, cfg, rl.append)
		if err != nil {
			return nil, err
		}
		rl.inner = inner.(PrimitiveConverter)
		return rl, nil
	}

	rl := &repeatedGroupList{assign: assign}
	inner, err := buildChildConverter(node, elementType, cfg, rl.append)
	if err != nil {
		return nil, err
	}
	rl.inner = inner.(GroupConverter)
	return rl, nil
}
