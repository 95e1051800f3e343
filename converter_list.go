package carpet

// genericList is the slot payload for a List/Set field: an ordered sequence
// of already-decoded element values, with a nil entry meaning "null element"
// (only possible in THREE-level mode, spec §4.2.3/§4.4.3).
type genericList struct {
	elements []any
}

func newGenericList(elements []any) *genericList {
	out := make([]any, len(elements))
	copy(out, elements)
	return &genericList{elements: out}
}

// listConverter is the GroupConverter for a TWO- or THREE-level annotated
// list field (spec §4.4.3). GetConverter(0) always returns the same child,
// representing "one repeated occurrence"; the driver invokes it once per
// element.
type listConverter struct {
	elements   []any
	occurrence Converter
	assign     func(any)
}

func (*listConverter) isConverter() {}

func (l *listConverter) GetConverter(int) Converter { return l.occurrence }

func (l *listConverter) Start() { l.elements = l.elements[:0] }

func (l *listConverter) End() { l.assign(newGenericList(l.elements)) }

func (l *listConverter) append(v any) { l.elements = append(l.elements, v) }

// threeLevelElementHolder is the per-repetition "list" group in THREE-level
// mode: Start() clears the single slot, End() pushes whatever landed there
// (nil if the driver never drove the "element" child, meaning a null
// element) onto the owning listConverter.
type threeLevelElementHolder struct {
	element Converter
	slot    any
	owner   *listConverter
}

func (*threeLevelElementHolder) isConverter() {}

func (h *threeLevelElementHolder) GetConverter(int) Converter { return h.element }

func (h *threeLevelElementHolder) Start() { h.slot = nil }

func (h *threeLevelElementHolder) End() { h.owner.append(h.slot) }

// buildListConverter implements spec §4.4.3 and the two-vs-three-level
// heuristic of §4.4.8: our own writer always names the innermost repeated
// field's sole child "element" in THREE-level mode, and names the repeated
// field itself "element" directly in TWO-level mode, so the rule "inner has
// exactly one child literally named element" is sufficient and accepts
// files produced by either of our own writer shapes.
func buildListConverter(node *Node, elementType FieldType, isSet bool, cfg *Config, assign func(any)) (Converter, error) {
	_ = isSet // container flavor is resolved at record-construction time via the Go field's own declared type
	inner := node.Children[0]
	lc := &listConverter{assign: assign}

	if len(inner.Children) == 1 && inner.Children[0].Name == "element" && inner.Repetition == Repeated {
		elementNode := inner.Children[0]
		holder := &threeLevelElementHolder{owner: lc}
		elemConv, err := buildChildConverter(elementNode, elementType, cfg, func(v any) { holder.slot = v })
		if err != nil {
			return nil, err
		}
		holder.element = elemConv
		lc.occurrence = holder
		return lc, nil
	}

	elemConv, err := buildChildConverter(inner, elementType, cfg, lc.append)
	if err != nil {
		return nil, err
	}
	lc.occurrence = elemConv
	return lc, nil
}
