package carpet

// Converter is the reader-driven pull protocol's common supertype (spec
// §6.3). It carries no methods of its own; callers type-assert to
// GroupConverter or PrimitiveConverter depending on the schema node.
type Converter interface {
	isConverter()
}

// GroupConverter is driven by the external reader once per group occurrence:
// Start(), then GetConverter(i) for each child field as it's encountered,
// then End() once the group is complete.
type GroupConverter interface {
	Converter
	GetConverter(i int) Converter
	Start()
	End()
}

// PrimitiveConverter is driven once per leaf value. Only the method matching
// the schema leaf's physical type is ever called by a correct reader; the
// others are wrong-physical-type programmer errors and panic, mirroring the
// teacher's UnsupportedOperationException-style base converter.
type PrimitiveConverter interface {
	Converter
	AddInteger(value int32)
	AddLong(value int64)
	AddFloat(value float32)
	AddDouble(value float64)
	AddBoolean(value bool)
	AddBinary(value []byte)

	// HasDictionarySupport reports whether SetDictionary/AddValueFromDictionary
	// may be used instead of the AddX calls above for this converter.
	HasDictionarySupport() bool
	SetDictionary(entries [][]byte)
	AddValueFromDictionary(id int)
}

// unsupportedConverter is embedded by every leaf converter; each leaf then
// shadows only the one method matching its physical type.
type unsupportedConverter struct{ field string }

func (unsupportedConverter) isConverter() {}

func (c unsupportedConverter) AddInteger(int32) { panic(wrongPhysical(c.field, "INT32")) }
func (c unsupportedConverter) AddLong(int64)    { panic(wrongPhysical(c.field, "INT64")) }
func (c unsupportedConverter) AddFloat(float32) { panic(wrongPhysical(c.field, "FLOAT")) }
func (c unsupportedConverter) AddDouble(float64) { panic(wrongPhysical(c.field, "DOUBLE")) }
func (c unsupportedConverter) AddBoolean(bool)  { panic(wrongPhysical(c.field, "BOOLEAN")) }
func (c unsupportedConverter) AddBinary([]byte) { panic(wrongPhysical(c.field, "BYTE_ARRAY")) }

func (unsupportedConverter) HasDictionarySupport() bool     { return false }
func (c unsupportedConverter) SetDictionary([][]byte)        { panic(wrongPhysical(c.field, "dictionary")) }
func (c unsupportedConverter) AddValueFromDictionary(int)     { panic(wrongPhysical(c.field, "dictionary")) }

func wrongPhysical(field, kind string) error {
	return newConversionError("converter does not accept " + kind).withField(field)
}
