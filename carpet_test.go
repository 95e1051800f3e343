package carpet

import (
	"reflect"
	"testing"
)

// --- S1: primitive record -------------------------------------------------

func TestEndToEndPrimitiveRecord(t *testing.T) {
	type point struct {
		X int32
		Y int32
	}

	cfg := DefaultConfig()
	writer, err := NewCarpetWriter[point](cfg)
	if err != nil {
		t.Fatalf("NewCarpetWriter: %v", err)
	}

	want := strJoin(
		"required INT32 X",
		"required INT32 Y",
	)
	requireEqualSchema(t, want, dumpSchema(writer.Schema(), ""))

	if err := writer.Write(point{X: 3, Y: 4}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	reader, err := NewCarpetReader[point](writer.Sink().Rows(), cfg)
	if err != nil {
		t.Fatalf("NewCarpetReader: %v", err)
	}
	for got, err := range reader.All() {
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if got.X != 3 || got.Y != 4 {
			t.Fatalf("got %+v, want {3 4}", got)
		}
	}
}

// --- S2: nullable string with alias ---------------------------------------

func TestEndToEndNullableStringAlias(t *testing.T) {
	type user struct {
		ID   int64
		Name *string `carpet:"full_name"`
	}

	cfg := DefaultConfig()
	writer, err := NewCarpetWriter[user](cfg)
	if err != nil {
		t.Fatalf("NewCarpetWriter: %v", err)
	}

	want := strJoin(
		"required INT64 ID",
		"optional BYTE_ARRAY (STRING) full_name",
	)
	requireEqualSchema(t, want, dumpSchema(writer.Schema(), ""))

	ada := "Ada"
	if err := writer.WriteAll([]user{{ID: 1, Name: &ada}, {ID: 2, Name: nil}}); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}

	reader, err := NewCarpetReader[user](writer.Sink().Rows(), cfg)
	if err != nil {
		t.Fatalf("NewCarpetReader: %v", err)
	}
	var got []user
	for rec, err := range reader.All() {
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		got = append(got, rec)
	}
	if len(got) != 2 || got[0].ID != 1 || got[0].Name == nil || *got[0].Name != "Ada" {
		t.Fatalf("row 0 = %+v", got[0])
	}
	if got[1].ID != 2 || got[1].Name != nil {
		t.Fatalf("row 1 = %+v", got[1])
	}
}

// --- S3: three-level list of records ---------------------------------------

func TestEndToEndThreeLevelListOfRecords(t *testing.T) {
	type item struct {
		Sku string
		Qty int32
	}
	type order struct {
		Items []item
	}

	cfg := DefaultConfig() // ThreeLevel is the default
	writer, err := NewCarpetWriter[order](cfg)
	if err != nil {
		t.Fatalf("NewCarpetWriter: %v", err)
	}

	want := strJoin(
		"optional group Items (LIST)",
		"  repeated group list",
		"    optional group element",
		"      required BYTE_ARRAY (STRING) Sku",
		"      required INT32 Qty",
	)
	requireEqualSchema(t, want, dumpSchema(writer.Schema(), ""))

	in := order{Items: []item{{Sku: "a", Qty: 1}, {Sku: "b", Qty: 2}}}
	if err := writer.Write(in); err != nil {
		t.Fatalf("Write: %v", err)
	}

	reader, err := NewCarpetReader[order](writer.Sink().Rows(), cfg)
	if err != nil {
		t.Fatalf("NewCarpetReader: %v", err)
	}
	for got, err := range reader.All() {
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if !reflect.DeepEqual(got, in) {
			t.Fatalf("got %+v, want %+v", got, in)
		}
	}
}

// --- S4: map with nested list ------------------------------------------------

func TestEndToEndMapWithNestedList(t *testing.T) {
	type doc struct {
		Tags map[string][]string
	}

	cfg := DefaultConfig()
	writer, err := NewCarpetWriter[doc](cfg)
	if err != nil {
		t.Fatalf("NewCarpetWriter: %v", err)
	}

	want := strJoin(
		"optional group Tags (MAP)",
		"  repeated group key_value",
		"    required BYTE_ARRAY (STRING) key",
		"    optional group value (LIST)",
		"      repeated group list",
		"        required BYTE_ARRAY (STRING) element",
	)
	requireEqualSchema(t, want, dumpSchema(writer.Schema(), ""))

	in := doc{Tags: map[string][]string{"x": {"p", "q"}, "y": {}}}
	if err := writer.Write(in); err != nil {
		t.Fatalf("Write: %v", err)
	}

	reader, err := NewCarpetReader[doc](writer.Sink().Rows(), cfg)
	if err != nil {
		t.Fatalf("NewCarpetReader: %v", err)
	}
	for got, err := range reader.All() {
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if !reflect.DeepEqual(got.Tags["x"], in.Tags["x"]) {
			t.Fatalf("tags[x] = %v, want %v", got.Tags["x"], in.Tags["x"])
		}
		if got.Tags["y"] == nil || len(got.Tags["y"]) != 0 {
			t.Fatalf("tags[y] = %#v, want a non-nil empty slice", got.Tags["y"])
		}
	}
}

// --- S5: decimal rescale ----------------------------------------------------

func TestEndToEndDecimalRescale(t *testing.T) {
	type priceRowStrict struct {
		Price Decimal `carpet:"price,decimal=10:2"`
	}

	d, err := ParseDecimal("1.234")
	if err != nil {
		t.Fatalf("ParseDecimal: %v", err)
	}

	strictCfg := DefaultConfig()
	writer, err := NewCarpetWriter[priceRowStrict](strictCfg)
	if err != nil {
		t.Fatalf("NewCarpetWriter: %v", err)
	}
	if err := writer.Write(priceRowStrict{Price: d}); err == nil {
		t.Fatalf("Write: expected an inexact-rescale error, got nil")
	}

	type priceRowRounded struct {
		Price Decimal `carpet:"price,decimal=10:2,rounding=halfup"`
	}
	roundedWriter, err := NewCarpetWriter[priceRowRounded](DefaultConfig())
	if err != nil {
		t.Fatalf("NewCarpetWriter: %v", err)
	}
	d2, _ := ParseDecimal("1.234")
	if err := roundedWriter.Write(priceRowRounded{Price: d2}); err != nil {
		t.Fatalf("Write with rounding=halfup: %v", err)
	}

	reader, err := NewCarpetReader[priceRowRounded](roundedWriter.Sink().Rows(), DefaultConfig())
	if err != nil {
		t.Fatalf("NewCarpetReader: %v", err)
	}
	for got, err := range reader.All() {
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if got.Price.String() != "1.23" {
			t.Fatalf("Price = %s, want 1.23", got.Price.String())
		}
	}
}

// --- S6: widening on read ----------------------------------------------------

func TestWideningOnRead(t *testing.T) {
	descriptor := &RecordDescriptor{
		Name:   "Widen",
		Fields: []FieldDescriptor{{Name: "v", Type: Int32Type()}},
	}
	int64Physical := PhysicalInt64
	schema := &MessageType{
		Name:       "Widen",
		Repetition: Required,
		Children: []*Node{
			{Name: "v", Repetition: Required, Physical: &int64Physical},
		},
	}
	cfg := DefaultConfig()

	cases := []struct {
		name    string
		written int64
		want    int32
	}{
		{"in range", 7, 7},
		{"overflow truncates", 4294967301, 5}, // 2^32 + 5
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			sink := NewMemSink()
			sink.BeginRow()
			sink.StartField("v", 0)
			sink.AddLong(c.written)
			sink.EndField("v", 0)
			sink.EndRow()

			value, err := ReadRow(schema, descriptor, cfg, sink.Rows()[0])
			if err != nil {
				t.Fatalf("ReadRow: %v", err)
			}
			rm := value.(*RecordMap)
			got, ok := rm.Get("v")
			if !ok {
				t.Fatalf("column v missing")
			}
			if got.(int32) != c.want {
				t.Fatalf("v = %v, want %v", got, c.want)
			}
		})
	}
}

// --- S7: two-level list rejects a nullable element ---------------------------

func TestTwoLevelListRejectsNullableElement(t *testing.T) {
	type listHolder struct {
		Items []*string
	}

	cfg := NewConfig(WithAnnotatedLevel(TwoLevel))
	if _, err := NewCarpetWriter[listHolder](cfg); err == nil {
		t.Fatalf("NewCarpetWriter: expected TWO-level nullable-element rejection, got nil")
	}
}

// --- S8: generic map view -----------------------------------------------------

func TestGenericMapView(t *testing.T) {
	type mapViewSource struct {
		ID   int64
		Name string
	}

	descriptor := NewBuilder("Thing").
		WithField("id", Int64Type(), func(r reflect.Value) reflect.Value { return r.FieldByName("ID") }).
		WithField("name", StringType(), func(r reflect.Value) reflect.Value { return r.FieldByName("Name") }).
		Build()

	cfg := DefaultConfig()
	schema, err := DeriveSchema(descriptor, cfg)
	if err != nil {
		t.Fatalf("DeriveSchema: %v", err)
	}
	writer, err := NewWriter[mapViewSource](descriptor, cfg)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	sink := NewMemSink()
	sink.BeginRow()
	if err := writer.Write(mapViewSource{ID: 1, Name: "Ada"}, sink); err != nil {
		t.Fatalf("Write: %v", err)
	}
	sink.EndRow()

	value, err := ReadRow(schema, descriptor, cfg, sink.Rows()[0])
	if err != nil {
		t.Fatalf("ReadRow: %v", err)
	}
	rm := value.(*RecordMap)

	if keys := rm.Keys(); len(keys) != 2 || keys[0] != "id" || keys[1] != "name" {
		t.Fatalf("Keys() = %v, want [id name]", keys)
	}
	name, ok := rm.Get("name")
	if !ok || name != "Ada" {
		t.Fatalf("Get(name) = %v, %v; want Ada, true", name, ok)
	}
}

// --- §8.1 universal invariants not already exercised above -------------------

// property 3: list encoding selection governs the number of group framings.
func TestListEncodingSelectionGroupFramingCount(t *testing.T) {
	type bag struct {
		Items []int32
	}

	cases := []struct {
		level AnnotatedLevel
		depth int
	}{
		{OneLevel, 0},
		{TwoLevel, 1},
		{ThreeLevel, 2},
	}
	for _, c := range cases {
		cfg := NewConfig(WithAnnotatedLevel(c.level))
		descriptor, err := DescriptorOf(reflect.TypeOf(bag{}), cfg)
		if err != nil {
			t.Fatalf("%v: DescriptorOf: %v", c.level, err)
		}
		schema, err := DeriveSchema(descriptor, cfg)
		if err != nil {
			t.Fatalf("%v: DeriveSchema: %v", c.level, err)
		}
		got := groupFramingDepth(schema.Children[0])
		if got != c.depth {
			t.Errorf("%v: group framing depth = %d, want %d", c.level, got, c.depth)
		}
	}
}

func groupFramingDepth(node *Node) int {
	depth := 0
	for !node.IsLeaf() {
		depth++
		node = node.Children[0]
	}
	return depth
}

// property 4: THREE-level lists preserve null elements.
func TestNullPreservationThreeLevelList(t *testing.T) {
	type holder struct {
		Items []*int32
	}
	cfg := DefaultConfig()
	writer, err := NewCarpetWriter[holder](cfg)
	if err != nil {
		t.Fatalf("NewCarpetWriter: %v", err)
	}
	three, five := int32(3), int32(5)
	in := holder{Items: []*int32{&three, nil, &five}}
	if err := writer.Write(in); err != nil {
		t.Fatalf("Write: %v", err)
	}

	reader, err := NewCarpetReader[holder](writer.Sink().Rows(), cfg)
	if err != nil {
		t.Fatalf("NewCarpetReader: %v", err)
	}
	for got, err := range reader.All() {
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if len(got.Items) != 3 || got.Items[1] != nil || *got.Items[0] != 3 || *got.Items[2] != 5 {
			t.Fatalf("Items = %v", derefAll(got.Items))
		}
	}
}

func derefAll(ptrs []*int32) []any {
	out := make([]any, len(ptrs))
	for i, p := range ptrs {
		if p == nil {
			out[i] = nil
			continue
		}
		out[i] = *p
	}
	return out
}

// property 5: an empty collection elides the field entirely at ONE-level,
// but round-trips as a present, empty collection at TWO/THREE-level.
func TestEmptyCollectionPreservationAcrossLevels(t *testing.T) {
	type holder struct {
		Items []int32
	}

	t.Run("one-level elides the field", func(t *testing.T) {
		cfg := NewConfig(WithAnnotatedLevel(OneLevel))
		writer, err := NewCarpetWriter[holder](cfg)
		if err != nil {
			t.Fatalf("NewCarpetWriter: %v", err)
		}
		if err := writer.Write(holder{Items: []int32{}}); err != nil {
			t.Fatalf("Write: %v", err)
		}
		reader, err := NewCarpetReader[holder](writer.Sink().Rows(), cfg)
		if err != nil {
			t.Fatalf("NewCarpetReader: %v", err)
		}
		for got, err := range reader.All() {
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if got.Items != nil {
				t.Fatalf("Items = %#v, want nil (field elided)", got.Items)
			}
		}
	})

	t.Run("three-level preserves empty list", func(t *testing.T) {
		cfg := DefaultConfig()
		writer, err := NewCarpetWriter[holder](cfg)
		if err != nil {
			t.Fatalf("NewCarpetWriter: %v", err)
		}
		if err := writer.Write(holder{Items: []int32{}}); err != nil {
			t.Fatalf("Write: %v", err)
		}
		reader, err := NewCarpetReader[holder](writer.Sink().Rows(), cfg)
		if err != nil {
			t.Fatalf("NewCarpetReader: %v", err)
		}
		for got, err := range reader.All() {
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if got.Items == nil || len(got.Items) != 0 {
				t.Fatalf("Items = %#v, want a non-nil empty slice", got.Items)
			}
		}
	})
}

// property 7: duplicate field ids are rejected at descriptor build time.
func TestFieldIDUniquenessRejected(t *testing.T) {
	type dup struct {
		A int32 `carpet:"a,id=1"`
		B int32 `carpet:"b,id=1"`
	}
	if _, err := DescriptorOf(reflect.TypeOf(dup{}), DefaultConfig()); err == nil {
		t.Fatalf("DescriptorOf: expected a duplicate-field-id error, got nil")
	}
}

// property 8: a struct referencing itself is rejected at descriptor build time.
func TestRecursiveRecordRejected(t *testing.T) {
	type self struct {
		Child *self
	}
	if _, err := DescriptorOf(reflect.TypeOf(self{}), DefaultConfig()); err == nil {
		t.Fatalf("DescriptorOf: expected a recursive-record error, got nil")
	}
}

func strJoin(lines ...string) string {
	out := ""
	for _, l := range lines {
		out += l + "\n"
	}
	return out
}
