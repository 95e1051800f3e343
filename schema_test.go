package carpet

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

// dumpSchema renders a MessageType the way a human-readable schema dump
// would, purely so two derivations can be diffed textually (spec §8.1
// property 2: "deriving the schema for the same descriptor and config twice
// must be byte-identical"), the same assertion style writer_test.go in the
// teacher applies to its own CLI dumps via gotextdiff.
func dumpSchema(node *Node, indent string) string {
	var b strings.Builder
	for _, child := range node.Children {
		b.WriteString(indent)
		b.WriteString(child.Repetition.String())
		b.WriteByte(' ')
		if child.IsLeaf() {
			b.WriteString(child.Physical.String())
			if child.Logical != nil {
				fmt.Fprintf(&b, " (%s)", child.Logical.Kind.String())
			}
			b.WriteByte(' ')
			b.WriteString(child.Name)
			if child.FieldID != nil {
				fmt.Fprintf(&b, " = %d", *child.FieldID)
			}
			b.WriteByte('\n')
			continue
		}
		b.WriteString("group ")
		b.WriteString(child.Name)
		if child.Logical != nil {
			fmt.Fprintf(&b, " (%s)", child.Logical.Kind.String())
		}
		b.WriteByte('\n')
		b.WriteString(dumpSchema(child, indent+"  "))
	}
	return b.String()
}

func requireEqualSchema(t *testing.T, want, got string) {
	t.Helper()
	if want == got {
		return
	}
	edits := myers.ComputeEdits(span.URIFromPath("want.txt"), want, got)
	diff := fmt.Sprint(gotextdiff.ToUnified("want.txt", "got.txt", want, edits))
	t.Errorf("schema mismatch:\n%s", diff)
}

type schemaFixture struct {
	Name     string
	Age      int32
	Nickname *string
	Scores   []int32
	Tags     map[string]int32
	Address  schemaFixtureAddress
}

type schemaFixtureAddress struct {
	City string
	Zip  string
}

func TestDeriveSchemaIsDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	descriptor, err := DescriptorOf(reflect.TypeOf(schemaFixture{}), cfg)
	if err != nil {
		t.Fatalf("DescriptorOf: %v", err)
	}

	first, err := DeriveSchema(descriptor, cfg)
	if err != nil {
		t.Fatalf("DeriveSchema (first): %v", err)
	}
	second, err := DeriveSchema(descriptor, cfg)
	if err != nil {
		t.Fatalf("DeriveSchema (second): %v", err)
	}

	requireEqualSchema(t, dumpSchema(first, ""), dumpSchema(second, ""))
}

func TestDeriveSchemaShape(t *testing.T) {
	cfg := DefaultConfig()
	descriptor, err := DescriptorOf(reflect.TypeOf(schemaFixture{}), cfg)
	if err != nil {
		t.Fatalf("DescriptorOf: %v", err)
	}
	schema, err := DeriveSchema(descriptor, cfg)
	if err != nil {
		t.Fatalf("DeriveSchema: %v", err)
	}

	want := strings.Join([]string{
		"required BYTE_ARRAY (STRING) Name",
		"required INT32 Age",
		"optional BYTE_ARRAY (STRING) Nickname",
		"optional group Scores (LIST)",
		"  repeated group list",
		"    required INT32 element",
		"optional group Tags (MAP)",
		"  repeated group key_value",
		"    required BYTE_ARRAY (STRING) key",
		"    required INT32 value",
		"optional group Address",
		"  required BYTE_ARRAY (STRING) City",
		"  required BYTE_ARRAY (STRING) Zip",
		"",
	}, "\n")

	requireEqualSchema(t, want, dumpSchema(schema, ""))
}

