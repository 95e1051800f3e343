package carpetproto_test

import (
	"reflect"
	"testing"
	"time"

	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"

	carpet "github.com/jerolba/carpet-go"
	"github.com/jerolba/carpet-go/carpetproto"
)

// fakeMessage stands in for a protoc-gen-go generated struct: same
// "protobuf" tag shape, same pointer-to-well-known-message fields, without
// requiring an actual .proto/protoc step to produce it.
type fakeMessage struct {
	FullName  string                 `protobuf:"bytes,1,opt,name=full_name,proto3"`
	CreatedAt *timestamppb.Timestamp `protobuf:"bytes,2,opt,name=created_at,proto3"`
	Ttl       *durationpb.Duration   `protobuf:"bytes,3,opt,name=ttl,proto3"`
	Extra     *structpb.Struct       `protobuf:"bytes,4,opt,name=extra,proto3"`
}

func TestTagSourceReadsProtobufFieldName(t *testing.T) {
	src := carpetproto.TagSource{}
	typ := reflect.TypeOf(fakeMessage{})

	sf, _ := typ.FieldByName("FullName")
	tag := src.Tags(sf)
	if tag.Alias != "full_name" {
		t.Fatalf("Alias = %q, want full_name", tag.Alias)
	}
}

func TestTagSourceResolveOverridesFlavor(t *testing.T) {
	src := carpetproto.TagSource{
		Resolve: func(f reflect.StructField) carpetproto.FieldOptions {
			if f.Name == "FullName" {
				return carpetproto.FieldOptions{Flavor: "enum"}
			}
			return carpetproto.FieldOptions{}
		},
	}
	typ := reflect.TypeOf(fakeMessage{})
	sf, _ := typ.FieldByName("FullName")
	tag := src.Tags(sf)
	if tag.Flavor != "enum" {
		t.Fatalf("Flavor = %q, want enum", tag.Flavor)
	}
}

func TestDescriptorOfWellKnownTypes(t *testing.T) {
	cfg := carpetproto.NewConfig()
	descriptor, err := carpet.DescriptorOf(reflect.TypeOf(fakeMessage{}), cfg)
	if err != nil {
		t.Fatalf("DescriptorOf: %v", err)
	}
	schema, err := carpet.DeriveSchema(descriptor, cfg)
	if err != nil {
		t.Fatalf("DeriveSchema: %v", err)
	}

	byName := map[string]*carpet.Node{}
	for _, child := range schema.Children {
		byName[child.Name] = child
	}

	created := byName["created_at"]
	if created == nil || created.Logical == nil || created.Logical.Kind != carpet.LogicalTimestamp || !created.Logical.IsAdjustedToUTC {
		t.Fatalf("created_at node not derived as an instant timestamp: %+v", created)
	}

	ttl := byName["ttl"]
	if ttl == nil || !ttl.IsLeaf() || ttl.Logical != nil {
		t.Fatalf("ttl node not derived as a plain int64 leaf: %+v", ttl)
	}
	if *ttl.Physical != carpet.PhysicalInt64 {
		t.Fatalf("ttl physical = %v, want Int64", *ttl.Physical)
	}

	extra := byName["extra"]
	if extra == nil || extra.Logical == nil || extra.Logical.Kind != carpet.LogicalJSON {
		t.Fatalf("extra node not derived as a JSON leaf: %+v", extra)
	}
}

func TestCarpetWriterAcceptsWellKnownFields(t *testing.T) {
	cfg := carpetproto.NewConfig()
	writer, err := carpet.NewWriter[fakeMessage](mustDescriptor(t, cfg), cfg)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	sink := carpet.NewMemSink()
	msg := fakeMessage{
		FullName:  "ok",
		CreatedAt: timestamppb.New(time.Unix(1000, 0)),
		Ttl:       durationpb.New(5 * time.Second),
		Extra:     &structpb.Struct{Fields: map[string]*structpb.Value{"k": structpb.NewStringValue("v")}},
	}

	sink.BeginRow()
	if err := writer.Write(msg, sink); err != nil {
		t.Fatalf("Write: %v", err)
	}
	sink.EndRow()

	if len(sink.Rows()) != 1 {
		t.Fatalf("Rows() len = %d, want 1", len(sink.Rows()))
	}
}

func mustDescriptor(t *testing.T, cfg *carpet.Config) *carpet.RecordDescriptor {
	t.Helper()
	d, err := carpet.DescriptorOf(reflect.TypeOf(fakeMessage{}), cfg)
	if err != nil {
		t.Fatalf("DescriptorOf: %v", err)
	}
	return d
}
