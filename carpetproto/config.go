package carpetproto

import carpet "github.com/jerolba/carpet-go"

// NewConfig builds a *carpet.Config defaulted to this package's TagSource so
// protoc-gen-go struct field names come from their own "protobuf" tag, then
// layers opts on top. This is the protobuf front-end's analogue of
// carpet.NewConfig; pass the result straight to carpet.NewCarpetWriter[T] or
// carpet.DescriptorOf with T instantiated to a generated message type.
func NewConfig(opts ...carpet.Option) *carpet.Config {
	cfg := carpet.NewConfig(carpet.WithTagSource(TagSource{}))
	return cfg.Apply(opts...)
}
