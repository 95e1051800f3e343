package carpet

import "reflect"

// CarpetWriter drives records of type T into a MemSink through a compiled
// Writer, deriving both the Writer and the MessageType once from T's
// reflective descriptor. It is the thin public surface spec §1 calls a
// "peripheral" wrapper around the core write pipeline.
type CarpetWriter[T any] struct {
	descriptor *RecordDescriptor
	schema     *MessageType
	writer     *Writer[T]
	sink       *MemSink
}

// NewCarpetWriter reflects T into a RecordDescriptor, derives its schema,
// and compiles the writer pipeline, all up front.
func NewCarpetWriter[T any](cfg *Config) (*CarpetWriter[T], error) {
	var zero T
	typ := reflect.TypeOf(zero)
	descriptor, err := DescriptorOf(typ, cfg)
	if err != nil {
		return nil, err
	}
	schema, err := DeriveSchema(descriptor, cfg)
	if err != nil {
		return nil, err
	}
	writer, err := NewWriter[T](descriptor, cfg)
	if err != nil {
		return nil, err
	}
	return &CarpetWriter[T]{descriptor: descriptor, schema: schema, writer: writer, sink: NewMemSink()}, nil
}

// Schema returns the derived MessageType.
func (w *CarpetWriter[T]) Schema() *MessageType { return w.schema }

// Write appends one record.
func (w *CarpetWriter[T]) Write(record T) error {
	w.sink.BeginRow()
	if err := w.writer.Write(record, w.sink); err != nil {
		return err
	}
	w.sink.EndRow()
	return nil
}

// WriteAll writes every record in records, in order.
func (w *CarpetWriter[T]) WriteAll(records []T) error {
	for _, r := range records {
		if err := w.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// Sink exposes the underlying in-memory sink, e.g. to hand to a
// CarpetReader without a real file round-trip.
func (w *CarpetWriter[T]) Sink() *MemSink { return w.sink }

// Descriptor returns the RecordDescriptor derived from T.
func (w *CarpetWriter[T]) Descriptor() *RecordDescriptor { return w.descriptor }
