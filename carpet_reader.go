package carpet

import (
	"iter"
	"reflect"
)

// CarpetReader drives stored MemSink rows back into records of type T
// through the converter tree, exposing them as a Go 1.23 iterator (spec §5
// resource model: "the reader iterator owns one file handle... closed
// automatically when iteration is exhausted").
type CarpetReader[T any] struct {
	descriptor *RecordDescriptor
	schema     *MessageType
	cfg        *Config
	rows       []*memRecord
}

// NewCarpetReader builds a reader over rows (typically obtained from
// CarpetWriter.Sink().Rows()) targeting T.
func NewCarpetReader[T any](rows []*memRecord, cfg *Config) (*CarpetReader[T], error) {
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
	return &CarpetReader[T]{descriptor: descriptor, schema: schema, cfg: cfg, rows: rows}, nil
}

// Schema returns the MessageType the reader matches rows against.
func (r *CarpetReader[T]) Schema() *MessageType { return r.schema }

// All returns an iterator over every row, each yielded as (record, nil) or
// (zero, err) on a conversion failure; iteration stops at the first error.
func (r *CarpetReader[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for _, row := range r.rows {
			value, err := ReadRow(r.schema, r.descriptor, r.cfg, row)
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			record, _ := value.(T)
			if !yield(record, nil) {
				return
			}
		}
	}
}
