package carpet

// RecordConsumer is the write-path sink contract (spec §6.2). A Parquet
// file's column writers are an external collaborator out of this module's
// scope (spec §1); RecordConsumer is the seam Carpet's writer compiler
// drives, and memsink.go ships the one in-memory implementation that
// stands in for it.
type RecordConsumer interface {
	StartField(name string, index int)
	EndField(name string, index int)
	StartGroup()
	EndGroup()

	AddInteger(value int32)
	AddLong(value int64)
	AddFloat(value float32)
	AddDouble(value float64)
	AddBoolean(value bool)
	AddBinary(value []byte)
}

// RecordWriter writes a single Go record into a RecordConsumer following
// the column layout carried by a RecordDescriptor (spec §4.3).
type RecordWriter[T any] interface {
	Write(record T, consumer RecordConsumer)
}
