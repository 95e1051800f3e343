package carpet

// memRecord, memField and memCell together are the in-memory stand-in for a
// Parquet row group's column data (SPEC_FULL.md §3): the external file
// container, page layout, and compression are out of scope (spec §1), but
// round-tripping a write through the record-consumer contract into a read
// through the converter protocol needs *some* concrete sink/source pair, so
// Carpet ships exactly one: a plain in-memory tree shaped by the same
// startField/startGroup bracketing the real contract specifies.
type memRecord struct {
	byName map[string]*memField
	order  []*memField
}

func newMemRecord() *memRecord {
	return &memRecord{byName: make(map[string]*memField)}
}

func (r *memRecord) fieldAt(name string) *memField {
	if f, ok := r.byName[name]; ok {
		return f
	}
	f := &memField{name: name}
	r.byName[name] = f
	r.order = append(r.order, f)
	return f
}

// memField accumulates every occurrence emitted between one StartField and
// its matching EndField; a required/optional field has at most one
// occurrence, a repeated field may have any number.
type memField struct {
	name        string
	occurrences []*memCell
}

// memCell is exactly one of a scalar leaf value or a nested group.
type memCell struct {
	scalar any
	group  *memRecord
}

// MemSink is the concrete RecordConsumer implementation used by CarpetWriter
// (and directly by tests) when no other sink is supplied.
type MemSink struct {
	rows  []*memRecord
	stack []*memRecord
	field []*memField
}

// NewMemSink constructs an empty in-memory sink.
func NewMemSink() *MemSink { return &MemSink{} }

// BeginRow must be called before writing each record's fields.
func (s *MemSink) BeginRow() {
	root := newMemRecord()
	s.stack = []*memRecord{root}
}

// EndRow finalizes the row started by BeginRow and appends it to Rows.
func (s *MemSink) EndRow() {
	s.rows = append(s.rows, s.stack[0])
	s.stack = nil
}

// Rows returns every row written so far, in write order.
func (s *MemSink) Rows() []*memRecord { return s.rows }

func (s *MemSink) currentGroup() *memRecord { return s.stack[len(s.stack)-1] }

func (s *MemSink) StartField(name string, index int) {
	f := s.currentGroup().fieldAt(name)
	s.field = append(s.field, f)
}

func (s *MemSink) EndField(name string, index int) {
	s.field = s.field[:len(s.field)-1]
}

func (s *MemSink) StartGroup() {
	s.stack = append(s.stack, newMemRecord())
}

func (s *MemSink) EndGroup() {
	g := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	s.appendCell(&memCell{group: g})
}

func (s *MemSink) appendCell(c *memCell) {
	f := s.field[len(s.field)-1]
	f.occurrences = append(f.occurrences, c)
}

func (s *MemSink) AddInteger(v int32) { s.appendCell(&memCell{scalar: v}) }
func (s *MemSink) AddLong(v int64)    { s.appendCell(&memCell{scalar: v}) }
func (s *MemSink) AddFloat(v float32) { s.appendCell(&memCell{scalar: v}) }
func (s *MemSink) AddDouble(v float64) { s.appendCell(&memCell{scalar: v}) }
func (s *MemSink) AddBoolean(v bool)  { s.appendCell(&memCell{scalar: v}) }
func (s *MemSink) AddBinary(v []byte) { s.appendCell(&memCell{scalar: append([]byte(nil), v...)}) }
