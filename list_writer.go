package carpet

import "reflect"

// compileListWriter returns the writeFunc for a List/Set field given its
// already-resolved element FieldType (spec §4.3.3). The caller has already
// bracketed the field itself with StartField/EndField; what's returned here
// only needs to emit what's nested inside that bracket. A repeated field or
// group is written as one StartField/EndField pair wrapping N repetitions of
// Add/StartGroup+EndGroup — never N separate StartField/EndField pairs.
func compileListWriter(elementType FieldType, cfg *Config) (writeFunc, error) {
	elementWrite, err := compileValueWriter(elementType.AsRequired(), cfg)
	if err != nil {
		return nil, err
	}
	nullableElement := elementType.Nullable

	switch cfg.AnnotatedLevel {
	case OneLevel:
		if nullableElement {
			return nil, newConversionError("null element not supported in ONE-level annotated list mode")
		}
		// Bare repeated field: no group framing at all.
		return func(v reflect.Value, c RecordConsumer) error {
			for i := 0; i < v.Len(); i++ {
				if err := elementWrite(v.Index(i), c); err != nil {
					return err
				}
			}
			return nil
		}, nil

	case TwoLevel:
		if nullableElement {
			return nil, errNullElementTwoLevel("")
		}
		return func(v reflect.Value, c RecordConsumer) error {
			c.StartGroup()
			c.StartField("element", 0)
			for i := 0; i < v.Len(); i++ {
				if err := elementWrite(v.Index(i), c); err != nil {
					return err
				}
			}
			c.EndField("element", 0)
			c.EndGroup()
			return nil
		}, nil

	default: // ThreeLevel
		return func(v reflect.Value, c RecordConsumer) error {
			c.StartGroup()
			c.StartField("list", 0)
			for i := 0; i < v.Len(); i++ {
				c.StartGroup()
				c.StartField("element", 0)
				present, unwrapped := unwrapOptional(v.Index(i), nullableElement)
				if present {
					if err := elementWrite(unwrapped, c); err != nil {
						return err
					}
				}
				c.EndField("element", 0)
				c.EndGroup()
			}
			c.EndField("list", 0)
			c.EndGroup()
			return nil
		}, nil
	}
}
