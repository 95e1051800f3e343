package carpet

import "reflect"

// compileMapWriter returns the writeFunc for a Map field (spec §4.3.4): a
// group containing a single repeated "key_value" group of required "key" /
// value-per-FieldType "value" children. As with lists, the caller already
// bracketed the field itself; this only emits the map container and its
// repeated key_value entries.
func compileMapWriter(keyType, valueType FieldType, cfg *Config) (writeFunc, error) {
	keyWrite, err := compileValueWriter(keyType.AsRequired(), cfg)
	if err != nil {
		return nil, err
	}
	valueWrite, err := compileValueWriter(valueType.AsRequired(), cfg)
	if err != nil {
		return nil, err
	}
	nullableValue := valueType.Nullable

	return func(v reflect.Value, c RecordConsumer) error {
		c.StartGroup()
		c.StartField("key_value", 0)
		iter := v.MapRange()
		for iter.Next() {
			c.StartGroup()

			c.StartField("key", 0)
			if err := keyWrite(iter.Key(), c); err != nil {
				return err
			}
			c.EndField("key", 0)

			c.StartField("value", 1)
			present, unwrapped := unwrapOptional(iter.Value(), nullableValue)
			if present {
				if err := valueWrite(unwrapped, c); err != nil {
					return err
				}
			}
			c.EndField("value", 1)

			c.EndGroup()
		}
		c.EndField("key_value", 0)
		c.EndGroup()
		return nil
	}, nil
}
