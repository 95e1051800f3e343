package carpet

import (
	"reflect"
	"sync"
)

// accessorCacheKey identifies a (target type, field name, field type)
// triple (spec §5/§9: "a process-wide map keyed by (target-type-identity,
// field-name, field-type-identity) -> accessor").
type accessorCacheKey struct {
	target    reflect.Type
	field     string
	fieldType reflect.Type
}

// accessorCache is process-lifetime and safe under concurrent get-or-compute
// (spec §5: "implementations MUST ensure the cache populates atomically
// under race"). sync.Map's LoadOrStore gives exactly that without a global
// mutex serializing unrelated lookups.
var accessorCache sync.Map // accessorCacheKey -> Accessor

// cachedFieldAccessor returns the accessor for (target, fieldIndex),
// computing it via reflect.Value.FieldByIndex on first use and caching the
// closure for subsequent descriptor builds of the same Go type.
func cachedFieldAccessor(target reflect.Type, fieldName string, index []int) Accessor {
	key := accessorCacheKey{target: target, field: fieldName, fieldType: target.FieldByIndex(index).Type}
	if v, ok := accessorCache.Load(key); ok {
		return v.(Accessor)
	}

	idx := append([]int(nil), index...)
	fn := Accessor(func(record reflect.Value) reflect.Value {
		v := record
		for v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return reflect.Value{}
			}
			v = v.Elem()
		}
		return v.FieldByIndex(idx)
	})

	actual, _ := accessorCache.LoadOrStore(key, fn)
	return actual.(Accessor)
}
