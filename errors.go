package carpet

import "fmt"

// ConversionError is the single error kind the core raises for any
// user-visible classification failure: unsupported element types, recursive
// records, decimal rescale mismatches, unsupported widenings, schema fields
// with no matching component, and so on (spec §7).
//
// Field and Type are best-effort diagnostics; either may be empty.
type ConversionError struct {
	Field string
	Type  string
	msg   string
	err   error
}

func (e *ConversionError) Error() string {
	switch {
	case e.Field != "" && e.Type != "":
		return fmt.Sprintf("carpet: %s: field %q (type %s)", e.msg, e.Field, e.Type)
	case e.Field != "":
		return fmt.Sprintf("carpet: %s: field %q", e.msg, e.Field)
	case e.Type != "":
		return fmt.Sprintf("carpet: %s: type %s", e.msg, e.Type)
	default:
		return "carpet: " + e.msg
	}
}

func (e *ConversionError) Unwrap() error { return e.err }

func newConversionError(msg string) *ConversionError {
	return &ConversionError{msg: msg}
}

func (e *ConversionError) withField(field string) *ConversionError {
	e.Field = field
	return e
}

func (e *ConversionError) withType(typ string) *ConversionError {
	e.Type = typ
	return e
}

func (e *ConversionError) withErr(err error) *ConversionError {
	e.err = err
	return e
}

func errUnsupportedType(field, typ string) error {
	return newConversionError("type not supported").withField(field).withType(typ)
}

func errTypeVariable(field string) error {
	return newConversionError("generic type variable without a reified type argument").withField(field)
}

func errRecursiveRecord(typ string) error {
	return newConversionError("recursive record").withType(typ)
}

func errDecimalRescale(field string, originalScale int, err error) error {
	return newConversionError(fmt.Sprintf("decimal rescale failed (original scale %d)", originalScale)).withField(field).withErr(err)
}

func errNotCompatible(field, physical, target string) error {
	return newConversionError(fmt.Sprintf("type not compatible with field: physical %s cannot widen to %s", physical, target)).withField(field)
}

func errNonScalarMapKey(field string) error {
	return newConversionError("map key must not be a list or map").withField(field)
}

func errNestedListOneLevel(field string) error {
	return newConversionError("nested list not supported in ONE-level annotated list mode").withField(field)
}

func errNullElementTwoLevel(field string) error {
	return newConversionError("null element not supported in TWO-level annotated list mode").withField(field)
}

func errDuplicateFieldName(name string) error {
	return newConversionError("duplicate column name").withField(name)
}

func errDuplicateFieldID(fieldID int) error {
	return newConversionError(fmt.Sprintf("duplicate field id %d", fieldID))
}

func errNoMatchingComponent(field string) error {
	return newConversionError("schema field has no matching component").withField(field)
}

// errBinaryDecode panics the same way unsupportedConverter's wrong-physical
// calls do: the converter pull protocol (Converter.AddBinary) has no error
// return, so a corrupt/mismatched BinaryCodec on read surfaces as a panic
// rather than a returned error.
func errBinaryDecode(field string, err error) error {
	return newConversionError("binary codec decode failed").withField(field).withErr(err)
}
