package binding

import "fmt"

// ConversionError reports that a host value could not be narrowed to the
// native type a callable expects. The message format is a compatibility
// contract: callers parse it, so it must not change shape.
type ConversionError struct {
	// Arg is the declared name of the offending argument.
	Arg string
	// TypeName is the host type name of the rejected value.
	TypeName string
	// Target describes the native type the value was converted towards.
	Target string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("argument '%s': '%s' object cannot be converted to '%s'", e.Arg, e.TypeName, e.Target)
}
