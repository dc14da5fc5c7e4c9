package flowstep

import "fmt"

// Kind classifies a pipeline failure. It is purely classificatory: the
// engine attaches one to every raised error, and transport adapters map it
// to a status without inspecting anything else.
type Kind int

const (
	// KindValidation marks a caller-fixable input problem.
	KindValidation Kind = iota
	// KindBusiness marks a domain rule that blocked the operation.
	KindBusiness
	// KindSystem marks an unexpected or infrastructure fault.
	KindSystem
)

// String returns the canonical name of the kind.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindBusiness:
		return "business"
	case KindSystem:
		return "system"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Generic system fault surfaced when a pipeline hits an unexpected runtime
// error. The original fault is logged internally and never crosses the
// boundary.
const (
	CodeInternal = "SYS_000"
	MsgInternal  = "internal error"
)

// Error is the single error type that crosses a pipeline's public boundary.
// Validation and step failures carry their own code, message, and kind;
// unexpected faults are collapsed into the fixed internal triple.
type Error struct {
	Code    string
	Message string
	Kind    Kind
}

// NewError creates an Error with the given classification.
func NewError(kind Kind, code, message string) *Error {
	return &Error{Code: code, Message: message, Kind: kind}
}

// Internal returns the generic system Error raised for unexpected faults.
func Internal() *Error {
	return &Error{Code: CodeInternal, Message: MsgInternal, Kind: KindSystem}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("flowstep: [%s] %s: %s", e.Kind, e.Code, e.Message)
}

// Is reports whether target is a *Error with the same code and kind.
// Messages are display text and do not participate in identity.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Kind == t.Kind
}
