package flowstep

// Outcome is the result of one step or validation hook. A successful
// outcome may carry data; a failed outcome carries exactly a code, a
// message, and a kind. The constructors below are the only intended way to
// build one, which keeps the two shapes mutually exclusive.
type Outcome struct {
	Success bool
	Data    any
	Code    string
	Message string
	Kind    Kind
}

// OK returns a successful outcome carrying data.
func OK(data any) Outcome {
	return Outcome{Success: true, Data: data}
}

// Continue returns a successful outcome with no data. Use it from steps
// and validators that only gate progress.
func Continue() Outcome {
	return Outcome{Success: true}
}

// Fail returns a failed outcome with the given classification.
func Fail(kind Kind, code, message string) Outcome {
	return Outcome{Code: code, Message: message, Kind: kind}
}

// Err converts a failed outcome into the Error raised to the caller.
// It returns nil for successful outcomes.
func (o Outcome) Err() *Error {
	if o.Success {
		return nil
	}
	return &Error{Code: o.Code, Message: o.Message, Kind: o.Kind}
}
