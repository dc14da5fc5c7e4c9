package step

import (
	"context"

	flowstep "github.com/kayufok/flowstep-framework-sub000"
)

// Entry is one slot in a write pipeline's step list. It is a discriminated
// union over the two step kinds, built explicitly by the step-list
// constructor so dispatch stays exhaustive and compiler-checked instead of
// relying on interface sniffing at run time.
type Entry struct {
	read  ReadStep
	write WriteStep
}

// ReadEntry wraps a read step for inclusion in a write pipeline.
func ReadEntry(s ReadStep) Entry {
	return Entry{read: s}
}

// WriteEntry wraps a write step for inclusion in a write pipeline.
func WriteEntry(s WriteStep) Entry {
	return Entry{write: s}
}

// Name returns the wrapped step's name.
func (e Entry) Name() string {
	if e.write != nil {
		return e.write.Name()
	}
	if e.read != nil {
		return e.read.Name()
	}
	return ""
}

// Execute dispatches to the wrapped step according to its declared
// capability. Write steps get the live write context; read steps get the
// shared read facade, so both kinds observe and mutate one scratchpad.
func (e Entry) Execute(ctx context.Context, wc *WriteContext) flowstep.Outcome {
	if e.write != nil {
		return e.write.Execute(ctx, wc)
	}
	if e.read != nil {
		return e.read.Execute(ctx, wc.ReadView())
	}
	return flowstep.Fail(flowstep.KindSystem, flowstep.CodeInternal, "empty step entry")
}
