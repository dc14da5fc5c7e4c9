package flowstep_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	flowstep "github.com/kayufok/flowstep-framework-sub000"
	"github.com/kayufok/flowstep-framework-sub000/audit"
	"github.com/kayufok/flowstep-framework-sub000/engine"
	"github.com/kayufok/flowstep-framework-sub000/middleware"
	"github.com/kayufok/flowstep-framework-sub000/step"
)

type getUserQuery struct {
	ID int `json:"id"`
}

type userView struct {
	ID   int
	Name string
}

// Example wires a read pipeline with validation, two steps sharing the
// invocation context, and the logging interceptor.
func Example() {
	svc := audit.New(slog.New(slog.NewJSONHandler(io.Discard, nil)), flowstep.DefaultConfig())

	p, err := engine.NewReadPipeline[getUserQuery, userView]("user.get",
		engine.WithReadValidation[getUserQuery, userView](func(q getUserQuery) flowstep.Outcome {
			if q.ID <= 0 {
				return flowstep.Fail(flowstep.KindValidation, "VAL_001", "ID must be positive")
			}
			return flowstep.Continue()
		}),
		engine.WithReadSteps[getUserQuery, userView](func(q getUserQuery, _ *step.ReadContext) []step.ReadStep {
			return []step.ReadStep{
				step.ReadFunc("load", func(_ context.Context, rc *step.ReadContext) flowstep.Outcome {
					rc.Put("name", fmt.Sprintf("user-%d", q.ID))
					return flowstep.Continue()
				}),
				step.ReadFunc("enrich", func(_ context.Context, rc *step.ReadContext) flowstep.Outcome {
					name, _ := step.Value[string](rc, "name")
					rc.Put("name", name+" (verified)")
					return flowstep.Continue()
				}),
			}
		}),
		engine.WithReadResponse[getUserQuery, userView](func(rc *step.ReadContext) userView {
			name, _ := step.Value[string](rc, "name")
			return userView{ID: rc.Request().(getUserQuery).ID, Name: name}
		}),
		engine.WithReadInterceptors[getUserQuery, userView](
			middleware.Logging[getUserQuery, userView](svc),
		),
	)
	if err != nil {
		fmt.Println("wiring:", err)
		return
	}

	view, err := p.Execute(context.Background(), getUserQuery{ID: 7})
	if err != nil {
		fmt.Println("execute:", err)
		return
	}
	fmt.Printf("%d %s\n", view.ID, view.Name)

	_, err = p.Execute(context.Background(), getUserQuery{ID: -1})
	fmt.Println(err)

	// Output:
	// 7 user-7 (verified)
	// flowstep: [validation] VAL_001: ID must be positive
}
