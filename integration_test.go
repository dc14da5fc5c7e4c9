package flowstep_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	flowstep "github.com/kayufok/flowstep-framework-sub000"
	"github.com/kayufok/flowstep-framework-sub000/audit"
	"github.com/kayufok/flowstep-framework-sub000/engine"
	"github.com/kayufok/flowstep-framework-sub000/event"
	"github.com/kayufok/flowstep-framework-sub000/hook"
	"github.com/kayufok/flowstep-framework-sub000/middleware"
	"github.com/kayufok/flowstep-framework-sub000/step"
)

type createUserCommand struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type userCreated struct {
	Name string
}

func (userCreated) EventName() string { return "user.created" }

// newWiredPipeline assembles the full stack: audit service observing step
// boundaries through the hook registry, logging interceptor around the
// lifecycle, and an event bus drained post-execution.
func newWiredPipeline(t *testing.T, bus *event.Bus, logBuf *bytes.Buffer) *engine.WritePipeline[createUserCommand, string] {
	t.Helper()

	cfg := flowstep.DefaultConfig()
	cfg.LogLevel = slog.LevelDebug
	svc := audit.New(slog.New(slog.NewJSONHandler(logBuf, &slog.HandlerOptions{Level: cfg.LogLevel})), cfg)

	registry := hook.NewRegistry()
	registry.Register(svc)

	p, err := engine.NewWritePipeline[createUserCommand, string]("user.create",
		engine.WithWriteValidation[createUserCommand, string](func(cmd createUserCommand) flowstep.Outcome {
			if cmd.Name == "" {
				return flowstep.Fail(flowstep.KindValidation, "VAL_001", "name is required")
			}
			return flowstep.Continue()
		}),
		engine.WithWriteSteps[createUserCommand, string](func(cmd createUserCommand, _ *step.WriteContext) []step.Entry {
			return []step.Entry{
				step.ReadEntry(step.ReadFunc("check-unique", func(_ context.Context, rc *step.ReadContext) flowstep.Outcome {
					if rc.Request().(createUserCommand).Name == "taken" {
						return flowstep.Fail(flowstep.KindBusiness, "BUS_409", "name already in use")
					}
					return flowstep.Continue()
				})),
				step.WriteEntry(step.WriteFunc("persist", func(_ context.Context, wc *step.WriteContext) flowstep.Outcome {
					wc.Put("userName", cmd.Name)
					wc.AddEvent(userCreated{Name: cmd.Name})
					return flowstep.Continue()
				})),
			}
		}),
		engine.WithWriteResponse[createUserCommand, string](func(wc *step.WriteContext) string {
			name, _ := step.Value[string](wc, "userName")
			return "created " + name
		}),
		engine.WithPostExecution[createUserCommand, string](event.Drain(bus)),
		engine.WithWriteEmitter[createUserCommand, string](registry),
		engine.WithWriteInterceptors[createUserCommand, string](
			middleware.Logging[createUserCommand, string](svc),
			middleware.Metrics[createUserCommand, string](),
			middleware.Tracing[createUserCommand, string](),
		),
	)
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}
	return p
}

func TestEndToEnd_SuccessfulInvocation(t *testing.T) {
	bus := event.NewBus()
	var published []string
	var mu sync.Mutex
	bus.Subscribe("user.created", func(_ context.Context, evt event.Event) error {
		mu.Lock()
		published = append(published, evt.Payload.(userCreated).Name)
		mu.Unlock()
		return nil
	})

	var logBuf bytes.Buffer
	p := newWiredPipeline(t, bus, &logBuf)

	resp, err := p.Execute(context.Background(), createUserCommand{Name: "kay", Password: "hunter2"})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if resp != "created kay" {
		t.Errorf("resp = %q", resp)
	}

	if len(published) != 1 || published[0] != "kay" {
		t.Errorf("published = %v, want [kay]", published)
	}

	out := logBuf.String()
	for _, action := range []string{
		audit.ActionExecutionStarted,
		audit.ActionStepStarted,
		audit.ActionStepCompleted,
		audit.ActionPostExecStarted,
		audit.ActionPostExecCompleted,
		audit.ActionExecutionCompleted,
	} {
		if !strings.Contains(out, action) {
			t.Errorf("missing %q in log output", action)
		}
	}
	if strings.Contains(out, "hunter2") {
		t.Error("raw password leaked into the log output")
	}
	if !strings.Contains(out, "execution_id") {
		t.Error("events carry no execution ID")
	}
}

func TestEndToEnd_BusinessFailureShortCircuits(t *testing.T) {
	bus := event.NewBus()
	var published int
	bus.Subscribe("user.created", func(_ context.Context, _ event.Event) error {
		published++
		return nil
	})

	var logBuf bytes.Buffer
	p := newWiredPipeline(t, bus, &logBuf)

	_, err := p.Execute(context.Background(), createUserCommand{Name: "taken", Password: "x"})
	if !isRaised(err, "BUS_409", flowstep.KindBusiness) {
		t.Fatalf("err = %v, want BUS_409/business", err)
	}

	if published != 0 {
		t.Errorf("published %d events despite failure", published)
	}

	out := logBuf.String()
	if !strings.Contains(out, audit.ActionStepFailed) || !strings.Contains(out, audit.ActionExecutionFailed) {
		t.Errorf("missing failure events in %q", out)
	}
}

func TestEndToEnd_ValidationFailureRunsNoSteps(t *testing.T) {
	var logBuf bytes.Buffer
	p := newWiredPipeline(t, event.NewBus(), &logBuf)

	_, err := p.Execute(context.Background(), createUserCommand{})
	if !isRaised(err, "VAL_001", flowstep.KindValidation) {
		t.Fatalf("err = %v, want VAL_001/validation", err)
	}

	if strings.Contains(logBuf.String(), audit.ActionStepStarted) {
		t.Error("steps ran despite failed validation")
	}
}

func TestEndToEnd_ConcurrentInvocationsGetDistinctExecutionIDs(t *testing.T) {
	var logBuf bytes.Buffer
	p := newWiredPipeline(t, event.NewBus(), &logBuf)

	const n = 10
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := p.Execute(context.Background(), createUserCommand{Name: "kay"}); err != nil {
				t.Errorf("execute: %v", err)
			}
		}()
	}
	wg.Wait()

	ids := make(map[string]bool)
	for _, line := range strings.Split(strings.TrimSpace(logBuf.String()), "\n") {
		var evt struct {
			Action      string `json:"action"`
			ExecutionID string `json:"execution_id"`
		}
		if err := json.Unmarshal([]byte(line), &evt); err != nil {
			t.Fatalf("bad log line %q: %v", line, err)
		}
		if evt.Action == audit.ActionExecutionStarted {
			ids[evt.ExecutionID] = true
		}
	}
	if len(ids) != n {
		t.Errorf("got %d distinct execution IDs across %d invocations", len(ids), n)
	}
}

// isRaised reports whether err is a pipeline error with the given code
// and kind.
func isRaised(err error, code string, kind flowstep.Kind) bool {
	var raised *flowstep.Error
	if !errors.As(err, &raised) {
		return false
	}
	return raised.Code == code && raised.Kind == kind
}
