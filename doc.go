// Package flowstep provides a composable step-execution pipeline framework
// for Go. It offers read (query) and write (command) pipelines that run an
// ordered list of pluggable steps against a per-invocation key-value
// context, with a three-kind error taxonomy and a sanitizing structured
// logging layer.
//
// Flowstep is designed as a library, not a service. Import it, declare the
// steps of a pipeline as ordinary Go functions or types, and execute:
//
//	p, err := engine.NewReadPipeline[GetUserQuery, UserView]("user.get",
//	    engine.WithReadSteps[GetUserQuery, UserView](selectSteps),
//	    engine.WithReadResponse[GetUserQuery, UserView](buildView),
//	)
//	view, err := p.Execute(ctx, query)
//
// # Architecture
//
// Each pipeline invocation walks a fixed lifecycle: validate, context init,
// step loop, build response, and (write pipelines only) post-execution.
// The step list is computed once, before the loop starts; the first failing
// step short-circuits the loop and the failure surfaces as a *Error
// carrying a Kind of Validation, Business, or System.
//
// Cross-cutting concerns (logging, metrics, tracing) are interceptors
// composed around the pipeline via the middleware package; the lifecycle
// itself never calls them.
//
// All execution identifiers use TypeID: type-prefixed, K-sortable,
// UUIDv7-based identifiers.
package flowstep
