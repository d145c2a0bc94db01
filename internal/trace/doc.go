// Package trace records begin/end events for the driver and the front-end
// passes. A Tracer travels through the pipeline in the context:
//
//	ctx = trace.WithTracer(ctx, t)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "sema", 0)
//	defer span.End("")
//
// Stream tracers write each event as it happens, in text or NDJSON. Ring
// tracers keep the most recent events in memory so they can be dumped after
// a crash. The CLI exposes both through --trace, --trace-level and
// --trace-format.
package trace
