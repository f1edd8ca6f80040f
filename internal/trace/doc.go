// Package trace records the compile pipeline as a stream of span events.
//
// The driver opens a span per build, per pass (lex, parse, generate, encode)
// and per source file. A disabled tracer costs one interface call per span.
//
//	tr, _ := trace.New(trace.Config{Level: trace.LevelPhase, Output: os.Stderr})
//	ctx = trace.WithTracer(ctx, tr)
//	sp := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "parse", 0)
//	defer sp.End("")
package trace
