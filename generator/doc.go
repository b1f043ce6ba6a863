// Package generator is the content-generation facade. A Generator ties a
// template.Store to a provider.Manager and adds what a caller of either
// would otherwise rebuild: input validation, a result cache keyed by
// template and variables, a bounded history, statistics, cost estimates,
// batch and variation fan-out, and callbacks.
//
// Per-request failures never surface as Go errors. Generate always returns
// a *Result; when Success is false its Error field says why:
//
//	res := g.Generate(ctx, "product_description", map[string]any{
//	    "product_name": "Smart Watch",
//	    "features":     "GPS, heart rate",
//	    "audience":     "athletes",
//	}, generator.Overrides{}, generator.DefaultGenerateOptions())
//	if !res.Success {
//	    log.Print(res.Error)
//	}
//
// Only catalog operations (RegisterTemplate) and file exports return errors.
package generator
