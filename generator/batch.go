package generator

import (
	"context"
	"fmt"
	"log/slog"
	"maps"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// TemperatureRange spreads variation temperatures from Min to Max.
type TemperatureRange struct {
	Min float64 `json:"min" validate:"gte=0,lte=2"`
	Max float64 `json:"max" validate:"gte=0,lte=2"`
}

// At returns the temperature for variation i of count: Min at 0, Max at
// count-1, linear in between, and the midpoint when count is 1.
func (r TemperatureRange) At(i, count int) float64 {
	if count <= 1 {
		return (r.Min + r.Max) / 2
	}
	return r.Min + (r.Max-r.Min)*float64(i)/float64(count-1)
}

// GenerateMultipleVariations runs count independent, uncached generations.
// Each result carries its 1-based variation number and, when temps is set,
// the temperature it was generated with. The variables passed to each run
// also gain _variation_number and _total_variations.
func (g *Generator) GenerateMultipleVariations(ctx context.Context, templateName string, vars map[string]any, count int, temps *TemperatureRange) []*Result {
	if count < 1 {
		return nil
	}
	opts := GenerateOptions{UseCache: false, RetryOnFailure: true}

	results := make([]*Result, 0, count)
	for i := range count {
		var ov Overrides
		if temps != nil {
			t := temps.At(i, count)
			ov.Temperature = &t
		}

		v := maps.Clone(vars)
		if v == nil {
			v = make(map[string]any, 2)
		}
		v["_variation_number"] = i + 1
		v["_total_variations"] = count

		res := g.Generate(ctx, templateName, v, ov, opts)
		res.VariationNumber = i + 1
		if ov.Temperature != nil {
			t := *ov.Temperature
			res.VariationTemperature = &t
		}
		results = append(results, res)
	}
	return results
}

// BatchRequest is one entry of GenerateBatch.
type BatchRequest struct {
	TemplateName string         `json:"template_name"`
	Variables    map[string]any `json:"variables"`
	Overrides    Overrides      `json:"overrides"`
}

// GenerateBatch runs each request through Generate and returns results in
// input order. A request without a template name yields a failed result
// without reaching the model and without entering the history. Parallel
// batches run at most the configured concurrency at once.
func (g *Generator) GenerateBatch(ctx context.Context, reqs []BatchRequest, parallel bool) []*Result {
	if len(reqs) == 0 {
		return nil
	}
	g.logger.InfoContext(ctx, "starting batch generation",
		slog.Int("requests", len(reqs)),
		slog.Bool("parallel", parallel))

	results := make([]*Result, len(reqs))
	one := func(i int) {
		req := reqs[i]
		if req.TemplateName == "" {
			results[i] = &Result{
				TemplateUsed: "",
				Variables:    maps.Clone(req.Variables),
				Timestamp:    g.now(),
				RequestID:    uuid.NewString(),
				Error:        fmt.Sprintf("request %d missing 'template_name'", i),
			}
			return
		}
		results[i] = g.Generate(ctx, req.TemplateName, req.Variables, req.Overrides, DefaultGenerateOptions())
	}

	if !parallel {
		for i := range reqs {
			one(i)
		}
		return results
	}

	var eg errgroup.Group
	eg.SetLimit(g.concurrency)
	for i := range reqs {
		eg.Go(func() error {
			one(i)
			return nil
		})
	}
	_ = eg.Wait()
	return results
}
