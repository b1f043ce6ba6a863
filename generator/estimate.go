package generator

import (
	"fmt"
	"log/slog"

	"github.com/randalmurphal/contentkit/model"
	"github.com/randalmurphal/contentkit/template"
)

// Estimate is a pre-flight cost projection. Error is set if and only if
// Success is false.
type Estimate struct {
	Success                   bool    `json:"success"`
	EstimatedPromptTokens     int     `json:"estimated_prompt_tokens"`
	EstimatedCompletionTokens int     `json:"estimated_completion_tokens"`
	EstimatedTotalTokens      int     `json:"estimated_total_tokens"`
	EstimatedCost             float64 `json:"estimated_cost"`
	Model                     string  `json:"model"`
	Error                     string  `json:"error,omitempty"`
}

// EstimateCost renders the prompt, counts its tokens, assumes the
// completion uses 60% of the template's recommended max tokens, and prices
// both with the client's price table. It makes no remote call. An empty
// modelName uses the estimate model; unknown models cost zero.
func (g *Generator) EstimateCost(templateName string, vars map[string]any, modelName string) Estimate {
	if modelName == "" {
		modelName = g.estimateModel
	}
	est := Estimate{Model: modelName}

	tmpl, prompt, err := g.store.Resolve(templateName, vars, template.RenderOptions{IncludeSystem: true})
	if err != nil {
		est.Error = err.Error()
		return est
	}

	est.EstimatedPromptTokens = g.counter(modelName).Count(prompt)
	est.EstimatedCompletionTokens = int(float64(tmpl.MaxTokens) * completionShare)
	est.EstimatedTotalTokens = est.EstimatedPromptTokens + est.EstimatedCompletionTokens

	prices := model.DefaultPrices
	if g.client != nil {
		prices = g.client.Prices()
	}
	cost, known := prices.Cost(modelName, est.EstimatedPromptTokens, est.EstimatedCompletionTokens)
	if !known {
		g.logger.Warn("unknown model for cost estimate", slog.String("model", modelName))
	}
	est.EstimatedCost = cost
	est.Success = true
	return est
}

// TemplateSummary describes one available template.
type TemplateSummary struct {
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	Category          string   `json:"category"`
	Version           string   `json:"version"`
	RequiredVariables []string `json:"required_variables"`
}

// ListAvailableTemplates summarizes every enabled template, sorted by name.
func (g *Generator) ListAvailableTemplates() []TemplateSummary {
	names := g.store.List(template.ListOptions{})
	out := make([]TemplateSummary, 0, len(names))
	for _, name := range names {
		info, err := g.store.Info(name)
		if err != nil {
			// Removed between List and Info.
			continue
		}
		out = append(out, TemplateSummary{
			Name:              name,
			Description:       info.Description,
			Category:          info.Category,
			Version:           info.Version,
			RequiredVariables: append([]string{}, info.RequiredVariables...),
		})
	}
	return out
}

// ValidateTemplateVariables reports which required variables vars lacks.
// An unknown template yields false and a single explanatory message.
func (g *Generator) ValidateTemplateVariables(templateName string, vars map[string]any) (bool, []string) {
	tmpl, err := g.store.Get(templateName)
	if err != nil {
		return false, []string{fmt.Sprintf("Template '%s' not found", templateName)}
	}
	return tmpl.ValidateVariables(vars)
}

// RegisterTemplate builds a template and adds it to the store, replacing
// any template of the same name. An empty system message gets the default.
func (g *Generator) RegisterTemplate(name, body, system string, opts ...template.Option) (*template.Template, error) {
	if system == "" {
		system = template.DefaultSystemInstructions
	}
	tmpl, err := template.New(name, body, append([]template.Option{template.WithSystemInstructions(system)}, opts...)...)
	if err != nil {
		return nil, err
	}
	if err := g.store.Register(tmpl); err != nil {
		return nil, err
	}
	return tmpl.Clone(), nil
}
