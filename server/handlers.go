package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/randalmurphal/contentkit/extract"
	"github.com/randalmurphal/contentkit/generator"
	"github.com/randalmurphal/contentkit/template"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// GenerateRequest is the body of POST /generate.
type GenerateRequest struct {
	TemplateName string              `json:"template_name" validate:"required"`
	Variables    map[string]any      `json:"variables"`
	Overrides    generator.Overrides `json:"overrides"`
	UseCache     *bool               `json:"use_cache,omitempty"`
	Retry        *bool               `json:"retry_on_failure,omitempty"`
}

func (req GenerateRequest) options() generator.GenerateOptions {
	opts := generator.DefaultGenerateOptions()
	if req.UseCache != nil {
		opts.UseCache = *req.UseCache
	}
	if req.Retry != nil {
		opts.RetryOnFailure = *req.Retry
	}
	return opts
}

// VariationsRequest is the body of POST /variations.
type VariationsRequest struct {
	TemplateName     string                      `json:"template_name" validate:"required"`
	Variables        map[string]any              `json:"variables"`
	Count            int                         `json:"count" validate:"omitempty,min=1,max=10"`
	TemperatureRange *generator.TemperatureRange `json:"temperature_range,omitempty"`
}

// BatchRequest is the body of POST /batch.
type BatchRequest struct {
	Requests []generator.BatchRequest `json:"requests" validate:"required,min=1,max=100"`
	Parallel bool                     `json:"parallel"`
}

// EstimateRequest is the body of POST /estimate.
type EstimateRequest struct {
	TemplateName string         `json:"template_name" validate:"required"`
	Variables    map[string]any `json:"variables"`
	Model        string         `json:"model"`
}

// ExtractRequest is the body of POST /extract.
type ExtractRequest struct {
	Content string `json:"content" validate:"required"`
	Kind    string `json:"kind" validate:"omitempty,oneof=items sections faq data all"`
}

// Results wraps the results of the multi-result endpoints.
type Results struct {
	Results    []*generator.Result `json:"results"`
	Successful int                 `json:"successful"`
	Failed     int                 `json:"failed"`
}

func newResults(rs []*generator.Result) Results {
	out := Results{Results: rs}
	if out.Results == nil {
		out.Results = []*generator.Result{}
	}
	for _, r := range rs {
		if r.Success {
			out.Successful++
		} else {
			out.Failed++
		}
	}
	return out
}

// decode reads and validates a JSON body, answering 400 itself on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid request body", err)
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "validation error: "+err.Error(), nil)
		return false
	}
	return true
}

func (s *Server) listTemplates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category, tag, query := q.Get("category"), q.Get("tag"), q.Get("q")

	summaries := s.gen.ListAvailableTemplates()
	if category == "" && tag == "" && query == "" {
		respondJSON(w, http.StatusOK, summaries)
		return
	}

	keep := make(map[string]bool)
	var opts template.ListOptions
	opts.Category = category
	if tag != "" {
		opts.Tags = strings.Split(tag, ",")
	}
	for _, name := range s.gen.Store().List(opts) {
		keep[name] = true
	}

	out := make([]generator.TemplateSummary, 0, len(summaries))
	if query != "" {
		// Search order is relevance order.
		byName := make(map[string]generator.TemplateSummary, len(summaries))
		for _, t := range summaries {
			byName[t.Name] = t
		}
		for _, name := range s.gen.Store().Search(query) {
			if t, ok := byName[name]; ok && keep[name] {
				out = append(out, t)
			}
		}
	} else {
		for _, t := range summaries {
			if keep[t.Name] {
				out = append(out, t)
			}
		}
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) getTemplate(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	info, err := s.gen.Store().Info(name)
	if err != nil {
		s.respondError(w, r, statusFor(err), err.Error(), err)
		return
	}
	respondJSON(w, http.StatusOK, info)
}

func (s *Server) generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if !s.decode(w, r, &req) {
		return
	}
	res := s.gen.Generate(r.Context(), req.TemplateName, req.Variables, req.Overrides, req.options())
	respondJSON(w, resultStatus(res), res)
}

func (s *Server) variations(w http.ResponseWriter, r *http.Request) {
	var req VariationsRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Count == 0 {
		req.Count = generator.DefaultVariationCount
	}
	if tr := req.TemperatureRange; tr != nil && tr.Min > tr.Max {
		s.respondError(w, r, http.StatusBadRequest, "temperature_range min must not exceed max", nil)
		return
	}
	rs := s.gen.GenerateMultipleVariations(r.Context(), req.TemplateName, req.Variables, req.Count, req.TemperatureRange)
	respondJSON(w, http.StatusOK, newResults(rs))
}

func (s *Server) batch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if !s.decode(w, r, &req) {
		return
	}
	rs := s.gen.GenerateBatch(r.Context(), req.Requests, req.Parallel)
	respondJSON(w, http.StatusOK, newResults(rs))
}

func (s *Server) estimate(w http.ResponseWriter, r *http.Request) {
	var req EstimateRequest
	if !s.decode(w, r, &req) {
		return
	}
	est := s.gen.EstimateCost(req.TemplateName, req.Variables, req.Model)
	status := http.StatusOK
	if !est.Success {
		status = http.StatusUnprocessableEntity
	}
	respondJSON(w, status, est)
}

func (s *Server) extract(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if !s.decode(w, r, &req) {
		return
	}
	kind := extract.KindAll
	if req.Kind != "" {
		kind = extract.Kind(req.Kind)
	}
	respondJSON(w, http.StatusOK, extract.Parse(req.Content).Select(kind))
}

func (s *Server) history(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := generator.HistoryFilter{Template: q.Get("template")}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.respondError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid limit %q", v), err)
			return
		}
		f.Limit = n
	}
	if v := q.Get("success_only"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			s.respondError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid success_only %q", v), err)
			return
		}
		f.SuccessOnly = b
	}

	if v := q.Get("since"); v != "" {
		t, err := parseSince(v)
		if err != nil {
			s.respondError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid since %q, use RFC 3339 or YYYY-MM-DD", v), err)
			return
		}
		f.Since = t
	}

	h := s.gen.History(f)
	if h == nil {
		h = []*generator.Result{}
	}
	respondJSON(w, http.StatusOK, h)
}

// parseSince accepts an RFC 3339 timestamp or a UTC calendar date.
func parseSince(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, v)
}

var contentTypes = map[generator.Format]string{
	generator.FormatJSON: "application/json",
	generator.FormatCSV:  "text/csv; charset=utf-8",
	generator.FormatText: "text/plain; charset=utf-8",
}

func (s *Server) exportHistory(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("format")
	if raw == "" {
		raw = string(generator.FormatJSON)
	}
	format, err := generator.ParseFormat(raw)
	if err != nil {
		s.respondError(w, r, statusFor(err), err.Error(), err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="content_history_%s.%s"`, s.gen.SessionID()[:8], format))
	if err := s.gen.WriteHistory(w, format); err != nil {
		s.logger.ErrorContext(r.Context(), "history export failed", slog.Any("error", err))
	}
}

func (s *Server) clearHistory(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]int{"cleared": s.gen.ClearHistory()})
}

func (s *Server) clearCache(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]int{"cleared": s.gen.ClearCache()})
}

func (s *Server) stats(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.gen.Statistics())
}
